package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/acedreamer/onam-photo-hub/internal/domain/enums"
	"github.com/acedreamer/onam-photo-hub/internal/domain/model"
	pgrepo "github.com/acedreamer/onam-photo-hub/internal/repo/postgres"
	authsvc "github.com/acedreamer/onam-photo-hub/internal/services/auth"
	photosvc "github.com/acedreamer/onam-photo-hub/internal/services/photos"
	"github.com/acedreamer/onam-photo-hub/internal/transport/http/dto"
)

type photoStoreStub struct {
	photos []model.Photo
	gotQ   pgrepo.PhotoQuery
}

func (s *photoStoreStub) List(_ context.Context, q pgrepo.PhotoQuery) ([]model.Photo, error) {
	s.gotQ = q
	end := q.PageSize
	if end > len(s.photos) {
		end = len(s.photos)
	}
	return s.photos[:end], nil
}

func (s *photoStoreStub) Get(_ context.Context, photoID string) (model.Photo, error) {
	for _, photo := range s.photos {
		if photo.ID == photoID {
			return photo, nil
		}
	}
	return model.Photo{}, pgrepo.ErrPhotoNotFound
}

func (s *photoStoreStub) Insert(_ context.Context, photo model.Photo) error {
	s.photos = append(s.photos, photo)
	return nil
}

func (s *photoStoreStub) Delete(_ context.Context, photoID string) (bool, error) {
	for i, photo := range s.photos {
		if photo.ID == photoID {
			s.photos = append(s.photos[:i], s.photos[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func seedStub(n int) *photoStoreStub {
	stub := &photoStoreStub{}
	for i := 0; i < n; i++ {
		stub.photos = append(stub.photos, model.Photo{
			ID:       fmt.Sprintf("ph-%d", i),
			UserID:   "u-1",
			SRC:      fmt.Sprintf("https://cdn.example/ph-%d.jpg", i),
			Category: enums.CategoryCandid,
		})
	}
	return stub
}

func TestPhotosListMapsPageParam(t *testing.T) {
	stub := seedStub(12)
	handler := NewPhotosHandler(photosvc.NewService(stub, nil, nil, 12, nil), 0)

	req := httptest.NewRequest(http.MethodGet, "/photos?page=3&sort=like_count&category=candid", nil)
	rr := httptest.NewRecorder()
	handler.List(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", rr.Code, rr.Body.String())
	}
	if stub.gotQ.PageIndex != 2 || stub.gotQ.PageSize != 12 {
		t.Fatalf("page param not mapped: %+v", stub.gotQ)
	}
	if stub.gotQ.Sort != enums.SortLikeCount || stub.gotQ.Category != enums.CategoryCandid {
		t.Fatalf("filter params not mapped: %+v", stub.gotQ)
	}

	var body dto.PhotoListResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Page != 3 || !body.HasMore || len(body.Items) != 12 {
		t.Fatalf("unexpected page envelope: page=%d hasMore=%v items=%d",
			body.Page, body.HasMore, len(body.Items))
	}
}

func TestPhotosListRejectsUnknownCategory(t *testing.T) {
	handler := NewPhotosHandler(photosvc.NewService(seedStub(1), nil, nil, 12, nil), 0)

	req := httptest.NewRequest(http.MethodGet, "/photos?category=selfies", nil)
	rr := httptest.NewRecorder()
	handler.List(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status %d", rr.Code)
	}
}

func TestPhotosDeleteForbiddenForUserRole(t *testing.T) {
	stub := seedStub(1)
	handler := NewPhotosHandler(photosvc.NewService(stub, nil, nil, 12, nil), 0)

	req := httptest.NewRequest(http.MethodDelete, "/photos/ph-0", nil)
	ctx := chi.NewRouteContext()
	ctx.URLParams.Add("id", "ph-0")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, ctx))
	req = req.WithContext(authsvc.WithIdentity(req.Context(), authsvc.Identity{
		UserID: "u-2",
		Role:   model.RoleUser,
	}))
	rr := httptest.NewRecorder()
	handler.Delete(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("unexpected status %d: %s", rr.Code, rr.Body.String())
	}
	if len(stub.photos) != 1 {
		t.Fatalf("record must survive forbidden delete")
	}
}

func TestPhotosGetNotFound(t *testing.T) {
	handler := NewPhotosHandler(photosvc.NewService(seedStub(0), nil, nil, 12, nil), 0)

	req := httptest.NewRequest(http.MethodGet, "/photos/ghost", nil)
	ctx := chi.NewRouteContext()
	ctx.URLParams.Add("id", "ghost")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, ctx))
	rr := httptest.NewRecorder()
	handler.Get(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("unexpected status %d", rr.Code)
	}
}
