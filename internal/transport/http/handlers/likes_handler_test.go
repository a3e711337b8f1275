package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/acedreamer/onam-photo-hub/internal/domain/model"
	authsvc "github.com/acedreamer/onam-photo-hub/internal/services/auth"
	likessvc "github.com/acedreamer/onam-photo-hub/internal/services/likes"
)

type likeStoreStub struct {
	liked map[string]bool
}

func (s *likeStoreStub) Insert(_ context.Context, _, photoID string) (bool, error) {
	if s.liked == nil {
		s.liked = map[string]bool{}
	}
	if s.liked[photoID] {
		return false, nil
	}
	s.liked[photoID] = true
	return true, nil
}

func (s *likeStoreStub) Delete(_ context.Context, _, photoID string) (bool, error) {
	if !s.liked[photoID] {
		return false, nil
	}
	delete(s.liked, photoID)
	return true, nil
}

func (s *likeStoreStub) ListPhotoIDs(context.Context, string) ([]string, error) {
	ids := make([]string, 0, len(s.liked))
	for id := range s.liked {
		ids = append(ids, id)
	}
	return ids, nil
}

type photoCheckerStub struct {
	known map[string]bool
}

func (s *photoCheckerStub) Exists(_ context.Context, photoID string) (bool, error) {
	return s.known[photoID], nil
}

type throttledLimiter struct {
	retryAfter int64
}

func (l *throttledLimiter) AllowToggle(context.Context, string) (int64, bool, error) {
	return l.retryAfter, false, nil
}

func authedLikeRequest(method, target, photoID string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	ctx := chi.NewRouteContext()
	ctx.URLParams.Add("id", photoID)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, ctx))
	return req.WithContext(authsvc.WithIdentity(req.Context(), authsvc.Identity{
		UserID: "u-1",
		Role:   model.RoleUser,
	}))
}

func TestLikeRequiresAuth(t *testing.T) {
	service := likessvc.NewService(&likeStoreStub{}, nil, nil, nil, nil)
	handler := NewLikesHandler(service)

	req := httptest.NewRequest(http.MethodPut, "/photos/ph-1/like", nil)
	rr := httptest.NewRecorder()
	handler.Like(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status %d", rr.Code)
	}
}

func TestLikeToggleHappyPath(t *testing.T) {
	store := &likeStoreStub{}
	photos := &photoCheckerStub{known: map[string]bool{"ph-1": true}}
	handler := NewLikesHandler(likessvc.NewService(store, photos, nil, nil, nil))

	rr := httptest.NewRecorder()
	handler.Like(rr, authedLikeRequest(http.MethodPut, "/photos/ph-1/like", "ph-1"))
	if rr.Code != http.StatusOK {
		t.Fatalf("like status %d: %s", rr.Code, rr.Body.String())
	}
	if !store.liked["ph-1"] {
		t.Fatalf("like row not written")
	}

	rr = httptest.NewRecorder()
	handler.Unlike(rr, authedLikeRequest(http.MethodDelete, "/photos/ph-1/like", "ph-1"))
	if rr.Code != http.StatusOK {
		t.Fatalf("unlike status %d: %s", rr.Code, rr.Body.String())
	}
	if store.liked["ph-1"] {
		t.Fatalf("like row not removed")
	}
}

func TestLikeThrottledMapsTo429(t *testing.T) {
	photos := &photoCheckerStub{known: map[string]bool{"ph-1": true}}
	service := likessvc.NewService(&likeStoreStub{}, photos, nil, &throttledLimiter{retryAfter: 9}, nil)
	handler := NewLikesHandler(service)

	rr := httptest.NewRecorder()
	handler.Like(rr, authedLikeRequest(http.MethodPut, "/photos/ph-1/like", "ph-1"))

	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("unexpected status %d", rr.Code)
	}
	if rr.Header().Get("Retry-After") != "9" {
		t.Fatalf("Retry-After header missing: %q", rr.Header().Get("Retry-After"))
	}

	var body struct {
		Code          string `json:"code"`
		RetryAfterSec int64  `json:"retry_after_sec"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Code != "TOO_MANY_TOGGLES" || body.RetryAfterSec != 9 {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestLikedIDsReturnsViewerSet(t *testing.T) {
	store := &likeStoreStub{liked: map[string]bool{"ph-1": true, "ph-2": true}}
	handler := NewLikesHandler(likessvc.NewService(store, nil, nil, nil, nil))

	req := httptest.NewRequest(http.MethodGet, "/likes", nil)
	req = req.WithContext(authsvc.WithIdentity(req.Context(), authsvc.Identity{
		UserID: "u-1",
		Role:   model.RoleUser,
	}))
	rr := httptest.NewRecorder()
	handler.LikedIDs(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rr.Code)
	}
	var body struct {
		PhotoIDs []string `json:"photo_ids"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(body.PhotoIDs) != 2 {
		t.Fatalf("unexpected ids: %v", body.PhotoIDs)
	}
}
