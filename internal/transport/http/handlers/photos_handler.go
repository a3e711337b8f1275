package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/acedreamer/onam-photo-hub/internal/domain/enums"
	"github.com/acedreamer/onam-photo-hub/internal/domain/model"
	"github.com/acedreamer/onam-photo-hub/internal/pkg/validate"
	authsvc "github.com/acedreamer/onam-photo-hub/internal/services/auth"
	photosvc "github.com/acedreamer/onam-photo-hub/internal/services/photos"
	"github.com/acedreamer/onam-photo-hub/internal/transport/http/dto"
	httperrors "github.com/acedreamer/onam-photo-hub/internal/transport/http/errors"
)

type PhotosHandler struct {
	service       *photosvc.Service
	maxUploadSize int64
}

func NewPhotosHandler(service *photosvc.Service, maxUploadSize int64) *PhotosHandler {
	if maxUploadSize <= 0 {
		maxUploadSize = 20 << 20
	}
	return &PhotosHandler{service: service, maxUploadSize: maxUploadSize}
}

// List serves one gallery page. Anonymous viewers get the page without the
// user_has_liked flag.
func (h *PhotosHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "PHOTOS_SERVICE_UNAVAILABLE", "photos service is unavailable")
		return
	}

	query := photosvc.ListQuery{Sort: enums.SortRecency}

	if raw := r.URL.Query().Get("category"); raw != "" && raw != "all" {
		category, ok := enums.ParseCategory(raw)
		if !ok {
			writeBadRequest(w, "VALIDATION_ERROR", "unknown category")
			return
		}
		query.Category = category
	}
	if raw := r.URL.Query().Get("sort"); raw != "" {
		sort, ok := enums.ParseSortKey(raw)
		if !ok {
			writeBadRequest(w, "VALIDATION_ERROR", "unknown sort key")
			return
		}
		query.Sort = sort
	}
	if raw := r.URL.Query().Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			writeBadRequest(w, "VALIDATION_ERROR", "page must be a positive integer")
			return
		}
		query.PageIndex = page - 1
	}
	query.UserID = r.URL.Query().Get("user_id")

	if identity, ok := authsvc.IdentityFromContext(r.Context()); ok {
		query.Viewer = identity.UserID
	}

	page, err := h.service.List(r.Context(), query)
	if err != nil {
		if errors.Is(err, photosvc.ErrValidation) {
			writeBadRequest(w, "VALIDATION_ERROR", "invalid listing request")
			return
		}
		writeInternal(w, "INTERNAL_ERROR", "failed to load photos")
		return
	}

	items := make([]dto.PhotoResponse, 0, len(page.Items))
	for _, photo := range page.Items {
		items = append(items, mapPhoto(photo))
	}

	httperrors.Write(w, http.StatusOK, dto.PhotoListResponse{
		Items:   items,
		Page:    page.PageIndex + 1,
		HasMore: page.HasMore,
	})
}

func (h *PhotosHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "PHOTOS_SERVICE_UNAVAILABLE", "photos service is unavailable")
		return
	}

	viewer := ""
	if identity, ok := authsvc.IdentityFromContext(r.Context()); ok {
		viewer = identity.UserID
	}

	photo, err := h.service.Get(r.Context(), chi.URLParam(r, "id"), viewer)
	if err != nil {
		switch {
		case errors.Is(err, photosvc.ErrPhotoNotFound):
			writeNotFound(w, "PHOTO_NOT_FOUND", "photo not found")
		case errors.Is(err, photosvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid photo request")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to load photo")
		}
		return
	}

	httperrors.Write(w, http.StatusOK, mapPhoto(photo))
}

// Upload accepts a multipart form with the image file plus caption, category
// and allow_download fields.
func (h *PhotosHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "PHOTOS_SERVICE_UNAVAILABLE", "photos service is unavailable")
		return
	}
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "multipart form is too large or malformed")
		return
	}

	if !validate.Required(r.FormValue("category")) {
		writeBadRequest(w, "VALIDATION_ERROR", "category field is required")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "file field is required")
		return
	}
	defer file.Close()

	photo, err := h.service.Upload(r.Context(), photosvc.UploadInput{
		UserID:        identity.UserID,
		FileName:      header.Filename,
		ContentType:   header.Header.Get("Content-Type"),
		Body:          file,
		Size:          header.Size,
		Caption:       r.FormValue("caption"),
		Category:      enums.Category(r.FormValue("category")),
		AllowDownload: r.FormValue("allow_download") == "true",
	})
	if err != nil {
		if errors.Is(err, photosvc.ErrValidation) {
			writeBadRequest(w, "VALIDATION_ERROR", "invalid upload request")
			return
		}
		writeInternal(w, "INTERNAL_ERROR", "failed to upload photo")
		return
	}

	httperrors.Write(w, http.StatusCreated, mapPhoto(photo))
}

// Delete removes a photo. Route-level middleware already requires the admin
// role; the service checks it again.
func (h *PhotosHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "PHOTOS_SERVICE_UNAVAILABLE", "photos service is unavailable")
		return
	}
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}

	err := h.service.Delete(r.Context(), chi.URLParam(r, "id"), identity.IsAdmin())
	if err != nil {
		switch {
		case errors.Is(err, photosvc.ErrForbidden):
			writeForbidden(w, "FORBIDDEN", "admin role required")
		case errors.Is(err, photosvc.ErrPhotoNotFound):
			writeNotFound(w, "PHOTO_NOT_FOUND", "photo not found")
		case errors.Is(err, photosvc.ErrMissingMedia):
			httperrors.Write(w, http.StatusConflict, httperrors.APIError{
				Code:    "MEDIA_REFERENCE_MISSING",
				Message: "photo record carries no media reference",
			})
		case errors.Is(err, photosvc.ErrMediaDelete):
			httperrors.Write(w, http.StatusBadGateway, httperrors.APIError{
				Code:    "MEDIA_DELETE_FAILED",
				Message: "media storage rejected the delete, photo kept",
			})
		case errors.Is(err, photosvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid delete request")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to delete photo")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func mapPhoto(photo model.Photo) dto.PhotoResponse {
	return dto.PhotoResponse{
		ID:             photo.ID,
		UserID:         photo.UserID,
		SRC:            photo.SRC,
		Caption:        photo.Caption,
		Category:       string(photo.Category),
		Likes:          photo.Likes,
		AllowDownload:  photo.AllowDownload,
		UploaderName:   photo.UploaderName,
		UploaderAvatar: photo.UploaderAvatar,
		CreatedAt:      photo.CreatedAt,
		UserHasLiked:   photo.UserHasLiked,
	}
}
