package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	authsvc "github.com/acedreamer/onam-photo-hub/internal/services/auth"
	likessvc "github.com/acedreamer/onam-photo-hub/internal/services/likes"
	"github.com/acedreamer/onam-photo-hub/internal/transport/http/dto"
	httperrors "github.com/acedreamer/onam-photo-hub/internal/transport/http/errors"
)

type LikesHandler struct {
	service *likessvc.Service
}

func NewLikesHandler(service *likessvc.Service) *LikesHandler {
	return &LikesHandler{service: service}
}

func (h *LikesHandler) Like(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, true)
}

func (h *LikesHandler) Unlike(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, false)
}

func (h *LikesHandler) toggle(w http.ResponseWriter, r *http.Request, liked bool) {
	if h.service == nil {
		writeInternal(w, "LIKES_SERVICE_UNAVAILABLE", "likes service is unavailable")
		return
	}
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}

	photoID := chi.URLParam(r, "id")

	var err error
	if liked {
		err = h.service.Like(r.Context(), identity.UserID, photoID)
	} else {
		err = h.service.Unlike(r.Context(), identity.UserID, photoID)
	}
	if err != nil {
		var tooFast *likessvc.TooFastError
		switch {
		case errors.As(err, &tooFast):
			w.Header().Set("Retry-After", strconv.FormatInt(tooFast.RetryAfterSec, 10))
			httperrors.Write(w, http.StatusTooManyRequests, httperrors.RateLimitError{
				Code:          "TOO_MANY_TOGGLES",
				Message:       "like toggles are rate limited",
				RetryAfterSec: tooFast.RetryAfterSec,
			})
		case errors.Is(err, likessvc.ErrPhotoNotFound):
			writeNotFound(w, "PHOTO_NOT_FOUND", "photo not found")
		case errors.Is(err, likessvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid like request")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to toggle like")
		}
		return
	}

	httperrors.Write(w, http.StatusOK, dto.LikeToggleResponse{OK: true})
}

// LikedIDs returns the authenticated viewer's liked photo ids, used to derive
// the user_has_liked flag on fetched pages.
func (h *LikesHandler) LikedIDs(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "LIKES_SERVICE_UNAVAILABLE", "likes service is unavailable")
		return
	}
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}

	ids, err := h.service.LikedPhotoIDs(r.Context(), identity.UserID)
	if err != nil {
		if errors.Is(err, likessvc.ErrValidation) {
			writeBadRequest(w, "VALIDATION_ERROR", "invalid likes request")
			return
		}
		writeInternal(w, "INTERNAL_ERROR", "failed to load liked ids")
		return
	}

	httperrors.Write(w, http.StatusOK, dto.LikedIDsResponse{PhotoIDs: ids})
}
