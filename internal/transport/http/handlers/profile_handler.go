package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/acedreamer/onam-photo-hub/internal/domain/model"
	authsvc "github.com/acedreamer/onam-photo-hub/internal/services/auth"
	profilesvc "github.com/acedreamer/onam-photo-hub/internal/services/profiles"
	"github.com/acedreamer/onam-photo-hub/internal/transport/http/dto"
	httperrors "github.com/acedreamer/onam-photo-hub/internal/transport/http/errors"
)

const maxAvatarSize = 5 << 20

type ProfileHandler struct {
	service *profilesvc.Service
}

func NewProfileHandler(service *profilesvc.Service) *ProfileHandler {
	return &ProfileHandler{service: service}
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "PROFILE_SERVICE_UNAVAILABLE", "profile service is unavailable")
		return
	}

	profile, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleProfileError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, mapProfile(profile))
}

// UpdateOwn edits the authenticated user's profile. Multipart form: optional
// full_name and bio fields, optional avatar file.
func (h *ProfileHandler) UpdateOwn(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "PROFILE_SERVICE_UNAVAILABLE", "profile service is unavailable")
		return
	}
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxAvatarSize)
	if err := r.ParseMultipartForm(maxAvatarSize); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "multipart form is too large or malformed")
		return
	}

	var in profilesvc.UpdateInput
	if values, ok := r.MultipartForm.Value["full_name"]; ok && len(values) > 0 {
		in.FullName = &values[0]
	}
	if values, ok := r.MultipartForm.Value["bio"]; ok && len(values) > 0 {
		in.Bio = &values[0]
	}
	if file, header, err := r.FormFile("avatar"); err == nil {
		defer file.Close()
		in.Avatar = &profilesvc.AvatarUpload{
			FileName:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Body:        file,
			Size:        header.Size,
		}
	}

	profile, err := h.service.Update(r.Context(), identity.UserID, in)
	if err != nil {
		handleProfileError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, mapProfile(profile))
}

func handleProfileError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, profilesvc.ErrProfileNotFound):
		writeNotFound(w, "PROFILE_NOT_FOUND", "profile not found")
	case errors.Is(err, profilesvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", "invalid profile request")
	default:
		writeInternal(w, "INTERNAL_ERROR", "failed to process profile request")
	}
}

func mapProfile(profile model.Profile) dto.ProfileResponse {
	return dto.ProfileResponse{
		UserID:    profile.UserID,
		FullName:  profile.FullName,
		AvatarURL: profile.AvatarURL,
		Bio:       profile.Bio,
		CreatedAt: profile.CreatedAt,
		UpdatedAt: profile.UpdatedAt,
	}
}
