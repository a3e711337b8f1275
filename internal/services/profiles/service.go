package profiles

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/acedreamer/onam-photo-hub/internal/domain/model"
	pgrepo "github.com/acedreamer/onam-photo-hub/internal/repo/postgres"
	"github.com/acedreamer/onam-photo-hub/internal/services/media"
)

var (
	ErrValidation      = errors.New("invalid profile payload")
	ErrProfileNotFound = errors.New("profile not found")
)

const (
	maxFullNameLen = 120
	maxBioLen      = 600
)

type ProfileStore interface {
	Get(ctx context.Context, userID string) (model.Profile, error)
	Update(ctx context.Context, userID, fullName, avatarURL, bio string) error
}

type Service struct {
	profiles ProfileStore
	storage  media.Storage
}

// UpdateInput is the owner's profile edit. Nil pointer means keep the current
// value; Avatar replaces the avatar image via the media CDN.
type UpdateInput struct {
	FullName *string
	Bio      *string
	Avatar   *AvatarUpload
}

type AvatarUpload struct {
	FileName    string
	ContentType string
	Body        io.Reader
	Size        int64
}

func NewService(profiles ProfileStore, storage media.Storage) *Service {
	return &Service{profiles: profiles, storage: storage}
}

func (s *Service) Get(ctx context.Context, userID string) (model.Profile, error) {
	if s.profiles == nil {
		return model.Profile{}, fmt.Errorf("profile store is not configured")
	}
	if strings.TrimSpace(userID) == "" {
		return model.Profile{}, ErrValidation
	}

	profile, err := s.profiles.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrProfileNotFound) {
			return model.Profile{}, ErrProfileNotFound
		}
		return model.Profile{}, fmt.Errorf("get profile: %w", err)
	}

	return profile, nil
}

// Update edits the caller's own profile. Route-level auth guarantees userID is
// the authenticated subject.
func (s *Service) Update(ctx context.Context, userID string, in UpdateInput) (model.Profile, error) {
	if s.profiles == nil {
		return model.Profile{}, fmt.Errorf("profile store is not configured")
	}
	if strings.TrimSpace(userID) == "" {
		return model.Profile{}, ErrValidation
	}

	current, err := s.Get(ctx, userID)
	if err != nil {
		return model.Profile{}, err
	}

	fullName := current.FullName
	if in.FullName != nil {
		fullName = strings.TrimSpace(*in.FullName)
		if fullName == "" || len(fullName) > maxFullNameLen {
			return model.Profile{}, ErrValidation
		}
	}

	bio := current.Bio
	if in.Bio != nil {
		bio = strings.TrimSpace(*in.Bio)
		if len(bio) > maxBioLen {
			return model.Profile{}, ErrValidation
		}
	}

	avatarURL := current.AvatarURL
	if in.Avatar != nil {
		if s.storage == nil {
			return model.Profile{}, fmt.Errorf("media storage is not configured")
		}
		name, err := media.BuildObjectName(userID, in.Avatar.FileName)
		if err != nil {
			return model.Profile{}, ErrValidation
		}
		upload, err := s.storage.Upload(ctx, name, in.Avatar.ContentType, in.Avatar.Body, in.Avatar.Size)
		if err != nil {
			return model.Profile{}, fmt.Errorf("upload avatar: %w", err)
		}
		avatarURL = upload.URL
	}

	if err := s.profiles.Update(ctx, userID, fullName, avatarURL, bio); err != nil {
		if errors.Is(err, pgrepo.ErrProfileNotFound) {
			return model.Profile{}, ErrProfileNotFound
		}
		return model.Profile{}, fmt.Errorf("update profile: %w", err)
	}

	return s.Get(ctx, userID)
}
