package likes

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

var (
	ErrValidation    = errors.New("invalid like payload")
	ErrPhotoNotFound = errors.New("photo not found")
	ErrTooFast       = errors.New("too many like toggles")
)

type LikeStore interface {
	Insert(ctx context.Context, userID, photoID string) (bool, error)
	Delete(ctx context.Context, userID, photoID string) (bool, error)
	ListPhotoIDs(ctx context.Context, userID string) ([]string, error)
}

type PhotoChecker interface {
	Exists(ctx context.Context, photoID string) (bool, error)
}

type LikedIDsCache interface {
	Get(ctx context.Context, userID string) ([]string, bool, error)
	Put(ctx context.Context, userID string, ids []string) error
	Invalidate(ctx context.Context, userID string) error
}

type ToggleLimiter interface {
	AllowToggle(ctx context.Context, userID string) (int64, bool, error)
}

// TooFastError carries the retry hint for a throttled toggle.
type TooFastError struct {
	RetryAfterSec int64
}

func (e *TooFastError) Error() string {
	return fmt.Sprintf("too many like toggles, retry in %ds", e.RetryAfterSec)
}

func (e *TooFastError) Is(target error) bool {
	return target == ErrTooFast
}

type Service struct {
	likes   LikeStore
	photos  PhotoChecker
	cache   LikedIDsCache
	limiter ToggleLimiter
	logger  *zap.Logger
}

func NewService(likes LikeStore, photos PhotoChecker, cache LikedIDsCache, limiter ToggleLimiter, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		likes:   likes,
		photos:  photos,
		cache:   cache,
		limiter: limiter,
		logger:  logger,
	}
}

// Like records the viewer's like for the photo. The operation is idempotent:
// liking an already liked photo succeeds without a second row.
func (s *Service) Like(ctx context.Context, userID, photoID string) error {
	return s.toggle(ctx, userID, photoID, true)
}

// Unlike removes the viewer's like. Unliking a photo that was never liked
// succeeds as a no-op.
func (s *Service) Unlike(ctx context.Context, userID, photoID string) error {
	return s.toggle(ctx, userID, photoID, false)
}

func (s *Service) toggle(ctx context.Context, userID, photoID string, liked bool) error {
	if s.likes == nil {
		return fmt.Errorf("like store is not configured")
	}
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(photoID) == "" {
		return ErrValidation
	}

	if s.limiter != nil {
		retryAfter, allowed, err := s.limiter.AllowToggle(ctx, userID)
		if err != nil {
			return fmt.Errorf("check toggle rate: %w", err)
		}
		if !allowed {
			return &TooFastError{RetryAfterSec: retryAfter}
		}
	}

	if liked && s.photos != nil {
		exists, err := s.photos.Exists(ctx, photoID)
		if err != nil {
			return fmt.Errorf("check photo: %w", err)
		}
		if !exists {
			return ErrPhotoNotFound
		}
	}

	var changed bool
	var err error
	if liked {
		changed, err = s.likes.Insert(ctx, userID, photoID)
	} else {
		changed, err = s.likes.Delete(ctx, userID, photoID)
	}
	if err != nil {
		return fmt.Errorf("toggle like: %w", err)
	}

	if changed && s.cache != nil {
		if err := s.cache.Invalidate(ctx, userID); err != nil {
			// The cached set expires on its own TTL; a failed invalidation
			// only delays the flag flip for other sessions.
			s.logger.Warn("invalidate liked ids cache",
				zap.String("user_id", userID),
				zap.Error(err),
			)
		}
	}

	return nil
}

// LikedPhotoIDs returns every photo id the user has liked, served from the
// redis set when warm and rebuilt from postgres on a miss.
func (s *Service) LikedPhotoIDs(ctx context.Context, userID string) ([]string, error) {
	if s.likes == nil {
		return nil, fmt.Errorf("like store is not configured")
	}
	if strings.TrimSpace(userID) == "" {
		return nil, ErrValidation
	}

	if s.cache != nil {
		ids, ok, err := s.cache.Get(ctx, userID)
		if err != nil {
			s.logger.Warn("read liked ids cache",
				zap.String("user_id", userID),
				zap.Error(err),
			)
		} else if ok {
			return ids, nil
		}
	}

	ids, err := s.likes.ListPhotoIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list liked photo ids: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Put(ctx, userID, ids); err != nil {
			s.logger.Warn("warm liked ids cache",
				zap.String("user_id", userID),
				zap.Error(err),
			)
		}
	}

	return ids, nil
}
