package photos

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/acedreamer/onam-photo-hub/internal/domain/enums"
	"github.com/acedreamer/onam-photo-hub/internal/domain/model"
	pgrepo "github.com/acedreamer/onam-photo-hub/internal/repo/postgres"
	"github.com/acedreamer/onam-photo-hub/internal/services/media"
)

var (
	ErrValidation    = errors.New("invalid photo payload")
	ErrPhotoNotFound = errors.New("photo not found")
	ErrForbidden     = errors.New("forbidden")
	ErrMissingMedia  = errors.New("photo has no media reference")
	ErrMediaDelete   = errors.New("media delete failed")
)

const maxCaptionLen = 500

type PhotoStore interface {
	List(ctx context.Context, q pgrepo.PhotoQuery) ([]model.Photo, error)
	Get(ctx context.Context, photoID string) (model.Photo, error)
	Insert(ctx context.Context, photo model.Photo) error
	Delete(ctx context.Context, photoID string) (bool, error)
}

type LikedIDsSource interface {
	LikedPhotoIDs(ctx context.Context, userID string) ([]string, error)
}

type Service struct {
	photos   PhotoStore
	liked    LikedIDsSource
	storage  media.Storage
	pageSize int
	logger   *zap.Logger
}

// Page is one gallery page. HasMore is derived from the page being full, so
// the last exactly-full page costs one extra empty fetch.
type Page struct {
	Items     []model.Photo
	PageIndex int
	HasMore   bool
}

// ListQuery narrows one page request. Viewer is optional; when set the
// user_has_liked flag is stamped onto the returned items.
type ListQuery struct {
	Category  enums.Category
	UserID    string
	Sort      enums.SortKey
	PageIndex int
	Viewer    string
}

// UploadInput carries the multipart upload into the service.
type UploadInput struct {
	UserID        string
	FileName      string
	ContentType   string
	Body          io.Reader
	Size          int64
	Caption       string
	Category      enums.Category
	AllowDownload bool
}

func NewService(photos PhotoStore, liked LikedIDsSource, storage media.Storage, pageSize int, logger *zap.Logger) *Service {
	if pageSize <= 0 {
		pageSize = 12
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		photos:   photos,
		liked:    liked,
		storage:  storage,
		pageSize: pageSize,
		logger:   logger,
	}
}

// List fetches one fixed-size page and, when a viewer is known, joins their
// liked-id set onto the items.
func (s *Service) List(ctx context.Context, q ListQuery) (Page, error) {
	if s.photos == nil {
		return Page{}, fmt.Errorf("photo store is not configured")
	}
	if q.PageIndex < 0 {
		return Page{}, ErrValidation
	}
	if q.Category != "" {
		if _, ok := enums.ParseCategory(string(q.Category)); !ok {
			return Page{}, ErrValidation
		}
	}

	items, err := s.photos.List(ctx, pgrepo.PhotoQuery{
		Category:  q.Category,
		UserID:    q.UserID,
		Sort:      q.Sort,
		PageIndex: q.PageIndex,
		PageSize:  s.pageSize,
	})
	if err != nil {
		return Page{}, fmt.Errorf("list photos: %w", err)
	}

	if err := s.stampLiked(ctx, q.Viewer, items); err != nil {
		return Page{}, err
	}

	return Page{
		Items:     items,
		PageIndex: q.PageIndex,
		HasMore:   len(items) == s.pageSize,
	}, nil
}

func (s *Service) Get(ctx context.Context, photoID, viewer string) (model.Photo, error) {
	if s.photos == nil {
		return model.Photo{}, fmt.Errorf("photo store is not configured")
	}
	if strings.TrimSpace(photoID) == "" {
		return model.Photo{}, ErrValidation
	}

	photo, err := s.photos.Get(ctx, photoID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrPhotoNotFound) {
			return model.Photo{}, ErrPhotoNotFound
		}
		return model.Photo{}, fmt.Errorf("get photo: %w", err)
	}

	items := []model.Photo{photo}
	if err := s.stampLiked(ctx, viewer, items); err != nil {
		return model.Photo{}, err
	}

	return items[0], nil
}

// Upload pushes the image to the media CDN first and only then writes the
// record. A failed insert deletes the uploaded asset so the CDN holds no
// orphans.
func (s *Service) Upload(ctx context.Context, in UploadInput) (model.Photo, error) {
	if s.photos == nil || s.storage == nil {
		return model.Photo{}, fmt.Errorf("photo dependencies are not configured")
	}
	if strings.TrimSpace(in.UserID) == "" || in.Body == nil {
		return model.Photo{}, ErrValidation
	}
	if len(in.Caption) > maxCaptionLen {
		return model.Photo{}, ErrValidation
	}
	category, ok := enums.ParseCategory(string(in.Category))
	if !ok {
		return model.Photo{}, ErrValidation
	}

	name, err := media.BuildObjectName(in.UserID, in.FileName)
	if err != nil {
		return model.Photo{}, ErrValidation
	}

	upload, err := s.storage.Upload(ctx, name, in.ContentType, in.Body, in.Size)
	if err != nil {
		return model.Photo{}, fmt.Errorf("upload media: %w", err)
	}

	photo := model.Photo{
		ID:            uuid.NewString(),
		UserID:        in.UserID,
		SRC:           upload.URL,
		Caption:       strings.TrimSpace(in.Caption),
		Category:      category,
		MediaID:       upload.MediaID,
		AllowDownload: in.AllowDownload,
	}
	if err := s.photos.Insert(ctx, photo); err != nil {
		if delErr := s.storage.Delete(ctx, upload.MediaID); delErr != nil {
			s.logger.Warn("remove media after failed insert",
				zap.String("media_id", upload.MediaID),
				zap.Error(delErr),
			)
		}
		return model.Photo{}, fmt.Errorf("insert photo: %w", err)
	}

	return photo, nil
}

// Delete is admin-only. The CDN asset goes first; when that fails the record
// stays so nothing ends up pointing at destroyed media while still listed.
func (s *Service) Delete(ctx context.Context, photoID string, actorIsAdmin bool) error {
	if s.photos == nil {
		return fmt.Errorf("photo store is not configured")
	}
	if !actorIsAdmin {
		return ErrForbidden
	}
	if strings.TrimSpace(photoID) == "" {
		return ErrValidation
	}

	photo, err := s.photos.Get(ctx, photoID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrPhotoNotFound) {
			return ErrPhotoNotFound
		}
		return fmt.Errorf("get photo: %w", err)
	}

	if strings.TrimSpace(photo.MediaID) == "" {
		// A record without a media reference is misconfigured; refuse to
		// mutate anything rather than delete blind.
		return ErrMissingMedia
	}
	if s.storage != nil {
		if err := s.storage.Delete(ctx, photo.MediaID); err != nil {
			return fmt.Errorf("%w: %s", ErrMediaDelete, err)
		}
	}

	deleted, err := s.photos.Delete(ctx, photoID)
	if err != nil {
		return fmt.Errorf("delete photo record: %w", err)
	}
	if !deleted {
		// The media is already gone; a concurrent delete finished first.
		return ErrPhotoNotFound
	}

	return nil
}

func (s *Service) PageSize() int {
	return s.pageSize
}

func (s *Service) stampLiked(ctx context.Context, viewer string, items []model.Photo) error {
	if strings.TrimSpace(viewer) == "" || s.liked == nil || len(items) == 0 {
		return nil
	}

	ids, err := s.liked.LikedPhotoIDs(ctx, viewer)
	if err != nil {
		return fmt.Errorf("load liked ids: %w", err)
	}

	likedSet := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		likedSet[id] = struct{}{}
	}
	for i := range items {
		_, items[i].UserHasLiked = likedSet[items[i].ID]
	}

	return nil
}
