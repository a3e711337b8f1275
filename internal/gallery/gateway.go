package gallery

import (
	"context"
	"errors"

	"github.com/acedreamer/onam-photo-hub/internal/domain/enums"
	"github.com/acedreamer/onam-photo-hub/internal/domain/model"
)

var (
	ErrPhotoNotFound = errors.New("photo not found")
	ErrForbidden     = errors.New("forbidden")
	ErrMissingMedia  = errors.New("photo has no media reference")
)

// PageQuery selects one page of the remote gallery.
type PageQuery struct {
	Category  enums.Category
	Sort      enums.SortKey
	PageIndex int
	PageSize  int
}

// Gateway is the remote surface the gallery state machine drives. Every call
// resolves to success or failure; the callers own retries and rollbacks.
type Gateway interface {
	// ListPhotos fetches one page in server order.
	ListPhotos(ctx context.Context, q PageQuery) ([]model.Photo, error)

	// ListLikedIDs returns the photo ids the authenticated viewer has liked.
	// Joined onto fetched pages client-side.
	ListLikedIDs(ctx context.Context) ([]string, error)

	CreateLike(ctx context.Context, photoID string) error
	DeleteLike(ctx context.Context, photoID string) error

	// DeleteMedia destroys the CDN asset behind the photo. Runs before
	// DeletePhotoRecord so a listed record never points at destroyed media.
	DeleteMedia(ctx context.Context, photoID string) error

	// DeletePhotoRecord removes the photo row and its likes.
	DeletePhotoRecord(ctx context.Context, photoID string) error
}
