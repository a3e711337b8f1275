package gallery

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"
	"sync"

	"github.com/acedreamer/onam-photo-hub/internal/domain/model"
)

// lockStripes bounds the lock set regardless of how many photos the process
// touches over its lifetime.
const lockStripes = 64

// Mutator applies user mutations to the Store ahead of the gateway call and
// rolls them back when the call fails. Toggles on the same photo are
// serialized so each call snapshots a settled state; toggles on different
// photos run concurrently unless they hash to the same stripe.
type Mutator struct {
	store   *Store
	gateway Gateway

	locks [lockStripes]sync.Mutex
}

func NewMutator(store *Store, gateway Gateway) *Mutator {
	return &Mutator{
		store:   store,
		gateway: gateway,
	}
}

// ToggleLike flips the viewer's like on the photo optimistically, then
// confirms it with the gateway. On failure the item is restored to the exact
// pre-toggle snapshot.
func (m *Mutator) ToggleLike(ctx context.Context, photoID string) error {
	if m.gateway == nil {
		return fmt.Errorf("gallery gateway is not configured")
	}
	if strings.TrimSpace(photoID) == "" {
		return fmt.Errorf("photo id is required")
	}

	lock := m.photoLock(photoID)
	lock.Lock()
	defer lock.Unlock()

	snapshot, ok := m.store.Get(photoID)
	if !ok {
		return ErrPhotoNotFound
	}

	liking := !snapshot.UserHasLiked
	m.store.UpdateOne(photoID, func(photo model.Photo) model.Photo {
		photo.UserHasLiked = liking
		if liking {
			photo.Likes++
		} else {
			photo.Likes--
		}
		return photo
	})

	var err error
	if liking {
		err = m.gateway.CreateLike(ctx, photoID)
	} else {
		err = m.gateway.DeleteLike(ctx, photoID)
	}
	if err != nil {
		m.store.UpdateOne(photoID, func(model.Photo) model.Photo {
			return snapshot
		})
		return fmt.Errorf("toggle like: %w", err)
	}

	return nil
}

// DeletePhoto removes a photo on behalf of an admin. The CDN asset is
// destroyed first; only after the record delete succeeds does the item leave
// the collection, so any failure leaves the visible state untouched.
func (m *Mutator) DeletePhoto(ctx context.Context, photoID string, actorIsAdmin bool) error {
	if m.gateway == nil {
		return fmt.Errorf("gallery gateway is not configured")
	}
	if !actorIsAdmin {
		return ErrForbidden
	}
	if strings.TrimSpace(photoID) == "" {
		return fmt.Errorf("photo id is required")
	}

	photo, ok := m.store.Get(photoID)
	if !ok {
		return ErrPhotoNotFound
	}
	if strings.TrimSpace(photo.MediaID) == "" {
		return ErrMissingMedia
	}

	if err := m.gateway.DeleteMedia(ctx, photoID); err != nil {
		return fmt.Errorf("delete media: %w", err)
	}
	if err := m.gateway.DeletePhotoRecord(ctx, photoID); err != nil {
		return fmt.Errorf("delete photo record: %w", err)
	}

	m.store.RemoveOne(photoID)
	return nil
}

func (m *Mutator) photoLock(photoID string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(photoID))
	return &m.locks[h.Sum32()%lockStripes]
}
