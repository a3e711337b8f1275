package gallery

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"

	"github.com/acedreamer/onam-photo-hub/internal/domain/model"
)

func seedStore(t *testing.T, photos ...model.Photo) *Store {
	t.Helper()
	store := NewStore()
	if !store.AppendPage(store.Generation(), photos) {
		t.Fatalf("seed append rejected")
	}
	return store
}

func TestToggleLikeRoundTripRestoresState(t *testing.T) {
	seed := photo("ph-1")
	seed.Likes = 4
	store := seedStore(t, seed)
	gateway := newFakeGateway(nil)
	mutator := NewMutator(store, gateway)

	ctx := context.Background()
	if err := mutator.ToggleLike(ctx, "ph-1"); err != nil {
		t.Fatalf("like: %v", err)
	}
	liked, _ := store.Get("ph-1")
	if !liked.UserHasLiked || liked.Likes != 5 {
		t.Fatalf("after like: %+v", liked)
	}

	if err := mutator.ToggleLike(ctx, "ph-1"); err != nil {
		t.Fatalf("unlike: %v", err)
	}
	after, _ := store.Get("ph-1")
	if !reflect.DeepEqual(after, seed) {
		t.Fatalf("toggle round trip must restore the original item:\nbefore %+v\nafter  %+v", seed, after)
	}
	if len(gateway.createdLikes) != 1 || len(gateway.deletedLikes) != 1 {
		t.Fatalf("gateway calls: created=%v deleted=%v", gateway.createdLikes, gateway.deletedLikes)
	}
}

func TestToggleLikeRollsBackOnFailure(t *testing.T) {
	seed := photo("ph-1")
	seed.Likes = 9
	store := seedStore(t, seed, photo("ph-2"))
	gateway := newFakeGateway(nil)
	gateway.createErr = errors.New("gateway down")
	mutator := NewMutator(store, gateway)

	before := store.Items()
	if err := mutator.ToggleLike(context.Background(), "ph-1"); err == nil {
		t.Fatalf("expected gateway error")
	}
	if !reflect.DeepEqual(store.Items(), before) {
		t.Fatalf("failed toggle must leave the collection byte-identical")
	}
}

func TestToggleLikeUnknownPhoto(t *testing.T) {
	store := seedStore(t, photo("ph-1"))
	mutator := NewMutator(store, newFakeGateway(nil))

	if err := mutator.ToggleLike(context.Background(), "ghost"); !errors.Is(err, ErrPhotoNotFound) {
		t.Fatalf("expected ErrPhotoNotFound, got %v", err)
	}
}

func TestConcurrentTogglesSamePhotoSettle(t *testing.T) {
	seed := photo("ph-1")
	store := seedStore(t, seed)
	gateway := newFakeGateway(nil)
	mutator := NewMutator(store, gateway)

	const toggles = 20
	var wg sync.WaitGroup
	for i := 0; i < toggles; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := mutator.ToggleLike(context.Background(), "ph-1"); err != nil {
				t.Errorf("toggle: %v", err)
			}
		}()
	}
	wg.Wait()

	// An even number of serialized toggles lands back on the seed state.
	after, _ := store.Get("ph-1")
	if !reflect.DeepEqual(after, seed) {
		t.Fatalf("even toggle count must settle on the original item: %+v", after)
	}
	if len(gateway.createdLikes)+len(gateway.deletedLikes) != toggles {
		t.Fatalf("expected %d gateway calls, got %d",
			toggles, len(gateway.createdLikes)+len(gateway.deletedLikes))
	}
}

func TestConcurrentTogglesManyPhotosSettle(t *testing.T) {
	// More photos than lock stripes, so distinct photos share stripes and
	// per-photo serialization must still hold.
	const photos = 200
	seeds := make([]model.Photo, 0, photos)
	for i := 0; i < photos; i++ {
		seeds = append(seeds, photo(fmt.Sprintf("ph-%03d", i)))
	}
	store := seedStore(t, seeds...)
	gateway := newFakeGateway(nil)
	mutator := NewMutator(store, gateway)

	var wg sync.WaitGroup
	for _, seed := range seeds {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			for j := 0; j < 2; j++ {
				if err := mutator.ToggleLike(context.Background(), id); err != nil {
					t.Errorf("toggle %s: %v", id, err)
				}
			}
		}(seed.ID)
	}
	wg.Wait()

	if !reflect.DeepEqual(store.Items(), seeds) {
		t.Fatalf("two toggles per photo must settle every item on its seed state")
	}
}

func TestDeletePhotoRequiresAdmin(t *testing.T) {
	seed := photo("ph-1")
	seed.MediaID = "asset/ph-1"
	store := seedStore(t, seed)
	gateway := newFakeGateway(nil)
	mutator := NewMutator(store, gateway)

	if err := mutator.DeletePhoto(context.Background(), "ph-1", false); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if store.Len() != 1 || len(gateway.mediaDeletes) != 0 {
		t.Fatalf("forbidden delete must touch nothing")
	}
}

func TestDeletePhotoMediaFailureLeavesStore(t *testing.T) {
	seed := photo("ph-1")
	seed.MediaID = "asset/ph-1"
	store := seedStore(t, seed)
	gateway := newFakeGateway(nil)
	gateway.mediaErr = errors.New("cdn unreachable")
	mutator := NewMutator(store, gateway)

	if err := mutator.DeletePhoto(context.Background(), "ph-1", true); err == nil {
		t.Fatalf("expected media delete error")
	}
	if store.Len() != 1 {
		t.Fatalf("item must survive a failed media delete")
	}
	if len(gateway.recordDels) != 0 {
		t.Fatalf("record delete must not run after a failed media delete")
	}
}

func TestDeletePhotoHappyPath(t *testing.T) {
	seed := photo("ph-1")
	seed.MediaID = "asset/ph-1"
	store := seedStore(t, seed, photo("ph-2"))
	gateway := newFakeGateway(nil)
	mutator := NewMutator(store, gateway)

	if err := mutator.DeletePhoto(context.Background(), "ph-1", true); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got := ids(store.Items()); !equalIDs(got, "ph-2") {
		t.Fatalf("unexpected collection after delete: %v", got)
	}
	if len(gateway.mediaDeletes) != 1 || len(gateway.recordDels) != 1 {
		t.Fatalf("both gateway deletes must run: media=%v record=%v",
			gateway.mediaDeletes, gateway.recordDels)
	}
}

func TestDeletePhotoWithoutMediaReference(t *testing.T) {
	store := seedStore(t, photo("ph-1"))
	mutator := NewMutator(store, newFakeGateway(nil))

	if err := mutator.DeletePhoto(context.Background(), "ph-1", true); !errors.Is(err, ErrMissingMedia) {
		t.Fatalf("expected ErrMissingMedia, got %v", err)
	}
}
