package gallery

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/acedreamer/onam-photo-hub/internal/domain/enums"
	"github.com/acedreamer/onam-photo-hub/internal/domain/model"
)

// fakeGateway serves a fixed catalog split into fixed-size pages. The release
// channel, when set, parks ListPhotos until the test lets it through.
type fakeGateway struct {
	mu       sync.Mutex
	catalog  map[enums.Category][]model.Photo
	all      []model.Photo
	likedIDs []string

	listCalls   int
	release     chan struct{}
	started     chan struct{}
	startedOnce sync.Once

	createErr error
	deleteErr error
	mediaErr  error
	recordErr error

	createdLikes []string
	deletedLikes []string
	mediaDeletes []string
	recordDels   []string
}

func newFakeGateway(all []model.Photo) *fakeGateway {
	return &fakeGateway{
		catalog: map[enums.Category][]model.Photo{},
		all:     all,
	}
}

func (g *fakeGateway) ListPhotos(_ context.Context, q PageQuery) ([]model.Photo, error) {
	if g.release != nil {
		if g.started != nil {
			g.startedOnce.Do(func() { close(g.started) })
		}
		<-g.release
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.listCalls++

	source := g.all
	if q.Category != "" {
		source = g.catalog[q.Category]
	}

	start := q.PageIndex * q.PageSize
	if start >= len(source) {
		return []model.Photo{}, nil
	}
	end := start + q.PageSize
	if end > len(source) {
		end = len(source)
	}
	page := make([]model.Photo, end-start)
	copy(page, source[start:end])
	return page, nil
}

func (g *fakeGateway) ListLikedIDs(context.Context) ([]string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.likedIDs...), nil
}

func (g *fakeGateway) CreateLike(_ context.Context, photoID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.createErr != nil {
		return g.createErr
	}
	g.createdLikes = append(g.createdLikes, photoID)
	return nil
}

func (g *fakeGateway) DeleteLike(_ context.Context, photoID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.deleteErr != nil {
		return g.deleteErr
	}
	g.deletedLikes = append(g.deletedLikes, photoID)
	return nil
}

func (g *fakeGateway) DeleteMedia(_ context.Context, photoID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.mediaErr != nil {
		return g.mediaErr
	}
	g.mediaDeletes = append(g.mediaDeletes, photoID)
	return nil
}

func (g *fakeGateway) DeletePhotoRecord(_ context.Context, photoID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.recordErr != nil {
		return g.recordErr
	}
	g.recordDels = append(g.recordDels, photoID)
	return nil
}

func catalog(n int) []model.Photo {
	photos := make([]model.Photo, 0, n)
	for i := 0; i < n; i++ {
		photos = append(photos, photo(fmt.Sprintf("ph-%02d", i)))
	}
	return photos
}

func TestLoadMorePagesUntilShortPage(t *testing.T) {
	gateway := newFakeGateway(catalog(17))
	store := NewStore()
	paginator := NewPaginator(store, gateway, 12)

	ctx := context.Background()
	loaded, err := paginator.LoadMore(ctx)
	if err != nil || !loaded {
		t.Fatalf("first LoadMore: loaded=%v err=%v", loaded, err)
	}
	if store.Len() != 12 || paginator.End() {
		t.Fatalf("after first page: len=%d end=%v", store.Len(), paginator.End())
	}

	loaded, err = paginator.LoadMore(ctx)
	if err != nil || !loaded {
		t.Fatalf("second LoadMore: loaded=%v err=%v", loaded, err)
	}
	if store.Len() != 17 || !paginator.End() {
		t.Fatalf("after short page: len=%d end=%v", store.Len(), paginator.End())
	}

	// Exhausted listing: further calls fetch nothing.
	loaded, err = paginator.LoadMore(ctx)
	if err != nil || loaded {
		t.Fatalf("LoadMore past the end: loaded=%v err=%v", loaded, err)
	}
	if gateway.listCalls != 2 {
		t.Fatalf("expected 2 page fetches, got %d", gateway.listCalls)
	}
}

func TestLoadMoreIdempotentWhileInFlight(t *testing.T) {
	gateway := newFakeGateway(catalog(5))
	gateway.release = make(chan struct{})
	gateway.started = make(chan struct{})
	store := NewStore()
	paginator := NewPaginator(store, gateway, 12)

	ctx := context.Background()
	done := make(chan error, 1)
	go func() {
		_, err := paginator.LoadMore(ctx)
		done <- err
	}()
	<-gateway.started

	// Second call while the first fetch is parked must fetch nothing.
	for i := 0; i < 10; i++ {
		loaded, err := paginator.LoadMore(ctx)
		if err != nil {
			t.Fatalf("concurrent LoadMore: %v", err)
		}
		if loaded {
			close(gateway.release)
			t.Fatalf("second LoadMore must be a no-op while one is in flight")
		}
	}

	close(gateway.release)
	if err := <-done; err != nil {
		t.Fatalf("parked LoadMore: %v", err)
	}
	if gateway.listCalls != 1 {
		t.Fatalf("expected one fetch, got %d", gateway.listCalls)
	}
	if store.Len() != 5 {
		t.Fatalf("expected 5 items, got %d", store.Len())
	}
}

func TestLoadMoreJoinsLikedIDs(t *testing.T) {
	gateway := newFakeGateway(catalog(3))
	gateway.likedIDs = []string{"ph-01"}
	store := NewStore()
	paginator := NewPaginator(store, gateway, 12)

	if _, err := paginator.LoadMore(context.Background()); err != nil {
		t.Fatalf("LoadMore: %v", err)
	}

	for _, item := range store.Items() {
		want := item.ID == "ph-01"
		if item.UserHasLiked != want {
			t.Fatalf("item %s liked flag = %v, want %v", item.ID, item.UserHasLiked, want)
		}
	}
}

func TestFilterChangeDiscardsStaleFetch(t *testing.T) {
	gateway := newFakeGateway(catalog(4))
	gateway.catalog[enums.CategorySadhya] = []model.Photo{photo("sadhya-1")}
	gateway.release = make(chan struct{})
	gateway.started = make(chan struct{})
	store := NewStore()
	paginator := NewPaginator(store, gateway, 12)

	ctx := context.Background()
	done := make(chan error, 1)
	go func() {
		_, err := paginator.LoadMore(ctx)
		done <- err
	}()
	<-gateway.started

	// The filter changes while the unfiltered fetch is parked.
	paginator.SetFilter(enums.CategorySadhya, enums.SortRecency)
	close(gateway.release)
	if err := <-done; err != nil {
		t.Fatalf("stale LoadMore: %v", err)
	}
	if store.Len() != 0 {
		t.Fatalf("stale page must be discarded, got %v", ids(store.Items()))
	}

	gateway.release = nil
	if _, err := paginator.LoadMore(ctx); err != nil {
		t.Fatalf("filtered LoadMore: %v", err)
	}
	if got := ids(store.Items()); !equalIDs(got, "sadhya-1") {
		t.Fatalf("expected filtered listing, got %v", got)
	}
}

func TestLoadMoreStampsGenerationWithQuerySnapshot(t *testing.T) {
	gateway := newFakeGateway(catalog(40))
	gateway.catalog[enums.CategorySadhya] = []model.Photo{photo("sadhya-1")}
	store := NewStore()
	paginator := NewPaginator(store, gateway, 12)
	ctx := context.Background()

	// Hammer the interleaving: a fetch racing a filter change must never land
	// items from the previous filter in the new listing.
	for i := 0; i < 200; i++ {
		paginator.SetFilter("", enums.SortRecency)

		done := make(chan struct{})
		go func() {
			defer close(done)
			_, _ = paginator.LoadMore(ctx)
		}()
		paginator.SetFilter(enums.CategorySadhya, enums.SortRecency)
		<-done

		for !paginator.End() {
			if _, err := paginator.LoadMore(ctx); err != nil {
				t.Fatalf("drain LoadMore: %v", err)
			}
		}
		for _, item := range store.Items() {
			if item.ID != "sadhya-1" {
				t.Fatalf("iteration %d leaked unfiltered item %q into %v",
					i, item.ID, ids(store.Items()))
			}
		}
	}
}

func TestSetFilterRestartsFromFirstPage(t *testing.T) {
	gateway := newFakeGateway(catalog(30))
	store := NewStore()
	paginator := NewPaginator(store, gateway, 12)

	ctx := context.Background()
	if _, err := paginator.LoadMore(ctx); err != nil {
		t.Fatalf("LoadMore: %v", err)
	}
	if _, err := paginator.LoadMore(ctx); err != nil {
		t.Fatalf("LoadMore: %v", err)
	}
	if store.Len() != 24 {
		t.Fatalf("expected 24 items, got %d", store.Len())
	}

	paginator.SetFilter("", enums.SortLikeCount)
	if store.Len() != 0 {
		t.Fatalf("filter change must clear the collection")
	}
	if _, err := paginator.LoadMore(ctx); err != nil {
		t.Fatalf("LoadMore after filter change: %v", err)
	}
	items := store.Items()
	if len(items) != 12 || items[0].ID != "ph-00" {
		t.Fatalf("expected restart from first page, got %d items starting %s", len(items), items[0].ID)
	}
}
