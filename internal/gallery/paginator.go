package gallery

import (
	"context"
	"fmt"
	"sync"

	"github.com/acedreamer/onam-photo-hub/internal/domain/enums"
	"github.com/acedreamer/onam-photo-hub/internal/domain/model"
)

// DefaultPageSize matches the server's gallery page size.
const DefaultPageSize = 12

// Paginator drives infinite scroll over the Store. One fetch runs at a time:
// LoadMore while a fetch is in flight, or after the end flag is set, is a
// no-op. Changing the filter resets the store and restarts from page zero.
type Paginator struct {
	store    *Store
	gateway  Gateway
	pageSize int

	mu       sync.Mutex
	category enums.Category
	sort     enums.SortKey
	nextPage int
	loading  bool
	end      bool
}

func NewPaginator(store *Store, gateway Gateway, pageSize int) *Paginator {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	return &Paginator{
		store:    store,
		gateway:  gateway,
		pageSize: pageSize,
		sort:     enums.SortRecency,
	}
}

// SetFilter switches category and sort, clearing the collection. In-flight
// fetches for the previous filter are stamped with the old generation and
// dropped when they land.
func (p *Paginator) SetFilter(category enums.Category, sort enums.SortKey) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if sort == "" {
		sort = enums.SortRecency
	}
	p.category = category
	p.sort = sort
	p.nextPage = 0
	p.end = false
	p.store.Reset()
}

// LoadMore fetches the next page and appends it. Returns false when nothing
// was fetched: a fetch is already running, or the listing is exhausted. A
// short page (fewer items than the page size) marks the end.
func (p *Paginator) LoadMore(ctx context.Context) (bool, error) {
	if p.gateway == nil {
		return false, fmt.Errorf("gallery gateway is not configured")
	}

	p.mu.Lock()
	if p.loading || p.end {
		p.mu.Unlock()
		return false, nil
	}
	p.loading = true
	query := PageQuery{
		Category:  p.category,
		Sort:      p.sort,
		PageIndex: p.nextPage,
		PageSize:  p.pageSize,
	}
	// Stamped under p.mu so SetFilter cannot bump the generation between the
	// query snapshot and the stamp.
	generation := p.store.Generation()
	p.mu.Unlock()

	fetched, err := p.fetchPage(ctx, query)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.loading = false

	if err != nil {
		return false, err
	}

	if !p.store.AppendPage(generation, fetched) {
		// Filter changed while the fetch was in flight.
		return false, nil
	}

	p.nextPage = query.PageIndex + 1
	if len(fetched) < p.pageSize {
		p.end = true
	}
	return true, nil
}

// End reports whether the listing is exhausted.
func (p *Paginator) End() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.end
}

func (p *Paginator) fetchPage(ctx context.Context, query PageQuery) ([]model.Photo, error) {
	page, err := p.gateway.ListPhotos(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("fetch gallery page: %w", err)
	}
	if len(page) == 0 {
		return page, nil
	}

	likedIDs, err := p.gateway.ListLikedIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch liked ids: %w", err)
	}

	liked := make(map[string]struct{}, len(likedIDs))
	for _, id := range likedIDs {
		liked[id] = struct{}{}
	}
	for i := range page {
		_, page[i].UserHasLiked = liked[page[i].ID]
	}
	return page, nil
}
