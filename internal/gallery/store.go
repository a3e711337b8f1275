package gallery

import (
	"sync"

	"github.com/acedreamer/onam-photo-hub/internal/domain/model"
)

// Store is the in-memory collection state behind the gallery view: an ordered
// photo list plus an id index. All mutations go through Reset, AppendPage,
// UpdateOne and RemoveOne; readers get copies, never internal slices.
//
// Reset stamps a new generation. AppendPage rejects pages fetched under an
// older generation, so a slow fetch that lands after a filter change cannot
// leak foreign items into the fresh listing.
type Store struct {
	mu         sync.Mutex
	items      []model.Photo
	index      map[string]int
	generation uint64
}

func NewStore() *Store {
	return &Store{index: map[string]int{}}
}

// Reset clears the collection and returns the new generation token. Page
// fetches started before the reset carry the old token and are discarded on
// append.
func (s *Store) Reset() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = s.items[:0]
	s.index = map[string]int{}
	s.generation++
	return s.generation
}

// Generation returns the token a fetch must present to AppendPage.
func (s *Store) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// AppendPage appends a fetched page, skipping ids already present. Overlap
// between adjacent pages (an item sliding across the boundary between the two
// fetches) collapses to the first occurrence, so [A,B] then [B,C] yields
// [A,B,C]. Returns false when the page was stamped with a stale generation
// and dropped.
func (s *Store) AppendPage(generation uint64, page []model.Photo) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if generation != s.generation {
		return false
	}

	for _, photo := range page {
		if _, ok := s.index[photo.ID]; ok {
			continue
		}
		s.index[photo.ID] = len(s.items)
		s.items = append(s.items, photo)
	}
	return true
}

// Get returns a copy of the item.
func (s *Store) Get(id string) (model.Photo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return model.Photo{}, false
	}
	return s.items[i], true
}

// UpdateOne replaces the item in place, keeping its position. Position is
// untouched on purpose: a like toggle under like_count sort does not reorder
// the visible list mid-scroll, the next full refresh does.
func (s *Store) UpdateOne(id string, update func(model.Photo) model.Photo) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return false
	}
	s.items[i] = update(s.items[i])
	s.items[i].ID = id
	return true
}

// RemoveOne deletes the item and closes the gap, preserving relative order of
// the rest.
func (s *Store) RemoveOne(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return false
	}

	s.items = append(s.items[:i], s.items[i+1:]...)
	delete(s.index, id)
	for j := i; j < len(s.items); j++ {
		s.index[s.items[j].ID] = j
	}
	return true
}

// Items returns a copy of the collection in display order.
func (s *Store) Items() []model.Photo {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Photo, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}
