package testutil

import (
	"context"
	"sort"
	"sync"

	ierr "github.com/vidinfra/commtrack/internal/errors"
)

// FilterFunc is a generic filter function type
type FilterFunc[T any] func(ctx context.Context, item T) bool

// SortFunc is a generic sort function type
type SortFunc[T any] func(i, j T) bool

// InMemoryStore implements a generic in-memory store. Items are cloned on the
// way in and on the way out, so callers never share memory with the store.
type InMemoryStore[K comparable, T any] struct {
	mu    sync.RWMutex
	items map[K]T
	clone func(T) T
	name  string
}

// NewInMemoryStore creates a new InMemoryStore. name is used in error hints.
func NewInMemoryStore[K comparable, T any](name string, clone func(T) T) *InMemoryStore[K, T] {
	return &InMemoryStore[K, T]{
		items: make(map[K]T),
		clone: clone,
		name:  name,
	}
}

// Create adds a new item to the store
func (s *InMemoryStore[K, T]) Create(_ context.Context, id K, item T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[id]; exists {
		return ierr.NewErrorf("%s %v already exists", s.name, id).
			WithHintf("A %s with this key already exists", s.name).
			Mark(ierr.ErrAlreadyExists)
	}

	s.items[id] = s.clone(item)
	return nil
}

// Get retrieves an item by ID
func (s *InMemoryStore[K, T]) Get(_ context.Context, id K) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if item, exists := s.items[id]; exists {
		return s.clone(item), nil
	}

	var zero T
	return zero, ierr.NewErrorf("%s %v not found", s.name, id).
		WithHintf("%s %v not found", s.name, id).
		Mark(ierr.ErrNotFound)
}

// List returns the items accepted by filterFn ordered by sortFn
func (s *InMemoryStore[K, T]) List(ctx context.Context, filterFn FilterFunc[T], sortFn SortFunc[T]) []T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]T, 0, len(s.items))
	for _, item := range s.items {
		if filterFn == nil || filterFn(ctx, item) {
			result = append(result, s.clone(item))
		}
	}

	if sortFn != nil {
		sort.SliceStable(result, func(i, j int) bool {
			return sortFn(result[i], result[j])
		})
	}
	return result
}

// Count returns the number of items accepted by filterFn
func (s *InMemoryStore[K, T]) Count(ctx context.Context, filterFn FilterFunc[T]) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, item := range s.items {
		if filterFn == nil || filterFn(ctx, item) {
			count++
		}
	}
	return count
}

// Update replaces an existing item
func (s *InMemoryStore[K, T]) Update(_ context.Context, id K, item T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[id]; !exists {
		return ierr.NewErrorf("%s %v not found", s.name, id).
			WithHintf("%s %v not found", s.name, id).
			Mark(ierr.ErrNotFound)
	}

	s.items[id] = s.clone(item)
	return nil
}

// Mutate applies fn to every stored item accepted by filterFn and returns how
// many were changed
func (s *InMemoryStore[K, T]) Mutate(ctx context.Context, filterFn FilterFunc[T], fn func(T) T) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := 0
	for id, item := range s.items {
		if filterFn == nil || filterFn(ctx, item) {
			s.items[id] = fn(item)
			changed++
		}
	}
	return changed
}

// Clear removes all items from the store
func (s *InMemoryStore[K, T]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make(map[K]T)
}

// Snapshot captures the current contents and returns a function restoring them
func (s *InMemoryStore[K, T]) Snapshot() func() {
	s.mu.RLock()
	saved := make(map[K]T, len(s.items))
	for id, item := range s.items {
		saved[id] = s.clone(item)
	}
	s.mu.RUnlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.items = saved
	}
}
