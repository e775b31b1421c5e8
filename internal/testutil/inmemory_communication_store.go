package testutil

import (
	"context"

	"github.com/vidinfra/commtrack/internal/domain/communication"
)

type InMemoryCommunicationStore struct {
	*InMemoryStore[string, *communication.Communication]
}

func NewInMemoryCommunicationStore() *InMemoryCommunicationStore {
	return &InMemoryCommunicationStore{
		InMemoryStore: NewInMemoryStore[string]("Communication", (*communication.Communication).Copy),
	}
}

var _ communication.Repository = (*InMemoryCommunicationStore)(nil)

func (s *InMemoryCommunicationStore) Create(ctx context.Context, c *communication.Communication) error {
	return s.InMemoryStore.Create(ctx, c.ID, c)
}

func (s *InMemoryCommunicationStore) Get(ctx context.Context, id string) (*communication.Communication, error) {
	return s.InMemoryStore.Get(ctx, id)
}

func (s *InMemoryCommunicationStore) GetForUpdate(ctx context.Context, id string) (*communication.Communication, error) {
	return s.InMemoryStore.Get(ctx, id)
}

func (s *InMemoryCommunicationStore) Update(ctx context.Context, c *communication.Communication) error {
	existing, err := s.InMemoryStore.Get(ctx, c.ID)
	if err != nil {
		return err
	}
	existing.CurrentStatus = c.CurrentStatus
	existing.LastUpdatedAt = c.LastUpdatedAt
	existing.IsActive = c.IsActive
	existing.UpdatedBy = c.UpdatedBy
	return s.InMemoryStore.Update(ctx, c.ID, existing)
}

func (s *InMemoryCommunicationStore) List(ctx context.Context, filter *communication.ListFilter) ([]*communication.Communication, error) {
	if filter == nil {
		filter = &communication.ListFilter{}
	}

	items := s.InMemoryStore.List(ctx, communicationFilterFn(filter), func(a, b *communication.Communication) bool {
		if !a.LastUpdatedAt.Equal(b.LastUpdatedAt) {
			return a.LastUpdatedAt.After(b.LastUpdatedAt)
		}
		return a.ID < b.ID
	})

	if filter.PageFilter == nil {
		return items, nil
	}
	start := filter.GetOffset()
	if start >= len(items) {
		return []*communication.Communication{}, nil
	}
	end := min(start+filter.GetLimit(), len(items))
	return items[start:end], nil
}

func (s *InMemoryCommunicationStore) Count(ctx context.Context, filter *communication.ListFilter) (int, error) {
	if filter == nil {
		filter = &communication.ListFilter{}
	}
	return s.InMemoryStore.Count(ctx, communicationFilterFn(filter)), nil
}

func communicationFilterFn(filter *communication.ListFilter) FilterFunc[*communication.Communication] {
	return func(_ context.Context, c *communication.Communication) bool {
		if !c.IsActive {
			return false
		}
		if filter.TypeCode != "" && c.TypeCode != filter.TypeCode {
			return false
		}
		return filter.StatusCode == "" || c.CurrentStatus == filter.StatusCode
	}
}
