package testutil

import (
	"context"

	"github.com/vidinfra/commtrack/internal/domain/commtype"
)

type InMemoryCommunicationTypeStore struct {
	*InMemoryStore[string, *commtype.CommunicationType]
}

func NewInMemoryCommunicationTypeStore() *InMemoryCommunicationTypeStore {
	return &InMemoryCommunicationTypeStore{
		InMemoryStore: NewInMemoryStore[string]("Communication type", (*commtype.CommunicationType).Copy),
	}
}

var _ commtype.Repository = (*InMemoryCommunicationTypeStore)(nil)

func (s *InMemoryCommunicationTypeStore) Create(ctx context.Context, t *commtype.CommunicationType) error {
	return s.InMemoryStore.Create(ctx, t.TypeCode, t)
}

func (s *InMemoryCommunicationTypeStore) Get(ctx context.Context, typeCode string) (*commtype.CommunicationType, error) {
	return s.InMemoryStore.Get(ctx, typeCode)
}

// GetForUpdate relies on InMemoryTxClient serializing transactions
func (s *InMemoryCommunicationTypeStore) GetForUpdate(ctx context.Context, typeCode string) (*commtype.CommunicationType, error) {
	return s.InMemoryStore.Get(ctx, typeCode)
}

func (s *InMemoryCommunicationTypeStore) GetForShare(ctx context.Context, typeCode string) (*commtype.CommunicationType, error) {
	return s.InMemoryStore.Get(ctx, typeCode)
}

func (s *InMemoryCommunicationTypeStore) List(ctx context.Context, filter *commtype.ListFilter) ([]*commtype.CommunicationType, error) {
	includeInactive := filter != nil && filter.IncludeInactive
	return s.InMemoryStore.List(ctx,
		func(_ context.Context, t *commtype.CommunicationType) bool {
			return includeInactive || t.IsActive
		},
		func(a, b *commtype.CommunicationType) bool {
			if a.DisplayName != b.DisplayName {
				return a.DisplayName < b.DisplayName
			}
			return a.TypeCode < b.TypeCode
		},
	), nil
}

func (s *InMemoryCommunicationTypeStore) Update(ctx context.Context, t *commtype.CommunicationType) error {
	existing, err := s.InMemoryStore.Get(ctx, t.TypeCode)
	if err != nil {
		return err
	}
	existing.DisplayName = t.DisplayName
	existing.Description = t.Description
	existing.IsActive = t.IsActive
	existing.UpdatedAt = t.UpdatedAt
	existing.UpdatedBy = t.UpdatedBy
	return s.InMemoryStore.Update(ctx, t.TypeCode, existing)
}
