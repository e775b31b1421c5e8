package testutil

import (
	"context"
	"sync/atomic"

	"github.com/vidinfra/commtrack/internal/domain/typestatus"
)

type InMemoryTypeStatusStore struct {
	*InMemoryStore[int64, *typestatus.TypeStatus]
	nextID atomic.Int64
	// failCreateBulk, when set, is returned once by the next CreateBulk
	failCreateBulk atomic.Pointer[error]
}

func NewInMemoryTypeStatusStore() *InMemoryTypeStatusStore {
	return &InMemoryTypeStatusStore{
		InMemoryStore: NewInMemoryStore[int64]("Type status", (*typestatus.TypeStatus).Copy),
	}
}

var _ typestatus.Repository = (*InMemoryTypeStatusStore)(nil)

// FailNextCreateBulk makes the next CreateBulk return err without writing
func (s *InMemoryTypeStatusStore) FailNextCreateBulk(err error) {
	s.failCreateBulk.Store(&err)
}

func (s *InMemoryTypeStatusStore) ListActiveByType(ctx context.Context, typeCode string) ([]*typestatus.TypeStatus, error) {
	return s.InMemoryStore.List(ctx,
		func(_ context.Context, m *typestatus.TypeStatus) bool {
			return m.IsActive && m.TypeCode == typeCode
		},
		func(a, b *typestatus.TypeStatus) bool {
			if a.SortOrder != b.SortOrder {
				return a.SortOrder < b.SortOrder
			}
			return a.ID < b.ID
		},
	), nil
}

// ListAllByType includes deactivated rows, for assertions on history
func (s *InMemoryTypeStatusStore) ListAllByType(ctx context.Context, typeCode string) []*typestatus.TypeStatus {
	return s.InMemoryStore.List(ctx,
		func(_ context.Context, m *typestatus.TypeStatus) bool {
			return m.TypeCode == typeCode
		},
		func(a, b *typestatus.TypeStatus) bool { return a.ID < b.ID },
	)
}

func (s *InMemoryTypeStatusStore) DeactivateByType(ctx context.Context, typeCode string) (int64, error) {
	changed := s.InMemoryStore.Mutate(ctx,
		func(_ context.Context, m *typestatus.TypeStatus) bool {
			return m.IsActive && m.TypeCode == typeCode
		},
		func(m *typestatus.TypeStatus) *typestatus.TypeStatus {
			m.IsActive = false
			return m
		},
	)
	return int64(changed), nil
}

func (s *InMemoryTypeStatusStore) CreateBulk(ctx context.Context, mappings []*typestatus.TypeStatus) error {
	if errPtr := s.failCreateBulk.Swap(nil); errPtr != nil {
		return *errPtr
	}

	for _, m := range mappings {
		if m.IsActive && s.InMemoryStore.Count(ctx, func(_ context.Context, existing *typestatus.TypeStatus) bool {
			return existing.IsActive && existing.TypeCode == m.TypeCode && existing.StatusCode == m.StatusCode
		}) > 0 {
			return NewUniqueViolation("ux_type_statuses_active_pair")
		}

		m.ID = s.nextID.Add(1)
		if err := s.InMemoryStore.Create(ctx, m.ID, m); err != nil {
			return err
		}
	}
	return nil
}

func (s *InMemoryTypeStatusStore) CountActiveByStatus(ctx context.Context, statusCode string) (int, error) {
	return s.InMemoryStore.Count(ctx, func(_ context.Context, m *typestatus.TypeStatus) bool {
		return m.IsActive && m.StatusCode == statusCode
	}), nil
}
