package testutil

import (
	"context"

	"github.com/samber/lo"
	"github.com/vidinfra/commtrack/internal/domain/globalstatus"
)

type InMemoryGlobalStatusStore struct {
	*InMemoryStore[string, *globalstatus.GlobalStatus]
}

func NewInMemoryGlobalStatusStore() *InMemoryGlobalStatusStore {
	return &InMemoryGlobalStatusStore{
		InMemoryStore: NewInMemoryStore[string]("Status", (*globalstatus.GlobalStatus).Copy),
	}
}

var _ globalstatus.Repository = (*InMemoryGlobalStatusStore)(nil)

func (s *InMemoryGlobalStatusStore) Create(ctx context.Context, status *globalstatus.GlobalStatus) error {
	return s.InMemoryStore.Create(ctx, status.Code, status)
}

func (s *InMemoryGlobalStatusStore) Get(ctx context.Context, code string) (*globalstatus.GlobalStatus, error) {
	return s.InMemoryStore.Get(ctx, code)
}

func (s *InMemoryGlobalStatusStore) List(ctx context.Context, filter *globalstatus.ListFilter) ([]*globalstatus.GlobalStatus, error) {
	if filter == nil {
		filter = &globalstatus.ListFilter{}
	}
	return s.InMemoryStore.List(ctx, func(_ context.Context, st *globalstatus.GlobalStatus) bool {
		if !filter.IncludeInactive && !st.IsActive {
			return false
		}
		return len(filter.Codes) == 0 || lo.Contains(filter.Codes, st.Code)
	}, globalstatus.Less), nil
}

func (s *InMemoryGlobalStatusStore) SetActive(ctx context.Context, code string, active bool) error {
	st, err := s.InMemoryStore.Get(ctx, code)
	if err != nil {
		return err
	}
	st.IsActive = active
	return s.InMemoryStore.Update(ctx, code, st)
}
