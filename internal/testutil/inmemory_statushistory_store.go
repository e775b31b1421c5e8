package testutil

import (
	"context"
	"sync/atomic"

	"github.com/vidinfra/commtrack/internal/domain/statushistory"
	ierr "github.com/vidinfra/commtrack/internal/errors"
)

// InMemoryStatusHistoryStore is append-only like the real ledger
type InMemoryStatusHistoryStore struct {
	*InMemoryStore[int64, *statushistory.Entry]
	nextID atomic.Int64
}

func NewInMemoryStatusHistoryStore() *InMemoryStatusHistoryStore {
	return &InMemoryStatusHistoryStore{
		InMemoryStore: NewInMemoryStore[int64]("Status history entry", (*statushistory.Entry).Copy),
	}
}

var _ statushistory.Repository = (*InMemoryStatusHistoryStore)(nil)

func (s *InMemoryStatusHistoryStore) Append(ctx context.Context, entry *statushistory.Entry) error {
	entry.ID = s.nextID.Add(1)
	return s.InMemoryStore.Create(ctx, entry.ID, entry)
}

func (s *InMemoryStatusHistoryStore) ListFor(ctx context.Context, communicationID string) ([]*statushistory.Entry, error) {
	return s.InMemoryStore.List(ctx, forCommunication(communicationID), statushistory.Before), nil
}

func (s *InMemoryStatusHistoryStore) CountFor(ctx context.Context, communicationID string) (int, error) {
	return s.InMemoryStore.Count(ctx, forCommunication(communicationID)), nil
}

func (s *InMemoryStatusHistoryStore) Latest(ctx context.Context, communicationID string) (*statushistory.Entry, error) {
	entries, _ := s.ListFor(ctx, communicationID)
	if len(entries) == 0 {
		return nil, ierr.NewErrorf("no history for communication %s", communicationID).
			WithHintf("Communication %s has no status history", communicationID).
			Mark(ierr.ErrNotFound)
	}
	return entries[len(entries)-1], nil
}

func forCommunication(communicationID string) FilterFunc[*statushistory.Entry] {
	return func(_ context.Context, e *statushistory.Entry) bool {
		return e.CommunicationID == communicationID
	}
}
