package service

import (
	"context"

	"github.com/vidinfra/commtrack/internal/domain/statushistory"
)

// LedgerService is the read side of the status history. Appends happen only
// inside CommunicationService transactions.
type LedgerService interface {
	// ListFor returns the ledger ordered by occurred time, ties by id. The
	// communication may be soft-deleted.
	ListFor(ctx context.Context, communicationID string) ([]*statushistory.Entry, error)
	CountFor(ctx context.Context, communicationID string) (int, error)
}

type ledgerService struct {
	ServiceParams
}

func NewLedgerService(params ServiceParams) LedgerService {
	return &ledgerService{ServiceParams: params}
}

func (s *ledgerService) ListFor(ctx context.Context, communicationID string) ([]*statushistory.Entry, error) {
	if _, err := s.CommunicationRepo.Get(ctx, communicationID); err != nil {
		return nil, err
	}
	return s.StatusHistoryRepo.ListFor(ctx, communicationID)
}

func (s *ledgerService) CountFor(ctx context.Context, communicationID string) (int, error) {
	if _, err := s.CommunicationRepo.Get(ctx, communicationID); err != nil {
		return 0, err
	}
	return s.StatusHistoryRepo.CountFor(ctx, communicationID)
}
