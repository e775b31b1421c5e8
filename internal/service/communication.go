package service

import (
	"context"
	"time"

	"github.com/samber/lo"
	"github.com/vidinfra/commtrack/internal/api/dto"
	"github.com/vidinfra/commtrack/internal/domain/communication"
	"github.com/vidinfra/commtrack/internal/domain/statushistory"
	ierr "github.com/vidinfra/commtrack/internal/errors"
	"github.com/vidinfra/commtrack/internal/types"
)

// CommunicationService owns writes to communications and their ledger.
// Every mutation runs in one transaction with the communication row locked.
type CommunicationService interface {
	Create(ctx context.Context, req dto.CreateCommunicationRequest) (*dto.CommunicationResponse, error)
	Transition(ctx context.Context, id string, req dto.TransitionRequest) (*dto.CommunicationResponse, error)
	SoftDelete(ctx context.Context, id string) error
	Restore(ctx context.Context, id string) (*dto.CommunicationResponse, error)
	// Get returns an active communication
	Get(ctx context.Context, id string) (*dto.CommunicationResponse, error)
	// GetWithHistory is Get plus the full ledger
	GetWithHistory(ctx context.Context, id string) (*dto.CommunicationResponse, error)
	// ListPage lists active communications, newest update first
	ListPage(ctx context.Context, pageNumber, pageSize int) (*dto.ListCommunicationsResponse, error)
	// List is ListPage with optional type and status filters
	List(ctx context.Context, filter *communication.ListFilter) (*dto.ListCommunicationsResponse, error)
	// VerifyConsistency compares the cached status with the ledger
	VerifyConsistency(ctx context.Context, id string) (*dto.ConsistencyReport, error)
}

type communicationService struct {
	ServiceParams
	validator TransitionValidator
}

func NewCommunicationService(params ServiceParams, validator TransitionValidator) CommunicationService {
	return &communicationService{
		ServiceParams: params,
		validator:     validator,
	}
}

func (s *communicationService) Create(ctx context.Context, req dto.CreateCommunicationRequest) (*dto.CommunicationResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var comm *communication.Communication
	err := s.DB.WithTx(ctx, func(ctx context.Context) error {
		// the shared lock keeps the type from being soft-deleted until commit
		t, err := s.CommTypeRepo.GetForShare(ctx, req.TypeCode)
		if err != nil {
			return err
		}
		if !t.IsActive {
			return ierr.NewErrorf("communication type %s is inactive", req.TypeCode).
				WithHintf("Communication type %s not found", req.TypeCode).
				WithReportableDetails(map[string]any{"type_code": req.TypeCode}).
				Mark(ierr.ErrNotFound)
		}

		decision, err := s.validator.CanTransition(ctx, req.TypeCode, "", req.InitialStatus)
		if err != nil {
			return err
		}
		if err := decision.Err(); err != nil {
			return err
		}

		now := time.Now().UTC()
		comm = req.ToCommunication(ctx, now)
		if err := s.CommunicationRepo.Create(ctx, comm); err != nil {
			return err
		}

		return s.StatusHistoryRepo.Append(ctx, &statushistory.Entry{
			CommunicationID: comm.ID,
			StatusCode:      comm.CurrentStatus,
			OccurredAt:      now,
			CreatedAt:       now,
		})
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("created communication",
		"communication_id", comm.ID,
		"type_code", comm.TypeCode,
		"status_code", comm.CurrentStatus,
	)
	return &dto.CommunicationResponse{Communication: comm}, nil
}

func (s *communicationService) Transition(ctx context.Context, id string, req dto.TransitionRequest) (*dto.CommunicationResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	eventData, err := req.EventDataString()
	if err != nil {
		return nil, err
	}

	var comm *communication.Communication
	err = s.DB.WithTx(ctx, func(ctx context.Context) error {
		c, err := s.getActiveForUpdate(ctx, id)
		if err != nil {
			return err
		}

		decision, err := s.validator.CanTransition(ctx, c.TypeCode, c.CurrentStatus, req.StatusCode)
		if err != nil {
			return err
		}
		if err := decision.Err(); err != nil {
			return err
		}

		now := time.Now().UTC()
		occurredAt := req.OccurredAtOrNow(now)
		if err := s.StatusHistoryRepo.Append(ctx, &statushistory.Entry{
			CommunicationID: c.ID,
			StatusCode:      req.StatusCode,
			OccurredAt:      occurredAt,
			EventData:       eventData,
			CreatedAt:       now,
		}); err != nil {
			return err
		}

		// the cached status tracks the newest ledger entry, so an event that
		// arrives after a later one is recorded without moving the cache back
		if occurredAt.Before(c.LastUpdatedAt) {
			s.Logger.Warnw("out of order transition recorded in ledger only",
				"communication_id", c.ID,
				"status_code", req.StatusCode,
				"occurred_at", occurredAt,
				"last_updated_at", c.LastUpdatedAt,
			)
		} else {
			c.CurrentStatus = req.StatusCode
			c.LastUpdatedAt = occurredAt
		}
		c.UpdatedBy = types.GetUserID(ctx)

		if err := s.CommunicationRepo.Update(ctx, c); err != nil {
			return err
		}
		comm = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("transitioned communication",
		"communication_id", comm.ID,
		"type_code", comm.TypeCode,
		"status_code", req.StatusCode,
	)
	return &dto.CommunicationResponse{Communication: comm}, nil
}

func (s *communicationService) SoftDelete(ctx context.Context, id string) error {
	err := s.DB.WithTx(ctx, func(ctx context.Context) error {
		c, err := s.getActiveForUpdate(ctx, id)
		if err != nil {
			return err
		}
		c.IsActive = false
		c.UpdatedBy = types.GetUserID(ctx)
		return s.CommunicationRepo.Update(ctx, c)
	})
	if err != nil {
		return err
	}

	s.Logger.Infow("soft deleted communication", "communication_id", id)
	return nil
}

func (s *communicationService) Restore(ctx context.Context, id string) (*dto.CommunicationResponse, error) {
	var comm *communication.Communication
	err := s.DB.WithTx(ctx, func(ctx context.Context) error {
		c, err := s.CommunicationRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		comm = c
		if c.IsActive {
			return nil
		}

		t, err := s.CommTypeRepo.GetForShare(ctx, c.TypeCode)
		if err != nil {
			return err
		}
		if !t.IsActive {
			return ierr.NewErrorf("communication type %s is inactive", c.TypeCode).
				WithHintf("Restore communication type %s before restoring its communications", c.TypeCode).
				WithReportableDetails(map[string]any{
					"communication_id": id,
					"type_code":        c.TypeCode,
				}).
				Mark(ierr.ErrBusinessRule)
		}

		c.IsActive = true
		c.UpdatedBy = types.GetUserID(ctx)
		return s.CommunicationRepo.Update(ctx, c)
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("restored communication", "communication_id", id)
	return &dto.CommunicationResponse{Communication: comm}, nil
}

func (s *communicationService) Get(ctx context.Context, id string) (*dto.CommunicationResponse, error) {
	c, err := s.getActive(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.CommunicationResponse{Communication: c}, nil
}

func (s *communicationService) GetWithHistory(ctx context.Context, id string) (*dto.CommunicationResponse, error) {
	c, err := s.getActive(ctx, id)
	if err != nil {
		return nil, err
	}
	history, err := s.StatusHistoryRepo.ListFor(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.CommunicationResponse{Communication: c, History: history}, nil
}

func (s *communicationService) ListPage(ctx context.Context, pageNumber, pageSize int) (*dto.ListCommunicationsResponse, error) {
	return s.List(ctx, &communication.ListFilter{
		PageFilter: &types.PageFilter{PageNumber: pageNumber, PageSize: pageSize},
	})
}

func (s *communicationService) List(ctx context.Context, filter *communication.ListFilter) (*dto.ListCommunicationsResponse, error) {
	if filter == nil {
		filter = &communication.ListFilter{}
	}
	if filter.PageFilter == nil {
		filter.PageFilter = types.NewPageFilter(1, types.DefaultPageSize)
	}
	if err := filter.PageFilter.Validate(); err != nil {
		return nil, err
	}

	items, err := s.CommunicationRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.CommunicationRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := lo.Map(items, func(c *communication.Communication, _ int) *dto.CommunicationResponse {
		return &dto.CommunicationResponse{Communication: c}
	})
	resp := types.NewListResponse(responses, total, filter.PageFilter)
	return &resp, nil
}

func (s *communicationService) VerifyConsistency(ctx context.Context, id string) (*dto.ConsistencyReport, error) {
	c, err := s.CommunicationRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	history, err := s.StatusHistoryRepo.ListFor(ctx, id)
	if err != nil {
		return nil, err
	}

	report := &dto.ConsistencyReport{
		CommunicationID:     c.ID,
		CachedStatus:        c.CurrentStatus,
		CachedLastUpdatedAt: c.LastUpdatedAt,
		HistoryLength:       len(history),
	}

	if len(history) == 0 {
		report.Issues = append(report.Issues, "ledger is empty")
	} else {
		latest := history[len(history)-1]
		report.LedgerStatus = latest.StatusCode
		report.LedgerLastOccurredAt = lo.ToPtr(latest.OccurredAt)

		if latest.StatusCode != c.CurrentStatus {
			report.Issues = append(report.Issues, "cached status differs from latest ledger entry")
		}
		if !latest.OccurredAt.Equal(c.LastUpdatedAt) {
			report.Issues = append(report.Issues, "cached last-updated time differs from latest ledger entry")
		}
	}

	report.Consistent = len(report.Issues) == 0
	if !report.Consistent {
		s.Logger.Warnw("communication ledger diverges from cached status",
			"communication_id", id,
			"issues", report.Issues,
		)
	}
	return report, nil
}

func (s *communicationService) getActive(ctx context.Context, id string) (*communication.Communication, error) {
	c, err := s.CommunicationRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !c.IsActive {
		return nil, inactiveCommunication(id)
	}
	return c, nil
}

func (s *communicationService) getActiveForUpdate(ctx context.Context, id string) (*communication.Communication, error) {
	c, err := s.CommunicationRepo.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if !c.IsActive {
		return nil, inactiveCommunication(id)
	}
	return c, nil
}

func inactiveCommunication(id string) error {
	return ierr.NewErrorf("communication %s is inactive", id).
		WithHintf("Communication %s not found", id).
		WithReportableDetails(map[string]any{"communication_id": id}).
		Mark(ierr.ErrNotFound)
}
