package service

import (
	"context"

	"github.com/vidinfra/commtrack/internal/api/dto"
	"github.com/vidinfra/commtrack/internal/domain/communication"
	"github.com/vidinfra/commtrack/internal/domain/globalstatus"
	ierr "github.com/vidinfra/commtrack/internal/errors"
)

// CatalogService exposes the global status catalog
type CatalogService interface {
	// ListActive returns active statuses ordered by phase, sort order and code
	ListActive(ctx context.Context) ([]*globalstatus.GlobalStatus, error)
	// ListAll is ListActive including inactive statuses
	ListAll(ctx context.Context) ([]*globalstatus.GlobalStatus, error)
	Get(ctx context.Context, code string) (*globalstatus.GlobalStatus, error)
	Provision(ctx context.Context, req dto.ProvisionStatusRequest) (*globalstatus.GlobalStatus, error)
	// SetActive is the only mutation of an existing status. Deactivation is
	// refused while an active mapping or communication references the code.
	SetActive(ctx context.Context, code string, active bool) (*globalstatus.GlobalStatus, error)
}

type catalogService struct {
	ServiceParams
}

func NewCatalogService(params ServiceParams) CatalogService {
	return &catalogService{ServiceParams: params}
}

func (s *catalogService) ListActive(ctx context.Context) ([]*globalstatus.GlobalStatus, error) {
	return s.GlobalStatusRepo.List(ctx, &globalstatus.ListFilter{})
}

func (s *catalogService) ListAll(ctx context.Context) ([]*globalstatus.GlobalStatus, error) {
	return s.GlobalStatusRepo.List(ctx, &globalstatus.ListFilter{IncludeInactive: true})
}

func (s *catalogService) Get(ctx context.Context, code string) (*globalstatus.GlobalStatus, error) {
	if code == "" {
		return nil, ierr.NewError("status code is required").
			WithHint("Status code is required").
			Mark(ierr.ErrValidation)
	}
	return s.GlobalStatusRepo.Get(ctx, code)
}

func (s *catalogService) Provision(ctx context.Context, req dto.ProvisionStatusRequest) (*globalstatus.GlobalStatus, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	status := req.ToGlobalStatus(ctx)
	if err := s.GlobalStatusRepo.Create(ctx, status); err != nil {
		if ierr.IsAlreadyExists(err) {
			return nil, ierr.WithError(err).
				WithHintf("Status %s already exists", status.Code).
				Mark(ierr.ErrAlreadyExists)
		}
		return nil, err
	}

	s.Logger.Infow("provisioned global status",
		"status_code", status.Code,
		"phase", status.Phase,
	)
	return status, nil
}

func (s *catalogService) SetActive(ctx context.Context, code string, active bool) (*globalstatus.GlobalStatus, error) {
	var result *globalstatus.GlobalStatus

	err := s.DB.WithTx(ctx, func(ctx context.Context) error {
		status, err := s.GlobalStatusRepo.Get(ctx, code)
		if err != nil {
			return err
		}
		if status.IsActive == active {
			result = status
			return nil
		}

		if !active {
			if err := s.ensureUnreferenced(ctx, code); err != nil {
				return err
			}
		}

		if err := s.GlobalStatusRepo.SetActive(ctx, code, active); err != nil {
			return err
		}
		status.IsActive = active
		result = status
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("changed global status activity",
		"status_code", code,
		"is_active", active,
	)
	return result, nil
}

func (s *catalogService) ensureUnreferenced(ctx context.Context, code string) error {
	mappings, err := s.TypeStatusRepo.CountActiveByStatus(ctx, code)
	if err != nil {
		return err
	}
	communications, err := s.CommunicationRepo.Count(ctx, &communication.ListFilter{StatusCode: code})
	if err != nil {
		return err
	}
	if mappings > 0 || communications > 0 {
		return ierr.NewErrorf("status %s is still referenced", code).
			WithHintf("Status %s is still used by communication types or communications", code).
			WithReportableDetails(map[string]any{
				"status_code":           code,
				"active_mappings":       mappings,
				"active_communications": communications,
			}).
			Mark(ierr.ErrBusinessRule)
	}
	return nil
}
