package service

import (
	"context"
	"time"

	"github.com/vidinfra/commtrack/internal/api/dto"
	"github.com/vidinfra/commtrack/internal/domain/communication"
	"github.com/vidinfra/commtrack/internal/domain/commtype"
	ierr "github.com/vidinfra/commtrack/internal/errors"
	"github.com/vidinfra/commtrack/internal/types"
	"github.com/vidinfra/commtrack/internal/validator"
)

// TaxonomyService manages communication types and their status sets
type TaxonomyService interface {
	CreateType(ctx context.Context, req dto.CreateTypeRequest) (*dto.TypeResponse, error)
	UpdateType(ctx context.Context, typeCode string, req dto.UpdateTypeRequest) (*dto.TypeResponse, error)
	// SoftDeleteType refuses while any active communication uses the type
	SoftDeleteType(ctx context.Context, typeCode string) error
	RestoreType(ctx context.Context, typeCode string) (*dto.TypeResponse, error)
	// GetType returns the type, active or not, with its valid statuses
	GetType(ctx context.Context, typeCode string) (*dto.TypeResponse, error)
	// ListTypes orders by display name
	ListTypes(ctx context.Context, includeInactive bool) ([]*commtype.CommunicationType, error)
	ListActiveTypes(ctx context.Context) ([]*commtype.CommunicationType, error)
}

type taxonomyService struct {
	ServiceParams
	mappings *mappingService
}

func NewTaxonomyService(params ServiceParams) TaxonomyService {
	return &taxonomyService{
		ServiceParams: params,
		mappings:      &mappingService{ServiceParams: params},
	}
}

func (s *taxonomyService) CreateType(ctx context.Context, req dto.CreateTypeRequest) (*dto.TypeResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	err := s.DB.WithTx(ctx, func(ctx context.Context) error {
		existing, err := s.CommTypeRepo.Get(ctx, req.TypeCode)
		if err != nil && !ierr.IsNotFound(err) {
			return err
		}
		if existing != nil {
			return ierr.NewErrorf("communication type %s already exists", req.TypeCode).
				WithHintf("Communication type %s already exists", req.TypeCode).
				WithReportableDetails(map[string]any{
					"type_code": req.TypeCode,
					"is_active": existing.IsActive,
				}).
				Mark(ierr.ErrAlreadyExists)
		}

		if err := s.CommTypeRepo.Create(ctx, req.ToCommunicationType(ctx)); err != nil {
			return err
		}

		_, err = s.mappings.ReplaceMappings(ctx, req.TypeCode, req.StatusCodes)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("created communication type",
		"type_code", req.TypeCode,
		"status_codes", req.StatusCodes,
	)
	return s.GetType(ctx, req.TypeCode)
}

func (s *taxonomyService) UpdateType(ctx context.Context, typeCode string, req dto.UpdateTypeRequest) (*dto.TypeResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	err := s.DB.WithTx(ctx, func(ctx context.Context) error {
		t, err := s.CommTypeRepo.GetForUpdate(ctx, typeCode)
		if err != nil {
			return err
		}

		if req.DisplayName != nil {
			t.DisplayName = *req.DisplayName
		}
		if req.Description != nil {
			t.Description = *req.Description
		}
		t.UpdatedAt = time.Now().UTC()
		t.UpdatedBy = types.GetUserID(ctx)

		if err := s.CommTypeRepo.Update(ctx, t); err != nil {
			return err
		}

		if req.StatusCodes != nil {
			if _, err := s.mappings.ReplaceMappings(ctx, typeCode, *req.StatusCodes); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("updated communication type",
		"type_code", typeCode,
		"replaced_mappings", req.StatusCodes != nil,
	)
	return s.GetType(ctx, typeCode)
}

func (s *taxonomyService) SoftDeleteType(ctx context.Context, typeCode string) error {
	err := s.DB.WithTx(ctx, func(ctx context.Context) error {
		t, err := s.CommTypeRepo.GetForUpdate(ctx, typeCode)
		if err != nil {
			return err
		}
		if !t.IsActive {
			return nil
		}

		inUse, err := s.CommunicationRepo.Count(ctx, &communication.ListFilter{TypeCode: typeCode})
		if err != nil {
			return err
		}
		if inUse > 0 {
			return ierr.NewErrorf("communication type %s has %d active communications", typeCode, inUse).
				WithHintf("Cannot delete communication type %s while it has active communications", typeCode).
				WithReportableDetails(map[string]any{
					"type_code":             typeCode,
					"active_communications": inUse,
				}).
				Mark(ierr.ErrBusinessRule)
		}

		t.IsActive = false
		t.UpdatedAt = time.Now().UTC()
		t.UpdatedBy = types.GetUserID(ctx)
		return s.CommTypeRepo.Update(ctx, t)
	})
	if err != nil {
		return err
	}

	s.Logger.Infow("soft deleted communication type", "type_code", typeCode)
	return nil
}

func (s *taxonomyService) RestoreType(ctx context.Context, typeCode string) (*dto.TypeResponse, error) {
	err := s.DB.WithTx(ctx, func(ctx context.Context) error {
		t, err := s.CommTypeRepo.GetForUpdate(ctx, typeCode)
		if err != nil {
			return err
		}
		if t.IsActive {
			return nil
		}
		t.IsActive = true
		t.UpdatedAt = time.Now().UTC()
		t.UpdatedBy = types.GetUserID(ctx)
		return s.CommTypeRepo.Update(ctx, t)
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("restored communication type", "type_code", typeCode)
	return s.GetType(ctx, typeCode)
}

func (s *taxonomyService) GetType(ctx context.Context, typeCode string) (*dto.TypeResponse, error) {
	if err := validator.ValidateTypeCode(typeCode); err != nil {
		return nil, err
	}

	t, err := s.CommTypeRepo.Get(ctx, typeCode)
	if err != nil {
		return nil, err
	}
	statuses, err := s.mappings.validStatuses(ctx, typeCode)
	if err != nil {
		return nil, err
	}
	return &dto.TypeResponse{CommunicationType: t, ValidStatuses: statuses}, nil
}

func (s *taxonomyService) ListTypes(ctx context.Context, includeInactive bool) ([]*commtype.CommunicationType, error) {
	return s.CommTypeRepo.List(ctx, &commtype.ListFilter{IncludeInactive: includeInactive})
}

func (s *taxonomyService) ListActiveTypes(ctx context.Context) ([]*commtype.CommunicationType, error) {
	return s.ListTypes(ctx, false)
}
