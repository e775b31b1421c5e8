package service

import (
	"context"
	"time"

	"github.com/samber/lo"
	"github.com/vidinfra/commtrack/internal/api/dto"
	"github.com/vidinfra/commtrack/internal/domain/commtype"
	"github.com/vidinfra/commtrack/internal/domain/globalstatus"
	"github.com/vidinfra/commtrack/internal/domain/typestatus"
	ierr "github.com/vidinfra/commtrack/internal/errors"
)

// MappingService manages the per-type allow-list of global statuses
type MappingService interface {
	// GetValidStatuses returns the active statuses allowed for an active
	// type, in mapping sort order
	GetValidStatuses(ctx context.Context, typeCode string) ([]*globalstatus.GlobalStatus, error)
	// ReplaceMappings swaps the whole allow-list of a type for statusCodes in
	// one transaction. Sort order follows list position starting at 1.
	ReplaceMappings(ctx context.Context, typeCode string, statusCodes []string) ([]*typestatus.TypeStatus, error)
	// ValidateCodes reports whether every code is in the type's active allow-list
	ValidateCodes(ctx context.Context, typeCode string, statusCodes []string) (bool, error)
	// ListMappings returns the active mapping rows of a type
	ListMappings(ctx context.Context, typeCode string) ([]*typestatus.TypeStatus, error)
}

type mappingService struct {
	ServiceParams
}

func NewMappingService(params ServiceParams) MappingService {
	return &mappingService{ServiceParams: params}
}

func (s *mappingService) GetValidStatuses(ctx context.Context, typeCode string) ([]*globalstatus.GlobalStatus, error) {
	if _, err := s.getActiveType(ctx, typeCode); err != nil {
		return nil, err
	}
	return s.validStatuses(ctx, typeCode)
}

func (s *mappingService) ReplaceMappings(ctx context.Context, typeCode string, statusCodes []string) ([]*typestatus.TypeStatus, error) {
	if err := dto.ValidateStatusCodeList(statusCodes); err != nil {
		return nil, err
	}

	var created []*typestatus.TypeStatus
	err := s.DB.WithTx(ctx, func(ctx context.Context) error {
		// serializes concurrent replaces of the same type
		if _, err := s.CommTypeRepo.GetForUpdate(ctx, typeCode); err != nil {
			return err
		}

		if err := s.ensureActiveCatalogCodes(ctx, statusCodes); err != nil {
			return err
		}

		if _, err := s.TypeStatusRepo.DeactivateByType(ctx, typeCode); err != nil {
			return err
		}

		now := time.Now().UTC()
		created = lo.Map(statusCodes, func(code string, i int) *typestatus.TypeStatus {
			return &typestatus.TypeStatus{
				TypeCode:    typeCode,
				StatusCode:  code,
				Description: typestatus.DefaultDescription(code, typeCode),
				SortOrder:   i + 1,
				IsActive:    true,
				CreatedAt:   now,
			}
		})
		return s.TypeStatusRepo.CreateBulk(ctx, created)
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("replaced type status mappings",
		"type_code", typeCode,
		"status_codes", statusCodes,
	)
	return created, nil
}

func (s *mappingService) ValidateCodes(ctx context.Context, typeCode string, statusCodes []string) (bool, error) {
	valid, err := s.GetValidStatuses(ctx, typeCode)
	if err != nil {
		return false, err
	}

	allowed := lo.SliceToMap(valid, func(st *globalstatus.GlobalStatus) (string, struct{}) {
		return st.Code, struct{}{}
	})
	return lo.EveryBy(statusCodes, func(code string) bool {
		_, ok := allowed[code]
		return ok
	}), nil
}

func (s *mappingService) ListMappings(ctx context.Context, typeCode string) ([]*typestatus.TypeStatus, error) {
	if _, err := s.CommTypeRepo.Get(ctx, typeCode); err != nil {
		return nil, err
	}
	return s.TypeStatusRepo.ListActiveByType(ctx, typeCode)
}

// validStatuses joins the active mappings of a type with the catalog. Codes
// whose global status was deactivated are skipped.
func (s *mappingService) validStatuses(ctx context.Context, typeCode string) ([]*globalstatus.GlobalStatus, error) {
	mappings, err := s.TypeStatusRepo.ListActiveByType(ctx, typeCode)
	if err != nil {
		return nil, err
	}
	if len(mappings) == 0 {
		return []*globalstatus.GlobalStatus{}, nil
	}

	codes := lo.Map(mappings, func(m *typestatus.TypeStatus, _ int) string { return m.StatusCode })
	statuses, err := s.GlobalStatusRepo.List(ctx, &globalstatus.ListFilter{Codes: codes})
	if err != nil {
		return nil, err
	}

	byCode := lo.KeyBy(statuses, func(st *globalstatus.GlobalStatus) string { return st.Code })
	return lo.FilterMap(mappings, func(m *typestatus.TypeStatus, _ int) (*globalstatus.GlobalStatus, bool) {
		st, ok := byCode[m.StatusCode]
		return st, ok
	}), nil
}

func (s *mappingService) ensureActiveCatalogCodes(ctx context.Context, codes []string) error {
	found, err := s.GlobalStatusRepo.List(ctx, &globalstatus.ListFilter{Codes: codes})
	if err != nil {
		return err
	}

	active := lo.Map(found, func(st *globalstatus.GlobalStatus, _ int) string { return st.Code })
	if invalid, _ := lo.Difference(codes, active); len(invalid) > 0 {
		return ierr.NewErrorf("invalid status codes %v", invalid).
			WithHintf("Invalid status codes: %v", invalid).
			WithReportableDetails(map[string]any{"invalid_codes": invalid}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

func (s *mappingService) getActiveType(ctx context.Context, typeCode string) (*commtype.CommunicationType, error) {
	t, err := s.CommTypeRepo.Get(ctx, typeCode)
	if err != nil {
		return nil, err
	}
	if !t.IsActive {
		return nil, ierr.NewErrorf("communication type %s is inactive", typeCode).
			WithHintf("Communication type %s not found", typeCode).
			WithReportableDetails(map[string]any{"type_code": typeCode}).
			Mark(ierr.ErrNotFound)
	}
	return t, nil
}
