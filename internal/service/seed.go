package service

import (
	"context"

	"github.com/vidinfra/commtrack/internal/api/dto"
	ierr "github.com/vidinfra/commtrack/internal/errors"
	"github.com/vidinfra/commtrack/internal/types"
)

// DefaultStatuses is the built-in catalog, in display order
var DefaultStatuses = []dto.ProvisionStatusRequest{
	{Code: "Pending", DisplayName: "Pending", Phase: types.PhaseCreation, SortOrder: 1},
	{Code: "ReadyForRelease", DisplayName: "Ready For Release", Phase: types.PhaseCreation, SortOrder: 2},
	{Code: "Released", DisplayName: "Released", Phase: types.PhaseCreation, SortOrder: 3},
	{Code: "QueuedForPrinting", DisplayName: "Queued For Printing", Phase: types.PhaseProduction, SortOrder: 1},
	{Code: "Printed", DisplayName: "Printed", Phase: types.PhaseProduction, SortOrder: 2},
	{Code: "Inserted", DisplayName: "Inserted", Phase: types.PhaseProduction, SortOrder: 3},
	{Code: "WarehouseReady", DisplayName: "Warehouse Ready", Phase: types.PhaseProduction, SortOrder: 4},
	{Code: "Shipped", DisplayName: "Shipped", Phase: types.PhaseLogistics, SortOrder: 1},
	{Code: "InTransit", DisplayName: "In Transit", Phase: types.PhaseLogistics, SortOrder: 2},
	{Code: "Delivered", DisplayName: "Delivered", Phase: types.PhaseLogistics, SortOrder: 3},
	{Code: "Returned", DisplayName: "Returned", Phase: types.PhaseLogistics, SortOrder: 4},
	{Code: "Failed", DisplayName: "Failed", Phase: types.PhaseError, SortOrder: 1},
	{Code: "Cancelled", DisplayName: "Cancelled", Phase: types.PhaseError, SortOrder: 2},
	{Code: "Expired", DisplayName: "Expired", Phase: types.PhaseError, SortOrder: 3},
	{Code: "Archived", DisplayName: "Archived", Phase: types.PhaseOther, SortOrder: 1},
}

// DefaultTypes are the built-in communication types and their allow-lists
var DefaultTypes = []dto.CreateTypeRequest{
	{
		TypeCode:    "EOB",
		DisplayName: "Explanation of Benefits",
		StatusCodes: []string{"Pending", "ReadyForRelease", "Released", "QueuedForPrinting", "Printed", "Shipped", "Delivered"},
	},
	{
		TypeCode:    "EOP",
		DisplayName: "Explanation of Payment",
		StatusCodes: []string{"Pending", "QueuedForPrinting", "Printed", "Shipped", "Delivered"},
	},
	{
		TypeCode:    "ID_CARD",
		DisplayName: "ID Card",
		StatusCodes: []string{"Pending", "ReadyForRelease", "Released", "QueuedForPrinting", "Printed", "Inserted", "WarehouseReady", "Shipped", "InTransit", "Delivered"},
	},
}

// SeedResult counts what a seed run created
type SeedResult struct {
	StatusesCreated int `json:"statuses_created"`
	TypesCreated    int `json:"types_created"`
}

// SeedService provisions the default taxonomy. Running it again only adds
// what is missing; existing rows are never changed.
type SeedService interface {
	SeedDefaultTaxonomy(ctx context.Context) (*SeedResult, error)
}

type seedService struct {
	ServiceParams
	catalog  CatalogService
	taxonomy TaxonomyService
}

func NewSeedService(params ServiceParams, catalog CatalogService, taxonomy TaxonomyService) SeedService {
	return &seedService{
		ServiceParams: params,
		catalog:       catalog,
		taxonomy:      taxonomy,
	}
}

func (s *seedService) SeedDefaultTaxonomy(ctx context.Context) (*SeedResult, error) {
	result := &SeedResult{}

	err := s.DB.WithTx(ctx, func(ctx context.Context) error {
		for _, req := range DefaultStatuses {
			if _, err := s.GlobalStatusRepo.Get(ctx, req.Code); err == nil {
				continue
			} else if !ierr.IsNotFound(err) {
				return err
			}
			if _, err := s.catalog.Provision(ctx, req); err != nil {
				return err
			}
			result.StatusesCreated++
		}

		for _, req := range DefaultTypes {
			if _, err := s.CommTypeRepo.Get(ctx, req.TypeCode); err == nil {
				continue
			} else if !ierr.IsNotFound(err) {
				return err
			}
			req.StatusCodes = append([]string(nil), req.StatusCodes...)
			if _, err := s.taxonomy.CreateType(ctx, req); err != nil {
				return err
			}
			result.TypesCreated++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("seeded default taxonomy",
		"statuses_created", result.StatusesCreated,
		"types_created", result.TypesCreated,
	)
	return result, nil
}
