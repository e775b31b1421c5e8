package service

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/vidinfra/commtrack/internal/api/dto"
	ierr "github.com/vidinfra/commtrack/internal/errors"
	"github.com/vidinfra/commtrack/internal/types"
)

type CatalogServiceSuite struct {
	engineSuite
}

func TestCatalogService(t *testing.T) {
	suite.Run(t, new(CatalogServiceSuite))
}

func (s *CatalogServiceSuite) TestListOrdering() {
	s.CreateStatus("Shipped", types.PhaseLogistics, 1)
	s.CreateStatus("Released", types.PhaseCreation, 3)
	s.CreateStatus("Pending", types.PhaseCreation, 1)
	s.CreateStatus("Archived", types.PhaseOther, 1)
	s.CreateStatus("Failed", types.PhaseError, 1)
	s.CreateStatus("Printed", types.PhaseProduction, 2)

	_, err := s.catalog.SetActive(s.GetContext(), "Archived", false)
	s.Require().NoError(err)

	active, err := s.catalog.ListActive(s.GetContext())
	s.Require().NoError(err)
	s.Equal([]string{"Pending", "Released", "Printed", "Shipped", "Failed"}, statusCodes(active))

	all, err := s.catalog.ListAll(s.GetContext())
	s.Require().NoError(err)
	s.Equal([]string{"Pending", "Released", "Printed", "Shipped", "Failed", "Archived"}, statusCodes(all))
}

func (s *CatalogServiceSuite) TestProvision() {
	testCases := []struct {
		name    string
		req     dto.ProvisionStatusRequest
		wantErr func(error) bool
	}{
		{
			name: "valid",
			req:  dto.ProvisionStatusRequest{Code: "Pending", DisplayName: "Pending", Phase: types.PhaseCreation, SortOrder: 1},
		},
		{
			name: "phase_is_normalised",
			req:  dto.ProvisionStatusRequest{Code: "Shipped", DisplayName: "Shipped", Phase: " Logistics ", SortOrder: 1},
		},
		{
			name:    "duplicate",
			req:     dto.ProvisionStatusRequest{Code: "Pending", DisplayName: "Pending again", Phase: types.PhaseCreation},
			wantErr: ierr.IsAlreadyExists,
		},
		{
			name:    "unknown_phase",
			req:     dto.ProvisionStatusRequest{Code: "Lost", DisplayName: "Lost", Phase: "limbo"},
			wantErr: ierr.IsValidation,
		},
		{
			name:    "missing_code",
			req:     dto.ProvisionStatusRequest{DisplayName: "Nameless", Phase: types.PhaseOther},
			wantErr: ierr.IsValidation,
		},
		{
			name:    "negative_sort_order",
			req:     dto.ProvisionStatusRequest{Code: "Odd", DisplayName: "Odd", Phase: types.PhaseOther, SortOrder: -1},
			wantErr: ierr.IsValidation,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			st, err := s.catalog.Provision(s.GetContext(), tc.req)
			if tc.wantErr != nil {
				s.Require().Error(err)
				s.True(tc.wantErr(err), "unexpected error kind: %v", err)
				return
			}
			s.Require().NoError(err)
			s.True(st.IsActive)

			got, err := s.catalog.Get(s.GetContext(), st.Code)
			s.Require().NoError(err)
			s.Equal(st.Phase, got.Phase)
		})
	}

	got, err := s.catalog.Get(s.GetContext(), "Pending")
	s.Require().NoError(err)
	s.Equal("Pending", got.DisplayName, "a duplicate provision must not overwrite the original row")
}

func (s *CatalogServiceSuite) TestGetUnknown() {
	_, err := s.catalog.Get(s.GetContext(), "Missing")
	s.True(ierr.IsNotFound(err))

	_, err = s.catalog.Get(s.GetContext(), "")
	s.True(ierr.IsValidation(err))
}

func (s *CatalogServiceSuite) TestDeactivateRefusedWhileMapped() {
	s.provisionCatalog()
	s.createType("EOB", "Pending", "Shipped")

	_, err := s.catalog.SetActive(s.GetContext(), "Shipped", false)
	s.Require().Error(err)
	s.True(ierr.IsBusinessRule(err))

	got, err := s.catalog.Get(s.GetContext(), "Shipped")
	s.Require().NoError(err)
	s.True(got.IsActive)

	// unmapped codes deactivate and come back
	st, err := s.catalog.SetActive(s.GetContext(), "Expired", false)
	s.Require().NoError(err)
	s.False(st.IsActive)

	st, err = s.catalog.SetActive(s.GetContext(), "Expired", true)
	s.Require().NoError(err)
	s.True(st.IsActive)
}

func (s *CatalogServiceSuite) TestDeactivateRefusedWhileCommunicationHoldsStatus() {
	s.provisionCatalog()
	s.createType("EOB", "Pending", "Shipped")
	created := s.createCommunication("EOB", "statement")

	_, err := s.mappings.ReplaceMappings(s.GetContext(), "EOB", []string{"Shipped"})
	s.Require().NoError(err)

	_, err = s.catalog.SetActive(s.GetContext(), "Pending", false)
	s.Require().Error(err)
	s.True(ierr.IsBusinessRule(err), "communication %s still sits in Pending", created.ID)

	s.Require().NoError(s.communications.SoftDelete(s.GetContext(), created.ID))
	_, err = s.catalog.SetActive(s.GetContext(), "Pending", false)
	s.Require().NoError(err)
}

func (s *CatalogServiceSuite) TestSetActiveIsIdempotent() {
	s.CreateStatus("Pending", types.PhaseCreation, 1)

	st, err := s.catalog.SetActive(s.GetContext(), "Pending", true)
	s.Require().NoError(err)
	s.True(st.IsActive)

	_, err = s.catalog.SetActive(s.GetContext(), "Missing", false)
	s.True(ierr.IsNotFound(err))
}
