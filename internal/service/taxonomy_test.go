package service

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/suite"
	"github.com/vidinfra/commtrack/internal/api/dto"
	"github.com/vidinfra/commtrack/internal/domain/commtype"
	"github.com/vidinfra/commtrack/internal/domain/globalstatus"
	ierr "github.com/vidinfra/commtrack/internal/errors"
)

type TaxonomyServiceSuite struct {
	engineSuite
}

func TestTaxonomyService(t *testing.T) {
	suite.Run(t, new(TaxonomyServiceSuite))
}

func (s *TaxonomyServiceSuite) SetupTest() {
	s.engineSuite.SetupTest()
	s.provisionCatalog()
}

func statusCodes(statuses []*globalstatus.GlobalStatus) []string {
	return lo.Map(statuses, func(st *globalstatus.GlobalStatus, _ int) string { return st.Code })
}

func (s *TaxonomyServiceSuite) TestCreateType() {
	testCases := []struct {
		name    string
		req     dto.CreateTypeRequest
		wantErr func(error) bool
	}{
		{
			name: "valid",
			req: dto.CreateTypeRequest{
				TypeCode:    "EOB",
				DisplayName: "Explanation of Benefits",
				StatusCodes: []string{"Pending", "Shipped"},
			},
		},
		{
			name:    "empty_status_list",
			req:     dto.CreateTypeRequest{TypeCode: "EOP", DisplayName: "Explanation of Payment", StatusCodes: []string{}},
			wantErr: ierr.IsValidation,
		},
		{
			name:    "lowercase_type_code",
			req:     dto.CreateTypeRequest{TypeCode: "eob", DisplayName: "x", StatusCodes: []string{"Pending"}},
			wantErr: ierr.IsValidation,
		},
		{
			name:    "type_code_too_long",
			req:     dto.CreateTypeRequest{TypeCode: "ABCDEFGHIJKLMNOPQRSTU", DisplayName: "x", StatusCodes: []string{"Pending"}},
			wantErr: ierr.IsValidation,
		},
		{
			name:    "missing_display_name",
			req:     dto.CreateTypeRequest{TypeCode: "EOP", StatusCodes: []string{"Pending"}},
			wantErr: ierr.IsValidation,
		},
		{
			name:    "unknown_status",
			req:     dto.CreateTypeRequest{TypeCode: "EOP", DisplayName: "x", StatusCodes: []string{"Pending", "Teleported"}},
			wantErr: ierr.IsValidation,
		},
		{
			name:    "duplicate_status",
			req:     dto.CreateTypeRequest{TypeCode: "EOP", DisplayName: "x", StatusCodes: []string{"Pending", "Pending"}},
			wantErr: ierr.IsValidation,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			resp, err := s.taxonomy.CreateType(s.GetContext(), tc.req)
			if tc.wantErr != nil {
				s.Require().Error(err)
				s.True(tc.wantErr(err), "unexpected error kind: %v", err)
				_, getErr := s.GetStores().CommTypeRepo.Get(s.GetContext(), tc.req.TypeCode)
				s.True(ierr.IsNotFound(getErr), "failed create must not leave a type behind")
				return
			}
			s.Require().NoError(err)
			s.Equal(tc.req.StatusCodes, statusCodes(resp.ValidStatuses))
			s.Equal("test_user", resp.CreatedBy)
			s.True(resp.IsActive)
		})
	}
}

func (s *TaxonomyServiceSuite) TestCreateDuplicateType() {
	s.createType("EOB", "Pending")

	_, err := s.taxonomy.CreateType(s.GetContext(), dto.CreateTypeRequest{
		TypeCode:    "EOB",
		DisplayName: "again",
		StatusCodes: []string{"Shipped"},
	})
	s.Require().Error(err)
	s.True(ierr.IsAlreadyExists(err))

	valid, err := s.mappings.GetValidStatuses(s.GetContext(), "EOB")
	s.Require().NoError(err)
	s.Equal([]string{"Pending"}, statusCodes(valid))
}

func (s *TaxonomyServiceSuite) TestUpdateType() {
	s.createType("EOB", "Pending", "Shipped")

	resp, err := s.taxonomy.UpdateType(s.GetContext(), "EOB", dto.UpdateTypeRequest{
		DisplayName: lo.ToPtr("Benefits"),
	})
	s.Require().NoError(err)
	s.Equal("Benefits", resp.DisplayName)
	s.Equal([]string{"Pending", "Shipped"}, statusCodes(resp.ValidStatuses))

	resp, err = s.taxonomy.UpdateType(s.GetContext(), "EOB", dto.UpdateTypeRequest{
		StatusCodes: &[]string{"Delivered", "Pending"},
	})
	s.Require().NoError(err)
	s.Equal("Benefits", resp.DisplayName)
	s.Equal([]string{"Delivered", "Pending"}, statusCodes(resp.ValidStatuses))

	_, err = s.taxonomy.UpdateType(s.GetContext(), "EOB", dto.UpdateTypeRequest{
		DisplayName: lo.ToPtr("Broken"),
		StatusCodes: &[]string{"Pending", "Nope"},
	})
	s.Require().Error(err)
	s.True(ierr.IsValidation(err))

	got, err := s.taxonomy.GetType(s.GetContext(), "EOB")
	s.Require().NoError(err)
	s.Equal("Benefits", got.DisplayName, "a failed update must roll back the display name")
	s.Equal([]string{"Delivered", "Pending"}, statusCodes(got.ValidStatuses))
}

func (s *TaxonomyServiceSuite) TestSoftDeleteTypeGuard() {
	s.createType("EOB", "Pending", "Shipped")
	created := s.createCommunication("EOB", "statement")

	err := s.taxonomy.SoftDeleteType(s.GetContext(), "EOB")
	s.Require().Error(err)
	s.True(ierr.IsBusinessRule(err))

	active, err := s.taxonomy.ListActiveTypes(s.GetContext())
	s.Require().NoError(err)
	s.Len(active, 1)

	s.Require().NoError(s.communications.SoftDelete(s.GetContext(), created.ID))
	s.Require().NoError(s.taxonomy.SoftDeleteType(s.GetContext(), "EOB"))
	// idempotent
	s.Require().NoError(s.taxonomy.SoftDeleteType(s.GetContext(), "EOB"))

	active, err = s.taxonomy.ListActiveTypes(s.GetContext())
	s.Require().NoError(err)
	s.Empty(active)

	_, err = s.mappings.GetValidStatuses(s.GetContext(), "EOB")
	s.True(ierr.IsNotFound(err))

	restored, err := s.taxonomy.RestoreType(s.GetContext(), "EOB")
	s.Require().NoError(err)
	s.True(restored.IsActive)
	s.Equal([]string{"Pending", "Shipped"}, statusCodes(restored.ValidStatuses))
}

func (s *TaxonomyServiceSuite) TestListTypesOrderedByDisplayName() {
	for _, req := range []dto.CreateTypeRequest{
		{TypeCode: "ID_CARD", DisplayName: "ID Card", StatusCodes: []string{"Pending"}},
		{TypeCode: "EOB", DisplayName: "Explanation of Benefits", StatusCodes: []string{"Pending"}},
		{TypeCode: "EOP", DisplayName: "Explanation of Payment", StatusCodes: []string{"Pending"}},
	} {
		_, err := s.taxonomy.CreateType(s.GetContext(), req)
		s.Require().NoError(err)
	}
	s.Require().NoError(s.taxonomy.SoftDeleteType(s.GetContext(), "EOP"))

	typeCodes := func(items []*commtype.CommunicationType) []string {
		return lo.Map(items, func(t *commtype.CommunicationType, _ int) string { return t.TypeCode })
	}

	active, err := s.taxonomy.ListTypes(s.GetContext(), false)
	s.Require().NoError(err)
	s.Equal([]string{"EOB", "ID_CARD"}, typeCodes(active))

	all, err := s.taxonomy.ListTypes(s.GetContext(), true)
	s.Require().NoError(err)
	s.Equal([]string{"EOB", "EOP", "ID_CARD"}, typeCodes(all))
}

func (s *TaxonomyServiceSuite) TestGetUnknownType() {
	_, err := s.taxonomy.GetType(s.GetContext(), "MISSING")
	s.Require().Error(err)
	s.True(ierr.IsNotFound(err))
}
