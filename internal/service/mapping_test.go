package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/vidinfra/commtrack/internal/domain/typestatus"
	ierr "github.com/vidinfra/commtrack/internal/errors"
)

type MappingServiceSuite struct {
	engineSuite
}

func TestMappingService(t *testing.T) {
	suite.Run(t, new(MappingServiceSuite))
}

func (s *MappingServiceSuite) SetupTest() {
	s.engineSuite.SetupTest()
	s.provisionCatalog()
	s.createType("EOB", "Pending", "Printed", "Shipped")
}

func (s *MappingServiceSuite) activeMappingCodes() []string {
	mappings, err := s.mappings.ListMappings(s.GetContext(), "EOB")
	s.Require().NoError(err)
	codes := make([]string, len(mappings))
	for i, m := range mappings {
		codes[i] = m.StatusCode
	}
	return codes
}

func (s *MappingServiceSuite) TestReplaceMappings() {
	created, err := s.mappings.ReplaceMappings(s.GetContext(), "EOB", []string{"Shipped", "Pending", "Delivered"})
	s.Require().NoError(err)
	s.Len(created, 3)

	for i, m := range created {
		s.Equal(i+1, m.SortOrder)
		s.NotZero(m.ID)
		s.Equal(typestatus.DefaultDescription(m.StatusCode, "EOB"), m.Description)
	}
	s.Equal([]string{"Shipped", "Pending", "Delivered"}, s.activeMappingCodes())

	// replaced rows stay behind, deactivated
	all := s.typeStatusStore().ListAllByType(s.GetContext(), "EOB")
	s.Len(all, 6)
}

func (s *MappingServiceSuite) TestReplaceWithInvalidCodeWritesNothing() {
	before := s.activeMappingCodes()

	_, err := s.mappings.ReplaceMappings(s.GetContext(), "EOB", []string{"Pending", "Bogus", "Delivered"})
	s.Require().Error(err)
	s.True(ierr.IsValidation(err))

	s.Equal(before, s.activeMappingCodes())
	s.Len(s.typeStatusStore().ListAllByType(s.GetContext(), "EOB"), 3)
}

func (s *MappingServiceSuite) TestReplaceRollsBackOnStoreFailure() {
	before := s.activeMappingCodes()
	storeErr := ierr.WithError(errors.New("connection reset")).Mark(ierr.ErrDatabase)
	s.typeStatusStore().FailNextCreateBulk(storeErr)

	_, err := s.mappings.ReplaceMappings(s.GetContext(), "EOB", []string{"Delivered"})
	s.Require().Error(err)
	s.True(ierr.IsRetryable(err))

	s.Equal(before, s.activeMappingCodes(), "deactivation must be rolled back with the failed insert")
}

func (s *MappingServiceSuite) TestReplaceRejectsShapeErrors() {
	for name, codes := range map[string][]string{
		"empty":     {},
		"blank":     {"Pending", ""},
		"duplicate": {"Pending", "Shipped", "Pending"},
	} {
		s.Run(name, func() {
			_, err := s.mappings.ReplaceMappings(s.GetContext(), "EOB", codes)
			s.Require().Error(err)
			s.True(ierr.IsValidation(err))
			s.Equal([]string{"Pending", "Printed", "Shipped"}, s.activeMappingCodes())
		})
	}
}

func (s *MappingServiceSuite) TestReplaceUnknownType() {
	_, err := s.mappings.ReplaceMappings(s.GetContext(), "NOPE", []string{"Pending"})
	s.Require().Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *MappingServiceSuite) TestValidateCodes() {
	testCases := []struct {
		name  string
		codes []string
		want  bool
	}{
		{name: "all_valid", codes: []string{"Pending", "Shipped"}, want: true},
		{name: "one_invalid", codes: []string{"Pending", "Delivered"}, want: false},
		{name: "empty", codes: []string{}, want: true},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			valid, err := s.mappings.ValidateCodes(s.GetContext(), "EOB", tc.codes)
			s.Require().NoError(err)
			s.Equal(tc.want, valid)
		})
	}
}

func (s *MappingServiceSuite) TestReplaceRejectsDeactivatedCatalogCode() {
	s.createType("EOP", "Pending", "Returned")
	_, err := s.mappings.ReplaceMappings(s.GetContext(), "EOP", []string{"Pending"})
	s.Require().NoError(err)

	_, err = s.catalog.SetActive(s.GetContext(), "Returned", false)
	s.Require().NoError(err)

	_, err = s.mappings.ReplaceMappings(s.GetContext(), "EOB", []string{"Pending", "Returned"})
	s.Require().Error(err)
	s.True(ierr.IsValidation(err))
}
