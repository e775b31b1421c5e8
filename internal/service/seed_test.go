package service

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/vidinfra/commtrack/internal/types"
)

type SeedServiceSuite struct {
	engineSuite
	seeder SeedService
}

func TestSeedService(t *testing.T) {
	suite.Run(t, new(SeedServiceSuite))
}

func (s *SeedServiceSuite) SetupTest() {
	s.engineSuite.SetupTest()
	s.seeder = NewSeedService(s.params, s.catalog, s.taxonomy)
}

func (s *SeedServiceSuite) TestSeedDefaultTaxonomy() {
	result, err := s.seeder.SeedDefaultTaxonomy(s.GetContext())
	s.Require().NoError(err)
	s.Equal(15, result.StatusesCreated)
	s.Equal(3, result.TypesCreated)

	statuses, err := s.catalog.ListActive(s.GetContext())
	s.Require().NoError(err)
	s.Len(statuses, 15)
	s.Equal("Pending", statuses[0].Code)
	s.Equal(types.PhaseOther, statuses[len(statuses)-1].Phase)

	eob, err := s.taxonomy.GetType(s.GetContext(), "EOB")
	s.Require().NoError(err)
	s.Equal(
		[]string{"Pending", "ReadyForRelease", "Released", "QueuedForPrinting", "Printed", "Shipped", "Delivered"},
		statusCodes(eob.ValidStatuses),
	)

	typesList, err := s.taxonomy.ListActiveTypes(s.GetContext())
	s.Require().NoError(err)
	s.Len(typesList, 3)
}

func (s *SeedServiceSuite) TestSeedIsIdempotent() {
	_, err := s.seeder.SeedDefaultTaxonomy(s.GetContext())
	s.Require().NoError(err)

	// a customised type survives a second run untouched
	_, err = s.mappings.ReplaceMappings(s.GetContext(), "EOP", []string{"Pending", "Failed"})
	s.Require().NoError(err)

	result, err := s.seeder.SeedDefaultTaxonomy(s.GetContext())
	s.Require().NoError(err)
	s.Zero(result.StatusesCreated)
	s.Zero(result.TypesCreated)

	eop, err := s.mappings.GetValidStatuses(s.GetContext(), "EOP")
	s.Require().NoError(err)
	s.Equal([]string{"Pending", "Failed"}, statusCodes(eop))
}

func (s *SeedServiceSuite) TestSeedFillsGaps() {
	s.CreateStatus("Pending", types.PhaseCreation, 1)

	result, err := s.seeder.SeedDefaultTaxonomy(s.GetContext())
	s.Require().NoError(err)
	s.Equal(14, result.StatusesCreated)
	s.Equal(3, result.TypesCreated)
}
