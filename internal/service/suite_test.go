package service

import (
	"github.com/vidinfra/commtrack/internal/api/dto"
	"github.com/vidinfra/commtrack/internal/testutil"
)

// engineSuite wires every engine service over the in-memory stores
type engineSuite struct {
	testutil.BaseServiceTestSuite

	params         ServiceParams
	catalog        CatalogService
	mappings       MappingService
	validator      TransitionValidator
	taxonomy       TaxonomyService
	communications CommunicationService
	ledger         LedgerService
}

func (s *engineSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()

	stores := s.GetStores()
	s.params = NewServiceParams(
		s.GetLogger(),
		s.GetConfig(),
		s.GetDB(),
		stores.GlobalStatusRepo,
		stores.CommTypeRepo,
		stores.TypeStatusRepo,
		stores.CommunicationRepo,
		stores.StatusHistoryRepo,
	)
	s.catalog = NewCatalogService(s.params)
	s.mappings = NewMappingService(s.params)
	s.validator = NewTransitionValidator(s.params)
	s.taxonomy = NewTaxonomyService(s.params)
	s.communications = NewCommunicationService(s.params, s.validator)
	s.ledger = NewLedgerService(s.params)
}

func (s *engineSuite) typeStatusStore() *testutil.InMemoryTypeStatusStore {
	return s.GetStores().TypeStatusRepo.(*testutil.InMemoryTypeStatusStore)
}

// provisionCatalog loads the built-in statuses through the catalog service
func (s *engineSuite) provisionCatalog() {
	for _, req := range DefaultStatuses {
		_, err := s.catalog.Provision(s.GetContext(), req)
		s.Require().NoError(err)
	}
}

func (s *engineSuite) createType(typeCode string, statusCodes ...string) *dto.TypeResponse {
	resp, err := s.taxonomy.CreateType(s.GetContext(), dto.CreateTypeRequest{
		TypeCode:    typeCode,
		DisplayName: typeCode + " display",
		StatusCodes: statusCodes,
	})
	s.Require().NoError(err)
	return resp
}

func (s *engineSuite) createCommunication(typeCode, title string) *dto.CommunicationResponse {
	resp, err := s.communications.Create(s.GetContext(), dto.CreateCommunicationRequest{
		TypeCode: typeCode,
		Title:    title,
	})
	s.Require().NoError(err)
	return resp
}

func (s *engineSuite) transition(id, statusCode string) (*dto.CommunicationResponse, error) {
	return s.communications.Transition(s.GetContext(), id, dto.TransitionRequest{StatusCode: statusCode})
}

func (s *engineSuite) historyCodes(id string) []string {
	entries, err := s.ledger.ListFor(s.GetContext(), id)
	s.Require().NoError(err)
	codes := make([]string, len(entries))
	for i, e := range entries {
		codes[i] = e.StatusCode
	}
	return codes
}
