package testutil

import (
	"context"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/vidinfra/commtrack/internal/config"
	"github.com/vidinfra/commtrack/internal/domain/commtype"
	"github.com/vidinfra/commtrack/internal/domain/communication"
	"github.com/vidinfra/commtrack/internal/domain/globalstatus"
	"github.com/vidinfra/commtrack/internal/domain/statushistory"
	"github.com/vidinfra/commtrack/internal/domain/typestatus"
	"github.com/vidinfra/commtrack/internal/logger"
	"github.com/vidinfra/commtrack/internal/postgres"
	"github.com/vidinfra/commtrack/internal/types"
	"github.com/vidinfra/commtrack/internal/validator"
)

// Stores holds all the repository interfaces for testing
type Stores struct {
	GlobalStatusRepo  globalstatus.Repository
	CommTypeRepo      commtype.Repository
	TypeStatusRepo    typestatus.Repository
	CommunicationRepo communication.Repository
	StatusHistoryRepo statushistory.Repository
}

// BaseServiceTestSuite provides common functionality for all service test suites
type BaseServiceTestSuite struct {
	suite.Suite
	ctx    context.Context
	stores Stores
	db     *InMemoryTxClient
	logger *logger.Logger
	config *config.Configuration
	now    time.Time
}

// SetupSuite is called once before running the tests in the suite
func (s *BaseServiceTestSuite) SetupSuite() {
	validator.NewValidator()

	s.config = config.GetDefaultConfig()
	s.config.Logging.Level = types.LogLevelInfo
	s.logger = logger.NewNopLogger()
}

// SetupTest is called before each test
func (s *BaseServiceTestSuite) SetupTest() {
	s.ctx = SetupContext()
	s.setupStores()
	s.config.Transitions.Policy = types.TransitionPolicyPermissive
	s.now = time.Now().UTC()
}

// TearDownTest is called after each test
func (s *BaseServiceTestSuite) TearDownTest() {
	s.clearStores()
}

func (s *BaseServiceTestSuite) setupStores() {
	globalStatuses := NewInMemoryGlobalStatusStore()
	commTypes := NewInMemoryCommunicationTypeStore()
	typeStatuses := NewInMemoryTypeStatusStore()
	communications := NewInMemoryCommunicationStore()
	history := NewInMemoryStatusHistoryStore()

	s.stores = Stores{
		GlobalStatusRepo:  globalStatuses,
		CommTypeRepo:      commTypes,
		TypeStatusRepo:    typeStatuses,
		CommunicationRepo: communications,
		StatusHistoryRepo: history,
	}
	s.db = NewInMemoryTxClient(s.logger, globalStatuses, commTypes, typeStatuses, communications, history)
}

func (s *BaseServiceTestSuite) clearStores() {
	s.stores.GlobalStatusRepo.(*InMemoryGlobalStatusStore).Clear()
	s.stores.CommTypeRepo.(*InMemoryCommunicationTypeStore).Clear()
	s.stores.TypeStatusRepo.(*InMemoryTypeStatusStore).Clear()
	s.stores.CommunicationRepo.(*InMemoryCommunicationStore).Clear()
	s.stores.StatusHistoryRepo.(*InMemoryStatusHistoryStore).Clear()
}

// GetContext returns the test context
func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

// GetConfig returns the test configuration
func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.config
}

// GetStores returns all test repositories
func (s *BaseServiceTestSuite) GetStores() Stores {
	return s.stores
}

// GetDB returns the test transaction client
func (s *BaseServiceTestSuite) GetDB() postgres.IClient {
	return s.db
}

// GetLogger returns the test logger
func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.logger
}

// GetNow returns the current test time
func (s *BaseServiceTestSuite) GetNow() time.Time {
	return s.now.UTC()
}

// GetUUID returns a new UUID string
func (s *BaseServiceTestSuite) GetUUID() string {
	return types.GenerateUUID()
}

// CreateStatus inserts an active catalog status directly into the store
func (s *BaseServiceTestSuite) CreateStatus(code string, phase types.StatusPhase, sortOrder int) *globalstatus.GlobalStatus {
	st := &globalstatus.GlobalStatus{
		Code:        code,
		DisplayName: code,
		Phase:       phase,
		SortOrder:   sortOrder,
		IsActive:    true,
		CreatedAt:   s.now,
	}
	s.Require().NoError(s.stores.GlobalStatusRepo.Create(s.ctx, st))
	return st
}
