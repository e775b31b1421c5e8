package service

import (
	"github.com/vidinfra/commtrack/internal/config"
	"github.com/vidinfra/commtrack/internal/domain/communication"
	"github.com/vidinfra/commtrack/internal/domain/commtype"
	"github.com/vidinfra/commtrack/internal/domain/globalstatus"
	"github.com/vidinfra/commtrack/internal/domain/statushistory"
	"github.com/vidinfra/commtrack/internal/domain/typestatus"
	"github.com/vidinfra/commtrack/internal/logger"
	"github.com/vidinfra/commtrack/internal/postgres"
)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration
	DB     postgres.IClient

	// Repositories
	GlobalStatusRepo  globalstatus.Repository
	CommTypeRepo      commtype.Repository
	TypeStatusRepo    typestatus.Repository
	CommunicationRepo communication.Repository
	StatusHistoryRepo statushistory.Repository
}

// NewServiceParams creates a new ServiceParams with all dependencies
func NewServiceParams(
	logger *logger.Logger,
	config *config.Configuration,
	db postgres.IClient,
	globalStatusRepo globalstatus.Repository,
	commTypeRepo commtype.Repository,
	typeStatusRepo typestatus.Repository,
	communicationRepo communication.Repository,
	statusHistoryRepo statushistory.Repository,
) ServiceParams {
	return ServiceParams{
		Logger:            logger,
		Config:            config,
		DB:                db,
		GlobalStatusRepo:  globalStatusRepo,
		CommTypeRepo:      commTypeRepo,
		TypeStatusRepo:    typeStatusRepo,
		CommunicationRepo: communicationRepo,
		StatusHistoryRepo: statusHistoryRepo,
	}
}
