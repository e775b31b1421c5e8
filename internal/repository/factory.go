package repository

import (
	"github.com/vidinfra/commtrack/internal/domain/communication"
	"github.com/vidinfra/commtrack/internal/domain/commtype"
	"github.com/vidinfra/commtrack/internal/domain/globalstatus"
	"github.com/vidinfra/commtrack/internal/domain/statushistory"
	"github.com/vidinfra/commtrack/internal/domain/typestatus"
	"github.com/vidinfra/commtrack/internal/logger"
	"github.com/vidinfra/commtrack/internal/postgres"
	postgresRepo "github.com/vidinfra/commtrack/internal/repository/postgres"
)

func NewGlobalStatusRepository(db *postgres.DB, logger *logger.Logger) globalstatus.Repository {
	return postgresRepo.NewGlobalStatusRepository(db, logger)
}

func NewCommunicationTypeRepository(db *postgres.DB, logger *logger.Logger) commtype.Repository {
	return postgresRepo.NewCommunicationTypeRepository(db, logger)
}

func NewTypeStatusRepository(db *postgres.DB, logger *logger.Logger) typestatus.Repository {
	return postgresRepo.NewTypeStatusRepository(db, logger)
}

func NewCommunicationRepository(db *postgres.DB, logger *logger.Logger) communication.Repository {
	return postgresRepo.NewCommunicationRepository(db, logger)
}

func NewStatusHistoryRepository(db *postgres.DB, logger *logger.Logger) statushistory.Repository {
	return postgresRepo.NewStatusHistoryRepository(db, logger)
}
