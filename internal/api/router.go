package api

import (
	"github.com/gin-gonic/gin"
	v1 "github.com/vidinfra/commtrack/internal/api/v1"
	"github.com/vidinfra/commtrack/internal/config"
	"github.com/vidinfra/commtrack/internal/logger"
	"github.com/vidinfra/commtrack/internal/rest/middleware"
	"github.com/vidinfra/commtrack/internal/sentry"
	"github.com/vidinfra/commtrack/internal/types"
)

type Handlers struct {
	Health        *v1.HealthHandler
	Status        *v1.StatusHandler
	Type          *v1.TypeHandler
	Communication *v1.CommunicationHandler
	Events        *v1.EventsHandler
}

func NewRouter(handlers Handlers, cfg *config.Configuration, logger *logger.Logger, sentryService *sentry.Service) *gin.Engine {
	if cfg.Deployment.Mode != types.ModeLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestIDMiddleware,
		middleware.CORSMiddleware,
		middleware.SentryMiddleware(cfg),
		middleware.ErrorHandler(logger, sentryService),
	)

	router.GET("/health", handlers.Health.Health)

	v1Group := router.Group("/v1")
	v1Group.Use(middleware.UserIdentityMiddleware)
	registerV1Routes(v1Group, handlers)

	return router
}

func registerV1Routes(router *gin.RouterGroup, handlers Handlers) {
	statuses := router.Group("/statuses")
	{
		statuses.GET("", handlers.Status.ListStatuses)
		statuses.POST("", handlers.Status.ProvisionStatus)
		statuses.GET("/:code", handlers.Status.GetStatus)
		statuses.POST("/:code/activate", handlers.Status.ActivateStatus)
		statuses.POST("/:code/deactivate", handlers.Status.DeactivateStatus)
	}

	commTypes := router.Group("/types")
	{
		commTypes.GET("", handlers.Type.ListTypes)
		commTypes.POST("", handlers.Type.CreateType)
		commTypes.GET("/:code", handlers.Type.GetType)
		commTypes.PUT("/:code", handlers.Type.UpdateType)
		commTypes.DELETE("/:code", handlers.Type.DeleteType)
		commTypes.POST("/:code/restore", handlers.Type.RestoreType)
		commTypes.GET("/:code/statuses", handlers.Type.ListMappings)
		commTypes.PUT("/:code/statuses", handlers.Type.ReplaceMappings)
		commTypes.POST("/:code/statuses/validate", handlers.Type.ValidateStatusCodes)
	}

	communications := router.Group("/communications")
	{
		communications.GET("", handlers.Communication.ListCommunications)
		communications.POST("", handlers.Communication.CreateCommunication)
		communications.GET("/:id", handlers.Communication.GetCommunication)
		communications.DELETE("/:id", handlers.Communication.DeleteCommunication)
		communications.POST("/:id/transitions", handlers.Communication.TransitionCommunication)
		communications.POST("/:id/restore", handlers.Communication.RestoreCommunication)
		communications.GET("/:id/consistency", handlers.Communication.VerifyConsistency)
	}

	events := router.Group("/events")
	{
		events.POST("", handlers.Events.IngestEvent)
	}
}
