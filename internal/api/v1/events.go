package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vidinfra/commtrack/internal/api/dto"
	ierr "github.com/vidinfra/commtrack/internal/errors"
	"github.com/vidinfra/commtrack/internal/logger"
	"github.com/vidinfra/commtrack/internal/publisher"
	"github.com/vidinfra/commtrack/internal/service"
)

type EventsHandler struct {
	handler   service.TransitionEventHandler
	publisher publisher.EventPublisher
	log       *logger.Logger
}

func NewEventsHandler(
	handler service.TransitionEventHandler,
	publisher publisher.EventPublisher,
	log *logger.Logger,
) *EventsHandler {
	return &EventsHandler{
		handler:   handler,
		publisher: publisher,
		log:       log,
	}
}

type ingestEventQuery struct {
	Async bool `form:"async"`
}

// IngestEvent applies a transition event. With ?async=true the event is put
// on the consumer topic instead and 202 is returned.
func (h *EventsHandler) IngestEvent(c *gin.Context) {
	ctx := c.Request.Context()

	var query ingestEventQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid query parameters").
			Mark(ierr.ErrValidation))
		return
	}

	var req dto.TransitionEvent
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	if query.Async {
		if h.publisher == nil {
			c.Error(ierr.NewError("event publisher not configured").
				WithHint("Asynchronous ingestion is not available").
				Mark(ierr.ErrBusinessRule))
			return
		}

		messageID, err := h.publisher.Publish(ctx, &req)
		if err != nil {
			c.Error(err)
			return
		}

		c.JSON(http.StatusAccepted, &dto.EventAcceptedResponse{
			MessageID: messageID,
			Topic:     h.publisher.Topic(),
		})
		return
	}

	if err := h.handler.HandleTransitionEvent(ctx, &req); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
