package service

import (
	"context"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/vidinfra/commtrack/internal/api/dto"
	"github.com/vidinfra/commtrack/internal/cache"
	ierr "github.com/vidinfra/commtrack/internal/errors"
	pubsubRouter "github.com/vidinfra/commtrack/internal/pubsub/router"
	"github.com/vidinfra/commtrack/internal/sentry"
	"github.com/vidinfra/commtrack/internal/types"
)

// TransitionEventHandler is the inbound port for status changes that arrive
// as messages. Its error kind tells the caller whether to ack or nack.
type TransitionEventHandler interface {
	HandleTransitionEvent(ctx context.Context, event *dto.TransitionEvent) error
	// RegisterHandler binds the consumer topic to the handler on the router
	RegisterHandler(router *pubsubRouter.Router, subscriber message.Subscriber)
}

type transitionEventHandler struct {
	ServiceParams
	communications CommunicationService
	sentryService  *sentry.Service
	dedupe         *cache.Deduplicator
}

func NewTransitionEventHandler(
	params ServiceParams,
	communications CommunicationService,
	sentryService *sentry.Service,
	dedupe *cache.Deduplicator,
) TransitionEventHandler {
	return &transitionEventHandler{
		ServiceParams:  params,
		communications: communications,
		sentryService:  sentryService,
		dedupe:         dedupe,
	}
}

func (h *transitionEventHandler) HandleTransitionEvent(ctx context.Context, event *dto.TransitionEvent) error {
	if event == nil {
		return ierr.NewError("transition event is nil").
			WithHint("Transition event is required").
			Mark(ierr.ErrValidation)
	}
	if err := event.Validate(); err != nil {
		return err
	}

	_, err := h.communications.Transition(ctx, event.CommunicationID, event.ToTransitionRequest())
	return err
}

func (h *transitionEventHandler) RegisterHandler(router *pubsubRouter.Router, subscriber message.Subscriber) {
	router.AddNoPublishHandler(
		"transition_event_handler",
		h.Config.Consumer.Topic,
		subscriber,
		h.processMessage,
	)

	h.Logger.Infow("registered transition event handler",
		"topic", h.Config.Consumer.Topic,
		"pubsub", h.Config.Consumer.PubSub,
	)
}

// processMessage acks (nil) on success, on duplicates and on permanent
// failures, and returns the error for transient failures so the router
// retries the message and finally moves it to the poison queue
func (h *transitionEventHandler) processMessage(msg *message.Message) error {
	ctx := msg.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = types.SetUserID(ctx, "consumer")
	if correlationID := middleware.MessageCorrelationID(msg); correlationID != "" {
		ctx = types.SetRequestID(ctx, correlationID)
	}

	transaction, ctx := h.sentryService.StartTransaction(ctx, "transition_event.process")
	if transaction != nil {
		defer transaction.Finish()
	}

	if h.dedupe != nil && h.dedupe.Seen(ctx, msg.UUID) {
		h.Logger.Debugw("skipping already processed message", "message_uuid", msg.UUID)
		return nil
	}

	event, err := dto.DecodeTransitionEvent(msg.Payload)
	if err != nil {
		h.Logger.Errorw("dropping malformed transition event",
			"error", err,
			"message_uuid", msg.UUID,
			"payload", string(msg.Payload),
		)
		return nil
	}

	if !event.OccurredAt.IsZero() {
		span, spanCtx := h.sentryService.MonitorEventProcessing(ctx, h.Config.Consumer.Topic, event.OccurredAt, map[string]interface{}{
			"communication_id": event.CommunicationID,
			"status_code":      event.StatusCode,
		})
		if span != nil {
			defer span.Finish()
		}
		ctx = spanCtx
	}

	start := time.Now()
	err = h.HandleTransitionEvent(ctx, event)
	if err == nil {
		if h.dedupe != nil {
			h.dedupe.MarkProcessed(ctx, msg.UUID)
		}
		h.Logger.Debugw("processed transition event",
			"message_uuid", msg.UUID,
			"communication_id", event.CommunicationID,
			"status_code", event.StatusCode,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil
	}

	if pubsubRouter.ShouldRetry(h.Logger, err) {
		h.Logger.Warnw("transient failure processing transition event",
			"error", err,
			"message_uuid", msg.UUID,
			"communication_id", event.CommunicationID,
		)
		h.sentryService.AddBreadcrumb("consumer", "transition event will be retried", map[string]interface{}{
			"message_uuid":     msg.UUID,
			"communication_id": event.CommunicationID,
			"error_code":       ierr.Code(err),
		})
		return err
	}

	h.Logger.Errorw("rejected transition event",
		"error", err,
		"error_code", ierr.Code(err),
		"message_uuid", msg.UUID,
		"communication_id", event.CommunicationID,
		"status_code", event.StatusCode,
	)
	h.sentryService.CaptureStoreError(err)
	return nil
}
