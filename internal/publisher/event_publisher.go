package publisher

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/vidinfra/commtrack/internal/api/dto"
	"github.com/vidinfra/commtrack/internal/config"
	ierr "github.com/vidinfra/commtrack/internal/errors"
	"github.com/vidinfra/commtrack/internal/logger"
	"github.com/vidinfra/commtrack/internal/pubsub"
	"github.com/vidinfra/commtrack/internal/types"
)

// EventPublisher hands transition events to the consumer through the
// configured topic
type EventPublisher interface {
	// Publish returns the ID of the published message
	Publish(ctx context.Context, event *dto.TransitionEvent) (string, error)
	Topic() string
}

type eventPublisher struct {
	pubsub pubsub.Publisher
	topic  string
	logger *logger.Logger
}

func NewEventPublisher(cfg *config.Configuration, pubSub pubsub.PubSub, logger *logger.Logger) EventPublisher {
	return &eventPublisher{
		pubsub: pubSub,
		topic:  cfg.Consumer.Topic,
		logger: logger,
	}
}

func (p *eventPublisher) Topic() string {
	return p.topic
}

func (p *eventPublisher) Publish(ctx context.Context, event *dto.TransitionEvent) (string, error) {
	if err := event.Validate(); err != nil {
		return "", err
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return "", ierr.WithError(err).
			WithHint("Failed to encode transition event").
			Mark(ierr.ErrSystem)
	}

	msg := message.NewMessage(types.GenerateUUIDWithPrefix(types.UUID_PREFIX_EVENT), payload)
	msg.Metadata.Set("communication_id", event.CommunicationID)
	if requestID := types.GetRequestID(ctx); requestID != "" {
		middleware.SetCorrelationID(requestID, msg)
	}

	if err := p.pubsub.Publish(ctx, p.topic, msg); err != nil {
		p.logger.Errorw("failed to publish transition event",
			"error", err,
			"communication_id", event.CommunicationID,
			"topic", p.topic,
		)
		return "", ierr.WithError(err).
			WithHint("Failed to publish transition event").
			Mark(ierr.ErrDatabase)
	}

	p.logger.Debugw("published transition event",
		"message_id", msg.UUID,
		"communication_id", event.CommunicationID,
		"status_code", event.StatusCode,
		"topic", p.topic,
	)
	return msg.UUID, nil
}
