package publisher

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vidinfra/commtrack/internal/api/dto"
	"github.com/vidinfra/commtrack/internal/config"
	ierr "github.com/vidinfra/commtrack/internal/errors"
	"github.com/vidinfra/commtrack/internal/logger"
	"github.com/vidinfra/commtrack/internal/testutil"
	"github.com/vidinfra/commtrack/internal/types"
)

func TestPublish(t *testing.T) {
	cfg := config.GetDefaultConfig()
	ps := testutil.NewRecordingPubSub()
	p := NewEventPublisher(cfg, ps, logger.NewNopLogger())

	ctx := types.SetRequestID(testutil.SetupContext(), "req-42")
	occurredAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	id, err := p.Publish(ctx, &dto.TransitionEvent{
		CommunicationID: "comm_1",
		StatusCode:      "Shipped",
		OccurredAt:      occurredAt,
	})
	require.NoError(t, err)

	published := ps.Published(cfg.Consumer.Topic)
	require.Len(t, published, 1)
	msg := published[0]
	assert.Equal(t, id, msg.UUID)
	assert.Equal(t, "comm_1", msg.Metadata.Get("communication_id"))
	assert.Equal(t, "req-42", middleware.MessageCorrelationID(msg))

	decoded, err := dto.DecodeTransitionEvent(msg.Payload)
	require.NoError(t, err)
	assert.Equal(t, "Shipped", decoded.StatusCode)
	assert.True(t, occurredAt.Equal(decoded.OccurredAt))
}

func TestPublishRejectsInvalidEvents(t *testing.T) {
	cfg := config.GetDefaultConfig()
	ps := testutil.NewRecordingPubSub()
	p := NewEventPublisher(cfg, ps, logger.NewNopLogger())

	_, err := p.Publish(testutil.SetupContext(), &dto.TransitionEvent{StatusCode: "Shipped"})
	assert.True(t, ierr.IsValidation(err))

	_, err = p.Publish(testutil.SetupContext(), &dto.TransitionEvent{
		CommunicationID: "comm_1",
		StatusCode:      "Shipped",
		EventData:       json.RawMessage(`{broken`),
	})
	assert.True(t, ierr.IsValidation(err))
	assert.Empty(t, ps.Published(cfg.Consumer.Topic))
}

func TestPublishFailureIsRetryable(t *testing.T) {
	cfg := config.GetDefaultConfig()
	ps := testutil.NewRecordingPubSub()
	ps.FailPublish(errors.New("broker unreachable"))
	p := NewEventPublisher(cfg, ps, logger.NewNopLogger())

	_, err := p.Publish(testutil.SetupContext(), &dto.TransitionEvent{CommunicationID: "comm_1", StatusCode: "Shipped"})
	require.Error(t, err)
	assert.True(t, ierr.IsRetryable(err))
}
