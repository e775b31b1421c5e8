package dto

import (
	"encoding/json"
	"strings"
	"time"

	ierr "github.com/vidinfra/commtrack/internal/errors"
	"github.com/vidinfra/commtrack/internal/validator"
)

// TransitionEvent is the inbound message asking for a status change
type TransitionEvent struct {
	CommunicationID string          `json:"communication_id" validate:"required"`
	StatusCode      string          `json:"status_code" validate:"required"`
	OccurredAt      time.Time       `json:"occurred_at"`
	EventData       json.RawMessage `json:"event_data,omitempty"`
}

// DecodeTransitionEvent parses and validates a message payload
func DecodeTransitionEvent(payload []byte) (*TransitionEvent, error) {
	var evt TransitionEvent
	if err := json.Unmarshal(payload, &evt); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Transition event is not valid JSON").
			Mark(ierr.ErrValidation)
	}
	if err := evt.Validate(); err != nil {
		return nil, err
	}
	return &evt, nil
}

func (e *TransitionEvent) Validate() error {
	e.CommunicationID = strings.TrimSpace(e.CommunicationID)
	e.StatusCode = strings.TrimSpace(e.StatusCode)
	if err := validator.ValidateRequest(e); err != nil {
		return err
	}
	_, err := eventDataString(e.EventData)
	return err
}

// ToTransitionRequest maps the event onto the transition call. A zero
// occurred time means "now".
func (e *TransitionEvent) ToTransitionRequest() TransitionRequest {
	req := TransitionRequest{
		StatusCode: e.StatusCode,
		EventData:  e.EventData,
	}
	if !e.OccurredAt.IsZero() {
		occurredAt := e.OccurredAt
		req.OccurredAt = &occurredAt
	}
	return req
}

type EventAcceptedResponse struct {
	MessageID string `json:"message_id"`
	Topic     string `json:"topic"`
}
