package dto

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/vidinfra/commtrack/internal/domain/communication"
	"github.com/vidinfra/commtrack/internal/domain/statushistory"
	ierr "github.com/vidinfra/commtrack/internal/errors"
	"github.com/vidinfra/commtrack/internal/types"
	"github.com/vidinfra/commtrack/internal/validator"
)

// DefaultInitialStatus is assigned when a communication is created without one
const DefaultInitialStatus = "Pending"

type CreateCommunicationRequest struct {
	TypeCode      string  `json:"type_code" validate:"required"`
	Title         string  `json:"title" validate:"required,max=255"`
	InitialStatus string  `json:"initial_status,omitempty"`
	SourceFileURL *string `json:"source_file_url,omitempty" validate:"omitempty,url"`
}

func (r *CreateCommunicationRequest) Validate() error {
	r.Title = strings.TrimSpace(r.Title)
	r.TypeCode = strings.TrimSpace(r.TypeCode)
	if r.InitialStatus == "" {
		r.InitialStatus = DefaultInitialStatus
	}
	return validator.ValidateRequest(r)
}

func (r *CreateCommunicationRequest) ToCommunication(ctx context.Context, now time.Time) *communication.Communication {
	userID := types.GetUserID(ctx)
	return &communication.Communication{
		ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_COMMUNICATION),
		Title:         r.Title,
		TypeCode:      r.TypeCode,
		CurrentStatus: r.InitialStatus,
		SourceFileURL: r.SourceFileURL,
		IsActive:      true,
		CreatedAt:     now,
		LastUpdatedAt: now,
		CreatedBy:     userID,
		UpdatedBy:     userID,
	}
}

type TransitionRequest struct {
	StatusCode string `json:"status_code" validate:"required"`
	// OccurredAt defaults to now. Replayed events carry their own time.
	OccurredAt *time.Time      `json:"occurred_at,omitempty"`
	EventData  json.RawMessage `json:"event_data,omitempty"`
}

func (r *TransitionRequest) Validate() error {
	r.StatusCode = strings.TrimSpace(r.StatusCode)
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if r.OccurredAt != nil && r.OccurredAt.IsZero() {
		return ierr.NewError("occurred_at is zero").
			WithHint("Occurred time must be a valid timestamp").
			Mark(ierr.ErrValidation)
	}
	if _, err := r.EventDataString(); err != nil {
		return err
	}
	return nil
}

// OccurredAtOrNow returns the event time in UTC
func (r *TransitionRequest) OccurredAtOrNow(now time.Time) time.Time {
	if r.OccurredAt == nil {
		return now
	}
	return r.OccurredAt.UTC()
}

// EventDataString returns the payload as a JSON string, nil when absent
func (r *TransitionRequest) EventDataString() (*string, error) {
	return eventDataString(r.EventData)
}

func eventDataString(raw json.RawMessage) (*string, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return nil, nil
	}
	if !json.Valid([]byte(trimmed)) {
		return nil, ierr.NewError("event data is not valid JSON").
			WithHint("Event data must be a JSON document").
			Mark(ierr.ErrValidation)
	}
	return lo.ToPtr(trimmed), nil
}

type CommunicationResponse struct {
	*communication.Communication
	History []*statushistory.Entry `json:"history,omitempty"`
}

type ListCommunicationsResponse = types.ListResponse[*CommunicationResponse]

// ListCommunicationsRequest is the query string of the listing endpoint
type ListCommunicationsRequest struct {
	types.PageFilter
	TypeCode   string `form:"type_code"`
	StatusCode string `form:"status_code"`
}

// ConsistencyReport compares the cached status of a communication with what
// its ledger says
type ConsistencyReport struct {
	CommunicationID      string     `json:"communication_id"`
	CachedStatus         string     `json:"cached_status"`
	LedgerStatus         string     `json:"ledger_status,omitempty"`
	CachedLastUpdatedAt  time.Time  `json:"cached_last_updated_at"`
	LedgerLastOccurredAt *time.Time `json:"ledger_last_occurred_at,omitempty"`
	HistoryLength        int        `json:"history_length"`
	Consistent           bool       `json:"consistent"`
	Issues               []string   `json:"issues,omitempty"`
}
