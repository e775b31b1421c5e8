package statushistory

import "time"

// Entry is one immutable ledger row
type Entry struct {
	ID              int64     `db:"id" json:"id"`
	CommunicationID string    `db:"communication_id" json:"communication_id"`
	StatusCode      string    `db:"status_code" json:"status_code"`
	OccurredAt      time.Time `db:"occurred_at" json:"occurred_at"`
	// EventData is an optional JSON document supplied with the transition
	EventData *string   `db:"event_data" json:"event_data,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

func (e *Entry) Copy() *Entry {
	if e == nil {
		return nil
	}
	c := *e
	if e.EventData != nil {
		data := *e.EventData
		c.EventData = &data
	}
	return &c
}

// Before orders entries by occurred time, ties broken by id
func Before(a, b *Entry) bool {
	if !a.OccurredAt.Equal(b.OccurredAt) {
		return a.OccurredAt.Before(b.OccurredAt)
	}
	return a.ID < b.ID
}
