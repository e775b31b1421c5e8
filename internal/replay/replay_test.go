package replay

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vidinfra/commtrack/internal/api/dto"
	ierr "github.com/vidinfra/commtrack/internal/errors"
	"github.com/vidinfra/commtrack/internal/logger"
)

type recordingSink struct {
	mu     sync.Mutex
	events []*dto.TransitionEvent
	failOn string
}

func (s *recordingSink) sink(_ context.Context, event *dto.TransitionEvent) error {
	if event.CommunicationID == s.failOn {
		return ierr.NewError("communication not found").Mark(ierr.ErrNotFound)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

const input = `{"communication_id":"comm_1","status_code":"Printed","occurred_at":"2026-01-02T10:00:00Z"}

{"communication_id":"comm_1","status_code":"Shipped"}
not json
{"status_code":"Shipped"}
{"communication_id":"comm_2","status_code":"Delivered","event_data":{"carrier":"ups"}}
`

func TestRun(t *testing.T) {
	rec := &recordingSink{}
	r := NewReplayer(rec.sink, Options{Workers: 3}, logger.NewNopLogger())
	fixed := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return fixed }

	result, err := r.Run(context.Background(), strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, 5, result.Read)
	assert.Equal(t, 3, result.Delivered)
	assert.Equal(t, 2, result.Malformed)
	assert.Zero(t, result.Failed)

	byStatus := map[string]*dto.TransitionEvent{}
	for _, e := range rec.events {
		byStatus[e.StatusCode] = e
	}
	require.Len(t, byStatus, 3)
	assert.True(t, byStatus["Shipped"].OccurredAt.Equal(fixed), "missing occurred_at is stamped at read time")
	assert.Equal(t, 2026, byStatus["Printed"].OccurredAt.Year())
	assert.JSONEq(t, `{"carrier":"ups"}`, string(byStatus["Delivered"].EventData))
}

func TestRunStopsOnSinkFailure(t *testing.T) {
	rec := &recordingSink{failOn: "comm_2"}
	r := NewReplayer(rec.sink, Options{Workers: 1}, logger.NewNopLogger())

	result, err := r.Run(context.Background(), strings.NewReader(input))
	require.Error(t, err)
	assert.True(t, ierr.IsNotFound(err))
	assert.Equal(t, 1, result.Failed)
}

func TestRunContinueOnError(t *testing.T) {
	rec := &recordingSink{failOn: "comm_1"}
	r := NewReplayer(rec.sink, Options{Workers: 2, ContinueOnError: true}, logger.NewNopLogger())

	result, err := r.Run(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 2, result.Failed)
	assert.Equal(t, 1, result.Delivered)
}

func TestRunHonoursRateLimit(t *testing.T) {
	rec := &recordingSink{}
	r := NewReplayer(rec.sink, Options{Workers: 4, RatePerSecond: 20}, logger.NewNopLogger())

	lines := strings.Repeat(`{"communication_id":"comm_1","status_code":"Printed"}`+"\n", 5)
	start := time.Now()
	result, err := r.Run(context.Background(), strings.NewReader(lines))
	require.NoError(t, err)
	assert.Equal(t, 5, result.Delivered)
	// burst of one, then 50ms per event
	assert.GreaterOrEqual(t, time.Since(start), 150*time.Millisecond)
}
