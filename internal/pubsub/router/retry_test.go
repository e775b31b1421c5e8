package router

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	ierr "github.com/vidinfra/commtrack/internal/errors"
	"github.com/vidinfra/commtrack/internal/logger"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestShouldRetry(t *testing.T) {
	log := logger.NewNopLogger()

	tests := []struct {
		name  string
		err   error
		retry bool
	}{
		{name: "nil", err: nil},
		{name: "database", err: ierr.NewError("down").Mark(ierr.ErrDatabase), retry: true},
		{name: "version conflict", err: ierr.NewError("locked").Mark(ierr.ErrVersionConflict), retry: true},
		{name: "network timeout", err: errors.Wrap(timeoutErr{}, "dial"), retry: true},
		{name: "not found", err: ierr.NewError("missing").Mark(ierr.ErrNotFound)},
		{name: "business rule", err: ierr.NewError("not allowed").Mark(ierr.ErrBusinessRule)},
		{name: "validation", err: ierr.NewError("bad").Mark(ierr.ErrValidation)},
		{name: "unmarked", err: errors.New("boom")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.retry, ShouldRetry(log, tt.err))
		})
	}
}
