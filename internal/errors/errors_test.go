package errors_test

import (
	"net/http"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	ierr "github.com/vidinfra/commtrack/internal/errors"
)

func TestSentinelMapping(t *testing.T) {
	tests := []struct {
		sentinel  error
		status    int
		code      string
		retryable bool
	}{
		{ierr.ErrNotFound, http.StatusNotFound, ierr.ErrCodeNotFound, false},
		{ierr.ErrAlreadyExists, http.StatusConflict, ierr.ErrCodeAlreadyExists, false},
		{ierr.ErrVersionConflict, http.StatusConflict, ierr.ErrCodeVersionConflict, true},
		{ierr.ErrValidation, http.StatusBadRequest, ierr.ErrCodeValidation, false},
		{ierr.ErrBusinessRule, http.StatusUnprocessableEntity, ierr.ErrCodeBusinessRule, false},
		{ierr.ErrDatabase, http.StatusServiceUnavailable, ierr.ErrCodeDatabase, true},
		{ierr.ErrSystem, http.StatusInternalServerError, ierr.ErrCodeSystemError, false},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			err := ierr.NewError("failure").
				WithHint("Something failed").
				Mark(tt.sentinel)
			wrapped := errors.Wrap(err, "outer")

			assert.Equal(t, tt.status, ierr.HTTPStatusFromErr(wrapped))
			assert.Equal(t, tt.code, ierr.Code(wrapped))
			assert.Equal(t, tt.retryable, ierr.IsRetryable(wrapped))
		})
	}
}

func TestUnmarkedErrors(t *testing.T) {
	err := errors.New("plain")
	assert.Equal(t, http.StatusInternalServerError, ierr.HTTPStatusFromErr(err))
	assert.Equal(t, ierr.ErrCodeSystemError, ierr.Code(err))
	assert.False(t, ierr.IsRetryable(err))
	assert.False(t, ierr.IsRetryable(nil))
}
