package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	ierr "github.com/vidinfra/commtrack/internal/errors"
)

func TestTranslateError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "no rows", err: sql.ErrNoRows, want: ierr.ErrCodeNotFound},
		{name: "unique violation", err: &pq.Error{Code: "23505", Constraint: "idx_type_status_active"}, want: ierr.ErrCodeAlreadyExists},
		{name: "foreign key", err: &pq.Error{Code: "23503"}, want: ierr.ErrCodeValidation},
		{name: "serialization failure", err: &pq.Error{Code: "40001"}, want: ierr.ErrCodeVersionConflict},
		{name: "deadlock", err: &pq.Error{Code: "40P01"}, want: ierr.ErrCodeVersionConflict},
		{name: "lock timeout", err: &pq.Error{Code: "55P03"}, want: ierr.ErrCodeVersionConflict},
		{name: "query canceled", err: &pq.Error{Code: "57014"}, want: ierr.ErrCodeDatabase},
		{name: "connection failure", err: &pq.Error{Code: "08006"}, want: ierr.ErrCodeDatabase},
		{name: "too many connections", err: &pq.Error{Code: "53300"}, want: ierr.ErrCodeDatabase},
		{name: "syntax error", err: &pq.Error{Code: "42601"}, want: ierr.ErrCodeSystemError},
		{name: "bad connection", err: driver.ErrBadConn, want: ierr.ErrCodeDatabase},
		{name: "context canceled", err: context.Canceled, want: ierr.ErrCodeDatabase},
		{name: "wrapped unique violation", err: errors.Wrap(&pq.Error{Code: "23505"}, "insert"), want: ierr.ErrCodeAlreadyExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TranslateError(tt.err, "query failed")
			assert.Error(t, got)
			assert.Equal(t, tt.want, ierr.Code(got))
		})
	}
}

func TestTranslateErrorKeepsMarkedErrors(t *testing.T) {
	assert.NoError(t, TranslateError(nil, "noop"))

	marked := ierr.NewError("type missing").Mark(ierr.ErrNotFound)
	assert.Same(t, marked, TranslateError(marked, "lookup"))

	system := ierr.NewError("bug").Mark(ierr.ErrSystem)
	assert.Equal(t, ierr.ErrCodeSystemError, ierr.Code(TranslateError(system, "lookup")))
}
