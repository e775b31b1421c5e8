package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"net"

	"github.com/cockroachdb/errors"
	"github.com/lib/pq"
	ierr "github.com/vidinfra/commtrack/internal/errors"
)

// Postgres SQLSTATE codes the repositories care about
const (
	codeUniqueViolation     pq.ErrorCode = "23505"
	codeForeignKeyViolation pq.ErrorCode = "23503"
	codeSerializationFail   pq.ErrorCode = "40001"
	codeDeadlockDetected    pq.ErrorCode = "40P01"
	codeLockNotAvailable    pq.ErrorCode = "55P03"
	codeQueryCanceled       pq.ErrorCode = "57014"
)

// TranslateError maps driver errors onto the ierr taxonomy. Errors already
// marked with a sentinel pass through untouched.
func TranslateError(err error, msg string) error {
	if err == nil {
		return nil
	}
	if ierr.Code(err) != ierr.ErrCodeSystemError || errors.Is(err, ierr.ErrSystem) {
		return err
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return ierr.WithError(err).
			WithMessage(msg).
			WithHint("The request was cancelled before the store answered").
			Mark(ierr.ErrDatabase)
	}

	if errors.Is(err, sql.ErrNoRows) {
		return ierr.WithError(err).
			WithMessage(msg).
			WithHint("Resource not found").
			Mark(ierr.ErrNotFound)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case codeUniqueViolation:
			return ierr.WithError(err).
				WithMessage(msg).
				WithHint("A record with the same key already exists").
				WithReportableDetails(map[string]any{"constraint": pqErr.Constraint}).
				Mark(ierr.ErrAlreadyExists)
		case codeForeignKeyViolation:
			return ierr.WithError(err).
				WithMessage(msg).
				WithHint("A referenced record does not exist").
				WithReportableDetails(map[string]any{"constraint": pqErr.Constraint}).
				Mark(ierr.ErrValidation)
		case codeSerializationFail, codeDeadlockDetected, codeLockNotAvailable:
			return ierr.WithError(err).
				WithMessage(msg).
				WithHint("The record is being modified concurrently, please retry").
				Mark(ierr.ErrVersionConflict)
		case codeQueryCanceled:
			return ierr.WithError(err).
				WithMessage(msg).
				Mark(ierr.ErrDatabase)
		}
		// class 08 is connection exceptions, 53 insufficient resources,
		// 57 operator intervention
		switch pqErr.Code.Class() {
		case "08", "53", "57":
			return ierr.WithError(err).
				WithMessage(msg).
				WithHint("The store is temporarily unavailable").
				Mark(ierr.ErrDatabase)
		}
		return ierr.WithError(err).
			WithMessage(msg).
			Mark(ierr.ErrSystem)
	}

	var netErr net.Error
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) || errors.As(err, &netErr) {
		return ierr.WithError(err).
			WithMessage(msg).
			WithHint("The store is temporarily unavailable").
			Mark(ierr.ErrDatabase)
	}

	return ierr.WithError(err).
		WithMessage(msg).
		Mark(ierr.ErrDatabase)
}
