package errors

import (
	"fmt"
	"net/http"

	"github.com/cockroachdb/errors"
)

// Error kinds surfaced by the engine. Every failure returned from a service is
// marked with exactly one of these sentinels.
var (
	ErrNotFound        = new(ErrCodeNotFound, "resource not found")
	ErrAlreadyExists   = new(ErrCodeAlreadyExists, "resource already exists")
	ErrVersionConflict = new(ErrCodeVersionConflict, "concurrency conflict")
	ErrValidation      = new(ErrCodeValidation, "validation error")
	ErrBusinessRule    = new(ErrCodeBusinessRule, "business rule violation")
	ErrDatabase        = new(ErrCodeDatabase, "store unavailable")
	ErrSystem          = new(ErrCodeSystemError, "system error")
	// maps errors to http status codes
	statusCodeMap = map[error]int{
		ErrDatabase:        http.StatusServiceUnavailable,
		ErrNotFound:        http.StatusNotFound,
		ErrAlreadyExists:   http.StatusConflict,
		ErrVersionConflict: http.StatusConflict,
		ErrValidation:      http.StatusBadRequest,
		ErrBusinessRule:    http.StatusUnprocessableEntity,
		ErrSystem:          http.StatusInternalServerError,
	}
)

const (
	ErrCodeSystemError     = "system_error"
	ErrCodeNotFound        = "not_found"
	ErrCodeAlreadyExists   = "already_exists"
	ErrCodeVersionConflict = "version_conflict"
	ErrCodeValidation      = "validation_error"
	ErrCodeBusinessRule    = "business_rule_violation"
	ErrCodeDatabase        = "database_error"
)

// InternalError represents a domain error
type InternalError struct {
	Code    string // Machine-readable error code
	Message string // Human-readable error message
	Op      string // Logical operation name
	Err     error  // Underlying error
}

func (e *InternalError) Error() string {
	if e.Err == nil {
		return e.DisplayError()
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Err.Error())
}

func (e *InternalError) DisplayError() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *InternalError) Unwrap() error {
	return e.Err
}

// Is implements error matching for wrapped errors
func (e *InternalError) Is(target error) bool {
	if target == nil {
		return false
	}

	t, ok := target.(*InternalError)
	if !ok {
		return errors.Is(e.Err, target)
	}

	return e.Code == t.Code
}

func new(code string, message string) *InternalError {
	return &InternalError{
		Code:    code,
		Message: message,
	}
}

func As(err error, target any) bool {
	return errors.As(err, target)
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if an error is an already exists error
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsVersionConflict checks if an error is a concurrency conflict
func IsVersionConflict(err error) bool {
	return errors.Is(err, ErrVersionConflict)
}

// IsValidation checks if an error is a validation error
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsBusinessRule checks if an error is a business rule violation
func IsBusinessRule(err error) bool {
	return errors.Is(err, ErrBusinessRule)
}

// IsDatabase checks if an error is a transient store failure
func IsDatabase(err error) bool {
	return errors.Is(err, ErrDatabase)
}

// IsRetryable reports whether the caller may re-read and reattempt the call.
// Only concurrency conflicts and store outages qualify; everything else is a
// terminal rejection of the input.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	return IsVersionConflict(err) || IsDatabase(err)
}

// Code returns the machine-readable code of the first sentinel err is marked with.
func Code(err error) string {
	for _, sentinel := range []*InternalError{
		ErrNotFound,
		ErrAlreadyExists,
		ErrVersionConflict,
		ErrValidation,
		ErrBusinessRule,
		ErrDatabase,
		ErrSystem,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Code
		}
	}
	return ErrCodeSystemError
}

func HTTPStatusFromErr(err error) int {
	for e, status := range statusCodeMap {
		if errors.Is(err, e) {
			return status
		}
	}
	return http.StatusInternalServerError
}
