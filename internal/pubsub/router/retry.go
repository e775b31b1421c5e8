package router

import (
	"net"

	"github.com/cockroachdb/errors"
	ierr "github.com/vidinfra/commtrack/internal/errors"
	"github.com/vidinfra/commtrack/internal/logger"
)

// ShouldRetry decides whether a failed message is nacked for redelivery.
// Rejections of the input are terminal; store outages and concurrency
// conflicts are transient.
func ShouldRetry(logger *logger.Logger, err error) bool {
	if err == nil {
		return false
	}

	if ierr.IsRetryable(err) {
		logger.Debugw("retrying due to transient failure",
			"error_code", ierr.Code(err),
			"error", err,
		)
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		logger.Debugw("retrying due to network timeout", "error", netErr)
		return true
	}

	logger.Debugw("non-retryable failure",
		"error_code", ierr.Code(err),
		"error", err,
	)
	return false
}
