package replay

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"sync/atomic"
	"time"

	"github.com/sourcegraph/conc/pool"
	"github.com/vidinfra/commtrack/internal/api/dto"
	ierr "github.com/vidinfra/commtrack/internal/errors"
	"github.com/vidinfra/commtrack/internal/logger"
	"golang.org/x/time/rate"
)

// maxLineBytes bounds one JSON line, event_data included
const maxLineBytes = 1 << 20

// Sink receives each decoded event. A publisher sink puts it on the consumer
// topic; a direct sink applies it through the transition event handler.
type Sink func(ctx context.Context, event *dto.TransitionEvent) error

// Options controls throughput of a replay
type Options struct {
	// RatePerSecond caps sink calls per second. Zero means unlimited.
	RatePerSecond float64
	// Workers is the number of concurrent sink calls, at least 1
	Workers int
	// ContinueOnError keeps going after a sink failure
	ContinueOnError bool
	// BatchSize is how many lines are read between progress log lines
	BatchSize int
}

// Result summarises a replay
type Result struct {
	Read      int           `json:"read"`
	Delivered int           `json:"delivered"`
	Malformed int           `json:"malformed"`
	Failed    int           `json:"failed"`
	Duration  time.Duration `json:"duration"`
}

type Replayer struct {
	sink    Sink
	opts    Options
	logger  *logger.Logger
	limiter *rate.Limiter
	now     func() time.Time
}

func NewReplayer(sink Sink, opts Options, logger *logger.Logger) *Replayer {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.BatchSize < 1 {
		opts.BatchSize = 1000
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.RatePerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RatePerSecond), 1)
	}

	return &Replayer{
		sink:    sink,
		opts:    opts,
		logger:  logger,
		limiter: limiter,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Run reads one TransitionEvent per line from r and hands each to the sink.
// Blank lines are ignored. Events without occurred_at are stamped with the
// time they were read so that their relative order survives concurrent
// delivery.
func (r *Replayer) Run(ctx context.Context, in io.Reader) (*Result, error) {
	start := time.Now()
	result := &Result{}

	var delivered, failed atomic.Int64
	workers := pool.New().
		WithContext(ctx).
		WithMaxGoroutines(r.opts.Workers)
	if !r.opts.ContinueOnError {
		workers = workers.WithCancelOnError().WithFirstError()
	}

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(bytes.TrimSpace(raw)) == 0 {
			continue
		}
		if err := ctx.Err(); err != nil {
			break
		}

		result.Read++
		event, err := dto.DecodeTransitionEvent(raw)
		if err != nil {
			result.Malformed++
			r.logger.Warnw("skipping malformed event line", "line", line, "error", err)
			continue
		}
		if event.OccurredAt.IsZero() {
			event.OccurredAt = r.now()
		}

		lineNo := line
		workers.Go(func(ctx context.Context) error {
			if err := r.limiter.Wait(ctx); err != nil {
				return err
			}
			if err := r.sink(ctx, event); err != nil {
				failed.Add(1)
				r.logger.Errorw("failed to replay event",
					"line", lineNo,
					"communication_id", event.CommunicationID,
					"status_code", event.StatusCode,
					"error_code", ierr.Code(err),
					"error", err,
				)
				if r.opts.ContinueOnError {
					return nil
				}
				return err
			}
			delivered.Add(1)
			return nil
		})

		if result.Read%r.opts.BatchSize == 0 {
			r.logger.Infow("replay progress",
				"read", result.Read,
				"delivered", delivered.Load(),
				"failed", failed.Load(),
			)
		}
	}

	waitErr := workers.Wait()
	result.Delivered = int(delivered.Load())
	result.Failed = int(failed.Load())
	result.Duration = time.Since(start)

	if err := scanner.Err(); err != nil {
		return result, ierr.WithError(err).
			WithHint("Failed to read the event file").
			Mark(ierr.ErrValidation)
	}
	if waitErr != nil {
		return result, waitErr
	}
	return result, ctx.Err()
}
