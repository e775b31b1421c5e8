package testutil

import (
	"context"
	"sync"

	ierr "github.com/vidinfra/commtrack/internal/errors"
	"github.com/vidinfra/commtrack/internal/logger"
	"github.com/vidinfra/commtrack/internal/postgres"
	"github.com/vidinfra/commtrack/internal/types"
)

// Snapshotter is a store whose contents can be saved and restored
type Snapshotter interface {
	Snapshot() func()
}

type txMarker struct{}

var _ postgres.IClient = (*InMemoryTxClient)(nil)

// InMemoryTxClient gives the in-memory stores transaction semantics: top
// level transactions run one at a time, and a failing transaction or nested
// savepoint restores every store to its state at the start.
type InMemoryTxClient struct {
	mu     sync.Mutex
	stores []Snapshotter
	logger *logger.Logger
}

func NewInMemoryTxClient(logger *logger.Logger, stores ...Snapshotter) *InMemoryTxClient {
	return &InMemoryTxClient{
		stores: stores,
		logger: logger,
	}
}

func (c *InMemoryTxClient) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return ierr.WithError(err).
			WithHint("Request was cancelled").
			Mark(ierr.ErrDatabase)
	}

	nested := ctx.Value(txMarker{}) != nil
	if !nested {
		c.mu.Lock()
		defer c.mu.Unlock()
		ctx = context.WithValue(ctx, txMarker{}, types.GenerateUUIDWithPrefix(types.UUID_PREFIX_TX))
	}

	restores := make([]func(), len(c.stores))
	for i, store := range c.stores {
		restores[i] = store.Snapshot()
	}

	if err := fn(ctx); err != nil {
		for _, restore := range restores {
			restore()
		}
		c.logger.Debugw("rolled back in-memory transaction", "nested", nested, "error", err)
		return err
	}
	return nil
}

// NewUniqueViolation mimics the error the store reports for a duplicate key
func NewUniqueViolation(constraint string) error {
	return ierr.NewErrorf("duplicate key violates unique constraint %s", constraint).
		WithHint("Resource already exists").
		WithReportableDetails(map[string]any{"constraint": constraint}).
		Mark(ierr.ErrAlreadyExists)
}
