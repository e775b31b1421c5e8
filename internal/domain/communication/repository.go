package communication

import (
	"context"

	"github.com/vidinfra/commtrack/internal/types"
)

// ListFilter selects active communications. Inactive rows are never listed
// or counted through it.
type ListFilter struct {
	*types.PageFilter
	TypeCode   string
	StatusCode string
}

type Repository interface {
	Create(ctx context.Context, c *Communication) error
	// Get returns the communication regardless of its active flag
	Get(ctx context.Context, id string) (*Communication, error)
	// GetForUpdate is Get plus a row lock held until the surrounding
	// transaction ends. It must be called inside WithTx.
	GetForUpdate(ctx context.Context, id string) (*Communication, error)
	// Update persists current status, last-updated time, active flag and
	// audit fields
	Update(ctx context.Context, c *Communication) error
	// List returns active communications ordered by last-updated descending,
	// then id ascending
	List(ctx context.Context, filter *ListFilter) ([]*Communication, error)
	// Count counts active communications matching the filter, ignoring paging
	Count(ctx context.Context, filter *ListFilter) (int, error)
}
