package globalstatus

import "context"

// ListFilter narrows catalog reads. The zero value lists active rows only.
type ListFilter struct {
	IncludeInactive bool
	// Codes restricts the result to these codes when non-empty
	Codes []string
}

type Repository interface {
	Create(ctx context.Context, status *GlobalStatus) error
	// Get returns the status regardless of its active flag
	Get(ctx context.Context, code string) (*GlobalStatus, error)
	// List returns statuses ordered by phase, sort order and code.
	// Inactive rows are included only when filter.IncludeInactive is set.
	List(ctx context.Context, filter *ListFilter) ([]*GlobalStatus, error)
	SetActive(ctx context.Context, code string, active bool) error
}
