package commtype

import "context"

type ListFilter struct {
	IncludeInactive bool
}

type Repository interface {
	Create(ctx context.Context, t *CommunicationType) error
	// Get returns the type regardless of its active flag
	Get(ctx context.Context, typeCode string) (*CommunicationType, error)
	// GetForUpdate is Get plus a row lock held until the surrounding
	// transaction ends. It must be called inside WithTx.
	GetForUpdate(ctx context.Context, typeCode string) (*CommunicationType, error)
	// GetForShare is Get plus a shared row lock: concurrent readers proceed,
	// GetForUpdate on the same row waits. It must be called inside WithTx.
	GetForShare(ctx context.Context, typeCode string) (*CommunicationType, error)
	// List returns types ordered by display name, active only unless
	// filter.IncludeInactive is set
	List(ctx context.Context, filter *ListFilter) ([]*CommunicationType, error)
	// Update persists display name, description, active flag and audit fields
	Update(ctx context.Context, t *CommunicationType) error
}
