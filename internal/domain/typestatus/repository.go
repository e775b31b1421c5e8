package typestatus

import "context"

type Repository interface {
	// ListActiveByType returns the active mappings of a type ordered by
	// sort order, then id
	ListActiveByType(ctx context.Context, typeCode string) ([]*TypeStatus, error)
	// DeactivateByType flips every active mapping of the type to inactive and
	// returns how many rows changed
	DeactivateByType(ctx context.Context, typeCode string) (int64, error)
	// CreateBulk inserts the mappings and fills in their IDs
	CreateBulk(ctx context.Context, mappings []*TypeStatus) error
	// CountActiveByStatus counts active mappings referencing the status code
	CountActiveByStatus(ctx context.Context, statusCode string) (int, error)
}
