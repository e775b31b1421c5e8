package statushistory

import "context"

// Repository is append-only: it exposes no update or delete.
type Repository interface {
	// Append inserts the entry and fills in its ID
	Append(ctx context.Context, entry *Entry) error
	// ListFor returns the ledger of a communication ordered by Before
	ListFor(ctx context.Context, communicationID string) ([]*Entry, error)
	CountFor(ctx context.Context, communicationID string) (int, error)
	// Latest returns the last entry by Before, NotFound when the ledger is empty
	Latest(ctx context.Context, communicationID string) (*Entry, error)
}
