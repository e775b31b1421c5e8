package communication

import "time"

// Communication is a tracked document. CurrentStatus caches the latest ledger
// entry and is only changed together with an appended history row.
type Communication struct {
	ID            string    `db:"id" json:"id"`
	Title         string    `db:"title" json:"title"`
	TypeCode      string    `db:"type_code" json:"type_code"`
	CurrentStatus string    `db:"current_status" json:"current_status"`
	SourceFileURL *string   `db:"source_file_url" json:"source_file_url,omitempty"`
	IsActive      bool      `db:"is_active" json:"is_active"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	LastUpdatedAt time.Time `db:"last_updated_at" json:"last_updated_at"`
	CreatedBy     string    `db:"created_by" json:"created_by"`
	UpdatedBy     string    `db:"updated_by" json:"updated_by"`
}

func (c *Communication) Copy() *Communication {
	if c == nil {
		return nil
	}
	cp := *c
	if c.SourceFileURL != nil {
		url := *c.SourceFileURL
		cp.SourceFileURL = &url
	}
	return &cp
}
