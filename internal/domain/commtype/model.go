package commtype

import "time"

// CommunicationType is a category of tracked document with its own allowed
// status subset. Mappings reference it by TypeCode only.
type CommunicationType struct {
	TypeCode    string    `db:"type_code" json:"type_code"`
	DisplayName string    `db:"display_name" json:"display_name"`
	Description string    `db:"description" json:"description"`
	IsActive    bool      `db:"is_active" json:"is_active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
	CreatedBy   string    `db:"created_by" json:"created_by"`
	UpdatedBy   string    `db:"updated_by" json:"updated_by"`
}

func (t *CommunicationType) Copy() *CommunicationType {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
