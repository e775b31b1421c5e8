package typestatus

import (
	"fmt"
	"time"
)

// TypeStatus allows one global status code for one communication type
type TypeStatus struct {
	ID          int64     `db:"id" json:"id"`
	TypeCode    string    `db:"type_code" json:"type_code"`
	StatusCode  string    `db:"status_code" json:"status_code"`
	Description string    `db:"description" json:"description"`
	SortOrder   int       `db:"sort_order" json:"sort_order"`
	IsActive    bool      `db:"is_active" json:"is_active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

func (m *TypeStatus) Copy() *TypeStatus {
	if m == nil {
		return nil
	}
	c := *m
	return &c
}

// DefaultDescription is used when a mapping is created without one
func DefaultDescription(statusCode, typeCode string) string {
	return fmt.Sprintf("%s status for %s", statusCode, typeCode)
}
