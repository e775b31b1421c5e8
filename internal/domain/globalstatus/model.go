package globalstatus

import (
	"sort"
	"time"

	"github.com/vidinfra/commtrack/internal/types"
)

// GlobalStatus is one entry of the canonical status catalog. Code is the
// natural key and never changes once the row exists.
type GlobalStatus struct {
	Code        string            `db:"status_code" json:"code"`
	DisplayName string            `db:"display_name" json:"display_name"`
	Phase       types.StatusPhase `db:"phase" json:"phase"`
	SortOrder   int               `db:"sort_order" json:"sort_order"`
	IsActive    bool              `db:"is_active" json:"is_active"`
	CreatedAt   time.Time         `db:"created_at" json:"created_at"`
}

// Copy returns a detached copy of the status
func (s *GlobalStatus) Copy() *GlobalStatus {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

// Less orders the catalog by phase, then sort order, then code
func Less(a, b *GlobalStatus) bool {
	if ra, rb := a.Phase.Rank(), b.Phase.Rank(); ra != rb {
		return ra < rb
	}
	if a.SortOrder != b.SortOrder {
		return a.SortOrder < b.SortOrder
	}
	return a.Code < b.Code
}

// Sort orders statuses in place using Less
func Sort(statuses []*GlobalStatus) {
	sort.SliceStable(statuses, func(i, j int) bool {
		return Less(statuses[i], statuses[j])
	})
}
