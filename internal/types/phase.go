package types

import (
	"strings"

	"github.com/samber/lo"
	ierr "github.com/vidinfra/commtrack/internal/errors"
)

// StatusPhase groups global statuses for display ordering
type StatusPhase string

const (
	PhaseCreation   StatusPhase = "creation"
	PhaseProduction StatusPhase = "production"
	PhaseLogistics  StatusPhase = "logistics"
	PhaseError      StatusPhase = "error"
	PhaseOther      StatusPhase = "other"
)

// StatusPhases lists phases in display order
var StatusPhases = []StatusPhase{
	PhaseCreation,
	PhaseProduction,
	PhaseLogistics,
	PhaseError,
	PhaseOther,
}

// Rank returns the display position of the phase. Unknown phases sort last.
func (p StatusPhase) Rank() int {
	if _, idx, ok := lo.FindIndexOf(StatusPhases, func(s StatusPhase) bool { return s == p }); ok {
		return idx
	}
	return len(StatusPhases)
}

func (p StatusPhase) String() string {
	return string(p)
}

// ParseStatusPhase normalises user input into a known phase
func ParseStatusPhase(s string) (StatusPhase, error) {
	p := StatusPhase(strings.ToLower(strings.TrimSpace(s)))
	if err := p.Validate(); err != nil {
		return "", err
	}
	return p, nil
}

func (p StatusPhase) Validate() error {
	if !lo.Contains(StatusPhases, p) {
		return ierr.NewErrorf("invalid status phase %q", string(p)).
			WithHintf("Phase must be one of %v", StatusPhases).
			WithReportableDetails(map[string]any{
				"phase":   p,
				"allowed": StatusPhases,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}
