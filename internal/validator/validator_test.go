package validator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	ierr "github.com/vidinfra/commtrack/internal/errors"
	"github.com/vidinfra/commtrack/internal/types"
)

func TestValidateTypeCode(t *testing.T) {
	tests := []struct {
		code  string
		valid bool
	}{
		{code: "EOB", valid: true},
		{code: "ID_CARD", valid: true},
		{code: "FORM_1099", valid: true},
		{code: strings.Repeat("A", MaxTypeCodeLength), valid: true},
		{code: strings.Repeat("A", MaxTypeCodeLength+1)},
		{code: ""},
		{code: "eob"},
		{code: "ID-CARD"},
		{code: "ID CARD"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.valid, IsValidTypeCode(tt.code))
			err := ValidateTypeCode(tt.code)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.True(t, ierr.IsValidation(err))
			}
		})
	}
}

type sample struct {
	TypeCode string            `validate:"typecode"`
	Phase    types.StatusPhase `validate:"statusphase"`
	Title    string            `validate:"required"`
}

func TestValidateRequest(t *testing.T) {
	assert.NoError(t, ValidateRequest(&sample{TypeCode: "EOB", Phase: types.PhaseLogistics, Title: "x"}))

	err := ValidateRequest(&sample{TypeCode: "eob", Phase: "limbo"})
	assert.True(t, ierr.IsValidation(err))
}
