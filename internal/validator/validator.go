package validator

import (
	"regexp"
	"sync"

	"github.com/go-playground/validator/v10"
	ierr "github.com/vidinfra/commtrack/internal/errors"
	"github.com/vidinfra/commtrack/internal/types"
)

// MaxTypeCodeLength bounds communication type codes
const MaxTypeCodeLength = 20

var (
	validate *validator.Validate
	once     sync.Once

	typeCodePattern = regexp.MustCompile(`^[A-Z0-9_]+$`)
)

func NewValidator() *validator.Validate {
	once.Do(func() {
		validate = validator.New()
		_ = validate.RegisterValidation("typecode", func(fl validator.FieldLevel) bool {
			return IsValidTypeCode(fl.Field().String())
		})
		_ = validate.RegisterValidation("statusphase", func(fl validator.FieldLevel) bool {
			return types.StatusPhase(fl.Field().String()).Validate() == nil
		})
	})
	return validate
}

func GetValidator() *validator.Validate {
	return NewValidator()
}

// IsValidTypeCode reports whether code is non-empty, at most
// MaxTypeCodeLength characters and made of uppercase letters, digits and
// underscores
func IsValidTypeCode(code string) bool {
	return code != "" && len(code) <= MaxTypeCodeLength && typeCodePattern.MatchString(code)
}

// ValidateTypeCode returns a validation error describing why code is rejected
func ValidateTypeCode(code string) error {
	if code == "" {
		return ierr.NewError("type code is required").
			WithHint("Type code is required").
			Mark(ierr.ErrValidation)
	}
	if len(code) > MaxTypeCodeLength {
		return ierr.NewErrorf("type code %q is too long", code).
			WithHintf("Type code cannot exceed %d characters", MaxTypeCodeLength).
			WithReportableDetails(map[string]any{"type_code": code}).
			Mark(ierr.ErrValidation)
	}
	if !typeCodePattern.MatchString(code) {
		return ierr.NewErrorf("type code %q has invalid characters", code).
			WithHint("Type code can only contain uppercase letters, numbers, and underscores").
			WithReportableDetails(map[string]any{"type_code": code}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

func ValidateRequest(req interface{}) error {
	if err := GetValidator().Struct(req); err != nil {
		details := make(map[string]any)
		var validateErrs validator.ValidationErrors
		if ierr.As(err, &validateErrs) {
			for _, err := range validateErrs {
				details[err.Field()] = err.Error()
			}
		}
		return ierr.WithError(err).
			WithHint("Request validation failed").
			WithReportableDetails(details).
			Mark(ierr.ErrValidation)
	}
	return nil
}
