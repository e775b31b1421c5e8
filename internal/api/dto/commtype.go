package dto

import (
	"context"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/vidinfra/commtrack/internal/domain/commtype"
	"github.com/vidinfra/commtrack/internal/domain/globalstatus"
	"github.com/vidinfra/commtrack/internal/domain/typestatus"
	ierr "github.com/vidinfra/commtrack/internal/errors"
	"github.com/vidinfra/commtrack/internal/types"
	"github.com/vidinfra/commtrack/internal/validator"
)

type CreateTypeRequest struct {
	TypeCode    string   `json:"type_code"`
	DisplayName string   `json:"display_name" validate:"required,max=100"`
	Description string   `json:"description"`
	StatusCodes []string `json:"status_codes"`
}

func (r *CreateTypeRequest) Validate() error {
	r.TypeCode = strings.TrimSpace(r.TypeCode)
	r.DisplayName = strings.TrimSpace(r.DisplayName)

	if err := validator.ValidateTypeCode(r.TypeCode); err != nil {
		return err
	}
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	return ValidateStatusCodeList(r.StatusCodes)
}

func (r *CreateTypeRequest) ToCommunicationType(ctx context.Context) *commtype.CommunicationType {
	now := time.Now().UTC()
	userID := types.GetUserID(ctx)
	return &commtype.CommunicationType{
		TypeCode:    r.TypeCode,
		DisplayName: r.DisplayName,
		Description: r.Description,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
		CreatedBy:   userID,
		UpdatedBy:   userID,
	}
}

// UpdateTypeRequest changes only the fields that are set. A non-nil
// StatusCodes replaces the whole mapping.
type UpdateTypeRequest struct {
	DisplayName *string   `json:"display_name,omitempty"`
	Description *string   `json:"description,omitempty"`
	StatusCodes *[]string `json:"status_codes,omitempty"`
}

func (r *UpdateTypeRequest) Validate() error {
	if r.DisplayName != nil {
		name := strings.TrimSpace(*r.DisplayName)
		if name == "" {
			return ierr.NewError("display name cannot be empty").
				WithHint("Display name cannot be empty").
				Mark(ierr.ErrValidation)
		}
		r.DisplayName = &name
	}
	if r.StatusCodes != nil {
		return ValidateStatusCodeList(*r.StatusCodes)
	}
	return nil
}

type ReplaceMappingsRequest struct {
	StatusCodes []string `json:"status_codes"`
}

func (r *ReplaceMappingsRequest) Validate() error {
	return ValidateStatusCodeList(r.StatusCodes)
}

type ValidateCodesRequest struct {
	StatusCodes []string `json:"status_codes" validate:"required"`
}

func (r *ValidateCodesRequest) Validate() error {
	return validator.ValidateRequest(r)
}

type ValidateCodesResponse struct {
	TypeCode    string   `json:"type_code"`
	StatusCodes []string `json:"status_codes"`
	Valid       bool     `json:"valid"`
}

// ValidateStatusCodeList checks the shape of an ordered status list: at least
// one entry, no blanks and no repeats. Whether the codes exist is checked
// against the catalog by the caller.
func ValidateStatusCodeList(codes []string) error {
	if len(codes) == 0 {
		return ierr.NewError("no status codes given").
			WithHint("Communication type must have at least one valid status").
			Mark(ierr.ErrValidation)
	}
	if lo.Contains(codes, "") {
		return ierr.NewError("blank status code").
			WithHint("Status codes cannot be blank").
			Mark(ierr.ErrValidation)
	}
	if dups := lo.FindDuplicates(codes); len(dups) > 0 {
		return ierr.NewErrorf("duplicate status codes %v", dups).
			WithHint("Each status can only be listed once").
			WithReportableDetails(map[string]any{"duplicate_codes": dups}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

type TypeResponse struct {
	*commtype.CommunicationType
	ValidStatuses []*globalstatus.GlobalStatus `json:"valid_statuses"`
}

type ListTypesResponse struct {
	Items []*commtype.CommunicationType `json:"items"`
}

type MappingsResponse struct {
	TypeCode string                   `json:"type_code"`
	Items    []*typestatus.TypeStatus `json:"items"`
}
