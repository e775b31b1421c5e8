package dto

import (
	"context"
	"strings"
	"time"

	"github.com/vidinfra/commtrack/internal/domain/globalstatus"
	ierr "github.com/vidinfra/commtrack/internal/errors"
	"github.com/vidinfra/commtrack/internal/types"
	"github.com/vidinfra/commtrack/internal/validator"
)

type ProvisionStatusRequest struct {
	Code        string            `json:"code" validate:"required,max=50"`
	DisplayName string            `json:"display_name" validate:"required,max=100"`
	Phase       types.StatusPhase `json:"phase" validate:"required,statusphase"`
	SortOrder   int               `json:"sort_order" validate:"min=0"`
}

func (r *ProvisionStatusRequest) Validate() error {
	r.Code = strings.TrimSpace(r.Code)
	r.DisplayName = strings.TrimSpace(r.DisplayName)
	r.Phase = types.StatusPhase(strings.ToLower(strings.TrimSpace(string(r.Phase))))

	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if strings.ContainsAny(r.Code, " \t\n") {
		return ierr.NewErrorf("status code %q contains whitespace", r.Code).
			WithHint("Status code cannot contain whitespace").
			Mark(ierr.ErrValidation)
	}
	return nil
}

func (r *ProvisionStatusRequest) ToGlobalStatus(_ context.Context) *globalstatus.GlobalStatus {
	return &globalstatus.GlobalStatus{
		Code:        r.Code,
		DisplayName: r.DisplayName,
		Phase:       r.Phase,
		SortOrder:   r.SortOrder,
		IsActive:    true,
		CreatedAt:   time.Now().UTC(),
	}
}

type StatusResponse struct {
	*globalstatus.GlobalStatus
}

type ListStatusesResponse struct {
	Items []*StatusResponse `json:"items"`
}

func NewListStatusesResponse(statuses []*globalstatus.GlobalStatus) *ListStatusesResponse {
	items := make([]*StatusResponse, len(statuses))
	for i, s := range statuses {
		items[i] = &StatusResponse{GlobalStatus: s}
	}
	return &ListStatusesResponse{Items: items}
}
