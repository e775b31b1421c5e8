package service

import (
	"context"

	"github.com/samber/lo"
	"github.com/vidinfra/commtrack/internal/domain/globalstatus"
	ierr "github.com/vidinfra/commtrack/internal/errors"
	"github.com/vidinfra/commtrack/internal/types"
)

// TransitionDecision is the outcome of a legality check
type TransitionDecision struct {
	Allowed  bool                            `json:"allowed"`
	TypeCode string                          `json:"type_code"`
	From     string                          `json:"from,omitempty"`
	To       string                          `json:"to"`
	Reason   types.TransitionRejectionReason `json:"reason,omitempty"`
	// StatusCode is the offending code for status_not_allowed_for_type and
	// backward_phase
	StatusCode string `json:"status_code,omitempty"`
}

// Err converts a rejection into a business rule violation, nil when allowed
func (d *TransitionDecision) Err() error {
	if d == nil || d.Allowed {
		return nil
	}

	details := map[string]any{
		"type_code": d.TypeCode,
		"from":      d.From,
		"to":        d.To,
		"reason":    d.Reason,
	}

	switch d.Reason {
	case types.RejectionUnknownType:
		return ierr.NewErrorf("unknown communication type %s", d.TypeCode).
			WithHintf("Communication type %s does not exist or is inactive", d.TypeCode).
			WithReportableDetails(details).
			Mark(ierr.ErrBusinessRule)
	case types.RejectionBackwardPhase:
		return ierr.NewErrorf("transition %s -> %s moves to an earlier phase", d.From, d.To).
			WithHintf("Status %s belongs to an earlier phase than %s", d.To, d.From).
			WithReportableDetails(details).
			Mark(ierr.ErrBusinessRule)
	default:
		details["status_code"] = d.StatusCode
		return ierr.NewErrorf("status %s is not allowed for type %s", d.StatusCode, d.TypeCode).
			WithHintf("Status %s is not valid for communication type %s", d.StatusCode, d.TypeCode).
			WithReportableDetails(details).
			Mark(ierr.ErrBusinessRule)
	}
}

// EvaluateTransition decides whether a communication of a type may move from
// one status to another. An empty from means the record is being created.
// valid is the active allow-list of the type.
func EvaluateTransition(
	policy types.TransitionPolicy,
	typeCode string,
	typeKnown bool,
	valid []*globalstatus.GlobalStatus,
	from, to string,
) *TransitionDecision {
	decision := &TransitionDecision{TypeCode: typeCode, From: from, To: to}

	if !typeKnown {
		decision.Reason = types.RejectionUnknownType
		return decision
	}

	byCode := lo.KeyBy(valid, func(st *globalstatus.GlobalStatus) string { return st.Code })

	if from != "" {
		if _, ok := byCode[from]; !ok {
			decision.Reason = types.RejectionStatusNotAllowedForType
			decision.StatusCode = from
			return decision
		}
	}
	target, ok := byCode[to]
	if !ok {
		decision.Reason = types.RejectionStatusNotAllowedForType
		decision.StatusCode = to
		return decision
	}

	if policy == types.TransitionPolicyForwardOnly && from != "" {
		if target.Phase.Rank() < byCode[from].Phase.Rank() {
			decision.Reason = types.RejectionBackwardPhase
			decision.StatusCode = to
			return decision
		}
	}

	decision.Allowed = true
	return decision
}

// TransitionValidator loads the inputs of EvaluateTransition from the store
type TransitionValidator interface {
	CanTransition(ctx context.Context, typeCode, from, to string) (*TransitionDecision, error)
}

type transitionValidator struct {
	ServiceParams
	mappings *mappingService
}

func NewTransitionValidator(params ServiceParams) TransitionValidator {
	return &transitionValidator{
		ServiceParams: params,
		mappings:      &mappingService{ServiceParams: params},
	}
}

func (v *transitionValidator) CanTransition(ctx context.Context, typeCode, from, to string) (*TransitionDecision, error) {
	t, err := v.CommTypeRepo.Get(ctx, typeCode)
	if err != nil && !ierr.IsNotFound(err) {
		return nil, err
	}
	typeKnown := err == nil && t.IsActive

	var valid []*globalstatus.GlobalStatus
	if typeKnown {
		if valid, err = v.mappings.validStatuses(ctx, typeCode); err != nil {
			return nil, err
		}
	}

	decision := EvaluateTransition(v.policy(), typeCode, typeKnown, valid, from, to)
	if !decision.Allowed {
		v.Logger.Debugw("transition rejected",
			"type_code", typeCode,
			"from", from,
			"to", to,
			"reason", decision.Reason,
		)
	}
	return decision, nil
}

func (v *transitionValidator) policy() types.TransitionPolicy {
	if v.Config == nil || v.Config.Transitions.Policy == "" {
		return types.TransitionPolicyPermissive
	}
	return v.Config.Transitions.Policy
}
