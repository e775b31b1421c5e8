package types

// TransitionPolicy selects how strictly status changes are checked beyond
// membership in the type's allow-list.
type TransitionPolicy string

const (
	// TransitionPolicyPermissive allows any member of the allow-list to follow any other
	TransitionPolicyPermissive TransitionPolicy = "permissive"
	// TransitionPolicyForwardOnly additionally refuses moves to an earlier phase
	TransitionPolicyForwardOnly TransitionPolicy = "forward_only"
)

// TransitionRejectionReason is the machine-readable cause of a refused transition
type TransitionRejectionReason string

const (
	RejectionUnknownType             TransitionRejectionReason = "unknown_type"
	RejectionStatusNotAllowedForType TransitionRejectionReason = "status_not_allowed_for_type"
	RejectionBackwardPhase           TransitionRejectionReason = "backward_phase"
)
