package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/vidinfra/commtrack/internal/domain/globalstatus"
	ierr "github.com/vidinfra/commtrack/internal/errors"
	"github.com/vidinfra/commtrack/internal/types"
)

func catalogEntry(code string, phase types.StatusPhase) *globalstatus.GlobalStatus {
	return &globalstatus.GlobalStatus{Code: code, DisplayName: code, Phase: phase, IsActive: true}
}

func TestEvaluateTransition(t *testing.T) {
	valid := []*globalstatus.GlobalStatus{
		catalogEntry("Pending", types.PhaseCreation),
		catalogEntry("Printed", types.PhaseProduction),
		catalogEntry("Shipped", types.PhaseLogistics),
		catalogEntry("Failed", types.PhaseError),
	}

	tests := []struct {
		name       string
		policy     types.TransitionPolicy
		typeKnown  bool
		from       string
		to         string
		allowed    bool
		reason     types.TransitionRejectionReason
		statusCode string
	}{
		{name: "unknown type", policy: types.TransitionPolicyPermissive, from: "Pending", to: "Shipped", reason: types.RejectionUnknownType},
		{name: "creation", policy: types.TransitionPolicyPermissive, typeKnown: true, to: "Pending", allowed: true},
		{name: "creation with foreign status", policy: types.TransitionPolicyPermissive, typeKnown: true, to: "Delivered", reason: types.RejectionStatusNotAllowedForType, statusCode: "Delivered"},
		{name: "forward", policy: types.TransitionPolicyPermissive, typeKnown: true, from: "Pending", to: "Shipped", allowed: true},
		{name: "self loop", policy: types.TransitionPolicyPermissive, typeKnown: true, from: "Printed", to: "Printed", allowed: true},
		{name: "from not allowed", policy: types.TransitionPolicyPermissive, typeKnown: true, from: "Returned", to: "Shipped", reason: types.RejectionStatusNotAllowedForType, statusCode: "Returned"},
		{name: "to not allowed", policy: types.TransitionPolicyPermissive, typeKnown: true, from: "Pending", to: "Returned", reason: types.RejectionStatusNotAllowedForType, statusCode: "Returned"},
		{name: "permissive backward", policy: types.TransitionPolicyPermissive, typeKnown: true, from: "Shipped", to: "Pending", allowed: true},
		{name: "forward only backward", policy: types.TransitionPolicyForwardOnly, typeKnown: true, from: "Shipped", to: "Pending", reason: types.RejectionBackwardPhase, statusCode: "Pending"},
		{name: "forward only same phase", policy: types.TransitionPolicyForwardOnly, typeKnown: true, from: "Printed", to: "Printed", allowed: true},
		{name: "forward only into error", policy: types.TransitionPolicyForwardOnly, typeKnown: true, from: "Shipped", to: "Failed", allowed: true},
		{name: "forward only creation", policy: types.TransitionPolicyForwardOnly, typeKnown: true, to: "Shipped", allowed: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var allowList []*globalstatus.GlobalStatus
			if tt.typeKnown {
				allowList = valid
			}
			d := EvaluateTransition(tt.policy, "EOB", tt.typeKnown, allowList, tt.from, tt.to)

			assert.Equal(t, tt.allowed, d.Allowed)
			assert.Equal(t, tt.reason, d.Reason)
			assert.Equal(t, tt.statusCode, d.StatusCode)
			if tt.allowed {
				assert.NoError(t, d.Err())
			} else {
				assert.True(t, ierr.IsBusinessRule(d.Err()))
			}
		})
	}
}

type TransitionValidatorSuite struct {
	engineSuite
}

func TestTransitionValidator(t *testing.T) {
	suite.Run(t, new(TransitionValidatorSuite))
}

func (s *TransitionValidatorSuite) SetupTest() {
	s.engineSuite.SetupTest()
	s.provisionCatalog()
	s.createType("EOB", "Pending", "Printed", "Shipped", "Delivered")
}

func (s *TransitionValidatorSuite) TestInactiveTypeIsUnknown() {
	s.Require().NoError(s.taxonomy.SoftDeleteType(s.GetContext(), "EOB"))

	d, err := s.validator.CanTransition(s.GetContext(), "EOB", "Pending", "Shipped")
	s.Require().NoError(err)
	s.False(d.Allowed)
	s.Equal(types.RejectionUnknownType, d.Reason)

	d, err = s.validator.CanTransition(s.GetContext(), "NOPE", "", "Pending")
	s.Require().NoError(err)
	s.Equal(types.RejectionUnknownType, d.Reason)
}

func (s *TransitionValidatorSuite) TestPolicyIsReadPerCall() {
	created := s.createCommunication("EOB", "statement")
	_, err := s.transition(created.ID, "Shipped")
	s.Require().NoError(err)

	d, err := s.validator.CanTransition(s.GetContext(), "EOB", "Shipped", "Pending")
	s.Require().NoError(err)
	s.True(d.Allowed)

	s.GetConfig().Transitions.Policy = types.TransitionPolicyForwardOnly

	d, err = s.validator.CanTransition(s.GetContext(), "EOB", "Shipped", "Pending")
	s.Require().NoError(err)
	s.False(d.Allowed)
	s.Equal(types.RejectionBackwardPhase, d.Reason)

	_, err = s.transition(created.ID, "Pending")
	s.Require().Error(err)
	s.True(ierr.IsBusinessRule(err))
	s.Equal([]string{"Pending", "Shipped"}, s.historyCodes(created.ID))

	resp, err := s.transition(created.ID, "Delivered")
	s.Require().NoError(err)
	s.Equal("Delivered", resp.CurrentStatus)
}
