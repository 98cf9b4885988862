package lifecycle_test

import (
	"testing"

	"unimarket/internal/lifecycle"

	"github.com/stretchr/testify/assert"
)

func TestNext_ValidTransitions(t *testing.T) {
	cases := []struct {
		from   lifecycle.Status
		action lifecycle.Action
		to     lifecycle.Status
	}{
		{lifecycle.StatusAwaitingRequirements, lifecycle.ActionSubmitRequirements, lifecycle.StatusInProgress},
		{lifecycle.StatusAwaitingRequirements, lifecycle.ActionCancel, ""},
		{lifecycle.StatusInProgress, lifecycle.ActionDeliver, lifecycle.StatusDelivered},
		{lifecycle.StatusInRevision, lifecycle.ActionDeliver, lifecycle.StatusDelivered},
		{lifecycle.StatusDelivered, lifecycle.ActionComplete, lifecycle.StatusCompleted},
		{lifecycle.StatusDelivered, lifecycle.ActionRequestRevision, lifecycle.StatusInRevision},
	}

	for _, tc := range cases {
		to, err := lifecycle.Next(tc.from, tc.action)
		assert.NoError(t, err, "from %s action %s", tc.from, tc.action)
		assert.Equal(t, tc.to, to, "from %s action %s", tc.from, tc.action)
	}
}

func TestNext_InvalidTransitions(t *testing.T) {
	cases := []struct {
		from   lifecycle.Status
		action lifecycle.Action
	}{
		{lifecycle.StatusAwaitingRequirements, lifecycle.ActionDeliver},
		{lifecycle.StatusAwaitingRequirements, lifecycle.ActionComplete},
		{lifecycle.StatusInProgress, lifecycle.ActionSubmitRequirements},
		{lifecycle.StatusInProgress, lifecycle.ActionCancel},
		{lifecycle.StatusInProgress, lifecycle.ActionComplete},
		{lifecycle.StatusDelivered, lifecycle.ActionDeliver},
		{lifecycle.StatusDelivered, lifecycle.ActionCancel},
		{lifecycle.StatusInRevision, lifecycle.ActionComplete},
		{lifecycle.StatusInRevision, lifecycle.ActionCancel},
		{lifecycle.StatusCompleted, lifecycle.ActionDeliver},
		{lifecycle.StatusCompleted, lifecycle.ActionComplete},
		{lifecycle.StatusCompleted, lifecycle.ActionCancel},
		{lifecycle.Status("bogus"), lifecycle.ActionDeliver},
	}

	for _, tc := range cases {
		_, err := lifecycle.Next(tc.from, tc.action)
		assert.Error(t, err, "from %s action %s", tc.from, tc.action)
		var invalid *lifecycle.ErrInvalidTransition
		assert.ErrorAs(t, err, &invalid)
	}
}

func TestActorFor(t *testing.T) {
	assert.Equal(t, lifecycle.RoleBuyer, lifecycle.ActorFor(lifecycle.ActionSubmitRequirements))
	assert.Equal(t, lifecycle.RoleBuyer, lifecycle.ActorFor(lifecycle.ActionCancel))
	assert.Equal(t, lifecycle.RoleBuyer, lifecycle.ActorFor(lifecycle.ActionComplete))
	assert.Equal(t, lifecycle.RoleBuyer, lifecycle.ActorFor(lifecycle.ActionRequestRevision))
	assert.Equal(t, lifecycle.RoleSeller, lifecycle.ActorFor(lifecycle.ActionDeliver))
}

func TestAllowedActions(t *testing.T) {
	assert.ElementsMatch(t,
		[]lifecycle.Action{lifecycle.ActionSubmitRequirements, lifecycle.ActionCancel},
		lifecycle.AllowedActions(lifecycle.StatusAwaitingRequirements, lifecycle.RoleBuyer))
	assert.Empty(t, lifecycle.AllowedActions(lifecycle.StatusAwaitingRequirements, lifecycle.RoleSeller))

	assert.ElementsMatch(t,
		[]lifecycle.Action{lifecycle.ActionDeliver},
		lifecycle.AllowedActions(lifecycle.StatusInProgress, lifecycle.RoleSeller))
	assert.Empty(t, lifecycle.AllowedActions(lifecycle.StatusInProgress, lifecycle.RoleBuyer))

	assert.ElementsMatch(t,
		[]lifecycle.Action{lifecycle.ActionComplete, lifecycle.ActionRequestRevision},
		lifecycle.AllowedActions(lifecycle.StatusDelivered, lifecycle.RoleBuyer))
	assert.Empty(t, lifecycle.AllowedActions(lifecycle.StatusDelivered, lifecycle.RoleSeller))

	assert.ElementsMatch(t,
		[]lifecycle.Action{lifecycle.ActionDeliver},
		lifecycle.AllowedActions(lifecycle.StatusInRevision, lifecycle.RoleSeller))
}

func TestTerminal(t *testing.T) {
	assert.True(t, lifecycle.Terminal(lifecycle.StatusCompleted))
	assert.False(t, lifecycle.Terminal(lifecycle.StatusAwaitingRequirements))
	assert.False(t, lifecycle.Terminal(lifecycle.StatusDelivered))
}

func TestValid(t *testing.T) {
	assert.True(t, lifecycle.Valid(lifecycle.StatusInProgress))
	assert.False(t, lifecycle.Valid(lifecycle.Status("shipped")))
}
