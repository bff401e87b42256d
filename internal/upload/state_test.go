package upload

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsTerminal(t *testing.T) {
	assert.True(t, IsTerminal(StateSucceeded))
	assert.True(t, IsTerminal(StateFailed))

	for _, s := range []State{StateIdle, StateFileSelected, StatePreviewing, StateSubmitting} {
		assert.False(t, IsTerminal(s), "state %s", s)
	}
}

func TestIsAllowedTransition(t *testing.T) {
	tests := []struct {
		from    State
		to      State
		allowed bool
	}{
		{from: StateIdle, to: StateFileSelected, allowed: true},
		{from: StateIdle, to: StateFailed, allowed: true},
		{from: StateIdle, to: StateSubmitting, allowed: false},
		{from: StateIdle, to: StateSucceeded, allowed: false},
		{from: StateFileSelected, to: StateFileSelected, allowed: true},
		{from: StateFileSelected, to: StatePreviewing, allowed: true},
		{from: StateFileSelected, to: StateSubmitting, allowed: true},
		{from: StateFileSelected, to: StateSucceeded, allowed: false},
		{from: StatePreviewing, to: StateFileSelected, allowed: true},
		{from: StatePreviewing, to: StateSubmitting, allowed: true},
		{from: StateSubmitting, to: StateSucceeded, allowed: true},
		{from: StateSubmitting, to: StateFailed, allowed: true},
		{from: StateSubmitting, to: StateFileSelected, allowed: false},
		{from: StateSucceeded, to: StateFileSelected, allowed: true},
		{from: StateSucceeded, to: StateSubmitting, allowed: true},
		{from: StateSucceeded, to: StateFailed, allowed: false},
		{from: StateFailed, to: StateFileSelected, allowed: true},
		{from: StateFailed, to: StateSubmitting, allowed: true},
		{from: StateFailed, to: StateFailed, allowed: true},
	}

	for _, test := range tests {
		t.Run(string(test.from)+" to "+string(test.to), func(t *testing.T) {
			assert.Equal(t, test.allowed, isAllowedTransition(test.from, test.to))
		})
	}
}

func TestTransitionLockedRejectsDisallowed(t *testing.T) {
	w := &Workflow{state: StateIdle}

	err := w.transitionLocked(StateSucceeded)

	assert.ErrorContains(t, err, "disallowed transition")
	assert.Equal(t, StateIdle, w.state)
}
