package upload

import "fmt"

// State is the position of one submission workflow. Exactly one State is
// alive per workflow instance; every user action replaces it.
type State string

const (
	StateIdle         State = "IDLE"
	StateFileSelected State = "FILE_SELECTED"
	StatePreviewing   State = "PREVIEWING"
	StateSubmitting   State = "SUBMITTING"
	StateSucceeded    State = "SUCCEEDED"
	StateFailed       State = "FAILED"
)

// IsTerminal reports whether the state ends a submission attempt. Terminal
// states are left again by choosing a new file or resubmitting.
func IsTerminal(s State) bool {
	switch s {
	case StateSucceeded, StateFailed:
		return true
	default:
		return false
	}
}

func isAllowedTransition(from, to State) bool {
	switch from {
	case StateIdle:
		return to == StateFileSelected || to == StateFailed
	case StateFileSelected:
		return to == StateFileSelected || to == StatePreviewing || to == StateSubmitting
	case StatePreviewing:
		return to == StateFileSelected || to == StatePreviewing || to == StateSubmitting
	case StateSubmitting:
		return to == StateSucceeded || to == StateFailed
	case StateSucceeded:
		return to == StateFileSelected || to == StateSubmitting
	case StateFailed:
		return to == StateFileSelected || to == StateSubmitting || to == StateFailed
	default:
		return false
	}
}

// transitionLocked performs a validated state change. The caller holds the
// workflow mutex; an invalid transition indicates a bug in the caller, not a
// user error.
func (w *Workflow) transitionLocked(to State) error {
	if !isAllowedTransition(w.state, to) {
		return fmt.Errorf("disallowed transition: %s -> %s", w.state, to)
	}
	w.state = to

	return nil
}
