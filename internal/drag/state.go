package drag

import "fmt"

// State is the phase of a drag cycle
type State int

const (
	Idle State = iota
	Dragging
	Resolving
	Applying
	Syncing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	case Resolving:
		return "resolving"
	case Applying:
		return "applying"
	case Syncing:
		return "syncing"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// transition moves *cur from -> to, rejecting edges outside the table
func transition(cur *State, from, to State) error {
	if *cur != from {
		return fmt.Errorf("%w: expected %s, got %s", ErrInvalidTransition, from, *cur)
	}
	if !isAllowedTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	*cur = to
	return nil
}

func isAllowedTransition(from, to State) bool {
	switch from {
	case Idle:
		return to == Dragging
	case Dragging:
		// cancel or drop outside any target goes straight back
		return to == Idle || to == Resolving
	case Resolving:
		// nothing to change, or invalid move
		return to == Idle || to == Applying
	case Applying:
		return to == Syncing
	case Syncing:
		return to == Idle
	default:
		return false
	}
}
