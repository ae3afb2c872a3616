package drag

import "errors"

var (
	// ErrForbidden is returned by DragStart when the role gate denies reordering
	ErrForbidden = errors.New("not allowed to reorder this board")

	// ErrDragInProgress is returned by DragStart while another gesture is active
	ErrDragInProgress = errors.New("a drag is already in progress")

	// ErrNoActiveDrag is returned by DragEnd and DragCancel without a gesture
	ErrNoActiveDrag = errors.New("no drag in progress")

	// ErrNoSnapshot is returned when the store has not been loaded
	ErrNoSnapshot = errors.New("board not loaded")

	ErrInvalidTransition = errors.New("invalid drag state transition")
	ErrUnknownItemKind   = errors.New("unknown drag item kind")
)
