package reorder

import (
	"errors"
	"fmt"
)

// ErrInvalidMove is the validation failure returned when a move cannot be
// resolved against the snapshot. Callers abort without mutating anything.
var ErrInvalidMove = errors.New("invalid move")

// Causes wrapped by ErrInvalidMove
var (
	ErrUnknownCard       = errors.New("unknown card")
	ErrUnknownColumn     = errors.New("unknown column")
	ErrUnknownDropTarget = errors.New("drop target is not in the target container")
	ErrNilSnapshot       = errors.New("no snapshot")
)

func invalid(cause error, format string, args ...any) error {
	return &moveError{cause: cause, detail: fmt.Sprintf(format, args...)}
}

type moveError struct {
	cause  error
	detail string
}

func (e *moveError) Error() string {
	return ErrInvalidMove.Error() + ": " + e.cause.Error() + " (" + e.detail + ")"
}

// Is reports both ErrInvalidMove and the specific cause
func (e *moveError) Is(target error) bool {
	return target == ErrInvalidMove || target == e.cause
}

func (e *moveError) Unwrap() error {
	return e.cause
}
