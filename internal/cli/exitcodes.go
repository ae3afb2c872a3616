package cli

import (
	"errors"
	"net/http"

	"github.com/thenoetrevino/pasoboard/internal/drag"
	"github.com/thenoetrevino/pasoboard/internal/events"
	"github.com/thenoetrevino/pasoboard/internal/reorder"
	"github.com/thenoetrevino/pasoboard/internal/syncclient"
)

// Exit codes for CLI commands.
// These codes follow Unix conventions and provide consistent error reporting
// across all CLI commands.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitError indicates a general error occurred.
	// Use for: unexpected failures, or any error that doesn't fit the
	// specific categories below.
	ExitError = 1

	// ExitUsage indicates incorrect command usage.
	// Use for: Missing required flags, malformed drop targets.
	ExitUsage = 2

	// ExitNotFound indicates a requested board, column or card was not found.
	ExitNotFound = 3

	// ExitDataErr indicates the server answered with data we could not process.
	ExitDataErr = 4

	// ExitValidation indicates a validation error.
	// Use for: invalid moves, empty names, positions out of range.
	ExitValidation = 5

	// ExitForbidden indicates the actor's role does not allow the operation.
	ExitForbidden = 6

	// ExitConflict indicates the server rejected a batch as inconsistent with
	// its state, e.g. an archived board or a column that still holds cards.
	ExitConflict = 7

	// ExitUnavailable indicates the server could not be reached in time.
	ExitUnavailable = 8
)

// UsageError marks bad command-line input
type UsageError struct {
	Message string
}

func (e *UsageError) Error() string {
	return e.Message
}

// ExitCodeFor maps an error returned by a command to its exit code
func ExitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var usage *UsageError
	if errors.As(err, &usage) {
		return ExitUsage
	}

	if errors.Is(err, drag.ErrForbidden) {
		return ExitForbidden
	}
	if errors.Is(err, reorder.ErrInvalidMove) {
		return ExitValidation
	}

	var perr *syncclient.PersistenceError
	if errors.As(err, &perr) {
		switch perr.Kind {
		case syncclient.KindNetwork, syncclient.KindTimeout:
			return ExitUnavailable
		case syncclient.KindConsistency, syncclient.KindAborted:
			return ExitConflict
		}
		switch perr.Status {
		case http.StatusNotFound:
			return ExitNotFound
		case http.StatusUnauthorized, http.StatusForbidden:
			return ExitForbidden
		case http.StatusBadRequest:
			return ExitValidation
		}
		return ExitError
	}

	var cerr *events.ConnectionError
	if errors.As(err, &cerr) {
		switch cerr.Code {
		case events.ErrBoardNotFound:
			return ExitNotFound
		case events.ErrForbidden:
			return ExitForbidden
		default:
			return ExitUnavailable
		}
	}

	if errors.Is(err, errNotOnBoard) {
		return ExitNotFound
	}

	return ExitError
}

// ErrorCode names err for JSON error output
func ErrorCode(err error) string {
	switch ExitCodeFor(err) {
	case ExitUsage:
		return "USAGE_ERROR"
	case ExitNotFound:
		return "NOT_FOUND"
	case ExitValidation:
		return "VALIDATION_ERROR"
	case ExitForbidden:
		return "FORBIDDEN"
	case ExitConflict:
		return "CONFLICT"
	case ExitUnavailable:
		return "SERVER_UNAVAILABLE"
	default:
		return "ERROR"
	}
}

// Suggestion returns a hint for err, or ""
func Suggestion(err error) string {
	var cerr *events.ConnectionError
	if errors.As(err, &cerr) {
		// the hint is already part of the message
		return ""
	}

	switch ExitCodeFor(err) {
	case ExitUnavailable:
		return "Is the server running? Start it with: pasoboard serve"
	case ExitForbidden:
		return "Ask a board owner or admin for member access"
	case ExitConflict:
		return "Refresh the board with: pasoboard board show"
	default:
		return ""
	}
}
