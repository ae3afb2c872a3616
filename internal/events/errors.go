package events

import (
	"errors"
	"net/http"
	"syscall"

	"github.com/gorilla/websocket"
)

var (
	ErrQueueFull    = errors.New("event queue full")
	ErrNotConnected = errors.New("not connected to event stream")
	ErrClosed       = errors.New("event client closed")
)

// ErrorCode represents event stream connection failures.
type ErrorCode int

const (
	ErrServerUnreachable ErrorCode = iota
	ErrConnectionRefused
	ErrBoardNotFound
	ErrForbidden
	ErrHandshake
)

// ConnectionError is a structured event stream error with a hint for the user.
type ConnectionError struct {
	Code    ErrorCode
	Message string
	Hint    string
	Err     error
}

// Error implements the error interface.
func (e *ConnectionError) Error() string {
	if e.Hint != "" {
		return e.Message + ". " + e.Hint
	}
	return e.Message
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// ClassifyConnectError maps a websocket dial failure to a ConnectionError.
// resp is the handshake response, if the server sent one.
func ClassifyConnectError(err error, resp *http.Response) *ConnectionError {
	if err == nil {
		return nil
	}

	if resp != nil {
		switch resp.StatusCode {
		case http.StatusNotFound:
			return &ConnectionError{
				Code:    ErrBoardNotFound,
				Message: "Board not found",
				Hint:    "Check the board id with: pasoboard board show <id>",
				Err:     err,
			}
		case http.StatusUnauthorized, http.StatusForbidden:
			return &ConnectionError{
				Code:    ErrForbidden,
				Message: "Not allowed to watch this board",
				Hint:    "Set PASOBOARD_USER_ID to a board member",
				Err:     err,
			}
		}
	}

	if errors.Is(err, websocket.ErrBadHandshake) {
		return &ConnectionError{
			Code:    ErrHandshake,
			Message: "Websocket handshake failed",
			Hint:    "Check that PASOBOARD_BASE_URL points at a pasoboard server",
			Err:     err,
		}
	}

	var errno syscall.Errno
	if errors.As(err, &errno) && errno == syscall.ECONNREFUSED {
		return &ConnectionError{
			Code:    ErrConnectionRefused,
			Message: "Connection refused",
			Hint:    "Start the server: pasoboard serve",
			Err:     err,
		}
	}

	return &ConnectionError{
		Code:    ErrServerUnreachable,
		Message: "Server unreachable",
		Hint:    "Start the server: pasoboard serve",
		Err:     err,
	}
}
