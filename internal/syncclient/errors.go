package syncclient

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrPersistence matches every failed bulk request
	ErrPersistence = errors.New("persistence failed")

	// ErrConsistency matches batches the server rejected as inconsistent
	// with its state (unknown or foreign ids, archived board)
	ErrConsistency = errors.New("batch inconsistent with server state")

	// ErrAborted matches parked batches dropped because the batch ahead of
	// them failed
	ErrAborted = errors.New("batch aborted after earlier failure")

	// ErrQueueClosed is returned by Submit after Close
	ErrQueueClosed = errors.New("sync queue closed")
)

// Kind classifies a persistence failure
type Kind int

const (
	KindNetwork Kind = iota
	KindTimeout
	KindRejected
	KindConsistency
	KindAborted
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindTimeout:
		return "timeout"
	case KindRejected:
		return "rejected"
	case KindConsistency:
		return "consistency"
	case KindAborted:
		return "aborted"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// PersistenceError describes why a bulk request did not succeed.
// Nothing from the batch should be assumed stored.
type PersistenceError struct {
	Kind    Kind
	Status  int    // HTTP status, 0 when no response arrived
	Message string // server error message or transport error text
	Err     error
}

func (e *PersistenceError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: %s (%d %s): %s", ErrPersistence, e.Kind, e.Status, http.StatusText(e.Status), e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", ErrPersistence, e.Kind, e.Message)
}

// Is matches ErrPersistence always, and ErrConsistency or ErrAborted by kind
func (e *PersistenceError) Is(target error) bool {
	switch target {
	case ErrPersistence:
		return true
	case ErrConsistency:
		return e.Kind == KindConsistency
	case ErrAborted:
		return e.Kind == KindAborted
	default:
		return false
	}
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// statusKind maps a non-2xx status to a failure kind
func statusKind(status int) Kind {
	switch status {
	case http.StatusConflict, http.StatusUnprocessableEntity:
		return KindConsistency
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return KindTimeout
	default:
		return KindRejected
	}
}
