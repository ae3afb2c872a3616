package reorder

import "errors"

// Batch validation errors. Authorization errors come from the board service,
// consistency errors from the store (models.ErrInconsistentBatch).
var (
	ErrEmptyBatch      = errors.New("updates cannot be empty")
	ErrInvalidPosition = errors.New("position must be at least 1")
	ErrInvalidID       = errors.New("invalid id in updates")
	ErrDuplicateID     = errors.New("id appears more than once in updates")
)
