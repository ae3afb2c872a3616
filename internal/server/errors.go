package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/thenoetrevino/pasoboard/internal/models"
	"github.com/thenoetrevino/pasoboard/internal/services/board"
	"github.com/thenoetrevino/pasoboard/internal/services/reorder"
)

// DomainError is an error with the HTTP status it should be reported as
type DomainError struct {
	Status  int
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func domainError(status int, code, message string) *DomainError {
	return &DomainError{Status: status, Code: code, Message: message}
}

var errMissingActor = domainError(http.StatusUnauthorized, "UNAUTHORIZED", "X-User-ID header is required")

// mapError translates service and store errors to a DomainError
func mapError(err error) *DomainError {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}

	switch {
	case errors.Is(err, reorder.ErrEmptyBatch),
		errors.Is(err, reorder.ErrInvalidPosition),
		errors.Is(err, reorder.ErrInvalidID),
		errors.Is(err, reorder.ErrDuplicateID),
		errors.Is(err, board.ErrEmptyName),
		errors.Is(err, board.ErrNameTooLong),
		errors.Is(err, board.ErrInvalidBoardID),
		errors.Is(err, board.ErrInvalidColumn),
		errors.Is(err, board.ErrInvalidUserID),
		errors.Is(err, board.ErrInvalidRole),
		errors.Is(err, board.ErrInvalidPriority):
		return domainError(http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, board.ErrForbidden):
		return domainError(http.StatusForbidden, "FORBIDDEN", "Forbidden")
	case errors.Is(err, models.ErrNotFound):
		return domainError(http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, models.ErrInconsistentBatch):
		return domainError(http.StatusConflict, "INCONSISTENT_BATCH", err.Error())
	case errors.Is(err, models.ErrBoardArchived):
		return domainError(http.StatusConflict, "BOARD_ARCHIVED", err.Error())
	case errors.Is(err, models.ErrColumnHasCards):
		return domainError(http.StatusConflict, "COLUMN_NOT_EMPTY", err.Error())
	default:
		return domainError(http.StatusInternalServerError, "SERVER_ERROR", "Server error")
	}
}
