package models

// ============================================================================
// PRIORITY CONSTANTS
// ============================================================================

// Priority constants
const (
	PriorityNone     = 0
	PriorityLow      = 1
	PriorityMedium   = 2
	PriorityHigh     = 3
	PriorityCritical = 4
)

// ============================================================================
// NAME LIMITS
// ============================================================================

const (
	// MaxBoardNameLength bounds board names
	MaxBoardNameLength = 100

	// MaxColumnNameLength bounds column names
	MaxColumnNameLength = 50

	// MaxCardTitleLength bounds card titles
	MaxCardTitleLength = 255
)
