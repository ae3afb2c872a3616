package models

import "strings"

// Priority describes one card priority level
type Priority struct {
	ID          int
	Description string
	Color       string // Hex color code used when rendering
}

// Priorities lists every level from lowest to highest
var Priorities = []Priority{
	{ID: PriorityNone, Description: "none", Color: "#585858"},
	{ID: PriorityLow, Description: "low", Color: "#5F87D7"},
	{ID: PriorityMedium, Description: "medium", Color: "#D7AF5F"},
	{ID: PriorityHigh, Description: "high", Color: "#D75F00"},
	{ID: PriorityCritical, Description: "critical", Color: "#FF0000"},
}

// PriorityByID returns the level with the given id
func PriorityByID(id int) (Priority, bool) {
	for _, p := range Priorities {
		if p.ID == id {
			return p, true
		}
	}
	return Priority{}, false
}

// PriorityByName returns the level with the given description, case-insensitive
func PriorityByName(name string) (Priority, bool) {
	for _, p := range Priorities {
		if strings.EqualFold(p.Description, name) {
			return p, true
		}
	}
	return Priority{}, false
}
