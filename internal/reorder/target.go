package reorder

import "fmt"

// DropKind selects how a Drop resolves to an insertion index
type DropKind int

const (
	// DropOverItem inserts at the pre-move rank of another item
	DropOverItem DropKind = iota
	// DropZone appends to the container
	DropZone
	// DropAtPosition inserts at an explicit 1-based position
	DropAtPosition
)

func (k DropKind) String() string {
	switch k {
	case DropOverItem:
		return "over-item"
	case DropZone:
		return "zone"
	case DropAtPosition:
		return "at-position"
	default:
		return fmt.Sprintf("DropKind(%d)", int(k))
	}
}

// Drop is where the dragged item was released inside its target container
type Drop struct {
	Kind     DropKind
	ItemID   int // card or column id for DropOverItem
	Position int // 1-based for DropAtPosition
}

// OverItem is a drop onto another card (or column, for column moves)
func OverItem(id int) Drop {
	return Drop{Kind: DropOverItem, ItemID: id}
}

// Zone is a drop onto the container's own drop area
func Zone() Drop {
	return Drop{Kind: DropZone}
}

// AtPosition is a drop at an explicit 1-based position
func AtPosition(position int) Drop {
	return Drop{Kind: DropAtPosition, Position: position}
}
