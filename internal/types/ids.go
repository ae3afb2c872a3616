package types

// ID type aliases provide semantic meaning and reduce repetitive int conversions.
// These aliases document what each integer represents in the domain model.

// BoardID identifies a unique board in the system
type BoardID int

// ColumnID identifies a unique column within a board
type ColumnID int

// CardID identifies a unique card within a board
type CardID int

// UserID identifies an actor (authentication happens outside this module)
type UserID int

// ToInt converts type alias back to int for compatibility with database/sql scanning
func (id BoardID) ToInt() int {
	return int(id)
}

func (id ColumnID) ToInt() int {
	return int(id)
}

func (id CardID) ToInt() int {
	return int(id)
}

func (id UserID) ToInt() int {
	return int(id)
}

// Valid reports whether the id could reference a stored row
func (id BoardID) Valid() bool  { return id > 0 }
func (id ColumnID) Valid() bool { return id > 0 }
func (id CardID) Valid() bool   { return id > 0 }
func (id UserID) Valid() bool   { return id > 0 }
