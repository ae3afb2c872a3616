package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/thenoetrevino/pasoboard/internal/models"
)

// OneOrMany decodes a JSON array, a single object, or null into a slice.
// It always encodes as an array.
type OneOrMany[T any] []T

func (o *OneOrMany[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*o = OneOrMany[T]{}
		return nil
	case data[0] == '[':
		var items []T
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		if items == nil {
			items = []T{}
		}
		*o = items
		return nil
	case data[0] == '{':
		var item T
		if err := json.Unmarshal(data, &item); err != nil {
			return err
		}
		*o = OneOrMany[T]{item}
		return nil
	default:
		return fmt.Errorf("expected array, object or null, got %.20s", data)
	}
}

func (o OneOrMany[T]) MarshalJSON() ([]byte, error) {
	if o == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]T(o))
}

// ColumnPayload is a column with its cards as sent over the wire
type ColumnPayload struct {
	models.Column
	Cards OneOrMany[models.Card] `json:"cards"`
}

// Payload is the wire shape of a board read
type Payload struct {
	Board   models.Board             `json:"board"`
	Columns OneOrMany[ColumnPayload] `json:"columns"`
}

// ToPayload converts s to its wire shape
func ToPayload(s *Snapshot) Payload {
	p := Payload{
		Board:   s.Board,
		Columns: make(OneOrMany[ColumnPayload], 0, len(s.Columns)),
	}
	for _, cs := range s.Columns {
		p.Columns = append(p.Columns, ColumnPayload{
			Column: cs.Column,
			Cards:  OneOrMany[models.Card](cs.Cards),
		})
	}
	return p
}

// FromPayload builds a Snapshot from a decoded payload. Cards are filed
// under the column that carried them, whatever their own column id says.
func FromPayload(p Payload) *Snapshot {
	columns := make([]models.Column, 0, len(p.Columns))
	var cards []models.Card
	for _, cp := range p.Columns {
		col := cp.Column
		col.BoardID = p.Board.ID
		columns = append(columns, col)
		for _, card := range cp.Cards {
			card.ColumnID = col.ID
			cards = append(cards, card)
		}
	}
	return New(p.Board, columns, cards)
}
