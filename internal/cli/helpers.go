package cli

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/pasoboard/internal/reorder"
	"github.com/thenoetrevino/pasoboard/internal/snapshot"
	"github.com/thenoetrevino/pasoboard/internal/types"
)

var errNotOnBoard = errors.New("not found on this board")

// BoardEnvVar holds the board selected with `pasoboard use board`
const BoardEnvVar = "PASOBOARD_BOARD"

// AddBoardFlag registers --board on cmd
func AddBoardFlag(cmd *cobra.Command) {
	cmd.Flags().Int("board", 0, "Board ID (defaults to $"+BoardEnvVar+")")
}

// BoardID resolves the target board. --board takes precedence over $PASOBOARD_BOARD.
func BoardID(cmd *cobra.Command) (types.BoardID, error) {
	if id, _ := cmd.Flags().GetInt("board"); id > 0 {
		return types.BoardID(id), nil
	}

	env := strings.TrimSpace(os.Getenv(BoardEnvVar))
	if env == "" {
		return 0, &UsageError{Message: "board ID required: pass --board or run eval $(pasoboard use board <id>)"}
	}
	id, err := strconv.Atoi(env)
	if err != nil || id <= 0 {
		return 0, &UsageError{Message: fmt.Sprintf("invalid %s %q", BoardEnvVar, env)}
	}
	return types.BoardID(id), nil
}

// ParseDrop reads a drop target: "end" drops on the container itself,
// "over:<id>" onto another item, and a bare number at that 1-based position
func ParseDrop(s string) (reorder.Drop, error) {
	s = strings.TrimSpace(strings.ToLower(s))

	switch {
	case s == "" || s == "end":
		return reorder.Zone(), nil

	case strings.HasPrefix(s, "over:"):
		id, err := strconv.Atoi(strings.TrimPrefix(s, "over:"))
		if err != nil || id <= 0 {
			return reorder.Drop{}, &UsageError{Message: fmt.Sprintf("invalid drop target %q: over: needs a positive id", s)}
		}
		return reorder.OverItem(id), nil

	default:
		pos, err := strconv.Atoi(s)
		if err != nil {
			return reorder.Drop{}, &UsageError{Message: fmt.Sprintf("invalid drop target %q (use end, over:<id> or a position)", s)}
		}
		if pos < 1 {
			return reorder.Drop{}, &UsageError{Message: fmt.Sprintf("position must be at least 1, got %d", pos)}
		}
		return reorder.AtPosition(pos), nil
	}
}

// FindColumn resolves ref, either a column id or a case-insensitive name
func FindColumn(s *snapshot.Snapshot, ref string) (*snapshot.ColumnState, error) {
	if id, err := strconv.Atoi(ref); err == nil {
		if cs, ok := s.Column(types.ColumnID(id)); ok {
			return cs, nil
		}
	}

	for _, cs := range s.Columns {
		if strings.EqualFold(cs.Name, ref) {
			return cs, nil
		}
	}
	return nil, fmt.Errorf("column %q: %w", ref, errNotOnBoard)
}

// FindCard returns the card and the column holding it
func FindCard(s *snapshot.Snapshot, id types.CardID) (*snapshot.ColumnState, int, error) {
	ci, ki := s.LocateCard(id)
	if ci < 0 {
		return nil, 0, fmt.Errorf("card %d: %w", id, errNotOnBoard)
	}
	return s.Columns[ci], ki, nil
}

// FormatAvailableColumns lists the board's column names in order
func FormatAvailableColumns(s *snapshot.Snapshot) string {
	names := make([]string, 0, len(s.Columns))
	for _, cs := range s.Columns {
		names = append(names, cs.Name)
	}
	return strings.Join(names, ", ")
}
