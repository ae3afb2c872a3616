package styles

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/thenoetrevino/pasoboard/internal/config"
	"github.com/thenoetrevino/pasoboard/internal/models"
	"github.com/thenoetrevino/pasoboard/internal/snapshot"
)

var (
	// Column styles
	ColumnStyle lipgloss.Style
	ColumnWidth = 28

	// Card styles
	CardStyle lipgloss.Style

	// Text styles
	TitleStyle    lipgloss.Style
	HeaderStyle   lipgloss.Style
	SubtitleStyle lipgloss.Style
	ValueStyle    lipgloss.Style

	// Status styles
	ArchivedStyle lipgloss.Style
	ErrorStyle    lipgloss.Style
)

func init() {
	Init(config.DefaultTheme())
}

// Init initializes all CLI styles with the given theme
func Init(theme config.Theme) {
	theme.ApplyDefaults()

	ColumnStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.ColumnBorder)).
		Padding(0, 1).
		Width(ColumnWidth)

	CardStyle = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color(theme.CardBorder)).
		Width(ColumnWidth - 4)

	TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(theme.Title))

	HeaderStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(theme.Accent))

	SubtitleStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.Subtle))

	ValueStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.Normal))

	ArchivedStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(theme.Error)).
		Padding(0, 1)

	ErrorStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(theme.Error))
}

// ColoredText renders text with a hex color
func ColoredText(text, hexColor string) string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(hexColor)).
		Render(text)
}

// RenderBoard draws the board's columns side by side, cards in position order
func RenderBoard(s *snapshot.Snapshot) string {
	title := TitleStyle.Render(s.Board.Name) + SubtitleStyle.Render(fmt.Sprintf("  #%d", s.Board.ID))
	if s.Board.Archived {
		title += ArchivedStyle.Render("archived")
	}

	if len(s.Columns) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, title, SubtitleStyle.Render("no columns"))
	}

	columns := make([]string, 0, len(s.Columns))
	for _, cs := range s.Columns {
		columns = append(columns, renderColumn(cs))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		lipgloss.JoinHorizontal(lipgloss.Top, columns...),
	)
}

func renderColumn(cs *snapshot.ColumnState) string {
	header := HeaderStyle.Render(cs.Name) +
		SubtitleStyle.Render(fmt.Sprintf(" #%d (%d)", cs.ID, len(cs.Cards)))

	rows := []string{header}
	if len(cs.Cards) == 0 {
		rows = append(rows, SubtitleStyle.Render("empty"))
	}
	for _, card := range cs.Cards {
		line := SubtitleStyle.Render(fmt.Sprintf("%d. ", card.Position)) + ValueStyle.Render(card.Title)
		meta := []string{fmt.Sprintf("#%d", card.ID)}
		if card.Assignee != "" {
			meta = append(meta, "@"+card.Assignee)
		}
		if card.DueDate != nil {
			meta = append(meta, "due "+card.DueDate.Format("Jan 2"))
		}
		if p, ok := models.PriorityByID(card.Priority); ok && p.ID != models.PriorityNone {
			meta = append(meta, ColoredText("!"+p.Description, p.Color))
		}
		rows = append(rows, CardStyle.Render(line+"\n"+SubtitleStyle.Render(strings.Join(meta, " "))))
	}

	return ColumnStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
