package cli

import (
	"fmt"
	"strings"

	"crossword-service/internal/crossword"
	"crossword-service/internal/domain"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	colorCyan = lipgloss.Color("36")
	colorGray = lipgloss.Color("245")
	colorDim  = lipgloss.Color("240")

	styleTitle  = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleNumber = lipgloss.NewStyle().Foreground(colorCyan)
	styleLetter = lipgloss.NewStyle().Bold(true)
	styleDim    = lipgloss.NewStyle().Foreground(colorDim)
	styleHeader = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

// renderLayout draws the grid and the clue list. Letters are shown only when reveal is set;
// otherwise word starts show their number.
func renderLayout(l crossword.Layout, reveal bool) string {
	rows := make([][]string, len(l.Grid.Cells))
	for r, row := range l.Grid.Cells {
		rows[r] = make([]string, len(row))
		for c, cell := range row {
			rows[r][c] = cellText(cell, reveal)
		}
	}

	grid := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(styleDim).
		BorderRow(true).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			base := lipgloss.NewStyle().Width(2).Align(lipgloss.Center)
			if row < 0 || row >= len(l.Grid.Cells) {
				return base
			}
			cell := l.Grid.Cells[row][col]
			switch {
			case !cell.Playable():
				return base.Inherit(styleDim)
			case reveal:
				return base.Inherit(styleLetter)
			default:
				return base.Inherit(styleNumber)
			}
		})

	var b strings.Builder
	b.WriteString(grid.String())
	b.WriteString("\n\n")
	b.WriteString(renderClues(l.Placements, reveal))
	if len(l.Dropped) > 0 {
		b.WriteString("\n")
		b.WriteString(styleDim.Render(fmt.Sprintf("%d word(s) could not be placed", len(l.Dropped))))
		b.WriteString("\n")
	}
	return b.String()
}

func cellText(cell domain.Cell, reveal bool) string {
	switch {
	case !cell.Playable():
		return "·"
	case reveal:
		return strings.ToUpper(cell.Letter)
	case cell.Start:
		return fmt.Sprint(cell.Number)
	default:
		return " "
	}
}

func renderClues(placements []domain.Placement, reveal bool) string {
	rows := make([][]string, 0, len(placements))
	for _, p := range placements {
		clue := strings.TrimSpace(p.ClueText + strings.Repeat("_", p.Length()))
		if reveal {
			clue = strings.TrimSpace(p.ClueText + p.Word)
		}
		rows = append(rows, []string{
			fmt.Sprint(p.Number),
			string(p.Direction),
			fmt.Sprintf("%d,%d", p.Row, p.Col),
			p.Question,
			clue,
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleDim).
		Headers("#", "Direction", "Start", "Question", "Clue").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader
			}
			return lipgloss.NewStyle().PaddingRight(1)
		})
	return styleTitle.Render("Clues") + "\n" + t.String()
}
