package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/alleycats/engine/view"
)

// renderStatusBar produces a full-width inverted status line showing the
// acting cat, its food and trust, and the turn count.
func (m Model) renderStatusBar() string {
	left := " " + m.snap.status
	right := fmt.Sprintf("Win at %d | T:%d ", m.winTrust, m.snap.turn)

	// Drop the tail of the status rather than the turn counter.
	if max := m.width - lipgloss.Width(right) - 1; max > 0 && lipgloss.Width(left) > max {
		left = truncate(left, max)
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + strings.Repeat(" ", gap) + right
	return styleStatusBar.Width(m.width).Render(bar)
}

// renderPrompt shows who is being asked what.
func (m Model) renderPrompt() string {
	switch {
	case m.over:
		return styleSystem.Render("Game over.")
	case m.prompt == nil:
		return styleSystem.Render("...")
	}
	return stylePromptPlayer.Render(m.prompt.player+":") + " " + stylePromptText.Render(m.prompt.text)
}

// renderBoard draws the board panel with one style per cell symbol.
func (m Model) renderBoard() string {
	rows := make([]string, len(m.snap.board))
	for i, row := range m.snap.board {
		if i == 0 || len(row) < 3 {
			rows[i] = styleBoardAxis.Render(row)
			continue
		}
		cells := strings.Split(row[3:], " ")
		for j, sym := range cells {
			cells[j] = styleCell(sym)
		}
		rows[i] = styleBoardAxis.Render(row[:3]) + strings.Join(cells, " ")
	}
	return styleBoard.Render(strings.Join(rows, "\n") + "\n\n" + styleBoardAxis.Render(legend()))
}

func legend() string {
	return strings.ReplaceAll(view.Legend(), "  ", "\n")
}

func truncate(s string, width int) string {
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r)) > width-1 {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}
