package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/alleycats/engine/view"
)

// Styles used throughout the TUI.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	stylePromptPlayer = lipgloss.NewStyle().
				Foreground(lipgloss.Color("213")).
				Bold(true)

	stylePromptText = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	styleNarration = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	styleTurn = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)

	styleFight = lipgloss.NewStyle().
			Foreground(lipgloss.Color("208"))

	styleAgenda = lipgloss.NewStyle().
			Foreground(lipgloss.Color("228"))

	styleWin = lipgloss.NewStyle().
			Foreground(lipgloss.Color("46")).
			Bold(true)

	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	stylePlayerInput = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleTrace = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	styleBoard = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1).
			MarginRight(1)

	styleBoardAxis = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	styleCellOwner     = lipgloss.NewStyle().Foreground(lipgloss.Color("51")).Bold(true)
	styleCellSpecial   = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	styleCellWall      = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	styleCellPlain     = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	styleCellReachable = lipgloss.NewStyle().Foreground(lipgloss.Color("34")).Bold(true)
	styleCellPlayer    = lipgloss.NewStyle().Foreground(lipgloss.Color("213")).Bold(true)
)

// styleCell colors one board symbol. Anything that is not a map symbol is
// a player marker.
func styleCell(sym string) string {
	switch sym {
	case "S", "C", "L":
		return styleCellOwner.Render(sym)
	case "K", "B":
		return styleCellSpecial.Render(sym)
	case view.SymWall:
		return styleCellWall.Render(sym)
	case view.SymPlain:
		return styleCellPlain.Render(sym)
	case view.SymReachable:
		return styleCellReachable.Render(sym)
	}
	return styleCellPlayer.Render(sym)
}

// lineKind identifies the type of a journal line for styling.
type lineKind int

const (
	kindNarration lineKind = iota
	kindTurn
	kindFight
	kindAgenda
	kindWin
	kindSystem
	kindError
	kindTrace
)

// classifyLine determines what kind of journal line this is.
func classifyLine(line string) lineKind {
	switch {
	case strings.HasPrefix(line, "[trace]"):
		return kindTrace
	case strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]"):
		return kindSystem
	case strings.HasPrefix(line, "--- Turn"):
		return kindTurn
	case strings.Contains(line, " wins with "), strings.HasPrefix(line, "Nobody won"):
		return kindWin
	case strings.HasPrefix(line, "Error:"),
		strings.Contains(line, " cannot "),
		strings.Contains(line, "not met"):
		return kindError
	case strings.Contains(line, " attacks "),
		strings.Contains(line, " fight"),
		strings.Contains(line, " steals "):
		return kindFight
	case strings.Contains(line, " reveals "),
		strings.HasPrefix(line, "Agenda "):
		return kindAgenda
	default:
		return kindNarration
	}
}

// styledSystemMsg renders a system message in gray with brackets.
func styledSystemMsg(text string) string {
	return styleSystem.Render("[" + text + "]")
}
