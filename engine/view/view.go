// Package view renders game state as plain text for the terminal front ends.
package view

import (
	"fmt"
	"strings"

	"github.com/nathoo/alleycats/engine/state"
	"github.com/nathoo/alleycats/types"
)

// Board symbols that differ from the map file.
const (
	SymPlain     = "·"
	SymWall      = "#"
	SymReachable = "*"
)

// Marker returns the one-letter board marker for a player: the first letter
// of its ID, or its seat number.
func Marker(g *state.Game, p *state.Player) string {
	for i, q := range g.Players {
		if q == p {
			if r := []rune(p.ID); len(r) > 0 {
				return strings.ToUpper(string(r[0]))
			}
			return fmt.Sprint(i + 1)
		}
	}
	return "?"
}

// Cell returns the symbol drawn for one cell, ignoring players.
func Cell(c *state.Cell) string {
	switch c.Kind {
	case types.CellWall:
		return SymWall
	case types.CellPlain:
		return SymPlain
	}
	return c.Symbol
}

// BoardRows draws the board one string per row with a column header.
// Players are drawn over cells; reach marks empty destinations.
func BoardRows(g *state.Game, reach []state.Position) []string {
	marks := map[state.Position]bool{}
	for _, pos := range reach {
		marks[pos] = true
	}
	var b strings.Builder
	rows := make([]string, 0, g.Board.Rows+1)

	b.WriteString("   ")
	for j := 0; j < g.Board.Cols; j++ {
		fmt.Fprintf(&b, "%-2d", j)
	}
	rows = append(rows, strings.TrimRight(b.String(), " "))

	for i := range g.Board.Cells {
		b.Reset()
		fmt.Fprintf(&b, "%2d ", i)
		for j := range g.Board.Cells[i] {
			cell := &g.Board.Cells[i][j]
			sym := Cell(cell)
			if here := g.PlayersAt(cell.Pos); len(here) > 0 {
				sym = Marker(g, here[0])
			} else if marks[cell.Pos] {
				sym = SymReachable
			}
			b.WriteString(sym)
			b.WriteString(" ")
		}
		rows = append(rows, strings.TrimRight(b.String(), " "))
	}
	return rows
}

// Legend explains the board symbols.
func Legend() string {
	return "S Student  C Cook  L Librarian  K kiosk  B basement  # wall  * reachable"
}

// Trust formats a player's trust with every owner.
func Trust(p *state.Player) string {
	parts := make([]string, 0, len(state.Owners))
	for _, o := range state.Owners {
		parts = append(parts, fmt.Sprintf("%s %d", o, p.Trust[o]))
	}
	return strings.Join(parts, ", ")
}

// Status is a one-line summary of a player.
func Status(p *state.Player) string {
	s := fmt.Sprintf("%s at %d,%d | food %d | trust %s | hand %d",
		p.ID, p.Pos.Row, p.Pos.Col, p.Food, Trust(p), len(p.Hand))
	if len(p.Titles) > 0 {
		s += " | titles: " + titles(p.Titles)
	}
	if len(p.Persistent) > 0 {
		s += " | in play: " + titles(p.Persistent)
	}
	if p.Rerolls > 0 {
		s += fmt.Sprintf(" | re-rolls %d", p.Rerolls)
	}
	return s
}

func titles(cards []*state.Card) string {
	names := make([]string, len(cards))
	for i, c := range cards {
		names[i] = c.Title
	}
	return strings.Join(names, ", ")
}

// Card describes one card on a single line.
func Card(c *state.Card) string {
	s := c.Title
	if cost := c.FoodCost(); cost > 0 {
		s += fmt.Sprintf(" (%d food)", cost)
	}
	if c.TargetNeeded {
		s += " [target]"
	}
	if c.Description != "" {
		s += ": " + c.Description
	}
	return s
}

// Hand lists a player's hand numbered from 1.
func Hand(p *state.Player) []string {
	if len(p.Hand) == 0 {
		return []string{"(no cards)"}
	}
	out := make([]string, len(p.Hand))
	for i, c := range p.Hand {
		out[i] = fmt.Sprintf("%d. %s", i+1, Card(c))
	}
	return out
}

// Players lists candidates numbered from 1.
func Players(ps []*state.Player) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = fmt.Sprintf("%d. %s (food %d, hand %d)", i+1, p.ID, p.Food, len(p.Hand))
	}
	return out
}

// Agenda describes a player's secret agenda.
func Agenda(a *state.AgendaCard) string {
	if a == nil {
		return "No secret agenda."
	}
	s := fmt.Sprintf("Agenda %q: %s", a.Title, a.Objective)
	if a.Reward != "" {
		s += " Reward: " + a.Reward
	}
	return s
}

// Trace lists the events and effect outcomes of a turn.
func Trace(res types.TurnResult) []string {
	var out []string
	for _, ev := range res.Events {
		out = append(out, fmt.Sprintf("[trace] event %s %v", ev.Type, ev.Data))
	}
	for _, o := range res.Outcomes {
		line := fmt.Sprintf("[trace] %s %s", o.Effect, o.Status)
		if o.Reason != "" {
			line += ": " + o.Reason
		}
		out = append(out, line)
	}
	return out
}
