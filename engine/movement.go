package engine

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/nathoo/alleycats/engine/state"
	"github.com/nathoo/alleycats/types"
)

// Movement errors.
var (
	ErrOutOfBounds = errors.New("destination is off the board")
	ErrWall        = errors.New("destination is a wall")
	ErrTooFar      = errors.New("destination is too far")
)

// CheckMove validates a destination for p given the movement allowance.
func CheckMove(g *state.Game, p *state.Player, to state.Position, steps int) error {
	cell, ok := g.Board.At(to)
	if !ok {
		return ErrOutOfBounds
	}
	if cell.Kind == types.CellWall && !p.CanPassWalls() {
		return ErrWall
	}
	if state.Distance(p.Pos, to) > steps {
		return ErrTooFar
	}
	return nil
}

// Reachable lists every legal destination for p, in row-major order.
func Reachable(g *state.Game, p *state.Player, steps int) []state.Position {
	var out []state.Position
	for i := range g.Board.Cells {
		for j := range g.Board.Cells[i] {
			pos := state.Position{Row: i, Col: j}
			if pos != p.Pos && CheckMove(g, p, pos, steps) == nil {
				out = append(out, pos)
			}
		}
	}
	return out
}

func (e *Engine) movement(ctx context.Context, p *state.Player) error {
	g := e.Game
	agent := e.agentFor(p)

	roll := g.RNG.Roll(6)
	steps := roll + p.MovementBonus()
	g.Narrate("%s rolls %d and may move %d.", p.ID, roll, steps)

	if p.HasReroll() {
		again, err := agent.ChooseToReroll(ctx, g, p, steps)
		if err != nil {
			return err
		}
		if again && p.ConsumeReroll() {
			roll = g.RNG.Roll(6)
			steps = roll + p.MovementBonus()
			g.Narrate("%s re-rolls: %d, may move %d.", p.ID, roll, steps)
		}
	}
	e.result.Roll = steps

	dest, err := agent.ChooseMovementDestination(ctx, g, p, steps)
	if err != nil {
		return err
	}
	// Naming the current cell is staying; it does not re-enter the cell.
	if dest.Stay || dest.Pos == p.Pos {
		g.Narrate("%s stays put.", p.ID)
		return nil
	}
	if err := CheckMove(g, p, dest.Pos, steps); err != nil {
		e.log.Debug("illegal move", zap.String("player", p.ID),
			zap.Int("row", dest.Pos.Row), zap.Int("col", dest.Pos.Col), zap.Error(err))
		g.Narrate("%s cannot move there (%v) and stays put.", p.ID, err)
		return nil
	}

	p.Pos = dest.Pos
	cell, _ := g.Board.At(p.Pos)
	g.Narrate("%s moves to (%d,%d): %s.", p.ID, p.Pos.Row, p.Pos.Col, cell.Location())
	p.RecordAction(state.ActionRecord{Action: state.ActionMoved, Location: cell.Location(), Voluntary: true})
	e.EnterCell(p)
	g.CheckWin(p)
	return nil
}
