// Package engine provides the turn controller: it sequences one player's
// turn through its phases, asks the player's agent for every decision and
// hands card and reward logic to the effect engine.
package engine

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/nathoo/alleycats/engine/events"
	"github.com/nathoo/alleycats/engine/rules"
	"github.com/nathoo/alleycats/engine/state"
	"github.com/nathoo/alleycats/types"
)

// ErrGameOver is returned when a turn is requested after the game ended.
var ErrGameOver = errors.New("game is over")

// ErrNoAgent is returned when the current player has no agent.
var ErrNoAgent = errors.New("no agent for player")

// Engine drives turns for one game.
type Engine struct {
	Game *state.Game

	agents   map[string]Agent
	fallback Agent
	log      *zap.Logger
	phase    types.Phase
	result   *types.TurnResult
}

// New creates an engine. Agents are keyed by player ID; fallback, which may
// be nil, answers for any player without an entry.
func New(g *state.Game, agents map[string]Agent, fallback Agent) *Engine {
	if agents == nil {
		agents = map[string]Agent{}
	}
	return &Engine{Game: g, agents: agents, fallback: fallback, log: g.Log}
}

// Phase returns the phase currently executing, or the last one executed.
func (e *Engine) Phase() types.Phase {
	return e.phase
}

func (e *Engine) agentFor(p *state.Player) Agent {
	if a, ok := e.agents[p.ID]; ok {
		return a
	}
	return e.fallback
}

// PhaseName returns a display name for a phase.
func PhaseName(ph types.Phase) string {
	switch ph {
	case types.PhaseTurnStart:
		return "turn start"
	case types.PhaseMovement:
		return "movement"
	case types.PhaseAction:
		return "action"
	case types.PhaseAgenda:
		return "agenda"
	case types.PhaseTurnEnd:
		return "turn end"
	}
	return "unknown"
}

// PlayTurn runs the current player's turn from TurnStart through TurnEnd.
// A win short-circuits the remaining phases.
func (e *Engine) PlayTurn(ctx context.Context) (types.TurnResult, error) {
	g := e.Game
	if g.Over {
		return types.TurnResult{GameOver: true, Winner: winnerID(g)}, ErrGameOver
	}
	p := g.CurrentPlayer()
	if p == nil {
		return types.TurnResult{}, fmt.Errorf("play turn: %w", ErrNoAgent)
	}
	if e.agentFor(p) == nil {
		return types.TurnResult{}, fmt.Errorf("play turn for %s: %w", p.ID, ErrNoAgent)
	}

	res := types.TurnResult{Turn: g.Turn, PlayerID: p.ID}
	e.result = &res
	defer func() { e.result = nil }()

	steps := []struct {
		phase types.Phase
		run   func(context.Context, *state.Player) error
	}{
		{types.PhaseTurnStart, e.turnStart},
		{types.PhaseMovement, e.movement},
		{types.PhaseAction, e.action},
		{types.PhaseAgenda, e.agenda},
		{types.PhaseTurnEnd, e.turnEnd},
	}
	for _, s := range steps {
		e.phase = s.phase
		if err := ctx.Err(); err != nil {
			return e.finish(), fmt.Errorf("%s phase: %w", PhaseName(s.phase), err)
		}
		if err := s.run(ctx, p); err != nil {
			return e.finish(), fmt.Errorf("%s phase: %w", PhaseName(s.phase), err)
		}
		if g.Over {
			break
		}
	}
	return e.finish(), nil
}

func (e *Engine) finish() types.TurnResult {
	res := *e.result
	res.Output = append(res.Output, e.Game.TakeJournal()...)
	res.GameOver = e.Game.Over
	res.Winner = winnerID(e.Game)
	return res
}

// Run plays turns until someone wins, the turn limit is hit or an error
// occurs. onTurn, if non-nil, sees every turn result.
func (e *Engine) Run(ctx context.Context, onTurn func(types.TurnResult)) (*state.Player, error) {
	g := e.Game
	for !g.Over {
		if limit := g.Settings.MaxTurns; limit > 0 && g.Turn > limit {
			g.Over = true
			g.Log.Info("turn limit reached", zap.Int("limit", limit))
			g.Narrate("The night is over after %d turns. Nobody won the owners' trust.", limit)
			if onTurn != nil {
				onTurn(types.TurnResult{Turn: g.Turn, Output: g.TakeJournal(), GameOver: true})
			}
			break
		}
		res, err := e.PlayTurn(ctx)
		if onTurn != nil {
			onTurn(res)
		}
		if err != nil {
			return nil, err
		}
	}
	return g.Winner, nil
}

func (e *Engine) turnStart(_ context.Context, p *state.Player) error {
	p.StartTurn()
	e.Game.Narrate("--- Turn %d: %s ---", e.Game.Turn, p.ID)
	e.log.Debug("turn start", zap.Int("turn", e.Game.Turn), zap.String("player", p.ID))
	return nil
}

func (e *Engine) turnEnd(_ context.Context, p *state.Player) error {
	g := e.Game
	end := types.Event{Type: types.EventEndOfTurn, Data: map[string]any{"turn": g.Turn}}
	if p.Agenda != nil {
		for _, acc := range rules.Accumulating(p.Agenda.Conditions) {
			acc.IsMet(g, p, &end)
		}
	}
	e.dispatch(p, end)

	g.Current = (g.Current + 1) % len(g.Players)
	g.Turn++
	return nil
}

// dispatch records an event on the turn result and hands it to the armed
// effect tracker.
func (e *Engine) dispatch(p *state.Player, ev types.Event) {
	if e.result != nil {
		e.result.Events = append(e.result.Events, ev)
	}
	for _, f := range events.Dispatch(e.Game, p, ev) {
		e.record(f.Outcomes...)
	}
}

func (e *Engine) record(outs ...types.Outcome) {
	if e.result != nil {
		e.result.Outcomes = append(e.result.Outcomes, outs...)
	}
}

func winnerID(g *state.Game) string {
	if g.Winner == nil {
		return ""
	}
	return g.Winner.ID
}
