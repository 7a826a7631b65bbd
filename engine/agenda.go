package engine

import (
	"context"

	"go.uber.org/zap"

	"github.com/nathoo/alleycats/engine/effects"
	"github.com/nathoo/alleycats/engine/rules"
	"github.com/nathoo/alleycats/engine/state"
)

func (e *Engine) agenda(ctx context.Context, p *state.Player) error {
	if p.Agenda == nil {
		return nil
	}
	reveal, err := e.agentFor(p).ChooseRevealAgenda(ctx, e.Game, p)
	if err != nil {
		return err
	}
	if reveal {
		e.Reveal(p)
	}
	return nil
}

// Reveal attempts to reveal p's secret agenda. A failed attempt changes
// nothing. On success the rewards apply, the slot is cleared and the agenda
// is kept as a bonus source, boxed or consumed.
func (e *Engine) Reveal(p *state.Player) bool {
	g := e.Game
	a := p.Agenda
	if a == nil {
		return false
	}
	if !rules.EvalAll(a.Conditions, g, p, nil) {
		g.Narrate("%s tries to reveal %q, but the objective is not met.", p.ID, a.Title)
		e.log.Debug("agenda reveal failed", zap.String("player", p.ID), zap.String("agenda", a.Title))
		return false
	}

	g.Narrate("%s reveals %q: %s", p.ID, a.Title, a.Objective)
	e.record(effects.Reward(g, a, p)...)
	p.Agenda = nil

	switch {
	case a.Persistent && !a.DiscardAfterUse:
		p.Revealed = append(p.Revealed, a)
	case a.DiscardToBox:
		g.Agendas.ToBox(a)
	}
	e.log.Info("agenda revealed", zap.String("player", p.ID), zap.String("agenda", a.Title))
	g.CheckWin(p)
	return true
}
