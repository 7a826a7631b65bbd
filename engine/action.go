package engine

import (
	"context"

	"go.uber.org/zap"

	"github.com/nathoo/alleycats/engine/effects"
	"github.com/nathoo/alleycats/engine/state"
)

func (e *Engine) action(ctx context.Context, p *state.Player) error {
	g := e.Game
	opponents := e.opponentsOf(p)

	act, err := e.agentFor(p).ChooseAction(ctx, g, p, len(opponents) > 0)
	if err != nil {
		return err
	}
	switch act {
	case ActionPlayCard:
		if err := e.playCard(ctx, p); err != nil {
			return err
		}
	case ActionFight:
		if len(opponents) == 0 {
			g.Narrate("There is nobody here for %s to fight.", p.ID)
			return nil
		}
		if err := e.fight(ctx, p, opponents); err != nil {
			return err
		}
	default:
		g.Narrate("%s does nothing.", p.ID)
		return nil
	}
	g.CheckWin(p)
	return nil
}

// playCard asks for a card and, if needed, a target, then pays, logs,
// activates and routes it.
func (e *Engine) playCard(ctx context.Context, p *state.Player) error {
	g := e.Game
	agent := e.agentFor(p)
	if len(p.Hand) == 0 {
		g.Narrate("%s has no cards to play.", p.ID)
		return nil
	}

	idx, err := agent.ChooseCardIndex(ctx, g, p)
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(p.Hand) {
		g.Narrate("%s puts the cards away.", p.ID)
		return nil
	}
	card := p.Hand[idx]

	var targets []*state.Player
	if card.TargetNeeded {
		candidates := g.Others(p)
		if len(candidates) == 0 {
			g.Narrate("%q needs a target, but there is nobody to pick.", card.Title)
			return nil
		}
		ti, err := agent.ChooseTargetPlayer(ctx, g, p, card, candidates)
		if err != nil {
			return err
		}
		if ti < 0 || ti >= len(candidates) {
			g.Narrate("%s changes their mind about %q.", p.ID, card.Title)
			return nil
		}
		targets = []*state.Player{candidates[ti]}
	}

	if cost := card.FoodCost(); cost > 0 {
		if !p.LoseFood(cost) {
			g.Narrate("%s cannot afford %q (%d food).", p.ID, card.Title, cost)
			return nil
		}
		g.Narrate("%s pays %d food.", p.ID, cost)
	}
	p.RemoveFromHand(card)

	playCtx := effects.CaptureContext(g, p)
	if len(targets) > 0 {
		playCtx["target"] = targets[0].ID
	}
	p.RecordUsage(state.UsageRecord{
		CardID:      card.ID,
		Title:       card.Title,
		Turn:        g.Turn,
		Context:     playCtx,
		EffectTypes: card.EffectTypes(),
	})
	usage := len(p.Usage) - 1
	if loc, ok := playCtx["played_on_location"].(string); ok {
		p.RecordAction(state.ActionRecord{Action: state.ActionPlayedCard, Location: loc, Voluntary: true})
	}

	g.Narrate("%s plays %q.", p.ID, card.Title)
	outs := effects.Activate(g, card, p, targets)
	p.Usage[usage].Success = effects.Succeeded(outs)
	e.record(outs...)
	e.log.Debug("card played", zap.String("player", p.ID), zap.String("card", card.Title),
		zap.Bool("success", p.Usage[usage].Success))

	e.routeCard(p, card)
	return nil
}

// routeCard decides where a played card goes. Armed cards wait for their
// trigger; titles and persistent effects stay while attached.
func (e *Engine) routeCard(p *state.Player, c *state.Card) {
	switch {
	case p.IsArmed(c):
	case c.DiscardCondition == state.DiscardImmediate:
		e.Game.Discard(c)
	case c.HasFlag(state.FlagTitle) || c.HasFlag(state.FlagPersistent):
		if !attached(p, c) {
			e.Game.Discard(c)
		}
	default:
		e.Game.Discard(c)
	}
}

func attached(p *state.Player, c *state.Card) bool {
	for _, list := range [][]*state.Card{p.Titles, p.Persistent} {
		for _, x := range list {
			if x.ID == c.ID {
				return true
			}
		}
	}
	return false
}
