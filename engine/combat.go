package engine

import (
	"context"

	"go.uber.org/zap"

	"github.com/nathoo/alleycats/engine/rng"
	"github.com/nathoo/alleycats/engine/state"
	"github.com/nathoo/alleycats/types"
)

// maxFoodLoot caps the food a winner can take.
const maxFoodLoot = 2

// Fight outcomes, as carried by ParticipatedInFight events.
const (
	OutcomeWin  = "win"
	OutcomeLoss = "loss"
	OutcomeDraw = "draw"
)

// FightRoll computes a fight total: roll(1d6) + bonus. Returns (total, dieRoll).
func FightRoll(r *rng.RNG, bonus int) (total, roll int) {
	roll = r.Roll(6)
	return roll + bonus, roll
}

// opponentsOf returns the players sharing p's cell.
func (e *Engine) opponentsOf(p *state.Player) []*state.Player {
	var out []*state.Player
	for _, o := range e.Game.PlayersAt(p.Pos) {
		if o != p {
			out = append(out, o)
		}
	}
	return out
}

func (e *Engine) fight(ctx context.Context, p *state.Player, opponents []*state.Player) error {
	g := e.Game
	idx, err := e.agentFor(p).ChooseFightOpponent(ctx, g, p, opponents)
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(opponents) {
		g.Narrate("%s backs off.", p.ID)
		return nil
	}
	opp := opponents[idx]

	pTotal, pRoll := FightRoll(g.RNG, p.FightBonus())
	oTotal, oRoll := FightRoll(g.RNG, opp.FightBonus())
	g.Narrate("%s attacks %s! Roll: [%d]+%d = %d vs [%d]+%d = %d",
		p.ID, opp.ID, pRoll, pTotal-pRoll, pTotal, oRoll, oTotal-oRoll, oTotal)
	if cell, ok := g.CellOf(p); ok {
		p.RecordAction(state.ActionRecord{Action: state.ActionFight, Location: cell.Location(), Voluntary: true})
	}

	pOutcome, oOutcome := OutcomeDraw, OutcomeDraw
	var winner, loser *state.Player
	switch {
	case pTotal > oTotal:
		winner, loser = p, opp
		pOutcome, oOutcome = OutcomeWin, OutcomeLoss
	case oTotal > pTotal:
		winner, loser = opp, p
		pOutcome, oOutcome = OutcomeLoss, OutcomeWin
	default:
		g.Narrate("The fight is a draw.")
	}
	e.log.Debug("fight", zap.String("attacker", p.ID), zap.String("defender", opp.ID),
		zap.Int("attack", pTotal), zap.Int("defense", oTotal), zap.String("outcome", pOutcome))

	if winner != nil {
		g.Narrate("%s wins the fight.", winner.ID)
		if err := e.loot(ctx, winner, loser); err != nil {
			return err
		}
		e.intimidate(winner, loser)
	}

	e.dispatch(p, types.Event{
		Type: types.EventParticipatedInFight,
		Data: map[string]any{"opponent": opp.ID, "outcome": pOutcome},
	})
	e.dispatch(opp, types.Event{
		Type: types.EventParticipatedInFight,
		Data: map[string]any{"opponent": p.ID, "outcome": oOutcome},
	})
	return nil
}

// loot lets the winner take food or one random card from the loser.
func (e *Engine) loot(ctx context.Context, winner, loser *state.Player) error {
	g := e.Game
	agent := e.agentFor(winner)
	if agent == nil {
		agent = e.agentFor(g.CurrentPlayer())
	}
	choice, err := agent.ChooseLootType(ctx, g, winner, loser)
	if err != nil {
		return err
	}

	if choice == LootCard {
		if len(loser.Hand) == 0 {
			g.Narrate("%s has no cards to steal.", loser.ID)
			return nil
		}
		c := loser.Hand[g.RNG.Intn(len(loser.Hand))]
		loser.RemoveFromHand(c)
		winner.AddToHand(c)
		g.Narrate("%s steals a card from %s.", winner.ID, loser.ID)
		return nil
	}

	n := min(maxFoodLoot, loser.Food)
	if n == 0 {
		g.Narrate("%s has no food to take.", loser.ID)
		return nil
	}
	loser.LoseFood(n)
	winner.GainFood(n)
	g.Narrate("%s takes %d food from %s.", winner.ID, n, loser.ID)
	return nil
}

// intimidate applies the trust loss granted by the winner's titles.
func (e *Engine) intimidate(winner, loser *state.Player) {
	n := 0
	for _, t := range winner.Titles {
		n += t.Attribute(state.AttrFightTrustLoss)
	}
	if n <= 0 {
		return
	}
	owner, _ := loser.BestOwner()
	lost := loser.LoseTrust(owner, n)
	e.Game.Narrate("%s's reputation costs %s %d trust with the %s.", winner.ID, loser.ID, lost, owner)
}
