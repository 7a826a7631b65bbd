package engine

import (
	"context"

	"github.com/nathoo/alleycats/engine/state"
)

// Action is the choice made in the action phase.
type Action int

const (
	ActionSkip Action = iota
	ActionPlayCard
	ActionFight
)

func (a Action) String() string {
	switch a {
	case ActionPlayCard:
		return "play"
	case ActionFight:
		return "fight"
	}
	return "skip"
}

// Loot is what a fight winner takes from the loser.
type Loot int

const (
	LootFood Loot = iota
	LootCard
)

func (l Loot) String() string {
	if l == LootCard {
		return "card"
	}
	return "food"
}

// Destination is the answer to a movement prompt. Stay skips the move.
type Destination struct {
	Pos  state.Position
	Stay bool
}

// Agent makes every decision the turn controller needs from a player.
// Index answers outside the offered range (conventionally -1) cancel the
// choice. A non-nil error aborts the turn.
type Agent interface {
	ChooseMovementDestination(ctx context.Context, g *state.Game, p *state.Player, steps int) (Destination, error)
	ChooseToReroll(ctx context.Context, g *state.Game, p *state.Player, steps int) (bool, error)
	ChooseAction(ctx context.Context, g *state.Game, p *state.Player, canFight bool) (Action, error)
	ChooseCardIndex(ctx context.Context, g *state.Game, p *state.Player) (int, error)
	ChooseTargetPlayer(ctx context.Context, g *state.Game, p *state.Player, card *state.Card, candidates []*state.Player) (int, error)
	ChooseFightOpponent(ctx context.Context, g *state.Game, p *state.Player, opponents []*state.Player) (int, error)
	ChooseLootType(ctx context.Context, g *state.Game, winner, loser *state.Player) (Loot, error)
	ChooseRevealAgenda(ctx context.Context, g *state.Game, p *state.Player) (bool, error)
}
