package engine

import (
	"context"
	"testing"

	"github.com/nathoo/alleycats/engine/rng"
	"github.com/nathoo/alleycats/engine/state"
)

// ScriptedAgent is an Agent that follows a predefined script of answers.
// Each decision kind has its own queue; an exhausted queue falls back to a
// passive default (stay, skip, cancel, food, keep secret).
type ScriptedAgent struct {
	t    *testing.T
	name string

	moves   []Destination
	rerolls []bool
	actions []Action
	cards   []int
	targets []int
	fights  []int
	loots   []Loot
	reveals []bool

	calls map[string]int
}

func NewScriptedAgent(t *testing.T, name string) *ScriptedAgent {
	return &ScriptedAgent{t: t, name: name, calls: map[string]int{}}
}

func (sa *ScriptedAgent) AddMove(row, col int) *ScriptedAgent {
	sa.moves = append(sa.moves, Destination{Pos: state.Position{Row: row, Col: col}})
	return sa
}

func (sa *ScriptedAgent) AddStay() *ScriptedAgent {
	sa.moves = append(sa.moves, Destination{Stay: true})
	return sa
}

func (sa *ScriptedAgent) AddReroll(answer bool) *ScriptedAgent {
	sa.rerolls = append(sa.rerolls, answer)
	return sa
}

func (sa *ScriptedAgent) AddPlay(cardIndex int) *ScriptedAgent {
	sa.actions = append(sa.actions, ActionPlayCard)
	sa.cards = append(sa.cards, cardIndex)
	return sa
}

func (sa *ScriptedAgent) AddTarget(index int) *ScriptedAgent {
	sa.targets = append(sa.targets, index)
	return sa
}

func (sa *ScriptedAgent) AddFight(opponent int, loot Loot) *ScriptedAgent {
	sa.actions = append(sa.actions, ActionFight)
	sa.fights = append(sa.fights, opponent)
	sa.loots = append(sa.loots, loot)
	return sa
}

func (sa *ScriptedAgent) AddSkip() *ScriptedAgent {
	sa.actions = append(sa.actions, ActionSkip)
	return sa
}

func (sa *ScriptedAgent) AddReveal(answer bool) *ScriptedAgent {
	sa.reveals = append(sa.reveals, answer)
	return sa
}

// Calls returns how many times a decision method was invoked.
func (sa *ScriptedAgent) Calls(method string) int {
	return sa.calls[method]
}

func pop[T any](q *[]T, def T) T {
	if len(*q) == 0 {
		return def
	}
	v := (*q)[0]
	*q = (*q)[1:]
	return v
}

func (sa *ScriptedAgent) ChooseMovementDestination(ctx context.Context, _ *state.Game, _ *state.Player, _ int) (Destination, error) {
	sa.calls["move"]++
	if err := ctx.Err(); err != nil {
		return Destination{}, err
	}
	return pop(&sa.moves, Destination{Stay: true}), nil
}

func (sa *ScriptedAgent) ChooseToReroll(_ context.Context, _ *state.Game, _ *state.Player, _ int) (bool, error) {
	sa.calls["reroll"]++
	return pop(&sa.rerolls, false), nil
}

func (sa *ScriptedAgent) ChooseAction(_ context.Context, _ *state.Game, _ *state.Player, _ bool) (Action, error) {
	sa.calls["action"]++
	return pop(&sa.actions, ActionSkip), nil
}

func (sa *ScriptedAgent) ChooseCardIndex(_ context.Context, _ *state.Game, _ *state.Player) (int, error) {
	sa.calls["card"]++
	return pop(&sa.cards, -1), nil
}

func (sa *ScriptedAgent) ChooseTargetPlayer(_ context.Context, _ *state.Game, _ *state.Player, _ *state.Card, _ []*state.Player) (int, error) {
	sa.calls["target"]++
	return pop(&sa.targets, -1), nil
}

func (sa *ScriptedAgent) ChooseFightOpponent(_ context.Context, _ *state.Game, _ *state.Player, _ []*state.Player) (int, error) {
	sa.calls["fight"]++
	return pop(&sa.fights, -1), nil
}

func (sa *ScriptedAgent) ChooseLootType(_ context.Context, _ *state.Game, _, _ *state.Player) (Loot, error) {
	sa.calls["loot"]++
	return pop(&sa.loots, LootFood), nil
}

func (sa *ScriptedAgent) ChooseRevealAgenda(_ context.Context, _ *state.Game, _ *state.Player) (bool, error) {
	sa.calls["reveal"]++
	return pop(&sa.reveals, false), nil
}

// testBoard:
//
//	row 0:  plain  Cook     Librarian
//	row 1:  kiosk  Student  wall
//	row 2:  basem. plain    plain
func testBoard() *state.Board {
	return state.NewBoard([][]string{
		{"", "C", "L"},
		{"K", "S", "."},
		{"B", "", ""},
	}, nil)
}

// testGame seats tom at (0,0) and felix at (2,2) with 5 food each and an
// eight-card filler deck.
func testGame(t *testing.T) (*state.Game, *state.Player, *state.Player) {
	t.Helper()
	r := rng.New(7)
	var cards []*state.Card
	for i := 0; i < 8; i++ {
		cards = append(cards, state.NewCard(&state.CardTemplate{Title: "Filler", DiscardCondition: state.DiscardImmediate}))
	}
	g := state.NewGame(testBoard(), state.NewDeck(cards, r), nil, r, nil, state.DefaultSettings())
	tom := state.NewPlayer("tom", 5)
	felix := state.NewPlayer("felix", 5)
	felix.Pos = state.Position{Row: 2, Col: 2}
	g.Players = []*state.Player{tom, felix}
	return g, tom, felix
}

func testEngine(t *testing.T) (*Engine, *ScriptedAgent, *ScriptedAgent) {
	t.Helper()
	g, _, _ := testGame(t)
	tomAgent := NewScriptedAgent(t, "tom")
	felixAgent := NewScriptedAgent(t, "felix")
	e := New(g, map[string]Agent{"tom": tomAgent, "felix": felixAgent}, nil)
	return e, tomAgent, felixAgent
}
