package view

import (
	"strings"
	"testing"

	"github.com/nathoo/alleycats/engine/rng"
	"github.com/nathoo/alleycats/engine/state"
	"github.com/nathoo/alleycats/types"
)

func testGame(t *testing.T) (*state.Game, *state.Player, *state.Player) {
	t.Helper()
	board := state.NewBoard([][]string{
		{"", "C", "."},
		{"K", "", "L"},
	}, nil)
	g := state.NewGame(board, state.NewDeck(nil, rng.New(1)), nil, rng.New(1), nil, state.DefaultSettings())
	tom := state.NewPlayer("tom", 5)
	felix := state.NewPlayer("felix", 3)
	tom.Pos = state.Position{Row: 0, Col: 0}
	felix.Pos = state.Position{Row: 1, Col: 2}
	g.Players = []*state.Player{tom, felix}
	return g, tom, felix
}

func TestBoardRows(t *testing.T) {
	g, _, _ := testGame(t)
	rows := BoardRows(g, []state.Position{{Row: 1, Col: 1}})

	want := []string{
		"   0 1 2",
		" 0 T C #",
		" 1 K * F",
	}
	if len(rows) != len(want) {
		t.Fatalf("rows = %q", rows)
	}
	for i := range want {
		if rows[i] != want[i] {
			t.Errorf("row %d = %q, want %q", i, rows[i], want[i])
		}
	}
}

func TestStatus(t *testing.T) {
	_, tom, _ := testGame(t)
	tom.Trust[types.OwnerCook] = 2
	tom.Titles = []*state.Card{state.NewCard(&state.CardTemplate{Title: "Yard Terror"})}
	tom.Rerolls = 1

	got := Status(tom)
	for _, want := range []string{"tom at 0,0", "food 5", "Cook 2", "titles: Yard Terror", "re-rolls 1"} {
		if !strings.Contains(got, want) {
			t.Errorf("Status() = %q, missing %q", got, want)
		}
	}
	if strings.Contains(got, "in play") {
		t.Errorf("Status() = %q, shows empty persistent list", got)
	}
}

func TestHand(t *testing.T) {
	_, tom, _ := testGame(t)
	if got := Hand(tom); len(got) != 1 || got[0] != "(no cards)" {
		t.Errorf("empty Hand() = %q", got)
	}
	tom.Hand = []*state.Card{
		state.NewCard(&state.CardTemplate{Title: "Fish Bones", Description: "Gain 2 food."}),
		state.NewCard(&state.CardTemplate{Title: "Hiss", Cost: map[string]int{"food": 1}, TargetNeeded: true}),
	}
	got := Hand(tom)
	if got[0] != "1. Fish Bones: Gain 2 food." {
		t.Errorf("Hand()[0] = %q", got[0])
	}
	if got[1] != "2. Hiss (1 food) [target]" {
		t.Errorf("Hand()[1] = %q", got[1])
	}
}

func TestAgenda(t *testing.T) {
	if got := Agenda(nil); got != "No secret agenda." {
		t.Errorf("Agenda(nil) = %q", got)
	}
	a := &state.AgendaCard{Title: "Regular Visitor", Objective: "Stand on an owner cell.", Reward: "Gain 3 food."}
	want := `Agenda "Regular Visitor": Stand on an owner cell. Reward: Gain 3 food.`
	if got := Agenda(a); got != want {
		t.Errorf("Agenda() = %q, want %q", got, want)
	}
}

func TestTrace(t *testing.T) {
	res := types.TurnResult{
		Events:   []types.Event{{Type: types.EventEndOfTurn}},
		Outcomes: []types.Outcome{{Status: types.Failed, Effect: "LoseFood", Reason: "not enough food"}},
	}
	got := Trace(res)
	if len(got) != 2 || !strings.Contains(got[0], "EndOfTurn") || got[1] != "[trace] LoseFood failed: not enough food" {
		t.Errorf("Trace() = %q", got)
	}
}
