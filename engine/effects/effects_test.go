package effects

import (
	"testing"

	"github.com/nathoo/alleycats/engine/rng"
	"github.com/nathoo/alleycats/engine/rules"
	"github.com/nathoo/alleycats/engine/state"
	"github.com/nathoo/alleycats/types"
)

// testSetup returns a game with a Cook cell at (0,0) and a kiosk at (0,1),
// a small deck, and tom standing on the Cook cell with 5 food.
func testSetup() (*state.Game, *state.Player) {
	board := state.NewBoard([][]string{{"C", "K", ""}}, nil)
	r := rng.New(42)
	var cards []*state.Card
	for i := 0; i < 4; i++ {
		cards = append(cards, state.NewCard(&state.CardTemplate{Title: "filler"}))
	}
	g := state.NewGame(board, state.NewDeck(cards, r), nil, r, nil, state.DefaultSettings())
	tom := state.NewPlayer("tom", 5)
	g.Players = []*state.Player{tom}
	return g, tom
}

func TestLoseFood_InsufficientLeavesFood(t *testing.T) {
	g, tom := testSetup()

	o := LoseFood{Amount: 7}.Execute(g, nil, tom, nil)
	if o.Status != types.Failed {
		t.Errorf("LoseFood(7) status = %v, want Failed", o.Status)
	}
	if tom.Food != 5 {
		t.Errorf("food = %d, want 5", tom.Food)
	}

	o = GainFood{Amount: 3}.Execute(g, nil, tom, nil)
	if o.Status != types.Applied || tom.Food != 8 {
		t.Errorf("GainFood(3) status=%v food=%d, want Applied/8", o.Status, tom.Food)
	}
}

func TestFood_NonPositiveAmountSkipped(t *testing.T) {
	tests := []struct {
		name string
		eff  state.Effect
	}{
		{"lose zero", LoseFood{Amount: 0}},
		{"lose negative", LoseFood{Amount: -3}},
		{"gain zero", GainFood{Amount: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, tom := testSetup()
			o := tt.eff.Execute(g, nil, tom, nil)
			if o.Status != types.Skipped {
				t.Errorf("status = %v, want Skipped", o.Status)
			}
			if tom.Food != 5 {
				t.Errorf("food = %d, want 5", tom.Food)
			}
		})
	}
}

func TestLoseFood_OnTargetAllOrNothing(t *testing.T) {
	g, tom := testSetup()
	rich, poor := state.NewPlayer("rich", 4), state.NewPlayer("poor", 1)
	g.Players = append(g.Players, rich, poor)

	o := LoseFood{Amount: 2, OnTarget: true}.Execute(g, nil, tom, []*state.Player{rich, poor})
	if o.Status != types.Failed {
		t.Fatalf("status = %v, want Failed", o.Status)
	}
	if rich.Food != 4 || poor.Food != 1 {
		t.Errorf("food changed: rich=%d poor=%d", rich.Food, poor.Food)
	}
}

func TestConditional_RunsExactlyOneBranch(t *testing.T) {
	tests := []struct {
		name      string
		food      int
		wantFood  int
		wantTrust int
	}{
		{"else branch", 3, 4, 0},
		{"then branch", 5, 5, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, tom := testSetup()
			tom.Food = tt.food
			e := Conditional{
				Condition: rules.FoodAtLeast{Amount: 5},
				Then:      []state.Effect{GainTrust{Owner: types.OwnerCook, Amount: 1}},
				Else:      []state.Effect{GainFood{Amount: 1}},
			}
			if o := e.Execute(g, nil, tom, nil); o.Status != types.Applied {
				t.Fatalf("status = %v (%s), want Applied", o.Status, o.Reason)
			}
			if tom.Food != tt.wantFood {
				t.Errorf("food = %d, want %d", tom.Food, tt.wantFood)
			}
			if tom.Trust[types.OwnerCook] != tt.wantTrust {
				t.Errorf("Cook trust = %d, want %d", tom.Trust[types.OwnerCook], tt.wantTrust)
			}
		})
	}
}

func TestGainTrust_FromCell(t *testing.T) {
	g, tom := testSetup()

	o := GainTrust{Amount: 1, FromCell: true}.Execute(g, nil, tom, nil)
	if o.Status != types.Applied || tom.Trust[types.OwnerCook] != 1 {
		t.Errorf("status=%v trust=%d, want Applied/1", o.Status, tom.Trust[types.OwnerCook])
	}

	tom.Pos = state.Position{Row: 0, Col: 1}
	o = GainTrust{Amount: 1, FromCell: true}.Execute(g, nil, tom, nil)
	if o.Status != types.Skipped {
		t.Errorf("on a kiosk status = %v, want Skipped", o.Status)
	}
}

func TestGainTrust_WinsImmediately(t *testing.T) {
	g, tom := testSetup()
	tom.Trust[types.OwnerStudent] = 9

	GainTrust{Owner: types.OwnerStudent, Amount: 1}.Execute(g, nil, tom, nil)
	if !g.Over || g.Winner != tom {
		t.Error("expected game over with tom as winner")
	}
}

func TestApplyTitle_Idempotent(t *testing.T) {
	g, tom := testSetup()
	card := state.NewCard(&state.CardTemplate{Title: "Yard Terror"})

	if o := (ApplyTitle{}).Execute(g, card, tom, nil); o.Status != types.Applied {
		t.Fatalf("first apply = %v", o.Status)
	}
	if o := (ApplyTitle{}).Execute(g, card, tom, nil); o.Status != types.Skipped {
		t.Errorf("second apply = %v, want Skipped", o.Status)
	}
	if len(tom.Titles) != 1 {
		t.Errorf("titles = %d, want 1", len(tom.Titles))
	}
	if pending := g.TakePending(); len(pending) != 1 || pending[0].Event.Type != types.EventTitleGained {
		t.Errorf("pending = %v, want one TitleGained event", pending)
	}
}

func TestDrawCards_EmptyDeckSkips(t *testing.T) {
	g, tom := testSetup()

	if o := (DrawCards{Count: 2}).Execute(g, nil, tom, nil); o.Status != types.Applied || len(tom.Hand) != 2 {
		t.Fatalf("draw 2: status=%v hand=%d", o.Status, len(tom.Hand))
	}
	(DrawCards{Count: 2}).Execute(g, nil, tom, nil)
	if o := (DrawCards{Count: 1}).Execute(g, nil, tom, nil); o.Status != types.Skipped {
		t.Errorf("draw from empty deck = %v, want Skipped", o.Status)
	}
}

func TestArmDelayed_CapturesOwnerAndRejectsDuplicate(t *testing.T) {
	g, tom := testSetup()
	card := state.NewCard(&state.CardTemplate{Title: "Postman"})
	e := ArmDelayed{Trigger: types.Descriptor{Type: types.EventVisitedDifferentOwnerCell}}

	if o := e.Execute(g, card, tom, nil); o.Status != types.Applied {
		t.Fatalf("arm = %v", o.Status)
	}
	if got := tom.Armed[0].Context["played_on_owner_name"]; got != types.OwnerCook {
		t.Errorf("captured owner = %v, want Cook", got)
	}
	if o := e.Execute(g, card, tom, nil); o.Status != types.Skipped {
		t.Errorf("re-arm = %v, want Skipped", o.Status)
	}
}

type panicky struct{}

func (panicky) Type() string { return "Panicky" }

func (panicky) Execute(*state.Game, *state.Card, *state.Player, []*state.Player) types.Outcome {
	panic("boom")
}

func TestActivate_ContinuesPastFailures(t *testing.T) {
	g, tom := testSetup()
	card := state.NewCard(&state.CardTemplate{
		Title:   "Mixed",
		Effects: []state.Effect{LoseFood{Amount: 99}, panicky{}, GainFood{Amount: 2}},
	})

	out := Activate(g, card, tom, nil)
	if len(out) != 3 {
		t.Fatalf("outcomes = %d, want 3", len(out))
	}
	if out[0].Status != types.Failed || out[1].Status != types.Failed || out[2].Status != types.Applied {
		t.Errorf("statuses = %v %v %v", out[0].Status, out[1].Status, out[2].Status)
	}
	if tom.Food != 7 {
		t.Errorf("food = %d, want 7", tom.Food)
	}
	if !Succeeded(out) {
		t.Error("Succeeded() = false, want true")
	}
}

func TestActivate_StopsAtWin(t *testing.T) {
	g, tom := testSetup()
	tom.Trust[types.OwnerCook] = 9
	card := state.NewCard(&state.CardTemplate{
		Title: "Big Break",
		Effects: []state.Effect{
			GainTrust{Owner: types.OwnerCook, Amount: 1},
			GainFood{Amount: 2},
		},
	})

	out := Activate(g, card, tom, nil)
	if !g.Over || g.Winner != tom {
		t.Fatalf("Over=%v Winner=%v, want tom to win", g.Over, g.Winner)
	}
	if len(out) != 2 || out[1].Status != types.Skipped {
		t.Errorf("outcomes = %+v, want the effect after the win skipped", out)
	}
	if tom.Food != 5 {
		t.Errorf("food = %d, want 5", tom.Food)
	}
}

func TestBuild(t *testing.T) {
	tests := []struct {
		name    string
		desc    types.Descriptor
		want    string
		wantErr bool
	}{
		{"gain food", types.Descriptor{Type: "GainFood", Params: map[string]any{"amount": 2.0}}, "GainFood", false},
		{"trust from context", types.Descriptor{Type: "GainTrust", Params: map[string]any{"owner_name_from_context": true}}, "GainTrust", false},
		{"trust without owner", types.Descriptor{Type: "GainTrust"}, "", true},
		{"title", types.Descriptor{Type: "ApplyTitleEffect"}, "ApplyTitleEffect", false},
		{"arm", types.Descriptor{Type: "ArmDelayedEffect", Params: map[string]any{
			"trigger_condition": map[string]any{"type": "ParticipatedInFight"},
			"triggered_effects": []any{map[string]any{"type": "GainFood", "params": map[string]any{"amount": 1}}},
		}}, "ArmDelayedEffect", false},
		{"arm without trigger", types.Descriptor{Type: "ArmDelayedEffect"}, "", true},
		{"conditional", types.Descriptor{Type: "ConditionalEffect", Params: map[string]any{
			"condition": map[string]any{"type": "FoodAtLeast", "params": map[string]any{"amount": 3}},
		}}, "ConditionalEffect", false},
		{"conditional on a streak", types.Descriptor{Type: "ConditionalEffect", Params: map[string]any{
			"condition": map[string]any{"type": "EndedTurnWithPlayerStatCondition", "params": map[string]any{"stat": "food", "turns": 2}},
		}}, "", true},
		{"conditional on a negated streak", types.Descriptor{Type: "ConditionalEffect", Params: map[string]any{
			"condition": map[string]any{"type": "Not", "params": map[string]any{
				"condition": map[string]any{"type": "EndedTurnWithPlayerStatCondition", "params": map[string]any{"stat": "food"}},
			}},
		}}, "", true},
		{"cell bonus", types.Descriptor{Type: "AddPersistentCellVisitBonusEffect", Params: map[string]any{
			"owner_name_trigger": "Cook",
			"bonus_effect":       map[string]any{"type": "GainFood", "params": map[string]any{"amount": 1}},
		}}, "AddPersistentCellVisitBonusEffect", false},
		{"food source bonus", types.Descriptor{Type: "AddPersistentFoodSourceBonusEffect", Params: map[string]any{
			"source_trigger":    map[string]any{"type": "GainedFoodFromOwnerCell", "owner_name": "Cook"},
			"bonus_food_amount": 1,
		}}, "AddPersistentFoodSourceBonusEffect", false},
		{"unknown", types.Descriptor{Type: "Teleport"}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := Build(tt.desc, nil)
			if tt.wantErr {
				if _, ok := err.(*UnresolvedError); !ok {
					t.Fatalf("Build() error = %v, want *UnresolvedError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Build() error = %v", err)
			}
			if e.Type() != tt.want {
				t.Errorf("Type() = %q, want %q", e.Type(), tt.want)
			}
		})
	}
}

func TestBuild_ConditionalDropsUnknownNested(t *testing.T) {
	e, err := Build(types.Descriptor{Type: "ConditionalEffect", Params: map[string]any{
		"condition":    map[string]any{"type": "FoodAtLeast", "params": map[string]any{"amount": 5}},
		"then_effects": []any{map[string]any{"type": "Nope"}, map[string]any{"type": "GainFood", "params": map[string]any{"amount": 1}}},
	}}, nil)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	c := e.(Conditional)
	if len(c.Then) != 1 || len(c.Else) != 0 {
		t.Errorf("then=%d else=%d, want 1/0", len(c.Then), len(c.Else))
	}
}

func TestBuild_DepthGuard(t *testing.T) {
	leaf := map[string]any{"type": "GainFood", "params": map[string]any{"amount": 1}}
	node := leaf
	for i := 0; i < MaxDepth+2; i++ {
		node = map[string]any{"type": "ConditionalEffect", "params": map[string]any{
			"condition":    map[string]any{"type": "FoodAtLeast"},
			"then_effects": []any{node},
		}}
	}
	d, _ := rules.AsDescriptor(node)
	e, err := Build(d, nil)
	if err != nil {
		t.Fatalf("outer conditional should build, got %v", err)
	}
	// Walk down until the branch that exceeded the limit was dropped.
	depth := 0
	for {
		c, ok := e.(Conditional)
		if !ok || len(c.Then) == 0 {
			break
		}
		e = c.Then[0]
		depth++
	}
	if depth > MaxDepth {
		t.Errorf("nesting depth = %d, want at most %d", depth, MaxDepth)
	}
}
