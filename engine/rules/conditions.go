// Package rules implements the condition engine: objective and branch
// predicates evaluated against a player and the game context.
package rules

import (
	"fmt"

	"github.com/nathoo/alleycats/engine/state"
	"github.com/nathoo/alleycats/types"
)

// OnAnyOwnerCell holds when the player stands on an owner cell.
type OnAnyOwnerCell struct{}

func (OnAnyOwnerCell) Type() string { return "PlayerIsOnAnyOwnerCellCondition" }

func (OnAnyOwnerCell) IsMet(g *state.Game, p *state.Player, _ *types.Event) bool {
	c, ok := g.CellOf(p)
	return ok && c.Kind == types.CellOwner
}

// SameCellAsTarget holds when the player shares a cell with the target:
// the named player, the event's target, or else any other player.
type SameCellAsTarget struct {
	Target string
}

func (SameCellAsTarget) Type() string { return "IsOnSameCellAsTargetCondition" }

func (c SameCellAsTarget) IsMet(g *state.Game, p *state.Player, ev *types.Event) bool {
	target := c.Target
	if target == "" && ev != nil {
		target, _ = ev.Data["target"].(string)
	}
	for _, o := range g.PlayersAt(p.Pos) {
		if o == p {
			continue
		}
		if target == "" || o.ID == target {
			return true
		}
	}
	return false
}

// UsedCardWithContext holds when the player has played the named card this
// game, optionally with a matching play-context value.
type UsedCardWithContext struct {
	CardTitle    string
	ContextKey   string
	ContextValue any
}

func (UsedCardWithContext) Type() string { return "UsedSpecificCardWithContextCondition" }

func (c UsedCardWithContext) IsMet(_ *state.Game, p *state.Player, _ *types.Event) bool {
	for _, u := range p.Usage {
		if u.Title != c.CardTitle {
			continue
		}
		if c.ContextKey == "" {
			return true
		}
		if v, ok := u.Context[c.ContextKey]; ok && fmt.Sprint(v) == fmt.Sprint(c.ContextValue) {
			return true
		}
	}
	return false
}

// PlayedCardWithEffectType holds when the player has successfully played a
// card carrying the given effect type this game.
type PlayedCardWithEffectType struct {
	EffectType string
}

func (PlayedCardWithEffectType) Type() string {
	return "SuccessfullyPlayedCardWithEffectTypeCondition"
}

func (c PlayedCardWithEffectType) IsMet(_ *state.Game, p *state.Player, _ *types.Event) bool {
	for _, u := range p.Usage {
		if !u.Success {
			continue
		}
		for _, t := range u.EffectTypes {
			if t == c.EffectType {
				return true
			}
		}
	}
	return false
}

// VoluntaryActionOnLocation holds when this turn's action log contains a
// voluntary action at the location. An empty Action matches any action.
type VoluntaryActionOnLocation struct {
	Action   string
	Location string
}

func (VoluntaryActionOnLocation) Type() string {
	return "PerformedVoluntaryActionOnLocationCondition"
}

func (c VoluntaryActionOnLocation) IsMet(_ *state.Game, p *state.Player, _ *types.Event) bool {
	for _, a := range p.Actions {
		if !a.Voluntary || a.Location != c.Location {
			continue
		}
		if c.Action == "" || a.Action == c.Action {
			return true
		}
	}
	return false
}

// EndedTurnWithStat counts consecutive turn ends where a player stat met a
// threshold. Each EndOfTurn event updates the streak; outside of that event
// it reports whether the streak reached Turns.
type EndedTurnWithStat struct {
	Stat       string // "food", "hand", "titles", "trust", "total_trust"
	Owner      string // for "trust"; empty means the best owner
	Comparison string // ">=" (default), "<=", "=="
	Threshold  int
	Turns      int

	streak int
}

func (*EndedTurnWithStat) Type() string { return "EndedTurnWithPlayerStatCondition" }

// Trigger names the event that feeds the accumulator.
func (*EndedTurnWithStat) Trigger() string { return types.EventEndOfTurn }

func (c *EndedTurnWithStat) IsMet(_ *state.Game, p *state.Player, ev *types.Event) bool {
	if ev != nil && ev.Type == types.EventEndOfTurn {
		if c.compare(c.value(p)) {
			c.streak++
		} else {
			c.streak = 0
		}
	}
	return c.streak >= c.required()
}

// Streak returns the current run of qualifying turn ends.
func (c *EndedTurnWithStat) Streak() int { return c.streak }

func (c *EndedTurnWithStat) required() int {
	if c.Turns < 1 {
		return 1
	}
	return c.Turns
}

func (c *EndedTurnWithStat) value(p *state.Player) int {
	switch c.Stat {
	case "food":
		return p.Food
	case "hand":
		return len(p.Hand)
	case "titles":
		return len(p.Titles)
	case "trust":
		if c.Owner != "" {
			return p.Trust[c.Owner]
		}
		_, v := p.BestOwner()
		return v
	case "total_trust":
		total := 0
		for _, v := range p.Trust {
			total += v
		}
		return total
	}
	return 0
}

func (c *EndedTurnWithStat) compare(v int) bool {
	switch c.Comparison {
	case "<=":
		return v <= c.Threshold
	case "==":
		return v == c.Threshold
	}
	return v >= c.Threshold
}

// FoodAtLeast holds when the player has at least Amount food.
type FoodAtLeast struct {
	Amount int
}

func (FoodAtLeast) Type() string { return "FoodAtLeast" }

func (c FoodAtLeast) IsMet(_ *state.Game, p *state.Player, _ *types.Event) bool {
	return p.Food >= c.Amount
}

// TrustAtLeast holds when the player's trust with Owner is at least Amount.
type TrustAtLeast struct {
	Owner  string
	Amount int
}

func (TrustAtLeast) Type() string { return "TrustAtLeast" }

func (c TrustAtLeast) IsMet(_ *state.Game, p *state.Player, _ *types.Event) bool {
	return p.Trust[c.Owner] >= c.Amount
}

// HasTitle holds when a title with this name is active.
type HasTitle struct {
	Title string
}

func (HasTitle) Type() string { return "HasTitle" }

func (c HasTitle) IsMet(_ *state.Game, p *state.Player, _ *types.Event) bool {
	return p.HasTitle(c.Title)
}

// VisitedOwnerAtLeast holds when the player has landed on the owner's cells
// at least Times this game.
type VisitedOwnerAtLeast struct {
	Owner string
	Times int
}

func (VisitedOwnerAtLeast) Type() string { return "VisitedOwnerAtLeast" }

func (c VisitedOwnerAtLeast) IsMet(_ *state.Game, p *state.Player, _ *types.Event) bool {
	return p.OwnerVisits[c.Owner] >= c.Times
}

// Not negates its inner condition.
type Not struct {
	Inner state.Condition
}

func (Not) Type() string { return "Not" }

func (c Not) IsMet(g *state.Game, p *state.Player, ev *types.Event) bool {
	return !c.Inner.IsMet(g, p, ev)
}

// Accumulator is a condition that carries state across turns and must be
// fed its trigger event every turn.
type Accumulator interface {
	state.Condition
	Trigger() string
}

// EvalAll returns true if all conditions hold (AND logic).
// An empty condition list is vacuously true.
func EvalAll(conds []state.Condition, g *state.Game, p *state.Player, ev *types.Event) bool {
	for _, c := range conds {
		if !c.IsMet(g, p, ev) {
			return false
		}
	}
	return true
}

// Accumulating returns the accumulators among conds, including ones wrapped in Not.
func Accumulating(conds []state.Condition) []Accumulator {
	var out []Accumulator
	for _, c := range conds {
		switch v := c.(type) {
		case Accumulator:
			out = append(out, v)
		case Not:
			out = append(out, Accumulating([]state.Condition{v.Inner})...)
		}
	}
	return out
}
