// Package effects implements the effect engine: built, immutable effect
// nodes that mutate the game context when a card or agenda activates.
// Every execution reports a typed outcome.
package effects

import (
	"go.uber.org/zap"

	"github.com/nathoo/alleycats/engine/state"
	"github.com/nathoo/alleycats/types"
)

// GainFood gives food to the player, or to each target when OnTarget is set.
type GainFood struct {
	Amount   int
	OnTarget bool
}

func (GainFood) Type() string { return "GainFood" }

func (e GainFood) Execute(g *state.Game, _ *state.Card, p *state.Player, targets []*state.Player) types.Outcome {
	if e.Amount <= 0 {
		return skipped(e, "nothing to gain")
	}
	subjects := subjectsOf(p, targets, e.OnTarget)
	if len(subjects) == 0 {
		return skipped(e, "no target")
	}
	for _, s := range subjects {
		s.GainFood(e.Amount)
		g.Narrate("%s gains %d food (now %d).", s.ID, e.Amount, s.Food)
	}
	return applied(e)
}

// LoseFood takes food away. It fails without changing anything when a
// subject cannot pay.
type LoseFood struct {
	Amount   int
	OnTarget bool
}

func (LoseFood) Type() string { return "LoseFood" }

func (e LoseFood) Execute(g *state.Game, _ *state.Card, p *state.Player, targets []*state.Player) types.Outcome {
	if e.Amount <= 0 {
		return skipped(e, "nothing to lose")
	}
	subjects := subjectsOf(p, targets, e.OnTarget)
	if len(subjects) == 0 {
		return skipped(e, "no target")
	}
	for _, s := range subjects {
		if s.Food < e.Amount {
			return failed(e, "insufficient food")
		}
	}
	for _, s := range subjects {
		s.LoseFood(e.Amount)
		g.Narrate("%s loses %d food (now %d).", s.ID, e.Amount, s.Food)
	}
	return applied(e)
}

// GainTrust raises trust with an owner. With FromCell set and no Owner, the
// owner of the cell the player stands on is used.
type GainTrust struct {
	Owner    string
	Amount   int
	FromCell bool
}

func (GainTrust) Type() string { return "GainTrust" }

func (e GainTrust) Execute(g *state.Game, _ *state.Card, p *state.Player, _ []*state.Player) types.Outcome {
	owner := e.Owner
	if owner == "" && e.FromCell {
		if c, ok := g.CellOf(p); ok && c.Kind == types.CellOwner {
			owner = c.Owner
		}
	}
	if owner == "" {
		return skipped(e, "no owner to gain trust with")
	}
	if !p.CanGainTrust() {
		g.Narrate("%s cannot gain trust right now.", p.ID)
		return skipped(e, "trust gain blocked")
	}
	if !g.GainTrust(p, owner, e.Amount) {
		return skipped(e, "nothing to gain")
	}
	g.Narrate("%s gains %d trust with the %s (now %d).", p.ID, e.Amount, owner, p.Trust[owner])
	return applied(e)
}

// LoseTrust lowers trust with an owner, floored at zero.
type LoseTrust struct {
	Owner    string
	Amount   int
	OnTarget bool
}

func (LoseTrust) Type() string { return "LoseTrust" }

func (e LoseTrust) Execute(g *state.Game, _ *state.Card, p *state.Player, targets []*state.Player) types.Outcome {
	subjects := subjectsOf(p, targets, e.OnTarget)
	if len(subjects) == 0 {
		return skipped(e, "no target")
	}
	for _, s := range subjects {
		lost := s.LoseTrust(e.Owner, e.Amount)
		g.Narrate("%s loses %d trust with the %s (now %d).", s.ID, lost, e.Owner, s.Trust[e.Owner])
	}
	return applied(e)
}

// DrawCards draws from the shared deck into the player's hand.
type DrawCards struct {
	Count int
}

func (DrawCards) Type() string { return "DrawCards" }

func (e DrawCards) Execute(g *state.Game, _ *state.Card, p *state.Player, _ []*state.Player) types.Outcome {
	n := g.DrawCards(p, e.Count)
	if n == 0 {
		return skipped(e, "deck is empty")
	}
	g.Narrate("%s draws %d card(s).", p.ID, n)
	return applied(e)
}

// ApplyTitle attaches the source card to the player's active titles.
type ApplyTitle struct{}

func (ApplyTitle) Type() string { return "ApplyTitleEffect" }

func (e ApplyTitle) Execute(g *state.Game, src *state.Card, p *state.Player, _ []*state.Player) types.Outcome {
	if src == nil {
		return failed(e, "no source card")
	}
	if !p.AddTitle(src) {
		return skipped(e, "title already active")
	}
	g.Narrate("%s now holds the title %q.", p.ID, src.Title)
	g.Emit(p, types.Event{Type: types.EventTitleGained, Data: map[string]any{"title": src.Title}})
	return applied(e)
}

// ApplyPersistent attaches the source card to the player's persistent effects.
type ApplyPersistent struct{}

func (ApplyPersistent) Type() string { return "ApplyPersistentEffectCard" }

func (e ApplyPersistent) Execute(g *state.Game, src *state.Card, p *state.Player, _ []*state.Player) types.Outcome {
	if src == nil {
		return failed(e, "no source card")
	}
	if !p.AddPersistent(src) {
		return skipped(e, "effect already active")
	}
	g.Narrate("%s is now under %q.", p.ID, src.Title)
	return applied(e)
}

// GrantTemporaryBonus adds an attribute bonus until the player's next turn.
type GrantTemporaryBonus struct {
	Attribute string
	Amount    int
}

func (GrantTemporaryBonus) Type() string { return "GrantTemporaryBonusEffect" }

func (e GrantTemporaryBonus) Execute(g *state.Game, src *state.Card, p *state.Player, _ []*state.Player) types.Outcome {
	source := ""
	if src != nil {
		source = src.Title
	}
	p.AddBonus(state.TemporaryBonus{Attribute: e.Attribute, Amount: e.Amount, Source: source})
	g.Narrate("%s gets %+d %s this turn.", p.ID, e.Amount, e.Attribute)
	return applied(e)
}

// GrantReroll gives movement re-roll charges.
type GrantReroll struct {
	Count int
}

func (GrantReroll) Type() string { return "GrantRerollEffect" }

func (e GrantReroll) Execute(g *state.Game, _ *state.Card, p *state.Player, _ []*state.Player) types.Outcome {
	if e.Count <= 0 {
		return skipped(e, "no charges")
	}
	p.Rerolls += e.Count
	g.Narrate("%s may re-roll movement %d more time(s).", p.ID, e.Count)
	return applied(e)
}

// Conditional runs Then when the condition holds and Else otherwise. Both
// branches are built ahead of time.
type Conditional struct {
	Condition state.Condition
	Then      []state.Effect
	Else      []state.Effect
}

func (Conditional) Type() string { return "ConditionalEffect" }

func (e Conditional) Execute(g *state.Game, src *state.Card, p *state.Player, targets []*state.Player) types.Outcome {
	branch, name := e.Else, "else"
	if e.Condition.IsMet(g, p, nil) {
		branch, name = e.Then, "then"
	}
	if len(branch) == 0 {
		return skipped(e, name+" branch is empty")
	}
	result := types.Outcome{Status: types.Failed, Effect: e.Type(), Reason: name + " branch failed"}
	for _, o := range run(g, src, p, targets, branch) {
		if o.Status == types.Applied {
			result = types.Outcome{Status: types.Applied, Effect: e.Type(), Reason: name}
		}
	}
	return result
}

// ArmDelayed registers the source card to fire the Triggered effects when an
// event matching Trigger reaches the player.
type ArmDelayed struct {
	Trigger     types.Descriptor
	Triggered   []types.Descriptor
	SelfDiscard bool
}

func (ArmDelayed) Type() string { return "ArmDelayedEffect" }

func (e ArmDelayed) Execute(g *state.Game, src *state.Card, p *state.Player, _ []*state.Player) types.Outcome {
	if src == nil {
		return failed(e, "no source card")
	}
	if !g.Arm(p, src, CaptureContext(g, p)) {
		return skipped(e, "already armed")
	}
	g.Narrate("%s arms %q, waiting for %s.", p.ID, src.Title, e.Trigger.Type)
	return applied(e)
}

// CaptureContext records where and when a card was played.
func CaptureContext(g *state.Game, p *state.Player) map[string]any {
	ctx := map[string]any{
		"played_on_row":  p.Pos.Row,
		"played_on_col":  p.Pos.Col,
		"played_on_turn": g.Turn,
	}
	if c, ok := g.CellOf(p); ok {
		ctx["played_on_location"] = c.Location()
		if c.Kind == types.CellOwner {
			ctx["played_on_owner_name"] = c.Owner
		}
	}
	return ctx
}

// CellVisitBonus is an agenda reward: while the agenda stays revealed,
// landing on the owner's cell also applies Bonus.
type CellVisitBonus struct {
	Owner string
	Bonus types.Descriptor
}

func (CellVisitBonus) Type() string { return "AddPersistentCellVisitBonusEffect" }

func (e CellVisitBonus) Execute(g *state.Game, _ *state.Card, p *state.Player, _ []*state.Player) types.Outcome {
	g.Narrate("%s will get a bonus on every visit to the %s.", p.ID, e.Owner)
	return applied(e)
}

// FoodSourceBonus is an agenda reward: while the agenda stays revealed,
// gaining food from the owner's cell yields Amount extra food.
type FoodSourceBonus struct {
	Source string
	Owner  string
	Amount int
}

func (FoodSourceBonus) Type() string { return "AddPersistentFoodSourceBonusEffect" }

func (e FoodSourceBonus) Execute(g *state.Game, _ *state.Card, p *state.Player, _ []*state.Player) types.Outcome {
	g.Narrate("%s will get %d extra food from the %s.", p.ID, e.Amount, e.Owner)
	return applied(e)
}

// Activate runs every effect of a card, continuing past failures. Paying
// the cost and routing the card afterwards is up to the caller.
func Activate(g *state.Game, c *state.Card, p *state.Player, targets []*state.Player) []types.Outcome {
	return run(g, c, p, targets, c.Effects)
}

// Reward runs an agenda's reward effects.
func Reward(g *state.Game, a *state.AgendaCard, p *state.Player) []types.Outcome {
	return run(g, nil, p, nil, a.Rewards)
}

// ExecuteOne runs a single effect with the same fault handling and logging
// as Activate.
func ExecuteOne(g *state.Game, src *state.Card, p *state.Player, targets []*state.Player, e state.Effect) types.Outcome {
	o := execute(g, src, p, targets, e)
	logOutcome(g.Log, p, src, o)
	return o
}

func run(g *state.Game, src *state.Card, p *state.Player, targets []*state.Player, effs []state.Effect) []types.Outcome {
	out := make([]types.Outcome, 0, len(effs))
	for _, e := range effs {
		if g.Over {
			out = append(out, skipped(e, "game over"))
			continue
		}
		out = append(out, ExecuteOne(g, src, p, targets, e))
	}
	return out
}

// execute runs one effect, converting a panic into a Failed outcome.
func execute(g *state.Game, src *state.Card, p *state.Player, targets []*state.Player, e state.Effect) (o types.Outcome) {
	defer func() {
		if r := recover(); r != nil {
			g.Log.Error("effect panicked", zap.String("effect", e.Type()), zap.Any("panic", r))
			o = types.Outcome{Status: types.Failed, Effect: e.Type(), Reason: "internal error"}
		}
	}()
	return e.Execute(g, src, p, targets)
}

func logOutcome(log *zap.Logger, p *state.Player, src *state.Card, o types.Outcome) {
	fields := []zap.Field{zap.String("player", p.ID), zap.String("effect", o.Effect)}
	if src != nil {
		fields = append(fields, zap.String("card", src.Title))
	}
	switch o.Status {
	case types.Applied:
		log.Debug("effect applied", fields...)
	case types.Skipped:
		log.Debug("effect skipped", append(fields, zap.String("reason", o.Reason))...)
	case types.Failed:
		log.Info("effect failed", append(fields, zap.String("reason", o.Reason))...)
	}
}

// Succeeded reports whether at least one outcome applied.
func Succeeded(outcomes []types.Outcome) bool {
	for _, o := range outcomes {
		if o.Status == types.Applied {
			return true
		}
	}
	return false
}

func subjectsOf(p *state.Player, targets []*state.Player, onTarget bool) []*state.Player {
	if onTarget {
		return targets
	}
	return []*state.Player{p}
}

func applied(e state.Effect) types.Outcome {
	return types.Outcome{Status: types.Applied, Effect: e.Type()}
}

func skipped(e state.Effect, reason string) types.Outcome {
	return types.Outcome{Status: types.Skipped, Effect: e.Type(), Reason: reason}
}

func failed(e state.Effect, reason string) types.Outcome {
	return types.Outcome{Status: types.Failed, Effect: e.Type(), Reason: reason}
}
