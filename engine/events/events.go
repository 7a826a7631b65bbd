// Package events implements the armed-effect tracker: it matches game
// events against each player's armed cards and fires their deferred
// effects. Dispatch is single-pass; events emitted while firing are queued
// and dispatched after the pass, never recursively.
package events

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/nathoo/alleycats/engine/effects"
	"github.com/nathoo/alleycats/engine/state"
	"github.com/nathoo/alleycats/types"
)

// maxPasses bounds how many rounds of queued events one Dispatch drains.
const maxPasses = 16

// Firing records one armed card that fired.
type Firing struct {
	Player   string
	Card     string
	Event    string
	Outcomes []types.Outcome
}

// Dispatch delivers ev to p's armed registry, then drains events queued on
// the game during the pass. Once the game is over nothing more fires and
// queued events are dropped.
func Dispatch(g *state.Game, p *state.Player, ev types.Event) []Firing {
	fired := dispatchOne(g, p, ev)
	for pass := 0; pass < maxPasses; pass++ {
		pending := g.TakePending()
		if len(pending) == 0 || g.Over {
			return fired
		}
		for _, pe := range pending {
			fired = append(fired, dispatchOne(g, pe.Player, pe.Event)...)
		}
	}
	if left := g.TakePending(); len(left) > 0 {
		g.Log.Warn("dropping queued events after pass limit", zap.Int("count", len(left)))
	}
	return fired
}

// dispatchOne checks every armed record of p, in registration order,
// against a snapshot of the registry taken before any effect runs.
func dispatchOne(g *state.Game, p *state.Player, ev types.Event) []Firing {
	var fired []Firing
	snapshot := append([]state.ArmedRecord(nil), p.Armed...)
	for _, rec := range snapshot {
		if g.Over {
			break
		}
		if !p.IsArmed(rec.Card) {
			continue
		}
		arm, ok := armedEffect(rec.Card)
		if !ok {
			continue
		}
		subst, ok := Match(arm.Trigger, ev, rec.Context)
		if !ok {
			continue
		}
		g.Log.Debug("armed card triggered", zap.String("player", p.ID),
			zap.String("card", rec.Card.Title), zap.String("event", ev.Type))
		g.Narrate("%q triggers for %s.", rec.Card.Title, p.ID)

		f := Firing{Player: p.ID, Card: rec.Card.Title, Event: ev.Type}
		for _, d := range arm.Triggered {
			if g.Over {
				break
			}
			f.Outcomes = append(f.Outcomes, fire(g, p, rec.Card, d, subst, rec.Context))
		}
		if arm.SelfDiscard {
			p.Disarm(rec.Card)
			g.Discard(rec.Card)
			g.Narrate("%q is discarded.", rec.Card.Title)
		}
		fired = append(fired, f)
	}
	return fired
}

// armedEffect returns the card's first effect when it is an armed effect.
func armedEffect(c *state.Card) (effects.ArmDelayed, bool) {
	if len(c.Effects) == 0 {
		return effects.ArmDelayed{}, false
	}
	arm, ok := c.Effects[0].(effects.ArmDelayed)
	return arm, ok
}

// fire substitutes context into one triggered descriptor, builds it fresh
// and executes it.
func fire(g *state.Game, p *state.Player, src *state.Card, d types.Descriptor,
	subst Substitution, captured map[string]any) types.Outcome {

	d, err := Substitute(d, subst, captured)
	if err != nil {
		g.Log.Warn("skipping triggered effect", zap.String("card", src.Title),
			zap.String("effect", d.Type), zap.Error(err))
		return types.Outcome{Status: types.Skipped, Effect: d.Type, Reason: err.Error()}
	}
	e, err := effects.Build(d, g.Log)
	if err != nil {
		g.Log.Warn("triggered effect unresolved", zap.String("card", src.Title), zap.Error(err))
		return types.Outcome{Status: types.Skipped, Effect: d.Type, Reason: err.Error()}
	}
	return effects.ExecuteOne(g, src, p, nil, e)
}

// Substitution holds the owner names a trigger can refer to.
type Substitution struct {
	Original   string
	NewVisited string
}

// Match reports whether ev satisfies the trigger, given the context
// captured when the card was armed.
func Match(trigger types.Descriptor, ev types.Event, captured map[string]any) (Substitution, bool) {
	if trigger.Type != ev.Type {
		return Substitution{}, false
	}
	original, _ := captured["played_on_owner_name"].(string)
	sub := Substitution{Original: original}

	switch ev.Type {
	case types.EventVisitedDifferentOwnerCell:
		visited, _ := ev.Data["owner_name"].(string)
		if visited == "" || original == "" || visited == original {
			return sub, false
		}
		sub.NewVisited = visited
		return sub, true

	case types.EventParticipatedInFight:
		if want, ok := trigger.Params["outcome"]; ok && fmt.Sprint(want) != fmt.Sprint(ev.Data["outcome"]) {
			return sub, false
		}
		return sub, true

	case types.EventVisitedCellType:
		want, _ := trigger.Params["cell_type_symbol"].(string)
		return sub, want != "" && want == fmt.Sprint(ev.Data["cell_symbol"])
	}

	for k, want := range trigger.Params {
		if fmt.Sprint(ev.Data[k]) != fmt.Sprint(want) {
			return sub, false
		}
	}
	return sub, true
}

// Substitute resolves owner_name_from_context in a triggered descriptor
// into a concrete owner_name. Descriptors without the key are returned
// unchanged.
func Substitute(d types.Descriptor, sub Substitution, captured map[string]any) (types.Descriptor, error) {
	from, ok := d.Params["owner_name_from_context"]
	if !ok {
		return d, nil
	}
	var owner string
	switch v := from.(type) {
	case string:
		switch v {
		case "original":
			owner = sub.Original
		case "new_visited":
			owner = sub.NewVisited
		default:
			return d, fmt.Errorf("unknown owner_name_from_context %q", v)
		}
	case bool:
		if !v {
			return d, nil
		}
		owner, _ = captured["played_on_owner_name"].(string)
	}
	if owner == "" {
		return d, fmt.Errorf("no owner in context for %v", from)
	}
	params := make(map[string]any, len(d.Params))
	for k, v := range d.Params {
		if k != "owner_name_from_context" {
			params[k] = v
		}
	}
	params["owner_name"] = owner
	return types.Descriptor{Type: d.Type, Params: params}, nil
}
