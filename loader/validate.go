package loader

import (
	"fmt"
	"strings"

	"github.com/nathoo/alleycats/engine/effects"
	"github.com/nathoo/alleycats/engine/rules"
	"github.com/nathoo/alleycats/engine/state"
	"github.com/nathoo/alleycats/types"
)

// ValidationError collects all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

// Known type flags.
var validFlags = map[string]bool{
	state.FlagTitle:      true,
	state.FlagPersistent: true,
}

// Known cost resources.
var validCosts = map[string]bool{
	"food": true,
}

// validate checks content for consistency. Unknown effect and condition
// types are warnings: the containing card still loads without them.
func validate(c *Content) error {
	ve := &ValidationError{}

	if len(c.Cards) == 0 {
		ve.Warnings = append(ve.Warnings, "no cards defined")
	}
	if len(c.Agendas) == 0 {
		ve.Warnings = append(ve.Warnings, "no agendas defined")
	}

	titles := map[string]bool{}
	for _, card := range c.Cards {
		if card.Title == "" {
			ve.Errors = append(ve.Errors, "card with empty title")
			continue
		}
		if titles[card.Title] {
			ve.Errors = append(ve.Errors, fmt.Sprintf("duplicate card title %q", card.Title))
		}
		titles[card.Title] = true

		if card.Count < 0 {
			ve.Errors = append(ve.Errors, fmt.Sprintf("card %q has negative count %d", card.Title, card.Count))
		} else if card.Count == 0 {
			ve.Warnings = append(ve.Warnings, fmt.Sprintf("card %q has count 0 and will not be in the deck", card.Title))
		}
		switch card.DiscardCondition {
		case state.DiscardImmediate, state.DiscardPersistent:
		default:
			ve.Warnings = append(ve.Warnings, fmt.Sprintf(
				"card %q has custom discard condition %q", card.Title, card.DiscardCondition))
		}
		for res, n := range card.Cost {
			if !validCosts[res] {
				ve.Warnings = append(ve.Warnings, fmt.Sprintf("card %q costs unknown resource %q", card.Title, res))
			}
			if n < 0 {
				ve.Errors = append(ve.Errors, fmt.Sprintf("card %q has negative %s cost", card.Title, res))
			}
		}
		for _, f := range card.TypeFlags {
			if !validFlags[f] {
				ve.Warnings = append(ve.Warnings, fmt.Sprintf("card %q has unknown type flag %q", card.Title, f))
			}
		}
		validateEffects("card "+quote(card.Title), card.Effects, ve)
	}

	agendaTitles := map[string]bool{}
	for _, a := range c.Agendas {
		if a.Title == "" {
			ve.Errors = append(ve.Errors, "agenda with empty title")
			continue
		}
		if agendaTitles[a.Title] {
			ve.Errors = append(ve.Errors, fmt.Sprintf("duplicate agenda title %q", a.Title))
		}
		agendaTitles[a.Title] = true
		if a.Count < 0 {
			ve.Errors = append(ve.Errors, fmt.Sprintf("agenda %q has negative count %d", a.Title, a.Count))
		}
		if len(a.Conditions) == 0 {
			ve.Warnings = append(ve.Warnings, fmt.Sprintf("agenda %q has no objective conditions", a.Title))
		}
		validateConditions("agenda "+quote(a.Title), a.Conditions, ve)
		validateEffects("agenda "+quote(a.Title), a.Rewards, ve)
	}

	if len(ve.Errors) > 0 || len(ve.Warnings) > 0 {
		return ve
	}
	return nil
}

func validateEffects(where string, ds []types.Descriptor, ve *ValidationError) {
	for _, d := range ds {
		if !effects.Known(d.Type) {
			ve.Warnings = append(ve.Warnings, fmt.Sprintf("%s: unknown effect type %q", where, d.Type))
			continue
		}
		switch d.Type {
		case "ConditionalEffect":
			if c, ok := rules.AsDescriptor(d.Params["condition"]); ok {
				validateConditions(where, []types.Descriptor{c}, ve)
			}
			validateEffects(where, rules.AsDescriptors(d.Params["then_effects"]), ve)
			validateEffects(where, rules.AsDescriptors(d.Params["else_effects"]), ve)
		case "ArmDelayedEffect":
			// Triggered effects are resolved when they fire; check them now anyway.
			validateEffects(where, rules.AsDescriptors(d.Params["triggered_effects"]), ve)
		case "AddPersistentCellVisitBonusEffect":
			if b, ok := rules.AsDescriptor(d.Params["bonus_effect"]); ok {
				validateEffects(where, []types.Descriptor{b}, ve)
			}
		}
	}
}

func validateConditions(where string, ds []types.Descriptor, ve *ValidationError) {
	for _, d := range ds {
		if !rules.Known(d.Type) {
			ve.Warnings = append(ve.Warnings, fmt.Sprintf("%s: unknown condition type %q", where, d.Type))
			continue
		}
		if d.Type == "Not" {
			if inner, ok := rules.AsDescriptor(d.Params["condition"]); ok {
				validateConditions(where, []types.Descriptor{inner}, ve)
			}
		}
	}
}

func quote(s string) string {
	return fmt.Sprintf("%q", s)
}
