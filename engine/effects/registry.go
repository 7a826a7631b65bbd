package effects

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/nathoo/alleycats/engine/rules"
	"github.com/nathoo/alleycats/engine/state"
	"github.com/nathoo/alleycats/types"
)

// MaxDepth bounds how deeply conditional effects may nest.
const MaxDepth = 8

// UnresolvedError reports an effect descriptor that could not be built.
type UnresolvedError struct {
	Type   string
	Reason string
}

func (e *UnresolvedError) Error() string {
	return fmt.Sprintf("unresolved effect %q: %s", e.Type, e.Reason)
}

type builder func(params map[string]any, depth int, log *zap.Logger) (state.Effect, error)

var registry map[string]builder

func init() {
	registry = map[string]builder{
		"GainFood": func(p map[string]any, _ int, _ *zap.Logger) (state.Effect, error) {
			return GainFood{Amount: toInt(p["amount"]), OnTarget: toBool(p["on_target"])}, nil
		},
		"LoseFood": func(p map[string]any, _ int, _ *zap.Logger) (state.Effect, error) {
			return LoseFood{Amount: toInt(p["amount"]), OnTarget: toBool(p["on_target"])}, nil
		},
		"GainTrust": func(p map[string]any, _ int, _ *zap.Logger) (state.Effect, error) {
			e := GainTrust{Owner: toString(p["owner_name"]), Amount: intOr(p["amount"], 1)}
			if e.Owner == "" {
				if _, ok := p["owner_name_from_context"]; !ok {
					return nil, fmt.Errorf("owner_name or owner_name_from_context is required")
				}
				e.FromCell = true
			}
			return e, nil
		},
		"LoseTrust": func(p map[string]any, _ int, _ *zap.Logger) (state.Effect, error) {
			owner := toString(p["owner_name"])
			if owner == "" {
				return nil, fmt.Errorf("owner_name is required")
			}
			return LoseTrust{Owner: owner, Amount: intOr(p["amount"], 1), OnTarget: toBool(p["on_target"])}, nil
		},
		"DrawCards": func(p map[string]any, _ int, _ *zap.Logger) (state.Effect, error) {
			n := intOr(p["count"], 0)
			if n == 0 {
				n = intOr(p["amount"], 1)
			}
			return DrawCards{Count: n}, nil
		},
		"ApplyTitleEffect": func(map[string]any, int, *zap.Logger) (state.Effect, error) {
			return ApplyTitle{}, nil
		},
		"ApplyPersistentEffectCard": func(map[string]any, int, *zap.Logger) (state.Effect, error) {
			return ApplyPersistent{}, nil
		},
		"GrantTemporaryBonusEffect": func(p map[string]any, _ int, _ *zap.Logger) (state.Effect, error) {
			attr := toString(p["attribute"])
			if attr == "" {
				return nil, fmt.Errorf("attribute is required")
			}
			return GrantTemporaryBonus{Attribute: attr, Amount: intOr(p["amount"], 1)}, nil
		},
		"GrantRerollEffect": func(p map[string]any, _ int, _ *zap.Logger) (state.Effect, error) {
			return GrantReroll{Count: intOr(p["count"], 1)}, nil
		},
		"ConditionalEffect":                 buildConditional,
		"ArmDelayedEffect":                  buildArmDelayed,
		"AddPersistentCellVisitBonusEffect": buildCellVisitBonus,
		"AddPersistentFoodSourceBonusEffect": func(p map[string]any, _ int, _ *zap.Logger) (state.Effect, error) {
			src, ok := rules.AsDescriptor(p["source_trigger"])
			if !ok {
				return nil, fmt.Errorf("source_trigger is required")
			}
			owner := toString(src.Params["owner_name"])
			if owner == "" {
				return nil, fmt.Errorf("source_trigger.owner_name is required")
			}
			return FoodSourceBonus{Source: src.Type, Owner: owner, Amount: toInt(p["bonus_food_amount"])}, nil
		},
	}
}

// Known reports whether an effect type is registered.
func Known(typ string) bool {
	_, ok := registry[typ]
	return ok
}

// Build resolves an effect descriptor. Unknown nested effects inside a
// conditional are dropped with a warning on log, which may be nil.
func Build(d types.Descriptor, log *zap.Logger) (state.Effect, error) {
	return build(d, 0, log)
}

func build(d types.Descriptor, depth int, log *zap.Logger) (state.Effect, error) {
	if depth > MaxDepth {
		return nil, &UnresolvedError{Type: d.Type, Reason: "nested too deeply"}
	}
	b, ok := registry[d.Type]
	if !ok {
		return nil, &UnresolvedError{Type: d.Type, Reason: "unknown effect type"}
	}
	params := d.Params
	if params == nil {
		params = map[string]any{}
	}
	e, err := b(params, depth, log)
	if err != nil {
		if ue, ok := err.(*UnresolvedError); ok {
			return nil, ue
		}
		return nil, &UnresolvedError{Type: d.Type, Reason: err.Error()}
	}
	return e, nil
}

// BuildAll resolves every descriptor, dropping the ones that fail with a
// warning. The returned errors describe the dropped nodes.
func BuildAll(ds []types.Descriptor, log *zap.Logger) ([]state.Effect, []error) {
	return buildAll(ds, 0, log)
}

func buildAll(ds []types.Descriptor, depth int, log *zap.Logger) ([]state.Effect, []error) {
	var out []state.Effect
	var errs []error
	for _, d := range ds {
		e, err := build(d, depth, log)
		if err != nil {
			if log != nil {
				log.Warn("dropping effect", zap.String("type", d.Type), zap.Error(err))
			}
			errs = append(errs, err)
			continue
		}
		out = append(out, e)
	}
	return out, errs
}

func buildConditional(p map[string]any, depth int, log *zap.Logger) (state.Effect, error) {
	cd, ok := rules.AsDescriptor(p["condition"])
	if !ok {
		return nil, fmt.Errorf("condition is required")
	}
	cond, err := rules.Build(cd)
	if err != nil {
		return nil, err
	}
	// Only agenda objectives are fed turn events, and effect trees are
	// shared by every copy of a card.
	if acc := rules.Accumulating([]state.Condition{cond}); len(acc) > 0 {
		return nil, fmt.Errorf("condition %s keeps progress across turns and is only allowed in agenda objectives", cd.Type)
	}
	then, _ := buildAll(rules.AsDescriptors(p["then_effects"]), depth+1, log)
	els, _ := buildAll(rules.AsDescriptors(p["else_effects"]), depth+1, log)
	return Conditional{Condition: cond, Then: then, Else: els}, nil
}

func buildArmDelayed(p map[string]any, _ int, _ *zap.Logger) (state.Effect, error) {
	trigger, ok := rules.AsDescriptor(p["trigger_condition"])
	if !ok {
		return nil, fmt.Errorf("trigger_condition with a type is required")
	}
	return ArmDelayed{
		Trigger:     trigger,
		Triggered:   rules.AsDescriptors(p["triggered_effects"]),
		SelfDiscard: toBool(p["self_discard_on_trigger"]),
	}, nil
}

func buildCellVisitBonus(p map[string]any, depth int, log *zap.Logger) (state.Effect, error) {
	owner := toString(p["owner_name_trigger"])
	if owner == "" {
		return nil, fmt.Errorf("owner_name_trigger is required")
	}
	bonus, ok := rules.AsDescriptor(p["bonus_effect"])
	if !ok {
		return nil, fmt.Errorf("bonus_effect is required")
	}
	if _, err := build(bonus, depth+1, log); err != nil {
		return nil, err
	}
	return CellVisitBonus{Owner: owner, Bonus: bonus}, nil
}

func toString(v any) string {
	s, _ := v.(string)
	return s
}

func toBool(v any) bool {
	b, _ := v.(bool)
	return b
}

// toInt converts an any value to int, handling float64 from JSON/Lua.
func toInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case float64:
		return int(n)
	case int64:
		return int(n)
	default:
		return 0
	}
}

func intOr(v any, def int) int {
	if v == nil {
		return def
	}
	return toInt(v)
}
