package rules

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/nathoo/alleycats/engine/state"
	"github.com/nathoo/alleycats/types"
)

// UnresolvedError reports a condition descriptor that could not be built.
type UnresolvedError struct {
	Type   string
	Reason string
}

func (e *UnresolvedError) Error() string {
	return fmt.Sprintf("unresolved condition %q: %s", e.Type, e.Reason)
}

type builder func(params map[string]any) (state.Condition, error)

var registry map[string]builder

func init() {
	registry = map[string]builder{
		"PlayerIsOnAnyOwnerCellCondition": func(map[string]any) (state.Condition, error) {
			return OnAnyOwnerCell{}, nil
		},
		"IsOnSameCellAsTargetCondition": func(p map[string]any) (state.Condition, error) {
			return SameCellAsTarget{Target: toString(p["target"])}, nil
		},
		"UsedSpecificCardWithContextCondition": func(p map[string]any) (state.Condition, error) {
			title := toString(p["card_title"])
			if title == "" {
				return nil, fmt.Errorf("card_title is required")
			}
			return UsedCardWithContext{
				CardTitle:    title,
				ContextKey:   toString(p["context_key"]),
				ContextValue: p["context_value"],
			}, nil
		},
		"SuccessfullyPlayedCardWithEffectTypeCondition": func(p map[string]any) (state.Condition, error) {
			et := toString(p["effect_type"])
			if et == "" {
				return nil, fmt.Errorf("effect_type is required")
			}
			return PlayedCardWithEffectType{EffectType: et}, nil
		},
		"PerformedVoluntaryActionOnLocationCondition": func(p map[string]any) (state.Condition, error) {
			loc := toString(p["location"])
			if loc == "" {
				return nil, fmt.Errorf("location is required")
			}
			return VoluntaryActionOnLocation{Action: toString(p["action"]), Location: loc}, nil
		},
		"EndedTurnWithPlayerStatCondition": func(p map[string]any) (state.Condition, error) {
			stat := toString(p["stat"])
			if stat == "" {
				return nil, fmt.Errorf("stat is required")
			}
			return &EndedTurnWithStat{
				Stat:       stat,
				Owner:      toString(p["owner_name"]),
				Comparison: toString(p["comparison"]),
				Threshold:  toInt(p["threshold"]),
				Turns:      toInt(p["turns"]),
			}, nil
		},
		"FoodAtLeast": func(p map[string]any) (state.Condition, error) {
			return FoodAtLeast{Amount: toInt(p["amount"])}, nil
		},
		"TrustAtLeast": func(p map[string]any) (state.Condition, error) {
			owner := toString(p["owner_name"])
			if owner == "" {
				return nil, fmt.Errorf("owner_name is required")
			}
			return TrustAtLeast{Owner: owner, Amount: toInt(p["amount"])}, nil
		},
		"HasTitle": func(p map[string]any) (state.Condition, error) {
			return HasTitle{Title: toString(p["title"])}, nil
		},
		"VisitedOwnerAtLeast": func(p map[string]any) (state.Condition, error) {
			return VisitedOwnerAtLeast{Owner: toString(p["owner_name"]), Times: toInt(p["times"])}, nil
		},
		"Not": func(p map[string]any) (state.Condition, error) {
			d, ok := AsDescriptor(p["condition"])
			if !ok {
				return nil, fmt.Errorf("condition is required")
			}
			inner, err := Build(d)
			if err != nil {
				return nil, err
			}
			return Not{Inner: inner}, nil
		},
	}
}

// Known reports whether a condition type is registered.
func Known(typ string) bool {
	_, ok := registry[typ]
	return ok
}

// Build resolves a condition descriptor into a condition.
func Build(d types.Descriptor) (state.Condition, error) {
	b, ok := registry[d.Type]
	if !ok {
		return nil, &UnresolvedError{Type: d.Type, Reason: "unknown condition type"}
	}
	c, err := b(d.Params)
	if err != nil {
		if ue, ok := err.(*UnresolvedError); ok {
			return nil, ue
		}
		return nil, &UnresolvedError{Type: d.Type, Reason: err.Error()}
	}
	return c, nil
}

// BuildAll resolves every descriptor, dropping the ones that fail with a
// warning. The returned errors describe the dropped nodes.
func BuildAll(ds []types.Descriptor, log *zap.Logger) ([]state.Condition, []error) {
	var out []state.Condition
	var errs []error
	for _, d := range ds {
		c, err := Build(d)
		if err != nil {
			if log != nil {
				log.Warn("dropping condition", zap.String("type", d.Type), zap.Error(err))
			}
			errs = append(errs, err)
			continue
		}
		out = append(out, c)
	}
	return out, errs
}

// AsDescriptor accepts a nested descriptor either already typed or as a
// raw map with a "type" key. Map keys other than "type" and "params" are
// folded into the params.
func AsDescriptor(v any) (types.Descriptor, bool) {
	switch d := v.(type) {
	case types.Descriptor:
		return d, true
	case *types.Descriptor:
		if d == nil {
			return types.Descriptor{}, false
		}
		return *d, true
	case map[string]any:
		typ, _ := d["type"].(string)
		if typ == "" {
			return types.Descriptor{}, false
		}
		params := map[string]any{}
		if inner, ok := d["params"].(map[string]any); ok {
			for k, v := range inner {
				params[k] = v
			}
		}
		for k, v := range d {
			if k != "type" && k != "params" {
				params[k] = v
			}
		}
		return types.Descriptor{Type: typ, Params: params}, true
	}
	return types.Descriptor{}, false
}

// AsDescriptors converts a list of nested descriptors, skipping entries
// that are not descriptors.
func AsDescriptors(v any) []types.Descriptor {
	switch list := v.(type) {
	case []types.Descriptor:
		return list
	case []any:
		out := make([]types.Descriptor, 0, len(list))
		for _, item := range list {
			if d, ok := AsDescriptor(item); ok {
				out = append(out, d)
			}
		}
		return out
	}
	return nil
}

func toString(v any) string {
	s, _ := v.(string)
	return s
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
