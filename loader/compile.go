// Package loader turns content files into card and agenda definitions and
// the map file into a board. Lua content runs once at load time; the VM is
// discarded afterwards, so no Lua runs during play.
package loader

import (
	"fmt"
	"sort"

	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/alleycats/engine/rules"
	"github.com/nathoo/alleycats/types"
)

// rawCard holds a card table before compilation.
type rawCard struct {
	title string
	table *lua.LTable
	order int
}

// rawAgenda holds an agenda table before compilation.
type rawAgenda struct {
	title string
	table *lua.LTable
	order int
}

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	v := tbl.RawGetString(key)
	if s, ok := v.(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getBool returns a bool field from a Lua table, or the default if missing.
func getBool(tbl *lua.LTable, key string, def bool) bool {
	v := tbl.RawGetString(key)
	if b, ok := v.(lua.LBool); ok {
		return bool(b)
	}
	return def
}

// getNumber returns a numeric field from a Lua table, or 0 if missing.
func getNumber(tbl *lua.LTable, key string) float64 {
	v := tbl.RawGetString(key)
	if n, ok := v.(lua.LNumber); ok {
		return float64(n)
	}
	return 0
}

// getInt returns an int field from a Lua table, or def if missing.
func getInt(tbl *lua.LTable, key string, def int) int {
	if _, ok := tbl.RawGetString(key).(lua.LNumber); !ok {
		return def
	}
	return int(getNumber(tbl, key))
}

// getTable returns a table field from a Lua table, or nil if missing.
func getTable(tbl *lua.LTable, key string) *lua.LTable {
	v := tbl.RawGetString(key)
	if t, ok := v.(*lua.LTable); ok {
		return t
	}
	return nil
}

// toGoValue converts a Lua value to a Go value recursively.
func toGoValue(v lua.LValue) any {
	switch val := v.(type) {
	case lua.LBool:
		return bool(val)
	case lua.LNumber:
		f := float64(val)
		if f == float64(int(f)) {
			return int(f)
		}
		return f
	case *lua.LNilType:
		return nil
	case lua.LString:
		return string(val)
	case *lua.LTable:
		// Check if it's an array (sequential integer keys starting at 1).
		maxN := val.MaxN()
		if maxN > 0 {
			arr := make([]any, 0, maxN)
			for i := 1; i <= maxN; i++ {
				arr = append(arr, toGoValue(val.RawGetInt(i)))
			}
			return arr
		}
		// Otherwise treat as map.
		m := map[string]any{}
		val.ForEach(func(k, v lua.LValue) {
			if ks, ok := k.(lua.LString); ok {
				m[string(ks)] = toGoValue(v)
			}
		})
		return m
	default:
		return nil
	}
}

// tableToAnyMap converts a Lua table to a map[string]any.
func tableToAnyMap(tbl *lua.LTable) map[string]any {
	if tbl == nil {
		return nil
	}
	m := map[string]any{}
	tbl.ForEach(func(k, v lua.LValue) {
		if ks, ok := k.(lua.LString); ok {
			m[string(ks)] = toGoValue(v)
		}
	})
	return m
}

// tableToStrings converts an array table to a []string, skipping non-strings.
func tableToStrings(tbl *lua.LTable) []string {
	if tbl == nil {
		return nil
	}
	var out []string
	for i := 1; i <= tbl.MaxN(); i++ {
		if s, ok := tbl.RawGetInt(i).(lua.LString); ok {
			out = append(out, string(s))
		}
	}
	return out
}

// compile converts all collected Lua data into content, in source order.
func compile(coll *collector) (*Content, error) {
	sort.SliceStable(coll.cards, func(i, j int) bool { return coll.cards[i].order < coll.cards[j].order })
	sort.SliceStable(coll.agendas, func(i, j int) bool { return coll.agendas[i].order < coll.agendas[j].order })

	content := &Content{}
	for _, raw := range coll.cards {
		c, err := compileCard(raw)
		if err != nil {
			return nil, fmt.Errorf("compiling card %q: %w", raw.title, err)
		}
		content.Cards = append(content.Cards, c)
	}
	for _, raw := range coll.agendas {
		a, err := compileAgenda(raw)
		if err != nil {
			return nil, fmt.Errorf("compiling agenda %q: %w", raw.title, err)
		}
		content.Agendas = append(content.Agendas, a)
	}
	return content, nil
}

func compileCard(raw rawCard) (types.CardDef, error) {
	tbl := raw.table
	c := types.CardDef{
		Title:            raw.title,
		Description:      getString(tbl, "description"),
		DiscardCondition: normalizeDiscard(getString(tbl, "discard")),
		Count:            getInt(tbl, "count", 1),
		Timing:           getString(tbl, "timing"),
		TargetNeeded:     getBool(tbl, "target", false),
		TypeFlags:        tableToStrings(getTable(tbl, "flags")),
		Attributes:       tableToAnyMap(getTable(tbl, "attributes")),
	}

	// cost = 2 is shorthand for cost = { food = 2 }.
	switch v := tbl.RawGetString("cost").(type) {
	case lua.LNumber:
		c.Cost = map[string]int{"food": int(v)}
	case *lua.LTable:
		c.Cost = map[string]int{}
		var bad error
		v.ForEach(func(k, val lua.LValue) {
			n, ok := val.(lua.LNumber)
			if !ok {
				bad = fmt.Errorf("cost %v must be a number", k)
				return
			}
			c.Cost[k.String()] = int(n)
		})
		if bad != nil {
			return c, bad
		}
	}

	effs, err := compileDescriptors(tbl, "effects")
	if err != nil {
		return c, err
	}
	c.Effects = effs
	return c, nil
}

func compileAgenda(raw rawAgenda) (types.AgendaDef, error) {
	tbl := raw.table
	a := types.AgendaDef{
		Title:           raw.title,
		Objective:       getString(tbl, "objective"),
		Reward:          getString(tbl, "reward"),
		Count:           getInt(tbl, "count", 1),
		Persistent:      getBool(tbl, "persistent", false),
		DiscardAfterUse: getBool(tbl, "discard_after_use", false),
		DiscardToBox:    getBool(tbl, "discard_to_box", false),
	}
	var err error
	if a.Conditions, err = compileDescriptors(tbl, "conditions"); err != nil {
		return a, err
	}
	if a.Rewards, err = compileDescriptors(tbl, "rewards"); err != nil {
		return a, err
	}
	return a, nil
}

// compileDescriptors reads a list of {type, params} tables. Entries that
// are not descriptors are an error: they are typos, not unknown types.
func compileDescriptors(tbl *lua.LTable, key string) ([]types.Descriptor, error) {
	list := getTable(tbl, key)
	if list == nil {
		return nil, nil
	}
	var out []types.Descriptor
	for i := 1; i <= list.MaxN(); i++ {
		d, ok := rules.AsDescriptor(toGoValue(list.RawGetInt(i)))
		if !ok {
			return nil, fmt.Errorf("%s[%d] is not a {type, params} table", key, i)
		}
		out = append(out, d)
	}
	return out, nil
}
