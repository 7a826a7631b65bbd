package loader

import (
	lua "github.com/yuin/gopher-lua"
)

// registerAPI registers all Lua constructors and helpers as globals.
func registerAPI(L *lua.LState, coll *collector) {
	registerConstructors(L, coll)
	registerConditionHelpers(L)
	registerEffectHelpers(L)
}

func registerConstructors(L *lua.LState, coll *collector) {
	// Card "title" { ... } is curried: Card("title") returns a function that takes a table.
	L.SetGlobal("Card", L.NewFunction(func(L *lua.LState) int {
		title := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			coll.cards = append(coll.cards, rawCard{title: title, table: tbl, order: coll.nextSourceOrder()})
			return 0
		}))
		return 1
	}))

	// Agenda "title" { ... } is curried like Card.
	L.SetGlobal("Agenda", L.NewFunction(func(L *lua.LState) int {
		title := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			coll.agendas = append(coll.agendas, rawAgenda{title: title, table: tbl, order: coll.nextSourceOrder()})
			return 0
		}))
		return 1
	}))

	// On("EventType", { field = value }) builds a trigger for Arm.
	L.SetGlobal("On", L.NewFunction(func(L *lua.LState) int {
		event := L.CheckString(1)
		params := L.OptTable(2, L.NewTable())
		L.Push(descriptor(L, event, params))
		return 1
	}))
}

// descriptor builds the {type = ..., params = {...}} table every helper returns.
func descriptor(L *lua.LState, typ string, params *lua.LTable) *lua.LTable {
	tbl := L.NewTable()
	tbl.RawSetString("type", lua.LString(typ))
	tbl.RawSetString("params", params)
	return tbl
}

func registerConditionHelpers(L *lua.LState) {
	// OnOwnerCell()
	L.SetGlobal("OnOwnerCell", L.NewFunction(func(L *lua.LState) int {
		L.Push(descriptor(L, "PlayerIsOnAnyOwnerCellCondition", L.NewTable()))
		return 1
	}))

	// SameCellAs("target")
	L.SetGlobal("SameCellAs", L.NewFunction(func(L *lua.LState) int {
		params := L.NewTable()
		params.RawSetString("target", lua.LString(L.OptString(1, "")))
		L.Push(descriptor(L, "IsOnSameCellAsTargetCondition", params))
		return 1
	}))

	// UsedCard("title", "context_key", value)
	L.SetGlobal("UsedCard", L.NewFunction(func(L *lua.LState) int {
		params := L.NewTable()
		params.RawSetString("card_title", lua.LString(L.CheckString(1)))
		if key := L.OptString(2, ""); key != "" {
			params.RawSetString("context_key", lua.LString(key))
			params.RawSetString("context_value", L.Get(3))
		}
		L.Push(descriptor(L, "UsedSpecificCardWithContextCondition", params))
		return 1
	}))

	// PlayedEffect("EffectType")
	L.SetGlobal("PlayedEffect", L.NewFunction(func(L *lua.LState) int {
		params := L.NewTable()
		params.RawSetString("effect_type", lua.LString(L.CheckString(1)))
		L.Push(descriptor(L, "SuccessfullyPlayedCardWithEffectTypeCondition", params))
		return 1
	}))

	// ActedAt("action", "location")
	L.SetGlobal("ActedAt", L.NewFunction(func(L *lua.LState) int {
		params := L.NewTable()
		params.RawSetString("action", lua.LString(L.CheckString(1)))
		params.RawSetString("location", lua.LString(L.CheckString(2)))
		L.Push(descriptor(L, "PerformedVoluntaryActionOnLocationCondition", params))
		return 1
	}))

	// EndedTurnWith { stat = "food", comparison = ">=", threshold = 5, turns = 2 }
	L.SetGlobal("EndedTurnWith", L.NewFunction(func(L *lua.LState) int {
		L.Push(descriptor(L, "EndedTurnWithPlayerStatCondition", L.CheckTable(1)))
		return 1
	}))

	// FoodAtLeast(n)
	L.SetGlobal("FoodAtLeast", L.NewFunction(func(L *lua.LState) int {
		params := L.NewTable()
		params.RawSetString("amount", L.CheckNumber(1))
		L.Push(descriptor(L, "FoodAtLeast", params))
		return 1
	}))

	// TrustAtLeast("owner", n)
	L.SetGlobal("TrustAtLeast", L.NewFunction(func(L *lua.LState) int {
		params := L.NewTable()
		params.RawSetString("owner_name", lua.LString(L.CheckString(1)))
		params.RawSetString("amount", L.CheckNumber(2))
		L.Push(descriptor(L, "TrustAtLeast", params))
		return 1
	}))

	// HasTitle("title")
	L.SetGlobal("HasTitle", L.NewFunction(func(L *lua.LState) int {
		params := L.NewTable()
		params.RawSetString("title", lua.LString(L.CheckString(1)))
		L.Push(descriptor(L, "HasTitle", params))
		return 1
	}))

	// VisitedOwner("owner", times)
	L.SetGlobal("VisitedOwner", L.NewFunction(func(L *lua.LState) int {
		params := L.NewTable()
		params.RawSetString("owner_name", lua.LString(L.CheckString(1)))
		params.RawSetString("times", L.OptNumber(2, 1))
		L.Push(descriptor(L, "VisitedOwnerAtLeast", params))
		return 1
	}))

	// Not(condition)
	L.SetGlobal("Not", L.NewFunction(func(L *lua.LState) int {
		params := L.NewTable()
		params.RawSetString("condition", L.CheckTable(1))
		L.Push(descriptor(L, "Not", params))
		return 1
	}))

	// Condition("Type", { ... }) for anything without a helper.
	L.SetGlobal("Condition", L.NewFunction(func(L *lua.LState) int {
		L.Push(descriptor(L, L.CheckString(1), L.OptTable(2, L.NewTable())))
		return 1
	}))
}

func registerEffectHelpers(L *lua.LState) {
	// GainFood(n, on_target)
	L.SetGlobal("GainFood", L.NewFunction(func(L *lua.LState) int {
		params := L.NewTable()
		params.RawSetString("amount", L.CheckNumber(1))
		params.RawSetString("on_target", lua.LBool(L.OptBool(2, false)))
		L.Push(descriptor(L, "GainFood", params))
		return 1
	}))

	// LoseFood(n, on_target)
	L.SetGlobal("LoseFood", L.NewFunction(func(L *lua.LState) int {
		params := L.NewTable()
		params.RawSetString("amount", L.CheckNumber(1))
		params.RawSetString("on_target", lua.LBool(L.OptBool(2, false)))
		L.Push(descriptor(L, "LoseFood", params))
		return 1
	}))

	// GainTrust("owner", n)
	L.SetGlobal("GainTrust", L.NewFunction(func(L *lua.LState) int {
		params := L.NewTable()
		params.RawSetString("owner_name", lua.LString(L.CheckString(1)))
		params.RawSetString("amount", L.OptNumber(2, 1))
		L.Push(descriptor(L, "GainTrust", params))
		return 1
	}))

	// GainTrustHere(n): trust with the owner of the cell the card was played on.
	L.SetGlobal("GainTrustHere", L.NewFunction(func(L *lua.LState) int {
		params := L.NewTable()
		params.RawSetString("owner_name_from_context", lua.LTrue)
		params.RawSetString("amount", L.OptNumber(1, 1))
		L.Push(descriptor(L, "GainTrust", params))
		return 1
	}))

	// GainTrustFrom("original" | "new_visited", n) inside armed effects.
	L.SetGlobal("GainTrustFrom", L.NewFunction(func(L *lua.LState) int {
		params := L.NewTable()
		params.RawSetString("owner_name_from_context", lua.LString(L.CheckString(1)))
		params.RawSetString("amount", L.OptNumber(2, 1))
		L.Push(descriptor(L, "GainTrust", params))
		return 1
	}))

	// LoseTrust("owner", n, on_target)
	L.SetGlobal("LoseTrust", L.NewFunction(func(L *lua.LState) int {
		params := L.NewTable()
		params.RawSetString("owner_name", lua.LString(L.CheckString(1)))
		params.RawSetString("amount", L.OptNumber(2, 1))
		params.RawSetString("on_target", lua.LBool(L.OptBool(3, false)))
		L.Push(descriptor(L, "LoseTrust", params))
		return 1
	}))

	// DrawCards(n)
	L.SetGlobal("DrawCards", L.NewFunction(func(L *lua.LState) int {
		params := L.NewTable()
		params.RawSetString("count", L.OptNumber(1, 1))
		L.Push(descriptor(L, "DrawCards", params))
		return 1
	}))

	// ApplyTitle()
	L.SetGlobal("ApplyTitle", L.NewFunction(func(L *lua.LState) int {
		L.Push(descriptor(L, "ApplyTitleEffect", L.NewTable()))
		return 1
	}))

	// ApplyPersistent()
	L.SetGlobal("ApplyPersistent", L.NewFunction(func(L *lua.LState) int {
		L.Push(descriptor(L, "ApplyPersistentEffectCard", L.NewTable()))
		return 1
	}))

	// TemporaryBonus("attribute", n)
	L.SetGlobal("TemporaryBonus", L.NewFunction(func(L *lua.LState) int {
		params := L.NewTable()
		params.RawSetString("attribute", lua.LString(L.CheckString(1)))
		params.RawSetString("amount", L.OptNumber(2, 1))
		L.Push(descriptor(L, "GrantTemporaryBonusEffect", params))
		return 1
	}))

	// GrantReroll(n)
	L.SetGlobal("GrantReroll", L.NewFunction(func(L *lua.LState) int {
		params := L.NewTable()
		params.RawSetString("count", L.OptNumber(1, 1))
		L.Push(descriptor(L, "GrantRerollEffect", params))
		return 1
	}))

	// If(condition, { then... }, { else... })
	L.SetGlobal("If", L.NewFunction(func(L *lua.LState) int {
		params := L.NewTable()
		params.RawSetString("condition", L.CheckTable(1))
		params.RawSetString("then_effects", L.CheckTable(2))
		params.RawSetString("else_effects", L.OptTable(3, L.NewTable()))
		L.Push(descriptor(L, "ConditionalEffect", params))
		return 1
	}))

	// Arm { trigger = On(...), effects = { ... }, self_discard = true }
	L.SetGlobal("Arm", L.NewFunction(func(L *lua.LState) int {
		tbl := L.CheckTable(1)
		params := L.NewTable()
		params.RawSetString("trigger_condition", tbl.RawGetString("trigger"))
		params.RawSetString("triggered_effects", tbl.RawGetString("effects"))
		params.RawSetString("self_discard_on_trigger", lua.LBool(getBool(tbl, "self_discard", false)))
		L.Push(descriptor(L, "ArmDelayedEffect", params))
		return 1
	}))

	// CellVisitBonus("owner", effect)
	L.SetGlobal("CellVisitBonus", L.NewFunction(func(L *lua.LState) int {
		params := L.NewTable()
		params.RawSetString("owner_name_trigger", lua.LString(L.CheckString(1)))
		params.RawSetString("bonus_effect", L.CheckTable(2))
		L.Push(descriptor(L, "AddPersistentCellVisitBonusEffect", params))
		return 1
	}))

	// FoodSourceBonus("owner", n)
	L.SetGlobal("FoodSourceBonus", L.NewFunction(func(L *lua.LState) int {
		src := L.NewTable()
		src.RawSetString("type", lua.LString("GainedFoodFromOwnerCell"))
		src.RawSetString("owner_name", lua.LString(L.CheckString(1)))
		params := L.NewTable()
		params.RawSetString("source_trigger", src)
		params.RawSetString("bonus_food_amount", L.CheckNumber(2))
		L.Push(descriptor(L, "AddPersistentFoodSourceBonusEffect", params))
		return 1
	}))

	// Effect("Type", { ... }) for anything without a helper.
	L.SetGlobal("Effect", L.NewFunction(func(L *lua.LState) int {
		L.Push(descriptor(L, L.CheckString(1), L.OptTable(2, L.NewTable())))
		return 1
	}))
}
