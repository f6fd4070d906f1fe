package loader

import (
	lua "github.com/yuin/gopher-lua"
)

// registerAPI registers all Lua constructors and helpers as globals.
func registerAPI(L *lua.LState, coll *collector) {
	registerConstructors(L, coll)
	registerConditionHelpers(L)
}

// curried returns a Lua function for the `Name "id" { ... }` form:
// the first call takes the ID, the second the body table.
func curried(L *lua.LState, coll *collector, add func(rawDef)) *lua.LFunction {
	return L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			add(rawDef{id: id, table: tbl, order: coll.nextSourceOrder()})
			return 0
		}))
		return 1
	})
}

func registerConstructors(L *lua.LState, coll *collector) {
	// Game { title = "...", ... }
	L.SetGlobal("Game", L.NewFunction(func(L *lua.LState) int {
		coll.game = L.CheckTable(1)
		return 0
	}))

	// Encounters { enemy = 70, npc = 30 }
	L.SetGlobal("Encounters", L.NewFunction(func(L *lua.LState) int {
		coll.encounters = L.CheckTable(1)
		return 0
	}))

	L.SetGlobal("Class", curried(L, coll, func(r rawDef) { coll.classes = append(coll.classes, r) }))
	L.SetGlobal("Enemy", curried(L, coll, func(r rawDef) { coll.enemies = append(coll.enemies, r) }))
	L.SetGlobal("Boss", curried(L, coll, func(r rawDef) { coll.bosses = append(coll.bosses, r) }))
	L.SetGlobal("Gear", curried(L, coll, func(r rawDef) { coll.gear = append(coll.gear, r) }))
	L.SetGlobal("NPC", curried(L, coll, func(r rawDef) { coll.npcs = append(coll.npcs, r) }))
	L.SetGlobal("Location", curried(L, coll, func(r rawDef) { coll.locations = append(coll.locations, r) }))

	// Tier(level) { qi = ..., chance = ..., fatal = ... }
	L.SetGlobal("Tier", L.NewFunction(func(L *lua.LState) int {
		level := L.CheckInt(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			coll.tiers = append(coll.tiers, rawTier{level: level, table: tbl})
			return 0
		}))
		return 1
	}))
}

func registerConditionHelpers(L *lua.LState) {
	// CounterAtLeast("counter", value)
	L.SetGlobal("CounterAtLeast", L.NewFunction(func(L *lua.LState) int {
		counter := L.CheckString(1)
		value := L.CheckNumber(2)
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("counter_at_least"))
		tbl.RawSetString("counter", lua.LString(counter))
		tbl.RawSetString("value", value)
		L.Push(tbl)
		return 1
	}))

	// CounterBelow("counter", value)
	L.SetGlobal("CounterBelow", L.NewFunction(func(L *lua.LState) int {
		counter := L.CheckString(1)
		value := L.CheckNumber(2)
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("counter_below"))
		tbl.RawSetString("counter", lua.LString(counter))
		tbl.RawSetString("value", value)
		L.Push(tbl)
		return 1
	}))

	// LevelAtLeast(level)
	L.SetGlobal("LevelAtLeast", L.NewFunction(func(L *lua.LState) int {
		value := L.CheckNumber(1)
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("level_at_least"))
		tbl.RawSetString("value", value)
		L.Push(tbl)
		return 1
	}))

	// GoldAtLeast(amount)
	L.SetGlobal("GoldAtLeast", L.NewFunction(func(L *lua.LState) int {
		value := L.CheckNumber(1)
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("gold_at_least"))
		tbl.RawSetString("value", value)
		L.Push(tbl)
		return 1
	}))

	// ClassIs("class_id")
	L.SetGlobal("ClassIs", L.NewFunction(func(L *lua.LState) int {
		class := L.CheckString(1)
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("class_is"))
		tbl.RawSetString("class", lua.LString(class))
		L.Push(tbl)
		return 1
	}))

	// Not(condition)
	L.SetGlobal("Not", L.NewFunction(func(L *lua.LState) int {
		inner := L.CheckTable(1)
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("not"))
		tbl.RawSetString("inner", inner)
		L.Push(tbl)
		return 1
	}))
}
