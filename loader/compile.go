// Package loader compiles the Lua game tables into Go structs at startup.
// The Lua VM is discarded after loading; nothing runs Lua during play.
package loader

import (
	"fmt"

	"github.com/nathoo/ascend/engine/state"
	"github.com/nathoo/ascend/types"
	lua "github.com/yuin/gopher-lua"
)

// rawDef holds an ID'd constructor body before compilation.
type rawDef struct {
	id    string
	table *lua.LTable
	order int
}

// rawTier holds a breakthrough tier before compilation.
type rawTier struct {
	level int
	table *lua.LTable
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

// getInt returns an int field from a Lua table, or 0 if missing.
func getInt(tbl *lua.LTable, key string) int {
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

// getStrings returns the array part of a table field as strings.
func getStrings(tbl *lua.LTable, key string) []string {
	arr := getTable(tbl, key)
	if arr == nil {
		return nil
	}
	var out []string
	for i := 1; i <= arr.MaxN(); i++ {
		if s, ok := arr.RawGetInt(i).(lua.LString); ok {
			out = append(out, string(s))
		}
	}
	return out
}

// getScaled reads either `{ base, per_level }` or a plain number.
func getScaled(tbl *lua.LTable, key string) types.ScaledStat {
	switch v := tbl.RawGetString(key).(type) {
	case lua.LNumber:
		return types.ScaledStat{Base: int(v)}
	case *lua.LTable:
		base, _ := v.RawGetInt(1).(lua.LNumber)
		per, _ := v.RawGetInt(2).(lua.LNumber)
		return types.ScaledStat{Base: int(base), PerLevel: int(per)}
	default:
		return types.ScaledStat{}
	}
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
		maxN := val.MaxN()
		if maxN > 0 {
			arr := make([]any, 0, maxN)
			for i := 1; i <= maxN; i++ {
				arr = append(arr, toGoValue(val.RawGetInt(i)))
			}
			return arr
		}
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

// compile converts all collected Lua data into a Defs struct.
func compile(coll *collector) (*state.Defs, error) {
	defs := &state.Defs{
		Classes:   map[types.Class]types.ClassDef{},
		Tiers:     map[int]types.TierDef{},
		NPCs:      map[string]types.NPCDef{},
		Locations: map[string]types.LocationDef{},
	}

	if coll.game == nil {
		return nil, fmt.Errorf("no Game{} definition found")
	}
	defs.Game = compileGame(coll.game)

	for _, raw := range coll.classes {
		c := compileClass(raw)
		if _, dup := defs.Classes[c.ID]; dup {
			return nil, fmt.Errorf("duplicate class %q", c.ID)
		}
		defs.Classes[c.ID] = c
	}

	for _, raw := range coll.enemies {
		defs.Archetypes = append(defs.Archetypes, compileArchetype(raw))
	}

	switch len(coll.bosses) {
	case 0:
	case 1:
		defs.Boss = compileBoss(coll.bosses[0])
	default:
		return nil, fmt.Errorf("expected one Boss, found %d", len(coll.bosses))
	}

	if coll.encounters != nil {
		defs.Encounters = types.EncounterTable{
			EnemyWeight: getInt(coll.encounters, "enemy"),
			NPCWeight:   getInt(coll.encounters, "npc"),
		}
	}

	for _, raw := range coll.tiers {
		if _, dup := defs.Tiers[raw.level]; dup {
			return nil, fmt.Errorf("duplicate tier for level %d", raw.level)
		}
		defs.Tiers[raw.level] = types.TierDef{
			Level:      raw.level,
			QiRequired: getInt(raw.table, "qi"),
			Chance:     getInt(raw.table, "chance"),
			Fatal:      getBool(raw.table, "fatal", false),
		}
	}

	for _, raw := range coll.gear {
		defs.Gear = append(defs.Gear, types.GearDef{
			ID:     raw.id,
			Name:   getString(raw.table, "name"),
			Cost:   getInt(raw.table, "cost"),
			Attack: getInt(raw.table, "attack"),
			Qi:     getInt(raw.table, "qi"),
			Order:  raw.order,
		})
	}

	for _, raw := range coll.npcs {
		npc, err := compileNPC(raw)
		if err != nil {
			return nil, fmt.Errorf("compiling npc %s: %w", raw.id, err)
		}
		defs.NPCs[npc.ID] = npc
	}

	for _, raw := range coll.locations {
		defs.Locations[raw.id] = types.LocationDef{
			ID:          raw.id,
			Name:        getString(raw.table, "name"),
			Description: getString(raw.table, "description"),
			Actions:     getStrings(raw.table, "actions"),
		}
	}

	return defs, nil
}

func compileGame(tbl *lua.LTable) types.GameDef {
	return types.GameDef{
		Title:          getString(tbl, "title"),
		Author:         getString(tbl, "author"),
		Version:        getString(tbl, "version"),
		Start:          getString(tbl, "start"),
		Intro:          getString(tbl, "intro"),
		StartGold:      getInt(tbl, "start_gold"),
		RestHealth:     getInt(tbl, "rest_health"),
		AscensionLevel: getInt(tbl, "ascension_level"),
	}
}

func compileClass(raw rawDef) types.ClassDef {
	tbl := raw.table
	return types.ClassDef{
		ID:          types.Class(raw.id),
		Name:        getString(tbl, "name"),
		Description: getString(tbl, "description"),
		Health:      getInt(tbl, "health"),
		Attack:      getInt(tbl, "attack"),
		Defense:     getInt(tbl, "defense"),
		Qi:          getInt(tbl, "qi"),
		Order:       raw.order,
	}
}

func compileArchetype(raw rawDef) types.ArchetypeDef {
	tbl := raw.table
	return types.ArchetypeDef{
		ID:      raw.id,
		Name:    getString(tbl, "name"),
		Health:  getScaled(tbl, "health"),
		Attack:  getScaled(tbl, "attack"),
		Defense: getScaled(tbl, "defense"),
		Order:   raw.order,
	}
}

func compileBoss(raw rawDef) types.BossDef {
	tbl := raw.table
	return types.BossDef{
		ID:       raw.id,
		Name:     getString(tbl, "name"),
		Health:   getInt(tbl, "health"),
		Attack:   getInt(tbl, "attack"),
		Defense:  getInt(tbl, "defense"),
		MinLevel: getInt(tbl, "min_level"),
	}
}

func compileNPC(raw rawDef) (types.NPCDef, error) {
	tbl := raw.table
	npc := types.NPCDef{
		ID:       raw.id,
		Name:     getString(tbl, "name"),
		Greeting: getString(tbl, "greeting"),
		Thanks:   getString(tbl, "thanks"),
	}
	q := getTable(tbl, "quest")
	if q == nil {
		return npc, fmt.Errorf("missing quest table")
	}
	npc.Quest = types.QuestDef{
		ID:          getString(q, "id"),
		Description: getString(q, "description"),
		Reward:      getInt(q, "reward"),
	}
	if conds := getTable(q, "conditions"); conds != nil {
		npc.Quest.Conditions = compileConditions(conds)
	}
	return npc, nil
}

func compileConditions(tbl *lua.LTable) []types.Condition {
	var conditions []types.Condition
	for i := 1; i <= tbl.MaxN(); i++ {
		if condTbl, ok := tbl.RawGetInt(i).(*lua.LTable); ok {
			conditions = append(conditions, compileCondition(condTbl))
		}
	}
	return conditions
}

func compileCondition(tbl *lua.LTable) types.Condition {
	condType := getString(tbl, "type")

	if condType == "not" {
		if innerTbl := getTable(tbl, "inner"); innerTbl != nil {
			inner := compileCondition(innerTbl)
			return types.Condition{Type: "not", Inner: &inner}
		}
	}

	params := map[string]any{}
	tbl.ForEach(func(k, v lua.LValue) {
		if ks, ok := k.(lua.LString); ok && string(ks) != "type" {
			params[string(ks)] = toGoValue(v)
		}
	})

	return types.Condition{Type: condType, Params: params}
}
