// Package state holds the immutable game definitions and constructs the
// mutable records (player, NPCs) a session owns.
package state

import (
	"sort"
	"strconv"
	"strings"

	"github.com/nathoo/ascend/types"
)

// DefaultName is used when the player leaves the name blank.
const DefaultName = "Wanderer"

// Defs holds the immutable game definitions loaded from Lua.
type Defs struct {
	Game       types.GameDef
	Classes    map[types.Class]types.ClassDef
	Archetypes []types.ArchetypeDef // in declaration order
	Boss       types.BossDef
	Encounters types.EncounterTable
	Tiers      map[int]types.TierDef // keyed by the level being broken out of
	Gear       []types.GearDef       // in declaration order
	NPCs       map[string]types.NPCDef
	Locations  map[string]types.LocationDef
}

// NewPlayer creates a player with the base stats of the given class.
// ok is false if the class is not defined.
func NewPlayer(name string, class types.Class, defs *Defs) (*types.Player, bool) {
	def, ok := defs.Classes[class]
	if !ok {
		return nil, false
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultName
	}
	return &types.Player{
		Name:             name,
		Class:            class,
		Health:           def.Health,
		Attack:           def.Attack,
		Defense:          def.Defense,
		Qi:               def.Qi,
		CultivationLevel: 1,
		CultivationSpeed: 1.0,
		Gold:             defs.Game.StartGold,
	}, true
}

// ClassList returns the class definitions in menu order.
func ClassList(defs *Defs) []types.ClassDef {
	list := make([]types.ClassDef, 0, len(defs.Classes))
	for _, c := range defs.Classes {
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Order < list[j].Order })
	return list
}

// ParseClass resolves a menu digit, class ID or display name to a class.
func ParseClass(input string, defs *Defs) (types.Class, bool) {
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" {
		return "", false
	}
	list := ClassList(defs)
	if n, err := strconv.Atoi(input); err == nil {
		if n >= 1 && n <= len(list) {
			return list[n-1].ID, true
		}
		return "", false
	}
	normalized := strings.ReplaceAll(input, " ", "_")
	for _, c := range list {
		if string(c.ID) == normalized || strings.ToLower(c.Name) == input {
			return c.ID, true
		}
	}
	return "", false
}

// NewNPC creates the runtime NPC, with its quest not yet completed.
func NewNPC(def types.NPCDef) *types.NPC {
	return &types.NPC{
		ID:       def.ID,
		Name:     def.Name,
		Greeting: def.Greeting,
		Thanks:   def.Thanks,
		Quest: &types.Quest{
			ID:          def.Quest.ID,
			Description: def.Quest.Description,
			Reward:      def.Quest.Reward,
			Conditions:  def.Quest.Conditions,
		},
	}
}

// NPCIDs returns the defined NPC IDs in sorted order.
func NPCIDs(defs *Defs) []string {
	ids := make([]string, 0, len(defs.NPCs))
	for id := range defs.NPCs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// GetCounter returns a named player counter. Unknown counters return 0.
func GetCounter(p *types.Player, name string) int {
	switch name {
	case "bandits_defeated":
		return p.BanditsDefeated
	case "qi_pills":
		return p.QiPills
	case "gold":
		return p.Gold
	case "qi":
		return p.Qi
	case "level", "cultivation_level":
		return p.CultivationLevel
	default:
		return 0
	}
}

// Alive reports whether the player can keep acting.
func Alive(p *types.Player) bool {
	return p.Health > 0
}

// EnemyAlive reports whether the enemy can keep acting.
func EnemyAlive(e *types.Enemy) bool {
	return e.Health > 0
}
