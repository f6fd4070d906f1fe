// Package encounter decides what the player meets in the wilds and builds
// enemies scaled to the player's cultivation level.
package encounter

import (
	"github.com/nathoo/ascend/engine/dice"
	"github.com/nathoo/ascend/engine/state"
	"github.com/nathoo/ascend/types"
)

// Kind is the type of an encounter.
type Kind int

const (
	KindEnemy Kind = iota
	KindNPC
	KindBoss
)

// String returns the encounter kind name.
func (k Kind) String() string {
	switch k {
	case KindEnemy:
		return "enemy"
	case KindNPC:
		return "npc"
	case KindBoss:
		return "boss"
	default:
		return "unknown"
	}
}

// Encounter is the outcome of a trip into the wilds. Enemy is set for
// KindEnemy and KindBoss, NPCID for KindNPC.
type Encounter struct {
	Kind  Kind
	Enemy *types.Enemy
	NPCID string
}

// Generate produces the next encounter for the player.
//
// Once the player reaches the boss level every encounter is the boss and no
// dice are rolled. Below it a d100 against the encounter weights picks an
// enemy or an NPC, and enemies are drawn uniformly from the archetypes.
func Generate(p *types.Player, defs *state.Defs, src dice.Source) Encounter {
	if p.CultivationLevel >= defs.Boss.MinLevel {
		return Encounter{Kind: KindBoss, Enemy: NewBoss(defs.Boss)}
	}

	npcIDs := state.NPCIDs(defs)
	total := defs.Encounters.EnemyWeight + defs.Encounters.NPCWeight
	roll := src.Roll(total)
	if roll > defs.Encounters.EnemyWeight && len(npcIDs) > 0 {
		return Encounter{Kind: KindNPC, NPCID: pickNPC(npcIDs, src)}
	}

	def := defs.Archetypes[src.WeightedSelect(equalWeights(len(defs.Archetypes)))]
	return Encounter{Kind: KindEnemy, Enemy: Scale(def, p.CultivationLevel)}
}

// Scale builds an enemy from an archetype: each stat is base + perLevel*scale.
func Scale(def types.ArchetypeDef, scale int) *types.Enemy {
	return &types.Enemy{
		ID:      def.ID,
		Name:    def.Name,
		Health:  def.Health.Base + def.Health.PerLevel*scale,
		Attack:  def.Attack.Base + def.Attack.PerLevel*scale,
		Defense: def.Defense.Base + def.Defense.PerLevel*scale,
	}
}

// NewBoss builds a fresh copy of the boss.
func NewBoss(def types.BossDef) *types.Enemy {
	return &types.Enemy{
		ID:      def.ID,
		Name:    def.Name,
		Health:  def.Health,
		Attack:  def.Attack,
		Defense: def.Defense,
		IsBoss:  true,
	}
}

func pickNPC(ids []string, src dice.Source) string {
	if len(ids) == 1 {
		return ids[0]
	}
	return ids[src.WeightedSelect(equalWeights(len(ids)))]
}

func equalWeights(n int) []int {
	w := make([]int, n)
	for i := range w {
		w[i] = 1
	}
	return w
}
