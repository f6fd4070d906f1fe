package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nathoo/ascend/engine/progression"
	"github.com/nathoo/ascend/engine/state"
	"github.com/nathoo/ascend/types"
)

// describeLocation produces the standard location description output.
func (e *Engine) describeLocation() []string {
	loc, ok := e.Defs.Locations[e.Location]
	if !ok {
		return []string{"You are somewhere unknown."}
	}
	out := []string{"== " + loc.Name + " ==", loc.Description}
	if len(loc.Actions) > 0 {
		out = append(out, "You can: "+strings.Join(loc.Actions, ", ")+".")
	}
	if others := e.otherLocations(); len(others) > 0 {
		out = append(out, "Paths lead to: "+strings.Join(others, ", ")+".")
	}
	return out
}

// locationIDs returns all location IDs in deterministic order.
func (e *Engine) locationIDs() []string {
	ids := make([]string, 0, len(e.Defs.Locations))
	for id := range e.Defs.Locations {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (e *Engine) otherLocations() []string {
	var ids []string
	for _, id := range e.locationIDs() {
		if id != e.Location {
			ids = append(ids, id)
		}
	}
	return ids
}

// StatusLines renders the character sheet as plain text.
func (e *Engine) StatusLines() []string {
	p := e.Player
	if p == nil {
		return []string{"You have not yet begun your journey."}
	}
	out := []string{
		fmt.Sprintf("%s the %s, cultivation level %d", p.Name, e.className(p.Class), p.CultivationLevel),
		fmt.Sprintf("HP %d  ATK %d  DEF %d  Qi %d", p.Health, p.Attack, p.Defense, p.Qi),
		fmt.Sprintf("Gold %d  Speed %.2f  Qi pills %d  Bandits defeated %d", p.Gold, p.CultivationSpeed, p.QiPills, p.BanditsDefeated),
	}
	if tier, ok := progression.Requirement(p.CultivationLevel, e.Defs); ok {
		out = append(out, fmt.Sprintf("Next breakthrough: %d Qi, %d%% chance", tier.QiRequired, tier.Chance))
	} else {
		out = append(out, "You stand at the peak of cultivation.")
	}
	for _, id := range state.NPCIDs(e.Defs) {
		npc := e.NPCs[id]
		if npc.Quest == nil {
			continue
		}
		mark := "in progress"
		if npc.Quest.Completed {
			mark = "done"
		}
		out = append(out, fmt.Sprintf("Quest (%s): %s [%s]", npc.Name, npc.Quest.Description, mark))
	}
	return out
}

func (e *Engine) className(c types.Class) string {
	if def, ok := e.Defs.Classes[c]; ok {
		return def.Name
	}
	return string(c)
}

func (e *Engine) shopLines() []string {
	out := []string{"The merchant spreads out his wares:"}
	for i, g := range e.Defs.Gear {
		var gains []string
		if g.Attack != 0 {
			gains = append(gains, fmt.Sprintf("+%d attack", g.Attack))
		}
		if g.Qi != 0 {
			gains = append(gains, fmt.Sprintf("+%d Qi", g.Qi))
		}
		out = append(out, fmt.Sprintf("  [%d] %s - %d gold (%s)", i+1, g.Name, g.Cost, strings.Join(gains, ", ")))
	}
	out = append(out, fmt.Sprintf("You have %d gold. Type 'buy <number>' to purchase.", e.Player.Gold))
	return out
}

var verbHelp = map[string]string{
	"explore":      "explore          venture out and see what you meet",
	"rest":         "rest             recover your health at the inn",
	"shop":         "shop             see the merchant's wares",
	"buy":          "buy <item>       purchase gear by number or name",
	"talk":         "talk [npc]       speak with the villagers",
	"train":        "train [cycles]   meditate to gather Qi",
	"breakthrough": "breakthrough     attempt to reach the next level",
}

func (e *Engine) helpLines() []string {
	out := []string{"Commands:"}
	for _, a := range e.actionsHere() {
		if h, ok := verbHelp[a]; ok {
			out = append(out, "  "+h)
		}
	}
	out = append(out,
		"  go <place>       travel ("+strings.Join(e.otherLocations(), ", ")+")",
		"  look             describe your surroundings",
		"  status           show your character sheet",
		"  quit             end the session",
	)
	return out
}
