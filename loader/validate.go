package loader

import (
	"fmt"
	"os"
	"strings"

	"github.com/nathoo/ascend/engine/state"
	"github.com/nathoo/ascend/types"
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

// Classes every game must define.
var requiredClasses = []types.Class{
	types.ClassMartialArtist,
	types.ClassQiCultivator,
	types.ClassAssassin,
}

// Known condition types.
var validConditionTypes = map[string]bool{
	"counter_at_least": true,
	"counter_below":    true,
	"level_at_least":   true,
	"gold_at_least":    true,
	"class_is":         true,
	"not":              true,
}

// Counters a condition may read.
var validCounters = map[string]bool{
	"bandits_defeated":  true,
	"qi_pills":          true,
	"gold":              true,
	"qi":                true,
	"level":             true,
	"cultivation_level": true,
}

// Verbs a location may offer.
var validActions = map[string]bool{
	"explore": true, "rest": true, "shop": true, "buy": true,
	"talk": true, "train": true, "breakthrough": true,
}

// validate checks the compiled defs for completeness and consistency.
func validate(defs *state.Defs) error {
	ve := &ValidationError{}
	errf := func(format string, args ...any) {
		ve.Errors = append(ve.Errors, fmt.Sprintf(format, args...))
	}

	// Game.
	if defs.Game.Title == "" {
		errf("Game.Title is required")
	}
	if defs.Game.Start == "" {
		errf("Game.Start is required")
	} else if _, ok := defs.Locations[defs.Game.Start]; !ok {
		errf("start location %q not found in defined locations", defs.Game.Start)
	}
	if defs.Game.StartGold < 0 {
		errf("Game.start_gold must not be negative")
	}
	if defs.Game.RestHealth <= 0 {
		errf("Game.rest_health must be positive")
	}
	if defs.Game.AscensionLevel < 2 {
		errf("Game.ascension_level must be at least 2")
	}

	// Classes.
	for _, c := range requiredClasses {
		def, ok := defs.Classes[c]
		if !ok {
			errf("class %q is not defined", c)
			continue
		}
		if def.Health <= 0 {
			errf("class %q must have positive health", c)
		}
	}

	// Enemies.
	if len(defs.Archetypes) == 0 {
		errf("at least one Enemy is required")
	}
	seen := map[string]bool{}
	for _, a := range defs.Archetypes {
		if seen[a.ID] {
			errf("duplicate enemy %q", a.ID)
		}
		seen[a.ID] = true
		if a.Health.Base <= 0 {
			errf("enemy %q must have positive base health", a.ID)
		}
	}
	if defs.Boss.ID == "" {
		errf("a Boss is required")
	} else {
		if defs.Boss.Health <= 0 {
			errf("boss %q must have positive health", defs.Boss.ID)
		}
		if defs.Boss.MinLevel < 1 {
			errf("boss %q must set min_level", defs.Boss.ID)
		}
	}

	// Encounters.
	if defs.Encounters.EnemyWeight <= 0 {
		errf("Encounters.enemy must be positive")
	}
	if defs.Encounters.NPCWeight < 0 {
		errf("Encounters.npc must not be negative")
	}
	if defs.Encounters.NPCWeight > 0 && len(defs.NPCs) == 0 {
		ve.Warnings = append(ve.Warnings, "Encounters.npc is set but no NPC is defined")
	}

	// Tiers: every level below ascension must be breakable.
	for level := 1; level < defs.Game.AscensionLevel; level++ {
		if _, ok := defs.Tiers[level]; !ok {
			errf("no Tier defined for level %d", level)
		}
	}
	for level, tier := range defs.Tiers {
		if tier.Chance < 0 || tier.Chance > 100 {
			errf("tier %d chance %d is outside 0..100", level, tier.Chance)
		}
		if tier.QiRequired <= 0 {
			errf("tier %d must require qi", level)
		}
	}

	// Gear.
	for _, g := range defs.Gear {
		if g.Cost <= 0 {
			errf("gear %q must have a positive cost", g.ID)
		}
		if g.Name == "" {
			errf("gear %q needs a name", g.ID)
		}
	}

	// NPCs.
	for id, npc := range defs.NPCs {
		if npc.Quest.Reward < 0 {
			errf("npc %q quest reward must not be negative", id)
		}
		if len(npc.Quest.Conditions) == 0 {
			ve.Warnings = append(ve.Warnings, fmt.Sprintf(
				"npc %q quest has no conditions and completes on first talk", id))
		}
		validateConditions(npc.Quest.Conditions, ve)
	}

	// Locations.
	for id, loc := range defs.Locations {
		for _, a := range loc.Actions {
			if !validActions[a] {
				errf("location %q offers unknown action %q", id, a)
			}
		}
	}

	for _, w := range ve.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}

	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}

func validateConditions(conditions []types.Condition, ve *ValidationError) {
	for _, cond := range conditions {
		if !validConditionTypes[cond.Type] {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"unknown condition type %q", cond.Type))
			continue
		}
		switch cond.Type {
		case "counter_at_least", "counter_below":
			counter, _ := cond.Params["counter"].(string)
			if !validCounters[counter] {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"condition %s references unknown counter %q", cond.Type, counter))
			}
		case "not":
			if cond.Inner != nil {
				validateConditions([]types.Condition{*cond.Inner}, ve)
			}
		}
	}
}
