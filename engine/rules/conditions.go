// Package rules evaluates content-defined conditions against the player.
package rules

import (
	"github.com/nathoo/ascend/engine/state"
	"github.com/nathoo/ascend/types"
)

// EvalCondition evaluates a single condition against the player.
// Unknown condition types are false.
func EvalCondition(c types.Condition, p *types.Player) bool {
	switch c.Type {
	case "counter_at_least":
		counter, _ := c.Params["counter"].(string)
		return state.GetCounter(p, counter) >= toInt(c.Params["value"])

	case "counter_below":
		counter, _ := c.Params["counter"].(string)
		return state.GetCounter(p, counter) < toInt(c.Params["value"])

	case "level_at_least":
		return p.CultivationLevel >= toInt(c.Params["value"])

	case "gold_at_least":
		return p.Gold >= toInt(c.Params["value"])

	case "class_is":
		class, _ := c.Params["class"].(string)
		return string(p.Class) == class

	case "not":
		if c.Inner == nil {
			return true
		}
		return !EvalCondition(*c.Inner, p)

	default:
		return false
	}
}

// EvalAllConditions returns true if all conditions pass (AND logic).
// An empty condition list is vacuously true.
func EvalAllConditions(conditions []types.Condition, p *types.Player) bool {
	for _, c := range conditions {
		if !EvalCondition(c, p) {
			return false
		}
	}
	return true
}

// toInt converts an any value to int, handling float64 from Lua.
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
