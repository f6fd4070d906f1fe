// Package world implements the village: NPC dialogue and quests, the gear
// shop, and resting.
package world

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nathoo/ascend/engine/events"
	"github.com/nathoo/ascend/engine/rules"
	"github.com/nathoo/ascend/engine/state"
	"github.com/nathoo/ascend/types"
)

// DialogueOutcome is the result kind of talking to an NPC.
type DialogueOutcome int

const (
	QuestInProgress DialogueOutcome = iota
	QuestCompleted
	QuestAlreadyCompleted
)

// DialogueResult describes a conversation with an NPC.
type DialogueResult struct {
	Outcome DialogueOutcome
	Reward  int    // gold granted, QuestCompleted only
	Text    string // quest text, QuestInProgress only
	Events  []types.Event
	Output  []string
}

// TalkToNPC checks the NPC's quest. An incomplete quest whose conditions
// hold is completed exactly once and pays its reward.
func TalkToNPC(p *types.Player, npc *types.NPC) DialogueResult {
	q := npc.Quest
	if q == nil {
		return DialogueResult{
			Outcome: QuestAlreadyCompleted,
			Output:  []string{fmt.Sprintf("%s nods at you politely.", npc.Name)},
		}
	}

	if q.Completed {
		return DialogueResult{
			Outcome: QuestAlreadyCompleted,
			Output:  []string{fmt.Sprintf("%s: '%s'", npc.Name, npc.Thanks)},
		}
	}

	if rules.EvalAllConditions(q.Conditions, p) {
		q.Completed = true
		p.Gold += q.Reward
		return DialogueResult{
			Outcome: QuestCompleted,
			Reward:  q.Reward,
			Output: []string{
				fmt.Sprintf("%s: '%s'", npc.Name, npc.Thanks),
				fmt.Sprintf("Quest complete! You receive %d gold.", q.Reward),
			},
			Events: []types.Event{events.New(events.QuestCompleted, "quest", q.ID, "npc", npc.ID, "reward", q.Reward)},
		}
	}

	out := []string{fmt.Sprintf("%s: '%s'", npc.Name, npc.Greeting)}
	out = append(out, "Quest: "+q.Description)
	if progress := questProgress(p, q); progress != "" {
		out = append(out, progress)
	}
	return DialogueResult{Outcome: QuestInProgress, Text: q.Description, Output: out}
}

// questProgress renders "(2/3 bandits_defeated)" style progress for counter
// conditions.
func questProgress(p *types.Player, q *types.Quest) string {
	var parts []string
	for _, c := range q.Conditions {
		if c.Type != "counter_at_least" {
			continue
		}
		counter, _ := c.Params["counter"].(string)
		need := toInt(c.Params["value"])
		parts = append(parts, fmt.Sprintf("%d/%d %s", state.GetCounter(p, counter), need, strings.ReplaceAll(counter, "_", " ")))
	}
	if len(parts) == 0 {
		return ""
	}
	return "Progress: " + strings.Join(parts, ", ")
}

// PurchaseResult describes a successful purchase.
type PurchaseResult struct {
	Item   types.GearDef
	Events []types.Event
	Output []string
}

// FindGear resolves a shop choice: a menu number, an item ID, or a name.
func FindGear(choice string, defs *state.Defs) (types.GearDef, bool) {
	choice = strings.ToLower(strings.TrimSpace(choice))
	if choice == "" {
		return types.GearDef{}, false
	}
	if n, err := strconv.Atoi(choice); err == nil {
		if n >= 1 && n <= len(defs.Gear) {
			return defs.Gear[n-1], true
		}
		return types.GearDef{}, false
	}
	normalized := strings.ReplaceAll(choice, " ", "_")
	for _, g := range defs.Gear {
		if g.ID == normalized || strings.ToLower(g.Name) == choice {
			return g, true
		}
	}
	return types.GearDef{}, false
}

// BuyGear buys the chosen item. Either gold drops by exactly the price and
// the stat bonus is granted, or nothing changes and an error is returned.
func BuyGear(p *types.Player, choice string, defs *state.Defs) (PurchaseResult, error) {
	item, ok := FindGear(choice, defs)
	if !ok {
		return PurchaseResult{}, fmt.Errorf("%w: %q", ErrUnknownItem, choice)
	}
	if p.Gold < item.Cost {
		return PurchaseResult{}, &InsufficientError{Resource: "gold", Have: p.Gold, Need: item.Cost}
	}

	p.Gold -= item.Cost
	p.Attack += item.Attack
	p.Qi += item.Qi

	var gains []string
	if item.Attack != 0 {
		gains = append(gains, fmt.Sprintf("+%d attack", item.Attack))
	}
	if item.Qi != 0 {
		gains = append(gains, fmt.Sprintf("+%d Qi", item.Qi))
	}
	return PurchaseResult{
		Item: item,
		Output: []string{fmt.Sprintf("You bought the %s for %d gold (%s).",
			item.Name, item.Cost, strings.Join(gains, ", "))},
		Events: []types.Event{events.New(events.GearPurchased, "item", item.ID, "cost", item.Cost)},
	}, nil
}

// Rest sets the player's health to the village's flat rest value,
// regardless of class maximum.
func Rest(p *types.Player, defs *state.Defs) types.Event {
	p.Health = defs.Game.RestHealth
	return events.New(events.Rested, "health", p.Health)
}

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
