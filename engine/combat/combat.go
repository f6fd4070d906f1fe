// Package combat resolves one exchange of a fight: the player's action, the
// defeat check, then the enemy's reply.
package combat

import (
	"fmt"

	"github.com/nathoo/ascend/engine/dice"
	"github.com/nathoo/ascend/engine/events"
	"github.com/nathoo/ascend/engine/state"
	"github.com/nathoo/ascend/types"
)

const (
	QiTechniqueCost  = 10
	QiTechniquePower = 15 // damage per cultivation level, before defense
	VictoryGold      = 20
	PillChance       = 25 // percent
	PillSpeedBonus   = 0.05
	FleeTarget       = 4 // d6 roll needed to escape

	// BanditID is the archetype counted toward banditsDefeated.
	BanditID = "bandit"
)

// Action is what the player does on their turn.
type Action int

const (
	ActionInvalid Action = iota // unrecognized menu choice; forfeits the turn
	ActionAttack
	ActionUseQi
	ActionDefend
	ActionFlee
)

// String returns a human-readable action name.
func (a Action) String() string {
	switch a {
	case ActionAttack:
		return "attack"
	case ActionUseQi:
		return "qi"
	case ActionDefend:
		return "defend"
	case ActionFlee:
		return "flee"
	default:
		return "invalid"
	}
}

// ActionForChoice maps a combat menu number to an action.
// Numbers outside the menu are ActionInvalid.
func ActionForChoice(n int) Action {
	switch n {
	case 1:
		return ActionAttack
	case 2:
		return ActionUseQi
	case 3:
		return ActionDefend
	case 4:
		return ActionFlee
	default:
		return ActionInvalid
	}
}

// ActionForVerb maps a parsed command verb to an action.
func ActionForVerb(verb string) (Action, bool) {
	switch verb {
	case "attack":
		return ActionAttack, true
	case "qi":
		return ActionUseQi, true
	case "defend":
		return ActionDefend, true
	case "flee":
		return ActionFlee, true
	default:
		return ActionInvalid, false
	}
}

// Outcome is the state of the fight after a turn.
type Outcome int

const (
	Ongoing Outcome = iota
	Victory
	Defeat
	BossDefeated
	Fled
)

// String returns a human-readable outcome name.
func (o Outcome) String() string {
	switch o {
	case Ongoing:
		return "ongoing"
	case Victory:
		return "victory"
	case Defeat:
		return "defeat"
	case BossDefeated:
		return "boss_defeated"
	case Fled:
		return "fled"
	default:
		return "unknown"
	}
}

// Terminal reports whether the fight is over.
func (o Outcome) Terminal() bool {
	return o != Ongoing
}

// EnemyMove is what the enemy did after the player's action.
type EnemyMove int

const (
	EnemyNone EnemyMove = iota // enemy did not act
	EnemyAttack
	EnemyBrace
)

// TurnResult describes everything that happened in one turn.
type TurnResult struct {
	Action      Action
	Outcome     Outcome
	DamageDealt int
	DamageTaken int
	EnemyMove   EnemyMove
	NotEnoughQi bool
	GoldGained  int
	PillFound   bool
	Events      []types.Event
	Output      []string
}

// DamageCalc computes damage: max(1, attack - defense).
func DamageCalc(attack, defense int) int {
	damage := attack - defense
	if damage < 1 {
		damage = 1
	}
	return damage
}

// ResolveTurn runs one turn. The enemy acts only if it survived the
// player's action, and each side's defeat is checked right after it is hit.
func ResolveTurn(p *types.Player, e *types.Enemy, action Action, src dice.Source) TurnResult {
	r := TurnResult{Action: action}

	if !state.Alive(p) {
		r.Outcome = Defeat
		return r
	}
	if !state.EnemyAlive(e) {
		r.Outcome = finishedOutcome(e)
		return r
	}

	switch action {
	case ActionAttack:
		r.DamageDealt = DamageCalc(p.Attack, e.Defense)
		e.Health = clampHealth(e.Health - r.DamageDealt)
		r.Output = append(r.Output, fmt.Sprintf("You strike the %s for %d damage.", e.Name, r.DamageDealt))

	case ActionUseQi:
		if p.Qi < QiTechniqueCost {
			r.NotEnoughQi = true
			r.Output = append(r.Output, fmt.Sprintf("Not enough Qi! (need %d, have %d) Your technique fizzles.", QiTechniqueCost, p.Qi))
			break
		}
		p.Qi -= QiTechniqueCost
		r.DamageDealt = DamageCalc(p.CultivationLevel*QiTechniquePower, e.Defense)
		e.Health = clampHealth(e.Health - r.DamageDealt)
		r.Output = append(r.Output, fmt.Sprintf("You channel your Qi into a palm strike! The %s takes %d damage.", e.Name, r.DamageDealt))

	case ActionDefend:
		r.Output = append(r.Output, "You raise your guard and steady your breathing.")

	case ActionFlee:
		roll := src.Roll(6)
		if roll >= FleeTarget {
			r.Outcome = Fled
			r.Output = append(r.Output, fmt.Sprintf("You turn and run! Roll: 1d6 → [%d]. You escape!", roll))
			r.Events = append(r.Events, events.New(events.PlayerFled, "enemy", e.ID, "roll", roll))
			return r
		}
		r.Output = append(r.Output, fmt.Sprintf("You try to run but can't escape! Roll: 1d6 → [%d]", roll))

	default:
		r.Output = append(r.Output, "You hesitate and lose your turn.")
	}

	if !state.EnemyAlive(e) {
		resolveVictory(p, e, src, &r)
		return r
	}

	enemyTurn(p, e, src, &r)
	return r
}

func resolveVictory(p *types.Player, e *types.Enemy, src dice.Source, r *TurnResult) {
	if e.IsBoss {
		r.Outcome = BossDefeated
		r.Output = append(r.Output, fmt.Sprintf("The %s collapses. Its dark Qi scatters on the wind!", e.Name))
		r.Events = append(r.Events, events.New(events.BossDefeated, "enemy", e.ID))
		return
	}

	r.Outcome = Victory
	r.GoldGained = VictoryGold
	p.Gold += VictoryGold
	if e.ID == BanditID {
		p.BanditsDefeated++
	}
	r.Output = append(r.Output, fmt.Sprintf("You defeated the %s! You gain %d gold.", e.Name, VictoryGold))
	r.Events = append(r.Events, events.New(events.EnemyDefeated, "enemy", e.ID, "gold", VictoryGold))

	if dice.Chance(src, PillChance) {
		r.PillFound = true
		p.QiPills++
		p.CultivationSpeed += PillSpeedBonus
		r.Output = append(r.Output, fmt.Sprintf("You found a Qi pill! Cultivation speed is now %.2f.", p.CultivationSpeed))
		r.Events = append(r.Events, events.New(events.QiPillFound, "speed", p.CultivationSpeed))
	}
}

// enemyMoveWeights gives Attack and Brace equal odds.
var enemyMoveWeights = []int{1, 1}

func enemyTurn(p *types.Player, e *types.Enemy, src dice.Source, r *TurnResult) {
	if src.WeightedSelect(enemyMoveWeights) == 1 {
		r.EnemyMove = EnemyBrace
		r.Output = append(r.Output, fmt.Sprintf("The %s braces itself.", e.Name))
		return
	}

	r.EnemyMove = EnemyAttack
	r.DamageTaken = DamageCalc(e.Attack, p.Defense/2)
	p.Health = clampHealth(p.Health - r.DamageTaken)
	r.Output = append(r.Output, fmt.Sprintf("The %s attacks you for %d damage.", e.Name, r.DamageTaken))

	if !state.Alive(p) {
		r.Outcome = Defeat
		r.Output = append(r.Output, fmt.Sprintf("You have been slain by the %s.", e.Name))
		r.Events = append(r.Events, events.New(events.PlayerDied, "enemy", e.ID))
	}
}

func finishedOutcome(e *types.Enemy) Outcome {
	if e.IsBoss {
		return BossDefeated
	}
	return Victory
}

func clampHealth(h int) int {
	if h < 0 {
		return 0
	}
	return h
}
