// Package progression implements Qi training and breakthrough attempts.
package progression

import (
	"fmt"
	"math"
	"time"

	"github.com/nathoo/ascend/engine/dice"
	"github.com/nathoo/ascend/engine/events"
	"github.com/nathoo/ascend/engine/state"
	"github.com/nathoo/ascend/types"
)

// FailureQiLoss is the fraction of qi lost on a survivable failed breakthrough.
const FailureQiLoss = 0.3

// BaseQiPerTick is the qi gained per training tick at speed 1.0.
const BaseQiPerTick = 1.0

// ApplyTrainingTick adds round(BaseQiPerTick * cultivationSpeed) qi and
// returns the amount gained.
func ApplyTrainingTick(p *types.Player) int {
	gain := int(math.Round(BaseQiPerTick * p.CultivationSpeed))
	if gain < 0 {
		gain = 0
	}
	p.Qi += gain
	return gain
}

// TrainingInterval is the real-time pause between ticks. Faster
// cultivators tick sooner; the pacing has no effect on the rules.
func TrainingInterval(p *types.Player, base time.Duration) time.Duration {
	if p.CultivationSpeed <= 0 {
		return base
	}
	return time.Duration(float64(base) / p.CultivationSpeed)
}

// Outcome is the result kind of a breakthrough attempt.
type Outcome int

const (
	Declined Outcome = iota
	InsufficientQi
	AtPeak // no tier defined for the current level
	LeveledUp
	Ascended
	FailedRetryable
	FatalFailure
)

// String returns a human-readable outcome name.
func (o Outcome) String() string {
	switch o {
	case Declined:
		return "declined"
	case InsufficientQi:
		return "insufficient_qi"
	case AtPeak:
		return "at_peak"
	case LeveledUp:
		return "leveled_up"
	case Ascended:
		return "ascended"
	case FailedRetryable:
		return "failed"
	case FatalFailure:
		return "fatal_failure"
	default:
		return "unknown"
	}
}

// Terminal reports whether the outcome ends the session.
func (o Outcome) Terminal() bool {
	return o == Ascended || o == FatalFailure
}

// Result describes a breakthrough attempt.
type Result struct {
	Outcome    Outcome
	Level      int // level after the attempt
	QiRequired int
	Chance     int
	QiLost     int
	Events     []types.Event
	Output     []string
}

// Requirement returns the tier for breaking out of the given level.
// ok is false when the level is at or beyond the top of the table.
func Requirement(level int, defs *state.Defs) (types.TierDef, bool) {
	tier, ok := defs.Tiers[level]
	if !ok || tier.Chance <= 0 {
		return types.TierDef{}, false
	}
	return tier, true
}

// AttemptBreakthrough tries to raise the player's cultivation level.
// Declining, lacking qi, or having no tier left leaves the player untouched
// and rolls no dice.
func AttemptBreakthrough(p *types.Player, proceed bool, defs *state.Defs, src dice.Source) Result {
	r := Result{Level: p.CultivationLevel}

	tier, ok := Requirement(p.CultivationLevel, defs)
	if !ok {
		r.Outcome = AtPeak
		r.Output = append(r.Output, "You stand at the peak of cultivation. There is nowhere higher to climb.")
		return r
	}
	r.QiRequired = tier.QiRequired
	r.Chance = tier.Chance

	if !proceed {
		r.Outcome = Declined
		r.Output = append(r.Output, "You decide to wait and refine your foundation.")
		return r
	}

	if p.Qi < tier.QiRequired {
		r.Outcome = InsufficientQi
		r.Output = append(r.Output, fmt.Sprintf("Not enough Qi. You need %d, you have %d.", tier.QiRequired, p.Qi))
		return r
	}

	roll := src.Roll(100)
	r.Events = append(r.Events, events.New(events.BreakthroughTried,
		"level", p.CultivationLevel, "chance", tier.Chance, "roll", roll))

	if roll <= tier.Chance {
		p.CultivationLevel++
		p.Qi = 0
		r.Level = p.CultivationLevel
		if p.CultivationLevel >= defs.Game.AscensionLevel {
			r.Outcome = Ascended
			r.Output = append(r.Output, "Heaven and earth tremble. You shed your mortal shell and ascend to immortality!")
			r.Events = append(r.Events, events.New(events.Ascended, "level", p.CultivationLevel))
			return r
		}
		r.Outcome = LeveledUp
		r.Output = append(r.Output, fmt.Sprintf("Breakthrough! You have reached cultivation level %d.", p.CultivationLevel))
		r.Events = append(r.Events, events.New(events.LevelGained, "level", p.CultivationLevel))
		return r
	}

	if tier.Fatal {
		r.Outcome = FatalFailure
		r.Output = append(r.Output, "Your Qi rebels and tears through your meridians. Your cultivation ends here.")
		return r
	}

	r.QiLost = int(math.Floor(float64(p.Qi) * FailureQiLoss))
	p.Qi -= r.QiLost
	r.Outcome = FailedRetryable
	r.Output = append(r.Output, fmt.Sprintf("The breakthrough fails. You lose %d Qi.", r.QiLost))
	return r
}
