// Package dice provides the random source every game rule draws from.
// Rules never touch a global generator; a Source is always passed in.
package dice

import (
	"fmt"
	"math/rand"
)

// Source is the randomness a rule needs.
type Source interface {
	// Roll returns a random integer in [1, sides].
	Roll(sides int) int
	// WeightedSelect returns an index chosen by weighted random selection.
	WeightedSelect(weights []int) int
}

// Chance rolls a d100 and reports whether it landed within percent.
// percent <= 0 never succeeds, percent >= 100 always does.
func Chance(src Source, percent int) bool {
	return src.Roll(100) <= percent
}

// RNG wraps math/rand.Rand with a call counter so a trace can show
// how many draws a session has made.
type RNG struct {
	seed int64
	src  *rand.Rand
	pos  int64
}

// NewRNG creates a new deterministic RNG from a seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		seed: seed,
		src:  rand.New(rand.NewSource(seed)),
	}
}

// Roll returns a random integer in [1, sides].
func (r *RNG) Roll(sides int) int {
	r.pos++
	return r.src.Intn(sides) + 1
}

// WeightedSelect returns an index chosen by weighted random selection.
// weights must be non-empty, non-negative and sum to more than zero.
func (r *RNG) WeightedSelect(weights []int) int {
	total := 0
	for _, w := range weights {
		total += w
	}
	r.pos++
	roll := r.src.Intn(total)
	cumulative := 0
	for i, w := range weights {
		cumulative += w
		if roll < cumulative {
			return i
		}
	}
	return len(weights) - 1
}

// Seed returns the seed the RNG was created with.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Position returns the number of draws made since creation.
func (r *RNG) Position() int64 {
	return r.pos
}

// Sequence replays a fixed list of draws. Roll returns the next value as
// the die face and WeightedSelect returns it as the chosen index. It panics
// when exhausted so an unexpected extra draw fails loudly in tests.
type Sequence struct {
	values []int
	next   int
}

// NewSequence creates a Sequence over the given draws.
func NewSequence(values ...int) *Sequence {
	return &Sequence{values: values}
}

// Roll returns the next scripted value.
func (s *Sequence) Roll(sides int) int {
	v := s.take("Roll")
	if v < 1 || v > sides {
		panic(fmt.Sprintf("dice: scripted roll %d outside [1,%d]", v, sides))
	}
	return v
}

// WeightedSelect returns the next scripted value as an index.
func (s *Sequence) WeightedSelect(weights []int) int {
	v := s.take("WeightedSelect")
	if v < 0 || v >= len(weights) {
		panic(fmt.Sprintf("dice: scripted index %d outside [0,%d)", v, len(weights)))
	}
	return v
}

// Remaining returns how many scripted draws have not been consumed.
func (s *Sequence) Remaining() int {
	return len(s.values) - s.next
}

func (s *Sequence) take(op string) int {
	if s.next >= len(s.values) {
		panic(fmt.Sprintf("dice: %s called after %d scripted draws were used up", op, len(s.values)))
	}
	v := s.values[s.next]
	s.next++
	return v
}
