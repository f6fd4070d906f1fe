package dice

import "testing"

// draw performs one mixed sequence of the draws a session makes.
func draw(src Source) []int {
	return []int{
		src.Roll(100),                      // encounter or breakthrough roll
		src.WeightedSelect([]int{1, 1, 1}), // archetype
		src.Roll(2),                        // enemy move
		src.Roll(6),                        // flee
		src.WeightedSelect([]int{70, 30}),  // encounter kind
	}
}

func TestRNG_SameSeedSameSession(t *testing.T) {
	a, b := NewRNG(42), NewRNG(42)
	for i := 0; i < 50; i++ {
		x, y := draw(a), draw(b)
		for j := range x {
			if x[j] != y[j] {
				t.Fatalf("draw %d.%d: %d vs %d from the same seed", i, j, x[j], y[j])
			}
		}
	}
	if a.Position() != 250 {
		t.Errorf("position = %d, want 250", a.Position())
	}
}

func TestRNG_SeedsDiverge(t *testing.T) {
	a, b := NewRNG(1), NewRNG(2)
	for i := 0; i < 20; i++ {
		if a.Roll(100) != b.Roll(100) {
			return
		}
	}
	t.Error("seeds 1 and 2 produced identical d100 streams")
}

func TestRNG_RollRange(t *testing.T) {
	rng := NewRNG(99)
	for _, sides := range []int{1, 2, 6, 100} {
		for i := 0; i < 500; i++ {
			if r := rng.Roll(sides); r < 1 || r > sides {
				t.Fatalf("d%d rolled %d", sides, r)
			}
		}
	}
}

func TestRNG_D100Spread(t *testing.T) {
	rng := NewRNG(2024)
	low := 0
	const trials = 10000
	for i := 0; i < trials; i++ {
		if rng.Roll(100) <= 30 {
			low++
		}
	}
	// A 30% breakthrough should land near 3000 of 10000.
	if low < 2700 || low > 3300 {
		t.Errorf("rolls <= 30: %d, want ~3000", low)
	}
}

func TestRNG_EncounterWeights(t *testing.T) {
	rng := NewRNG(12345)
	counts := [2]int{}
	const trials = 10000
	for i := 0; i < trials; i++ {
		idx := rng.WeightedSelect([]int{70, 30})
		if idx < 0 || idx > 1 {
			t.Fatalf("index out of range: %d", idx)
		}
		counts[idx]++
	}
	if counts[0] < 6700 || counts[0] > 7300 {
		t.Errorf("enemy picks = %d, want ~7000", counts[0])
	}
}

func TestRNG_WeightedSelect_ZeroWeightNeverPicked(t *testing.T) {
	rng := NewRNG(3)
	for i := 0; i < 1000; i++ {
		if rng.WeightedSelect([]int{0, 5, 0}) != 1 {
			t.Fatal("only the non-zero weight may be chosen")
		}
	}
}

func TestRNG_Seed(t *testing.T) {
	if got := NewRNG(77).Seed(); got != 77 {
		t.Fatalf("Seed() = %d, want 77", got)
	}
}

func TestChance_Bounds(t *testing.T) {
	rng := NewRNG(5)
	for i := 0; i < 500; i++ {
		if Chance(rng, 0) {
			t.Fatal("0% chance should never succeed")
		}
		if !Chance(rng, 100) {
			t.Fatal("100% chance should always succeed")
		}
	}
}

func TestChance_Boundary(t *testing.T) {
	// A d100 roll equal to the percentage still counts as success.
	if !Chance(NewSequence(90), 90) {
		t.Error("roll 90 vs 90% should succeed")
	}
	if Chance(NewSequence(91), 90) {
		t.Error("roll 91 vs 90% should fail")
	}
}

func TestSequence_Replays(t *testing.T) {
	seq := NewSequence(3, 1, 6)

	if got := seq.Roll(6); got != 3 {
		t.Fatalf("first roll = %d, want 3", got)
	}
	if got := seq.WeightedSelect([]int{50, 50}); got != 1 {
		t.Fatalf("select = %d, want 1", got)
	}
	if seq.Remaining() != 1 {
		t.Fatalf("Remaining() = %d, want 1", seq.Remaining())
	}
	if got := seq.Roll(6); got != 6 {
		t.Fatalf("last roll = %d, want 6", got)
	}
}

func TestSequence_PanicsWhenExhausted(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic after the script ran out")
		}
	}()
	seq := NewSequence(1)
	seq.Roll(6)
	seq.Roll(6)
}

func TestSequence_PanicsOutOfRange(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for a face larger than the die")
		}
	}()
	NewSequence(7).Roll(6)
}
