// Package prng provides a deterministic pseudo-random source for corpus
// sampling and shuffling during training.
package prng

// LCG is a linear congruential generator used for cross-platform
// deterministic shuffling. Uses the same multiplier/increment as Rust's
// StdRng for compatibility across re-implementations of the same trainer.
type LCG struct {
	state uint64
}

// New creates a new LCG seeded with seed.
func New(seed uint64) *LCG {
	return &LCG{state: seed}
}

// Next advances and returns the next raw state.
func (g *LCG) Next() uint64 {
	g.state = g.state*6364136223846793005 + 1442695040888963407
	return g.state
}

// Uint64N returns a deterministic value in [0, n).
func (g *LCG) Uint64N(n uint64) uint64 {
	if n == 0 {
		return 0
	}
	return g.Next() % n
}

// ShuffleInts performs an in-place Fisher-Yates shuffle of slice.
func (g *LCG) ShuffleInts(slice []int) {
	for i := len(slice) - 1; i > 0; i-- {
		j := int(g.Uint64N(uint64(i + 1)))
		slice[i], slice[j] = slice[j], slice[i]
	}
}

// SampleIndices returns a deterministically shuffled permutation of
// [0, n), truncated so the cumulative byte length named by sizeOf stays
// within budget. Used to bound the amount of a large corpus the trainer
// actually scans.
func (g *LCG) SampleIndices(n int, budget int, sizeOf func(i int) int) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	g.ShuffleInts(order)

	if budget <= 0 {
		return order
	}

	total := 0
	cut := len(order)
	for i, idx := range order {
		total += sizeOf(idx)
		if total > budget {
			cut = i
			break
		}
	}
	return order[:cut]
}
