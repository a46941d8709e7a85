package bitvec

import (
	"math/rand"
	"testing"
)

func TestBuilderReaderRoundTrip(t *testing.T) {
	bits := []bool{true, false, false, true, true, true, false, false, true, true, false}

	var b Builder
	for _, bit := range bits {
		b.Append(bit)
	}
	packed := b.Bytes()

	r := NewReader(packed)
	for i, want := range bits {
		if got := r.Next(); got != want {
			t.Fatalf("bit %d = %v, want %v", i, got, want)
		}
	}
}

func TestPackedLen(t *testing.T) {
	cases := map[int]int{0: 0, 1: 1, 7: 1, 8: 1, 9: 2, 16: 2, 17: 3}
	for n, want := range cases {
		if got := PackedLen(n); got != want {
			t.Errorf("PackedLen(%d) = %d, want %d", n, got, want)
		}
	}
}

func TestExtractSetPositionsMatchesBitwiseScan(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for trial := 0; trial < 20; trial++ {
		n := rng.Intn(200)
		var b Builder
		bits := make([]bool, n)
		for i := range bits {
			bits[i] = rng.Intn(2) == 1
			b.Append(bits[i])
		}
		packed := b.Bytes()

		var want []int
		for i, set := range bits {
			if set {
				want = append(want, i)
			}
		}

		got := ExtractSetPositions(packed, n)
		if len(got) != len(want) {
			t.Fatalf("trial %d: got %d positions, want %d (n=%d)", trial, len(got), len(want), n)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("trial %d: position[%d] = %d, want %d", trial, i, got[i], want[i])
			}
		}
	}
}

func TestExtractSetPositionsEmpty(t *testing.T) {
	if got := ExtractSetPositions(nil, 0); len(got) != 0 {
		t.Fatalf("expected no positions, got %v", got)
	}
}
