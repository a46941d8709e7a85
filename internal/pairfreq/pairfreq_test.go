package pairfreq

import "testing"

func TestAddSequenceCountsAdjacentPairsOnly(t *testing.T) {
	c := NewCounter()
	c.AddSequence([]uint16{1, 2, 3, 2})

	if got := c.Count(1, 2); got != 1 {
		t.Fatalf("Count(1,2) = %d, want 1", got)
	}
	if got := c.Count(2, 3); got != 1 {
		t.Fatalf("Count(2,3) = %d, want 1", got)
	}
	if got := c.Count(3, 2); got != 1 {
		t.Fatalf("Count(3,2) = %d, want 1", got)
	}
	if got := c.Count(1, 3); got != 0 {
		t.Fatalf("Count(1,3) = %d, want 0 (non-adjacent)", got)
	}
}

func TestAddSequenceNeverPairsAcrossCalls(t *testing.T) {
	c := NewCounter()
	c.AddSequence([]uint16{1, 2})
	c.AddSequence([]uint16{2, 1})

	if got := c.Count(2, 2); got != 0 {
		t.Fatalf("Count(2,2) = %d, want 0 (would require spanning two strings)", got)
	}
	if got := c.Count(1, 2); got != 1 {
		t.Fatalf("Count(1,2) = %d, want 1", got)
	}
	if got := c.Count(2, 1); got != 1 {
		t.Fatalf("Count(2,1) = %d, want 1", got)
	}
}

func TestArgmaxPicksHighestCount(t *testing.T) {
	c := NewCounter()
	c.AddSequence([]uint16{1, 2, 1, 2, 1, 2})
	c.AddSequence([]uint16{3, 4})

	prev, cur, count, ok := c.Argmax()
	if !ok {
		t.Fatal("expected ok")
	}
	if prev != 1 || cur != 2 {
		t.Fatalf("argmax = (%d,%d), want (1,2)", prev, cur)
	}
	if count != 3 {
		t.Fatalf("argmax count = %d, want 3", count)
	}
}

func TestArgmaxTieBreaksAscendingKey(t *testing.T) {
	c := NewCounter()
	c.AddSequence([]uint16{5, 6})
	c.AddSequence([]uint16{2, 3})
	c.AddSequence([]uint16{2, 3})
	c.AddSequence([]uint16{5, 6})

	prev, cur, _, ok := c.Argmax()
	if !ok {
		t.Fatal("expected ok")
	}
	// (2,3) packs smaller than (5,6); both tie at count 2.
	if prev != 2 || cur != 3 {
		t.Fatalf("argmax tie-break = (%d,%d), want (2,3)", prev, cur)
	}
}

func TestArgmaxEmpty(t *testing.T) {
	c := NewCounter()
	if _, _, _, ok := c.Argmax(); ok {
		t.Fatal("expected ok=false for empty counter")
	}
}

func TestReset(t *testing.T) {
	c := NewCounter()
	c.AddSequence([]uint16{1, 2})
	c.Reset()
	if c.Len() != 0 {
		t.Fatalf("Len() after Reset = %d, want 0", c.Len())
	}
	if _, _, _, ok := c.Argmax(); ok {
		t.Fatal("expected ok=false after Reset")
	}
}

func TestPackUnpackRoundTrip(t *testing.T) {
	c := NewCounter()
	c.AddSequence([]uint16{100, 200})
	for key := range c.counts {
		prev, cur := Unpack(key)
		if prev != 100 || cur != 200 {
			t.Fatalf("Unpack(%d) = (%d,%d), want (100,200)", key, prev, cur)
		}
	}
}
