package symtab

import "testing"

func TestInsertAssignsSequentialIDs(t *testing.T) {
	tbl := New(0)
	for i, s := range []string{"a", "bb", "ccc"} {
		id, ok := tbl.Insert([]byte(s))
		if !ok {
			t.Fatalf("insert %q failed", s)
		}
		if int(id) != i {
			t.Fatalf("insert %q: id = %d, want %d", s, id, i)
		}
	}
	if tbl.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", tbl.Len())
	}
}

func TestGetRoundTrips(t *testing.T) {
	tbl := New(0)
	want := []string{"hello", "world", "a longer entry spanning multiple bytes"}
	ids := make([]uint16, len(want))
	for i, s := range want {
		id, ok := tbl.Insert([]byte(s))
		if !ok {
			t.Fatalf("insert %q failed", s)
		}
		ids[i] = id
	}
	for i, s := range want {
		if got := string(tbl.Get(ids[i])); got != s {
			t.Fatalf("Get(%d) = %q, want %q", ids[i], got, s)
		}
	}
}

func TestInsertRejectsOverMaxEntryLen(t *testing.T) {
	tbl := New(4)
	if _, ok := tbl.Insert([]byte("toolong")); ok {
		t.Fatal("expected insert to fail for entry exceeding maxEntryLen")
	}
	if _, ok := tbl.Insert([]byte("ok")); !ok {
		t.Fatal("expected insert within maxEntryLen to succeed")
	}
}

func TestLongestPrefixPrefersLongestMatch(t *testing.T) {
	tbl := New(0)
	insertAll(t, tbl, "a", "ab", "abc", "abcdefgh", "abcdefghij")

	id, length, ok := tbl.LongestPrefix([]byte("abcdefghijklmnop"))
	if !ok {
		t.Fatal("expected a match")
	}
	if length != len("abcdefghij") {
		t.Fatalf("length = %d, want %d", length, len("abcdefghij"))
	}
	if got := string(tbl.Get(id)); got != "abcdefghij" {
		t.Fatalf("matched entry = %q, want %q", got, "abcdefghij")
	}
}

func TestLongestPrefixFallsBackToShortEntry(t *testing.T) {
	tbl := New(0)
	insertAll(t, tbl, "x", "xy")

	id, length, ok := tbl.LongestPrefix([]byte("xz"))
	if !ok {
		t.Fatal("expected a match")
	}
	if length != 1 {
		t.Fatalf("length = %d, want 1", length)
	}
	if got := string(tbl.Get(id)); got != "x" {
		t.Fatalf("matched entry = %q, want %q", got, "x")
	}
}

func TestLongestPrefixMatchesEntriesLongerThan16Bytes(t *testing.T) {
	tbl := New(0)
	long32 := "abcdefghijklmnopqrstuvwxyz012345" // 32 bytes
	insertAll(t, tbl, "a", long32[:16], long32)

	id, length, ok := tbl.LongestPrefix([]byte(long32 + "!!!"))
	if !ok {
		t.Fatal("expected a match")
	}
	if length != len(long32) {
		t.Fatalf("length = %d, want %d (the full >16-byte entry, not truncated)", length, len(long32))
	}
	if got := string(tbl.Get(id)); got != long32 {
		t.Fatalf("matched entry = %q, want %q", got, long32)
	}
}

func TestInsertIsIdempotentForDuplicateEntries(t *testing.T) {
	tbl := New(0)
	lenBefore := tbl.Len()

	id1, ok := tbl.Insert([]byte("a longer entry spanning multiple bytes"))
	if !ok {
		t.Fatal("first insert failed")
	}
	if tbl.Len() != lenBefore+1 {
		t.Fatalf("Len() after first insert = %d, want %d", tbl.Len(), lenBefore+1)
	}

	lenAfterFirst := tbl.Len()
	id2, ok := tbl.Insert([]byte("a longer entry spanning multiple bytes"))
	if !ok {
		t.Fatal("duplicate insert should succeed idempotently, not fail")
	}
	if id1 != id2 {
		t.Fatalf("duplicate insert returned id %d, want the existing id %d", id2, id1)
	}
	if tbl.Len() != lenAfterFirst {
		t.Fatalf("Len() after duplicate insert = %d, want unchanged %d", tbl.Len(), lenAfterFirst)
	}
}

func TestLongestPrefixNoMatch(t *testing.T) {
	tbl := New(0)
	insertAll(t, tbl, "hello")

	if _, _, ok := tbl.LongestPrefix([]byte("zzz")); ok {
		t.Fatal("expected no match")
	}
}

func TestFreezePreservesLookups(t *testing.T) {
	tbl := New(16)
	entries := []string{
		"a", "bb", "ccc", "dddddddd", "eeeeeeeeeeeeeeee",
		"prefixshared1234", "prefixsharedXYZ",
	}
	insertAll(t, tbl, entries...)

	frozen := tbl.Freeze()
	if frozen.Len() != tbl.Len() {
		t.Fatalf("frozen Len() = %d, want %d", frozen.Len(), tbl.Len())
	}

	cases := []string{"a!!", "bb!!", "prefixshared1234567", "prefixsharedXYZ000", "nomatch"}
	for _, c := range cases {
		wantID, wantLen, wantOK := tbl.LongestPrefix([]byte(c))
		gotID, gotLen, gotOK := frozen.LongestPrefix([]byte(c))
		if wantOK != gotOK || wantID != gotID || wantLen != gotLen {
			t.Fatalf("LongestPrefix(%q): table=(%d,%d,%v) frozen=(%d,%d,%v)",
				c, wantID, wantLen, wantOK, gotID, gotLen, gotOK)
		}
	}
}

func TestFreezeGetMatchesOriginal(t *testing.T) {
	tbl := New(0)
	entries := []string{"one", "two", "threeeeeeeeeeeeeee"}
	ids := make([]uint16, len(entries))
	for i, s := range entries {
		id, _ := tbl.Insert([]byte(s))
		ids[i] = id
	}
	frozen := tbl.Freeze()
	for i, s := range entries {
		if got := string(frozen.Get(ids[i])); got != s {
			t.Fatalf("frozen.Get(%d) = %q, want %q", ids[i], got, s)
		}
	}
}

func insertAll(t *testing.T, tbl *Table, entries ...string) {
	t.Helper()
	for _, s := range entries {
		if _, ok := tbl.Insert([]byte(s)); !ok {
			t.Fatalf("insert %q failed", s)
		}
	}
}
