package vbe

import "testing"

func TestEncodedLenBoundaries(t *testing.T) {
	cases := []struct {
		id   uint16
		want int
	}{
		{0, 1}, {127, 1},
		{128, 2}, {16383, 2},
		{16384, 3}, {65535, 3},
	}
	for _, c := range cases {
		if got := EncodedLen(c.id); got != c.want {
			t.Errorf("EncodedLen(%d) = %d, want %d", c.id, got, c.want)
		}
	}
}

func TestAppendTokenRoundTrip(t *testing.T) {
	for _, id := range []uint16{0, 1, 63, 127, 128, 200, 16383, 16384, 65535} {
		buf := AppendToken(nil, id)
		if len(buf) != EncodedLen(id) {
			t.Fatalf("id=%d: encoded %d bytes, EncodedLen says %d", id, len(buf), EncodedLen(id))
		}
		got, n, ok := DecodeToken(buf)
		if !ok {
			t.Fatalf("id=%d: DecodeToken failed on %v", id, buf)
		}
		if got != id || n != len(buf) {
			t.Fatalf("id=%d: decoded (%d,%d), want (%d,%d)", id, got, n, id, len(buf))
		}
	}
}

func TestTerminatorBitPolarity(t *testing.T) {
	// id=1 fits in one byte: terminator bit must be set on that sole byte.
	buf := AppendToken(nil, 1)
	if len(buf) != 1 || buf[0]&0x80 == 0 {
		t.Fatalf("single-byte token %v missing terminator bit", buf)
	}

	// id=200 needs two bytes: first byte's high bit clear, second set.
	buf = AppendToken(nil, 200)
	if len(buf) != 2 {
		t.Fatalf("expected 2 bytes, got %v", buf)
	}
	if buf[0]&0x80 != 0 {
		t.Fatalf("first byte %x should have continuation bit clear", buf[0])
	}
	if buf[1]&0x80 == 0 {
		t.Fatalf("final byte %x should have terminator bit set", buf[1])
	}
}

func TestDecodeTokenTruncated(t *testing.T) {
	buf := AppendToken(nil, 16384) // 3 bytes
	if _, _, ok := DecodeToken(buf[:2]); ok {
		t.Fatal("expected decode failure on truncated 3-byte token")
	}
}

func TestEncodeDecodeAllSequence(t *testing.T) {
	ids := []uint16{0, 5, 127, 128, 999, 16383, 16384, 65535, 42}
	buf := Encode(nil, ids)
	got, ok := DecodeAll(buf)
	if !ok {
		t.Fatal("DecodeAll failed")
	}
	if len(got) != len(ids) {
		t.Fatalf("decoded %d ids, want %d", len(got), len(ids))
	}
	for i := range ids {
		if got[i] != ids[i] {
			t.Fatalf("id[%d] = %d, want %d", i, got[i], ids[i])
		}
	}
}

func TestDecodeAllTruncatedStream(t *testing.T) {
	buf := Encode(nil, []uint16{1, 2, 16384})
	if _, ok := DecodeAll(buf[:len(buf)-1]); ok {
		t.Fatal("expected failure decoding a truncated stream")
	}
}
