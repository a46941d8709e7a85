package onpair

// Variant selects one of the four wire-level token encodings a Container
// may use. All four parse the same token-ID stream; they differ only in how
// that stream is serialized to bytes.
type Variant uint8

const (
	// VariantE1 is variable-byte encoding with unlimited dictionary entry
	// length. Token IDs 0-127 cost 1 byte, 128-16383 cost 2, the rest 3.
	VariantE1 Variant = 1

	// VariantE2 is the same VBE scheme as E1, but requires a dictionary
	// trained with a 16-byte entry length cap, enabling a 128-bit
	// unaligned-load decode path.
	VariantE2 Variant = 2

	// VariantE3 is VBE with continuation bits separated into their own
	// bitvector stream, packed 1 bit per payload byte, LSB-first into bytes
	// (not padded to a word boundary). Also requires a 16-byte entry length
	// cap.
	VariantE3 Variant = 3

	// VariantE4 encodes every token as an explicit fixed-width ID (2 bytes,
	// little-endian, unless narrowed by TokenBitWidth=12). Requires a
	// 16-byte entry length cap.
	VariantE4 Variant = 4
)

// String returns the variant's wire tag name.
func (v Variant) String() string {
	switch v {
	case VariantE1:
		return "E1"
	case VariantE2:
		return "E2"
	case VariantE3:
		return "E3"
	case VariantE4:
		return "E4"
	default:
		return "unknown"
	}
}

// requiresCappedDictionary reports whether v requires every dictionary entry
// to be at most 16 bytes (the OnPair16 discipline).
func (v Variant) requiresCappedDictionary() bool {
	return v == VariantE2 || v == VariantE3 || v == VariantE4
}

func (v Variant) valid() bool {
	switch v {
	case VariantE1, VariantE2, VariantE3, VariantE4:
		return true
	default:
		return false
	}
}

// onPair16Cap is the entry-length cap, in bytes, for the OnPair16 discipline.
// Enables a single 128-bit unaligned load/store per EMIT.
const onPair16Cap = 16
