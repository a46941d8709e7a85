package onpair

import (
	"fmt"
	"unsafe"

	"github.com/onpairhq/onpair/internal/bitvec"
	"github.com/onpairhq/onpair/internal/vbe"
)

// decodeRow reconstructs the original bytes of string i by decoding its
// token-ID stream (variant-specific) and then expanding each ID through
// the dictionary. Corrupted input — a token ID beyond the dictionary, a
// truncated token stream — aborts with ErrCorruptContainer and no partial
// output, per §7.
func (c *Container) decodeRow(i int) ([]byte, error) {
	var ids []uint16
	var err error

	switch c.variant {
	case VariantE1, VariantE2:
		start, end := c.stringOffsets[i], c.stringOffsets[i+1]
		ids, err = decodeVBERange(c.payload[start:end])
	case VariantE3:
		ids, err = c.decodeE3Range(i)
	case VariantE4:
		ids, err = c.decodeE4Range(i)
	default:
		return nil, fmt.Errorf("%w: variant tag %d", ErrUnsupportedVariant, c.variant)
	}
	if err != nil {
		return nil, err
	}
	if err := c.validateIDs(ids); err != nil {
		return nil, err
	}

	if c.variant == VariantE1 {
		return c.decodeTokensNarrow(ids), nil
	}
	return c.decodeTokensWide(ids), nil
}

func decodeVBERange(b []byte) ([]uint16, error) {
	ids, ok := vbe.DecodeAll(b)
	if !ok {
		return nil, fmt.Errorf("%w: truncated VBE token stream", ErrCorruptContainer)
	}
	return ids, nil
}

// decodeE3Range reassembles VBE tokens whose continuation/terminator bits
// were stripped into the separate packed bitvector (c.bits), one bit per
// payload byte, 1:1 with the byte range [stringOffsets[i], stringOffsets[i+1]).
// Terminator positions are found via the batch-8 table-driven extraction
// (internal/bitvec.ExtractSetPositions), not a per-bit scan.
func (c *Container) decodeE3Range(i int) ([]uint16, error) {
	pStart, pEnd := c.stringOffsets[i], c.stringOffsets[i+1]
	bStart := int(c.bitOffsets[i])
	payload := c.payload[pStart:pEnd]

	terminators := terminatorPositions(c.bits, bStart, len(payload))

	ids := make([]uint16, 0, len(terminators))
	var v uint32
	var shift int
	ti := 0
	for j, b := range payload {
		v |= uint32(b&0x7f) << shift
		shift += 7
		if ti < len(terminators) && terminators[ti] == j {
			ids = append(ids, uint16(v))
			v = 0
			shift = 0
			ti++
		}
	}
	if shift != 0 {
		return nil, fmt.Errorf("%w: truncated E3 token stream", ErrCorruptContainer)
	}
	return ids, nil
}

// terminatorPositions returns, relative to bStart, the positions of set
// bits within bits[bStart : bStart+numBits). It extracts the smallest
// byte-aligned window covering that range via ExtractSetPositions and then
// shifts/filters down to the requested bit range.
func terminatorPositions(bits []byte, bStart, numBits int) []int {
	byteStart := bStart / 8
	bitShift := bStart % 8
	windowBits := bitShift + numBits

	abs := bitvec.ExtractSetPositions(bits[byteStart:], windowBits)
	positions := make([]int, 0, len(abs))
	for _, p := range abs {
		if p >= bitShift {
			positions = append(positions, p-bitShift)
		}
	}
	return positions
}

// decodeE4Range reads string i's tokens from the E4 fixed-width payload.
// stringOffsets for E4 are token-index offsets, not byte offsets (see
// encode.go), so this walks the token index range directly.
func (c *Container) decodeE4Range(i int) ([]uint16, error) {
	tokenStart, tokenEnd := c.stringOffsets[i], c.stringOffsets[i+1]
	ids := make([]uint16, 0, tokenEnd-tokenStart)
	for t := tokenStart; t < tokenEnd; t++ {
		ids = append(ids, readPackedToken(c.payload, c.tokenBitWidth, int(t)))
	}
	return ids, nil
}

func (c *Container) validateIDs(ids []uint16) error {
	dictSize := c.DictionarySize()
	for _, id := range ids {
		if int(id) >= dictSize {
			return fmt.Errorf("%w: token id %d beyond dictionary size %d", ErrCorruptContainer, id, dictSize)
		}
	}
	return nil
}

// decodeTokensNarrow expands ids via ordinary byte-wise copy, used by E1
// whose dictionary entries have no length cap.
func (c *Container) decodeTokensNarrow(ids []uint16) []byte {
	buf := make([]byte, 0, len(ids))
	for _, id := range ids {
		buf = append(buf, c.entryBytes(id)...)
	}
	return buf
}

// decodeTokensWide expands ids via a single 128-bit unaligned load/store
// per token, relying on c.values' onPair16Cap trailing padding so the load
// never reads past the backing array, and on buf's own trailing padding so
// the store never writes past it either — the same discipline the teacher
// uses in compressor/onpair16.go's DecompressString/DecompressAll.
func (c *Container) decodeTokensWide(ids []uint16) []byte {
	total := 0
	for _, id := range ids {
		total += int(c.separators[id+1] - c.separators[id])
	}

	buf := make([]byte, total+onPair16Cap)
	pos := 0
	for _, id := range ids {
		start := c.separators[id]
		length := int(c.separators[id+1] - start)
		copy16(buf[pos:], c.values[start:])
		pos += length
	}
	return buf[:total]
}

// copy16 performs one unaligned 128-bit load from src and store to dst.
// Callers must guarantee both slices have at least 16 readable/writable
// bytes, even though only the first len(dst) bytes up to the next token's
// start are semantically meaningful.
func copy16(dst, src []byte) {
	*(*[16]byte)(unsafe.Pointer(&dst[0])) = *(*[16]byte)(unsafe.Pointer(&src[0]))
}
