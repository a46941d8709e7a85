package onpair

import (
	"fmt"

	"github.com/onpairhq/onpair/internal/bitvec"
	"github.com/onpairhq/onpair/internal/vbe"
)

// encodedStream holds a variant-specific serialized token payload plus the
// per-string offsets needed for random access into it.
//
// For VBE-based variants (E1, E2, E3) stringOffsets are byte offsets into
// payload, directly as §6 describes. For E4's fixed-width explicit IDs,
// stringOffsets are measured in *tokens*, not bytes: with TokenBitWidth=12
// two consecutive tokens share 3 packed bytes, so a byte offset cannot
// always land on a token boundary, while a token-index offset always can —
// decode then derives the bit offset as tokenIndex*bitWidth. This choice is
// recorded in DESIGN.md.
type encodedStream struct {
	payload       []byte
	stringOffsets []uint64

	bitOffsets []uint64 // E3 only
	bits       []byte   // E3 only
}

func encodeStream(tokenStreams [][]uint16, variant Variant, bitWidth uint8) (*encodedStream, error) {
	es := &encodedStream{stringOffsets: make([]uint64, len(tokenStreams)+1)}

	switch variant {
	case VariantE1, VariantE2:
		for i, tokens := range tokenStreams {
			es.payload = vbe.Encode(es.payload, tokens)
			es.stringOffsets[i+1] = uint64(len(es.payload))
		}

	case VariantE3:
		es.bitOffsets = make([]uint64, len(tokenStreams)+1)
		var builder bitvec.Builder
		nBits := 0
		for i, tokens := range tokenStreams {
			for _, id := range tokens {
				buf := vbe.AppendToken(nil, id)
				for j, b := range buf {
					es.payload = append(es.payload, b&0x7f)
					builder.Append(j == len(buf)-1)
					nBits++
				}
			}
			es.stringOffsets[i+1] = uint64(len(es.payload))
			es.bitOffsets[i+1] = uint64(nBits)
		}
		es.bits = builder.Bytes()

	case VariantE4:
		tokenIndex := uint64(0)
		for i, tokens := range tokenStreams {
			for _, id := range tokens {
				appendPackedToken(&es.payload, id, bitWidth, int(tokenIndex))
				tokenIndex++
			}
			es.stringOffsets[i+1] = tokenIndex
		}

	default:
		return nil, fmt.Errorf("%w: variant tag %d", ErrUnsupportedVariant, variant)
	}

	return es, nil
}

// appendPackedToken writes id as a bitWidth-bit little-endian-bit-order
// field at bit position tokenIndex*bitWidth within *payload, growing
// *payload as needed. Used only for E4 (bitWidth is 12 or 16).
func appendPackedToken(payload *[]byte, id uint16, bitWidth uint8, tokenIndex int) {
	bitPos := tokenIndex * int(bitWidth)
	endBit := bitPos + int(bitWidth)
	needed := (endBit + 7) / 8
	for len(*payload) < needed {
		*payload = append(*payload, 0)
	}

	v := uint32(id)
	for i := 0; i < int(bitWidth); i++ {
		if v&(1<<i) == 0 {
			continue
		}
		bit := bitPos + i
		(*payload)[bit/8] |= 1 << uint(bit%8)
	}
}

// readPackedToken is appendPackedToken's inverse.
func readPackedToken(payload []byte, bitWidth uint8, tokenIndex int) uint16 {
	bitPos := tokenIndex * int(bitWidth)
	var v uint32
	for i := 0; i < int(bitWidth); i++ {
		bit := bitPos + i
		byteIdx := bit / 8
		if byteIdx >= len(payload) {
			break
		}
		if payload[byteIdx]&(1<<uint(bit%8)) != 0 {
			v |= 1 << i
		}
	}
	return uint16(v)
}
