package onpair

import (
	"encoding/binary"
	"fmt"
	"io"
)

var containerMagic = [4]byte{'O', 'N', 'P', 'R'}

// Container bundles a trained dictionary with one or more strings'
// compressed token streams, plus the offsets needed to randomly access any
// single string's bytes without touching the rest.
type Container struct {
	variant       Variant
	tokenBitWidth uint8

	n          uint32
	separators []uint32 // len == dict_count+1
	values     []byte   // dictionary bytes, padded with onPair16Cap trailing zero bytes

	// stringOffsets has length n+1. For E1/E2/E3 these are byte offsets
	// into payload; for E4 they are token-index offsets (see encode.go).
	stringOffsets []uint64
	payload       []byte

	// bitOffsets is E3 only, len n+1: the bit index of each string's first
	// continuation bit. With one bit per payload byte it is always
	// numerically equal to stringOffsets.
	bitOffsets []uint64
	bits       []byte // E3 only, packed continuation-bit stream
}

// padValues appends onPair16Cap zero bytes after values so a 16-byte
// unaligned read starting anywhere within a real entry never runs past the
// end of the backing array, matching the teacher's own dictionary padding
// discipline in compressor/dictionary.go.
func padValues(values []byte) []byte {
	padded := make([]byte, len(values)+onPair16Cap)
	copy(padded, values)
	return padded
}

// Variant returns the wire-level token encoding c was built with.
func (c *Container) Variant() Variant {
	return c.variant
}

// Rows returns the number of strings stored in c.
func (c *Container) Rows() int {
	return int(c.n)
}

// DictionarySize returns the number of dictionary entries, including the
// 256 pre-seeded single-byte literals.
func (c *Container) DictionarySize() int {
	return len(c.separators) - 1
}

// SpaceUsed reports the approximate number of bytes c occupies in memory:
// dictionary values/separators, the encoded payload, and any E3 bitvector
// overhead.
func (c *Container) SpaceUsed() int {
	size := len(c.values) + len(c.separators)*4 + len(c.payload)
	size += len(c.stringOffsets) * 8
	size += len(c.bitOffsets) * 8
	size += len(c.bits)
	return size
}

func (c *Container) entryBytes(id uint16) []byte {
	start := c.separators[id]
	end := c.separators[id+1]
	return c.values[start:end]
}

// DecompressOne reconstructs the original bytes of string i.
func (c *Container) DecompressOne(i int) ([]byte, error) {
	if i < 0 || i >= c.Rows() {
		return nil, fmt.Errorf("%w: index %d, rows %d", ErrIndexOutOfRange, i, c.Rows())
	}
	return c.decodeRow(i)
}

// DecompressInto reconstructs string i and copies it into dst, returning
// the number of bytes written. The string is first decoded into a freshly
// allocated buffer and then copied, so each call allocates. If dst is
// shorter than the decoded string, nothing is copied and ErrShortBuffer is
// returned.
func (c *Container) DecompressInto(dst []byte, i int) (int, error) {
	if i < 0 || i >= c.Rows() {
		return 0, fmt.Errorf("%w: index %d, rows %d", ErrIndexOutOfRange, i, c.Rows())
	}
	decoded, err := c.decodeRow(i)
	if err != nil {
		return 0, err
	}
	if len(dst) < len(decoded) {
		return 0, fmt.Errorf("%w: need %d bytes, have %d", ErrShortBuffer, len(decoded), len(dst))
	}
	copy(dst, decoded)
	return len(decoded), nil
}

// DecompressAll reconstructs every string in c, in order.
func (c *Container) DecompressAll() ([][]byte, error) {
	out := make([][]byte, c.Rows())
	for i := range out {
		decoded, err := c.decodeRow(i)
		if err != nil {
			return nil, fmt.Errorf("decompress row %d: %w", i, err)
		}
		out[i] = decoded
	}
	return out, nil
}

// WriteTo serializes c per the container wire format: magic + variant tag,
// string/dictionary counts, dictionary separators and values, string
// offsets, payload, and (E3 only) bitvector offsets and packed bits.
func (c *Container) WriteTo(w io.Writer) (int64, error) {
	var total int64

	write := func(stage string, data []byte) error {
		n, err := w.Write(data)
		total += int64(n)
		if err != nil {
			return fmt.Errorf("write %s at offset %d: %w", stage, total-int64(n), err)
		}
		return nil
	}

	variantByte := byte(c.variant)
	if c.variant == VariantE4 && c.tokenBitWidth == tokenBitWidth12 {
		variantByte |= 0x10
	}

	header := make([]byte, 0, 4+1+4+4)
	header = append(header, containerMagic[:]...)
	header = append(header, variantByte)
	header = binary.LittleEndian.AppendUint32(header, c.n)
	header = binary.LittleEndian.AppendUint32(header, uint32(c.DictionarySize()))
	if err := write("header", header); err != nil {
		return total, err
	}

	sepBuf := make([]byte, 0, len(c.separators)*4)
	for _, s := range c.separators {
		sepBuf = binary.LittleEndian.AppendUint32(sepBuf, s)
	}
	if err := write("dictionary separators", sepBuf); err != nil {
		return total, err
	}

	if err := write("dictionary values", c.values[:len(c.values)-onPair16Cap]); err != nil {
		return total, err
	}

	offBuf := make([]byte, 0, len(c.stringOffsets)*8)
	for _, o := range c.stringOffsets {
		offBuf = binary.LittleEndian.AppendUint64(offBuf, o)
	}
	if err := write("string offsets", offBuf); err != nil {
		return total, err
	}

	if err := write("payload", c.payload); err != nil {
		return total, err
	}

	if c.variant == VariantE3 {
		bitOffBuf := make([]byte, 0, len(c.bitOffsets)*8)
		for _, o := range c.bitOffsets {
			bitOffBuf = binary.LittleEndian.AppendUint64(bitOffBuf, o)
		}
		if err := write("continuation-bit offsets", bitOffBuf); err != nil {
			return total, err
		}
		if err := write("continuation bits", c.bits); err != nil {
			return total, err
		}
	}

	return total, nil
}

// ReadFrom deserializes c from r, replacing its contents. It checks the
// magic, the variant tag, the dict_count minimum, and that dictionary
// separators and string offsets are monotonic; a violation produces
// ErrCorruptContainer. Token IDs are not checked here; decoding a string
// checks its IDs against the dictionary. A short read returns the wrapped
// io error. On any error c is left unchanged.
func (c *Container) ReadFrom(r io.Reader) (int64, error) {
	var total int64
	br := &offsetReader{r: r, offset: &total}

	var header [9]byte
	if err := br.readFull(header[:], "header"); err != nil {
		return total, err
	}
	if header[0] != containerMagic[0] || header[1] != containerMagic[1] ||
		header[2] != containerMagic[2] || header[3] != containerMagic[3] {
		return total, fmt.Errorf("%w: bad magic", ErrCorruptContainer)
	}
	variant := Variant(header[4] & 0x0f)
	if !variant.valid() {
		return total, fmt.Errorf("%w: unknown variant tag %d", ErrCorruptContainer, header[4])
	}
	tokenBitWidth := tokenBitWidth16
	if variant == VariantE4 && header[4]&0x10 != 0 {
		tokenBitWidth = tokenBitWidth12
	}
	n := binary.LittleEndian.Uint32(header[5:9])

	var dictCountBuf [4]byte
	if err := br.readFull(dictCountBuf[:], "dictionary count"); err != nil {
		return total, err
	}
	dictCount := binary.LittleEndian.Uint32(dictCountBuf[:])
	if dictCount < singleByteTokens {
		return total, fmt.Errorf("%w: dict_count %d below minimum %d", ErrCorruptContainer, dictCount, singleByteTokens)
	}

	sepBuf := make([]byte, (dictCount+1)*4)
	if err := br.readFull(sepBuf, "dictionary separators"); err != nil {
		return total, err
	}
	separators := make([]uint32, dictCount+1)
	for i := range separators {
		separators[i] = binary.LittleEndian.Uint32(sepBuf[i*4 : i*4+4])
	}
	for i := 1; i < len(separators); i++ {
		if separators[i] < separators[i-1] {
			return total, fmt.Errorf("%w: dictionary separators not monotonic at %d", ErrCorruptContainer, i)
		}
	}

	valuesLen := separators[len(separators)-1]
	values := make([]byte, valuesLen)
	if err := br.readFull(values, "dictionary values"); err != nil {
		return total, err
	}

	offBuf := make([]byte, (uint64(n)+1)*8)
	if err := br.readFull(offBuf, "string offsets"); err != nil {
		return total, err
	}
	stringOffsets := make([]uint64, n+1)
	for i := range stringOffsets {
		stringOffsets[i] = binary.LittleEndian.Uint64(offBuf[i*8 : i*8+8])
	}
	for i := 1; i < len(stringOffsets); i++ {
		if stringOffsets[i] < stringOffsets[i-1] {
			return total, fmt.Errorf("%w: string offsets not monotonic at %d", ErrCorruptContainer, i)
		}
	}

	payloadLen := stringOffsets[len(stringOffsets)-1]

	var payload []byte
	var bitOffsets []uint64
	var bits []byte

	if variant == VariantE4 {
		// stringOffsets' final entry is a token count here (see encode.go);
		// the byte length of payload is derived from the token bit width.
		totalTokens := payloadLen
		byteLen := (totalTokens*uint64(tokenBitWidth) + 7) / 8
		payload = make([]byte, byteLen)
		if err := br.readFull(payload, "payload"); err != nil {
			return total, err
		}
	} else {
		payload = make([]byte, payloadLen)
		if err := br.readFull(payload, "payload"); err != nil {
			return total, err
		}
	}

	if variant == VariantE3 {
		bitOffBuf := make([]byte, (uint64(n)+1)*8)
		if err := br.readFull(bitOffBuf, "continuation-bit offsets"); err != nil {
			return total, err
		}
		bitOffsets = make([]uint64, n+1)
		for i := range bitOffsets {
			bitOffsets[i] = binary.LittleEndian.Uint64(bitOffBuf[i*8 : i*8+8])
		}
		numBits := bitOffsets[len(bitOffsets)-1]
		bits = make([]byte, (numBits+7)/8)
		if err := br.readFull(bits, "continuation bits"); err != nil {
			return total, err
		}
	}

	c.variant = variant
	c.tokenBitWidth = tokenBitWidth
	c.n = n
	c.separators = separators
	c.values = padValues(values)
	c.stringOffsets = stringOffsets
	c.payload = payload
	c.bitOffsets = bitOffsets
	c.bits = bits

	return total, nil
}

// offsetReader tracks how many bytes have been consumed so read errors can
// report the byte offset they occurred at, matching the teacher's
// archive.go error-wrapping convention.
type offsetReader struct {
	r      io.Reader
	offset *int64
}

func (o *offsetReader) readFull(buf []byte, stage string) error {
	n, err := io.ReadFull(o.r, buf)
	*o.offset += int64(n)
	if err != nil {
		return fmt.Errorf("read %s at offset %d: %w", stage, *o.offset-int64(n), err)
	}
	return nil
}
