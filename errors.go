package onpair

import "errors"

var (
	// ErrShortBuffer indicates the provided destination buffer is too small.
	ErrShortBuffer = errors.New("onpair: short buffer")

	// ErrUntrainedModel indicates Compress was called before a model was trained.
	ErrUntrainedModel = errors.New("onpair: model is not trained")

	// ErrCapacityReached is the internal, non-fatal signal that the dictionary
	// is full; the trainer treats it as a normal stop condition and never
	// returns it to callers.
	ErrCapacityReached = errors.New("onpair: dictionary capacity reached")

	// ErrInputTooLarge indicates an encoded stream or offset would exceed the
	// range of its wire representation.
	ErrInputTooLarge = errors.New("onpair: input too large for encoding")

	// ErrCorruptContainer indicates a structurally invalid container: a token
	// ID outside the dictionary range, non-monotonic offsets, or inconsistent
	// lengths. Decoding aborts with no partial output.
	ErrCorruptContainer = errors.New("onpair: corrupt container")

	// ErrIndexOutOfRange indicates DecompressOne/DecompressInto was called
	// with i >= Rows().
	ErrIndexOutOfRange = errors.New("onpair: index out of range")

	// ErrUnsupportedVariant indicates a Variant/TokenBitWidth combination that
	// the encoder or container reader does not know how to handle.
	ErrUnsupportedVariant = errors.New("onpair: unsupported variant")
)
