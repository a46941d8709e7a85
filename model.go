package onpair

import (
	"encoding/json"
	"fmt"

	"github.com/onpairhq/onpair/internal/symtab"
)

// Model is a frozen, trained dictionary ready to compress strings. Train it
// once and call Compress as many times as needed against the same
// dictionary — the teacher's own reusable-Model shape, kept rather than
// collapsing training and compression into a single one-shot call.
type Model struct {
	table *symtab.FrozenTable
	cfg   Config
}

// Trained reports whether m holds a usable dictionary.
func (m *Model) Trained() bool {
	return m != nil && m.table != nil
}

// DictionarySize returns the number of entries in m's dictionary, including
// the 256 pre-seeded single-byte literals.
func (m *Model) DictionarySize() int {
	if !m.Trained() {
		return 0
	}
	return m.table.Len()
}

// Compress parses every string against m's dictionary and serializes the
// resulting token streams into a Container using the requested wire
// variant.
func (m *Model) Compress(strings []string, variant Variant) (*Container, error) {
	if !m.Trained() {
		return nil, ErrUntrainedModel
	}
	if !variant.valid() {
		return nil, fmt.Errorf("%w: variant tag %d", ErrUnsupportedVariant, variant)
	}
	if variant.requiresCappedDictionary() && (m.cfg.MaxTokenLen <= 0 || m.cfg.MaxTokenLen > onPair16Cap) {
		return nil, fmt.Errorf("%w: %v requires a dictionary trained with WithMaxTokenLength(<=%d)",
			ErrUnsupportedVariant, variant, onPair16Cap)
	}

	tokenStreams := parseAll(m.table, strings)

	stream, err := encodeStream(tokenStreams, variant, resolveTokenBitWidth(m.cfg))
	if err != nil {
		return nil, err
	}

	return &Container{
		variant:       variant,
		tokenBitWidth: resolveTokenBitWidth(m.cfg),
		n:             uint32(len(strings)),
		separators:    append([]uint32(nil), m.table.Separators()...),
		values:        padValues(m.table.Values()),
		stringOffsets: stream.stringOffsets,
		payload:       stream.payload,
		bitOffsets:    stream.bitOffsets,
		bits:          stream.bits,
	}, nil
}

// modelJSON is the on-disk form of a trained Model, used by
// cmd/onpairctl's train/compress subcommands to persist and reload a
// dictionary between invocations.
type modelJSON struct {
	Config     Config   `json:"config"`
	Separators []uint32 `json:"separators"`
	Values     []byte   `json:"values"`
}

// MarshalJSON persists m's dictionary and training configuration.
func (m *Model) MarshalJSON() ([]byte, error) {
	if !m.Trained() {
		return json.Marshal(modelJSON{})
	}
	return json.Marshal(modelJSON{
		Config:     m.cfg,
		Separators: m.table.Separators(),
		Values:     m.table.Values(),
	})
}

// UnmarshalJSON reconstructs a Model from data previously produced by
// MarshalJSON, rebuilding the frozen dictionary's long-prefix index from
// its entry bytes.
func (m *Model) UnmarshalJSON(data []byte) error {
	var mj modelJSON
	if err := json.Unmarshal(data, &mj); err != nil {
		return err
	}
	if len(mj.Separators) == 0 {
		return nil
	}
	m.cfg = mj.Config
	m.table = symtab.NewFrozen(mj.Values, mj.Separators)
	return nil
}
