package onpair

import "math"

const (
	singleByteTokens = 256   // number of single-byte literal tokens (0-255)
	maxTokenID       = 65535 // maximum token ID (uint16 max)
	maxTokenID12Bit  = 4095  // maximum token ID representable in 12 bits
	tokenBitWidth12  = uint8(12)
	tokenBitWidth16  = uint8(16)

	// maxTrainingSampleBytes bounds how much of the corpus the trainer
	// actually scans: larger corpora are sampled via a deterministic shuffle.
	maxTrainingSampleBytes = 1024 * 1024 // 1 MiB
)

// Config holds configuration for training and encoding.
type Config struct {
	// Threshold is the minimum pair frequency (τ) required for a merge.
	// Zero selects the dynamic default max(2, log2(sampleSizeMiB)); the
	// spec's own reference value is 10.
	Threshold uint16

	// MaxTokenID caps the highest token ID the trainer may assign (0 =
	// default, maxTokenID). Clamped to [255, 65535].
	MaxTokenID uint16

	// MaxTokenLen caps dictionary entry length in bytes (0 = unlimited).
	// Set to 16 for the OnPair16 discipline required by variants E2-E4.
	MaxTokenLen int

	// TokenBitWidth narrows the E4 explicit-ID encoding to 12 bits when
	// every trained ID fits (0 = default 16; supported: 12 or 16).
	TokenBitWidth uint8
}

// Option is a functional option for configuring training.
type Option func(*Config)

// WithThreshold sets a fixed minimum pair frequency for merging tokens.
func WithThreshold(t uint16) Option {
	return func(c *Config) { c.Threshold = t }
}

// WithMaxTokenID sets an explicit token ID ceiling. Valid range is
// [255, 65535]; values outside the range are clamped.
func WithMaxTokenID(maxID uint16) Option {
	return func(c *Config) { c.MaxTokenID = maxID }
}

// WithMaxTokenLength sets a maximum dictionary entry length, in bytes. Pass
// 16 for the OnPair16 discipline.
func WithMaxTokenLength(n int) Option {
	return func(c *Config) { c.MaxTokenLen = n }
}

// WithTokenBitWidth narrows E4's explicit per-token width. Supported values
// are 12 and 16; any other value falls back to 16.
func WithTokenBitWidth(bits uint8) Option {
	return func(c *Config) { c.TokenBitWidth = bits }
}

func resolveTokenLimit(cfg Config) uint16 {
	limit := uint16(maxTokenID)
	switch {
	case cfg.MaxTokenID == 0:
		// default
	case cfg.MaxTokenID < uint16(singleByteTokens-1):
		limit = uint16(singleByteTokens - 1)
	case cfg.MaxTokenID > maxTokenID:
		limit = maxTokenID
	default:
		limit = cfg.MaxTokenID
	}

	if resolveTokenBitWidth(cfg) == tokenBitWidth12 && limit > maxTokenID12Bit {
		limit = maxTokenID12Bit
	}
	return limit
}

func resolveTokenBitWidth(cfg Config) uint8 {
	switch cfg.TokenBitWidth {
	case tokenBitWidth12:
		return tokenBitWidth12
	default:
		return tokenBitWidth16
	}
}

// resolveThreshold applies the dynamic default (Open Question i):
// max(2, log2(sampleSizeMiB)) when Threshold is unset.
func resolveThreshold(cfg Config, sampleBytes int) uint16 {
	if cfg.Threshold != 0 {
		return cfg.Threshold
	}
	sampleSizeMiB := float64(sampleBytes) / (1024.0 * 1024.0)
	if sampleSizeMiB <= 0 {
		return 2
	}
	return uint16(math.Max(2.0, math.Log2(sampleSizeMiB)))
}
