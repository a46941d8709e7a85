package onpair

import (
	"github.com/onpairhq/onpair/internal/pairfreq"
	"github.com/onpairhq/onpair/internal/prng"
	"github.com/onpairhq/onpair/internal/symtab"
)

// trainingPRNGSeed matches the teacher's own compressor.NewSimplePRNG(42)
// seed, kept for bit-for-bit-reproducible sampling across runs.
const trainingPRNGSeed = 42

// Trainer runs the two-phase training loop: a full re-parse of a bounded,
// deterministically sampled corpus against the current dictionary, a
// pair-frequency rebuild, and a single merge of the highest-scoring pair
// clearing the threshold. Exposed as Step so callers can interleave or
// bound the outer loop themselves (§5: no built-in cancellation, callers
// drive it).
type Trainer struct {
	cfg    Config
	table  *symtab.Table
	sample [][]byte

	tokenLimit uint16
	threshold  uint16
	done       bool
}

// NewTrainer seeds a dictionary with the 256 single-byte literals and
// prepares a bounded, shuffled sample of strings to train against.
func NewTrainer(strings []string, opts ...Option) *Trainer {
	var cfg Config
	for _, opt := range opts {
		opt(&cfg)
	}

	table := symtab.New(cfg.MaxTokenLen)
	for b := 0; b < singleByteTokens; b++ {
		table.Insert([]byte{byte(b)})
	}

	sample := sampleCorpus(strings)
	sampleBytes := 0
	for _, s := range sample {
		sampleBytes += len(s)
	}

	return &Trainer{
		cfg:        cfg,
		table:      table,
		sample:     sample,
		tokenLimit: resolveTokenLimit(cfg),
		threshold:  resolveThreshold(cfg, sampleBytes),
	}
}

// sampleCorpus bounds the amount of the corpus the trainer scans to
// maxTrainingSampleBytes via a deterministic Fisher-Yates shuffle, matching
// the teacher's own 1 MiB sampling cap in Encoder.train.
func sampleCorpus(strings []string) [][]byte {
	gen := prng.New(trainingPRNGSeed)
	sizes := make([]int, len(strings))
	for i, s := range strings {
		sizes[i] = len(s)
	}
	idx := gen.SampleIndices(len(strings), maxTrainingSampleBytes, func(i int) int { return sizes[i] })

	sample := make([][]byte, len(idx))
	for i, j := range idx {
		sample[i] = []byte(strings[j])
	}
	return sample
}

// Step performs one training iteration. It returns merged=true if a new
// dictionary entry was created; once it returns false, no further call will
// ever merge again (threshold not met, dictionary full, or the merged
// entry's length would exceed Config.MaxTokenLen) and the trainer is done.
func (tr *Trainer) Step() (merged bool, err error) {
	if tr.done {
		return false, nil
	}
	if tr.table.Len() > int(tr.tokenLimit) {
		tr.done = true
		return false, nil
	}

	frozen := tr.table.Freeze()
	counter := pairfreq.NewCounter()
	for _, s := range tr.sample {
		counter.AddSequence(parseString(frozen, s))
	}

	prev, cur, count, ok := counter.Argmax()
	if !ok || count < uint32(tr.threshold) {
		tr.done = true
		return false, nil
	}

	mergedBytes := append(append([]byte(nil), frozen.Get(prev)...), frozen.Get(cur)...)
	if tr.cfg.MaxTokenLen > 0 && len(mergedBytes) > tr.cfg.MaxTokenLen {
		tr.done = true
		return false, nil
	}

	lenBefore := tr.table.Len()
	if _, inserted := tr.table.Insert(mergedBytes); !inserted {
		tr.done = true
		return false, nil
	}
	if tr.table.Len() == lenBefore {
		// The winning pair's merge already exists in the dictionary (Insert
		// is idempotent), so the next re-parse would pick the same pair
		// again and nothing would ever change: stop instead of looping.
		tr.done = true
		return false, nil
	}

	return true, nil
}

// Done reports whether the trainer has finished (Step will keep returning
// false).
func (tr *Trainer) Done() bool {
	return tr.done
}

// Finish freezes the current dictionary into a Model, regardless of
// whether Step still has merges left to offer.
func (tr *Trainer) Finish() *Model {
	return &Model{table: tr.table.Freeze(), cfg: tr.cfg}
}

// Train runs Step to completion and returns the trained Model.
func (tr *Trainer) Train() *Model {
	for {
		merged, _ := tr.Step()
		if !merged {
			break
		}
	}
	return tr.Finish()
}

// Train trains a fresh dictionary from strings and returns the resulting
// Model.
func Train(strings []string, opts ...Option) (*Model, error) {
	return NewTrainer(strings, opts...).Train(), nil
}
