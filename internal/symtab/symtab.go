// Package symtab implements the dictionary symbol table: the byte-sequence
// to token-ID mapping shared by the trainer and the encoder, plus its
// longest-prefix-match index.
//
// Table is the mutable, training-time structure. Freeze produces a
// FrozenTable: a read-only, hash-indexed form optimized for the encoder's
// greedy parse. Decoding never needs prefix matching, only id→bytes, so it
// reads the flat Values/Separators arrays directly and has no dependency on
// either structure.
package symtab

import (
	"bytes"
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

const maxShortLen = 8

// longEntry is one bucketed long-pattern entry: the full entry bytes after
// its 8-byte prefix (any length — entries are not capped at 16 bytes total)
// plus its token ID, keyed externally by the 8-byte prefix.
type longEntry struct {
	suffix []byte
	id     uint16
}

// Table is a mutable symbol table built incrementally during training.
// Every entry 1-8 bytes long is stored in a direct hash map; every entry
// longer than 8 bytes is bucketed by its first 8 bytes, with same-bucket
// entries kept sorted longest-suffix-first for greedy matching.
type Table struct {
	values     []byte
	separators []uint32 // len() == count+1; values[separators[id]:separators[id+1]] is entry id

	shortIndex [maxShortLen + 1]map[uint64]uint16 // length 1..8 -> exact 8-byte-padded value -> id
	longIndex  map[uint64][]longEntry              // 8-byte prefix -> bucket, longest suffix first

	maxEntryLen int // 0 = unlimited
}

// New creates an empty table. maxEntryLen caps accepted entry length in
// bytes; 0 means unlimited.
func New(maxEntryLen int) *Table {
	t := &Table{
		separators:  []uint32{0},
		longIndex:   make(map[uint64][]longEntry),
		maxEntryLen: maxEntryLen,
	}
	for i := 1; i <= maxShortLen; i++ {
		t.shortIndex[i] = make(map[uint64]uint16)
	}
	return t
}

// Len returns the number of entries currently in the table.
func (t *Table) Len() int {
	return len(t.separators) - 1
}

// Get returns the bytes for token id. Panics if id is out of range; callers
// are expected to have validated ids against Len() first.
func (t *Table) Get(id uint16) []byte {
	return t.values[t.separators[id]:t.separators[id+1]]
}

// lookupExact reports the id of an entry whose bytes exactly equal data, if
// one is already present.
func (t *Table) lookupExact(data []byte) (uint16, bool) {
	length := len(data)
	if length == 0 {
		return 0, false
	}
	if length <= maxShortLen {
		id, found := t.shortIndex[length][bytesToU64LE(data)]
		return id, found
	}

	prefix := bytesToU64LE(data[:8])
	suffix := data[8:]
	for _, e := range t.longIndex[prefix] {
		if len(e.suffix) == len(suffix) && bytes.Equal(e.suffix, suffix) {
			return e.id, true
		}
	}
	return 0, false
}

// Insert adds data as a new entry and returns its assigned token ID.
// Idempotent: if an identical entry already exists, its existing id is
// returned without mutating the table (spec §4.1's duplicate-rejection
// requirement). Returns false without mutating the table if data exceeds
// maxEntryLen or the table already holds the maximum 65536 entries.
func (t *Table) Insert(data []byte) (uint16, bool) {
	if t.maxEntryLen > 0 && len(data) > t.maxEntryLen {
		return 0, false
	}
	if id, found := t.lookupExact(data); found {
		return id, true
	}
	if t.Len() >= 1<<16 {
		return 0, false
	}

	id := uint16(t.Len())
	t.values = append(t.values, data...)
	t.separators = append(t.separators, uint32(len(t.values)))

	length := len(data)
	if length <= maxShortLen {
		if length == 0 {
			return id, true
		}
		key := bytesToU64LE(data)
		t.shortIndex[length][key] = id
		return id, true
	}

	prefix := bytesToU64LE(data[:8])
	suffix := append([]byte(nil), data[8:]...)

	bucket := t.longIndex[prefix]
	bucket = append(bucket, longEntry{suffix: suffix, id: id})
	insertionSortBySuffixLenDesc(bucket)
	t.longIndex[prefix] = bucket

	return id, true
}

// LongestPrefix finds the longest entry that is a prefix of data, returning
// its token ID and length. Reports ok=false if no entry (not even a
// single-byte literal) matches. Long entries (>8 bytes) may be of any
// length, not just up to 16 bytes — the full suffix is compared byte for
// byte against data, never clamped.
func (t *Table) LongestPrefix(data []byte) (id uint16, length int, ok bool) {
	if len(data) >= 8 {
		prefix := bytesToU64LE(data[:8])
		rest := data[8:]

		if bucket, found := t.longIndex[prefix]; found {
			for _, e := range bucket {
				if len(e.suffix) <= len(rest) && bytes.Equal(rest[:len(e.suffix)], e.suffix) {
					return e.id, 8 + len(e.suffix), true
				}
			}
		}
	}

	n := len(data)
	if n > maxShortLen {
		n = maxShortLen
	}
	for l := n; l >= 1; l-- {
		key := bytesToU64LE(data[:l])
		if id, found := t.shortIndex[l][key]; found {
			return id, l, true
		}
	}
	return 0, 0, false
}

// Freeze returns a read-only, hash-indexed copy of t optimized for the
// encoder's parse loop.
func (t *Table) Freeze() *FrozenTable {
	f := &FrozenTable{
		values:     append([]byte(nil), t.values...),
		separators: append([]uint32(nil), t.separators...),
	}
	for i := 1; i <= maxShortLen; i++ {
		m := make(map[uint64]uint16, len(t.shortIndex[i]))
		for k, v := range t.shortIndex[i] {
			m[k] = v
		}
		f.shortIndex[i] = m
	}

	prefixes := make([]uint64, 0, len(t.longIndex))
	buckets := make(map[uint64][]longEntry, len(t.longIndex))
	for prefix, bucket := range t.longIndex {
		prefixes = append(prefixes, prefix)
		buckets[prefix] = append([]longEntry(nil), bucket...)
	}

	f.table = buildOpenAddressedTable(prefixes, buckets)
	return f
}

// FrozenTable is the read-only form of Table used by the encoder's parser.
// Long-pattern buckets are indexed through an open-addressed hash table
// keyed by xxhash of the 8-byte prefix, avoiding Go-map overhead on the hot
// parse path.
type FrozenTable struct {
	values     []byte
	separators []uint32

	shortIndex [maxShortLen + 1]map[uint64]uint16
	table      *openAddressedTable
}

// Len returns the number of entries in the table.
func (f *FrozenTable) Len() int {
	return len(f.separators) - 1
}

// Get returns the bytes for token id.
func (f *FrozenTable) Get(id uint16) []byte {
	return f.values[f.separators[id]:f.separators[id+1]]
}

// Values returns the flat, concatenated entry-bytes region backing every
// entry. Callers must treat the result as read-only.
func (f *FrozenTable) Values() []byte {
	return f.values
}

// Separators returns the id→byte-range index into Values: entry id spans
// Separators()[id]..Separators()[id+1]. Callers must treat the result as
// read-only.
func (f *FrozenTable) Separators() []uint32 {
	return f.separators
}

// LongestPrefix finds the longest entry that is a prefix of data. Long
// entries (>8 bytes) may be of any length; the full suffix is compared byte
// for byte against data, never clamped to 16 bytes total.
func (f *FrozenTable) LongestPrefix(data []byte) (id uint16, length int, ok bool) {
	if len(data) >= 8 {
		prefix := bytesToU64LE(data[:8])
		rest := data[8:]

		if bucket, found := f.table.lookup(prefix); found {
			for _, e := range bucket {
				if len(e.suffix) <= len(rest) && bytes.Equal(rest[:len(e.suffix)], e.suffix) {
					return e.id, 8 + len(e.suffix), true
				}
			}
		}
	}

	n := len(data)
	if n > maxShortLen {
		n = maxShortLen
	}
	for l := n; l >= 1; l-- {
		key := bytesToU64LE(data[:l])
		if id, found := f.shortIndex[l][key]; found {
			return id, l, true
		}
	}
	return 0, 0, false
}

// NewFrozen reconstructs a FrozenTable directly from a dictionary's flat
// values/separators arrays, e.g. after loading a persisted dictionary. The
// long-prefix index is rebuilt from the entry bytes themselves.
func NewFrozen(values []byte, separators []uint32) *FrozenTable {
	f := &FrozenTable{
		values:     append([]byte(nil), values...),
		separators: append([]uint32(nil), separators...),
	}
	for i := 1; i <= maxShortLen; i++ {
		f.shortIndex[i] = make(map[uint64]uint16)
	}

	var prefixes []uint64
	buckets := make(map[uint64][]longEntry)

	for id := 0; id+1 < len(f.separators); id++ {
		data := f.values[f.separators[id]:f.separators[id+1]]
		length := len(data)
		if length == 0 {
			continue
		}
		if length <= maxShortLen {
			f.shortIndex[length][bytesToU64LE(data)] = uint16(id)
			continue
		}

		prefix := bytesToU64LE(data[:8])
		suffix := append([]byte(nil), data[8:]...)

		if _, exists := buckets[prefix]; !exists {
			prefixes = append(prefixes, prefix)
		}
		bucket := append(buckets[prefix], longEntry{suffix: suffix, id: uint16(id)})
		insertionSortBySuffixLenDesc(bucket)
		buckets[prefix] = bucket
	}

	f.table = buildOpenAddressedTable(prefixes, buckets)
	return f
}

// openAddressedTable is a linear-probing hash table over 8-byte prefixes,
// hashed with xxhash, built once at Freeze time and never mutated.
type openAddressedTable struct {
	slots   []uint64 // prefix stored at each slot; occupied marked in used
	used    []bool
	buckets [][]longEntry // parallel to slots
}

func buildOpenAddressedTable(prefixes []uint64, buckets map[uint64][]longEntry) *openAddressedTable {
	size := len(prefixes)*2 + 1
	if size < 8 {
		size = 8
	}
	t := &openAddressedTable{
		slots:   make([]uint64, size),
		used:    make([]bool, size),
		buckets: make([][]longEntry, size),
	}
	for _, prefix := range prefixes {
		idx := int(xxhash.Sum64(uint64ToBytesLE(prefix)) % uint64(size))
		for t.used[idx] {
			idx = (idx + 1) % size
		}
		t.slots[idx] = prefix
		t.used[idx] = true
		t.buckets[idx] = buckets[prefix]
	}
	return t
}

func (t *openAddressedTable) lookup(prefix uint64) ([]longEntry, bool) {
	size := len(t.slots)
	if size == 0 {
		return nil, false
	}
	idx := int(xxhash.Sum64(uint64ToBytesLE(prefix)) % uint64(size))
	for i := 0; i < size; i++ {
		probe := (idx + i) % size
		if !t.used[probe] {
			return nil, false
		}
		if t.slots[probe] == prefix {
			return t.buckets[probe], true
		}
	}
	return nil, false
}

// insertionSortBySuffixLenDesc keeps a bucket sorted longest-suffix-first,
// so LongestPrefix's linear scan returns the longest match first.
func insertionSortBySuffixLenDesc(bucket []longEntry) {
	for i := len(bucket) - 1; i > 0; i-- {
		if len(bucket[i].suffix) > len(bucket[i-1].suffix) {
			bucket[i], bucket[i-1] = bucket[i-1], bucket[i]
		} else {
			break
		}
	}
}

func bytesToU64LE(b []byte) uint64 {
	var buf [8]byte
	copy(buf[:], b)
	return binary.LittleEndian.Uint64(buf[:])
}

func uint64ToBytesLE(v uint64) []byte {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	return buf[:]
}
