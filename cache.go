package onpair

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// DecodeCache is a bounded LRU wrapper over a Container's DecompressOne,
// trading memory for avoided re-decoding of hot indices. Grounded on the
// same cache-over-trained-model shape used for BPE merge results in the
// wider pack; the teacher's own go.mod already required golang-lru/v2
// without ever importing it — this is where that dependency earns its
// place.
type DecodeCache struct {
	container *Container
	cache     *lru.Cache[int, []byte]
}

// NewDecodeCache wraps container with an LRU cache holding up to size
// recently decoded strings.
func NewDecodeCache(container *Container, size int) (*DecodeCache, error) {
	c, err := lru.New[int, []byte](size)
	if err != nil {
		return nil, err
	}
	return &DecodeCache{container: container, cache: c}, nil
}

// Get returns the decoded bytes for string i, decoding and caching it on a
// miss.
func (dc *DecodeCache) Get(i int) ([]byte, error) {
	if v, ok := dc.cache.Get(i); ok {
		return v, nil
	}
	decoded, err := dc.container.DecompressOne(i)
	if err != nil {
		return nil, err
	}
	dc.cache.Add(i, decoded)
	return decoded, nil
}

// Len returns the number of entries currently cached.
func (dc *DecodeCache) Len() int {
	return dc.cache.Len()
}

// Purge evicts every cached entry.
func (dc *DecodeCache) Purge() {
	dc.cache.Purge()
}
