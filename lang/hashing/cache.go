package hashing

// Cache is a fixed-capacity, direct-mapped cache of values keyed by
// signature. Since signatures are already well-distributed, the slot of a
// key is derived from the signature itself through a Passthrough hash. A Put
// on an occupied slot evicts the previous entry.
//
// The zero value is not usable, create one with NewCache. A Cache is not
// safe for concurrent use.
type Cache[V any] struct {
	mask  uint64
	slots []cacheSlot[V]
}

type cacheSlot[V any] struct {
	sig Signature
	set bool
	v   V
}

// NewCache returns a cache with room for at least size entries (rounded up
// to a power of two, minimum 1).
func NewCache[V any](size int) *Cache[V] {
	n := 1
	for n < size {
		n <<= 1
	}
	return &Cache[V]{
		mask:  uint64(n - 1),
		slots: make([]cacheSlot[V], n),
	}
}

// Get returns the value cached for sig, if any.
func (c *Cache[V]) Get(sig Signature) (V, bool) {
	s := &c.slots[c.index(sig)]
	if s.set && s.sig == sig {
		return s.v, true
	}
	var zero V
	return zero, false
}

// Put caches v for sig.
func (c *Cache[V]) Put(sig Signature, v V) {
	c.slots[c.index(sig)] = cacheSlot[V]{sig: sig, set: true, v: v}
}

// Len returns the number of slots currently holding a value.
func (c *Cache[V]) Len() int {
	var n int
	for i := range c.slots {
		if c.slots[i].set {
			n++
		}
	}
	return n
}

// Clear removes all entries from the cache.
func (c *Cache[V]) Clear() {
	clear(c.slots)
}

func (c *Cache[V]) index(sig Signature) uint64 {
	var h Passthrough
	h.WriteSignature(sig)
	return h.Sum64() & c.mask
}
