package hashing

import (
	"encoding/binary"
	"fmt"
	"hash"
)

// Passthrough is a hash.Hash64 that only accepts a single pre-computed 64-bit
// value, written as exactly 8 little-endian bytes, and returns it unchanged
// as its sum. It allows a table keyed by signatures to use the signature as
// its own hash instead of mixing already well-distributed bits again.
//
// Writing any other number of bytes is a programming error and panics.
type Passthrough struct {
	v uint64
}

var _ hash.Hash64 = (*Passthrough)(nil)

// Write sets the value of the hash to the 8 little-endian bytes in p. It
// panics if p is not exactly 8 bytes long.
func (h *Passthrough) Write(p []byte) (int, error) {
	if len(p) != 8 {
		panic(fmt.Sprintf("hashing: passthrough hash can only hash 8-byte values, got %d bytes", len(p)))
	}
	h.v = binary.LittleEndian.Uint64(p)
	return len(p), nil
}

// WriteSignature sets the value of the hash to sig.
func (h *Passthrough) WriteSignature(sig Signature) {
	h.v = uint64(sig)
}

// Sum64 returns the value written to the hash.
func (h *Passthrough) Sum64() uint64 { return h.v }

// Sum appends the big-endian encoding of the value to b, as required by the
// hash.Hash interface.
func (h *Passthrough) Sum(b []byte) []byte {
	return binary.BigEndian.AppendUint64(b, h.v)
}

func (h *Passthrough) Reset()         { h.v = 0 }
func (h *Passthrough) Size() int      { return 8 }
func (h *Passthrough) BlockSize() int { return 8 }
