package migration

import (
	"encoding/binary"
	"math"
)

// Buffer is one boat: k migrant genomes flattened to k*genomeLen genes,
// the unit the migration engine exchanges between islands.
type Buffer []float32

// NewBuffer allocates a zeroed boat sized for k genomes of genomeLen
// genes each.
func NewBuffer(k, genomeLen int) Buffer {
	return make(Buffer, k*genomeLen)
}

// Bytes encodes b as little-endian float32 bytes, the wire form
// Transport implementations move.
func (b Buffer) Bytes() []byte {
	raw := make([]byte, len(b)*4)
	b.EncodeInto(raw)
	return raw
}

// EncodeInto encodes b into a caller-owned raw buffer, avoiding an
// allocation per send when raw is reused across ticks.
func (b Buffer) EncodeInto(raw []byte) {
	for i, g := range b {
		binary.LittleEndian.PutUint32(raw[i*4:], math.Float32bits(g))
	}
}

// Decode overwrites b's contents by decoding raw transport bytes.
func (b Buffer) Decode(raw []byte) {
	for i := range b {
		b[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[i*4:]))
	}
}

// Zero clears b in place, matching the design's "initialize the receive
// buffer to zero before posting" rule.
func (b Buffer) Zero() {
	for i := range b {
		b[i] = 0
	}
}
