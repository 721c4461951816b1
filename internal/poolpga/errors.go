// Package poolpga owns the accelerator-resident buffers backing one
// population: the double-buffered generations, per-individual scores, and
// the per-individual random strip consumed by selection, crossover, and
// mutation.
package poolpga

import "errors"

// Driver-visible errors. Create returns ErrGenomeTooShort and ErrAlloc, the
// engine's CreatePopulation adds ErrCapacity, and GetBest returns ErrEmpty.
// The engine remains usable after any of these; they are not fatal.
var (
	ErrCapacity       = errors.New("poolpga: population table is at capacity")
	ErrGenomeTooShort = errors.New("poolpga: genome length must be at least 4")
	ErrAlloc          = errors.New("poolpga: failed to allocate population buffers")
	ErrEmpty          = errors.New("poolpga: population has zero individuals")
)

// MinGenomeLen is the shortest genome this engine will accept.
const MinGenomeLen = 4
