// Package mutator applies a user-supplied mutation function to every child
// in a population's next generation.
package mutator

import "github.com/pbalcer/pga/internal/poolpga"

// MutateFunc perturbs child in place, consuming randStrip (the same
// per-individual random buffer the selector and crossover read) and the
// genome length.
type MutateFunc func(child, randStrip []float32, genomeLen int)

// Launcher is the subset of kernel.Launcher the mutator needs.
type Launcher interface {
	Run(size int, kernelFn func(i int)) error
}

// MutateGeneration rewrites every individual in pop.Next() in place via
// mutate.
func MutateGeneration(l Launcher, pop *poolpga.Population, mutate MutateFunc) error {
	next := pop.Next()
	rnd := pop.Rand()
	genomeLen := pop.GenomeLen()

	return l.Run(pop.Size(), func(i int) {
		child := pop.Genome(next, i)
		strip := pop.Genome(rnd, i)

		mutate(child, strip, genomeLen)
	})
}
