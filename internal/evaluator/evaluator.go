// Package evaluator applies a user-supplied objective function to every
// individual in a population's current generation, writing one score per
// individual.
package evaluator

import "github.com/pbalcer/pga/internal/poolpga"

// ObjectiveFunc scores one genome. It must be pure and side-effect-free
// outside the genome slice it is given — no ordering guarantee is made
// across individuals, and two calls may run concurrently.
type ObjectiveFunc func(genome []float32) float32

// Launcher is the subset of kernel.Launcher the evaluator needs, kept as an
// interface so evaluator can be tested without spinning up a real grid.
type Launcher interface {
	Run(size int, kernelFn func(i int)) error
}

// Evaluate scores every individual in pop.Current(), writing pop.Score().
// No ordering guarantee is made across individuals.
func Evaluate(l Launcher, pop *poolpga.Population, objective ObjectiveFunc) error {
	current := pop.Current()
	score := pop.Score()

	return l.Run(pop.Size(), func(i int) {
		genome := pop.Genome(current, i)
		score[i] = objective(genome)
	})
}
