// Package pipeline orchestrates one generation of the evolutionary loop:
// refresh the random strip, evaluate, cross over into next, mutate next,
// then swap generations.
package pipeline

import (
	"github.com/pbalcer/pga/internal/evaluator"
	"github.com/pbalcer/pga/internal/mutator"
	"github.com/pbalcer/pga/internal/poolpga"
	"github.com/pbalcer/pga/internal/selector"
)

// Launcher is the subset of kernel.Launcher every pipeline stage needs.
type Launcher interface {
	Run(size int, kernelFn func(i int)) error
}

// Pipeline holds the registered user functions and the shared launcher and
// random source used to run one generation at a time.
type Pipeline struct {
	Launcher  Launcher
	Random    poolpga.RandomSource
	Objective evaluator.ObjectiveFunc
	Crossover selector.CrossoverFunc
	Mutate    mutator.MutateFunc
}

// Step runs one generation on pop: refill rand, evaluate current, cross
// over into next, mutate next, then swap current and next. Evaluation
// precedes selection because selection needs current's scores; mutation
// follows crossover so crossover's structure-preserving mixing dominates,
// with mutation as a perturbation.
func (p *Pipeline) Step(pop *poolpga.Population) error {
	pop.RefreshRand(p.Random)

	if err := evaluator.Evaluate(p.Launcher, pop, p.Objective); err != nil {
		return err
	}

	if err := selector.CrossoverGeneration(p.Launcher, pop, p.Crossover); err != nil {
		return err
	}

	if err := mutator.MutateGeneration(p.Launcher, pop, p.Mutate); err != nil {
		return err
	}

	pop.Swap()

	return nil
}

// FinalEvaluate re-scores pop.Current() without advancing a generation. It
// must be called once after the last Step of a run so that Score
// corresponds to the generation Current ends on.
func (p *Pipeline) FinalEvaluate(pop *poolpga.Population) error {
	return evaluator.Evaluate(p.Launcher, pop, p.Objective)
}
