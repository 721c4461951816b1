// Package engine is the driver-facing handle on top of the evolutionary
// pipeline: it owns the population table, the registered user functions,
// and the kernel grid, and exposes the init/create_population/run/get_best
// surface an external CLI driver calls.
package engine

import (
	"github.com/pbalcer/pga/internal/evaluator"
	"github.com/pbalcer/pga/internal/kernel"
	"github.com/pbalcer/pga/internal/mutator"
	"github.com/pbalcer/pga/internal/objective"
	"github.com/pbalcer/pga/internal/pipeline"
	"github.com/pbalcer/pga/internal/poolpga"
	"github.com/pbalcer/pga/internal/selector"
)

// GridConfig is the kernel launcher's fixed worker grid.
type GridConfig struct {
	Blocks  int
	Threads int
}

// Engine owns a bounded array of populations, the three user-supplied
// function handles, and the kernel grid dimensions. Setters overwrite the
// stored handles atomically from the caller's perspective: they are never
// called concurrently with Run.
type Engine struct {
	capacity    int
	populations []*poolpga.Population

	random   *RandomSource
	launcher *kernel.Launcher
	grid     GridConfig

	objective evaluator.ObjectiveFunc
	mutate    mutator.MutateFunc
	crossover selector.CrossoverFunc

	// OnGeneration, if set, is invoked after every completed generation
	// during Run with the 1-based generation number and that generation's
	// score buffer. It exists purely for driver-facing observability
	// (logging, progress bars) and is never required for correctness.
	OnGeneration func(generation int, score []float32)
}

// Init creates an engine with room for capacity populations and a kernel
// grid of grid.Blocks*grid.Threads workers. It seeds the random source and
// installs the default mutate/crossover strategies; no default objective
// is installed, since the objective is inherently problem-specific.
func Init(capacity int, grid GridConfig) *Engine {
	return &Engine{
		capacity: capacity,
		random:   NewRandomSource(),
		launcher: kernel.New(grid.Blocks, grid.Threads),
		grid:     grid,

		mutate:    objective.SingleGeneMutation,
		crossover: objective.UniformCrossover,
	}
}

// Deinit destroys the random source, destroys every population, and
// releases the kernel grid. The engine must not be used afterward.
func (e *Engine) Deinit() {
	e.launcher.Close()

	for _, pop := range e.populations {
		pop.Destroy()
	}

	e.populations = nil
	e.random = nil
}

// SetObjective registers the objective function used by Run.
func (e *Engine) SetObjective(fn evaluator.ObjectiveFunc) { e.objective = fn }

// SetMutate overrides the mutation function, replacing the installed
// default.
func (e *Engine) SetMutate(fn mutator.MutateFunc) { e.mutate = fn }

// SetCrossover overrides the crossover function, replacing the installed
// default.
func (e *Engine) SetCrossover(fn selector.CrossoverFunc) { e.crossover = fn }

// CreatePopulation allocates a new population and adds it to the engine's
// table. It fails with poolpga.ErrCapacity once capacity populations exist.
func (e *Engine) CreatePopulation(size, genomeLen int, init poolpga.InitKind) (*poolpga.Population, error) {
	if len(e.populations) >= e.capacity {
		return nil, poolpga.ErrCapacity
	}

	pop, err := poolpga.Create(e.random, size, genomeLen, init)
	if err != nil {
		return nil, err
	}

	e.populations = append(e.populations, pop)

	return pop, nil
}

// pipeline builds the Pipeline wired to this engine's current handles. It
// is rebuilt per Run/Tick call so a SetObjective/SetMutate/SetCrossover
// between runs takes effect immediately.
func (e *Engine) pipeline() *pipeline.Pipeline {
	return &pipeline.Pipeline{
		Launcher:  e.launcher,
		Random:    e.random,
		Objective: e.objective,
		Crossover: e.crossover,
		Mutate:    e.mutate,
	}
}

// Tick runs exactly one generation of the pipeline on pop.
func (e *Engine) Tick(pop *poolpga.Population) error {
	if e.objective == nil {
		return ErrNoObjective
	}

	return e.pipeline().Step(pop)
}

// FinalEvaluate re-scores pop.Current() without advancing a generation. A
// driver that ticks pop itself (rather than calling Run) must call this
// once after its last Tick so Score corresponds to Current before reading
// GetBest — Step leaves Score describing the generation that was just
// swapped out.
func (e *Engine) FinalEvaluate(pop *poolpga.Population) error {
	if e.objective == nil {
		return ErrNoObjective
	}

	return e.pipeline().FinalEvaluate(pop)
}

// Run evolves pop for generations generations, single-process. If
// targetScore is non-nil, the run stops early once a generation's best
// score meets or exceeds it. After the loop (whether it ran to completion
// or stopped early), pop's score is refreshed once more so it corresponds
// to pop.Current().
func (e *Engine) Run(pop *poolpga.Population, generations int, targetScore *float32) error {
	if e.objective == nil {
		return ErrNoObjective
	}

	p := e.pipeline()

	for gen := 1; gen <= generations; gen++ {
		if err := p.Step(pop); err != nil {
			return err
		}

		if e.OnGeneration != nil {
			e.OnGeneration(gen, pop.Score())
		}

		if targetScore != nil && bestOf(pop.Score()) >= *targetScore {
			break
		}
	}

	return p.FinalEvaluate(pop)
}

// GetBest copies the highest-scoring individual's genome to a fresh host
// buffer, along with its score. Ties are broken first-seen. It returns
// poolpga.ErrEmpty for a zero-size population.
func GetBest(pop *poolpga.Population) ([]float32, float32, error) {
	if pop.Size() == 0 {
		return nil, 0, poolpga.ErrEmpty
	}

	score := pop.Score()
	bestIdx := 0

	for i, s := range score {
		if s > score[bestIdx] {
			bestIdx = i
		}
	}

	genome := pop.Genome(pop.Current(), bestIdx)
	host := make([]float32, len(genome))
	copy(host, genome)

	return host, score[bestIdx], nil
}

func bestOf(score []float32) float32 {
	best := score[0]
	for _, s := range score[1:] {
		if s > best {
			best = s
		}
	}

	return best
}
