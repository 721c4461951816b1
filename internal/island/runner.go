// Package island couples one evolutionary pipeline engine with the
// migration layer, running a single island's share of a multi-process
// run.
package island

import (
	"sort"

	"github.com/pbalcer/pga/internal/engine"
	"github.com/pbalcer/pga/internal/migration"
	"github.com/pbalcer/pga/internal/poolpga"
)

// Config couples the generation pipeline's cadence with the migration
// layer's polling interval and boat size.
type Config struct {
	// Generations is the total number of ticks this island runs.
	Generations int
	// MigrationInterval (m) polls migration once every m generations.
	MigrationInterval int
	// MigrantCount (k) is the number of genomes per boat.
	MigrantCount int
	// TargetScore, if non-nil, stops the run once a generation's best
	// score meets or exceeds it.
	TargetScore *float32
}

// Runner drives one island: an engine.Engine evolving pop, polling a
// migration.Engine at the configured cadence.
type Runner struct {
	engine    *engine.Engine
	migration *migration.Engine
	pop       *poolpga.Population
	cfg       Config
}

// NewRunner builds a runner coupling eng/pop with a migration engine over
// transport. A nil onDeparture/onArrival installs the default elitist
// policy: emigration sends the MigrantCount best-scoring individuals;
// immigration overwrites the MigrantCount worst-scoring individuals.
func NewRunner(eng *engine.Engine, pop *poolpga.Population, transport migration.Transport, cfg Config, onDeparture migration.OnDeparture, onArrival migration.OnArrival) *Runner {
	r := &Runner{engine: eng, pop: pop, cfg: cfg}

	if onDeparture == nil {
		onDeparture = r.defaultOnDeparture
	}

	if onArrival == nil {
		onArrival = r.defaultOnArrival
	}

	r.migration = migration.NewEngine(transport, cfg.MigrantCount, pop.GenomeLen(), onDeparture, onArrival)

	return r
}

// Migration returns the underlying migration engine, mainly so tests can
// read its Sent/Received counters.
func (r *Runner) Migration() *migration.Engine { return r.migration }

// Run executes cfg.Generations generations. Every cfg.MigrationInterval
// generations it polls immigration then emigration, per the design's
// tick ordering. After the loop it runs a final evaluation and returns
// the best genome and score via pga_get_best semantics.
func (r *Runner) Run() ([]float32, float32, error) {
	for gen := 1; gen <= r.cfg.Generations; gen++ {
		if err := r.engine.Tick(r.pop); err != nil {
			return nil, 0, err
		}

		if r.engine.OnGeneration != nil {
			r.engine.OnGeneration(gen, r.pop.Score())
		}

		if r.cfg.MigrationInterval > 0 && gen%r.cfg.MigrationInterval == 0 {
			// Tick leaves Score describing the generation it swapped out;
			// re-score Current so the migration callbacks rank the genomes
			// they read and overwrite.
			if err := r.engine.FinalEvaluate(r.pop); err != nil {
				return nil, 0, err
			}

			if err := r.migration.ImmigrationTick(); err != nil {
				return nil, 0, err
			}

			if err := r.migration.EmigrationTick(); err != nil {
				return nil, 0, err
			}
		}

		if r.cfg.TargetScore != nil && bestOf(r.pop.Score()) >= *r.cfg.TargetScore {
			break
		}
	}

	if err := r.engine.FinalEvaluate(r.pop); err != nil {
		return nil, 0, err
	}

	genome, score, err := engine.GetBest(r.pop)
	if err != nil {
		return nil, 0, err
	}

	return genome, score, nil
}

func (r *Runner) defaultOnDeparture(buf migration.Buffer) {
	genomeLen := r.pop.GenomeLen()

	for slot, idx := range rankedIndices(r.pop.Score(), len(buf)/genomeLen, true) {
		copy(buf[slot*genomeLen:(slot+1)*genomeLen], r.pop.Genome(r.pop.Current(), idx))
	}
}

func (r *Runner) defaultOnArrival(buf migration.Buffer) {
	genomeLen := r.pop.GenomeLen()

	for slot, idx := range rankedIndices(r.pop.Score(), len(buf)/genomeLen, false) {
		copy(r.pop.Genome(r.pop.Current(), idx), buf[slot*genomeLen:(slot+1)*genomeLen])
	}
}

// rankedIndices returns up to k individual indices, sorted best-first
// when best is true or worst-first otherwise.
func rankedIndices(score []float32, k int, best bool) []int {
	idx := make([]int, len(score))
	for i := range idx {
		idx[i] = i
	}

	sort.Slice(idx, func(a, b int) bool {
		if best {
			return score[idx[a]] > score[idx[b]]
		}

		return score[idx[a]] < score[idx[b]]
	})

	if k > len(idx) {
		k = len(idx)
	}

	return idx[:k]
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
