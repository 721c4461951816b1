package pipeline

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pbalcer/pga/internal/kernel"
	"github.com/pbalcer/pga/internal/objective"
	"github.com/pbalcer/pga/internal/poolpga"
)

// mathRandSource draws uniform floats via math/rand/v2, standing in for the
// engine-owned Random Source component in tests below the engine package.
type mathRandSource struct{}

func (mathRandSource) Fill(buf []float32) {
	for i := range buf {
		buf[i] = float32(rand.Float64())
	}
}

func newPipeline(t *testing.T) (*Pipeline, *kernel.Launcher) {
	t.Helper()

	l := kernel.New(4, 16)

	p := &Pipeline{
		Launcher:  l,
		Random:    mathRandSource{},
		Objective: objective.Sum,
		Crossover: objective.UniformCrossover,
		Mutate:    objective.SingleGeneMutation,
	}

	return p, l
}

func TestStep_PreservesPopulationShape(t *testing.T) {
	p, l := newPipeline(t)
	defer l.Close()

	pop, err := poolpga.Create(mathRandSource{}, 50, 16, poolpga.RandomInit)
	require.NoError(t, err)

	for range 5 {
		sizeBefore, genomeLenBefore := pop.Size(), pop.GenomeLen()

		require.NoError(t, p.Step(pop))

		assert.Equal(t, sizeBefore, pop.Size())
		assert.Equal(t, genomeLenBefore, pop.GenomeLen())
		assert.Len(t, pop.Current(), sizeBefore*genomeLenBefore)
	}
}

func TestStep_ScoreMatchesObjectiveAfterFinalEvaluate(t *testing.T) {
	p, l := newPipeline(t)
	defer l.Close()

	pop, err := poolpga.Create(mathRandSource{}, 20, 8, poolpga.RandomInit)
	require.NoError(t, err)

	for range 3 {
		require.NoError(t, p.Step(pop))
	}

	require.NoError(t, p.FinalEvaluate(pop))

	for i := range pop.Size() {
		genome := pop.Genome(pop.Current(), i)
		assert.Equal(t, objective.Sum(genome), pop.Score()[i])
	}
}

// E1: maximizing Sum should trend upward; check that the moving average of
// the best score over the last length-10 window is at least the one over
// generations 10-19.
func TestE1_SumObjectiveTrendsUpward(t *testing.T) {
	p, l := newPipeline(t)
	defer l.Close()

	pop, err := poolpga.Create(mathRandSource{}, 100, 100, poolpga.RandomInit)
	require.NoError(t, err)

	const generations = 100

	bestPerGen := make([]float32, 0, generations)

	for range generations {
		require.NoError(t, p.Step(pop))
		require.NoError(t, p.FinalEvaluate(pop))

		var best float32 = -1 << 30
		for _, s := range pop.Score() {
			if s > best {
				best = s
			}
		}

		bestPerGen = append(bestPerGen, best)
	}

	movingAvg := func(end int) float32 {
		var total float32
		for i := end - 10; i < end; i++ {
			total += bestPerGen[i]
		}

		return total / 10
	}

	early := movingAvg(20)
	late := movingAvg(generations)

	assert.GreaterOrEqual(t, late, early)
}
