package island

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pbalcer/pga/internal/engine"
	"github.com/pbalcer/pga/internal/migration"
	"github.com/pbalcer/pga/internal/objective"
	"github.com/pbalcer/pga/internal/poolpga"
)

// E2: single process, SphereMin objective. After enough generations the
// best individual's genes average within 0.1 of 0.5 component-wise.
func TestE2_SphereMinConvergesTowardHalf(t *testing.T) {
	eng := engine.Init(1, engine.GridConfig{Blocks: 2, Threads: 4})
	defer eng.Deinit()

	eng.SetObjective(objective.SphereMin)

	pop, err := eng.CreatePopulation(64, 16, poolpga.RandomInit)
	require.NoError(t, err)

	hub := migration.NewLocalHub(1)
	r := NewRunner(eng, pop, hub.Transport(0), Config{
		Generations:       200,
		MigrationInterval: 0,
		MigrantCount:      1,
	}, nil, nil)

	genome, _, err := r.Run()
	require.NoError(t, err)

	var sum float32
	for _, g := range genome {
		sum += g
	}
	mean := sum / float32(len(genome))

	assert.InDelta(t, 0.5, mean, 0.1)
}

// E3: two processes, m=3, k=30. After 20 generations each process has
// both posted and received at least one boat.
func TestE3_TwoProcessesExchangeBoats(t *testing.T) {
	const k = 30
	const genomeLen = 16

	hub := migration.NewLocalHub(2)

	runners := make([]*Runner, 2)
	for rank := range 2 {
		eng := engine.Init(1, engine.GridConfig{Blocks: 1, Threads: 4})
		defer eng.Deinit()

		eng.SetObjective(objective.Sum)

		pop, err := eng.CreatePopulation(40, genomeLen, poolpga.RandomInit)
		require.NoError(t, err)

		runners[rank] = NewRunner(eng, pop, hub.Transport(rank), Config{
			Generations:       20,
			MigrationInterval: 3,
			MigrantCount:      k,
		}, nil, nil)
	}

	done := make(chan error, 2)
	for _, r := range runners {
		r := r
		go func() {
			_, _, err := r.Run()
			done <- err
		}()
	}

	for range 2 {
		require.NoError(t, <-done)
	}

	for rank, r := range runners {
		assert.Greaterf(t, r.Migration().Sent, 0, "rank %d never sent a boat", rank)
		assert.Greaterf(t, r.Migration().Received, 0, "rank %d never received a boat", rank)
	}
}

// E4: four processes. Over many generations, every sender != self sends
// to every receiver at least once with high probability.
func TestE4_FourProcessesCoverAllSenderReceiverPairs(t *testing.T) {
	const size = 4
	const genomeLen = 8

	hub := migration.NewLocalHub(size)

	seenFrom := make([][]bool, size)
	for i := range seenFrom {
		seenFrom[i] = make([]bool, size)
	}

	runners := make([]*Runner, size)
	for rank := range size {
		rank := rank

		eng := engine.Init(1, engine.GridConfig{Blocks: 1, Threads: 4})
		defer eng.Deinit()

		eng.SetObjective(objective.Sum)

		pop, err := eng.CreatePopulation(30, genomeLen, poolpga.RandomInit)
		require.NoError(t, err)

		onDeparture := func(buf migration.Buffer) {
			for i := range buf {
				buf[i] = float32(rank) // tag payload: the sender's own rank
			}
		}

		onArrival := func(buf migration.Buffer) {
			if len(buf) == 0 {
				return
			}
			sender := int(buf[0])
			seenFrom[rank][sender] = true
		}

		runners[rank] = NewRunner(eng, pop, hub.Transport(rank), Config{
			Generations:       50,
			MigrationInterval: 1,
			MigrantCount:      1,
		}, onDeparture, onArrival)
	}

	done := make(chan error, size)
	for _, r := range runners {
		r := r
		go func() {
			_, _, err := r.Run()
			done <- err
		}()
	}

	for range size {
		require.NoError(t, <-done)
	}

	for receiver := range size {
		for sender := range size {
			if sender == receiver {
				continue
			}
			assert.Truef(t, seenFrom[receiver][sender], "rank %d never received from rank %d", receiver, sender)
		}
	}
}

// Run's returned score must correspond to the returned genome's objective
// value: a final evaluation after the last tick is required because Step
// leaves Score describing the pre-swap parents, not post-swap Current.
func TestRun_ScoreMatchesReturnedGenome(t *testing.T) {
	eng := engine.Init(1, engine.GridConfig{Blocks: 1, Threads: 4})
	defer eng.Deinit()

	eng.SetObjective(objective.Sum)

	pop, err := eng.CreatePopulation(20, 8, poolpga.RandomInit)
	require.NoError(t, err)

	hub := migration.NewLocalHub(1)
	r := NewRunner(eng, pop, hub.Transport(0), Config{
		Generations:       5,
		MigrationInterval: 0,
		MigrantCount:      1,
	}, nil, nil)

	genome, score, err := r.Run()
	require.NoError(t, err)

	assert.Equal(t, objective.Sum(genome), score)
}

// E6: genome-too-short must not grow the population table.
func TestE6_GenomeTooShortLeavesTableUnchanged(t *testing.T) {
	eng := engine.Init(1, engine.GridConfig{Blocks: 1, Threads: 2})
	defer eng.Deinit()

	_, err := eng.CreatePopulation(10, 3, poolpga.RandomInit)
	require.ErrorIs(t, err, poolpga.ErrGenomeTooShort)

	_, err = eng.CreatePopulation(10, 8, poolpga.RandomInit)
	require.NoError(t, err)
}
