// Package selector tournament-selects two parents per output slot from the
// per-generation random strip and produces a child via a user-supplied
// crossover function.
package selector

import "github.com/pbalcer/pga/internal/poolpga"

// TournamentSize is the number of candidates sampled per parent. It is
// fixed: the random strip's layout (offsets [0, 2*TournamentSize) read by
// the two tournaments) is co-designed with this constant, per the
// design's note that the three rand consumers (selection, crossover,
// mutation) must not be changed independently.
const TournamentSize = 2

// CrossoverFunc combines two parents into a child genome of the same
// length, consuming the full per-individual random strip (not just the
// floats the tournaments drew) as an independent view of the same refreshed
// buffer.
type CrossoverFunc func(parentA, parentB, child, randStrip []float32, genomeLen int)

// Launcher is the subset of kernel.Launcher the selector needs.
type Launcher interface {
	Run(size int, kernelFn func(i int)) error
}

// CrossoverGeneration fills pop.Next() with one child per output slot: for
// slot i, two parents are tournament-selected from pop.Current() using
// pop.Score() and the first 2*TournamentSize floats of pop.Genome(rand, i),
// then crossover produces next[i].
func CrossoverGeneration(l Launcher, pop *poolpga.Population, crossover CrossoverFunc) error {
	current := pop.Current()
	next := pop.Next()
	score := pop.Score()
	rnd := pop.Rand()
	size := pop.Size()
	genomeLen := pop.GenomeLen()

	return l.Run(size, func(i int) {
		strip := pop.Genome(rnd, i)

		aIdx := tournamentWinner(strip[0:TournamentSize], score, size)
		bIdx := tournamentWinner(strip[TournamentSize:2*TournamentSize], score, size)

		parentA := pop.Genome(current, aIdx)
		parentB := pop.Genome(current, bIdx)
		child := pop.Genome(next, i)

		crossover(parentA, parentB, child, strip, genomeLen)
	})
}

// tournamentWinner interprets each candidate float as floor(f*size) and
// returns the candidate index with the highest score. Ties are broken by
// first-seen order within the candidate slice.
func tournamentWinner(candidates []float32, score []float32, size int) int {
	best := clampIndex(candidates[0], size)
	bestScore := score[best]

	for _, f := range candidates[1:] {
		idx := clampIndex(f, size)
		if score[idx] > bestScore {
			best = idx
			bestScore = score[idx]
		}
	}

	return best
}

func clampIndex(f float32, size int) int {
	idx := int(f * float32(size))

	switch {
	case idx < 0:
		return 0
	case idx >= size:
		return size - 1
	default:
		return idx
	}
}
