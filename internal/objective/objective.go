// Package objective provides ready-made objective, crossover, and mutation
// strategies: the defaults the engine installs at init, and a couple of
// demo objectives used by the end-to-end tests and the CLI driver.
package objective

// Sum scores a genome by the sum of its genes (E1: maximized by driving
// every gene toward its upper bound).
func Sum(genome []float32) float32 {
	var total float32
	for _, g := range genome {
		total += g
	}

	return total
}

// SphereMin scores a genome by the negative sum of squared distances from
// 0.5 per component (E2: maximized, i.e. closest to zero, when every gene
// is 0.5).
func SphereMin(genome []float32) float32 {
	var total float32

	for _, g := range genome {
		d := g - 0.5
		total += d * d
	}

	return -total
}

// UniformCrossover is the default crossover: gene j of the child is
// parentA[j] if randStrip[j] > 0.5, else parentB[j]. It reads the full
// per-individual random strip from offset 0, as an independent view that
// includes the floats the tournaments already read.
func UniformCrossover(parentA, parentB, child, randStrip []float32, genomeLen int) {
	for j := range genomeLen {
		if randStrip[j] > 0.5 {
			child[j] = parentA[j]
		} else {
			child[j] = parentB[j]
		}
	}
}

// MutationRate is the default per-individual mutation probability.
const MutationRate = 0.01

// SingleGeneMutation is the default mutation: with probability
// MutationRate (drawn from randStrip[1]), it replaces the gene at
// floor(randStrip[0]*genomeLen) with randStrip[2].
func SingleGeneMutation(child, randStrip []float32, genomeLen int) {
	if randStrip[1] > MutationRate {
		return
	}

	pos := int(randStrip[0] * float32(genomeLen))
	if pos >= genomeLen {
		pos = genomeLen - 1
	}

	child[pos] = randStrip[2]
}
