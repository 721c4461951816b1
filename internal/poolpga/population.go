package poolpga

// RandomSource fills buf with uniform floats in [0, 1). It is the only way
// poolpga touches randomness; the engine owns the concrete source and its
// lifecycle.
type RandomSource interface {
	Fill(buf []float32)
}

// InitKind selects how a freshly created population's current generation is
// populated. RandomInit is the only kind this design requires.
type InitKind int

const (
	// RandomInit fills current by drawing a fresh rand buffer and copying it
	// in directly — genes land in [0, 1), the range the default objective
	// and operators expect.
	RandomInit InitKind = iota
)

// Population owns four accelerator-resident buffers for size individuals of
// genomeLen genes each: the live generation (current), a scratch generation
// (next) swapped in at generation end, per-individual scores, and a
// per-individual random strip refreshed once per generation.
//
// current and next are distinct underlying allocations for the lifetime of
// the population; Swap exchanges only the slice headers, never the
// backing arrays.
type Population struct {
	size      int
	genomeLen int

	current []float32
	next    []float32
	score   []float32
	rand    []float32
}

// Create allocates a population of size individuals of genomeLen genes and
// populates current per init. size must be >= 0 and genomeLen >=
// MinGenomeLen. size == 0 succeeds and yields an empty population, so that
// downstream zero-individual handling (ErrEmpty from GetBest) stays
// reachable; a negative size is an allocation request that can never be
// satisfied.
func Create(rng RandomSource, size, genomeLen int, init InitKind) (*Population, error) {
	if genomeLen < MinGenomeLen {
		return nil, ErrGenomeTooShort
	}

	if size < 0 {
		return nil, ErrAlloc
	}

	total := size * genomeLen

	p := &Population{
		size:      size,
		genomeLen: genomeLen,
		current:   make([]float32, total),
		next:      make([]float32, total),
		score:     make([]float32, size),
		rand:      make([]float32, total),
	}

	switch init {
	case RandomInit:
		rng.Fill(p.current)
	default:
		rng.Fill(p.current)
	}

	return p, nil
}

// Destroy releases the population's buffers. It exists for symmetry with
// the accelerator-allocation model described in the design: callers should
// not use p after Destroy returns.
func (p *Population) Destroy() {
	p.current = nil
	p.next = nil
	p.score = nil
	p.rand = nil
}

// Size returns the number of individuals.
func (p *Population) Size() int { return p.size }

// GenomeLen returns the number of genes per individual.
func (p *Population) GenomeLen() int { return p.genomeLen }

// Current returns the live generation's flat backing buffer
// (size*genomeLen genes).
func (p *Population) Current() []float32 { return p.current }

// Next returns the scratch generation's flat backing buffer.
func (p *Population) Next() []float32 { return p.next }

// Score returns the per-individual score buffer.
func (p *Population) Score() []float32 { return p.score }

// Rand returns the per-individual random strip buffer
// (size*genomeLen floats).
func (p *Population) Rand() []float32 { return p.rand }

// Genome returns the gene slice for individual i within buf (current, next,
// or rand), a size*genomeLen flat buffer belonging to this population.
func (p *Population) Genome(buf []float32, i int) []float32 {
	start := i * p.genomeLen

	return buf[start : start+p.genomeLen]
}

// RefreshRand redraws the random strip for the new generation.
func (p *Population) RefreshRand(rng RandomSource) {
	rng.Fill(p.rand)
}

// Swap exchanges current and next by pointer; it never copies gene data.
// Two consecutive swaps with no intervening write are involutive.
func (p *Population) Swap() {
	p.current, p.next = p.next, p.current
}
