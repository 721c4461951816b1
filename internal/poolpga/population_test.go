package poolpga

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedSource fills every slot with the same value, letting tests pin down
// exactly what Create and RefreshRand observe.
type fixedSource struct{ value float32 }

func (s fixedSource) Fill(buf []float32) {
	for i := range buf {
		buf[i] = s.value
	}
}

func TestCreate_GenomeTooShort(t *testing.T) {
	_, err := Create(fixedSource{0.5}, 10, 3, RandomInit)
	require.ErrorIs(t, err, ErrGenomeTooShort)
}

func TestCreate_RandomInitRange(t *testing.T) {
	pop, err := Create(fixedSource{0.42}, 10, 8, RandomInit)
	require.NoError(t, err)

	assert.Len(t, pop.Current(), 10*8)

	for _, g := range pop.Current() {
		assert.Equal(t, float32(0.42), g)
	}
}

func TestSwap_Involutive(t *testing.T) {
	pop, err := Create(fixedSource{0.1}, 4, 4, RandomInit)
	require.NoError(t, err)

	current, next := pop.Current(), pop.Next()

	pop.Swap()
	pop.Swap()

	assert.Same(t, &current[0], &pop.Current()[0])
	assert.Same(t, &next[0], &pop.Next()[0])
}

func TestSwap_ExchangesPointersNotData(t *testing.T) {
	pop, err := Create(fixedSource{0.0}, 4, 4, RandomInit)
	require.NoError(t, err)

	pop.Next()[0] = 9.0
	pop.Swap()

	assert.Equal(t, float32(9.0), pop.Current()[0])
}

func TestGenome_SlicesCorrectIndividual(t *testing.T) {
	pop, err := Create(fixedSource{0.0}, 4, 4, RandomInit)
	require.NoError(t, err)

	buf := pop.Current()
	for i := range buf {
		buf[i] = float32(i)
	}

	g := pop.Genome(buf, 2)
	assert.Equal(t, []float32{8, 9, 10, 11}, g)
}

func TestCreate_ZeroSizeSucceedsWithEmptyBuffers(t *testing.T) {
	pop, err := Create(fixedSource{0.5}, 0, 4, RandomInit)
	require.NoError(t, err)

	assert.Equal(t, 0, pop.Size())
	assert.Empty(t, pop.Current())
	assert.Empty(t, pop.Score())
}

func TestCreate_NegativeSizeFails(t *testing.T) {
	_, err := Create(fixedSource{0.5}, -1, 4, RandomInit)
	require.ErrorIs(t, err, ErrAlloc)
}

func TestRefreshRand(t *testing.T) {
	pop, err := Create(fixedSource{0.0}, 3, 4, RandomInit)
	require.NoError(t, err)

	pop.RefreshRand(fixedSource{0.77})

	for _, r := range pop.Rand() {
		assert.Equal(t, float32(0.77), r)
	}
}
