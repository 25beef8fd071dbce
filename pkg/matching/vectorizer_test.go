package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNGramSimilarities(t *testing.T) {
	t.Run("identical text scores one", func(t *testing.T) {
		sims, err := NGramSimilarities("vladimir lenin", []string{"vladimir lenin"}, 10)
		require.NoError(t, err)
		require.Len(t, sims, 1)
		assert.InDelta(t, 1.0, sims[0], 1e-9)
	})

	t.Run("closer name scores higher", func(t *testing.T) {
		sims, err := NGramSimilarities("vladimir lenin", []string{"vladimir lenin", "v lenin", "joseph stalin"}, 10)
		require.NoError(t, err)
		require.Len(t, sims, 3)
		assert.Greater(t, sims[0], sims[1])
		assert.Greater(t, sims[1], sims[2])
	})

	t.Run("disjoint shingles score zero", func(t *testing.T) {
		sims, err := NGramSimilarities("aaaaaa", []string{"zzzzzz"}, 10)
		require.NoError(t, err)
		assert.Equal(t, 0.0, sims[0])
	})

	t.Run("all similarities in unit interval", func(t *testing.T) {
		sims, err := NGramSimilarities("jane stallworth", []string{"joseph stalin", "jane stallworth", "mao zedong", "x"}, 10)
		require.NoError(t, err)
		for i, sim := range sims {
			assert.GreaterOrEqual(t, sim, 0.0, "candidate %d", i)
			assert.LessOrEqual(t, sim, 1.0+1e-9, "candidate %d", i)
		}
	})

	t.Run("degenerate query yields zeros", func(t *testing.T) {
		sims, err := NGramSimilarities("ab", []string{"joseph stalin"}, 10)
		require.NoError(t, err)
		assert.Equal(t, 0.0, sims[0])
	})

	t.Run("degenerate candidate yields zero", func(t *testing.T) {
		sims, err := NGramSimilarities("joseph stalin", []string{"ab"}, 10)
		require.NoError(t, err)
		assert.Equal(t, 0.0, sims[0])
	})

	t.Run("batch over cap is an error", func(t *testing.T) {
		_, err := NGramSimilarities("joseph stalin", []string{"a b c", "d e f"}, 1)
		assert.Error(t, err)
	})

	t.Run("empty batch succeeds", func(t *testing.T) {
		sims, err := NGramSimilarities("joseph stalin", nil, 10)
		require.NoError(t, err)
		assert.Empty(t, sims)
	})
}

func TestShingles(t *testing.T) {
	grams := shingles("lenin")
	// 3-grams: len, eni, nin; 4-grams: leni, enin; 5-grams: lenin.
	assert.Len(t, grams, 6)
	assert.Equal(t, 1, grams["len"])
	assert.Equal(t, 1, grams["lenin"])

	assert.Empty(t, shingles("ab"))
	assert.Empty(t, shingles(""))
}
