package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScorer_ScoreBounds(t *testing.T) {
	s := NewScorer()

	queries := []string{"stal", "x", "vladimir lenin", "jane stallworth", ""}
	candidates := []string{"joseph stalin", "jane stallworth", "v lenin", "mao zedong", "", "a"}

	for _, rawQ := range queries {
		for _, c := range candidates {
			q := ParseQuery(rawQ)
			var score int
			switch q := q.(type) {
			case SingleToken:
				score = s.ScoreSingleToken(q, c)
			case MultiToken:
				score = s.ScoreMultiToken(q, c, 0.5)
			default:
				continue
			}
			assert.GreaterOrEqual(t, score, 0, "query=%q candidate=%q", rawQ, c)
			assert.LessOrEqual(t, score, 100, "query=%q candidate=%q", rawQ, c)
		}
	}
}

func TestScorer_SingleTokenBoosts(t *testing.T) {
	s := NewScorer()

	t.Run("prefix of last name scores at least as high as weaker prefix", func(t *testing.T) {
		stalin := s.ScoreSingleToken(SingleToken("stal"), "joseph stalin")
		stallworth := s.ScoreSingleToken(SingleToken("stal"), "jane stallworth")
		assert.GreaterOrEqual(t, stalin, stallworth)
	})

	t.Run("exact token match collects both boosts", func(t *testing.T) {
		base := s.Ratio("lenin", "vladimir ulyanov")
		exact := s.ScoreSingleToken(SingleToken("lenin"), "vladimir lenin")
		assert.Greater(t, exact, base)
	})

	t.Run("unrelated candidate stays low", func(t *testing.T) {
		score := s.ScoreSingleToken(SingleToken("stal"), "mao zedong")
		assert.Less(t, score, 50)
	})
}

func TestScorer_MultiTokenBoosts(t *testing.T) {
	s := NewScorer()
	query := ParseQuery("Vladimir Lenin").(MultiToken)

	t.Run("last token exact match adds boost", func(t *testing.T) {
		with := s.ScoreMultiToken(query, "v lenin", 0)
		without := s.ScoreMultiToken(query, "v lenon", 0)
		assert.Greater(t, with, without)
	})

	t.Run("initials boost applies for single letter first token", func(t *testing.T) {
		initialQuery := ParseQuery("V Lenin").(MultiToken)
		with := s.ScoreMultiToken(initialQuery, "vladimir lenin", 0)
		assert.GreaterOrEqual(t, with, s.Ratio("v lenin", "vladimir lenin")*45/100)
	})

	t.Run("zero ngram similarity does not zero the score", func(t *testing.T) {
		score := s.ScoreMultiToken(query, "vladimir lenin", 0)
		assert.Greater(t, score, 20)
	})

	t.Run("ngram similarity raises the blend", func(t *testing.T) {
		low := s.ScoreMultiToken(query, "v lenin", 0)
		high := s.ScoreMultiToken(query, "v lenin", 0.9)
		assert.Greater(t, high, low)
	})
}

func TestScorer_Ratio(t *testing.T) {
	s := NewScorer()

	assert.Equal(t, 100, s.Ratio("joseph stalin", "joseph stalin"))
	assert.Equal(t, 0, s.Ratio("", "joseph stalin"))
	assert.Equal(t, 0, s.Ratio("joseph stalin", ""))

	// Token-set ratio tolerates reordering.
	assert.Equal(t, 100, s.Ratio("stalin joseph", "joseph stalin"))

	// Partial ratio tolerates containment.
	assert.Equal(t, 100, s.Ratio("stalin", "joseph stalin"))
}

func TestClampScore(t *testing.T) {
	assert.Equal(t, 0, clampScore(-3.2))
	assert.Equal(t, 0, clampScore(0))
	assert.Equal(t, 50, clampScore(49.5))
	assert.Equal(t, 100, clampScore(100))
	assert.Equal(t, 100, clampScore(113.4))
}
