package matching

import (
	"math"
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"github.com/Ramsey-B/laurel/pkg/normalizers"
)

// Score blend weights and boosts. These are frozen: changing them reorders
// every ranking the service produces.
const (
	ngramWeight = 0.55
	ratioWeight = 0.45

	mononymExactBoost  = 10
	mononymPrefixBoost = 6
	initialsBoost      = 8
	lastTokenBoost     = 3
)

// Scorer computes 0-100 similarity scores between a parsed query and
// candidate names. It is stateless and safe for concurrent use.
type Scorer struct{}

// NewScorer creates a new Scorer.
func NewScorer() *Scorer {
	return &Scorer{}
}

// Ratio is the string-edit-distance leg of the score: the higher of a
// token-set ratio (tolerant of word reordering) and a best-partial-substring
// ratio (tolerant of partial overlap), both on a 0-100 scale.
func (s *Scorer) Ratio(a, b string) int {
	if a == "" || b == "" {
		return 0
	}
	tokenSet := fuzzy.TokenSetRatio(a, b)
	partial := fuzzy.PartialRatio(a, b)
	if partial > tokenSet {
		return partial
	}
	return tokenSet
}

// ScoreSingleToken scores a mononym query against a candidate's normalized
// full name. The boosts are additive: an exact token match also collects the
// prefix boost.
func (s *Scorer) ScoreSingleToken(query SingleToken, candidate string) int {
	token := string(query)
	score := float64(s.Ratio(token, candidate))

	first := normalizers.FirstToken(candidate)
	last := normalizers.LastToken(candidate)

	if token == first || token == last {
		score += mononymExactBoost
	}
	if strings.HasPrefix(first, token) || strings.HasPrefix(last, token) {
		score += mononymPrefixBoost
	}

	return clampScore(score)
}

// ScoreMultiToken blends the n-gram cosine similarity (0-1, rescaled) with
// the edit ratio, then applies the initials and last-token boosts. A missing
// n-gram term (ngramSim == 0) lowers confidence but never fails the score.
func (s *Scorer) ScoreMultiToken(query MultiToken, candidate string, ngramSim float64) int {
	score := ngramWeight*ngramSim*100 + ratioWeight*float64(s.Ratio(query.Text(), candidate))

	first := query.First()
	if len(first) == 1 && strings.HasPrefix(normalizers.FirstToken(candidate), first) {
		score += initialsBoost
	}
	if query.Last() == normalizers.LastToken(candidate) {
		score += lastTokenBoost
	}

	return clampScore(score)
}

// clampScore rounds to the nearest integer and clamps to [0, 100].
func clampScore(v float64) int {
	score := int(math.Round(v))
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
