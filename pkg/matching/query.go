package matching

import (
	"strings"

	"github.com/Ramsey-B/laurel/pkg/normalizers"
)

// Query is the parsed form of a search string. Single-token and multi-token
// queries take different retrieval and scoring paths: a lone token is
// ambiguous (first name, last name, or prefix) so it is bucketed by prefix
// and word match, while multi-token queries go through the simhash prefilter.
type Query interface {
	// Text returns the normalized query text.
	Text() string

	isQuery()
}

// SingleToken is a one-word (mononym) query.
type SingleToken string

func (q SingleToken) Text() string { return string(q) }
func (SingleToken) isQuery()       {}

// MultiToken is a query of two or more words.
type MultiToken []string

func (q MultiToken) Text() string { return strings.Join(q, " ") }
func (MultiToken) isQuery()       {}

// First returns the first query token.
func (q MultiToken) First() string { return q[0] }

// Last returns the last query token.
func (q MultiToken) Last() string { return q[len(q)-1] }

// ParseQuery folds and normalizes raw text and dispatches it to one of the
// two query variants. Returns nil for empty or whitespace-only input.
func ParseQuery(raw string) Query {
	normalized := normalizers.NormalizeForMatch(normalizers.Fold(raw))
	tokens := strings.Fields(normalized)

	switch len(tokens) {
	case 0:
		return nil
	case 1:
		return SingleToken(tokens[0])
	default:
		return MultiToken(tokens)
	}
}
