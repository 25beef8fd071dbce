// Package normalizers provides name folding and canonicalization for matching
package normalizers

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/mozillazg/go-unidecode"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// Fold transliterates a name to a canonical comparable form: diacritics
// stripped to ASCII, lower-cased, trimmed. Total and idempotent; empty
// input yields the empty string.
func Fold(s string) string {
	return strings.TrimSpace(strings.ToLower(unidecode.Unidecode(s)))
}

// FoldFullName builds the cached folded_full_name value from the raw
// first/last name pair.
func FoldFullName(firstName, lastName string) string {
	return NormalizeForMatch(Fold(strings.TrimSpace(firstName + " " + lastName)))
}

// NormalizeForMatch replaces non-word, non-space characters with a space,
// collapses whitespace runs, trims and lower-cases. Applied on top of folded
// text before token splitting.
func NormalizeForMatch(s string) string {
	s = strings.ToLower(s)

	var result strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			result.WriteRune(r)
		} else {
			result.WriteRune(' ')
		}
	}

	return strings.TrimSpace(whitespaceRe.ReplaceAllString(result.String(), " "))
}

// FirstToken returns the first whitespace-delimited token, or "" if none.
func FirstToken(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// LastToken returns the last whitespace-delimited token, or "" if none.
func LastToken(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}
