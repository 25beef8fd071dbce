package normalizers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFold(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain ascii is lowered and trimmed",
			input:    "  Joseph Stalin ",
			expected: "joseph stalin",
		},
		{
			name:     "diacritics are transliterated",
			input:    "José Ángel Gutiérrez",
			expected: "jose angel gutierrez",
		},
		{
			name:     "scandinavian characters",
			input:    "Søren Kierkegård",
			expected: "soren kierkegard",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
		{
			name:     "whitespace only",
			input:    "   ",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Fold(tt.input))
		})
	}
}

func TestFold_Idempotent(t *testing.T) {
	inputs := []string{
		"Vladimir Ilyich Lenin",
		"José Ángel",
		"  Mixed   CASE  ",
		"O'Brien-Smith, Jr.",
		"",
		"Müller",
	}

	for _, s := range inputs {
		once := Fold(s)
		assert.Equal(t, once, Fold(once), "Fold must be idempotent for %q", s)
	}
}

func TestNormalizeForMatch(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "punctuation becomes space",
			input:    "o'brien-smith, jr.",
			expected: "o brien smith jr",
		},
		{
			name:     "whitespace runs collapse",
			input:    "joseph    stalin",
			expected: "joseph stalin",
		},
		{
			name:     "upper case lowered",
			input:    "V. Lenin",
			expected: "v lenin",
		},
		{
			name:     "empty",
			input:    "",
			expected: "",
		},
		{
			name:     "only punctuation",
			input:    "...---...",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeForMatch(tt.input))
		})
	}
}

func TestFoldFullName(t *testing.T) {
	assert.Equal(t, "jose marti", FoldFullName("José", "Martí"))
	assert.Equal(t, "lenin", FoldFullName("", "Lenin"))
	assert.Equal(t, "", FoldFullName("", ""))
}

func TestTokens(t *testing.T) {
	assert.Equal(t, "vladimir", FirstToken("vladimir ilyich lenin"))
	assert.Equal(t, "lenin", LastToken("vladimir ilyich lenin"))
	assert.Equal(t, "lenin", FirstToken("lenin"))
	assert.Equal(t, "lenin", LastToken("lenin"))
	assert.Equal(t, "", FirstToken("   "))
	assert.Equal(t, "", LastToken(""))
}
