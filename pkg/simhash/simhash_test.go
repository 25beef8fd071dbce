package simhash

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFingerprint_Deterministic(t *testing.T) {
	inputs := []string{
		"vladimir lenin",
		"joseph stalin",
		"jane stallworth",
		"a",
		"mao zedong",
	}

	for _, s := range inputs {
		first := Fingerprint(s)
		for i := 0; i < 10; i++ {
			assert.Equal(t, first, Fingerprint(s), "fingerprint of %q must be stable", s)
		}
	}
}

func TestFingerprint_Empty(t *testing.T) {
	assert.Equal(t, uint64(0), Fingerprint(""))
}

func TestFingerprint_DistinctNames(t *testing.T) {
	a := Fingerprint("joseph stalin")
	b := Fingerprint("mahatma gandhi")
	assert.NotEqual(t, a, b)
	assert.Greater(t, Distance(a, b), 0)
}

func TestDistance(t *testing.T) {
	assert.Equal(t, 0, Distance(0, 0))
	assert.Equal(t, 64, Distance(0, ^uint64(0)))
	assert.Equal(t, 1, Distance(0, 1))
	a := Fingerprint("vladimir lenin")
	assert.Equal(t, 0, Distance(a, a))
	assert.Equal(t, Distance(a, Fingerprint("v lenin")), Distance(Fingerprint("v lenin"), a))
}

// Single-character edits should flip only a small share of fingerprint bits.
// This is a statistical property of the trigram accumulator, not a hard
// guarantee, so it is checked over a corpus with a generous bound.
func TestFingerprint_Locality(t *testing.T) {
	pairs := [][2]string{
		{"vladimir lenin", "vladimir lenon"},
		{"joseph stalin", "joseph stalin "},
		{"winston churchill", "winston churchil"},
		{"rosa luxemburg", "rosa luxembourg"},
		{"leon trotsky", "leon trotski"},
		{"emma goldman", "emma goldmann"},
		{"james maxton", "james maxson"},
		{"clara zetkin", "klara zetkin"},
	}

	within := 0
	for _, p := range pairs {
		d := Distance(Fingerprint(p[0]), Fingerprint(p[1]))
		assert.Less(t, d, 64)
		if d <= 16 {
			within++
		}
	}
	// Expect the large majority of single-edit pairs to stay within 16 bits.
	assert.GreaterOrEqual(t, within, len(pairs)-1)
}
