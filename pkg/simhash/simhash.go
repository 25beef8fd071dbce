// Package simhash computes 64-bit locality-sensitive fingerprints over
// character trigrams of a normalized name. Fingerprints are a cheap triage
// filter: names within a small Hamming radius are plausible matches and get
// scored properly downstream. The hash is frozen: every service instance
// must produce identical fingerprints for identical input, so the mixing
// constants and operation order here are versioned behavior, not an
// implementation detail.
package simhash

import "math/bits"

// FNV-1a 64-bit parameters. Unsigned wraparound arithmetic.
const (
	fnvOffset64 uint64 = 14695981039346656037
	fnvPrime64  uint64 = 1099511628211
)

const trigramSize = 3

// Fingerprint computes the 64-bit simhash of a normalized string. The input
// is padded with two leading and trailing spaces before extracting
// overlapping 3-character windows; a string with no trigrams hashes to 0.
func Fingerprint(s string) uint64 {
	if s == "" {
		return 0
	}
	padded := "  " + s + "  "

	var acc [64]int
	count := 0
	for i := 0; i+trigramSize <= len(padded); i++ {
		h := mix64(padded[i : i+trigramSize])
		for bit := 0; bit < 64; bit++ {
			if h&(uint64(1)<<bit) != 0 {
				acc[bit]++
			} else {
				acc[bit]--
			}
		}
		count++
	}
	if count == 0 {
		return 0
	}

	var fp uint64
	for bit := 0; bit < 64; bit++ {
		if acc[bit] >= 0 {
			fp |= uint64(1) << bit
		}
	}
	return fp
}

// Distance returns the Hamming distance between two fingerprints.
func Distance(a, b uint64) int {
	return bits.OnesCount64(a ^ b)
}

// mix64 is FNV-1a over the trigram bytes.
func mix64(trigram string) uint64 {
	h := fnvOffset64
	for i := 0; i < len(trigram); i++ {
		h ^= uint64(trigram[i])
		h *= fnvPrime64
	}
	return h
}
