package matching

import (
	"fmt"
	"math"
)

// Character shingle sizes for the vector-space leg of the score.
const (
	minShingle = 3
	maxShingle = 5
)

// NGramSimilarities computes the cosine similarity between the query text
// and every candidate text in one batched pass. The TF-IDF vector space is
// fit over the query plus the current candidate batch only; IDF weights are
// not stable across batches of different composition; the result is a triage
// signal, not a calibrated metric. Pure function: no state survives the call.
//
// Returns one similarity per candidate, each in [0, 1]. Degenerate texts
// (too short to produce a shingle) score 0 against everything.
func NGramSimilarities(query string, candidates []string, maxBatch int) ([]float64, error) {
	if len(candidates) > maxBatch {
		return nil, fmt.Errorf("candidate batch %d exceeds cap %d", len(candidates), maxBatch)
	}

	sims := make([]float64, len(candidates))

	queryGrams := shingles(query)
	if len(queryGrams) == 0 {
		return sims, nil
	}

	docs := make([]map[string]int, 0, len(candidates)+1)
	docs = append(docs, queryGrams)
	for _, c := range candidates {
		docs = append(docs, shingles(c))
	}

	// Smoothed document frequencies over the batch corpus.
	df := make(map[string]int)
	for _, d := range docs {
		for gram := range d {
			df[gram]++
		}
	}
	n := len(docs)
	idf := make(map[string]float64, len(df))
	for gram, count := range df {
		idf[gram] = math.Log(float64(1+n)/float64(1+count)) + 1
	}

	queryVec, queryNorm := weigh(queryGrams, idf)
	if queryNorm == 0 {
		return sims, nil
	}

	for i := range candidates {
		candVec, candNorm := weigh(docs[i+1], idf)
		if candNorm == 0 {
			continue
		}

		var dot float64
		for gram, qw := range queryVec {
			if cw, ok := candVec[gram]; ok {
				dot += qw * cw
			}
		}
		sims[i] = dot / (queryNorm * candNorm)
	}

	return sims, nil
}

// shingles extracts all character n-grams of length 3 through 5.
func shingles(s string) map[string]int {
	grams := make(map[string]int)
	runes := []rune(s)
	for size := minShingle; size <= maxShingle; size++ {
		for i := 0; i+size <= len(runes); i++ {
			grams[string(runes[i:i+size])]++
		}
	}
	return grams
}

// weigh builds the TF-IDF vector for one document and returns it with its
// L2 norm.
func weigh(grams map[string]int, idf map[string]float64) (map[string]float64, float64) {
	vec := make(map[string]float64, len(grams))
	var sumSquares float64
	for gram, tf := range grams {
		w := float64(tf) * idf[gram]
		vec[gram] = w
		sumSquares += w * w
	}
	return vec, math.Sqrt(sumSquares)
}
