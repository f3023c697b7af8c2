// Shipstats Core
// Copyright (c) 2026 The Shipstats Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Shipstats Core.
//
// Shipstats Core is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Shipstats Core is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Shipstats Core.  If not, see <http://www.gnu.org/licenses/>.

package matcher

import (
	"fmt"
	"unicode/utf8"

	"github.com/hbollon/go-edlib"
	"github.com/rs/zerolog/log"
)

// Algorithm names a string similarity function. Every algorithm scores in
// [0, 1], but thresholds are calibrated per algorithm: the default 0.85
// assumes AlgorithmLevenshtein.
type Algorithm string

const (
	// AlgorithmLevenshtein scores 1 - distance/maxRuneLength.
	AlgorithmLevenshtein Algorithm = "levenshtein"
	// AlgorithmDamerauLevenshtein is AlgorithmLevenshtein counting adjacent
	// transpositions as one edit ("Ktaara" → "Katara").
	AlgorithmDamerauLevenshtein Algorithm = "damerau-levenshtein"
	// AlgorithmJaroWinkler favors matching prefixes and runs higher than the
	// edit-distance scores for the same pair.
	AlgorithmJaroWinkler Algorithm = "jaro-winkler"
)

// DefaultAlgorithm is the similarity function used when none is configured.
const DefaultAlgorithm = AlgorithmLevenshtein

// Algorithms lists the supported similarity functions.
func Algorithms() []Algorithm {
	return []Algorithm{AlgorithmLevenshtein, AlgorithmDamerauLevenshtein, AlgorithmJaroWinkler}
}

// ParseAlgorithm validates an algorithm name. An empty name selects
// DefaultAlgorithm.
func ParseAlgorithm(name string) (Algorithm, error) {
	if name == "" {
		return DefaultAlgorithm, nil
	}
	for _, algo := range Algorithms() {
		if string(algo) == name {
			return algo, nil
		}
	}
	return "", fmt.Errorf("unknown similarity algorithm: %q", name)
}

// FuzzyMatch is a candidate base together with its similarity to the query.
type FuzzyMatch struct {
	Base       string
	Similarity float32
}

// Similarity scores two strings with the given algorithm.
func Similarity(a, b string, algo Algorithm) float32 {
	switch algo {
	case AlgorithmJaroWinkler:
		return edlib.JaroWinklerSimilarity(a, b)
	case AlgorithmDamerauLevenshtein:
		return distanceSimilarity(a, b, edlib.DamerauLevenshteinDistance(a, b))
	default:
		return distanceSimilarity(a, b, edlib.LevenshteinDistance(a, b))
	}
}

func distanceSimilarity(a, b string, distance int) float32 {
	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if longest == 0 {
		return 1
	}
	return float32(longest-distance) / float32(longest)
}

// reachable reports whether a candidate of candLen runes can possibly score
// minSimilarity against a query of queryLen runes. Edit distances are at
// least the length difference, which bounds the score from above.
func reachable(queryLen, candLen int, algo Algorithm, minSimilarity float32) bool {
	if algo == AlgorithmJaroWinkler {
		return true
	}
	longest := max(queryLen, candLen)
	if longest == 0 {
		return true
	}
	diff := queryLen - candLen
	if diff < 0 {
		diff = -diff
	}
	return float32(longest-diff)/float32(longest) >= minSimilarity
}

// FindBestMatch returns the candidate most similar to query, scoring at
// least minSimilarity. Candidates are expected in rank order: on equal
// similarity the earlier candidate wins, which keeps results deterministic.
// A candidate identical to query is skipped.
func FindBestMatch(query string, candidates []string, algo Algorithm, minSimilarity float32) (FuzzyMatch, bool) {
	var (
		best  FuzzyMatch
		found bool
	)
	queryLen := utf8.RuneCountInString(query)

	for _, candidate := range candidates {
		if candidate == query {
			continue
		}

		// Length pre-filter: skip candidates that cannot reach the threshold
		if !reachable(queryLen, utf8.RuneCountInString(candidate), algo, minSimilarity) {
			continue
		}

		similarity := Similarity(query, candidate, algo)
		if similarity < minSimilarity {
			continue
		}
		if !found || similarity > best.Similarity {
			best = FuzzyMatch{Base: candidate, Similarity: similarity}
			found = true
		}
	}

	if found {
		log.Trace().
			Str("query", query).
			Str("candidate", best.Base).
			Float32("similarity", best.Similarity).
			Msg("fuzzy base match")
	}

	return best, found
}
