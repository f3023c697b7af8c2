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

// Package matcher resolves ship base names to their corpus-preferred
// spelling. Exact normalized-key lookups are tried first; fuzzy similarity
// matching is only trusted when the target spelling is far more common than
// the observed one.
package matcher

import (
	"github.com/rs/zerolog/log"
	"github.com/shipstats/shipstats-core/pkg/ships/corpus"
)

const (
	// DefaultFuzzyThreshold is the minimum similarity for a fuzzy match.
	DefaultFuzzyThreshold = 0.85
	// DefaultMinCandidateCount is the minimum absolute count a fuzzy target
	// needs.
	DefaultMinCandidateCount = 10
	// DefaultFrequencyMultiplier is how many times more frequent a fuzzy
	// target must be than the observed spelling.
	DefaultFrequencyMultiplier = 5
)

// Method records which resolution step produced a base.
type Method string

const (
	// MethodExactKey: the normalized key maps to a trusted spelling.
	MethodExactKey Method = "exact-key"
	// MethodFuzzy: a similar, dominant common base was chosen.
	MethodFuzzy Method = "fuzzy"
	// MethodKeyFallback: the key maps to a spelling below the trust
	// threshold and no fuzzy match applied.
	MethodKeyFallback Method = "key-fallback"
	// MethodUnchanged: nothing matched; the base passes through verbatim.
	MethodUnchanged Method = "unchanged"
)

// Config holds the fuzzy correction thresholds.
type Config struct {
	Algorithm           Algorithm
	FuzzyThreshold      float64
	MinCandidateCount   int
	FrequencyMultiplier int
}

// DefaultConfig returns the calibrated defaults.
func DefaultConfig() Config {
	return Config{
		Algorithm:           DefaultAlgorithm,
		FuzzyThreshold:      DefaultFuzzyThreshold,
		MinCandidateCount:   DefaultMinCandidateCount,
		FrequencyMultiplier: DefaultFrequencyMultiplier,
	}
}

// Resolution is the outcome of NormalizeBase.
type Resolution struct {
	Base   string
	Method Method
	// Similarity is set for MethodFuzzy only.
	Similarity float32
}

// Corrector maps base names onto the spellings a corpus prefers. It only
// reads its corpus snapshot, so one Corrector can serve many goroutines.
type Corrector struct {
	stats *corpus.Stats
	pool  []string
	cfg   Config
}

// NewCorrector creates a Corrector over a frequency snapshot.
//
//nolint:gocritic // config struct copied for immutability
func NewCorrector(stats *corpus.Stats, cfg Config) *Corrector {
	if cfg.Algorithm == "" {
		cfg.Algorithm = DefaultAlgorithm
	}
	return &Corrector{
		stats: stats,
		pool:  stats.CommonBases(),
		cfg:   cfg,
	}
}

// NormalizeBase resolves base in three steps:
//
//  1. Exact key: if base's normalized key maps to a spelling seen at least
//     MinDirectCount times, that spelling is returned.
//  2. Fuzzy: the most similar common base scoring at least FuzzyThreshold
//     is returned if it passes the frequency dominance guard (see Dominates).
//  3. Fallback: any exact-key spelling, otherwise base unchanged.
func (c *Corrector) NormalizeBase(base string) Resolution {
	candidate, candidateCount, hasCandidate := c.stats.KeyCandidate(base)
	if hasCandidate && candidateCount >= c.stats.MinDirectCount() {
		return Resolution{Base: candidate, Method: MethodExactKey}
	}

	if match, ok := c.fuzzyMatch(base); ok {
		return Resolution{Base: match.Base, Method: MethodFuzzy, Similarity: match.Similarity}
	}

	if hasCandidate {
		return Resolution{Base: candidate, Method: MethodKeyFallback}
	}
	return Resolution{Base: base, Method: MethodUnchanged}
}

func (c *Corrector) fuzzyMatch(base string) (FuzzyMatch, bool) {
	if len(c.pool) == 0 {
		return FuzzyMatch{}, false
	}

	match, ok := FindBestMatch(base, c.pool, c.cfg.Algorithm, float32(c.cfg.FuzzyThreshold))
	if !ok {
		return FuzzyMatch{}, false
	}

	candidateCount := c.stats.Count(match.Base)
	observedCount := c.stats.Count(base)
	if !c.Dominates(candidateCount, observedCount) {
		log.Debug().
			Str("base", base).
			Str("candidate", match.Base).
			Int("candidateCount", candidateCount).
			Int("observedCount", observedCount).
			Msg("fuzzy match rejected by frequency guard")
		return FuzzyMatch{}, false
	}
	return match, true
}

// Dominates is the frequency dominance guard: a fuzzy target is accepted
// only when candidateCount >= max(MinCandidateCount,
// observedCount*FrequencyMultiplier). This keeps two rare, similar but
// distinct names from being merged.
func (c *Corrector) Dominates(candidateCount, observedCount int) bool {
	required := max(c.cfg.MinCandidateCount, observedCount*c.cfg.FrequencyMultiplier)
	return candidateCount >= required
}
