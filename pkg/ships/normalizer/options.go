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

package normalizer

import (
	"errors"
	"fmt"

	"github.com/shipstats/shipstats-core/pkg/ships/corpus"
	"github.com/shipstats/shipstats-core/pkg/ships/matcher"
)

// ErrInvalidOptions is returned by New when Options fail validation.
var ErrInvalidOptions = errors.New("invalid normalizer options")

// Options configures a Normalizer. It is fixed at construction.
type Options struct {
	// Algorithm is the similarity function for fuzzy matching.
	Algorithm matcher.Algorithm
	// FuzzyThreshold is the minimum similarity for a fuzzy match, in (0, 1].
	FuzzyThreshold float64
	// MinDirectCount is the count at which an exact-key spelling is trusted
	// and a base joins the fuzzy candidate pool.
	MinDirectCount int
	// MinCandidateCount is the minimum count of a fuzzy target.
	MinCandidateCount int
	// FrequencyMultiplier is the dominance ratio a fuzzy target needs over
	// the observed spelling.
	FrequencyMultiplier int
	// Workers is the number of goroutines used to build corpus statistics.
	Workers int
	// PreserveQualifiers keeps parenthetical qualifiers and reattaches the
	// corpus-preferred qualifier to every corrected base.
	PreserveQualifiers bool
}

// DefaultOptions returns the calibrated defaults.
func DefaultOptions() Options {
	return Options{
		Algorithm:           matcher.DefaultAlgorithm,
		FuzzyThreshold:      matcher.DefaultFuzzyThreshold,
		MinDirectCount:      corpus.DefaultMinDirectCount,
		MinCandidateCount:   matcher.DefaultMinCandidateCount,
		FrequencyMultiplier: matcher.DefaultFrequencyMultiplier,
		Workers:             1,
	}
}

// Validate reports the first unusable option.
//
//nolint:gocritic // options struct copied for immutability
func (o Options) Validate() error {
	if _, err := matcher.ParseAlgorithm(string(o.Algorithm)); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidOptions, err)
	}
	switch {
	case o.FuzzyThreshold <= 0 || o.FuzzyThreshold > 1:
		return fmt.Errorf("%w: fuzzy threshold must be in (0, 1], got %v", ErrInvalidOptions, o.FuzzyThreshold)
	case o.MinDirectCount < 1:
		return fmt.Errorf("%w: min direct count must be at least 1, got %d", ErrInvalidOptions, o.MinDirectCount)
	case o.MinCandidateCount < 1:
		return fmt.Errorf("%w: min candidate count must be at least 1, got %d",
			ErrInvalidOptions, o.MinCandidateCount)
	case o.FrequencyMultiplier < 1:
		return fmt.Errorf("%w: frequency multiplier must be at least 1, got %d",
			ErrInvalidOptions, o.FrequencyMultiplier)
	case o.Workers < 0:
		return fmt.Errorf("%w: workers must not be negative, got %d", ErrInvalidOptions, o.Workers)
	}
	return nil
}

//nolint:gocritic // options struct copied for immutability
func (o Options) matcherConfig() matcher.Config {
	return matcher.Config{
		Algorithm:           o.Algorithm,
		FuzzyThreshold:      o.FuzzyThreshold,
		MinCandidateCount:   o.MinCandidateCount,
		FrequencyMultiplier: o.FrequencyMultiplier,
	}
}
