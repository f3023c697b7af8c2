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

// Package normalizer maps raw ship tags to their final canonical form. A
// Normalizer is built once from every ship tag in a batch, so each
// correction is informed by frequencies across the whole batch, and is then
// applied row by row.
package normalizer

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/shipstats/shipstats-core/pkg/ships/canonical"
	"github.com/shipstats/shipstats-core/pkg/ships/corpus"
	"github.com/shipstats/shipstats-core/pkg/ships/matcher"
)

// Normalizer canonicalizes ship tags and corrects their bases against a
// corpus snapshot. Nothing is mutated after New returns, so a Normalizer is
// safe for concurrent use.
type Normalizer struct {
	stats     *corpus.Stats
	corrector *matcher.Corrector
	opts      Options
}

// Correction describes how one observed base is rewritten.
type Correction struct {
	From       string
	To         string
	Method     matcher.Method
	Similarity float32
	FromCount  int
	ToCount    int
}

// New scans every ship field of the batch and returns a Normalizer over the
// resulting statistics. Fields may hold several ";"-separated tags.
//
//nolint:gocritic // options struct copied for immutability
func New(ctx context.Context, fields []string, opts Options) (*Normalizer, error) {
	if opts.Algorithm == "" {
		opts.Algorithm = matcher.DefaultAlgorithm
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	stats, err := corpus.Build(ctx, fields, corpus.Options{
		MinDirectCount:     opts.MinDirectCount,
		Workers:            opts.Workers,
		PreserveQualifiers: opts.PreserveQualifiers,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build ship corpus: %w", err)
	}

	log.Info().
		Int("ships", stats.Ships()).
		Int("commonBases", len(stats.CommonBases())).
		Str("algorithm", string(opts.Algorithm)).
		Float64("fuzzyThreshold", opts.FuzzyThreshold).
		Bool("preserveQualifiers", opts.PreserveQualifiers).
		Msg("ship normalizer ready")

	return &Normalizer{
		stats:     stats,
		corrector: matcher.NewCorrector(stats, opts.matcherConfig()),
		opts:      opts,
	}, nil
}

// Normalize returns the canonical, typo-corrected form of one ship tag, or
// an empty string if no segment survives.
//
// Every segment base is resolved with the corrector and gets the qualifier
// most often seen with the corrected base, even if the segment carried a
// different one. Segments whose base is empty are dropped together with the
// connector in front of them.
func (n *Normalizer) Normalize(raw string) string {
	tokens := n.tokenize(raw)
	if len(tokens.Segments) == 0 {
		return ""
	}

	parts := make([]string, 0, len(tokens.Segments))
	connectors := make([]string, 0, len(tokens.Connectors))
	for i, segment := range tokens.Segments {
		base, suffix := canonical.SplitPart(segment)
		if base == "" {
			continue
		}

		corrected := n.corrector.NormalizeBase(base).Base
		if preferred, ok := n.stats.PreferredSuffix(corrected); ok {
			suffix = preferred
		}

		if len(parts) > 0 {
			connectors = append(connectors, tokens.Connectors[i-1])
		}
		parts = append(parts, canonical.JoinPart(corrected, suffix))
	}

	return canonical.Join(parts, connectors)
}

// NormalizeField splits a ";"-separated field and normalizes every tag,
// dropping tags that normalize to nothing.
func (n *Normalizer) NormalizeField(field string) []string {
	pieces := canonical.ExplodeField(field)
	ships := make([]string, 0, len(pieces))
	for _, piece := range pieces {
		if ship := n.Normalize(piece); ship != "" {
			ships = append(ships, ship)
		}
	}
	return ships
}

func (n *Normalizer) tokenize(raw string) canonical.Tokens {
	if n.opts.PreserveQualifiers {
		return canonical.TokenizeKeepQualifiers(canonical.CanonicalizeKeepQualifiers(raw))
	}
	return canonical.Tokenize(canonical.Canonicalize(raw))
}

// Corrections lists every observed base that resolves to a different
// spelling, sorted by the observed base.
func (n *Normalizer) Corrections() []Correction {
	var out []Correction
	for _, base := range n.stats.Bases() {
		res := n.corrector.NormalizeBase(base)
		if res.Base == base {
			continue
		}
		out = append(out, Correction{
			From:       base,
			To:         res.Base,
			Method:     res.Method,
			Similarity: res.Similarity,
			FromCount:  n.stats.Count(base),
			ToCount:    n.stats.Count(res.Base),
		})
	}
	return out
}

// Stats returns the corpus snapshot the Normalizer was built from.
func (n *Normalizer) Stats() *corpus.Stats {
	return n.stats
}

// Options returns the options the Normalizer was built with.
func (n *Normalizer) Options() Options {
	return n.opts
}
