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

// Package corpus builds the batch-wide frequency model that ship
// normalization decisions are based on. A Stats value is computed once over
// every ship tag in a batch and is read-only afterwards, so it can be shared
// between goroutines without locking.
package corpus

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"github.com/shipstats/shipstats-core/pkg/ships/canonical"
	"golang.org/x/sync/errgroup"
)

// DefaultMinDirectCount is the occurrence count at which a base spelling is
// trusted as an exact-key target and enters the fuzzy candidate pool.
const DefaultMinDirectCount = 5

// ErrInvalidOptions is returned by Build for unusable options.
var ErrInvalidOptions = errors.New("invalid corpus options")

// Options controls how the frequency model is built.
type Options struct {
	// MinDirectCount is the minimum count for a base to be part of the
	// common base pool.
	MinDirectCount int
	// Workers is the number of goroutines used to count. Values below 2
	// count on the calling goroutine.
	Workers int
	// PreserveQualifiers keeps parenthetical qualifiers on segments so
	// suffix frequencies are recorded.
	PreserveQualifiers bool
}

// Stats is an immutable snapshot of base and suffix frequencies.
type Stats struct {
	baseCounts      map[string]int
	keyPreferred    map[string]string
	suffixCounts    map[string]map[string]int
	preferredSuffix map[string]string
	commonBases     []string
	minDirectCount  int
	ships           int
	segments        int
}

// Build scans every ship field once and returns the frequency snapshot.
// Fields are exploded on ";", each piece is canonicalized and tokenized, and
// every segment is split into its base and qualifier suffix.
//
// Counting may be spread across opts.Workers goroutines; shard counts are
// merged by summation and every ordering is derived after the merge, so the
// result does not depend on the worker count.
func Build(ctx context.Context, fields []string, opts Options) (*Stats, error) {
	if opts.MinDirectCount < 1 {
		return nil, fmt.Errorf("%w: min direct count must be at least 1, got %d",
			ErrInvalidOptions, opts.MinDirectCount)
	}

	total, err := count(ctx, fields, opts)
	if err != nil {
		return nil, err
	}

	stats := &Stats{
		baseCounts:     total.bases,
		suffixCounts:   total.suffixes,
		minDirectCount: opts.MinDirectCount,
		ships:          total.ships,
		segments:       total.segments,
	}
	stats.keyPreferred = preferBaseByKey(total.bases)
	stats.preferredSuffix = preferSuffixes(total.suffixes)
	stats.commonBases = commonBases(total.bases, opts.MinDirectCount)

	log.Debug().
		Int("fields", len(fields)).
		Int("ships", stats.ships).
		Int("segments", stats.segments).
		Int("bases", len(stats.baseCounts)).
		Int("common", len(stats.commonBases)).
		Msg("built ship corpus statistics")

	return stats, nil
}

func count(ctx context.Context, fields []string, opts Options) (*counter, error) {
	workers := opts.Workers
	if workers < 2 || len(fields) < 2*workers {
		c := newCounter(opts.PreserveQualifiers)
		if err := c.addAll(ctx, fields); err != nil {
			return nil, err
		}
		return c, nil
	}

	shards := make([]*counter, workers)
	chunk := (len(fields) + workers - 1) / workers

	g, gctx := errgroup.WithContext(ctx)
	for i := range workers {
		start := min(i*chunk, len(fields))
		end := min(start+chunk, len(fields))
		shards[i] = newCounter(opts.PreserveQualifiers)
		shard := shards[i]
		g.Go(func() error {
			return shard.addAll(gctx, fields[start:end])
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to count ship corpus: %w", err)
	}

	total := newCounter(opts.PreserveQualifiers)
	for _, shard := range shards {
		total.merge(shard)
	}
	return total, nil
}

// preferBaseByKey picks, for every normalized key, the most frequent literal
// spelling. Ties go to the shorter spelling, then the lexicographically
// smaller one.
func preferBaseByKey(bases map[string]int) map[string]string {
	preferred := make(map[string]string)
	for base, n := range bases {
		key := canonical.NormalizedKey(base)
		if key == "" {
			continue
		}
		current, ok := preferred[key]
		if !ok || betterBase(base, n, current, bases[current]) {
			preferred[key] = base
		}
	}
	return preferred
}

func betterBase(base string, n int, current string, currentN int) bool {
	if n != currentN {
		return n > currentN
	}
	bl, cl := utf8.RuneCountInString(base), utf8.RuneCountInString(current)
	if bl != cl {
		return bl < cl
	}
	return base < current
}

// preferSuffixes picks the most common qualifier for every base. Ties go to
// the longer, more specific qualifier, then the lexicographically greater.
func preferSuffixes(suffixes map[string]map[string]int) map[string]string {
	preferred := make(map[string]string, len(suffixes))
	for base, counts := range suffixes {
		var (
			best  string
			bestN = -1
		)
		for suffix, n := range counts {
			if betterSuffix(suffix, n, best, bestN) {
				best, bestN = suffix, n
			}
		}
		preferred[base] = best
	}
	return preferred
}

func betterSuffix(suffix string, n int, best string, bestN int) bool {
	if n != bestN {
		return n > bestN
	}
	sl, bl := utf8.RuneCountInString(suffix), utf8.RuneCountInString(best)
	if sl != bl {
		return sl > bl
	}
	return suffix > best
}

// commonBases returns every base seen at least minCount times, most frequent
// first, then case-insensitively alphabetical.
func commonBases(bases map[string]int, minCount int) []string {
	common := make([]string, 0)
	for base, n := range bases {
		if n >= minCount {
			common = append(common, base)
		}
	}
	slices.SortFunc(common, func(a, b string) int {
		if c := cmp.Compare(bases[b], bases[a]); c != 0 {
			return c
		}
		if c := cmp.Compare(strings.ToLower(a), strings.ToLower(b)); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
	return common
}

// Count returns how many times base was observed as a segment base.
func (s *Stats) Count(base string) int {
	return s.baseCounts[base]
}

// KeyCandidate returns the preferred spelling sharing base's normalized key
// and that spelling's count. ok is false when no base with the key exists.
func (s *Stats) KeyCandidate(base string) (candidate string, n int, ok bool) {
	key := canonical.NormalizedKey(base)
	if key == "" {
		return "", 0, false
	}
	candidate, ok = s.keyPreferred[key]
	if !ok {
		return "", 0, false
	}
	return candidate, s.baseCounts[candidate], true
}

// PreferredSuffix returns the most common qualifier recorded for base.
// ok is false when base was never observed.
func (s *Stats) PreferredSuffix(base string) (suffix string, ok bool) {
	suffix, ok = s.preferredSuffix[base]
	return suffix, ok
}

// SuffixCount returns how often base appeared with the given qualifier.
func (s *Stats) SuffixCount(base, suffix string) int {
	return s.suffixCounts[base][suffix]
}

// CommonBases returns a copy of the fuzzy candidate pool in rank order.
func (s *Stats) CommonBases() []string {
	return slices.Clone(s.commonBases)
}

// Bases returns every observed base in byte order.
func (s *Stats) Bases() []string {
	bases := make([]string, 0, len(s.baseCounts))
	for base := range s.baseCounts {
		bases = append(bases, base)
	}
	slices.Sort(bases)
	return bases
}

// MinDirectCount returns the threshold the snapshot was built with.
func (s *Stats) MinDirectCount() int {
	return s.minDirectCount
}

// Ships returns the number of non-empty ship tags counted.
func (s *Stats) Ships() int {
	return s.ships
}

// Segments returns the number of segments counted.
func (s *Stats) Segments() int {
	return s.segments
}
