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

package corpus

import (
	"context"
	"fmt"

	"github.com/shipstats/shipstats-core/pkg/ships/canonical"
)

const cancelCheckInterval = 1024

// counter accumulates raw frequencies for one shard of the batch.
type counter struct {
	bases              map[string]int
	suffixes           map[string]map[string]int
	ships              int
	segments           int
	preserveQualifiers bool
}

func newCounter(preserveQualifiers bool) *counter {
	return &counter{
		bases:              make(map[string]int),
		suffixes:           make(map[string]map[string]int),
		preserveQualifiers: preserveQualifiers,
	}
}

func (c *counter) addAll(ctx context.Context, fields []string) error {
	for i, field := range fields {
		if i%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("corpus count interrupted: %w", err)
			}
		}
		c.addField(field)
	}
	return nil
}

func (c *counter) addField(field string) {
	for _, piece := range canonical.ExplodeField(field) {
		var tokens canonical.Tokens
		if c.preserveQualifiers {
			tokens = canonical.TokenizeKeepQualifiers(canonical.CanonicalizeKeepQualifiers(piece))
		} else {
			tokens = canonical.Tokenize(canonical.Canonicalize(piece))
		}
		if len(tokens.Segments) == 0 {
			continue
		}
		c.ships++

		for _, segment := range tokens.Segments {
			base, suffix := canonical.SplitPart(segment)
			if base == "" {
				continue
			}
			c.segments++
			c.bases[base]++
			c.addSuffix(base, suffix, 1)
		}
	}
}

func (c *counter) addSuffix(base, suffix string, n int) {
	counts, ok := c.suffixes[base]
	if !ok {
		counts = make(map[string]int)
		c.suffixes[base] = counts
	}
	counts[suffix] += n
}

// merge adds other's counts into c.
func (c *counter) merge(other *counter) {
	c.ships += other.ships
	c.segments += other.segments
	for base, n := range other.bases {
		c.bases[base] += n
	}
	for base, counts := range other.suffixes {
		for suffix, n := range counts {
			c.addSuffix(base, suffix, n)
		}
	}
}
