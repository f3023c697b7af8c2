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

package canonical

import (
	"regexp"
	"strings"
)

var (
	connectorRe = regexp.MustCompile(`\s*([/&])\s*`)
	// qualifierRe matches a closed parenthetical together with the
	// whitespace in front of it.
	qualifierRe = regexp.MustCompile(`\s*\([^)]*\)`)
	// openQualifierRe matches a parenthetical left open until end of input.
	openQualifierRe = regexp.MustCompile(`\s*\([^)]*$`)
)

type cleanFunc func(string) string

// Tokens is the result of tokenizing a ship string. Connectors[i] sits
// between Segments[i] and Segments[i+1], so
// len(Connectors) == max(len(Segments)-1, 0) always holds.
type Tokens struct {
	Segments   []string
	Connectors []string
}

// Tokenize splits a ship string into cleaned name segments and the connector
// symbols between them. Whitespace around a connector belongs to the
// connector. Malformed input never fails:
//   - empty segments (leading or doubled connectors) are dropped, and a run
//     of connectors keeps only the last one ("A/&B" → A, &, B);
//   - a trailing connector with nothing after it is discarded.
func Tokenize(raw string) Tokens {
	return tokenize(raw, CleanSegment)
}

// TokenizeKeepQualifiers is Tokenize with CleanSegmentKeepQualifiers as the
// segment cleaner.
func TokenizeKeepQualifiers(raw string) Tokens {
	return tokenize(raw, CleanSegmentKeepQualifiers)
}

func tokenize(raw string, clean cleanFunc) Tokens {
	var segments, connectors []string
	last := 0

	for _, m := range connectorRe.FindAllStringSubmatchIndex(raw, -1) {
		part := clean(raw[last:m[0]])
		connector := raw[m[2]:m[3]]

		switch {
		case part != "":
			segments = append(segments, part)
			connectors = append(connectors, connector)
		case len(connectors) > 0:
			connectors[len(connectors)-1] = connector
		}

		last = m[1]
	}

	if final := clean(raw[last:]); final != "" {
		segments = append(segments, final)
	} else if len(connectors) > 0 {
		connectors = connectors[:len(connectors)-1]
	}

	if keep := max(len(segments)-1, 0); len(connectors) > keep {
		connectors = connectors[:keep]
	}

	return Tokens{Segments: segments, Connectors: connectors}
}

// CleanSegment strips every parenthetical qualifier from a segment,
// including one left unterminated at the end, and collapses whitespace.
// An empty result means the segment should be dropped.
//
// Example:
//
//	CleanSegment("  Katara (Avatar:  TLA) ") → "Katara"
//	CleanSegment("Mai (Avatar")              → "Mai"
func CleanSegment(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	s = qualifierRe.ReplaceAllString(s, "")
	s = openQualifierRe.ReplaceAllString(s, "")
	return collapseSpaces(s)
}

// CleanSegmentKeepQualifiers trims and collapses whitespace only.
func CleanSegmentKeepQualifiers(s string) string {
	return collapseSpaces(s)
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
