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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		input      string
		segments   []string
		connectors []string
	}{
		{
			name:       "mixed connectors",
			input:      "A/B & C",
			segments:   []string{"A", "B", "C"},
			connectors: []string{"/", "&"},
		},
		{
			name:     "leading connector dropped",
			input:    "/A",
			segments: []string{"A"},
		},
		{
			name:     "trailing connector dropped",
			input:    "A & ",
			segments: []string{"A"},
		},
		{
			name:       "connector run keeps last",
			input:      "A / & B",
			segments:   []string{"A", "B"},
			connectors: []string{"&"},
		},
		{
			name:       "empty qualifier segment",
			input:      "A/(Show)/B",
			segments:   []string{"A", "B"},
			connectors: []string{"/"},
		},
		{
			name:  "nothing left",
			input: " / & ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Tokenize(tt.input)

			if len(tt.segments) == 0 {
				assert.Empty(t, got.Segments)
			} else {
				assert.Equal(t, tt.segments, got.Segments)
			}
			if len(tt.connectors) == 0 {
				assert.Empty(t, got.Connectors)
			} else {
				assert.Equal(t, tt.connectors, got.Connectors)
			}
		})
	}
}

func TestTokenizeKeepQualifiers(t *testing.T) {
	t.Parallel()

	got := TokenizeKeepQualifiers("Katara (Avatar) / Aang (Avatar)")
	require.Len(t, got.Segments, 2)
	assert.Equal(t, "Katara (Avatar)", got.Segments[0])
	assert.Equal(t, "Aang (Avatar)", got.Segments[1])
	assert.Equal(t, []string{"/"}, got.Connectors)
}

func TestCleanSegment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected string
	}{
		{input: "  Katara (Avatar:  TLA) ", expected: "Katara"},
		{input: "Mai (Avatar", expected: "Mai"},
		{input: "Ty   Lee", expected: "Ty Lee"},
		{input: "(Avatar)", expected: ""},
		{input: "A (x) B (y)", expected: "A B"},
		{input: "a(b(c", expected: "a"},
		{input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, CleanSegment(tt.input))
		})
	}
}
