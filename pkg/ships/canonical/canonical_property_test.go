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
	"strings"
	"testing"
	"unicode"

	"pgregory.net/rapid"
)

// shipTagGen generates tag-like strings from the characters that actually
// show up in scraped relationship tags, including the Unicode variants NFKC
// folds into ASCII punctuation.
func shipTagGen() *rapid.Generator[string] {
	//nolint:gosmopolitan // fullwidth and accented forms are intentional
	chars := []rune(
		"AaBbKkMmSsZz " +
			"/&()-'." +
			"éëüñ" +
			" \t" +
			"／＆（）Ａｂ",
	)
	return rapid.StringOfN(rapid.SampledFrom(chars), 0, 60, -1)
}

// TestPropertyCanonicalizeIdempotent verifies canonicalizing twice changes nothing.
func TestPropertyCanonicalizeIdempotent(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		input := shipTagGen().Draw(t, "input")

		once := Canonicalize(input)
		twice := Canonicalize(once)
		if once != twice {
			t.Fatalf("not idempotent: %q -> %q -> %q", input, once, twice)
		}
	})
}

// TestPropertyCanonicalizeKeepQualifiersIdempotent verifies the qualifier
// preserving variant is also a fixed point.
func TestPropertyCanonicalizeKeepQualifiersIdempotent(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		input := shipTagGen().Draw(t, "input")

		once := CanonicalizeKeepQualifiers(input)
		twice := CanonicalizeKeepQualifiers(once)
		if once != twice {
			t.Fatalf("not idempotent: %q -> %q -> %q", input, once, twice)
		}
	})
}

// TestPropertyTokenizeConnectorCount verifies the segment/connector invariant
// for arbitrary input, not just tag-like strings.
func TestPropertyTokenizeConnectorCount(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		input := rapid.OneOf(shipTagGen(), rapid.String()).Draw(t, "input")

		tokens := Tokenize(input)
		want := max(len(tokens.Segments)-1, 0)
		if len(tokens.Connectors) != want {
			t.Fatalf("%q: %d segments but %d connectors", input, len(tokens.Segments), len(tokens.Connectors))
		}
		for _, seg := range tokens.Segments {
			if seg == "" {
				t.Fatalf("%q: empty segment returned", input)
			}
		}
	})
}

// TestPropertyCanonicalizeHasNoQualifiers verifies the output never carries
// parentheses or surrounding whitespace.
func TestPropertyCanonicalizeHasNoQualifiers(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		input := shipTagGen().Draw(t, "input")

		out := Canonicalize(input)
		if strings.Contains(out, "(") {
			t.Fatalf("%q: output %q still has a qualifier", input, out)
		}
		if strings.TrimSpace(out) != out {
			t.Fatalf("%q: output %q has surrounding whitespace", input, out)
		}
	})
}

// TestPropertyNormalizedKeyAlphanumeric verifies keys are lower-case
// letters and digits only, and that keying is idempotent.
func TestPropertyNormalizedKeyAlphanumeric(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		input := shipTagGen().Draw(t, "input")

		key := NormalizedKey(input)
		for _, r := range key {
			if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
				t.Fatalf("%q: key %q contains %q", input, key, r)
			}
		}
		if NormalizedKey(key) != key {
			t.Fatalf("%q: key %q is not stable", input, key)
		}
	})
}
