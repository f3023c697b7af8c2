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

// Package canonical provides the structural normalization of ship tags:
// tokenizing a raw tag into name segments and connectors, cleaning each
// segment, and rebuilding a punctuation-consistent ship string. Nothing in
// this package looks at corpus frequencies; see the normalizer package for
// typo correction.
package canonical

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

const (
	// ConnectorSlash joins the parties of a romantic pairing ("A/B").
	ConnectorSlash = "/"
	// ConnectorAmpersand joins the parties of a platonic pairing ("A & B").
	ConnectorAmpersand = "&"
	// FieldSeparator separates multiple ship tags in one metadata field.
	FieldSeparator = ";"
)

// Canonicalize returns the structurally normalized form of a raw ship tag.
//
// The whole string is NFKC-normalized first so visually identical
// punctuation variants collapse, then it is tokenized, every segment is
// stripped of parenthetical qualifiers, and the segments are rejoined with
// their original connectors ("/" tight, "&" spaced). An empty string is
// returned when no segment survives.
//
// Canonicalize is idempotent: Canonicalize(Canonicalize(s)) == Canonicalize(s).
//
// Example:
//
//	Canonicalize("Aang / Katara (Avatar)") → "Aang/Katara"
//	Canonicalize("Zuko  &  Iroh")          → "Zuko & Iroh"
func Canonicalize(raw string) string {
	return canonicalize(raw, CleanSegment)
}

// CanonicalizeKeepQualifiers is Canonicalize without qualifier removal. Only
// whitespace, Unicode and connector formatting are normalized, so
// "Jayce / Viktor (League of Legends)" becomes
// "Jayce/Viktor (League of Legends)".
func CanonicalizeKeepQualifiers(raw string) string {
	return canonicalize(raw, CleanSegmentKeepQualifiers)
}

func canonicalize(raw string, clean cleanFunc) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	raw = norm.NFKC.String(raw)

	tokens := tokenize(raw, clean)
	if len(tokens.Segments) == 0 {
		return ""
	}

	// Removing qualifiers can leave combining marks next to a new base
	// character, so normalize once more to keep the output a fixed point.
	return norm.NFKC.String(Join(tokens.Segments, tokens.Connectors))
}

// Join rebuilds a ship string from segments and the connectors between them.
// Segments without a matching connector are dropped.
func Join(segments, connectors []string) string {
	if len(segments) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(segments[0])
	for i, connector := range connectors {
		if i+1 >= len(segments) {
			break
		}
		switch connector {
		case ConnectorSlash:
			sb.WriteString(ConnectorSlash)
		default:
			sb.WriteString(" ")
			sb.WriteString(connector)
			sb.WriteString(" ")
		}
		sb.WriteString(segments[i+1])
	}
	return sb.String()
}

// SplitPart splits a segment at its first parenthetical run. The base is the
// trimmed text before the first "(" and the suffix is everything from that
// "(" to the end. A segment without "(" has an empty suffix.
//
// Example:
//
//	SplitPart("Katara (Avatar)") → ("Katara", "(Avatar)")
func SplitPart(segment string) (base, suffix string) {
	idx := strings.IndexByte(segment, '(')
	if idx < 0 {
		return strings.TrimSpace(segment), ""
	}
	return strings.TrimSpace(segment[:idx]), strings.TrimSpace(segment[idx:])
}

// JoinPart is the inverse of SplitPart.
func JoinPart(base, suffix string) string {
	if suffix == "" {
		return base
	}
	return base + " " + suffix
}

// NormalizedKey returns the identity key of a base name: NFKC-normalized,
// lower-cased, with every rune that is not a letter or digit removed.
// Bases that only differ by case or punctuation share a key.
//
// Example:
//
//	NormalizedKey("T'Challa") → "tchalla"
func NormalizedKey(base string) string {
	lower := strings.ToLower(norm.NFKC.String(base))

	var sb strings.Builder
	sb.Grow(len(lower))
	for _, r := range lower {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// ExplodeField splits a multi-valued ship field on ";" and returns the
// trimmed, non-empty pieces in order.
func ExplodeField(field string) []string {
	pieces := strings.Split(field, FieldSeparator)
	out := make([]string, 0, len(pieces))
	for _, piece := range pieces {
		if piece = strings.TrimSpace(piece); piece != "" {
			out = append(out, piece)
		}
	}
	return out
}
