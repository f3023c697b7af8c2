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

// Package dataset loads scraped work metadata CSV files into aggregation rows
// and writes pivot tables and correction audits back out as CSV.
package dataset

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ErrUnknownMetric is returned when a weight metric name is not recognised.
var ErrUnknownMetric = errors.New("unknown weight metric")

// Metric names the column used as each row's weight.
type Metric string

const (
	MetricHits        Metric = "hits"
	MetricKudos       Metric = "kudos"
	MetricBookmarks   Metric = "bookmarks"
	MetricComments    Metric = "comments"
	MetricWords       Metric = "words"
	MetricCollections Metric = "collections"
	// MetricWorks weighs every row as 1 so cells count works.
	MetricWorks Metric = "works"
)

// DefaultMetric weighs rows by hits.
const DefaultMetric = MetricHits

// Metrics returns every supported metric.
func Metrics() []Metric {
	return []Metric{
		MetricHits,
		MetricKudos,
		MetricBookmarks,
		MetricComments,
		MetricWords,
		MetricCollections,
		MetricWorks,
	}
}

// ParseMetric parses a metric name case-insensitively. An empty name selects
// DefaultMetric.
func ParseMetric(s string) (Metric, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DefaultMetric, nil
	}
	for _, m := range Metrics() {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMetric, s)
}

// WorkRecord is one row of a works metadata CSV. Numeric columns are kept as
// text so rows with blank or malformed values can be skipped instead of
// failing the whole file.
type WorkRecord struct {
	WorkID      string `csv:"work_id"`
	Title       string `csv:"title"`
	Authors     string `csv:"authors"`
	Ships       string `csv:"ships"`
	Language    string `csv:"language"`
	Words       string `csv:"words"`
	Chapters    string `csv:"chapters"`
	Collections string `csv:"collections"`
	Comments    string `csv:"comments"`
	Kudos       string `csv:"kudos"`
	Bookmarks   string `csv:"bookmarks"`
	Hits        string `csv:"hits"`
	Date        string `csv:"date"`
	Created     string `csv:"created"`
	URL         string `csv:"url"`
}

// CreatedText returns the creation date column, falling back to the listing
// date when no created column was filled in.
func (w *WorkRecord) CreatedText() string {
	if created := strings.TrimSpace(w.Created); created != "" {
		return created
	}
	return strings.TrimSpace(w.Date)
}

// Weight returns the value of metric for this work, and false when the
// column is blank or not a number.
func (w *WorkRecord) Weight(metric Metric) (float64, bool) {
	var raw string
	switch metric {
	case MetricWorks:
		return 1, true
	case MetricHits:
		raw = w.Hits
	case MetricKudos:
		raw = w.Kudos
	case MetricBookmarks:
		raw = w.Bookmarks
	case MetricComments:
		raw = w.Comments
	case MetricWords:
		raw = w.Words
	case MetricCollections:
		raw = w.Collections
	default:
		return 0, false
	}
	return parseNumber(raw)
}

func parseNumber(raw string) (float64, bool) {
	raw = strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// dateLayouts are tried in order when parsing creation dates.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	time.DateTime,
	"2006-01-02T15:04:05",
	time.DateOnly,
	"02 Jan 2006",
	"2 Jan 2006",
	"January 2, 2006",
	"2006/01/02",
}

// ParseDate parses a creation date in any of the layouts seen in scraped
// exports. Dates without a zone are taken as UTC.
func ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date format: %q", raw)
}

const relationshipSuffix = "- Relationship"

// StripRelationshipSuffix removes a trailing "- Relationship" marker from
// every ";"-separated piece of a ship field and drops empty pieces.
func StripRelationshipSuffix(field string) string {
	pieces := strings.Split(field, ";")
	kept := make([]string, 0, len(pieces))
	for _, piece := range pieces {
		piece = strings.TrimSpace(piece)
		piece = strings.TrimSpace(strings.TrimSuffix(piece, relationshipSuffix))
		if piece != "" {
			kept = append(kept, piece)
		}
	}
	return strings.Join(kept, "; ")
}
