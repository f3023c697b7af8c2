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

package aggregate

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUnknownGranularity is returned when a period granularity name is not
// recognised.
var ErrUnknownGranularity = errors.New("unknown period granularity")

// Granularity selects how timestamps are bucketed into periods.
type Granularity string

const (
	// GranularityDay labels periods as 2006-01-02.
	GranularityDay Granularity = "day"
	// GranularityWeek labels ISO weeks as 2006-W01.
	GranularityWeek Granularity = "week"
	// GranularityMonth labels periods as 2006-01.
	GranularityMonth Granularity = "month"
	// GranularityQuarter labels periods as 2006Q1.
	GranularityQuarter Granularity = "quarter"
	// GranularityYear labels periods as 2006.
	GranularityYear Granularity = "year"
)

// DefaultGranularity buckets rows by calendar month.
const DefaultGranularity = GranularityMonth

// Granularities returns every supported granularity, finest first.
func Granularities() []Granularity {
	return []Granularity{
		GranularityDay,
		GranularityWeek,
		GranularityMonth,
		GranularityQuarter,
		GranularityYear,
	}
}

// ParseGranularity parses a granularity name case-insensitively. An empty
// name selects DefaultGranularity.
func ParseGranularity(s string) (Granularity, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DefaultGranularity, nil
	}
	for _, g := range Granularities() {
		if string(g) == s {
			return g, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownGranularity, s)
}

// Period is one bucket of time. Start is the first instant of the bucket in
// UTC and Label its display form.
type Period struct {
	Start time.Time
	Label string
}

// PeriodOf returns the period containing t. Timestamps are converted to UTC
// first.
//
// Labels are "2006-01-02" for days, ISO weeks as "2006-W01", "2006-01" for
// months, "2006Q1" for quarters and "2006" for years.
func (g Granularity) PeriodOf(t time.Time) Period {
	t = t.UTC()
	year, month, day := t.Date()

	switch g {
	case GranularityDay:
		start := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
		return Period{Start: start, Label: start.Format(time.DateOnly)}
	case GranularityWeek:
		offset := (int(t.Weekday()) + 6) % 7
		start := time.Date(year, month, day-offset, 0, 0, 0, 0, time.UTC)
		isoYear, isoWeek := start.ISOWeek()
		return Period{Start: start, Label: fmt.Sprintf("%04d-W%02d", isoYear, isoWeek)}
	case GranularityQuarter:
		quarter := (int(month)-1)/3 + 1
		start := time.Date(year, time.Month((quarter-1)*3+1), 1, 0, 0, 0, 0, time.UTC)
		return Period{Start: start, Label: fmt.Sprintf("%04dQ%d", year, quarter)}
	case GranularityYear:
		start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		return Period{Start: start, Label: fmt.Sprintf("%04d", year)}
	case GranularityMonth:
		fallthrough
	default:
		start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
		return Period{Start: start, Label: start.Format("2006-01")}
	}
}

// Next returns the period immediately after p.
func (g Granularity) Next(p Period) Period {
	switch g {
	case GranularityDay:
		return g.PeriodOf(p.Start.AddDate(0, 0, 1))
	case GranularityWeek:
		return g.PeriodOf(p.Start.AddDate(0, 0, 7))
	case GranularityQuarter:
		return g.PeriodOf(p.Start.AddDate(0, 3, 0))
	case GranularityYear:
		return g.PeriodOf(p.Start.AddDate(1, 0, 0))
	case GranularityMonth:
		fallthrough
	default:
		return g.PeriodOf(p.Start.AddDate(0, 1, 0))
	}
}
