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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 12, 0, 0, 0, time.UTC)
}

func TestParseGranularity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    Granularity
		wantErr bool
	}{
		{input: "", want: GranularityMonth},
		{input: "day", want: GranularityDay},
		{input: " Week ", want: GranularityWeek},
		{input: "MONTH", want: GranularityMonth},
		{input: "quarter", want: GranularityQuarter},
		{input: "year", want: GranularityYear},
		{input: "fortnight", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			got, err := ParseGranularity(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnknownGranularity)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPeriodOf_Labels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		at          time.Time
		name        string
		granularity Granularity
		want        string
	}{
		{name: "day", granularity: GranularityDay, at: date(2024, time.January, 5), want: "2024-01-05"},
		{name: "week monday", granularity: GranularityWeek, at: date(2024, time.January, 1), want: "2024-W01"},
		{name: "week sunday", granularity: GranularityWeek, at: date(2024, time.January, 7), want: "2024-W01"},
		{name: "week iso year rollback", granularity: GranularityWeek, at: date(2021, time.January, 3), want: "2020-W53"},
		{name: "month", granularity: GranularityMonth, at: date(2024, time.January, 20), want: "2024-01"},
		{name: "quarter", granularity: GranularityQuarter, at: date(2024, time.August, 1), want: "2024Q3"},
		{name: "year", granularity: GranularityYear, at: date(2024, time.December, 31), want: "2024"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.granularity.PeriodOf(tt.at).Label)
		})
	}
}

func TestPeriodOf_ConvertsToUTC(t *testing.T) {
	t.Parallel()

	tokyo := time.FixedZone("JST", 9*60*60)
	at := time.Date(2024, time.February, 1, 3, 0, 0, 0, tokyo)

	p := GranularityMonth.PeriodOf(at)
	assert.Equal(t, "2024-01", p.Label)
	assert.Equal(t, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), p.Start)
}

func TestNext(t *testing.T) {
	t.Parallel()

	tests := []struct {
		at          time.Time
		granularity Granularity
		want        string
	}{
		{granularity: GranularityDay, at: date(2024, time.February, 28), want: "2024-02-29"},
		{granularity: GranularityWeek, at: date(2020, time.December, 31), want: "2021-W01"},
		{granularity: GranularityMonth, at: date(2024, time.December, 15), want: "2025-01"},
		{granularity: GranularityQuarter, at: date(2024, time.November, 2), want: "2025Q1"},
		{granularity: GranularityYear, at: date(2024, time.June, 1), want: "2025"},
	}

	for _, tt := range tests {
		t.Run(string(tt.granularity), func(t *testing.T) {
			t.Parallel()
			got := tt.granularity.Next(tt.granularity.PeriodOf(tt.at))
			assert.Equal(t, tt.want, got.Label)
		})
	}
}
