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

func sampleTable() *PivotTable {
	return &PivotTable{
		Granularity: GranularityMonth,
		Periods: []Period{
			GranularityMonth.PeriodOf(date(2024, time.January, 1)),
			GranularityMonth.PeriodOf(date(2024, time.February, 1)),
		},
		Ships: []string{"A/B", "C/D", "E/F"},
		Values: [][]float64{
			{10, 5, 0},
			{2, 5, 0},
		},
		RowTotals: []float64{12, 0},
	}
}

func TestPivotTable_Value(t *testing.T) {
	t.Parallel()

	table := sampleTable()

	v, ok := table.Value("2024-01", "C/D")
	require.True(t, ok)
	assert.InDelta(t, 5.0, v, 0)

	_, ok = table.Value("2024-03", "C/D")
	assert.False(t, ok)
	_, ok = table.Value("2024-01", "X/Y")
	assert.False(t, ok)
}

func TestPivotTable_ColumnTotals(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []float64{12, 10, 0}, sampleTable().ColumnTotals())
}

func TestPivotTable_TopK(t *testing.T) {
	t.Parallel()

	table := sampleTable()

	top, err := table.TopK(2)
	require.NoError(t, err)
	assert.Equal(t, []string{"A/B", "C/D"}, top.Ships)
	assert.Equal(t, [][]float64{{10, 5}, {2, 5}}, top.Values)
	assert.Equal(t, table.RowTotals, top.RowTotals)

	all, err := table.TopK(10)
	require.NoError(t, err)
	assert.Equal(t, []string{"A/B", "C/D", "E/F"}, all.Ships)

	assert.Equal(t, []string{"A/B", "C/D", "E/F"}, table.Ships, "source table unchanged")
}

func TestPivotTable_TopKTiesAreAlphabetical(t *testing.T) {
	t.Parallel()

	table := &PivotTable{
		Periods:   []Period{GranularityMonth.PeriodOf(date(2024, time.January, 1))},
		Ships:     []string{"B", "C", "A"},
		Values:    [][]float64{{3, 1, 3}},
		RowTotals: []float64{7},
	}

	top, err := table.TopK(3)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, top.Ships)
	assert.Equal(t, [][]float64{{3, 3, 1}}, top.Values)
}

func TestPivotTable_TopKInvalid(t *testing.T) {
	t.Parallel()

	for _, k := range []int{0, -1} {
		_, err := sampleTable().TopK(k)
		require.ErrorIs(t, err, ErrInvalidTopK)
	}
}

func TestPivotTable_Shares(t *testing.T) {
	t.Parallel()

	shares := sampleTable().Shares()

	assert.InDelta(t, 100.0*10/12, shares.Values[0][0], 1e-9)
	assert.InDelta(t, 100.0*5/12, shares.Values[0][1], 1e-9)
	assert.Equal(t, []float64{0, 0, 0}, shares.Values[1], "zero total yields zero shares")
}

func TestPivotTable_Matrix(t *testing.T) {
	t.Parallel()

	table := sampleTable()
	table.Values[1][2] = 0.25

	assert.Equal(t, [][]string{
		{"period", "A/B", "C/D", "E/F"},
		{"2024-01", "10", "5", "0"},
		{"2024-02", "2", "5", "0.25"},
	}, table.Matrix())
}

func TestPivotTable_Cells(t *testing.T) {
	t.Parallel()

	var got []string
	sampleTable().Cells(func(period Period, ship string, _ float64) {
		got = append(got, period.Label+" "+ship)
	})

	assert.Equal(t, []string{"2024-01 A/B", "2024-01 C/D", "2024-02 A/B", "2024-02 C/D"}, got)
}
