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
	"slices"
	"sort"
	"strconv"
)

// ErrInvalidTopK is returned by TopK for a non-positive K.
var ErrInvalidTopK = errors.New("top-k must be at least 1")

// PeriodHeader is the first header cell of Matrix.
const PeriodHeader = "period"

// PivotTable holds summed weights with one row per period and one column
// per ship. Periods are chronological and Ships lexicographic unless the
// table was produced by TopK. Absent combinations are zero.
type PivotTable struct {
	Granularity Granularity
	Periods     []Period
	Ships       []string
	Values      [][]float64
	// RowTotals holds, per period, the summed weight of every row that
	// contributed at least one ship. Each row is counted once.
	RowTotals []float64
}

// Value returns the cell for a period label and ship, and whether both
// exist in the table.
func (p *PivotTable) Value(period, ship string) (float64, bool) {
	col := slices.Index(p.Ships, ship)
	if col < 0 {
		return 0, false
	}
	for i, per := range p.Periods {
		if per.Label == period {
			return p.Values[i][col], true
		}
	}
	return 0, false
}

// ColumnTotals returns the summed weight of every ship column.
func (p *PivotTable) ColumnTotals() []float64 {
	totals := make([]float64, len(p.Ships))
	for _, row := range p.Values {
		for j, v := range row {
			totals[j] += v
		}
	}
	return totals
}

// TopK returns a table with only the k ships that have the largest column
// totals, ordered by total descending and then by name. Row totals are kept
// from the full table.
func (p *PivotTable) TopK(k int) (*PivotTable, error) {
	if k < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidTopK, k)
	}

	totals := p.ColumnTotals()
	cols := make([]int, len(p.Ships))
	for i := range cols {
		cols[i] = i
	}
	sort.SliceStable(cols, func(a, b int) bool {
		ta, tb := totals[cols[a]], totals[cols[b]]
		if ta != tb {
			return ta > tb
		}
		return p.Ships[cols[a]] < p.Ships[cols[b]]
	})
	if k < len(cols) {
		cols = cols[:k]
	}

	out := &PivotTable{
		Granularity: p.Granularity,
		Periods:     slices.Clone(p.Periods),
		Ships:       make([]string, len(cols)),
		Values:      make([][]float64, len(p.Values)),
		RowTotals:   slices.Clone(p.RowTotals),
	}
	for j, col := range cols {
		out.Ships[j] = p.Ships[col]
	}
	for i, row := range p.Values {
		out.Values[i] = make([]float64, len(cols))
		for j, col := range cols {
			out.Values[i][j] = row[col]
		}
	}
	return out, nil
}

// Shares returns a table of percentages: every cell divided by its period's
// row total, times 100. Periods with a zero total have zero shares.
func (p *PivotTable) Shares() *PivotTable {
	out := &PivotTable{
		Granularity: p.Granularity,
		Periods:     slices.Clone(p.Periods),
		Ships:       slices.Clone(p.Ships),
		Values:      make([][]float64, len(p.Values)),
		RowTotals:   slices.Clone(p.RowTotals),
	}
	for i, row := range p.Values {
		out.Values[i] = make([]float64, len(row))
		total := p.RowTotals[i]
		if total == 0 {
			continue
		}
		for j, v := range row {
			out.Values[i][j] = v / total * 100
		}
	}
	return out
}

// Matrix renders the table as strings: a header row of "period" followed by
// the ships, then one row per period.
func (p *PivotTable) Matrix() [][]string {
	out := make([][]string, 0, len(p.Periods)+1)

	header := make([]string, 0, len(p.Ships)+1)
	header = append(header, PeriodHeader)
	header = append(header, p.Ships...)
	out = append(out, header)

	for i, period := range p.Periods {
		row := make([]string, 0, len(p.Ships)+1)
		row = append(row, period.Label)
		for _, v := range p.Values[i] {
			row = append(row, strconv.FormatFloat(v, 'f', -1, 64))
		}
		out = append(out, row)
	}
	return out
}

// Cells calls fn for every non-zero cell in period then ship order.
func (p *PivotTable) Cells(fn func(period Period, ship string, value float64)) {
	for i, period := range p.Periods {
		for j, ship := range p.Ships {
			if v := p.Values[i][j]; v != 0 {
				fn(period, ship, v)
			}
		}
	}
}
