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

// Package aggregate sums per-row weights by normalized ship and time period
// and pivots the result into a period by ship table.
package aggregate

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// ErrEmptyResult is returned when no ship survives normalization across the
// whole batch.
var ErrEmptyResult = errors.New("no ships survived normalization")

// ShipNormalizer splits a ";"-separated ship field and returns the
// normalized ships it contains, without empties.
type ShipNormalizer interface {
	NormalizeField(field string) []string
}

// Row is one input record.
type Row struct {
	Created time.Time
	Ships   string
	Weight  float64
}

// Options configures Aggregate.
type Options struct {
	Granularity Granularity
	// Workers is the number of goroutines normalizing rows. Values below 2
	// normalize on the calling goroutine.
	Workers int
	// FillGaps inserts zero rows for periods between the first and last
	// observed period that have no ships.
	FillGaps bool
}

// DefaultOptions returns monthly buckets on a single worker.
func DefaultOptions() Options {
	return Options{Granularity: DefaultGranularity, Workers: 1}
}

type cellKey struct {
	period string
	ship   string
}

// Aggregate normalizes every row's ships, buckets the rows into periods and
// sums weights by (period, ship). A row with several ships contributes its
// full weight to each of them.
//
// The result is identical for any worker count: rows are normalized in
// parallel but summed in input order.
//
//nolint:gocritic // options struct copied for immutability
func Aggregate(ctx context.Context, rows []Row, n ShipNormalizer, opts Options) (*PivotTable, error) {
	if opts.Granularity == "" {
		opts.Granularity = DefaultGranularity
	}
	granularity, err := ParseGranularity(string(opts.Granularity))
	if err != nil {
		return nil, err
	}

	ships, err := normalizeRows(ctx, rows, n, opts.Workers)
	if err != nil {
		return nil, err
	}

	periods := make(map[string]Period)
	rowTotals := make(map[string]float64)
	cells := make(map[cellKey]float64)
	shipSet := make(map[string]struct{})

	for i, row := range rows {
		if len(ships[i]) == 0 {
			continue
		}
		period := granularity.PeriodOf(row.Created)
		periods[period.Label] = period
		rowTotals[period.Label] += row.Weight
		for _, ship := range ships[i] {
			cells[cellKey{period: period.Label, ship: ship}] += row.Weight
			shipSet[ship] = struct{}{}
		}
	}

	if len(shipSet) == 0 {
		return nil, ErrEmptyResult
	}

	table := newPivotTable(granularity, periods, shipSet, opts.FillGaps)
	for i, period := range table.Periods {
		table.RowTotals[i] = rowTotals[period.Label]
		for j, ship := range table.Ships {
			table.Values[i][j] = cells[cellKey{period: period.Label, ship: ship}]
		}
	}

	log.Debug().
		Int("rows", len(rows)).
		Int("periods", len(table.Periods)).
		Int("ships", len(table.Ships)).
		Str("granularity", string(granularity)).
		Msg("aggregated ship weights")

	return table, nil
}

// normalizeRows returns the normalized ships of every row, indexed like rows.
// Each worker owns a contiguous chunk and a private memo of fields it has
// already normalized.
func normalizeRows(ctx context.Context, rows []Row, n ShipNormalizer, workers int) ([][]string, error) {
	out := make([][]string, len(rows))

	if workers < 2 || len(rows) < 2*workers {
		if err := normalizeChunk(ctx, rows, out, n); err != nil {
			return nil, err
		}
		return out, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	chunk := (len(rows) + workers - 1) / workers
	for start := 0; start < len(rows); start += chunk {
		end := min(start+chunk, len(rows))
		g.Go(func() error {
			return normalizeChunk(gctx, rows[start:end], out[start:end], n)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func normalizeChunk(ctx context.Context, rows []Row, out [][]string, n ShipNormalizer) error {
	memo := make(map[string][]string)
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("aggregation interrupted: %w", err)
		}
		ships, ok := memo[row.Ships]
		if !ok {
			ships = n.NormalizeField(row.Ships)
			memo[row.Ships] = ships
		}
		out[i] = ships
	}
	return nil
}

func newPivotTable(
	granularity Granularity,
	periods map[string]Period,
	shipSet map[string]struct{},
	fillGaps bool,
) *PivotTable {
	ordered := make([]Period, 0, len(periods))
	for _, p := range periods {
		ordered = append(ordered, p)
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Start.Before(ordered[j].Start)
	})

	if fillGaps && len(ordered) > 1 {
		last := ordered[len(ordered)-1]
		filled := []Period{ordered[0]}
		for p := granularity.Next(ordered[0]); !p.Start.After(last.Start); p = granularity.Next(p) {
			filled = append(filled, p)
		}
		ordered = filled
	}

	ships := make([]string, 0, len(shipSet))
	for ship := range shipSet {
		ships = append(ships, ship)
	}
	sort.Strings(ships)

	values := make([][]float64, len(ordered))
	for i := range values {
		values[i] = make([]float64, len(ships))
	}

	return &PivotTable{
		Granularity: granularity,
		Periods:     ordered,
		Ships:       ships,
		Values:      values,
		RowTotals:   make([]float64, len(ordered)),
	}
}
