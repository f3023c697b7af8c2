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

package database

import (
	"database/sql"
	"time"

	"github.com/shipstats/shipstats-core/pkg/aggregate"
	"github.com/shipstats/shipstats-core/pkg/ships/normalizer"
)

/*
 * Structs for SQL records
 */

// Run describes one aggregation run and the options it used.
type Run struct {
	StartedAt           time.Time `json:"startedAt"`
	ID                  string    `json:"id"`
	InputPath           string    `json:"inputPath"`
	Metric              string    `json:"metric"`
	Granularity         string    `json:"granularity"`
	Algorithm           string    `json:"algorithm"`
	FuzzyThreshold      float64   `json:"fuzzyThreshold"`
	MinDirectCount      int       `json:"minDirectCount"`
	MinCandidateCount   int       `json:"minCandidateCount"`
	FrequencyMultiplier int       `json:"frequencyMultiplier"`
	Rows                int       `json:"rows"`
	Periods             int       `json:"periods"`
	Ships               int       `json:"ships"`
	PreserveQualifiers  bool      `json:"preserveQualifiers"`
}

// PivotCell is one non-zero (period, ship) total of a run.
type PivotCell struct {
	Period string  `json:"period"`
	Ship   string  `json:"ship"`
	Value  float64 `json:"value"`
	DBID   int64   `db:"DBID" json:"id"`
}

// CorrectionEntry is one base rewrite recorded for a run.
type CorrectionEntry struct {
	From       string  `json:"from"`
	To         string  `json:"to"`
	Method     string  `json:"method"`
	Similarity float64 `json:"similarity"`
	FromCount  int     `json:"fromCount"`
	ToCount    int     `json:"toCount"`
	DBID       int64   `db:"DBID" json:"id"`
}

// CellsFromPivot returns the non-zero cells of table.
func CellsFromPivot(table *aggregate.PivotTable) []PivotCell {
	var cells []PivotCell
	table.Cells(func(period aggregate.Period, ship string, value float64) {
		cells = append(cells, PivotCell{Period: period.Label, Ship: ship, Value: value})
	})
	return cells
}

// CorrectionEntries converts normalizer corrections to records.
func CorrectionEntries(corrections []normalizer.Correction) []CorrectionEntry {
	entries := make([]CorrectionEntry, 0, len(corrections))
	for _, c := range corrections {
		entries = append(entries, CorrectionEntry{
			From:       c.From,
			To:         c.To,
			Method:     string(c.Method),
			Similarity: float64(c.Similarity),
			FromCount:  c.FromCount,
			ToCount:    c.ToCount,
		})
	}
	return entries
}

/*
 * Interfaces for external deps
 */

type GenericDBI interface {
	UnsafeGetSQLDb() *sql.DB
	MigrateUp() error
	Vacuum() error
	Close() error
	GetDBPath() string
}

// RunDBI stores aggregation runs and their results.
type RunDBI interface {
	GenericDBI
	RecordRun(run *Run, cells []PivotCell, corrections []CorrectionEntry) (string, error)
	GetRun(id string) (Run, error)
	ListRuns(limit int) ([]Run, error)
	GetPivotCells(runID string) ([]PivotCell, error)
	GetCorrections(runID string) ([]CorrectionEntry, error)
	DeleteRun(id string) error
}
