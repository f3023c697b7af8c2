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

package dataset

import (
	"fmt"
	"io"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog/log"
	"github.com/shipstats/shipstats-core/pkg/aggregate"
	"github.com/spf13/afero"
)

// Options controls how work records become aggregation rows.
type Options struct {
	Metric Metric
	// StripRelationshipSuffix removes trailing "- Relationship" markers from
	// ship tags before they are normalized.
	StripRelationshipSuffix bool
}

// Summary counts the rows kept and skipped while loading.
type Summary struct {
	Read           int
	Kept           int
	MissingShips   int
	MissingCreated int
	BadCreated     int
	BadWeight      int
}

// Skipped returns the number of rows that did not become aggregation rows.
func (s Summary) Skipped() int {
	return s.Read - s.Kept
}

// Loader reads works CSV files from a filesystem.
type Loader struct {
	fs afero.Fs
}

// NewLoader returns a Loader over fs.
func NewLoader(fs afero.Fs) *Loader {
	return &Loader{fs: fs}
}

// ReadWorks parses every record of a works CSV file.
func (l *Loader) ReadWorks(path string) ([]WorkRecord, error) {
	file, err := l.fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open works file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	works, err := DecodeWorks(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return works, nil
}

// DecodeWorks parses works CSV data from r.
func DecodeWorks(r io.Reader) ([]WorkRecord, error) {
	works := make([]WorkRecord, 0)
	if err := gocsv.Unmarshal(r, &works); err != nil {
		return nil, fmt.Errorf("failed to unmarshal works CSV: %w", err)
	}
	return works, nil
}

// Load reads a works CSV file and converts it to aggregation rows.
func (l *Loader) Load(path string, opts Options) ([]aggregate.Row, Summary, error) {
	works, err := l.ReadWorks(path)
	if err != nil {
		return nil, Summary{}, err
	}

	rows, summary, err := Rows(works, opts)
	if err != nil {
		return nil, summary, err
	}

	log.Info().
		Str("path", path).
		Int("read", summary.Read).
		Int("kept", summary.Kept).
		Int("skipped", summary.Skipped()).
		Str("metric", string(opts.Metric)).
		Msg("loaded works")

	return rows, summary, nil
}

// Rows converts work records to aggregation rows. Records without ships,
// with a missing or unparseable creation date, or with a blank or
// non-numeric weight are skipped and counted in the Summary.
func Rows(works []WorkRecord, opts Options) ([]aggregate.Row, Summary, error) {
	metric, err := ParseMetric(string(opts.Metric))
	if err != nil {
		return nil, Summary{}, err
	}

	summary := Summary{Read: len(works)}
	rows := make([]aggregate.Row, 0, len(works))

	for i := range works {
		work := &works[i]

		ships := strings.TrimSpace(work.Ships)
		if opts.StripRelationshipSuffix {
			ships = StripRelationshipSuffix(ships)
		}
		if ships == "" {
			summary.MissingShips++
			continue
		}

		createdText := work.CreatedText()
		if createdText == "" {
			summary.MissingCreated++
			continue
		}
		created, err := ParseDate(createdText)
		if err != nil {
			log.Debug().Err(err).Str("workID", work.WorkID).Msg("skipping work with bad date")
			summary.BadCreated++
			continue
		}

		weight, ok := work.Weight(metric)
		if !ok {
			summary.BadWeight++
			continue
		}

		rows = append(rows, aggregate.Row{Created: created, Ships: ships, Weight: weight})
	}

	summary.Kept = len(rows)
	return rows, summary, nil
}

// ShipFields returns the ship field of every row, for building a
// normalizer over the batch.
func ShipFields(rows []aggregate.Row) []string {
	fields := make([]string, len(rows))
	for i, row := range rows {
		fields[i] = row.Ships
	}
	return fields
}
