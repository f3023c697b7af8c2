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
	"path/filepath"
	"strconv"

	"github.com/gocarina/gocsv"
	"github.com/shipstats/shipstats-core/pkg/aggregate"
	"github.com/shipstats/shipstats-core/pkg/ships/normalizer"
	"github.com/spf13/afero"
)

// CorrectionRecord is one row of the corrections audit CSV.
type CorrectionRecord struct {
	From       string `csv:"from"`
	To         string `csv:"to"`
	Method     string `csv:"method"`
	Similarity string `csv:"similarity"`
	FromCount  int    `csv:"from_count"`
	ToCount    int    `csv:"to_count"`
}

// CorrectionRecords converts normalizer corrections to audit rows.
// Similarity is blank for non-fuzzy corrections.
func CorrectionRecords(corrections []normalizer.Correction) []CorrectionRecord {
	records := make([]CorrectionRecord, 0, len(corrections))
	for _, c := range corrections {
		similarity := ""
		if c.Similarity > 0 {
			similarity = strconv.FormatFloat(float64(c.Similarity), 'f', 4, 32)
		}
		records = append(records, CorrectionRecord{
			From:       c.From,
			To:         c.To,
			Method:     string(c.Method),
			Similarity: similarity,
			FromCount:  c.FromCount,
			ToCount:    c.ToCount,
		})
	}
	return records
}

// Writer writes result files to a filesystem, creating parent directories
// as needed.
type Writer struct {
	fs afero.Fs
}

// NewWriter returns a Writer over fs.
func NewWriter(fs afero.Fs) *Writer {
	return &Writer{fs: fs}
}

// WritePivot writes table as a CSV matrix with a "period" column followed by
// one column per ship.
func (w *Writer) WritePivot(path string, table *aggregate.PivotTable) error {
	return w.create(path, func(out io.Writer) error {
		return EncodePivot(out, table)
	})
}

// WriteCorrections writes the corrections audit CSV.
func (w *Writer) WriteCorrections(path string, corrections []normalizer.Correction) error {
	return w.create(path, func(out io.Writer) error {
		return EncodeCorrections(out, corrections)
	})
}

func (w *Writer) create(path string, encode func(io.Writer) error) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := w.fs.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	file, err := w.fs.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := encode(file); err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}

// EncodePivot writes table's matrix as CSV to out.
func EncodePivot(out io.Writer, table *aggregate.PivotTable) error {
	csvWriter := gocsv.DefaultCSVWriter(out)
	for _, row := range table.Matrix() {
		if err := csvWriter.Write(row); err != nil {
			return fmt.Errorf("failed to write pivot row: %w", err)
		}
	}
	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		return fmt.Errorf("failed to flush pivot CSV: %w", err)
	}
	return nil
}

// EncodeCorrections writes the corrections audit as CSV to out. A header is
// written even when there are no corrections.
func EncodeCorrections(out io.Writer, corrections []normalizer.Correction) error {
	records := CorrectionRecords(corrections)
	if err := gocsv.Marshal(&records, out); err != nil {
		return fmt.Errorf("failed to marshal corrections: %w", err)
	}
	return nil
}
