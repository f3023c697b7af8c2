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

package cli

import (
	"context"
	"fmt"
	"io"
	"runtime"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"github.com/shipstats/shipstats-core/internal/telemetry"
	"github.com/shipstats/shipstats-core/pkg/aggregate"
	"github.com/shipstats/shipstats-core/pkg/config"
	"github.com/shipstats/shipstats-core/pkg/database"
	"github.com/shipstats/shipstats-core/pkg/database/rundb"
	"github.com/shipstats/shipstats-core/pkg/dataset"
	"github.com/shipstats/shipstats-core/pkg/ships/matcher"
	"github.com/shipstats/shipstats-core/pkg/ships/normalizer"
	"github.com/spf13/afero"
)

// StdoutPath selects standard output as the pivot destination.
const StdoutPath = "-"

// Pipeline runs one batch: load the works CSV, normalize ships, pivot by
// period and write the results. Options come from Config.
type Pipeline struct {
	Fs     afero.Fs
	Config *config.Instance
	Clock  clockwork.Clock
	Stdout io.Writer
	// DataDir holds the run database unless the config names another path.
	DataDir     string
	Input       string
	Output      string
	Corrections string
}

// Result describes a finished run.
type Result struct {
	Table       *aggregate.PivotTable
	RunID       string
	Summary     dataset.Summary
	Corrections int
}

// NewPipeline returns a Pipeline for the given flags using the real clock
// and standard output.
func NewPipeline(fs afero.Fs, cfg *config.Instance, dataDir string, flags *Flags, stdout io.Writer) *Pipeline {
	return &Pipeline{
		Fs:          fs,
		Config:      cfg,
		Clock:       clockwork.NewRealClock(),
		Stdout:      stdout,
		DataDir:     dataDir,
		Input:       *flags.Input,
		Output:      *flags.Output,
		Corrections: *flags.Corrections,
	}
}

// NormalizerOptions converts config values to normalizer options. Zero
// workers selects one per CPU.
//
//nolint:gocritic // config struct copied for immutability
func NormalizerOptions(vals config.Normalizer) normalizer.Options {
	return normalizer.Options{
		Algorithm:           matcher.Algorithm(vals.Algorithm),
		FuzzyThreshold:      vals.FuzzyThreshold,
		MinDirectCount:      vals.MinDirectCount,
		MinCandidateCount:   vals.MinCandidateCount,
		FrequencyMultiplier: vals.FrequencyMultiplier,
		Workers:             workerCount(vals.Workers),
		PreserveQualifiers:  vals.PreserveQualifiers,
	}
}

func workerCount(n int) int {
	if n > 0 {
		return n
	}
	return runtime.GOMAXPROCS(0)
}

func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	aggVals := p.Config.Aggregate()
	normOpts := NormalizerOptions(p.Config.Normalizer())

	metric, err := dataset.ParseMetric(aggVals.Metric)
	if err != nil {
		return nil, fmt.Errorf("invalid weight: %w", err)
	}
	granularity, err := aggregate.ParseGranularity(aggVals.Period)
	if err != nil {
		return nil, fmt.Errorf("invalid period: %w", err)
	}

	telemetry.SetRunContext(telemetry.RunContext{
		Input:       p.Input,
		Metric:      string(metric),
		Granularity: string(granularity),
		Algorithm:   string(normOpts.Algorithm),
		Workers:     normOpts.Workers,
	})

	rows, summary, err := dataset.NewLoader(p.Fs).Load(p.Input, dataset.Options{
		Metric:                  metric,
		StripRelationshipSuffix: aggVals.StripRelationship,
	})
	if err != nil {
		return nil, err
	}

	norm, err := normalizer.New(ctx, dataset.ShipFields(rows), normOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to build normalizer: %w", err)
	}

	table, err := aggregate.Aggregate(ctx, rows, norm, aggregate.Options{
		Granularity: granularity,
		Workers:     normOpts.Workers,
		FillGaps:    aggVals.FillGaps,
	})
	if err != nil {
		return nil, err
	}

	if aggVals.TopK > 0 {
		table, err = table.TopK(aggVals.TopK)
		if err != nil {
			return nil, fmt.Errorf("failed to select top ships: %w", err)
		}
	}
	if aggVals.Shares {
		table = table.Shares()
	}

	corrections := norm.Corrections()
	if err := p.write(table, corrections); err != nil {
		return nil, err
	}

	result := &Result{
		Table:       table,
		Summary:     summary,
		Corrections: len(corrections),
	}

	if p.Config.RunDBEnabled() {
		run := &database.Run{
			InputPath:           p.Input,
			Metric:              string(metric),
			Granularity:         string(granularity),
			Algorithm:           string(norm.Options().Algorithm),
			FuzzyThreshold:      normOpts.FuzzyThreshold,
			MinDirectCount:      normOpts.MinDirectCount,
			MinCandidateCount:   normOpts.MinCandidateCount,
			FrequencyMultiplier: normOpts.FrequencyMultiplier,
			Rows:                summary.Kept,
			Periods:             len(table.Periods),
			Ships:               len(table.Ships),
			PreserveQualifiers:  normOpts.PreserveQualifiers,
		}
		result.RunID, err = p.record(ctx, run, table, corrections)
		if err != nil {
			return nil, err
		}
	}

	log.Info().
		Str("input", p.Input).
		Int("rows", summary.Kept).
		Int("periods", len(table.Periods)).
		Int("ships", len(table.Ships)).
		Int("corrections", len(corrections)).
		Str("run", result.RunID).
		Msg("aggregation complete")

	return result, nil
}

func (p *Pipeline) write(table *aggregate.PivotTable, corrections []normalizer.Correction) error {
	writer := dataset.NewWriter(p.Fs)

	if p.Output == "" || p.Output == StdoutPath {
		if err := dataset.EncodePivot(p.Stdout, table); err != nil {
			return fmt.Errorf("failed to write pivot to stdout: %w", err)
		}
	} else if err := writer.WritePivot(p.Output, table); err != nil {
		return err
	}

	if p.Corrections != "" {
		if err := writer.WriteCorrections(p.Corrections, corrections); err != nil {
			return err
		}
	}
	return nil
}

func (p *Pipeline) record(
	ctx context.Context,
	run *database.Run,
	table *aggregate.PivotTable,
	corrections []normalizer.Correction,
) (string, error) {
	path := p.Config.RunDBPath(p.DataDir)
	db, err := rundb.Open(ctx, p.Fs, path, p.Clock)
	if err != nil {
		return "", fmt.Errorf("failed to open run database: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close run database")
		}
	}()

	id, err := db.RecordRun(run, database.CellsFromPivot(table), database.CorrectionEntries(corrections))
	if err != nil {
		return "", fmt.Errorf("failed to record run: %w", err)
	}
	log.Debug().Str("run", id).Str("path", path).Msg("recorded run")
	return id, nil
}
