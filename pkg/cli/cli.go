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
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/shipstats/shipstats-core/internal/telemetry"
	"github.com/shipstats/shipstats-core/pkg/config"
	"github.com/shipstats/shipstats-core/pkg/helpers"
	"github.com/spf13/afero"
)

var ErrMissingInput = errors.New("input flag requires a value")

type Flags struct {
	Input              *string
	Output             *string
	Weight             *string
	Period             *string
	TopK               *int
	FillGaps           *bool
	Shares             *bool
	Corrections        *string
	DB                 *bool
	PreserveQualifiers *bool
	StripRelationship  *bool
	Watch              *bool
	Version            *bool
	Debug              *bool
	Set                *overrideFlag
	fs                 *flag.FlagSet
}

// overrideFlag collects repeated -set section.key=value pairs.
type overrideFlag []string

func (o *overrideFlag) String() string {
	return strings.Join(*o, ",")
}

func (o *overrideFlag) Set(value string) error {
	*o = append(*o, value)
	return nil
}

// SetupFlags defines the common CLI flags on fs. The returned Flags are
// populated once fs is parsed.
func SetupFlags(fs *flag.FlagSet) *Flags {
	overrides := &overrideFlag{}
	fs.Var(overrides, "set", "override a config value as section.key=value (repeatable)")

	return &Flags{
		Input: fs.String(
			"input",
			"",
			"path to the works CSV",
		),
		Output: fs.String(
			"output",
			"-",
			"path of the pivot CSV, or - for stdout",
		),
		Weight: fs.String(
			"weight",
			"",
			"weight metric: hits, kudos, bookmarks, comments, words, collections or works",
		),
		Period: fs.String(
			"period",
			"",
			"period granularity: day, week, month, quarter or year",
		),
		TopK: fs.Int(
			"top-k",
			0,
			"keep only the k ships with the largest totals (0 keeps all)",
		),
		FillGaps: fs.Bool(
			"fill-gaps",
			false,
			"emit zero rows for empty periods between the first and last",
		),
		Shares: fs.Bool(
			"shares",
			false,
			"write each value as a percentage of its period total",
		),
		Corrections: fs.String(
			"corrections",
			"",
			"write the base corrections audit CSV to this path",
		),
		DB: fs.Bool(
			"db",
			false,
			"record the run in the run database",
		),
		PreserveQualifiers: fs.Bool(
			"preserve-qualifiers",
			false,
			"keep parenthetical fandom qualifiers on ship members",
		),
		StripRelationship: fs.Bool(
			"strip-relationship",
			false,
			"strip \" - Relationship\" suffixes from ship fields",
		),
		Watch: fs.Bool(
			"watch",
			false,
			"rerun whenever the input file changes",
		),
		Version: fs.Bool(
			"version",
			false,
			"print version and exit",
		),
		Debug: fs.Bool(
			"debug",
			false,
			"enable debug logging",
		),
		Set: overrides,
		fs:  fs,
	}
}

func (f *Flags) isFlagPassed(name string) bool {
	found := false
	f.fs.Visit(func(fl *flag.Flag) {
		if fl.Name == name {
			found = true
		}
	})
	return found
}

// Pre handles flags that act before the environment is set up. It reports
// whether the program should exit. Logging is not available.
func (f *Flags) Pre(out io.Writer) bool {
	if *f.Version {
		_, _ = fmt.Fprintf(out, "%s %s\n", config.AppName, config.AppVersion)
		return true
	}
	return false
}

// Validate checks flag combinations that cannot run.
func (f *Flags) Validate() error {
	if *f.Input == "" {
		return ErrMissingInput
	}
	if *f.TopK < 0 {
		return fmt.Errorf("top-k must not be negative, got %d", *f.TopK)
	}
	if *f.Watch && (*f.Output == "" || *f.Output == StdoutPath) {
		return errors.New("watch mode requires an output file")
	}
	return nil
}

// Apply layers -set overrides and then explicitly passed flags over the
// loaded config. Nothing is saved to disk.
func (f *Flags) Apply(cfg *config.Instance) error {
	if len(*f.Set) > 0 {
		overrides, err := config.ParseOverrides(*f.Set)
		if err != nil {
			return fmt.Errorf("failed to parse overrides: %w", err)
		}
		if err := cfg.ApplyOverrides(overrides); err != nil {
			return fmt.Errorf("failed to apply overrides: %w", err)
		}
	}

	agg := cfg.Aggregate()
	if f.isFlagPassed("weight") {
		agg.Metric = *f.Weight
	}
	if f.isFlagPassed("period") {
		agg.Period = *f.Period
	}
	if f.isFlagPassed("top-k") {
		agg.TopK = *f.TopK
	}
	if f.isFlagPassed("fill-gaps") {
		agg.FillGaps = *f.FillGaps
	}
	if f.isFlagPassed("shares") {
		agg.Shares = *f.Shares
	}
	if f.isFlagPassed("strip-relationship") {
		agg.StripRelationship = *f.StripRelationship
	}
	if err := cfg.SetAggregate(agg); err != nil {
		return fmt.Errorf("invalid aggregate flags: %w", err)
	}

	if f.isFlagPassed("preserve-qualifiers") {
		norm := cfg.Normalizer()
		norm.PreserveQualifiers = *f.PreserveQualifiers
		if err := cfg.SetNormalizer(norm); err != nil {
			return fmt.Errorf("invalid normalizer flags: %w", err)
		}
	}

	if f.isFlagPassed("db") {
		cfg.SetRunDBEnabled(*f.DB)
	}
	if f.isFlagPassed("debug") {
		cfg.SetDebugLogging(*f.Debug)
	}
	helpers.SetLogLevel(cfg.DebugLogging())

	return nil
}

// Setup creates the app directories, initializes logging and loads the user
// config. Error reporting is started when the config opts in.
//
//nolint:gocritic // config struct copied for immutability
func Setup(
	fs afero.Fs,
	dirs helpers.Dirs,
	defaultConfig config.Values,
	writers []io.Writer,
) (*config.Instance, error) {
	for _, dir := range []string{dirs.Config, dirs.Data} {
		if err := fs.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("error creating directory %s: %w", dir, err)
		}
	}

	if err := helpers.InitLogging(fs, dirs.Log, writers); err != nil {
		return nil, fmt.Errorf("error initializing logging: %w", err)
	}

	cfg, err := config.NewConfig(fs, dirs.Config, defaultConfig)
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}

	helpers.SetLogLevel(cfg.DebugLogging())

	if dsn, ok := cfg.TelemetryDSN(); ok {
		if err := telemetry.Init(dsn, config.AppVersion); err != nil {
			log.Warn().Err(err).Msg("failed to initialize error reporting")
		}
	}

	return cfg, nil
}
