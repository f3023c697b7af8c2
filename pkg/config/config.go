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

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog/log"
	"github.com/shipstats/shipstats-core/pkg/helpers/syncutil"
	"github.com/shipstats/shipstats-core/pkg/validation"
	"github.com/spf13/afero"
)

const (
	SchemaVersion = 1
	CfgEnv        = "SHIPSTATS_CFG"
	AppEnv        = "SHIPSTATS_APP"
)

var ErrSchemaMismatch = errors.New("schema version mismatch")

type Values struct {
	Normalizer   Normalizer `toml:"normalizer"`
	Aggregate    Aggregate  `toml:"aggregate"`
	RunDB        RunDB      `toml:"run_db,omitempty"`
	Telemetry    Telemetry  `toml:"telemetry,omitempty"`
	ConfigSchema int        `toml:"config_schema"`
	DebugLogging bool       `toml:"debug_logging"`
}

type Normalizer struct {
	Algorithm           string  `toml:"algorithm" validate:"algorithm"`
	FuzzyThreshold      float64 `toml:"fuzzy_threshold" validate:"gt=0,lte=1"`
	MinDirectCount      int     `toml:"min_direct_count" validate:"min=1"`
	MinCandidateCount   int     `toml:"min_candidate_count" validate:"min=1"`
	FrequencyMultiplier int     `toml:"frequency_multiplier" validate:"min=1"`
	Workers             int     `toml:"workers" validate:"min=0"`
	PreserveQualifiers  bool    `toml:"preserve_qualifiers"`
}

type Aggregate struct {
	Metric            string `toml:"metric" validate:"metric"`
	Period            string `toml:"period" validate:"granularity"`
	TopK              int    `toml:"top_k" validate:"min=0"`
	FillGaps          bool   `toml:"fill_gaps"`
	Shares            bool   `toml:"shares"`
	StripRelationship bool   `toml:"strip_relationship"`
}

type RunDB struct {
	Path    string `toml:"path,omitempty"`
	Enabled bool   `toml:"enabled"`
}

type Telemetry struct {
	SentryDSN string `toml:"sentry_dsn,omitempty" validate:"omitempty,url"`
	Enabled   bool   `toml:"enabled"`
}

var BaseDefaults = Values{
	ConfigSchema: SchemaVersion,
	Normalizer: Normalizer{
		Algorithm:           "levenshtein",
		FuzzyThreshold:      0.85,
		MinDirectCount:      5,
		MinCandidateCount:   10,
		FrequencyMultiplier: 5,
		Workers:             0,
	},
	Aggregate: Aggregate{
		Metric: "hits",
		Period: "month",
	},
}

type Instance struct {
	fs       afero.Fs
	cfgPath  string
	vals     Values
	defaults Values
	mu       syncutil.RWMutex
}

// NewConfig loads the config file from configDir, or from the path in
// SHIPSTATS_CFG when set. A config file with the defaults is written first
// if none exists.
//
//nolint:gocritic // config struct copied for immutability
func NewConfig(fs afero.Fs, configDir string, defaults Values) (*Instance, error) {
	cfgPath := os.Getenv(CfgEnv)
	log.Debug().Msgf("env config path: %s", cfgPath)

	if cfgPath == "" {
		cfgPath = filepath.Join(configDir, CfgFile)
	}

	cfg := Instance{
		fs:       fs,
		cfgPath:  cfgPath,
		vals:     defaults,
		defaults: defaults,
	}

	exists, err := afero.Exists(fs, cfgPath)
	if err != nil {
		return nil, fmt.Errorf("failed to check config file: %w", err)
	}
	if !exists {
		log.Info().Str("path", cfgPath).Msg("saving new default config to disk")

		if err := fs.MkdirAll(filepath.Dir(cfgPath), 0o750); err != nil {
			return nil, fmt.Errorf("failed to create config directory: %w", err)
		}
		if err := cfg.Save(); err != nil {
			return nil, err
		}
	}

	if err := cfg.Load(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Instance) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cfgPath == "" {
		return errors.New("config path not set")
	}

	data, err := afero.ReadFile(c.fs, c.cfgPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	// fields missing from the file keep their defaults
	newVals := c.defaults
	if err := toml.Unmarshal(data, &newVals); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if newVals.ConfigSchema != SchemaVersion {
		log.Error().Msgf(
			"schema version mismatch: got %d, expecting %d",
			newVals.ConfigSchema,
			SchemaVersion,
		)
		return fmt.Errorf("%w: got %d, expecting %d", ErrSchemaMismatch, newVals.ConfigSchema, SchemaVersion)
	}

	if err := validation.DefaultValidator.Validate(&newVals); err != nil {
		return fmt.Errorf("invalid config %s: %w", c.cfgPath, err)
	}

	c.vals = newVals
	return nil
}

func (c *Instance) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cfgPath == "" {
		return errors.New("config path not set")
	}

	c.vals.ConfigSchema = SchemaVersion

	data, err := toml.Marshal(&c.vals)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := afero.WriteFile(c.fs, c.cfgPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func (c *Instance) Path() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cfgPath
}

func (c *Instance) DebugLogging() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.DebugLogging
}

func (c *Instance) SetDebugLogging(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.DebugLogging = enabled
}

func (c *Instance) Normalizer() Normalizer {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Normalizer
}

// SetNormalizer replaces the normalizer settings if they validate.
func (c *Instance) SetNormalizer(n Normalizer) error {
	if err := validation.DefaultValidator.Validate(&n); err != nil {
		return fmt.Errorf("invalid normalizer settings: %w", err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Normalizer = n
	return nil
}

func (c *Instance) Aggregate() Aggregate {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Aggregate
}

// SetAggregate replaces the aggregation settings if they validate.
func (c *Instance) SetAggregate(a Aggregate) error {
	if err := validation.DefaultValidator.Validate(&a); err != nil {
		return fmt.Errorf("invalid aggregate settings: %w", err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Aggregate = a
	return nil
}

func (c *Instance) RunDBEnabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.RunDB.Enabled
}

func (c *Instance) SetRunDBEnabled(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.RunDB.Enabled = enabled
}

// RunDBPath returns the configured run database path, or the default file in
// dataDir when none is set. Relative paths are resolved against dataDir.
func (c *Instance) RunDBPath(dataDir string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	path := c.vals.RunDB.Path
	switch {
	case path == "":
		return filepath.Join(dataDir, RunDBFile)
	case filepath.IsAbs(path):
		return path
	default:
		return filepath.Join(dataDir, path)
	}
}

// TelemetryDSN returns the Sentry DSN and whether error reporting is on. It
// is off unless enabled with a DSN.
func (c *Instance) TelemetryDSN() (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	dsn := c.vals.Telemetry.SentryDSN
	return dsn, c.vals.Telemetry.Enabled && dsn != ""
}
