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
	"reflect"
	"sort"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/shipstats/shipstats-core/pkg/validation"
)

// ErrUnknownSection is returned for an override whose section does not
// exist.
var ErrUnknownSection = errors.New("unknown config section")

// ParseOverrides parses "section.key=value" pairs, as given on the command
// line, into per-section value maps.
func ParseOverrides(pairs []string) (map[string]map[string]string, error) {
	out := make(map[string]map[string]string)
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("override %q must have the form section.key=value", pair)
		}
		section, field, ok := strings.Cut(strings.TrimSpace(key), ".")
		if !ok || section == "" || field == "" {
			return nil, fmt.Errorf("override %q must have the form section.key=value", pair)
		}
		if out[section] == nil {
			out[section] = make(map[string]string)
		}
		out[section][field] = strings.TrimSpace(value)
	}
	return out, nil
}

// ApplyOverrides decodes overrides onto the loaded values. Keys use the toml
// names of the config file. Unknown keys and values that fail validation are
// rejected and leave the config unchanged.
func (c *Instance) ApplyOverrides(overrides map[string]map[string]string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	newVals := c.vals
	targets := map[string]any{
		"normalizer": &newVals.Normalizer,
		"aggregate":  &newVals.Aggregate,
		"run_db":     &newVals.RunDB,
		"telemetry":  &newVals.Telemetry,
	}

	sections := make([]string, 0, len(overrides))
	for section := range overrides {
		sections = append(sections, section)
	}
	sort.Strings(sections)

	for _, section := range sections {
		target, ok := targets[section]
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownSection, section)
		}
		if err := decodeSection(overrides[section], target); err != nil {
			return fmt.Errorf("invalid %s override: %w", section, err)
		}
	}

	if err := validation.DefaultValidator.Validate(&newVals); err != nil {
		return fmt.Errorf("invalid override: %w", err)
	}

	c.vals = newVals
	return nil
}

func decodeSection(raw map[string]string, target any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          "toml",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			trimStringHook,
		),
	})
	if err != nil {
		return fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return fmt.Errorf("failed to decode: %w", err)
	}
	return nil
}

func trimStringHook(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to.Kind() != reflect.String {
		return data, nil
	}
	s, ok := data.(string)
	if !ok {
		return data, nil
	}
	return strings.TrimSpace(s), nil
}
