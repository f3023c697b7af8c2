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
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOverrides(t *testing.T) {
	t.Parallel()

	got, err := ParseOverrides([]string{
		"normalizer.fuzzy_threshold=0.9",
		" aggregate.period = week",
		"normalizer.workers=4",
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]map[string]string{
		"normalizer": {"fuzzy_threshold": "0.9", "workers": "4"},
		"aggregate":  {"period": "week"},
	}, got)

	for _, bad := range []string{"fuzzy_threshold=0.9", "normalizer.fuzzy_threshold", ".x=1", "normalizer.=1"} {
		_, err := ParseOverrides([]string{bad})
		require.Error(t, err, bad)
	}
}

func TestApplyOverrides(t *testing.T) {
	t.Parallel()

	cfg := newTestConfig(t, afero.NewMemMapFs())

	err := cfg.ApplyOverrides(map[string]map[string]string{
		"normalizer": {"fuzzy_threshold": "0.9", "preserve_qualifiers": "true", "workers": "4"},
		"aggregate":  {"period": "week", "top_k": "12"},
	})
	require.NoError(t, err)

	n := cfg.Normalizer()
	assert.InDelta(t, 0.9, n.FuzzyThreshold, 1e-9)
	assert.True(t, n.PreserveQualifiers)
	assert.Equal(t, 4, n.Workers)
	assert.Equal(t, BaseDefaults.Normalizer.MinDirectCount, n.MinDirectCount)

	a := cfg.Aggregate()
	assert.Equal(t, "week", a.Period)
	assert.Equal(t, 12, a.TopK)
}

func TestApplyOverrides_Rejected(t *testing.T) {
	t.Parallel()

	tests := []struct {
		overrides map[string]map[string]string
		name      string
	}{
		{name: "unknown section", overrides: map[string]map[string]string{"output": {"dir": "x"}}},
		{name: "unknown key", overrides: map[string]map[string]string{"normalizer": {"threshhold": "0.9"}}},
		{name: "not a number", overrides: map[string]map[string]string{"normalizer": {"workers": "many"}}},
		{name: "fails validation", overrides: map[string]map[string]string{"aggregate": {"period": "fortnight"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := newTestConfig(t, afero.NewMemMapFs())

			require.Error(t, cfg.ApplyOverrides(tt.overrides))
			assert.Equal(t, BaseDefaults.Normalizer, cfg.Normalizer())
			assert.Equal(t, BaseDefaults.Aggregate, cfg.Aggregate())
		})
	}
}

func TestApplyOverrides_UnknownSectionSentinel(t *testing.T) {
	t.Parallel()

	cfg := newTestConfig(t, afero.NewMemMapFs())
	err := cfg.ApplyOverrides(map[string]map[string]string{"output": {"dir": "x"}})
	assert.True(t, errors.Is(err, ErrUnknownSection))
}
