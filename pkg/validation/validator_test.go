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

package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testSettings struct {
	Algorithm string  `toml:"algorithm" validate:"algorithm"`
	Period    string  `toml:"period" validate:"granularity"`
	Metric    string  `toml:"metric" validate:"metric"`
	DSN       string  `toml:"sentry_dsn,omitempty" validate:"omitempty,url"`
	Threshold float64 `toml:"fuzzy_threshold" validate:"gt=0,lte=1"`
	MinCount  int     `toml:"min_direct_count" validate:"min=1"`
}

func validSettings() testSettings {
	return testSettings{
		Algorithm: "levenshtein",
		Period:    "month",
		Metric:    "hits",
		Threshold: 0.85,
		MinCount:  5,
	}
}

func TestValidate_Valid(t *testing.T) {
	t.Parallel()

	s := validSettings()
	require.NoError(t, DefaultValidator.Validate(&s))

	empty := testSettings{Threshold: 0.5, MinCount: 1}
	require.NoError(t, DefaultValidator.Validate(&empty), "empty names use defaults")
}

func TestValidate_FieldErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		mutate  func(*testSettings)
		name    string
		field   string
		tag     string
		message string
	}{
		{
			name:    "unknown algorithm",
			mutate:  func(s *testSettings) { s.Algorithm = "soundex" },
			field:   "algorithm",
			tag:     "algorithm",
			message: `algorithm: unknown similarity algorithm "soundex"`,
		},
		{
			name:    "unknown period",
			mutate:  func(s *testSettings) { s.Period = "fortnight" },
			field:   "period",
			tag:     "granularity",
			message: `period: unknown period "fortnight"`,
		},
		{
			name:    "unknown metric",
			mutate:  func(s *testSettings) { s.Metric = "reads" },
			field:   "metric",
			tag:     "metric",
			message: `metric: unknown weight metric "reads"`,
		},
		{
			name:    "zero threshold",
			mutate:  func(s *testSettings) { s.Threshold = 0 },
			field:   "fuzzy_threshold",
			tag:     "gt",
			message: "fuzzy_threshold must be greater than 0",
		},
		{
			name:    "threshold above one",
			mutate:  func(s *testSettings) { s.Threshold = 1.2 },
			field:   "fuzzy_threshold",
			tag:     "lte",
			message: "fuzzy_threshold must be less than or equal to 1",
		},
		{
			name:    "min count",
			mutate:  func(s *testSettings) { s.MinCount = 0 },
			field:   "min_direct_count",
			tag:     "min",
			message: "min_direct_count must be at least 1",
		},
		{
			name:    "bad dsn",
			mutate:  func(s *testSettings) { s.DSN = "not a url" },
			field:   "sentry_dsn",
			tag:     "url",
			message: "sentry_dsn must be a valid URL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := validSettings()
			tt.mutate(&s)

			err := DefaultValidator.Validate(&s)
			require.Error(t, err)

			var verr *Error
			require.ErrorAs(t, err, &verr)
			require.Len(t, verr.Fields, 1)
			assert.Equal(t, tt.field, verr.Fields[0].Field)
			assert.Equal(t, tt.tag, verr.Fields[0].Tag)
			assert.Equal(t, tt.message, verr.Error())
			assert.Equal(t, tt.field, verr.Fields[0].Key(), "top-level keys have no section")
			require.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestError_Empty(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "validation failed", (&Error{}).Error())
}

func TestSection(t *testing.T) {
	t.Parallel()

	assert.Empty(t, section("testSettings.algorithm"))
	assert.Equal(t, "normalizer", section("Values.normalizer.algorithm"))
	assert.Equal(t, "a.b", section("Root.a.b.c"))

	fe := FieldError{Section: "aggregate", Field: "period"}
	assert.Equal(t, "aggregate.period", fe.Key())
}
