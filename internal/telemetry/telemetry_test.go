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

package telemetry

import (
	"testing"

	"github.com/getsentry/sentry-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty string", input: "", expected: ""},
		{name: "no username in path", input: "/srv/data/works.csv", expected: "/srv/data/works.csv"},
		{
			name:     "linux home path",
			input:    "/home/sam/exports/arcane/works.csv",
			expected: "/home/<user>/exports/arcane/works.csv",
		},
		{
			name:     "linux home path mixed case",
			input:    "/Home/Sam/exports/works.csv",
			expected: "/home/<user>/exports/works.csv",
		},
		{
			name:     "macos users path",
			input:    "/Users/sam/Library/Application Support/shipstats/shipstats.toml",
			expected: "/Users/<user>/Library/Application Support/shipstats/shipstats.toml",
		},
		{
			name:     "windows path",
			input:    "C:\\Users\\sam\\AppData\\Local\\shipstats\\runs.db",
			expected: "C:\\Users\\<user>\\AppData\\Local\\shipstats\\runs.db",
		},
		{
			name:     "path inside message",
			input:    "failed to open works file: open /home/sam/works.csv: no such file",
			expected: "failed to open works file: open /home/<user>/works.csv: no such file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, sanitizePath(tt.input))
		})
	}
}

func TestSanitizeEvent(t *testing.T) {
	t.Parallel()

	event := &sentry.Event{
		ServerName: "laptop",
		Message:    "read /home/sam/works.csv",
		Extra:      map[string]any{"input": "/Users/sam/works.csv", "rows": 3},
		Tags:       map[string]string{"config": "/home/sam/.config/shipstats/shipstats.toml"},
		User:       sentry.User{Username: "sam"},
		Breadcrumbs: []*sentry.Breadcrumb{
			{Message: "loaded /home/sam/works.csv"},
		},
		Exception: []sentry.Exception{{
			Value: "open /home/sam/works.csv",
			Stacktrace: &sentry.Stacktrace{Frames: []sentry.Frame{{
				AbsPath:  "/home/sam/src/shipstats/pkg/cli/run.go",
				Filename: "pkg/cli/run.go",
			}}},
		}},
	}

	got := sanitizeEvent(event)
	require.NotNil(t, got)

	assert.Empty(t, got.ServerName)
	assert.Empty(t, got.User.Username)
	assert.Equal(t, "/home/<user>/.config/shipstats/shipstats.toml", got.Tags["config"])
	assert.Equal(t, "loaded /home/<user>/works.csv", got.Breadcrumbs[0].Message)
	assert.Equal(t, "read /home/<user>/works.csv", got.Message)
	assert.Equal(t, "/Users/<user>/works.csv", got.Extra["input"])
	assert.Equal(t, 3, got.Extra["rows"])
	assert.Equal(t, "open /home/<user>/works.csv", got.Exception[0].Value)
	assert.Equal(t, "/home/<user>/src/shipstats/pkg/cli/run.go", got.Exception[0].Stacktrace.Frames[0].AbsPath)
}

func TestInit_EmptyDSNStaysDisabled(t *testing.T) {
	t.Parallel()

	require.NoError(t, Init("", "test"))
	assert.False(t, Enabled())
	Close()
}

func TestRunTags(t *testing.T) {
	t.Parallel()

	tags := runTags(RunContext{
		Input:       "/home/sam/exports/arcane works.csv",
		Metric:      "kudos",
		Granularity: "week",
		Algorithm:   "jaro-winkler",
		Workers:     4,
	})
	assert.Equal(t, map[string]string{
		"input":       "arcane works.csv",
		"metric":      "kudos",
		"granularity": "week",
		"algorithm":   "jaro-winkler",
		"workers":     "4",
	}, tags)

	_, ok := runTags(RunContext{})["input"]
	assert.False(t, ok, "no input tag without an input")
}

func TestSetRunContext_DisabledIsNoop(t *testing.T) {
	t.Parallel()
	assert.NotPanics(t, func() {
		SetRunContext(RunContext{Input: "works.csv"})
	})
}
