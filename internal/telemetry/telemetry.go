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

// Package telemetry reports errors to Sentry when the user opts in. Home
// directory names are redacted from every event, and runs are tagged with
// the options they used so reports can be grouped without seeing the data.
package telemetry

import (
	"fmt"
	"path/filepath"
	"regexp"
	"runtime"
	"sync"

	"github.com/getsentry/sentry-go"
	sentryzerolog "github.com/getsentry/sentry-go/zerolog"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shipstats/shipstats-core/pkg/config"
	"github.com/shipstats/shipstats-core/pkg/helpers"
)

type redaction struct {
	re          *regexp.Regexp
	replacement string
}

// home directories on linux, macOS and windows
var redactions = []redaction{
	{regexp.MustCompile(`(?i)/home/[^/]+/`), "/home/<user>/"},
	{regexp.MustCompile(`(?i)/Users/[^/]+/`), "/Users/<user>/"},
	{regexp.MustCompile(`(?i)[a-z]:\\Users\\[^\\]+\\`), `C:\Users\<user>\`},
}

var (
	mu        sync.Mutex
	enabled   bool
	logWriter *sentryzerolog.Writer
	closeOnce sync.Once
)

// RunContext describes the batch being processed. The input is reported by
// file name only.
type RunContext struct {
	Input       string
	Metric      string
	Granularity string
	Algorithm   string
	Workers     int
}

// Init starts error reporting to dsn and forwards error-level log events to
// it. An empty dsn leaves reporting off.
func Init(dsn, appVersion string) error {
	if dsn == "" {
		log.Debug().Msg("error reporting disabled")
		return nil
	}

	mu.Lock()
	defer mu.Unlock()

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		Release:          config.AppName + "@" + appVersion,
		Environment:      "cli",
		AttachStacktrace: true,
		SendDefaultPII:   false,
		BeforeSend: func(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
			return sanitizeEvent(event)
		},
	})
	if err != nil {
		return fmt.Errorf("failed to initialize sentry: %w", err)
	}

	sentry.ConfigureScope(func(scope *sentry.Scope) {
		scope.SetTag("os", runtime.GOOS)
		scope.SetTag("arch", runtime.GOARCH)
	})

	logWriter, err = sentryzerolog.NewWithHub(sentry.CurrentHub(), sentryzerolog.Options{
		Levels:       []zerolog.Level{zerolog.ErrorLevel, zerolog.FatalLevel, zerolog.PanicLevel},
		FlushTimeout: config.TelemetryFlush,
	})
	if err != nil {
		return fmt.Errorf("failed to create sentry log writer: %w", err)
	}

	log.Logger = log.Output(zerolog.MultiLevelWriter(helpers.LogWriter(), logWriter)).
		With().Timestamp().Caller().Logger()

	enabled = true
	log.Info().Msg("error reporting enabled")
	return nil
}

// SetRunContext tags later reports with the run's options. It does nothing
// while reporting is off.
//
//nolint:gocritic // run context copied for immutability
func SetRunContext(rc RunContext) {
	if !Enabled() {
		return
	}
	sentry.ConfigureScope(func(scope *sentry.Scope) {
		scope.SetTags(runTags(rc))
	})
}

//nolint:gocritic // run context copied for immutability
func runTags(rc RunContext) map[string]string {
	tags := map[string]string{
		"metric":      rc.Metric,
		"granularity": rc.Granularity,
		"algorithm":   rc.Algorithm,
		"workers":     fmt.Sprint(rc.Workers),
	}
	if rc.Input != "" {
		tags["input"] = filepath.Base(rc.Input)
	}
	return tags
}

// Close flushes pending reports. Calling it more than once is harmless.
func Close() {
	if !Enabled() {
		return
	}
	closeOnce.Do(func() {
		_ = logWriter.Close()
		sentry.Flush(config.TelemetryFlush)
	})
}

func Enabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return enabled
}

func sanitizeEvent(event *sentry.Event) *sentry.Event {
	event.ServerName = ""
	event.User = sentry.User{}
	event.Message = sanitizePath(event.Message)

	for i := range event.Exception {
		exc := &event.Exception[i]
		exc.Value = sanitizePath(exc.Value)
		if exc.Stacktrace == nil {
			continue
		}
		for j := range exc.Stacktrace.Frames {
			frame := &exc.Stacktrace.Frames[j]
			frame.AbsPath = sanitizePath(frame.AbsPath)
			frame.Filename = sanitizePath(frame.Filename)
		}
	}

	for _, crumb := range event.Breadcrumbs {
		crumb.Message = sanitizePath(crumb.Message)
	}
	for k, v := range event.Extra {
		if s, ok := v.(string); ok {
			event.Extra[k] = sanitizePath(s)
		}
	}
	for k, v := range event.Tags {
		event.Tags[k] = sanitizePath(v)
	}

	return event
}

func sanitizePath(s string) string {
	for _, r := range redactions {
		s = r.re.ReplaceAllLiteralString(s, r.replacement)
	}
	return s
}
