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
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const watchedOps = fsnotify.Write | fsnotify.Create | fsnotify.Rename

// Watcher reruns a batch whenever its input file changes. Bursts of events
// are collapsed into one run once the file has been quiet for Debounce, and
// runs never start more often than once per Debounce.
type Watcher struct {
	Clock    clockwork.Clock
	Run      func(context.Context) error
	Path     string
	Debounce time.Duration
}

// Watch runs the batch once and then after every settled change to the
// input file until ctx is cancelled. Failed runs are logged and do not stop
// the watch.
func (w *Watcher) Watch(ctx context.Context) error {
	path, err := filepath.Abs(w.Path)
	if err != nil {
		return fmt.Errorf("failed to resolve watch path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() {
		if closeErr := watcher.Close(); closeErr != nil {
			log.Error().Err(closeErr).Msg("error closing file watcher")
		}
	}()

	// editors often replace the file, so the directory is watched instead
	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	log.Info().Str("path", path).Msg("watching input for changes")

	limiter := rate.NewLimiter(rate.Every(w.Debounce), 1)
	w.runOnce(ctx, limiter)

	var settle clockwork.Timer
	var settled <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if settle != nil {
				settle.Stop()
			}
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path || event.Op&watchedOps == 0 {
				continue
			}
			log.Debug().Str("op", event.Op.String()).Msg("input changed")
			if settle == nil {
				settle = w.Clock.NewTimer(w.Debounce)
			} else {
				settle.Reset(w.Debounce)
			}
			settled = settle.Chan()
		case <-settled:
			settled = nil
			w.runOnce(ctx, limiter)
		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error().Err(watchErr).Msg("error in watcher")
		}
	}
}

// runOnce waits out the rerun cap on w.Clock and then runs the batch.
func (w *Watcher) runOnce(ctx context.Context, limiter *rate.Limiter) {
	now := w.Clock.Now()
	reservation := limiter.ReserveN(now, 1)
	if !reservation.OK() {
		return
	}
	if delay := reservation.DelayFrom(now); delay > 0 {
		select {
		case <-ctx.Done():
			reservation.CancelAt(w.Clock.Now())
			return
		case <-w.Clock.After(delay):
		}
	}

	if err := w.Run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		log.Error().Err(err).Str("path", w.Path).Msg("run failed")
	}
}
