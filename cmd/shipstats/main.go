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

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/shipstats/shipstats-core/internal/telemetry"
	"github.com/shipstats/shipstats-core/pkg/cli"
	"github.com/shipstats/shipstats-core/pkg/config"
	"github.com/shipstats/shipstats-core/pkg/helpers"
	"github.com/spf13/afero"
)

func main() {
	if err := run(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func run() error {
	flags := cli.SetupFlags(flag.CommandLine)
	flag.Parse()

	if flags.Pre(os.Stdout) {
		return nil
	}
	if err := flags.Validate(); err != nil {
		flag.Usage()
		return err
	}

	fs := afero.NewOsFs()
	dirs := helpers.DefaultDirs()

	cfg, err := cli.Setup(
		fs,
		dirs,
		config.BaseDefaults,
		[]io.Writer{helpers.ConsoleWriter(os.Stderr)},
	)
	if err != nil {
		return err
	}
	defer telemetry.Close()

	defer func() {
		if err := recover(); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Panic: %s\n", err)
			log.Fatal().Msgf("panic: %v", err)
		}
	}()

	if err := flags.Apply(cfg); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pipeline := cli.NewPipeline(fs, cfg, dirs.Data, flags, os.Stdout)

	if *flags.Watch {
		watcher := &cli.Watcher{
			Clock: pipeline.Clock,
			Run: func(ctx context.Context) error {
				_, err := pipeline.Run(ctx)
				return err
			},
			Path:     pipeline.Input,
			Debounce: config.WatchDebounce,
		}
		return watcher.Watch(ctx)
	}

	result, err := pipeline.Run(ctx)
	if err != nil {
		log.Error().Err(err).Msg("aggregation failed")
		return err
	}
	if result.RunID != "" {
		_, _ = fmt.Fprintf(os.Stderr, "Recorded run %s\n", result.RunID)
	}
	return nil
}
