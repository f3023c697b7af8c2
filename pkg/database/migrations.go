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

package database

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog/log"
	"github.com/shipstats/shipstats-core/pkg/helpers/syncutil"
)

const migrationDialect = "sqlite3"

// goose keeps its filesystem, dialect and logger in package globals, so
// every migration runs under this lock.
var migrationMutex syncutil.Mutex

// gooseLogger sends goose output through zerolog.
type gooseLogger struct{}

func (*gooseLogger) Printf(format string, v ...any) {
	log.Debug().Msgf(format, v...)
}

func (*gooseLogger) Fatalf(format string, v ...any) {
	log.Fatal().Msgf(format, v...)
}

func withGoose(migrationFiles fs.FS, fn func() error) error {
	migrationMutex.Lock()
	defer migrationMutex.Unlock()

	goose.SetLogger(&gooseLogger{})
	goose.SetBaseFS(migrationFiles)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect(migrationDialect); err != nil {
		return fmt.Errorf("error setting goose dialect: %w", err)
	}
	return fn()
}

// MigrateUp applies every pending migration in migrationDir of
// migrationFiles.
func MigrateUp(ctx context.Context, db *sql.DB, migrationFiles fs.FS, migrationDir string) error {
	return withGoose(migrationFiles, func() error {
		log.Debug().Str("migrationDir", migrationDir).Msg("running migrations up")
		if err := goose.UpContext(ctx, db, migrationDir); err != nil {
			return fmt.Errorf("error running migrations up: %w", err)
		}
		return nil
	})
}

// MigrateReset rolls back every applied migration.
func MigrateReset(ctx context.Context, db *sql.DB, migrationFiles fs.FS, migrationDir string) error {
	return withGoose(migrationFiles, func() error {
		if err := goose.ResetContext(ctx, db, migrationDir); err != nil {
			return fmt.Errorf("error resetting migrations: %w", err)
		}
		return nil
	})
}

// SchemaVersion returns the latest applied migration version.
func SchemaVersion(ctx context.Context, db *sql.DB, migrationFiles fs.FS) (int64, error) {
	var version int64
	err := withGoose(migrationFiles, func() error {
		v, err := goose.GetDBVersionContext(ctx, db)
		if err != nil {
			return fmt.Errorf("error reading schema version: %w", err)
		}
		version = v
		return nil
	})
	return version, err
}
