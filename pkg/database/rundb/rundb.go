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

// Package rundb persists aggregation runs, their pivot cells and their
// corrections in SQLite.
package rundb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shipstats/shipstats-core/pkg/database"
	"github.com/spf13/afero"
)

var (
	ErrNullSQL     = errors.New("RunDB is not connected")
	ErrRunNotFound = errors.New("run not found")
)

const sqliteConnParams = "?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000&_foreign_keys=on"

// RunDB is the SQLite implementation of database.RunDBI.
type RunDB struct {
	sql   *sql.DB
	ctx   context.Context
	clock clockwork.Clock
	path  string
}

var _ database.RunDBI = (*RunDB)(nil)

// Open opens or creates the database at path and applies migrations. The
// parent directory is created on fs, which must be backed by the real
// filesystem for SQLite to see it.
func Open(ctx context.Context, fs afero.Fs, path string, clock clockwork.Clock) (*RunDB, error) {
	if err := fs.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create directory for database: %w", err)
	}

	sqlInstance, err := sql.Open("sqlite3", path+sqliteConnParams)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db := &RunDB{sql: sqlInstance, ctx: ctx, clock: clock, path: path}
	if err := db.MigrateUp(); err != nil {
		_ = sqlInstance.Close()
		return nil, err
	}
	return db, nil
}

// NewWithSQL wraps an existing connection without running migrations.
func NewWithSQL(ctx context.Context, sqlDB *sql.DB, clock clockwork.Clock) *RunDB {
	return &RunDB{sql: sqlDB, ctx: ctx, clock: clock}
}

func (db *RunDB) GetDBPath() string {
	return db.path
}

func (db *RunDB) UnsafeGetSQLDb() *sql.DB {
	return db.sql
}

func (db *RunDB) MigrateUp() error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlMigrateUp(db.ctx, db.sql)
}

func (db *RunDB) Vacuum() error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlVacuum(db.ctx, db.sql)
}

func (db *RunDB) Close() error {
	if db.sql == nil {
		return nil
	}
	if err := db.sql.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}

// RecordRun stores run with its cells and corrections in one transaction.
// A new ID is assigned and StartedAt is taken from the clock when run does
// not carry them. The run ID is returned.
func (db *RunDB) RecordRun(
	run *database.Run,
	cells []database.PivotCell,
	corrections []database.CorrectionEntry,
) (string, error) {
	if db.sql == nil {
		return "", ErrNullSQL
	}
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = db.clock.Now()
	}
	if err := sqlRecordRun(db.ctx, db.sql, run, cells, corrections); err != nil {
		return "", err
	}
	return run.ID, nil
}

func (db *RunDB) GetRun(id string) (database.Run, error) {
	if db.sql == nil {
		return database.Run{}, ErrNullSQL
	}
	return sqlGetRun(db.ctx, db.sql, id)
}

// ListRuns returns up to limit runs, newest first.
func (db *RunDB) ListRuns(limit int) ([]database.Run, error) {
	if db.sql == nil {
		return nil, ErrNullSQL
	}
	return sqlListRuns(db.ctx, db.sql, limit)
}

func (db *RunDB) GetPivotCells(runID string) ([]database.PivotCell, error) {
	if db.sql == nil {
		return nil, ErrNullSQL
	}
	return sqlGetPivotCells(db.ctx, db.sql, runID)
}

func (db *RunDB) GetCorrections(runID string) ([]database.CorrectionEntry, error) {
	if db.sql == nil {
		return nil, ErrNullSQL
	}
	return sqlGetCorrections(db.ctx, db.sql, runID)
}

// DeleteRun removes a run and, by cascade, its cells and corrections.
func (db *RunDB) DeleteRun(id string) error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlDeleteRun(db.ctx, db.sql, id)
}
