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

package rundb

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shipstats/shipstats-core/pkg/database"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

const defaultListLimit = 50

func sqlMigrateUp(ctx context.Context, db *sql.DB) error {
	if err := database.MigrateUp(ctx, db, migrationFiles, "migrations"); err != nil {
		return fmt.Errorf("failed to run run database migrations: %w", err)
	}
	return nil
}

func sqlVacuum(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, "vacuum;"); err != nil {
		return fmt.Errorf("failed to vacuum database: %w", err)
	}
	return nil
}

func closeStmt(stmt *sql.Stmt) {
	if err := stmt.Close(); err != nil {
		log.Warn().Err(err).Msg("failed to close sql statement")
	}
}

func closeRows(rows *sql.Rows) {
	if err := rows.Close(); err != nil {
		log.Warn().Err(err).Msg("failed to close sql rows")
	}
}

func sqlRecordRun(
	ctx context.Context,
	db *sql.DB,
	run *database.Run,
	cells []database.PivotCell,
	corrections []database.CorrectionEntry,
) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin run transaction: %w", err)
	}
	defer func() {
		if err == nil {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Warn().Err(rbErr).Msg("failed to roll back run transaction")
		}
	}()

	if err = sqlInsertRun(ctx, tx, run); err != nil {
		return err
	}
	if err = sqlInsertCells(ctx, tx, run.ID, cells); err != nil {
		return err
	}
	if err = sqlInsertCorrections(ctx, tx, run.ID, corrections); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run transaction: %w", err)
	}

	log.Debug().
		Str("runID", run.ID).
		Int("cells", len(cells)).
		Int("corrections", len(corrections)).
		Msg("recorded run")
	return nil
}

func sqlInsertRun(ctx context.Context, tx *sql.Tx, run *database.Run) error {
	stmt, err := tx.PrepareContext(ctx, `
		insert into Runs(
			ID, StartedAt, InputPath, Metric, Granularity, Algorithm,
			FuzzyThreshold, MinDirectCount, MinCandidateCount, FrequencyMultiplier,
			PreserveQualifiers, RowCount, PeriodCount, ShipCount
		) values (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare run insert statement: %w", err)
	}
	defer closeStmt(stmt)

	_, err = stmt.ExecContext(ctx,
		run.ID,
		run.StartedAt.Unix(),
		run.InputPath,
		run.Metric,
		run.Granularity,
		run.Algorithm,
		run.FuzzyThreshold,
		run.MinDirectCount,
		run.MinCandidateCount,
		run.FrequencyMultiplier,
		run.PreserveQualifiers,
		run.Rows,
		run.Periods,
		run.Ships,
	)
	if err != nil {
		return fmt.Errorf("failed to execute run insert: %w", err)
	}
	return nil
}

func sqlInsertCells(ctx context.Context, tx *sql.Tx, runID string, cells []database.PivotCell) error {
	if len(cells) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `
		insert into PivotCells(RunID, Period, Ship, Value) values (?, ?, ?, ?);
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare pivot cell insert statement: %w", err)
	}
	defer closeStmt(stmt)

	for _, cell := range cells {
		if _, err := stmt.ExecContext(ctx, runID, cell.Period, cell.Ship, cell.Value); err != nil {
			return fmt.Errorf("failed to insert pivot cell: %w", err)
		}
	}
	return nil
}

func sqlInsertCorrections(
	ctx context.Context,
	tx *sql.Tx,
	runID string,
	corrections []database.CorrectionEntry,
) error {
	if len(corrections) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `
		insert into Corrections(
			RunID, FromBase, ToBase, Method, Similarity, FromCount, ToCount
		) values (?, ?, ?, ?, ?, ?, ?);
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare correction insert statement: %w", err)
	}
	defer closeStmt(stmt)

	for _, c := range corrections {
		_, err := stmt.ExecContext(ctx, runID, c.From, c.To, c.Method, c.Similarity, c.FromCount, c.ToCount)
		if err != nil {
			return fmt.Errorf("failed to insert correction: %w", err)
		}
	}
	return nil
}

const runColumns = `
	ID, StartedAt, InputPath, Metric, Granularity, Algorithm,
	FuzzyThreshold, MinDirectCount, MinCandidateCount, FrequencyMultiplier,
	PreserveQualifiers, RowCount, PeriodCount, ShipCount`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (database.Run, error) {
	var run database.Run
	var startedAt int64
	err := row.Scan(
		&run.ID,
		&startedAt,
		&run.InputPath,
		&run.Metric,
		&run.Granularity,
		&run.Algorithm,
		&run.FuzzyThreshold,
		&run.MinDirectCount,
		&run.MinCandidateCount,
		&run.FrequencyMultiplier,
		&run.PreserveQualifiers,
		&run.Rows,
		&run.Periods,
		&run.Ships,
	)
	if err != nil {
		return run, err //nolint:wrapcheck // wrapped by callers
	}
	run.StartedAt = time.Unix(startedAt, 0).UTC()
	return run, nil
}

func sqlGetRun(ctx context.Context, db *sql.DB, id string) (database.Run, error) {
	row := db.QueryRowContext(ctx, `select `+runColumns+` from Runs where ID = ?;`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return database.Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return database.Run{}, fmt.Errorf("failed to scan run: %w", err)
	}
	return run, nil
}

func sqlListRuns(ctx context.Context, db *sql.DB, limit int) ([]database.Run, error) {
	if limit < 1 {
		limit = defaultListLimit
	}
	list := make([]database.Run, 0)

	rows, err := db.QueryContext(ctx,
		`select `+runColumns+` from Runs order by StartedAt desc, ID asc limit ?;`, limit)
	if err != nil {
		return list, fmt.Errorf("failed to query runs: %w", err)
	}
	defer closeRows(rows)

	for rows.Next() {
		run, scanErr := scanRun(rows)
		if scanErr != nil {
			return list, fmt.Errorf("failed to scan run row: %w", scanErr)
		}
		list = append(list, run)
	}
	if err := rows.Err(); err != nil {
		return list, fmt.Errorf("error iterating run rows: %w", err)
	}
	return list, nil
}

func sqlGetPivotCells(ctx context.Context, db *sql.DB, runID string) ([]database.PivotCell, error) {
	list := make([]database.PivotCell, 0)

	rows, err := db.QueryContext(ctx, `
		select DBID, Period, Ship, Value
		from PivotCells
		where RunID = ?
		order by DBID asc;
	`, runID)
	if err != nil {
		return list, fmt.Errorf("failed to query pivot cells: %w", err)
	}
	defer closeRows(rows)

	for rows.Next() {
		var cell database.PivotCell
		if err := rows.Scan(&cell.DBID, &cell.Period, &cell.Ship, &cell.Value); err != nil {
			return list, fmt.Errorf("failed to scan pivot cell row: %w", err)
		}
		list = append(list, cell)
	}
	if err := rows.Err(); err != nil {
		return list, fmt.Errorf("error iterating pivot cell rows: %w", err)
	}
	return list, nil
}

func sqlGetCorrections(ctx context.Context, db *sql.DB, runID string) ([]database.CorrectionEntry, error) {
	list := make([]database.CorrectionEntry, 0)

	rows, err := db.QueryContext(ctx, `
		select DBID, FromBase, ToBase, Method, Similarity, FromCount, ToCount
		from Corrections
		where RunID = ?
		order by DBID asc;
	`, runID)
	if err != nil {
		return list, fmt.Errorf("failed to query corrections: %w", err)
	}
	defer closeRows(rows)

	for rows.Next() {
		var c database.CorrectionEntry
		err := rows.Scan(&c.DBID, &c.From, &c.To, &c.Method, &c.Similarity, &c.FromCount, &c.ToCount)
		if err != nil {
			return list, fmt.Errorf("failed to scan correction row: %w", err)
		}
		list = append(list, c)
	}
	if err := rows.Err(); err != nil {
		return list, fmt.Errorf("error iterating correction rows: %w", err)
	}
	return list, nil
}

func sqlDeleteRun(ctx context.Context, db *sql.DB, id string) error {
	result, err := db.ExecContext(ctx, `delete from Runs where ID = ?;`, id)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return nil
}
