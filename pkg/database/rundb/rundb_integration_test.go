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
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/shipstats/shipstats-core/pkg/database"
	"github.com/shipstats/shipstats-core/pkg/testing/fixtures"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTempRunDB(t *testing.T, clock clockwork.Clock) *RunDB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "runs.db")
	runDB, err := Open(context.Background(), afero.NewOsFs(), path, clock)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = runDB.Close()
	})
	return runDB
}

func TestRunDB_RoundTrip_Integration(t *testing.T) {
	clock := clockwork.NewFakeClockAt(fixtures.RunStartedAt)
	runDB := openTempRunDB(t, clock)

	run := fixtures.Run()
	run.ID = ""
	run.StartedAt = time.Time{}
	cells := fixtures.PivotCells()
	corrections := fixtures.Corrections()

	id, err := runDB.RecordRun(&run, cells, corrections)
	require.NoError(t, err)

	got, err := runDB.GetRun(id)
	require.NoError(t, err)
	assert.Equal(t, run, got)

	gotCells, err := runDB.GetPivotCells(id)
	require.NoError(t, err)
	require.Len(t, gotCells, 2)
	assert.Equal(t, "Zuko & Iroh", gotCells[1].Ship)
	assert.InDelta(t, 5.0, gotCells[1].Value, 0)

	gotCorrections, err := runDB.GetCorrections(id)
	require.NoError(t, err)
	require.Len(t, gotCorrections, 1)
	assert.Equal(t, "Katara", gotCorrections[0].To)
}

func TestRunDB_ListRunsNewestFirst_Integration(t *testing.T) {
	clock := clockwork.NewFakeClockAt(fixtures.RunStartedAt)
	runDB := openTempRunDB(t, clock)

	first := fixtures.Run()
	first.ID = ""
	first.StartedAt = time.Time{}
	firstID, err := runDB.RecordRun(&first, nil, nil)
	require.NoError(t, err)

	clock.Advance(time.Hour)

	second := fixtures.Run()
	second.ID = ""
	second.StartedAt = time.Time{}
	secondID, err := runDB.RecordRun(&second, nil, nil)
	require.NoError(t, err)

	runs, err := runDB.ListRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, secondID, runs[0].ID)
	assert.Equal(t, firstID, runs[1].ID)
}

func TestRunDB_DeleteCascades_Integration(t *testing.T) {
	runDB := openTempRunDB(t, clockwork.NewFakeClockAt(fixtures.RunStartedAt))

	run := fixtures.Run()
	id, err := runDB.RecordRun(&run, []database.PivotCell{{Period: "2024-01", Ship: "A/B", Value: 1}}, nil)
	require.NoError(t, err)

	require.NoError(t, runDB.DeleteRun(id))

	_, err = runDB.GetRun(id)
	require.ErrorIs(t, err, ErrRunNotFound)

	cells, err := runDB.GetPivotCells(id)
	require.NoError(t, err)
	assert.Empty(t, cells)
}

func TestRunDB_SchemaVersion_Integration(t *testing.T) {
	runDB := openTempRunDB(t, clockwork.NewRealClock())

	version, err := database.SchemaVersion(context.Background(), runDB.UnsafeGetSQLDb(), migrationFiles)
	require.NoError(t, err)
	assert.Equal(t, int64(20261001120000), version)

	require.NoError(t, runDB.Vacuum())
}
