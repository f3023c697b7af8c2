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

// Package sqlmock provides SQL mocking helpers for database tests. It lives
// outside the database packages so they can import it from their tests.
package sqlmock

import (
	"database/sql"
	"database/sql/driver"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

// NewSQLMock returns a sqlmock connection that matches queries as regular
// expressions. The connection is closed when the test ends.
func NewSQLMock(tb testing.TB) (*sql.DB, sqlmock.Sqlmock) {
	tb.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		tb.Fatalf("failed to create sqlmock: %v", err)
	}
	tb.Cleanup(func() {
		_ = db.Close()
	})
	return db, mock
}

// AnyUnixTime matches any positive Unix timestamp argument.
type AnyUnixTime struct{}

func (AnyUnixTime) Match(v driver.Value) bool {
	ts, ok := v.(int64)
	return ok && ts > 0
}

// AnyString matches any non-empty string argument, such as a generated ID.
type AnyString struct{}

func (AnyString) Match(v driver.Value) bool {
	s, ok := v.(string)
	return ok && s != ""
}
