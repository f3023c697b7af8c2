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

package fixtures

import (
	"time"

	"github.com/shipstats/shipstats-core/pkg/database"
)

// Run store fixtures for testing. Each call returns a fresh copy.

var RunStartedAt = time.Date(2026, time.October, 1, 9, 30, 0, 0, time.UTC)

// Run returns a monthly hits run over two ships.
func Run() database.Run {
	return database.Run{
		ID:                  "run-1",
		StartedAt:           RunStartedAt,
		InputPath:           "works.csv",
		Metric:              "hits",
		Granularity:         "month",
		Algorithm:           "levenshtein",
		FuzzyThreshold:      0.85,
		MinDirectCount:      5,
		MinCandidateCount:   10,
		FrequencyMultiplier: 5,
		PreserveQualifiers:  false,
		Rows:                2,
		Periods:             1,
		Ships:               2,
	}
}

// PivotCells returns the cells of Run.
func PivotCells() []database.PivotCell {
	return []database.PivotCell{
		{Period: "2024-01", Ship: "A/B", Value: 15},
		{Period: "2024-01", Ship: "Zuko & Iroh", Value: 5},
	}
}

// Corrections returns the corrections of Run.
func Corrections() []database.CorrectionEntry {
	return []database.CorrectionEntry{
		{From: "Katarra", To: "Katara", Method: "fuzzy", Similarity: 0.857, FromCount: 1, ToCount: 43},
	}
}
