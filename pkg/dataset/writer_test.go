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

package dataset

import (
	"bytes"
	"testing"
	"time"

	"github.com/shipstats/shipstats-core/pkg/aggregate"
	"github.com/shipstats/shipstats-core/pkg/ships/matcher"
	"github.com/shipstats/shipstats-core/pkg/ships/normalizer"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pivotFixture() *aggregate.PivotTable {
	return &aggregate.PivotTable{
		Granularity: aggregate.GranularityMonth,
		Periods: []aggregate.Period{
			aggregate.GranularityMonth.PeriodOf(time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)),
			aggregate.GranularityMonth.PeriodOf(time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)),
		},
		Ships:     []string{"A/B", "Zuko & Iroh"},
		Values:    [][]float64{{15, 5}, {0, 2.5}},
		RowTotals: []float64{15, 2.5},
	}
}

func TestEncodePivot(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, EncodePivot(&buf, pivotFixture()))

	assert.Equal(t, "period,A/B,Zuko & Iroh\n2024-01,15,5\n2024-02,0,2.5\n", buf.String())
}

func TestEncodeCorrections(t *testing.T) {
	t.Parallel()

	corrections := []normalizer.Correction{
		{From: "Katarra", To: "Katara", Method: matcher.MethodFuzzy, Similarity: 0.857142, FromCount: 1, ToCount: 43},
		{From: "katara", To: "Katara", Method: matcher.MethodExactKey, FromCount: 2, ToCount: 43},
	}

	var buf bytes.Buffer
	require.NoError(t, EncodeCorrections(&buf, corrections))

	assert.Equal(t,
		"from,to,method,similarity,from_count,to_count\n"+
			"Katarra,Katara,fuzzy,0.8571,1,43\n"+
			"katara,Katara,exact-key,,2,43\n",
		buf.String())
}

func TestEncodeCorrections_Empty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, EncodeCorrections(&buf, nil))

	assert.Equal(t, "from,to,method,similarity,from_count,to_count\n", buf.String())
}

func TestWriter_WritePivotCreatesDirectories(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, NewWriter(fs).WritePivot("/out/reports/monthly.csv", pivotFixture()))

	data, err := afero.ReadFile(fs, "/out/reports/monthly.csv")
	require.NoError(t, err)
	assert.Contains(t, string(data), "2024-02,0,2.5")
}

func TestWriter_WriteCorrections(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	corrections := []normalizer.Correction{
		{From: "katara", To: "Katara", Method: matcher.MethodExactKey, FromCount: 2, ToCount: 43},
	}
	require.NoError(t, NewWriter(fs).WriteCorrections("corrections.csv", corrections))

	data, err := afero.ReadFile(fs, "corrections.csv")
	require.NoError(t, err)
	assert.Contains(t, string(data), "katara,Katara,exact-key,,2,43")
}

func TestWriter_ReadOnlyFilesystem(t *testing.T) {
	t.Parallel()

	fs := afero.NewReadOnlyFs(afero.NewMemMapFs())
	err := NewWriter(fs).WritePivot("/out/monthly.csv", pivotFixture())
	require.Error(t, err)
}
