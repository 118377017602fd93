// Copyright 2024 the Loam authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package memory

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/loamdb/loam/sql"
)

func TestTableInsertAndScan(t *testing.T) {
	require := require.New(t)

	table := NewTable("t", sql.Schema{
		{Name: "id", Type: sql.Int32, PrimaryKey: true},
		{Name: "name", Type: sql.Text, Nullable: true},
	})

	ctx := sql.NewEmptyContext()
	require.NoError(table.Insert(ctx, sql.NewRow(int32(1), "a")))
	require.NoError(table.Insert(ctx, sql.NewRow(int32(2), nil)))

	iter, err := table.RowIter(ctx)
	require.NoError(err)
	rows, err := sql.RowIterToRows(iter)
	require.NoError(err)
	require.Equal([]sql.Row{
		sql.NewRow(int32(1), "a"),
		sql.NewRow(int32(2), nil),
	}, rows)
}

func TestTableRangedScan(t *testing.T) {
	require := require.New(t)

	table := NewTable("t", sql.Schema{
		{Name: "id", Type: sql.Int32, PrimaryKey: true},
	})
	ctx := sql.NewEmptyContext()
	for i := int32(0); i < 10; i++ {
		require.NoError(table.Insert(ctx, sql.NewRow(i)))
	}

	ranged := table.WithScanRanges([]sql.ConstantRange{
		sql.ScopeRange(sql.Int32, sql.Excluded(int32(1)), sql.Included(int32(3))),
		sql.EqRange(sql.Int32, int32(7)),
	})

	iter, err := ranged.RowIter(ctx)
	require.NoError(err)
	rows, err := sql.RowIterToRows(iter)
	require.NoError(err)
	require.Equal([]sql.Row{
		sql.NewRow(int32(2)),
		sql.NewRow(int32(3)),
		sql.NewRow(int32(7)),
	}, rows)
}

func TestCreateTable(t *testing.T) {
	require := require.New(t)

	db := NewDatabase("db")
	ctx := sql.NewEmptyContext()
	schema := sql.Schema{{Name: "id", Type: sql.Int64, PrimaryKey: true}}

	require.NoError(db.CreateTable(ctx, "t", schema))
	err := db.CreateTable(ctx, "t", schema)
	require.Error(err)
	require.True(sql.ErrTableAlreadyExists.Is(err))

	_, ok := db.Tables()["t"]
	require.True(ok)
}
