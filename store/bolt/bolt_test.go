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

package bolt

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/loamdb/loam/sql"
)

var testSchema = sql.Schema{
	{Name: "id", Type: sql.Int64, PrimaryKey: true},
	{Name: "name", Type: sql.Text, Nullable: true},
}

func testDatabase(t *testing.T) *Database {
	t.Helper()
	db, err := NewDatabase("db", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, db.Close())
	})
	return db
}

func testTable(t *testing.T, db *Database) sql.Table {
	t.Helper()
	ctx := sql.NewEmptyContext()
	require.NoError(t, db.CreateTable(ctx, "people", testSchema))
	table, ok := db.Tables()["people"]
	require.True(t, ok)
	return table
}

func collect(t *testing.T, iter sql.RowIter) []sql.Row {
	t.Helper()
	rows, err := sql.RowIterToRows(iter)
	require.NoError(t, err)
	return rows
}

func TestCreateTableRequiresIntegerPK(t *testing.T) {
	require := require.New(t)

	db := testDatabase(t)
	ctx := sql.NewEmptyContext()

	err := db.CreateTable(ctx, "nopk", sql.Schema{{Name: "x", Type: sql.Int64}})
	require.Error(err)

	err = db.CreateTable(ctx, "textpk", sql.Schema{{Name: "x", Type: sql.Text, PrimaryKey: true}})
	require.Error(err)
}

func TestInsertAndScanOrdered(t *testing.T) {
	require := require.New(t)

	db := testDatabase(t)
	table := testTable(t, db)
	ctx := sql.NewEmptyContext()

	inserter := table.(sql.Inserter)
	for _, row := range []sql.Row{
		sql.NewRow(int64(3), "c"),
		sql.NewRow(int64(-1), "neg"),
		sql.NewRow(int64(1), "a"),
	} {
		require.NoError(inserter.Insert(ctx, row))
	}

	iter, err := table.RowIter(ctx)
	require.NoError(err)

	// rows come back in primary key order, negatives first
	require.Equal([]sql.Row{
		sql.NewRow(int64(-1), "neg"),
		sql.NewRow(int64(1), "a"),
		sql.NewRow(int64(3), "c"),
	}, collect(t, iter))
}

func TestInsertDuplicatePK(t *testing.T) {
	require := require.New(t)

	db := testDatabase(t)
	table := testTable(t, db)
	ctx := sql.NewEmptyContext()

	inserter := table.(sql.Inserter)
	require.NoError(inserter.Insert(ctx, sql.NewRow(int64(1), "a")))
	err := inserter.Insert(ctx, sql.NewRow(int64(1), "b"))
	require.Error(err)
	require.True(sql.ErrDuplicatePrimaryKey.Is(err))
}

func TestRangedScan(t *testing.T) {
	require := require.New(t)

	db := testDatabase(t)
	table := testTable(t, db)
	ctx := sql.NewEmptyContext()

	inserter := table.(sql.Inserter)
	for i := int64(0); i < 10; i++ {
		require.NoError(inserter.Insert(ctx, sql.NewRow(i, "p")))
	}

	ranged := table.(sql.RangedTable).WithScanRanges([]sql.ConstantRange{
		sql.ScopeRange(sql.Int64, sql.Excluded(int64(1)), sql.Included(int64(3))),
		sql.EqRange(sql.Int64, int64(7)),
	})
	iter, err := ranged.RowIter(ctx)
	require.NoError(err)
	require.Equal([]sql.Row{
		sql.NewRow(int64(2), "p"),
		sql.NewRow(int64(3), "p"),
		sql.NewRow(int64(7), "p"),
	}, collect(t, iter))

	// a NotEq range degrades to a filtered scan
	ranged = table.(sql.RangedTable).WithScanRanges([]sql.ConstantRange{
		sql.NotEqRange(sql.Int64, int64(5)),
	})
	iter, err = ranged.RowIter(ctx)
	require.NoError(err)
	require.Len(collect(t, iter), 9)
}

func TestSchemaPersists(t *testing.T) {
	require := require.New(t)

	path := filepath.Join(t.TempDir(), "persist.db")
	db, err := NewDatabase("db", path)
	require.NoError(err)

	ctx := sql.NewEmptyContext()
	require.NoError(db.CreateTable(ctx, "people", testSchema))
	table := db.Tables()["people"]
	require.NoError(table.(sql.Inserter).Insert(ctx, sql.NewRow(int64(1), "a")))
	require.NoError(db.Close())

	db, err = NewDatabase("db", path)
	require.NoError(err)
	defer func() {
		require.NoError(db.Close())
	}()

	table, ok := db.Tables()["people"]
	require.True(ok)
	require.Equal(len(testSchema), len(table.Schema()))
	require.True(table.Schema()[0].PrimaryKey)

	iter, err := table.RowIter(ctx)
	require.NoError(err)
	require.Equal([]sql.Row{sql.NewRow(int64(1), "a")}, collect(t, iter))
}
