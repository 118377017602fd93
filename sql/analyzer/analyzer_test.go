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

package analyzer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/loamdb/loam/memory"
	"github.com/loamdb/loam/sql"
	"github.com/loamdb/loam/sql/expression"
	"github.com/loamdb/loam/sql/plan"
)

func testCatalog(t *testing.T) (*sql.Catalog, *memory.Table) {
	t.Helper()

	table := memory.NewTable("people", sql.Schema{
		{Name: "id", Type: sql.Int32, PrimaryKey: true},
		{Name: "name", Type: sql.Text, Nullable: true},
	})
	db := memory.NewDatabase("db")
	db.AddTable(table)

	catalog := sql.NewCatalog()
	catalog.AddDatabase(db)
	return catalog, table
}

func TestResolveTables(t *testing.T) {
	require := require.New(t)

	catalog, table := testCatalog(t)
	a := NewDefault(catalog)

	node, err := a.Analyze(sql.NewEmptyContext(),
		plan.NewProject(
			[]sql.Expression{expression.NewStar()},
			plan.NewUnresolvedTable("people", ""),
		))
	require.NoError(err)
	require.True(node.Resolved())

	project, ok := node.(*plan.Project)
	require.True(ok)
	resolved, ok := project.Child.(*plan.ResolvedTable)
	require.True(ok)
	require.Equal(table.Name(), resolved.Table.Name())
}

func TestResolveColumnsAndStars(t *testing.T) {
	require := require.New(t)

	catalog, _ := testCatalog(t)
	a := NewDefault(catalog)

	node, err := a.Analyze(sql.NewEmptyContext(),
		plan.NewProject(
			[]sql.Expression{expression.NewStar()},
			plan.NewFilter(
				expression.NewBinary(expression.Eq,
					expression.NewUnresolvedColumn("NAME"),
					expression.NewLiteral("ada", sql.Text),
				),
				plan.NewUnresolvedTable("people", ""),
			),
		))
	require.NoError(err)
	require.True(node.Resolved())

	project := node.(*plan.Project)
	require.Len(project.Projections, 2)

	var filter *plan.Filter
	for n := sql.Node(project); n != nil; {
		if f, ok := n.(*plan.Filter); ok {
			filter = f
			break
		}
		children := n.Children()
		if len(children) == 0 {
			break
		}
		n = children[0]
	}
	require.NotNil(filter)

	var fields []*expression.GetField
	sql.Inspect(filter.Expression, func(e sql.Expression) bool {
		if gf, ok := e.(*expression.GetField); ok {
			fields = append(fields, gf)
		}
		return true
	})
	require.Len(fields, 1)
	require.Equal(1, fields[0].Index())
	require.Equal("name", fields[0].Name())
}

func TestUnknownColumn(t *testing.T) {
	catalog, _ := testCatalog(t)
	a := NewDefault(catalog)

	_, err := a.Analyze(sql.NewEmptyContext(),
		plan.NewProject(
			[]sql.Expression{expression.NewUnresolvedColumn("nope")},
			plan.NewUnresolvedTable("people", ""),
		))
	require.Error(t, err)
	require.True(t, sql.ErrColumnNotFound.Is(err))
}

func TestSimplifyFilterRule(t *testing.T) {
	require := require.New(t)

	catalog, _ := testCatalog(t)
	a := NewDefault(catalog)

	// id - 1 >= 2 must end up with the bare column on the left
	node, err := a.Analyze(sql.NewEmptyContext(),
		plan.NewProject(
			[]sql.Expression{expression.NewStar()},
			plan.NewFilter(
				expression.NewBinary(expression.GtEq,
					expression.NewBinary(expression.Minus,
						expression.NewUnresolvedColumn("id"),
						expression.NewLiteral(int32(1), sql.Int32),
					),
					expression.NewLiteral(int32(2), sql.Int32),
				),
				plan.NewUnresolvedTable("people", ""),
			),
		))
	require.NoError(err)

	var filter *plan.Filter
	_, _ = plan.TransformUp(node, func(n sql.Node) (sql.Node, error) {
		if f, ok := n.(*plan.Filter); ok {
			filter = f
		}
		return n, nil
	})
	require.NotNil(filter)

	top, ok := filter.Expression.(*expression.BinaryExpr)
	require.True(ok)
	_, ok = top.Left.(*expression.GetField)
	require.True(ok)
}

func TestPushdownRanges(t *testing.T) {
	require := require.New(t)

	catalog, table := testCatalog(t)
	ctx := sql.NewEmptyContext()
	for i := int32(0); i < 10; i++ {
		require.NoError(table.Insert(ctx, sql.NewRow(i, "p")))
	}

	a := NewDefault(catalog)
	node, err := a.Analyze(ctx,
		plan.NewProject(
			[]sql.Expression{expression.NewStar()},
			plan.NewFilter(
				expression.NewBinary(expression.And,
					expression.NewBinary(expression.Gt,
						expression.NewUnresolvedColumn("id"),
						expression.NewLiteral(int32(2), sql.Int32),
					),
					expression.NewBinary(expression.LtEq,
						expression.NewUnresolvedColumn("id"),
						expression.NewLiteral(int32(5), sql.Int32),
					),
				),
				plan.NewUnresolvedTable("people", ""),
			),
		))
	require.NoError(err)

	iter, err := node.RowIter(ctx)
	require.NoError(err)
	rows, err := sql.RowIterToRows(iter)
	require.NoError(err)

	require.Equal([]sql.Row{
		sql.NewRow(int32(3), "p"),
		sql.NewRow(int32(4), "p"),
		sql.NewRow(int32(5), "p"),
	}, rows)
}
