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

package plan

import (
	"fmt"
	"io"

	"github.com/loamdb/loam/sql"
)

// InsertInto appends the rows produced by its source to the destination
// table and produces a single row holding the inserted row count.
type InsertInto struct {
	BinaryNode
	Columns []string
}

// NewInsertInto creates an insert of the source node into the destination
// node. An empty column list targets the full destination schema in order.
func NewInsertInto(dst, src sql.Node, columns []string) *InsertInto {
	return &InsertInto{
		BinaryNode: BinaryNode{Left: dst, Right: src},
		Columns:    columns,
	}
}

// Schema implements the Node interface.
func (*InsertInto) Schema() sql.Schema {
	return sql.Schema{{Name: "updated", Type: sql.Int64, Nullable: false}}
}

// RowIter implements the Node interface.
func (p *InsertInto) RowIter(ctx *sql.Context) (sql.RowIter, error) {
	table, ok := p.Left.(*ResolvedTable)
	if !ok {
		return nil, sql.ErrInsertIntoNotSupported.New(p.Left.String())
	}
	inserter, ok := table.Table.(sql.Inserter)
	if !ok {
		return nil, sql.ErrInsertIntoNotSupported.New(table.Table.Name())
	}

	schema := table.Schema()
	columns := p.Columns
	if len(columns) == 0 {
		columns = make([]string, len(schema))
		for i, col := range schema {
			columns[i] = col.Name
		}
	}
	positions := make([]int, len(columns))
	for i, name := range columns {
		pos := schema.IndexOf(name)
		if pos < 0 {
			return nil, sql.ErrColumnNotFound.New(name)
		}
		positions[i] = pos
	}

	iter, err := p.Right.RowIter(ctx)
	if err != nil {
		return nil, err
	}

	var count int64
	for {
		src, err := iter.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			_ = iter.Close()
			return nil, err
		}
		if len(src) != len(positions) {
			_ = iter.Close()
			return nil, sql.ErrInvalidType.New(fmt.Sprintf("expected %d values, got %d", len(positions), len(src)))
		}

		row := make(sql.Row, len(schema))
		for i, pos := range positions {
			converted, err := schema[pos].Type.Convert(src[i])
			if err != nil {
				_ = iter.Close()
				return nil, err
			}
			row[pos] = converted
		}
		for i, col := range schema {
			if row[i] == nil && !col.Nullable {
				_ = iter.Close()
				return nil, sql.ErrInvalidType.New(fmt.Sprintf("column %s is not nullable", col.Name))
			}
		}

		if err := inserter.Insert(ctx, row); err != nil {
			_ = iter.Close()
			return nil, err
		}
		count++
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}

	return sql.RowsToRowIter(sql.NewRow(count)), nil
}

func (p *InsertInto) String() string {
	return fmt.Sprintf("Insert(%s)\n └─ %s", p.Left, p.Right)
}

// WithChildren implements the Node interface.
func (p *InsertInto) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != 2 {
		return nil, sql.ErrInvalidChildrenNumber.New(2, p, len(children))
	}
	return NewInsertInto(children[0], children[1], p.Columns), nil
}
