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
	"sync"

	"github.com/loamdb/loam/sql"
)

// Table is an in-memory table. Scans can be restricted to a constant range
// cover over the primary key column.
type Table struct {
	name   string
	schema sql.Schema

	mu   sync.RWMutex
	rows []sql.Row
}

var _ sql.Table = (*Table)(nil)
var _ sql.Inserter = (*Table)(nil)
var _ sql.RangedTable = (*Table)(nil)

// NewTable creates an empty table with the given schema.
func NewTable(name string, schema sql.Schema) *Table {
	return &Table{name: name, schema: schema}
}

// Name implements the Table interface.
func (t *Table) Name() string {
	return t.name
}

// Schema implements the Table interface.
func (t *Table) Schema() sql.Schema {
	return t.schema
}

// RowIter implements the Table interface.
func (t *Table) RowIter(ctx *sql.Context) (sql.RowIter, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	rows := make([]sql.Row, len(t.rows))
	copy(rows, t.rows)
	return sql.RowsToRowIter(rows...), nil
}

// Insert implements the Inserter interface.
func (t *Table) Insert(ctx *sql.Context, row sql.Row) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rows = append(t.rows, row.Copy())
	return nil
}

// WithScanRanges implements the RangedTable interface.
func (t *Table) WithScanRanges(cover []sql.ConstantRange) sql.Table {
	return &rangedTable{Table: t, cover: cover}
}

// rangedTable is a view of a table restricted to a range cover over its
// primary key column.
type rangedTable struct {
	*Table
	cover []sql.ConstantRange
}

func (t *rangedTable) RowIter(ctx *sql.Context) (sql.RowIter, error) {
	pk := t.schema.PrimaryKeyIndex()
	if pk < 0 {
		return t.Table.RowIter(ctx)
	}

	t.mu.RLock()
	defer t.mu.RUnlock()
	var rows []sql.Row
	for _, row := range t.rows {
		ok, err := sql.RangeCoverContains(t.cover, row[pk])
		if err != nil {
			return nil, err
		}
		if ok {
			rows = append(rows, row)
		}
	}
	return sql.RowsToRowIter(rows...), nil
}
