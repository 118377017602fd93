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

	"github.com/loamdb/loam/sql"
)

// ResolvedTable is a leaf node wrapping a table of the catalog, the
// sequential scan of the plan tree.
type ResolvedTable struct {
	Table sql.Table
}

// NewResolvedTable creates a scan over the given table.
func NewResolvedTable(table sql.Table) *ResolvedTable {
	return &ResolvedTable{Table: table}
}

// Resolved implements the Node interface.
func (*ResolvedTable) Resolved() bool {
	return true
}

// Schema implements the Node interface.
func (t *ResolvedTable) Schema() sql.Schema {
	return t.Table.Schema()
}

// Children implements the Node interface.
func (*ResolvedTable) Children() []sql.Node {
	return nil
}

// RowIter implements the Node interface.
func (t *ResolvedTable) RowIter(ctx *sql.Context) (sql.RowIter, error) {
	span, ctx := ctx.Span("plan.ResolvedTable", tableTag(t.Table.Name()))

	iter, err := t.Table.RowIter(ctx)
	if err != nil {
		span.Finish()
		return nil, err
	}
	return sql.NewSpanIter(span, iter), nil
}

func (t *ResolvedTable) String() string {
	return fmt.Sprintf("Table(%s)", t.Table.Name())
}

// WithChildren implements the Node interface.
func (t *ResolvedTable) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != 0 {
		return nil, sql.ErrInvalidChildrenNumber.New(0, t, len(children))
	}
	return t, nil
}

// UnresolvedTable is a table reference by name, not yet bound against the
// catalog.
type UnresolvedTable struct {
	name     string
	database string
}

// NewUnresolvedTable creates a table reference to be resolved by the
// analyzer.
func NewUnresolvedTable(name, database string) *UnresolvedTable {
	return &UnresolvedTable{name: name, database: database}
}

// Name returns the table name.
func (t *UnresolvedTable) Name() string {
	return t.name
}

// Database returns the database name, which may be empty.
func (t *UnresolvedTable) Database() string {
	return t.database
}

// Resolved implements the Node interface.
func (*UnresolvedTable) Resolved() bool {
	return false
}

// Schema implements the Node interface.
func (*UnresolvedTable) Schema() sql.Schema {
	return nil
}

// Children implements the Node interface.
func (*UnresolvedTable) Children() []sql.Node {
	return nil
}

// RowIter implements the Node interface.
func (t *UnresolvedTable) RowIter(ctx *sql.Context) (sql.RowIter, error) {
	return nil, sql.ErrUnsupportedFeature.New("iterating an unresolved table")
}

func (t *UnresolvedTable) String() string {
	return fmt.Sprintf("UnresolvedTable(%s)", t.name)
}

// WithChildren implements the Node interface.
func (t *UnresolvedTable) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != 0 {
		return nil, sql.ErrInvalidChildrenNumber.New(0, t, len(children))
	}
	return t, nil
}
