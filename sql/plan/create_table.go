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

// CreateTable creates a table in a database.
type CreateTable struct {
	db     sql.Database
	name   string
	schema sql.Schema
}

// NewCreateTable creates a CreateTable node.
func NewCreateTable(db sql.Database, name string, schema sql.Schema) *CreateTable {
	return &CreateTable{db: db, name: name, schema: schema}
}

// Name returns the name of the table to create.
func (c *CreateTable) Name() string {
	return c.name
}

// WithDatabase returns a copy of the node bound to the given database.
func (c *CreateTable) WithDatabase(db sql.Database) sql.Node {
	nc := *c
	nc.db = db
	return &nc
}

// Resolved implements the Node interface.
func (c *CreateTable) Resolved() bool {
	return c.db != nil
}

// Schema implements the Node interface.
func (*CreateTable) Schema() sql.Schema {
	return nil
}

// Children implements the Node interface.
func (*CreateTable) Children() []sql.Node {
	return nil
}

// RowIter implements the Node interface.
func (c *CreateTable) RowIter(ctx *sql.Context) (sql.RowIter, error) {
	creator, ok := c.db.(sql.TableCreator)
	if !ok {
		return nil, sql.ErrUnsupportedFeature.New(fmt.Sprintf("database %s cannot create tables", c.db.Name()))
	}
	if err := creator.CreateTable(ctx, c.name, c.schema); err != nil {
		return nil, err
	}
	return sql.RowsToRowIter(), nil
}

func (c *CreateTable) String() string {
	return fmt.Sprintf("CreateTable(%s)", c.name)
}

// WithChildren implements the Node interface.
func (c *CreateTable) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != 0 {
		return nil, sql.ErrInvalidChildrenNumber.New(0, c, len(children))
	}
	return c, nil
}
