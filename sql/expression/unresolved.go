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

package expression

import (
	"github.com/loamdb/loam/sql"
)

// UnresolvedColumn is a column reference by name that has not been bound to
// a field position yet.
type UnresolvedColumn struct {
	name string
}

// NewUnresolvedColumn creates a column reference to be resolved by the
// analyzer.
func NewUnresolvedColumn(name string) *UnresolvedColumn {
	return &UnresolvedColumn{name: name}
}

// Name returns the column name.
func (c *UnresolvedColumn) Name() string {
	return c.name
}

// Resolved implements the Expression interface.
func (*UnresolvedColumn) Resolved() bool {
	return false
}

// IsNullable implements the Expression interface.
func (*UnresolvedColumn) IsNullable() bool {
	return true
}

// Type implements the Expression interface.
func (*UnresolvedColumn) Type() sql.Type {
	return sql.Null
}

// Eval implements the Expression interface.
func (c *UnresolvedColumn) Eval(ctx *sql.Context, row sql.Row) (interface{}, error) {
	return nil, sql.ErrUnresolvedExpression.New(c.name)
}

func (c *UnresolvedColumn) String() string {
	return c.name
}

// Children implements the Expression interface.
func (*UnresolvedColumn) Children() []sql.Expression {
	return nil
}

// WithChildren implements the Expression interface.
func (c *UnresolvedColumn) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != 0 {
		return nil, sql.ErrInvalidChildrenNumber.New(0, c, len(children))
	}
	return c, nil
}
