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
	"fmt"

	"github.com/loamdb/loam/sql"
)

// Convert is an explicit cast to another type.
type Convert struct {
	UnaryExpression
	castTo sql.Type
}

// NewConvert creates a cast of the expression to the given type.
func NewConvert(child sql.Expression, castTo sql.Type) *Convert {
	return &Convert{UnaryExpression{child}, castTo}
}

// Type implements the Expression interface.
func (c *Convert) Type() sql.Type {
	return c.castTo
}

// IsNullable implements the Expression interface.
func (c *Convert) IsNullable() bool {
	return c.Child.IsNullable()
}

// Eval implements the Expression interface.
func (c *Convert) Eval(ctx *sql.Context, row sql.Row) (interface{}, error) {
	v, err := c.Child.Eval(ctx, row)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}
	return c.castTo.Convert(v)
}

func (c *Convert) String() string {
	return fmt.Sprintf("CAST(%s AS %s)", c.Child, c.castTo)
}

// WithChildren implements the Expression interface.
func (c *Convert) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != 1 {
		return nil, sql.ErrInvalidChildrenNumber.New(1, c, len(children))
	}
	return NewConvert(children[0], c.castTo), nil
}
