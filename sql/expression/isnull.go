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

// IsNull is the IS [NOT] NULL predicate. It never produces NULL itself.
type IsNull struct {
	UnaryExpression
	// Negated is true for IS NOT NULL.
	Negated bool
}

// NewIsNull creates an IS NULL predicate over the expression.
func NewIsNull(child sql.Expression) *IsNull {
	return &IsNull{UnaryExpression: UnaryExpression{child}}
}

// NewIsNotNull creates an IS NOT NULL predicate over the expression.
func NewIsNotNull(child sql.Expression) *IsNull {
	return &IsNull{UnaryExpression: UnaryExpression{child}, Negated: true}
}

// Type implements the Expression interface.
func (*IsNull) Type() sql.Type {
	return sql.Boolean
}

// IsNullable implements the Expression interface.
func (*IsNull) IsNullable() bool {
	return false
}

// Eval implements the Expression interface.
func (e *IsNull) Eval(ctx *sql.Context, row sql.Row) (interface{}, error) {
	v, err := e.Child.Eval(ctx, row)
	if err != nil {
		return nil, err
	}
	return (v == nil) != e.Negated, nil
}

func (e *IsNull) String() string {
	if e.Negated {
		return fmt.Sprintf("%s IS NOT NULL", e.Child)
	}
	return fmt.Sprintf("%s IS NULL", e.Child)
}

// WithChildren implements the Expression interface.
func (e *IsNull) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != 1 {
		return nil, sql.ErrInvalidChildrenNumber.New(1, e, len(children))
	}
	return &IsNull{UnaryExpression: UnaryExpression{children[0]}, Negated: e.Negated}, nil
}
