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

// UnaryExpr applies a prefix operator to its operand.
type UnaryExpr struct {
	UnaryExpression
	Op  UnaryOperator
	typ sql.Type
}

// NewUnary creates a prefix operator expression. NOT produces a boolean, the
// sign operators keep the operand type.
func NewUnary(op UnaryOperator, child sql.Expression) *UnaryExpr {
	typ := child.Type()
	if op == UnaryNot {
		typ = sql.Boolean
	}
	return &UnaryExpr{UnaryExpression{child}, op, typ}
}

// NewUnaryWithType creates a prefix operator expression with an explicit
// result type.
func NewUnaryWithType(op UnaryOperator, child sql.Expression, typ sql.Type) *UnaryExpr {
	return &UnaryExpr{UnaryExpression{child}, op, typ}
}

// NewNot creates a NOT expression.
func NewNot(child sql.Expression) *UnaryExpr {
	return NewUnary(UnaryNot, child)
}

// Type implements the Expression interface.
func (e *UnaryExpr) Type() sql.Type {
	return e.typ
}

// Eval implements the Expression interface.
func (e *UnaryExpr) Eval(ctx *sql.Context, row sql.Row) (interface{}, error) {
	v, err := e.Child.Eval(ctx, row)
	if err != nil {
		return nil, err
	}
	return unaryOp(e.Op, v, e.typ)
}

func (e *UnaryExpr) String() string {
	if e.Op == UnaryNot {
		return fmt.Sprintf("NOT %s", e.Child)
	}
	return fmt.Sprintf("%s%s", e.Op, e.Child)
}

// WithChildren implements the Expression interface.
func (e *UnaryExpr) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != 1 {
		return nil, sql.ErrInvalidChildrenNumber.New(1, e, len(children))
	}
	if sql.IsNullType(e.typ) {
		// the type was cached from a child that was not resolved yet
		return NewUnary(e.Op, children[0]), nil
	}
	return NewUnaryWithType(e.Op, children[0], e.typ), nil
}
