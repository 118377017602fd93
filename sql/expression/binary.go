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

// BinaryExpr applies an infix operator to its operands. Arithmetic,
// comparison and logical operators share this node; the simplifier rewrites
// operators in place when it moves terms across a comparison.
type BinaryExpr struct {
	BinaryExpression
	Op  BinaryOperator
	typ sql.Type
}

// NewBinary creates an infix operator expression. Comparisons and logical
// operators produce a boolean; arithmetic keeps the promoted operand type.
func NewBinary(op BinaryOperator, left, right sql.Expression) *BinaryExpr {
	var typ sql.Type
	if op.IsComparison() || op.IsLogical() {
		typ = sql.Boolean
	} else {
		typ = promoteTypes(left.Type(), right.Type())
	}
	return &BinaryExpr{BinaryExpression{left, right}, op, typ}
}

// NewBinaryWithType creates an infix operator expression with an explicit
// result type.
func NewBinaryWithType(op BinaryOperator, left, right sql.Expression, typ sql.Type) *BinaryExpr {
	return &BinaryExpr{BinaryExpression{left, right}, op, typ}
}

// NewAnd creates a logical AND.
func NewAnd(left, right sql.Expression) *BinaryExpr {
	return NewBinary(And, left, right)
}

// NewOr creates a logical OR.
func NewOr(left, right sql.Expression) *BinaryExpr {
	return NewBinary(Or, left, right)
}

// Type implements the Expression interface.
func (e *BinaryExpr) Type() sql.Type {
	return e.typ
}

// IsNullable implements the Expression interface.
func (e *BinaryExpr) IsNullable() bool {
	if e.Op == Spaceship {
		return false
	}
	return e.BinaryExpression.IsNullable()
}

// Eval implements the Expression interface.
func (e *BinaryExpr) Eval(ctx *sql.Context, row sql.Row) (interface{}, error) {
	left, err := e.Left.Eval(ctx, row)
	if err != nil {
		return nil, err
	}
	right, err := e.Right.Eval(ctx, row)
	if err != nil {
		return nil, err
	}
	return binaryOp(e.Op, left, right, e.domainType())
}

// domainType is the value domain the operands are compared or computed in.
func (e *BinaryExpr) domainType() sql.Type {
	if e.Op.IsComparison() {
		return promoteTypes(e.Left.Type(), e.Right.Type())
	}
	return e.typ
}

func (e *BinaryExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", e.Left, e.Op, e.Right)
}

// WithChildren implements the Expression interface.
func (e *BinaryExpr) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != 2 {
		return nil, sql.ErrInvalidChildrenNumber.New(2, e, len(children))
	}
	return NewBinaryWithType(e.Op, children[0], children[1], e.typ), nil
}
