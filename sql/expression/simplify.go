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

// replaceBinary asks the enclosing comparison to absorb an arithmetic node
// of the form `col ⊕ k` (or `k ⊕ col`), leaving the bare column on one side.
type replaceBinary struct {
	colExpr      sql.Expression
	valExpr      sql.Expression
	op           BinaryOperator
	typ          sql.Type
	isColumnLeft bool
}

// replaceUnary asks the enclosing comparison to absorb a prefix operator,
// moving it onto the ground side.
type replaceUnary struct {
	child sql.Expression
	op    UnaryOperator
	typ   sql.Type
}

type replacement struct {
	binary *replaceBinary
	unary  *replaceUnary
}

// Simplify rewrites comparisons of the form `(col ⊕ k) cmp rhs` into
// `col cmp' rhs'`, so that a column reference stands alone on one side, and
// folds casts, IS NULL tests and prefix operators over ground operands into
// literals. Ground binary subtrees such as `1 + 1` are not folded; they stay
// in place for ConvertBinary to evaluate. The rewrite is local: arithmetic spanning two
// column-carrying subtrees, like `(c1 - 1) AND (c1 + 2)`, is left alone.
// Aliases wrapping an absorbed subtree are lost.
func Simplify(e sql.Expression) (sql.Expression, error) {
	return simplifyExpr(e, &replacement{})
}

func simplifyExpr(e sql.Expression, fix *replacement) (sql.Expression, error) {
	switch e := e.(type) {
	case *BinaryExpr:
		left, right, op := e.Left, e.Right, e.Op
		var err error
		left, right, op, err = fixExpr(fix, left, right, op)
		if err != nil {
			return nil, err
		}
		right, left, op, err = fixExpr(fix, right, left, op)
		if err != nil {
			return nil, err
		}

		if op.IsArithmetic() {
			lcol, lok := unpackCol(left, true)
			rcol, rok := unpackCol(right, true)
			switch {
			case lok && rok:
			case lok:
				fix.binary = &replaceBinary{
					colExpr:      lcol,
					valExpr:      right,
					op:           op,
					typ:          e.typ,
					isColumnLeft: true,
				}
			case rok:
				fix.binary = &replaceBinary{
					colExpr:      rcol,
					valExpr:      left,
					op:           op,
					typ:          e.typ,
					isColumnLeft: false,
				}
			}
		}
		return NewBinaryWithType(op, left, right, e.typ), nil
	case *Alias:
		child, err := simplifyExpr(e.Child, fix)
		if err != nil {
			return nil, err
		}
		return NewAlias(child, e.name), nil
	case *Convert:
		if v, ok := unpackVal(e); ok {
			return NewLiteral(v, e.castTo), nil
		}
		return e, nil
	case *IsNull:
		if v, ok := unpackVal(e.Child); ok {
			return NewLiteral((v == nil) != e.Negated, sql.Boolean), nil
		}
		return e, nil
	case *UnaryExpr:
		if v, ok := unpackVal(e.Child); ok {
			res, err := unaryOp(e.Op, v, e.typ)
			if err != nil {
				return nil, err
			}
			return NewLiteral(res, e.typ), nil
		}
		fix.unary = &replaceUnary{child: e.Child, op: e.Op, typ: e.typ}
		return e, nil
	default:
		return e, nil
	}
}

// fixExpr simplifies side a of a binary node and applies any replacement the
// simplification published, rewriting (a, b, op) so that the column subtree
// ends up bare on the a side.
func fixExpr(fix *replacement, a, b sql.Expression, op BinaryOperator) (sql.Expression, sql.Expression, BinaryOperator, error) {
	a, err := simplifyExpr(a, fix)
	if err != nil {
		return nil, nil, op, err
	}

	switch {
	case fix.binary != nil:
		rb := *fix.binary
		fix.binary = nil
		a, b, op = fixBinary(rb, b, op)
	case fix.unary != nil:
		ru := *fix.unary
		fix.unary = nil
		a, b, op = fixUnary(ru, b, op)
		// the rebuilt ground side may itself fold or publish again
		return fixExpr(fix, a, b, op)
	}
	return a, b, op, nil
}

// fixBinary rewrites `(col ⊕ k) cmp b` into `col cmp (b flip(⊕) k)`, or
// `(k ⊕ col) cmp b` into `col cmp' (k ⊕ b)`. Subtraction and multiplication
// with the column on the right reverse the comparison direction.
func fixBinary(rb replaceBinary, b sql.Expression, op BinaryOperator) (sql.Expression, sql.Expression, BinaryOperator) {
	var fixedOp BinaryOperator
	var fixedLeft, fixedRight sql.Expression
	if rb.isColumnLeft {
		fixedOp = arithmeticFlip(rb.op)
		fixedLeft = b
		fixedRight = rb.valExpr
	} else {
		if rb.op == Minus || rb.op == Multiply {
			op = comparisonFlip(op)
		}
		fixedOp = rb.op
		fixedLeft = rb.valExpr
		fixedRight = b
	}
	return rb.colExpr, NewBinaryWithType(fixedOp, fixedLeft, fixedRight, rb.typ), op
}

// fixUnary rewrites `(⊖ e) cmp b` into `e cmp' (⊖ b)`. A minus flips both
// the arithmetic it may later meet and the comparison direction; NOT flips
// the comparison direction only.
func fixUnary(ru replaceUnary, b sql.Expression, op BinaryOperator) (sql.Expression, sql.Expression, BinaryOperator) {
	b = NewUnaryWithType(ru.op, b, ru.typ)

	switch ru.op {
	case UnaryMinus:
		switch op {
		case Plus:
			op = Minus
		case Minus:
			op = Plus
		case Multiply:
			op = Divide
		case Divide:
			op = Multiply
		default:
			op = comparisonFlip(op)
		}
	case UnaryNot:
		op = comparisonFlip(op)
	}
	return ru.child, b, op
}

func arithmeticFlip(op BinaryOperator) BinaryOperator {
	switch op {
	case Plus:
		return Minus
	case Minus:
		return Plus
	case Multiply:
		return Divide
	case Divide:
		return Multiply
	default:
		return op
	}
}

func comparisonFlip(op BinaryOperator) BinaryOperator {
	switch op {
	case Gt:
		return Lt
	case Lt:
		return Gt
	case GtEq:
		return LtEq
	case LtEq:
		return GtEq
	default:
		return op
	}
}
