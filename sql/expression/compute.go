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
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"

	"github.com/loamdb/loam/sql"
)

// promoteTypes picks the value domain two operands are computed in. NULL
// yields to the other side; decimal dominates float, float dominates
// integer; integers widen to BIGINT.
func promoteTypes(a, b sql.Type) sql.Type {
	switch {
	case sql.IsNullType(a):
		return b
	case sql.IsNullType(b):
		return a
	case sql.IsDecimal(a) || sql.IsDecimal(b):
		return sql.Decimal
	case sql.IsFloat(a) || sql.IsFloat(b):
		return sql.Float64
	case sql.IsInteger(a) && sql.IsInteger(b):
		return sql.Int64
	default:
		return a
	}
}

// binaryOp applies an infix operator to two values in the given domain.
// NULL operands follow SQL three-valued logic: comparisons and arithmetic
// yield NULL, AND and OR short-circuit on their absorbing element, and the
// null-safe <=> never yields NULL.
func binaryOp(op BinaryOperator, left, right interface{}, typ sql.Type) (interface{}, error) {
	switch {
	case op.IsLogical():
		return logicalOp(op, left, right)
	case op.IsComparison():
		return comparisonOp(op, left, right, typ)
	case op.IsArithmetic():
		return arithmeticOp(op, left, right, typ)
	default:
		return nil, sql.ErrInvalidType.New(op.String())
	}
}

func logicalOp(op BinaryOperator, left, right interface{}) (interface{}, error) {
	lb, err := boolOrNil(left)
	if err != nil {
		return nil, err
	}
	rb, err := boolOrNil(right)
	if err != nil {
		return nil, err
	}

	switch op {
	case And:
		if lb != nil && !*lb {
			return false, nil
		}
		if rb != nil && !*rb {
			return false, nil
		}
		if lb == nil || rb == nil {
			return nil, nil
		}
		return true, nil
	case Or:
		if lb != nil && *lb {
			return true, nil
		}
		if rb != nil && *rb {
			return true, nil
		}
		if lb == nil || rb == nil {
			return nil, nil
		}
		return false, nil
	default: // Xor
		if lb == nil || rb == nil {
			return nil, nil
		}
		return *lb != *rb, nil
	}
}

func boolOrNil(v interface{}) (*bool, error) {
	if v == nil {
		return nil, nil
	}
	b, err := cast.ToBoolE(v)
	if err != nil {
		return nil, sql.ErrInvalidType.Wrap(err, sql.Boolean.String())
	}
	return &b, nil
}

func comparisonOp(op BinaryOperator, left, right interface{}, typ sql.Type) (interface{}, error) {
	if op == Spaceship {
		if left == nil && right == nil {
			return true, nil
		}
		if left == nil || right == nil {
			return false, nil
		}
		order, err := typ.Compare(left, right)
		if err != nil {
			return nil, err
		}
		return order == 0, nil
	}

	if left == nil || right == nil {
		return nil, nil
	}
	order, err := typ.Compare(left, right)
	if err != nil {
		return nil, err
	}

	switch op {
	case Eq:
		return order == 0, nil
	case NotEq:
		return order != 0, nil
	case Gt:
		return order > 0, nil
	case GtEq:
		return order >= 0, nil
	case Lt:
		return order < 0, nil
	default: // LtEq
		return order <= 0, nil
	}
}

// arithmeticOp computes in 64-bit domains: integer operands compute in
// BIGINT, floats in DOUBLE, decimals in DECIMAL. Division by zero yields
// NULL.
func arithmeticOp(op BinaryOperator, left, right interface{}, typ sql.Type) (interface{}, error) {
	if left == nil || right == nil {
		return nil, nil
	}

	switch {
	case sql.IsDecimal(typ):
		lv, err := sql.Decimal.Convert(left)
		if err != nil {
			return nil, err
		}
		rv, err := sql.Decimal.Convert(right)
		if err != nil {
			return nil, err
		}
		ld, rd := lv.(decimal.Decimal), rv.(decimal.Decimal)
		switch op {
		case Plus:
			return ld.Add(rd), nil
		case Minus:
			return ld.Sub(rd), nil
		case Multiply:
			return ld.Mul(rd), nil
		default: // Divide
			if rd.IsZero() {
				return nil, nil
			}
			return ld.Div(rd), nil
		}
	case sql.IsFloat(typ):
		lf, err := cast.ToFloat64E(left)
		if err != nil {
			return nil, sql.ErrInvalidType.Wrap(err, typ.String())
		}
		rf, err := cast.ToFloat64E(right)
		if err != nil {
			return nil, sql.ErrInvalidType.Wrap(err, typ.String())
		}
		switch op {
		case Plus:
			return lf + rf, nil
		case Minus:
			return lf - rf, nil
		case Multiply:
			return lf * rf, nil
		default: // Divide
			if rf == 0 {
				return nil, nil
			}
			return lf / rf, nil
		}
	case sql.IsInteger(typ):
		li, err := cast.ToInt64E(left)
		if err != nil {
			return nil, sql.ErrInvalidType.Wrap(err, typ.String())
		}
		ri, err := cast.ToInt64E(right)
		if err != nil {
			return nil, sql.ErrInvalidType.Wrap(err, typ.String())
		}
		switch op {
		case Plus:
			return li + ri, nil
		case Minus:
			return li - ri, nil
		case Multiply:
			return li * ri, nil
		default: // Divide
			if ri == 0 {
				return nil, nil
			}
			return li / ri, nil
		}
	default:
		return nil, sql.ErrInvalidType.New(typ.String())
	}
}

// unaryOp applies a prefix operator to a value. NULL propagates.
func unaryOp(op UnaryOperator, v interface{}, typ sql.Type) (interface{}, error) {
	if v == nil {
		return nil, nil
	}

	switch op {
	case UnaryPlus:
		return v, nil
	case UnaryMinus:
		switch {
		case sql.IsDecimal(typ):
			d, err := sql.Decimal.Convert(v)
			if err != nil {
				return nil, err
			}
			return d.(decimal.Decimal).Neg(), nil
		case sql.IsFloat(typ):
			f, err := cast.ToFloat64E(v)
			if err != nil {
				return nil, sql.ErrInvalidType.Wrap(err, typ.String())
			}
			return -f, nil
		case sql.IsInteger(typ):
			i, err := cast.ToInt64E(v)
			if err != nil {
				return nil, sql.ErrInvalidType.Wrap(err, typ.String())
			}
			return -i, nil
		default:
			return nil, sql.ErrInvalidType.New(typ.String())
		}
	default: // UnaryNot
		b, err := cast.ToBoolE(v)
		if err != nil {
			return nil, sql.ErrInvalidType.Wrap(err, sql.Boolean.String())
		}
		return !b, nil
	}
}
