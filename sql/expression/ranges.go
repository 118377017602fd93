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

// ConvertBinary lowers a boolean expression restricted to the column at the
// given field index into the constant range algebra. A nil result means the
// expression does not constrain that column. The And and Or of the result
// describe how value sets aggregate, not the boolean structure of the WHERE
// clause: And arms narrow to a minimum range, Or arms are rearranged into a
// sorted cover.
func ConvertBinary(e sql.Expression, colID int) (*sql.ConstantRange, error) {
	switch e := e.(type) {
	case *BinaryExpr:
		left, err := ConvertBinary(e.Left, colID)
		if err != nil {
			return nil, err
		}
		right, err := ConvertBinary(e.Right, colID)
		if err != nil {
			return nil, err
		}

		switch {
		case left != nil && right != nil:
			return combineRanges(e.Op, *left, *right)
		case left == nil && right == nil:
			if col, ok := unpackCol(e.Left, false); ok {
				if val, vok := unpackVal(e.Right); vok {
					return newBinaryRange(colID, e.Op, col, val, false), nil
				}
			}
			if val, vok := unpackVal(e.Left); vok {
				if col, ok := unpackCol(e.Right, false); ok {
					return newBinaryRange(colID, e.Op, col, val, true), nil
				}
			}
			return nil, nil
		case left != nil:
			return left, nil
		default:
			return right, nil
		}
	case *Alias:
		return ConvertBinary(e.Child, colID)
	case *Convert:
		return ConvertBinary(e.Child, colID)
	case *IsNull:
		return ConvertBinary(e.Child, colID)
	case *UnaryExpr:
		return ConvertBinary(e.Child, colID)
	default:
		return nil, nil
	}
}

func combineRanges(op BinaryOperator, left, right sql.ConstantRange) (*sql.ConstantRange, error) {
	concat := func(a, b []sql.ConstantRange) []sql.ConstantRange {
		out := make([]sql.ConstantRange, 0, len(a)+len(b))
		out = append(out, a...)
		return append(out, b...)
	}

	switch {
	case left.Kind == sql.RangeAnd && right.Kind == sql.RangeAnd,
		left.Kind == sql.RangeOr && right.Kind == sql.RangeOr:
		r := sql.AndRange(concat(left.Ranges, right.Ranges)...)
		return &r, nil
	case left.Kind == sql.RangeAnd && right.Kind == sql.RangeOr:
		r := sql.OrRange(concat(right.Ranges, left.Ranges)...)
		return &r, nil
	case left.Kind == sql.RangeOr && right.Kind == sql.RangeAnd:
		r := sql.OrRange(concat(left.Ranges, right.Ranges)...)
		return &r, nil
	case left.Kind == sql.RangeAnd:
		r := sql.AndRange(append(concat(left.Ranges, nil), right)...)
		return &r, nil
	case right.Kind == sql.RangeAnd:
		r := sql.AndRange(append(concat(right.Ranges, nil), left)...)
		return &r, nil
	case left.Kind == sql.RangeOr:
		r := sql.OrRange(append(concat(left.Ranges, nil), right)...)
		return &r, nil
	case right.Kind == sql.RangeOr:
		r := sql.OrRange(append(concat(right.Ranges, nil), left)...)
		return &r, nil
	default:
		switch op {
		case And:
			r := sql.AndRange(left, right)
			return &r, nil
		case Or:
			r := sql.OrRange(left, right)
			return &r, nil
		case Xor:
			return nil, sql.ErrUnsupportedRangeOp.New(op)
		default:
			return nil, nil
		}
	}
}

// newBinaryRange builds the leaf range of a comparison between the target
// column and a ground value. The comparison direction is flipped when the
// column stood on the right side.
func newBinaryRange(colID int, op BinaryOperator, col *GetField, val interface{}, flip bool) *sql.ConstantRange {
	if col.Index() != colID {
		return nil
	}

	if flip {
		op = comparisonFlip(op)
	}

	typ := col.Type()
	var r sql.ConstantRange
	switch op {
	case Gt:
		r = sql.ScopeRange(typ, sql.Excluded(val), sql.Unbounded)
	case Lt:
		r = sql.ScopeRange(typ, sql.Unbounded, sql.Excluded(val))
	case GtEq:
		r = sql.ScopeRange(typ, sql.Included(val), sql.Unbounded)
	case LtEq:
		r = sql.ScopeRange(typ, sql.Unbounded, sql.Included(val))
	case Eq, Spaceship:
		r = sql.EqRange(typ, val)
	case NotEq:
		r = sql.NotEqRange(typ, val)
	default:
		return nil
	}
	return &r
}
