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

// unpackVal reduces a ground subtree to its value. It returns false when the
// subtree references a column, or when an operator or cast fails on the
// folded operands.
func unpackVal(e sql.Expression) (interface{}, bool) {
	switch e := e.(type) {
	case *Literal:
		return e.value, true
	case *Alias:
		return unpackVal(e.Child)
	case *Convert:
		v, ok := unpackVal(e.Child)
		if !ok {
			return nil, false
		}
		casted, err := e.castTo.Convert(v)
		if err != nil {
			return nil, false
		}
		return casted, true
	case *IsNull:
		// IS NULL of a ground operand always folds to a non-null boolean,
		// whether or not the operand itself is null.
		v, ok := unpackVal(e.Child)
		if !ok {
			return nil, false
		}
		return (v == nil) != e.Negated, true
	case *UnaryExpr:
		v, ok := unpackVal(e.Child)
		if !ok {
			return nil, false
		}
		res, err := unaryOp(e.Op, v, e.typ)
		if err != nil {
			return nil, false
		}
		return res, true
	case *BinaryExpr:
		left, ok := unpackVal(e.Left)
		if !ok {
			return nil, false
		}
		right, ok := unpackVal(e.Right)
		if !ok {
			return nil, false
		}
		res, err := binaryOp(e.Op, left, right, e.domainType())
		if err != nil {
			return nil, false
		}
		return res, true
	default:
		return nil, false
	}
}

// unpackCol locates the single column reference of a subtree. With
// binaryThenReturn a binary node yields no column at all; otherwise both
// sides are searched and a column is returned only when exactly one side
// carries one. Mixed-column subtrees yield nothing.
func unpackCol(e sql.Expression, binaryThenReturn bool) (*GetField, bool) {
	switch e := e.(type) {
	case *GetField:
		return e, true
	case *Alias:
		return unpackCol(e.Child, binaryThenReturn)
	case *BinaryExpr:
		if binaryThenReturn {
			return nil, false
		}
		lcol, lok := unpackCol(e.Left, binaryThenReturn)
		rcol, rok := unpackCol(e.Right, binaryThenReturn)
		switch {
		case lok && !rok:
			return lcol, true
		case rok && !lok:
			return rcol, true
		default:
			return nil, false
		}
	case *UnaryExpr:
		return unpackCol(e.Child, binaryThenReturn)
	default:
		return nil, false
	}
}
