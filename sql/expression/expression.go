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

// BinaryOperator is the operator of a BinaryExpr.
type BinaryOperator byte

const (
	// Plus is the + operator.
	Plus BinaryOperator = iota
	// Minus is the - operator.
	Minus
	// Multiply is the * operator.
	Multiply
	// Divide is the / operator.
	Divide
	// Gt is the > operator.
	Gt
	// GtEq is the >= operator.
	GtEq
	// Lt is the < operator.
	Lt
	// LtEq is the <= operator.
	LtEq
	// Eq is the = operator.
	Eq
	// NotEq is the <> operator.
	NotEq
	// Spaceship is the null-safe equality operator <=>.
	Spaceship
	// And is the logical AND operator.
	And
	// Or is the logical OR operator.
	Or
	// Xor is the logical XOR operator.
	Xor
)

func (op BinaryOperator) String() string {
	switch op {
	case Plus:
		return "+"
	case Minus:
		return "-"
	case Multiply:
		return "*"
	case Divide:
		return "/"
	case Gt:
		return ">"
	case GtEq:
		return ">="
	case Lt:
		return "<"
	case LtEq:
		return "<="
	case Eq:
		return "="
	case NotEq:
		return "<>"
	case Spaceship:
		return "<=>"
	case And:
		return "AND"
	case Or:
		return "OR"
	default:
		return "XOR"
	}
}

// IsArithmetic reports whether op is one of + - * /.
func (op BinaryOperator) IsArithmetic() bool {
	switch op {
	case Plus, Minus, Multiply, Divide:
		return true
	}
	return false
}

// IsComparison reports whether op compares its operands.
func (op BinaryOperator) IsComparison() bool {
	switch op {
	case Gt, GtEq, Lt, LtEq, Eq, NotEq, Spaceship:
		return true
	}
	return false
}

// IsLogical reports whether op is AND, OR or XOR.
func (op BinaryOperator) IsLogical() bool {
	switch op {
	case And, Or, Xor:
		return true
	}
	return false
}

// UnaryOperator is the operator of a UnaryExpr.
type UnaryOperator byte

const (
	// UnaryPlus is the prefix + operator.
	UnaryPlus UnaryOperator = iota
	// UnaryMinus is the prefix - operator.
	UnaryMinus
	// UnaryNot is the NOT operator.
	UnaryNot
)

func (op UnaryOperator) String() string {
	switch op {
	case UnaryPlus:
		return "+"
	case UnaryMinus:
		return "-"
	default:
		return "NOT"
	}
}

// UnaryExpression is an expression with a single child.
type UnaryExpression struct {
	Child sql.Expression
}

// Resolved implements the Expression interface.
func (p *UnaryExpression) Resolved() bool {
	return p.Child.Resolved()
}

// IsNullable implements the Expression interface.
func (p *UnaryExpression) IsNullable() bool {
	return p.Child.IsNullable()
}

// Children implements the Expression interface.
func (p *UnaryExpression) Children() []sql.Expression {
	return []sql.Expression{p.Child}
}

// BinaryExpression is an expression with two children.
type BinaryExpression struct {
	Left  sql.Expression
	Right sql.Expression
}

// Resolved implements the Expression interface.
func (p *BinaryExpression) Resolved() bool {
	return p.Left.Resolved() && p.Right.Resolved()
}

// IsNullable implements the Expression interface.
func (p *BinaryExpression) IsNullable() bool {
	return p.Left.IsNullable() || p.Right.IsNullable()
}

// Children implements the Expression interface.
func (p *BinaryExpression) Children() []sql.Expression {
	return []sql.Expression{p.Left, p.Right}
}

// TransformUp applies f to every node of the expression tree, bottom-up.
func TransformUp(e sql.Expression, f func(sql.Expression) (sql.Expression, error)) (sql.Expression, error) {
	children := e.Children()
	if len(children) > 0 {
		newChildren := make([]sql.Expression, len(children))
		for i, child := range children {
			c, err := TransformUp(child, f)
			if err != nil {
				return nil, err
			}
			newChildren[i] = c
		}
		var err error
		e, err = e.WithChildren(newChildren...)
		if err != nil {
			return nil, err
		}
	}
	return f(e)
}
