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

package plan

import (
	"fmt"

	"github.com/loamdb/loam/sql"
)

// Filter drops the rows its condition does not accept. NULL and false both
// reject under SQL semantics.
type Filter struct {
	UnaryNode
	Expression sql.Expression
}

// NewFilter creates a filter over the child node.
func NewFilter(expression sql.Expression, child sql.Node) *Filter {
	return &Filter{
		UnaryNode:  UnaryNode{Child: child},
		Expression: expression,
	}
}

// Resolved implements the Node interface.
func (f *Filter) Resolved() bool {
	return f.UnaryNode.Resolved() && f.Expression.Resolved()
}

// RowIter implements the Node interface.
func (f *Filter) RowIter(ctx *sql.Context) (sql.RowIter, error) {
	span, ctx := ctx.Span("plan.Filter")

	iter, err := f.Child.RowIter(ctx)
	if err != nil {
		span.Finish()
		return nil, err
	}
	return sql.NewSpanIter(span, NewFilterIter(ctx, f.Expression, iter)), nil
}

func (f *Filter) String() string {
	return fmt.Sprintf("Filter(%s)\n └─ %s", f.Expression, f.Child)
}

// WithChildren implements the Node interface.
func (f *Filter) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != 1 {
		return nil, sql.ErrInvalidChildrenNumber.New(1, f, len(children))
	}
	return NewFilter(f.Expression, children[0]), nil
}

// FilterIter is an iterator that skips rows not accepted by a condition.
type FilterIter struct {
	cond      sql.Expression
	childIter sql.RowIter
	ctx       *sql.Context
}

// NewFilterIter creates a FilterIter.
func NewFilterIter(ctx *sql.Context, cond sql.Expression, child sql.RowIter) *FilterIter {
	return &FilterIter{cond: cond, childIter: child, ctx: ctx}
}

// Next implements the RowIter interface.
func (i *FilterIter) Next() (sql.Row, error) {
	for {
		row, err := i.childIter.Next()
		if err != nil {
			return nil, err
		}

		res, err := i.cond.Eval(i.ctx, row)
		if err != nil {
			return nil, err
		}
		if res == true {
			return row, nil
		}
	}
}

// Close implements the RowIter interface.
func (i *FilterIter) Close() error {
	return i.childIter.Close()
}
