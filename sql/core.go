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

package sql

import (
	"fmt"
	"io"

	"github.com/opentracing/opentracing-go"
)

// Expression is a scalar expression node. Expressions are immutable; rewrites
// produce new trees.
type Expression interface {
	Resolved() bool
	fmt.Stringer
	// Type returns the logical type of the value this expression produces.
	Type() Type
	// IsNullable reports whether the expression can produce NULL.
	IsNullable() bool
	// Eval evaluates the expression against the given row.
	Eval(ctx *Context, row Row) (interface{}, error)
	// Children returns the child expressions of this expression.
	Children() []Expression
	// WithChildren returns a copy of the expression with the given children.
	WithChildren(children ...Expression) (Expression, error)
}

// Node is a node of the query plan tree.
type Node interface {
	Resolved() bool
	fmt.Stringer
	// Schema of the rows this node produces.
	Schema() Schema
	// Children nodes.
	Children() []Node
	// RowIter produces a row iterator for this node.
	RowIter(ctx *Context) (RowIter, error)
	// WithChildren returns a copy of the node with the given children.
	WithChildren(children ...Node) (Node, error)
}

// RowIter is an iterator that produces rows. Next returns io.EOF after the
// last row. Close must always be called once iteration ends.
type RowIter interface {
	Next() (Row, error)
	Close() error
}

// Visitor visits expression nodes, Walk-style.
type Visitor interface {
	// Visit is called for every node. If the result is nil children are not
	// visited.
	Visit(e Expression) Visitor
}

// Walk traverses the expression tree in depth-first order.
func Walk(v Visitor, e Expression) {
	if v = v.Visit(e); v == nil {
		return
	}

	for _, child := range e.Children() {
		Walk(v, child)
	}
}

type inspector func(Expression) bool

func (f inspector) Visit(e Expression) Visitor {
	if f(e) {
		return f
	}
	return nil
}

// Inspect traverses the expression tree calling f on every node. If f returns
// false the children of the node are skipped.
func Inspect(e Expression, f func(Expression) bool) {
	Walk(inspector(f), e)
}

// NewSpanIter wraps a RowIter so that the given span is finished once the
// iterator is exhausted or closed.
func NewSpanIter(span opentracing.Span, iter RowIter) RowIter {
	return &spanIter{span: span, iter: iter}
}

type spanIter struct {
	span opentracing.Span
	iter RowIter
	done bool
}

func (i *spanIter) Next() (Row, error) {
	row, err := i.iter.Next()
	if err == io.EOF {
		i.finish()
	}
	return row, err
}

func (i *spanIter) Close() error {
	i.finish()
	return i.iter.Close()
}

func (i *spanIter) finish() {
	if !i.done {
		i.span.Finish()
		i.done = true
	}
}
