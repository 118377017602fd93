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
	"strings"

	"github.com/loamdb/loam/sql"
	"github.com/loamdb/loam/sql/expression"
)

// Project evaluates a set of expressions against each row of its child.
type Project struct {
	UnaryNode
	Projections []sql.Expression
}

// NewProject creates a projection over the child node.
func NewProject(projections []sql.Expression, child sql.Node) *Project {
	return &Project{
		UnaryNode:   UnaryNode{Child: child},
		Projections: projections,
	}
}

// Resolved implements the Node interface.
func (p *Project) Resolved() bool {
	if !p.UnaryNode.Resolved() {
		return false
	}
	for _, e := range p.Projections {
		if !e.Resolved() {
			return false
		}
	}
	return true
}

// Schema implements the Node interface.
func (p *Project) Schema() sql.Schema {
	s := make(sql.Schema, len(p.Projections))
	for i, e := range p.Projections {
		s[i] = expressionToColumn(e)
	}
	return s
}

func expressionToColumn(e sql.Expression) *sql.Column {
	name := e.String()
	switch e := e.(type) {
	case *expression.Alias:
		name = e.Name()
	case *expression.GetField:
		name = e.Name()
	}
	return &sql.Column{
		Name:     name,
		Type:     e.Type(),
		Nullable: e.IsNullable(),
	}
}

// RowIter implements the Node interface.
func (p *Project) RowIter(ctx *sql.Context) (sql.RowIter, error) {
	span, ctx := ctx.Span("plan.Project")

	iter, err := p.Child.RowIter(ctx)
	if err != nil {
		span.Finish()
		return nil, err
	}
	return sql.NewSpanIter(span, &projectIter{
		projections: p.Projections,
		childIter:   iter,
		ctx:         ctx,
	}), nil
}

func (p *Project) String() string {
	exprs := make([]string, len(p.Projections))
	for i, e := range p.Projections {
		exprs[i] = e.String()
	}
	return fmt.Sprintf("Project(%s)\n └─ %s", strings.Join(exprs, ", "), p.Child)
}

// WithChildren implements the Node interface.
func (p *Project) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != 1 {
		return nil, sql.ErrInvalidChildrenNumber.New(1, p, len(children))
	}
	return NewProject(p.Projections, children[0]), nil
}

type projectIter struct {
	projections []sql.Expression
	childIter   sql.RowIter
	ctx         *sql.Context
}

func (i *projectIter) Next() (sql.Row, error) {
	row, err := i.childIter.Next()
	if err != nil {
		return nil, err
	}

	fields := make(sql.Row, len(i.projections))
	for n, e := range i.projections {
		fields[n], err = e.Eval(i.ctx, row)
		if err != nil {
			return nil, err
		}
	}
	return fields, nil
}

func (i *projectIter) Close() error {
	return i.childIter.Close()
}
