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
	"io"
	"sort"
	"strings"

	"github.com/loamdb/loam/sql"
)

// SortOrder is the direction of a sort field.
type SortOrder byte

const (
	// Ascending order.
	Ascending SortOrder = iota
	// Descending order.
	Descending
)

func (o SortOrder) String() string {
	if o == Descending {
		return "DESC"
	}
	return "ASC"
}

// SortField is a column of an ORDER BY. NULLs sort first in ascending order.
type SortField struct {
	Column sql.Expression
	Order  SortOrder
}

// Sort materializes its child and emits it ordered by the sort fields.
type Sort struct {
	UnaryNode
	SortFields []SortField
}

// NewSort creates a sort over the child node.
func NewSort(fields []SortField, child sql.Node) *Sort {
	return &Sort{
		UnaryNode:  UnaryNode{Child: child},
		SortFields: fields,
	}
}

// Resolved implements the Node interface.
func (s *Sort) Resolved() bool {
	if !s.UnaryNode.Resolved() {
		return false
	}
	for _, f := range s.SortFields {
		if !f.Column.Resolved() {
			return false
		}
	}
	return true
}

// RowIter implements the Node interface.
func (s *Sort) RowIter(ctx *sql.Context) (sql.RowIter, error) {
	span, ctx := ctx.Span("plan.Sort")

	iter, err := s.Child.RowIter(ctx)
	if err != nil {
		span.Finish()
		return nil, err
	}
	return sql.NewSpanIter(span, &sortIter{s: s, childIter: iter, ctx: ctx}), nil
}

func (s *Sort) String() string {
	fields := make([]string, len(s.SortFields))
	for i, f := range s.SortFields {
		fields[i] = fmt.Sprintf("%s %s", f.Column, f.Order)
	}
	return fmt.Sprintf("Sort(%s)\n └─ %s", strings.Join(fields, ", "), s.Child)
}

// WithChildren implements the Node interface.
func (s *Sort) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != 1 {
		return nil, sql.ErrInvalidChildrenNumber.New(1, s, len(children))
	}
	return NewSort(s.SortFields, children[0]), nil
}

type sortIter struct {
	s          *Sort
	childIter  sql.RowIter
	sortedRows []sql.Row
	pos        int
	ctx        *sql.Context
}

func (i *sortIter) Next() (sql.Row, error) {
	if i.sortedRows == nil {
		if err := i.computeSortedRows(); err != nil {
			return nil, err
		}
	}

	if i.pos >= len(i.sortedRows) {
		return nil, io.EOF
	}
	row := i.sortedRows[i.pos]
	i.pos++
	return row, nil
}

func (i *sortIter) Close() error {
	i.sortedRows = nil
	return i.childIter.Close()
}

func (i *sortIter) computeSortedRows() error {
	var rows []sql.Row
	for {
		row, err := i.childIter.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		rows = append(rows, row)
	}

	var sortErr error
	sort.SliceStable(rows, func(a, b int) bool {
		if sortErr != nil {
			return false
		}
		for _, f := range i.s.SortFields {
			av, err := f.Column.Eval(i.ctx, rows[a])
			if err != nil {
				sortErr = err
				return false
			}
			bv, err := f.Column.Eval(i.ctx, rows[b])
			if err != nil {
				sortErr = err
				return false
			}

			if av == nil && bv == nil {
				continue
			}
			if av == nil {
				return f.Order == Ascending
			}
			if bv == nil {
				return f.Order == Descending
			}

			order, err := f.Column.Type().Compare(av, bv)
			if err != nil {
				sortErr = err
				return false
			}
			if order == 0 {
				continue
			}
			if f.Order == Descending {
				return order > 0
			}
			return order < 0
		}
		return false
	})
	if sortErr != nil {
		return sortErr
	}

	i.sortedRows = rows
	if i.sortedRows == nil {
		i.sortedRows = []sql.Row{}
	}
	return nil
}
