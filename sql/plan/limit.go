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

	"github.com/loamdb/loam/sql"
)

// Limit skips Offset rows of its child and emits at most Limit rows after
// that.
type Limit struct {
	UnaryNode
	Limit  int64
	Offset int64
}

// NewLimit creates a limit over the child node.
func NewLimit(limit, offset int64, child sql.Node) *Limit {
	return &Limit{
		UnaryNode: UnaryNode{Child: child},
		Limit:     limit,
		Offset:    offset,
	}
}

// RowIter implements the Node interface.
func (l *Limit) RowIter(ctx *sql.Context) (sql.RowIter, error) {
	span, ctx := ctx.Span("plan.Limit")

	iter, err := l.Child.RowIter(ctx)
	if err != nil {
		span.Finish()
		return nil, err
	}
	return sql.NewSpanIter(span, &limitIter{l: l, childIter: iter}), nil
}

func (l *Limit) String() string {
	return fmt.Sprintf("Limit(%d, %d)\n └─ %s", l.Limit, l.Offset, l.Child)
}

// WithChildren implements the Node interface.
func (l *Limit) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != 1 {
		return nil, sql.ErrInvalidChildrenNumber.New(1, l, len(children))
	}
	return NewLimit(l.Limit, l.Offset, children[0]), nil
}

type limitIter struct {
	l         *Limit
	childIter sql.RowIter
	skipped   int64
	emitted   int64
}

func (i *limitIter) Next() (sql.Row, error) {
	for i.skipped < i.l.Offset {
		if _, err := i.childIter.Next(); err != nil {
			return nil, err
		}
		i.skipped++
	}

	if i.emitted >= i.l.Limit {
		return nil, io.EOF
	}
	row, err := i.childIter.Next()
	if err != nil {
		return nil, err
	}
	i.emitted++
	return row, nil
}

func (i *limitIter) Close() error {
	return i.childIter.Close()
}
