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

// Values produces the literal tuples of a VALUES clause.
type Values struct {
	ExpressionTuples [][]sql.Expression
}

// NewValues creates a Values node.
func NewValues(tuples [][]sql.Expression) *Values {
	return &Values{ExpressionTuples: tuples}
}

// Resolved implements the Node interface.
func (v *Values) Resolved() bool {
	for _, tuple := range v.ExpressionTuples {
		for _, e := range tuple {
			if !e.Resolved() {
				return false
			}
		}
	}
	return true
}

// Schema implements the Node interface.
func (v *Values) Schema() sql.Schema {
	if len(v.ExpressionTuples) == 0 {
		return nil
	}
	s := make(sql.Schema, len(v.ExpressionTuples[0]))
	for i, e := range v.ExpressionTuples[0] {
		s[i] = expressionToColumn(e)
	}
	return s
}

// Children implements the Node interface.
func (*Values) Children() []sql.Node {
	return nil
}

// RowIter implements the Node interface.
func (v *Values) RowIter(ctx *sql.Context) (sql.RowIter, error) {
	rows := make([]sql.Row, len(v.ExpressionTuples))
	for i, tuple := range v.ExpressionTuples {
		row := make(sql.Row, len(tuple))
		for j, e := range tuple {
			val, err := e.Eval(ctx, nil)
			if err != nil {
				return nil, err
			}
			row[j] = val
		}
		rows[i] = row
	}
	return sql.RowsToRowIter(rows...), nil
}

func (v *Values) String() string {
	return fmt.Sprintf("Values(%d tuples)", len(v.ExpressionTuples))
}

// WithChildren implements the Node interface.
func (v *Values) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != 0 {
		return nil, sql.ErrInvalidChildrenNumber.New(0, v, len(children))
	}
	return v, nil
}
