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

// Star is the `*` of a projection, expanded by the analyzer into the
// columns of the scanned schema.
type Star struct{}

// NewStar creates a new Star expression.
func NewStar() *Star {
	return &Star{}
}

// Resolved implements the Expression interface.
func (*Star) Resolved() bool {
	return false
}

// IsNullable implements the Expression interface.
func (*Star) IsNullable() bool {
	return false
}

// Type implements the Expression interface.
func (*Star) Type() sql.Type {
	return sql.Null
}

// Eval implements the Expression interface.
func (*Star) Eval(ctx *sql.Context, row sql.Row) (interface{}, error) {
	return nil, sql.ErrUnresolvedExpression.New("*")
}

func (*Star) String() string {
	return "*"
}

// Children implements the Expression interface.
func (*Star) Children() []sql.Expression {
	return nil
}

// WithChildren implements the Expression interface.
func (s *Star) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != 0 {
		return nil, sql.ErrInvalidChildrenNumber.New(0, s, len(children))
	}
	return s, nil
}
