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
	"fmt"
	"strings"

	"github.com/loamdb/loam/sql"
)

// AggCall is an aggregate function call. It is opaque to the simplifier and
// to range extraction, and evaluating it returns ErrUnsupportedFeature.
type AggCall struct {
	name string
	args []sql.Expression
	typ  sql.Type
}

// NewAggCall creates an aggregate call placeholder.
func NewAggCall(name string, typ sql.Type, args ...sql.Expression) *AggCall {
	return &AggCall{name: name, args: args, typ: typ}
}

// Name returns the aggregate function name.
func (a *AggCall) Name() string {
	return a.name
}

// Resolved implements the Expression interface.
func (a *AggCall) Resolved() bool {
	for _, arg := range a.args {
		if !arg.Resolved() {
			return false
		}
	}
	return true
}

// IsNullable implements the Expression interface.
func (*AggCall) IsNullable() bool {
	return true
}

// Type implements the Expression interface.
func (a *AggCall) Type() sql.Type {
	return a.typ
}

// Eval implements the Expression interface.
func (a *AggCall) Eval(ctx *sql.Context, row sql.Row) (interface{}, error) {
	return nil, sql.ErrUnsupportedFeature.New(fmt.Sprintf("inline evaluation of aggregate %s", a.name))
}

func (a *AggCall) String() string {
	args := make([]string, len(a.args))
	for i, arg := range a.args {
		args[i] = arg.String()
	}
	return fmt.Sprintf("%s(%s)", strings.ToUpper(a.name), strings.Join(args, ", "))
}

// Children implements the Expression interface.
func (a *AggCall) Children() []sql.Expression {
	return a.args
}

// WithChildren implements the Expression interface.
func (a *AggCall) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != len(a.args) {
		return nil, sql.ErrInvalidChildrenNumber.New(len(a.args), a, len(children))
	}
	return NewAggCall(a.name, a.typ, children...), nil
}
