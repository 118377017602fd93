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

package analyzer

import (
	"github.com/sirupsen/logrus"

	"github.com/loamdb/loam/sql"
)

// Rule is a transformation of the plan tree.
type Rule struct {
	Name  string
	Apply RuleFunc
}

// RuleFunc is the body of a rule.
type RuleFunc func(*sql.Context, *Analyzer, sql.Node) (sql.Node, error)

// Analyzer rewrites an unresolved plan into an executable one by applying
// its rules in order.
type Analyzer struct {
	Catalog *sql.Catalog
	Rules   []Rule
}

// DefaultRules is the rule pipeline of NewDefault.
var DefaultRules = []Rule{
	{"resolve_tables", resolveTables},
	{"resolve_columns", resolveColumns},
	{"simplify_filters", simplifyFilters},
	{"pushdown_ranges", pushdownRanges},
}

// NewDefault creates an analyzer with the default rule set.
func NewDefault(catalog *sql.Catalog) *Analyzer {
	return &Analyzer{Catalog: catalog, Rules: DefaultRules}
}

// Log emits an analyzer trace message.
func (a *Analyzer) Log(msg string, args ...interface{}) {
	logrus.WithField("phase", "analyzer").Debugf(msg, args...)
}

// Analyze applies all the rules to the given plan.
func (a *Analyzer) Analyze(ctx *sql.Context, n sql.Node) (sql.Node, error) {
	span, ctx := ctx.Span("analyze")
	defer span.Finish()

	var err error
	for _, rule := range a.Rules {
		a.Log("applying rule %s", rule.Name)
		n, err = rule.Apply(ctx, a, n)
		if err != nil {
			return nil, err
		}
	}
	return n, nil
}
