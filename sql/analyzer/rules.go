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
	"strings"

	"github.com/loamdb/loam/sql"
	"github.com/loamdb/loam/sql/expression"
	"github.com/loamdb/loam/sql/plan"
)

// resolveTables binds table references against the catalog.
func resolveTables(ctx *sql.Context, a *Analyzer, n sql.Node) (sql.Node, error) {
	return plan.TransformUp(n, func(n sql.Node) (sql.Node, error) {
		switch n := n.(type) {
		case *plan.UnresolvedTable:
			table, err := a.Catalog.Table(n.Database(), n.Name())
			if err != nil {
				return nil, err
			}
			a.Log("table %s resolved", n.Name())
			return plan.NewResolvedTable(table), nil
		case *plan.CreateTable:
			if n.Resolved() {
				return n, nil
			}
			db, err := a.Catalog.Database("")
			if err != nil {
				return nil, err
			}
			return n.WithDatabase(db), nil
		default:
			return n, nil
		}
	})
}

// resolveColumns binds named column references to field positions of the
// child schema, and expands stars.
func resolveColumns(ctx *sql.Context, a *Analyzer, n sql.Node) (sql.Node, error) {
	return plan.TransformUp(n, func(n sql.Node) (sql.Node, error) {
		switch n := n.(type) {
		case *plan.Filter:
			cond, err := resolveExpression(n.Expression, n.Child.Schema())
			if err != nil {
				return nil, err
			}
			return plan.NewFilter(cond, n.Child), nil
		case *plan.Project:
			projections, err := resolveProjections(n.Projections, n.Child.Schema())
			if err != nil {
				return nil, err
			}
			return plan.NewProject(projections, n.Child), nil
		case *plan.Sort:
			fields := make([]plan.SortField, len(n.SortFields))
			for i, f := range n.SortFields {
				col, err := resolveExpression(f.Column, n.Child.Schema())
				if err != nil {
					return nil, err
				}
				fields[i] = plan.SortField{Column: col, Order: f.Order}
			}
			return plan.NewSort(fields, n.Child), nil
		default:
			return n, nil
		}
	})
}

func resolveProjections(projections []sql.Expression, schema sql.Schema) ([]sql.Expression, error) {
	var out []sql.Expression
	for _, p := range projections {
		if _, ok := p.(*expression.Star); ok {
			for i, col := range schema {
				out = append(out, expression.NewGetField(i, col.Type, col.Name, col.Nullable))
			}
			continue
		}
		resolved, err := resolveExpression(p, schema)
		if err != nil {
			return nil, err
		}
		out = append(out, resolved)
	}
	return out, nil
}

func resolveExpression(e sql.Expression, schema sql.Schema) (sql.Expression, error) {
	return expression.TransformUp(e, func(e sql.Expression) (sql.Expression, error) {
		col, ok := e.(*expression.UnresolvedColumn)
		if !ok {
			return e, nil
		}
		for i, c := range schema {
			if strings.EqualFold(c.Name, col.Name()) {
				return expression.NewGetField(i, c.Type, c.Name, c.Nullable), nil
			}
		}
		return nil, sql.ErrColumnNotFound.New(col.Name())
	})
}

// simplifyFilters folds constants in filter predicates and isolates column
// references on one side of each comparison.
func simplifyFilters(ctx *sql.Context, a *Analyzer, n sql.Node) (sql.Node, error) {
	return plan.TransformUp(n, func(n sql.Node) (sql.Node, error) {
		filter, ok := n.(*plan.Filter)
		if !ok {
			return n, nil
		}
		simplified, err := expression.Simplify(filter.Expression)
		if err != nil {
			return nil, err
		}
		return plan.NewFilter(simplified, filter.Child), nil
	})
}

// pushdownRanges lowers a filter predicate over the primary key column into
// a constant range cover and hands it to the scanned table. The filter stays
// in place: the cover may be wider than the predicate.
func pushdownRanges(ctx *sql.Context, a *Analyzer, n sql.Node) (sql.Node, error) {
	return plan.TransformUp(n, func(n sql.Node) (sql.Node, error) {
		filter, ok := n.(*plan.Filter)
		if !ok {
			return n, nil
		}
		scan, ok := filter.Child.(*plan.ResolvedTable)
		if !ok {
			return n, nil
		}
		table, ok := scan.Table.(sql.RangedTable)
		if !ok {
			return n, nil
		}
		pk := scan.Schema().PrimaryKeyIndex()
		if pk < 0 {
			return n, nil
		}

		r, err := expression.ConvertBinary(filter.Expression, pk)
		if err != nil {
			// predicates the range algebra cannot express are simply not
			// pushed down
			a.Log("range conversion skipped: %s", err)
			return n, nil
		}
		if r == nil {
			return n, nil
		}

		cover, err := normalizeRange(r)
		if err != nil {
			a.Log("range normalization skipped: %s", err)
			return n, nil
		}
		if len(cover) == 0 {
			return n, nil
		}

		a.Log("pushed %d ranges down to table %s", len(cover), table.Name())
		return plan.NewFilter(filter.Expression,
			plan.NewResolvedTable(table.WithScanRanges(cover))), nil
	})
}

func normalizeRange(r *sql.ConstantRange) ([]sql.ConstantRange, error) {
	var cover []sql.ConstantRange
	switch r.Kind {
	case sql.RangeAnd:
		if err := r.ScopeAggregation(); err != nil {
			return nil, err
		}
		cover = r.Ranges
	case sql.RangeOr:
		if err := r.ScopeAggregation(); err != nil {
			return nil, err
		}
		merged, err := r.Rearrange()
		if err != nil {
			return nil, err
		}
		cover = merged
	default:
		cover = []sql.ConstantRange{*r}
	}

	// null-bearing ranges are opaque to planning
	for _, elem := range cover {
		if elem.Kind == sql.RangeAnd || elem.Kind == sql.RangeOr {
			continue
		}
		isNull, err := elem.IsNull()
		if err != nil {
			return nil, err
		}
		if isNull {
			return nil, nil
		}
	}
	return cover, nil
}
