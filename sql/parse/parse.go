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

package parse

import (
	"strconv"
	"strings"

	"gopkg.in/src-d/go-errors.v1"
	"gopkg.in/src-d/go-vitess.v0/vt/sqlparser"

	"github.com/loamdb/loam/sql"
	"github.com/loamdb/loam/sql/expression"
	"github.com/loamdb/loam/sql/plan"
)

var (
	// ErrUnsupportedSyntax is returned for SQL constructs the parser does
	// not lower into a plan.
	ErrUnsupportedSyntax = errors.NewKind("unsupported syntax: %#v")

	// ErrInvalidSQLVal is returned for literals that cannot be decoded.
	ErrInvalidSQLVal = errors.NewKind("invalid literal: %v")
)

// Parse parses a SQL query string into an unresolved plan tree.
func Parse(ctx *sql.Context, query string) (sql.Node, error) {
	span, _ := ctx.Span("parse")
	defer span.Finish()

	query = strings.TrimSpace(query)
	query = strings.TrimSuffix(query, ";")

	stmt, err := sqlparser.Parse(query)
	if err != nil {
		return nil, err
	}
	return convert(stmt)
}

func convert(stmt sqlparser.Statement) (sql.Node, error) {
	switch n := stmt.(type) {
	case *sqlparser.Select:
		return convertSelect(n)
	case *sqlparser.Insert:
		return convertInsert(n)
	case *sqlparser.DDL:
		return convertDDL(n)
	default:
		return nil, ErrUnsupportedSyntax.New(n)
	}
}

func convertSelect(s *sqlparser.Select) (sql.Node, error) {
	var node sql.Node

	node, err := tableExprsToTable(s.From)
	if err != nil {
		return nil, err
	}

	if s.Where != nil {
		cond, err := exprToExpression(s.Where.Expr)
		if err != nil {
			return nil, err
		}
		node = plan.NewFilter(cond, node)
	}

	if len(s.OrderBy) != 0 {
		node, err = orderByToSort(s.OrderBy, node)
		if err != nil {
			return nil, err
		}
	}

	projections, err := selectToProjections(s.SelectExprs)
	if err != nil {
		return nil, err
	}
	node = plan.NewProject(projections, node)

	if s.Limit != nil {
		node, err = limitToLimit(s.Limit, node)
		if err != nil {
			return nil, err
		}
	}

	return node, nil
}

func tableExprsToTable(te sqlparser.TableExprs) (sql.Node, error) {
	if len(te) != 1 {
		return nil, ErrUnsupportedSyntax.New(te)
	}

	aliased, ok := te[0].(*sqlparser.AliasedTableExpr)
	if !ok {
		return nil, ErrUnsupportedSyntax.New(te[0])
	}
	table, ok := aliased.Expr.(sqlparser.TableName)
	if !ok {
		return nil, ErrUnsupportedSyntax.New(aliased.Expr)
	}
	return plan.NewUnresolvedTable(table.Name.String(), table.Qualifier.String()), nil
}

func selectToProjections(se sqlparser.SelectExprs) ([]sql.Expression, error) {
	var projections []sql.Expression
	for _, e := range se {
		switch e := e.(type) {
		case *sqlparser.StarExpr:
			projections = append(projections, expression.NewStar())
		case *sqlparser.AliasedExpr:
			expr, err := exprToExpression(e.Expr)
			if err != nil {
				return nil, err
			}
			if e.As.String() != "" {
				expr = expression.NewAlias(expr, e.As.String())
			}
			projections = append(projections, expr)
		default:
			return nil, ErrUnsupportedSyntax.New(e)
		}
	}
	return projections, nil
}

func orderByToSort(ob sqlparser.OrderBy, child sql.Node) (*plan.Sort, error) {
	fields := make([]plan.SortField, len(ob))
	for i, o := range ob {
		e, err := exprToExpression(o.Expr)
		if err != nil {
			return nil, err
		}
		order := plan.Ascending
		if o.Direction == sqlparser.DescScr {
			order = plan.Descending
		}
		fields[i] = plan.SortField{Column: e, Order: order}
	}
	return plan.NewSort(fields, child), nil
}

func limitToLimit(l *sqlparser.Limit, child sql.Node) (*plan.Limit, error) {
	count, err := exprToInt64(l.Rowcount)
	if err != nil {
		return nil, err
	}
	var offset int64
	if l.Offset != nil {
		offset, err = exprToInt64(l.Offset)
		if err != nil {
			return nil, err
		}
	}
	return plan.NewLimit(count, offset, child), nil
}

func exprToInt64(e sqlparser.Expr) (int64, error) {
	val, ok := e.(*sqlparser.SQLVal)
	if !ok || val.Type != sqlparser.IntVal {
		return 0, ErrUnsupportedSyntax.New(e)
	}
	n, err := strconv.ParseInt(string(val.Val), 10, 64)
	if err != nil {
		return 0, ErrInvalidSQLVal.New(string(val.Val))
	}
	return n, nil
}

func convertInsert(i *sqlparser.Insert) (sql.Node, error) {
	rows, ok := i.Rows.(sqlparser.Values)
	if !ok {
		return nil, ErrUnsupportedSyntax.New(i.Rows)
	}

	tuples := make([][]sql.Expression, len(rows))
	for n, tuple := range rows {
		exprs := make([]sql.Expression, len(tuple))
		for m, e := range tuple {
			expr, err := exprToExpression(e)
			if err != nil {
				return nil, err
			}
			exprs[m] = expr
		}
		tuples[n] = exprs
	}

	columns := make([]string, len(i.Columns))
	for n, c := range i.Columns {
		columns[n] = c.String()
	}

	return plan.NewInsertInto(
		plan.NewUnresolvedTable(i.Table.Name.String(), i.Table.Qualifier.String()),
		plan.NewValues(tuples),
		columns,
	), nil
}

func convertDDL(ddl *sqlparser.DDL) (sql.Node, error) {
	if ddl.Action != sqlparser.CreateStr {
		return nil, ErrUnsupportedSyntax.New(ddl)
	}
	if ddl.TableSpec == nil {
		return nil, ErrUnsupportedSyntax.New(ddl)
	}

	primary := map[string]bool{}
	for _, index := range ddl.TableSpec.Indexes {
		if index.Info != nil && index.Info.Primary {
			for _, col := range index.Columns {
				primary[strings.ToLower(col.Column.String())] = true
			}
		}
	}

	schema := make(sql.Schema, len(ddl.TableSpec.Columns))
	for i, cd := range ddl.TableSpec.Columns {
		typ, err := columnTypeToType(cd.Type.Type)
		if err != nil {
			return nil, err
		}
		pk := primary[strings.ToLower(cd.Name.String())]
		schema[i] = &sql.Column{
			Name:       cd.Name.String(),
			Type:       typ,
			Nullable:   !bool(cd.Type.NotNull) && !pk,
			PrimaryKey: pk,
		}
	}

	return plan.NewCreateTable(nil, ddl.NewName.Name.String(), schema), nil
}

func columnTypeToType(typ string) (sql.Type, error) {
	switch strings.ToLower(typ) {
	case "tinyint":
		return sql.Int8, nil
	case "smallint":
		return sql.Int16, nil
	case "int", "integer", "mediumint":
		return sql.Int32, nil
	case "bigint":
		return sql.Int64, nil
	case "float":
		return sql.Float32, nil
	case "double", "real":
		return sql.Float64, nil
	case "decimal", "numeric":
		return sql.Decimal, nil
	case "char", "varchar", "text", "tinytext", "mediumtext", "longtext":
		return sql.Text, nil
	case "bool", "boolean":
		return sql.Boolean, nil
	case "date":
		return sql.Date, nil
	case "datetime", "timestamp":
		return sql.Timestamp, nil
	default:
		return nil, sql.ErrInvalidType.New(typ)
	}
}

func exprToExpression(e sqlparser.Expr) (sql.Expression, error) {
	switch v := e.(type) {
	case *sqlparser.ColName:
		return expression.NewUnresolvedColumn(v.Name.String()), nil
	case *sqlparser.SQLVal:
		return sqlValToLiteral(v)
	case *sqlparser.NullVal:
		return expression.NewLiteral(nil, sql.Null), nil
	case sqlparser.BoolVal:
		return expression.NewLiteral(bool(v), sql.Boolean), nil
	case *sqlparser.ParenExpr:
		return exprToExpression(v.Expr)
	case *sqlparser.NotExpr:
		child, err := exprToExpression(v.Expr)
		if err != nil {
			return nil, err
		}
		return expression.NewNot(child), nil
	case *sqlparser.AndExpr:
		left, right, err := binarySides(v.Left, v.Right)
		if err != nil {
			return nil, err
		}
		return expression.NewAnd(left, right), nil
	case *sqlparser.OrExpr:
		left, right, err := binarySides(v.Left, v.Right)
		if err != nil {
			return nil, err
		}
		return expression.NewOr(left, right), nil
	case *sqlparser.ComparisonExpr:
		return comparisonToExpression(v)
	case *sqlparser.BinaryExpr:
		return arithmeticToExpression(v)
	case *sqlparser.UnaryExpr:
		return unaryToExpression(v)
	case *sqlparser.IsExpr:
		return isExprToExpression(v)
	case *sqlparser.ConvertExpr:
		return convertExprToExpression(v)
	default:
		return nil, ErrUnsupportedSyntax.New(e)
	}
}

func binarySides(l, r sqlparser.Expr) (sql.Expression, sql.Expression, error) {
	left, err := exprToExpression(l)
	if err != nil {
		return nil, nil, err
	}
	right, err := exprToExpression(r)
	if err != nil {
		return nil, nil, err
	}
	return left, right, nil
}

func comparisonToExpression(c *sqlparser.ComparisonExpr) (sql.Expression, error) {
	left, right, err := binarySides(c.Left, c.Right)
	if err != nil {
		return nil, err
	}

	var op expression.BinaryOperator
	switch c.Operator {
	case sqlparser.EqualStr:
		op = expression.Eq
	case sqlparser.NotEqualStr:
		op = expression.NotEq
	case sqlparser.LessThanStr:
		op = expression.Lt
	case sqlparser.LessEqualStr:
		op = expression.LtEq
	case sqlparser.GreaterThanStr:
		op = expression.Gt
	case sqlparser.GreaterEqualStr:
		op = expression.GtEq
	case sqlparser.NullSafeEqualStr:
		op = expression.Spaceship
	default:
		return nil, ErrUnsupportedSyntax.New(c)
	}
	return expression.NewBinary(op, left, right), nil
}

func arithmeticToExpression(b *sqlparser.BinaryExpr) (sql.Expression, error) {
	left, right, err := binarySides(b.Left, b.Right)
	if err != nil {
		return nil, err
	}

	var op expression.BinaryOperator
	switch b.Operator {
	case sqlparser.PlusStr:
		op = expression.Plus
	case sqlparser.MinusStr:
		op = expression.Minus
	case sqlparser.MultStr:
		op = expression.Multiply
	case sqlparser.DivStr:
		op = expression.Divide
	default:
		return nil, ErrUnsupportedSyntax.New(b)
	}
	return expression.NewBinary(op, left, right), nil
}

func unaryToExpression(u *sqlparser.UnaryExpr) (sql.Expression, error) {
	child, err := exprToExpression(u.Expr)
	if err != nil {
		return nil, err
	}

	switch u.Operator {
	case sqlparser.UPlusStr:
		return expression.NewUnary(expression.UnaryPlus, child), nil
	case sqlparser.UMinusStr:
		return expression.NewUnary(expression.UnaryMinus, child), nil
	default:
		return nil, ErrUnsupportedSyntax.New(u)
	}
}

func isExprToExpression(is *sqlparser.IsExpr) (sql.Expression, error) {
	child, err := exprToExpression(is.Expr)
	if err != nil {
		return nil, err
	}

	switch is.Operator {
	case sqlparser.IsNullStr:
		return expression.NewIsNull(child), nil
	case sqlparser.IsNotNullStr:
		return expression.NewIsNotNull(child), nil
	default:
		return nil, ErrUnsupportedSyntax.New(is)
	}
}

func convertExprToExpression(c *sqlparser.ConvertExpr) (sql.Expression, error) {
	child, err := exprToExpression(c.Expr)
	if err != nil {
		return nil, err
	}

	var typ sql.Type
	switch strings.ToLower(c.Type.Type) {
	case "signed", "signed integer":
		typ = sql.Int64
	case "decimal":
		typ = sql.Decimal
	case "char", "nchar":
		typ = sql.Text
	case "date":
		typ = sql.Date
	case "datetime":
		typ = sql.Timestamp
	default:
		return nil, ErrUnsupportedSyntax.New(c)
	}
	return expression.NewConvert(child, typ), nil
}

func sqlValToLiteral(v *sqlparser.SQLVal) (sql.Expression, error) {
	switch v.Type {
	case sqlparser.IntVal:
		n, err := strconv.ParseInt(string(v.Val), 10, 64)
		if err != nil {
			return nil, ErrInvalidSQLVal.New(string(v.Val))
		}
		return expression.NewLiteral(n, sql.Int64), nil
	case sqlparser.FloatVal:
		f, err := strconv.ParseFloat(string(v.Val), 64)
		if err != nil {
			return nil, ErrInvalidSQLVal.New(string(v.Val))
		}
		return expression.NewLiteral(f, sql.Float64), nil
	case sqlparser.StrVal:
		return expression.NewLiteral(string(v.Val), sql.Text), nil
	default:
		return nil, ErrUnsupportedSyntax.New(v)
	}
}
