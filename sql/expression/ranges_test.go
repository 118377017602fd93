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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/loamdb/loam/sql"
)

func convert(t *testing.T, e sql.Expression, colID int) *sql.ConstantRange {
	t.Helper()
	r, err := ConvertBinary(e, colID)
	require.NoError(t, err)
	return r
}

func TestConvertBinarySimple(t *testing.T) {
	require := require.New(t)

	col := testColumn()
	one := NewLiteral(int32(1), sql.Int32)

	// 1 = c1
	r := convert(t, NewBinary(Eq, one, col), 0)
	require.NotNil(r)
	require.Equal(sql.EqRange(sql.Int32, int32(1)), *r)

	// 1 <> c1
	r = convert(t, NewBinary(NotEq, one, col), 0)
	require.NotNil(r)
	require.Equal(sql.NotEqRange(sql.Int32, int32(1)), *r)

	// c1 < 1
	r = convert(t, NewBinary(Lt, col, one), 0)
	require.NotNil(r)
	require.Equal(sql.ScopeRange(sql.Int32, sql.Unbounded, sql.Excluded(int32(1))), *r)

	// c1 <= 1
	r = convert(t, NewBinary(LtEq, col, one), 0)
	require.NotNil(r)
	require.Equal(sql.ScopeRange(sql.Int32, sql.Unbounded, sql.Included(int32(1))), *r)

	// c1 > 1
	r = convert(t, NewBinary(Gt, col, one), 0)
	require.NotNil(r)
	require.Equal(sql.ScopeRange(sql.Int32, sql.Excluded(int32(1)), sql.Unbounded), *r)

	// c1 >= 1
	r = convert(t, NewBinary(GtEq, col, one), 0)
	require.NotNil(r)
	require.Equal(sql.ScopeRange(sql.Int32, sql.Included(int32(1)), sql.Unbounded), *r)
}

func TestConvertBinaryFlipsColumnOnRight(t *testing.T) {
	require := require.New(t)

	col := testColumn()
	one := NewLiteral(int32(1), sql.Int32)

	// 1 < c1  ==>  c1 > 1
	r := convert(t, NewBinary(Lt, one, col), 0)
	require.NotNil(r)
	require.Equal(sql.ScopeRange(sql.Int32, sql.Excluded(int32(1)), sql.Unbounded), *r)

	// 1 >= c1  ==>  c1 <= 1
	r = convert(t, NewBinary(GtEq, one, col), 0)
	require.NotNil(r)
	require.Equal(sql.ScopeRange(sql.Int32, sql.Unbounded, sql.Included(int32(1))), *r)
}

func TestConvertBinarySpaceship(t *testing.T) {
	require := require.New(t)

	r := convert(t, NewBinary(Spaceship, testColumn(), NewLiteral(int32(1), sql.Int32)), 0)
	require.NotNil(r)
	require.Equal(sql.EqRange(sql.Int32, int32(1)), *r)
}

func TestConvertBinaryOtherColumn(t *testing.T) {
	require := require.New(t)

	// the predicate constrains column 0, not column 3
	r := convert(t, NewBinary(Eq, testColumn(), NewLiteral(int32(1), sql.Int32)), 3)
	require.Nil(r)
}

func TestConvertBinaryUnconstrained(t *testing.T) {
	require := require.New(t)

	// ground comparison, no column at all
	r := convert(t, NewBinary(Eq, NewLiteral(int32(1), sql.Int32), NewLiteral(int32(1), sql.Int32)), 0)
	require.Nil(r)
}

func TestConvertBinaryAndOr(t *testing.T) {
	require := require.New(t)

	col := testColumn()
	gt0 := NewBinary(Gt, col, NewLiteral(int32(0), sql.Int32))
	lt10 := NewBinary(Lt, col, NewLiteral(int32(10), sql.Int32))

	r := convert(t, NewAnd(gt0, lt10), 0)
	require.NotNil(r)
	require.Equal(sql.AndRange(
		sql.ScopeRange(sql.Int32, sql.Excluded(int32(0)), sql.Unbounded),
		sql.ScopeRange(sql.Int32, sql.Unbounded, sql.Excluded(int32(10))),
	), *r)

	r = convert(t, NewOr(gt0, lt10), 0)
	require.NotNil(r)
	require.Equal(sql.OrRange(
		sql.ScopeRange(sql.Int32, sql.Excluded(int32(0)), sql.Unbounded),
		sql.ScopeRange(sql.Int32, sql.Unbounded, sql.Excluded(int32(10))),
	), *r)
}

func TestConvertBinaryContainerMerges(t *testing.T) {
	require := require.New(t)

	col := testColumn()
	lit := func(n int32) *Literal { return NewLiteral(n, sql.Int32) }
	eq := func(n int32) sql.Expression { return NewBinary(Eq, col, lit(n)) }

	// (a AND b) AND (c AND d) concatenates into a single And
	r := convert(t, NewAnd(NewAnd(eq(1), eq(2)), NewAnd(eq(3), eq(4))), 0)
	require.NotNil(r)
	require.Equal(sql.AndRange(
		sql.EqRange(sql.Int32, int32(1)),
		sql.EqRange(sql.Int32, int32(2)),
		sql.EqRange(sql.Int32, int32(3)),
		sql.EqRange(sql.Int32, int32(4)),
	), *r)

	// (a OR b) OR (c OR d) also collapses into And: the containers track
	// value-set aggregation, and two Or sides concatenate like two Ands.
	r = convert(t, NewOr(NewOr(eq(1), eq(2)), NewOr(eq(3), eq(4))), 0)
	require.NotNil(r)
	require.Equal(sql.RangeAnd, r.Kind)
	require.Len(r.Ranges, 4)

	// (a AND b) OR c pushes the leaf into the And side; the boolean OR is
	// not consulted once a container is present
	r = convert(t, NewOr(NewAnd(eq(1), eq(2)), eq(3)), 0)
	require.NotNil(r)
	require.Equal(sql.RangeAnd, r.Kind)
	require.Len(r.Ranges, 3)

	// a leaf against an Or joins the Or
	r = convert(t, NewAnd(NewOr(eq(1), eq(2)), eq(3)), 0)
	require.NotNil(r)
	require.Equal(sql.OrRange(
		sql.EqRange(sql.Int32, int32(1)),
		sql.EqRange(sql.Int32, int32(2)),
		sql.EqRange(sql.Int32, int32(3)),
	), *r)
}

func TestConvertBinaryXorUnsupported(t *testing.T) {
	col := testColumn()
	lit := func(n int32) *Literal { return NewLiteral(n, sql.Int32) }

	_, err := ConvertBinary(NewBinary(Xor,
		NewBinary(Eq, col, lit(1)),
		NewBinary(Eq, col, lit(2)),
	), 0)
	require.Error(t, err)
	require.True(t, sql.ErrUnsupportedRangeOp.Is(err))
}

func TestConvertBinaryThroughWrappers(t *testing.T) {
	require := require.New(t)

	col := testColumn()
	inner := NewBinary(Eq, col, NewLiteral(int32(1), sql.Int32))

	r := convert(t, NewAlias(inner, "a"), 0)
	require.NotNil(r)
	require.Equal(sql.EqRange(sql.Int32, int32(1)), *r)
}

func TestConvertBinaryFoldsGroundSide(t *testing.T) {
	require := require.New(t)

	col := testColumn()
	// c1 >= 2 + 1
	sum := NewBinary(Plus, NewLiteral(int32(2), sql.Int32), NewLiteral(int32(1), sql.Int32))
	r := convert(t, NewBinary(GtEq, col, sum), 0)
	require.NotNil(r)
	require.Equal(sql.ScopeRange(sql.Int32, sql.Included(int64(3)), sql.Unbounded), *r)
}

// Range soundness: every row value accepted by the predicate is accepted by
// the cover produced from it.
func TestRangeSoundness(t *testing.T) {
	col := testColumn()
	lit := func(n int32) *Literal { return NewLiteral(n, sql.Int32) }

	preds := []sql.Expression{
		NewAnd(NewBinary(Gt, col, lit(0)), NewBinary(LtEq, col, lit(4))),
		NewOr(NewBinary(Lt, col, lit(-2)), NewBinary(Gt, col, lit(3))),
		NewBinary(GtEq, NewBinary(Minus, col, lit(1)), lit(2)),
		NewOr(NewBinary(Lt, col, lit(0)), NewBinary(Eq, col, lit(5))),
	}

	for _, pred := range preds {
		t.Run(pred.String(), func(t *testing.T) {
			require := require.New(t)

			simplified, err := Simplify(pred)
			require.NoError(err)
			r, err := ConvertBinary(simplified, 0)
			require.NoError(err)
			require.NotNil(r)

			require.NoError(r.ScopeAggregation())
			cover, err := r.Rearrange()
			require.NoError(err)

			for v := int32(-8); v <= 8; v++ {
				res := eval(t, simplified, sql.NewRow(v))
				if res == true {
					ok, err := sql.RangeCoverContains(cover, v)
					require.NoError(err)
					require.True(ok, "value %d satisfies the predicate but not the cover", v)
				}
			}
		})
	}
}
