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

package sql

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoundCompare(t *testing.T) {
	type tc struct {
		left, right Bound
		isMin       bool
		res         int
	}
	for _, testcase := range []tc{
		{Unbounded, Unbounded, true, 0},
		{Unbounded, Unbounded, false, 0},
		{Unbounded, Included(int32(1)), true, -1},
		{Unbounded, Included(int32(1)), false, 1},
		{Included(int32(1)), Unbounded, true, 1},
		{Included(int32(1)), Unbounded, false, -1},

		{Included(int32(1)), Included(int32(1)), true, 0},
		{Included(int32(1)), Included(int32(2)), true, -1},
		{Included(int32(2)), Included(int32(1)), false, 1},
		{Excluded(int32(1)), Excluded(int32(1)), false, 0},

		// between equal values, Excluded is the tighter bound on each side
		{Included(int32(1)), Excluded(int32(1)), true, -1},
		{Included(int32(1)), Excluded(int32(1)), false, 1},
		{Excluded(int32(1)), Included(int32(1)), true, 1},
		{Excluded(int32(1)), Included(int32(1)), false, -1},
	} {
		t.Run(fmt.Sprintf("%s/%s min=%v = %d", testcase.left, testcase.right, testcase.isMin, testcase.res), func(t *testing.T) {
			res, ok := boundCompare(testcase.left, testcase.right, Int32, testcase.isMin)
			assert.True(t, ok)
			assert.Equal(t, testcase.res, res)
		})
	}
}

func TestBoundCompareNull(t *testing.T) {
	_, ok := boundCompare(Included(nil), Included(int32(1)), Int32, true)
	require.False(t, ok)
	_, ok = boundCompare(Included(int32(1)), Excluded(nil), Int32, false)
	require.False(t, ok)
}

func TestScopeAggregationEqNotEq(t *testing.T) {
	require := require.New(t)

	r := AndRange(
		EqRange(Int32, int32(0)),
		NotEqRange(Int32, int32(1)),
		EqRange(Int32, int32(2)),
		NotEqRange(Int32, int32(3)),
	)
	require.NoError(r.ScopeAggregation())

	require.Equal(AndRange(
		EqRange(Int32, int32(0)),
		EqRange(Int32, int32(2)),
	), r)
}

func TestScopeAggregationEqNotEqCover(t *testing.T) {
	require := require.New(t)

	r := AndRange(
		EqRange(Int32, int32(0)),
		NotEqRange(Int32, int32(1)),
		EqRange(Int32, int32(2)),
		NotEqRange(Int32, int32(3)),

		NotEqRange(Int32, int32(0)),
		NotEqRange(Int32, int32(1)),
		NotEqRange(Int32, int32(2)),
		NotEqRange(Int32, int32(3)),
	)
	require.NoError(r.ScopeAggregation())

	require.Equal(AndRange(), r)
}

func TestScopeAggregationScope(t *testing.T) {
	require := require.New(t)

	r := AndRange(
		ScopeRange(Int32, Excluded(int32(0)), Included(int32(3))),
		ScopeRange(Int32, Included(int32(1)), Excluded(int32(2))),
		ScopeRange(Int32, Excluded(int32(1)), Included(int32(2))),
		ScopeRange(Int32, Included(int32(0)), Excluded(int32(3))),
		ScopeRange(Int32, Unbounded, Unbounded),
	)
	require.NoError(r.ScopeAggregation())

	require.Equal(AndRange(
		ScopeRange(Int32, Excluded(int32(1)), Excluded(int32(2))),
	), r)
}

func TestScopeAggregationMixed(t *testing.T) {
	require := require.New(t)

	r := AndRange(
		ScopeRange(Int32, Excluded(int32(0)), Included(int32(3))),
		ScopeRange(Int32, Included(int32(1)), Excluded(int32(2))),
		ScopeRange(Int32, Excluded(int32(1)), Included(int32(2))),
		ScopeRange(Int32, Included(int32(0)), Excluded(int32(3))),
		ScopeRange(Int32, Unbounded, Unbounded),
		EqRange(Int32, int32(1)),
		EqRange(Int32, int32(0)),
		NotEqRange(Int32, int32(1)),
	)
	require.NoError(r.ScopeAggregation())

	require.Equal(AndRange(
		EqRange(Int32, int32(0)),
	), r)
}

func TestScopeAggregationRejectsNested(t *testing.T) {
	r := AndRange(
		AndRange(EqRange(Int32, int32(1))),
	)
	err := r.ScopeAggregation()
	require.Error(t, err)
	require.True(t, ErrInvalidRange.Is(err))
}

func TestScopeAggregationInsideOrArms(t *testing.T) {
	require := require.New(t)

	r := OrRange(
		AndRange(
			ScopeRange(Int32, Included(int32(0)), Unbounded),
			ScopeRange(Int32, Unbounded, Included(int32(5))),
		),
		AndRange(
			EqRange(Int32, int32(9)),
			EqRange(Int32, int32(7)),
		),
	)
	require.NoError(r.ScopeAggregation())

	require.Equal(OrRange(
		AndRange(ScopeRange(Int32, Included(int32(0)), Included(int32(5)))),
		AndRange(EqRange(Int32, int32(7)), EqRange(Int32, int32(9))),
	), r)
}

func TestRearrange(t *testing.T) {
	require := require.New(t)

	r := OrRange(
		ScopeRange(Int32, Excluded(int32(6)), Included(int32(10))),
		ScopeRange(Int32, Excluded(int32(0)), Included(int32(3))),
		ScopeRange(Int32, Included(int32(1)), Excluded(int32(2))),
		ScopeRange(Int32, Excluded(int32(1)), Included(int32(2))),
		ScopeRange(Int32, Included(int32(0)), Excluded(int32(3))),
		ScopeRange(Int32, Included(int32(6)), Included(int32(7))),
		ScopeRange(Int32, Unbounded, Unbounded),
		NotEqRange(Int32, int32(8)),
		EqRange(Int32, int32(5)),
		EqRange(Int32, int32(0)),
		EqRange(Int32, int32(1)),
	)

	merged, err := r.Rearrange()
	require.NoError(err)

	require.Equal([]ConstantRange{
		ScopeRange(Int32, Included(int32(0)), Included(int32(3))),
		EqRange(Int32, int32(5)),
		ScopeRange(Int32, Included(int32(6)), Included(int32(10))),
	}, merged)
}

func TestRearrangeSplicesAndArms(t *testing.T) {
	require := require.New(t)

	r := OrRange(
		AndRange(ScopeRange(Int32, Included(int32(4)), Included(int32(6)))),
		ScopeRange(Int32, Included(int32(0)), Included(int32(1))),
	)

	merged, err := r.Rearrange()
	require.NoError(err)

	require.Equal([]ConstantRange{
		ScopeRange(Int32, Included(int32(0)), Included(int32(1))),
		ScopeRange(Int32, Included(int32(4)), Included(int32(6))),
	}, merged)
}

func TestRearrangeRejectsNestedOr(t *testing.T) {
	r := OrRange(
		OrRange(EqRange(Int32, int32(1))),
	)
	_, err := r.Rearrange()
	require.Error(t, err)
	require.True(t, ErrInvalidRange.Is(err))
}

func TestRearrangeOfAndReturnsElements(t *testing.T) {
	require := require.New(t)

	r := AndRange(EqRange(Int32, int32(1)), EqRange(Int32, int32(2)))
	out, err := r.Rearrange()
	require.NoError(err)
	require.Equal(r.Ranges, out)
}

func TestRearrangeOfLeaf(t *testing.T) {
	require := require.New(t)

	leaf := EqRange(Int32, int32(3))
	out, err := leaf.Rearrange()
	require.NoError(err)
	require.Equal([]ConstantRange{leaf}, out)
}

func TestRangeContains(t *testing.T) {
	type tc struct {
		r        ConstantRange
		v        interface{}
		expected bool
	}
	for _, testcase := range []tc{
		{EqRange(Int32, int32(1)), int32(1), true},
		{EqRange(Int32, int32(1)), int32(2), false},
		{EqRange(Int32, int32(1)), nil, false},
		{NotEqRange(Int32, int32(1)), int32(2), true},
		{NotEqRange(Int32, int32(1)), int32(1), false},
		{NotEqRange(Int32, int32(1)), nil, false},
		{ScopeRange(Int32, Excluded(int32(0)), Included(int32(3))), int32(0), false},
		{ScopeRange(Int32, Excluded(int32(0)), Included(int32(3))), int32(1), true},
		{ScopeRange(Int32, Excluded(int32(0)), Included(int32(3))), int32(3), true},
		{ScopeRange(Int32, Excluded(int32(0)), Included(int32(3))), int32(4), false},
		{ScopeRange(Int32, Unbounded, Unbounded), int32(100), true},
		{ScopeRange(Int32, Unbounded, Unbounded), nil, false},
		{AndRange(EqRange(Int32, int32(1)), NotEqRange(Int32, int32(2))), int32(1), true},
		{AndRange(EqRange(Int32, int32(1)), NotEqRange(Int32, int32(1))), int32(1), false},
		{OrRange(EqRange(Int32, int32(1)), EqRange(Int32, int32(5))), int32(5), true},
		{OrRange(EqRange(Int32, int32(1)), EqRange(Int32, int32(5))), int32(3), false},
	} {
		t.Run(fmt.Sprintf("%s contains %v", testcase.r, testcase.v), func(t *testing.T) {
			ok, err := testcase.r.Contains(testcase.v)
			require.NoError(t, err)
			require.Equal(t, testcase.expected, ok)
		})
	}
}

func TestRangeIsNull(t *testing.T) {
	require := require.New(t)

	ok, err := EqRange(Int32, nil).IsNull()
	require.NoError(err)
	require.True(ok)

	ok, err = ScopeRange(Int32, Included(nil), Unbounded).IsNull()
	require.NoError(err)
	require.True(ok)

	ok, err = ScopeRange(Int32, Unbounded, Unbounded).IsNull()
	require.NoError(err)
	require.True(ok)

	ok, err = ScopeRange(Int32, Included(int32(1)), Unbounded).IsNull()
	require.NoError(err)
	require.False(ok)

	_, err = AndRange().IsNull()
	require.Error(err)
}
