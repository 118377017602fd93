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

func TestLiteral(t *testing.T) {
	require := require.New(t)

	lit := NewLiteral(int64(5), sql.Int64)
	require.True(lit.Resolved())
	require.False(lit.IsNullable())
	require.Equal(sql.Int64, lit.Type())
	require.Equal(int64(5), eval(t, lit, nil))

	null := NewLiteral(nil, sql.Null)
	require.True(null.IsNullable())
	require.Nil(eval(t, null, nil))
}

func TestGetField(t *testing.T) {
	require := require.New(t)

	get := NewGetField(1, sql.Text, "name", true)
	require.Equal(1, get.Index())
	require.Equal("name", get.Name())
	require.Equal(sql.Text, get.Type())
	require.True(get.IsNullable())

	row := sql.NewRow(int64(1), "foo")
	require.Equal("foo", eval(t, get, row))

	_, err := get.Eval(sql.NewEmptyContext(), sql.NewRow(int64(1)))
	require.Error(err)
	require.True(sql.ErrIndexOutOfBounds.Is(err))
}

func TestAliasIsTransparent(t *testing.T) {
	require := require.New(t)

	aliased := NewAlias(NewLiteral(int32(3), sql.Int32), "three")
	require.Equal("three", aliased.Name())
	require.Equal(sql.Int32, aliased.Type())
	require.Equal(int32(3), eval(t, aliased, nil))

	v, ok := unpackVal(aliased)
	require.True(ok)
	require.Equal(int32(3), v)
}

func TestConvertEval(t *testing.T) {
	require := require.New(t)

	c := NewConvert(NewLiteral("42", sql.Text), sql.Int32)
	require.Equal(sql.Int32, c.Type())
	require.Equal(int32(42), eval(t, c, nil))

	c = NewConvert(NewLiteral(nil, sql.Null), sql.Int32)
	require.Nil(eval(t, c, nil))

	c = NewConvert(NewLiteral("not a number", sql.Text), sql.Int32)
	_, err := c.Eval(sql.NewEmptyContext(), nil)
	require.Error(err)
}

func TestIsNullEval(t *testing.T) {
	require := require.New(t)

	require.Equal(true, eval(t, NewIsNull(NewLiteral(nil, sql.Null)), nil))
	require.Equal(false, eval(t, NewIsNull(NewLiteral(int64(1), sql.Int64)), nil))
	require.Equal(false, eval(t, NewIsNotNull(NewLiteral(nil, sql.Null)), nil))
	require.Equal(true, eval(t, NewIsNotNull(NewLiteral(int64(1), sql.Int64)), nil))
}

func TestUnpackVal(t *testing.T) {
	require := require.New(t)

	// ground binary trees fold through every operator layer
	e := NewBinary(Multiply,
		NewBinary(Plus, NewLiteral(int32(1), sql.Int32), NewLiteral(int32(2), sql.Int32)),
		NewLiteral(int32(3), sql.Int32),
	)
	v, ok := unpackVal(e)
	require.True(ok)
	require.Equal(int64(9), v)

	// a column anywhere in the subtree stops the fold
	_, ok = unpackVal(NewBinary(Plus, testColumn(), NewLiteral(int32(1), sql.Int32)))
	require.False(ok)

	// cast failures yield nothing instead of an error
	_, ok = unpackVal(NewConvert(NewLiteral("oops", sql.Text), sql.Int32))
	require.False(ok)

	// IS NULL folds to a boolean even when the operand is null
	v, ok = unpackVal(NewIsNull(NewLiteral(nil, sql.Null)))
	require.True(ok)
	require.Equal(true, v)
}

func TestUnpackCol(t *testing.T) {
	require := require.New(t)

	col := testColumn()

	got, ok := unpackCol(col, true)
	require.True(ok)
	require.Equal(col, got)

	// strict mode refuses to look through binary nodes
	e := NewBinary(Minus, col, NewLiteral(int32(1), sql.Int32))
	_, ok = unpackCol(e, true)
	require.False(ok)

	got, ok = unpackCol(e, false)
	require.True(ok)
	require.Equal(col, got)

	// two columns on the two sides is ambiguous
	c2 := NewGetField(1, sql.Int32, "c2", false)
	_, ok = unpackCol(NewBinary(Minus, col, c2), false)
	require.False(ok)

	// unary wrappers are transparent
	got, ok = unpackCol(NewUnary(UnaryMinus, col), true)
	require.True(ok)
	require.Equal(col, got)
}

func TestTransformUp(t *testing.T) {
	require := require.New(t)

	e := NewBinary(Gt, NewBinary(Plus, testColumn(), NewLiteral(int32(1), sql.Int32)), NewLiteral(int32(5), sql.Int32))

	transformed, err := TransformUp(e, func(e sql.Expression) (sql.Expression, error) {
		if lit, ok := e.(*Literal); ok && lit.Value() == int32(1) {
			return NewLiteral(int32(2), sql.Int32), nil
		}
		return e, nil
	})
	require.NoError(err)

	var found bool
	sql.Inspect(transformed, func(e sql.Expression) bool {
		if lit, ok := e.(*Literal); ok && lit.Value() == int32(2) {
			found = true
		}
		return true
	})
	require.True(found)
}

func TestWalkOrder(t *testing.T) {
	require := require.New(t)

	lit1 := NewLiteral(int32(1), sql.Int32)
	lit2 := NewLiteral(int32(2), sql.Int32)
	and := NewAnd(lit1, lit2)
	not := NewNot(and)

	var visited []sql.Expression
	sql.Inspect(not, func(e sql.Expression) bool {
		visited = append(visited, e)
		return true
	})

	require.Equal([]sql.Expression{not, and, lit1, lit2}, visited)
}
