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
	"reflect"

	"github.com/mitchellh/hashstructure"

	"github.com/loamdb/loam/sql"
)

// HashJoin is an inner equi-join. The left side is materialized into a hash
// table keyed by the left key expressions; the right side streams and
// probes.
type HashJoin struct {
	BinaryNode
	LeftKeys  []sql.Expression
	RightKeys []sql.Expression
}

// NewHashJoin creates an inner hash join of the two nodes over the given key
// expressions.
func NewHashJoin(left, right sql.Node, leftKeys, rightKeys []sql.Expression) *HashJoin {
	return &HashJoin{
		BinaryNode: BinaryNode{Left: left, Right: right},
		LeftKeys:   leftKeys,
		RightKeys:  rightKeys,
	}
}

// Schema implements the Node interface.
func (j *HashJoin) Schema() sql.Schema {
	left, right := j.Left.Schema(), j.Right.Schema()
	schema := make(sql.Schema, 0, len(left)+len(right))
	schema = append(schema, left...)
	return append(schema, right...)
}

// Resolved implements the Node interface.
func (j *HashJoin) Resolved() bool {
	if !j.BinaryNode.Resolved() {
		return false
	}
	for _, keys := range [][]sql.Expression{j.LeftKeys, j.RightKeys} {
		for _, e := range keys {
			if !e.Resolved() {
				return false
			}
		}
	}
	return true
}

// RowIter implements the Node interface.
func (j *HashJoin) RowIter(ctx *sql.Context) (sql.RowIter, error) {
	span, ctx := ctx.Span("plan.HashJoin")

	leftIter, err := j.Left.RowIter(ctx)
	if err != nil {
		span.Finish()
		return nil, err
	}
	buckets, err := buildHashTable(ctx, leftIter, j.LeftKeys)
	if err != nil {
		span.Finish()
		return nil, err
	}

	rightIter, err := j.Right.RowIter(ctx)
	if err != nil {
		span.Finish()
		return nil, err
	}
	return sql.NewSpanIter(span, &hashJoinIter{
		buckets:   buckets,
		rightIter: rightIter,
		rightKeys: j.RightKeys,
		ctx:       ctx,
	}), nil
}

func (j *HashJoin) String() string {
	return fmt.Sprintf("HashJoin\n ├─ %s\n └─ %s", j.Left, j.Right)
}

// WithChildren implements the Node interface.
func (j *HashJoin) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != 2 {
		return nil, sql.ErrInvalidChildrenNumber.New(2, j, len(children))
	}
	return NewHashJoin(children[0], children[1], j.LeftKeys, j.RightKeys), nil
}

type hashBucket struct {
	key  []interface{}
	rows []sql.Row
}

func evalKey(ctx *sql.Context, keys []sql.Expression, row sql.Row) ([]interface{}, uint64, error) {
	vals := make([]interface{}, len(keys))
	for i, k := range keys {
		v, err := k.Eval(ctx, row)
		if err != nil {
			return nil, 0, err
		}
		vals[i] = v
	}
	hash, err := hashstructure.Hash(vals, nil)
	if err != nil {
		return nil, 0, err
	}
	return vals, hash, nil
}

func buildHashTable(ctx *sql.Context, iter sql.RowIter, keys []sql.Expression) (map[uint64][]*hashBucket, error) {
	buckets := make(map[uint64][]*hashBucket)
	for {
		row, err := iter.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			_ = iter.Close()
			return nil, err
		}

		vals, hash, err := evalKey(ctx, keys, row)
		if err != nil {
			_ = iter.Close()
			return nil, err
		}
		if containsNil(vals) {
			continue
		}

		var bucket *hashBucket
		for _, b := range buckets[hash] {
			if reflect.DeepEqual(b.key, vals) {
				bucket = b
				break
			}
		}
		if bucket == nil {
			bucket = &hashBucket{key: vals}
			buckets[hash] = append(buckets[hash], bucket)
		}
		bucket.rows = append(bucket.rows, row)
	}
	return buckets, iter.Close()
}

func containsNil(vals []interface{}) bool {
	for _, v := range vals {
		if v == nil {
			return true
		}
	}
	return false
}

type hashJoinIter struct {
	buckets   map[uint64][]*hashBucket
	rightIter sql.RowIter
	rightKeys []sql.Expression
	ctx       *sql.Context

	pending []sql.Row
	current sql.Row
}

func (i *hashJoinIter) Next() (sql.Row, error) {
	for {
		if len(i.pending) > 0 {
			left := i.pending[0]
			i.pending = i.pending[1:]
			return left.Append(i.current), nil
		}

		row, err := i.rightIter.Next()
		if err != nil {
			return nil, err
		}

		vals, hash, err := evalKey(i.ctx, i.rightKeys, row)
		if err != nil {
			return nil, err
		}
		if containsNil(vals) {
			continue
		}

		for _, b := range i.buckets[hash] {
			if reflect.DeepEqual(b.key, vals) {
				i.pending = b.rows
				i.current = row
				break
			}
		}
	}
}

func (i *hashJoinIter) Close() error {
	return i.rightIter.Close()
}
