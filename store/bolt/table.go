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

package bolt

import (
	"bytes"
	"encoding/binary"

	boltdb "github.com/boltdb/bolt"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
	"gopkg.in/vmihailenco/msgpack.v2"

	"github.com/loamdb/loam/sql"
)

// Table is a bolt-backed table. Rows live in one bucket, keyed by an
// order-preserving encoding of the primary key.
type Table struct {
	db     *boltdb.DB
	name   string
	schema sql.Schema
	pk     int
}

var _ sql.Table = (*Table)(nil)
var _ sql.Inserter = (*Table)(nil)
var _ sql.RangedTable = (*Table)(nil)

func newTable(db *boltdb.DB, name string, schema sql.Schema) *Table {
	return &Table{
		db:     db,
		name:   name,
		schema: schema,
		pk:     schema.PrimaryKeyIndex(),
	}
}

// Name implements the Table interface.
func (t *Table) Name() string {
	return t.name
}

// Schema implements the Table interface.
func (t *Table) Schema() sql.Schema {
	return t.schema
}

// encodeKey maps an int64 onto big-endian bytes preserving order: the sign
// bit is flipped so that negative keys sort before positive ones.
func encodeKey(v int64) []byte {
	var key [8]byte
	binary.BigEndian.PutUint64(key[:], uint64(v)^(1<<63))
	return key[:]
}

func (t *Table) rowKey(row sql.Row) ([]byte, error) {
	v := row[t.pk]
	if v == nil {
		return nil, sql.ErrInvalidType.New("NULL primary key")
	}
	n, err := cast.ToInt64E(v)
	if err != nil {
		return nil, sql.ErrInvalidType.Wrap(err, t.schema[t.pk].Type.String())
	}
	return encodeKey(n), nil
}

// encodeRow normalizes values msgpack cannot round-trip: decimals are
// stored as strings and re-read through the column type.
func encodeRow(row sql.Row) ([]byte, error) {
	values := make([]interface{}, len(row))
	for i, v := range row {
		if d, ok := v.(decimal.Decimal); ok {
			v = d.String()
		}
		values[i] = v
	}
	return msgpack.Marshal(values)
}

func (t *Table) decodeRow(data []byte) (sql.Row, error) {
	var values []interface{}
	if err := msgpack.Unmarshal(data, &values); err != nil {
		return nil, err
	}
	row := make(sql.Row, len(values))
	for i, v := range values {
		converted, err := t.schema[i].Type.Convert(v)
		if err != nil {
			return nil, err
		}
		row[i] = converted
	}
	return row, nil
}

// Insert implements the Inserter interface.
func (t *Table) Insert(ctx *sql.Context, row sql.Row) error {
	key, err := t.rowKey(row)
	if err != nil {
		return err
	}
	value, err := encodeRow(row)
	if err != nil {
		return err
	}

	return t.db.Update(func(tx *boltdb.Tx) error {
		bucket := tx.Bucket([]byte(t.name))
		if bucket == nil {
			return sql.ErrTableNotFound.New(t.name)
		}
		if bucket.Get(key) != nil {
			return sql.ErrDuplicatePrimaryKey.New(row[t.pk], t.name)
		}
		return bucket.Put(key, value)
	})
}

// RowIter implements the Table interface.
func (t *Table) RowIter(ctx *sql.Context) (sql.RowIter, error) {
	return t.scan(nil)
}

// WithScanRanges implements the RangedTable interface.
func (t *Table) WithScanRanges(cover []sql.ConstantRange) sql.Table {
	return &rangedTable{Table: t, cover: cover}
}

// scan reads the rows of the table in primary key order. With a cover, only
// the keys each range can contain are visited: Eq ranges become point
// lookups and Scopes become bounded cursor scans; anything else degrades to
// a filtered full scan.
func (t *Table) scan(cover []sql.ConstantRange) (sql.RowIter, error) {
	var rows []sql.Row
	err := t.db.View(func(tx *boltdb.Tx) error {
		bucket := tx.Bucket([]byte(t.name))
		if bucket == nil {
			return sql.ErrTableNotFound.New(t.name)
		}

		if cover == nil {
			return bucket.ForEach(func(k, v []byte) error {
				row, err := t.decodeRow(v)
				if err != nil {
					return err
				}
				rows = append(rows, row)
				return nil
			})
		}

		for _, r := range cover {
			var err error
			rows, err = t.scanRange(bucket, r, rows)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sql.RowsToRowIter(rows...), nil
}

func (t *Table) scanRange(bucket *boltdb.Bucket, r sql.ConstantRange, rows []sql.Row) ([]sql.Row, error) {
	switch r.Kind {
	case sql.RangeEq:
		n, err := cast.ToInt64E(r.Val)
		if err != nil {
			return rows, sql.ErrInvalidType.Wrap(err, t.schema[t.pk].Type.String())
		}
		data := bucket.Get(encodeKey(n))
		if data == nil {
			return rows, nil
		}
		row, err := t.decodeRow(data)
		if err != nil {
			return rows, err
		}
		return append(rows, row), nil
	case sql.RangeScope:
		return t.scanScope(bucket, r, rows)
	default:
		// NotEq and nested forms filter a full scan
		err := bucket.ForEach(func(k, v []byte) error {
			row, err := t.decodeRow(v)
			if err != nil {
				return err
			}
			ok, err := r.Contains(row[t.pk])
			if err != nil {
				return err
			}
			if ok {
				rows = append(rows, row)
			}
			return nil
		})
		return rows, err
	}
}

func (t *Table) scanScope(bucket *boltdb.Bucket, r sql.ConstantRange, rows []sql.Row) ([]sql.Row, error) {
	cursor := bucket.Cursor()

	var k, v []byte
	switch r.Min.Type {
	case sql.BoundUnbounded:
		k, v = cursor.First()
	default:
		n, err := cast.ToInt64E(r.Min.Val)
		if err != nil {
			return rows, sql.ErrInvalidType.Wrap(err, t.schema[t.pk].Type.String())
		}
		min := encodeKey(n)
		k, v = cursor.Seek(min)
		if r.Min.Type == sql.BoundExcluded && k != nil && bytes.Equal(k, min) {
			k, v = cursor.Next()
		}
	}

	for ; k != nil; k, v = cursor.Next() {
		if r.Max.Type != sql.BoundUnbounded {
			n, err := cast.ToInt64E(r.Max.Val)
			if err != nil {
				return rows, sql.ErrInvalidType.Wrap(err, t.schema[t.pk].Type.String())
			}
			max := encodeKey(n)
			order := bytes.Compare(k, max)
			if order > 0 || (order == 0 && r.Max.Type == sql.BoundExcluded) {
				break
			}
		}

		row, err := t.decodeRow(v)
		if err != nil {
			return rows, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// rangedTable is a view of a bolt table restricted to a range cover.
type rangedTable struct {
	*Table
	cover []sql.ConstantRange
}

func (t *rangedTable) RowIter(ctx *sql.Context) (sql.RowIter, error) {
	if len(t.cover) == 0 {
		return t.Table.RowIter(ctx)
	}
	return t.scan(t.cover)
}
