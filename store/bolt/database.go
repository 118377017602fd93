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

// Package bolt provides a persistent database backed by boltdb. Rows are
// msgpack-encoded and keyed by their primary key, so range covers produced
// by the planner become bounded cursor scans.
package bolt

import (
	"strings"
	"time"

	boltdb "github.com/boltdb/bolt"
	"gopkg.in/vmihailenco/msgpack.v2"

	"github.com/loamdb/loam/sql"
)

const schemaBucket = "__schema__"

// Database is a bolt-backed database. Every table lives in its own bucket;
// table schemas are kept in a meta bucket.
type Database struct {
	name string
	db   *boltdb.DB
}

var _ sql.Database = (*Database)(nil)
var _ sql.TableCreator = (*Database)(nil)

// NewDatabase opens or creates a bolt database at the given path.
func NewDatabase(name, path string) (*Database, error) {
	db, err := boltdb.Open(path, 0600, &boltdb.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *boltdb.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(schemaBucket))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Database{name: name, db: db}, nil
}

// Close closes the underlying bolt file.
func (d *Database) Close() error {
	return d.db.Close()
}

// Name implements the Database interface.
func (d *Database) Name() string {
	return d.name
}

// Tables implements the Database interface.
func (d *Database) Tables() map[string]sql.Table {
	tables := map[string]sql.Table{}
	_ = d.db.View(func(tx *boltdb.Tx) error {
		meta := tx.Bucket([]byte(schemaBucket))
		return meta.ForEach(func(k, v []byte) error {
			schema, err := decodeSchema(v)
			if err != nil {
				return err
			}
			name := string(k)
			tables[strings.ToLower(name)] = newTable(d.db, name, schema)
			return nil
		})
	})
	return tables
}

// CreateTable implements the TableCreator interface. The schema must have an
// integer primary key column: rows are ordered by it on disk.
func (d *Database) CreateTable(ctx *sql.Context, name string, schema sql.Schema) error {
	pk := schema.PrimaryKeyIndex()
	if pk < 0 {
		return sql.ErrUnsupportedFeature.New("bolt tables require a primary key column")
	}
	if !sql.IsInteger(schema[pk].Type) {
		return sql.ErrUnsupportedFeature.New("bolt tables require an integer primary key")
	}

	encoded, err := encodeSchema(schema)
	if err != nil {
		return err
	}

	return d.db.Update(func(tx *boltdb.Tx) error {
		meta := tx.Bucket([]byte(schemaBucket))
		if meta.Get([]byte(name)) != nil {
			return sql.ErrTableAlreadyExists.New(name)
		}
		if _, err := tx.CreateBucket([]byte(name)); err != nil {
			return err
		}
		return meta.Put([]byte(name), encoded)
	})
}

type columnDef struct {
	Name       string
	Type       string
	Nullable   bool
	PrimaryKey bool
}

func encodeSchema(schema sql.Schema) ([]byte, error) {
	defs := make([]columnDef, len(schema))
	for i, col := range schema {
		defs[i] = columnDef{
			Name:       col.Name,
			Type:       col.Type.String(),
			Nullable:   col.Nullable,
			PrimaryKey: col.PrimaryKey,
		}
	}
	return msgpack.Marshal(defs)
}

func decodeSchema(data []byte) (sql.Schema, error) {
	var defs []columnDef
	if err := msgpack.Unmarshal(data, &defs); err != nil {
		return nil, err
	}
	schema := make(sql.Schema, len(defs))
	for i, def := range defs {
		typ, err := typeFromName(def.Type)
		if err != nil {
			return nil, err
		}
		schema[i] = &sql.Column{
			Name:       def.Name,
			Type:       typ,
			Nullable:   def.Nullable,
			PrimaryKey: def.PrimaryKey,
		}
	}
	return schema, nil
}

func typeFromName(name string) (sql.Type, error) {
	for _, typ := range []sql.Type{
		sql.Null, sql.Boolean,
		sql.Int8, sql.Int16, sql.Int32, sql.Int64,
		sql.Float32, sql.Float64, sql.Decimal,
		sql.Text, sql.Date, sql.Timestamp,
	} {
		if typ.String() == name {
			return typ, nil
		}
	}
	return nil, sql.ErrInvalidType.New(name)
}
