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
	"strings"
	"sync"
)

// Database is a collection of tables.
type Database interface {
	Name() string
	Tables() map[string]Table
}

// Table is a readable relation.
type Table interface {
	Name() string
	Schema() Schema
	RowIter(ctx *Context) (RowIter, error)
}

// Inserter is a table rows can be appended to.
type Inserter interface {
	Insert(ctx *Context, row Row) error
}

// RangedTable is a table that can restrict its scan to a cover of constant
// ranges over its primary key column.
type RangedTable interface {
	Table
	// WithScanRanges returns a view of the table that only produces rows
	// whose primary key value satisfies the cover.
	WithScanRanges(cover []ConstantRange) Table
}

// TableCreator is a database that supports CREATE TABLE.
type TableCreator interface {
	Database
	CreateTable(ctx *Context, name string, schema Schema) error
}

// Catalog holds the databases known to the engine.
type Catalog struct {
	mu      sync.RWMutex
	dbs     map[string]Database
	current string
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{dbs: map[string]Database{}}
}

// AddDatabase registers a database. The first database registered becomes the
// current one.
func (c *Catalog) AddDatabase(db Database) {
	c.mu.Lock()
	defer c.mu.Unlock()
	name := strings.ToLower(db.Name())
	if len(c.dbs) == 0 {
		c.current = name
	}
	c.dbs[name] = db
}

// SetCurrentDatabase changes the database unqualified table names resolve
// against.
func (c *Catalog) SetCurrentDatabase(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = strings.ToLower(name)
}

// Database returns the database with the given name, or the current database
// if name is empty.
func (c *Catalog) Database(name string) (Database, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if name == "" {
		name = c.current
	}
	db, ok := c.dbs[strings.ToLower(name)]
	if !ok {
		return nil, ErrDatabaseNotFound.New(name)
	}
	return db, nil
}

// Table returns the named table of the given database.
func (c *Catalog) Table(dbName, tableName string) (Table, error) {
	db, err := c.Database(dbName)
	if err != nil {
		return nil, err
	}
	tables := db.Tables()
	if table, ok := tables[strings.ToLower(tableName)]; ok {
		return table, nil
	}
	for name, table := range tables {
		if strings.EqualFold(name, tableName) {
			return table, nil
		}
	}
	return nil, ErrTableNotFound.New(tableName)
}
