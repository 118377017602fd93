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

package memory

import (
	"strings"
	"sync"

	"github.com/loamdb/loam/sql"
)

// Database is an in-memory database.
type Database struct {
	name string

	mu     sync.RWMutex
	tables map[string]sql.Table
}

var _ sql.Database = (*Database)(nil)
var _ sql.TableCreator = (*Database)(nil)

// NewDatabase creates a new in-memory database.
func NewDatabase(name string) *Database {
	return &Database{
		name:   name,
		tables: map[string]sql.Table{},
	}
}

// Name implements the Database interface.
func (d *Database) Name() string {
	return d.name
}

// Tables implements the Database interface.
func (d *Database) Tables() map[string]sql.Table {
	d.mu.RLock()
	defer d.mu.RUnlock()
	tables := make(map[string]sql.Table, len(d.tables))
	for name, table := range d.tables {
		tables[name] = table
	}
	return tables
}

// AddTable registers an existing table in the database.
func (d *Database) AddTable(t sql.Table) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.tables[strings.ToLower(t.Name())] = t
}

// CreateTable implements the TableCreator interface.
func (d *Database) CreateTable(ctx *sql.Context, name string, schema sql.Schema) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	key := strings.ToLower(name)
	if _, ok := d.tables[key]; ok {
		return sql.ErrTableAlreadyExists.New(name)
	}
	d.tables[key] = NewTable(name, schema)
	return nil
}
