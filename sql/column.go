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

// Column is the definition of a table column.
type Column struct {
	// Name of the column.
	Name string
	// Type of the column values.
	Type Type
	// Nullable is true if the column accepts NULL.
	Nullable bool
	// Source is the name of the table this column came from.
	Source string
	// PrimaryKey is true if the column is part of the primary key.
	PrimaryKey bool
}

// Schema is the definition of a set of columns.
type Schema []*Column

// IndexOf returns the position of the named column in the schema, or -1.
func (s Schema) IndexOf(name string) int {
	for i, col := range s {
		if col.Name == name {
			return i
		}
	}
	return -1
}

// PrimaryKeyIndex returns the position of the first primary key column, or -1
// if the schema has no primary key.
func (s Schema) PrimaryKeyIndex() int {
	for i, col := range s {
		if col.PrimaryKey {
			return i
		}
	}
	return -1
}

// Contains reports whether the schema has a column with the given name.
func (s Schema) Contains(name string) bool {
	return s.IndexOf(name) >= 0
}
