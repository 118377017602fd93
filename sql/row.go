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

import "io"

// Row is a tuple of values, one per column of the producing node's schema.
// A nil element is SQL NULL.
type Row []interface{}

// NewRow creates a row from the given values.
func NewRow(values ...interface{}) Row {
	row := make(Row, len(values))
	copy(row, values)
	return row
}

// Copy returns a copy of the row.
func (r Row) Copy() Row {
	return NewRow(r...)
}

// Append concatenates two rows into a new one.
func (r Row) Append(r2 Row) Row {
	row := make(Row, 0, len(r)+len(r2))
	row = append(row, r...)
	return append(row, r2...)
}

// RowsToRowIter creates a RowIter over the given rows.
func RowsToRowIter(rows ...Row) RowIter {
	return &sliceRowIter{rows: rows}
}

type sliceRowIter struct {
	rows []Row
	pos  int
}

func (i *sliceRowIter) Next() (Row, error) {
	if i.pos >= len(i.rows) {
		return nil, io.EOF
	}
	row := i.rows[i.pos]
	i.pos++
	return row, nil
}

func (i *sliceRowIter) Close() error {
	i.rows = nil
	return nil
}

// RowIterToRows drains an iterator into a slice, closing it.
func RowIterToRows(iter RowIter) ([]Row, error) {
	var rows []Row
	for {
		row, err := iter.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			_ = iter.Close()
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, iter.Close()
}
