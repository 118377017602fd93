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
	"gopkg.in/src-d/go-errors.v1"
)

var (
	// ErrInvalidType is returned when an operation is applied to a value of
	// an incompatible type, or a cast between two types is not possible.
	ErrInvalidType = errors.NewKind("invalid type: %s")

	// ErrValueOutOfRange is returned when a value does not fit the target
	// type during conversion.
	ErrValueOutOfRange = errors.NewKind("value %v is out of range for type %s")

	// ErrNilComparison is returned by Type.Compare when either operand is
	// NULL. Comparisons involving NULL have no ordering under SQL semantics.
	ErrNilComparison = errors.NewKind("cannot compare a nil value")

	// ErrInvalidRange is returned by the range normalizers when they find a
	// malformed ConstantRange, such as a nested And inside an aggregated And.
	ErrInvalidRange = errors.NewKind("invalid constant range: %s")

	// ErrUnsupportedRangeOp is returned when a boolean operator cannot be
	// lowered into the range algebra.
	ErrUnsupportedRangeOp = errors.NewKind("unsupported operator in range conversion: %s")

	// ErrIndexOutOfBounds is returned when a field index does not address a
	// column of the row being evaluated.
	ErrIndexOutOfBounds = errors.NewKind("unable to find field with index %d in row of %d columns")

	// ErrInvalidChildrenNumber is returned from WithChildren when the number
	// of children does not match the node.
	ErrInvalidChildrenNumber = errors.NewKind("expecting %d children for node %T, got %d")

	// ErrUnresolvedExpression is returned when an expression that has not
	// been bound to a column is evaluated.
	ErrUnresolvedExpression = errors.NewKind("expression %q is unresolved, it cannot be evaluated")

	// ErrColumnNotFound is returned when a named column is not part of the
	// schema in scope.
	ErrColumnNotFound = errors.NewKind("column %q could not be found in any table in scope")

	// ErrTableNotFound is returned when a table is not registered in the
	// database.
	ErrTableNotFound = errors.NewKind("table not found: %s")

	// ErrDatabaseNotFound is returned when a database is not registered in
	// the catalog.
	ErrDatabaseNotFound = errors.NewKind("database not found: %s")

	// ErrTableAlreadyExists is returned by CREATE TABLE when the name is
	// already taken.
	ErrTableAlreadyExists = errors.NewKind("table with name %s already exists")

	// ErrInsertIntoNotSupported is returned when the destination table is
	// not writable.
	ErrInsertIntoNotSupported = errors.NewKind("table %s cannot be written to")

	// ErrDuplicatePrimaryKey is returned when an insert collides with an
	// existing primary key value.
	ErrDuplicatePrimaryKey = errors.NewKind("duplicate primary key %v in table %s")

	// ErrUnsupportedFeature is returned for constructs this engine does not
	// implement.
	ErrUnsupportedFeature = errors.NewKind("unsupported feature: %s")
)
