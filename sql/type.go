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
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

// Type represents a SQL scalar type. Values of a type are totally ordered,
// except that NULL compares with nothing: Compare returns ErrNilComparison
// when either operand is nil.
type Type interface {
	String() string
	// Zero returns the zero value of the type.
	Zero() interface{}
	// Convert casts a value to the canonical representation of the type. A
	// nil value converts to nil.
	Convert(v interface{}) (interface{}, error)
	// Compare returns an integer comparing two values of the type.
	Compare(a, b interface{}) (int, error)
}

var (
	// Null represents the type of NULL literals.
	Null Type = nullType{}
	// Boolean is a boolean type.
	Boolean Type = booleanType{}
	// Int8 is an 8-bit integer type.
	Int8 Type = numberType{name: "TINYINT", kind: kindInt8}
	// Int16 is a 16-bit integer type.
	Int16 Type = numberType{name: "SMALLINT", kind: kindInt16}
	// Int32 is a 32-bit integer type.
	Int32 Type = numberType{name: "INT", kind: kindInt32}
	// Int64 is a 64-bit integer type.
	Int64 Type = numberType{name: "BIGINT", kind: kindInt64}
	// Float32 is a 32-bit floating point type.
	Float32 Type = numberType{name: "FLOAT", kind: kindFloat32}
	// Float64 is a 64-bit floating point type.
	Float64 Type = numberType{name: "DOUBLE", kind: kindFloat64}
	// Decimal is an arbitrary precision decimal type.
	Decimal Type = decimalType{}
	// Text is a string type.
	Text Type = textType{}
	// Date is a date type without time of day.
	Date Type = dateType{}
	// Timestamp is a date and time type.
	Timestamp Type = timestampType{}
)

const (
	// DateLayout is the layout of Date values.
	DateLayout = "2006-01-02"
	// TimestampLayout is the layout of Timestamp values.
	TimestampLayout = "2006-01-02 15:04:05"
)

type numberKind byte

const (
	kindInt8 numberKind = iota
	kindInt16
	kindInt32
	kindInt64
	kindFloat32
	kindFloat64
)

type nullType struct{}

func (t nullType) String() string    { return "NULL" }
func (t nullType) Zero() interface{} { return nil }

func (t nullType) Convert(v interface{}) (interface{}, error) {
	return nil, nil
}

func (t nullType) Compare(a, b interface{}) (int, error) {
	return 0, ErrNilComparison.New()
}

type booleanType struct{}

func (t booleanType) String() string    { return "BOOLEAN" }
func (t booleanType) Zero() interface{} { return false }

func (t booleanType) Convert(v interface{}) (interface{}, error) {
	if v == nil {
		return nil, nil
	}
	b, err := cast.ToBoolE(v)
	if err != nil {
		return nil, ErrInvalidType.Wrap(err, t.String())
	}
	return b, nil
}

func (t booleanType) Compare(a, b interface{}) (int, error) {
	if a == nil || b == nil {
		return 0, ErrNilComparison.New()
	}
	ab, err := cast.ToBoolE(a)
	if err != nil {
		return 0, ErrInvalidType.Wrap(err, t.String())
	}
	bb, err := cast.ToBoolE(b)
	if err != nil {
		return 0, ErrInvalidType.Wrap(err, t.String())
	}
	switch {
	case ab == bb:
		return 0, nil
	case !ab:
		return -1, nil
	default:
		return 1, nil
	}
}

type numberType struct {
	name string
	kind numberKind
}

func (t numberType) String() string { return t.name }

func (t numberType) Zero() interface{} {
	switch t.kind {
	case kindInt8:
		return int8(0)
	case kindInt16:
		return int16(0)
	case kindInt32:
		return int32(0)
	case kindInt64:
		return int64(0)
	case kindFloat32:
		return float32(0)
	default:
		return float64(0)
	}
}

func (t numberType) Convert(v interface{}) (interface{}, error) {
	if v == nil {
		return nil, nil
	}

	switch t.kind {
	case kindFloat32:
		f, err := cast.ToFloat64E(v)
		if err != nil {
			return nil, ErrInvalidType.Wrap(err, t.String())
		}
		return float32(f), nil
	case kindFloat64:
		f, err := cast.ToFloat64E(v)
		if err != nil {
			return nil, ErrInvalidType.Wrap(err, t.String())
		}
		return f, nil
	}

	n, err := cast.ToInt64E(v)
	if err != nil {
		return nil, ErrInvalidType.Wrap(err, t.String())
	}

	switch t.kind {
	case kindInt8:
		if n < math.MinInt8 || n > math.MaxInt8 {
			return nil, ErrValueOutOfRange.New(v, t)
		}
		return int8(n), nil
	case kindInt16:
		if n < math.MinInt16 || n > math.MaxInt16 {
			return nil, ErrValueOutOfRange.New(v, t)
		}
		return int16(n), nil
	case kindInt32:
		if n < math.MinInt32 || n > math.MaxInt32 {
			return nil, ErrValueOutOfRange.New(v, t)
		}
		return int32(n), nil
	default:
		return n, nil
	}
}

func (t numberType) Compare(a, b interface{}) (int, error) {
	if a == nil || b == nil {
		return 0, ErrNilComparison.New()
	}

	if t.kind == kindFloat32 || t.kind == kindFloat64 {
		af, err := cast.ToFloat64E(a)
		if err != nil {
			return 0, ErrInvalidType.Wrap(err, t.String())
		}
		bf, err := cast.ToFloat64E(b)
		if err != nil {
			return 0, ErrInvalidType.Wrap(err, t.String())
		}
		switch {
		case af < bf:
			return -1, nil
		case af > bf:
			return 1, nil
		default:
			return 0, nil
		}
	}

	ai, err := cast.ToInt64E(a)
	if err != nil {
		return 0, ErrInvalidType.Wrap(err, t.String())
	}
	bi, err := cast.ToInt64E(b)
	if err != nil {
		return 0, ErrInvalidType.Wrap(err, t.String())
	}
	switch {
	case ai < bi:
		return -1, nil
	case ai > bi:
		return 1, nil
	default:
		return 0, nil
	}
}

type decimalType struct{}

func (t decimalType) String() string    { return "DECIMAL" }
func (t decimalType) Zero() interface{} { return decimal.Zero }

func (t decimalType) Convert(v interface{}) (interface{}, error) {
	if v == nil {
		return nil, nil
	}
	switch v := v.(type) {
	case decimal.Decimal:
		return v, nil
	case float32:
		return decimal.NewFromFloat(float64(v)), nil
	case float64:
		return decimal.NewFromFloat(v), nil
	}

	s, err := cast.ToStringE(v)
	if err != nil {
		return nil, ErrInvalidType.Wrap(err, t.String())
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, ErrInvalidType.Wrap(err, t.String())
	}
	return d, nil
}

func (t decimalType) Compare(a, b interface{}) (int, error) {
	if a == nil || b == nil {
		return 0, ErrNilComparison.New()
	}
	ad, err := t.Convert(a)
	if err != nil {
		return 0, err
	}
	bd, err := t.Convert(b)
	if err != nil {
		return 0, err
	}
	return ad.(decimal.Decimal).Cmp(bd.(decimal.Decimal)), nil
}

type textType struct{}

func (t textType) String() string    { return "TEXT" }
func (t textType) Zero() interface{} { return "" }

func (t textType) Convert(v interface{}) (interface{}, error) {
	if v == nil {
		return nil, nil
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return nil, ErrInvalidType.Wrap(err, t.String())
	}
	return s, nil
}

func (t textType) Compare(a, b interface{}) (int, error) {
	if a == nil || b == nil {
		return 0, ErrNilComparison.New()
	}
	as, err := cast.ToStringE(a)
	if err != nil {
		return 0, ErrInvalidType.Wrap(err, t.String())
	}
	bs, err := cast.ToStringE(b)
	if err != nil {
		return 0, ErrInvalidType.Wrap(err, t.String())
	}
	return strings.Compare(as, bs), nil
}

type dateType struct{}

func (t dateType) String() string    { return "DATE" }
func (t dateType) Zero() interface{} { return time.Time{} }

func (t dateType) Convert(v interface{}) (interface{}, error) {
	if v == nil {
		return nil, nil
	}
	tm, err := cast.ToTimeE(v)
	if err != nil {
		return nil, ErrInvalidType.Wrap(err, t.String())
	}
	return truncateDate(tm), nil
}

func (t dateType) Compare(a, b interface{}) (int, error) {
	return compareTimes(t, a, b)
}

type timestampType struct{}

func (t timestampType) String() string    { return "TIMESTAMP" }
func (t timestampType) Zero() interface{} { return time.Time{} }

func (t timestampType) Convert(v interface{}) (interface{}, error) {
	if v == nil {
		return nil, nil
	}
	tm, err := cast.ToTimeE(v)
	if err != nil {
		return nil, ErrInvalidType.Wrap(err, t.String())
	}
	return tm.UTC(), nil
}

func (t timestampType) Compare(a, b interface{}) (int, error) {
	return compareTimes(t, a, b)
}

func compareTimes(t Type, a, b interface{}) (int, error) {
	if a == nil || b == nil {
		return 0, ErrNilComparison.New()
	}
	av, err := t.Convert(a)
	if err != nil {
		return 0, err
	}
	bv, err := t.Convert(b)
	if err != nil {
		return 0, err
	}
	at, bt := av.(time.Time), bv.(time.Time)
	switch {
	case at.Before(bt):
		return -1, nil
	case at.After(bt):
		return 1, nil
	default:
		return 0, nil
	}
}

func truncateDate(t time.Time) time.Time {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// IsInteger reports whether t is an integer type.
func IsInteger(t Type) bool {
	n, ok := t.(numberType)
	return ok && n.kind != kindFloat32 && n.kind != kindFloat64
}

// IsFloat reports whether t is a floating point type.
func IsFloat(t Type) bool {
	n, ok := t.(numberType)
	return ok && (n.kind == kindFloat32 || n.kind == kindFloat64)
}

// IsDecimal reports whether t is the decimal type.
func IsDecimal(t Type) bool {
	_, ok := t.(decimalType)
	return ok
}

// IsNumber reports whether t is a numeric type.
func IsNumber(t Type) bool {
	return IsInteger(t) || IsFloat(t) || IsDecimal(t)
}

// IsText reports whether t is a string type.
func IsText(t Type) bool {
	_, ok := t.(textType)
	return ok
}

// IsNullType reports whether t is the type of NULL literals.
func IsNullType(t Type) bool {
	_, ok := t.(nullType)
	return ok
}
