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
	"fmt"
	"sort"
	"strings"
)

// RangeKind tags the variants of ConstantRange.
type RangeKind byte

const (
	// RangeEq restricts the column to a single value.
	RangeEq RangeKind = iota
	// RangeNotEq excludes a single value.
	RangeNotEq
	// RangeScope restricts the column to an interval.
	RangeScope
	// RangeAnd is an intersection. It may only contain Scope, Eq and NotEq.
	RangeAnd
	// RangeOr is a union. It may only contain Scope, Eq, NotEq and And.
	RangeOr
)

func (k RangeKind) String() string {
	switch k {
	case RangeEq:
		return "Eq"
	case RangeNotEq:
		return "NotEq"
	case RangeScope:
		return "Scope"
	case RangeAnd:
		return "And"
	default:
		return "Or"
	}
}

// BoundType tags the variants of an interval bound.
type BoundType byte

const (
	// BoundUnbounded is an infinite bound.
	BoundUnbounded BoundType = iota
	// BoundIncluded is a closed bound.
	BoundIncluded
	// BoundExcluded is an open bound.
	BoundExcluded
)

// Bound is one end of a Scope interval.
type Bound struct {
	Type BoundType
	Val  interface{}
}

// Unbounded is the infinite bound.
var Unbounded = Bound{Type: BoundUnbounded}

// Included returns a closed bound at v.
func Included(v interface{}) Bound {
	return Bound{Type: BoundIncluded, Val: v}
}

// Excluded returns an open bound at v.
func Excluded(v interface{}) Bound {
	return Bound{Type: BoundExcluded, Val: v}
}

func (b Bound) String() string {
	switch b.Type {
	case BoundUnbounded:
		return "unbounded"
	case BoundIncluded:
		return fmt.Sprintf("[%v", b.Val)
	default:
		return fmt.Sprintf("(%v", b.Val)
	}
}

// ConstantRange is the value-set algebra of a single column, produced by
// lowering a predicate restricted to that column. It is used by index access
// planning and by ranged table scans.
type ConstantRange struct {
	Kind RangeKind
	// Typ is the value domain of a leaf range. It is unset on And and Or.
	Typ Type
	// Val is the value of an Eq or NotEq leaf.
	Val interface{}
	// Min and Max are the bounds of a Scope leaf.
	Min, Max Bound
	// Ranges are the elements of an And or Or.
	Ranges []ConstantRange
}

// EqRange returns a range restricting the column to v.
func EqRange(typ Type, v interface{}) ConstantRange {
	return ConstantRange{Kind: RangeEq, Typ: typ, Val: v}
}

// NotEqRange returns a range excluding v.
func NotEqRange(typ Type, v interface{}) ConstantRange {
	return ConstantRange{Kind: RangeNotEq, Typ: typ, Val: v}
}

// ScopeRange returns an interval range.
func ScopeRange(typ Type, min, max Bound) ConstantRange {
	return ConstantRange{Kind: RangeScope, Typ: typ, Min: min, Max: max}
}

// AndRange returns the intersection of the given ranges.
func AndRange(ranges ...ConstantRange) ConstantRange {
	return ConstantRange{Kind: RangeAnd, Ranges: append([]ConstantRange{}, ranges...)}
}

// OrRange returns the union of the given ranges.
func OrRange(ranges ...ConstantRange) ConstantRange {
	return ConstantRange{Kind: RangeOr, Ranges: append([]ConstantRange{}, ranges...)}
}

func (r ConstantRange) String() string {
	switch r.Kind {
	case RangeEq:
		return fmt.Sprintf("=%v", r.Val)
	case RangeNotEq:
		return fmt.Sprintf("<>%v", r.Val)
	case RangeScope:
		return fmt.Sprintf("{%s, %s}", r.Min, r.Max)
	default:
		elems := make([]string, len(r.Ranges))
		for i, e := range r.Ranges {
			elems[i] = e.String()
		}
		return fmt.Sprintf("%s(%s)", r.Kind, strings.Join(elems, ", "))
	}
}

// IsNull reports whether the range carries a NULL value in any of its bounds,
// or is the universal interval. Such ranges are opaque to planning.
func (r ConstantRange) IsNull() (bool, error) {
	switch r.Kind {
	case RangeScope:
		for _, b := range []Bound{r.Min, r.Max} {
			if b.Type != BoundUnbounded && b.Val == nil {
				return true, nil
			}
		}
		return r.Min.Type == BoundUnbounded && r.Max.Type == BoundUnbounded, nil
	case RangeEq, RangeNotEq:
		return r.Val == nil, nil
	default:
		return false, ErrInvalidRange.New("IsNull is undefined for And and Or")
	}
}

// boundCompare orders two bounds over the same value domain. isMin selects
// whether Unbounded stands for minus infinity (lower bounds) or plus infinity
// (upper bounds). Between equal values an Excluded lower bound is greater than
// an Included one, and an Excluded upper bound is less than an Included one.
// The second return is false when the values have no ordering (NULL involved);
// callers decide how to degrade.
func boundCompare(left, right Bound, typ Type, isMin bool) (int, bool) {
	direct := func(order int) int {
		if isMin {
			return order
		}
		return -order
	}

	switch {
	case left.Type == BoundUnbounded && right.Type == BoundUnbounded:
		return 0, true
	case left.Type == BoundUnbounded:
		return direct(-1), true
	case right.Type == BoundUnbounded:
		return direct(1), true
	}

	if typ == nil {
		return 0, false
	}
	order, err := typ.Compare(left.Val, right.Val)
	if err != nil {
		return 0, false
	}
	if order != 0 {
		return order, true
	}

	switch {
	case left.Type == BoundIncluded && right.Type == BoundExcluded:
		return direct(-1), true
	case left.Type == BoundExcluded && right.Type == BoundIncluded:
		return direct(1), true
	default:
		return 0, true
	}
}

// ScopeAggregation narrows an And to its normal form: a sorted deduplicated
// list of Eq if any Eq survives NotEq filtering, else a single tightest
// Scope, else empty. Applied to an Or it normalizes each arm.
func (r *ConstantRange) ScopeAggregation() error {
	switch r.Kind {
	case RangeAnd:
		return scopeAggregate(&r.Ranges)
	case RangeOr:
		for i := range r.Ranges {
			if err := r.Ranges[i].ScopeAggregation(); err != nil {
				return err
			}
		}
	}
	return nil
}

func rangeSortKey(r ConstantRange) int {
	switch r.Kind {
	case RangeAnd, RangeOr:
		return 0
	case RangeEq:
		return 1
	case RangeNotEq:
		return 2
	default:
		return 3
	}
}

func scopeAggregate(ranges *[]ConstantRange) error {
	scopeMin, scopeMax := Unbounded, Unbounded
	var typ Type
	var eqVals []interface{}

	sorted := append([]ConstantRange{}, *ranges...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return rangeSortKey(sorted[i]) < rangeSortKey(sorted[j])
	})

	for _, b := range sorted {
		switch b.Kind {
		case RangeScope:
			// Eq and NotEq dominate: once any Eq has been seen, interval
			// elements are ignored.
			if len(eqVals) > 0 {
				continue
			}
			if typ == nil {
				typ = b.Typ
			}
			if order, ok := boundCompare(scopeMin, b.Min, b.Typ, true); ok && order < 0 {
				scopeMin = b.Min
			}
			if order, ok := boundCompare(scopeMax, b.Max, b.Typ, false); ok && order > 0 {
				scopeMax = b.Max
			}
		case RangeEq:
			if typ == nil {
				typ = b.Typ
			}
			if !valsContain(eqVals, b.Val, b.Typ) {
				eqVals = append(eqVals, b.Val)
			}
		case RangeNotEq:
			eqVals = valsRemove(eqVals, b.Val, b.Typ)
		default:
			return ErrInvalidRange.New("And or Or inside an aggregated And")
		}
	}

	switch {
	case len(eqVals) > 0:
		sort.SliceStable(eqVals, func(i, j int) bool {
			order, err := typ.Compare(eqVals[i], eqVals[j])
			if err != nil {
				return false
			}
			return order < 0
		})
		out := make([]ConstantRange, len(eqVals))
		for i, v := range eqVals {
			out[i] = EqRange(typ, v)
		}
		*ranges = out
	case scopeMin.Type != BoundUnbounded || scopeMax.Type != BoundUnbounded:
		*ranges = []ConstantRange{ScopeRange(typ, scopeMin, scopeMax)}
	default:
		*ranges = []ConstantRange{}
	}
	return nil
}

func valsContain(vals []interface{}, v interface{}, typ Type) bool {
	for _, existing := range vals {
		if order, err := typ.Compare(existing, v); err == nil && order == 0 {
			return true
		}
	}
	return false
}

func valsRemove(vals []interface{}, v interface{}, typ Type) []interface{} {
	out := vals[:0]
	for _, existing := range vals {
		if order, err := typ.Compare(existing, v); err == nil && order == 0 {
			continue
		}
		out = append(out, existing)
	}
	return out
}

// Rearrange flattens an Or into a cover sorted by lower bound with
// overlapping Scopes merged. Universal Scopes are dropped, And arms are
// spliced in, and a nested Or is rejected. An And is returned as its element
// list (the caller is expected to have run ScopeAggregation); a leaf is
// returned alone.
func (r ConstantRange) Rearrange() ([]ConstantRange, error) {
	switch r.Kind {
	case RangeOr:
		var conds []ConstantRange
		for _, b := range r.Ranges {
			switch b.Kind {
			case RangeOr:
				return nil, ErrInvalidRange.New("Or nested inside Or")
			case RangeAnd:
				conds = append(conds, b.Ranges...)
			case RangeScope:
				if b.Min.Type == BoundUnbounded && b.Max.Type == BoundUnbounded {
					continue
				}
				conds = append(conds, b)
			default:
				conds = append(conds, b)
			}
		}

		sort.SliceStable(conds, func(i, j int) bool {
			order, ok := boundCompare(lowerBound(conds[i]), lowerBound(conds[j]), conds[i].Typ, true)
			if !ok {
				order = 0
			}
			return order < 0
		})

		merged := []ConstantRange{}
		for _, cond := range conds {
			condMin, condMax := mergeBounds(cond)
			isPush := true

			for i := len(merged) - 1; i >= 0; i-- {
				if merged[i].Kind != RangeScope {
					continue
				}
				isPush = false
				isLtMin := mergeCompare(merged[i].Max, condMin, cond.Typ) < 0
				isLtMax := mergeCompare(merged[i].Max, condMax, cond.Typ) < 0

				if !isLtMin && isLtMax {
					merged[i].Max = condMax
				} else if cond.Kind != RangeScope {
					isPush = isLtMax
				} else if isLtMin && isLtMax {
					isPush = true
				}
				break
			}

			if isPush {
				merged = append(merged, cond)
			}
		}
		return merged, nil
	case RangeAnd:
		return r.Ranges, nil
	default:
		return []ConstantRange{r}, nil
	}
}

func lowerBound(r ConstantRange) Bound {
	switch r.Kind {
	case RangeScope:
		return r.Min
	case RangeEq:
		return Included(r.Val)
	default:
		return Excluded(r.Val)
	}
}

func mergeBounds(r ConstantRange) (Bound, Bound) {
	switch r.Kind {
	case RangeScope:
		return r.Min, r.Max
	case RangeEq:
		return Unbounded, Included(r.Val)
	default:
		return Unbounded, Excluded(r.Val)
	}
}

func mergeCompare(left, right Bound, typ Type) int {
	order, ok := boundCompare(left, right, typ, false)
	if !ok {
		return 0
	}
	return order
}

// Contains reports whether v satisfies the range. A NULL value satisfies no
// range.
func (r ConstantRange) Contains(v interface{}) (bool, error) {
	switch r.Kind {
	case RangeEq:
		order, err := r.Typ.Compare(v, r.Val)
		if err != nil {
			if ErrNilComparison.Is(err) {
				return false, nil
			}
			return false, err
		}
		return order == 0, nil
	case RangeNotEq:
		order, err := r.Typ.Compare(v, r.Val)
		if err != nil {
			if ErrNilComparison.Is(err) {
				return false, nil
			}
			return false, err
		}
		return order != 0, nil
	case RangeScope:
		if v == nil {
			return false, nil
		}
		if r.Min.Type != BoundUnbounded {
			order, err := r.Typ.Compare(v, r.Min.Val)
			if err != nil {
				if ErrNilComparison.Is(err) {
					return false, nil
				}
				return false, err
			}
			if order < 0 || (order == 0 && r.Min.Type == BoundExcluded) {
				return false, nil
			}
		}
		if r.Max.Type != BoundUnbounded {
			order, err := r.Typ.Compare(v, r.Max.Val)
			if err != nil {
				if ErrNilComparison.Is(err) {
					return false, nil
				}
				return false, err
			}
			if order > 0 || (order == 0 && r.Max.Type == BoundExcluded) {
				return false, nil
			}
		}
		return true, nil
	case RangeAnd:
		for _, elem := range r.Ranges {
			ok, err := elem.Contains(v)
			if err != nil || !ok {
				return false, err
			}
		}
		return true, nil
	default:
		for _, elem := range r.Ranges {
			ok, err := elem.Contains(v)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		return false, nil
	}
}

// RangeCoverContains reports whether v satisfies any range of a cover. An
// empty cover constrains nothing.
func RangeCoverContains(cover []ConstantRange, v interface{}) (bool, error) {
	if len(cover) == 0 {
		return true, nil
	}
	for _, r := range cover {
		ok, err := r.Contains(v)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}
