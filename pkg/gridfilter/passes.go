// SPDX-License-Identifier: GPL-3.0-or-later

package gridfilter

import (
	"math"
	"slices"
	"time"

	"github.com/netdata/netdata/go/datagrid/pkg/gridapi"
	"github.com/netdata/netdata/go/datagrid/pkg/rowsvc"
)

// Passes reports whether datum passes the column's active filter value.
// A column PassesFilter capability replaces the built-in predicate.
func Passes(col *gridapi.Column, datum any, filterValue []any) (ok bool) {
	if col.PassesFilter != nil {
		defer func() {
			if r := recover(); r != nil {
				ok = false
			}
		}()
		return col.PassesFilter(datum, filterValue)
	}

	value := rowsvc.GetElementFilterValue(datum, col)

	switch col.FilterType {
	case gridapi.FilterNumber:
		return passesNumber(value, filterValue)
	case gridapi.FilterDate:
		return passesDate(value, filterValue)
	default:
		return passesCategorical(value, filterValue)
	}
}

func passesCategorical(value any, accepted []any) bool {
	accepts := func(v any) bool {
		return slices.ContainsFunc(accepted, func(a any) bool { return rowsvc.Equal(a, v) })
	}

	if els, ok := rowsvc.Elements(value); ok {
		return slices.ContainsFunc(els, accepts)
	}
	return accepts(value)
}

func passesNumber(value any, bounds []any) bool {
	v, ok := rowsvc.AsNumber(value)
	if !ok || math.IsNaN(v) {
		return false
	}
	if lo, ok := rowsvc.AsNumber(bound(bounds, 0)); ok && v < lo {
		return false
	}
	if hi, ok := rowsvc.AsNumber(bound(bounds, 1)); ok && v > hi {
		return false
	}
	return true
}

func passesDate(value any, bounds []any) bool {
	start, hasStart := rowsvc.AsTime(bound(bounds, 0))
	end, hasEnd := rowsvc.AsTime(bound(bounds, 1))
	if !hasStart && !hasEnd {
		return true
	}

	v, ok := rowsvc.AsTime(value)
	if !ok {
		return false
	}
	if hasStart && v.Before(start) {
		return false
	}
	// the end bound covers the whole end day
	if hasEnd && !v.Before(end.AddDate(0, 0, 1)) {
		return false
	}
	return true
}

func bound(bounds []any, i int) any {
	if i < len(bounds) {
		return bounds[i]
	}
	return nil
}

// DateBounds returns the parsed [start, end] of a date filter value.
func DateBounds(filterValue []any) (start, end *time.Time) {
	if t, ok := rowsvc.AsTime(bound(filterValue, 0)); ok {
		start = &t
	}
	if t, ok := rowsvc.AsTime(bound(filterValue, 1)); ok {
		end = &t
	}
	return start, end
}
