// SPDX-License-Identifier: GPL-3.0-or-later

package rowsvc

import (
	"cmp"
	"slices"
	"sync"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/netdata/netdata/go/datagrid/pkg/gridapi"
)

// collate.Collator is not safe for concurrent use.
var collators = sync.Pool{
	New: func() any { return collate.New(language.English, collate.Numeric) },
}

// CompareStrings orders strings by English collation with numeric ordering of digit runs,
// so "Item 2" sorts before "Item 10".
func CompareStrings(a, b string) int {
	c := collators.Get().(*collate.Collator)
	defer collators.Put(c)
	return c.CompareString(a, b)
}

// DefaultComparator orders numbers numerically, times chronologically and
// everything else as collated text. Nil values sort last in both directions.
func DefaultComparator(a, b any, sign int) int {
	aNil, bNil := IsNil(a), IsNil(b)
	switch {
	case aNil && bNil:
		return 0
	case aNil:
		return 1
	case bNil:
		return -1
	}

	if x, ok := AsFloat(a); ok {
		if y, ok := AsFloat(b); ok {
			return sign * cmp.Compare(x, y)
		}
	}
	if x, ok := a.(time.Time); ok {
		if y, ok := b.(time.Time); ok {
			return sign * x.Compare(y)
		}
	}
	if x, ok := a.(bool); ok {
		if y, ok := b.(bool); ok {
			return sign * cmp.Compare(boolInt(x), boolInt(y))
		}
	}

	return sign * CompareStrings(Text(a), Text(b))
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// GetComparator returns the row comparator of the column.
func GetComparator(col *gridapi.Column) gridapi.Comparator {
	if col.Comparator != nil {
		return recovering(col, "comparator", col.Comparator)
	}
	return DefaultComparator
}

// GetFilterComparator returns the comparator ordering the column's facet options.
func GetFilterComparator(col *gridapi.Column) gridapi.Comparator {
	if col.FilterComparator != nil {
		return recovering(col, "filter comparator", col.FilterComparator)
	}
	return DefaultComparator
}

// recovering treats a panicking comparison as a tie.
func recovering(col *gridapi.Column, what string, fn gridapi.Comparator) gridapi.Comparator {
	return func(a, b any, sign int) int {
		return safe(col, what, func() int { return fn(a, b, sign) })
	}
}

// SortData returns rows stably ordered by the sort column. The input slice and
// its rows are left untouched; the caller assigns Index. A nil sort, or a sort
// on an unknown column, keeps the input order.
func SortData(columns map[string]*gridapi.Column, rows []*Row, sort *gridapi.Sort) []*Row {
	out := slices.Clone(rows)
	if sort == nil || len(out) < 2 {
		return out
	}
	col, ok := columns[sort.Active]
	if !ok || col == nil {
		return out
	}

	compare := GetComparator(col)
	sign := sort.Direction.Sign()

	values := make(map[*Row]any, len(out))
	for _, row := range out {
		values[row] = GetElementValue(row.Datum, col)
	}

	slices.SortStableFunc(out, func(a, b *Row) int {
		return compare(values[a], values[b], sign)
	})

	return out
}

// Reindex assigns each row its position.
func Reindex(rows []*Row) {
	for i, row := range rows {
		row.Index = i
	}
}
