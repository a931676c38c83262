// SPDX-License-Identifier: GPL-3.0-or-later

package gridfilter

import (
	"math"
	"slices"
	"strings"
	"time"

	"github.com/netdata/netdata/go/datagrid/pkg/fulltext"
	"github.com/netdata/netdata/go/datagrid/pkg/gridapi"
	"github.com/netdata/netdata/go/datagrid/pkg/rowsvc"
)

// Option is one value offered by a categorical facet.
type Option struct {
	Value          any  `json:"value"`
	FormattedValue any  `json:"formattedValue"`
	Checked        bool `json:"checked"`
	Filtered       bool `json:"filtered"` // matches the autocomplete query
}

// Range is the domain of a numeric facet and the selected sub-range.
type Range struct {
	Min         *float64 `json:"min"`
	Max         *float64 `json:"max"`
	Step        float64  `json:"step"`
	MinSelected *float64 `json:"minSelected"`
	MaxSelected *float64 `json:"maxSelected"`
}

// DateRange is the selected range of a date facet.
type DateRange struct {
	Start *time.Time `json:"start"`
	End   *time.Time `json:"end"`
}

// Facet is the filter domain of one column. Exactly one of Options, Range or Dates is set.
type Facet struct {
	Type    gridapi.FilterType `json:"type"`
	Options []Option           `json:"options,omitempty"`
	Range   *Range             `json:"range,omitempty"`
	Dates   *DateRange         `json:"dates,omitempty"`
}

// TextColumnValues returns the distinct values of a categorical column over
// rows, or over the column's explicit FilterValues. List values contribute
// each element. Values with an empty label are dropped.
func TextColumnValues(rows []*rowsvc.Row, col *gridapi.Column, state State) []Option {
	var values []any
	if col.FilterValues != nil {
		values = col.FilterValues
	} else {
		values = make([]any, 0, len(rows))
		for _, row := range rows {
			values = append(values, rowsvc.GetElementFilterValue(row.Datum, col))
		}
	}

	seen := make(map[string]bool)
	var options []Option

	add := func(v any) {
		label := rowsvc.FormatElementFilterValue(v, col)
		if rowsvc.IsEmpty(label) {
			return
		}
		key := rowsvc.ValueKey(v)
		if seen[key] {
			return
		}
		seen[key] = true
		options = append(options, Option{
			Value:          v,
			FormattedValue: label,
			Checked:        state.Accepts(col.ID, v),
			Filtered:       true,
		})
	}

	for _, v := range values {
		if els, ok := rowsvc.Elements(v); ok {
			for _, e := range els {
				add(e)
			}
		} else {
			add(v)
		}
	}

	compare := rowsvc.GetFilterComparator(col)
	slices.SortStableFunc(options, func(a, b Option) int {
		return compare(a.Value, b.Value, 1)
	})
	if col.FilterSortDirection == gridapi.SortDescending {
		slices.Reverse(options)
	}

	return options
}

// NumericColumnRange returns the observed [floor(min), ceil(max)] of a numeric
// column and the slider step. Nil, NaN and non-numeric values are skipped.
func NumericColumnRange(rows []*rowsvc.Row, col *gridapi.Column, state State) Range {
	var rng Range

	for _, row := range rows {
		v, ok := rowsvc.AsNumber(rowsvc.GetElementFilterValue(row.Datum, col))
		if !ok || math.IsNaN(v) {
			continue
		}
		if rng.Min == nil {
			lo, hi := v, v
			rng.Min, rng.Max = &lo, &hi
			continue
		}
		*rng.Min = min(*rng.Min, v)
		*rng.Max = max(*rng.Max, v)
	}

	if rng.Min != nil {
		*rng.Min = math.Floor(*rng.Min)
		*rng.Max = math.Ceil(*rng.Max)
	}

	rng.Step = numericStep(col, rng.Min, rng.Max)

	if fv, ok := state[col.ID]; ok {
		rng.MinSelected = numberPtr(bound(fv, 0))
		rng.MaxSelected = numberPtr(bound(fv, 1))
	} else {
		rng.MinSelected = clonePtr(rng.Min)
		rng.MaxSelected = clonePtr(rng.Max)
	}

	return rng
}

// numericStep is the configured step, else 0 for an empty or single-value
// domain, else max(1, 10^floor(log10(span/1000))).
func numericStep(col *gridapi.Column, lo, hi *float64) float64 {
	if col.NumericFilterStep != nil {
		return *col.NumericFilterStep
	}
	if lo == nil || hi == nil {
		return 0
	}
	span := *hi - *lo
	if span <= 0 {
		return 0
	}
	return max(1, math.Pow(10, math.Floor(math.Log10(span/1000))))
}

// DateColumnRange returns the selected range of a date column.
func DateColumnRange(col *gridapi.Column, state State) DateRange {
	start, end := DateBounds(state[col.ID])
	return DateRange{Start: start, End: end}
}

// FilterOptions returns a copy of options with Filtered set on the options
// whose value or label contains query, ignoring case and accents.
func FilterOptions(options []Option, query string) []Option {
	q := foldText(query)
	out := slices.Clone(options)
	for i := range out {
		out[i].Filtered = q == "" ||
			strings.Contains(foldText(rowsvc.Text(out[i].Value)), q) ||
			strings.Contains(foldText(rowsvc.Text(out[i].FormattedValue)), q)
	}
	return out
}

func foldText(s string) string {
	return strings.ToLower(fulltext.NormalizeAccents(s))
}

func numberPtr(v any) *float64 {
	f, ok := rowsvc.AsNumber(v)
	if !ok {
		return nil
	}
	return &f
}

func clonePtr(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
