// SPDX-License-Identifier: GPL-3.0-or-later

package gridfilter

import (
	"maps"
	"slices"
	"time"

	"github.com/netdata/netdata/go/datagrid/pkg/gridapi"
	"github.com/netdata/netdata/go/datagrid/pkg/rowsvc"
)

// State maps a column id to its active filter value:
//   - categorical: the accepted values
//   - number: [min, max], either may be nil
//   - date: [start, end], either may be nil
//
// A column without a key is not filtered. The mutators never modify the
// receiver, they return an updated copy.
type State map[string][]any

// Clone returns a deep copy of the state.
func (s State) Clone() State {
	out := make(State, len(s))
	for id, v := range s {
		out[id] = slices.Clone(v)
	}
	return out
}

// Has reports whether the column is filtered.
func (s State) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// IDs returns the filtered column ids, sorted.
func (s State) IDs() []string {
	return slices.Sorted(maps.Keys(s))
}

// Filtered returns the "is filtered" flag of every column of the set.
func (s State) Filtered(cs gridapi.ColumnSet) map[string]bool {
	m := make(map[string]bool, cs.Len())
	for _, id := range cs.IDs() {
		m[id] = s.Has(id)
	}
	return m
}

// Accepts reports whether value is in the accepted set of a categorical filter.
func (s State) Accepts(id string, value any) bool {
	return slices.ContainsFunc(s[id], func(v any) bool { return rowsvc.Equal(v, value) })
}

// SetValue adds (show) or removes a categorical value. Removing the last value clears the filter.
func (s State) SetValue(id string, value any, show bool) State {
	value = normalizeValue(value)
	out := s.Clone()

	if show {
		if !out.Accepts(id, value) {
			out[id] = append(out[id], value)
		}
		return out
	}

	if !out.Has(id) {
		return out
	}
	vals := slices.DeleteFunc(out[id], func(v any) bool { return rowsvc.Equal(v, value) })
	if len(vals) == 0 {
		delete(out, id)
	} else {
		out[id] = vals
	}
	return out
}

// SetRange sets a numeric filter. Selecting the full range clears the filter.
func (s State) SetRange(id string, full Range, lo, hi *float64) State {
	out := s.Clone()
	if floatPtrEqual(full.Min, lo) && floatPtrEqual(full.Max, hi) {
		delete(out, id)
		return out
	}
	out[id] = []any{floatPtrValue(lo), floatPtrValue(hi)}
	return out
}

// SetStartDate sets the start bound of a date filter. Clearing both bounds clears the filter.
func (s State) SetStartDate(id string, start *time.Time) State {
	return s.setDateBound(id, 0, start)
}

// SetEndDate sets the end bound of a date filter. Clearing both bounds clears the filter.
func (s State) SetEndDate(id string, end *time.Time) State {
	return s.setDateBound(id, 1, end)
}

func (s State) setDateBound(id string, i int, t *time.Time) State {
	out := s.Clone()

	bounds := []any{nil, nil}
	if cur, ok := out[id]; ok {
		copy(bounds, cur)
	}

	if t == nil {
		bounds[i] = nil
	} else {
		bounds[i] = t.UTC()
	}

	if bounds[0] == nil && bounds[1] == nil {
		delete(out, id)
	} else {
		out[id] = bounds
	}
	return out
}

// Clear removes the filter of a column.
func (s State) Clear(id string) State {
	out := s.Clone()
	delete(out, id)
	return out
}

// normalizeValue stores numbers as float64 so a state survives a JSON round trip unchanged.
func normalizeValue(v any) any {
	if f, ok := rowsvc.AsFloat(v); ok {
		return f
	}
	if t, ok := v.(time.Time); ok {
		return t.UTC()
	}
	return v
}

func floatPtrEqual(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func floatPtrValue(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}
