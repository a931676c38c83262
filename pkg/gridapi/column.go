// SPDX-License-Identifier: GPL-3.0-or-later

package gridapi

import (
	"strings"

	"github.com/netdata/netdata/go/datagrid/pkg/confopt"
)

// Key is an ordered path of keys used for nested lookup in a datum.
// A single-element path is a plain key.
type Key []string

// SingleKey returns a one-element Key.
func SingleKey(k string) Key { return Key{k} }

// ParseKey splits a dotted path ("metadata.abstract") into a Key.
func ParseKey(s string) Key {
	if s == "" {
		return nil
	}
	return strings.Split(s, ".")
}

func (k Key) String() string { return strings.Join(k, ".") }

// Comparator orders two values. sign is 1 for ascending and -1 for descending.
type Comparator func(a, b any, sign int) int

// Link is a router target produced by a router-link action.
type Link struct {
	Path     []string
	Fragment string
}

// SideAction configures one action slot (left, center, right) of a cell.
type SideAction struct {
	Kind ActionKind
	Icon string

	RouterLink func(datum any) Link   `hash:"ignore"`
	Href       func(datum any) string `hash:"ignore"`
	Click      func(datum any) func() `hash:"ignore"`
	IconTitle  func(datum any) string `hash:"ignore"`
}

// Column declares how a table column extracts, presents, filters, searches and sorts values.
//
// The function fields are optional capability slots. A nil slot means the
// engine's default behavior is used.
type Column struct {
	// Identity
	ID      string
	Heading string
	Key     Key

	// Filtering
	FilterType          FilterType
	Filterable          confopt.AutoBool // auto means filterable
	NumericFilterStep   *float64
	FilterValues        []any // explicit facet domain; nil means derived from rows
	FilterSortDirection SortDirection

	// Visibility
	Hidden bool             // not offered in the column picker
	Show   confopt.AutoBool // default visibility; auto means shown

	// Capability slots
	Getter            func(datum any) any                `hash:"ignore"`
	Formatter         func(value any) any                `hash:"ignore"`
	ToolTipFormatter  func(value any) any                `hash:"ignore"`
	FilterGetter      func(datum any) any                `hash:"ignore"`
	FilterFormatter   func(value any) any                `hash:"ignore"`
	ExtraSearchGetter func(datum any) any                `hash:"ignore"`
	FilterComparator  Comparator                         `hash:"ignore"`
	Comparator        Comparator                         `hash:"ignore"`
	PassesFilter      func(datum any, filter []any) bool `hash:"ignore"`

	// Cell actions
	Left   SideAction
	Center SideAction
	Right  SideAction
}

// IsFilterable reports whether a filter control is offered for the column.
func (c Column) IsFilterable() bool {
	return c.Filterable.Bool(true)
}

// ShownByDefault reports the declared default visibility.
func (c Column) ShownByDefault() bool {
	return c.Show.Bool(true)
}

// Action returns the action slot for side.
func (c Column) Action(side Side) SideAction {
	switch side {
	case SideCenter:
		return c.Center
	case SideRight:
		return c.Right
	default:
		return c.Left
	}
}

// Describe converts a Column declaration to the JSON map used by a UI to build its controls.
func (c Column) Describe(index int, visible bool) map[string]any {
	col := map[string]any{
		"index":       index,
		"id":          c.ID,
		"heading":     c.Heading,
		"key":         c.Key.String(),
		"filter_type": c.FilterType.String(),
		"filterable":  c.IsFilterable(),
		"hidden":      c.Hidden,
		"visible":     visible,
		"sortable":    true,
	}

	if c.NumericFilterStep != nil {
		col["numeric_filter_step"] = *c.NumericFilterStep
	}
	if c.FilterSortDirection == SortDescending {
		col["filter_sort"] = c.FilterSortDirection.String()
	}
	if len(c.FilterValues) > 0 {
		col["filter_values"] = c.FilterValues
	}

	actions := map[string]any{}
	for _, side := range []Side{SideLeft, SideCenter, SideRight} {
		act := c.Action(side)
		if act.Kind == ActionNone && act.Icon == "" {
			continue
		}
		a := map[string]any{"action": act.Kind.String()}
		if act.Icon != "" {
			a["icon"] = act.Icon
		}
		actions[side.String()] = a
	}
	if len(actions) > 0 {
		col["actions"] = actions
	}

	return col
}
