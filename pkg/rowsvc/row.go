// SPDX-License-Identifier: GPL-3.0-or-later

package rowsvc

import (
	"github.com/netdata/netdata/go/datagrid/pkg/gridapi"
)

// Row wraps an application datum with the fields the engine derives for it.
type Row struct {
	// Datum is the opaque application record.
	Datum any
	// Index is the position in the canonical sorted order. Reassigned on every re-sort.
	Index int
	// Highlight is the result of the host's highlight predicate.
	Highlight bool
	// Cache holds the precomputed cells keyed by column id.
	Cache map[string]*Cell

	ref int
}

// NewRow wraps datum. ref is the row position in the data set the search index
// is built over and stays fixed until the next full load.
func NewRow(datum any, ref int) *Row {
	return &Row{Datum: datum, Index: ref, ref: ref}
}

// NewRows wraps data keeping its order for both Index and the search ref.
func NewRows(data []any) []*Row {
	rows := make([]*Row, len(data))
	for i, d := range data {
		rows[i] = NewRow(d, i)
	}
	return rows
}

// Ref returns the search index reference of the row.
func (r *Row) Ref() int { return r.ref }

// Cell returns the cached cell of a column, or nil when the row was not cached.
func (r *Row) Cell(columnID string) *Cell {
	if r.Cache == nil {
		return nil
	}
	return r.Cache[columnID]
}

// Cell is the presentation snapshot of one (row, column) pair.
type Cell struct {
	Value   any
	ToolTip any
	Left    Action
	Center  Action
	Right   Action
}

// Side returns the action of one cell side.
func (c *Cell) Side(side gridapi.Side) Action {
	switch side {
	case gridapi.SideCenter:
		return c.Center
	case gridapi.SideRight:
		return c.Right
	default:
		return c.Left
	}
}

// Action is a resolved cell side action.
type Action struct {
	Kind      gridapi.ActionKind
	Link      gridapi.Link
	Href      string
	Click     func()
	Icon      string
	IconTitle string
}
