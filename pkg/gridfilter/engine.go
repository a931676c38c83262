// SPDX-License-Identifier: GPL-3.0-or-later

package gridfilter

import (
	"log/slog"

	"github.com/netdata/netdata/go/datagrid/logger"
	"github.com/netdata/netdata/go/datagrid/pkg/fulltext"
	"github.com/netdata/netdata/go/datagrid/pkg/gridapi"
	"github.com/netdata/netdata/go/datagrid/pkg/rowsvc"
)

// Engine decides row visibility and computes facet domains for one column set.
type Engine struct {
	*logger.Logger

	columns gridapi.ColumnSet
	byID    map[string]*gridapi.Column
}

// NewEngine returns an engine over the column set. A nil log uses the default logger.
func NewEngine(cs gridapi.ColumnSet, log *logger.Logger) *Engine {
	if log == nil {
		log = logger.New()
	}
	return &Engine{
		Logger:  log.With(slog.String("component", "filter engine")),
		columns: cs,
		byID:    cs.ByIDMap(),
	}
}

// Passes reports whether the row passes every active column filter and, when
// search is active, is in the search match set. Filters on unknown columns are ignored.
func (e *Engine) Passes(row *rowsvc.Row, state State, matches fulltext.MatchSet, searchActive bool) bool {
	for id, fv := range state {
		col, ok := e.byID[id]
		if !ok {
			continue
		}
		if !Passes(col, row.Datum, fv) {
			return false
		}
	}
	return !searchActive || matches.Contains(row.Ref())
}

// Visible returns the rows passing the state, keeping their order.
func (e *Engine) Visible(rows []*rowsvc.Row, state State, matches fulltext.MatchSet, searchActive bool) []*rowsvc.Row {
	for id := range state {
		if _, ok := e.byID[id]; !ok {
			e.Debugf("ignoring filter on unknown column '%s'", id)
		}
	}

	out := make([]*rowsvc.Row, 0, len(rows))
	for _, row := range rows {
		if e.Passes(row, state, matches, searchActive) {
			out = append(out, row)
		}
	}
	return out
}

// Facet returns the filter domain of one column over the unfiltered rows.
func (e *Engine) Facet(rows []*rowsvc.Row, col *gridapi.Column, state State) Facet {
	f := Facet{Type: col.FilterType}
	switch col.FilterType {
	case gridapi.FilterNumber:
		rng := NumericColumnRange(rows, col, state)
		f.Range = &rng
	case gridapi.FilterDate:
		dr := DateColumnRange(col, state)
		f.Dates = &dr
	default:
		f.Options = TextColumnValues(rows, col, state)
	}
	return f
}

// Facets returns the filter domain of every filterable column, keyed by column id.
func (e *Engine) Facets(rows []*rowsvc.Row, state State) map[string]Facet {
	facets := make(map[string]Facet, e.columns.Len())
	for _, col := range e.columns.Columns() {
		if !col.IsFilterable() {
			continue
		}
		facets[col.ID] = e.Facet(rows, e.byID[col.ID], state)
	}
	return facets
}
