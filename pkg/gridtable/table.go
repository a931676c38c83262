// SPDX-License-Identifier: GPL-3.0-or-later

// Package gridtable binds columns, rows and table state together and keeps the
// visible view, facet domains and persisted state in sync.
package gridtable

import (
	"log/slog"
	"maps"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/netdata/netdata/go/datagrid/logger"
	"github.com/netdata/netdata/go/datagrid/pkg/confopt"
	"github.com/netdata/netdata/go/datagrid/pkg/fulltext"
	"github.com/netdata/netdata/go/datagrid/pkg/gridapi"
	"github.com/netdata/netdata/go/datagrid/pkg/gridfilter"
	"github.com/netdata/netdata/go/datagrid/pkg/gridstate"
	"github.com/netdata/netdata/go/datagrid/pkg/resolve"
	"github.com/netdata/netdata/go/datagrid/pkg/rowsvc"
)

// Options configure a Table.
type Options struct {
	// Controls enables search, filters, the column picker and control panels.
	Controls confopt.AutoBool
	// Sortable enables column sorting.
	Sortable confopt.AutoBool
	// DefaultSort is the sort of a freshly bound column set.
	DefaultSort *gridstate.Sort
	// Highlight marks rows for emphasis.
	Highlight func(datum any) bool
	// Sink persists the state. nil disables persistence.
	Sink gridstate.Sink
	// Resolver resolves pending row sources. nil uses resolve.New().
	Resolver *resolve.Resolver
	Logger   *logger.Logger
}

// Table is a headless data table.
//
// Mutations are meant to come from one goroutine. Loads started by SetSource
// and Follow run in their own goroutines; a load is applied only if no later
// load started meanwhile.
type Table struct {
	*logger.Logger

	id       string
	controls bool
	sortable bool
	sink     gridstate.Sink
	resolver *resolve.Resolver
	loads    sync.WaitGroup
	updated  chan struct{}

	mu          sync.Mutex
	defaultSort *gridstate.Sort
	highlight   func(datum any) bool
	columns     gridapi.ColumnSet
	byID        map[string]*gridapi.Column
	fingerprint uint64
	bound       bool
	engine      *gridfilter.Engine
	state       gridstate.TableState

	generation uint64
	loading    bool
	dataSet    bool
	stale      bool
	data       []*rowsvc.Row // submission order
	sorted     []*rowsvc.Row
	sortedBy   *gridstate.Sort
	index      *fulltext.Index
	searched   string
	active     bool
	matches    fulltext.MatchSet
	visible    []*rowsvc.Row
	facets     map[string]gridfilter.Facet
	narrowed   map[string]string // autocomplete query per column, until rows or columns change
}

// New returns an empty loading table with no columns.
func New(opts Options) *Table {
	id := uuid.NewString()

	log := opts.Logger
	if log == nil {
		log = logger.New()
	}
	log = log.With(slog.String("component", "table"), slog.String("table", id))

	res := opts.Resolver
	if res == nil {
		res = resolve.New()
	}

	t := &Table{
		Logger:      log,
		id:          id,
		controls:    opts.Controls.Bool(true),
		sortable:    opts.Sortable.Bool(true),
		sink:        opts.Sink,
		resolver:    res,
		updated:     make(chan struct{}, 1),
		defaultSort: opts.DefaultSort.Clone(),
		highlight:   opts.Highlight,
		byID:        map[string]*gridapi.Column{},
		loading:     true,
		matches:     fulltext.EmptyMatchSet(),
		facets:      map[string]gridfilter.Facet{},
		narrowed:    map[string]string{},
	}
	t.engine = gridfilter.NewEngine(t.columns, t.Logger)
	t.state = gridstate.DefaultState(t.columns, t.defaultSort)

	return t
}

// ID returns the table instance id.
func (t *Table) ID() string { return t.id }

// Updated signals after any change of the outputs. Signals coalesce.
func (t *Table) Updated() <-chan struct{} { return t.updated }

// Loading reports whether the table waits for data.
func (t *Table) Loading() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.loading
}

// Columns returns the bound column set.
func (t *Table) Columns() gridapi.ColumnSet {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.columns
}

// Rows returns the visible rows in display order.
func (t *Table) Rows() []*rowsvc.Row {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.visible)
}

// AllRows returns every row in display order, ignoring filters and search.
func (t *Table) AllRows() []*rowsvc.Row {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.sorted)
}

// Facets returns the filter domain of every filterable column.
func (t *Table) Facets() map[string]gridfilter.Facet {
	t.mu.Lock()
	defer t.mu.Unlock()
	return maps.Clone(t.facets)
}

// ColumnIsFiltered reports for every column whether it has an active filter.
func (t *Table) ColumnIsFiltered() map[string]bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state.Filter.Filtered(t.columns)
}

// ColumnsToShow returns the ids of visible columns in column order.
func (t *Table) ColumnsToShow() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state.VisibleColumns(t.columns)
}

// Describe returns the column descriptions with their current visibility.
func (t *Table) Describe() map[string]any {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.columns.Describe(t.state.ShowColumns)
}

// Wait blocks until loads started by SetSource and Follow finish.
func (t *Table) Wait() { t.loads.Wait() }

func (t *Table) notify() {
	select {
	case t.updated <- struct{}{}:
	default:
	}
}

// refresh recomputes the derived views. Sort and search passes run only when
// their inputs changed or the rows were rebuilt.
func (t *Table) refresh() {
	if t.stale || !t.state.Sort.Equal(t.sortedBy) {
		t.sorted = rowsvc.SortData(t.byID, t.data, t.state.Sort)
		rowsvc.Reindex(t.sorted)
		t.sortedBy = t.state.Sort.Clone()
	}
	if t.stale || t.state.SearchQuery != t.searched {
		t.search()
	}
	t.stale = false
	t.visible = t.engine.Visible(t.sorted, t.state.Filter, t.matches, t.active)
	t.facets = t.engine.Facets(t.sorted, t.state.Filter)
	for id, query := range t.narrowed {
		if facet, ok := t.facets[id]; ok {
			facet.Options = gridfilter.FilterOptions(facet.Options, query)
			t.facets[id] = facet
		}
	}
}

// dataLoaded reports whether rows are bound to a non-empty column set.
func (t *Table) dataLoaded() bool {
	return t.bound && t.columns.Len() > 0 && len(t.sorted) > 0
}

func (t *Table) persist() {
	if t.sink == nil || !t.dataLoaded() || !t.state.Sort.Equal(t.sortedBy) {
		return
	}
	if err := t.sink.Save(t.state.Clone(), t.columns); err != nil {
		t.Warningf("failed to save table state: %v", err)
	}
}
