// SPDX-License-Identifier: GPL-3.0-or-later

package gridtable

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/netdata/netdata/go/datagrid/pkg/fulltext"
	"github.com/netdata/netdata/go/datagrid/pkg/gridapi"
	"github.com/netdata/netdata/go/datagrid/pkg/gridfilter"
	"github.com/netdata/netdata/go/datagrid/pkg/gridstate"
	"github.com/netdata/netdata/go/datagrid/pkg/resolve"
	"github.com/netdata/netdata/go/datagrid/pkg/rowsvc"
)

// ErrSuperseded is returned by Load when a later load started before it finished.
var ErrSuperseded = errors.New("load superseded")

// SetColumns binds a column set. A set that differs from the bound one in
// anything but its capability functions resets the state to the declared
// defaults and restores it from the sink.
func (t *Table) SetColumns(cols []gridapi.Column) error {
	cs, err := gridapi.NewColumnSet(cols)
	if err != nil {
		return fmt.Errorf("bind columns: %w", err)
	}

	fp, err := cs.Fingerprint()
	if err != nil {
		t.Warningf("failed to fingerprint columns: %v", err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	rebind := !t.bound || err != nil || fp != t.fingerprint

	t.columns = cs
	t.byID = cs.ByIDMap()
	t.fingerprint = fp
	t.bound = true
	t.engine = gridfilter.NewEngine(cs, t.Logger)
	t.rebuildRows()

	next := t.state
	if rebind {
		t.Debugf("binding %d columns", cs.Len())
		t.state = gridstate.DefaultState(cs, t.defaultSort)
		next = t.state
		if state, ok, err := t.load(); err != nil {
			t.Warning(err)
		} else if ok {
			next = state
		}
	}
	t.apply(next, true)

	return nil
}

// SetData replaces the rows. It supersedes any load in flight.
func (t *Table) SetData(data []any) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.generation++
	t.setRows(data)
}

// Load resolves src and replaces the rows with the result. The table keeps
// its previous rows when resolving fails or a later load supersedes this one.
func (t *Table) Load(ctx context.Context, src resolve.Source) error {
	t.mu.Lock()
	t.generation++
	gen := t.generation
	t.loading = true
	t.notify()
	t.mu.Unlock()

	data, err := t.resolver.Rows(ctx, src)

	t.mu.Lock()
	defer t.mu.Unlock()

	if gen != t.generation {
		t.Debugf("dropping rows of superseded load %d", gen)
		return ErrSuperseded
	}
	if err != nil {
		t.loading = false
		t.notify()
		return fmt.Errorf("load rows: %w", err)
	}

	t.setRows(data)

	return nil
}

// SetSource loads src in the background.
func (t *Table) SetSource(ctx context.Context, src resolve.Source) {
	t.loads.Add(1)
	go func() {
		defer t.loads.Done()
		if err := t.Load(ctx, src); err != nil {
			if errors.Is(err, ErrSuperseded) {
				t.Debug(err)
				return
			}
			t.Warningf("%v", err)
		}
	}()
}

// Follow loads every source received until ctx is done or sources is closed.
// A newer source supersedes the load of an older one.
func (t *Table) Follow(ctx context.Context, sources <-chan resolve.Source) {
	for {
		select {
		case <-ctx.Done():
			return
		case src, ok := <-sources:
			if !ok {
				return
			}
			t.SetSource(ctx, src)
		}
	}
}

// SetHighlight replaces the row highlight predicate.
func (t *Table) SetHighlight(fn func(datum any) bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.highlight = fn
	for _, row := range t.data {
		t.highlightRow(row)
	}
	t.notify()
}

// SetDefaultSort replaces the sort used for freshly bound column sets. It is
// applied right away while the table is unsorted and holds no data.
func (t *Table) SetDefaultSort(sort *gridstate.Sort) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.defaultSort = sort.Clone()
	if t.state.Sort == nil && !t.dataSet {
		next := t.state.Clone()
		next.Sort = sort.Clone()
		t.apply(next, true)
	}
}

func (t *Table) setRows(data []any) {
	t.data = rowsvc.NewRows(data)
	t.rebuildRows()
	t.loading = false
	t.dataSet = true

	t.apply(t.state, true)

	t.Debugf("loaded %d rows", len(t.data))
}

// rebuildRows recomputes the cell caches, highlights and the search index,
// and marks the sorted view stale.
func (t *Table) rebuildRows() {
	t.stale = true
	clear(t.narrowed)

	cols := t.columns.Columns()
	for _, row := range t.data {
		rowsvc.BuildCache(row, cols)
		t.highlightRow(row)
	}
	t.buildIndex()
}

func (t *Table) highlightRow(row *rowsvc.Row) {
	row.Highlight = false
	if t.highlight == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			t.Debugf("highlight of row %d panicked: %v", row.Ref(), r)
			row.Highlight = false
		}
	}()
	row.Highlight = t.highlight(row.Datum)
}

// buildIndex indexes one document per row. Fields are the normalized column
// headings, the document ref is the row's submission position.
func (t *Table) buildIndex() {
	cols := t.columns.Columns()

	fields := make([]string, len(cols))
	for i, col := range cols {
		fields[i] = searchField(&col)
	}

	docs := make([]fulltext.Document, 0, len(t.data))
	for _, row := range t.data {
		doc := make(map[string]string, len(cols))
		for i := range cols {
			v := rowsvc.GetElementSearchValue(row.Datum, &cols[i])
			if prev, ok := doc[fields[i]]; ok {
				v = prev + " " + v
			}
			doc[fields[i]] = v
		}
		docs = append(docs, fulltext.Document{Ref: uint32(row.Ref()), Fields: doc})
	}

	idx, err := fulltext.Build(fields, docs)
	if err != nil {
		t.Debugf("failed to build search index: %v", err)
		idx = nil
	}
	t.index = idx
}

func (t *Table) search() {
	t.searched = t.state.SearchQuery
	t.matches = fulltext.EmptyMatchSet()

	query := strings.ToLower(strings.TrimSpace(t.state.SearchQuery))
	t.active = query != ""
	if !t.active || t.index == nil {
		return
	}

	// A query that fails to run matches nothing.
	m, err := t.index.Search(query)
	if err != nil {
		t.Debugf("search '%s': %v", query, err)
		return
	}
	t.matches = m
}

func searchField(col *gridapi.Column) string {
	if col.Heading == "" {
		return fulltext.FieldName(col.ID)
	}
	return fulltext.FieldName(col.Heading)
}
