// SPDX-License-Identifier: GPL-3.0-or-later

package gridtable

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/netdata/netdata/go/datagrid/pkg/gridfilter"
	"github.com/netdata/netdata/go/datagrid/pkg/gridstate"
)

// State returns a copy of the current table state.
func (t *Table) State() gridstate.TableState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state.Clone()
}

// ApplyState replaces the table state and persists it.
func (t *Table) ApplyState(state gridstate.TableState) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.apply(state.Clone(), true)
}

// Restore applies the state persisted in the sink, if any.
func (t *Table) Restore() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	state, ok, err := t.load()
	if err != nil {
		return err
	}
	if ok {
		t.apply(state, false)
	}
	return nil
}

// Watch restores the state from the sink on every signal of updated until ctx is done.
func (t *Table) Watch(ctx context.Context, updated <-chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-updated:
			if err := t.Restore(); err != nil {
				t.Warning(err)
			}
		}
	}
}

// SetSort sorts by sort. nil restores the submission order.
func (t *Table) SetSort(sort *gridstate.Sort) {
	t.mutate(func(s *gridstate.TableState) { s.Sort = sort.Clone() })
}

// Search sets the full-text search query. An empty query disables search.
func (t *Table) Search(query string) {
	t.mutate(func(s *gridstate.TableState) { s.SearchQuery = query })
}

// FilterSetValue checks or unchecks one categorical filter option.
func (t *Table) FilterSetValue(columnID string, value any, show bool) {
	t.mutateFilter(columnID, func(f gridfilter.State) gridfilter.State {
		return f.SetValue(columnID, value, show)
	})
}

// FilterNumberValue selects the numeric range [lo, hi]. Selecting the whole
// observed range clears the filter.
func (t *Table) FilterNumberValue(columnID string, lo, hi *float64) {
	t.mutateFilter(columnID, func(f gridfilter.State) gridfilter.State {
		var full gridfilter.Range
		if rng := t.facets[columnID].Range; rng != nil {
			full = *rng
		}
		return f.SetRange(columnID, full, lo, hi)
	})
}

// FilterStartDate sets the first day of a date filter. nil leaves it open.
func (t *Table) FilterStartDate(columnID string, start *time.Time) {
	t.mutateFilter(columnID, func(f gridfilter.State) gridfilter.State {
		return f.SetStartDate(columnID, start)
	})
}

// FilterEndDate sets the last day of a date filter, inclusive. nil leaves it open.
func (t *Table) FilterEndDate(columnID string, end *time.Time) {
	t.mutateFilter(columnID, func(f gridfilter.State) gridfilter.State {
		return f.SetEndDate(columnID, end)
	})
}

// ClearFilter removes the filter of a column.
func (t *Table) ClearFilter(columnID string) {
	t.mutateFilter(columnID, func(f gridfilter.State) gridfilter.State {
		return f.Clear(columnID)
	})
}

// ToggleColumn flips the visibility of a column.
func (t *Table) ToggleColumn(columnID string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.columns.Contains(columnID) {
		t.Debugf("toggle of unknown column '%s'", columnID)
		return
	}
	next := t.state.Clone()
	next.ShowColumns[columnID] = !next.ShowColumns[columnID]
	t.apply(next, true)
}

// OpenControlPanel records which control panel is open.
func (t *Table) OpenControlPanel(id int) {
	t.mutate(func(s *gridstate.TableState) { s.OpenControlPanelID = gridstate.IntPtr(id) })
}

// AutocompleteFilter marks the categorical options of a column matching
// query and returns them. Options never disappear, non-matching ones are
// only marked as not matching. The marks hold until the rows or the columns
// change.
func (t *Table) AutocompleteFilter(columnID, query string) []gridfilter.Option {
	t.mu.Lock()
	defer t.mu.Unlock()

	facet, ok := t.facets[columnID]
	if !ok || !facet.Type.IsCategorical() {
		return nil
	}
	if query == "" {
		delete(t.narrowed, columnID)
	} else {
		t.narrowed[columnID] = query
	}
	facet.Options = gridfilter.FilterOptions(facet.Options, query)
	t.facets[columnID] = facet
	t.notify()

	return slices.Clone(facet.Options)
}

func (t *Table) mutate(fn func(s *gridstate.TableState)) {
	t.mu.Lock()
	defer t.mu.Unlock()

	next := t.state.Clone()
	fn(&next)
	t.apply(next, true)
}

func (t *Table) mutateFilter(columnID string, fn func(f gridfilter.State) gridfilter.State) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.columns.Contains(columnID) {
		t.Debugf("filter on unknown column '%s'", columnID)
		return
	}
	next := t.state.Clone()
	next.Filter = fn(next.Filter)
	t.apply(next, true)
}

// apply is the single route by which state changes, whether they come from a
// user action, a restore or a rebind.
func (t *Table) apply(next gridstate.TableState, persist bool) {
	if !t.controls {
		next.Filter = t.state.Filter
		next.SearchQuery = t.state.SearchQuery
		next.ShowColumns = t.state.ShowColumns
		next.OpenControlPanelID = t.state.OpenControlPanelID
	}
	if !t.sortable {
		next.Sort = t.state.Sort
	}
	if next.Filter == nil {
		next.Filter = gridfilter.State{}
	}
	if next.ShowColumns == nil {
		next.ShowColumns = t.columns.DefaultVisibility()
	}

	t.state = next
	t.refresh()

	if persist {
		t.persist()
	}
	t.notify()
}

func (t *Table) load() (gridstate.TableState, bool, error) {
	if t.sink == nil {
		return gridstate.TableState{}, false, nil
	}
	state, ok, err := t.sink.Load(t.columns)
	if err != nil {
		return gridstate.TableState{}, false, fmt.Errorf("restore table state: %w", err)
	}
	return state, ok, nil
}
