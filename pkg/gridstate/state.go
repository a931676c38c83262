// SPDX-License-Identifier: GPL-3.0-or-later

package gridstate

import (
	"maps"

	"github.com/netdata/netdata/go/datagrid/pkg/gridapi"
	"github.com/netdata/netdata/go/datagrid/pkg/gridfilter"
)

// Sort is the single active sort column. nil means unsorted.
type Sort = gridapi.Sort

// DefaultControlPanel is the control panel open when a table is created.
const DefaultControlPanel = 2

// TableState is the persisted UI state of a table.
type TableState struct {
	Filter             gridfilter.State
	SearchQuery        string
	ShowColumns        map[string]bool
	OpenControlPanelID *int
	Sort               *Sort
}

// Clone returns a deep copy of the state.
func (s TableState) Clone() TableState {
	c := TableState{
		Filter:      s.Filter.Clone(),
		SearchQuery: s.SearchQuery,
		ShowColumns: maps.Clone(s.ShowColumns),
		Sort:        s.Sort.Clone(),
	}
	if s.OpenControlPanelID != nil {
		id := *s.OpenControlPanelID
		c.OpenControlPanelID = &id
	}
	if c.ShowColumns == nil {
		c.ShowColumns = map[string]bool{}
	}
	return c
}

// DefaultState returns the state of a freshly bound column set: no filters,
// no search, declared column visibility and the default control panel.
func DefaultState(cols gridapi.ColumnSet, sort *Sort) TableState {
	panel := DefaultControlPanel
	return TableState{
		Filter:             gridfilter.State{},
		ShowColumns:        cols.DefaultVisibility(),
		OpenControlPanelID: &panel,
		Sort:               sort.Clone(),
	}
}

// VisibleColumns returns the ids of visible columns in column order.
func (s TableState) VisibleColumns(cols gridapi.ColumnSet) []string {
	var ids []string
	for _, id := range cols.IDs() {
		if s.ShowColumns[id] {
			ids = append(ids, id)
		}
	}
	return ids
}

// PanelID returns the open control panel, or -1 when none is set.
func (s TableState) PanelID() int {
	if s.OpenControlPanelID == nil {
		return -1
	}
	return *s.OpenControlPanelID
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int { return &v }
