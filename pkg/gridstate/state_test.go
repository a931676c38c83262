// SPDX-License-Identifier: GPL-3.0-or-later

package gridstate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/netdata/netdata/go/datagrid/pkg/gridapi"
	"github.com/netdata/netdata/go/datagrid/pkg/gridfilter"
)

func TestDefaultState(t *testing.T) {
	cs := testColumns(t)
	sort := &Sort{Active: "name"}

	s := DefaultState(cs, sort)

	assert.Empty(t, s.Filter)
	assert.Empty(t, s.SearchQuery)
	assert.Equal(t, DefaultControlPanel, s.PanelID())
	assert.Equal(t, []string{"name", "status", "size", "created"}, s.VisibleColumns(cs))
	assert.Equal(t, sort, s.Sort)
	assert.NotSame(t, sort, s.Sort)
}

func TestTableState_Clone(t *testing.T) {
	s := TableState{
		Filter:             gridfilter.State{"a": {"x"}},
		ShowColumns:        map[string]bool{"a": true},
		OpenControlPanelID: IntPtr(1),
		Sort:               &Sort{Active: "a", Direction: gridapi.SortDescending},
	}

	c := s.Clone()
	assert.Equal(t, s, c)

	c.Filter["a"][0] = "y"
	c.ShowColumns["a"] = false
	*c.OpenControlPanelID = 5
	c.Sort.Active = "b"

	assert.Equal(t, "x", s.Filter["a"][0])
	assert.True(t, s.ShowColumns["a"])
	assert.Equal(t, 1, s.PanelID())
	assert.Equal(t, "a", s.Sort.Active)
}
