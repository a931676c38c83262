// SPDX-License-Identifier: GPL-3.0-or-later

package gridstate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netdata/netdata/go/datagrid/pkg/confopt"
	"github.com/netdata/netdata/go/datagrid/pkg/gridapi"
	"github.com/netdata/netdata/go/datagrid/pkg/gridfilter"
)

func testColumns(t *testing.T) gridapi.ColumnSet {
	t.Helper()
	cs, err := gridapi.NewColumnSet([]gridapi.Column{
		{ID: "name", Heading: "Name"},
		{ID: "status", Heading: "Status"},
		{ID: "size", Heading: "Size", FilterType: gridapi.FilterNumber},
		{ID: "created", Heading: "Created", FilterType: gridapi.FilterDate},
		{ID: "notes", Heading: "Notes", Show: confopt.AutoBoolDisabled},
	})
	require.NoError(t, err)
	return cs
}

func TestCodec_EncodeScenario(t *testing.T) {
	cs, err := gridapi.NewColumnSet([]gridapi.Column{{ID: "name", Heading: "Name"}})
	require.NoError(t, err)

	state := TableState{
		Filter:      gridfilter.State{},
		SearchQuery: "cafe",
		ShowColumns: map[string]bool{"name": true},
		Sort:        &Sort{Active: "name", Direction: gridapi.SortAscending},
	}

	fragment := NewCodec().Encode(state, cs, "")
	assert.Equal(t, "columns=name&search=cafe&sort=name&sortDir=asc", fragment)

	got := NewCodec().Decode(fragment, cs)
	assert.Equal(t, state.Filter, got.Filter)
	assert.Equal(t, state.SearchQuery, got.SearchQuery)
	assert.Equal(t, state.ShowColumns, got.ShowColumns)
	assert.Equal(t, state.Sort, got.Sort)
	assert.Nil(t, got.OpenControlPanelID)
}

func TestCodec_RoundTrip(t *testing.T) {
	cs := testColumns(t)
	start := time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2021, 3, 14, 0, 0, 0, 0, time.UTC)

	tests := map[string]TableState{
		"defaults": DefaultState(cs, nil),
		"everything": {
			Filter: gridfilter.State{
				"status":  {"done", "failed & retried"},
				"size":    {5.0, nil},
				"created": {start, end},
			},
			SearchQuery:        "café +name:grid",
			ShowColumns:        map[string]bool{"name": true, "status": false, "size": true, "created": true, "notes": true},
			OpenControlPanelID: IntPtr(0),
			Sort:               &Sort{Active: "size", Direction: gridapi.SortDescending},
		},
		"nothing visible": {
			Filter:      gridfilter.State{},
			ShowColumns: map[string]bool{"name": false, "status": false, "size": false, "created": false, "notes": false},
		},
		"odd characters": {
			Filter:      gridfilter.State{"name": {"a=b", "100%", "x#y", "1+1", "tab\there"}},
			SearchQuery: "a&b=c d",
			ShowColumns: cs.DefaultVisibility(),
		},
	}

	codec := NewCodec()
	for name, state := range tests {
		t.Run(name, func(t *testing.T) {
			fragment := codec.Encode(state, cs, "")
			got := codec.Decode(fragment, cs)

			assert.Equal(t, state, got)
			assert.Equal(t, fragment, codec.Encode(got, cs, ""), "encoding is idempotent")
		})
	}
}

func TestCodec_EncodePreservesForeignKeys(t *testing.T) {
	cs := testColumns(t)
	base := "tab=files&search=old&filter.status=%5B%22x%22%5D&filter.gone=%5B1%5D&columns=name&panel=1"

	state := DefaultState(cs, nil)
	got := NewCodec().Encode(state, cs, base)

	assert.Equal(t, "columns=created&columns=name&columns=size&columns=status&filter.gone=[1]&panel=2&tab=files", got)
}

func TestCodec_EncodeOptions(t *testing.T) {
	cs := testColumns(t)
	state := TableState{
		Filter:             gridfilter.State{"status": {"done"}},
		SearchQuery:        "x",
		ShowColumns:        map[string]bool{"name": true},
		OpenControlPanelID: IntPtr(1),
		Sort:               &Sort{Active: "name", Direction: gridapi.SortDescending},
	}

	tests := map[string]struct {
		codec Codec
		base  string
		want  string
	}{
		"all keys": {
			codec: NewCodec(),
			want:  `columns=name&filter.status=["done"]&panel=1&search=x&sort=name&sortDir=desc`,
		},
		"without controls": {
			codec: Codec{Sortable: true},
			base:  "search=keep",
			want:  "search=keep&sort=name&sortDir=desc",
		},
		"without sorting": {
			codec: Codec{Controls: true},
			base:  "sort=keep",
			want:  `columns=name&filter.status=["done"]&panel=1&search=x&sort=keep`,
		},
		"nothing": {
			codec: Codec{},
			base:  "b=2&a=1",
			want:  "a=1&b=2",
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, test.want, test.codec.Encode(state, cs, test.base))
		})
	}
}

func TestCodec_EncodeClearsSort(t *testing.T) {
	cs := testColumns(t)
	state := DefaultState(cs, nil)

	got := Codec{Sortable: true}.Encode(state, cs, "sort=name&sortDir=asc&x=1")
	assert.Equal(t, "x=1", got)
}

func TestCodec_Decode(t *testing.T) {
	cs := testColumns(t)
	defaults := cs.DefaultVisibility()

	tests := map[string]struct {
		fragment string
		check    func(t *testing.T, s TableState)
	}{
		"empty": {
			fragment: "",
			check: func(t *testing.T, s TableState) {
				assert.Empty(t, s.Filter)
				assert.Empty(t, s.SearchQuery)
				assert.Equal(t, defaults, s.ShowColumns)
				assert.Nil(t, s.OpenControlPanelID)
				assert.Nil(t, s.Sort)
			},
		},
		"leading hash": {
			fragment: "#search=x",
			check: func(t *testing.T, s TableState) {
				assert.Equal(t, "x", s.SearchQuery)
			},
		},
		"unknown keys ignored": {
			fragment: "foo=bar&filter=1&columnsx=name",
			check: func(t *testing.T, s TableState) {
				assert.Empty(t, s.Filter)
				assert.Equal(t, defaults, s.ShowColumns)
			},
		},
		"malformed filter dropped": {
			fragment: `filter.status=["done"&filter.size=[1,2]`,
			check: func(t *testing.T, s TableState) {
				assert.Equal(t, gridfilter.State{"size": {1.0, 2.0}}, s.Filter)
			},
		},
		"non array filter dropped": {
			fragment: `filter.status="done"&filter.name=null`,
			check: func(t *testing.T, s TableState) {
				assert.Empty(t, s.Filter)
			},
		},
		"filter on unknown column dropped": {
			fragment: `filter.owner=["me"]`,
			check: func(t *testing.T, s TableState) {
				assert.Empty(t, s.Filter)
			},
		},
		"escaped filter": {
			fragment: "filter.status=%5B%22a%20b%22%5D",
			check: func(t *testing.T, s TableState) {
				assert.Equal(t, gridfilter.State{"status": {"a b"}}, s.Filter)
			},
		},
		"date filter bounds are times": {
			fragment: `filter.created=["2021-03-01T00:00:00Z",null]`,
			check: func(t *testing.T, s TableState) {
				require.Len(t, s.Filter["created"], 2)
				start, ok := s.Filter["created"][0].(time.Time)
				require.True(t, ok)
				assert.True(t, start.Equal(time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC)))
				assert.Nil(t, s.Filter["created"][1])
			},
		},
		"columns listed": {
			fragment: "columns=notes&columns=unknown",
			check: func(t *testing.T, s TableState) {
				assert.Equal(t, map[string]bool{
					"name": false, "status": false, "size": false, "created": false, "notes": true,
				}, s.ShowColumns)
			},
		},
		"columns empty": {
			fragment: "columns=",
			check: func(t *testing.T, s TableState) {
				assert.Empty(t, s.VisibleColumns(cs))
				assert.Len(t, s.ShowColumns, cs.Len())
			},
		},
		"panel": {
			fragment: "panel=3",
			check: func(t *testing.T, s TableState) {
				assert.Equal(t, 3, s.PanelID())
			},
		},
		"bad panel": {
			fragment: "panel=abc",
			check: func(t *testing.T, s TableState) {
				assert.Nil(t, s.OpenControlPanelID)
				assert.Equal(t, -1, s.PanelID())
			},
		},
		"sort defaults to asc": {
			fragment: "sort=name",
			check: func(t *testing.T, s TableState) {
				assert.Equal(t, &Sort{Active: "name", Direction: gridapi.SortAscending}, s.Sort)
			},
		},
		"sort desc": {
			fragment: "sort=name&sortDir=desc",
			check: func(t *testing.T, s TableState) {
				assert.Equal(t, &Sort{Active: "name", Direction: gridapi.SortDescending}, s.Sort)
			},
		},
		"bad sort direction drops sort": {
			fragment: "sort=name&sortDir=sideways",
			check: func(t *testing.T, s TableState) {
				assert.Nil(t, s.Sort)
			},
		},
		"direction without column": {
			fragment: "sortDir=desc",
			check: func(t *testing.T, s TableState) {
				assert.Nil(t, s.Sort)
			},
		},
		"plus is a space": {
			fragment: "search=a+b",
			check: func(t *testing.T, s TableState) {
				assert.Equal(t, "a b", s.SearchQuery)
			},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			test.check(t, NewCodec().Decode(test.fragment, cs))
		})
	}
}

func TestEscape(t *testing.T) {
	assert.Equal(t, "plain", escape("plain", false))
	assert.Equal(t, `["a","b"]`, escape(`["a","b"]`, false))
	assert.Equal(t, "a=b", escape("a=b", false))
	assert.Equal(t, "a%3Db", escape("a=b", true))
	assert.Equal(t, "%25%26%2B%23%20", escape("%&+# ", false))
	assert.Equal(t, "café", escape("café", false))
}

func TestMergeFragments(t *testing.T) {
	tests := map[string]struct {
		base     string
		override string
		want     string
	}{
		"replace and add": {
			base:     "columns=a&columns=b&search=x&tab=files",
			override: "search=y&sort=a",
			want:     "columns=a&columns=b&search=y&sort=a&tab=files",
		},
		"replace repeated key": {
			base:     "columns=a&columns=b",
			override: "columns=c",
			want:     "columns=c",
		},
		"empty override": {
			base: "panel=2",
			want: "panel=2",
		},
		"escaped values": {
			base:     "search=a%26b",
			override: "#filter.x=[%22a b%22]",
			want:     `filter.x=["a%20b"]&search=a%26b`,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, test.want, MergeFragments(test.base, test.override))
		})
	}
}
