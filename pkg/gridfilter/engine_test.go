// SPDX-License-Identifier: GPL-3.0-or-later

package gridfilter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netdata/netdata/go/datagrid/pkg/confopt"
	"github.com/netdata/netdata/go/datagrid/pkg/fulltext"
	"github.com/netdata/netdata/go/datagrid/pkg/gridapi"
	"github.com/netdata/netdata/go/datagrid/pkg/rowsvc"
)

func newTestEngine(t *testing.T, cols []gridapi.Column) *Engine {
	t.Helper()
	cs, err := gridapi.NewColumnSet(cols)
	require.NoError(t, err)
	return NewEngine(cs, nil)
}

func refs(rows []*rowsvc.Row) []int {
	out := make([]int, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.Ref())
	}
	return out
}

func TestEngine_VisibleNumericScenario(t *testing.T) {
	e := newTestEngine(t, []gridapi.Column{{ID: "age", FilterType: gridapi.FilterNumber}})
	rows := rowsvc.NewRows([]any{
		map[string]any{"age": 5},
		map[string]any{"age": 10},
		map[string]any{"age": nil},
	})

	got := e.Visible(rows, State{"age": {5.0, 10.0}}, fulltext.EmptyMatchSet(), false)
	assert.Equal(t, []int{0, 1}, refs(got))

	got = e.Visible(rows, State{"age": {nil, nil}}, fulltext.EmptyMatchSet(), false)
	assert.Equal(t, []int{0, 1}, refs(got), "null is excluded regardless of bounds")
}

func TestEngine_Visible(t *testing.T) {
	cols := []gridapi.Column{
		{ID: "name", Heading: "Name"},
		{ID: "status", Heading: "Status"},
		{ID: "size", Heading: "Size", FilterType: gridapi.FilterNumber},
	}
	e := newTestEngine(t, cols)

	rows := rowsvc.NewRows([]any{
		map[string]any{"name": "café", "status": "done", "size": 1},
		map[string]any{"name": "bar", "status": "failed", "size": 20},
		map[string]any{"name": "cafe two", "status": "done", "size": 30},
		map[string]any{"name": "tea", "status": "done", "size": 40},
	})

	idx, err := fulltext.Build([]string{"name"}, []fulltext.Document{
		{Ref: 0, Fields: map[string]string{"name": "café"}},
		{Ref: 1, Fields: map[string]string{"name": "bar"}},
		{Ref: 2, Fields: map[string]string{"name": "cafe two"}},
		{Ref: 3, Fields: map[string]string{"name": "tea"}},
	})
	require.NoError(t, err)
	cafe, err := idx.Search("cafe")
	require.NoError(t, err)

	tests := map[string]struct {
		state        State
		matches      fulltext.MatchSet
		searchActive bool
		want         []int
	}{
		"no filters": {
			want: []int{0, 1, 2, 3},
		},
		"filters are and'ed": {
			state: State{"status": {"done"}, "size": {10.0, nil}},
			want:  []int{2, 3},
		},
		"search active": {
			matches:      cafe,
			searchActive: true,
			want:         []int{0, 2},
		},
		"search and filter": {
			state:        State{"size": {10.0, nil}},
			matches:      cafe,
			searchActive: true,
			want:         []int{2},
		},
		"active search with no hits": {
			matches:      fulltext.EmptyMatchSet(),
			searchActive: true,
			want:         []int{},
		},
		"inactive search ignores matches": {
			matches: fulltext.EmptyMatchSet(),
			want:    []int{0, 1, 2, 3},
		},
		"unknown column ignored": {
			state: State{"nope": {"x"}, "status": {"failed"}},
			want:  []int{1},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			got := e.Visible(rows, test.state, test.matches, test.searchActive)
			assert.Equal(t, test.want, refs(got))

			again := e.Visible(rows, test.state, test.matches, test.searchActive)
			assert.Equal(t, refs(got), refs(again), "applying a state twice is idempotent")

			assert.Equal(t, refs(got), refs(e.Visible(got, test.state, test.matches, test.searchActive)))
		})
	}
}

func TestEngine_FacetsUseUnfilteredRows(t *testing.T) {
	cols := []gridapi.Column{
		{ID: "status"},
		{ID: "size", FilterType: gridapi.FilterNumber},
		{ID: "created", FilterType: gridapi.FilterDate},
		{ID: "notes", Filterable: confopt.AutoBoolDisabled},
	}
	e := newTestEngine(t, cols)
	rows := rowsvc.NewRows([]any{
		map[string]any{"status": "done", "size": 1},
		map[string]any{"status": "failed", "size": 9},
	})
	state := State{"status": {"done"}}

	visible := e.Visible(rows, state, fulltext.EmptyMatchSet(), false)
	require.Len(t, visible, 1)

	facets := e.Facets(rows, state)
	require.Len(t, facets, 3)
	assert.NotContains(t, facets, "notes")

	status := facets["status"]
	assert.Equal(t, gridapi.FilterCategorical, status.Type)
	assert.Equal(t, []any{"done", "failed"}, optionValues(status.Options), "facet domain does not shrink")
	assert.True(t, status.Options[0].Checked)
	assert.False(t, status.Options[1].Checked)

	size := facets["size"]
	require.NotNil(t, size.Range)
	assert.Equal(t, 1.0, *size.Range.Min)
	assert.Equal(t, 9.0, *size.Range.Max)

	created := facets["created"]
	require.NotNil(t, created.Dates)
	assert.Nil(t, created.Dates.Start)
}
