// SPDX-License-Identifier: GPL-3.0-or-later

package rowsvc

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netdata/netdata/go/datagrid/pkg/gridapi"
)

func TestGetElementValue_EqualsNestedLookup(t *testing.T) {
	rows := []any{
		map[string]any{"name": "a", "meta": map[string]any{"size": 3}},
		map[string]any{"name": "b"},
		map[string]any{"meta": map[string]any{"size": nil}},
	}
	cols := []gridapi.Column{
		{ID: "name", Key: gridapi.SingleKey("name")},
		{ID: "size", Key: gridapi.ParseKey("meta.size")},
		{ID: "missing", Key: gridapi.ParseKey("x.y.z")},
	}

	for _, row := range rows {
		for i := range cols {
			want, _ := Lookup(row, cols[i].Key)
			assert.Equal(t, want, GetElementValue(row, &cols[i]))
		}
	}
}

func TestGetElementValue(t *testing.T) {
	tests := map[string]struct {
		col   gridapi.Column
		datum any
		want  any
	}{
		"key lookup": {
			col:   gridapi.Column{ID: "n", Key: gridapi.SingleKey("name")},
			datum: map[string]any{"name": "x"},
			want:  "x",
		},
		"id when key is empty": {
			col:   gridapi.Column{ID: "name"},
			datum: map[string]any{"name": "x"},
			want:  "x",
		},
		"getter takes precedence": {
			col: gridapi.Column{
				ID:     "n",
				Key:    gridapi.SingleKey("name"),
				Getter: func(d any) any { return strings.ToUpper(d.(map[string]any)["name"].(string)) },
			},
			datum: map[string]any{"name": "x"},
			want:  "X",
		},
		"panicking getter is nil": {
			col:   gridapi.Column{ID: "n", Getter: func(any) any { panic("boom") }},
			datum: map[string]any{},
			want:  nil,
		},
		"panicking lookuper is nil": {
			col:   gridapi.Column{ID: "n"},
			datum: panickingLookuper{},
			want:  nil,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, test.want, GetElementValue(test.datum, &test.col))
		})
	}
}

type panickingLookuper struct{}

func (panickingLookuper) Lookup(string) (any, bool) { panic("boom") }

func TestGetElementFilterValue(t *testing.T) {
	datum := map[string]any{"tags": []any{"a", "b"}, "name": "x"}

	col := gridapi.Column{ID: "name"}
	assert.Equal(t, "x", GetElementFilterValue(datum, &col))

	col.FilterGetter = func(d any) any { return d.(map[string]any)["tags"] }
	assert.Equal(t, []any{"a", "b"}, GetElementFilterValue(datum, &col))

	col.FilterGetter = func(any) any { panic("boom") }
	assert.Nil(t, GetElementFilterValue(datum, &col))
}

func TestGetElementSearchValue(t *testing.T) {
	datum := map[string]any{"name": "café", "tags": []any{"x", "y"}}

	tests := map[string]struct {
		col  gridapi.Column
		want string
	}{
		"display value": {
			col:  gridapi.Column{ID: "name"},
			want: "café",
		},
		"formatted display value": {
			col:  gridapi.Column{ID: "name", Formatter: func(v any) any { return "[" + v.(string) + "]" }},
			want: "[café]",
		},
		"extra search text appended": {
			col: gridapi.Column{
				ID:                "name",
				ExtraSearchGetter: func(d any) any { return d.(map[string]any)["tags"] },
			},
			want: "café x y",
		},
		"extra search text only": {
			col: gridapi.Column{
				ID:                "missing",
				ExtraSearchGetter: func(any) any { return "extra" },
			},
			want: "extra",
		},
		"panicking extra getter": {
			col: gridapi.Column{
				ID:                "name",
				ExtraSearchGetter: func(any) any { panic("boom") },
			},
			want: "café",
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, test.want, GetElementSearchValue(datum, &test.col))
		})
	}
}

func TestFormatElement(t *testing.T) {
	upper := func(v any) any { return strings.ToUpper(fmt.Sprint(v)) }
	quote := func(v any) any { return fmt.Sprintf("%q", v) }

	col := gridapi.Column{ID: "c"}
	assert.Equal(t, "x", FormatElementValue("x", &col))
	assert.Equal(t, "x", FormatElementToolTip("x", &col))
	assert.Equal(t, "x", FormatElementFilterValue("x", &col))

	col.Formatter = upper
	assert.Equal(t, "X", FormatElementValue("x", &col))
	assert.Equal(t, "X", FormatElementToolTip("x", &col), "tooltip falls back to formatter")
	assert.Equal(t, "X", FormatElementFilterValue("x", &col), "filter label falls back to formatter")
	assert.Nil(t, FormatElementValue(nil, &col))

	col.ToolTipFormatter = quote
	col.FilterFormatter = quote
	assert.Equal(t, `"x"`, FormatElementToolTip("x", &col))
	assert.Equal(t, `"x"`, FormatElementFilterValue("x", &col))

	col.Formatter = func(any) any { panic("boom") }
	assert.Nil(t, FormatElementValue("x", &col))
}

func TestBuildCache(t *testing.T) {
	clicked := ""
	cols := []gridapi.Column{
		{
			ID:        "name",
			Formatter: func(v any) any { return strings.ToUpper(v.(string)) },
			Left: gridapi.SideAction{
				Kind: gridapi.ActionRouterLink,
				Icon: "link",
				RouterLink: func(d any) gridapi.Link {
					return gridapi.Link{Path: []string{"/projects", d.(map[string]any)["name"].(string)}}
				},
				IconTitle: func(any) string { return "Open" },
			},
			Right: gridapi.SideAction{
				Kind: gridapi.ActionClick,
				Click: func(d any) func() {
					return func() { clicked = d.(map[string]any)["name"].(string) }
				},
			},
		},
		{
			ID:     "broken",
			Getter: func(any) any { panic("boom") },
			Center: gridapi.SideAction{Kind: gridapi.ActionHref, Href: func(any) string { return "https://example.org" }},
		},
	}

	row := NewRow(map[string]any{"name": "grid"}, 0)
	BuildCache(row, cols)

	require.Len(t, row.Cache, 2)

	name := row.Cell("name")
	require.NotNil(t, name)
	assert.Equal(t, "GRID", name.Value)
	assert.Equal(t, "GRID", name.ToolTip)
	assert.Equal(t, gridapi.ActionRouterLink, name.Left.Kind)
	assert.Equal(t, []string{"/projects", "grid"}, name.Left.Link.Path)
	assert.Equal(t, "link", name.Left.Icon)
	assert.Equal(t, "Open", name.Left.IconTitle)
	assert.Equal(t, gridapi.ActionNone, name.Center.Kind)

	require.NotNil(t, name.Side(gridapi.SideRight).Click)
	name.Right.Click()
	assert.Equal(t, "grid", clicked)

	broken := row.Cell("broken")
	require.NotNil(t, broken)
	assert.Nil(t, broken.Value)
	assert.Equal(t, "https://example.org", broken.Center.Href)

	assert.Nil(t, row.Cell("unknown"))
	assert.Nil(t, NewRow(nil, 0).Cell("name"))
}

func TestNewRows(t *testing.T) {
	rows := NewRows([]any{"a", "b"})

	require.Len(t, rows, 2)
	for i, row := range rows {
		assert.Equal(t, i, row.Index)
		assert.Equal(t, i, row.Ref())
	}
}
