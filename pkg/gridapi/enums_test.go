// SPDX-License-Identifier: GPL-3.0-or-later

package gridapi

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"
)

func TestFilterType_StringAndJSON(t *testing.T) {
	cases := []struct {
		value    FilterType
		expected string
	}{
		{FilterCategorical, "categorical"},
		{FilterNumber, "number"},
		{FilterDate, "date"},
		{FilterStringAutoComplete, "stringAutoComplete"},
		{FilterType(250), "categorical"},
	}

	for _, tc := range cases {
		t.Run(tc.expected, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.value.String())
			data, err := json.Marshal(tc.value)
			require.NoError(t, err)
			assert.Equal(t, `"`+tc.expected+`"`, string(data))
		})
	}
}

func TestParseFilterType(t *testing.T) {
	tests := map[string]struct {
		input   string
		want    FilterType
		wantErr bool
	}{
		"empty is categorical": {input: "", want: FilterCategorical},
		"multiselect alias":    {input: "multiselect", want: FilterCategorical},
		"number":               {input: "number", want: FilterNumber},
		"range alias":          {input: " Range ", want: FilterNumber},
		"date":                 {input: "DATE", want: FilterDate},
		"autocomplete":         {input: "stringAutoComplete", want: FilterStringAutoComplete},
		"unknown":              {input: "slider", wantErr: true},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := ParseFilterType(test.input)
			if test.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.want, got)
		})
	}
}

func TestFilterType_IsCategorical(t *testing.T) {
	assert.True(t, FilterCategorical.IsCategorical())
	assert.True(t, FilterStringAutoComplete.IsCategorical())
	assert.False(t, FilterNumber.IsCategorical())
	assert.False(t, FilterDate.IsCategorical())
}

func TestSortDirection(t *testing.T) {
	assert.Equal(t, "asc", SortAscending.String())
	assert.Equal(t, "desc", SortDescending.String())
	assert.Equal(t, 1, SortAscending.Sign())
	assert.Equal(t, -1, SortDescending.Sign())

	data, err := json.Marshal(SortDescending)
	require.NoError(t, err)
	assert.Equal(t, `"desc"`, string(data))

	d, err := ParseSortDirection("Descending")
	require.NoError(t, err)
	assert.Equal(t, SortDescending, d)

	_, err = ParseSortDirection("up")
	assert.Error(t, err)
}

func TestEnums_UnmarshalYAML(t *testing.T) {
	var cfg struct {
		Filter FilterType    `yaml:"filter"`
		Sort   SortDirection `yaml:"sort"`
	}

	require.NoError(t, yaml.Unmarshal([]byte("filter: date\nsort: desc\n"), &cfg))
	assert.Equal(t, FilterDate, cfg.Filter)
	assert.Equal(t, SortDescending, cfg.Sort)

	assert.Error(t, yaml.Unmarshal([]byte("filter: slider\n"), &cfg))
	assert.Error(t, yaml.Unmarshal([]byte("sort: sideways\n"), &cfg))
}

func TestActionKindAndSide_String(t *testing.T) {
	assert.Equal(t, "none", ActionNone.String())
	assert.Equal(t, "routerLink", ActionRouterLink.String())
	assert.Equal(t, "href", ActionHref.String())
	assert.Equal(t, "click", ActionClick.String())

	data, err := json.Marshal(ActionHref)
	require.NoError(t, err)
	assert.Equal(t, `"href"`, string(data))

	assert.Equal(t, "left", SideLeft.String())
	assert.Equal(t, "center", SideCenter.String())
	assert.Equal(t, "right", SideRight.String())
}

func TestSort_EqualAndClone(t *testing.T) {
	var unsorted *Sort
	byName := &Sort{Active: "name", Direction: SortAscending}

	assert.True(t, unsorted.Equal(nil))
	assert.False(t, unsorted.Equal(byName))
	assert.False(t, byName.Equal(nil))
	assert.True(t, byName.Equal(&Sort{Active: "name"}))
	assert.False(t, byName.Equal(&Sort{Active: "name", Direction: SortDescending}))

	assert.Nil(t, unsorted.Clone())
	c := byName.Clone()
	c.Direction = SortDescending
	assert.Equal(t, SortAscending, byName.Direction)
}
