// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"

	"github.com/netdata/netdata/go/datagrid/pkg/gridapi"
)

// Build converts the column declarations to engine columns, compiling their templates.
func (c *Config) Build() ([]gridapi.Column, error) {
	cols := make([]gridapi.Column, 0, len(c.Columns))
	for _, cc := range c.Columns {
		col, err := cc.build()
		if err != nil {
			return nil, fmt.Errorf("column '%s': %w", cc.ID, err)
		}
		cols = append(cols, col)
	}
	return cols, nil
}

// HighlightFunc returns the row highlight predicate, or nil when none is configured.
func (c *Config) HighlightFunc() (func(datum any) bool, error) {
	t, err := parseTemplate("highlight", c.Highlight)
	if err != nil || t == nil {
		return nil, err
	}
	return t.bool, nil
}

func (cc ColumnConfig) build() (gridapi.Column, error) {
	ft, err := gridapi.ParseFilterType(cc.FilterType)
	if err != nil {
		return gridapi.Column{}, err
	}

	col := gridapi.Column{
		ID:                cc.ID,
		Heading:           cc.Heading,
		Key:               gridapi.ParseKey(cc.Key),
		FilterType:        ft,
		Filterable:        cc.Filterable,
		NumericFilterStep: cc.NumericFilterStep,
		FilterValues:      cc.FilterValues,
		Hidden:            cc.Hidden,
		Show:              cc.Show,
	}
	if col.Heading == "" {
		col.Heading = cc.ID
	}
	if cc.FilterSort != "" {
		if col.FilterSortDirection, err = gridapi.ParseSortDirection(cc.FilterSort); err != nil {
			return gridapi.Column{}, err
		}
	}

	templates := []struct {
		name string
		text string
		bind func(t *tmpl)
	}{
		{"getter", cc.Getter, func(t *tmpl) { col.Getter = t.value }},
		{"formatter", cc.Formatter, func(t *tmpl) { col.Formatter = t.value }},
		{"tooltip", cc.ToolTip, func(t *tmpl) { col.ToolTipFormatter = t.value }},
		{"filter_getter", cc.FilterGetter, func(t *tmpl) { col.FilterGetter = t.value }},
		{"filter_formatter", cc.FilterFormatter, func(t *tmpl) { col.FilterFormatter = t.value }},
		{"extra_search", cc.ExtraSearchGetter, func(t *tmpl) { col.ExtraSearchGetter = t.value }},
		{"href", cc.Href, func(t *tmpl) {
			col.Center.Kind = gridapi.ActionHref
			col.Center.Href = t.render
		}},
	}

	for _, tt := range templates {
		t, err := parseTemplate(cc.ID+"."+tt.name, tt.text)
		if err != nil {
			return gridapi.Column{}, err
		}
		if t != nil {
			tt.bind(t)
		}
	}

	if cc.Icon != "" {
		col.Center.Icon = cc.Icon
	}

	return col, nil
}
