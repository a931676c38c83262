// SPDX-License-Identifier: GPL-3.0-or-later

package rowsvc

import (
	"log/slog"
	"strings"

	"github.com/netdata/netdata/go/datagrid/logger"
	"github.com/netdata/netdata/go/datagrid/pkg/gridapi"
)

var log = logger.New().With(slog.String("component", "rowsvc"))

// safe runs a column capability. A panicking capability yields nil.
func safe[T any](col *gridapi.Column, what string, fn func() T) (v T) {
	defer func() {
		if r := recover(); r != nil {
			log.Debugf("column '%s': %s panicked: %v", col.ID, what, r)
			var zero T
			v = zero
		}
	}()
	return fn()
}

// KeyPath returns the key path used for nested lookup. A column without a key is looked up by id.
func KeyPath(col *gridapi.Column) gridapi.Key {
	if len(col.Key) == 0 {
		return gridapi.SingleKey(col.ID)
	}
	return col.Key
}

// GetElementValue returns the display value of the column for datum.
func GetElementValue(datum any, col *gridapi.Column) any {
	if col.Getter != nil {
		return safe(col, "getter", func() any { return col.Getter(datum) })
	}
	return safe(col, "lookup", func() any {
		v, _ := Lookup(datum, KeyPath(col))
		return v
	})
}

// GetElementFilterValue returns the value the column's filter works on.
func GetElementFilterValue(datum any, col *gridapi.Column) any {
	if col.FilterGetter != nil {
		return safe(col, "filter getter", func() any { return col.FilterGetter(datum) })
	}
	return GetElementValue(datum, col)
}

// GetElementSearchValue returns the text indexed for the column: the formatted
// display value followed by the extra search text, if any.
func GetElementSearchValue(datum any, col *gridapi.Column) string {
	value := GetElementValue(datum, col)
	text := Text(FormatElementValue(value, col))

	if col.ExtraSearchGetter == nil {
		return text
	}
	extra := Text(safe(col, "extra search getter", func() any { return col.ExtraSearchGetter(datum) }))

	switch {
	case extra == "":
		return text
	case text == "":
		return extra
	default:
		return strings.Join([]string{text, extra}, " ")
	}
}

// FormatElementValue applies the column formatter to a raw value.
func FormatElementValue(value any, col *gridapi.Column) any {
	if col.Formatter == nil || IsNil(value) {
		return value
	}
	return safe(col, "formatter", func() any { return col.Formatter(value) })
}

// FormatElementToolTip formats a value for the cell tooltip.
func FormatElementToolTip(value any, col *gridapi.Column) any {
	if col.ToolTipFormatter == nil {
		return FormatElementValue(value, col)
	}
	if IsNil(value) {
		return value
	}
	return safe(col, "tooltip formatter", func() any { return col.ToolTipFormatter(value) })
}

// FormatElementFilterValue formats a filter value for a facet option label.
func FormatElementFilterValue(value any, col *gridapi.Column) any {
	if col.FilterFormatter == nil {
		return FormatElementValue(value, col)
	}
	if IsNil(value) {
		return value
	}
	return safe(col, "filter formatter", func() any { return col.FilterFormatter(value) })
}

// GetElementAction resolves a cell side action for datum.
func GetElementAction(datum any, col *gridapi.Column, side gridapi.Side) Action {
	def := col.Action(side)
	act := Action{Kind: def.Kind, Icon: def.Icon}

	switch def.Kind {
	case gridapi.ActionRouterLink:
		if def.RouterLink != nil {
			act.Link = safe(col, "router link", func() gridapi.Link { return def.RouterLink(datum) })
		}
	case gridapi.ActionHref:
		if def.Href != nil {
			act.Href = safe(col, "href", func() string { return def.Href(datum) })
		}
	case gridapi.ActionClick:
		if def.Click != nil {
			act.Click = safe(col, "click", func() func() { return def.Click(datum) })
		}
	}
	if def.IconTitle != nil {
		act.IconTitle = safe(col, "icon title", func() string { return def.IconTitle(datum) })
	}

	return act
}

// BuildCache computes the cell cache of every column for the row.
func BuildCache(row *Row, cols []gridapi.Column) {
	cache := make(map[string]*Cell, len(cols))
	for i := range cols {
		col := &cols[i]
		value := GetElementValue(row.Datum, col)
		cache[col.ID] = &Cell{
			Value:   FormatElementValue(value, col),
			ToolTip: FormatElementToolTip(value, col),
			Left:    GetElementAction(row.Datum, col, gridapi.SideLeft),
			Center:  GetElementAction(row.Datum, col, gridapi.SideCenter),
			Right:   GetElementAction(row.Datum, col, gridapi.SideRight),
		}
	}
	row.Cache = cache
}
