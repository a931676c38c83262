// SPDX-License-Identifier: GPL-3.0-or-later

package gridapi

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FilterType defines how a column is filtered and which facet domain it offers.
type FilterType uint8

const (
	// FilterCategorical filters by a set of accepted values (multiselect).
	FilterCategorical FilterType = iota
	// FilterNumber filters by an inclusive [min, max] range.
	FilterNumber
	// FilterDate filters by a [start, end] day range, end day included.
	FilterDate
	// FilterStringAutoComplete is categorical filtering with a typed-ahead option list.
	FilterStringAutoComplete
)

// String returns the keyword used for this filter type.
func (t FilterType) String() string {
	switch t {
	case FilterNumber:
		return "number"
	case FilterDate:
		return "date"
	case FilterStringAutoComplete:
		return "stringAutoComplete"
	default:
		return "categorical"
	}
}

// IsCategorical reports whether values are filtered by set membership.
func (t FilterType) IsCategorical() bool {
	return t == FilterCategorical || t == FilterStringAutoComplete
}

// ParseFilterType parses a filter type keyword. An empty string is categorical.
func ParseFilterType(s string) (FilterType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "categorical", "multiselect":
		return FilterCategorical, nil
	case "number", "numeric", "range":
		return FilterNumber, nil
	case "date":
		return FilterDate, nil
	case "stringautocomplete", "autocomplete":
		return FilterStringAutoComplete, nil
	default:
		return FilterCategorical, fmt.Errorf("unknown filter type '%s'", s)
	}
}

// MarshalJSON encodes the filter type as a keyword.
func (t FilterType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalYAML decodes a filter type keyword.
func (t *FilterType) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	v, err := ParseFilterType(s)
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// SortDirection defines the order of a sorted column or of facet options.
type SortDirection uint8

const (
	// SortAscending orders values from low to high.
	SortAscending SortDirection = iota
	// SortDescending orders values from high to low.
	SortDescending
)

// String returns the fragment keyword used for this direction.
func (d SortDirection) String() string {
	switch d {
	case SortDescending:
		return "desc"
	default:
		return "asc"
	}
}

// Sign is the comparator multiplier for the direction: 1 or -1.
func (d SortDirection) Sign() int {
	if d == SortDescending {
		return -1
	}
	return 1
}

// ParseSortDirection parses "asc"/"desc" (and their long forms).
func ParseSortDirection(s string) (SortDirection, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asc", "ascending":
		return SortAscending, nil
	case "desc", "descending":
		return SortDescending, nil
	default:
		return SortAscending, fmt.Errorf("unknown sort direction '%s'", s)
	}
}

// MarshalJSON encodes the direction as a keyword.
func (d SortDirection) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalYAML decodes a direction keyword.
func (d *SortDirection) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	v, err := ParseSortDirection(s)
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// ActionKind defines what a cell side does when activated.
type ActionKind uint8

const (
	// ActionNone has no action.
	ActionNone ActionKind = iota
	// ActionRouterLink navigates inside the host application.
	ActionRouterLink
	// ActionHref opens an external location.
	ActionHref
	// ActionClick invokes a host callback.
	ActionClick
)

// String returns the keyword used for this action kind.
func (k ActionKind) String() string {
	switch k {
	case ActionRouterLink:
		return "routerLink"
	case ActionHref:
		return "href"
	case ActionClick:
		return "click"
	default:
		return "none"
	}
}

// MarshalJSON encodes the action kind as a keyword.
func (k ActionKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// Side identifies one of the three action slots of a cell.
type Side uint8

const (
	SideLeft Side = iota
	SideCenter
	SideRight
)

func (s Side) String() string {
	switch s {
	case SideCenter:
		return "center"
	case SideRight:
		return "right"
	default:
		return "left"
	}
}
