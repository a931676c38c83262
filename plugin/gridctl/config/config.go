// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v2"

	"github.com/netdata/netdata/go/datagrid/pkg/confopt"
	"github.com/netdata/netdata/go/datagrid/pkg/gridapi"
)

var (
	errNoRows    = errors.New("at least one row file pattern is required")
	errNoColumns = errors.New("at least one column is required")
)

// Config is a table definition file.
type Config struct {
	Name        string           `yaml:"name" json:"name" jsonschema:"title=Table name"`
	Rows        []string         `yaml:"rows" json:"rows" jsonschema:"title=Row files,description=Glob patterns of JSON or JSON lines files. Relative patterns are resolved against the config file directory.,minItems=1"`
	StateFile   string           `yaml:"state_file,omitempty" json:"state_file,omitempty" jsonschema:"title=State file,description=File holding the table state fragment."`
	FlushEvery  confopt.Duration `yaml:"flush_every,omitempty" json:"flush_every,omitempty" jsonschema:"title=State flush interval"`
	Controls    confopt.AutoBool `yaml:"controls,omitempty" json:"controls,omitempty" jsonschema:"enum=auto,enum=enabled,enum=disabled"`
	Sortable    confopt.AutoBool `yaml:"sortable,omitempty" json:"sortable,omitempty" jsonschema:"enum=auto,enum=enabled,enum=disabled"`
	DefaultSort *SortConfig      `yaml:"default_sort,omitempty" json:"default_sort,omitempty"`
	Highlight   string           `yaml:"highlight,omitempty" json:"highlight,omitempty" jsonschema:"title=Row highlight template,description=Rows for which the template renders 'true' are highlighted."`
	Columns     []ColumnConfig   `yaml:"columns" json:"columns" jsonschema:"minItems=1"`

	path string
}

// SortConfig is the initial sort of a table.
type SortConfig struct {
	Column    string `yaml:"column" json:"column"`
	Direction string `yaml:"direction,omitempty" json:"direction,omitempty" jsonschema:"enum=asc,enum=desc"`
}

// ColumnConfig declares one column. Template fields are text/template
// sources with sprig functions.
type ColumnConfig struct {
	ID      string `yaml:"id" json:"id"`
	Heading string `yaml:"heading,omitempty" json:"heading,omitempty"`
	Key     string `yaml:"key,omitempty" json:"key,omitempty" jsonschema:"description=Dotted path of the value in a row. Defaults to the column id."`

	FilterType        string           `yaml:"filter_type,omitempty" json:"filter_type,omitempty" jsonschema:"enum=categorical,enum=number,enum=date,enum=stringAutoComplete"`
	Filterable        confopt.AutoBool `yaml:"filterable,omitempty" json:"filterable,omitempty" jsonschema:"enum=auto,enum=enabled,enum=disabled"`
	NumericFilterStep *float64         `yaml:"numeric_filter_step,omitempty" json:"numeric_filter_step,omitempty"`
	FilterValues      []any            `yaml:"filter_values,omitempty" json:"filter_values,omitempty"`
	FilterSort        string           `yaml:"filter_sort,omitempty" json:"filter_sort,omitempty" jsonschema:"enum=asc,enum=desc"`

	Hidden bool             `yaml:"hidden,omitempty" json:"hidden,omitempty"`
	Show   confopt.AutoBool `yaml:"show,omitempty" json:"show,omitempty" jsonschema:"enum=auto,enum=enabled,enum=disabled"`

	Getter            string `yaml:"getter,omitempty" json:"getter,omitempty" jsonschema:"description=Template over the row producing the cell value."`
	Formatter         string `yaml:"formatter,omitempty" json:"formatter,omitempty" jsonschema:"description=Template over the cell value producing its display text."`
	ToolTip           string `yaml:"tooltip,omitempty" json:"tooltip,omitempty"`
	FilterGetter      string `yaml:"filter_getter,omitempty" json:"filter_getter,omitempty"`
	FilterFormatter   string `yaml:"filter_formatter,omitempty" json:"filter_formatter,omitempty"`
	ExtraSearchGetter string `yaml:"extra_search,omitempty" json:"extra_search,omitempty"`

	Href string `yaml:"href,omitempty" json:"href,omitempty" jsonschema:"description=Template over the row producing a link for the cell."`
	Icon string `yaml:"icon,omitempty" json:"icon,omitempty"`
}

// Load reads and validates a table definition file.
func Load(path string) (*Config, error) {
	path, err := homedir.Expand(path)
	if err != nil {
		return nil, fmt.Errorf("expand config path: %w", err)
	}

	bs, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg, err := Parse(bs)
	if err != nil {
		return nil, fmt.Errorf("config '%s': %w", path, err)
	}
	cfg.path = path

	if err := cfg.resolvePaths(filepath.Dir(path)); err != nil {
		return nil, fmt.Errorf("config '%s': %w", path, err)
	}

	return cfg, nil
}

// Parse decodes and validates a table definition.
func Parse(bs []byte) (*Config, error) {
	var cfg Config
	if err := yaml.UnmarshalStrict(bs, &cfg); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Path returns the file the config was loaded from.
func (c *Config) Path() string { return c.path }

// Validate checks the declarative part of the config. Templates are checked
// when the columns are built.
func (c *Config) Validate() error {
	if len(c.Rows) == 0 {
		return errNoRows
	}
	if len(c.Columns) == 0 {
		return errNoColumns
	}
	for i, col := range c.Columns {
		if strings.TrimSpace(col.ID) == "" {
			return fmt.Errorf("column %d: %w", i, gridapi.ErrEmptyColumnID)
		}
		if _, err := gridapi.ParseFilterType(col.FilterType); err != nil {
			return fmt.Errorf("column '%s': %w", col.ID, err)
		}
		if col.FilterSort != "" {
			if _, err := gridapi.ParseSortDirection(col.FilterSort); err != nil {
				return fmt.Errorf("column '%s': %w", col.ID, err)
			}
		}
	}
	if c.DefaultSort != nil && c.DefaultSort.Direction != "" {
		if _, err := gridapi.ParseSortDirection(c.DefaultSort.Direction); err != nil {
			return fmt.Errorf("default sort: %w", err)
		}
	}
	return nil
}

func (c *Config) resolvePaths(dir string) error {
	for i, pattern := range c.Rows {
		p, err := resolvePath(dir, pattern)
		if err != nil {
			return fmt.Errorf("rows pattern '%s': %w", pattern, err)
		}
		c.Rows[i] = p
	}
	if c.StateFile != "" {
		p, err := resolvePath(dir, c.StateFile)
		if err != nil {
			return fmt.Errorf("state file '%s': %w", c.StateFile, err)
		}
		c.StateFile = p
	}
	return nil
}

func resolvePath(dir, p string) (string, error) {
	p, err := homedir.Expand(p)
	if err != nil {
		return "", err
	}
	if !filepath.IsAbs(p) {
		p = filepath.Join(dir, p)
	}
	return p, nil
}

// Sort returns the default sort, or nil when the table starts unsorted.
func (c *Config) Sort() *gridapi.Sort {
	if c.DefaultSort == nil || c.DefaultSort.Column == "" {
		return nil
	}
	dir, _ := gridapi.ParseSortDirection(c.DefaultSort.Direction)
	if c.DefaultSort.Direction == "" {
		dir = gridapi.SortAscending
	}
	return &gridapi.Sort{Active: c.DefaultSort.Column, Direction: dir}
}
