// SPDX-License-Identifier: GPL-3.0-or-later

// Package render writes a table view to a terminal or as JSON.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/netdata/netdata/go/datagrid/pkg/gridfilter"
	"github.com/netdata/netdata/go/datagrid/pkg/gridtable"
	"github.com/netdata/netdata/go/datagrid/pkg/rowsvc"
)

var cellText = strings.NewReplacer("\t", " ", "\n", " ", "\r", "")

// Format selects the output encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat parses an output format name. An empty name is text.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown output format '%s'", s)
	}
}

// View is a snapshot of what a table shows.
type View struct {
	Table    string                      `json:"table"`
	Columns  map[string]any              `json:"columns"`
	Visible  []string                    `json:"visible_columns"`
	Rows     []map[string]any            `json:"rows"`
	Total    int                         `json:"total"`
	Filtered map[string]bool             `json:"filtered"`
	Facets   map[string]gridfilter.Facet `json:"facets,omitempty"`
	Search   string                      `json:"search,omitempty"`

	headings []string
	cells    [][]string
	marks    []bool
}

// Snapshot captures the visible part of tbl. limit caps the number of rows, 0 means all.
func Snapshot(name string, tbl *gridtable.Table, limit int, facets bool) View {
	cs := tbl.Columns()
	visible := tbl.ColumnsToShow()
	rows := tbl.Rows()
	total := len(rows)
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}

	v := View{
		Table:    name,
		Columns:  tbl.Describe(),
		Visible:  visible,
		Rows:     make([]map[string]any, 0, len(rows)),
		Total:    total,
		Filtered: tbl.ColumnIsFiltered(),
		Search:   tbl.State().SearchQuery,
	}
	if facets {
		v.Facets = tbl.Facets()
	}

	for _, id := range visible {
		col, _ := cs.ByID(id)
		v.headings = append(v.headings, col.Heading)
	}

	for _, row := range rows {
		m := map[string]any{"_index": row.Index}
		if row.Highlight {
			m["_highlight"] = true
		}
		line := make([]string, 0, len(visible))
		for _, id := range visible {
			cell := row.Cell(id)
			var value any
			if cell != nil {
				value = cell.Value
				if href := cell.Center.Href; href != "" {
					m[id+"_href"] = href
				}
			}
			m[id] = value
			line = append(line, cellText.Replace(rowsvc.Text(value)))
		}
		v.Rows = append(v.Rows, m)
		v.cells = append(v.cells, line)
		v.marks = append(v.marks, row.Highlight)
	}

	return v
}

// Write encodes the view to w.
func (v View) Write(w io.Writer, format Format) error {
	if format == FormatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	return v.writeText(w)
}

func (v View) writeText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, " \t%s\n", strings.Join(v.headings, "\t"))
	for i, line := range v.cells {
		mark := " "
		if v.marks[i] {
			mark = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\n", mark, strings.Join(line, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "(%d of %d rows)\n", len(v.cells), v.Total)
	return err
}
