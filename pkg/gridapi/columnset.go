// SPDX-License-Identifier: GPL-3.0-or-later

package gridapi

import (
	"errors"
	"fmt"

	"github.com/gohugoio/hashstructure"
)

var (
	ErrEmptyColumnID     = errors.New("column id is empty")
	ErrDuplicateColumnID = errors.New("duplicate column id")
)

// ColumnSet is an ordered, id-indexed set of column declarations bound to a table.
type ColumnSet struct {
	cols []Column
	byID map[string]int
}

// NewColumnSet validates the declarations and indexes them by id.
func NewColumnSet(cols []Column) (ColumnSet, error) {
	cs := ColumnSet{
		cols: make([]Column, len(cols)),
		byID: make(map[string]int, len(cols)),
	}
	copy(cs.cols, cols)

	for i, col := range cs.cols {
		if col.ID == "" {
			return ColumnSet{}, fmt.Errorf("column #%d: %w", i, ErrEmptyColumnID)
		}
		if _, ok := cs.byID[col.ID]; ok {
			return ColumnSet{}, fmt.Errorf("column '%s': %w", col.ID, ErrDuplicateColumnID)
		}
		cs.byID[col.ID] = i
	}

	return cs, nil
}

// Len returns the number of columns.
func (cs ColumnSet) Len() int { return len(cs.cols) }

// Columns returns the declarations in declaration order.
func (cs ColumnSet) Columns() []Column { return cs.cols }

// IDs returns column ids in declaration order.
func (cs ColumnSet) IDs() []string {
	ids := make([]string, 0, len(cs.cols))
	for _, col := range cs.cols {
		ids = append(ids, col.ID)
	}
	return ids
}

// Contains reports whether a column with the id is bound.
func (cs ColumnSet) Contains(id string) bool {
	_, ok := cs.byID[id]
	return ok
}

// ByID returns the column with the id.
func (cs ColumnSet) ByID(id string) (*Column, bool) {
	i, ok := cs.byID[id]
	if !ok {
		return nil, false
	}
	return &cs.cols[i], true
}

// Index returns the declaration position of the column, or -1.
func (cs ColumnSet) Index(id string) int {
	if i, ok := cs.byID[id]; ok {
		return i
	}
	return -1
}

// ByIDMap returns a lookup map of the bound columns.
func (cs ColumnSet) ByIDMap() map[string]*Column {
	m := make(map[string]*Column, len(cs.cols))
	for i := range cs.cols {
		m[cs.cols[i].ID] = &cs.cols[i]
	}
	return m
}

// DefaultVisibility returns the declared visibility of every column.
func (cs ColumnSet) DefaultVisibility() map[string]bool {
	m := make(map[string]bool, len(cs.cols))
	for _, col := range cs.cols {
		m[col.ID] = col.ShownByDefault()
	}
	return m
}

// Fingerprint hashes the declarative part of the set. Capability functions are not hashed.
func (cs ColumnSet) Fingerprint() (uint64, error) {
	return hashstructure.Hash(cs.cols, nil)
}

// Describe returns the UI description of every column, keyed by id.
func (cs ColumnSet) Describe(visible map[string]bool) map[string]any {
	out := make(map[string]any, len(cs.cols))
	for i, col := range cs.cols {
		out[col.ID] = col.Describe(i, visible[col.ID])
	}
	return out
}
