// SPDX-License-Identifier: GPL-3.0-or-later

package gridstate

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/netdata/netdata/go/datagrid/logger"
	"github.com/netdata/netdata/go/datagrid/pkg/gridapi"
	"github.com/netdata/netdata/go/datagrid/pkg/gridfilter"
	"github.com/netdata/netdata/go/datagrid/pkg/rowsvc"
)

var log = logger.New().With(slog.String("component", "state codec"))

const (
	keySearch       = "search"
	keySort         = "sort"
	keySortDir      = "sortDir"
	keyColumns      = "columns"
	keyPanel        = "panel"
	keyFilterPrefix = "filter."
)

// Codec maps a TableState to a flat fragment ("k=v&k=v") and back.
type Codec struct {
	// Controls enables the search, filter, columns and panel keys.
	Controls bool
	// Sortable enables the sort keys.
	Sortable bool
}

// NewCodec returns a codec with every key enabled.
func NewCodec() Codec {
	return Codec{Controls: true, Sortable: true}
}

// Encode writes state over base. Keys of base not owned by the table are kept.
// Pairs are sorted so that encoding is deterministic.
func (c Codec) Encode(state TableState, cols gridapi.ColumnSet, base string) string {
	ps := parseParams(base)

	if c.Controls {
		ps.del(keySearch)
		if state.SearchQuery != "" {
			ps.set(keySearch, state.SearchQuery)
		}

		for _, id := range cols.IDs() {
			key := keyFilterPrefix + id
			ps.del(key)
			fv, ok := state.Filter[id]
			if !ok {
				continue
			}
			v, err := marshalFilterValue(fv)
			if err != nil {
				log.Debugf("column '%s': failed to encode filter: %v", id, err)
				continue
			}
			ps.set(key, v)
		}

		ps.del(keyColumns)
		visible := state.VisibleColumns(cols)
		for _, id := range visible {
			ps.add(keyColumns, id)
		}
		if len(visible) == 0 {
			ps.add(keyColumns, "")
		}

		ps.del(keyPanel)
		if state.OpenControlPanelID != nil {
			ps.set(keyPanel, strconv.Itoa(*state.OpenControlPanelID))
		}
	}

	if c.Sortable {
		ps.del(keySort)
		ps.del(keySortDir)
		if state.Sort != nil && state.Sort.Active != "" {
			ps.set(keySort, state.Sort.Active)
			ps.set(keySortDir, state.Sort.Direction.String())
		}
	}

	return ps.encode()
}

// Decode parses a fragment. It never fails: unknown keys are ignored and
// malformed values reset their field to the default.
func (c Codec) Decode(fragment string, cols gridapi.ColumnSet) TableState {
	ps := parseParams(fragment)
	state := TableState{Filter: gridfilter.State{}}

	state.SearchQuery, _ = ps.get(keySearch)

	for _, p := range ps {
		id, ok := strings.CutPrefix(p.key, keyFilterPrefix)
		if !ok {
			continue
		}
		col, ok := cols.ByID(id)
		if !ok {
			continue
		}
		var fv []any
		if err := json.Unmarshal([]byte(p.value), &fv); err != nil || fv == nil {
			log.Debugf("column '%s': dropping malformed filter '%s'", id, p.value)
			continue
		}
		state.Filter[id] = decodeFilterValue(col, fv)
	}

	if ps.has(keyColumns) {
		state.ShowColumns = make(map[string]bool, cols.Len())
		for _, id := range cols.IDs() {
			state.ShowColumns[id] = false
		}
		for _, id := range ps.getAll(keyColumns) {
			if cols.Contains(id) {
				state.ShowColumns[id] = true
			}
		}
	} else {
		state.ShowColumns = cols.DefaultVisibility()
	}

	if v, ok := ps.get(keyPanel); ok {
		if id, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			state.OpenControlPanelID = &id
		} else {
			log.Debugf("dropping malformed panel '%s'", v)
		}
	}

	if active, _ := ps.get(keySort); active != "" {
		dir := gridapi.SortAscending
		if v, ok := ps.get(keySortDir); ok && v != "" {
			d, err := gridapi.ParseSortDirection(v)
			if err != nil {
				log.Debugf("dropping sort with malformed direction '%s'", v)
				return state
			}
			dir = d
		}
		state.Sort = &Sort{Active: active, Direction: dir}
	}

	return state
}

func marshalFilterValue(fv []any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(encodeFilterValue(fv)); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

func encodeFilterValue(fv []any) []any {
	out := make([]any, len(fv))
	for i, v := range fv {
		if t, ok := v.(time.Time); ok {
			out[i] = t.UTC().Format(time.RFC3339Nano)
		} else {
			out[i] = v
		}
	}
	return out
}

// decodeFilterValue turns date bounds back into times.
func decodeFilterValue(col *gridapi.Column, fv []any) []any {
	if col.FilterType != gridapi.FilterDate {
		return fv
	}
	for i, v := range fv {
		s, ok := v.(string)
		if !ok {
			continue
		}
		if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
			fv[i] = t.UTC()
		} else if t, ok := rowsvc.AsTime(s); ok {
			fv[i] = t.UTC()
		}
	}
	return fv
}
