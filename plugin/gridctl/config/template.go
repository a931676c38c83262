// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/bmatcuk/doublestar/v4"

	"github.com/netdata/netdata/go/datagrid/pkg/gridapi"
	"github.com/netdata/netdata/go/datagrid/pkg/rowsvc"
)

func newFuncMap() template.FuncMap {
	fm := sprig.TxtFuncMap()

	extra := map[string]any{
		"get": func(datum any, path string) any {
			v, _ := rowsvc.Lookup(datum, gridapi.ParseKey(path))
			return v
		},
		"text": rowsvc.Text,
		"glob": func(value, pattern string, patterns ...string) bool {
			for _, p := range append([]string{pattern}, patterns...) {
				if ok, err := doublestar.Match(p, value); err == nil && ok {
					return true
				}
			}
			return false
		},
	}

	for name, fn := range extra {
		fm[name] = fn
	}

	return fm
}

type tmpl struct {
	*template.Template
}

func parseTemplate(name, text string) (*tmpl, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	t, err := template.New(name).Option("missingkey=zero").Funcs(newFuncMap()).Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse template '%s': %w", name, err)
	}
	return &tmpl{t}, nil
}

// render executes the template. Execution errors panic so the engine treats
// the cell as failed.
func (t *tmpl) render(data any) string {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		panic(fmt.Errorf("execute template '%s': %w", t.Name(), err))
	}
	return strings.TrimSpace(buf.String())
}

// value renders the template and keeps numeric output numeric.
func (t *tmpl) value(data any) any {
	s := t.render(data)
	if s == "" {
		return nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

func (t *tmpl) bool(data any) bool {
	ok, _ := strconv.ParseBool(t.render(data))
	return ok
}
