// SPDX-License-Identifier: GPL-3.0-or-later

package source

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/tidwall/gjson"

	"github.com/netdata/netdata/go/datagrid/pkg/resolve"
)

// Files is a row source reading every file matching its glob patterns.
// A file holds either one JSON array of rows, one JSON object, or JSON lines.
// Rows are kept as raw JSON.
type Files struct {
	Patterns []string
	Resolver *resolve.Resolver
}

// Paths returns the matching files, sorted and without duplicates.
func (f Files) Paths() ([]string, error) {
	var paths []string
	for _, pattern := range f.Patterns {
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("glob '%s': %w", pattern, err)
		}
		paths = append(paths, matches...)
	}
	slices.Sort(paths)
	return slices.Compact(paths), nil
}

// Fetch reads the matching files concurrently and returns their rows in
// file order.
func (f Files) Fetch(ctx context.Context) ([]any, error) {
	paths, err := f.Paths()
	if err != nil {
		return nil, err
	}

	pending := make([]any, len(paths))
	for i, path := range paths {
		pending[i] = resolve.FutureFunc(func(context.Context) (any, error) {
			return ReadFile(path)
		})
	}

	res := f.Resolver
	if res == nil {
		res = resolve.New()
	}
	files, err := res.All(ctx, pending)
	if err != nil {
		return nil, err
	}

	var rows []any
	for _, v := range files {
		if fileRows, ok := v.([]any); ok {
			rows = append(rows, fileRows...)
		}
	}
	return rows, nil
}

// ReadFile returns the rows of one file.
func ReadFile(path string) ([]any, error) {
	bs, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	rows, err := ParseRows(bs)
	if err != nil {
		return nil, fmt.Errorf("file '%s': %w", filepath.Base(path), err)
	}
	return rows, nil
}

// ParseRows splits a document into raw JSON rows.
func ParseRows(bs []byte) ([]any, error) {
	bs = bytes.TrimSpace(bs)
	if len(bs) == 0 {
		return nil, nil
	}

	if bs[0] == '[' {
		if !gjson.ValidBytes(bs) {
			return nil, fmt.Errorf("invalid JSON array")
		}
		var rows []any
		gjson.ParseBytes(bs).ForEach(func(_, value gjson.Result) bool {
			rows = append(rows, json.RawMessage(value.Raw))
			return true
		})
		return rows, nil
	}

	var rows []any
	sc := bufio.NewScanner(bytes.NewReader(bs))
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for n := 1; sc.Scan(); n++ {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		if !gjson.ValidBytes(line) {
			if n == 1 && gjson.ValidBytes(bs) {
				// a single pretty printed object
				return []any{json.RawMessage(bs)}, nil
			}
			return nil, fmt.Errorf("line %d: invalid JSON", n)
		}
		rows = append(rows, json.RawMessage(slices.Clone(line)))
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return rows, nil
}

func isDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}
