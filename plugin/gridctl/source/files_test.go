// SPDX-License-Identifier: GPL-3.0-or-later

package source

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func raw(rows []any) []string {
	var out []string
	for _, r := range rows {
		out = append(out, string(r.(json.RawMessage)))
	}
	return out
}

func TestParseRows(t *testing.T) {
	tests := map[string]struct {
		input   string
		want    []string
		wantErr bool
	}{
		"empty": {
			input: "  \n",
		},
		"array": {
			input: `[{"a":1}, {"a":2}]`,
			want:  []string{`{"a":1}`, `{"a":2}`},
		},
		"json lines": {
			input: "{\"a\":1}\n\n{\"a\":2}\n",
			want:  []string{`{"a":1}`, `{"a":2}`},
		},
		"single pretty object": {
			input: "{\n  \"a\": 1\n}",
			want:  []string{"{\n  \"a\": 1\n}"},
		},
		"invalid array": {
			input:   `[{"a":1}`,
			wantErr: true,
		},
		"invalid line": {
			input:   "{\"a\":1}\n{\"a\":\n",
			wantErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			rows, err := ParseRows([]byte(test.input))

			if test.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.want, raw(rows))
		})
	}
}

func TestFiles_Fetch(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.json"), []byte(`[{"n":"b1"},{"n":"b2"}]`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.jsonl"), []byte("{\"n\":\"a1\"}\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "c.json"), []byte(`{"n":"c1"}`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "skip.txt"), []byte(`{"n":"x"}`), 0644))

	src := Files{Patterns: []string{
		filepath.Join(dir, "**", "*.json"),
		filepath.Join(dir, "*.jsonl"),
		filepath.Join(dir, "b.json"),
	}}

	paths, err := src.Paths()
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.jsonl"),
		filepath.Join(dir, "b.json"),
		filepath.Join(dir, "sub", "c.json"),
	}, paths)

	rows, err := src.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{`{"n":"a1"}`, `{"n":"b1"}`, `{"n":"b2"}`, `{"n":"c1"}`}, raw(rows))
}

func TestFiles_FetchError(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{\"n\":\n"), 0644))

	_, err := Files{Patterns: []string{filepath.Join(dir, "*.json")}}.Fetch(context.Background())
	assert.ErrorContains(t, err, "bad.json")

	_, err = Files{Patterns: []string{"[bad"}}.Paths()
	assert.Error(t, err)
}
