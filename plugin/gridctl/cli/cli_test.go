// SPDX-License-Identifier: GPL-3.0-or-later

package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := map[string]struct {
		args    []string
		want    *Option
		wantErr bool
	}{
		"defaults": {
			args: []string{"-c", "t.yaml"},
			want: &Option{Config: "t.yaml", SortDir: "asc", Format: "text"},
		},
		"everything": {
			args: []string{
				"-c", "t.yaml", "-r", "a/*.json", "-r", "b.jsonl", "-s", "t.state",
				"--fragment", "panel=1", "-q", "cafe", "--sort", "name", "--sort-dir", "desc",
				"-o", "json", "-n", "10", "--facets", "-w", "-d",
			},
			want: &Option{
				Config:   "t.yaml",
				Rows:     []string{"a/*.json", "b.jsonl"},
				State:    "t.state",
				Fragment: "panel=1",
				Search:   "cafe",
				Sort:     "name",
				SortDir:  "desc",
				Format:   "json",
				Limit:    10,
				Facets:   true,
				Watch:    true,
				Debug:    true,
			},
		},
		"bad choice": {
			args:    []string{"-o", "yaml"},
			wantErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			opt, err := Parse(test.args)

			if test.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.want, opt)
		})
	}
}
