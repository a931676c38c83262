// SPDX-License-Identifier: GPL-3.0-or-later

package agent

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/netdata/netdata/go/datagrid/logger"
	"github.com/netdata/netdata/go/datagrid/pkg/gridapi"
	"github.com/netdata/netdata/go/datagrid/pkg/gridstate"
	"github.com/netdata/netdata/go/datagrid/pkg/gridtable"
	"github.com/netdata/netdata/go/datagrid/plugin/gridctl/agent/filelock"
	"github.com/netdata/netdata/go/datagrid/plugin/gridctl/agent/filepersister"
	"github.com/netdata/netdata/go/datagrid/plugin/gridctl/config"
	"github.com/netdata/netdata/go/datagrid/plugin/gridctl/render"
	"github.com/netdata/netdata/go/datagrid/plugin/gridctl/source"
)

// Config configures one gridctl run.
type Config struct {
	Table *config.Config

	// Command line overrides applied on top of the restored state.
	Fragment string
	Search   string
	Sort     *gridapi.Sort

	Format render.Format
	Limit  int
	Facets bool
	Watch  bool
	Out    io.Writer
}

// Agent runs a table over row files and prints its view.
type Agent struct {
	*logger.Logger

	cfg Config
	out io.Writer
	mu  sync.Mutex // serializes output
}

// New returns an agent for cfg.
func New(cfg Config) *Agent {
	out := cfg.Out
	if out == nil {
		out = os.Stdout
	}
	return &Agent{
		Logger: logger.New().With(
			slog.String("component", "gridctl"),
			slog.String("table", cfg.Table.Name),
		),
		cfg: cfg,
		out: out,
	}
}

// Run loads the table and prints it. In watch mode it keeps printing on
// every change until ctx is done.
func (a *Agent) Run(ctx context.Context) error {
	a.Info("instance is started")
	defer func() { a.Info("instance is stopped") }()

	tc := a.cfg.Table

	cols, err := tc.Build()
	if err != nil {
		return err
	}
	highlight, err := tc.HighlightFunc()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	locker := filelock.New()
	defer func() {
		cancel()
		wg.Wait()
		locker.UnlockAll()
	}()

	codec := gridstate.Codec{Controls: tc.Controls.Bool(true), Sortable: tc.Sortable.Bool(true)}

	var store *gridstate.FileStore
	var sink gridstate.Sink
	if tc.StateFile != "" {
		if err := locker.Acquire(tc.StateFile); err != nil {
			return err
		}

		if store, err = gridstate.NewFileStore(tc.StateFile); err != nil {
			return err
		}
		sink = gridstate.NewFragmentSink(codec, store)

		p := filepersister.New(tc.StateFile)
		if d := tc.FlushEvery.Duration(); d > 0 {
			p.FlushEvery = d
		}
		wg.Add(1)
		go func() { defer wg.Done(); p.Run(ctx, store) }()
	} else {
		sink = gridstate.NewFragmentSink(codec, gridstate.NewMemoryStore(""))
	}

	tbl := gridtable.New(gridtable.Options{
		Controls:    tc.Controls,
		Sortable:    tc.Sortable,
		DefaultSort: tc.Sort(),
		Highlight:   highlight,
		Sink:        sink,
		Logger:      a.Logger,
	})
	if err := tbl.SetColumns(cols); err != nil {
		return err
	}

	rows := source.Files{Patterns: tc.Rows}
	if err := tbl.Load(ctx, rows); err != nil {
		return err
	}

	a.applyOverrides(tbl, codec)

	if err := a.print(tbl); err != nil {
		return err
	}
	select {
	case <-tbl.Updated():
	default:
	}

	if !a.cfg.Watch {
		return nil
	}

	return a.watch(ctx, tbl, rows, store)
}

func (a *Agent) applyOverrides(tbl *gridtable.Table, codec gridstate.Codec) {
	if a.cfg.Fragment != "" {
		base := codec.Encode(tbl.State(), tbl.Columns(), "")
		merged := gridstate.MergeFragments(base, a.cfg.Fragment)
		tbl.ApplyState(codec.Decode(merged, tbl.Columns()))
	}
	if a.cfg.Search != "" {
		tbl.Search(a.cfg.Search)
	}
	if a.cfg.Sort != nil {
		if !tbl.Columns().Contains(a.cfg.Sort.Active) {
			a.Warningf("ignoring sort by unknown column '%s'", a.cfg.Sort.Active)
		} else {
			tbl.SetSort(a.cfg.Sort)
		}
	}
}

func (a *Agent) watch(ctx context.Context, tbl *gridtable.Table, rows source.Files, store *gridstate.FileStore) error {
	patterns := slices.Clone(rows.Patterns)
	if store != nil {
		patterns = append(patterns, store.Path())
	}

	restore := make(chan struct{}, 1)
	go tbl.Watch(ctx, restore)

	w := source.NewWatcher(patterns...)
	go func() {
		err := w.Run(ctx, func(paths []string) {
			if store != nil && slices.Contains(paths, filepath.Clean(store.Path())) {
				if changed, err := store.Reload(); err != nil {
					a.Warning(err)
				} else if changed {
					select {
					case restore <- struct{}{}:
					default:
					}
				}
			}
			if slices.ContainsFunc(paths, isRowFile(w, store)) {
				tbl.SetSource(ctx, rows)
			}
		})
		if err != nil {
			a.Error(err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			tbl.Wait()
			return nil
		case <-tbl.Updated():
			if tbl.Loading() {
				continue
			}
			if err := a.print(tbl); err != nil {
				return fmt.Errorf("print table: %w", err)
			}
		}
	}
}

func isRowFile(w *source.Watcher, store *gridstate.FileStore) func(string) bool {
	return func(path string) bool {
		if store != nil && path == filepath.Clean(store.Path()) {
			return false
		}
		return w.Matches(path)
	}
}

func (a *Agent) print(tbl *gridtable.Table) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	v := render.Snapshot(a.cfg.Table.Name, tbl, a.cfg.Limit, a.cfg.Facets)
	return v.Write(a.out, a.cfg.Format)
}
