// SPDX-License-Identifier: GPL-3.0-or-later

package source

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/netdata/netdata/go/datagrid/logger"
)

// Watcher reports changes of files matching its patterns. Changes arriving
// within Debounce of each other are reported together.
type Watcher struct {
	*logger.Logger

	Patterns []string
	Debounce time.Duration
}

// NewWatcher returns a watcher for the glob patterns. Plain paths are patterns
// matching only themselves.
func NewWatcher(patterns ...string) *Watcher {
	return &Watcher{
		Logger: logger.New().With(
			slog.String("component", "file watcher"),
		),
		Patterns: patterns,
		Debounce: 250 * time.Millisecond,
	}
}

// Run watches until ctx is done, calling onChange with the sorted changed paths.
func (w *Watcher) Run(ctx context.Context, onChange func(paths []string)) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create file watcher: %w", err)
	}
	defer func() { _ = fw.Close() }()

	for _, dir := range w.dirs() {
		if err := fw.Add(dir); err != nil {
			w.Warningf("failed to watch '%s': %v", dir, err)
		}
	}

	w.Info("instance is started")
	defer func() { w.Info("instance is stopped") }()

	timer := time.NewTimer(w.Debounce)
	timer.Stop()
	defer timer.Stop()

	pending := make(map[string]bool)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if ev.Op == fsnotify.Chmod {
				continue
			}
			if ev.Has(fsnotify.Create) && w.isRecursiveDir(ev.Name) {
				if err := fw.Add(ev.Name); err != nil {
					w.Warningf("failed to watch '%s': %v", ev.Name, err)
				}
			}
			if !w.Matches(ev.Name) {
				continue
			}
			w.Debugf("%s: %s", ev.Op, ev.Name)
			pending[filepath.Clean(ev.Name)] = true
			timer.Reset(w.Debounce)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.Warningf("watch error: %v", err)
		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			clear(pending)
			slices.Sort(paths)
			onChange(paths)
		}
	}
}

// Matches reports whether path matches any pattern.
func (w *Watcher) Matches(path string) bool {
	path = filepath.Clean(path)
	for _, pattern := range w.Patterns {
		if ok, err := doublestar.PathMatch(filepath.Clean(pattern), path); err == nil && ok {
			return true
		}
	}
	return false
}

// dirs returns the directories to watch: the static base of every pattern,
// plus existing subdirectories of patterns with '**'.
func (w *Watcher) dirs() []string {
	var dirs []string
	for _, pattern := range w.Patterns {
		base, _ := doublestar.SplitPattern(filepath.ToSlash(filepath.Clean(pattern)))
		base = filepath.FromSlash(base)
		dirs = append(dirs, base)

		if !strings.Contains(pattern, "**") {
			continue
		}
		_ = filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
			if err == nil && d.IsDir() && path != base {
				dirs = append(dirs, path)
			}
			return nil
		})
	}
	slices.Sort(dirs)
	return slices.Compact(dirs)
}

func (w *Watcher) isRecursiveDir(path string) bool {
	for _, pattern := range w.Patterns {
		if !strings.Contains(pattern, "**") {
			continue
		}
		base, _ := doublestar.SplitPattern(filepath.ToSlash(filepath.Clean(pattern)))
		if strings.HasPrefix(filepath.ToSlash(path), base+"/") {
			return isDir(path)
		}
	}
	return false
}
