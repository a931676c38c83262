// SPDX-License-Identifier: GPL-3.0-or-later

package gridstate

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync"

	"github.com/gofrs/flock"
)

// LockPath returns the lock file guarding a state file. Writers of the state
// file take the exclusive lock, FileStore takes the shared one to read.
func LockPath(path string) string { return path + ".lock" }

// FileStore is a FragmentStore backed by a state file.
//
// SetFragment only updates memory and signals Updated; the file is written by
// a persister consuming Bytes and Updated. Reload picks up external edits.
type FileStore struct {
	path    string
	lock    *flock.Flock
	updated chan struct{}

	mu       sync.Mutex
	fragment string
}

// NewFileStore returns a store for path and reads the current file content.
// A missing file is an empty fragment.
func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{
		path:    path,
		lock:    flock.New(LockPath(path)),
		updated: make(chan struct{}, 1),
	}
	if _, err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the state file path.
func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Fragment() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fragment, nil
}

func (s *FileStore) SetFragment(fragment string) error {
	s.mu.Lock()
	changed := s.fragment != fragment
	s.fragment = fragment
	s.mu.Unlock()

	if changed {
		select {
		case s.updated <- struct{}{}:
		default:
		}
	}
	return nil
}

// Bytes returns the file content for the current fragment.
func (s *FileStore) Bytes() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return []byte(s.fragment + "\n"), nil
}

// Updated signals a fragment change that needs to be persisted.
func (s *FileStore) Updated() <-chan struct{} { return s.updated }

// Reload reads the state file and reports whether the fragment changed.
func (s *FileStore) Reload() (bool, error) {
	if err := s.lock.RLock(); err != nil {
		return false, fmt.Errorf("lock state file: %w", err)
	}
	bs, err := os.ReadFile(s.path)
	_ = s.lock.Unlock()

	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("read state file: %w", err)
	}
	fragment := strings.TrimSpace(string(bs))

	s.mu.Lock()
	defer s.mu.Unlock()
	changed := s.fragment != fragment
	s.fragment = fragment
	return changed, nil
}
