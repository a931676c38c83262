// SPDX-License-Identifier: GPL-3.0-or-later

package filelock

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrLocked is returned by Acquire when another process owns the state file.
var ErrLocked = errors.New("state file is owned by another process")

// New returns an empty locker.
func New() *Locker {
	return &Locker{
		suffix: ".gridctl.lock",
		locks:  make(map[string]*flock.Flock),
	}
}

// Locker holds the instance locks of table state files, so that one process
// at a time writes a state file. The lock file sits next to the state file.
type Locker struct {
	suffix string
	locks  map[string]*flock.Flock
}

// LockFile returns the instance lock file of a state file.
func (l *Locker) LockFile(statePath string) string {
	return filepath.Clean(statePath) + l.suffix
}

// Lock takes the instance lock without blocking. ok is false when another
// process holds it.
func (l *Locker) Lock(statePath string) (ok bool, err error) {
	filename := l.LockFile(statePath)

	if _, ok := l.locks[filename]; ok {
		return true, nil
	}

	locker := flock.New(filename)

	if ok, err = locker.TryLock(); ok {
		l.locks[filename] = locker
	} else {
		_ = locker.Close()
	}

	return ok, err
}

// Acquire is Lock reporting a held lock as ErrLocked.
func (l *Locker) Acquire(statePath string) error {
	ok, err := l.Lock(statePath)
	if err != nil {
		return fmt.Errorf("lock '%s': %w", statePath, err)
	}
	if !ok {
		return fmt.Errorf("'%s': %w", statePath, ErrLocked)
	}
	return nil
}

func (l *Locker) Unlock(statePath string) {
	filename := l.LockFile(statePath)

	if locker, ok := l.locks[filename]; ok {
		delete(l.locks, filename)
		_ = locker.Close()
	}
}

func (l *Locker) UnlockAll() {
	for key, locker := range l.locks {
		delete(l.locks, key)
		_ = locker.Close()
	}
}

// IsLocked reports whether this locker holds the lock of the state file.
func (l *Locker) IsLocked(statePath string) bool {
	_, ok := l.locks[l.LockFile(statePath)]
	return ok
}
