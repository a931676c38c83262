// SPDX-License-Identifier: GPL-3.0-or-later

package filelock

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocker_LockFile(t *testing.T) {
	assert.Equal(t, "/var/lib/table.state.gridctl.lock", New().LockFile("/var/lib/../lib/table.state"))
}

func TestLocker_Lock(t *testing.T) {
	tests := map[string]func(t *testing.T, state string){
		"take a lock": func(t *testing.T, state string) {
			l := New()

			ok, err := l.Lock(state)
			assert.True(t, ok)
			assert.NoError(t, err)
			assert.True(t, l.IsLocked(state))
		},
		"take the same lock twice": func(t *testing.T, state string) {
			l := New()

			require.NoError(t, l.Acquire(state))
			assert.NoError(t, l.Acquire(state))
		},
		"lock held by another locker": func(t *testing.T, state string) {
			l1, l2 := New(), New()

			require.NoError(t, l1.Acquire(state))

			ok, err := l2.Lock(state)
			assert.False(t, ok)
			assert.NoError(t, err)
			assert.ErrorIs(t, l2.Acquire(state), ErrLocked)
		},
		"directory does not exist": func(t *testing.T, state string) {
			l := New()

			err := l.Acquire(filepath.Join(state, "missing", "table.state"))
			assert.Error(t, err)
			assert.NotErrorIs(t, err, ErrLocked)
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			test(t, filepath.Join(t.TempDir(), "table.state"))
		})
	}
}

func TestLocker_Unlock(t *testing.T) {
	tests := map[string]func(t *testing.T, state string){
		"release a lock": func(t *testing.T, state string) {
			l1, l2 := New(), New()

			require.NoError(t, l1.Acquire(state))
			l1.Unlock(state)

			assert.False(t, l1.IsLocked(state))
			assert.NoError(t, l2.Acquire(state))
		},
		"release a lock not held": func(t *testing.T, state string) {
			l := New()

			l.Unlock(state)

			assert.False(t, l.IsLocked(state))
		},
		"release all": func(t *testing.T, state string) {
			l := New()

			require.NoError(t, l.Acquire(state+"1"))
			require.NoError(t, l.Acquire(state+"2"))

			l.UnlockAll()

			assert.False(t, l.IsLocked(state+"1"))
			assert.False(t, l.IsLocked(state+"2"))
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			test(t, filepath.Join(t.TempDir(), "table.state"))
		})
	}
}
