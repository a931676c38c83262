// SPDX-License-Identifier: GPL-3.0-or-later

package gridstate

import (
	"fmt"
	"sync"

	"github.com/netdata/netdata/go/datagrid/pkg/gridapi"
)

// Sink is the external persistence boundary of table state.
type Sink interface {
	// Load returns the persisted state. ok is false when nothing is persisted.
	Load(cols gridapi.ColumnSet) (state TableState, ok bool, err error)
	// Save persists state.
	Save(state TableState, cols gridapi.ColumnSet) error
}

// FragmentStore holds one fragment string.
type FragmentStore interface {
	Fragment() (string, error)
	SetFragment(fragment string) error
}

// FragmentSink persists state as a fragment in a FragmentStore.
type FragmentSink struct {
	Codec Codec
	Store FragmentStore
}

// NewFragmentSink returns a sink encoding with codec into store.
func NewFragmentSink(codec Codec, store FragmentStore) *FragmentSink {
	return &FragmentSink{Codec: codec, Store: store}
}

func (s *FragmentSink) Load(cols gridapi.ColumnSet) (TableState, bool, error) {
	fragment, err := s.Store.Fragment()
	if err != nil {
		return TableState{}, false, fmt.Errorf("read fragment: %w", err)
	}
	if fragment == "" {
		return TableState{}, false, nil
	}
	return s.Codec.Decode(fragment, cols), true, nil
}

// Save writes the encoded state only when it differs from the stored fragment.
func (s *FragmentSink) Save(state TableState, cols gridapi.ColumnSet) error {
	base, err := s.Store.Fragment()
	if err != nil {
		return fmt.Errorf("read fragment: %w", err)
	}
	fragment := s.Codec.Encode(state, cols, base)
	if fragment == base {
		return nil
	}
	if err := s.Store.SetFragment(fragment); err != nil {
		return fmt.Errorf("write fragment: %w", err)
	}
	return nil
}

// MemoryStore is an in-memory FragmentStore.
type MemoryStore struct {
	mu       sync.Mutex
	fragment string
	writes   int
}

// NewMemoryStore returns a store holding fragment.
func NewMemoryStore(fragment string) *MemoryStore {
	return &MemoryStore{fragment: fragment}
}

func (s *MemoryStore) Fragment() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fragment, nil
}

func (s *MemoryStore) SetFragment(fragment string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fragment = fragment
	s.writes++
	return nil
}

// Writes returns the number of SetFragment calls.
func (s *MemoryStore) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}
