// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"fmt"

	"github.com/vechain/nftstake/stackedmap"
	"github.com/vechain/nftstake/thor"
)

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// State is one transaction over a Store. It is not safe for concurrent use.
type State struct {
	store  *Store
	sm     *stackedmap.StackedMap[storageKey, []byte]
	staged bool
}

func newState(store *Store) *State {
	return &State{
		store: store,
		sm: stackedmap.New(func(k storageKey) ([]byte, bool, error) {
			v, err := store.get(k)
			if err != nil {
				return nil, false, err
			}
			return v, true, nil
		}),
	}
}

// GetStorage returns the raw value of a storage slot, nil if empty.
func (s *State) GetStorage(addr thor.Address, key thor.Bytes32) ([]byte, error) {
	v, _, err := s.sm.Get(storageKey{addr, key})
	if err != nil {
		return nil, err
	}
	return v, nil
}

// SetStorage sets the raw value of a storage slot. An empty value clears the slot.
func (s *State) SetStorage(addr thor.Address, key thor.Bytes32, value []byte) {
	s.sm.Put(storageKey{addr, key}, append([]byte(nil), value...))
}

// EncodeStorage sets storage value encoded by given enc method.
// Error returned by end will be absorbed by State instance.
func (s *State) EncodeStorage(addr thor.Address, key thor.Bytes32, enc func() ([]byte, error)) error {
	data, err := enc()
	if err != nil {
		return &Error{err}
	}
	s.SetStorage(addr, key, data)
	return nil
}

// DecodeStorage get and decode storage value.
// Error returned by dec will be absorbed by State instance.
func (s *State) DecodeStorage(addr thor.Address, key thor.Bytes32, dec func([]byte) error) error {
	raw, err := s.GetStorage(addr, key)
	if err != nil {
		return err
	}
	if err := dec(raw); err != nil {
		return &Error{err}
	}
	return nil
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	s.sm.PopTo(revision)
	if s.sm.Depth() == 0 {
		s.sm.Push()
	}
}

// Stage makes a stage object to commit the changes made so far.
// A State can be staged only once.
func (s *State) Stage() (*Stage, error) {
	if s.staged {
		return nil, &Error{errAlreadyStaged}
	}
	s.staged = true

	changes := make(map[storageKey][]byte)
	s.sm.Journal(func(k storageKey, v []byte) bool {
		changes[k] = v
		return true
	})
	return &Stage{store: s.store, changes: changes}, nil
}
