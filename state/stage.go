// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import "errors"

var errAlreadyStaged = errors.New("already staged")

// Stage abstracts changes on the state that are ready to commit.
type Stage struct {
	store   *Store
	changes map[storageKey][]byte
}

// Len returns the number of storage slots the stage changes.
func (s *Stage) Len() int {
	return len(s.changes)
}

// Commit writes all changes to the store atomically.
func (s *Stage) Commit() error {
	if len(s.changes) == 0 {
		return nil
	}
	return s.store.commit(s.changes)
}
