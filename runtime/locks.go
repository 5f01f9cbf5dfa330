// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"bytes"
	"slices"
	"sync"

	"github.com/vechain/nftstake/thor"
)

// accountLocks hands out one mutex per account. Entries are reference counted
// and dropped once no operation holds or waits on them.
type accountLocks struct {
	mu      sync.Mutex
	entries map[thor.Address]*lockEntry
	// onChange receives the number of live entries after each lock and unlock.
	onChange func(n int)
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func newAccountLocks(onChange func(n int)) *accountLocks {
	if onChange == nil {
		onChange = func(int) {}
	}
	return &accountLocks{
		entries:  make(map[thor.Address]*lockEntry),
		onChange: onChange,
	}
}

// lock acquires all addrs in ascending order and returns the release func.
func (l *accountLocks) lock(addrs []thor.Address) func() {
	sorted := slices.Clone(addrs)
	slices.SortFunc(sorted, func(a, b thor.Address) int {
		return bytes.Compare(a[:], b[:])
	})
	sorted = slices.Compact(sorted)

	entries := make([]*lockEntry, len(sorted))
	l.mu.Lock()
	for i, addr := range sorted {
		e, ok := l.entries[addr]
		if !ok {
			e = &lockEntry{}
			l.entries[addr] = e
		}
		e.refs++
		entries[i] = e
	}
	l.onChange(len(l.entries))
	l.mu.Unlock()

	for _, e := range entries {
		e.mu.Lock()
	}

	return func() {
		for i := len(entries) - 1; i >= 0; i-- {
			entries[i].mu.Unlock()
		}
		l.mu.Lock()
		for i, addr := range sorted {
			if entries[i].refs--; entries[i].refs == 0 {
				delete(l.entries, addr)
			}
		}
		l.onChange(len(l.entries))
		l.mu.Unlock()
	}
}

// size returns the number of live entries.
func (l *accountLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
