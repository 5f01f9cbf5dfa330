// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"sync"

	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"

	"github.com/vechain/nftstake/kv"
	"github.com/vechain/nftstake/thor"
)

const defaultCacheSize = 4096

// storageKey locates one storage slot of one program.
type storageKey struct {
	addr thor.Address
	key  thor.Bytes32
}

func (k storageKey) dbKey() []byte {
	b := make([]byte, 0, thor.AddressLength+thor.Bytes32Length)
	b = append(b, k.addr[:]...)
	return append(b, k.key[:]...)
}

// Store is the committed state shared by all transactions.
// It is safe for concurrent use.
type Store struct {
	db    kv.Store
	cache *lru.Cache
	mu    sync.RWMutex
}

// NewStore creates a store over db with a read cache of cacheSize slots.
func NewStore(db kv.Store, cacheSize int) (*Store, error) {
	if cacheSize <= 0 {
		cacheSize = defaultCacheSize
	}
	cache, err := lru.New(cacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "create state cache")
	}
	return &Store{db: db, cache: cache}, nil
}

// NewState begins a new transaction over the committed state.
func (s *Store) NewState() *State {
	return newState(s)
}

// get returns the committed value of a slot, nil if absent.
func (s *Store) get(k storageKey) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if v, ok := s.cache.Get(k); ok {
		metricCacheAccess().AddWithLabel(1, map[string]string{"result": "hit"})
		return v.([]byte), nil
	}
	metricCacheAccess().AddWithLabel(1, map[string]string{"result": "miss"})

	v, err := s.db.Get(k.dbKey())
	if err != nil {
		if !s.db.IsNotFound(err) {
			return nil, &Error{err}
		}
		v = nil
	}
	s.cache.Add(k, v)
	return v, nil
}

// commit writes changes in one batch. Empty values delete the slot.
func (s *Store) commit(changes map[storageKey][]byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	batch := s.db.NewBatch()
	for k, v := range changes {
		var err error
		if len(v) == 0 {
			err = batch.Delete(k.dbKey())
		} else {
			err = batch.Put(k.dbKey(), v)
		}
		if err != nil {
			return &Error{err}
		}
	}
	if err := batch.Write(); err != nil {
		return &Error{err}
	}
	for k, v := range changes {
		if len(v) == 0 {
			v = nil
		}
		s.cache.Add(k, v)
	}
	metricCommitSize().Observe(int64(len(changes)))
	return nil
}
