// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package boltdb implements kv.Store on a single bbolt bucket.
package boltdb

import (
	"time"

	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"

	"github.com/vechain/nftstake/kv"
)

var _ kv.Store = (*BoltDB)(nil)

// ErrNotFound is returned by Get when the key does not exist.
var ErrNotFound = errors.New("boltdb: not found")

var defaultBucket = []byte("nftstake")

// Options options for opening a bolt db.
type Options struct {
	// Timeout is how long to wait for the file lock; zero waits forever.
	Timeout time.Duration
	// NoSync skips fsync after each commit. Only for tests.
	NoSync bool
}

// BoltDB wraps a bbolt database.
type BoltDB struct {
	db *bolt.DB
}

// New opens or creates the bolt db file at path.
func New(path string, opts Options) (*BoltDB, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{
		Timeout: opts.Timeout,
		NoSync:  opts.NoSync,
	})
	if err != nil {
		return nil, errors.Wrap(err, "open bolt db")
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(defaultBucket)
		return err
	}); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "create bolt bucket")
	}
	return &BoltDB{db: db}, nil
}

// IsNotFound to check if the error returned by Get indicates key not found.
func (b *BoltDB) IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// Get retrieve value for given key.
func (b *BoltDB) Get(key []byte) (value []byte, err error) {
	err = b.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(defaultBucket).Get(key)
		if v == nil {
			return ErrNotFound
		}
		// v is only valid for the life of the transaction
		value = append([]byte(nil), v...)
		return nil
	})
	return
}

// Has returns whether a key exists.
func (b *BoltDB) Has(key []byte) (has bool, err error) {
	err = b.db.View(func(tx *bolt.Tx) error {
		has = tx.Bucket(defaultBucket).Get(key) != nil
		return nil
	})
	return
}

// Put save value for given key.
func (b *BoltDB) Put(key, value []byte) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(defaultBucket).Put(key, value)
	})
}

// Delete deletes the given key and its value.
func (b *BoltDB) Delete(key []byte) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(defaultBucket).Delete(key)
	})
}

// Close closes the db.
func (b *BoltDB) Close() error {
	return b.db.Close()
}

// NewBatch create a batch applied in one bolt transaction.
func (b *BoltDB) NewBatch() kv.Batch {
	return &boltBatch{db: b.db}
}

type op struct {
	key, value []byte
	del        bool
}

type boltBatch struct {
	db  *bolt.DB
	ops []op
}

func (bb *boltBatch) Put(key, value []byte) error {
	bb.ops = append(bb.ops, op{
		key:   append([]byte(nil), key...),
		value: append([]byte(nil), value...),
	})
	return nil
}

func (bb *boltBatch) Delete(key []byte) error {
	bb.ops = append(bb.ops, op{key: append([]byte(nil), key...), del: true})
	return nil
}

func (bb *boltBatch) Len() int {
	return len(bb.ops)
}

func (bb *boltBatch) Write() error {
	return bb.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(defaultBucket)
		for _, o := range bb.ops {
			var err error
			if o.del {
				err = bucket.Delete(o.key)
			} else {
				err = bucket.Put(o.key, o.value)
			}
			if err != nil {
				return err
			}
		}
		return nil
	})
}
