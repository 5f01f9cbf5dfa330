// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package kvtest provides behaviour checks shared by all kv.Store backends.
package kvtest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/nftstake/kv"
)

// Run checks the basic contract of a kv.Store. newStore must return an empty store.
func Run(t *testing.T, newStore func(t *testing.T) kv.Store) {
	t.Run("get-put-delete", func(t *testing.T) {
		store := newStore(t)
		defer store.Close()

		_, err := store.Get([]byte("missing"))
		require.Error(t, err)
		assert.True(t, store.IsNotFound(err))

		has, err := store.Has([]byte("k"))
		require.NoError(t, err)
		assert.False(t, has)

		require.NoError(t, store.Put([]byte("k"), []byte("v")))
		v, err := store.Get([]byte("k"))
		require.NoError(t, err)
		assert.Equal(t, []byte("v"), v)

		has, err = store.Has([]byte("k"))
		require.NoError(t, err)
		assert.True(t, has)

		require.NoError(t, store.Delete([]byte("k")))
		_, err = store.Get([]byte("k"))
		assert.True(t, store.IsNotFound(err))

		// deleting a missing key is not an error
		require.NoError(t, store.Delete([]byte("k")))
	})

	t.Run("batch", func(t *testing.T) {
		store := newStore(t)
		defer store.Close()

		require.NoError(t, store.Put([]byte("old"), []byte("1")))

		batch := store.NewBatch()
		require.NoError(t, batch.Put([]byte("a"), []byte("1")))
		require.NoError(t, batch.Put([]byte("b"), []byte("2")))
		require.NoError(t, batch.Delete([]byte("old")))
		assert.Equal(t, 3, batch.Len())

		// nothing is visible before Write
		_, err := store.Get([]byte("a"))
		assert.True(t, store.IsNotFound(err))

		require.NoError(t, batch.Write())

		v, err := store.Get([]byte("b"))
		require.NoError(t, err)
		assert.Equal(t, []byte("2"), v)
		_, err = store.Get([]byte("old"))
		assert.True(t, store.IsNotFound(err))
	})
}
