// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/nftstake/builtin/nftstake/reward"
	"github.com/vechain/nftstake/lvldb"
	"github.com/vechain/nftstake/state"
	"github.com/vechain/nftstake/thor"
	"github.com/vechain/nftstake/xenv"
)

func TestAddresses(t *testing.T) {
	assert.Equal(t, thor.BytesToAddress([]byte("Custody")), Custody.Address)
	assert.Equal(t, thor.BytesToAddress([]byte("Metadata")), Metadata.Address)
	assert.Equal(t, thor.BytesToAddress([]byte("NFTStake")), NFTStake.Address)
	assert.Equal(t, "NFTStake", NFTStake.Name())
}

func TestNativeBinding(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	store, err := state.NewStore(db, 0)
	require.NoError(t, err)
	st := store.NewState()

	staker := NFTStake.Native(xenv.New(st, &xenv.BlockContext{Time: 1}, nil), reward.Default())
	assert.Equal(t, NFTStake.Address, staker.Address())

	// the staker and a separately bound custody share the state
	mint := thor.BytesToAddress([]byte("reward"))
	require.NoError(t, staker.Initialize(mint, 0))

	m, err := Custody.Native(st).GetMint(mint)
	require.NoError(t, err)
	assert.Equal(t, staker.MintAuthority(), m.Authority)
}
