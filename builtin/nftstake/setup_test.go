// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package nftstake

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vechain/nftstake/builtin/custody"
	"github.com/vechain/nftstake/builtin/metadata"
	"github.com/vechain/nftstake/builtin/nftstake/record"
	"github.com/vechain/nftstake/builtin/nftstake/reward"
	"github.com/vechain/nftstake/lvldb"
	"github.com/vechain/nftstake/state"
	"github.com/vechain/nftstake/thor"
	"github.com/vechain/nftstake/xenv"
)

// t0 is congruent to 19 mod 36, so any whole number of days later draws factor 49 from the p block.
const t0 = uint64(1_692_000_019)

var (
	programAddr  = thor.BytesToAddress([]byte("NFTStake"))
	custodyAddr  = thor.BytesToAddress([]byte("Custody"))
	metadataAddr = thor.BytesToAddress([]byte("Metadata"))
	rewardMint   = thor.BytesToAddress([]byte("reward-mint"))
	creator      = thor.NewSigner(thor.BytesToAddress([]byte("creator")))
	alice        = thor.NewSigner(thor.BytesToAddress([]byte("alice")))
	bob          = thor.NewSigner(thor.BytesToAddress([]byte("bob")))
)

type testStaker struct {
	t        *testing.T
	blk      *xenv.BlockContext
	custody  *custody.Custody
	metadata *metadata.Program
	*Staker
	nonce int
}

func newTestStaker(t *testing.T) *testStaker {
	ts := newBareStaker(t)
	require.NoError(t, ts.Initialize(rewardMint, 0))
	return ts
}

// newBareStaker returns a staker whose reward mint is not initialized.
func newBareStaker(t *testing.T) *testStaker {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store, err := state.NewStore(db, 0)
	require.NoError(t, err)
	st := store.NewState()

	blk := &xenv.BlockContext{Number: 1, Time: t0}
	c := custody.New(custodyAddr, st)
	md := metadata.New(metadataAddr, st, c)
	ts := &testStaker{
		t:        t,
		blk:      blk,
		custody:  c,
		metadata: md,
		Staker:   New(programAddr, xenv.New(st, blk, nil), reward.Default(), c, md),
	}
	return ts
}

// mintNFT creates a one-token mint named name held by owner and returns the owner's token account.
func (ts *testStaker) mintNFT(owner thor.Signer, name string) thor.Address {
	ts.nonce++
	mint := thor.BytesToAddress(thor.Blake2b([]byte(name), []byte{byte(ts.nonce)}).Bytes())
	require.NoError(ts.t, ts.custody.InitializeMint(mint, creator.Address(), 0))
	acc, err := ts.custody.InitializeAccount(mint, owner.Address())
	require.NoError(ts.t, err)
	require.NoError(ts.t, ts.custody.MintTo(mint, acc, 1, creator))
	require.NoError(ts.t, ts.metadata.Create(mint, name, creator))
	return acc
}

func (ts *testStaker) advance(seconds uint64) {
	ts.blk.Time += seconds
	ts.blk.Number++
}

func (ts *testStaker) record(owner thor.Signer, asset thor.Address) *record.Record {
	rec, err := ts.GetRecord(owner.Address(), asset)
	require.NoError(ts.t, err)
	return rec
}

// rewardBalance returns owner's reward balance, 0 if the account doesn't exist yet.
func (ts *testStaker) rewardBalance(owner thor.Signer) uint64 {
	acc, err := ts.custody.GetAccount(ts.custody.AssociatedAccount(owner.Address(), rewardMint))
	if err != nil {
		require.ErrorIs(ts.t, err, custody.ErrAccountNotFound)
		return 0
	}
	return acc.Amount
}

func (ts *testStaker) rewardSupply() uint64 {
	m, err := ts.custody.GetMint(rewardMint)
	require.NoError(ts.t, err)
	return m.Supply
}

func (ts *testStaker) account(addr thor.Address) *custody.Account {
	acc, err := ts.custody.GetAccount(addr)
	require.NoError(ts.t, err)
	return acc
}
