// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"context"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/nftstake/builtin"
	"github.com/vechain/nftstake/builtin/custody"
	"github.com/vechain/nftstake/builtin/nftstake/record"
	"github.com/vechain/nftstake/builtin/nftstake/reverts"
	"github.com/vechain/nftstake/config"
	"github.com/vechain/nftstake/lvldb"
	"github.com/vechain/nftstake/state"
	"github.com/vechain/nftstake/thor"
	"github.com/vechain/nftstake/xenv"
)

// t0 is congruent to 19 mod 36: whole days later the p block draws factor 49.
const t0 = uint64(1_692_000_019)

var (
	alice = thor.NewSigner(thor.BytesToAddress([]byte("alice")))
	bob   = thor.NewSigner(thor.BytesToAddress([]byte("bob")))
)

type testClock struct{ now atomic.Uint64 }

func newClock(start uint64) *testClock {
	c := &testClock{}
	c.now.Store(start)
	return c
}

func (c *testClock) Now() uint64         { return c.now.Load() }
func (c *testClock) Advance(secs uint64) { c.now.Add(secs) }

func newRuntime(t *testing.T) (*Runtime, *testClock) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store, err := state.NewStore(db, 0)
	require.NoError(t, err)

	clock := newClock(t0)
	rt := New(store, Options{Clock: clock.Now})
	require.NoError(t, rt.Initialize(context.Background()))
	return rt, clock
}

func TestLifecycle(t *testing.T) {
	ctx := context.Background()
	rt, clock := newRuntime(t)

	_, asset, err := rt.MintNFT(ctx, alice, "Element #6")
	require.NoError(t, err)

	require.NoError(t, rt.Stake(ctx, alice, asset))
	rec, err := rt.Record(alice.Address(), asset)
	require.NoError(t, err)
	assert.Equal(t, record.Staked, rec.State)
	assert.Equal(t, t0, rec.StakeStartTime)

	clock.Advance(86400)
	r, err := rt.Redeem(ctx, alice, asset)
	require.NoError(t, err)
	assert.Equal(t, uint64(2000), r.Amount)

	balance, err := rt.RewardBalance(alice.Address())
	require.NoError(t, err)
	assert.Equal(t, uint64(2000), balance)

	clock.Advance(86400)
	r, err = rt.Unstake(ctx, alice, asset)
	require.NoError(t, err)
	assert.Equal(t, uint64(2000), r.Amount)

	rec, err = rt.Record(alice.Address(), asset)
	require.NoError(t, err)
	assert.Equal(t, record.Unstaked, rec.State)
	assert.Equal(t, t0+2*86400, rec.LastRedeemTime)

	acc, err := rt.Account(asset)
	require.NoError(t, err)
	assert.False(t, acc.Frozen)
	assert.False(t, acc.HasDelegate())

	balance, err = rt.RewardBalance(alice.Address())
	require.NoError(t, err)
	assert.Equal(t, uint64(4000), balance)
	assert.Zero(t, rt.locks.size())
}

func TestInitializeTwice(t *testing.T) {
	rt, _ := newRuntime(t)
	assert.Error(t, rt.Initialize(context.Background()))
}

func TestFailedOperationLeavesNoTrace(t *testing.T) {
	ctx := context.Background()
	rt, clock := newRuntime(t)

	_, asset, err := rt.MintNFT(ctx, alice, "Element #6")
	require.NoError(t, err)
	require.NoError(t, rt.Stake(ctx, alice, asset))
	before, err := rt.Record(alice.Address(), asset)
	require.NoError(t, err)

	// fill the reward supply so the next mint overflows
	_, bump := thor.MustFindProgramAddress(builtin.NFTStake.Address, []byte("mint"))
	mintAuthority, err := thor.NewProgramSigner(builtin.NFTStake.Address, bump, []byte("mint"))
	require.NoError(t, err)
	require.NoError(t, rt.Execute(ctx, Op{
		Name:     "fill",
		Accounts: []thor.Address{RewardMintAddress},
		Fn: func(env *xenv.Environment) error {
			c := builtin.Custody.Native(env.State())
			acc, err := c.EnsureAccount(RewardMintAddress, bob.Address())
			if err != nil {
				return err
			}
			return c.MintTo(RewardMintAddress, acc, math.MaxUint64-10, mintAuthority)
		},
	}))

	clock.Advance(86400)
	_, err = rt.Redeem(ctx, alice, asset)
	assert.ErrorIs(t, err, custody.ErrOverflow)

	// the reward account created on the way was discarded with the rest
	_, err = rt.Account(rewardAccount(alice.Address()))
	assert.ErrorIs(t, err, custody.ErrAccountNotFound)

	after, err := rt.Record(alice.Address(), asset)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestStakeFailureCreatesNoRecord(t *testing.T) {
	ctx := context.Background()
	rt, _ := newRuntime(t)

	_, asset, err := rt.MintNFT(ctx, alice, "Element #6")
	require.NoError(t, err)

	// freezing without a prior approve is rejected by custody
	_, bump := thor.MustFindProgramAddress(builtin.NFTStake.Address, []byte("authority"))
	authority, err := thor.NewProgramSigner(builtin.NFTStake.Address, bump, []byte("authority"))
	require.NoError(t, err)
	err = rt.Execute(ctx, Op{
		Name:     "freeze",
		Accounts: []thor.Address{asset},
		Fn: func(env *xenv.Environment) error {
			return builtin.Custody.Native(env.State()).FreezeDelegated(asset, authority)
		},
	})
	assert.ErrorIs(t, err, custody.ErrNotDelegate)

	// stake by someone who doesn't hold the asset
	assert.ErrorIs(t, rt.Stake(ctx, bob, asset), reverts.ErrInvalidTokenAccount)

	for _, owner := range []thor.Signer{alice, bob} {
		rec, err := rt.Record(owner.Address(), asset)
		require.NoError(t, err)
		assert.Equal(t, &record.Record{}, rec)
	}
	acc, err := rt.Account(asset)
	require.NoError(t, err)
	assert.False(t, acc.Frozen)
}

func TestInvalidElementNoSideEffects(t *testing.T) {
	ctx := context.Background()
	rt, clock := newRuntime(t)

	for _, name := range []string{"Element #0", "Element #120"} {
		_, asset, err := rt.MintNFT(ctx, alice, name)
		require.NoError(t, err)
		require.NoError(t, rt.Stake(ctx, alice, asset))
		before, err := rt.Record(alice.Address(), asset)
		require.NoError(t, err)

		clock.Advance(86400)
		_, err = rt.Redeem(ctx, alice, asset)
		assert.ErrorIs(t, err, reverts.ErrInvalidElementName)
		_, err = rt.Unstake(ctx, alice, asset)
		assert.ErrorIs(t, err, reverts.ErrInvalidElementName)

		after, err := rt.Record(alice.Address(), asset)
		require.NoError(t, err)
		assert.Equal(t, before, after)
	}
	balance, err := rt.RewardBalance(alice.Address())
	require.NoError(t, err)
	assert.Zero(t, balance)
}

func TestConcurrentStakeSameAsset(t *testing.T) {
	ctx := context.Background()
	rt, _ := newRuntime(t)

	_, asset, err := rt.MintNFT(ctx, alice, "Element #6")
	require.NoError(t, err)

	ops := make([]Op, 16)
	for i := range ops {
		ops[i] = Op{
			Name:     OpStake,
			Accounts: rt.accounts(alice.Address(), asset, false),
			Fn: func(env *xenv.Environment) error {
				return rt.staker(env).Stake(alice, asset)
			},
		}
	}

	var ok, already int
	for _, err := range rt.ExecuteBatch(ctx, ops) {
		switch {
		case err == nil:
			ok++
		case assert.ErrorIs(t, err, reverts.ErrAlreadyStaked):
			already++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 15, already)
	assert.Zero(t, rt.locks.size())
}

func TestConcurrentRedeemPaysOnce(t *testing.T) {
	ctx := context.Background()
	rt, clock := newRuntime(t)

	_, asset, err := rt.MintNFT(ctx, alice, "Element #6")
	require.NoError(t, err)
	require.NoError(t, rt.Stake(ctx, alice, asset))
	clock.Advance(86400)

	var total atomic.Uint64
	ops := make([]Op, 8)
	for i := range ops {
		ops[i] = Op{
			Name:     OpRedeem,
			Accounts: rt.accounts(alice.Address(), asset, true),
			Fn: func(env *xenv.Environment) error {
				r, err := rt.staker(env).Redeem(alice, asset)
				if err != nil {
					return err
				}
				total.Add(r.Amount)
				return nil
			},
		}
	}
	for _, err := range rt.ExecuteBatch(ctx, ops) {
		require.NoError(t, err)
	}

	// the first redeem takes the whole day, the rest see no elapsed time
	assert.Equal(t, uint64(2000), total.Load())
	balance, err := rt.RewardBalance(alice.Address())
	require.NoError(t, err)
	assert.Equal(t, uint64(2000), balance)
}

func TestConcurrentDisjointOwners(t *testing.T) {
	ctx := context.Background()
	rt, clock := newRuntime(t)

	const n = 24
	owners := make([]thor.Signer, n)
	assets := make([]thor.Address, n)
	for i := range n {
		owners[i] = thor.NewSigner(thor.BytesToAddress([]byte(fmt.Sprintf("owner-%d", i))))
		_, asset, err := rt.MintNFT(ctx, owners[i], "Element #6")
		require.NoError(t, err)
		assets[i] = asset
	}

	stakes := make([]Op, n)
	for i := range n {
		owner, asset := owners[i], assets[i]
		stakes[i] = Op{
			Name:     OpStake,
			Accounts: rt.accounts(owner.Address(), asset, false),
			Fn: func(env *xenv.Environment) error {
				return rt.staker(env).Stake(owner, asset)
			},
		}
	}
	for _, err := range rt.ExecuteBatch(ctx, stakes) {
		require.NoError(t, err)
	}

	clock.Advance(86400)
	for i := range n {
		r, err := rt.Unstake(ctx, owners[i], assets[i])
		require.NoError(t, err)
		assert.Equal(t, uint64(2000), r.Amount)
	}
	assert.Zero(t, rt.locks.size())
}

func TestCancelledContext(t *testing.T) {
	rt, _ := newRuntime(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := rt.MintNFT(ctx, alice, "Element #6")
	assert.ErrorIs(t, err, context.Canceled)

	called := false
	errs := rt.ExecuteBatch(ctx, []Op{{Name: "noop", Fn: func(*xenv.Environment) error {
		called = true
		return nil
	}}})
	assert.ErrorIs(t, errs[0], context.Canceled)
	assert.False(t, called)
}

func TestOpen(t *testing.T) {
	for _, backend := range []config.Backend{config.BackendMemory, config.BackendLevelDB, config.BackendBolt} {
		t.Run(string(backend), func(t *testing.T) {
			cfg := config.Default()
			cfg.Storage.Backend = backend
			if backend != config.BackendMemory {
				cfg.Storage.Path = filepath.Join(t.TempDir(), "stake")
			}
			cfg.Log.Verbosity = 0

			clock := newClock(t0)
			rt, err := Open(cfg, clock.Now)
			require.NoError(t, err)
			defer rt.Close()

			ctx := context.Background()
			require.NoError(t, rt.Initialize(ctx))
			_, asset, err := rt.MintNFT(ctx, alice, "Element #6")
			require.NoError(t, err)
			require.NoError(t, rt.Stake(ctx, alice, asset))
		})
	}

	cfg := config.Default()
	cfg.Storage.Backend = "nope"
	_, err := Open(cfg, nil)
	assert.Error(t, err)
}

func TestReopenPersists(t *testing.T) {
	cfg := config.Default()
	cfg.Storage.Backend = config.BackendLevelDB
	cfg.Storage.Path = filepath.Join(t.TempDir(), "stake")
	cfg.Log.Verbosity = 0
	ctx := context.Background()
	clock := newClock(t0)

	rt, err := Open(cfg, clock.Now)
	require.NoError(t, err)
	require.NoError(t, rt.Initialize(ctx))
	_, asset, err := rt.MintNFT(ctx, alice, "Element #6")
	require.NoError(t, err)
	require.NoError(t, rt.Stake(ctx, alice, asset))
	require.NoError(t, rt.Close())

	rt, err = Open(cfg, clock.Now)
	require.NoError(t, err)
	defer rt.Close()

	rec, err := rt.Record(alice.Address(), asset)
	require.NoError(t, err)
	assert.True(t, rec.IsStaked())
	assert.ErrorIs(t, rt.Stake(ctx, alice, asset), reverts.ErrAlreadyStaked)
}

func TestStakeRejectedInLockCreatesNoRecord(t *testing.T) {
	ctx := context.Background()
	rt, _ := newRuntime(t)

	_, asset, err := rt.MintNFT(ctx, alice, "Element #6")
	require.NoError(t, err)

	// alice hands the asset to another delegate who freezes it
	other := thor.NewSigner(thor.BytesToAddress([]byte("other-delegate")))
	require.NoError(t, rt.Execute(ctx, Op{
		Name:     "delegate",
		Accounts: []thor.Address{asset},
		Origin:   alice.Address(),
		Fn: func(env *xenv.Environment) error {
			c := builtin.Custody.Native(env.State())
			if err := c.Approve(asset, other.Address(), 1, alice); err != nil {
				return err
			}
			return c.FreezeDelegated(asset, other)
		},
	}))

	assert.ErrorIs(t, rt.Stake(ctx, alice, asset), custody.ErrAccountFrozen)

	rec, err := rt.Record(alice.Address(), asset)
	require.NoError(t, err)
	assert.Equal(t, &record.Record{}, rec)

	acc, err := rt.Account(asset)
	require.NoError(t, err)
	assert.Equal(t, other.Address(), acc.Delegate)
	assert.True(t, acc.Frozen)
}

func TestRedeemAll(t *testing.T) {
	ctx := context.Background()
	rt, clock := newRuntime(t)

	var assets []thor.Address
	for range 3 {
		_, asset, err := rt.MintNFT(ctx, alice, "Element #6")
		require.NoError(t, err)
		require.NoError(t, rt.Stake(ctx, alice, asset))
		assets = append(assets, asset)
	}
	_, idle, err := rt.MintNFT(ctx, alice, "Element #6")
	require.NoError(t, err)
	assets = append(assets, idle)
	before, err := rt.Record(alice.Address(), idle)
	require.NoError(t, err)

	clock.Advance(86400)
	rewards, errs := rt.RedeemAll(ctx, alice, assets)
	for i := range 3 {
		require.NoError(t, errs[i])
		assert.Equal(t, uint64(2000), rewards[i].Amount)
	}
	assert.ErrorIs(t, errs[3], reverts.ErrUninitializedAccount)
	assert.Nil(t, rewards[3])

	balance, err := rt.RewardBalance(alice.Address())
	require.NoError(t, err)
	assert.Equal(t, uint64(6000), balance)

	for _, asset := range assets[:3] {
		rec, err := rt.Record(alice.Address(), asset)
		require.NoError(t, err)
		assert.Equal(t, t0+86400, rec.LastRedeemTime)
	}
	after, err := rt.Record(alice.Address(), idle)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestExecuteGroupRevertsFailedOpOnly(t *testing.T) {
	ctx := context.Background()
	rt, _ := newRuntime(t)

	ataOf := func(owner thor.Signer) thor.Address { return rewardAccount(owner.Address()) }
	ensure := func(owner thor.Signer, fail error) Op {
		return Op{
			Name:     "ensure",
			Accounts: []thor.Address{ataOf(owner)},
			Fn: func(env *xenv.Environment) error {
				if _, err := builtin.Custody.Native(env.State()).EnsureAccount(RewardMintAddress, owner.Address()); err != nil {
					return err
				}
				return fail
			},
		}
	}

	errBoom := errors.New("boom")
	errs := rt.ExecuteGroup(ctx, "group", []Op{ensure(alice, nil), ensure(bob, errBoom)})
	assert.NoError(t, errs[0])
	assert.ErrorIs(t, errs[1], errBoom)

	// alice's write is committed, bob's was reverted to its checkpoint
	_, err := rt.Account(ataOf(alice))
	assert.NoError(t, err)
	_, err = rt.Account(ataOf(bob))
	assert.ErrorIs(t, err, custody.ErrAccountNotFound)
	assert.Zero(t, rt.locks.size())
}
