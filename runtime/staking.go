// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"context"
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/vechain/nftstake/builtin"
	"github.com/vechain/nftstake/builtin/custody"
	"github.com/vechain/nftstake/builtin/nftstake"
	"github.com/vechain/nftstake/builtin/nftstake/record"
	"github.com/vechain/nftstake/builtin/nftstake/reward"
	"github.com/vechain/nftstake/thor"
	"github.com/vechain/nftstake/xenv"
)

const (
	OpInitialize = "initialize"
	OpMintNFT    = "mint_nft"
	OpStake      = "stake"
	OpRedeem     = "redeem"
	OpUnstake    = "unstake"
	OpRedeemAll  = "redeem_all"
)

// RewardMintAddress is the address Initialize creates the reward mint at.
var RewardMintAddress, _ = thor.MustFindProgramAddress(builtin.NFTStake.Address, []byte("reward-mint"))

func (rt *Runtime) staker(env *xenv.Environment) *nftstake.Staker {
	return builtin.NFTStake.Native(env, rt.opts.Engine)
}

// rewardAccount returns the reward token account of owner.
func rewardAccount(owner thor.Address) thor.Address {
	return custody.AssociatedAccount(builtin.Custody.Address, owner, RewardMintAddress)
}

// Initialize creates the reward mint. It fails if already done.
func (rt *Runtime) Initialize(ctx context.Context) error {
	return rt.Execute(ctx, Op{
		Name:     OpInitialize,
		Accounts: []thor.Address{RewardMintAddress},
		Fn: func(env *xenv.Environment) error {
			return rt.staker(env).Initialize(RewardMintAddress, rt.opts.Decimals)
		},
	})
}

// MintNFT creates a single-token mint named name, held by owner who is also its authority.
func (rt *Runtime) MintNFT(ctx context.Context, owner thor.Signer, name string) (mint, account thor.Address, err error) {
	var nonce [16]byte
	binary.BigEndian.PutUint64(nonce[:8], rt.opts.Clock())
	binary.BigEndian.PutUint64(nonce[8:], rt.nonce.Add(1))
	mint = thor.BytesToAddress(thor.Blake2b(owner.Address().Bytes(), []byte(name), nonce[:]).Bytes())
	account = custody.AssociatedAccount(builtin.Custody.Address, owner.Address(), mint)

	err = rt.Execute(ctx, Op{
		Name:     OpMintNFT,
		Accounts: []thor.Address{mint, account},
		Origin:   owner.Address(),
		Fn: func(env *xenv.Environment) error {
			c := builtin.Custody.Native(env.State())
			if err := c.InitializeMint(mint, owner.Address(), 0); err != nil {
				return err
			}
			if _, err := c.InitializeAccount(mint, owner.Address()); err != nil {
				return err
			}
			if err := c.MintTo(mint, account, 1, owner); err != nil {
				return err
			}
			return builtin.Metadata.Native(env.State()).Create(mint, name, owner)
		},
	})
	if err != nil {
		return thor.Address{}, thor.Address{}, err
	}
	return mint, account, nil
}

// accounts returns the accounts an operation of owner on asset writes.
func (rt *Runtime) accounts(owner, asset thor.Address, settles bool) []thor.Address {
	accounts := []thor.Address{
		nftstake.RecordAddress(builtin.NFTStake.Address, owner, asset),
		asset,
	}
	if settles {
		accounts = append(accounts, RewardMintAddress, rewardAccount(owner))
	}
	return accounts
}

// Stake locks asset of owner and starts accruing rewards.
func (rt *Runtime) Stake(ctx context.Context, owner thor.Signer, asset thor.Address) error {
	return rt.Execute(ctx, Op{
		Name:     OpStake,
		Accounts: rt.accounts(owner.Address(), asset, false),
		Origin:   owner.Address(),
		Fn: func(env *xenv.Environment) error {
			return rt.staker(env).Stake(owner, asset)
		},
	})
}

// Redeem mints the reward accrued by the staked asset.
func (rt *Runtime) Redeem(ctx context.Context, owner thor.Signer, asset thor.Address) (*reward.Reward, error) {
	return rt.settle(ctx, OpRedeem, owner, asset, func(s *nftstake.Staker) (*reward.Reward, error) {
		return s.Redeem(owner, asset)
	})
}

// Unstake mints the accrued reward and returns the asset to the owner.
func (rt *Runtime) Unstake(ctx context.Context, owner thor.Signer, asset thor.Address) (*reward.Reward, error) {
	return rt.settle(ctx, OpUnstake, owner, asset, func(s *nftstake.Staker) (*reward.Reward, error) {
		return s.Unstake(owner, asset)
	})
}

// RedeemAll redeems every asset of owner in one transaction. An asset that fails
// is skipped with its error and the others are still settled.
func (rt *Runtime) RedeemAll(ctx context.Context, owner thor.Signer, assets []thor.Address) ([]*reward.Reward, []error) {
	rewards := make([]*reward.Reward, len(assets))
	ops := make([]Op, len(assets))
	for i, asset := range assets {
		ops[i] = Op{
			Name:     OpRedeem,
			Accounts: rt.accounts(owner.Address(), asset, true),
			Origin:   owner.Address(),
			Fn: func(env *xenv.Environment) (err error) {
				rewards[i], err = rt.staker(env).Redeem(owner, asset)
				return err
			},
		}
	}

	errs := rt.ExecuteGroup(ctx, OpRedeemAll, ops)
	for i, err := range errs {
		if err != nil {
			rewards[i] = nil
			continue
		}
		metricRewardMinted().Add(int64(min(rewards[i].Amount, uint64(1<<63-1))))
	}
	return rewards, errs
}

func (rt *Runtime) settle(
	ctx context.Context,
	name string,
	owner thor.Signer,
	asset thor.Address,
	fn func(s *nftstake.Staker) (*reward.Reward, error),
) (*reward.Reward, error) {
	var r *reward.Reward
	err := rt.Execute(ctx, Op{
		Name:     name,
		Accounts: rt.accounts(owner.Address(), asset, true),
		Origin:   owner.Address(),
		Fn: func(env *xenv.Environment) (err error) {
			r, err = fn(rt.staker(env))
			return err
		},
	})
	if err != nil {
		return nil, err
	}
	metricRewardMinted().Add(int64(min(r.Amount, uint64(1<<63-1))))
	return r, nil
}

// Record returns the committed stake record of owner for asset.
func (rt *Runtime) Record(owner, asset thor.Address) (rec *record.Record, err error) {
	addr := nftstake.RecordAddress(builtin.NFTStake.Address, owner, asset)
	err = rt.view([]thor.Address{addr}, func(env *xenv.Environment) error {
		rec, err = rt.staker(env).GetRecord(owner, asset)
		return err
	})
	return
}

// Account returns the committed token account at addr.
func (rt *Runtime) Account(addr thor.Address) (acc *custody.Account, err error) {
	err = rt.view([]thor.Address{addr}, func(env *xenv.Environment) error {
		acc, err = builtin.Custody.Native(env.State()).GetAccount(addr)
		return err
	})
	return
}

// RewardBalance returns the committed reward balance of owner, 0 before the first redeem.
func (rt *Runtime) RewardBalance(owner thor.Address) (uint64, error) {
	acc, err := rt.Account(rewardAccount(owner))
	if err != nil {
		if errors.Is(err, custody.ErrAccountNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return acc.Amount, nil
}
