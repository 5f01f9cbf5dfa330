// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package nftstake

import (
	"github.com/pkg/errors"

	"github.com/vechain/nftstake/builtin/custody"
	"github.com/vechain/nftstake/builtin/metadata"
	"github.com/vechain/nftstake/builtin/nftstake/classifier"
	"github.com/vechain/nftstake/builtin/nftstake/record"
	"github.com/vechain/nftstake/builtin/nftstake/reverts"
	"github.com/vechain/nftstake/builtin/nftstake/reward"
	"github.com/vechain/nftstake/builtin/solidity"
	"github.com/vechain/nftstake/log"
	"github.com/vechain/nftstake/thor"
	"github.com/vechain/nftstake/xenv"
)

var (
	logger = log.WithContext("pkg", "nftstake")

	seedAuthority = []byte("authority")
	seedMint      = []byte("mint")

	slotRewardMint = thor.BytesToBytes32([]byte("reward-mint"))

	ErrNotInitialized     = errors.New("reward mint is not initialized")
	ErrAlreadyInitialized = errors.New("reward mint is already initialized")
)

func SetLogger(l log.Logger) {
	logger = l
}

// Staker implements the staking program: Stake, Redeem and Unstake over one state transaction.
type Staker struct {
	addr     thor.Address
	blockCtx *xenv.BlockContext
	engine   reward.Engine

	custody    *custody.Custody
	metadata   *metadata.Program
	records    *record.Repository
	rewardMint *solidity.Address

	delegate      *Delegate
	mintAuthority thor.Signer
}

// New create a new instance.
func New(addr thor.Address, env *xenv.Environment, engine reward.Engine, custody *custody.Custody, metadata *metadata.Program) *Staker {
	sctx := solidity.NewContext(addr, env.State())
	return &Staker{
		addr:          addr,
		blockCtx:      env.BlockContext(),
		engine:        engine,
		custody:       custody,
		metadata:      metadata,
		records:       record.New(sctx),
		rewardMint:    solidity.NewAddress(sctx, slotRewardMint),
		delegate:      NewDelegate(custody, mustProgramSigner(addr, seedAuthority)),
		mintAuthority: mustProgramSigner(addr, seedMint),
	}
}

func mustProgramSigner(program thor.Address, seed []byte) thor.Signer {
	_, bump := thor.MustFindProgramAddress(program, seed)
	signer, err := thor.NewProgramSigner(program, bump, seed)
	if err != nil {
		panic(err)
	}
	return signer
}

// RecordAddress returns the address of the stake record of owner for asset.
func RecordAddress(program, owner, asset thor.Address) thor.Address {
	addr, _ := thor.MustFindProgramAddress(program, owner.Bytes(), asset.Bytes())
	return addr
}

//
// Getters - no state change
//

// Address returns the program address.
func (s *Staker) Address() thor.Address {
	return s.addr
}

// Authority returns the address assets are delegated to while staked.
func (s *Staker) Authority() thor.Address {
	return s.delegate.Authority()
}

// MintAuthority returns the authority of the reward mint.
func (s *Staker) MintAuthority() thor.Address {
	return s.mintAuthority.Address()
}

// RewardMint returns the reward mint, the zero address before Initialize.
func (s *Staker) RewardMint() (thor.Address, error) {
	return s.rewardMint.Get()
}

func (s *Staker) RecordAddress(owner, asset thor.Address) thor.Address {
	return RecordAddress(s.addr, owner, asset)
}

// GetRecord returns the stake record of owner for asset, a default one if never staked.
func (s *Staker) GetRecord(owner, asset thor.Address) (*record.Record, error) {
	return s.records.Get(s.RecordAddress(owner, asset))
}

//
// Setters - state change
//

// Initialize creates the reward mint under the program's mint authority.
func (s *Staker) Initialize(rewardMint thor.Address, decimals uint8) error {
	current, err := s.rewardMint.Get()
	if err != nil {
		return err
	}
	if !current.IsZero() {
		return errors.WithMessagef(ErrAlreadyInitialized, "reward mint %v", current)
	}
	if err := s.custody.InitializeMint(rewardMint, s.mintAuthority.Address(), decimals); err != nil {
		return errors.WithMessage(err, "initialize reward mint")
	}
	s.rewardMint.Set(&rewardMint)
	logger.Info("reward mint initialized", "mint", rewardMint, "authority", s.mintAuthority.Address())
	return nil
}

// Stake locks asset under the program authority and starts accruing rewards.
func (s *Staker) Stake(owner thor.Signer, asset thor.Address) error {
	now := s.blockCtx.Time
	logger.Debug("stake", "owner", owner.Address(), "asset", asset, "time", now)

	addr := s.RecordAddress(owner.Address(), asset)
	rec, err := s.records.Get(addr)
	if err != nil {
		return err
	}
	if rec.IsStaked() {
		return reverts.ErrAlreadyStaked
	}
	if rec.Initialized && now < rec.LastRedeemTime {
		return errors.WithMessagef(reward.ErrClockAnomaly, "now %d, last %d", now, rec.LastRedeemTime)
	}
	if err := s.checkTokenAccount(owner.Address(), asset); err != nil {
		return err
	}

	if err := s.delegate.Lock(owner, asset); err != nil {
		return err
	}

	rec.AssetAccount = asset
	rec.Owner = owner.Address()
	rec.State = record.Staked
	rec.StakeStartTime = now
	rec.LastRedeemTime = now
	rec.Initialized = true
	if err := s.records.Set(addr, rec); err != nil {
		return err
	}

	logger.Info("staked", "owner", owner.Address(), "asset", asset, "record", addr)
	return nil
}

// Redeem mints the rewards accrued since the last redeem to the owner.
func (s *Staker) Redeem(owner thor.Signer, asset thor.Address) (*reward.Reward, error) {
	logger.Debug("redeem", "owner", owner.Address(), "asset", asset, "time", s.blockCtx.Time)

	addr, rec, r, err := s.settle(owner, asset)
	if err != nil {
		return nil, err
	}
	if err := s.records.Set(addr, rec); err != nil {
		return nil, err
	}

	logger.Info("redeemed", "owner", owner.Address(), "asset", asset, "reward", r.Amount)
	return r, nil
}

// Unstake mints the accrued rewards, then releases the asset back to the owner.
func (s *Staker) Unstake(owner thor.Signer, asset thor.Address) (*reward.Reward, error) {
	logger.Debug("unstake", "owner", owner.Address(), "asset", asset, "time", s.blockCtx.Time)

	addr, rec, r, err := s.settle(owner, asset)
	if err != nil {
		return nil, err
	}
	if err := s.delegate.Release(owner, asset); err != nil {
		return nil, err
	}
	rec.State = record.Unstaked
	if err := s.records.Set(addr, rec); err != nil {
		return nil, err
	}

	logger.Info("unstaked", "owner", owner.Address(), "asset", asset, "reward", r.Amount)
	return r, nil
}

// settle computes and mints the pending reward of a staked record. The returned
// record has its redeem time advanced but is not yet written.
func (s *Staker) settle(owner thor.Signer, asset thor.Address) (thor.Address, *record.Record, *reward.Reward, error) {
	now := s.blockCtx.Time

	addr := s.RecordAddress(owner.Address(), asset)
	rec, err := s.records.Get(addr)
	if err != nil {
		return thor.Address{}, nil, nil, err
	}
	if !rec.Initialized {
		return thor.Address{}, nil, nil, reverts.ErrUninitializedAccount
	}
	if !rec.IsStaked() {
		return thor.Address{}, nil, nil, reverts.ErrInvalidStakeState
	}

	block, err := s.classify(asset)
	if err != nil {
		return thor.Address{}, nil, nil, err
	}
	elapsed, err := reward.Elapsed(now, rec.LastRedeemTime)
	if err != nil {
		return thor.Address{}, nil, nil, err
	}
	r, err := s.engine.Compute(elapsed, block, now)
	if err != nil {
		return thor.Address{}, nil, nil, err
	}
	logger.Debug("reward computed", "block", block.Name, "index", r.Index, "factor", r.Factor, "elapsed", elapsed, "amount", r.Amount)

	if err := s.mintReward(owner.Address(), r.Amount); err != nil {
		return thor.Address{}, nil, nil, err
	}
	rec.LastRedeemTime = now
	return addr, rec, r, nil
}

// classify resolves the block of the staked asset from its mint's metadata name.
func (s *Staker) classify(asset thor.Address) (classifier.Block, error) {
	acc, err := s.custody.GetAccount(asset)
	if err != nil {
		return classifier.Block{}, errors.WithMessage(err, "asset account")
	}
	md, err := s.metadata.Get(acc.Mint)
	if err != nil {
		return classifier.Block{}, errors.WithMessage(err, "asset metadata")
	}
	block, _, err := classifier.ClassifyName(md.Name)
	return block, err
}

func (s *Staker) mintReward(owner thor.Address, amount uint64) error {
	mint, err := s.rewardMint.Get()
	if err != nil {
		return err
	}
	if mint.IsZero() {
		return ErrNotInitialized
	}
	ata, err := s.custody.EnsureAccount(mint, owner)
	if err != nil {
		return errors.WithMessage(err, "reward account")
	}
	return errors.WithMessage(s.custody.MintTo(mint, ata, amount, s.mintAuthority), "mint reward")
}

// checkTokenAccount requires asset to be owned by owner and to hold the single token of an NFT mint.
func (s *Staker) checkTokenAccount(owner, asset thor.Address) error {
	acc, err := s.custody.GetAccount(asset)
	if err != nil {
		if errors.Is(err, custody.ErrAccountNotFound) {
			return reverts.ErrInvalidTokenAccount
		}
		return err
	}
	if acc.Owner != owner || acc.Amount != 1 {
		return reverts.ErrInvalidTokenAccount
	}
	mint, err := s.custody.GetMint(acc.Mint)
	if err != nil {
		return err
	}
	if mint.Supply != 1 || mint.Decimals != 0 {
		return errors.WithMessagef(reverts.ErrInvalidTokenAccount, "mint %v supply %d decimals %d", acc.Mint, mint.Supply, mint.Decimals)
	}
	return nil
}
