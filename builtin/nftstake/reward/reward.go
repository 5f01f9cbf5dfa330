// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package reward computes the time weighted staking reward.
//
// The factor is drawn from the block's member table with an index derived from
// the ledger time. The draw is deterministic and can be steered by whoever
// controls the transaction timestamp; it is not a source of randomness.
package reward

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/nftstake/builtin/nftstake/classifier"
	"github.com/vechain/nftstake/builtin/nftstake/reverts"
)

const (
	DefaultDailyRate     = 1000
	DefaultSecondsPerDay = 86400
)

var (
	ErrClockAnomaly   = errors.New("ledger time is before the last redeem time")
	ErrRewardOverflow = errors.New("reward overflows token amount")
	ErrInvalidEngine  = errors.New("seconds per day must be positive")
)

// Reward is one computed payout with the inputs it was derived from.
type Reward struct {
	Amount  uint64
	Index   int
	Factor  uint8
	Weight  uint8
	Elapsed uint64
}

func (r *Reward) String() string {
	return fmt.Sprintf("reward(amount=%d index=%d factor=%d weight=%d elapsed=%ds)",
		r.Amount, r.Index, r.Factor, r.Weight, r.Elapsed)
}

// Engine holds the reward rate.
type Engine struct {
	DailyRate     uint64
	SecondsPerDay uint64
}

// Default returns the engine with the compatibility rate of 1000 units per day.
func Default() Engine {
	return Engine{DailyRate: DefaultDailyRate, SecondsPerDay: DefaultSecondsPerDay}
}

// Elapsed returns now - last, failing when the clock went backwards.
func Elapsed(now, last uint64) (uint64, error) {
	if now < last {
		return 0, errors.WithMessagef(ErrClockAnomaly, "now %d, last %d", now, last)
	}
	return now - last, nil
}

// Index returns the 1-based factor index for seed. A zero remainder is
// coerced to 1, so index 1 is drawn twice as often and the last member never.
func Index(seed uint64, size int) int {
	i := int(seed % uint64(size))
	if i == 0 {
		i = 1
	}
	return i
}

// Compute returns (DailyRate*elapsed/SecondsPerDay) * (factor/weight), each
// division truncating in that order.
func (e Engine) Compute(elapsed uint64, block classifier.Block, seed uint64) (*Reward, error) {
	if e.SecondsPerDay == 0 {
		return nil, ErrInvalidEngine
	}
	if block.Size() == 0 || block.Weight == 0 {
		return nil, reverts.ErrInvalidBlockData
	}
	// the factor table is the block of the same size
	table, err := classifier.BlockBySize(block.Size())
	if err != nil {
		return nil, err
	}

	idx := Index(seed, table.Size())
	factor := table.Members[idx-1]

	var (
		rate   = uint256.NewInt(e.DailyRate)
		dt     = uint256.NewInt(elapsed)
		spd    = uint256.NewInt(e.SecondsPerDay)
		ratio  = uint256.NewInt(uint64(factor) / uint64(block.Weight))
		amount = new(uint256.Int)
	)
	if _, overflow := amount.MulOverflow(rate, dt); overflow {
		return nil, ErrRewardOverflow
	}
	amount.Div(amount, spd)
	if _, overflow := amount.MulOverflow(amount, ratio); overflow {
		return nil, ErrRewardOverflow
	}
	if !amount.IsUint64() {
		return nil, errors.WithMessagef(ErrRewardOverflow, "amount %v", amount.Dec())
	}

	return &Reward{
		Amount:  amount.Uint64(),
		Index:   idx,
		Factor:  factor,
		Weight:  block.Weight,
		Elapsed: elapsed,
	}, nil
}
