// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package runtime runs staking operations as atomic units over the shared store.
//
// Every operation declares the accounts it writes. The runtime locks them,
// executes the operation against a fresh state overlay and commits the overlay
// in one batch, or discards it when the operation fails. Grouped operations
// share one overlay, each under its own checkpoint.
package runtime

import (
	"context"
	"encoding/binary"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vechain/nftstake/builtin/nftstake/reverts"
	"github.com/vechain/nftstake/builtin/nftstake/reward"
	"github.com/vechain/nftstake/log"
	"github.com/vechain/nftstake/state"
	"github.com/vechain/nftstake/thor"
	"github.com/vechain/nftstake/xenv"
)

var logger = log.WithContext("pkg", "runtime")

func SetLogger(l log.Logger) {
	logger = l
}

// Clock returns the current ledger time in unix seconds.
type Clock func() uint64

// SystemClock reads the wall clock.
func SystemClock() uint64 {
	return uint64(time.Now().Unix())
}

// Options tune a Runtime.
type Options struct {
	Engine reward.Engine
	// Decimals of the reward mint created by Initialize.
	Decimals uint8
	Clock    Clock
	// BatchLimit caps the operations ExecuteBatch runs at once, no limit if <= 0.
	BatchLimit int
}

// Op is one atomic unit of work.
type Op struct {
	Name string
	// Accounts written by Fn.
	Accounts []thor.Address
	Origin   thor.Address
	Fn       func(env *xenv.Environment) error
}

// Runtime is to support operation execution.
type Runtime struct {
	store *state.Store
	opts  Options
	locks *accountLocks
	seq   atomic.Uint32
	nonce atomic.Uint64

	closeFn func() error
}

// New create a Runtime object.
func New(store *state.Store, opts Options) *Runtime {
	if opts.Clock == nil {
		opts.Clock = SystemClock
	}
	if opts.Engine.SecondsPerDay == 0 {
		opts.Engine = reward.Default()
	}
	return &Runtime{
		store: store,
		opts:  opts,
		locks: newAccountLocks(func(n int) { metricLockedAccts().Set(int64(n)) }),
	}
}

// Close releases the underlying store if the runtime opened it.
func (rt *Runtime) Close() error {
	if rt.closeFn != nil {
		return rt.closeFn()
	}
	return nil
}

func (rt *Runtime) Engine() reward.Engine { return rt.opts.Engine }

// Execute runs op. The context is only checked before the operation starts.
func (rt *Runtime) Execute(ctx context.Context, op Op) error {
	return rt.ExecuteGroup(ctx, op.Name, []Op{op})[0]
}

// ExecuteGroup runs ops in order as one transaction and returns the error of each.
// Every op runs under its own checkpoint: a failed op is reverted alone and the
// changes of the others are committed together.
func (rt *Runtime) ExecuteGroup(ctx context.Context, name string, ops []Op) []error {
	errs := make([]error, len(ops))
	if err := ctx.Err(); err != nil {
		for i := range errs {
			errs[i] = err
		}
		return errs
	}

	var accounts []thor.Address
	for _, op := range ops {
		accounts = append(accounts, op.Accounts...)
	}
	unlock := rt.locks.lock(accounts)
	defer unlock()

	start := time.Now()
	rt.execute(ops, errs)
	metricOpDuration().ObserveWithLabels(time.Since(start).Microseconds(), map[string]string{"op": name})
	for i, op := range ops {
		metricOpCount().AddWithLabel(1, map[string]string{"op": op.Name, "outcome": outcome(errs[i])})
	}
	return errs
}

func (rt *Runtime) execute(ops []Op, errs []error) {
	st := rt.store.NewState()
	blk := &xenv.BlockContext{
		Number: rt.seq.Add(1),
		Time:   rt.opts.Clock(),
	}

	applied := 0
	for i, op := range ops {
		env := xenv.New(st, blk, &xenv.TransactionContext{
			ID:     txID(op, blk.Number, i),
			Origin: op.Origin,
		})

		checkpoint := st.NewCheckpoint()
		if err := op.Fn(env); err != nil {
			st.RevertTo(checkpoint)
			logger.Debug("operation reverted", "op", op.Name, "origin", op.Origin, "number", blk.Number, "err", err)
			errs[i] = err
			continue
		}
		applied++
	}
	if applied == 0 {
		return
	}

	stage, err := st.Stage()
	if err == nil {
		err = stage.Commit()
	}
	if err != nil {
		logger.Error("failed to commit operations", "ops", applied, "number", blk.Number, "err", err)
		for i := range errs {
			if errs[i] == nil {
				errs[i] = err
			}
		}
		return
	}
	logger.Trace("operations committed", "ops", applied, "number", blk.Number, "slots", stage.Len())
}

// ExecuteBatch runs independent operations concurrently and returns the error of each.
// Operations sharing an account still run one at a time.
func (rt *Runtime) ExecuteBatch(ctx context.Context, ops []Op) []error {
	errs := make([]error, len(ops))

	var g errgroup.Group
	if rt.opts.BatchLimit > 0 {
		g.SetLimit(rt.opts.BatchLimit)
	}
	for i, op := range ops {
		g.Go(func() error {
			errs[i] = rt.Execute(ctx, op)
			return nil
		})
	}
	_ = g.Wait()
	return errs
}

// view runs fn over a fresh state with accounts locked and discards any writes.
func (rt *Runtime) view(accounts []thor.Address, fn func(env *xenv.Environment) error) error {
	unlock := rt.locks.lock(accounts)
	defer unlock()

	env := xenv.New(rt.store.NewState(), &xenv.BlockContext{Time: rt.opts.Clock()}, nil)
	return fn(env)
}

func txID(op Op, number uint32, index int) thor.Bytes32 {
	var n [8]byte
	binary.BigEndian.PutUint32(n[:4], number)
	binary.BigEndian.PutUint32(n[4:], uint32(index))
	return thor.Blake2b([]byte(op.Name), op.Origin.Bytes(), n[:])
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case reverts.IsRevertErr(err):
		return "revert"
	default:
		return "error"
	}
}
