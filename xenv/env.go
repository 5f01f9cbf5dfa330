// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package xenv

import (
	"github.com/vechain/nftstake/state"
	"github.com/vechain/nftstake/thor"
)

// BlockContext block context.
type BlockContext struct {
	Number uint32
	// Time is the ledger unix time in seconds.
	Time uint64
}

// TransactionContext transaction context.
type TransactionContext struct {
	ID     thor.Bytes32
	Origin thor.Address
}

// Environment an env to execute native method.
type Environment struct {
	state    *state.State
	blockCtx *BlockContext
	txCtx    *TransactionContext
}

// New create a new env.
func New(state *state.State, blockCtx *BlockContext, txCtx *TransactionContext) *Environment {
	return &Environment{
		state:    state,
		blockCtx: blockCtx,
		txCtx:    txCtx,
	}
}

func (env *Environment) State() *state.State                     { return env.state }
func (env *Environment) TransactionContext() *TransactionContext { return env.txCtx }
func (env *Environment) BlockContext() *BlockContext             { return env.blockCtx }

// Origin returns the transaction origin, the zero address if there is no transaction context.
func (env *Environment) Origin() thor.Address {
	if env.txCtx == nil {
		return thor.Address{}
	}
	return env.txCtx.Origin
}
