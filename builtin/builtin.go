// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"github.com/vechain/nftstake/builtin/custody"
	"github.com/vechain/nftstake/builtin/metadata"
	"github.com/vechain/nftstake/builtin/nftstake"
	"github.com/vechain/nftstake/builtin/nftstake/reward"
	"github.com/vechain/nftstake/state"
	"github.com/vechain/nftstake/xenv"
)

// Builtin programs binding.
var (
	Custody  = &custodyContract{newContract("Custody")}
	Metadata = &metadataContract{newContract("Metadata")}
	NFTStake = &nftStakeContract{newContract("NFTStake")}
)

type (
	custodyContract  struct{ *contract }
	metadataContract struct{ *contract }
	nftStakeContract struct{ *contract }
)

func (c *custodyContract) Native(state *state.State) *custody.Custody {
	return custody.New(c.Address, state)
}

func (m *metadataContract) Native(state *state.State) *metadata.Program {
	return metadata.New(m.Address, state, Custody.Native(state))
}

// Native binds the staking program and the programs it calls to env.
func (n *nftStakeContract) Native(env *xenv.Environment, engine reward.Engine) *nftstake.Staker {
	return nftstake.New(
		n.Address,
		env,
		engine,
		Custody.Native(env.State()),
		Metadata.Native(env.State()),
	)
}
