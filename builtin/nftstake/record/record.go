// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package record

import (
	"fmt"

	"github.com/vechain/nftstake/builtin/solidity"
	"github.com/vechain/nftstake/thor"
)

var slotRecords = thor.BytesToBytes32([]byte("stake-records"))

// State is the lifecycle state of a stake record.
type State uint8

const (
	Unstaked State = iota
	Staked
)

func (s State) String() string {
	switch s {
	case Unstaked:
		return "unstaked"
	case Staked:
		return "staked"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// Record tracks one staked asset of one owner.
type Record struct {
	AssetAccount   thor.Address
	Owner          thor.Address
	State          State
	StakeStartTime uint64
	LastRedeemTime uint64
	Initialized    bool
}

func (r *Record) IsStaked() bool {
	return r.State == Staked
}

// Repository stores records by their program derived address.
type Repository struct {
	records *solidity.Mapping[thor.Address, *Record]
}

func New(sctx *solidity.Context) *Repository {
	return &Repository{
		records: solidity.NewMapping[thor.Address, *Record](sctx, slotRecords),
	}
}

// Get returns the record at addr, a default unstaked record if none was written.
func (r *Repository) Get(addr thor.Address) (*Record, error) {
	rec, err := r.records.Get(addr)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return &Record{}, nil
	}
	return rec, nil
}

// Exists reports whether a record was ever written at addr.
func (r *Repository) Exists(addr thor.Address) (bool, error) {
	rec, err := r.records.Get(addr)
	if err != nil {
		return false, err
	}
	return rec != nil, nil
}

func (r *Repository) Set(addr thor.Address, rec *Record) error {
	return r.records.Set(addr, rec)
}
