// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package metadata stores the display name attached to a mint.
package metadata

import (
	"github.com/pkg/errors"

	"github.com/vechain/nftstake/builtin/custody"
	"github.com/vechain/nftstake/builtin/solidity"
	"github.com/vechain/nftstake/state"
	"github.com/vechain/nftstake/thor"
)

// MaxNameLength is the fixed width names are padded to.
const MaxNameLength = 32

var (
	ErrMetadataExists   = errors.New("metadata already exists")
	ErrMetadataNotFound = errors.New("metadata not found")
	ErrNameTooLong      = errors.New("name too long")
	ErrNotMintAuthority = errors.New("update authority is not the mint authority")

	slotMetadata = thor.BytesToBytes32([]byte("metadata"))
)

// Metadata of one mint. Name keeps its NUL padding.
type Metadata struct {
	Mint            thor.Address
	UpdateAuthority thor.Address
	Name            string
}

// Mints resolves the mints metadata is attached to.
type Mints interface {
	GetMint(mint thor.Address) (*custody.Mint, error)
}

// Program implements the metadata program over one state transaction.
type Program struct {
	addr    thor.Address
	mints   Mints
	entries *solidity.Mapping[thor.Address, *Metadata]
}

// New create a new instance.
func New(addr thor.Address, state *state.State, mints Mints) *Program {
	return &Program{
		addr:    addr,
		mints:   mints,
		entries: solidity.NewMapping[thor.Address, *Metadata](solidity.NewContext(addr, state), slotMetadata),
	}
}

// Create attaches name to mint. Only the mint authority may name a mint.
func (p *Program) Create(mint thor.Address, name string, updateAuthority thor.Signer) error {
	if len(name) > MaxNameLength {
		return errors.WithMessagef(ErrNameTooLong, "%d bytes", len(name))
	}
	if err := updateAuthority.Verify(); err != nil {
		return err
	}
	m, err := p.mints.GetMint(mint)
	if err != nil {
		return err
	}
	if m.Authority != updateAuthority.Address() {
		return errors.WithMessagef(ErrNotMintAuthority, "mint %v", mint)
	}
	existing, err := p.entries.Get(mint)
	if err != nil {
		return err
	}
	if existing != nil {
		return errors.WithMessagef(ErrMetadataExists, "mint %v", mint)
	}
	padded := make([]byte, MaxNameLength)
	copy(padded, name)
	return p.entries.Set(mint, &Metadata{
		Mint:            mint,
		UpdateAuthority: updateAuthority.Address(),
		Name:            string(padded),
	})
}

// Get returns the metadata of mint.
func (p *Program) Get(mint thor.Address) (*Metadata, error) {
	md, err := p.entries.Get(mint)
	if err != nil {
		return nil, err
	}
	if md == nil {
		return nil, errors.WithMessagef(ErrMetadataNotFound, "mint %v", mint)
	}
	return md, nil
}
