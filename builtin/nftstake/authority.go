// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package nftstake

import (
	"github.com/pkg/errors"

	"github.com/vechain/nftstake/builtin/custody"
	"github.com/vechain/nftstake/thor"
)

// Delegate locks assets under the program authority without moving them.
// Approve must precede Freeze and Thaw must precede Revoke; custody enforces both.
type Delegate struct {
	custody   *custody.Custody
	authority thor.Signer
}

func NewDelegate(custody *custody.Custody, authority thor.Signer) *Delegate {
	return &Delegate{custody: custody, authority: authority}
}

// Authority returns the address holding the delegation.
func (d *Delegate) Authority() thor.Address {
	return d.authority.Address()
}

// Approve lets the authority act on exactly one token of asset.
func (d *Delegate) Approve(owner thor.Signer, asset thor.Address) error {
	return errors.WithMessage(d.custody.Approve(asset, d.authority.Address(), 1, owner), "approve")
}

// Freeze makes asset non-transferable.
func (d *Delegate) Freeze(asset thor.Address) error {
	return errors.WithMessage(d.custody.FreezeDelegated(asset, d.authority), "freeze")
}

// Thaw makes asset transferable again.
func (d *Delegate) Thaw(asset thor.Address) error {
	return errors.WithMessage(d.custody.ThawDelegated(asset, d.authority), "thaw")
}

// Revoke returns sole control of asset to its owner.
func (d *Delegate) Revoke(owner thor.Signer, asset thor.Address) error {
	return errors.WithMessage(d.custody.Revoke(asset, owner), "revoke")
}

// Lock approves then freezes.
func (d *Delegate) Lock(owner thor.Signer, asset thor.Address) error {
	if err := d.Approve(owner, asset); err != nil {
		return err
	}
	return d.Freeze(asset)
}

// Release thaws then revokes.
func (d *Delegate) Release(owner thor.Signer, asset thor.Address) error {
	if err := d.Thaw(asset); err != nil {
		return err
	}
	return d.Revoke(owner, asset)
}
