// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package custody

import (
	"github.com/pkg/errors"

	"github.com/vechain/nftstake/thor"
)

var (
	ErrMintExists        = errors.New("mint already initialized")
	ErrMintNotFound      = errors.New("mint not found")
	ErrAccountExists     = errors.New("token account already initialized")
	ErrAccountNotFound   = errors.New("token account not found")
	ErrMintMismatch      = errors.New("token accounts belong to different mints")
	ErrOwnerMismatch     = errors.New("signer does not own the token account")
	ErrInvalidAuthority  = errors.New("signer is not the mint authority")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrOverflow          = errors.New("amount overflow")
	ErrAccountFrozen     = errors.New("token account is frozen")
	ErrAccountNotFrozen  = errors.New("token account is not frozen")
	ErrNotDelegate       = errors.New("signer is not the token account delegate")
	ErrInvalidSigner     = errors.New("invalid signer")
	ErrZeroAddress       = errors.New("zero address")
)

// Mint describes a token type.
type Mint struct {
	Authority thor.Address
	Supply    uint64
	Decimals  uint8
}

// Account holds a balance of one mint for one owner.
type Account struct {
	Mint            thor.Address
	Owner           thor.Address
	Amount          uint64
	Delegate        thor.Address
	DelegatedAmount uint64
	Frozen          bool
}

// HasDelegate reports whether a delegate is approved for a non-zero amount.
func (a *Account) HasDelegate() bool {
	return !a.Delegate.IsZero() && a.DelegatedAmount > 0
}
