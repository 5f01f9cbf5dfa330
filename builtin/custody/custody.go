// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package custody is the token program: mints, token accounts, delegation and freezing.
package custody

import (
	"math"

	"github.com/pkg/errors"

	"github.com/vechain/nftstake/builtin/solidity"
	"github.com/vechain/nftstake/state"
	"github.com/vechain/nftstake/thor"
)

var (
	slotMints    = thor.BytesToBytes32([]byte("mints"))
	slotAccounts = thor.BytesToBytes32([]byte("accounts"))
)

// Custody implements the token program over one state transaction.
type Custody struct {
	addr     thor.Address
	mints    *solidity.Mapping[thor.Address, *Mint]
	accounts *solidity.Mapping[thor.Address, *Account]
}

// New create a new instance.
func New(addr thor.Address, state *state.State) *Custody {
	sctx := solidity.NewContext(addr, state)
	return &Custody{
		addr:     addr,
		mints:    solidity.NewMapping[thor.Address, *Mint](sctx, slotMints),
		accounts: solidity.NewMapping[thor.Address, *Account](sctx, slotAccounts),
	}
}

// Address returns the program address.
func (c *Custody) Address() thor.Address {
	return c.addr
}

// AssociatedAccount returns the associated token account address of owner for mint.
func (c *Custody) AssociatedAccount(owner, mint thor.Address) thor.Address {
	return AssociatedAccount(c.addr, owner, mint)
}

// AssociatedAccount returns the account the custody program at program keeps for owner and mint.
func AssociatedAccount(program, owner, mint thor.Address) thor.Address {
	addr, _ := thor.MustFindProgramAddress(program, owner.Bytes(), mint.Bytes())
	return addr
}

func (c *Custody) GetMint(mint thor.Address) (*Mint, error) {
	m, err := c.mints.Get(mint)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, errors.WithMessagef(ErrMintNotFound, "mint %v", mint)
	}
	return m, nil
}

func (c *Custody) GetAccount(account thor.Address) (*Account, error) {
	a, err := c.accounts.Get(account)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, errors.WithMessagef(ErrAccountNotFound, "account %v", account)
	}
	return a, nil
}

// InitializeMint creates a mint at the given address.
func (c *Custody) InitializeMint(mint, authority thor.Address, decimals uint8) error {
	if mint.IsZero() || authority.IsZero() {
		return ErrZeroAddress
	}
	existing, err := c.mints.Get(mint)
	if err != nil {
		return err
	}
	if existing != nil {
		return errors.WithMessagef(ErrMintExists, "mint %v", mint)
	}
	return c.mints.Set(mint, &Mint{Authority: authority, Decimals: decimals})
}

// InitializeAccount creates the associated token account of owner for mint.
func (c *Custody) InitializeAccount(mint, owner thor.Address) (thor.Address, error) {
	if owner.IsZero() {
		return thor.Address{}, ErrZeroAddress
	}
	if _, err := c.GetMint(mint); err != nil {
		return thor.Address{}, err
	}
	addr := c.AssociatedAccount(owner, mint)
	existing, err := c.accounts.Get(addr)
	if err != nil {
		return thor.Address{}, err
	}
	if existing != nil {
		return thor.Address{}, errors.WithMessagef(ErrAccountExists, "account %v", addr)
	}
	if err := c.accounts.Set(addr, &Account{Mint: mint, Owner: owner}); err != nil {
		return thor.Address{}, err
	}
	return addr, nil
}

// EnsureAccount returns the associated token account of owner for mint, creating it if needed.
func (c *Custody) EnsureAccount(mint, owner thor.Address) (thor.Address, error) {
	addr := c.AssociatedAccount(owner, mint)
	existing, err := c.accounts.Get(addr)
	if err != nil {
		return thor.Address{}, err
	}
	if existing != nil {
		return addr, nil
	}
	return c.InitializeAccount(mint, owner)
}

// MintTo creates amount new tokens into account. The signer must be the mint authority.
func (c *Custody) MintTo(mint, account thor.Address, amount uint64, authority thor.Signer) error {
	m, err := c.GetMint(mint)
	if err != nil {
		return err
	}
	if err := authorize(authority, m.Authority, ErrInvalidAuthority); err != nil {
		return err
	}
	acc, err := c.GetAccount(account)
	if err != nil {
		return err
	}
	if acc.Mint != mint {
		return ErrMintMismatch
	}
	if acc.Frozen {
		return errors.WithMessagef(ErrAccountFrozen, "account %v", account)
	}
	if amount > math.MaxUint64-m.Supply || amount > math.MaxUint64-acc.Amount {
		return ErrOverflow
	}
	m.Supply += amount
	acc.Amount += amount
	if err := c.mints.Set(mint, m); err != nil {
		return err
	}
	return c.accounts.Set(account, acc)
}

// Transfer moves amount from one account to another. The signer is either the owner of from,
// or its delegate spending within the delegated amount.
func (c *Custody) Transfer(from, to thor.Address, amount uint64, authority thor.Signer) error {
	src, err := c.GetAccount(from)
	if err != nil {
		return err
	}
	dst, err := c.GetAccount(to)
	if err != nil {
		return err
	}
	if src.Mint != dst.Mint {
		return ErrMintMismatch
	}
	if src.Frozen || dst.Frozen {
		return ErrAccountFrozen
	}
	if err := authority.Verify(); err != nil {
		return errors.Wrap(ErrInvalidSigner, err.Error())
	}

	byDelegate := false
	switch authority.Address() {
	case src.Owner:
	case src.Delegate:
		if !src.HasDelegate() {
			return ErrNotDelegate
		}
		if amount > src.DelegatedAmount {
			return ErrInsufficientFunds
		}
		byDelegate = true
	default:
		return ErrOwnerMismatch
	}
	if amount > src.Amount {
		return ErrInsufficientFunds
	}
	if from == to {
		return nil
	}
	if amount > math.MaxUint64-dst.Amount {
		return ErrOverflow
	}

	src.Amount -= amount
	dst.Amount += amount
	if byDelegate {
		src.DelegatedAmount -= amount
		if src.DelegatedAmount == 0 {
			src.Delegate = thor.Address{}
		}
	}
	if err := c.accounts.Set(from, src); err != nil {
		return err
	}
	return c.accounts.Set(to, dst)
}

// Approve lets delegate spend up to amount from account.
func (c *Custody) Approve(account, delegate thor.Address, amount uint64, owner thor.Signer) error {
	acc, err := c.ownedAccount(account, owner)
	if err != nil {
		return err
	}
	if acc.Frozen {
		return errors.WithMessagef(ErrAccountFrozen, "account %v", account)
	}
	acc.Delegate = delegate
	acc.DelegatedAmount = amount
	return c.accounts.Set(account, acc)
}

// Revoke clears the delegate of account. A frozen account can't be revoked.
func (c *Custody) Revoke(account thor.Address, owner thor.Signer) error {
	acc, err := c.ownedAccount(account, owner)
	if err != nil {
		return err
	}
	if acc.Frozen {
		return errors.WithMessagef(ErrAccountFrozen, "account %v", account)
	}
	acc.Delegate = thor.Address{}
	acc.DelegatedAmount = 0
	return c.accounts.Set(account, acc)
}

// FreezeDelegated freezes account. The signer must be its approved delegate.
func (c *Custody) FreezeDelegated(account thor.Address, delegate thor.Signer) error {
	acc, err := c.delegatedAccount(account, delegate)
	if err != nil {
		return err
	}
	if acc.Frozen {
		return errors.WithMessagef(ErrAccountFrozen, "account %v", account)
	}
	acc.Frozen = true
	return c.accounts.Set(account, acc)
}

// ThawDelegated unfreezes account. The signer must be its approved delegate.
func (c *Custody) ThawDelegated(account thor.Address, delegate thor.Signer) error {
	acc, err := c.delegatedAccount(account, delegate)
	if err != nil {
		return err
	}
	if !acc.Frozen {
		return errors.WithMessagef(ErrAccountNotFrozen, "account %v", account)
	}
	acc.Frozen = false
	return c.accounts.Set(account, acc)
}

func (c *Custody) ownedAccount(account thor.Address, owner thor.Signer) (*Account, error) {
	acc, err := c.GetAccount(account)
	if err != nil {
		return nil, err
	}
	if err := authorize(owner, acc.Owner, ErrOwnerMismatch); err != nil {
		return nil, err
	}
	return acc, nil
}

func (c *Custody) delegatedAccount(account thor.Address, delegate thor.Signer) (*Account, error) {
	acc, err := c.GetAccount(account)
	if err != nil {
		return nil, err
	}
	if !acc.HasDelegate() {
		return nil, errors.WithMessagef(ErrNotDelegate, "account %v has no delegate", account)
	}
	if err := authorize(delegate, acc.Delegate, ErrNotDelegate); err != nil {
		return nil, err
	}
	return acc, nil
}

// authorize checks signer acts for expected, returning mismatch otherwise.
func authorize(signer thor.Signer, expected thor.Address, mismatch error) error {
	if err := signer.Verify(); err != nil {
		return errors.Wrap(ErrInvalidSigner, err.Error())
	}
	if signer.Address() != expected {
		return errors.WithMessagef(mismatch, "signer %v", signer.Address())
	}
	return nil
}
