// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"errors"
	"fmt"
)

// Code identifies a revert reason. Values are stable across releases.
type Code uint32

const (
	CodeAlreadyStaked Code = 6000 + iota
	CodeUninitializedAccount
	CodeInvalidStakeState
	CodeInvalidElementName
	CodeInvalidBlockData
	CodeInvalidTokenAccount
)

var (
	ErrAlreadyStaked        = New(CodeAlreadyStaked, "NFT already staked")
	ErrUninitializedAccount = New(CodeUninitializedAccount, "State account is uninitialized")
	ErrInvalidStakeState    = New(CodeInvalidStakeState, "Stake state is invalid")
	ErrInvalidElementName   = New(CodeInvalidElementName, "Invalid element name")
	ErrInvalidBlockData     = New(CodeInvalidBlockData, "Invalid block data")
	ErrInvalidTokenAccount  = New(CodeInvalidTokenAccount, "Invalid token account")
)

// ErrRevert is a caller-visible failure of a staking operation.
type ErrRevert struct {
	code    Code
	message string
}

func New(code Code, message string) *ErrRevert {
	return &ErrRevert{
		code:    code,
		message: message,
	}
}

func (e *ErrRevert) Error() string {
	return e.message
}

func (e *ErrRevert) Code() Code {
	return e.code
}

// Is matches any revert with the same code, so wrapped or re-created reverts compare equal.
func (e *ErrRevert) Is(target error) bool {
	t, ok := target.(*ErrRevert)
	return ok && t.code == e.code
}

func (e *ErrRevert) String() string {
	return fmt.Sprintf("revert(%d): %s", e.code, e.message)
}

func IsRevertErr(err any) bool {
	if err == nil {
		return false
	}
	e, ok := err.(error)
	if !ok {
		return false
	}
	var ve *ErrRevert
	return errors.As(e, &ve)
}
