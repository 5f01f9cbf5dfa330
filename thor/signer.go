// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import (
	"errors"
	"fmt"
)

// ErrInvalidProgramSigner is returned when a program signer's seeds do not derive its address.
var ErrInvalidProgramSigner = errors.New("program signer seeds do not match address")

// Signer is the capability to act as an address for the duration of one call.
//
// A wallet signer wraps an address whose key is held outside this system; the wallet layer
// has already verified the signature. A program signer is never backed by a key: it carries
// the seeds and bump its address was derived from, and any callee can re-derive it.
type Signer struct {
	address Address
	program *Address
	seeds   [][]byte
	bump    uint8
}

// NewSigner returns a signer for a wallet-held address.
func NewSigner(addr Address) Signer {
	return Signer{address: addr}
}

// NewProgramSigner returns the signer of the address derived by program from seeds and bump.
func NewProgramSigner(program Address, bump uint8, seeds ...[]byte) (Signer, error) {
	addr, err := CreateProgramAddress(program, bump, seeds...)
	if err != nil {
		return Signer{}, err
	}
	cp := make([][]byte, len(seeds))
	for i, seed := range seeds {
		cp[i] = append([]byte(nil), seed...)
	}
	return Signer{
		address: addr,
		program: &program,
		seeds:   cp,
		bump:    bump,
	}, nil
}

// Address returns the address the signer acts for.
func (s Signer) Address() Address {
	return s.address
}

// IsProgram returns whether the signer is a program-derived capability.
func (s Signer) IsProgram() bool {
	return s.program != nil
}

// Verify checks a program signer still derives its address. Wallet signers always verify.
func (s Signer) Verify() error {
	if s.program == nil {
		return nil
	}
	addr, err := CreateProgramAddress(*s.program, s.bump, s.seeds...)
	if err != nil {
		return err
	}
	if addr != s.address {
		return ErrInvalidProgramSigner
	}
	return nil
}

func (s Signer) String() string {
	if s.program != nil {
		return fmt.Sprintf("program-signer(%v by %v)", s.address, *s.program)
	}
	return fmt.Sprintf("signer(%v)", s.address)
}
