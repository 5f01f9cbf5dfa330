// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import (
	"errors"
	"io"
)

const (
	// MaxSeeds is the maximum number of seeds a program address can be derived from.
	MaxSeeds = 16
	// MaxSeedLength is the maximum length in bytes of a single seed.
	MaxSeedLength = 32
)

var (
	ErrMaxSeedsExceeded      = errors.New("too many seeds")
	ErrMaxSeedLengthExceeded = errors.New("seed too long")
	ErrNoViableBump          = errors.New("unable to find a viable program address bump")

	pdaMarker = []byte("ProgramDerivedAddress")
)

// CreateProgramAddress derives the address owned by program for the given seeds and bump.
// Seeds are length-prefixed, so distinct seed lists never hash the same input.
func CreateProgramAddress(program Address, bump uint8, seeds ...[]byte) (Address, error) {
	if len(seeds) > MaxSeeds {
		return Address{}, ErrMaxSeedsExceeded
	}
	for _, seed := range seeds {
		if len(seed) > MaxSeedLength {
			return Address{}, ErrMaxSeedLengthExceeded
		}
	}

	h := Blake2bFn(func(w io.Writer) {
		for _, seed := range seeds {
			w.Write([]byte{byte(len(seed))})
			w.Write(seed)
		}
		w.Write([]byte{bump})
		w.Write(program[:])
		w.Write(pdaMarker)
	})
	return BytesToAddress(h[Bytes32Length-AddressLength:]), nil
}

// FindProgramAddress returns the canonical program address for seeds, searching the bump
// from 255 downwards. A candidate is rejected when it collides with the zero address or
// with the program itself.
func FindProgramAddress(program Address, seeds ...[]byte) (Address, uint8, error) {
	for bump := 255; bump >= 0; bump-- {
		addr, err := CreateProgramAddress(program, uint8(bump), seeds...)
		if err != nil {
			return Address{}, 0, err
		}
		if addr.IsZero() || addr == program {
			continue
		}
		return addr, uint8(bump), nil
	}
	return Address{}, 0, ErrNoViableBump
}

// MustFindProgramAddress is FindProgramAddress for fixed labels, panic on error.
func MustFindProgramAddress(program Address, seeds ...[]byte) (Address, uint8) {
	addr, bump, err := FindProgramAddress(program, seeds...)
	if err != nil {
		panic(err)
	}
	return addr, bump
}
