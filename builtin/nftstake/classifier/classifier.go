// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package classifier maps element codes onto the four reward blocks.
package classifier

import (
	"slices"
	"strconv"
	"strings"

	"github.com/vechain/nftstake/builtin/nftstake/reverts"
)

// Block is one category of element codes. Members are sorted ascending and
// double as the factor table the reward engine draws from.
type Block struct {
	Name    string
	Weight  uint8
	Members []uint8
}

// Size returns the member count.
func (b Block) Size() int {
	return len(b.Members)
}

// Contains reports whether code belongs to the block.
func (b Block) Contains(code uint8) bool {
	_, found := slices.BinarySearch(b.Members, code)
	return found
}

var (
	S = Block{"s", 10, []uint8{1, 2, 3, 4, 11, 12, 19, 20, 37, 38, 55, 56, 87, 88, 119}}
	P = Block{"p", 20, []uint8{
		5, 6, 7, 8, 9, 10, 13, 14, 15, 16, 17, 18, 31, 32, 33, 34, 35, 36,
		49, 50, 51, 52, 53, 54, 81, 82, 83, 84, 85, 86, 113, 114, 115, 116, 117, 118,
	}}
	D = Block{"d", 30, []uint8{
		21, 22, 23, 24, 25, 26, 27, 28, 29, 30, 39, 40, 41, 42, 43, 44, 45, 46, 47, 48,
		71, 72, 73, 74, 75, 76, 77, 78, 79, 80, 103, 104, 105, 106, 107, 108, 109, 110, 111, 112,
	}}
	F = Block{"f", 40, []uint8{
		57, 58, 59, 60, 61, 62, 63, 64, 65, 66, 67, 68, 69, 70,
		89, 90, 91, 92, 93, 94, 95, 96, 97, 98, 99, 100, 101, 102,
	}}

	blocks = []Block{S, P, D, F}
)

// Blocks returns the blocks in lookup order.
func Blocks() []Block {
	return slices.Clone(blocks)
}

// Classify returns the block code belongs to.
func Classify(code uint8) (Block, error) {
	for _, b := range blocks {
		if b.Contains(code) {
			return b, nil
		}
	}
	return Block{}, reverts.ErrInvalidElementName
}

// BlockBySize returns the block with n members.
func BlockBySize(n int) (Block, error) {
	for _, b := range blocks {
		if b.Size() == n {
			return b, nil
		}
	}
	return Block{}, reverts.ErrInvalidBlockData
}

// ParseElementCode extracts the element code from a metadata name such as
// "Element #6". The text after the last '#' is trimmed, stripped of NUL
// padding and must be a non-empty run of ASCII digits.
func ParseElementCode(name string) (uint8, error) {
	num := name[strings.LastIndexByte(name, '#')+1:]
	num = strings.TrimSpace(num)
	num = strings.ReplaceAll(num, "\x00", "")

	if num == "" {
		return 0, reverts.ErrInvalidElementName
	}
	for i := 0; i < len(num); i++ {
		if num[i] < '0' || num[i] > '9' {
			return 0, reverts.ErrInvalidElementName
		}
	}
	code, err := strconv.ParseUint(num, 10, 8)
	if err != nil {
		return 0, reverts.ErrInvalidBlockData
	}
	return uint8(code), nil
}

// ClassifyName parses the element code out of name and classifies it.
func ClassifyName(name string) (Block, uint8, error) {
	code, err := ParseElementCode(name)
	if err != nil {
		return Block{}, 0, err
	}
	b, err := Classify(code)
	if err != nil {
		return Block{}, code, err
	}
	return b, code, nil
}
