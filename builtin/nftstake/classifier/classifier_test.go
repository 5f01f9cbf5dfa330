// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package classifier

import (
	"slices"
	"strconv"
	"strings"
	"testing"

	fuzz "github.com/google/gofuzz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/nftstake/builtin/nftstake/reverts"
)

func TestBlocksPartition(t *testing.T) {
	seen := make(map[uint8]string)
	for _, b := range Blocks() {
		assert.True(t, slices.IsSorted(b.Members), "block %s not sorted", b.Name)
		for _, m := range b.Members {
			prev, dup := seen[m]
			assert.False(t, dup, "code %d in both %s and %s", m, prev, b.Name)
			seen[m] = b.Name
		}
	}
	assert.Len(t, seen, 119)

	for code := 1; code <= 119; code++ {
		b, err := Classify(uint8(code))
		require.NoError(t, err, "code %d", code)
		assert.Equal(t, seen[uint8(code)], b.Name)
	}
}

func TestBlockShapes(t *testing.T) {
	for _, tt := range []struct {
		block  Block
		weight uint8
		size   int
	}{
		{S, 10, 15},
		{P, 20, 36},
		{D, 30, 40},
		{F, 40, 28},
	} {
		assert.Equal(t, tt.weight, tt.block.Weight, tt.block.Name)
		assert.Equal(t, tt.size, tt.block.Size(), tt.block.Name)

		b, err := BlockBySize(tt.size)
		require.NoError(t, err)
		assert.Equal(t, tt.block.Name, b.Name)
	}

	_, err := BlockBySize(16)
	assert.ErrorIs(t, err, reverts.ErrInvalidBlockData)
}

func TestClassifyOutOfRange(t *testing.T) {
	for _, code := range []uint8{0, 120, 200, 255} {
		_, err := Classify(code)
		assert.ErrorIs(t, err, reverts.ErrInvalidElementName, "code %d", code)
	}
}

func TestClassifyExamples(t *testing.T) {
	for code, name := range map[uint8]string{1: "s", 6: "p", 26: "d", 92: "f", 119: "s", 118: "p"} {
		b, err := Classify(code)
		require.NoError(t, err)
		assert.Equal(t, name, b.Name, "code %d", code)
	}
}

func TestParseElementCode(t *testing.T) {
	padded := "Element #6" + strings.Repeat("\x00", 22)

	for _, tt := range []struct {
		name string
		code uint8
		err  error
	}{
		{"Element #6", 6, nil},
		{padded, 6, nil},
		{"#119", 119, nil},
		{"42", 42, nil},
		{"Iron # 26 ", 26, nil},
		{"a#b#007", 7, nil},
		{"Element #0", 0, nil},
		{"Element #255", 255, nil},
		{"Element #256", 0, reverts.ErrInvalidBlockData},
		{"Element #99999", 0, reverts.ErrInvalidBlockData},
		{"Element #", 0, reverts.ErrInvalidElementName},
		{"Element #x1", 0, reverts.ErrInvalidElementName},
		{"Element #-1", 0, reverts.ErrInvalidElementName},
		{"Element #6 \x00\x00", 0, reverts.ErrInvalidElementName},
		{"Element #６", 0, reverts.ErrInvalidElementName},
		{"", 0, reverts.ErrInvalidElementName},
	} {
		code, err := ParseElementCode(tt.name)
		if tt.err != nil {
			assert.ErrorIs(t, err, tt.err, "%q", tt.name)
			continue
		}
		require.NoError(t, err, "%q", tt.name)
		assert.Equal(t, tt.code, code, "%q", tt.name)
	}
}

func TestClassifyName(t *testing.T) {
	b, code, err := ClassifyName("Element #6")
	require.NoError(t, err)
	assert.Equal(t, uint8(6), code)
	assert.Equal(t, P.Name, b.Name)

	_, _, err = ClassifyName("Element #120")
	assert.ErrorIs(t, err, reverts.ErrInvalidElementName)

	_, _, err = ClassifyName("Element #0")
	assert.ErrorIs(t, err, reverts.ErrInvalidElementName)
}

func TestParseElementCodeFuzz(t *testing.T) {
	f := fuzz.New().NilChance(0)
	for range 2000 {
		var name string
		f.Fuzz(&name)

		code, err := ParseElementCode(name)
		if err != nil {
			assert.True(t, reverts.IsRevertErr(err), "%q: %v", name, err)
			continue
		}
		_, err = Classify(code)
		if err != nil {
			assert.ErrorIs(t, err, reverts.ErrInvalidElementName)
		}
	}

	// digits after the last '#' always round-trip
	for range 500 {
		var prefix string
		var code uint8
		f.Fuzz(&prefix)
		f.Fuzz(&code)

		got, err := ParseElementCode(prefix + "#" + strings.Repeat("0", int(code%3)) + strconv.Itoa(int(code)))
		require.NoError(t, err)
		assert.Equal(t, code, got)
	}
}
