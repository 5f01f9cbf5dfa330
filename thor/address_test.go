// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAddress(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"0x000000000000000000000000000000000000beef", false},
		{"000000000000000000000000000000000000beef", false},
		{"1x000000000000000000000000000000000000beef", true},
		{"0xbeef", true},
		{"0x00000000000000000000000000000000000zbeef", true},
	}

	for _, tt := range tests {
		addr, err := ParseAddress(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, BytesToAddress([]byte{0xbe, 0xef}), *addr)
	}
}

func TestAddressJSON(t *testing.T) {
	addr := BytesToAddress([]byte("owner"))

	data, err := json.Marshal(&addr)
	require.NoError(t, err)
	assert.Equal(t, `"`+addr.String()+`"`, string(data))

	var decoded Address
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, addr, decoded)

	assert.True(t, Address{}.IsZero())
	assert.False(t, decoded.IsZero())
}

func TestBytesToBytes32(t *testing.T) {
	b := BytesToBytes32([]byte("mint"))
	assert.Equal(t, []byte("mint"), b.Bytes()[Bytes32Length-4:])
	assert.False(t, b.IsZero())
	assert.Equal(t, "0x00000000…6d696e74", b.AbbrevString())
}
