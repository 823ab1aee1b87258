// Copyright (c) 2020 The Planck developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package planck

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddress(t *testing.T) {
	addr := BytesToAddress([]byte("address"))
	assert.Equal(t, Address{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 'a', 'd', 'd', 'r', 'e', 's', 's'}, addr)
	assert.Equal(t, "0x0000000000000000000000000061646472657373", addr.String())
	assert.False(t, addr.IsZero())
	assert.True(t, Address{}.IsZero())

	parsed, err := ParseAddress(addr.String())
	assert.Nil(t, err)
	assert.Equal(t, addr, *parsed)

	_, err = ParseAddress("0x00")
	assert.Error(t, err)
	_, err = ParseAddress("zz0000000000000000000000000061646472657373")
	assert.Error(t, err)

	data, err := json.Marshal(&addr)
	assert.Nil(t, err)
	assert.Equal(t, `"`+addr.String()+`"`, string(data))

	var back Address
	assert.Nil(t, json.Unmarshal(data, &back))
	assert.Equal(t, addr, back)
}

func TestPubKeyHash(t *testing.T) {
	pkh := BytesToPubKeyHash([]byte{1, 2, 3})
	assert.False(t, pkh.IsZero())
	assert.True(t, PubKeyHash{}.IsZero())

	parsed, err := ParsePubKeyHash(pkh.String())
	assert.Nil(t, err)
	assert.Equal(t, pkh, parsed)

	_, err = ParsePubKeyHash("invalid")
	assert.Error(t, err)
}

func TestBytes32(t *testing.T) {
	b := BytesToBytes32([]byte("planck"))
	parsed, err := ParseBytes32(b.String())
	assert.Nil(t, err)
	assert.Equal(t, b, parsed)
	assert.True(t, Bytes32{}.IsZero())
}
