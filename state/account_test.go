// Copyright (c) 2020 The Planck developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/planck-zk/planck/planck"
)

func TestAccountBalance(t *testing.T) {
	acc := NewAccount(planck.BytesToAddress([]byte("a1")))

	assert.Equal(t, big.NewInt(0), acc.Balance(1), "absent entry reads as zero")

	acc.SetBalance(1, big.NewInt(100))
	assert.Equal(t, big.NewInt(100), acc.Balance(1))

	// returned balance must not alias the stored value
	acc.Balance(1).SetInt64(7)
	assert.Equal(t, big.NewInt(100), acc.Balance(1))

	acc.AddBalance(1, big.NewInt(11))
	assert.Equal(t, big.NewInt(111), acc.Balance(1))

	assert.False(t, acc.SubBalance(1, big.NewInt(200)))
	assert.Equal(t, big.NewInt(111), acc.Balance(1), "failed sub leaves balance unchanged")

	assert.True(t, acc.SubBalance(1, big.NewInt(111)))
	assert.Equal(t, []planck.TokenID{}, acc.Tokens(), "zero balance entry removed")

	assert.Panics(t, func() { acc.SetBalance(1, big.NewInt(-1)) })
}

func TestAccountTokensOrder(t *testing.T) {
	acc := NewAccount(planck.BytesToAddress([]byte("a1")))
	for _, token := range []planck.TokenID{9, 0, 5, 3} {
		acc.SetBalance(token, big.NewInt(1))
	}
	assert.Equal(t, []planck.TokenID{0, 3, 5, 9}, acc.Tokens())
}

func TestAccountCopy(t *testing.T) {
	acc := NewAccount(planck.BytesToAddress([]byte("a1")))
	acc.Nonce = 3
	acc.SetBalance(0, big.NewInt(42))

	cpy := acc.Copy()
	assert.True(t, acc.Equal(cpy))

	cpy.Nonce++
	cpy.SetBalance(0, big.NewInt(1))
	assert.Equal(t, planck.Nonce(3), acc.Nonce)
	assert.Equal(t, big.NewInt(42), acc.Balance(0))
	assert.False(t, acc.Equal(cpy))
}
