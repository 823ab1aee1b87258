// Copyright (c) 2020 The Planck developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package handler

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planck-zk/planck/planck"
	"github.com/planck-zk/planck/state"
	"github.com/planck-zk/planck/tx"
)

func TestDepositToExisting(t *testing.T) {
	ledger := newTestLedger(
		testAccount{id: 0, addr: addr("acc"), nonce: 4, token: 2, balance: 10},
	)
	e := New(ledger)

	op, err := e.ResolveDeposit(&tx.Deposit{To: addr("acc"), Token: 2, Amount: big.NewInt(7)})
	require.NoError(t, err)
	assert.False(t, op.NewAccount)

	fee, updates, err := e.ApplyDeposit(op)
	require.NoError(t, err)
	assert.Nil(t, fee, "deposits charge no fee")

	acc, _ := ledger.GetAccount(0)
	assert.Equal(t, big.NewInt(17), acc.Balance(2))
	assert.Equal(t, planck.Nonce(4), acc.Nonce, "deposit never advances the nonce")

	require.Len(t, updates, 1)
	assert.Equal(t, state.UpdateEntry{AccountID: 0, Update: state.UpdateBalance{
		Token: 2, OldBalance: big.NewInt(10), NewBalance: big.NewInt(17), OldNonce: 4, NewNonce: 4,
	}}, updates[0])
}

func TestDepositToNewAddress(t *testing.T) {
	ledger := newTestLedger(
		testAccount{id: 0, addr: addr("existing")},
	)
	e := New(ledger)

	op, err := e.ResolveDeposit(&tx.Deposit{To: addr("fresh"), Token: 0, Amount: big.NewInt(100)})
	require.NoError(t, err)
	assert.True(t, op.NewAccount)
	assert.Equal(t, planck.AccountID(1), op.AccountID)

	_, updates, err := e.ApplyDeposit(op)
	require.NoError(t, err)

	require.Len(t, updates, 2)
	assert.Equal(t, state.UpdateEntry{AccountID: 1, Update: state.CreateAccount{
		Address: addr("fresh"),
	}}, updates[0])
	assert.Equal(t, state.KindUpdateBalance, updates[1].Update.Kind())

	id, acc, ok := ledger.GetAccountByAddress(addr("fresh"))
	require.True(t, ok)
	assert.Equal(t, planck.AccountID(1), id)
	assert.Equal(t, big.NewInt(100), acc.Balance(0))
}

func TestDepositReplaysOntoPreLedger(t *testing.T) {
	ledger := newTestLedger(testAccount{id: 0, addr: addr("existing")})
	pre := ledger.Copy()
	e := New(ledger)

	exec, err := e.Execute(&tx.Deposit{To: addr("fresh"), Token: 3, Amount: big.NewInt(11)})
	require.NoError(t, err)

	require.NoError(t, state.ApplyUpdates(pre, exec.Updates))
	assert.True(t, ledger.Equal(pre))
}
