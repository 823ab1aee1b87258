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

func TestWithdraw(t *testing.T) {
	ledger := newTestLedger(
		testAccount{id: 3, addr: addr("acc"), pkh: pkh("k0"), nonce: 1, token: 0, balance: 40},
	)
	e := New(ledger)

	w := &tx.Withdraw{
		AccountID: 3, From: addr("acc"), ToExternal: addr("l1"),
		Token: 0, Amount: big.NewInt(25), Fee: big.NewInt(5), Nonce: 1,
	}
	op, err := e.ResolveWithdraw(w)
	require.NoError(t, err)

	fee, updates, err := e.ApplyWithdraw(op)
	require.NoError(t, err)

	acc, _ := ledger.GetAccount(3)
	assert.Equal(t, planck.Nonce(2), acc.Nonce)
	assert.Equal(t, big.NewInt(10), acc.Balance(0))
	assert.Equal(t, &state.CollectedFee{Token: 0, Amount: big.NewInt(5)}, fee)

	require.Len(t, updates, 1)
	assert.Equal(t, state.UpdateEntry{AccountID: 3, Update: state.UpdateBalance{
		Token: 0, OldBalance: big.NewInt(40), NewBalance: big.NewInt(10), OldNonce: 1, NewNonce: 2,
	}}, updates[0])
}

func TestWithdrawRejections(t *testing.T) {
	ledger := newTestLedger(
		testAccount{id: 3, addr: addr("acc"), pkh: pkh("k0"), nonce: 1, token: 0, balance: 40},
	)
	pre := ledger.Copy()
	e := New(ledger)

	_, err := e.ResolveWithdraw(&tx.Withdraw{
		AccountID: 9, From: addr("acc"), Token: 0,
		Amount: big.NewInt(1), Fee: big.NewInt(0), Nonce: 1,
	})
	assert.Equal(t, ErrAccountIDMismatch, err)

	op, err := e.ResolveWithdraw(&tx.Withdraw{
		AccountID: 3, From: addr("acc"), Token: 0,
		Amount: big.NewInt(36), Fee: big.NewInt(5), Nonce: 1,
	})
	require.NoError(t, err)
	_, _, err = e.ApplyWithdraw(op)
	assert.Equal(t, ErrInsufficientBalance, err)

	op, err = e.ResolveWithdraw(&tx.Withdraw{
		AccountID: 3, From: addr("acc"), Token: 0,
		Amount: big.NewInt(1), Fee: big.NewInt(0), Nonce: 0,
	})
	require.NoError(t, err)
	_, _, err = e.ApplyWithdraw(op)
	assert.Equal(t, ErrNonceMismatch, err)

	assert.True(t, ledger.Equal(pre))
}
