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

func TestTransfer(t *testing.T) {
	ledger := newTestLedger(
		testAccount{id: 0, addr: addr("from"), pkh: pkh("k0"), nonce: 2, token: 1, balance: 50},
		testAccount{id: 1, addr: addr("to"), token: 1, balance: 5},
	)
	e := New(ledger)

	transfer := &tx.Transfer{
		AccountID: 0, From: addr("from"), To: addr("to"),
		Token: 1, Amount: big.NewInt(30), Fee: big.NewInt(2), Nonce: 2,
	}
	op, err := e.ResolveTransfer(transfer)
	require.NoError(t, err)
	assert.False(t, op.NewAccount)

	fee, updates, err := e.ApplyTransfer(op)
	require.NoError(t, err)

	from, _ := ledger.GetAccount(0)
	to, _ := ledger.GetAccount(1)
	assert.Equal(t, planck.Nonce(3), from.Nonce)
	assert.Equal(t, big.NewInt(18), from.Balance(1))
	assert.Equal(t, planck.Nonce(0), to.Nonce, "recipient nonce untouched")
	assert.Equal(t, big.NewInt(35), to.Balance(1))
	assert.Equal(t, &state.CollectedFee{Token: 1, Amount: big.NewInt(2)}, fee)

	require.Len(t, updates, 2)
	assert.Equal(t, state.UpdateEntry{AccountID: 0, Update: state.UpdateBalance{
		Token: 1, OldBalance: big.NewInt(50), NewBalance: big.NewInt(18), OldNonce: 2, NewNonce: 3,
	}}, updates[0])
	assert.Equal(t, state.UpdateEntry{AccountID: 1, Update: state.UpdateBalance{
		Token: 1, OldBalance: big.NewInt(5), NewBalance: big.NewInt(35), OldNonce: 0, NewNonce: 0,
	}}, updates[1])
}

func TestTransferToNewAccount(t *testing.T) {
	ledger := newTestLedger(
		testAccount{id: 0, addr: addr("from"), pkh: pkh("k0"), nonce: 0, token: 0, balance: 10},
	)
	e := New(ledger)

	transfer := &tx.Transfer{
		AccountID: 0, From: addr("from"), To: addr("fresh"),
		Token: 0, Amount: big.NewInt(4), Fee: big.NewInt(1), Nonce: 0,
	}
	op, err := e.ResolveTransfer(transfer)
	require.NoError(t, err)
	assert.True(t, op.NewAccount)
	assert.Equal(t, planck.AccountID(1), op.ToID)

	_, updates, err := e.ApplyTransfer(op)
	require.NoError(t, err)

	require.Len(t, updates, 3)
	assert.Equal(t, state.KindCreateAccount, updates[0].Update.Kind(), "creation precedes balance changes")
	assert.Equal(t, state.KindUpdateBalance, updates[1].Update.Kind())
	assert.Equal(t, state.KindUpdateBalance, updates[2].Update.Kind())

	id, fresh, ok := ledger.GetAccountByAddress(addr("fresh"))
	require.True(t, ok)
	assert.Equal(t, planck.AccountID(1), id)
	assert.Equal(t, big.NewInt(4), fresh.Balance(0))
	assert.True(t, fresh.PubKeyHash.IsZero())
}

func TestTransferToSelf(t *testing.T) {
	ledger := newTestLedger(
		testAccount{id: 0, addr: addr("self"), pkh: pkh("k0"), nonce: 1, token: 0, balance: 20},
	)
	e := New(ledger)

	transfer := &tx.Transfer{
		AccountID: 0, From: addr("self"), To: addr("self"),
		Token: 0, Amount: big.NewInt(5), Fee: big.NewInt(2), Nonce: 1,
	}
	op, err := e.ResolveTransfer(transfer)
	require.NoError(t, err)
	assert.Equal(t, op.FromID, op.ToID)

	_, updates, err := e.ApplyTransfer(op)
	require.NoError(t, err)
	require.Len(t, updates, 2)

	acc, _ := ledger.GetAccount(0)
	assert.Equal(t, big.NewInt(18), acc.Balance(0), "only the fee leaves a self transfer")
	assert.Equal(t, planck.Nonce(2), acc.Nonce)
}

func TestTransferRejections(t *testing.T) {
	ledger := newTestLedger(
		testAccount{id: 0, addr: addr("from"), pkh: pkh("k0"), nonce: 2, token: 1, balance: 10},
	)
	pre := ledger.Copy()
	e := New(ledger)

	_, err := e.ResolveTransfer(&tx.Transfer{
		AccountID: 0, From: addr("ghost"), To: addr("to"),
		Token: 1, Amount: big.NewInt(1), Fee: big.NewInt(0), Nonce: 2,
	})
	assert.Equal(t, ErrAccountNotFound, err)

	op, err := e.ResolveTransfer(&tx.Transfer{
		AccountID: 0, From: addr("from"), To: addr("to"),
		Token: 1, Amount: big.NewInt(1), Fee: big.NewInt(0), Nonce: 7,
	})
	require.NoError(t, err)
	_, _, err = e.ApplyTransfer(op)
	assert.Equal(t, ErrNonceMismatch, err)

	op, err = e.ResolveTransfer(&tx.Transfer{
		AccountID: 0, From: addr("from"), To: addr("to"),
		Token: 1, Amount: big.NewInt(9), Fee: big.NewInt(2), Nonce: 2,
	})
	require.NoError(t, err)
	_, _, err = e.ApplyTransfer(op)
	assert.Equal(t, ErrInsufficientBalance, err)

	assert.True(t, ledger.Equal(pre), "rejected transfers must leave no trace")
}
