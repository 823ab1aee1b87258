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

func TestForcedExit(t *testing.T) {
	ledger := newTestLedger(
		testAccount{id: 0, addr: addr("init"), pkh: pkh("k0"), nonce: 3, token: 1, balance: 10},
		testAccount{id: 1, addr: addr("locked"), token: 1, balance: 500},
	)
	e := New(ledger)

	fe := &tx.ForcedExit{
		InitiatorID: 0, Initiator: addr("init"), Target: addr("locked"),
		Token: 1, Fee: big.NewInt(4), Nonce: 3,
	}
	op, err := e.ResolveForcedExit(fe)
	require.NoError(t, err)
	assert.Equal(t, planck.AccountID(1), op.TargetID)

	fee, updates, err := e.ApplyForcedExit(op)
	require.NoError(t, err)

	initiator, _ := ledger.GetAccount(0)
	target, _ := ledger.GetAccount(1)
	assert.Equal(t, planck.Nonce(4), initiator.Nonce)
	assert.Equal(t, big.NewInt(6), initiator.Balance(1))
	assert.Equal(t, big.NewInt(0), target.Balance(1))
	assert.Equal(t, planck.Nonce(0), target.Nonce)
	assert.Equal(t, &state.CollectedFee{Token: 1, Amount: big.NewInt(4)}, fee)

	require.Len(t, updates, 2)
	assert.Equal(t, state.UpdateEntry{AccountID: 0, Update: state.UpdateBalance{
		Token: 1, OldBalance: big.NewInt(10), NewBalance: big.NewInt(6), OldNonce: 3, NewNonce: 4,
	}}, updates[0])
	assert.Equal(t, state.UpdateEntry{AccountID: 1, Update: state.UpdateBalance{
		Token: 1, OldBalance: big.NewInt(500), NewBalance: big.NewInt(0), OldNonce: 0, NewNonce: 0,
	}}, updates[1])
}

func TestForcedExitResolveErrors(t *testing.T) {
	ledger := newTestLedger(
		testAccount{id: 0, addr: addr("init"), pkh: pkh("k0"), nonce: 0, token: 1, balance: 10},
		testAccount{id: 1, addr: addr("locked"), token: 1, balance: 500},
		testAccount{id: 2, addr: addr("keyed"), pkh: pkh("k2")},
	)
	e := New(ledger)

	_, err := e.ResolveForcedExit(&tx.ForcedExit{
		InitiatorID: 0, Initiator: addr("init"), Target: addr("keyed"),
		Token: 1, Fee: big.NewInt(0), Nonce: 0,
	})
	assert.Equal(t, ErrTargetNotLocked, err, "target with a signing key cannot be force-exited")

	_, err = e.ResolveForcedExit(&tx.ForcedExit{
		InitiatorID: 1, Initiator: addr("locked"), Target: addr("locked"),
		Token: 1, Fee: big.NewInt(0), Nonce: 0,
	})
	assert.Equal(t, ErrSignatureInvalid, err, "keyless initiator cannot author operations")

	_, err = e.ResolveForcedExit(&tx.ForcedExit{
		InitiatorID: 0, Initiator: addr("init"), Target: addr("ghost"),
		Token: 1, Fee: big.NewInt(0), Nonce: 0,
	})
	assert.Equal(t, ErrAccountNotFound, err)
}

func TestForcedExitInsufficientFee(t *testing.T) {
	ledger := newTestLedger(
		testAccount{id: 0, addr: addr("init"), pkh: pkh("k0"), nonce: 0, token: 1, balance: 3},
		testAccount{id: 1, addr: addr("locked"), token: 1, balance: 500},
	)
	pre := ledger.Copy()
	e := New(ledger)

	op, err := e.ResolveForcedExit(&tx.ForcedExit{
		InitiatorID: 0, Initiator: addr("init"), Target: addr("locked"),
		Token: 1, Fee: big.NewInt(5), Nonce: 0,
	})
	require.NoError(t, err)

	_, _, err = e.ApplyForcedExit(op)
	assert.Equal(t, ErrInsufficientBalance, err)
	assert.True(t, ledger.Equal(pre))
}
