// Copyright (c) 2020 The Planck developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planck-zk/planck/planck"
)

func changePubKeyEntries() []UpdateEntry {
	oldHash := planck.BytesToPubKeyHash([]byte("h0"))
	newHash := planck.BytesToPubKeyHash([]byte("h1"))
	return []UpdateEntry{
		{AccountID: 34, Update: ChangePubKeyHash{
			OldHash: oldHash, NewHash: newHash, OldNonce: 5, NewNonce: 6,
		}},
		{AccountID: 34, Update: UpdateBalance{
			Token: 0, OldBalance: big.NewInt(100), NewBalance: big.NewInt(97), OldNonce: 5, NewNonce: 6,
		}},
	}
}

func preLedger() *Ledger {
	l := NewLedger()
	acc := NewAccount(planck.BytesToAddress([]byte("abc")))
	acc.PubKeyHash = planck.BytesToPubKeyHash([]byte("h0"))
	acc.Nonce = 5
	acc.SetBalance(0, big.NewInt(100))
	l.InsertAccount(34, acc)
	return l
}

func TestApplyUpdates(t *testing.T) {
	l := preLedger()
	require.NoError(t, ApplyUpdates(l, changePubKeyEntries()))

	acc, ok := l.GetAccount(34)
	require.True(t, ok)
	assert.Equal(t, planck.Nonce(6), acc.Nonce)
	assert.Equal(t, planck.BytesToPubKeyHash([]byte("h1")), acc.PubKeyHash)
	assert.Equal(t, big.NewInt(97), acc.Balance(0))
}

func TestApplyUpdatesCreateDelete(t *testing.T) {
	l := NewLedger()
	addr := planck.BytesToAddress([]byte("fresh"))
	entries := []UpdateEntry{
		{AccountID: 0, Update: CreateAccount{Address: addr}},
		{AccountID: 0, Update: UpdateBalance{
			Token: 1, OldBalance: big.NewInt(0), NewBalance: big.NewInt(10),
		}},
	}
	require.NoError(t, ApplyUpdates(l, entries))
	id, acc, ok := l.GetAccountByAddress(addr)
	require.True(t, ok)
	assert.Equal(t, planck.AccountID(0), id)
	assert.Equal(t, big.NewInt(10), acc.Balance(1))

	// deleting a non-empty account is rejected
	err := ApplyUpdates(l, []UpdateEntry{{AccountID: 0, Update: DeleteAccount{Address: addr}}})
	assert.Error(t, err)
}

func TestApplyUpdatesMismatch(t *testing.T) {
	l := preLedger()
	err := ApplyUpdates(l, []UpdateEntry{
		{AccountID: 34, Update: UpdateBalance{
			Token: 0, OldBalance: big.NewInt(1), NewBalance: big.NewInt(2), OldNonce: 5, NewNonce: 5,
		}},
	})
	assert.Error(t, err, "stale old balance must abort replay")

	err = ApplyUpdates(l, []UpdateEntry{
		{AccountID: 77, Update: UpdateBalance{
			Token: 0, OldBalance: big.NewInt(0), NewBalance: big.NewInt(1),
		}},
	})
	assert.Error(t, err, "unknown account must abort replay")
}

func TestReverseUpdates(t *testing.T) {
	l := preLedger()
	pre := l.Copy()

	entries := changePubKeyEntries()
	require.NoError(t, ApplyUpdates(l, entries))
	require.False(t, l.Equal(pre))

	require.NoError(t, ApplyUpdates(l, ReverseUpdates(entries)))
	assert.True(t, l.Equal(pre), "reversal must restore the pre-op ledger")
}

func TestReverseUpdatesCreate(t *testing.T) {
	l := NewLedger()
	pre := l.Copy()
	addr := planck.BytesToAddress([]byte("fresh"))
	entries := []UpdateEntry{
		{AccountID: 0, Update: CreateAccount{Address: addr}},
		{AccountID: 0, Update: UpdateBalance{
			Token: 0, OldBalance: big.NewInt(0), NewBalance: big.NewInt(3),
		}},
	}
	require.NoError(t, ApplyUpdates(l, entries))
	require.NoError(t, ApplyUpdates(l, ReverseUpdates(entries)))
	assert.True(t, l.Equal(pre))
	assert.Equal(t, planck.AccountID(0), l.NextFreeID(), "reversed creation frees the id")
}
