// Copyright (c) 2020 The Planck developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package updatedb

import (
	"context"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planck-zk/planck/planck"
	"github.com/planck-zk/planck/state"
	"github.com/planck-zk/planck/tx"
)

func newTestDB(t *testing.T) *UpdateDB {
	db, err := NewMem()
	require.Nil(t, err)
	t.Cleanup(db.Close)
	return db
}

func addr(b byte) (a planck.Address) {
	a[0] = b
	return
}

func pkh(b byte) (h planck.PubKeyHash) {
	h[0] = b
	return
}

func hash(b byte) (h planck.Bytes32) {
	h[0] = b
	return
}

func sampleEntries() []state.UpdateEntry {
	return []state.UpdateEntry{
		{AccountID: 3, Update: state.CreateAccount{Address: addr(1)}},
		{AccountID: 3, Update: state.ChangePubKeyHash{
			OldHash: planck.PubKeyHash{}, NewHash: pkh(9), OldNonce: 0, NewNonce: 1,
		}},
		{AccountID: 3, Update: state.UpdateBalance{
			Token: 2, OldBalance: big.NewInt(100), NewBalance: big.NewInt(97), OldNonce: 0, NewNonce: 1,
		}},
		{AccountID: 4, Update: state.DeleteAccount{Address: addr(2), Nonce: 5}},
	}
}

func TestUpdatesByBlockRoundTrip(t *testing.T) {
	db := newTestDB(t)
	entries := sampleEntries()

	require.Nil(t, db.Prepare(7).AddUpdates(entries).Commit())

	records, err := db.UpdatesByBlock(context.Background(), 7)
	require.Nil(t, err)
	require.Len(t, records, len(entries))

	for i, rec := range records {
		assert.Equal(t, uint32(7), rec.BlockNumber)
		assert.Equal(t, uint32(i), rec.Index)
		assert.Equal(t, entries[i].AccountID, rec.AccountID)
		assert.Equal(t, entries[i].Update.Kind(), rec.Update.Kind())
	}

	balance := records[2].Update.(state.UpdateBalance)
	assert.Equal(t, planck.TokenID(2), balance.Token)
	assert.Equal(t, int64(100), balance.OldBalance.Int64())
	assert.Equal(t, int64(97), balance.NewBalance.Int64())
	assert.Equal(t, planck.Nonce(1), balance.NewNonce)

	key := records[1].Update.(state.ChangePubKeyHash)
	assert.Equal(t, pkh(9), key.NewHash)

	deleted := records[3].Update.(state.DeleteAccount)
	assert.Equal(t, addr(2), deleted.Address)
	assert.Equal(t, planck.Nonce(5), deleted.Nonce)

	records, err = db.UpdatesByBlock(context.Background(), 8)
	require.Nil(t, err)
	assert.Empty(t, records)
}

func TestUpdatesByAccount(t *testing.T) {
	db := newTestDB(t)

	require.Nil(t, db.Prepare(1).AddUpdates([]state.UpdateEntry{
		{AccountID: 3, Update: state.CreateAccount{Address: addr(1)}},
		{AccountID: 4, Update: state.CreateAccount{Address: addr(2)}},
	}).Commit())
	require.Nil(t, db.Prepare(2).AddUpdates([]state.UpdateEntry{
		{AccountID: 3, Update: state.UpdateBalance{
			Token: 0, OldBalance: big.NewInt(0), NewBalance: big.NewInt(10),
		}},
	}).Commit())

	records, err := db.UpdatesByAccount(context.Background(), 3, 1, 2)
	require.Nil(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, state.KindCreateAccount, records[0].Update.Kind())
	assert.Equal(t, state.KindUpdateBalance, records[1].Update.Kind())

	records, err = db.UpdatesByAccount(context.Background(), 3, 2, 2)
	require.Nil(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, uint32(2), records[0].BlockNumber)
}

func TestReceipts(t *testing.T) {
	db := newTestDB(t)

	require.Nil(t, db.Prepare(5).
		AddReceipt(hash(1), tx.KindTransfer).
		AddReceipt(hash(2), tx.KindWithdraw).
		Commit())

	receipt, err := db.GetReceipt(context.Background(), hash(2))
	require.Nil(t, err)
	require.NotNil(t, receipt)
	assert.Equal(t, uint32(5), receipt.BlockNumber)
	assert.Equal(t, uint32(1), receipt.TxIndex)
	assert.Equal(t, tx.KindWithdraw, receipt.Kind)

	receipt, err = db.GetReceipt(context.Background(), hash(9))
	require.Nil(t, err)
	assert.Nil(t, receipt)
}

func TestUpdateLogReplaysOntoLedger(t *testing.T) {
	db := newTestDB(t)

	pre := state.NewLedger()
	entries := []state.UpdateEntry{
		{AccountID: 0, Update: state.CreateAccount{Address: addr(1)}},
		{AccountID: 0, Update: state.UpdateBalance{
			Token: 0, OldBalance: big.NewInt(0), NewBalance: big.NewInt(50),
		}},
	}
	post := pre.Copy()
	require.Nil(t, state.ApplyUpdates(post, entries))

	require.Nil(t, db.Prepare(1).AddUpdates(entries).Commit())

	records, err := db.UpdatesByBlock(context.Background(), 1)
	require.Nil(t, err)

	replayed := pre.Copy()
	loaded := make([]state.UpdateEntry, 0, len(records))
	for _, rec := range records {
		loaded = append(loaded, state.UpdateEntry{AccountID: rec.AccountID, Update: rec.Update})
	}
	require.Nil(t, state.ApplyUpdates(replayed, loaded))
	assert.True(t, post.Equal(replayed))
}
