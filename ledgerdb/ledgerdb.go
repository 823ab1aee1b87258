// Copyright (c) 2020 The Planck developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package ledgerdb persists committed ledger snapshots.
//
// Only finalized blocks reach this layer, so the stored ledger always sits at
// a block boundary. Account records and per-block fee totals are written in a
// single batch together with the head pointer, keeping the on-disk state
// consistent under crash.
package ledgerdb

import (
	"encoding/binary"
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/planck-zk/planck/kv"
	"github.com/planck-zk/planck/planck"
	"github.com/planck-zk/planck/state"
)

var (
	accountPrefix = []byte{'a'} // a + big-endian account id -> account record
	indexPrefix   = []byte{'i'} // i + address -> big-endian account id
	feePrefix     = []byte{'f'} // f + big-endian block number -> fee totals
	headKey       = []byte{'h'} // head block number
)

// LedgerDB wraps a kv store holding the committed ledger.
type LedgerDB struct {
	store kv.GetPutter
}

// New creates a LedgerDB on the given store.
func New(store kv.GetPutter) *LedgerDB {
	return &LedgerDB{store: store}
}

type tokenBalance struct {
	Token   uint16
	Balance *big.Int
}

type accountRecord struct {
	Address    planck.Address
	PubKeyHash planck.PubKeyHash
	Nonce      uint32
	Balances   []tokenBalance
}

type feeRecord struct {
	Token  uint16
	Amount *big.Int
}

func accountKey(id planck.AccountID) []byte {
	key := make([]byte, 0, 5)
	key = append(key, accountPrefix...)
	return binary.BigEndian.AppendUint32(key, uint32(id))
}

func indexKey(addr planck.Address) []byte {
	key := make([]byte, 0, 1+len(addr))
	key = append(key, indexPrefix...)
	return append(key, addr[:]...)
}

func feeKey(number uint32) []byte {
	key := make([]byte, 0, 5)
	key = append(key, feePrefix...)
	return binary.BigEndian.AppendUint32(key, number)
}

// Head returns the number of the last committed block.
// ok is false when the store holds no ledger yet.
func (db *LedgerDB) Head() (number uint32, ok bool, err error) {
	data, err := db.store.Get(headKey)
	if err != nil {
		if db.store.IsNotFound(err) {
			return 0, false, nil
		}
		return 0, false, errors.Wrap(err, "get head")
	}
	if len(data) != 4 {
		return 0, false, errors.New("corrupted head record")
	}
	return binary.BigEndian.Uint32(data), true, nil
}

// SaveBlock commits one finalized block: the post-block state of every account
// touched by the update log, the per-token fee totals and the head pointer,
// all in one atomic batch.
//
// ledger must be the post-block ledger the update log leads to.
func (db *LedgerDB) SaveBlock(number uint32, ledger *state.Ledger, entries []state.UpdateEntry, fees []state.CollectedFee) error {
	batch := db.store.NewBatch()

	touched := make(map[planck.AccountID]bool)
	removedAddr := make(map[planck.AccountID]planck.Address)
	for _, entry := range entries {
		touched[entry.AccountID] = true
		if u, ok := entry.Update.(state.DeleteAccount); ok {
			removedAddr[entry.AccountID] = u.Address
		}
	}

	for id := range touched {
		acc, ok := ledger.GetAccount(id)
		if !ok {
			addr, known := removedAddr[id]
			if !known {
				return errors.Errorf("account %d gone without delete record", id)
			}
			if err := batch.Delete(accountKey(id)); err != nil {
				return err
			}
			if err := batch.Delete(indexKey(addr)); err != nil {
				return err
			}
			continue
		}
		if err := putAccount(batch, id, acc); err != nil {
			return err
		}
	}

	feeRecords := make([]feeRecord, 0, len(fees))
	for _, fee := range fees {
		feeRecords = append(feeRecords, feeRecord{Token: uint16(fee.Token), Amount: fee.Amount})
	}
	data, err := rlp.EncodeToBytes(feeRecords)
	if err != nil {
		return errors.Wrap(err, "encode fee totals")
	}
	if err := batch.Put(feeKey(number), data); err != nil {
		return err
	}

	if err := batch.Put(headKey, binary.BigEndian.AppendUint32(nil, number)); err != nil {
		return err
	}
	return batch.Write()
}

func putAccount(putter kv.Putter, id planck.AccountID, acc *state.Account) error {
	rec := accountRecord{
		Address:    acc.Address,
		PubKeyHash: acc.PubKeyHash,
		Nonce:      uint32(acc.Nonce),
	}
	for _, token := range acc.Tokens() {
		rec.Balances = append(rec.Balances, tokenBalance{
			Token:   uint16(token),
			Balance: acc.Balance(token),
		})
	}
	data, err := rlp.EncodeToBytes(&rec)
	if err != nil {
		return errors.Wrap(err, "encode account")
	}
	if err := putter.Put(accountKey(id), data); err != nil {
		return err
	}
	return putter.Put(indexKey(acc.Address), binary.BigEndian.AppendUint32(nil, uint32(id)))
}

func decodeAccount(data []byte) (*state.Account, error) {
	var rec accountRecord
	if err := rlp.DecodeBytes(data, &rec); err != nil {
		return nil, errors.Wrap(err, "decode account")
	}
	acc := state.NewAccount(rec.Address)
	acc.PubKeyHash = rec.PubKeyHash
	acc.Nonce = planck.Nonce(rec.Nonce)
	for _, tb := range rec.Balances {
		acc.SetBalance(planck.TokenID(tb.Token), tb.Balance)
	}
	return acc, nil
}

// GetAccount loads the committed account with the given id.
func (db *LedgerDB) GetAccount(id planck.AccountID) (*state.Account, bool, error) {
	data, err := db.store.Get(accountKey(id))
	if err != nil {
		if db.store.IsNotFound(err) {
			return nil, false, nil
		}
		return nil, false, errors.Wrap(err, "get account")
	}
	acc, err := decodeAccount(data)
	if err != nil {
		return nil, false, err
	}
	return acc, true, nil
}

// GetAccountByAddress loads the committed account bound to the given address.
func (db *LedgerDB) GetAccountByAddress(addr planck.Address) (planck.AccountID, *state.Account, bool, error) {
	data, err := db.store.Get(indexKey(addr))
	if err != nil {
		if db.store.IsNotFound(err) {
			return 0, nil, false, nil
		}
		return 0, nil, false, errors.Wrap(err, "get address index")
	}
	if len(data) != 4 {
		return 0, nil, false, errors.New("corrupted address index")
	}
	id := planck.AccountID(binary.BigEndian.Uint32(data))
	acc, ok, err := db.GetAccount(id)
	if err != nil {
		return 0, nil, false, err
	}
	if !ok {
		return 0, nil, false, errors.Errorf("dangling address index for account %d", id)
	}
	return id, acc, true, nil
}

// FeeTotals loads the fee totals of the given committed block.
func (db *LedgerDB) FeeTotals(number uint32) ([]state.CollectedFee, error) {
	data, err := db.store.Get(feeKey(number))
	if err != nil {
		if db.store.IsNotFound(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "get fee totals")
	}
	var records []feeRecord
	if err := rlp.DecodeBytes(data, &records); err != nil {
		return nil, errors.Wrap(err, "decode fee totals")
	}
	fees := make([]state.CollectedFee, 0, len(records))
	for _, rec := range records {
		fees = append(fees, state.CollectedFee{
			Token:  planck.TokenID(rec.Token),
			Amount: rec.Amount,
		})
	}
	return fees, nil
}

// LoadLedger rebuilds the full in-memory ledger from the committed snapshot.
func (db *LedgerDB) LoadLedger() (*state.Ledger, error) {
	ledger := state.NewLedger()

	limit := make([]byte, len(accountPrefix))
	copy(limit, accountPrefix)
	limit[len(limit)-1]++
	it := db.store.NewIterator(kv.Range{Start: accountPrefix, Limit: limit})
	defer it.Release()

	for it.Next() {
		key := it.Key()
		if len(key) != 5 {
			return nil, errors.New("corrupted account key")
		}
		id := planck.AccountID(binary.BigEndian.Uint32(key[1:]))
		acc, err := decodeAccount(it.Value())
		if err != nil {
			return nil, err
		}
		ledger.InsertAccount(id, acc)
	}
	if err := it.Error(); err != nil {
		return nil, errors.Wrap(err, "iterate accounts")
	}
	return ledger, nil
}
