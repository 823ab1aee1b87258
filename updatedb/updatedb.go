// Copyright (c) 2020 The Planck developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package updatedb stores the account update log and transaction receipts of
// committed blocks in sqlite, queryable by block, account and transaction hash.
package updatedb

import (
	"context"
	"database/sql"
	"math/big"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/planck-zk/planck/planck"
	"github.com/planck-zk/planck/state"
	"github.com/planck-zk/planck/tx"
)

// UpdateRecord is one persisted account update with its position in the chain.
type UpdateRecord struct {
	BlockNumber uint32
	Index       uint32
	AccountID   planck.AccountID
	Update      state.AccountUpdate
}

// Receipt records the inclusion of an executed transaction.
type Receipt struct {
	TxHash      planck.Bytes32
	BlockNumber uint32
	TxIndex     uint32
	Kind        tx.Kind
}

type UpdateDB struct {
	path          string
	db            *sql.DB
	driverVersion string
}

// New create or open update db at given path.
func New(path string) (updateDB *UpdateDB, err error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if updateDB == nil {
			db.Close()
		}
	}()
	if _, err := db.Exec(updateTableSchema + receiptTableSchema); err != nil {
		return nil, err
	}

	driverVer, _, _ := sqlite3.Version()
	return &UpdateDB{
		path,
		db,
		driverVer,
	}, nil
}

// NewMem create an update db in ram.
func NewMem() (*UpdateDB, error) {
	return New(":memory:")
}

// Close close the update db.
func (db *UpdateDB) Close() {
	db.db.Close()
}

func (db *UpdateDB) Path() string {
	return db.path
}

// Prepare starts a batch collecting the records of one block.
func (db *UpdateDB) Prepare(blockNumber uint32) *BlockBatch {
	return &BlockBatch{
		db:          db.db,
		blockNumber: blockNumber,
	}
}

// UpdatesByBlock returns the full update log of one block, in log order.
func (db *UpdateDB) UpdatesByBlock(ctx context.Context, blockNumber uint32) ([]*UpdateRecord, error) {
	return db.queryUpdates(ctx,
		"SELECT blockNumber, updateIndex, accountID, kind, token, oldBalance, newBalance, oldNonce, newNonce, address, oldHash, newHash FROM acc_update WHERE blockNumber = ? ORDER BY updateIndex ASC",
		blockNumber)
}

// UpdatesByAccount returns all updates touching the given account within the
// block range [from, to], in chain order.
func (db *UpdateDB) UpdatesByAccount(ctx context.Context, id planck.AccountID, from, to uint32) ([]*UpdateRecord, error) {
	return db.queryUpdates(ctx,
		"SELECT blockNumber, updateIndex, accountID, kind, token, oldBalance, newBalance, oldNonce, newNonce, address, oldHash, newHash FROM acc_update WHERE accountID = ? AND blockNumber >= ? AND blockNumber <= ? ORDER BY blockNumber ASC, updateIndex ASC",
		uint32(id), from, to)
}

// GetReceipt returns the receipt of the given transaction, or nil if the
// transaction was never included.
func (db *UpdateDB) GetReceipt(ctx context.Context, txHash planck.Bytes32) (*Receipt, error) {
	row := db.db.QueryRowContext(ctx,
		"SELECT txHash, blockNumber, txIndex, kind FROM receipt WHERE txHash = ?",
		txHash.Bytes())

	var (
		hash        []byte
		blockNumber uint32
		txIndex     uint32
		kind        uint8
	)
	if err := row.Scan(&hash, &blockNumber, &txIndex, &kind); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &Receipt{
		TxHash:      planck.BytesToBytes32(hash),
		BlockNumber: blockNumber,
		TxIndex:     txIndex,
		Kind:        tx.Kind(kind),
	}, nil
}

func (db *UpdateDB) queryUpdates(ctx context.Context, stmt string, args ...interface{}) ([]*UpdateRecord, error) {
	rows, err := db.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*UpdateRecord
	for rows.Next() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		var (
			blockNumber uint32
			index       uint32
			accountID   uint32
			kind        uint8
			token       sql.NullInt32
			oldBalance  []byte
			newBalance  []byte
			oldNonce    uint32
			newNonce    uint32
			address     []byte
			oldHash     []byte
			newHash     []byte
		)
		if err := rows.Scan(
			&blockNumber,
			&index,
			&accountID,
			&kind,
			&token,
			&oldBalance,
			&newBalance,
			&oldNonce,
			&newNonce,
			&address,
			&oldHash,
			&newHash,
		); err != nil {
			return nil, err
		}
		update, err := decodeUpdate(state.UpdateKind(kind), token, oldBalance, newBalance, oldNonce, newNonce, address, oldHash, newHash)
		if err != nil {
			return nil, err
		}
		records = append(records, &UpdateRecord{
			BlockNumber: blockNumber,
			Index:       index,
			AccountID:   planck.AccountID(accountID),
			Update:      update,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

func decodeUpdate(
	kind state.UpdateKind,
	token sql.NullInt32,
	oldBalance, newBalance []byte,
	oldNonce, newNonce uint32,
	address, oldHash, newHash []byte,
) (state.AccountUpdate, error) {
	switch kind {
	case state.KindCreateAccount:
		return state.CreateAccount{
			Address: planck.BytesToAddress(address),
			Nonce:   planck.Nonce(newNonce),
		}, nil
	case state.KindDeleteAccount:
		return state.DeleteAccount{
			Address: planck.BytesToAddress(address),
			Nonce:   planck.Nonce(oldNonce),
		}, nil
	case state.KindUpdateBalance:
		if !token.Valid {
			return nil, errors.New("balance update without token")
		}
		return state.UpdateBalance{
			Token:      planck.TokenID(token.Int32),
			OldBalance: new(big.Int).SetBytes(oldBalance),
			NewBalance: new(big.Int).SetBytes(newBalance),
			OldNonce:   planck.Nonce(oldNonce),
			NewNonce:   planck.Nonce(newNonce),
		}, nil
	case state.KindChangePubKeyHash:
		return state.ChangePubKeyHash{
			OldHash:  planck.BytesToPubKeyHash(oldHash),
			NewHash:  planck.BytesToPubKeyHash(newHash),
			OldNonce: planck.Nonce(oldNonce),
			NewNonce: planck.Nonce(newNonce),
		}, nil
	}
	return nil, errors.Errorf("unknown update kind %d", kind)
}

// BlockBatch collects the records of one block and commits them in a single
// sqlite transaction.
type BlockBatch struct {
	db          *sql.DB
	blockNumber uint32
	updates     []*UpdateRecord
	receipts    []*Receipt
}

// AddUpdates appends update entries to the block's log.
func (bb *BlockBatch) AddUpdates(entries []state.UpdateEntry) *BlockBatch {
	for _, entry := range entries {
		bb.updates = append(bb.updates, &UpdateRecord{
			BlockNumber: bb.blockNumber,
			Index:       uint32(len(bb.updates)),
			AccountID:   entry.AccountID,
			Update:      entry.Update,
		})
	}
	return bb
}

// AddReceipt appends the receipt of one included transaction.
func (bb *BlockBatch) AddReceipt(txHash planck.Bytes32, kind tx.Kind) *BlockBatch {
	bb.receipts = append(bb.receipts, &Receipt{
		TxHash:      txHash,
		BlockNumber: bb.blockNumber,
		TxIndex:     uint32(len(bb.receipts)),
		Kind:        kind,
	})
	return bb
}

func (bb *BlockBatch) execInTx(proc func(*sql.Tx) error) (err error) {
	dbTx, err := bb.db.Begin()
	if err != nil {
		return err
	}
	if err := proc(dbTx); err != nil {
		dbTx.Rollback()
		return err
	}
	return dbTx.Commit()
}

// Commit writes all collected records atomically.
func (bb *BlockBatch) Commit() error {
	return bb.execInTx(func(dbTx *sql.Tx) error {
		for _, rec := range bb.updates {
			token, oldBalance, newBalance, oldNonce, newNonce, address, oldHash, newHash := encodeUpdate(rec.Update)
			if _, err := dbTx.Exec(
				"INSERT OR REPLACE INTO acc_update(blockNumber, updateIndex, accountID, kind, token, oldBalance, newBalance, oldNonce, newNonce, address, oldHash, newHash) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);",
				rec.BlockNumber,
				rec.Index,
				uint32(rec.AccountID),
				uint8(rec.Update.Kind()),
				token,
				oldBalance,
				newBalance,
				oldNonce,
				newNonce,
				address,
				oldHash,
				newHash,
			); err != nil {
				return err
			}
		}
		for _, receipt := range bb.receipts {
			if _, err := dbTx.Exec(
				"INSERT OR REPLACE INTO receipt(txHash, blockNumber, txIndex, kind) VALUES (?, ?, ?, ?);",
				receipt.TxHash.Bytes(),
				receipt.BlockNumber,
				receipt.TxIndex,
				uint8(receipt.Kind),
			); err != nil {
				return err
			}
		}
		return nil
	})
}

func encodeUpdate(update state.AccountUpdate) (
	token sql.NullInt32,
	oldBalance, newBalance []byte,
	oldNonce, newNonce uint32,
	address, oldHash, newHash []byte,
) {
	switch u := update.(type) {
	case state.CreateAccount:
		address = u.Address.Bytes()
		newNonce = uint32(u.Nonce)
	case state.DeleteAccount:
		address = u.Address.Bytes()
		oldNonce = uint32(u.Nonce)
	case state.UpdateBalance:
		token = sql.NullInt32{Int32: int32(u.Token), Valid: true}
		oldBalance = u.OldBalance.Bytes()
		newBalance = u.NewBalance.Bytes()
		oldNonce = uint32(u.OldNonce)
		newNonce = uint32(u.NewNonce)
	case state.ChangePubKeyHash:
		oldHash = u.OldHash.Bytes()
		newHash = u.NewHash.Bytes()
		oldNonce = uint32(u.OldNonce)
		newNonce = uint32(u.NewNonce)
	}
	return
}
