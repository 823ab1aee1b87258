// Copyright (c) 2020 The Planck developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package handler

import (
	"math/big"

	"github.com/planck-zk/planck/planck"
	"github.com/planck-zk/planck/state"
	"github.com/planck-zk/planck/tx"
)

// ChangePubKeyOp is a resolved ChangePubKey.
type ChangePubKeyOp struct {
	ChangePubKey *tx.ChangePubKey
	AccountID    planck.AccountID
}

// Tx implements Operation.
func (op *ChangePubKeyOp) Tx() tx.Tx { return op.ChangePubKey }

// ResolveChangePubKey validates the transaction against the current ledger
// without mutating it.
//
// A transaction without a signature is accepted: its authorization is
// established by the rollup contract on the external chain instead. This is
// deliberate, not a missing check.
func (e *Executor) ResolveChangePubKey(t *tx.ChangePubKey) (*ChangePubKeyOp, error) {
	if t.Fee.Sign() < 0 {
		return nil, ErrNegativeAmount
	}
	id, acc, ok := e.ledger.GetAccountByAddress(t.Account)
	if !ok {
		return nil, ErrAccountNotFound
	}
	if len(t.Signature) > 0 {
		signer, err := t.Signer()
		if err != nil || signer != acc.Address {
			return nil, ErrSignatureInvalid
		}
	}
	if id != t.AccountID {
		return nil, ErrAccountIDMismatch
	}
	if id > planck.MaxAccountID {
		return nil, ErrAccountIDOutOfRange
	}
	return &ChangePubKeyOp{ChangePubKey: t, AccountID: id}, nil
}

// ApplyChangePubKey mutates the ledger: bumps the nonce, replaces the
// authorization key hash and debits the fee, committing the account only
// after every check has passed.
func (e *Executor) ApplyChangePubKey(op *ChangePubKeyOp) (*state.CollectedFee, []state.UpdateEntry, error) {
	t := op.ChangePubKey
	acc := e.workingCopy(op.AccountID)

	oldBalance := acc.Balance(t.FeeToken)
	oldHash := acc.PubKeyHash
	oldNonce := acc.Nonce

	if t.Nonce != acc.Nonce {
		return nil, nil, ErrNonceMismatch
	}
	acc.Nonce++
	acc.PubKeyHash = t.NewPubKeyHash

	if oldBalance.Cmp(t.Fee) < 0 {
		return nil, nil, ErrInsufficientBalance
	}
	newBalance := new(big.Int).Sub(oldBalance, t.Fee)
	acc.SetBalance(t.FeeToken, newBalance)

	e.ledger.InsertAccount(op.AccountID, acc)

	updates := []state.UpdateEntry{
		{AccountID: op.AccountID, Update: state.ChangePubKeyHash{
			OldHash:  oldHash,
			NewHash:  t.NewPubKeyHash,
			OldNonce: oldNonce,
			NewNonce: acc.Nonce,
		}},
		{AccountID: op.AccountID, Update: state.UpdateBalance{
			Token:      t.FeeToken,
			OldBalance: oldBalance,
			NewBalance: newBalance,
			OldNonce:   oldNonce,
			NewNonce:   acc.Nonce,
		}},
	}
	fee := &state.CollectedFee{Token: t.FeeToken, Amount: new(big.Int).Set(t.Fee)}
	return fee, updates, nil
}
