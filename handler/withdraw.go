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

// WithdrawOp is a resolved Withdraw.
type WithdrawOp struct {
	Withdraw  *tx.Withdraw
	AccountID planck.AccountID
}

// Tx implements Operation.
func (op *WithdrawOp) Tx() tx.Tx { return op.Withdraw }

// ResolveWithdraw validates the transaction against the current ledger.
func (e *Executor) ResolveWithdraw(t *tx.Withdraw) (*WithdrawOp, error) {
	if t.Amount.Sign() < 0 || t.Fee.Sign() < 0 {
		return nil, ErrNegativeAmount
	}
	id, acc, ok := e.ledger.GetAccountByAddress(t.From)
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
	return &WithdrawOp{Withdraw: t, AccountID: id}, nil
}

// ApplyWithdraw debits amount+fee. The withdrawn amount leaves the ledger;
// its arrival on the external chain is the commitment layer's concern.
func (e *Executor) ApplyWithdraw(op *WithdrawOp) (*state.CollectedFee, []state.UpdateEntry, error) {
	t := op.Withdraw
	acc := e.workingCopy(op.AccountID)

	if t.Nonce != acc.Nonce {
		return nil, nil, ErrNonceMismatch
	}

	oldBalance := acc.Balance(t.Token)
	oldNonce := acc.Nonce
	charge := new(big.Int).Add(t.Amount, t.Fee)
	if oldBalance.Cmp(charge) < 0 {
		return nil, nil, ErrInsufficientBalance
	}

	acc.Nonce++
	newBalance := new(big.Int).Sub(oldBalance, charge)
	acc.SetBalance(t.Token, newBalance)

	e.ledger.InsertAccount(op.AccountID, acc)

	updates := []state.UpdateEntry{
		{AccountID: op.AccountID, Update: state.UpdateBalance{
			Token:      t.Token,
			OldBalance: oldBalance,
			NewBalance: newBalance,
			OldNonce:   oldNonce,
			NewNonce:   acc.Nonce,
		}},
	}
	fee := &state.CollectedFee{Token: t.Token, Amount: new(big.Int).Set(t.Fee)}
	return fee, updates, nil
}
