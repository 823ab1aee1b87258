// Copyright (c) 2020 The Planck developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package handler

import (
	"github.com/planck-zk/planck/planck"
	"github.com/planck-zk/planck/state"
	"github.com/planck-zk/planck/tx"
)

// DepositOp is a resolved Deposit.
type DepositOp struct {
	Deposit    *tx.Deposit
	AccountID  planck.AccountID
	NewAccount bool
}

// Tx implements Operation.
func (op *DepositOp) Tx() tx.Tx { return op.Deposit }

// ResolveDeposit binds the deposit to the account owning the target address,
// assigning the next free id when the address is unseen. Deposits carry no
// signature to check; the rollup contract already authorized them. The
// amount sign is still checked: a negative credit must never reach apply.
func (e *Executor) ResolveDeposit(t *tx.Deposit) (*DepositOp, error) {
	if t.Amount.Sign() < 0 {
		return nil, ErrNegativeAmount
	}
	id, _, ok := e.ledger.GetAccountByAddress(t.To)
	newAccount := false
	if !ok {
		id = e.ledger.NextFreeID()
		newAccount = true
	}
	if id > planck.MaxAccountID {
		return nil, ErrAccountIDOutOfRange
	}
	return &DepositOp{Deposit: t, AccountID: id, NewAccount: newAccount}, nil
}

// ApplyDeposit credits the amount. The account nonce is untouched: deposits
// are not authored by the credited account.
func (e *Executor) ApplyDeposit(op *DepositOp) (*state.CollectedFee, []state.UpdateEntry, error) {
	t := op.Deposit

	var acc *state.Account
	if op.NewAccount {
		acc = state.NewAccount(t.To)
	} else {
		acc = e.workingCopy(op.AccountID)
	}

	oldBalance := acc.Balance(t.Token)
	acc.AddBalance(t.Token, t.Amount)
	e.ledger.InsertAccount(op.AccountID, acc)

	var updates []state.UpdateEntry
	if op.NewAccount {
		updates = append(updates, state.UpdateEntry{
			AccountID: op.AccountID,
			Update:    state.CreateAccount{Address: t.To},
		})
	}
	updates = append(updates, state.UpdateEntry{
		AccountID: op.AccountID,
		Update: state.UpdateBalance{
			Token:      t.Token,
			OldBalance: oldBalance,
			NewBalance: acc.Balance(t.Token),
			OldNonce:   acc.Nonce,
			NewNonce:   acc.Nonce,
		},
	})
	return nil, updates, nil
}
