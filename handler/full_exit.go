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

// FullExitOp is a resolved FullExit.
type FullExitOp struct {
	FullExit  *tx.FullExit
	AccountID planck.AccountID
}

// Tx implements Operation.
func (op *FullExitOp) Tx() tx.Tx { return op.FullExit }

// ResolveFullExit validates the exit request. The declared owner must match
// the account's address: the rollup contract authorized that owner, not the
// account id alone.
func (e *Executor) ResolveFullExit(t *tx.FullExit) (*FullExitOp, error) {
	if t.AccountID > planck.MaxAccountID {
		return nil, ErrAccountIDOutOfRange
	}
	acc, ok := e.ledger.GetAccount(t.AccountID)
	if !ok {
		return nil, ErrAccountNotFound
	}
	if acc.Address != t.Owner {
		return nil, ErrAccountIDMismatch
	}
	return &FullExitOp{FullExit: t, AccountID: t.AccountID}, nil
}

// ApplyFullExit drains the full token balance. A zero balance is still a
// valid exit and emits the (empty) balance update, since the commitment
// layer proves the exited amount from it.
func (e *Executor) ApplyFullExit(op *FullExitOp) (*state.CollectedFee, []state.UpdateEntry, error) {
	t := op.FullExit
	acc := e.workingCopy(op.AccountID)

	oldBalance := acc.Balance(t.Token)
	acc.SetBalance(t.Token, new(big.Int))
	e.ledger.InsertAccount(op.AccountID, acc)

	updates := []state.UpdateEntry{
		{AccountID: op.AccountID, Update: state.UpdateBalance{
			Token:      t.Token,
			OldBalance: oldBalance,
			NewBalance: new(big.Int),
			OldNonce:   acc.Nonce,
			NewNonce:   acc.Nonce,
		}},
	}
	return nil, updates, nil
}
