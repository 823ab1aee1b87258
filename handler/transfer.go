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

// TransferOp is a resolved Transfer. If the recipient address was unseen,
// ToID is the freshly assigned id and NewAccount is set.
type TransferOp struct {
	Transfer   *tx.Transfer
	FromID     planck.AccountID
	ToID       planck.AccountID
	NewAccount bool
}

// Tx implements Operation.
func (op *TransferOp) Tx() tx.Tx { return op.Transfer }

// ResolveTransfer validates the transaction and binds sender and recipient ids.
// An unseen recipient address resolves to the next free id.
func (e *Executor) ResolveTransfer(t *tx.Transfer) (*TransferOp, error) {
	if t.Amount.Sign() < 0 || t.Fee.Sign() < 0 {
		return nil, ErrNegativeAmount
	}
	fromID, from, ok := e.ledger.GetAccountByAddress(t.From)
	if !ok {
		return nil, ErrAccountNotFound
	}
	if len(t.Signature) > 0 {
		signer, err := t.Signer()
		if err != nil || signer != from.Address {
			return nil, ErrSignatureInvalid
		}
	}
	if fromID != t.AccountID {
		return nil, ErrAccountIDMismatch
	}
	if fromID > planck.MaxAccountID {
		return nil, ErrAccountIDOutOfRange
	}

	toID, _, ok := e.ledger.GetAccountByAddress(t.To)
	newAccount := false
	if !ok {
		toID = e.ledger.NextFreeID()
		newAccount = true
	}
	if toID > planck.MaxAccountID {
		return nil, ErrAccountIDOutOfRange
	}
	return &TransferOp{Transfer: t, FromID: fromID, ToID: toID, NewAccount: newAccount}, nil
}

// ApplyTransfer debits amount+fee from the sender and credits amount to the
// recipient, creating the recipient account first when needed.
func (e *Executor) ApplyTransfer(op *TransferOp) (*state.CollectedFee, []state.UpdateEntry, error) {
	t := op.Transfer
	from := e.workingCopy(op.FromID)

	if t.Nonce != from.Nonce {
		return nil, nil, ErrNonceMismatch
	}

	oldFromBalance := from.Balance(t.Token)
	oldNonce := from.Nonce
	charge := new(big.Int).Add(t.Amount, t.Fee)
	if oldFromBalance.Cmp(charge) < 0 {
		return nil, nil, ErrInsufficientBalance
	}

	from.Nonce++
	newFromBalance := new(big.Int).Sub(oldFromBalance, charge)
	from.SetBalance(t.Token, newFromBalance)

	var updates []state.UpdateEntry
	if op.NewAccount {
		updates = append(updates, state.UpdateEntry{
			AccountID: op.ToID,
			Update:    state.CreateAccount{Address: t.To},
		})
	}
	updates = append(updates, state.UpdateEntry{
		AccountID: op.FromID,
		Update: state.UpdateBalance{
			Token:      t.Token,
			OldBalance: oldFromBalance,
			NewBalance: newFromBalance,
			OldNonce:   oldNonce,
			NewNonce:   from.Nonce,
		},
	})

	if op.ToID == op.FromID {
		// self transfer: credit the same working copy
		oldToBalance := from.Balance(t.Token)
		from.AddBalance(t.Token, t.Amount)
		updates = append(updates, state.UpdateEntry{
			AccountID: op.ToID,
			Update: state.UpdateBalance{
				Token:      t.Token,
				OldBalance: oldToBalance,
				NewBalance: from.Balance(t.Token),
				OldNonce:   from.Nonce,
				NewNonce:   from.Nonce,
			},
		})
		e.ledger.InsertAccount(op.FromID, from)
	} else {
		var to *state.Account
		if op.NewAccount {
			to = state.NewAccount(t.To)
		} else {
			to = e.workingCopy(op.ToID)
		}
		oldToBalance := to.Balance(t.Token)
		to.AddBalance(t.Token, t.Amount)
		updates = append(updates, state.UpdateEntry{
			AccountID: op.ToID,
			Update: state.UpdateBalance{
				Token:      t.Token,
				OldBalance: oldToBalance,
				NewBalance: to.Balance(t.Token),
				OldNonce:   to.Nonce,
				NewNonce:   to.Nonce,
			},
		})
		e.ledger.InsertAccount(op.FromID, from)
		e.ledger.InsertAccount(op.ToID, to)
	}

	fee := &state.CollectedFee{Token: t.Token, Amount: new(big.Int).Set(t.Fee)}
	return fee, updates, nil
}
