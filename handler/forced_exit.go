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

// ForcedExitOp is a resolved ForcedExit.
type ForcedExitOp struct {
	ForcedExit  *tx.ForcedExit
	InitiatorID planck.AccountID
	TargetID    planck.AccountID
}

// Tx implements Operation.
func (op *ForcedExitOp) Tx() tx.Tx { return op.ForcedExit }

// ResolveForcedExit validates the transaction. The target account must exist
// and have no signing key set: an account able to sign its own operations
// cannot be exited by a third party.
func (e *Executor) ResolveForcedExit(t *tx.ForcedExit) (*ForcedExitOp, error) {
	if t.Fee.Sign() < 0 {
		return nil, ErrNegativeAmount
	}
	initiatorID, initiator, ok := e.ledger.GetAccountByAddress(t.Initiator)
	if !ok {
		return nil, ErrAccountNotFound
	}
	// an account without a signing key cannot author operations; this also
	// rules out an account force-exiting itself
	if initiator.PubKeyHash.IsZero() {
		return nil, ErrSignatureInvalid
	}
	if len(t.Signature) > 0 {
		signer, err := t.Signer()
		if err != nil || signer != initiator.Address {
			return nil, ErrSignatureInvalid
		}
	}
	if initiatorID != t.InitiatorID {
		return nil, ErrAccountIDMismatch
	}
	if initiatorID > planck.MaxAccountID {
		return nil, ErrAccountIDOutOfRange
	}

	targetID, target, ok := e.ledger.GetAccountByAddress(t.Target)
	if !ok {
		return nil, ErrAccountNotFound
	}
	if targetID > planck.MaxAccountID {
		return nil, ErrAccountIDOutOfRange
	}
	if !target.PubKeyHash.IsZero() {
		return nil, ErrTargetNotLocked
	}
	return &ForcedExitOp{ForcedExit: t, InitiatorID: initiatorID, TargetID: targetID}, nil
}

// ApplyForcedExit charges the fee to the initiator and drains the target's
// token balance. The target's nonce is untouched; it did not author anything.
func (e *Executor) ApplyForcedExit(op *ForcedExitOp) (*state.CollectedFee, []state.UpdateEntry, error) {
	t := op.ForcedExit
	initiator := e.workingCopy(op.InitiatorID)
	target := e.workingCopy(op.TargetID)

	if t.Nonce != initiator.Nonce {
		return nil, nil, ErrNonceMismatch
	}

	oldInitiatorBalance := initiator.Balance(t.Token)
	oldNonce := initiator.Nonce
	if oldInitiatorBalance.Cmp(t.Fee) < 0 {
		return nil, nil, ErrInsufficientBalance
	}

	initiator.Nonce++
	newInitiatorBalance := new(big.Int).Sub(oldInitiatorBalance, t.Fee)
	initiator.SetBalance(t.Token, newInitiatorBalance)

	oldTargetBalance := target.Balance(t.Token)
	target.SetBalance(t.Token, new(big.Int))

	e.ledger.InsertAccount(op.InitiatorID, initiator)
	e.ledger.InsertAccount(op.TargetID, target)

	updates := []state.UpdateEntry{
		{AccountID: op.InitiatorID, Update: state.UpdateBalance{
			Token:      t.Token,
			OldBalance: oldInitiatorBalance,
			NewBalance: newInitiatorBalance,
			OldNonce:   oldNonce,
			NewNonce:   initiator.Nonce,
		}},
		{AccountID: op.TargetID, Update: state.UpdateBalance{
			Token:      t.Token,
			OldBalance: oldTargetBalance,
			NewBalance: new(big.Int),
			OldNonce:   target.Nonce,
			NewNonce:   target.Nonce,
		}},
	}
	fee := &state.CollectedFee{Token: t.Token, Amount: new(big.Int).Set(t.Fee)}
	return fee, updates, nil
}
