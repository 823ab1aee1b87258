// Copyright (c) 2020 The Planck developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package handler implements the per-kind transition contract of the ledger.
//
// Each transaction kind follows the same three-step contract:
//
//	resolve: pure function of the ledger and the transaction; binds ledger
//	         context (the targeted account ids) and rejects invalid intents.
//	apply:   the only state-mutating step. All checks run against private
//	         working copies of the affected accounts; the ledger is committed
//	         with a single InsertAccount per account only after every check
//	         has passed, so a failed operation leaves no trace.
//	execute: resolve then apply.
//
// Every node re-executing the same ordered transaction list must produce a
// bit-identical update sequence, so apply is strictly sequential per ledger.
package handler

import (
	"fmt"

	"github.com/planck-zk/planck/planck"
	"github.com/planck-zk/planck/state"
	"github.com/planck-zk/planck/tx"
)

// Operation is a validated unit of work pairing the original transaction with
// ledger-resolved context. Immutable once constructed; an operation resolved
// against one ledger generation must not be applied to another.
type Operation interface {
	Tx() tx.Tx
}

// ExecutedOperation is the outcome of one successfully executed transaction,
// tagged with its kind for the block's operation log.
type ExecutedOperation struct {
	Kind    tx.Kind
	Op      Operation
	Fee     *state.CollectedFee
	Updates []state.UpdateEntry
}

// Executor applies transactions to a single ledger, one at a time.
type Executor struct {
	ledger *state.Ledger
}

// New creates an executor bound to the given ledger.
func New(ledger *state.Ledger) *Executor {
	return &Executor{ledger: ledger}
}

// Ledger returns the ledger the executor mutates.
func (e *Executor) Ledger() *state.Ledger {
	return e.ledger
}

// Execute resolves and applies the transaction.
//
// If resolve fails, apply is never invoked; if apply fails, the ledger is
// unchanged. The switch below covers every transaction kind; see
// TestExecuteCoversAllKinds.
func (e *Executor) Execute(t tx.Tx) (*ExecutedOperation, error) {
	var (
		op      Operation
		fee     *state.CollectedFee
		updates []state.UpdateEntry
		err     error
	)
	switch t := t.(type) {
	case *tx.Deposit:
		var resolved *DepositOp
		if resolved, err = e.ResolveDeposit(t); err == nil {
			op = resolved
			fee, updates, err = e.ApplyDeposit(resolved)
		}
	case *tx.Transfer:
		var resolved *TransferOp
		if resolved, err = e.ResolveTransfer(t); err == nil {
			op = resolved
			fee, updates, err = e.ApplyTransfer(resolved)
		}
	case *tx.Withdraw:
		var resolved *WithdrawOp
		if resolved, err = e.ResolveWithdraw(t); err == nil {
			op = resolved
			fee, updates, err = e.ApplyWithdraw(resolved)
		}
	case *tx.ChangePubKey:
		var resolved *ChangePubKeyOp
		if resolved, err = e.ResolveChangePubKey(t); err == nil {
			op = resolved
			fee, updates, err = e.ApplyChangePubKey(resolved)
		}
	case *tx.FullExit:
		var resolved *FullExitOp
		if resolved, err = e.ResolveFullExit(t); err == nil {
			op = resolved
			fee, updates, err = e.ApplyFullExit(resolved)
		}
	case *tx.ForcedExit:
		var resolved *ForcedExitOp
		if resolved, err = e.ResolveForcedExit(t); err == nil {
			op = resolved
			fee, updates, err = e.ApplyForcedExit(resolved)
		}
	default:
		return nil, fmt.Errorf("handler: unknown tx type %T", t)
	}
	if err != nil {
		return nil, err
	}
	return &ExecutedOperation{
		Kind:    t.Kind(),
		Op:      op,
		Fee:     fee,
		Updates: updates,
	}, nil
}

// workingCopy fetches a private copy of an account resolve has already bound.
// A miss means the operation is being applied to a ledger generation it was
// not resolved against; that is a broken pipeline invariant, not bad input.
func (e *Executor) workingCopy(id planck.AccountID) *state.Account {
	acc, ok := e.ledger.GetAccount(id)
	if !ok {
		panic(fmt.Sprintf("handler: resolved account %d vanished from ledger", id))
	}
	return acc
}
