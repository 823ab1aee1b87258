// Copyright (c) 2020 The Planck developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package packer

import (
	"math/big"
	"sort"

	"github.com/planck-zk/planck/handler"
	"github.com/planck-zk/planck/planck"
	"github.com/planck-zk/planck/state"
	"github.com/planck-zk/planck/tx"
)

// Flow is the flow of packing a new block.
//
// Adoption is single-writer and order-sensitive: transactions are applied one
// at a time in adoption order, so every node re-running the same list gets a
// bit-identical update log and final ledger.
type Flow struct {
	packer    *Packer
	number    uint32
	executor  *handler.Executor
	processed map[planck.Bytes32]bool
	ops       []*handler.ExecutedOperation
	updates   []state.UpdateEntry
	fees      map[planck.TokenID]*big.Int
	finalized bool
}

// Block is a finalized block: the ordered operation log, the full account
// update log and the per-token fee totals credited to the collector.
type Block struct {
	Number    uint32
	Ops       []*handler.ExecutedOperation
	Updates   []state.UpdateEntry
	FeeTotals []state.CollectedFee
}

func newFlow(packer *Packer, working *state.Ledger, number uint32) *Flow {
	return &Flow{
		packer:    packer,
		number:    number,
		executor:  handler.New(working),
		processed: make(map[planck.Bytes32]bool),
		fees:      make(map[planck.TokenID]*big.Int),
	}
}

// Number returns the number of the block being packed.
func (f *Flow) Number() uint32 {
	return f.number
}

// Ledger returns the working ledger of the flow. After Finalize it is the
// post-block ledger to be committed.
func (f *Flow) Ledger() *state.Ledger {
	return f.executor.Ledger()
}

// Adopt tries to execute the given transaction and include it in the block.
//
// A transaction failing validation or state checks is reported via IsBadTx
// and leaves the ledger untouched; it is simply not part of the block. Any
// other error is a broken pipeline invariant and must not be swallowed.
func (f *Flow) Adopt(t tx.Tx) error {
	if f.finalized {
		return errFinalized
	}
	if f.packer.maxBlockTxs > 0 && len(f.ops) >= f.packer.maxBlockTxs {
		return errBlockFull
	}
	hash := t.Hash()
	if f.processed[hash] {
		return errKnownTx
	}

	exec, err := f.executor.Execute(t)
	if err != nil {
		if handler.IsValidationError(err) || handler.IsStateError(err) {
			return badTxError{err}
		}
		return err
	}
	f.processed[hash] = true
	f.ops = append(f.ops, exec)
	f.updates = append(f.updates, exec.Updates...)
	if exec.Fee != nil && exec.Fee.Amount.Sign() > 0 {
		total, ok := f.fees[exec.Fee.Token]
		if !ok {
			total = new(big.Int)
			f.fees[exec.Fee.Token] = total
		}
		total.Add(total, exec.Fee.Amount)
	}
	metricTxKindCounter().AddWithLabel(1, map[string]string{"kind": exec.Kind.String()})
	return nil
}

// Finalize credits the accumulated fees to the collector account and seals
// the block. The fee credit goes through the same copy-validate-commit path
// as any other balance mutation and its updates end the block's update log.
func (f *Flow) Finalize() (*Block, error) {
	if f.finalized {
		return nil, errFinalized
	}
	feeUpdates, totals, err := f.creditFees()
	if err != nil {
		return nil, err
	}
	f.updates = append(f.updates, feeUpdates...)
	f.finalized = true
	metricBlockTxGauge().Set(int64(len(f.ops)))

	return &Block{
		Number:    f.number,
		Ops:       f.ops,
		Updates:   f.updates,
		FeeTotals: totals,
	}, nil
}

// creditFees credits per-token fee totals to the collector in ascending token
// order, creating the collector account if its address is unseen.
func (f *Flow) creditFees() ([]state.UpdateEntry, []state.CollectedFee, error) {
	tokens := make([]planck.TokenID, 0, len(f.fees))
	for token := range f.fees {
		tokens = append(tokens, token)
	}
	sort.Slice(tokens, func(i, j int) bool { return tokens[i] < tokens[j] })

	if len(tokens) == 0 {
		return nil, nil, nil
	}

	ledger := f.executor.Ledger()
	var updates []state.UpdateEntry

	id, collector, ok := ledger.GetAccountByAddress(f.packer.feeCollector)
	if !ok {
		id = ledger.NextFreeID()
		if id > planck.MaxAccountID {
			return nil, nil, errLedgerFull
		}
		collector = state.NewAccount(f.packer.feeCollector)
		updates = append(updates, state.UpdateEntry{
			AccountID: id,
			Update:    state.CreateAccount{Address: f.packer.feeCollector},
		})
	}

	totals := make([]state.CollectedFee, 0, len(tokens))
	for _, token := range tokens {
		amount := f.fees[token]
		oldBalance := collector.Balance(token)
		collector.AddBalance(token, amount)
		updates = append(updates, state.UpdateEntry{
			AccountID: id,
			Update: state.UpdateBalance{
				Token:      token,
				OldBalance: oldBalance,
				NewBalance: collector.Balance(token),
				OldNonce:   collector.Nonce,
				NewNonce:   collector.Nonce,
			},
		})
		totals = append(totals, state.CollectedFee{Token: token, Amount: new(big.Int).Set(amount)})
	}
	ledger.InsertAccount(id, collector)
	return updates, totals, nil
}
