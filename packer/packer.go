// Copyright (c) 2020 The Planck developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package packer assembles blocks by applying transactions to the ledger one
// at a time, collecting the diff stream and the fees they produce.
package packer

import (
	"github.com/planck-zk/planck/planck"
	"github.com/planck-zk/planck/state"
)

// Packer packs pending transactions into blocks.
type Packer struct {
	feeCollector planck.Address
	maxBlockTxs  int
}

// New creates a packer. Fees collected in each block are credited to the
// account bound to feeCollector at finalization; the account is created on
// first use if the address is unseen. maxBlockTxs bounds the transactions
// adopted per block; 0 means unbounded.
func New(feeCollector planck.Address, maxBlockTxs int) *Packer {
	return &Packer{
		feeCollector: feeCollector,
		maxBlockTxs:  maxBlockTxs,
	}
}

// Prepare starts the flow of packing one block on top of the given committed
// ledger. The ledger is copied: the caller keeps the pre-block snapshot until
// the block is finalized and persisted.
func (p *Packer) Prepare(base *state.Ledger, number uint32) *Flow {
	return newFlow(p, base.Copy(), number)
}
