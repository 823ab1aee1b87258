// Copyright (c) 2020 The Planck developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package state implements the rollup account ledger and its diff model.
//
// The Ledger maps bounded, densely assigned account ids to accounts and keeps
// a reverse index from address to id. Every successful mutation is described
// by an ordered sequence of AccountUpdate records; replaying the sequence onto
// the pre-operation ledger reproduces the post-operation ledger exactly, and
// reversing it undoes the operation. The external commitment layer folds the
// same records into the account merkle tree.
package state
