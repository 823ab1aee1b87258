// Copyright (c) 2020 The Planck developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package packer

import "errors"

var (
	errKnownTx    = errors.New("known tx")
	errBlockFull  = errors.New("block full")
	errFinalized  = errors.New("block already finalized")
	errLedgerFull = errors.New("ledger account space exhausted")
)

// IsKnownTx tx was already adopted into this block.
func IsKnownTx(err error) bool {
	return errors.Is(err, errKnownTx)
}

// IsBlockFull the block reached its transaction limit.
func IsBlockFull(err error) bool {
	return errors.Is(err, errBlockFull)
}

// IsBadTx not a valid tx; it was rejected without touching the ledger.
func IsBadTx(err error) bool {
	return errors.As(err, &badTxError{})
}

type badTxError struct {
	cause error
}

func (e badTxError) Error() string {
	return "bad tx: " + e.cause.Error()
}

func (e badTxError) Unwrap() error {
	return e.cause
}
