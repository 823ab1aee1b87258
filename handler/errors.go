// Copyright (c) 2020 The Planck developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package handler

import "errors"

// validationError rejects a transaction during resolve, before any mutation.
type validationError struct {
	msg string
}

func (e validationError) Error() string {
	return "invalid tx: " + e.msg
}

// stateError rejects a transaction during apply. The ledger is guaranteed
// unchanged: it is raised before the commit of any working copy.
type stateError struct {
	msg string
}

func (e stateError) Error() string {
	return "rejected tx: " + e.msg
}

var (
	// resolve errors
	ErrAccountNotFound     = validationError{"account not found"}
	ErrSignatureInvalid    = validationError{"signature invalid"}
	ErrAccountIDMismatch   = validationError{"account id mismatch"}
	ErrAccountIDOutOfRange = validationError{"account id out of range"}
	ErrTargetNotLocked     = validationError{"target account not locked"}
	ErrNegativeAmount      = validationError{"negative amount or fee"}

	// apply errors
	ErrNonceMismatch       = stateError{"nonce mismatch"}
	ErrInsufficientBalance = stateError{"insufficient balance"}
)

// IsValidationError reports whether the error came from resolve.
// Such a transaction is excluded from the block; the ledger was never touched.
func IsValidationError(err error) bool {
	var ve validationError
	return errors.As(err, &ve)
}

// IsStateError reports whether the error came from apply.
// The transaction is excluded from the block and the ledger is unchanged.
func IsStateError(err error) bool {
	var se stateError
	return errors.As(err, &se)
}
