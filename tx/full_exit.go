// Copyright (c) 2020 The Planck developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"github.com/planck-zk/planck/planck"
)

// FullExit drains the full balance of one token from an account back to the
// external chain. Like Deposit it is a priority operation authorized by the
// rollup contract, so it carries no nonce, fee or signature.
type FullExit struct {
	AccountID planck.AccountID
	Owner     planck.Address
	Token     planck.TokenID

	// Serial is the priority queue position assigned by the rollup contract.
	Serial uint64
}

// Kind implements Tx.
func (t *FullExit) Kind() Kind { return KindFullExit }

// Hash implements Tx.
func (t *FullExit) Hash() planck.Bytes32 {
	return hashPayload(KindFullExit, struct {
		AccountID planck.AccountID
		Owner     planck.Address
		Token     planck.TokenID
		Serial    uint64
	}{t.AccountID, t.Owner, t.Token, t.Serial})
}
