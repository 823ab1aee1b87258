// Copyright (c) 2020 The Planck developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"math/big"

	"github.com/planck-zk/planck/planck"
)

// Deposit credits an amount of one token to the account bound to the given
// address, creating the account if the address has not been seen before.
//
// Deposits originate from the rollup contract on the external chain, so they
// carry no nonce, fee or signature; their authorization happened on-chain.
type Deposit struct {
	To     planck.Address
	Token  planck.TokenID
	Amount *big.Int

	// Serial is the priority queue position assigned by the rollup
	// contract; it makes otherwise identical deposits distinct.
	Serial uint64
}

// Kind implements Tx.
func (t *Deposit) Kind() Kind { return KindDeposit }

// Hash implements Tx.
func (t *Deposit) Hash() planck.Bytes32 {
	return hashPayload(KindDeposit, struct {
		To     planck.Address
		Token  planck.TokenID
		Amount *big.Int
		Serial uint64
	}{t.To, t.Token, t.Amount, t.Serial})
}
