// Copyright (c) 2020 The Planck developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"math/big"

	"github.com/planck-zk/planck/planck"
)

// Withdraw moves an amount of one token out of the ledger to an external
// chain address. The fee is charged in the withdrawn token.
type Withdraw struct {
	AccountID  planck.AccountID
	From       planck.Address
	ToExternal planck.Address
	Token      planck.TokenID
	Amount     *big.Int
	Fee        *big.Int
	Nonce      planck.Nonce
	Signature  []byte
}

type withdrawPayload struct {
	AccountID  planck.AccountID
	From       planck.Address
	ToExternal planck.Address
	Token      planck.TokenID
	Amount     *big.Int
	Fee        *big.Int
	Nonce      planck.Nonce
}

func (t *Withdraw) payload() withdrawPayload {
	return withdrawPayload{t.AccountID, t.From, t.ToExternal, t.Token, t.Amount, t.Fee, t.Nonce}
}

// Kind implements Tx.
func (t *Withdraw) Kind() Kind { return KindWithdraw }

// Hash implements Tx.
func (t *Withdraw) Hash() planck.Bytes32 {
	return hashPayload(KindWithdraw, struct {
		withdrawPayload
		Signature []byte
	}{t.payload(), t.Signature})
}

// SigningHash implements SignedTx.
func (t *Withdraw) SigningHash() planck.Bytes32 {
	return hashPayload(KindWithdraw, t.payload())
}

// Signer implements SignedTx.
func (t *Withdraw) Signer() (planck.Address, error) {
	return recoverSigner(t.SigningHash(), t.Signature)
}
