// Copyright (c) 2020 The Planck developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"math/big"

	"github.com/planck-zk/planck/planck"
)

// Transfer moves an amount of one token between two ledger accounts.
// The fee is charged in the transferred token, on top of the amount.
type Transfer struct {
	AccountID planck.AccountID
	From      planck.Address
	To        planck.Address
	Token     planck.TokenID
	Amount    *big.Int
	Fee       *big.Int
	Nonce     planck.Nonce
	Signature []byte
}

type transferPayload struct {
	AccountID planck.AccountID
	From      planck.Address
	To        planck.Address
	Token     planck.TokenID
	Amount    *big.Int
	Fee       *big.Int
	Nonce     planck.Nonce
}

func (t *Transfer) payload() transferPayload {
	return transferPayload{t.AccountID, t.From, t.To, t.Token, t.Amount, t.Fee, t.Nonce}
}

// Kind implements Tx.
func (t *Transfer) Kind() Kind { return KindTransfer }

// Hash implements Tx.
func (t *Transfer) Hash() planck.Bytes32 {
	return hashPayload(KindTransfer, struct {
		transferPayload
		Signature []byte
	}{t.payload(), t.Signature})
}

// SigningHash implements SignedTx.
func (t *Transfer) SigningHash() planck.Bytes32 {
	return hashPayload(KindTransfer, t.payload())
}

// Signer implements SignedTx.
func (t *Transfer) Signer() (planck.Address, error) {
	return recoverSigner(t.SigningHash(), t.Signature)
}
