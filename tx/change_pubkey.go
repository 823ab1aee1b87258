// Copyright (c) 2020 The Planck developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"math/big"

	"github.com/planck-zk/planck/planck"
)

// ChangePubKey sets the authorization key hash of an account.
//
// The attached signature is optional: a ChangePubKey without one is still
// valid here, since its authorization can instead be established by the
// rollup contract on the external chain. When present, it must recover to
// the account address.
type ChangePubKey struct {
	AccountID     planck.AccountID
	Account       planck.Address
	NewPubKeyHash planck.PubKeyHash
	FeeToken      planck.TokenID
	Fee           *big.Int
	Nonce         planck.Nonce
	Signature     []byte
}

type changePubKeyPayload struct {
	AccountID     planck.AccountID
	Account       planck.Address
	NewPubKeyHash planck.PubKeyHash
	FeeToken      planck.TokenID
	Fee           *big.Int
	Nonce         planck.Nonce
}

func (t *ChangePubKey) payload() changePubKeyPayload {
	return changePubKeyPayload{t.AccountID, t.Account, t.NewPubKeyHash, t.FeeToken, t.Fee, t.Nonce}
}

// Kind implements Tx.
func (t *ChangePubKey) Kind() Kind { return KindChangePubKey }

// Hash implements Tx.
func (t *ChangePubKey) Hash() planck.Bytes32 {
	return hashPayload(KindChangePubKey, struct {
		changePubKeyPayload
		Signature []byte
	}{t.payload(), t.Signature})
}

// SigningHash implements SignedTx.
func (t *ChangePubKey) SigningHash() planck.Bytes32 {
	return hashPayload(KindChangePubKey, t.payload())
}

// Signer implements SignedTx.
func (t *ChangePubKey) Signer() (planck.Address, error) {
	return recoverSigner(t.SigningHash(), t.Signature)
}
