// Copyright (c) 2020 The Planck developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"math/big"

	"github.com/planck-zk/planck/planck"
)

// ForcedExit drains the full token balance of a target account that has no
// signing key set, on behalf of an initiator account that pays the fee.
type ForcedExit struct {
	InitiatorID planck.AccountID
	Initiator   planck.Address
	Target      planck.Address
	Token       planck.TokenID
	Fee         *big.Int
	Nonce       planck.Nonce
	Signature   []byte
}

type forcedExitPayload struct {
	InitiatorID planck.AccountID
	Initiator   planck.Address
	Target      planck.Address
	Token       planck.TokenID
	Fee         *big.Int
	Nonce       planck.Nonce
}

func (t *ForcedExit) payload() forcedExitPayload {
	return forcedExitPayload{t.InitiatorID, t.Initiator, t.Target, t.Token, t.Fee, t.Nonce}
}

// Kind implements Tx.
func (t *ForcedExit) Kind() Kind { return KindForcedExit }

// Hash implements Tx.
func (t *ForcedExit) Hash() planck.Bytes32 {
	return hashPayload(KindForcedExit, struct {
		forcedExitPayload
		Signature []byte
	}{t.payload(), t.Signature})
}

// SigningHash implements SignedTx.
func (t *ForcedExit) SigningHash() planck.Bytes32 {
	return hashPayload(KindForcedExit, t.payload())
}

// Signer implements SignedTx.
func (t *ForcedExit) Signer() (planck.Address, error) {
	return recoverSigner(t.SigningHash(), t.Signature)
}
