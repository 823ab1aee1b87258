// Copyright (c) 2020 The Planck developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"crypto/ecdsa"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/planck-zk/planck/planck"
)

// Sign computes the recoverable signature of the transaction with the given key.
func Sign(t SignedTx, key *ecdsa.PrivateKey) ([]byte, error) {
	return crypto.Sign(t.SigningHash().Bytes(), key)
}

// MustSign signs the transaction, panicking on error. Mostly useful in tests.
func MustSign(t SignedTx, key *ecdsa.PrivateKey) []byte {
	sig, err := Sign(t, key)
	if err != nil {
		panic(err)
	}
	return sig
}

// AddressOf derives the ledger address of the given key.
func AddressOf(key *ecdsa.PrivateKey) planck.Address {
	return planck.Address(crypto.PubkeyToAddress(key.PublicKey))
}
