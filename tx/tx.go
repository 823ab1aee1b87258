// Copyright (c) 2020 The Planck developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"errors"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/planck-zk/planck/planck"
)

// Kind tags the closed set of transaction kinds.
type Kind uint8

const (
	KindDeposit Kind = iota + 1
	KindTransfer
	KindWithdraw
	KindChangePubKey
	KindFullExit
	KindForcedExit
)

// Kinds lists every transaction kind. Dispatch code is expected to handle all
// of them; the executor test walks this list to keep the switch exhaustive.
func Kinds() []Kind {
	return []Kind{KindDeposit, KindTransfer, KindWithdraw, KindChangePubKey, KindFullExit, KindForcedExit}
}

func (k Kind) String() string {
	switch k {
	case KindDeposit:
		return "deposit"
	case KindTransfer:
		return "transfer"
	case KindWithdraw:
		return "withdraw"
	case KindChangePubKey:
		return "changePubKey"
	case KindFullExit:
		return "fullExit"
	case KindForcedExit:
		return "forcedExit"
	}
	return "unknown"
}

// Tx is a transaction intent prior to ledger resolution.
type Tx interface {
	Kind() Kind

	// Hash returns the identifying hash of the transaction.
	Hash() planck.Bytes32
}

// SignedTx is a transaction authorized by an account signature.
type SignedTx interface {
	Tx

	// SigningHash returns the hash the signature is made over.
	SigningHash() planck.Bytes32
	// Signer recovers the signing address. An error is returned if no
	// signature is attached or it is malformed.
	Signer() (planck.Address, error)
}

// hashPayload computes the kind-prefixed identifying hash, so that two
// transactions of different kinds can never collide.
func hashPayload(kind Kind, payload interface{}) (hash planck.Bytes32) {
	data, err := rlp.EncodeToBytes([]interface{}{uint8(kind), payload})
	if err != nil {
		// payload types are fixed at compile time, encoding never fails
		panic(err)
	}
	copy(hash[:], crypto.Keccak256(data))
	return
}

// recoverSigner recovers the address from a 65-byte [R || S || V] signature
// over the given hash.
func recoverSigner(hash planck.Bytes32, sig []byte) (planck.Address, error) {
	if len(sig) != 65 {
		return planck.Address{}, errors.New("invalid signature length")
	}
	pub, err := crypto.SigToPub(hash.Bytes(), sig)
	if err != nil {
		return planck.Address{}, err
	}
	return planck.Address(crypto.PubkeyToAddress(*pub)), nil
}
