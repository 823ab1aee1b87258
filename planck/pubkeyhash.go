// Copyright (c) 2020 The Planck developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package planck

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
)

const (
	// PubKeyHashLength length of public key hash in bytes.
	PubKeyHashLength = 20
)

// PubKeyHash is the hash of the key authorized to sign operations for an account.
// The zero value means no signing key has been set yet.
type PubKeyHash [PubKeyHashLength]byte

var (
	_ json.Marshaler   = (*PubKeyHash)(nil)
	_ json.Unmarshaler = (*PubKeyHash)(nil)
)

// String implements the stringer interface.
func (p PubKeyHash) String() string {
	return "0x" + hex.EncodeToString(p[:])
}

// Bytes returns byte slice form of pub key hash.
func (p PubKeyHash) Bytes() []byte {
	return p[:]
}

// IsZero returns if pub key hash has all zero bytes, i.e. no signing key set.
func (p PubKeyHash) IsZero() bool {
	return p == PubKeyHash{}
}

// MarshalJSON implements json.Marshaler.
func (p *PubKeyHash) MarshalJSON() ([]byte, error) {
	if p == nil {
		return json.Marshal(nil)
	}
	return json.Marshal(p.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *PubKeyHash) UnmarshalJSON(data []byte) error {
	var hex string
	if err := json.Unmarshal(data, &hex); err != nil {
		return err
	}
	parsed, err := ParsePubKeyHash(hex)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// ParsePubKeyHash convert string presented pub key hash into PubKeyHash type.
func ParsePubKeyHash(s string) (PubKeyHash, error) {
	if len(s) == PubKeyHashLength*2 {
	} else if len(s) == PubKeyHashLength*2+2 {
		if strings.ToLower(s[:2]) != "0x" {
			return PubKeyHash{}, errors.New("invalid prefix")
		}
		s = s[2:]
	} else {
		return PubKeyHash{}, errors.New("invalid length")
	}

	var pkh PubKeyHash
	_, err := hex.Decode(pkh[:], []byte(s))
	if err != nil {
		return PubKeyHash{}, err
	}
	return pkh, nil
}

// BytesToPubKeyHash converts bytes slice into pub key hash.
func BytesToPubKeyHash(b []byte) PubKeyHash {
	var pkh PubKeyHash
	if len(b) > PubKeyHashLength {
		b = b[len(b)-PubKeyHashLength:]
	}
	copy(pkh[PubKeyHashLength-len(b):], b)
	return pkh
}

// HashPubKey derives the pub key hash of an uncompressed secp256k1 public key,
// which is the rightmost 20 bytes of its keccak256 digest.
func HashPubKey(pub []byte) PubKeyHash {
	return BytesToPubKeyHash(crypto.Keccak256(pub[1:])[12:])
}
