// Copyright (c) 2020 The Planck developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package planck

// AccountID is the dense, bounded integer identifying a ledger entry.
// It is assigned once at account creation and never reused.
type AccountID uint32

// TokenID identifies a supported token.
type TokenID uint16

// Nonce is the per-account strictly-increasing counter preventing operation replay.
type Nonce uint32

// Constants of the account and balance trees.
const (
	// AccountTreeDepth depth of the account merkle tree, bounding the id space.
	AccountTreeDepth = 24
	// TokenTreeDepth depth of the per-account balance tree, bounding the token space.
	TokenTreeDepth = 10

	// MaxAccountID the largest account id the ledger may ever assign.
	MaxAccountID AccountID = 1<<AccountTreeDepth - 1
	// MaxTokenID the largest supported token id.
	MaxTokenID TokenID = 1<<TokenTreeDepth - 1
)
