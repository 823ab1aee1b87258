// Copyright (c) 2020 The Planck developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/planck-zk/planck/planck"
)

// UpdateKind tags the closed set of account update variants.
type UpdateKind uint8

const (
	KindCreateAccount UpdateKind = iota + 1
	KindDeleteAccount
	KindUpdateBalance
	KindChangePubKeyHash
)

func (k UpdateKind) String() string {
	switch k {
	case KindCreateAccount:
		return "create"
	case KindDeleteAccount:
		return "delete"
	case KindUpdateBalance:
		return "balance"
	case KindChangePubKeyHash:
		return "pubkey"
	}
	return "unknown"
}

// AccountUpdate is an immutable record of one field-level change to one account.
// It carries both old and new values so that the update sequence can be applied
// forward for catch-up replay, or reversed to undo a block.
type AccountUpdate interface {
	Kind() UpdateKind

	// Reverse returns the update undoing this one.
	Reverse() AccountUpdate
}

// UpdateEntry pairs an update with the account it touches.
type UpdateEntry struct {
	AccountID planck.AccountID
	Update    AccountUpdate
}

// CreateAccount records the creation of an account.
type CreateAccount struct {
	Address planck.Address
	Nonce   planck.Nonce
}

// DeleteAccount records the removal of an account.
type DeleteAccount struct {
	Address planck.Address
	Nonce   planck.Nonce
}

// UpdateBalance records a single token balance change, together with the nonce
// transition of the affected account.
type UpdateBalance struct {
	Token      planck.TokenID
	OldBalance *big.Int
	NewBalance *big.Int
	OldNonce   planck.Nonce
	NewNonce   planck.Nonce
}

// ChangePubKeyHash records an authorization key change.
type ChangePubKeyHash struct {
	OldHash  planck.PubKeyHash
	NewHash  planck.PubKeyHash
	OldNonce planck.Nonce
	NewNonce planck.Nonce
}

func (u CreateAccount) Kind() UpdateKind { return KindCreateAccount }
func (u DeleteAccount) Kind() UpdateKind { return KindDeleteAccount }
func (u UpdateBalance) Kind() UpdateKind { return KindUpdateBalance }
func (u ChangePubKeyHash) Kind() UpdateKind { return KindChangePubKeyHash }

func (u CreateAccount) Reverse() AccountUpdate {
	return DeleteAccount{Address: u.Address, Nonce: u.Nonce}
}

func (u DeleteAccount) Reverse() AccountUpdate {
	return CreateAccount{Address: u.Address, Nonce: u.Nonce}
}

func (u UpdateBalance) Reverse() AccountUpdate {
	return UpdateBalance{
		Token:      u.Token,
		OldBalance: u.NewBalance,
		NewBalance: u.OldBalance,
		OldNonce:   u.NewNonce,
		NewNonce:   u.OldNonce,
	}
}

func (u ChangePubKeyHash) Reverse() AccountUpdate {
	return ChangePubKeyHash{
		OldHash:  u.NewHash,
		NewHash:  u.OldHash,
		OldNonce: u.NewNonce,
		NewNonce: u.OldNonce,
	}
}

// ApplyUpdates folds an ordered update sequence onto the ledger.
//
// Replaying the full update log of a block against the pre-block ledger must
// reproduce the post-block ledger exactly; the old values carried by each
// update are checked against the ledger and any mismatch aborts the replay
// with the ledger left as-is from already applied entries.
func ApplyUpdates(l *Ledger, entries []UpdateEntry) error {
	for i, entry := range entries {
		if err := applyUpdate(l, entry); err != nil {
			return errors.WithMessagef(err, "update #%d (%v)", i, entry.Update.Kind())
		}
	}
	return nil
}

func applyUpdate(l *Ledger, entry UpdateEntry) error {
	switch u := entry.Update.(type) {
	case CreateAccount:
		if _, ok := l.GetAccount(entry.AccountID); ok {
			return errors.New("account already exists")
		}
		acc := NewAccount(u.Address)
		acc.Nonce = u.Nonce
		l.InsertAccount(entry.AccountID, acc)
	case DeleteAccount:
		acc, ok := l.GetAccount(entry.AccountID)
		if !ok {
			return errors.New("account not found")
		}
		if acc.Address != u.Address || acc.Nonce != u.Nonce {
			return errors.New("account mismatch")
		}
		if len(acc.Tokens()) != 0 || !acc.PubKeyHash.IsZero() {
			return errors.New("account not empty")
		}
		l.RemoveAccount(entry.AccountID)
	case UpdateBalance:
		acc, ok := l.GetAccount(entry.AccountID)
		if !ok {
			return errors.New("account not found")
		}
		if acc.Balance(u.Token).Cmp(u.OldBalance) != 0 {
			return errors.New("balance mismatch")
		}
		// The nonce transition is carried by every update of the operation, so
		// it is set rather than checked: within one operation an earlier update
		// may already have advanced it.
		acc.Nonce = u.NewNonce
		acc.SetBalance(u.Token, u.NewBalance)
		l.InsertAccount(entry.AccountID, acc)
	case ChangePubKeyHash:
		acc, ok := l.GetAccount(entry.AccountID)
		if !ok {
			return errors.New("account not found")
		}
		if acc.PubKeyHash != u.OldHash {
			return errors.New("pub key hash mismatch")
		}
		acc.Nonce = u.NewNonce
		acc.PubKeyHash = u.NewHash
		l.InsertAccount(entry.AccountID, acc)
	default:
		return errors.Errorf("unknown update kind %v", entry.Update.Kind())
	}
	return nil
}

// ReverseUpdates produces the sequence undoing the given one, i.e. applying
// entries then ReverseUpdates(entries) restores the original ledger.
func ReverseUpdates(entries []UpdateEntry) []UpdateEntry {
	reversed := make([]UpdateEntry, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		reversed = append(reversed, UpdateEntry{
			AccountID: entries[i].AccountID,
			Update:    entries[i].Update.Reverse(),
		})
	}
	return reversed
}
