// Copyright (c) 2020 The Planck developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"sort"

	"github.com/planck-zk/planck/planck"
)

// Ledger owns the full account set of one in-progress block-construction context.
//
// It is single-writer and order-sensitive: all mutation goes through operation
// handlers applying one operation at a time, and InsertAccount is the only
// mutation entry point. Accounts read out of the ledger are deep copies, so a
// handler can never leak a half-mutated account into the table before all of
// its checks have passed.
type Ledger struct {
	accounts  map[planck.AccountID]*Account
	byAddress map[planck.Address]planck.AccountID
	nextID    planck.AccountID
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{
		accounts:  make(map[planck.AccountID]*Account),
		byAddress: make(map[planck.Address]planck.AccountID),
	}
}

// GetAccount returns a copy of the account with the given id.
func (l *Ledger) GetAccount(id planck.AccountID) (*Account, bool) {
	acc, ok := l.accounts[id]
	if !ok {
		return nil, false
	}
	return acc.Copy(), true
}

// GetAccountByAddress returns the id and a copy of the account bound to the given address.
func (l *Ledger) GetAccountByAddress(addr planck.Address) (planck.AccountID, *Account, bool) {
	id, ok := l.byAddress[addr]
	if !ok {
		return 0, nil, false
	}
	return id, l.accounts[id].Copy(), true
}

// InsertAccount replaces the full account record atomically.
//
// This is the only way to mutate the ledger. Handlers must call it only after
// every check of the operation has passed on a private working copy.
func (l *Ledger) InsertAccount(id planck.AccountID, acc *Account) {
	l.accounts[id] = acc.Copy()
	l.byAddress[acc.Address] = id
	if id >= l.nextID {
		l.nextID = id + 1
	}
}

// RemoveAccount drops the account with the given id.
// Only update reversal may remove accounts; a committed account otherwise
// persists for the life of the ledger.
func (l *Ledger) RemoveAccount(id planck.AccountID) {
	acc, ok := l.accounts[id]
	if !ok {
		return
	}
	delete(l.accounts, id)
	delete(l.byAddress, acc.Address)
	if id == l.nextID-1 {
		l.nextID = id
	}
}

// NextFreeID returns the id the next created account will be assigned.
// Ids are dense: the first account gets 0, each creation the next integer.
func (l *Ledger) NextFreeID() planck.AccountID {
	return l.nextID
}

// AccountCount returns the number of accounts in the ledger.
func (l *Ledger) AccountCount() int {
	return len(l.accounts)
}

// Copy makes a deep copy of the ledger.
func (l *Ledger) Copy() *Ledger {
	cpy := &Ledger{
		accounts:  make(map[planck.AccountID]*Account, len(l.accounts)),
		byAddress: make(map[planck.Address]planck.AccountID, len(l.byAddress)),
		nextID:    l.nextID,
	}
	for id, acc := range l.accounts {
		cpy.accounts[id] = acc.Copy()
	}
	for addr, id := range l.byAddress {
		cpy.byAddress[addr] = id
	}
	return cpy
}

// ForEach calls fn for every account in ascending id order, until fn returns false.
func (l *Ledger) ForEach(fn func(id planck.AccountID, acc *Account) bool) {
	ids := make([]planck.AccountID, 0, len(l.accounts))
	for id := range l.accounts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		if !fn(id, l.accounts[id].Copy()) {
			return
		}
	}
}

// Equal tests whether two ledgers hold the same account sets.
func (l *Ledger) Equal(other *Ledger) bool {
	if len(l.accounts) != len(other.accounts) {
		return false
	}
	for id, acc := range l.accounts {
		otherAcc, ok := other.accounts[id]
		if !ok || !acc.Equal(otherAcc) {
			return false
		}
	}
	return true
}
