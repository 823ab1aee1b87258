// Copyright (c) 2020 The Planck developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"math/big"
	"sort"

	"github.com/planck-zk/planck/planck"
)

// Account is a single ledger entry.
//
// A balance entry is kept only while non-zero, so two accounts with the same
// balances always have identical representations regardless of mutation history.
type Account struct {
	Address    planck.Address
	PubKeyHash planck.PubKeyHash
	Nonce      planck.Nonce

	balances map[planck.TokenID]*big.Int
}

// NewAccount creates an account bound to the given address, with zero nonce,
// no signing key and no balances.
func NewAccount(addr planck.Address) *Account {
	return &Account{
		Address:  addr,
		balances: make(map[planck.TokenID]*big.Int),
	}
}

// Balance returns the balance of the given token. Absent entries read as zero.
// The returned value is a fresh big.Int, safe for the caller to mutate.
func (a *Account) Balance(token planck.TokenID) *big.Int {
	if b, ok := a.balances[token]; ok {
		return new(big.Int).Set(b)
	}
	return new(big.Int)
}

// SetBalance sets the balance of the given token.
// Setting a zero balance removes the entry. Negative balances are a bug of the
// caller and panic immediately rather than corrupting the ledger.
func (a *Account) SetBalance(token planck.TokenID, balance *big.Int) {
	if balance.Sign() < 0 {
		panic("state: negative account balance")
	}
	if a.balances == nil {
		a.balances = make(map[planck.TokenID]*big.Int)
	}
	if balance.Sign() == 0 {
		delete(a.balances, token)
		return
	}
	a.balances[token] = new(big.Int).Set(balance)
}

// AddBalance adds amount to the balance of the given token.
func (a *Account) AddBalance(token planck.TokenID, amount *big.Int) {
	a.SetBalance(token, new(big.Int).Add(a.Balance(token), amount))
}

// SubBalance subtracts amount from the balance of the given token.
// It returns false and leaves the account unchanged if the balance is insufficient.
func (a *Account) SubBalance(token planck.TokenID, amount *big.Int) bool {
	b := a.Balance(token)
	if b.Cmp(amount) < 0 {
		return false
	}
	a.SetBalance(token, b.Sub(b, amount))
	return true
}

// Tokens returns the token ids with non-zero balance, in ascending order.
func (a *Account) Tokens() []planck.TokenID {
	tokens := make([]planck.TokenID, 0, len(a.balances))
	for token := range a.balances {
		tokens = append(tokens, token)
	}
	sort.Slice(tokens, func(i, j int) bool { return tokens[i] < tokens[j] })
	return tokens
}

// Copy makes a deep copy of the account.
func (a *Account) Copy() *Account {
	cpy := *a
	cpy.balances = make(map[planck.TokenID]*big.Int, len(a.balances))
	for token, b := range a.balances {
		cpy.balances[token] = new(big.Int).Set(b)
	}
	return &cpy
}

// Equal tests whether two accounts hold the same field values.
func (a *Account) Equal(b *Account) bool {
	if a.Address != b.Address || a.PubKeyHash != b.PubKeyHash || a.Nonce != b.Nonce {
		return false
	}
	if len(a.balances) != len(b.balances) {
		return false
	}
	for token, ab := range a.balances {
		bb, ok := b.balances[token]
		if !ok || ab.Cmp(bb) != 0 {
			return false
		}
	}
	return true
}
