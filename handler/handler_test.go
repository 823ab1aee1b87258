// Copyright (c) 2020 The Planck developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package handler

import (
	"math/big"

	"github.com/planck-zk/planck/planck"
	"github.com/planck-zk/planck/state"
)

type testAccount struct {
	id      planck.AccountID
	addr    planck.Address
	pkh     planck.PubKeyHash
	nonce   planck.Nonce
	token   planck.TokenID
	balance int64
}

func newTestLedger(accounts ...testAccount) *state.Ledger {
	l := state.NewLedger()
	for _, ta := range accounts {
		acc := state.NewAccount(ta.addr)
		acc.PubKeyHash = ta.pkh
		acc.Nonce = ta.nonce
		if ta.balance != 0 {
			acc.SetBalance(ta.token, big.NewInt(ta.balance))
		}
		l.InsertAccount(ta.id, acc)
	}
	return l
}

func addr(s string) planck.Address {
	return planck.BytesToAddress([]byte(s))
}

func pkh(s string) planck.PubKeyHash {
	return planck.BytesToPubKeyHash([]byte(s))
}
