// Copyright (c) 2020 The Planck developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package accounts serves committed account state.
package accounts

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/planck-zk/planck/api/utils"
	"github.com/planck-zk/planck/ledgerdb"
	"github.com/planck-zk/planck/planck"
	"github.com/planck-zk/planck/state"
)

type Accounts struct {
	db *ledgerdb.LedgerDB
}

func New(db *ledgerdb.LedgerDB) *Accounts {
	return &Accounts{db}
}

// TokenBalance is one non-zero balance entry of an account.
type TokenBalance struct {
	Token   planck.TokenID `json:"token"`
	Balance string         `json:"balance"`
}

// Account is the JSON view of a committed account.
type Account struct {
	ID         planck.AccountID  `json:"id"`
	Address    planck.Address    `json:"address"`
	PubKeyHash planck.PubKeyHash `json:"pubKeyHash"`
	Nonce      planck.Nonce      `json:"nonce"`
	Balances   []TokenBalance    `json:"balances"`
}

func convertAccount(id planck.AccountID, acc *state.Account) *Account {
	view := &Account{
		ID:         id,
		Address:    acc.Address,
		PubKeyHash: acc.PubKeyHash,
		Nonce:      acc.Nonce,
		Balances:   []TokenBalance{},
	}
	for _, token := range acc.Tokens() {
		view.Balances = append(view.Balances, TokenBalance{
			Token:   token,
			Balance: acc.Balance(token).String(),
		})
	}
	return view
}

func (a *Accounts) handleGetAccount(w http.ResponseWriter, req *http.Request) error {
	hexAddr := mux.Vars(req)["address"]
	addr, err := planck.ParseAddress(hexAddr)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "address"))
	}
	id, acc, ok, err := a.db.GetAccountByAddress(*addr)
	if err != nil {
		return err
	}
	if !ok {
		return utils.WriteJSON(w, nil)
	}
	return utils.WriteJSON(w, convertAccount(id, acc))
}

func (a *Accounts) handleGetAccountByID(w http.ResponseWriter, req *http.Request) error {
	rawID := mux.Vars(req)["id"]
	n, err := strconv.ParseUint(rawID, 10, 64)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "id"))
	}
	if n > uint64(planck.MaxAccountID) {
		return utils.BadRequest(errors.New("id out of range"))
	}
	id := planck.AccountID(n)
	acc, ok, err := a.db.GetAccount(id)
	if err != nil {
		return err
	}
	if !ok {
		return utils.WriteJSON(w, nil)
	}
	return utils.WriteJSON(w, convertAccount(id, acc))
}

func (a *Accounts) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/id/{id}").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(a.handleGetAccountByID))
	sub.Path("/{address}").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(a.handleGetAccount))
}
