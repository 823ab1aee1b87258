// Copyright (c) 2020 The Planck developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package blocks serves committed block records: the account update log and
// the fee totals.
package blocks

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/planck-zk/planck/api/utils"
	"github.com/planck-zk/planck/cache"
	"github.com/planck-zk/planck/ledgerdb"
	"github.com/planck-zk/planck/planck"
	"github.com/planck-zk/planck/state"
	"github.com/planck-zk/planck/updatedb"
)

const updateCacheSize = 256

type Blocks struct {
	ledgerDB *ledgerdb.LedgerDB
	updateDB *updatedb.UpdateDB

	// a committed block's update log is immutable, entries never go stale
	updateCache *cache.LRU
}

func New(ledgerDB *ledgerdb.LedgerDB, updateDB *updatedb.UpdateDB) *Blocks {
	updateCache, err := cache.NewLRU(updateCacheSize)
	if err != nil {
		panic(err)
	}
	return &Blocks{
		ledgerDB:    ledgerDB,
		updateDB:    updateDB,
		updateCache: updateCache,
	}
}

// Update is the JSON view of one account update. Fields irrelevant to the
// update's kind are omitted.
type Update struct {
	Index      uint32             `json:"index"`
	AccountID  planck.AccountID   `json:"accountId"`
	Kind       string             `json:"kind"`
	Address    *planck.Address    `json:"address,omitempty"`
	Token      *planck.TokenID    `json:"token,omitempty"`
	OldBalance string             `json:"oldBalance,omitempty"`
	NewBalance string             `json:"newBalance,omitempty"`
	OldNonce   *planck.Nonce      `json:"oldNonce,omitempty"`
	NewNonce   *planck.Nonce      `json:"newNonce,omitempty"`
	OldHash    *planck.PubKeyHash `json:"oldHash,omitempty"`
	NewHash    *planck.PubKeyHash `json:"newHash,omitempty"`
}

// FeeTotal is one per-token fee total of a block.
type FeeTotal struct {
	Token  planck.TokenID `json:"token"`
	Amount string         `json:"amount"`
}

// Head reports the number of the last committed block.
type Head struct {
	Number uint32 `json:"number"`
}

func convertUpdate(rec *updatedb.UpdateRecord) *Update {
	view := &Update{
		Index:     rec.Index,
		AccountID: rec.AccountID,
		Kind:      rec.Update.Kind().String(),
	}
	switch u := rec.Update.(type) {
	case state.CreateAccount:
		addr := u.Address
		view.Address = &addr
	case state.DeleteAccount:
		addr := u.Address
		view.Address = &addr
	case state.UpdateBalance:
		token := u.Token
		view.Token = &token
		view.OldBalance = u.OldBalance.String()
		view.NewBalance = u.NewBalance.String()
		oldNonce, newNonce := u.OldNonce, u.NewNonce
		view.OldNonce = &oldNonce
		view.NewNonce = &newNonce
	case state.ChangePubKeyHash:
		oldHash, newHash := u.OldHash, u.NewHash
		view.OldHash = &oldHash
		view.NewHash = &newHash
		oldNonce, newNonce := u.OldNonce, u.NewNonce
		view.OldNonce = &oldNonce
		view.NewNonce = &newNonce
	}
	return view
}

// committedNumber parses the number path var and checks it against the head,
// so only committed blocks are ever served.
func (b *Blocks) committedNumber(req *http.Request) (uint32, error) {
	raw := mux.Vars(req)["number"]
	n, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, utils.BadRequest(errors.WithMessage(err, "number"))
	}
	head, ok, err := b.ledgerDB.Head()
	if err != nil {
		return 0, err
	}
	if !ok || uint32(n) > head {
		return 0, utils.HTTPError(errors.New("block not committed"), http.StatusNotFound)
	}
	return uint32(n), nil
}

func (b *Blocks) handleGetHead(w http.ResponseWriter, _ *http.Request) error {
	head, ok, err := b.ledgerDB.Head()
	if err != nil {
		return err
	}
	if !ok {
		return utils.WriteJSON(w, nil)
	}
	return utils.WriteJSON(w, &Head{Number: head})
}

func (b *Blocks) handleGetUpdates(w http.ResponseWriter, req *http.Request) error {
	number, err := b.committedNumber(req)
	if err != nil {
		return err
	}
	if cached, ok := b.updateCache.Get(number); ok {
		return utils.WriteJSON(w, cached.([]*Update))
	}

	records, err := b.updateDB.UpdatesByBlock(req.Context(), number)
	if err != nil {
		return err
	}
	views := make([]*Update, 0, len(records))
	for _, rec := range records {
		views = append(views, convertUpdate(rec))
	}
	b.updateCache.Add(number, views)
	return utils.WriteJSON(w, views)
}

func (b *Blocks) handleGetFees(w http.ResponseWriter, req *http.Request) error {
	number, err := b.committedNumber(req)
	if err != nil {
		return err
	}
	fees, err := b.ledgerDB.FeeTotals(number)
	if err != nil {
		return err
	}
	views := make([]*FeeTotal, 0, len(fees))
	for _, fee := range fees {
		views = append(views, &FeeTotal{Token: fee.Token, Amount: fee.Amount.String()})
	}
	return utils.WriteJSON(w, views)
}

func (b *Blocks) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/head").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(b.handleGetHead))
	sub.Path("/{number}/updates").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(b.handleGetUpdates))
	sub.Path("/{number}/fees").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(b.handleGetFees))
}
