// Copyright (c) 2020 The Planck developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package transactions accepts transaction submissions and serves receipts.
package transactions

import (
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/planck-zk/planck/api/utils"
	"github.com/planck-zk/planck/cache"
	"github.com/planck-zk/planck/planck"
	"github.com/planck-zk/planck/pool"
	"github.com/planck-zk/planck/sigcheck"
	"github.com/planck-zk/planck/tx"
	"github.com/planck-zk/planck/updatedb"
)

const receiptCacheSize = 1024

type Transactions struct {
	db      *updatedb.UpdateDB
	pool    *pool.Pool
	checker *sigcheck.Checker

	// receipts are immutable once a block is committed, so cached entries
	// never go stale
	receiptCache *cache.LRU
}

func New(db *updatedb.UpdateDB, pool *pool.Pool, checker *sigcheck.Checker) *Transactions {
	receiptCache, err := cache.NewLRU(receiptCacheSize)
	if err != nil {
		panic(err)
	}
	return &Transactions{
		db:           db,
		pool:         pool,
		checker:      checker,
		receiptCache: receiptCache,
	}
}

// SendTxRequest is the submission envelope. Fields not used by the requested
// kind are ignored by decoding but rejected as unknown by strict parsing, so
// clients send exactly the fields of their kind.
type SendTxRequest struct {
	Kind          string             `json:"kind"`
	AccountID     uint32             `json:"accountId,omitempty"`
	From          *planck.Address    `json:"from,omitempty"`
	To            *planck.Address    `json:"to,omitempty"`
	ToExternal    *planck.Address    `json:"toExternal,omitempty"`
	Target        *planck.Address    `json:"target,omitempty"`
	NewPubKeyHash *planck.PubKeyHash `json:"newPubKeyHash,omitempty"`
	Token         uint16             `json:"token"`
	Amount        string             `json:"amount,omitempty"`
	Fee           string             `json:"fee,omitempty"`
	Nonce         uint32             `json:"nonce,omitempty"`
	Signature     string             `json:"signature,omitempty"`
}

// SendTxResponse carries the hash the submitted transaction is tracked by.
type SendTxResponse struct {
	Hash planck.Bytes32 `json:"hash"`
}

// Receipt is the JSON view of an inclusion receipt.
type Receipt struct {
	TxHash      planck.Bytes32 `json:"txHash"`
	BlockNumber uint32         `json:"blockNumber"`
	TxIndex     uint32         `json:"txIndex"`
	Kind        string         `json:"kind"`
}

func parseAmount(s, fieldName string) (*big.Int, error) {
	if s == "" {
		return nil, utils.BadRequest(errors.Errorf("%s: missing", fieldName))
	}
	n, ok := new(big.Int).SetString(s, 10)
	if !ok || n.Sign() < 0 {
		return nil, utils.BadRequest(errors.Errorf("%s: invalid amount", fieldName))
	}
	return n, nil
}

func parseSignature(s string) ([]byte, error) {
	if s == "" {
		return nil, nil
	}
	sig, err := hexutil.Decode(s)
	if err != nil {
		return nil, utils.BadRequest(errors.WithMessage(err, "signature"))
	}
	return sig, nil
}

func requireAddr(addr *planck.Address, fieldName string) (planck.Address, error) {
	if addr == nil {
		return planck.Address{}, utils.BadRequest(errors.Errorf("%s: missing", fieldName))
	}
	return *addr, nil
}

func (t *Transactions) buildTx(req *SendTxRequest) (tx.SignedTx, planck.Address, error) {
	sig, err := parseSignature(req.Signature)
	if err != nil {
		return nil, planck.Address{}, err
	}
	token := planck.TokenID(req.Token)
	if token > planck.MaxTokenID {
		return nil, planck.Address{}, utils.BadRequest(errors.New("token: out of range"))
	}
	id := planck.AccountID(req.AccountID)
	nonce := planck.Nonce(req.Nonce)

	switch req.Kind {
	case "transfer":
		from, err := requireAddr(req.From, "from")
		if err != nil {
			return nil, planck.Address{}, err
		}
		to, err := requireAddr(req.To, "to")
		if err != nil {
			return nil, planck.Address{}, err
		}
		amount, err := parseAmount(req.Amount, "amount")
		if err != nil {
			return nil, planck.Address{}, err
		}
		fee, err := parseAmount(req.Fee, "fee")
		if err != nil {
			return nil, planck.Address{}, err
		}
		return &tx.Transfer{
			AccountID: id, From: from, To: to, Token: token,
			Amount: amount, Fee: fee, Nonce: nonce, Signature: sig,
		}, from, nil
	case "withdraw":
		from, err := requireAddr(req.From, "from")
		if err != nil {
			return nil, planck.Address{}, err
		}
		toExternal, err := requireAddr(req.ToExternal, "toExternal")
		if err != nil {
			return nil, planck.Address{}, err
		}
		amount, err := parseAmount(req.Amount, "amount")
		if err != nil {
			return nil, planck.Address{}, err
		}
		fee, err := parseAmount(req.Fee, "fee")
		if err != nil {
			return nil, planck.Address{}, err
		}
		return &tx.Withdraw{
			AccountID: id, From: from, ToExternal: toExternal, Token: token,
			Amount: amount, Fee: fee, Nonce: nonce, Signature: sig,
		}, from, nil
	case "changePubKey":
		account, err := requireAddr(req.From, "from")
		if err != nil {
			return nil, planck.Address{}, err
		}
		if req.NewPubKeyHash == nil {
			return nil, planck.Address{}, utils.BadRequest(errors.New("newPubKeyHash: missing"))
		}
		fee, err := parseAmount(req.Fee, "fee")
		if err != nil {
			return nil, planck.Address{}, err
		}
		return &tx.ChangePubKey{
			AccountID: id, Account: account, NewPubKeyHash: *req.NewPubKeyHash,
			FeeToken: token, Fee: fee, Nonce: nonce, Signature: sig,
		}, account, nil
	case "forcedExit":
		initiator, err := requireAddr(req.From, "from")
		if err != nil {
			return nil, planck.Address{}, err
		}
		target, err := requireAddr(req.Target, "target")
		if err != nil {
			return nil, planck.Address{}, err
		}
		fee, err := parseAmount(req.Fee, "fee")
		if err != nil {
			return nil, planck.Address{}, err
		}
		return &tx.ForcedExit{
			InitiatorID: id, Initiator: initiator, Target: target, Token: token,
			Fee: fee, Nonce: nonce, Signature: sig,
		}, initiator, nil
	case "deposit", "fullExit":
		return nil, planck.Address{}, utils.Forbidden(errors.New("priority operations enter via the rollup contract"))
	}
	return nil, planck.Address{}, utils.BadRequest(errors.Errorf("unknown kind %q", req.Kind))
}

func (t *Transactions) handleSendTransaction(w http.ResponseWriter, req *http.Request) error {
	var sendReq SendTxRequest
	if err := utils.ParseJSON(req.Body, &sendReq); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	signed, owner, err := t.buildTx(&sendReq)
	if err != nil {
		return err
	}

	// a ChangePubKey may legitimately come unsigned; everything else must
	// recover to the declared owner before entering the pool
	_, isChangePubKey := signed.(*tx.ChangePubKey)
	if sendReq.Signature != "" || !isChangePubKey {
		signer, err := t.checker.RecoverSigner(req.Context(), signed)
		if err != nil {
			if errors.Is(err, sigcheck.ErrServiceStopped) {
				return err
			}
			return utils.BadRequest(errors.WithMessage(err, "signature"))
		}
		if signer != owner {
			return utils.BadRequest(errors.New("signature: signer mismatch"))
		}
	}

	if err := t.pool.Add(signed); err != nil {
		switch {
		case errors.Is(err, pool.ErrKnownTx):
			return utils.BadRequest(err)
		case errors.Is(err, pool.ErrPoolFull):
			return utils.HTTPError(err, http.StatusServiceUnavailable)
		}
		return err
	}
	return utils.WriteJSON(w, &SendTxResponse{Hash: signed.Hash()})
}

func (t *Transactions) handleGetReceipt(w http.ResponseWriter, req *http.Request) error {
	raw := mux.Vars(req)["hash"]
	hash, err := planck.ParseBytes32(raw)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "hash"))
	}

	if cached, ok := t.receiptCache.Get(hash); ok {
		return utils.WriteJSON(w, cached.(*Receipt))
	}

	receipt, err := t.db.GetReceipt(req.Context(), hash)
	if err != nil {
		return err
	}
	if receipt == nil {
		// pending or unknown transactions are never cached
		return utils.WriteJSON(w, nil)
	}
	view := &Receipt{
		TxHash:      receipt.TxHash,
		BlockNumber: receipt.BlockNumber,
		TxIndex:     receipt.TxIndex,
		Kind:        receipt.Kind.String(),
	}
	t.receiptCache.Add(hash, view)
	return utils.WriteJSON(w, view)
}

func (t *Transactions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").Methods(http.MethodPost).HandlerFunc(utils.WrapHandlerFunc(t.handleSendTransaction))
	sub.Path("/{hash}/receipt").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(t.handleGetReceipt))
}
