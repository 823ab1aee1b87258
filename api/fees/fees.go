// Copyright (c) 2020 The Planck developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package fees quotes transaction fees from the ticker service.
package fees

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/planck-zk/planck/api/utils"
	"github.com/planck-zk/planck/planck"
	"github.com/planck-zk/planck/ticker"
	"github.com/planck-zk/planck/tx"
)

type Fees struct {
	ticker *ticker.Ticker
}

func New(t *ticker.Ticker) *Fees {
	return &Fees{t}
}

// FeeRequest asks for the fee of one transaction kind paid in one token.
type FeeRequest struct {
	Kind  string `json:"kind"`
	Token uint16 `json:"token"`
}

// FeeResponse is the quoted fee.
type FeeResponse struct {
	Kind  string `json:"kind"`
	Token uint16 `json:"token"`
	Fee   string `json:"fee"`
}

func kindByName(name string) (tx.Kind, bool) {
	for _, kind := range tx.Kinds() {
		if kind.String() == name {
			return kind, true
		}
	}
	return 0, false
}

func (f *Fees) handleQuoteFee(w http.ResponseWriter, req *http.Request) error {
	var feeReq FeeRequest
	if err := utils.ParseJSON(req.Body, &feeReq); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	kind, ok := kindByName(feeReq.Kind)
	if !ok {
		return utils.BadRequest(errors.Errorf("unknown kind %q", feeReq.Kind))
	}
	if planck.TokenID(feeReq.Token) > planck.MaxTokenID {
		return utils.BadRequest(errors.New("token: out of range"))
	}

	fee, err := f.ticker.GetTxFee(req.Context(), kind, planck.TokenID(feeReq.Token))
	if err != nil {
		if errors.Is(err, ticker.ErrServiceStopped) {
			return err
		}
		return utils.BadRequest(err)
	}
	return utils.WriteJSON(w, &FeeResponse{
		Kind:  feeReq.Kind,
		Token: feeReq.Token,
		Fee:   fee.String(),
	})
}

func (f *Fees) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").Methods(http.MethodPost).HandlerFunc(utils.WrapHandlerFunc(f.handleQuoteFee))
}
