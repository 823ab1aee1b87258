// Copyright (c) 2020 The Planck developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package api exposes the node's query and submission surface over http.
// All reads come from committed storage, never from the ledger of a block
// still being packed.
package api

import (
	"net/http"
	"strings"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/planck-zk/planck/api/accounts"
	"github.com/planck-zk/planck/api/blocks"
	"github.com/planck-zk/planck/api/fees"
	"github.com/planck-zk/planck/api/transactions"
	"github.com/planck-zk/planck/ledgerdb"
	"github.com/planck-zk/planck/log"
	"github.com/planck-zk/planck/pool"
	"github.com/planck-zk/planck/sigcheck"
	"github.com/planck-zk/planck/ticker"
	"github.com/planck-zk/planck/updatedb"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	AllowedOrigins  string
	EnableReqLogger bool
}

// New returns the api handler.
func New(
	ledgerDB *ledgerdb.LedgerDB,
	updateDB *updatedb.UpdateDB,
	txPool *pool.Pool,
	checker *sigcheck.Checker,
	feeTicker *ticker.Ticker,
	opts Options,
) http.HandlerFunc {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	accounts.New(ledgerDB).
		Mount(router, "/accounts")
	transactions.New(updateDB, txPool, checker).
		Mount(router, "/transactions")
	blocks.New(ledgerDB, updateDB).
		Mount(router, "/blocks")
	fees.New(feeTicker).
		Mount(router, "/fees")

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type"}),
	)(handler)
	handler = RealIPHandler(handler)

	if opts.EnableReqLogger {
		handler = RequestLoggerHandler(handler, logger)
	}

	return handler.ServeHTTP
}
