// Copyright (c) 2020 The Planck developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package ticker prices transaction fees.
//
// Requests go through a channel to a single pricing loop, so fee quotes stay
// consistent even when the price table is swapped at runtime. A request
// against a stopped ticker fails with ErrServiceStopped; callers must treat
// that as fatal for the process rather than retry, since it means the service
// life-cycle is broken.
package ticker

import (
	"context"
	"math/big"

	"github.com/pkg/errors"

	"github.com/planck-zk/planck/co"
	"github.com/planck-zk/planck/log"
	"github.com/planck-zk/planck/planck"
	"github.com/planck-zk/planck/tx"
)

var logger = log.WithContext("pkg", "ticker")

// ErrServiceStopped is returned on requests against a stopped ticker.
var ErrServiceStopped = errors.New("ticker: service stopped")

// Config seeds the price table.
type Config struct {
	// TokenPrices maps a token to its price multiplier. Unpriced tokens are
	// not accepted for fee payment.
	TokenPrices map[planck.TokenID]*big.Int
	// KindCosts maps a transaction kind to its base cost. Kinds without an
	// entry cost nothing, which is the case for priority operations.
	KindCosts map[tx.Kind]*big.Int
}

type request struct {
	kind   tx.Kind
	token  planck.TokenID
	respCh chan response // buffered, single-use
}

type response struct {
	fee *big.Int
	err error
}

// Ticker is the fee pricing service.
type Ticker struct {
	prices map[planck.TokenID]*big.Int
	costs  map[tx.Kind]*big.Int

	reqCh chan *request
	done  chan struct{}
	goes  co.Goes
}

// New creates the ticker and starts its pricing loop.
func New(config Config) *Ticker {
	t := &Ticker{
		prices: make(map[planck.TokenID]*big.Int),
		costs:  make(map[tx.Kind]*big.Int),
		reqCh:  make(chan *request),
		done:   make(chan struct{}),
	}
	for token, price := range config.TokenPrices {
		t.prices[token] = new(big.Int).Set(price)
	}
	for kind, cost := range config.KindCosts {
		t.costs[kind] = new(big.Int).Set(cost)
	}
	t.goes.Go(t.loop)
	return t
}

// Close stops the pricing loop. In-flight requests are answered first.
func (t *Ticker) Close() {
	close(t.done)
	t.goes.Wait()
	logger.Debug("ticker stopped")
}

func (t *Ticker) loop() {
	for {
		select {
		case req := <-t.reqCh:
			req.respCh <- t.quote(req.kind, req.token)
		case <-t.done:
			return
		}
	}
}

func (t *Ticker) quote(kind tx.Kind, token planck.TokenID) response {
	price, ok := t.prices[token]
	if !ok {
		return response{err: errors.Errorf("token %d not priced", token)}
	}
	cost, ok := t.costs[kind]
	if !ok {
		return response{fee: new(big.Int)}
	}
	return response{fee: new(big.Int).Mul(cost, price)}
}

// GetTxFee quotes the fee for a transaction of the given kind paying in the
// given token.
func (t *Ticker) GetTxFee(ctx context.Context, kind tx.Kind, token planck.TokenID) (*big.Int, error) {
	req := &request{
		kind:   kind,
		token:  token,
		respCh: make(chan response, 1),
	}
	select {
	case t.reqCh <- req:
	case <-t.done:
		return nil, ErrServiceStopped
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	select {
	case resp := <-req.respCh:
		return resp.fee, resp.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
