// Copyright (c) 2020 The Planck developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package sigcheck recovers transaction signers on a bounded worker pool,
// keeping the ecrecover cost off the submission hot path.
//
// The request channel is unbuffered, so a completed send means a worker has
// taken the request and will answer it. Requests against a stopped checker
// fail with ErrServiceStopped, which callers treat as fatal for the process.
package sigcheck

import (
	"context"

	"github.com/pkg/errors"

	"github.com/planck-zk/planck/co"
	"github.com/planck-zk/planck/log"
	"github.com/planck-zk/planck/planck"
	"github.com/planck-zk/planck/tx"
)

var logger = log.WithContext("pkg", "sigcheck")

// ErrServiceStopped is returned on requests against a stopped checker.
var ErrServiceStopped = errors.New("sigcheck: service stopped")

type request struct {
	signed tx.SignedTx
	respCh chan response // buffered, single-use
}

type response struct {
	signer planck.Address
	err    error
}

// Checker is the signature verification service.
type Checker struct {
	reqCh chan *request
	done  chan struct{}
	goes  co.Goes
}

// New creates the checker and starts its worker pool.
func New(workers int) *Checker {
	if workers < 1 {
		workers = 1
	}
	c := &Checker{
		reqCh: make(chan *request),
		done:  make(chan struct{}),
	}
	for range workers {
		c.goes.Go(c.work)
	}
	logger.Debug("started", "workers", workers)
	return c
}

// Close stops the worker pool.
func (c *Checker) Close() {
	close(c.done)
	c.goes.Wait()
}

func (c *Checker) work() {
	for {
		select {
		case req := <-c.reqCh:
			signer, err := req.signed.Signer()
			req.respCh <- response{signer: signer, err: err}
		case <-c.done:
			return
		}
	}
}

// RecoverSigner recovers the signing address of the given transaction.
// A malformed or missing signature is reported as an error from the
// transaction itself.
func (c *Checker) RecoverSigner(ctx context.Context, signed tx.SignedTx) (planck.Address, error) {
	req := &request{
		signed: signed,
		respCh: make(chan response, 1),
	}
	select {
	case c.reqCh <- req:
	case <-c.done:
		return planck.Address{}, ErrServiceStopped
	case <-ctx.Done():
		return planck.Address{}, ctx.Err()
	}
	select {
	case resp := <-req.respCh:
		return resp.signer, resp.err
	case <-ctx.Done():
		return planck.Address{}, ctx.Err()
	}
}
