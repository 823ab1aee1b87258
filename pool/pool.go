// Copyright (c) 2020 The Planck developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package pool queues submitted transactions until the packer drains them.
package pool

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/planck-zk/planck/co"
	"github.com/planck-zk/planck/log"
	"github.com/planck-zk/planck/metrics"
	"github.com/planck-zk/planck/planck"
	"github.com/planck-zk/planck/tx"
)

var (
	logger          = log.WithContext("pkg", "pool")
	metricPoolGauge = metrics.LazyLoadGauge("pool_pending_count")
)

var (
	// ErrPoolFull is returned by Add when the pool hit its size limit.
	ErrPoolFull = errors.New("pool: full")
	// ErrKnownTx is returned by Add for a transaction already queued.
	ErrKnownTx = errors.New("pool: known tx")
)

// Pool is a FIFO queue of pending transactions.
//
// Admission checks beyond hash dedup happen later, at adoption: a queued
// transaction may still turn out invalid against the ledger it is executed on.
type Pool struct {
	limit int

	mu    sync.Mutex
	txs   []tx.Tx
	known map[planck.Bytes32]bool

	addedSignal co.Signal
}

// New creates a pool holding at most limit transactions.
func New(limit int) *Pool {
	return &Pool{
		limit: limit,
		known: make(map[planck.Bytes32]bool),
	}
}

// Add queues the given transaction and wakes one drain waiter.
func (p *Pool) Add(t tx.Tx) error {
	hash := t.Hash()

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.known[hash] {
		return ErrKnownTx
	}
	if len(p.txs) >= p.limit {
		return ErrPoolFull
	}
	p.txs = append(p.txs, t)
	p.known[hash] = true
	metricPoolGauge().Set(int64(len(p.txs)))
	logger.Debug("tx queued", "hash", hash.AbbrevString(), "kind", t.Kind())

	p.addedSignal.Signal()
	return nil
}

// Drain removes and returns up to max queued transactions, oldest first.
// Drained transactions may be resubmitted; block-level dedup is the
// adopter's concern.
func (p *Pool) Drain(max int) []tx.Tx {
	p.mu.Lock()
	defer p.mu.Unlock()

	n := len(p.txs)
	if max > 0 && n > max {
		n = max
	}
	if n == 0 {
		return nil
	}
	drained := make([]tx.Tx, n)
	copy(drained, p.txs[:n])
	p.txs = append(p.txs[:0], p.txs[n:]...)
	for _, t := range drained {
		delete(p.known, t.Hash())
	}
	metricPoolGauge().Set(int64(len(p.txs)))
	return drained
}

// Len returns the number of queued transactions.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.txs)
}

// NewWaiter creates a waiter woken on every successful Add.
func (p *Pool) NewWaiter() co.Waiter {
	return p.addedSignal.NewWaiter()
}
