// Copyright (c) 2020 The Planck developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"net"
	"net/http"
	"path/filepath"
	"time"

	"github.com/pkg/errors"

	"github.com/planck-zk/planck/api"
	"github.com/planck-zk/planck/co"
	"github.com/planck-zk/planck/genesis"
	"github.com/planck-zk/planck/ledgerdb"
	"github.com/planck-zk/planck/lvldb"
	"github.com/planck-zk/planck/metrics"
	"github.com/planck-zk/planck/packer"
	"github.com/planck-zk/planck/pool"
	"github.com/planck-zk/planck/sigcheck"
	"github.com/planck-zk/planck/state"
	"github.com/planck-zk/planck/ticker"
	"github.com/planck-zk/planck/updatedb"
)

type nodeOptions struct {
	APIAddr       string
	APICors       string
	APILogs       bool
	MetricsAddr   string
	EnableMetrics bool
	BlockInterval uint64
	MaxBlockTxs   int
	PoolLimit     int
	SigWorkers    int
}

// node owns the databases, the services and the packing loop. The in-memory
// ledger always equals the committed state of block head.
type node struct {
	opts nodeOptions

	mainDB   *lvldb.Store
	ledgerDB *ledgerdb.LedgerDB
	updateDB *updatedb.UpdateDB

	txPool    *pool.Pool
	checker   *sigcheck.Checker
	feeTicker *ticker.Ticker
	packer    *packer.Packer

	ledger *state.Ledger
	head   uint32
}

func newNode(config *nodeConfig, dataDir string, opts nodeOptions) (*node, error) {
	feeCollector, err := config.Genesis.FeeCollectorAddress()
	if err != nil {
		return nil, err
	}
	tickerConfig, err := config.Fees.tickerConfig()
	if err != nil {
		return nil, err
	}

	mainDB, err := lvldb.New(filepath.Join(dataDir, "ledger.db"), lvldb.Options{
		CacheSize:              128,
		OpenFilesCacheCapacity: 512,
	})
	if err != nil {
		return nil, errors.Wrap(err, "open ledger database")
	}
	updateDB, err := updatedb.New(filepath.Join(dataDir, "updates.db"))
	if err != nil {
		mainDB.Close()
		return nil, errors.Wrap(err, "open update database")
	}
	ledgerDB := ledgerdb.New(mainDB)

	ledger, head, err := openLedger(ledgerDB, updateDB, &config.Genesis)
	if err != nil {
		updateDB.Close()
		mainDB.Close()
		return nil, err
	}

	return &node{
		opts:      opts,
		mainDB:    mainDB,
		ledgerDB:  ledgerDB,
		updateDB:  updateDB,
		txPool:    pool.New(opts.PoolLimit),
		checker:   sigcheck.New(opts.SigWorkers),
		feeTicker: ticker.New(tickerConfig),
		packer:    packer.New(feeCollector, opts.MaxBlockTxs),
		ledger:    ledger,
		head:      head,
	}, nil
}

// openLedger loads the committed ledger, committing the genesis block first
// on a fresh database.
func openLedger(ledgerDB *ledgerdb.LedgerDB, updateDB *updatedb.UpdateDB, config *genesis.Config) (*state.Ledger, uint32, error) {
	head, ok, err := ledgerDB.Head()
	if err != nil {
		return nil, 0, err
	}
	if ok {
		ledger, err := ledgerDB.LoadLedger()
		if err != nil {
			return nil, 0, err
		}
		logger.Info("ledger loaded", "head", head, "accounts", ledger.AccountCount())
		return ledger, head, nil
	}

	ledger, err := config.Build()
	if err != nil {
		return nil, 0, err
	}
	updates := genesis.GenesisUpdates(ledger)
	if err := ledgerDB.SaveBlock(0, ledger, updates, nil); err != nil {
		return nil, 0, errors.Wrap(err, "commit genesis block")
	}
	if err := updateDB.Prepare(0).AddUpdates(updates).Commit(); err != nil {
		return nil, 0, errors.Wrap(err, "commit genesis updates")
	}
	logger.Info("genesis block committed", "accounts", ledger.AccountCount())
	return ledger, 0, nil
}

func (n *node) Close() {
	n.feeTicker.Close()
	n.checker.Close()
	n.updateDB.Close()
	if err := n.mainDB.Close(); err != nil {
		logger.Warn("failed to close ledger database", "err", err)
	}
}

// Run serves the api (and optionally metrics) and packs blocks until ctx
// is canceled. A storage failure during packing aborts the run.
func (n *node) Run(ctx context.Context) error {
	apiHandler := api.New(n.ledgerDB, n.updateDB, n.txPool, n.checker, n.feeTicker, api.Options{
		AllowedOrigins:  n.opts.APICors,
		EnableReqLogger: n.opts.APILogs,
	})
	apiURL, closeAPI, err := startServer("API", n.opts.APIAddr, apiHandler)
	if err != nil {
		return err
	}
	defer closeAPI()
	logger.Info("API server started", "url", apiURL)

	if n.opts.EnableMetrics {
		metricsURL, closeMetrics, err := startServer("metrics", n.opts.MetricsAddr, metrics.HTTPHandler())
		if err != nil {
			return err
		}
		defer closeMetrics()
		logger.Info("metrics server started", "url", metricsURL)
	}

	return n.packing(ctx)
}

func (n *node) packing(ctx context.Context) error {
	interval := time.Duration(n.opts.BlockInterval) * time.Second
	tick := time.NewTicker(interval)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-tick.C:
			if err := n.packBlock(); err != nil {
				return errors.Wrap(err, "pack block")
			}
		}
	}
}

// packBlock drains the pool into one block and commits it. Empty rounds
// produce no block.
func (n *node) packBlock() error {
	txs := n.txPool.Drain(n.opts.MaxBlockTxs)
	if len(txs) == 0 {
		return nil
	}

	startTime := time.Now()
	flow := n.packer.Prepare(n.ledger, n.head+1)
	for i, t := range txs {
		err := flow.Adopt(t)
		switch {
		case err == nil:
		case packer.IsBadTx(err) || packer.IsKnownTx(err):
			logger.Warn("tx rejected", "hash", t.Hash(), "err", err)
		case packer.IsBlockFull(err):
			// The drain cleared dedup state, so the leftovers requeue.
			for _, left := range txs[i:] {
				if err := n.txPool.Add(left); err != nil {
					logger.Warn("tx dropped on requeue", "hash", left.Hash(), "err", err)
				}
			}
			return n.commitBlock(flow, startTime)
		default:
			return err
		}
	}
	return n.commitBlock(flow, startTime)
}

func (n *node) commitBlock(flow *packer.Flow, startTime time.Time) error {
	block, err := flow.Finalize()
	if err != nil {
		return err
	}

	if err := n.ledgerDB.SaveBlock(block.Number, flow.Ledger(), block.Updates, block.FeeTotals); err != nil {
		return err
	}
	batch := n.updateDB.Prepare(block.Number).AddUpdates(block.Updates)
	for _, op := range block.Ops {
		batch.AddReceipt(op.Op.Tx().Hash(), op.Kind)
	}
	if err := batch.Commit(); err != nil {
		return err
	}

	n.ledger = flow.Ledger()
	n.head = block.Number

	logger.Info("block packed",
		"number", block.Number,
		"txs", len(block.Ops),
		"updates", len(block.Updates),
		"elapsed", time.Since(startTime).Round(time.Millisecond),
	)
	return nil
}

func startServer(name, addr string, handler http.Handler) (string, func(), error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, errors.Wrapf(err, "listen %s addr [%v]", name, addr)
	}
	srv := &http.Server{Handler: handler}
	var goes co.Goes
	goes.Go(func() {
		srv.Serve(listener)
	})
	return "http://" + listener.Addr().String() + "/", func() {
		srv.Close()
		goes.Wait()
	}, nil
}
