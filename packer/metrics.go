// Copyright (c) 2020 The Planck developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package packer

import "github.com/planck-zk/planck/metrics"

var (
	metricTxKindCounter = metrics.LazyLoadCounterVec("packer_tx_kind", []string{"kind"})
	metricBlockTxGauge  = metrics.LazyLoadGauge("packer_block_tx_count")
)
