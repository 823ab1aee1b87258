// Copyright (c) 2020 The Planck developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"math/big"

	"github.com/planck-zk/planck/planck"
)

// CollectedFee is the fee output of one operation. It is a side output, not
// part of the ledger: the block builder aggregates collected fees per token and
// credits the total to the fee-collector account at block finalization.
type CollectedFee struct {
	Token  planck.TokenID
	Amount *big.Int
}
