// Copyright (c) 2020 The Planck developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ticker

import (
	"context"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planck-zk/planck/planck"
	"github.com/planck-zk/planck/tx"
)

func newTestTicker(t *testing.T) *Ticker {
	tk := New(Config{
		TokenPrices: map[planck.TokenID]*big.Int{
			0: big.NewInt(1),
			2: big.NewInt(5),
		},
		KindCosts: map[tx.Kind]*big.Int{
			tx.KindTransfer: big.NewInt(3),
			tx.KindWithdraw: big.NewInt(10),
		},
	})
	t.Cleanup(tk.Close)
	return tk
}

func TestGetTxFee(t *testing.T) {
	tk := newTestTicker(t)
	ctx := context.Background()

	fee, err := tk.GetTxFee(ctx, tx.KindTransfer, 0)
	require.Nil(t, err)
	assert.Equal(t, int64(3), fee.Int64())

	fee, err = tk.GetTxFee(ctx, tx.KindWithdraw, 2)
	require.Nil(t, err)
	assert.Equal(t, int64(50), fee.Int64())

	// priority operations have no cost entry
	fee, err = tk.GetTxFee(ctx, tx.KindDeposit, 0)
	require.Nil(t, err)
	assert.Equal(t, int64(0), fee.Int64())
}

func TestUnpricedToken(t *testing.T) {
	tk := newTestTicker(t)

	_, err := tk.GetTxFee(context.Background(), tx.KindTransfer, 9)
	assert.NotNil(t, err)
}

func TestStoppedService(t *testing.T) {
	tk := New(Config{})
	tk.Close()

	_, err := tk.GetTxFee(context.Background(), tx.KindTransfer, 0)
	assert.Equal(t, ErrServiceStopped, err)
}
