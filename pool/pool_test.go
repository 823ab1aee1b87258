// Copyright (c) 2020 The Planck developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planck-zk/planck/planck"
	"github.com/planck-zk/planck/tx"
)

func deposit(serial uint64) tx.Tx {
	return &tx.Deposit{
		Serial: serial,
		To:     planck.Address{0x01},
		Token:  0,
		Amount: big.NewInt(10),
	}
}

func TestAddDrain(t *testing.T) {
	p := New(10)

	require.Nil(t, p.Add(deposit(1)))
	require.Nil(t, p.Add(deposit(2)))
	require.Nil(t, p.Add(deposit(3)))
	assert.Equal(t, 3, p.Len())

	drained := p.Drain(2)
	require.Len(t, drained, 2)
	assert.Equal(t, deposit(1).Hash(), drained[0].Hash())
	assert.Equal(t, deposit(2).Hash(), drained[1].Hash())
	assert.Equal(t, 1, p.Len())

	drained = p.Drain(0)
	require.Len(t, drained, 1)
	assert.Equal(t, 0, p.Len())
	assert.Nil(t, p.Drain(0))
}

func TestKnownTx(t *testing.T) {
	p := New(10)

	require.Nil(t, p.Add(deposit(1)))
	assert.Equal(t, ErrKnownTx, p.Add(deposit(1)))

	// drained txs may be resubmitted
	p.Drain(0)
	assert.Nil(t, p.Add(deposit(1)))
}

func TestPoolFull(t *testing.T) {
	p := New(2)

	require.Nil(t, p.Add(deposit(1)))
	require.Nil(t, p.Add(deposit(2)))
	assert.Equal(t, ErrPoolFull, p.Add(deposit(3)))
}

func TestWaiterWoken(t *testing.T) {
	p := New(10)
	w := p.NewWaiter()

	go func() {
		time.Sleep(10 * time.Millisecond)
		p.Add(deposit(1))
	}()

	select {
	case <-w.C():
	case <-time.After(time.Second):
		t.Fatal("waiter not woken by Add")
	}
	assert.Equal(t, 1, p.Len())
}
