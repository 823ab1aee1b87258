// Copyright (c) 2021 The Planck developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package co

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGoes(t *testing.T) {
	var g Goes
	var n atomic.Int32
	for range 10 {
		g.Go(func() { n.Add(1) })
	}
	g.Wait()
	assert.Equal(t, int32(10), n.Load())

	select {
	case <-g.Done():
	case <-time.After(time.Second):
		t.Fatal("Done not closed")
	}
}

func TestSignalBeforeWait(t *testing.T) {
	var sig Signal
	sig.Signal()

	w := sig.NewWaiter()
	select {
	case v := <-w.C():
		assert.True(t, v)
	case <-time.After(time.Second):
		t.Fatal("missed buffered signal")
	}
}

func TestBroadcastWakesAll(t *testing.T) {
	var sig Signal
	var g Goes
	var woken atomic.Int32

	ready := make(chan struct{}, 5)
	for range 5 {
		w := sig.NewWaiter()
		g.Go(func() {
			ready <- struct{}{}
			<-w.C()
			woken.Add(1)
		})
	}
	for range 5 {
		<-ready
	}
	sig.Broadcast()
	g.Wait()
	assert.Equal(t, int32(5), woken.Load())
}

func TestWaiterReusable(t *testing.T) {
	var sig Signal
	w := sig.NewWaiter()

	for range 3 {
		sig.Broadcast()
		select {
		case <-w.C():
		case <-time.After(time.Second):
			t.Fatal("waiter not reusable after broadcast")
		}
	}
}
