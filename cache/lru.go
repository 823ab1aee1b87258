// Copyright (c) 2021 The Planck developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package cache holds the response caches of the query surface.
package cache

import lru "github.com/hashicorp/golang-lru"

// LRU is a fixed-capacity cache for immutable records. There is no
// invalidation path: callers must only store values that can never change,
// such as records of committed blocks.
type LRU struct {
	inner *lru.Cache
}

// NewLRU creates a cache holding at most capacity entries.
func NewLRU(capacity int) (*LRU, error) {
	inner, err := lru.New(capacity)
	if err != nil {
		return nil, err
	}
	return &LRU{inner: inner}, nil
}

// Get returns the cached value for key, if present.
func (c *LRU) Get(key interface{}) (interface{}, bool) {
	return c.inner.Get(key)
}

// Add stores value under key, evicting the least recently used entry when
// the cache is full.
func (c *LRU) Add(key, value interface{}) {
	c.inner.Add(key, value)
}

// Len returns the number of cached entries.
func (c *LRU) Len() int {
	return c.inner.Len()
}
