// Copyright (c) 2021 The Planck developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package kv declares the key-value store contract the ledger persists through.
package kv

// Getter reads keys.
type Getter interface {
	// Get returns the value stored under key. A missing key is reported as
	// an error recognized by IsNotFound.
	Get(key []byte) ([]byte, error)
	IsNotFound(error) bool

	// NewIterator walks keys inside r in ascending order.
	NewIterator(r Range) Iterator
}

// Putter writes keys.
type Putter interface {
	Put(key, value []byte) error
	Delete(key []byte) error

	// NewBatch starts an atomic group of writes.
	NewBatch() Batch
}

// GetPutter combines reads and writes.
type GetPutter interface {
	Getter
	Putter
}

// GetPutCloser is a store the owner must close.
type GetPutCloser interface {
	GetPutter
	Close() error
}

// Batch buffers writes until Write commits them atomically.
type Batch interface {
	Putter

	Len() int
	Write() error
}

// Iterator walks a key range. Release must be called when done.
type Iterator interface {
	Next() bool
	Release()
	Error() error

	Key() []byte
	Value() []byte
}

// Range bounds an iteration: Start inclusive, Limit exclusive. A nil bound
// leaves that side open.
type Range struct {
	Start []byte
	Limit []byte
}
