// Copyright (c) 2021 The Planck developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package lvldb backs the kv contract with goleveldb. A node opens one Store
// for the committed ledger and shares it for its whole lifetime.
package lvldb

import (
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/planck-zk/planck/kv"
)

const (
	minCacheSizeMB  = 16
	minOpenFiles    = 16
	bloomBitsPerKey = 10
)

// Options tunes the underlying goleveldb instance. Values below the package
// minimums are raised to them.
type Options struct {
	// CacheSize is the memory budget in MB, split between the block cache
	// and the write buffers.
	CacheSize              int
	OpenFilesCacheCapacity int
}

func (o Options) leveldbOptions() *opt.Options {
	cacheSize := max(o.CacheSize, minCacheSizeMB)
	return &opt.Options{
		OpenFilesCacheCapacity: max(o.OpenFilesCacheCapacity, minOpenFiles),
		BlockCacheCapacity:     cacheSize / 2 * opt.MiB,
		// goleveldb keeps two write buffers internally
		WriteBuffer: cacheSize / 4 * opt.MiB,
		Filter:      filter.NewBloomFilter(bloomBitsPerKey),
	}
}

// Store is a goleveldb-backed key-value store.
type Store struct {
	db *leveldb.DB
}

var _ kv.GetPutCloser = (*Store)(nil)

// New opens the store at path, creating it when absent.
func New(path string, opts Options) (*Store, error) {
	stg, err := storage.OpenFile(path, false)
	if err != nil {
		return nil, errors.Wrap(err, "open leveldb storage")
	}
	return open(stg, opts)
}

// NewMem creates a throwaway in-memory store, for tests.
func NewMem() (*Store, error) {
	return open(storage.NewMemStorage(), Options{})
}

func open(stg storage.Storage, opts Options) (*Store, error) {
	db, err := leveldb.Open(stg, opts.leveldbOptions())
	if err != nil {
		return nil, errors.Wrap(err, "open leveldb")
	}
	return &Store{db: db}, nil
}

// IsNotFound recognizes the error Get returns for a missing key.
func (s *Store) IsNotFound(err error) bool {
	return errors.Is(err, leveldb.ErrNotFound)
}

// Get returns the value stored under key.
func (s *Store) Get(key []byte) ([]byte, error) {
	return s.db.Get(key, nil)
}

// Put stores value under key.
func (s *Store) Put(key, value []byte) error {
	return s.db.Put(key, value, nil)
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Store) Delete(key []byte) error {
	return s.db.Delete(key, nil)
}

// Close releases the store. All later operations fail.
func (s *Store) Close() error {
	return s.db.Close()
}

// NewBatch starts an atomic group of writes.
func (s *Store) NewBatch() kv.Batch {
	return &writeBatch{store: s}
}

// NewIterator walks keys inside r in ascending order.
func (s *Store) NewIterator(r kv.Range) kv.Iterator {
	return s.db.NewIterator(&util.Range{Start: r.Start, Limit: r.Limit}, nil)
}

// writeBatch buffers writes; nothing reaches the store until Write.
type writeBatch struct {
	store *Store
	ops   leveldb.Batch
}

func (b *writeBatch) Put(key, value []byte) error {
	b.ops.Put(key, value)
	return nil
}

func (b *writeBatch) Delete(key []byte) error {
	b.ops.Delete(key)
	return nil
}

func (b *writeBatch) NewBatch() kv.Batch {
	return b.store.NewBatch()
}

func (b *writeBatch) Len() int {
	return b.ops.Len()
}

// Write commits the buffered ops in one atomic leveldb write.
func (b *writeBatch) Write() error {
	return b.store.db.Write(&b.ops, nil)
}
