// Copyright (c) 2021 The Planck developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lvldb

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/planck-zk/planck/kv"
)

func TestGetPut(t *testing.T) {
	db, err := NewMem()
	assert.Nil(t, err)
	defer db.Close()

	_, err = db.Get([]byte("a"))
	assert.True(t, db.IsNotFound(err))

	assert.Nil(t, db.Put([]byte("a"), []byte("1")))
	v, err := db.Get([]byte("a"))
	assert.Nil(t, err)
	assert.Equal(t, []byte("1"), v)

	assert.Nil(t, db.Delete([]byte("a")))
	_, err = db.Get([]byte("a"))
	assert.True(t, db.IsNotFound(err))
}

func TestBatch(t *testing.T) {
	db, err := NewMem()
	assert.Nil(t, err)
	defer db.Close()

	batch := db.NewBatch()
	assert.Nil(t, batch.Put([]byte("x"), []byte("1")))
	assert.Nil(t, batch.Put([]byte("y"), []byte("2")))
	assert.Equal(t, 2, batch.Len())

	// nothing visible until Write
	_, err = db.Get([]byte("x"))
	assert.True(t, db.IsNotFound(err))

	assert.Nil(t, batch.Write())
	v, err := db.Get([]byte("y"))
	assert.Nil(t, err)
	assert.Equal(t, []byte("2"), v)

	batch = db.NewBatch()
	assert.Nil(t, batch.Delete([]byte("x")))
	assert.Nil(t, batch.Write())
	_, err = db.Get([]byte("x"))
	assert.True(t, db.IsNotFound(err))
}

func TestIterator(t *testing.T) {
	db, err := NewMem()
	assert.Nil(t, err)
	defer db.Close()

	for _, k := range []string{"k1", "k2", "k3", "m1"} {
		assert.Nil(t, db.Put([]byte(k), []byte("v")))
	}

	it := db.NewIterator(kv.Range{Start: []byte("k"), Limit: []byte("l")})
	defer it.Release()

	var keys []string
	for it.Next() {
		keys = append(keys, string(it.Key()))
	}
	assert.Nil(t, it.Error())
	assert.Equal(t, []string{"k1", "k2", "k3"}, keys)
}
