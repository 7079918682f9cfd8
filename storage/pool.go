// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	ldb_util "github.com/syndtr/goleveldb/leveldb/util"
)

// one prefixed key space within the database
type poolHandle struct {
	prefix byte
	db     *leveldb.DB
}

func newPoolHandle(db *leveldb.DB, prefix byte) *poolHandle {
	return &poolHandle{
		prefix: prefix,
		db:     db,
	}
}

// prepend the prefix onto the key
func (p *poolHandle) prefixKey(key []byte) []byte {
	prefixedKey := make([]byte, 1, len(key)+1)
	prefixedKey[0] = p.prefix
	return append(prefixedKey, key...)
}

// read a value, nil if not found
func (p *poolHandle) get(key []byte) ([]byte, error) {
	value, err := p.db.Get(p.prefixKey(key), nil)
	if leveldb.ErrNotFound == err {
		return nil, nil
	}
	return value, err
}

func (p *poolHandle) has(key []byte) (bool, error) {
	return p.db.Has(p.prefixKey(key), nil)
}

// queue a put into a batch
func (p *poolHandle) put(batch *leveldb.Batch, key []byte, value []byte) {
	batch.Put(p.prefixKey(key), value)
}

// queue a delete into a batch
func (p *poolHandle) delete(batch *leveldb.Batch, key []byte) {
	batch.Delete(p.prefixKey(key))
}

// iterate all keys beginning with prefix ++ start
//
// keys returned by the iterator still carry the pool prefix
func (p *poolHandle) iterator(start []byte) iterator.Iterator {
	r := ldb_util.BytesPrefix(p.prefixKey(start))
	return p.db.NewIterator(r, nil)
}
