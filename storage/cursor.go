// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"github.com/syndtr/goleveldb/leveldb/iterator"

	"github.com/bitmark-inc/txrelay/fault"
	"github.com/bitmark-inc/txrelay/keys"
	"github.com/bitmark-inc/txrelay/payload"
)

// Cursor - lazy, finite sequence of payloads
//
//   c := store.PayloadsFor(key)
//   defer c.Close()
//   for c.Next() {
//       p := c.Payload()
//   }
//   err := c.Err()
type Cursor interface {
	Next() bool
	Payload() *payload.Encoded
	Err() error
	Close()
}

// walks the K pool for one key
//
// every key sees only its own box, whatever its role; a sender without
// a box of its own is skipped
type indexCursor struct {
	store   *Store
	key     keys.PublicKey
	iter    iterator.Iterator
	current *payload.Encoded
	err     error
}

func newIndexCursor(s *Store, key keys.PublicKey) *indexCursor {
	return &indexCursor{
		store: s,
		key:   key,
		iter:  s.index.iterator(key[:]),
	}
}

// Next - advance, false at the end or on error
func (c *indexCursor) Next() bool {
	c.current = nil
	if nil != c.err || nil == c.iter {
		return false
	}

	for c.iter.Next() {
		k := c.iter.Key()
		if 1+keys.KeySize+payload.DigestSize != len(k) {
			continue
		}
		var digest payload.Digest
		copy(digest[:], k[1+keys.KeySize:])

		c.store.Lock()
		var p *payload.Encoded
		var err error = fault.ErrNotInitialised
		if nil != c.store.db {
			p, err = c.store.read(digest)
		}
		c.store.Unlock()
		if nil != err {
			c.err = err
			return false
		}
		if nil == p {
			// deleted after the iterator was created
			continue
		}

		if scoped, ok := p.ForRecipient(c.key); ok {
			c.current = scoped
			return true
		}
	}
	c.err = c.iter.Error()
	return false
}

// Payload - the item Next moved to
func (c *indexCursor) Payload() *payload.Encoded {
	return c.current
}

// Err - first error seen
func (c *indexCursor) Err() error {
	return c.err
}

// Close - release the iterator, safe to repeat
func (c *indexCursor) Close() {
	if nil != c.iter {
		c.iter.Release()
		c.iter = nil
	}
}

// a cursor that only reports an error
type errorCursor struct {
	err error
}

func (c *errorCursor) Next() bool                { return false }
func (c *errorCursor) Payload() *payload.Encoded { return nil }
func (c *errorCursor) Err() error                { return c.err }
func (c *errorCursor) Close()                    {}
