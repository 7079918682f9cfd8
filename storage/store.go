// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"bytes"

	"github.com/syndtr/goleveldb/leveldb"

	"github.com/bitmark-inc/txrelay/fault"
	"github.com/bitmark-inc/txrelay/keys"
	"github.com/bitmark-inc/txrelay/payload"
)

//go:generate mockgen -destination=mocks/store.go -package=mocks github.com/bitmark-inc/txrelay/storage Handle,Cursor

// Outcome - effect of storing a payload
type Outcome int

// possible outcomes
const (
	Inserted Outcome = iota
	Updated
	AlreadyPresent
)

func (o Outcome) String() string {
	switch o {
	case Inserted:
		return "inserted"
	case Updated:
		return "updated"
	case AlreadyPresent:
		return "already present"
	default:
		return "unknown"
	}
}

// Handle - payload storage as used by the relay
//
// StoreIfAbsent is idempotent by digest: storing the same payload any
// number of times leaves one record
type Handle interface {
	StoreIfAbsent(p *payload.Encoded) (payload.Digest, Outcome, error)
	Get(digest payload.Digest) (*payload.Encoded, error)
	Has(digest payload.Digest) (bool, error)
	Delete(digest payload.Digest) error
	PayloadsFor(key keys.PublicKey) Cursor

	StoreRaw(raw *RawTransaction) error
	GetRaw(digest payload.Digest) (*RawTransaction, error)
	DeleteRaw(digest payload.Digest) error
}

// index entry values
const (
	asRecipient = 0x00
	asSender    = 0x01
)

// StoreIfAbsent - insert a payload unless already held
//
// a held payload lacking some of the incoming recipient boxes is
// extended with them; a payload that differs in anything else is a
// storage conflict
func (s *Store) StoreIfAbsent(p *payload.Encoded) (payload.Digest, Outcome, error) {
	digest := p.Digest()

	if err := p.Validate(); nil != err {
		return digest, AlreadyPresent, err
	}

	s.Lock()
	defer s.Unlock()

	if nil == s.db {
		return digest, AlreadyPresent, fault.ErrNotInitialised
	}

	existing, err := s.read(digest)
	if nil != err {
		return digest, AlreadyPresent, err
	}

	outcome := Inserted
	record := p
	if nil != existing {
		if conflicts(existing, p) {
			fault.Criticalf("storage conflict for digest: %s", digest)
			return digest, AlreadyPresent, fault.ErrStorageConflict
		}
		merged, added := existing.MergeRecipients(p)
		if !added {
			return digest, AlreadyPresent, nil
		}
		outcome = Updated
		record = merged
	}

	data, err := record.Marshal()
	if nil != err {
		return digest, AlreadyPresent, err
	}

	batch := new(leveldb.Batch)
	s.payloads.put(batch, digest[:], data)
	s.index.put(batch, indexKey(record.SenderKey, digest), []byte{asSender})
	for _, key := range record.RecipientKeys {
		if key == record.SenderKey {
			continue
		}
		s.index.put(batch, indexKey(key, digest), []byte{asRecipient})
	}
	if err := s.db.Write(batch, nil); nil != err {
		return digest, AlreadyPresent, err
	}

	s.cache.set(digest, record)
	s.log.Debugf("%s: %s", outcome, digest)
	return digest, outcome, nil
}

// Get - read a payload by digest
func (s *Store) Get(digest payload.Digest) (*payload.Encoded, error) {
	s.Lock()
	defer s.Unlock()

	if nil == s.db {
		return nil, fault.ErrNotInitialised
	}
	p, err := s.read(digest)
	if nil != err {
		return nil, err
	}
	if nil == p {
		return nil, fault.ErrTransactionNotFound
	}
	return p, nil
}

// Has - check for a payload
func (s *Store) Has(digest payload.Digest) (bool, error) {
	if _, ok := s.cache.get(digest); ok {
		return true, nil
	}

	s.Lock()
	defer s.Unlock()

	if nil == s.db {
		return false, fault.ErrNotInitialised
	}
	return s.payloads.has(digest[:])
}

// Delete - remove a payload and its index entries
func (s *Store) Delete(digest payload.Digest) error {
	s.Lock()
	defer s.Unlock()

	if nil == s.db {
		return fault.ErrNotInitialised
	}
	p, err := s.read(digest)
	if nil != err {
		return err
	}
	if nil == p {
		return fault.ErrTransactionNotFound
	}

	batch := new(leveldb.Batch)
	s.payloads.delete(batch, digest[:])
	s.index.delete(batch, indexKey(p.SenderKey, digest))
	for _, key := range p.RecipientKeys {
		s.index.delete(batch, indexKey(key, digest))
	}
	if err := s.db.Write(batch, nil); nil != err {
		return err
	}
	s.cache.remove(digest)
	s.log.Debugf("deleted: %s", digest)
	return nil
}

// PayloadsFor - lazily iterate every payload key may read
func (s *Store) PayloadsFor(key keys.PublicKey) Cursor {
	s.Lock()
	defer s.Unlock()

	if nil == s.db {
		return &errorCursor{err: fault.ErrNotInitialised}
	}
	return newIndexCursor(s, key)
}

// read and decode, nil if absent; caller holds the lock
func (s *Store) read(digest payload.Digest) (*payload.Encoded, error) {
	if p, ok := s.cache.get(digest); ok {
		return p, nil
	}
	data, err := s.payloads.get(digest[:])
	if nil != err || nil == data {
		return nil, err
	}
	p, err := payload.Unmarshal(data)
	if nil != err {
		return nil, err
	}
	s.cache.set(digest, p)
	return p, nil
}

func indexKey(key keys.PublicKey, digest payload.Digest) []byte {
	k := make([]byte, 0, keys.KeySize+payload.DigestSize)
	k = append(k, key[:]...)
	return append(k, digest[:]...)
}

// true if two payloads with the same digest disagree on shared fields
func conflicts(a *payload.Encoded, b *payload.Encoded) bool {
	if a.SenderKey != b.SenderKey ||
		!bytes.Equal(a.CipherTextNonce, b.CipherTextNonce) ||
		!bytes.Equal(a.RecipientNonce, b.RecipientNonce) {
		return true
	}
	for i, key := range b.RecipientKeys {
		box, ok := a.BoxFor(key)
		if ok && !bytes.Equal(box, b.RecipientBoxes[i]) {
			return true
		}
	}
	return false
}
