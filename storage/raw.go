// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"encoding/json"

	"github.com/syndtr/goleveldb/leveldb"

	"github.com/bitmark-inc/txrelay/fault"
	"github.com/bitmark-inc/txrelay/keys"
	"github.com/bitmark-inc/txrelay/payload"
)

// RawTransaction - a transaction sealed for its sender only
//
// held until a signed version is sent to its recipients
type RawTransaction struct {
	Digest           payload.Digest `json:"digest"`
	EncryptedPayload []byte         `json:"encryptedPayload"`
	EncryptedKey     []byte         `json:"encryptedKey"`
	Nonce            []byte         `json:"nonce"`
	Sender           keys.PublicKey `json:"sender"`
}

// StoreRaw - save a raw transaction, replacing any with the same digest
func (s *Store) StoreRaw(raw *RawTransaction) error {
	data, err := json.Marshal(raw)
	if nil != err {
		return err
	}

	s.Lock()
	defer s.Unlock()

	if nil == s.db {
		return fault.ErrNotInitialised
	}
	batch := new(leveldb.Batch)
	s.raw.put(batch, raw.Digest[:], data)
	return s.db.Write(batch, nil)
}

// GetRaw - read a raw transaction
func (s *Store) GetRaw(digest payload.Digest) (*RawTransaction, error) {
	s.Lock()
	defer s.Unlock()

	if nil == s.db {
		return nil, fault.ErrNotInitialised
	}
	data, err := s.raw.get(digest[:])
	if nil != err {
		return nil, err
	}
	if nil == data {
		return nil, fault.ErrTransactionNotFound
	}
	raw := &RawTransaction{}
	if err := json.Unmarshal(data, raw); nil != err {
		return nil, fault.ErrInvalidPayload
	}
	return raw, nil
}

// DeleteRaw - remove a raw transaction
func (s *Store) DeleteRaw(digest payload.Digest) error {
	s.Lock()
	defer s.Unlock()

	if nil == s.db {
		return fault.ErrNotInitialised
	}
	found, err := s.raw.has(digest[:])
	if nil != err {
		return err
	}
	if !found {
		return fault.ErrTransactionNotFound
	}
	batch := new(leveldb.Batch)
	s.raw.delete(batch, digest[:])
	return s.db.Write(batch, nil)
}
