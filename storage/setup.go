// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/bitmark-inc/logger"
	"github.com/syndtr/goleveldb/leveldb"
	ldb_opt "github.com/syndtr/goleveldb/leveldb/opt"

	"github.com/bitmark-inc/txrelay/fault"
)

// pool prefixes
const (
	payloadPrefix = 'T'
	indexPrefix   = 'K'
	rawPrefix     = 'R'
)

// for database version
var versionKey = []byte{0x00, 'V', 'E', 'R', 'S', 'I', 'O', 'N'}

const currentDBVersion = 0x100

// pool access modes
const (
	ReadOnly  = true
	ReadWrite = false
)

// Store - leveldb backed payload storage
type Store struct {
	sync.Mutex // serialises read-check-write sequences
	log        *logger.L
	db         *leveldb.DB
	payloads   *poolHandle
	index      *poolHandle
	raw        *poolHandle
	cache      *payloadCache
}

// Open - open or create the database
func Open(database string, readOnly bool) (*Store, error) {
	log := logger.New("storage")

	db, version, err := getDB(database, readOnly)
	if nil != err {
		log.Errorf("open: %q  error: %s", database, err)
		return nil, err
	}

	switch {
	case 0 == version && !readOnly:
		if err := putVersion(db, currentDBVersion); nil != err {
			db.Close()
			return nil, err
		}
	case currentDBVersion != version:
		log.Criticalf("database version: %d  expected: %d", version, currentDBVersion)
		db.Close()
		return nil, fault.ErrStorageVersion
	}

	log.Infof("opened: %q  version: 0x%x", database, currentDBVersion)

	return &Store{
		log:      log,
		db:       db,
		payloads: newPoolHandle(db, payloadPrefix),
		index:    newPoolHandle(db, indexPrefix),
		raw:      newPoolHandle(db, rawPrefix),
		cache:    newPayloadCache(),
	}, nil
}

// Close - close the database
func (s *Store) Close() {
	s.Lock()
	defer s.Unlock()
	if nil != s.db {
		s.db.Close()
		s.db = nil
		s.cache.clear()
		s.log.Info("closed")
	}
}

// return:
//   database handle
//   version number
func getDB(name string, readOnly bool) (*leveldb.DB, int, error) {
	opt := &ldb_opt.Options{
		ErrorIfExist:   false,
		ErrorIfMissing: readOnly,
		ReadOnly:       readOnly,
	}

	db, err := leveldb.OpenFile(name, opt)
	if nil != err {
		return nil, 0, err
	}

	versionValue, err := db.Get(versionKey, nil)
	if leveldb.ErrNotFound == err {
		return db, 0, nil
	} else if nil != err {
		db.Close()
		return nil, 0, err
	}

	if 4 != len(versionValue) {
		db.Close()
		return nil, 0, fmt.Errorf("incompatible database version length: expected: %d  actual: %d", 4, len(versionValue))
	}

	version := int(binary.BigEndian.Uint32(versionValue))
	return db, version, nil
}

func putVersion(db *leveldb.DB, version int) error {
	currentVersion := make([]byte, 4)
	binary.BigEndian.PutUint32(currentVersion, uint32(version))

	return db.Put(versionKey, currentVersion, nil)
}
