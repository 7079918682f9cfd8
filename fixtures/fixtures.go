// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package fixtures - shared helpers for package tests
package fixtures

import (
	"fmt"
	"os"

	"github.com/bitmark-inc/logger"
	"golang.org/x/crypto/curve25519"

	"github.com/bitmark-inc/txrelay/keys"
)

const (
	dir         = "testing"
	LogCategory = "testing"
)

// fixed key pairs, derived from constant private keys
var (
	KeyPair1 = makeKeyPair(1)
	KeyPair2 = makeKeyPair(2)
	KeyPair3 = makeKeyPair(3)
	KeyPair4 = makeKeyPair(4)

	PublicKey1 = KeyPair1.Public
	PublicKey2 = KeyPair2.Public
	PublicKey3 = KeyPair3.Public
	PublicKey4 = KeyPair4.Public
)

func makeKeyPair(n byte) *keys.KeyPair {
	var private [keys.KeySize]byte
	for i := range private {
		private[i] = n
	}
	var public [keys.KeySize]byte
	curve25519.ScalarBaseMult(&public, &private)
	return &keys.KeyPair{
		Public:  keys.PublicKey(public),
		Private: keys.PrivateKey(private),
	}
}

// SetupTestLogger - log to a scratch directory, critical only
func SetupTestLogger() {
	removeFiles()
	_ = os.Mkdir(dir, 0700)

	logging := logger.Configuration{
		Directory: dir,
		File:      fmt.Sprintf("%s.log", LogCategory),
		Size:      1048576,
		Count:     10,
		Console:   false,
		Levels: map[string]string{
			logger.DefaultTag: "critical",
		},
	}

	// start logging
	_ = logger.Initialise(logging)
}

// TeardownTestLogger - stop logging and remove the scratch directory
func TeardownTestLogger() {
	logger.Finalise()
	removeFiles()
}

func removeFiles() {
	err := os.RemoveAll(dir)
	if nil != err {
		fmt.Println("remove dir with error: ", err)
	}
}
