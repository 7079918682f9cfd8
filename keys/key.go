// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package keys

import (
	"bytes"
	"encoding/base64"
	"strings"

	"github.com/bitmark-inc/txrelay/fault"
)

// KeySize - bytes in a public or private key
const KeySize = 32

// PublicKey - identity of a transaction participant
type PublicKey [KeySize]byte

// PrivateKey - secret half of a key pair
type PrivateKey [KeySize]byte

// ParsePublicKey - decode the base64 text form
func ParsePublicKey(s string) (PublicKey, error) {
	var key PublicKey
	b, err := base64.StdEncoding.DecodeString(strings.TrimSpace(s))
	if nil != err || KeySize != len(b) {
		return key, fault.ErrInvalidPublicKey
	}
	copy(key[:], b)
	return key, nil
}

// PublicKeyFromBytes - copy a raw 32 byte key
func PublicKeyFromBytes(b []byte) (PublicKey, error) {
	var key PublicKey
	if KeySize != len(b) {
		return key, fault.ErrInvalidPublicKey
	}
	copy(key[:], b)
	return key, nil
}

// String - base64 text form
func (k PublicKey) String() string {
	return base64.StdEncoding.EncodeToString(k[:])
}

// IsZero - true for the all-zero key
func (k PublicKey) IsZero() bool {
	return k == PublicKey{}
}

// Less - byte order, for sorting
func (k PublicKey) Less(other PublicKey) bool {
	return bytes.Compare(k[:], other[:]) < 0
}

// MarshalText - convert key to base64
func (k PublicKey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText - convert base64 text to key
func (k *PublicKey) UnmarshalText(s []byte) error {
	key, err := ParsePublicKey(string(s))
	if nil != err {
		return err
	}
	*k = key
	return nil
}

// PrivateKeyFromBytes - copy a raw 32 byte key
func PrivateKeyFromBytes(b []byte) (PrivateKey, error) {
	var key PrivateKey
	if KeySize != len(b) {
		return key, fault.ErrInvalidPrivateKey
	}
	copy(key[:], b)
	return key, nil
}

// String - never print the secret
func (k PrivateKey) String() string {
	return "PrivateKey(*)"
}

// KeyPair - a managed identity
type KeyPair struct {
	Public  PublicKey
	Private PrivateKey
}
