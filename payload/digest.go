// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package payload

import (
	"encoding/base64"
	"strings"

	"golang.org/x/crypto/sha3"

	"github.com/bitmark-inc/txrelay/fault"
)

// DigestSize - bytes in a SHA3-512 digest
const DigestSize = 64

// Digest - SHA3-512 of the cipher text
type Digest [DigestSize]byte

// NewDigest - digest of some cipher text
func NewDigest(cipherText []byte) Digest {
	return Digest(sha3.Sum512(cipherText))
}

// ParseDigest - decode base64, standard or URL alphabet
func ParseDigest(s string) (Digest, error) {
	var d Digest
	s = strings.TrimSpace(s)
	b, err := base64.StdEncoding.DecodeString(s)
	if nil != err {
		b, err = base64.URLEncoding.DecodeString(s)
	}
	if nil != err || DigestSize != len(b) {
		return d, fault.ErrInvalidDigest
	}
	copy(d[:], b)
	return d, nil
}

// String - base64 text form
func (d Digest) String() string {
	return base64.StdEncoding.EncodeToString(d[:])
}

// URLString - base64 form safe for a URL path
func (d Digest) URLString() string {
	return base64.URLEncoding.EncodeToString(d[:])
}

// MarshalText - convert digest to base64
func (d Digest) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText - convert base64 text to digest
func (d *Digest) UnmarshalText(s []byte) error {
	digest, err := ParseDigest(string(s))
	if nil != err {
		return err
	}
	*d = digest
	return nil
}
