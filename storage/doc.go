// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// maintain the on-disk payload store
//
// This maintains a LevelDB database split into a series of pools.
// Each pool is defined by a single prefix byte.
//
// Notes:
// 1. ++        = concatenation of byte data
// 2. digest    = 64 byte SHA3-512(cipher text)
// 3. key       = 32 byte public key
//
// Payloads:
//
//   T ++ digest               - encoded payload
//                               data: JSON of payload.Encoded
//
// Index:
//
//   K ++ key ++ digest        - payloads a key may read, as sender or recipient
//                               data: 0x00 = recipient, 0x01 = sender
//
// Raw:
//
//   R ++ digest               - raw transactions not yet distributed
//                               data: JSON of RawTransaction
//
// Version:
//
//   0x00 ++ "VERSION"         - big endian uint32
package storage
