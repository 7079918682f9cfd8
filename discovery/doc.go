// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package discovery - seed party URLs from DNS TXT records
//
// record format, one node per record:
//
//   txrelay=v1 u=https://node-a.example.org:9001 f=<hex SHA3-256 certificate fingerprint>
//
// "u" is required and may be repeated, "f" is optional. The domain is
// looked up once at startup and again at an interval taken from the TTL
// of the domain's SOA record.
package discovery
