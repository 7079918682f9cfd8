// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package p2p - the node to node surface
//
//   POST /partyinfo  directory view in, merged view out
//   POST /push       one recipient scoped payload in, digest out
//   POST /resend     resend request in, JSON array of payloads out
//   GET  /upcheck    liveness
//
// Service holds the behaviour and is usable in process through the
// memory transport; NewHandler binds it to HTTP.
package p2p
