// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package rpc - HTTP surfaces for the local client and the operator
//
// client:
//
//   POST   /send                 encrypt, store and publish
//   POST   /receive              decrypt a stored transaction
//   GET    /transaction/{hash}   as /receive, "to" as a query parameter
//   DELETE /transaction/{hash}   remove a stored transaction
//   POST   /storeraw             store a transaction for later signing
//   POST   /sendsignedtx         publish a previously stored raw transaction
//   POST   /republish            publish a stored transaction again
//   GET    /upcheck              liveness
//
// admin:
//
//   GET    /partyinfo            current directory
//   POST   /peers                add a peer URL
//   POST   /recover              recover one key, or every managed key
//   GET    /metrics              prometheus exposition
package rpc
