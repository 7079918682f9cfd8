// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package transaction - client facing operations on private transactions
//
// a sent transaction is encrypted by the enclave, stored locally, then
// published to its recipients.  The sender is always added as a
// recipient so it can read its own transactions back.  A publish
// failure leaves the local copy in place and is returned together with
// the digest so the client can distribute it again later.
package transaction
