// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package publish - distribute an encoded payload to its recipients
//
// distribution is all or nothing from the caller's point of view:
//
//   1. every recipient key is resolved to a URL from one directory
//      snapshot; if any key is unknown nothing is sent at all
//   2. each remote recipient is sent a copy holding only its own box,
//      all pushes run concurrently and every one is waited for
//
// a failed push does not undo the others, there is no retract message.
// The caller is told which recipients failed and why, and may publish
// again later since receivers store idempotently.
package publish
