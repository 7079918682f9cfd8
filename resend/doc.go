// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package resend - recover payloads missed while a node was offline
//
// for one key the coordinator asks every known party, one after the
// other, for all payloads involving that key and stores each with the
// same idempotent call used for pushed payloads.  Each peer stream is
// drained or closed before the next peer is asked:
//
//   idle -> requesting(peer) -> draining(peer) -> idle
//
// a peer failing part way loses only the rest of its own stream; the
// payloads already stored stay and the next peer is still asked.
package resend
