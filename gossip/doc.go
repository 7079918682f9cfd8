// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package gossip - keep the party directory in step with peers
//
// each contact sends the current view to a peer and merges the view it
// sends back.  A round contacts every known party concurrently and waits
// for all of them; an unreachable peer is logged and counted but never
// stops the round.  Merging is idempotent so contacting a peer that
// already shares our view, or ourselves via a loop, changes nothing.
package gossip
