// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package node - a running relay node
//
// ties the directory, gossip, publish and recovery components to one
// enclave, one store and one transport, and exposes the operations the
// daemon, the HTTP bindings and the key watcher need
package node
