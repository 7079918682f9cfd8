// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package partyinfo

import (
	"sync/atomic"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/txrelay/keys"
	"github.com/bitmark-inc/txrelay/util"
)

// Service - owner of the current view
//
// readers always get a complete snapshot; writers compute a new snapshot
// from the latest one and swap it in, retrying if another writer got
// there first
type Service struct {
	log     *logger.L
	current atomic.Value
}

// NewService - start from an initial view
func NewService(initial *PartyInfo) *Service {
	s := &Service{
		log: logger.New("partyinfo"),
	}
	s.current.Store(initial)
	return s
}

// Current - the latest snapshot
func (s *Service) Current() *PartyInfo {
	return s.current.Load().(*PartyInfo)
}

// Merge - fold in a view received from a peer
//
// the peer's own URL becomes a known party
func (s *Service) Merge(incoming *PartyInfo) MergeOutcome {
	if nil == incoming {
		return MergeOutcome{}
	}
	before, after := s.update(func(local *PartyInfo) *PartyInfo {
		return Merge(local, incoming).WithParty(incoming.URL())
	})
	outcome := Diff(incoming.URL(), before, after)
	if outcome.Changed() {
		s.log.Debugf("merge from: %q  recipients: %d  parties: %d", outcome.Peer, len(outcome.NewRecipients), len(outcome.NewParties))
	}
	return outcome
}

// AddParty - remember a peer URL, false if already known or invalid
func (s *Service) AddParty(url string) bool {
	if nil != util.ValidateURL(url) {
		return false
	}
	before, after := s.update(func(local *PartyInfo) *PartyInfo {
		return local.WithParty(url)
	})
	return before != after
}

// RegisterLocalKey - map key to this node's URL
//
// the only operation allowed to replace an existing mapping
func (s *Service) RegisterLocalKey(key keys.PublicKey) {
	s.update(func(local *PartyInfo) *PartyInfo {
		return local.WithRecipient(key, local.URL())
	})
	s.log.Infof("registered local key: %s", key)
}

// compare-and-swap loop, returns the replaced and the new snapshot
func (s *Service) update(f func(*PartyInfo) *PartyInfo) (*PartyInfo, *PartyInfo) {
	for {
		before := s.Current()
		after := f(before)
		if after == before {
			return before, after
		}
		if s.current.CompareAndSwap(before, after) {
			return before, after
		}
	}
}
