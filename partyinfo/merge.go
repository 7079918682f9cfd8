// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package partyinfo

import (
	"sort"
)

// MergeOutcome - what a merge added to the local view
type MergeOutcome struct {
	Peer          string
	NewRecipients []Recipient
	NewParties    []Party
}

// Changed - true if the merge added anything
func (m MergeOutcome) Changed() bool {
	return 0 != len(m.NewRecipients) || 0 != len(m.NewParties)
}

// Merge - union of two views, neither input is modified
//
// parties are joined by URL and recipients by key.  When both views
// hold a key the local URL is kept, unless it is empty, so a node stays
// authoritative for keys it already knows.  The result keeps the local
// URL.
func Merge(local *PartyInfo, incoming *PartyInfo) *PartyInfo {
	if nil == incoming {
		return local
	}
	if nil == local {
		return incoming
	}

	result := local.clone()
	for key, url := range incoming.recipients {
		if existing, ok := result.recipients[key]; !ok || "" == existing {
			result.recipients[key] = url
		}
	}
	for url := range incoming.parties {
		result.parties[url] = struct{}{}
	}
	return result
}

// Diff - entries present in after but not in before
//
// a recipient whose URL went from empty to set counts as new
func Diff(peer string, before *PartyInfo, after *PartyInfo) MergeOutcome {
	outcome := MergeOutcome{
		Peer: peer,
	}
	for key, url := range after.recipients {
		if u, ok := before.recipients[key]; !ok || u != url {
			outcome.NewRecipients = append(outcome.NewRecipients, Recipient{Key: key, URL: url})
		}
	}
	for url := range after.parties {
		if _, ok := before.parties[url]; !ok {
			outcome.NewParties = append(outcome.NewParties, Party{URL: url})
		}
	}
	sort.Slice(outcome.NewRecipients, func(i, j int) bool {
		return outcome.NewRecipients[i].Key.Less(outcome.NewRecipients[j].Key)
	})
	sort.Slice(outcome.NewParties, func(i, j int) bool {
		return outcome.NewParties[i].URL < outcome.NewParties[j].URL
	})
	return outcome
}
