// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package partyinfo

import (
	"sort"

	"github.com/bitmark-inc/txrelay/fault"
	"github.com/bitmark-inc/txrelay/keys"
	"github.com/bitmark-inc/txrelay/util"
)

// Recipient - a public key and the URL of the node holding it
//
// identity is the key, the URL is advisory and may be empty
type Recipient struct {
	Key keys.PublicKey
	URL string
}

// Party - a peer known by URL
type Party struct {
	URL string
}

// PartyInfo - a node's view of the network
//
// a PartyInfo is never modified after construction
type PartyInfo struct {
	url        string
	recipients map[keys.PublicKey]string
	parties    map[string]struct{}
}

// New - build a view, URLs are normalised
//
// a repeated key keeps its first non-empty URL
func New(url string, recipients []Recipient, parties []Party) *PartyInfo {
	p := &PartyInfo{
		url:        util.NormaliseURL(url),
		recipients: make(map[keys.PublicKey]string, len(recipients)),
		parties:    make(map[string]struct{}, len(parties)),
	}
	for _, r := range recipients {
		if existing, ok := p.recipients[r.Key]; ok && "" != existing {
			continue
		}
		p.recipients[r.Key] = util.NormaliseURL(r.URL)
	}
	for _, party := range parties {
		if u := util.NormaliseURL(party.URL); "" != u {
			p.parties[u] = struct{}{}
		}
	}
	return p
}

// Empty - a view holding only this node's URL
func Empty(url string) *PartyInfo {
	return New(url, nil, nil)
}

// URL - URL of the node owning this view
func (p *PartyInfo) URL() string {
	return p.url
}

// Recipients - sorted by key
func (p *PartyInfo) Recipients() []Recipient {
	result := make([]Recipient, 0, len(p.recipients))
	for key, url := range p.recipients {
		result = append(result, Recipient{Key: key, URL: url})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Key.Less(result[j].Key)
	})
	return result
}

// Parties - sorted by URL
func (p *PartyInfo) Parties() []Party {
	result := make([]Party, 0, len(p.parties))
	for url := range p.parties {
		result = append(result, Party{URL: url})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].URL < result[j].URL
	})
	return result
}

// HasRecipient - true if key is known, with or without a URL
func (p *PartyInfo) HasRecipient(key keys.PublicKey) bool {
	_, ok := p.recipients[key]
	return ok
}

// HasParty - true if url is a known party
func (p *PartyInfo) HasParty(url string) bool {
	_, ok := p.parties[util.NormaliseURL(url)]
	return ok
}

// ResolveURL - where to deliver for key
//
// fault.ErrRecipientUnresolved means "cannot deliver yet", a later gossip
// round may supply the URL
func (p *PartyInfo) ResolveURL(key keys.PublicKey) (string, error) {
	url, ok := p.recipients[key]
	if !ok || "" == url {
		return "", fault.ErrRecipientUnresolved
	}
	return url, nil
}

// AllPartyURLs - every peer URL known from parties or recipients
//
// this node's own URL is excluded; sorted
func (p *PartyInfo) AllPartyURLs() []string {
	set := make(map[string]struct{}, len(p.parties)+len(p.recipients))
	for url := range p.parties {
		set[url] = struct{}{}
	}
	for _, url := range p.recipients {
		if "" != url {
			set[url] = struct{}{}
		}
	}
	delete(set, p.url)

	result := make([]string, 0, len(set))
	for url := range set {
		result = append(result, url)
	}
	sort.Strings(result)
	return result
}

// Equal - same URL, recipients and parties
func (p *PartyInfo) Equal(other *PartyInfo) bool {
	if p.url != other.url ||
		len(p.recipients) != len(other.recipients) ||
		len(p.parties) != len(other.parties) {
		return false
	}
	for key, url := range p.recipients {
		if u, ok := other.recipients[key]; !ok || u != url {
			return false
		}
	}
	for url := range p.parties {
		if _, ok := other.parties[url]; !ok {
			return false
		}
	}
	return true
}

// WithParty - copy with one more party
func (p *PartyInfo) WithParty(url string) *PartyInfo {
	url = util.NormaliseURL(url)
	if "" == url || p.HasParty(url) {
		return p
	}
	c := p.clone()
	c.parties[url] = struct{}{}
	return c
}

// WithRecipient - copy with key mapped to url, replacing any mapping
func (p *PartyInfo) WithRecipient(key keys.PublicKey, url string) *PartyInfo {
	url = util.NormaliseURL(url)
	if existing, ok := p.recipients[key]; ok && existing == url {
		return p
	}
	c := p.clone()
	c.recipients[key] = url
	return c
}

func (p *PartyInfo) clone() *PartyInfo {
	c := &PartyInfo{
		url:        p.url,
		recipients: make(map[keys.PublicKey]string, len(p.recipients)),
		parties:    make(map[string]struct{}, len(p.parties)),
	}
	for key, url := range p.recipients {
		c.recipients[key] = url
	}
	for url := range p.parties {
		c.parties[url] = struct{}{}
	}
	return c
}
