// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package partyinfo_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/txrelay/fixtures"
	"github.com/bitmark-inc/txrelay/keys"
	"github.com/bitmark-inc/txrelay/partyinfo"
)

const (
	urlA = "http://node-a:9001"
	urlB = "http://node-b:9001"
	urlC = "http://node-c:9001"
	urlD = "http://node-d:9001"
)

func recipientKeys(p *partyinfo.PartyInfo) map[keys.PublicKey]string {
	result := map[keys.PublicKey]string{}
	for _, r := range p.Recipients() {
		result[r.Key] = r.URL
	}
	return result
}

func partyURLs(p *partyinfo.PartyInfo) []string {
	result := []string{}
	for _, party := range p.Parties() {
		result = append(result, party.URL)
	}
	return result
}

func TestMergeIsCommutative(t *testing.T) {
	a := partyinfo.New(urlA,
		[]partyinfo.Recipient{{Key: fixtures.PublicKey1, URL: urlA}},
		[]partyinfo.Party{{URL: urlB}},
	)
	b := partyinfo.New(urlB,
		[]partyinfo.Recipient{{Key: fixtures.PublicKey2, URL: urlB}, {Key: fixtures.PublicKey3, URL: urlC}},
		[]partyinfo.Party{{URL: urlC}, {URL: urlD}},
	)

	ab := partyinfo.Merge(a, b)
	ba := partyinfo.Merge(b, a)

	assert.Equal(t, recipientKeys(ab), recipientKeys(ba), "recipients differ")
	assert.Equal(t, partyURLs(ab), partyURLs(ba), "parties differ")
	assert.Equal(t, urlA, ab.URL(), "merge changed local url")
	assert.Equal(t, urlB, ba.URL(), "merge changed local url")
}

func TestMergeIsIdempotent(t *testing.T) {
	a := partyinfo.New(urlA,
		[]partyinfo.Recipient{{Key: fixtures.PublicKey1, URL: urlA}, {Key: fixtures.PublicKey2}},
		[]partyinfo.Party{{URL: urlB}, {URL: urlC}},
	)

	assert.True(t, a.Equal(partyinfo.Merge(a, a)), "merge with self changed view")

	b := partyinfo.New(urlB, []partyinfo.Recipient{{Key: fixtures.PublicKey3, URL: urlB}}, nil)
	once := partyinfo.Merge(a, b)
	twice := partyinfo.Merge(once, b)
	assert.True(t, once.Equal(twice), "repeated merge changed view")
}

func TestMergeIsMonotonic(t *testing.T) {
	a := partyinfo.New(urlA,
		[]partyinfo.Recipient{{Key: fixtures.PublicKey1, URL: urlA}, {Key: fixtures.PublicKey2, URL: urlA}},
		[]partyinfo.Party{{URL: urlB}},
	)
	b := partyinfo.New(urlB,
		[]partyinfo.Recipient{{Key: fixtures.PublicKey2, URL: urlC}, {Key: fixtures.PublicKey3, URL: urlB}},
		[]partyinfo.Party{{URL: urlD}},
	)

	merged := partyinfo.Merge(a, b)
	for _, input := range []*partyinfo.PartyInfo{a, b} {
		for _, r := range input.Recipients() {
			assert.True(t, merged.HasRecipient(r.Key), "lost recipient: %s", r.Key)
		}
		for _, party := range input.Parties() {
			assert.True(t, merged.HasParty(party.URL), "lost party: %s", party.URL)
		}
	}

	// inputs are untouched
	assert.Equal(t, 2, len(a.Recipients()), "local input modified")
	assert.Equal(t, []string{urlB}, partyURLs(a), "local input modified")
	assert.Equal(t, []string{urlD}, partyURLs(b), "incoming input modified")
}

func TestMergeKeepsLocalURL(t *testing.T) {
	local := partyinfo.New(urlA, []partyinfo.Recipient{{Key: fixtures.PublicKey1, URL: urlA}}, nil)
	remote := partyinfo.New(urlC, []partyinfo.Recipient{{Key: fixtures.PublicKey1, URL: urlC}}, nil)

	merged := partyinfo.Merge(local, remote)
	url, err := merged.ResolveURL(fixtures.PublicKey1)
	assert.Nil(t, err, "wrong resolve error")
	assert.Equal(t, urlA, url, "remote overwrote local mapping")
}

func TestMergeFillsEmptyLocalURL(t *testing.T) {
	local := partyinfo.New(urlA, []partyinfo.Recipient{{Key: fixtures.PublicKey1}}, nil)
	remote := partyinfo.New(urlC, []partyinfo.Recipient{{Key: fixtures.PublicKey1, URL: urlC}}, nil)

	merged := partyinfo.Merge(local, remote)
	url, err := merged.ResolveURL(fixtures.PublicKey1)
	assert.Nil(t, err, "wrong resolve error")
	assert.Equal(t, urlC, url, "empty local url not filled")

	outcome := partyinfo.Diff(urlC, local, merged)
	assert.Equal(t, []partyinfo.Recipient{{Key: fixtures.PublicKey1, URL: urlC}}, outcome.NewRecipients, "filled url not reported")
}

func TestMergeNil(t *testing.T) {
	a := partyinfo.Empty(urlA)
	assert.Equal(t, a, partyinfo.Merge(a, nil), "wrong merge with nil incoming")
	assert.Equal(t, a, partyinfo.Merge(nil, a), "wrong merge with nil local")
}
