// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package partyinfo

import (
	"encoding/json"

	"github.com/bitmark-inc/txrelay/keys"
)

type recipientJSON struct {
	Key keys.PublicKey `json:"key"`
	URL string         `json:"url"`
}

type partyJSON struct {
	URL string `json:"url"`
}

type partyInfoJSON struct {
	URL        string          `json:"url"`
	Recipients []recipientJSON `json:"recipients"`
	Parties    []partyJSON     `json:"parties"`
}

// MarshalJSON - wire form, entries in sorted order
func (p *PartyInfo) MarshalJSON() ([]byte, error) {
	w := partyInfoJSON{
		URL:        p.url,
		Recipients: make([]recipientJSON, 0, len(p.recipients)),
		Parties:    make([]partyJSON, 0, len(p.parties)),
	}
	for _, r := range p.Recipients() {
		w.Recipients = append(w.Recipients, recipientJSON{Key: r.Key, URL: r.URL})
	}
	for _, party := range p.Parties() {
		w.Parties = append(w.Parties, partyJSON{URL: party.URL})
	}
	return json.Marshal(w)
}

// UnmarshalJSON - read the wire form
func (p *PartyInfo) UnmarshalJSON(data []byte) error {
	var w partyInfoJSON
	if err := json.Unmarshal(data, &w); nil != err {
		return err
	}
	recipients := make([]Recipient, 0, len(w.Recipients))
	for _, r := range w.Recipients {
		recipients = append(recipients, Recipient{Key: r.Key, URL: r.URL})
	}
	parties := make([]Party, 0, len(w.Parties))
	for _, party := range w.Parties {
		parties = append(parties, Party{URL: party.URL})
	}
	*p = *New(w.URL, recipients, parties)
	return nil
}
