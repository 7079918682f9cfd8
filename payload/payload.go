// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package payload

import (
	"encoding/json"

	"github.com/bitmark-inc/txrelay/fault"
	"github.com/bitmark-inc/txrelay/keys"
)

// NonceSize - bytes in a NaCl nonce
const NonceSize = 24

// Encoded - an encrypted transaction as stored and sent between nodes
//
// RecipientBoxes[i] holds the master key sealed for RecipientKeys[i]
type Encoded struct {
	SenderKey       keys.PublicKey   `json:"sender"`
	CipherText      []byte           `json:"cipherText"`
	CipherTextNonce []byte           `json:"cipherTextNonce"`
	RecipientBoxes  [][]byte         `json:"recipientBoxes"`
	RecipientNonce  []byte           `json:"recipientNonce"`
	RecipientKeys   []keys.PublicKey `json:"recipientKeys"`
}

// Digest - identity of the payload
func (p *Encoded) Digest() Digest {
	return NewDigest(p.CipherText)
}

// Validate - structural checks before storing a received payload
func (p *Encoded) Validate() error {
	if 0 == len(p.CipherText) {
		return fault.ErrInvalidPayload
	}
	if NonceSize != len(p.CipherTextNonce) || NonceSize != len(p.RecipientNonce) {
		return fault.ErrInvalidPayload
	}
	if len(p.RecipientBoxes) != len(p.RecipientKeys) {
		return fault.ErrInvalidPayload
	}
	return nil
}

// HasRecipient - true if a box for key is present
func (p *Encoded) HasRecipient(key keys.PublicKey) bool {
	return p.indexOf(key) >= 0
}

// BoxFor - the sealed master key for one recipient
func (p *Encoded) BoxFor(key keys.PublicKey) ([]byte, bool) {
	i := p.indexOf(key)
	if i < 0 {
		return nil, false
	}
	return p.RecipientBoxes[i], true
}

// ForRecipient - copy holding only the box and key for one recipient
//
// the cipher text is shared so the digest is unchanged
func (p *Encoded) ForRecipient(key keys.PublicKey) (*Encoded, bool) {
	i := p.indexOf(key)
	if i < 0 {
		return nil, false
	}
	return &Encoded{
		SenderKey:       p.SenderKey,
		CipherText:      p.CipherText,
		CipherTextNonce: p.CipherTextNonce,
		RecipientBoxes:  [][]byte{p.RecipientBoxes[i]},
		RecipientNonce:  p.RecipientNonce,
		RecipientKeys:   []keys.PublicKey{key},
	}, true
}

// MergeRecipients - copy of p extended with the boxes of other that p lacks
//
// returns false when nothing was added
func (p *Encoded) MergeRecipients(other *Encoded) (*Encoded, bool) {
	merged := p.clone()
	added := false
	for i, key := range other.RecipientKeys {
		if merged.HasRecipient(key) || i >= len(other.RecipientBoxes) {
			continue
		}
		merged.RecipientKeys = append(merged.RecipientKeys, key)
		merged.RecipientBoxes = append(merged.RecipientBoxes, other.RecipientBoxes[i])
		added = true
	}
	return merged, added
}

// Marshal - storage encoding
func (p *Encoded) Marshal() ([]byte, error) {
	return json.Marshal(p)
}

// Unmarshal - decode the storage encoding
func Unmarshal(data []byte) (*Encoded, error) {
	p := &Encoded{}
	if err := json.Unmarshal(data, p); nil != err {
		return nil, fault.ErrInvalidPayload
	}
	return p, nil
}

func (p *Encoded) indexOf(key keys.PublicKey) int {
	for i, k := range p.RecipientKeys {
		if k == key && i < len(p.RecipientBoxes) {
			return i
		}
	}
	return -1
}

func (p *Encoded) clone() *Encoded {
	c := *p
	c.RecipientBoxes = append([][]byte(nil), p.RecipientBoxes...)
	c.RecipientKeys = append([]keys.PublicKey(nil), p.RecipientKeys...)
	return &c
}
