// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fixtures

import (
	"bytes"

	"github.com/bitmark-inc/txrelay/keys"
	"github.com/bitmark-inc/txrelay/payload"
)

// Payload - structurally valid payload with placeholder boxes
//
// the cipher text is derived from text so equal text gives equal digests
func Payload(text string, sender keys.PublicKey, recipients ...keys.PublicKey) *payload.Encoded {
	p := &payload.Encoded{
		SenderKey:       sender,
		CipherText:      []byte("cipher:" + text),
		CipherTextNonce: bytes.Repeat([]byte{0x11}, payload.NonceSize),
		RecipientNonce:  bytes.Repeat([]byte{0x22}, payload.NonceSize),
		RecipientBoxes:  make([][]byte, 0, len(recipients)),
		RecipientKeys:   make([]keys.PublicKey, 0, len(recipients)),
	}
	for _, key := range recipients {
		p.RecipientKeys = append(p.RecipientKeys, key)
		p.RecipientBoxes = append(p.RecipientBoxes, append([]byte("box:"), key[:4]...))
	}
	return p
}
