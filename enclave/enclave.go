// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package enclave

import (
	"github.com/bitmark-inc/txrelay/keys"
	"github.com/bitmark-inc/txrelay/payload"
)

//go:generate mockgen -source=enclave.go -destination=mocks/enclave.go -package=mocks

// Enclave - holder of this node's private keys
//
// errors: fault.ErrEnclaveUnavailable, fault.ErrKeyNotManaged
type Enclave interface {
	// PublicKeys - every key managed by this node, sorted
	PublicKeys() []keys.PublicKey

	// DefaultPublicKey - sender key when a client does not name one
	DefaultPublicKey() (keys.PublicKey, error)

	// Manages - true if the private half of key is held
	Manages(key keys.PublicKey) bool

	// AddKeyPair - start managing a key, false if already present
	AddKeyPair(pair *keys.KeyPair) bool

	// EncryptPayload - seal message from sender to every recipient
	EncryptPayload(message []byte, sender keys.PublicKey, recipients []keys.PublicKey) (*payload.Encoded, error)

	// EncryptRawPayload - seal message so only sender can open it
	EncryptRawPayload(message []byte, sender keys.PublicKey) (*RawPayload, error)

	// EncryptFromRaw - reseal a raw payload's key for recipients
	//
	// the cipher text is kept so the digest matches the raw payload
	EncryptFromRaw(raw *RawPayload, recipients []keys.PublicKey) (*payload.Encoded, error)

	// Decrypt - recover the message using a managed key
	Decrypt(p *payload.Encoded, key keys.PublicKey) ([]byte, error)
}

// RawPayload - a message sealed for its sender only
//
// EncryptedKey is the master key boxed from the sender to itself under
// the same nonce as the cipher text
type RawPayload struct {
	CipherText   []byte
	EncryptedKey []byte
	Nonce        []byte
	Sender       keys.PublicKey
}

// Digest - identity shared with the payload made from it
func (r *RawPayload) Digest() payload.Digest {
	return payload.NewDigest(r.CipherText)
}
