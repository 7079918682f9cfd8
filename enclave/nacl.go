// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package enclave

import (
	"crypto/rand"
	"io"
	"sort"
	"sync"

	"golang.org/x/crypto/nacl/box"
	"golang.org/x/crypto/nacl/secretbox"

	"github.com/bitmark-inc/txrelay/fault"
	"github.com/bitmark-inc/txrelay/keys"
	"github.com/bitmark-inc/txrelay/payload"
)

// NaCl - in-process enclave using NaCl box and secretbox
//
// the message is sealed once under a random master key and the master
// key is boxed separately for every recipient with a shared nonce
type NaCl struct {
	sync.RWMutex
	pairs          map[keys.PublicKey]keys.PrivateKey
	defaultKey     keys.PublicKey
	haveDefaultKey bool
}

// NewNaCl - enclave holding the given pairs, the first is the default
func NewNaCl(pairs []*keys.KeyPair) *NaCl {
	e := &NaCl{
		pairs: make(map[keys.PublicKey]keys.PrivateKey),
	}
	for _, pair := range pairs {
		e.AddKeyPair(pair)
	}
	return e
}

// PublicKeys - every managed key, sorted
func (e *NaCl) PublicKeys() []keys.PublicKey {
	e.RLock()
	defer e.RUnlock()

	result := make([]keys.PublicKey, 0, len(e.pairs))
	for key := range e.pairs {
		result = append(result, key)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Less(result[j])
	})
	return result
}

// DefaultPublicKey - first key added
func (e *NaCl) DefaultPublicKey() (keys.PublicKey, error) {
	e.RLock()
	defer e.RUnlock()

	if !e.haveDefaultKey {
		return keys.PublicKey{}, fault.ErrEnclaveUnavailable
	}
	return e.defaultKey, nil
}

// Manages - true if the private key is held
func (e *NaCl) Manages(key keys.PublicKey) bool {
	e.RLock()
	_, ok := e.pairs[key]
	e.RUnlock()
	return ok
}

// AddKeyPair - start managing a key pair
func (e *NaCl) AddKeyPair(pair *keys.KeyPair) bool {
	e.Lock()
	defer e.Unlock()

	if _, ok := e.pairs[pair.Public]; ok {
		return false
	}
	e.pairs[pair.Public] = pair.Private
	if !e.haveDefaultKey {
		e.defaultKey = pair.Public
		e.haveDefaultKey = true
	}
	return true
}

// EncryptPayload - seal message for recipients
func (e *NaCl) EncryptPayload(message []byte, sender keys.PublicKey, recipients []keys.PublicKey) (*payload.Encoded, error) {
	private, err := e.privateKey(sender)
	if nil != err {
		return nil, err
	}

	var masterKey [keys.KeySize]byte
	if _, err := io.ReadFull(rand.Reader, masterKey[:]); nil != err {
		return nil, err
	}
	cipherTextNonce, err := newNonce()
	if nil != err {
		return nil, err
	}
	recipientNonce, err := newNonce()
	if nil != err {
		return nil, err
	}

	p := &payload.Encoded{
		SenderKey:       sender,
		CipherText:      secretbox.Seal(nil, message, cipherTextNonce, &masterKey),
		CipherTextNonce: cipherTextNonce[:],
		RecipientNonce:  recipientNonce[:],
		RecipientBoxes:  make([][]byte, 0, len(recipients)),
		RecipientKeys:   make([]keys.PublicKey, 0, len(recipients)),
	}

	for _, recipient := range recipients {
		if p.HasRecipient(recipient) {
			continue
		}
		shared := sharedKey(recipient, private)
		sealed := box.SealAfterPrecomputation(nil, masterKey[:], recipientNonce, shared)
		p.RecipientKeys = append(p.RecipientKeys, recipient)
		p.RecipientBoxes = append(p.RecipientBoxes, sealed)
	}
	return p, nil
}

// EncryptRawPayload - seal message for later distribution
func (e *NaCl) EncryptRawPayload(message []byte, sender keys.PublicKey) (*RawPayload, error) {
	private, err := e.privateKey(sender)
	if nil != err {
		return nil, err
	}

	var masterKey [keys.KeySize]byte
	if _, err := io.ReadFull(rand.Reader, masterKey[:]); nil != err {
		return nil, err
	}
	nonce, err := newNonce()
	if nil != err {
		return nil, err
	}

	shared := sharedKey(sender, private)
	return &RawPayload{
		CipherText:   secretbox.Seal(nil, message, nonce, &masterKey),
		EncryptedKey: box.SealAfterPrecomputation(nil, masterKey[:], nonce, shared),
		Nonce:        nonce[:],
		Sender:       sender,
	}, nil
}

// EncryptFromRaw - open the sender's key box and seal it for recipients
func (e *NaCl) EncryptFromRaw(raw *RawPayload, recipients []keys.PublicKey) (*payload.Encoded, error) {
	private, err := e.privateKey(raw.Sender)
	if nil != err {
		return nil, err
	}
	if payload.NonceSize != len(raw.Nonce) {
		return nil, fault.ErrInvalidPayload
	}

	var nonce [payload.NonceSize]byte
	copy(nonce[:], raw.Nonce)
	master, ok := box.OpenAfterPrecomputation(nil, raw.EncryptedKey, &nonce, sharedKey(raw.Sender, private))
	if !ok || keys.KeySize != len(master) {
		return nil, fault.ErrInvalidPayload
	}

	recipientNonce, err := newNonce()
	if nil != err {
		return nil, err
	}

	p := &payload.Encoded{
		SenderKey:       raw.Sender,
		CipherText:      raw.CipherText,
		CipherTextNonce: raw.Nonce,
		RecipientNonce:  recipientNonce[:],
		RecipientBoxes:  make([][]byte, 0, len(recipients)),
		RecipientKeys:   make([]keys.PublicKey, 0, len(recipients)),
	}
	for _, recipient := range recipients {
		if p.HasRecipient(recipient) {
			continue
		}
		sealed := box.SealAfterPrecomputation(nil, master, recipientNonce, sharedKey(recipient, private))
		p.RecipientKeys = append(p.RecipientKeys, recipient)
		p.RecipientBoxes = append(p.RecipientBoxes, sealed)
	}
	return p, nil
}

// Decrypt - open as a recipient, or as the sender via the first box
func (e *NaCl) Decrypt(p *payload.Encoded, key keys.PublicKey) ([]byte, error) {
	private, err := e.privateKey(key)
	if nil != err {
		return nil, err
	}
	if err := p.Validate(); nil != err {
		return nil, err
	}

	var shared *[keys.KeySize]byte
	sealed, ok := p.BoxFor(key)
	if ok {
		shared = sharedKey(p.SenderKey, private)
	} else if key == p.SenderKey && 0 != len(p.RecipientKeys) {
		sealed = p.RecipientBoxes[0]
		shared = sharedKey(p.RecipientKeys[0], private)
	} else {
		return nil, fault.ErrKeyNotManaged
	}

	var recipientNonce [payload.NonceSize]byte
	copy(recipientNonce[:], p.RecipientNonce)
	master, ok := box.OpenAfterPrecomputation(nil, sealed, &recipientNonce, shared)
	if !ok || keys.KeySize != len(master) {
		return nil, fault.ErrInvalidPayload
	}
	var masterKey [keys.KeySize]byte
	copy(masterKey[:], master)

	var cipherTextNonce [payload.NonceSize]byte
	copy(cipherTextNonce[:], p.CipherTextNonce)
	message, ok := secretbox.Open(nil, p.CipherText, &cipherTextNonce, &masterKey)
	if !ok {
		return nil, fault.ErrInvalidPayload
	}
	return message, nil
}

func (e *NaCl) privateKey(key keys.PublicKey) (*[keys.KeySize]byte, error) {
	e.RLock()
	private, ok := e.pairs[key]
	e.RUnlock()
	if !ok {
		return nil, fault.ErrKeyNotManaged
	}
	k := [keys.KeySize]byte(private)
	return &k, nil
}

func sharedKey(peer keys.PublicKey, private *[keys.KeySize]byte) *[keys.KeySize]byte {
	var shared [keys.KeySize]byte
	public := [keys.KeySize]byte(peer)
	box.Precompute(&shared, &public, private)
	return &shared
}

func newNonce() (*[payload.NonceSize]byte, error) {
	var nonce [payload.NonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); nil != err {
		return nil, err
	}
	return &nonce, nil
}
