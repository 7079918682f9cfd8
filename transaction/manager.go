// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transaction

import (
	"context"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/txrelay/enclave"
	"github.com/bitmark-inc/txrelay/fault"
	"github.com/bitmark-inc/txrelay/keys"
	"github.com/bitmark-inc/txrelay/payload"
	"github.com/bitmark-inc/txrelay/storage"
)

// Publisher - distribution of stored payloads
type Publisher interface {
	Publish(ctx context.Context, p *payload.Encoded, recipients []keys.PublicKey) error
}

// Manager - send, receive and housekeeping of private transactions
type Manager struct {
	log       *logger.L
	enclave   enclave.Enclave
	store     storage.Handle
	publisher Publisher
}

// New - manager over an enclave, a store and a publisher
func New(e enclave.Enclave, store storage.Handle, publisher Publisher) *Manager {
	return &Manager{
		log:       logger.New("transaction"),
		enclave:   e,
		store:     store,
		publisher: publisher,
	}
}

// Send - encrypt, store and publish a message
//
// a zero from selects the enclave's default key; the digest is returned
// even when publishing fails
func (m *Manager) Send(ctx context.Context, message []byte, from keys.PublicKey, to []keys.PublicKey) (payload.Digest, error) {
	if 0 == len(message) {
		return payload.Digest{}, fault.ErrMissingParameters
	}
	sender, err := m.sender(from)
	if nil != err {
		return payload.Digest{}, err
	}

	recipients := withSender(sender, to)
	p, err := m.enclave.EncryptPayload(message, sender, recipients)
	if nil != err {
		return payload.Digest{}, err
	}
	return m.storeAndPublish(ctx, p, recipients)
}

// StoreRaw - encrypt for the sender only and hold until signed
func (m *Manager) StoreRaw(message []byte, from keys.PublicKey) (payload.Digest, error) {
	if 0 == len(message) {
		return payload.Digest{}, fault.ErrMissingParameters
	}
	sender, err := m.sender(from)
	if nil != err {
		return payload.Digest{}, err
	}

	raw, err := m.enclave.EncryptRawPayload(message, sender)
	if nil != err {
		return payload.Digest{}, err
	}
	digest := raw.Digest()
	err = m.store.StoreRaw(&storage.RawTransaction{
		Digest:           digest,
		EncryptedPayload: raw.CipherText,
		EncryptedKey:     raw.EncryptedKey,
		Nonce:            raw.Nonce,
		Sender:           raw.Sender,
	})
	if nil != err {
		return payload.Digest{}, err
	}
	m.log.Infof("stored raw: %s  sender: %s", digest, sender)
	return digest, nil
}

// SendSignedTransaction - distribute a raw transaction to recipients
//
// the digest is unchanged from StoreRaw
func (m *Manager) SendSignedTransaction(ctx context.Context, digest payload.Digest, to []keys.PublicKey) (payload.Digest, error) {
	stored, err := m.store.GetRaw(digest)
	if nil != err {
		return payload.Digest{}, err
	}
	raw := &enclave.RawPayload{
		CipherText:   stored.EncryptedPayload,
		EncryptedKey: stored.EncryptedKey,
		Nonce:        stored.Nonce,
		Sender:       stored.Sender,
	}

	recipients := withSender(raw.Sender, to)
	p, err := m.enclave.EncryptFromRaw(raw, recipients)
	if nil != err {
		return payload.Digest{}, err
	}
	return m.storeAndPublish(ctx, p, recipients)
}

// Receive - decrypt a stored transaction
//
// a zero to tries every managed key that can read the payload
func (m *Manager) Receive(digest payload.Digest, to keys.PublicKey) ([]byte, error) {
	p, err := m.store.Get(digest)
	if nil != err {
		return nil, err
	}

	candidates := []keys.PublicKey{to}
	if to.IsZero() {
		candidates = m.enclave.PublicKeys()
	}

	for _, key := range candidates {
		if key != p.SenderKey && !p.HasRecipient(key) {
			continue
		}
		message, err := m.enclave.Decrypt(p, key)
		if nil == err {
			return message, nil
		}
		if !fault.IsErrNotFound(err) {
			return nil, err
		}
	}
	return nil, fault.ErrTransactionNotFound
}

// Delete - remove a stored transaction
func (m *Manager) Delete(digest payload.Digest) error {
	err := m.store.Delete(digest)
	if nil == err {
		m.log.Infof("deleted: %s", digest)
	}
	return err
}

// ResendIndividual - publish an already stored transaction again
//
// only the sender holds every recipient box
func (m *Manager) ResendIndividual(ctx context.Context, digest payload.Digest) error {
	p, err := m.store.Get(digest)
	if nil != err {
		return err
	}
	if !m.enclave.Manages(p.SenderKey) {
		return fault.ErrKeyNotManaged
	}
	m.log.Infof("republish: %s  recipients: %d", digest, len(p.RecipientKeys))
	return m.publisher.Publish(ctx, p, p.RecipientKeys)
}

func (m *Manager) storeAndPublish(ctx context.Context, p *payload.Encoded, recipients []keys.PublicKey) (payload.Digest, error) {
	digest, outcome, err := m.store.StoreIfAbsent(p)
	if nil != err {
		return payload.Digest{}, err
	}
	m.log.Debugf("send: %s  %s", digest, outcome)

	if err := m.publisher.Publish(ctx, p, recipients); nil != err {
		m.log.Warnf("send: %s  not fully published: %s", digest, err)
		return digest, err
	}
	m.log.Infof("sent: %s  recipients: %d", digest, len(recipients))
	return digest, nil
}

func (m *Manager) sender(from keys.PublicKey) (keys.PublicKey, error) {
	if from.IsZero() {
		return m.enclave.DefaultPublicKey()
	}
	if !m.enclave.Manages(from) {
		return keys.PublicKey{}, fault.ErrKeyNotManaged
	}
	return from, nil
}

// to plus sender, without repeats
func withSender(sender keys.PublicKey, to []keys.PublicKey) []keys.PublicKey {
	recipients := make([]keys.PublicKey, 0, len(to)+1)
	seen := make(map[keys.PublicKey]struct{}, len(to)+1)
	for _, key := range append(append([]keys.PublicKey{}, to...), sender) {
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		recipients = append(recipients, key)
	}
	return recipients
}
