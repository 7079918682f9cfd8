// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package publish

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/txrelay/fault"
	"github.com/bitmark-inc/txrelay/keys"
	"github.com/bitmark-inc/txrelay/metrics"
	"github.com/bitmark-inc/txrelay/partyinfo"
	"github.com/bitmark-inc/txrelay/payload"
	"github.com/bitmark-inc/txrelay/transport"
)

// Publisher - pushes payloads to recipient nodes
type Publisher struct {
	log       *logger.L
	directory *partyinfo.Service
	transport transport.Client
	timeout   time.Duration
	manages   func(keys.PublicKey) bool
}

type delivery struct {
	key keys.PublicKey
	url string
}

// New - publisher resolving through directory; timeout bounds each push
//
// manages reports whether this node holds the private half of a key,
// normally enclave.Enclave.Manages
func New(directory *partyinfo.Service, client transport.Client, timeout time.Duration, manages func(keys.PublicKey) bool) *Publisher {
	return &Publisher{
		log:       logger.New("publish"),
		directory: directory,
		transport: client,
		timeout:   timeout,
		manages:   manages,
	}
}

// Publish - deliver p to every recipient or report why not
//
// returns *fault.PublishError when any recipient could not be resolved
// or did not accept its copy
func (pub *Publisher) Publish(ctx context.Context, p *payload.Encoded, recipients []keys.PublicKey) error {
	if 0 == len(recipients) {
		return fault.ErrNoRecipients
	}
	if err := p.Validate(); nil != err {
		return err
	}

	digest := p.Digest()
	recipients = unique(recipients)
	for _, key := range recipients {
		if !p.HasRecipient(key) {
			pub.log.Errorf("publish: %s  recipient: %s  has no box", digest, key)
			return fault.ErrInvalidPayload
		}
	}

	snapshot := pub.directory.Current()

	failures := make(map[string]error)
	deliveries := make([]delivery, 0, len(recipients))
	for _, key := range recipients {
		url, err := snapshot.ResolveURL(key)
		if nil != err {
			failures[key.String()] = err
			continue
		}
		if url == snapshot.URL() {
			// a stale view can map a foreign key to this node
			if !pub.manages(key) {
				pub.log.Warnf("publish: %s  recipient: %s  resolves to self but is not managed", digest, key)
				failures[key.String()] = fault.ErrRecipientUnresolved
				continue
			}
			pub.log.Debugf("publish: %s  recipient: %s  is local", digest, key)
			continue
		}
		deliveries = append(deliveries, delivery{key: key, url: url})
	}

	if 0 != len(failures) {
		pub.log.Warnf("publish: %s  unresolved: %d of %d  nothing sent", digest, len(failures), len(recipients))
		metrics.Publishes.WithLabelValues(metrics.Failure).Inc()
		return fault.NewPublishError(digest.String(), len(recipients), failures)
	}

	errs := make([]error, len(deliveries))

	var wg sync.WaitGroup
	for i, d := range deliveries {
		wg.Add(1)
		go func(i int, d delivery) {
			defer wg.Done()
			errs[i] = pub.push(ctx, d, p, digest)
		}(i, d)
	}
	wg.Wait()

	for i, err := range errs {
		if nil != err {
			failures[deliveries[i].key.String()] = err
		}
	}

	if 0 != len(failures) {
		pub.log.Warnf("publish: %s  failed: %d of %d", digest, len(failures), len(recipients))
		metrics.Publishes.WithLabelValues(metrics.Failure).Inc()
		return fault.NewPublishError(digest.String(), len(recipients), failures)
	}

	pub.log.Infof("publish: %s  delivered: %d  local: %d", digest, len(deliveries), len(recipients)-len(deliveries))
	metrics.Publishes.WithLabelValues(metrics.Success).Inc()
	return nil
}

// one recipient scoped push
func (pub *Publisher) push(ctx context.Context, d delivery, p *payload.Encoded, digest payload.Digest) error {
	scoped, _ := p.ForRecipient(d.key)

	ctx, cancel := context.WithTimeout(ctx, pub.timeout)
	defer cancel()

	received, err := pub.transport.Push(ctx, d.url, scoped)
	if nil == err && received != digest {
		err = &fault.TransportError{URL: d.url, Kind: fault.Protocol, Err: fault.ErrDigestMismatch}
	}
	metrics.Deliveries.WithLabelValues(metrics.Result(err)).Inc()

	if nil == err {
		pub.log.Debugf("push: %s  to: %q  ok", digest, d.url)
		return nil
	}
	pub.log.Warnf("push: %s  to: %q  error: %s", digest, d.url, err)

	var te *fault.TransportError
	if !errors.As(err, &te) {
		err = &fault.TransportError{URL: d.url, Kind: fault.Protocol, Err: err}
	}
	return err
}

// drop repeated keys, keeping first occurrence order
func unique(recipients []keys.PublicKey) []keys.PublicKey {
	seen := make(map[keys.PublicKey]struct{}, len(recipients))
	result := make([]keys.PublicKey, 0, len(recipients))
	for _, key := range recipients {
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, key)
	}
	return result
}
