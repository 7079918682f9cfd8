// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package resend

import (
	"context"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/txrelay/enclave"
	"github.com/bitmark-inc/txrelay/fault"
	"github.com/bitmark-inc/txrelay/keys"
	"github.com/bitmark-inc/txrelay/metrics"
	"github.com/bitmark-inc/txrelay/partyinfo"
	"github.com/bitmark-inc/txrelay/payload"
	"github.com/bitmark-inc/txrelay/storage"
	"github.com/bitmark-inc/txrelay/transport"
)

// Coordinator - pulls missed payloads from peers into storage
type Coordinator struct {
	log       *logger.L
	directory *partyinfo.Service
	transport transport.Client
	store     storage.Handle
	enclave   enclave.Enclave
}

// PeerReport - what one peer supplied
type PeerReport struct {
	URL        string
	Inserted   int
	Updated    int
	Duplicates int
	Ignored    int
	Conflicts  int
	Err        error
}

// Report - result of recovering one key
type Report struct {
	Key   keys.PublicKey
	Peers []PeerReport
}

// Stored - payloads that were new or gained a box
func (r Report) Stored() int {
	n := 0
	for _, p := range r.Peers {
		n += p.Inserted + p.Updated
	}
	return n
}

// Failed - peers whose stream did not complete
func (r Report) Failed() int {
	n := 0
	for _, p := range r.Peers {
		if nil != p.Err {
			n += 1
		}
	}
	return n
}

// New - coordinator storing into store; keys for RecoverAll come from e
func New(directory *partyinfo.Service, client transport.Client, store storage.Handle, e enclave.Enclave) *Coordinator {
	return &Coordinator{
		log:       logger.New("resend"),
		directory: directory,
		transport: client,
		store:     store,
		enclave:   e,
	}
}

// RecoverAll - recover every key managed by this node
func (c *Coordinator) RecoverAll(ctx context.Context) []Report {
	publicKeys := c.enclave.PublicKeys()
	reports := make([]Report, 0, len(publicKeys))
	for _, key := range publicKeys {
		if nil != ctx.Err() {
			break
		}
		reports = append(reports, c.RecoverFor(ctx, key))
	}
	return reports
}

// RecoverFor - ask each known party in turn for payloads involving key
func (c *Coordinator) RecoverFor(ctx context.Context, key keys.PublicKey) Report {
	report := Report{
		Key: key,
	}

	urls := c.directory.Current().AllPartyURLs()
	c.log.Infof("recover key: %s  peers: %d", key, len(urls))

	for _, url := range urls {
		if err := ctx.Err(); nil != err {
			c.log.Warnf("recover key: %s  cancelled: %s", key, err)
			break
		}
		pr := c.recoverFrom(ctx, url, key)
		metrics.RecoveryPeers.WithLabelValues(metrics.Result(pr.Err)).Inc()
		report.Peers = append(report.Peers, pr)
	}

	c.log.Infof("recover key: %s  stored: %d  failed peers: %d", key, report.Stored(), report.Failed())
	return report
}

// requesting then draining one peer
func (c *Coordinator) recoverFrom(ctx context.Context, url string, key keys.PublicKey) PeerReport {
	pr := PeerReport{
		URL: url,
	}

	request := &transport.ResendRequest{
		Type:      transport.ResendAll,
		PublicKey: key,
	}
	c.log.Debugf("requesting: %q  key: %s", url, key)

	pr.Err = c.transport.Resend(ctx, url, request, func(p *payload.Encoded) error {
		if p.SenderKey != key && !p.HasRecipient(key) {
			c.log.Warnf("from: %q  payload: %s  does not involve key: %s", url, p.Digest(), key)
			pr.Ignored += 1
			return nil
		}

		_, outcome, err := c.store.StoreIfAbsent(p)
		if fault.IsErrRecord(err) {
			pr.Conflicts += 1
			metrics.Recovered.WithLabelValues("conflict").Inc()
			return nil
		}
		if fault.IsErrInvalid(err) {
			pr.Ignored += 1
			metrics.Recovered.WithLabelValues("invalid").Inc()
			return nil
		}
		if nil != err {
			return err
		}

		metrics.Recovered.WithLabelValues(outcome.String()).Inc()
		switch outcome {
		case storage.Inserted:
			pr.Inserted += 1
		case storage.Updated:
			pr.Updated += 1
		default:
			pr.Duplicates += 1
		}
		return nil
	})

	if nil != pr.Err {
		c.log.Warnf("draining: %q  key: %s  stopped after: %d  error: %s", url, key, pr.Inserted+pr.Updated+pr.Duplicates, pr.Err)
	} else {
		c.log.Debugf("drained: %q  inserted: %d  updated: %d  duplicates: %d", url, pr.Inserted, pr.Updated, pr.Duplicates)
	}
	return pr
}
