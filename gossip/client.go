// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package gossip

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/txrelay/metrics"
	"github.com/bitmark-inc/txrelay/partyinfo"
	"github.com/bitmark-inc/txrelay/transport"
)

// Client - directory synchronisation with peers
type Client struct {
	log       *logger.L
	service   *partyinfo.Service
	transport transport.Client
	timeout   time.Duration
}

// Round - result of contacting every known party once
type Round struct {
	Peers    int
	Outcomes []partyinfo.MergeOutcome
	Failures map[string]error
}

// Changed - true if any contact added to the directory
func (r Round) Changed() bool {
	for _, o := range r.Outcomes {
		if o.Changed() {
			return true
		}
	}
	return false
}

// New - client for service's directory; timeout bounds each peer contact
func New(service *partyinfo.Service, client transport.Client, timeout time.Duration) *Client {
	return &Client{
		log:       logger.New("gossip"),
		service:   service,
		transport: client,
		timeout:   timeout,
	}
}

// SyncWith - exchange views with one peer
//
// the peer's reply is merged into the local directory; the outcome
// lists what was added
func (c *Client) SyncWith(ctx context.Context, url string) (partyinfo.MergeOutcome, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	reply, err := c.transport.PartyInfo(ctx, url, c.service.Current())
	metrics.GossipRounds.WithLabelValues(metrics.Result(err)).Inc()
	if nil != err {
		c.log.Warnf("sync with: %q  error: %s", url, err)
		return partyinfo.MergeOutcome{Peer: url}, err
	}

	outcome := c.service.Merge(reply)
	outcome.Peer = url
	if outcome.Changed() {
		c.log.Infof("sync with: %q  new recipients: %d  new parties: %d", url, len(outcome.NewRecipients), len(outcome.NewParties))
	} else {
		c.log.Debugf("sync with: %q  no change", url)
	}
	return outcome, nil
}

// SyncOnce - one round over every party URL currently known
//
// peers discovered during the round are contacted in the next one
func (c *Client) SyncOnce(ctx context.Context) Round {
	urls := c.service.Current().AllPartyURLs()

	type result struct {
		outcome partyinfo.MergeOutcome
		err     error
	}
	results := make([]result, len(urls))

	var wg sync.WaitGroup
	for i, url := range urls {
		wg.Add(1)
		go func(i int, url string) {
			defer wg.Done()
			o, err := c.SyncWith(ctx, url)
			results[i] = result{outcome: o, err: err}
		}(i, url)
	}
	wg.Wait()

	round := Round{
		Peers:    len(urls),
		Outcomes: make([]partyinfo.MergeOutcome, 0, len(urls)),
		Failures: make(map[string]error),
	}
	for i, r := range results {
		if nil != r.err {
			round.Failures[urls[i]] = r.err
			continue
		}
		round.Outcomes = append(round.Outcomes, r.outcome)
	}
	sort.Slice(round.Outcomes, func(i, j int) bool {
		return round.Outcomes[i].Peer < round.Outcomes[j].Peer
	})

	current := c.service.Current()
	metrics.DirectorySize.WithLabelValues("recipients").Set(float64(len(current.Recipients())))
	metrics.DirectorySize.WithLabelValues("parties").Set(float64(len(current.Parties())))

	c.log.Infof("round complete  peers: %d  failed: %d", round.Peers, len(round.Failures))
	return round
}
