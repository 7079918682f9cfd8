// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package gossip

import (
	"context"
	"time"
)

// Runner - periodic rounds as a background process
type Runner struct {
	client   *Client
	interval time.Duration
}

// NewRunner - a round every interval, the first immediately
func NewRunner(client *Client, interval time.Duration) *Runner {
	return &Runner{
		client:   client,
		interval: interval,
	}
}

// Run - background processing interface
func (r *Runner) Run(args interface{}, shutdown <-chan struct{}) {
	log := r.client.log

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// abandon an in-progress round on shutdown
	go func() {
		select {
		case <-shutdown:
			cancel()
		case <-ctx.Done():
		}
	}()

	log.Infof("starting…  interval: %s", r.interval)

	delay := time.After(0)
loop:
	for {
		select {
		case <-shutdown:
			break loop
		case <-delay:
			r.client.SyncOnce(ctx)
			delay = time.After(r.interval)
		}
	}

	log.Info("stopped")
}
