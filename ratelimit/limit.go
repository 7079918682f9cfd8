// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ratelimit

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/bitmark-inc/txrelay/fault"
)

// Wait - delay until limiter admits one request
//
// a request the limiter can never admit fails at once with
// fault.ErrRateLimiting; a cancelled ctx returns the reservation
func Wait(ctx context.Context, limiter *rate.Limiter) error {
	if nil == limiter {
		return nil
	}

	r := limiter.Reserve()
	if !r.OK() {
		return fault.ErrRateLimiting
	}

	delay := r.Delay()
	if delay <= 0 {
		return nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		r.Cancel()
		return ctx.Err()
	}
}

// Handler - pass each request through the limiter, nil limiter passes all
func Handler(limiter *rate.Limiter, next http.Handler) http.Handler {
	if nil == limiter {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := Wait(r.Context(), limiter); nil != err {
			http.Error(w, fault.ErrRateLimiting.Error(), http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
