// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"time"

	cache "github.com/patrickmn/go-cache"

	"github.com/bitmark-inc/txrelay/payload"
)

const (
	defaultTimeout    = 1 * time.Minute
	defaultExpiration = 2 * time.Minute
)

// recently stored or read payloads by digest
//
// lets repeated deliveries of the same payload, common during
// recovery, skip the database read
type payloadCache struct {
	cache *cache.Cache
}

func newPayloadCache() *payloadCache {
	return &payloadCache{
		cache: cache.New(defaultTimeout, defaultExpiration),
	}
}

func (c *payloadCache) get(digest payload.Digest) (*payload.Encoded, bool) {
	obj, found := c.cache.Get(string(digest[:]))
	if !found {
		return nil, false
	}
	return obj.(*payload.Encoded), true
}

func (c *payloadCache) set(digest payload.Digest, p *payload.Encoded) {
	c.cache.Set(string(digest[:]), p, cache.DefaultExpiration)
}

func (c *payloadCache) remove(digest payload.Digest) {
	c.cache.Delete(string(digest[:]))
}

func (c *payloadCache) clear() {
	c.cache.Flush()
}
