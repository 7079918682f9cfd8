// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package listeners

import (
	"net"
	"sync"
	"sync/atomic"

	"github.com/bitmark-inc/logger"
)

// open connections and their limit
type connectionCount struct {
	count   uint64
	maximum uint64
}

func newConnectionCount(maximum uint64) *connectionCount {
	return &connectionCount{maximum: maximum}
}

// false if already at the limit
func (c *connectionCount) acquire() bool {
	for {
		n := atomic.LoadUint64(&c.count)
		if n >= c.maximum {
			return false
		}
		if atomic.CompareAndSwapUint64(&c.count, n, n+1) {
			return true
		}
	}
}

func (c *connectionCount) release() {
	atomic.AddUint64(&c.count, ^uint64(0))
}

func (c *connectionCount) current() uint64 {
	return atomic.LoadUint64(&c.count)
}

// closes connections beyond the limit as soon as they are accepted
type limitListener struct {
	net.Listener
	log   *logger.L
	count *connectionCount
}

func (l *limitListener) Accept() (net.Conn, error) {
	for {
		conn, err := l.Listener.Accept()
		if nil != err {
			return nil, err
		}
		if l.count.acquire() {
			return &limitConn{Conn: conn, count: l.count}, nil
		}
		l.log.Warnf("connection limit reached, rejecting: %s", conn.RemoteAddr())
		conn.Close()
	}
}

type limitConn struct {
	net.Conn
	count *connectionCount
	once  sync.Once
}

func (c *limitConn) Close() error {
	err := c.Conn.Close()
	c.once.Do(c.count.release)
	return err
}
