// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transport

import (
	"context"
	"errors"
	"sync"

	"github.com/bitmark-inc/txrelay/fault"
	"github.com/bitmark-inc/txrelay/partyinfo"
	"github.com/bitmark-inc/txrelay/payload"
	"github.com/bitmark-inc/txrelay/util"
)

var (
	errUnreachable = errors.New("memory: unreachable")
	errRejected    = errors.New("memory: rejected")
	errStreamBroke = errors.New("memory: stream broken")
)

// Memory - an in-process network of Servers keyed by URL
//
// used in tests to run several nodes without sockets; failures can be
// injected per URL
type Memory struct {
	sync.Mutex
	servers     map[string]Server
	unreachable map[string]bool
	rejecting   map[string]bool
	breakAfter  map[string]int
	pushes      map[string][]*payload.Encoded
	calls       map[string]int
}

// NewMemory - empty network
func NewMemory() *Memory {
	return &Memory{
		servers:     make(map[string]Server),
		unreachable: make(map[string]bool),
		rejecting:   make(map[string]bool),
		breakAfter:  make(map[string]int),
		pushes:      make(map[string][]*payload.Encoded),
		calls:       make(map[string]int),
	}
}

// Register - attach a server at url
func (m *Memory) Register(url string, server Server) {
	m.Lock()
	m.servers[util.NormaliseURL(url)] = server
	m.Unlock()
}

// SetUnreachable - every call to url fails with ConnectionRefused
func (m *Memory) SetUnreachable(url string, unreachable bool) {
	m.Lock()
	m.unreachable[util.NormaliseURL(url)] = unreachable
	m.Unlock()
}

// SetRejecting - every call to url fails with Rejected
func (m *Memory) SetRejecting(url string, rejecting bool) {
	m.Lock()
	m.rejecting[util.NormaliseURL(url)] = rejecting
	m.Unlock()
}

// BreakResendAfter - resend streams from url fail after n payloads
//
// a negative n removes the fault
func (m *Memory) BreakResendAfter(url string, n int) {
	m.Lock()
	if n < 0 {
		delete(m.breakAfter, util.NormaliseURL(url))
	} else {
		m.breakAfter[util.NormaliseURL(url)] = n
	}
	m.Unlock()
}

// Pushed - payloads successfully pushed to url
func (m *Memory) Pushed(url string) []*payload.Encoded {
	m.Lock()
	defer m.Unlock()
	return append([]*payload.Encoded(nil), m.pushes[util.NormaliseURL(url)]...)
}

// Calls - number of calls addressed to url, including failed ones
func (m *Memory) Calls(url string) int {
	m.Lock()
	defer m.Unlock()
	return m.calls[util.NormaliseURL(url)]
}

// PartyInfo - exchange views
func (m *Memory) PartyInfo(ctx context.Context, url string, info *partyinfo.PartyInfo) (*partyinfo.PartyInfo, error) {
	server, err := m.lookup(ctx, url)
	if nil != err {
		return nil, err
	}
	reply, err := server.PartyInfo(ctx, info)
	if nil != err {
		return nil, serverError(ctx, url, err)
	}
	return reply, nil
}

// Push - deliver a payload
func (m *Memory) Push(ctx context.Context, url string, p *payload.Encoded) (payload.Digest, error) {
	server, err := m.lookup(ctx, url)
	if nil != err {
		return payload.Digest{}, err
	}
	digest, err := server.Push(ctx, p)
	if nil != err {
		return payload.Digest{}, serverError(ctx, url, err)
	}
	m.Lock()
	u := util.NormaliseURL(url)
	m.pushes[u] = append(m.pushes[u], p)
	m.Unlock()
	return digest, nil
}

// Resend - stream payloads, possibly breaking part way
func (m *Memory) Resend(ctx context.Context, url string, req *ResendRequest, fn func(*payload.Encoded) error) error {
	server, err := m.lookup(ctx, url)
	if nil != err {
		return err
	}

	m.Lock()
	limit, breaks := m.breakAfter[util.NormaliseURL(url)]
	m.Unlock()

	var callerErr error
	n := 0
	err = server.Resend(ctx, req, func(p *payload.Encoded) error {
		if err := ctx.Err(); nil != err {
			return err
		}
		if breaks && n >= limit {
			return errStreamBroke
		}
		n += 1
		if err := fn(p); nil != err {
			callerErr = err
			return err
		}
		return nil
	})

	switch {
	case nil != callerErr:
		return callerErr
	case errors.Is(err, errStreamBroke):
		return &fault.TransportError{URL: url, Kind: fault.Protocol, Err: err}
	case nil != ctx.Err():
		return &fault.TransportError{URL: url, Kind: fault.Timeout, Err: ctx.Err()}
	case nil != err:
		return &fault.TransportError{URL: url, Kind: fault.Rejected, Err: err}
	}
	return nil
}

// Upcheck - reachable if registered
func (m *Memory) Upcheck(ctx context.Context, url string) error {
	_, err := m.lookup(ctx, url)
	return err
}

func (m *Memory) lookup(ctx context.Context, url string) (Server, error) {
	if err := ctx.Err(); nil != err {
		return nil, &fault.TransportError{URL: url, Kind: fault.Timeout, Err: err}
	}

	u := util.NormaliseURL(url)

	m.Lock()
	defer m.Unlock()

	m.calls[u] += 1
	server, ok := m.servers[u]
	if !ok || m.unreachable[u] {
		return nil, &fault.TransportError{URL: url, Kind: fault.ConnectionRefused, Err: errUnreachable}
	}
	if m.rejecting[u] {
		return nil, &fault.TransportError{URL: url, Kind: fault.Rejected, Err: errRejected}
	}
	return server, nil
}

// a server failing because the caller gave up is a timeout
func serverError(ctx context.Context, url string, err error) error {
	if nil != ctx.Err() {
		return &fault.TransportError{URL: url, Kind: fault.Timeout, Err: ctx.Err()}
	}
	return &fault.TransportError{URL: url, Kind: fault.Rejected, Err: err}
}
