// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transport

import (
	"context"
	"strings"

	"github.com/bitmark-inc/txrelay/fault"
	"github.com/bitmark-inc/txrelay/keys"
	"github.com/bitmark-inc/txrelay/partyinfo"
	"github.com/bitmark-inc/txrelay/payload"
)

//go:generate mockgen -destination=mocks/transport.go -package=mocks github.com/bitmark-inc/txrelay/transport Client,Server

// peer endpoints
const (
	PartyInfoPath = "/partyinfo"
	PushPath      = "/push"
	ResendPath    = "/resend"
	UpcheckPath   = "/upcheck"
)

// UpcheckReply - body returned by a live node
const UpcheckReply = "I'm up!"

// Client - requests from this node to a peer
//
// every failure to reach a peer is a *fault.TransportError
type Client interface {
	// PartyInfo - send our view, receive the peer's merged view
	PartyInfo(ctx context.Context, url string, info *partyinfo.PartyInfo) (*partyinfo.PartyInfo, error)

	// Push - deliver one recipient scoped payload
	Push(ctx context.Context, url string, p *payload.Encoded) (payload.Digest, error)

	// Resend - ask a peer for payloads, fn is called for each as it arrives
	//
	// an error from fn stops the stream and is returned unchanged
	Resend(ctx context.Context, url string, req *ResendRequest, fn func(*payload.Encoded) error) error

	// Upcheck - liveness probe
	Upcheck(ctx context.Context, url string) error
}

// Server - the receiving side of Client, one per node
type Server interface {
	PartyInfo(ctx context.Context, info *partyinfo.PartyInfo) (*partyinfo.PartyInfo, error)
	Push(ctx context.Context, p *payload.Encoded) (payload.Digest, error)
	Resend(ctx context.Context, req *ResendRequest, fn func(*payload.Encoded) error) error
}

// ResendType - scope of a resend request
type ResendType int

// resend scopes
const (
	ResendAll ResendType = iota
	ResendIndividual
)

func (t ResendType) String() string {
	switch t {
	case ResendAll:
		return "ALL"
	case ResendIndividual:
		return "INDIVIDUAL"
	default:
		return "UNKNOWN"
	}
}

// MarshalText - wire name
func (t ResendType) MarshalText() ([]byte, error) {
	switch t {
	case ResendAll, ResendIndividual:
		return []byte(t.String()), nil
	default:
		return nil, fault.ErrInvalidResendType
	}
}

// UnmarshalText - parse wire name, case insensitive
func (t *ResendType) UnmarshalText(s []byte) error {
	switch strings.ToUpper(string(s)) {
	case "ALL":
		*t = ResendAll
	case "INDIVIDUAL":
		*t = ResendIndividual
	default:
		return fault.ErrInvalidResendType
	}
	return nil
}

// ResendRequest - payloads wanted by a key
//
// Key is the digest for an INDIVIDUAL request
type ResendRequest struct {
	Type      ResendType      `json:"type"`
	PublicKey keys.PublicKey  `json:"publicKey"`
	Key       *payload.Digest `json:"key,omitempty"`
}

// Validate - INDIVIDUAL needs a digest
func (r *ResendRequest) Validate() error {
	if ResendIndividual == r.Type && nil == r.Key {
		return fault.ErrMissingParameters
	}
	return nil
}
