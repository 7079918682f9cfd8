// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package p2p

import (
	"context"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/txrelay/fault"
	"github.com/bitmark-inc/txrelay/partyinfo"
	"github.com/bitmark-inc/txrelay/payload"
	"github.com/bitmark-inc/txrelay/storage"
	"github.com/bitmark-inc/txrelay/transport"
)

// Service - answers requests from peers
type Service struct {
	log       *logger.L
	directory *partyinfo.Service
	store     storage.Handle
}

// NewService - peer request handling over a directory and a store
func NewService(directory *partyinfo.Service, store storage.Handle) *Service {
	return &Service{
		log:       logger.New("p2p"),
		directory: directory,
		store:     store,
	}
}

// PartyInfo - merge the caller's view, reply with ours
func (s *Service) PartyInfo(ctx context.Context, info *partyinfo.PartyInfo) (*partyinfo.PartyInfo, error) {
	if nil == info {
		return nil, fault.ErrMissingParameters
	}
	outcome := s.directory.Merge(info)
	if outcome.Changed() {
		s.log.Infof("partyinfo from: %q  new recipients: %d  new parties: %d", info.URL(), len(outcome.NewRecipients), len(outcome.NewParties))
	}
	return s.directory.Current(), nil
}

// Push - store a payload sent to one of our keys
func (s *Service) Push(ctx context.Context, p *payload.Encoded) (payload.Digest, error) {
	if nil == p {
		return payload.Digest{}, fault.ErrMissingParameters
	}
	digest, outcome, err := s.store.StoreIfAbsent(p)
	if nil != err {
		s.log.Warnf("push: %s  error: %s", p.Digest(), err)
		return payload.Digest{}, err
	}
	s.log.Debugf("push: %s  %s", digest, outcome)
	return digest, nil
}

// Resend - stream stored payloads involving the requesting key
//
// each recipient sees only its own box, a sender sees the whole payload
func (s *Service) Resend(ctx context.Context, req *transport.ResendRequest, fn func(*payload.Encoded) error) error {
	if nil == req {
		return fault.ErrMissingParameters
	}
	if err := req.Validate(); nil != err {
		return err
	}

	switch req.Type {
	case transport.ResendAll:
		return s.resendAll(ctx, req, fn)
	case transport.ResendIndividual:
		return s.resendIndividual(req, fn)
	default:
		return fault.ErrInvalidResendType
	}
}

func (s *Service) resendAll(ctx context.Context, req *transport.ResendRequest, fn func(*payload.Encoded) error) error {
	cursor := s.store.PayloadsFor(req.PublicKey)
	defer cursor.Close()

	n := 0
	for cursor.Next() {
		if err := ctx.Err(); nil != err {
			return err
		}
		if err := fn(cursor.Payload()); nil != err {
			s.log.Debugf("resend all: %s  stopped after: %d  error: %s", req.PublicKey, n, err)
			return err
		}
		n += 1
	}
	s.log.Infof("resend all: %s  sent: %d", req.PublicKey, n)
	return cursor.Err()
}

func (s *Service) resendIndividual(req *transport.ResendRequest, fn func(*payload.Encoded) error) error {
	p, err := s.store.Get(*req.Key)
	if nil != err {
		return err
	}
	scoped, ok := p.ForRecipient(req.PublicKey)
	if !ok {
		return fault.ErrTransactionNotFound
	}
	return fn(scoped)
}
