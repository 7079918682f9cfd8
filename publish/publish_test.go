// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package publish_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/txrelay/fault"
	"github.com/bitmark-inc/txrelay/fixtures"
	"github.com/bitmark-inc/txrelay/keys"
	"github.com/bitmark-inc/txrelay/partyinfo"
	"github.com/bitmark-inc/txrelay/payload"
	"github.com/bitmark-inc/txrelay/publish"
	"github.com/bitmark-inc/txrelay/transport"
	"github.com/bitmark-inc/txrelay/transport/mocks"
)

const (
	urlA = "http://node-a:9001"
	urlB = "http://node-b:9001"
	urlC = "http://node-c:9001"
	urlD = "http://node-d:9001"
)

var errNotSupported = errors.New("not supported")

// accepts every push
type sink struct {
	sync.Mutex
	received []*payload.Encoded
}

func (s *sink) PartyInfo(ctx context.Context, info *partyinfo.PartyInfo) (*partyinfo.PartyInfo, error) {
	return nil, errNotSupported
}

func (s *sink) Push(ctx context.Context, p *payload.Encoded) (payload.Digest, error) {
	s.Lock()
	s.received = append(s.received, p)
	s.Unlock()
	return p.Digest(), nil
}

func (s *sink) Resend(ctx context.Context, req *transport.ResendRequest, fn func(*payload.Encoded) error) error {
	return errNotSupported
}

// k1 is local at A, k2..k4 live at B..D
func directory(known ...keys.PublicKey) *partyinfo.Service {
	urls := map[keys.PublicKey]string{
		fixtures.PublicKey1: urlA,
		fixtures.PublicKey2: urlB,
		fixtures.PublicKey3: urlC,
		fixtures.PublicKey4: urlD,
	}
	recipients := make([]partyinfo.Recipient, 0, len(known))
	for _, key := range known {
		recipients = append(recipients, partyinfo.Recipient{Key: key, URL: urls[key]})
	}
	return partyinfo.NewService(partyinfo.New(urlA, recipients, nil))
}

// keys held by node A
func managed(held ...keys.PublicKey) func(keys.PublicKey) bool {
	return func(key keys.PublicKey) bool {
		for _, k := range held {
			if k == key {
				return true
			}
		}
		return false
	}
}

func TestPublishAllDelivered(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	network := transport.NewMemory()
	b, c, d := &sink{}, &sink{}, &sink{}
	network.Register(urlB, b)
	network.Register(urlC, c)
	network.Register(urlD, d)

	recipients := []keys.PublicKey{fixtures.PublicKey2, fixtures.PublicKey3, fixtures.PublicKey4}
	p := fixtures.Payload("all", fixtures.PublicKey1, recipients...)

	pub := publish.New(directory(fixtures.PublicKey2, fixtures.PublicKey3, fixtures.PublicKey4), network, time.Second, managed(fixtures.PublicKey1))
	err := pub.Publish(context.Background(), p, recipients)
	assert.Nil(t, err, "wrong publish error")

	for i, s := range []*sink{b, c, d} {
		assert.Equal(t, 1, len(s.received), "recipient %d: wrong push count", i)
		got := s.received[0]
		assert.Equal(t, p.Digest(), got.Digest(), "recipient %d: wrong digest", i)
		assert.Equal(t, []keys.PublicKey{recipients[i]}, got.RecipientKeys, "recipient %d: copy not scoped", i)
		assert.Equal(t, 1, len(got.RecipientBoxes), "recipient %d: wrong box count", i)
	}
}

func TestPublishUnresolvedSendsNothing(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	// no Push is expected: any call fails the test
	client := mocks.NewMockClient(ctl)

	recipients := []keys.PublicKey{fixtures.PublicKey2, fixtures.PublicKey3, fixtures.PublicKey4}
	p := fixtures.Payload("unresolved", fixtures.PublicKey1, recipients...)

	pub := publish.New(directory(fixtures.PublicKey2, fixtures.PublicKey3), client, time.Second, managed(fixtures.PublicKey1))
	err := pub.Publish(context.Background(), p, recipients)

	var pe *fault.PublishError
	assert.True(t, errors.As(err, &pe), "not a publish error: %v", err)
	assert.Equal(t, 3, pe.Recipients, "wrong recipient count")
	assert.Equal(t, 1, len(pe.Failures), "wrong failure count")
	assert.Equal(t, fault.ErrRecipientUnresolved, pe.FailureFor(fixtures.PublicKey4.String()), "wrong cause for key 4")
	assert.True(t, errors.Is(err, fault.ErrRecipientUnresolved), "unresolved not matched")
}

func TestPublishUnreachableDeliversOthers(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	network := transport.NewMemory()
	b, c := &sink{}, &sink{}
	network.Register(urlB, b)
	network.Register(urlC, c)
	network.SetUnreachable(urlD, true)

	recipients := []keys.PublicKey{fixtures.PublicKey2, fixtures.PublicKey3, fixtures.PublicKey4}
	p := fixtures.Payload("unreachable", fixtures.PublicKey1, recipients...)

	pub := publish.New(directory(fixtures.PublicKey2, fixtures.PublicKey3, fixtures.PublicKey4), network, time.Second, managed(fixtures.PublicKey1))
	err := pub.Publish(context.Background(), p, recipients)

	var pe *fault.PublishError
	assert.True(t, errors.As(err, &pe), "not a publish error: %v", err)
	assert.Equal(t, 1, len(pe.Failures), "wrong failure count")
	assert.Equal(t, fixtures.PublicKey4.String(), pe.Failures[0].Recipient, "wrong failed recipient")
	assert.True(t, errors.Is(pe.FailureFor(fixtures.PublicKey4.String()), fault.ErrRecipientUnreachable), "wrong cause")
	assert.False(t, errors.Is(err, fault.ErrRecipientRejected), "reported as rejected")

	// no retraction: the others keep their copies
	assert.Equal(t, 1, len(b.received), "B not delivered")
	assert.Equal(t, 1, len(c.received), "C not delivered")
	assert.Equal(t, 1, network.Calls(urlD), "D not attempted")
}

func TestPublishRejected(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	recipients := []keys.PublicKey{fixtures.PublicKey2, fixtures.PublicKey3}
	p := fixtures.Payload("rejected", fixtures.PublicKey1, recipients...)

	client := mocks.NewMockClient(ctl)
	client.EXPECT().Push(gomock.Any(), urlB, gomock.Any()).Return(p.Digest(), nil).Times(1)
	client.EXPECT().Push(gomock.Any(), urlC, gomock.Any()).Return(
		payload.Digest{}, &fault.TransportError{URL: urlC, Kind: fault.Rejected}).Times(1)

	pub := publish.New(directory(fixtures.PublicKey2, fixtures.PublicKey3), client, time.Second, managed(fixtures.PublicKey1))
	err := pub.Publish(context.Background(), p, recipients)

	var pe *fault.PublishError
	assert.True(t, errors.As(err, &pe), "not a publish error: %v", err)
	assert.True(t, errors.Is(pe.FailureFor(fixtures.PublicKey3.String()), fault.ErrRecipientRejected), "wrong cause")
	assert.Nil(t, pe.FailureFor(fixtures.PublicKey2.String()), "B reported as failed")
}

func TestPublishDigestMismatch(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	recipients := []keys.PublicKey{fixtures.PublicKey2}
	p := fixtures.Payload("mismatch", fixtures.PublicKey1, recipients...)

	client := mocks.NewMockClient(ctl)
	client.EXPECT().Push(gomock.Any(), urlB, gomock.Any()).Return(payload.Digest{}, nil).Times(1)

	pub := publish.New(directory(fixtures.PublicKey2), client, time.Second, managed(fixtures.PublicKey1))
	err := pub.Publish(context.Background(), p, recipients)
	assert.True(t, errors.Is(err, fault.ErrDigestMismatch), "wrong error: %v", err)
}

func TestPublishSkipsLocalRecipients(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	recipients := []keys.PublicKey{fixtures.PublicKey1, fixtures.PublicKey2, fixtures.PublicKey2}
	p := fixtures.Payload("local", fixtures.PublicKey1, fixtures.PublicKey1, fixtures.PublicKey2)

	client := mocks.NewMockClient(ctl)
	client.EXPECT().Push(gomock.Any(), urlB, gomock.Any()).Return(p.Digest(), nil).Times(1)

	pub := publish.New(directory(fixtures.PublicKey1, fixtures.PublicKey2), client, time.Second, managed(fixtures.PublicKey1))
	err := pub.Publish(context.Background(), p, recipients)
	assert.Nil(t, err, "wrong publish error")
}

func TestPublishInvalid(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	client := mocks.NewMockClient(ctl)
	pub := publish.New(directory(fixtures.PublicKey2), client, time.Second, managed(fixtures.PublicKey1))
	p := fixtures.Payload("invalid", fixtures.PublicKey1, fixtures.PublicKey2)

	err := pub.Publish(context.Background(), p, nil)
	assert.Equal(t, fault.ErrNoRecipients, err, "wrong empty recipients error")

	err = pub.Publish(context.Background(), p, []keys.PublicKey{fixtures.PublicKey3})
	assert.Equal(t, fault.ErrInvalidPayload, err, "wrong missing box error")

	p.CipherTextNonce = nil
	err = pub.Publish(context.Background(), p, []keys.PublicKey{fixtures.PublicKey2})
	assert.Equal(t, fault.ErrInvalidPayload, err, "wrong invalid payload error")
}

func TestPublishSelfURLNotManaged(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	network := transport.NewMemory()
	b := &sink{}
	network.Register(urlB, b)

	// A holds no keys but learned k2 -> A from a stale peer view
	service := partyinfo.NewService(partyinfo.Empty(urlA))
	service.Merge(partyinfo.New(urlB, []partyinfo.Recipient{{Key: fixtures.PublicKey2, URL: urlA}}, nil))

	p := fixtures.Payload("stale", fixtures.PublicKey1, fixtures.PublicKey2)
	pub := publish.New(service, network, time.Second, managed())
	err := pub.Publish(context.Background(), p, []keys.PublicKey{fixtures.PublicKey2})

	var pe *fault.PublishError
	assert.True(t, errors.As(err, &pe), "not a publish error: %v", err)
	assert.Equal(t, fault.ErrRecipientUnresolved, pe.FailureFor(fixtures.PublicKey2.String()), "wrong cause for key 2")
	assert.Equal(t, 0, len(b.received), "B should not be pushed")
	assert.Equal(t, 0, network.Calls(urlA), "A should not be contacted")
}
