// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package resend_test

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	enclavemocks "github.com/bitmark-inc/txrelay/enclave/mocks"
	"github.com/bitmark-inc/txrelay/fault"
	"github.com/bitmark-inc/txrelay/fixtures"
	"github.com/bitmark-inc/txrelay/keys"
	"github.com/bitmark-inc/txrelay/partyinfo"
	"github.com/bitmark-inc/txrelay/payload"
	"github.com/bitmark-inc/txrelay/resend"
	"github.com/bitmark-inc/txrelay/storage"
	storagemocks "github.com/bitmark-inc/txrelay/storage/mocks"
	"github.com/bitmark-inc/txrelay/transport"
)

const (
	urlA = "http://node-a:9001"
	urlB = "http://node-b:9001"
	urlC = "http://node-c:9001"
	urlD = "http://node-d:9001"
)

var errNotSupported = errors.New("not supported")

// records the order in which streams start and finish
type journal struct {
	sync.Mutex
	events []string
}

func (j *journal) add(event string) {
	j.Lock()
	j.events = append(j.events, event)
	j.Unlock()
}

// a peer holding a fixed list of payloads
type archive struct {
	url      string
	payloads []*payload.Encoded
	journal  *journal
}

func (a *archive) PartyInfo(ctx context.Context, info *partyinfo.PartyInfo) (*partyinfo.PartyInfo, error) {
	return nil, errNotSupported
}

func (a *archive) Push(ctx context.Context, p *payload.Encoded) (payload.Digest, error) {
	return payload.Digest{}, errNotSupported
}

func (a *archive) Resend(ctx context.Context, req *transport.ResendRequest, fn func(*payload.Encoded) error) error {
	if nil != a.journal {
		a.journal.add("start " + a.url)
		defer a.journal.add("end " + a.url)
	}
	for _, p := range a.payloads {
		if err := fn(p); nil != err {
			return err
		}
	}
	return nil
}

func openStore(t *testing.T) *storage.Store {
	s, err := storage.Open(filepath.Join(t.TempDir(), "resend.leveldb"), storage.ReadWrite)
	if nil != err {
		t.Fatalf("storage open error: %s", err)
	}
	return s
}

func countFor(t *testing.T, s storage.Handle, key keys.PublicKey) int {
	c := s.PayloadsFor(key)
	defer c.Close()
	n := 0
	for c.Next() {
		n += 1
	}
	assert.Nil(t, c.Err(), "wrong cursor error")
	return n
}

func directory(peers ...string) *partyinfo.Service {
	parties := make([]partyinfo.Party, 0, len(peers))
	for _, url := range peers {
		parties = append(parties, partyinfo.Party{URL: url})
	}
	return partyinfo.NewService(partyinfo.New(urlA,
		[]partyinfo.Recipient{{Key: fixtures.PublicKey1, URL: urlA}},
		parties,
	))
}

func forKey1(texts ...string) []*payload.Encoded {
	result := make([]*payload.Encoded, 0, len(texts))
	for _, text := range texts {
		result = append(result, fixtures.Payload(text, fixtures.PublicKey2, fixtures.PublicKey1))
	}
	return result
}

func TestRecoverForWithDuplicate(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	store := openStore(t)
	defer store.Close()

	network := transport.NewMemory()
	network.Register(urlB, &archive{url: urlB, payloads: forKey1("p1", "p2")})
	network.Register(urlC, &archive{url: urlC, payloads: forKey1("p2", "p3")})

	c := resend.New(directory(urlB, urlC), network, store, enclavemocks.NewMockEnclave(ctl))
	report := c.RecoverFor(context.Background(), fixtures.PublicKey1)

	assert.Equal(t, fixtures.PublicKey1, report.Key, "wrong key")
	assert.Equal(t, 2, len(report.Peers), "wrong peer count")
	assert.Equal(t, resend.PeerReport{URL: urlB, Inserted: 2}, report.Peers[0], "wrong report for B")
	assert.Equal(t, resend.PeerReport{URL: urlC, Inserted: 1, Duplicates: 1}, report.Peers[1], "wrong report for C")
	assert.Equal(t, 3, report.Stored(), "wrong stored count")
	assert.Equal(t, 0, report.Failed(), "wrong failed count")

	assert.Equal(t, 3, countFor(t, store, fixtures.PublicKey1), "wrong payloads in storage")
}

func TestRecoverForPeerFailsMidStream(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	store := openStore(t)
	defer store.Close()

	j := &journal{}
	network := transport.NewMemory()
	network.Register(urlB, &archive{url: urlB, payloads: forKey1("b1", "b2"), journal: j})
	network.Register(urlC, &archive{url: urlC, payloads: forKey1("c1", "c2", "c3"), journal: j})
	network.Register(urlD, &archive{url: urlD, payloads: forKey1("d1", "d2"), journal: j})
	network.BreakResendAfter(urlC, 1)

	c := resend.New(directory(urlB, urlC, urlD), network, store, enclavemocks.NewMockEnclave(ctl))
	report := c.RecoverFor(context.Background(), fixtures.PublicKey1)

	assert.Equal(t, 3, len(report.Peers), "wrong peer count")
	assert.Nil(t, report.Peers[0].Err, "B failed")
	assert.Equal(t, 2, report.Peers[0].Inserted, "wrong count from B")

	assert.True(t, errors.Is(report.Peers[1].Err, fault.ErrUnreachablePeer), "wrong error from C: %v", report.Peers[1].Err)
	assert.Equal(t, 1, report.Peers[1].Inserted, "payload before break not kept")

	assert.Nil(t, report.Peers[2].Err, "D failed")
	assert.Equal(t, 2, report.Peers[2].Inserted, "wrong count from D")

	assert.Equal(t, 1, report.Failed(), "wrong failed count")
	assert.Equal(t, 5, countFor(t, store, fixtures.PublicKey1), "wrong payloads in storage")

	expected := []string{
		"start " + urlB, "end " + urlB,
		"start " + urlC, "end " + urlC,
		"start " + urlD, "end " + urlD,
	}
	assert.Equal(t, expected, j.events, "peers not asked one at a time")
}

func TestRecoverForUnreachablePeer(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	store := openStore(t)
	defer store.Close()

	network := transport.NewMemory()
	network.SetUnreachable(urlB, true)
	network.Register(urlC, &archive{url: urlC, payloads: forKey1("c1")})

	c := resend.New(directory(urlB, urlC), network, store, enclavemocks.NewMockEnclave(ctl))
	report := c.RecoverFor(context.Background(), fixtures.PublicKey1)

	assert.Equal(t, 2, len(report.Peers), "wrong peer count")
	assert.NotNil(t, report.Peers[0].Err, "unreachable peer not reported")
	assert.Equal(t, 1, report.Peers[1].Inserted, "wrong count from C")
}

func TestRecoverForIgnoresUnrelated(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	store := storagemocks.NewMockHandle(ctl)

	related := fixtures.Payload("mine", fixtures.PublicKey2, fixtures.PublicKey1)
	unrelated := fixtures.Payload("other", fixtures.PublicKey2, fixtures.PublicKey3)
	sent := fixtures.Payload("sent", fixtures.PublicKey1, fixtures.PublicKey3)

	store.EXPECT().StoreIfAbsent(related).Return(related.Digest(), storage.Inserted, nil).Times(1)
	store.EXPECT().StoreIfAbsent(sent).Return(sent.Digest(), storage.Updated, nil).Times(1)

	network := transport.NewMemory()
	network.Register(urlB, &archive{url: urlB, payloads: []*payload.Encoded{related, unrelated, sent}})

	c := resend.New(directory(urlB), network, store, enclavemocks.NewMockEnclave(ctl))
	report := c.RecoverFor(context.Background(), fixtures.PublicKey1)

	assert.Equal(t, resend.PeerReport{URL: urlB, Inserted: 1, Updated: 1, Ignored: 1}, report.Peers[0], "wrong report")
}

func TestRecoverForStorageFailure(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	store := storagemocks.NewMockHandle(ctl)

	fromB := forKey1("b1", "b2", "b3")
	fromC := forKey1("c1")
	conflicting := fixtures.Payload("conflict", fixtures.PublicKey2, fixtures.PublicKey1)

	gomock.InOrder(
		store.EXPECT().StoreIfAbsent(fromB[0]).Return(fromB[0].Digest(), storage.Inserted, nil),
		store.EXPECT().StoreIfAbsent(fromB[1]).Return(payload.Digest{}, storage.Inserted, fault.ErrNotInitialised),
		store.EXPECT().StoreIfAbsent(conflicting).Return(payload.Digest{}, storage.Inserted, fault.ErrStorageConflict),
		store.EXPECT().StoreIfAbsent(fromC[0]).Return(fromC[0].Digest(), storage.AlreadyPresent, nil),
	)

	network := transport.NewMemory()
	network.Register(urlB, &archive{url: urlB, payloads: fromB})
	network.Register(urlC, &archive{url: urlC, payloads: []*payload.Encoded{conflicting, fromC[0]}})

	c := resend.New(directory(urlB, urlC), network, store, enclavemocks.NewMockEnclave(ctl))
	report := c.RecoverFor(context.Background(), fixtures.PublicKey1)

	assert.Equal(t, fault.ErrNotInitialised, report.Peers[0].Err, "storage error not returned")
	assert.Equal(t, 1, report.Peers[0].Inserted, "wrong count from B")
	assert.Equal(t, resend.PeerReport{URL: urlC, Duplicates: 1, Conflicts: 1}, report.Peers[1], "wrong report for C")
}

func TestRecoverAll(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	store := openStore(t)
	defer store.Close()

	e := enclavemocks.NewMockEnclave(ctl)
	e.EXPECT().PublicKeys().Return([]keys.PublicKey{fixtures.PublicKey1, fixtures.PublicKey4}).Times(1)

	network := transport.NewMemory()
	network.Register(urlB, &archive{url: urlB, payloads: []*payload.Encoded{
		fixtures.Payload("to 1", fixtures.PublicKey2, fixtures.PublicKey1),
		fixtures.Payload("to 4", fixtures.PublicKey2, fixtures.PublicKey4),
	}})

	c := resend.New(directory(urlB), network, store, e)
	reports := c.RecoverAll(context.Background())

	assert.Equal(t, 2, len(reports), "wrong report count")
	assert.Equal(t, fixtures.PublicKey1, reports[0].Key, "wrong first key")
	assert.Equal(t, 1, reports[0].Stored(), "wrong stored for key 1")
	assert.Equal(t, 1, reports[0].Peers[0].Ignored, "wrong ignored for key 1")
	assert.Equal(t, fixtures.PublicKey4, reports[1].Key, "wrong second key")
	assert.Equal(t, 1, reports[1].Stored(), "wrong stored for key 4")
}

func TestRecoverCancelled(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	store := storagemocks.NewMockHandle(ctl)
	network := transport.NewMemory()
	network.Register(urlB, &archive{url: urlB, payloads: forKey1("b1")})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := resend.New(directory(urlB), network, store, enclavemocks.NewMockEnclave(ctl))
	report := c.RecoverFor(ctx, fixtures.PublicKey1)

	assert.Equal(t, 0, len(report.Peers), "peer asked after cancel")
	assert.Equal(t, 0, network.Calls(urlB), "peer contacted after cancel")
}
