// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transport_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/txrelay/fault"
	"github.com/bitmark-inc/txrelay/fixtures"
	"github.com/bitmark-inc/txrelay/partyinfo"
	"github.com/bitmark-inc/txrelay/payload"
	"github.com/bitmark-inc/txrelay/transport"
)

func newClient() *transport.HTTPClient {
	return transport.NewHTTPClient(500*time.Millisecond, nil)
}

func TestHTTPPartyInfo(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	var received *partyinfo.PartyInfo
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, transport.PartyInfoPath, r.URL.Path, "wrong path")
		assert.Equal(t, http.MethodPost, r.Method, "wrong method")
		received = &partyinfo.PartyInfo{}
		_ = json.NewDecoder(r.Body).Decode(received)

		reply := partyinfo.New("http://node-b:9001", []partyinfo.Recipient{{Key: fixtures.PublicKey2, URL: "http://node-b:9001"}}, nil)
		_ = json.NewEncoder(w).Encode(reply)
	}))
	defer server.Close()

	local := partyinfo.New("http://node-a:9001", []partyinfo.Recipient{{Key: fixtures.PublicKey1, URL: "http://node-a:9001"}}, nil)
	reply, err := newClient().PartyInfo(context.Background(), server.URL, local)
	assert.Nil(t, err, "wrong partyinfo error")
	assert.True(t, local.Equal(received), "wrong view sent")

	url, err := reply.ResolveURL(fixtures.PublicKey2)
	assert.Nil(t, err, "wrong resolve error")
	assert.Equal(t, "http://node-b:9001", url, "wrong reply")
}

func TestHTTPPush(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	p := fixtures.Payload("push", fixtures.PublicKey1, fixtures.PublicKey2)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		received := &payload.Encoded{}
		err := json.NewDecoder(r.Body).Decode(received)
		assert.Nil(t, err, "wrong body")
		_, _ = w.Write([]byte(received.Digest().String()))
	}))
	defer server.Close()

	digest, err := newClient().Push(context.Background(), server.URL, p)
	assert.Nil(t, err, "wrong push error")
	assert.Equal(t, p.Digest(), digest, "wrong digest")
}

func TestHTTPPushDigestMismatch(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(payload.NewDigest([]byte("other")).String()))
	}))
	defer server.Close()

	_, err := newClient().Push(context.Background(), server.URL, fixtures.Payload("x", fixtures.PublicKey1, fixtures.PublicKey2))
	assert.True(t, errors.Is(err, fault.ErrDigestMismatch), "wrong mismatch error: %v", err)
	assert.True(t, errors.Is(err, fault.ErrUnreachablePeer), "protocol error is not unreachable")
}

func TestHTTPPushOversizedReply(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	p := fixtures.Payload("x", fixtures.PublicKey1, fixtures.PublicKey2)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(p.Digest().String()))
		chunk := make([]byte, 4096)
		for i := range chunk {
			chunk[i] = 'A'
		}
		// endless body: stops when the client hangs up
		for {
			if _, err := w.Write(chunk); nil != err {
				return
			}
			select {
			case <-r.Context().Done():
				return
			default:
			}
		}
	}))
	defer server.Close()

	_, err := newClient().Push(context.Background(), server.URL, p)
	var te *fault.TransportError
	assert.True(t, errors.As(err, &te), "not a transport error: %v", err)
	assert.Equal(t, fault.Protocol, te.Kind, "reply was not bounded: %v", err)
}

func TestHTTPRejected(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad payload", http.StatusBadRequest)
	}))
	defer server.Close()

	_, err := newClient().Push(context.Background(), server.URL, fixtures.Payload("x", fixtures.PublicKey1, fixtures.PublicKey2))
	assert.True(t, errors.Is(err, fault.ErrRecipientRejected), "wrong rejection: %v", err)

	var te *fault.TransportError
	assert.True(t, errors.As(err, &te), "not a transport error")
	assert.Equal(t, fault.Rejected, te.Kind, "wrong kind")
	assert.Contains(t, te.Error(), "bad payload", "body not reported")
}

func TestHTTPConnectionRefused(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	err := newClient().Upcheck(context.Background(), url)
	var te *fault.TransportError
	assert.True(t, errors.As(err, &te), "not a transport error")
	assert.Equal(t, fault.ConnectionRefused, te.Kind, "wrong kind")
	assert.True(t, errors.Is(err, fault.ErrUnreachablePeer), "refused is not unreachable")
}

func TestHTTPTimeout(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client := transport.NewHTTPClient(50*time.Millisecond, nil)
	err := client.Upcheck(context.Background(), server.URL)

	var te *fault.TransportError
	assert.True(t, errors.As(err, &te), "not a transport error")
	assert.Equal(t, fault.Timeout, te.Kind, "wrong kind")
}

func TestHTTPResendStream(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	items := []*payload.Encoded{
		fixtures.Payload("1", fixtures.PublicKey2, fixtures.PublicKey1),
		fixtures.Payload("2", fixtures.PublicKey2, fixtures.PublicKey1),
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := &transport.ResendRequest{}
		err := json.NewDecoder(r.Body).Decode(req)
		assert.Nil(t, err, "wrong request body")
		assert.Equal(t, transport.ResendAll, req.Type, "wrong type")
		assert.Equal(t, fixtures.PublicKey1, req.PublicKey, "wrong key")
		_ = json.NewEncoder(w).Encode(items)
	}))
	defer server.Close()

	received := []*payload.Encoded{}
	err := newClient().Resend(context.Background(), server.URL, &transport.ResendRequest{Type: transport.ResendAll, PublicKey: fixtures.PublicKey1}, func(p *payload.Encoded) error {
		received = append(received, p)
		return nil
	})
	assert.Nil(t, err, "wrong resend error")
	assert.Equal(t, items, received, "wrong payloads")
}

func TestHTTPResendBrokenStream(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	first, _ := json.Marshal(fixtures.Payload("1", fixtures.PublicKey2, fixtures.PublicKey1))
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprintf(w, "[%s,{\"sender\":", first)
	}))
	defer server.Close()

	n := 0
	err := newClient().Resend(context.Background(), server.URL, &transport.ResendRequest{Type: transport.ResendAll, PublicKey: fixtures.PublicKey1}, func(p *payload.Encoded) error {
		n += 1
		return nil
	})
	assert.Equal(t, 1, n, "wrong count before break")

	var te *fault.TransportError
	assert.True(t, errors.As(err, &te), "not a transport error")
	assert.Equal(t, fault.Protocol, te.Kind, "wrong kind")
}

func TestHTTPResendCallbackError(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]*payload.Encoded{
			fixtures.Payload("1", fixtures.PublicKey2, fixtures.PublicKey1),
			fixtures.Payload("2", fixtures.PublicKey2, fixtures.PublicKey1),
		})
	}))
	defer server.Close()

	n := 0
	err := newClient().Resend(context.Background(), server.URL, &transport.ResendRequest{Type: transport.ResendAll, PublicKey: fixtures.PublicKey1}, func(p *payload.Encoded) error {
		n += 1
		return fault.ErrStorageConflict
	})
	assert.Equal(t, fault.ErrStorageConflict, err, "callback error not returned")
	assert.Equal(t, 1, n, "stream continued after callback error")
}

func TestResendRequestJSON(t *testing.T) {
	digest := payload.NewDigest([]byte("x"))
	req := &transport.ResendRequest{Type: transport.ResendIndividual, PublicKey: fixtures.PublicKey1, Key: &digest}

	b, err := json.Marshal(req)
	assert.Nil(t, err, "wrong marshal error")
	assert.Contains(t, string(b), `"type":"INDIVIDUAL"`, "wrong type text")

	decoded := &transport.ResendRequest{}
	err = json.Unmarshal(b, decoded)
	assert.Nil(t, err, "wrong unmarshal error")
	assert.Equal(t, req, decoded, "wrong decoded request")
	assert.Nil(t, decoded.Validate(), "wrong validation")

	err = json.Unmarshal([]byte(`{"type":"some","publicKey":"`+fixtures.PublicKey1.String()+`"}`), decoded)
	assert.NotNil(t, err, "bad type accepted")

	missing := &transport.ResendRequest{Type: transport.ResendIndividual, PublicKey: fixtures.PublicKey1}
	assert.Equal(t, fault.ErrMissingParameters, missing.Validate(), "missing digest accepted")
}
