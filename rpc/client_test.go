// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpc_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/txrelay/enclave"
	"github.com/bitmark-inc/txrelay/fault"
	"github.com/bitmark-inc/txrelay/fixtures"
	"github.com/bitmark-inc/txrelay/keys"
	"github.com/bitmark-inc/txrelay/payload"
	"github.com/bitmark-inc/txrelay/rpc"
	"github.com/bitmark-inc/txrelay/storage"
	"github.com/bitmark-inc/txrelay/transaction"
)

type publisher struct {
	err error
	n   int
}

func (p *publisher) Publish(ctx context.Context, e *payload.Encoded, recipients []keys.PublicKey) error {
	p.n += 1
	return p.err
}

func setupClient(t *testing.T) (*httptest.Server, *storage.Store, *publisher) {
	fixtures.SetupTestLogger()

	store, err := storage.Open(filepath.Join(t.TempDir(), "rpc.leveldb"), storage.ReadWrite)
	if nil != err {
		t.Fatalf("storage open error: %s", err)
	}
	pub := &publisher{}
	e := enclave.NewNaCl([]*keys.KeyPair{fixtures.KeyPair1, fixtures.KeyPair2})
	m := transaction.New(e, store, pub)
	return httptest.NewServer(rpc.NewClientHandler(m, nil)), store, pub
}

func teardownClient(server *httptest.Server, store *storage.Store) {
	server.Close()
	store.Close()
	fixtures.TeardownTestLogger()
}

func post(t *testing.T, url string, body interface{}, reply interface{}) int {
	data, err := json.Marshal(body)
	if nil != err {
		t.Fatalf("marshal error: %s", err)
	}
	response, err := http.Post(url, "application/json", bytes.NewReader(data))
	if nil != err {
		t.Fatalf("post error: %s", err)
	}
	defer response.Body.Close()
	if nil != reply {
		json.NewDecoder(response.Body).Decode(reply)
	}
	return response.StatusCode
}

func TestClientSendReceive(t *testing.T) {
	server, store, pub := setupClient(t)
	defer teardownClient(server, store)

	message := []byte("contract call")
	var key rpc.KeyReply
	status := post(t, server.URL+"/send", rpc.SendRequest{
		Payload: message,
		From:    fixtures.PublicKey1,
		To:      []keys.PublicKey{fixtures.PublicKey3},
	}, &key)
	assert.Equal(t, http.StatusOK, status, "wrong send status")
	assert.Equal(t, 1, pub.n, "not published")

	var plain rpc.ReceiveReply
	status = post(t, server.URL+"/receive", rpc.ReceiveRequest{Key: key.Key}, &plain)
	assert.Equal(t, http.StatusOK, status, "wrong receive status")
	assert.Equal(t, message, plain.Payload, "wrong message")

	response, err := http.Get(server.URL + "/transaction/" + key.Key.URLString() + "?to=" + url.QueryEscape(fixtures.PublicKey1.String()))
	assert.Nil(t, err, "get error")
	plain = rpc.ReceiveReply{}
	json.NewDecoder(response.Body).Decode(&plain)
	response.Body.Close()
	assert.Equal(t, http.StatusOK, response.StatusCode, "wrong get status")
	assert.Equal(t, message, plain.Payload, "wrong message from get")

	request, _ := http.NewRequest(http.MethodDelete, server.URL+"/transaction/"+key.Key.URLString(), nil)
	response, err = http.DefaultClient.Do(request)
	assert.Nil(t, err, "delete error")
	response.Body.Close()
	assert.Equal(t, http.StatusNoContent, response.StatusCode, "wrong delete status")

	status = post(t, server.URL+"/receive", rpc.ReceiveRequest{Key: key.Key}, nil)
	assert.Equal(t, http.StatusNotFound, status, "deleted transaction found")
}

func TestClientPublishFailure(t *testing.T) {
	server, store, pub := setupClient(t)
	defer teardownClient(server, store)

	pub.err = fault.NewPublishError("d", 2, map[string]error{
		fixtures.PublicKey3.String(): fault.ErrRecipientUnresolved,
	})

	var reply rpc.PublishFailedReply
	status := post(t, server.URL+"/send", rpc.SendRequest{
		Payload: []byte("m"),
		To:      []keys.PublicKey{fixtures.PublicKey3},
	}, &reply)
	assert.Equal(t, http.StatusBadGateway, status, "wrong send status")
	assert.Equal(t, 1, len(reply.Failures), "wrong failures")
	assert.Equal(t, fixtures.PublicKey3.String(), reply.Failures[0].Recipient, "wrong failed recipient")
	assert.Equal(t, "recipient unresolved", reply.Failures[0].Error, "wrong failure text")

	has, err := store.Has(reply.Key)
	assert.Nil(t, err, "has error")
	assert.True(t, has, "local copy not kept")
}

func TestClientStoreRawSendSigned(t *testing.T) {
	server, store, pub := setupClient(t)
	defer teardownClient(server, store)

	var raw rpc.KeyReply
	status := post(t, server.URL+"/storeraw", rpc.StoreRawRequest{Payload: []byte("unsigned"), From: fixtures.PublicKey2}, &raw)
	assert.Equal(t, http.StatusOK, status, "wrong storeraw status")
	assert.Equal(t, 0, pub.n, "raw transaction published")

	var sent rpc.KeyReply
	status = post(t, server.URL+"/sendsignedtx", rpc.SendSignedRequest{Hash: raw.Key, To: []keys.PublicKey{fixtures.PublicKey3}}, &sent)
	assert.Equal(t, http.StatusOK, status, "wrong sendsignedtx status")
	assert.Equal(t, 1, pub.n, "signed transaction not published")

	var plain rpc.ReceiveReply
	status = post(t, server.URL+"/receive", rpc.ReceiveRequest{Key: sent.Key, To: fixtures.PublicKey2}, &plain)
	assert.Equal(t, http.StatusOK, status, "wrong receive status")
	assert.Equal(t, []byte("unsigned"), plain.Payload, "wrong message")

	status = post(t, server.URL+"/republish", rpc.RepublishRequest{Key: sent.Key}, nil)
	assert.Equal(t, http.StatusOK, status, "wrong republish status")
	assert.Equal(t, 2, pub.n, "not republished")
}

func TestClientRejections(t *testing.T) {
	server, store, _ := setupClient(t)
	defer teardownClient(server, store)

	response, err := http.Get(server.URL + "/send")
	assert.Nil(t, err, "get error")
	response.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, response.StatusCode, "wrong method status")

	response, err = http.Post(server.URL+"/send", "application/json", strings.NewReader("{"))
	assert.Nil(t, err, "post error")
	response.Body.Close()
	assert.Equal(t, http.StatusBadRequest, response.StatusCode, "wrong bad body status")

	response, err = http.Get(server.URL + "/transaction/not-a-digest")
	assert.Nil(t, err, "get error")
	response.Body.Close()
	assert.Equal(t, http.StatusBadRequest, response.StatusCode, "wrong bad digest status")

	status := post(t, server.URL+"/send", rpc.SendRequest{Payload: []byte("m"), From: fixtures.PublicKey3}, nil)
	assert.Equal(t, http.StatusNotFound, status, "unmanaged sender accepted")

	response, err = http.Get(server.URL + "/upcheck")
	assert.Nil(t, err, "upcheck error")
	body, _ := ioutil.ReadAll(response.Body)
	response.Body.Close()
	assert.Equal(t, "I'm up!", string(body), "wrong upcheck reply")
}
