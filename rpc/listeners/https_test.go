// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package listeners_test

import (
	"crypto/tls"
	"io/ioutil"
	"net"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/txrelay/background"
	"github.com/bitmark-inc/txrelay/fault"
	"github.com/bitmark-inc/txrelay/fixtures"
	"github.com/bitmark-inc/txrelay/rpc/certificate"
	"github.com/bitmark-inc/txrelay/rpc/listeners"
)

func hello(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("hello"))
}

func TestNewHTTPSDisabled(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	h, err := listeners.NewHTTPS("test", &listeners.HTTPSConfiguration{}, nil, http.HandlerFunc(hello))
	assert.Nil(t, err, "wrong disabled error")
	assert.Nil(t, h, "listener created without addresses")

	_, err = listeners.NewHTTPS("test", &listeners.HTTPSConfiguration{Listen: []string{"127.0.0.1:0"}}, nil, http.HandlerFunc(hello))
	assert.Equal(t, fault.ErrMissingParameters, err, "zero connection limit accepted")
}

func TestHTTPSServe(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	dir := t.TempDir()
	certFile := filepath.Join(dir, "test.crt")
	keyFile := filepath.Join(dir, "test.key")
	err := certificate.MakeSelfSigned("test", certFile, keyFile, false, []string{"127.0.0.1"})
	assert.Nil(t, err, "certificate error")
	tlsConfig, _, err := certificate.Load(logger.New(fixtures.LogCategory), "test", certFile, keyFile)
	assert.Nil(t, err, "load error")

	configuration := &listeners.HTTPSConfiguration{
		MaximumConnections: 10,
		Listen:             []string{"127.0.0.1:0"},
	}
	h, err := listeners.NewHTTPS("test", configuration, tlsConfig, http.HandlerFunc(hello))
	assert.Nil(t, err, "wrong new error")

	processes := background.Start(background.Processes{h}, nil)
	defer processes.Stop()

	addresses := h.Addresses()
	assert.Equal(t, 1, len(addresses), "wrong address count")

	client := &http.Client{
		Transport: &http.Transport{TLSClientConfig: &tls.Config{InsecureSkipVerify: true}},
		Timeout:   5 * time.Second,
	}
	response, err := client.Get("https://" + addresses[0].String() + "/")
	assert.Nil(t, err, "get error")
	body, _ := ioutil.ReadAll(response.Body)
	response.Body.Close()
	assert.Equal(t, "hello", string(body), "wrong body")
}

func TestHTTPSConnectionLimit(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	configuration := &listeners.HTTPSConfiguration{
		MaximumConnections: 1,
		Listen:             []string{"127.0.0.1:0"},
	}
	h, err := listeners.NewHTTPS("test", configuration, nil, http.HandlerFunc(hello))
	assert.Nil(t, err, "wrong new error")

	processes := background.Start(background.Processes{h}, nil)
	defer processes.Stop()

	address := h.Addresses()[0].String()

	first, err := net.Dial("tcp", address)
	assert.Nil(t, err, "first dial error")
	defer first.Close()

	deadline := time.Now().Add(5 * time.Second)
	for 1 != h.Connections() && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	assert.Equal(t, uint64(1), h.Connections(), "first connection not counted")

	second, err := net.Dial("tcp", address)
	assert.Nil(t, err, "second dial error")
	defer second.Close()
	second.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, err = second.Read(make([]byte, 1))
	assert.NotNil(t, err, "connection over the limit was served")

	first.Close()
	deadline = time.Now().Add(5 * time.Second)
	for 0 != h.Connections() && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	assert.Equal(t, uint64(0), h.Connections(), "closed connection still counted")
}
