// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"strings"
	"time"

	"github.com/bitmark-inc/txrelay/util"
)

// largest error body shown to the user
const maximumErrorBody = 512

type client struct {
	clientURL string
	adminURL  string
	http      *http.Client
}

func newClient(clientURL string, adminURL string, timeout time.Duration, insecure bool) *client {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
	}
	if insecure {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}
	return &client{
		clientURL: clientURL,
		adminURL:  adminURL,
		http: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
	}
}

// body may be nil; reply may be nil to discard the response
func (c *client) call(method string, base string, path string, body interface{}, reply interface{}) error {
	var r io.Reader
	if nil != body {
		data, err := json.Marshal(body)
		if nil != err {
			return err
		}
		r = bytes.NewReader(data)
	}

	request, err := http.NewRequest(method, util.JoinURL(base, path), r)
	if nil != err {
		return err
	}
	if nil != body {
		request.Header.Set("Content-Type", "application/json")
	}

	response, err := c.http.Do(request)
	if nil != err {
		return err
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode > 299 {
		text, _ := ioutil.ReadAll(io.LimitReader(response.Body, maximumErrorBody))
		return &statusError{status: response.StatusCode, body: strings.TrimSpace(string(text))}
	}

	if nil == reply {
		return nil
	}
	if text, ok := reply.(*string); ok {
		data, err := ioutil.ReadAll(response.Body)
		if nil != err {
			return err
		}
		*text = string(data)
		return nil
	}
	return json.NewDecoder(response.Body).Decode(reply)
}

type statusError struct {
	status int
	body   string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("status: %d %s  body: %s", e.status, http.StatusText(e.status), e.body)
}
