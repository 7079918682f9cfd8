// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transport

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/txrelay/fault"
	"github.com/bitmark-inc/txrelay/partyinfo"
	"github.com/bitmark-inc/txrelay/payload"
	"github.com/bitmark-inc/txrelay/util"
)

// limit on error bodies copied into a rejection
const maximumErrorBody = 512

// HTTPClient - JSON over HTTP(S) client
type HTTPClient struct {
	log     *logger.L
	client  *http.Client
	timeout time.Duration
}

// NewHTTPClient - each request is bounded by timeout
//
// tlsConfig may be nil for plain HTTP peers
func NewHTTPClient(timeout time.Duration, tlsConfig *tls.Config) *HTTPClient {
	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSClientConfig:     tlsConfig,
		MaxIdleConnsPerHost: 4,
		IdleConnTimeout:     90 * time.Second,
	}
	return &HTTPClient{
		log:     logger.New("transport"),
		client:  &http.Client{Transport: t},
		timeout: timeout,
	}
}

// PartyInfo - exchange views with a peer
func (c *HTTPClient) PartyInfo(ctx context.Context, url string, info *partyinfo.PartyInfo) (*partyinfo.PartyInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	response, err := c.post(ctx, url, PartyInfoPath, info)
	if nil != err {
		return nil, err
	}
	defer response.Body.Close()

	reply := &partyinfo.PartyInfo{}
	if err := json.NewDecoder(response.Body).Decode(reply); nil != err {
		return nil, classify(url, ctx, err, fault.Protocol)
	}
	return reply, nil
}

// Push - deliver a payload
func (c *HTTPClient) Push(ctx context.Context, url string, p *payload.Encoded) (payload.Digest, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	response, err := c.post(ctx, url, PushPath, p)
	if nil != err {
		return payload.Digest{}, err
	}
	defer response.Body.Close()

	// a digest is short, anything longer fails to parse
	body, err := ioutil.ReadAll(io.LimitReader(response.Body, maximumErrorBody))
	if nil != err {
		return payload.Digest{}, classify(url, ctx, err, fault.Protocol)
	}
	digest, err := payload.ParseDigest(string(body))
	if nil != err {
		return payload.Digest{}, &fault.TransportError{URL: url, Kind: fault.Protocol, Err: err}
	}
	if digest != p.Digest() {
		return digest, &fault.TransportError{URL: url, Kind: fault.Protocol, Err: fault.ErrDigestMismatch}
	}
	return digest, nil
}

// Resend - stream payloads from a peer
//
// the timeout bounds the wait for each payload, not the whole stream
func (c *HTTPClient) Resend(ctx context.Context, url string, req *ResendRequest, fn func(*payload.Encoded) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// reset on every item, cancels the request when a peer stalls
	watchdog := time.AfterFunc(c.timeout, cancel)
	defer watchdog.Stop()

	response, err := c.post(ctx, url, ResendPath, req)
	if nil != err {
		return err
	}
	// closing drops the connection if the stream was not fully read
	defer response.Body.Close()

	decoder := json.NewDecoder(response.Body)
	if err := expectDelim(decoder, '['); nil != err {
		return classify(url, ctx, err, fault.Protocol)
	}
	n := 0
	for decoder.More() {
		watchdog.Reset(c.timeout)
		p := &payload.Encoded{}
		if err := decoder.Decode(p); nil != err {
			c.log.Debugf("resend from: %s  failed after: %d  error: %s", url, n, err)
			return classify(url, ctx, err, fault.Protocol)
		}
		n += 1
		if err := fn(p); nil != err {
			return err
		}
	}
	if err := expectDelim(decoder, ']'); nil != err {
		return classify(url, ctx, err, fault.Protocol)
	}
	return nil
}

// Upcheck - liveness probe
func (c *HTTPClient) Upcheck(ctx context.Context, url string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, util.JoinURL(url, UpcheckPath), nil)
	if nil != err {
		return &fault.TransportError{URL: url, Kind: fault.Protocol, Err: err}
	}
	response, err := c.do(ctx, url, request)
	if nil != err {
		return err
	}
	defer response.Body.Close()
	_, _ = io.Copy(ioutil.Discard, response.Body)
	return nil
}

// send a JSON body, any non 2xx status is a rejection
func (c *HTTPClient) post(ctx context.Context, url string, path string, body interface{}) (*http.Response, error) {
	data, err := json.Marshal(body)
	if nil != err {
		return nil, &fault.TransportError{URL: url, Kind: fault.Protocol, Err: err}
	}
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, util.JoinURL(url, path), bytes.NewReader(data))
	if nil != err {
		return nil, &fault.TransportError{URL: url, Kind: fault.Protocol, Err: err}
	}
	request.Header.Set("Content-Type", "application/json")
	return c.do(ctx, url, request)
}

func (c *HTTPClient) do(ctx context.Context, url string, request *http.Request) (*http.Response, error) {
	response, err := c.client.Do(request)
	if nil != err {
		return nil, classify(url, ctx, err, fault.ConnectionRefused)
	}
	if response.StatusCode < 200 || response.StatusCode > 299 {
		text, _ := ioutil.ReadAll(io.LimitReader(response.Body, maximumErrorBody))
		response.Body.Close()
		return nil, &fault.TransportError{
			URL:  url,
			Kind: fault.Rejected,
			Err:  fmt.Errorf("status: %d  %s", response.StatusCode, strings.TrimSpace(string(text))),
		}
	}
	return response, nil
}

func expectDelim(decoder *json.Decoder, delim json.Delim) error {
	token, err := decoder.Token()
	if nil != err {
		return err
	}
	if d, ok := token.(json.Delim); !ok || d != delim {
		return fmt.Errorf("expected: %q  got: %v", delim, token)
	}
	return nil
}

// decide the kind of a failure, deadlines always count as timeouts
func classify(url string, ctx context.Context, err error, kind fault.TransportKind) error {
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(ctx.Err(), context.DeadlineExceeded),
		errors.As(err, &netErr) && netErr.Timeout():
		kind = fault.Timeout
	case errors.Is(err, context.Canceled):
		// a watchdog cancel looks the same as a caller cancel
		kind = fault.Timeout
	}
	return &fault.TransportError{URL: url, Kind: kind, Err: err}
}
