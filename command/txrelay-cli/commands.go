// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/txrelay/keys"
	"github.com/bitmark-inc/txrelay/payload"
	"github.com/bitmark-inc/txrelay/rpc"
)

func runUpcheck(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	text := ""
	if err := m.client.call(http.MethodGet, m.client.clientURL, "/upcheck", nil, &text); nil != err {
		return err
	}
	fmt.Fprintf(m.w, "%s\n", strings.TrimSpace(text))
	return nil
}

func runPartyInfo(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	var reply interface{}
	if err := m.client.call(http.MethodGet, m.client.adminURL, "/partyinfo", nil, &reply); nil != err {
		return err
	}
	return printJson(m.w, reply)
}

func runAddPeer(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	peer, err := checkRequired(c, "url")
	if nil != err {
		return err
	}

	if m.verbose {
		fmt.Fprintf(m.e, "add peer: %q\n", peer)
	}

	var reply rpc.AddPeerReply
	err = m.client.call(http.MethodPost, m.client.adminURL, "/peers", &rpc.AddPeerRequest{URL: peer}, &reply)
	if nil != err {
		return err
	}
	return printJson(m.w, reply)
}

func runRecover(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	request := &rpc.RecoverRequest{}
	if s := strings.TrimSpace(c.String("key")); "" != s {
		key, err := keys.ParsePublicKey(s)
		if nil != err {
			return err
		}
		request.PublicKey = &key
	}

	// one report for a key, a list when recovering every key
	var reply interface{}
	if err := m.client.call(http.MethodPost, m.client.adminURL, "/recover", request, &reply); nil != err {
		return err
	}
	return printJson(m.w, reply)
}

func runSend(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	fileName, err := checkRequired(c, "file")
	if nil != err {
		return err
	}

	var data []byte
	if "-" == fileName {
		data, err = ioutil.ReadAll(os.Stdin)
	} else {
		data, err = ioutil.ReadFile(fileName)
	}
	if nil != err {
		return err
	}

	request := &rpc.SendRequest{
		Payload: data,
	}
	if s := strings.TrimSpace(c.String("from")); "" != s {
		request.From, err = keys.ParsePublicKey(s)
		if nil != err {
			return err
		}
	}

	to := c.StringSlice("to")
	if 0 == len(to) {
		return fmt.Errorf("at least one recipient is required")
	}
	for _, s := range to {
		key, err := keys.ParsePublicKey(strings.TrimSpace(s))
		if nil != err {
			return fmt.Errorf("recipient: %q  error: %s", s, err)
		}
		request.To = append(request.To, key)
	}

	if m.verbose {
		fmt.Fprintf(m.e, "send: %d bytes  to: %d recipients\n", len(data), len(request.To))
	}

	var reply rpc.KeyReply
	if err := m.client.call(http.MethodPost, m.client.clientURL, "/send", request, &reply); nil != err {
		return err
	}
	return printJson(m.w, reply)
}

func runReceive(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	hash, err := checkRequired(c, "hash")
	if nil != err {
		return err
	}
	digest, err := payload.ParseDigest(hash)
	if nil != err {
		return err
	}

	path := "/transaction/" + url.PathEscape(digest.URLString())
	if s := strings.TrimSpace(c.String("to")); "" != s {
		to, err := keys.ParsePublicKey(s)
		if nil != err {
			return err
		}
		path += "?to=" + url.QueryEscape(to.String())
	}

	var reply rpc.ReceiveReply
	if err := m.client.call(http.MethodGet, m.client.clientURL, path, nil, &reply); nil != err {
		return err
	}
	_, err = m.w.Write(reply.Payload)
	return err
}

func checkRequired(c *cli.Context, name string) (string, error) {
	s := strings.TrimSpace(c.String(name))
	if "" == s {
		return "", fmt.Errorf("%s is required", name)
	}
	return s, nil
}

func printJson(w io.Writer, message interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(message)
}
