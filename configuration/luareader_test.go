// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package configuration_test

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/txrelay/configuration"
	"github.com/bitmark-inc/txrelay/fault"
)

type syncType struct {
	IntervalSeconds int `gluamapper:"interval_seconds"`
	TimeoutSeconds  int `gluamapper:"timeout_seconds"`
}

type testConfiguration struct {
	URL    string            `gluamapper:"url"`
	Peers  []string          `gluamapper:"peers"`
	Sync   syncType          `gluamapper:"sync"`
	Levels map[string]string `gluamapper:"levels"`
}

const script = `
local M = {}
M.url = "https://" .. (arg["host"] or "localhost") .. ":9001"
M.peers = { "https://b.example:9001", "https://c.example:9001" }
M.sync = {
    interval_seconds = 30,
    timeout_seconds = 5,
}
M.levels = { main = "info", gossip = "debug" }
return M
`

func TestParseConfigurationFile(t *testing.T) {
	fileName := filepath.Join(t.TempDir(), "txrelayd.conf")
	err := ioutil.WriteFile(fileName, []byte(script), 0600)
	assert.Nil(t, err, "write error")

	c := testConfiguration{}
	err = configuration.ParseConfigurationFile(fileName, &c, map[string]string{"host": "a.example"})
	assert.Nil(t, err, "wrong parse error")

	assert.Equal(t, "https://a.example:9001", c.URL, "variable not used")
	assert.Equal(t, []string{"https://b.example:9001", "https://c.example:9001"}, c.Peers, "wrong peers")
	assert.Equal(t, 30, c.Sync.IntervalSeconds, "wrong interval")
	assert.Equal(t, 5, c.Sync.TimeoutSeconds, "wrong timeout")
	assert.Equal(t, "debug", c.Levels["gossip"], "wrong level")
}

func TestParseConfigurationString(t *testing.T) {
	c := testConfiguration{URL: "default"}
	err := configuration.ParseConfigurationString(script, &c)
	assert.Nil(t, err, "wrong parse error")
	assert.Equal(t, "https://localhost:9001", c.URL, "wrong default host")

	err = configuration.ParseConfigurationString(`return 42`, &c)
	assert.True(t, fault.IsErrInvalid(err), "non table accepted: %v", err)

	err = configuration.ParseConfigurationString(`return {`, &c)
	assert.NotNil(t, err, "syntax error not reported")

	err = configuration.ParseConfigurationFile("/nonexistent/txrelayd.conf", &c, nil)
	assert.NotNil(t, err, "missing file accepted")
}
