// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/txrelay/fault"
	"github.com/bitmark-inc/txrelay/util"
)

func TestNormaliseURL(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"", ""},
		{"  http://node-a:9000/  ", "http://node-a:9000"},
		{"HTTP://Node-A:9000", "http://node-a:9000"},
		{"https://node-b/relay//", "https://node-b/relay"},
		{"not a url/", "not a url"},
	}

	for i, item := range tests {
		actual := util.NormaliseURL(item.in)
		assert.Equal(t, item.expected, actual, "%d: wrong normalised url", i)
	}
}

func TestValidateURL(t *testing.T) {
	assert.Nil(t, util.ValidateURL("http://127.0.0.1:9001"), "wrong http validation")
	assert.Nil(t, util.ValidateURL("https://node-c"), "wrong https validation")
	assert.Equal(t, fault.ErrInvalidURL, util.ValidateURL("ftp://node-c"), "wrong scheme validation")
	assert.Equal(t, fault.ErrInvalidURL, util.ValidateURL("http://"), "wrong host validation")
}

func TestJoinURL(t *testing.T) {
	assert.Equal(t, "http://a:1/partyinfo", util.JoinURL("http://A:1/", "/partyinfo"), "wrong join")
}
