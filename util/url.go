// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util

import (
	"net/url"
	"strings"

	"github.com/bitmark-inc/txrelay/fault"
)

// NormaliseURL - canonical text form of a peer URL
//
// scheme and host are lower-cased and trailing slashes removed so that
// two spellings of the same peer compare equal; text that does not parse
// is only trimmed
func NormaliseURL(s string) string {
	s = strings.TrimSpace(s)
	if "" == s {
		return ""
	}
	u, err := url.Parse(s)
	if nil != err || "" == u.Scheme || "" == u.Host {
		return strings.TrimRight(s, "/")
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawPath = ""
	return u.String()
}

// ValidateURL - check that a URL is usable for contacting a peer
func ValidateURL(s string) error {
	u, err := url.Parse(strings.TrimSpace(s))
	if nil != err {
		return fault.ErrInvalidURL
	}
	switch u.Scheme {
	case "http", "https":
	default:
		return fault.ErrInvalidURL
	}
	if "" == u.Host {
		return fault.ErrInvalidURL
	}
	return nil
}

// JoinURL - append an endpoint path to a normalised base URL
func JoinURL(base string, endpoint string) string {
	return NormaliseURL(base) + "/" + strings.TrimLeft(endpoint, "/")
}
