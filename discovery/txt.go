// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package discovery

import (
	"encoding/hex"
	"strings"

	"github.com/bitmark-inc/txrelay/fault"
	"github.com/bitmark-inc/txrelay/util"
)

var supportedTags = map[string]struct{}{
	"txrelay=v1": {},
}

const fingerprintLength = 2 * 32 // characters

// DnsTXT - one decoded record
type DnsTXT struct {
	URLs                   []string
	CertificateFingerprint []byte
}

// Parse - decode a TXT record
func Parse(s string) (*DnsTXT, error) {
	t := &DnsTXT{}
	countF := 0

words:
	for i, w := range strings.Split(strings.TrimSpace(s), " ") {

		if 0 == i {
			if _, ok := supportedTags[w]; ok {
				continue words
			}
			return nil, fault.ErrInvalidDnsTxtRecord
		}

		// ignore empty
		if "" == w {
			continue words
		}

		// require form: <letter>=<word>
		if len(w) < 3 || '=' != w[1] {
			return nil, fault.ErrInvalidDnsTxtRecord
		}

		parameter := w[2:]
		switch w[0] {
		case 'u':
			if err := util.ValidateURL(parameter); nil != err {
				return nil, err
			}
			t.URLs = append(t.URLs, util.NormaliseURL(parameter))
		case 'f':
			if fingerprintLength != len(parameter) {
				return nil, fault.ErrInvalidFingerprint
			}
			fingerprint, err := hex.DecodeString(parameter)
			if nil != err {
				return nil, fault.ErrInvalidFingerprint
			}
			t.CertificateFingerprint = fingerprint
			countF += 1
		default:
			return nil, fault.ErrInvalidDnsTxtRecord
		}
	}

	if 0 == len(t.URLs) || countF > 1 {
		return nil, fault.ErrInvalidDnsTxtRecord
	}
	return t, nil
}
