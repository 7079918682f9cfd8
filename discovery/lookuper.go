// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package discovery

import (
	"strings"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/txrelay/fault"
)

// Lookuper - fetch and decode the records of a domain
type Lookuper interface {
	Lookup(string) ([]DnsTXT, error)
}

type lookuper struct {
	log *logger.L
	f   func(string) ([]string, error)
}

// NewLookuper - f is normally net.LookupTXT
func NewLookuper(log *logger.L, f func(string) ([]string, error)) Lookuper {
	return &lookuper{
		log: log,
		f:   f,
	}
}

// Lookup - undecodable records are skipped
func (l *lookuper) Lookup(domainName string) ([]DnsTXT, error) {
	log := l.log
	var result []DnsTXT
	if "" == domainName {
		log.Error("invalid node domain")
		return result, fault.ErrInvalidNodeDomain
	}

	txts, err := l.f(domainName)
	if nil != err {
		log.Errorf("lookup TXT record error: %s", err)
		return result, err
	}

	for i, t := range txts {
		t = strings.TrimSpace(t)
		txt, err := Parse(t)
		if nil != err {
			log.Debugf("ignore TXT[%d]: %q  error: %s", i, t, err)
			continue
		}
		log.Infof("process TXT[%d]: %q", i, t)
		log.Infof("result[%d]: urls: %q  fingerprint: %x", i, txt.URLs, txt.CertificateFingerprint)
		result = append(result, *txt)
	}

	return result, nil
}
