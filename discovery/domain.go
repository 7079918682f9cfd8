// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package discovery

import (
	"net"
	"time"

	"github.com/miekg/dns"

	"github.com/bitmark-inc/logger"
)

const (
	timeInterval = 1 * time.Hour // upper bound for re-fetching the domain

	// ResolvConf - default resolver configuration
	ResolvConf = "/etc/resolv.conf"
)

// Directory - receives discovered party URLs
type Directory interface {
	AddParty(url string) bool
}

// Domain - background process re-reading the seed domain
type Domain struct {
	log        *logger.L
	domainName string
	resolvConf string
	directory  Directory
	lookuper   Lookuper
}

// New - look the domain up once and return the refresh process
//
// f is normally net.LookupTXT
func New(domainName string, resolvConf string, directory Directory, f func(string) ([]string, error)) (*Domain, error) {
	log := logger.New("discovery")
	log.Info("initialising…")

	d := &Domain{
		log:        log,
		domainName: domainName,
		resolvConf: resolvConf,
		directory:  directory,
		lookuper:   NewLookuper(log, f),
	}

	txts, err := d.lookuper.Lookup(d.domainName)
	if nil != err {
		return nil, err
	}
	d.add(txts)

	return d, nil
}

// Run - background processing interface
func (d *Domain) Run(args interface{}, shutdown <-chan struct{}) {
	timer := time.After(d.interval())

loop:
	for {
		select {
		case <-timer:
			timer = time.After(d.interval())
			txts, err := d.lookuper.Lookup(d.domainName)
			if nil != err {
				continue loop
			}
			d.add(txts)

		case <-shutdown:
			break loop
		}
	}
}

func (d *Domain) add(txts []DnsTXT) {
	for i, t := range txts {
		for _, url := range t.URLs {
			if d.directory.AddParty(url) {
				d.log.Infof("result[%d]: added party: %s", i, url)
			}
		}
	}
}

func (d *Domain) interval() time.Duration {
	conf, err := dns.ClientConfigFromFile(d.resolvConf)
	if nil != err {
		d.log.Warnf("reading %s error: %s", d.resolvConf, err)
		return timeInterval
	}
	return interval(d.log, d.domainName, conf)
}

// SOA TTL of the domain, capped at timeInterval
func interval(log *logger.L, domain string, conf *dns.ClientConfig) time.Duration {
	t := timeInterval

	servers := conf.Servers
	if 0 == len(servers) {
		log.Warn("cannot get dns name server")
		return t
	}

	// resolv.conf(5) uses at most three
	if len(servers) > 3 {
		servers = servers[:3]
	}

loop:
	for _, server := range servers {
		s := net.JoinHostPort(server, conf.Port)
		c := dns.Client{Timeout: 5 * time.Second}
		msg := dns.Msg{}
		msg.SetQuestion(dns.Fqdn(domain), dns.TypeSOA)

		r, _, err := c.Exchange(&msg, s)
		if nil != err {
			log.Debugf("exchange with dns server %q error: %s", s, err)
			continue loop
		}

		if 0 == len(r.Ns) && 0 == len(r.Answer) && 0 == len(r.Extra) {
			log.Debugf("no resource record found by dns server %q", s)
			continue loop
		}

		for _, section := range [][]dns.RR{r.Answer, r.Ns, r.Extra} {
			ttl := ttl(section)
			if 0 < ttl {
				log.Infof("got TTL record from server %q value %d", s, ttl)
				ttlSec := time.Duration(ttl) * time.Second
				if timeInterval > ttlSec {
					t = ttlSec
				}
				break loop
			}
		}
	}

	log.Infof("time to re-fetch node domain: %v", t)
	return t
}

// TTL of the first record, preferring SOA
func ttl(rrs []dns.RR) uint32 {
	for _, rr := range rrs {
		if soa, ok := rr.(*dns.SOA); ok {
			return soa.Hdr.Ttl
		}
	}
	if 0 != len(rrs) {
		return rrs[0].Header().Ttl
	}
	return 0
}
