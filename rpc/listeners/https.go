// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package listeners

import (
	"context"
	"crypto/tls"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/txrelay/fault"
)

const (
	minConnectionCount = 1
	readTimeout        = 10 * time.Second
	shutdownTimeout    = 5 * time.Second
)

// HTTPSConfiguration - configuration file data for an HTTPS listener
type HTTPSConfiguration struct {
	MaximumConnections uint64   `gluamapper:"maximum_connections" json:"maximum_connections"`
	Listen             []string `gluamapper:"listen" json:"listen"`
	Certificate        string   `gluamapper:"certificate" json:"certificate"`
	PrivateKey         string   `gluamapper:"private_key" json:"private_key"`
}

// HTTPS - serve one handler on several addresses
//
// tlsConfig may be nil for plain HTTP
type HTTPS struct {
	log         *logger.L
	name        string
	listen      []string
	tlsConfig   *tls.Config
	handler     http.Handler
	connections *connectionCount

	sync.Mutex
	addresses []net.Addr
	ready     chan struct{}
}

// NewHTTPS - create a listener process, nil when no addresses are configured
func NewHTTPS(name string, configuration *HTTPSConfiguration, tlsConfig *tls.Config, handler http.Handler) (*HTTPS, error) {
	log := logger.New(name)

	if 0 == len(configuration.Listen) {
		log.Infof("disable: %s", name)
		return nil, nil
	}

	if configuration.MaximumConnections < minConnectionCount {
		log.Errorf("invalid %s maximum connection limit: %d", name, configuration.MaximumConnections)
		return nil, fault.ErrMissingParameters
	}

	listen := make([]string, 0, len(configuration.Listen))
	for _, l := range configuration.Listen {
		l = strings.TrimSpace(l)
		if strings.HasPrefix(l, "*:") {
			// "*:PORT" listens on tcp4 and tcp6
			l = "[::]" + l[1:]
		}
		listen = append(listen, l)
	}

	if nil != tlsConfig {
		tlsConfig = tlsConfig.Clone()
		tlsConfig.NextProtos = []string{"http/1.1"}
	}

	return &HTTPS{
		log:         log,
		name:        name,
		listen:      listen,
		tlsConfig:   tlsConfig,
		handler:     handler,
		connections: newConnectionCount(configuration.MaximumConnections),
		ready:       make(chan struct{}),
	}, nil
}

// Run - background process, serve until shutdown
func (h *HTTPS) Run(args interface{}, shutdown <-chan struct{}) {
	servers := make([]*http.Server, 0, len(h.listen))
	var wg sync.WaitGroup

	h.Lock()
	for _, address := range h.listen {
		ln, err := net.Listen("tcp", address)
		if nil != err {
			h.log.Errorf("%s listen on: %q  error: %s", h.name, address, err)
			continue
		}
		h.addresses = append(h.addresses, ln.Addr())
		h.log.Infof("starting server: %s on: %s", h.name, ln.Addr())

		ln = &limitListener{Listener: ln, log: h.log, count: h.connections}
		if nil != h.tlsConfig {
			ln = tls.NewListener(ln, h.tlsConfig)
		}

		s := &http.Server{
			Handler:           h.handler,
			ReadHeaderTimeout: readTimeout,
			MaxHeaderBytes:    1 << 20,
		}
		servers = append(servers, s)

		wg.Add(1)
		go func(address string) {
			defer wg.Done()
			if err := s.Serve(ln); nil != err && http.ErrServerClosed != err {
				h.log.Errorf("%s on: %q  serve error: %s", h.name, address, err)
			}
		}(address)
	}
	h.Unlock()
	close(h.ready)

	<-shutdown
	h.log.Info("shutting down…")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	for _, s := range servers {
		if err := s.Shutdown(ctx); nil != err {
			h.log.Warnf("%s shutdown error: %s", h.name, err)
			s.Close()
		}
	}
	wg.Wait()
	h.log.Info("stopped")
}

// Addresses - bound addresses, blocks until Run has opened its listeners
func (h *HTTPS) Addresses() []net.Addr {
	<-h.ready
	h.Lock()
	defer h.Unlock()
	return append([]net.Addr{}, h.addresses...)
}

// Connections - currently open connections
func (h *HTTPS) Connections() uint64 {
	return h.connections.current()
}
