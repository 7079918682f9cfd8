// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/getoptions"
	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/txrelay/background"
	"github.com/bitmark-inc/txrelay/discovery"
	"github.com/bitmark-inc/txrelay/enclave"
	"github.com/bitmark-inc/txrelay/fault"
	"github.com/bitmark-inc/txrelay/keys"
	"github.com/bitmark-inc/txrelay/metrics"
	"github.com/bitmark-inc/txrelay/node"
	"github.com/bitmark-inc/txrelay/p2p"
	"github.com/bitmark-inc/txrelay/rpc"
	"github.com/bitmark-inc/txrelay/rpc/certificate"
	"github.com/bitmark-inc/txrelay/rpc/listeners"
	"github.com/bitmark-inc/txrelay/storage"
	"github.com/bitmark-inc/txrelay/transport"
)

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

// main program
func main() {
	// ensure exit handler is first
	defer exitwithstatus.Handler()

	flags := []getoptions.Option{
		{Long: "help", HasArg: getoptions.NO_ARGUMENT, Short: 'h'},
		{Long: "quiet", HasArg: getoptions.NO_ARGUMENT, Short: 'q'},
		{Long: "version", HasArg: getoptions.NO_ARGUMENT, Short: 'V'},
		{Long: "config-file", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'c'},
	}

	program, options, arguments, err := getoptions.GetOS(flags)
	if nil != err {
		exitwithstatus.Message("%s: getoptions error: %s", program, err)
	}

	if len(options["version"]) > 0 {
		processSetupCommand(program, []string{"version"})
		return
	}

	if len(options["help"]) > 0 {
		processSetupCommand(program, []string{"help"})
		return
	}

	// these commands do not require the configuration and
	// process data needed for initial setup
	if len(arguments) > 0 && processSetupCommand(program, arguments) {
		return
	}

	if 1 != len(options["config-file"]) {
		exitwithstatus.Message("%s: only one config-file option is required, %d were detected", program, len(options["config-file"]))
	}

	// read options and parse the configuration file
	configurationFile := options["config-file"][0]
	variables := map[string]string{
		"program": program,
	}
	theConfiguration, err := getConfiguration(configurationFile, variables)
	if nil != err {
		exitwithstatus.Message("%s: failed to read configuration from: %q  error: %s", program, configurationFile, err)
	}

	// these commands require the configuration and
	// perform enquiries on the configuration
	if len(arguments) > 0 && processConfigCommand(arguments, theConfiguration) {
		return
	}

	// start logging
	if err = logger.Initialise(theConfiguration.Logging); nil != err {
		exitwithstatus.Message("%s: logger setup failed with error: %s", program, err)
	}
	defer logger.Finalise()

	if err = fault.Initialise(); nil != err {
		exitwithstatus.Message("%s: fault setup failed with error: %s", program, err)
	}
	defer fault.Finalise()

	// create a logger channel for the main program
	log := logger.New("main")
	defer log.Info("finished")
	log.Info("starting…")
	log.Infof("version: %s", version)
	log.Debugf("theConfiguration: %v", theConfiguration)

	metrics.SetBuildInfo(version)

	// optional PID file
	// use if not running under a supervisor program like daemon(8)
	if "" != theConfiguration.PidFile {
		lockFile, err := os.OpenFile(theConfiguration.PidFile, os.O_WRONLY|os.O_EXCL|os.O_CREATE, os.ModeExclusive|0600)
		if nil != err {
			if os.IsExist(err) {
				exitwithstatus.Message("%s: another instance is already running", program)
			}
			exitwithstatus.Message("%s: PID file: %q creation failed, error: %s", program, theConfiguration.PidFile, err)
		}
		fmt.Fprintf(lockFile, "%d\n", os.Getpid())
		lockFile.Close()
		defer os.Remove(theConfiguration.PidFile)
	}

	// start the data storage
	log.Infof("database: %q", theConfiguration.Database.Name)
	store, err := storage.Open(theConfiguration.Database.Name, storage.ReadWrite)
	if nil != err {
		log.Criticalf("storage initialise error: %s", err)
		exitwithstatus.Message("storage initialise error: %s", err)
	}
	defer store.Close()

	// managed keys
	password, err := theConfiguration.keyPassword()
	if nil != err {
		log.Criticalf("key password error: %s", err)
		exitwithstatus.Message("key password error: %s", err)
	}
	pairs, err := keys.ReadDirectory(theConfiguration.Keys.Directory, password)
	if nil != err {
		log.Criticalf("read keys from: %q  error: %s", theConfiguration.Keys.Directory, err)
		exitwithstatus.Message("read keys from: %q  error: %s", theConfiguration.Keys.Directory, err)
	}
	log.Infof("keys: %d from: %q", len(pairs), theConfiguration.Keys.Directory)

	// peers present self-signed certificates, identity comes from the directory
	timeout := time.Duration(theConfiguration.Sync.TimeoutSeconds) * time.Second
	client := transport.NewHTTPClient(timeout, &tls.Config{InsecureSkipVerify: true})

	n, err := node.New(&node.Configuration{
		URL:         theConfiguration.URL,
		Peers:       theConfiguration.Peers,
		Timeout:     timeout,
		KeyPassword: password,
	}, enclave.NewNaCl(pairs), store, client)
	if nil != err {
		log.Criticalf("node initialise error: %s", err)
		exitwithstatus.Message("node initialise error: %s", err)
	}
	defer n.Stop()

	var limiter *rate.Limiter
	if theConfiguration.RateLimit.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(theConfiguration.RateLimit.RequestsPerSecond), theConfiguration.RateLimit.Burst)
	}

	processes := background.Processes{
		n.SyncDirectoryPeriodically(time.Duration(theConfiguration.Sync.IntervalSeconds) * time.Second),
	}

	servers := []struct {
		name          string
		configuration *listeners.HTTPSConfiguration
		handler       http.Handler
	}{
		{"p2p", &theConfiguration.P2P, p2p.NewHandler(n.PeerServer(), limiter)},
		{"client", &theConfiguration.Client, rpc.NewClientHandler(n.Transactions(), limiter)},
		{"admin", &theConfiguration.Admin, rpc.NewAdminHandler(n, nil)},
	}
	for _, s := range servers {
		l, err := newListener(log, s.name, s.configuration, s.handler)
		if nil != err {
			log.Criticalf("%s listener error: %s", s.name, err)
			exitwithstatus.Message("%s listener error: %s", s.name, err)
		}
		if nil != l {
			processes = append(processes, l)
		}
	}

	// DNS seeding of party URLs
	if "none" != theConfiguration.Nodes {
		d, err := discovery.New(theConfiguration.Nodes, discovery.ResolvConf, n.Directory(), net.LookupTXT)
		if nil != err {
			log.Criticalf("discovery initialise error: %s", err)
			exitwithstatus.Message("discovery initialise error: %s", err)
		}
		processes = append(processes, d)
	}

	// new key files trigger recovery
	watcher, err := keys.NewWatcher(theConfiguration.Keys.Directory, n.KeyAdded)
	if nil != err {
		log.Criticalf("key watcher error: %s", err)
		exitwithstatus.Message("key watcher error: %s", err)
	}
	processes = append(processes, watcher)

	running := background.Start(processes, nil)
	defer running.Stop()

	// pull anything missed while this node was down
	ctx, cancel := context.WithCancel(context.Background())
	recovered := make(chan struct{})
	go func() {
		defer close(recovered)
		n.SyncDirectoryOnce(ctx)
		for _, report := range n.RecoverAllKnownKeys(ctx) {
			log.Infof("startup recovery key: %s  stored: %d  failed peers: %d", report.Key, report.Stored(), report.Failed())
		}
	}()
	defer func() {
		cancel()
		<-recovered
	}()

	// wait for CTRL-C before shutting down to allow manual testing
	if 0 == len(options["quiet"]) {
		fmt.Printf("\n\nWaiting for CTRL-C (SIGINT) or 'kill <pid>' (SIGTERM)…")
	}

	// turn Signals into channel messages
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	sig := <-ch
	log.Infof("received signal: %v", sig)
	if 0 == len(options["quiet"]) {
		fmt.Printf("\nreceived signal: %v\n", sig)
		fmt.Printf("\nshutting down…\n")
	}

	log.Info("shutting down…")
	n.Stop()
}

// TLS when both certificate files are configured, nil when disabled
func newListener(log *logger.L, name string, configuration *listeners.HTTPSConfiguration, handler http.Handler) (*listeners.HTTPS, error) {
	var tlsConfig *tls.Config
	if "" != configuration.Certificate && "" != configuration.PrivateKey {
		c, _, err := certificate.Load(log, name, configuration.Certificate, configuration.PrivateKey)
		if nil != err {
			return nil, err
		}
		tlsConfig = c
	}
	return listeners.NewHTTPS(name, configuration, tlsConfig, handler)
}
