// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package node

import (
	"context"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/txrelay/background"
	"github.com/bitmark-inc/txrelay/enclave"
	"github.com/bitmark-inc/txrelay/gossip"
	"github.com/bitmark-inc/txrelay/keys"
	"github.com/bitmark-inc/txrelay/p2p"
	"github.com/bitmark-inc/txrelay/partyinfo"
	"github.com/bitmark-inc/txrelay/payload"
	"github.com/bitmark-inc/txrelay/publish"
	"github.com/bitmark-inc/txrelay/resend"
	"github.com/bitmark-inc/txrelay/storage"
	"github.com/bitmark-inc/txrelay/transaction"
	"github.com/bitmark-inc/txrelay/transport"
	"github.com/bitmark-inc/txrelay/util"
)

const defaultTimeout = 10 * time.Second

// Configuration - node identity and peer call limits
type Configuration struct {
	URL         string        // advertised URL of this node
	Peers       []string      // static party URLs
	Timeout     time.Duration // bound on each peer call, zero for the default
	KeyPassword string        // for locked key files picked up by the watcher
}

// Node - the components of one relay node
type Node struct {
	log         *logger.L
	enclave     enclave.Enclave
	directory   *partyinfo.Service
	gossip      *gossip.Client
	publisher   *publish.Publisher
	coordinator *resend.Coordinator
	manager     *transaction.Manager
	server      *p2p.Service
	password    string

	ctx    context.Context
	cancel context.CancelFunc
}

// New - build a node; every managed key is registered at the node's URL
func New(configuration *Configuration, e enclave.Enclave, store storage.Handle, client transport.Client) (*Node, error) {
	log := logger.New("node")

	if err := util.ValidateURL(configuration.URL); nil != err {
		log.Errorf("invalid url: %q", configuration.URL)
		return nil, err
	}

	timeout := configuration.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	directory := partyinfo.NewService(partyinfo.Empty(configuration.URL))
	for _, key := range e.PublicKeys() {
		directory.RegisterLocalKey(key)
	}
	for _, url := range configuration.Peers {
		if !directory.AddParty(url) {
			log.Warnf("ignoring peer: %q", url)
		}
	}

	publisher := publish.New(directory, client, timeout, e.Manages)
	ctx, cancel := context.WithCancel(context.Background())

	n := &Node{
		log:         log,
		enclave:     e,
		directory:   directory,
		gossip:      gossip.New(directory, client, timeout),
		publisher:   publisher,
		coordinator: resend.New(directory, client, store, e),
		manager:     transaction.New(e, store, publisher),
		server:      p2p.NewService(directory, store),
		password:    configuration.KeyPassword,
		ctx:         ctx,
		cancel:      cancel,
	}
	log.Infof("url: %s  keys: %d  peers: %d", configuration.URL, len(e.PublicKeys()), len(configuration.Peers))
	return n, nil
}

// Stop - abandon in-progress recovery started by the key watcher
func (n *Node) Stop() {
	n.cancel()
}

// PublishTransaction - distribute an encoded payload to every recipient
func (n *Node) PublishTransaction(ctx context.Context, p *payload.Encoded, recipients []keys.PublicKey) error {
	return n.publisher.Publish(ctx, p, recipients)
}

// SyncDirectoryOnce - one gossip round with every known party
func (n *Node) SyncDirectoryOnce(ctx context.Context) gossip.Round {
	return n.gossip.SyncOnce(ctx)
}

// SyncDirectoryPeriodically - background process running a gossip round every interval
func (n *Node) SyncDirectoryPeriodically(interval time.Duration) background.Process {
	return gossip.NewRunner(n.gossip, interval)
}

// RecoverAllKnownKeys - pull missed payloads for every managed key
func (n *Node) RecoverAllKnownKeys(ctx context.Context) []resend.Report {
	return n.coordinator.RecoverAll(ctx)
}

// RecoverKey - pull missed payloads for one key
func (n *Node) RecoverKey(ctx context.Context, key keys.PublicKey) resend.Report {
	return n.coordinator.RecoverFor(ctx, key)
}

// CurrentDirectory - snapshot of the directory
func (n *Node) CurrentDirectory() *partyinfo.PartyInfo {
	return n.directory.Current()
}

// Directory - the live directory, for components that add parties
func (n *Node) Directory() *partyinfo.Service {
	return n.directory
}

// AddPeer - remember a party URL, false if it was already known
func (n *Node) AddPeer(url string) (bool, error) {
	if err := util.ValidateURL(url); nil != err {
		return false, err
	}
	return n.directory.AddParty(url), nil
}

// Transactions - the client transaction operations
func (n *Node) Transactions() *transaction.Manager {
	return n.manager
}

// PeerServer - the operations served to other nodes
func (n *Node) PeerServer() transport.Server {
	return n.server
}

// KeyAdded - keys.Handler for a new public key file
//
// the key is loaded into the enclave, advertised at this node's URL and
// its missed payloads recovered from every known party; an unreadable
// key pair is returned so the watcher tries again
func (n *Node) KeyAdded(publicFile string) error {
	pair, err := keys.ReadKeyPair(publicFile, n.password)
	if nil != err {
		n.log.Errorf("key file: %q  error: %s", publicFile, err)
		return err
	}

	if !n.enclave.AddKeyPair(pair) {
		n.log.Debugf("key: %s already managed", pair.Public)
		return nil
	}
	n.directory.RegisterLocalKey(pair.Public)

	report := n.coordinator.RecoverFor(n.ctx, pair.Public)
	if nil != n.ctx.Err() {
		n.log.Warnf("recovery for new key: %s  interrupted: %s", pair.Public, n.ctx.Err())
		return nil
	}
	n.log.Infof("new key: %s  stored: %d  failed peers: %d", pair.Public, report.Stored(), report.Failed())
	return nil
}
