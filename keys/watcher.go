// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package keys

import (
	"path/filepath"
	"strings"

	"github.com/bitmark-inc/logger"
	"github.com/fsnotify/fsnotify"
)

// Handler - called for a new public key file until it returns nil
type Handler func(publicFile string) error

// Watcher - reports public key files added to a key directory
type Watcher struct {
	log       *logger.L
	directory string
	watcher   *fsnotify.Watcher
	handler   Handler
	seen      map[string]struct{}
}

// NewWatcher - start watching directory
//
// files already present are marked as seen and do not trigger handler;
// a file whose handler failed is retried on the next event for either
// half of its key pair
func NewWatcher(directory string, handler Handler) (*Watcher, error) {
	log := logger.New("keys")

	directory, err := filepath.Abs(filepath.Clean(directory))
	if nil != err {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if nil != err {
		log.Errorf("new watcher with error: %s", err)
		return nil, err
	}
	if err := watcher.Add(directory); nil != err {
		log.Errorf("watch: %s  error: %s", directory, err)
		watcher.Close()
		return nil, err
	}

	w := &Watcher{
		log:       log,
		directory: directory,
		watcher:   watcher,
		handler:   handler,
		seen:      make(map[string]struct{}),
	}

	existing, _ := filepath.Glob(filepath.Join(directory, "*"+PublicKeySuffix))
	for _, name := range existing {
		w.seen[name] = struct{}{}
	}
	return w, nil
}

// Run - background process loop
func (w *Watcher) Run(args interface{}, shutdown <-chan struct{}) {
	log := w.log
	log.Infof("watching key directory: %s", w.directory)

loop:
	for {
		select {
		case <-shutdown:
			break loop

		case event, ok := <-w.watcher.Events:
			if !ok {
				break loop
			}
			name, ok := publicKeyFor(event)
			if !ok {
				continue loop
			}
			if _, ok := w.seen[name]; ok {
				continue loop
			}
			// a create event can arrive before the key text is written
			if _, err := ReadPublicKey(name); nil != err {
				log.Debugf("skip: %s  error: %s", name, err)
				continue loop
			}
			log.Infof("new public key file: %s", name)
			if err := w.handler(name); nil != err {
				log.Warnf("key file: %s  will retry  error: %s", name, err)
				continue loop
			}
			w.seen[name] = struct{}{}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				break loop
			}
			log.Errorf("watcher error: %s", err)
		}
	}

	w.watcher.Close()
	log.Info("stopped")
}

// public key file named by a create or write of either key file
func publicKeyFor(event fsnotify.Event) (string, bool) {
	if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
		return "", false
	}
	name := filepath.Clean(event.Name)
	switch {
	case strings.HasSuffix(name, PublicKeySuffix):
		return name, true
	case strings.HasSuffix(name, PrivateKeySuffix):
		return strings.TrimSuffix(name, PrivateKeySuffix) + PublicKeySuffix, true
	}
	return "", false
}
