// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package certificate

import (
	"crypto/tls"
	"encoding/hex"
	"io/ioutil"
	"os"
	"time"

	"golang.org/x/crypto/sha3"

	"github.com/bitmark-inc/certgen"
	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/txrelay/fault"
	"github.com/bitmark-inc/txrelay/util"
)

// Fingerprint - SHA3-256 of the DER form of a certificate
type Fingerprint [32]byte

// String - hex text form
//
// FreeBSD: openssl x509 -outform DER -in txrelayd.crt | sha3sum -a 256
func (f Fingerprint) String() string {
	return hex.EncodeToString(f[:])
}

// Get - verify a PEM certificate and key pair and return a TLS setup
func Get(log *logger.L, name string, certificate string, key string) (*tls.Config, Fingerprint, error) {
	tlsConfiguration, fin, err := parse([]byte(certificate), []byte(key))
	if nil != err {
		log.Errorf("%s failed to load keypair: %s", name, err)
		return nil, fin, err
	}
	log.Infof("%s certificate fingerprint: %s", name, fin)
	return tlsConfiguration, fin, nil
}

// Load - as Get, reading both PEM files
func Load(log *logger.L, name string, certificateFile string, keyFile string) (*tls.Config, Fingerprint, error) {
	tlsConfiguration, fin, err := ReadFiles(certificateFile, keyFile)
	if nil != err {
		log.Errorf("%s certificate: %q  key: %q  error: %s", name, certificateFile, keyFile, err)
		return nil, fin, err
	}
	log.Infof("%s certificate fingerprint: %s", name, fin)
	return tlsConfiguration, fin, nil
}

// ReadFiles - as Load without logging, for use before logging is set up
func ReadFiles(certificateFile string, keyFile string) (*tls.Config, Fingerprint, error) {
	certificate, err := ioutil.ReadFile(certificateFile)
	if nil != err {
		return nil, Fingerprint{}, err
	}
	key, err := ioutil.ReadFile(keyFile)
	if nil != err {
		return nil, Fingerprint{}, err
	}
	return parse(certificate, key)
}

func parse(certificate []byte, key []byte) (*tls.Config, Fingerprint, error) {
	var fin Fingerprint

	keyPair, err := tls.X509KeyPair(certificate, key)
	if nil != err {
		return nil, fin, err
	}

	tlsConfiguration := &tls.Config{
		Certificates: []tls.Certificate{
			keyPair,
		},
		MinVersion: tls.VersionTLS12,
	}

	fin = sha3.Sum256(keyPair.Certificate[0])
	return tlsConfiguration, fin, nil
}

// MakeSelfSigned - write a new self-signed certificate and private key
//
// neither file may already exist
func MakeSelfSigned(name string, certificateFile string, keyFile string, override bool, extraHosts []string) error {
	if name, found := util.AnyFileExists(certificateFile, keyFile); found {
		if name == certificateFile {
			return fault.ErrCertificateFileExists
		}
		return fault.ErrKeyFileAlreadyExists
	}

	org := "txrelayd self signed cert for: " + name
	validUntil := time.Now().Add(10 * 365 * 24 * time.Hour)
	cert, key, err := certgen.NewTLSCertPair(org, validUntil, override, extraHosts)
	if nil != err {
		return err
	}

	if err := ioutil.WriteFile(certificateFile, cert, 0666); nil != err {
		return err
	}
	if err := ioutil.WriteFile(keyFile, key, 0600); nil != err {
		os.Remove(certificateFile)
		return err
	}
	return nil
}
