// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bitmark-inc/exitwithstatus"

	"github.com/bitmark-inc/txrelay/keys"
	"github.com/bitmark-inc/txrelay/rpc/certificate"
)

const (
	defaultKeyName = "txrelay"

	tlsCertificateFilename = "txrelayd.crt"
	tlsPrivateKeyFilename  = "txrelayd.key"

	passwordEnvironment = "TXRELAY_KEY_PASSWORD"
)

// setup command handler
//
// commands that run to create key and certificate files these
// commands cannot access any internal database or states or the
// configuration file
func processSetupCommand(program string, arguments []string) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
		arguments = arguments[1:]
	}

	switch command {
	case "gen-keys", "keys":
		directory := "."
		if len(arguments) >= 1 && "" != arguments[0] {
			directory = arguments[0]
		}
		name := defaultKeyName
		if len(arguments) >= 2 && "" != arguments[1] {
			name = arguments[1]
		}

		pair, err := keys.GenerateKeyPair()
		if nil != err {
			exitwithstatus.Message("generate key pair error: %s", err)
		}

		publicFile, privateFile, err := keys.WriteKeyPair(directory, name, pair, os.Getenv(passwordEnvironment))
		if nil != err {
			exitwithstatus.Message("write key pair: %q error: %s", filepath.Join(directory, name), err)
		}
		fmt.Printf("generated public key: %q and private key: %q\n", publicFile, privateFile)
		fmt.Printf("public key: %s\n", pair.Public)

	case "gen-tls-cert", "tls":
		directory := "."
		if len(arguments) >= 1 && "" != arguments[0] {
			directory = arguments[0]
		}
		certificateFilename := filepath.Join(directory, tlsCertificateFilename)
		privateKeyFilename := filepath.Join(directory, tlsPrivateKeyFilename)

		addresses := []string{}
		if len(arguments) >= 2 {
			for _, a := range arguments[1:] {
				if "" != a {
					addresses = append(addresses, a)
				}
			}
		}

		err := certificate.MakeSelfSigned("txrelayd", certificateFilename, privateKeyFilename, 0 != len(addresses), addresses)
		if nil != err {
			fmt.Printf("generate TLS key: %q and certificate: %q error: %s\n", privateKeyFilename, certificateFilename, err)
			exitwithstatus.Exit(1)
		}
		fmt.Printf("generated TLS key: %q and certificate: %q\n", privateKeyFilename, certificateFilename)

	case "dns-txt", "txt":
		return false // defer processing until configuration is read

	case "config-test", "cfg":
		return false

	case "start", "run":
		return false // continue processing

	case "version", "v":
		fmt.Printf("%s\n", version)
		return true

	default:
		switch command {
		case "help", "h", "?":
		case "", " ":
			fmt.Printf("error: missing command\n")
		default:
			fmt.Printf("error: no such command: %q\n", command)
		}
		fmt.Printf("usage: %s [--help] [--quiet] --config-file=FILE [[command|help] arguments...]\n", program)

		fmt.Printf("supported commands:\n\n")
		fmt.Printf("  help                       (h)      - display this message\n\n")
		fmt.Printf("  version                    (v)      - display version string\n\n")

		fmt.Printf("  gen-keys [DIR [NAME]]      (keys)   - create public key in:   %q\n", "DIR/NAME"+keys.PublicKeySuffix)
		fmt.Printf("                                        and the private key in: %q\n", "DIR/NAME"+keys.PrivateKeySuffix)
		fmt.Printf("                                        locked with $%s if set\n", passwordEnvironment)
		fmt.Printf("\n")

		fmt.Printf("  gen-tls-cert [DIR [IPs...]] (tls)   - create private key in:  %q\n", "DIR/"+tlsPrivateKeyFilename)
		fmt.Printf("                                        and the certificate in: %q\n", "DIR/"+tlsCertificateFilename)
		fmt.Printf("\n")

		fmt.Printf("  dns-txt                    (txt)    - display the data to put in a dns TXT record\n")
		fmt.Printf("\n")

		fmt.Printf("  start                      (run)    - just run the program, same as no arguments\n")
		fmt.Printf("                                        for convenience when passing script arguments\n")
		fmt.Printf("\n")

		fmt.Printf("  config-test                (cfg)    - just check the configuration file\n")
		fmt.Printf("\n")

		exitwithstatus.Exit(1)
	}

	// indicate processing complete and perform normal exit from main
	return true
}

// configuration file enquiry commands
// have configuration file read and decoded, but nothing else
func processConfigCommand(arguments []string, options *Configuration) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
	}

	switch command {
	case "dns-txt", "txt":
		dnsTXT(options)

	case "config-test", "cfg":
		b, err := json.Marshal(options)
		if nil != err {
			exitwithstatus.Message("error: %s", err)
		}
		var out bytes.Buffer
		json.Indent(&out, b, "", "  ")
		out.WriteTo(os.Stdout)
		os.Stdout.WriteString("\n")

	case "start", "run":
		return false

	default:
		exitwithstatus.Message("error: no such command: %s", command)
	}

	// indicate processing complete and perform normal exit from main
	return true
}

// print out the DNS TXT record
func dnsTXT(options *Configuration) {
	fmt.Print(txtRecord(options))
}

//   <TAG> u=<URL> [f=<SHA3-256(cert)>]
func txtRecord(options *Configuration) string {
	p2p := options.P2P
	if "" == p2p.Certificate || "" == p2p.PrivateKey {
		return fmt.Sprintf("TXT \"txrelay=v1 u=%s\"\n", options.URL)
	}

	_, fingerprint, err := certificate.ReadFiles(p2p.Certificate, p2p.PrivateKey)
	if nil != err {
		exitwithstatus.Message("error: cannot decode certificate: %q  error: %s", p2p.Certificate, err)
	}
	return fmt.Sprintf("TXT \"txrelay=v1 u=%s f=%s\"\n", options.URL, fingerprint)
}
