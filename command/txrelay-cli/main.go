// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/urfave/cli"
)

type metadata struct {
	client  *client
	verbose bool
	e       io.Writer
	w       io.Writer
}

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

func main() {
	app := newApp(os.Stdout, os.Stderr)
	if err := app.Run(os.Args); nil != err {
		fmt.Fprintf(app.ErrWriter, "terminated with error: %s\n", err)
		os.Exit(1)
	}
}

func newApp(w io.Writer, e io.Writer) *cli.App {
	app := cli.NewApp()
	app.Name = "txrelay-cli"
	app.Usage = "talk to a running txrelayd"
	app.Version = version
	app.HideVersion = true

	app.Writer = w
	app.ErrWriter = e

	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "verbose, v",
			Usage: " verbose result",
		},
		cli.StringFlag{
			Name:   "client, c",
			Value:  "http://127.0.0.1:9101",
			Usage:  " client API base `URL`",
			EnvVar: "TXRELAY_CLIENT",
		},
		cli.StringFlag{
			Name:   "admin, a",
			Value:  "http://127.0.0.1:9201",
			Usage:  " admin API base `URL`",
			EnvVar: "TXRELAY_ADMIN",
		},
		cli.BoolFlag{
			Name:  "insecure, k",
			Usage: " accept any TLS certificate",
		},
		cli.IntFlag{
			Name:  "timeout, t",
			Value: 30,
			Usage: " request timeout in `SECONDS`",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:   "upcheck",
			Usage:  "check that the node is running",
			Action: runUpcheck,
		},
		{
			Name:   "partyinfo",
			Usage:  "display the node's directory",
			Action: runPartyInfo,
		},
		{
			Name:      "add-peer",
			Usage:     "add a party URL to the directory",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "url, u",
					Value: "",
					Usage: "*peer `URL`",
				},
			},
			Action: runAddPeer,
		},
		{
			Name:      "recover",
			Usage:     "pull missed transactions from every known party",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "key, k",
					Value: "",
					Usage: " public `KEY` to recover, default every managed key",
				},
			},
			Action: runRecover,
		},
		{
			Name:      "send",
			Usage:     "encrypt, store and distribute a transaction",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "file, f",
					Value: "",
					Usage: "*`FILE` of data to send, - for stdin",
				},
				cli.StringFlag{
					Name:  "from",
					Value: "",
					Usage: " sender public `KEY`, default is the node's first key",
				},
				cli.StringSliceFlag{
					Name:  "to",
					Usage: "*recipient public `KEY`, may be repeated",
				},
			},
			Action: runSend,
		},
		{
			Name:      "receive",
			Usage:     "decrypt a stored transaction",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "hash, H",
					Value: "",
					Usage: "*transaction `DIGEST`",
				},
				cli.StringFlag{
					Name:  "to",
					Value: "",
					Usage: " recipient public `KEY`, default any managed key",
				},
			},
			Action: runReceive,
		},
		{
			Name:  "version",
			Usage: "display txrelay-cli version",
			Action: func(c *cli.Context) error {
				fmt.Fprintf(c.App.Writer, "%s\n", version)
				return nil
			},
		},
	}

	app.Before = func(c *cli.Context) error {
		timeout := time.Duration(c.GlobalInt("timeout")) * time.Second
		if timeout <= 0 {
			return fmt.Errorf("timeout: %d must be positive", c.GlobalInt("timeout"))
		}

		verbose := c.GlobalBool("verbose")
		if verbose {
			fmt.Fprintf(c.App.ErrWriter, "client: %q  admin: %q\n", c.GlobalString("client"), c.GlobalString("admin"))
		}

		c.App.Metadata["config"] = &metadata{
			client:  newClient(c.GlobalString("client"), c.GlobalString("admin"), timeout, c.GlobalBool("insecure")),
			verbose: verbose,
			e:       c.App.ErrWriter,
			w:       c.App.Writer,
		}
		return nil
	}

	return app
}
