// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/txrelay/configuration"
	"github.com/bitmark-inc/txrelay/rpc/listeners"
	"github.com/bitmark-inc/txrelay/util"
)

// basic defaults (directories and files are relative to the "DataDirectory" from Configuration file)
const (
	defaultDataDirectory = "" // this will error; use "." for the same directory as the config file

	defaultLevelDBDirectory = "data"
	defaultDatabase         = "txrelay.leveldb"
	defaultKeysDirectory    = "keys"

	defaultLogDirectory = "log"
	defaultLogFile      = "txrelayd.log"
	defaultLogCount     = 10          //  number of log files retained
	defaultLogSize      = 1024 * 1024 // rotate when <logfile> exceeds this size

	defaultPeerConnections   = 100
	defaultClientConnections = 10
	defaultAdminConnections  = 2

	defaultSyncInterval = 60 // seconds
	defaultPeerTimeout  = 10 // seconds
)

// to hold log levels
type LoglevelMap map[string]string

// path expanded or calculated defaults
var (
	defaultLogLevels = LoglevelMap{
		"main":            "info",
		logger.DefaultTag: "critical",
	}
)

// DatabaseType - leveldb location
type DatabaseType struct {
	Directory string `gluamapper:"directory" json:"directory"`
	Name      string `gluamapper:"name" json:"name"`
}

// KeysType - managed key files
type KeysType struct {
	Directory    string `gluamapper:"directory" json:"directory"`
	PasswordFile string `gluamapper:"password_file" json:"password_file"`
}

// SyncType - directory gossip timing
type SyncType struct {
	IntervalSeconds int `gluamapper:"interval_seconds" json:"interval_seconds"`
	TimeoutSeconds  int `gluamapper:"timeout_seconds" json:"timeout_seconds"`
}

// RateLimitType - shared by the peer and client listeners, zero disables
type RateLimitType struct {
	RequestsPerSecond float64 `gluamapper:"requests_per_second" json:"requests_per_second"`
	Burst             int     `gluamapper:"burst" json:"burst"`
}

// Configuration - contents of the Lua configuration file
type Configuration struct {
	DataDirectory string       `gluamapper:"data_directory" json:"data_directory"`
	PidFile       string       `gluamapper:"pidfile" json:"pidfile"`
	URL           string       `gluamapper:"url" json:"url"`
	Peers         []string     `gluamapper:"peers" json:"peers"`
	Nodes         string       `gluamapper:"nodes" json:"nodes"`
	Database      DatabaseType `gluamapper:"database" json:"database"`
	Keys          KeysType     `gluamapper:"keys" json:"keys"`

	P2P       listeners.HTTPSConfiguration `gluamapper:"p2p" json:"p2p"`
	Client    listeners.HTTPSConfiguration `gluamapper:"client" json:"client"`
	Admin     listeners.HTTPSConfiguration `gluamapper:"admin" json:"admin"`
	RateLimit RateLimitType                `gluamapper:"rate_limit" json:"rate_limit"`
	Sync      SyncType                     `gluamapper:"sync" json:"sync"`
	Logging   logger.Configuration         `gluamapper:"logging" json:"logging"`
}

// will read decode and verify the configuration
func getConfiguration(configurationFileName string, variables map[string]string) (*Configuration, error) {

	configurationFileName, err := filepath.Abs(filepath.Clean(configurationFileName))
	if nil != err {
		return nil, err
	}

	// absolute path to the main directory
	dataDirectory, _ := filepath.Split(configurationFileName)

	options := &Configuration{

		DataDirectory: defaultDataDirectory,
		PidFile:       "", // no PidFile by default
		Nodes:         "none",

		Database: DatabaseType{
			Directory: defaultLevelDBDirectory,
			Name:      defaultDatabase,
		},

		Keys: KeysType{
			Directory: defaultKeysDirectory,
		},

		P2P: listeners.HTTPSConfiguration{
			MaximumConnections: defaultPeerConnections,
		},
		Client: listeners.HTTPSConfiguration{
			MaximumConnections: defaultClientConnections,
		},
		Admin: listeners.HTTPSConfiguration{
			MaximumConnections: defaultAdminConnections,
		},

		Sync: SyncType{
			IntervalSeconds: defaultSyncInterval,
			TimeoutSeconds:  defaultPeerTimeout,
		},

		Logging: logger.Configuration{
			Directory: defaultLogDirectory,
			File:      defaultLogFile,
			Size:      defaultLogSize,
			Count:     defaultLogCount,
			Levels:    defaultLogLevels,
		},
	}

	if err := configuration.ParseConfigurationFile(configurationFileName, options, variables); nil != err {
		return nil, err
	}

	if err := util.ValidateURL(options.URL); nil != err {
		return nil, fmt.Errorf("URL: %q is not valid: %w", options.URL, err)
	}
	options.URL = util.NormaliseURL(options.URL)

	if options.Sync.IntervalSeconds <= 0 || options.Sync.TimeoutSeconds <= 0 {
		return nil, fmt.Errorf("sync interval: %d and timeout: %d must be positive", options.Sync.IntervalSeconds, options.Sync.TimeoutSeconds)
	}

	if "" == strings.TrimSpace(options.Nodes) {
		return nil, fmt.Errorf("nodes cannot be blank choose from: none or sub.domain.tld")
	}

	// ensure absolute data directory
	if "" == options.DataDirectory || "~" == options.DataDirectory {
		return nil, fmt.Errorf("Path: %q is not a valid directory", options.DataDirectory)
	} else if "." == options.DataDirectory {
		options.DataDirectory = dataDirectory // same directory as the configuration file
	} else {
		options.DataDirectory = filepath.Clean(options.DataDirectory)
	}

	// this directory must exist - i.e. must be created prior to running
	if fileInfo, err := os.Stat(options.DataDirectory); nil != err {
		return nil, err
	} else if !fileInfo.IsDir() {
		return nil, fmt.Errorf("Path: %q is not a directory", options.DataDirectory)
	}

	// force all relevant items to be absolute paths
	// if not, assign them to the data directory
	mustBeAbsolute := []*string{
		&options.Database.Directory,
		&options.Keys.Directory,
		&options.Logging.Directory,
	}
	for _, f := range mustBeAbsolute {
		*f = util.EnsureAbsolute(options.DataDirectory, *f)
	}

	// optional absolute paths i.e. blank or an absolute path
	util.AbsoluteOptional(options.DataDirectory,
		&options.PidFile,
		&options.Keys.PasswordFile,
		&options.P2P.Certificate,
		&options.P2P.PrivateKey,
		&options.Client.Certificate,
		&options.Client.PrivateKey,
		&options.Admin.Certificate,
		&options.Admin.PrivateKey,
	)

	// fail if any of these are not simple file names i.e. must
	// not contain path separator, then add the correct directory
	// prefix, file item is first and corresponding directory is
	// second (or nil if no prefix can be added)
	mustNotBePaths := [][2]*string{
		{&options.Database.Name, &options.Database.Directory},
		{&options.Logging.File, nil},
	}
	for _, f := range mustNotBePaths {
		switch filepath.Dir(*f[0]) {
		case "", ".":
			if nil != f[1] {
				*f[0] = util.EnsureAbsolute(*f[1], *f[0])
			}
		default:
			return nil, fmt.Errorf("Files: %q is not plain name", *f[0])
		}
	}

	// make absolute and create directories if they do not already exist
	for _, d := range []*string{
		&options.Database.Directory,
		&options.Keys.Directory,
		&options.Logging.Directory,
	} {
		*d = util.EnsureAbsolute(options.DataDirectory, *d)
		if err := os.MkdirAll(*d, 0700); nil != err {
			return nil, err
		}
	}

	// done
	return options, nil
}

// contents of the password file, empty if none is configured
func (c *Configuration) keyPassword() (string, error) {
	if "" == c.Keys.PasswordFile {
		return "", nil
	}
	data, err := ioutil.ReadFile(c.Keys.PasswordFile)
	if nil != err {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
