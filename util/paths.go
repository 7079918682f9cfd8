// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util

import (
	"os"
	"path/filepath"
)

// EnsureAbsolute - a relative filePath is taken relative to directory
func EnsureAbsolute(directory string, filePath string) string {
	if !filepath.IsAbs(filePath) {
		filePath = filepath.Join(directory, filePath)
	}
	return filepath.Clean(filePath)
}

// AbsoluteOptional - rewrite each non-blank path in place to be absolute
//
// blank entries mean "not configured" and are left blank
func AbsoluteOptional(directory string, paths ...*string) {
	for _, p := range paths {
		if "" != *p {
			*p = EnsureAbsolute(directory, *p)
		}
	}
}

// AnyFileExists - first of names that exists on disk
func AnyFileExists(names ...string) (string, bool) {
	for _, name := range names {
		if _, err := os.Stat(name); nil == err {
			return name, true
		}
	}
	return "", false
}
