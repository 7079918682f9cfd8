// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

import (
	"fmt"
	"runtime"
	"time"

	"github.com/bitmark-inc/logger"
)

// channel used for the last attempt to record something before abort
var log *logger.L

// Initialise - setup the PANIC log channel
func Initialise() error {
	if nil != log {
		return ErrAlreadyInitialised
	}
	log = logger.New("PANIC")
	if nil == log {
		return ErrInvalidLoggerChannel
	}
	return nil
}

// Finalise - flush any pending output
func Finalise() {
	if nil != log {
		log.Flush()
	}
	log = nil
}

// Critical - log a message with the caller's location
func Critical(message string) {
	if _, file, line, ok := runtime.Caller(1); ok {
		criticalf("(%q:%d) %s", file, line, message)
	} else {
		criticalf("%s", message)
	}
}

// Criticalf - as Critical with fmt.Sprintf style arguments
func Criticalf(format string, arguments ...interface{}) {
	message := fmt.Sprintf(format, arguments...)
	if _, file, line, ok := runtime.Caller(1); ok {
		criticalf("(%q:%d) %s", file, line, message)
	} else {
		criticalf("%s", message)
	}
}

// Panicf - log the formatted message then abort
func Panicf(format string, arguments ...interface{}) {
	message := fmt.Sprintf(format, arguments...)
	if _, file, line, ok := runtime.Caller(1); ok {
		criticalf("(%q:%d) %s", file, line, message)
	} else {
		criticalf("%s", message)
	}
	Panic("abort, see last messages in log file")
}

// Panic - final abort
func Panic(message string) {
	criticalf("%s", message)
	time.Sleep(100 * time.Millisecond) // let the log writer drain
	panic(message)
}

// PanicIfError - abort when err is set
func PanicIfError(message string, err error) {
	if nil == err {
		return
	}
	s := fmt.Sprintf("%s failed with error: %v", message, err)
	criticalf("%s", s)
	time.Sleep(100 * time.Millisecond)
	panic(s)
}

// logging may not have been set up yet
func criticalf(format string, arguments ...interface{}) {
	if nil == log {
		fmt.Printf("*** "+format+"\n", arguments...)
		return
	}
	log.Criticalf(format, arguments...)
	log.Flush()
}
