// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util

import (
	"encoding/json"
	"net/http"

	"github.com/bitmark-inc/txrelay/fault"
)

// to compose JSON error messages
type eType struct {
	Code  int    `json:"code"`
	Error string `json:"error"`
}

// SendReply - JSON body with status 200
func SendReply(w http.ResponseWriter, data interface{}) {
	text, err := json.Marshal(data)
	if nil != err {
		SendInternalServerError(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)
	w.Write(text)
}

// SendText - plain text body with status 200
func SendText(w http.ResponseWriter, text string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(text))
}

// SendNotFound - 404
func SendNotFound(w http.ResponseWriter) {
	SendError(w, "not found", http.StatusNotFound)
}

// SendMethodNotAllowed - 405
func SendMethodNotAllowed(w http.ResponseWriter) {
	SendError(w, "method not allowed", http.StatusMethodNotAllowed)
}

// SendInternalServerError - 500
func SendInternalServerError(w http.ResponseWriter) {
	SendError(w, "internal server error", http.StatusInternalServerError)
}

// SendFault - status chosen by the class of err
func SendFault(w http.ResponseWriter, err error) {
	SendError(w, err.Error(), StatusFor(err))
}

// StatusFor - HTTP status for an error class
func StatusFor(err error) int {
	switch {
	case fault.ErrRateLimiting == err:
		return http.StatusTooManyRequests
	case fault.IsErrInvalid(err):
		return http.StatusBadRequest
	case fault.IsErrNotFound(err):
		return http.StatusNotFound
	case fault.IsErrExists(err), fault.IsErrRecord(err):
		return http.StatusConflict
	case fault.IsErrTransient(err):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// SendError - JSON error body
func SendError(w http.ResponseWriter, message string, code int) {
	text, err := json.Marshal(eType{
		Code:  code,
		Error: message,
	})
	if nil != err {
		http.Error(w, `{"code":500,"error":"Internal Server Error"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(code)
	w.Write(text)
}
