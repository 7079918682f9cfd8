// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/txrelay/fault"
	"github.com/bitmark-inc/txrelay/util"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{fault.ErrRateLimiting, http.StatusTooManyRequests},
		{fault.ErrInvalidPayload, http.StatusBadRequest},
		{fmt.Errorf("decode: %w", fault.ErrInvalidDigest), http.StatusBadRequest},
		{fault.ErrTransactionNotFound, http.StatusNotFound},
		{fault.ErrStorageConflict, http.StatusConflict},
		{fault.ErrRecipientUnreachable, http.StatusServiceUnavailable},
		{errors.New("other"), http.StatusInternalServerError},
	}

	for i, item := range tests {
		assert.Equal(t, item.status, util.StatusFor(item.err), "%d: wrong status for: %v", i, item.err)
	}
}

func TestSendReply(t *testing.T) {
	w := httptest.NewRecorder()
	util.SendReply(w, map[string]int{"count": 3})

	assert.Equal(t, http.StatusOK, w.Code, "wrong status")
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"), "wrong content type")
	assert.Equal(t, `{"count":3}`, w.Body.String(), "wrong body")
}

func TestSendFault(t *testing.T) {
	w := httptest.NewRecorder()
	util.SendFault(w, fault.ErrTransactionNotFound)

	assert.Equal(t, http.StatusNotFound, w.Code, "wrong status")
	assert.Equal(t, `{"code":404,"error":"transaction not found"}`, w.Body.String(), "wrong body")
}
