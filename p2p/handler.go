// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package p2p

import (
	"encoding/json"
	"net/http"

	"golang.org/x/time/rate"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/txrelay/fault"
	"github.com/bitmark-inc/txrelay/metrics"
	"github.com/bitmark-inc/txrelay/partyinfo"
	"github.com/bitmark-inc/txrelay/payload"
	"github.com/bitmark-inc/txrelay/ratelimit"
	"github.com/bitmark-inc/txrelay/transport"
	"github.com/bitmark-inc/txrelay/util"
)

// largest accepted request body
const maximumBodySize = 64 << 20

type httpHandler struct {
	log    *logger.L
	server transport.Server
}

// NewHandler - HTTP binding of a peer server
//
// limiter may be nil to disable rate limiting
func NewHandler(server transport.Server, limiter *rate.Limiter) http.Handler {
	h := &httpHandler{
		log:    logger.New("p2p-http"),
		server: server,
	}

	wrap := func(op string, f http.HandlerFunc) http.Handler {
		return metrics.Instrument(op, ratelimit.Handler(limiter, f))
	}

	mux := http.NewServeMux()
	mux.Handle(transport.PartyInfoPath, wrap("partyinfo", h.partyInfo))
	mux.Handle(transport.PushPath, wrap("push", h.push))
	mux.Handle(transport.ResendPath, wrap("resend", h.resend))
	mux.Handle(transport.UpcheckPath, wrap("upcheck", h.upcheck))
	mux.Handle("/metrics", metrics.Handler())
	mux.HandleFunc("/", h.root)
	return mux
}

func (h *httpHandler) root(w http.ResponseWriter, r *http.Request) {
	util.SendNotFound(w)
}

func (h *httpHandler) upcheck(w http.ResponseWriter, r *http.Request) {
	if http.MethodGet != r.Method {
		util.SendMethodNotAllowed(w)
		return
	}
	util.SendText(w, transport.UpcheckReply)
}

func (h *httpHandler) partyInfo(w http.ResponseWriter, r *http.Request) {
	if http.MethodPost != r.Method {
		util.SendMethodNotAllowed(w)
		return
	}
	info := &partyinfo.PartyInfo{}
	if !h.decode(w, r, info) {
		return
	}
	reply, err := h.server.PartyInfo(r.Context(), info)
	if nil != err {
		util.SendFault(w, err)
		return
	}
	util.SendReply(w, reply)
}

func (h *httpHandler) push(w http.ResponseWriter, r *http.Request) {
	if http.MethodPost != r.Method {
		util.SendMethodNotAllowed(w)
		return
	}
	p := &payload.Encoded{}
	if !h.decode(w, r, p) {
		return
	}
	digest, err := h.server.Push(r.Context(), p)
	if nil != err {
		util.SendFault(w, err)
		return
	}
	util.SendText(w, digest.String())
}

// the array is written as items arrive, so a failure after the first
// item can only be signalled by dropping the connection
func (h *httpHandler) resend(w http.ResponseWriter, r *http.Request) {
	if http.MethodPost != r.Method {
		util.SendMethodNotAllowed(w)
		return
	}
	req := &transport.ResendRequest{}
	if !h.decode(w, r, req) {
		return
	}

	flusher, _ := w.(http.Flusher)
	started := false
	start := func() {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte{'['})
		started = true
	}

	err := h.server.Resend(r.Context(), req, func(p *payload.Encoded) error {
		data, err := json.Marshal(p)
		if nil != err {
			return err
		}
		if !started {
			start()
		} else {
			w.Write([]byte{','})
		}
		if _, err := w.Write(data); nil != err {
			return err
		}
		if nil != flusher {
			flusher.Flush()
		}
		return nil
	})

	if nil != err {
		if !started {
			util.SendFault(w, err)
			return
		}
		h.log.Warnf("resend for: %s  aborted: %s", req.PublicKey, err)
		panic(http.ErrAbortHandler)
	}
	if !started {
		start()
	}
	w.Write([]byte{']'})
}

// false if a reply has already been sent
func (h *httpHandler) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maximumBodySize))
	if err := decoder.Decode(v); nil != err {
		h.log.Debugf("%s from: %s  decode error: %s", r.URL.Path, r.RemoteAddr, err)
		if fault.IsErrInvalid(err) {
			util.SendFault(w, err)
		} else {
			util.SendError(w, "invalid request body", http.StatusBadRequest)
		}
		return false
	}
	return true
}
