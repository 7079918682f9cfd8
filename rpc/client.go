// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpc

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"golang.org/x/time/rate"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/txrelay/fault"
	"github.com/bitmark-inc/txrelay/keys"
	"github.com/bitmark-inc/txrelay/metrics"
	"github.com/bitmark-inc/txrelay/payload"
	"github.com/bitmark-inc/txrelay/ratelimit"
	"github.com/bitmark-inc/txrelay/transaction"
	"github.com/bitmark-inc/txrelay/transport"
	"github.com/bitmark-inc/txrelay/util"
)

// largest accepted request body
const maximumBodySize = 64 << 20

// transaction path prefix, followed by the URL safe digest
const transactionPath = "/transaction/"

// SendRequest - body of /send
type SendRequest struct {
	Payload []byte           `json:"payload"`
	From    keys.PublicKey   `json:"from"`
	To      []keys.PublicKey `json:"to"`
}

// StoreRawRequest - body of /storeraw
type StoreRawRequest struct {
	Payload []byte         `json:"payload"`
	From    keys.PublicKey `json:"from"`
}

// SendSignedRequest - body of /sendsignedtx
type SendSignedRequest struct {
	Hash payload.Digest   `json:"hash"`
	To   []keys.PublicKey `json:"to"`
}

// ReceiveRequest - body of /receive
type ReceiveRequest struct {
	Key payload.Digest `json:"key"`
	To  keys.PublicKey `json:"to"`
}

// RepublishRequest - body of /republish
type RepublishRequest struct {
	Key payload.Digest `json:"key"`
}

// KeyReply - digest of a stored transaction
type KeyReply struct {
	Key payload.Digest `json:"key"`
}

// ReceiveReply - decrypted transaction
type ReceiveReply struct {
	Payload []byte `json:"payload"`
}

// FailureReply - one recipient that was not delivered to
type FailureReply struct {
	Recipient string `json:"recipient"`
	Error     string `json:"error"`
}

// PublishFailedReply - stored but not fully distributed
type PublishFailedReply struct {
	Key      payload.Digest `json:"key"`
	Error    string         `json:"error"`
	Failures []FailureReply `json:"failures"`
}

type clientHandler struct {
	log     *logger.L
	manager *transaction.Manager
}

// NewClientHandler - HTTP binding of the transaction manager
//
// limiter may be nil to disable rate limiting
func NewClientHandler(manager *transaction.Manager, limiter *rate.Limiter) http.Handler {
	h := &clientHandler{
		log:     logger.New("rpc"),
		manager: manager,
	}

	mux := http.NewServeMux()
	mux.Handle("/send", wrap("send", limiter, h.send))
	mux.Handle("/receive", wrap("receive", limiter, h.receive))
	mux.Handle(transactionPath, wrap("transaction", limiter, h.transaction))
	mux.Handle("/storeraw", wrap("storeraw", limiter, h.storeRaw))
	mux.Handle("/sendsignedtx", wrap("sendsignedtx", limiter, h.sendSigned))
	mux.Handle("/republish", wrap("republish", limiter, h.republish))
	mux.Handle(transport.UpcheckPath, wrap("upcheck", limiter, upcheck))
	mux.HandleFunc("/", root)
	return mux
}

func (h *clientHandler) send(w http.ResponseWriter, r *http.Request) {
	var req SendRequest
	if !decodePost(h.log, w, r, &req) {
		return
	}
	digest, err := h.manager.Send(r.Context(), req.Payload, req.From, req.To)
	h.keyReply(w, digest, err)
}

func (h *clientHandler) storeRaw(w http.ResponseWriter, r *http.Request) {
	var req StoreRawRequest
	if !decodePost(h.log, w, r, &req) {
		return
	}
	digest, err := h.manager.StoreRaw(req.Payload, req.From)
	h.keyReply(w, digest, err)
}

func (h *clientHandler) sendSigned(w http.ResponseWriter, r *http.Request) {
	var req SendSignedRequest
	if !decodePost(h.log, w, r, &req) {
		return
	}
	digest, err := h.manager.SendSignedTransaction(r.Context(), req.Hash, req.To)
	h.keyReply(w, digest, err)
}

func (h *clientHandler) republish(w http.ResponseWriter, r *http.Request) {
	var req RepublishRequest
	if !decodePost(h.log, w, r, &req) {
		return
	}
	err := h.manager.ResendIndividual(r.Context(), req.Key)
	h.keyReply(w, req.Key, err)
}

func (h *clientHandler) receive(w http.ResponseWriter, r *http.Request) {
	var req ReceiveRequest
	if !decodePost(h.log, w, r, &req) {
		return
	}
	h.receiveReply(w, req.Key, req.To)
}

// GET and DELETE on /transaction/{hash}
func (h *clientHandler) transaction(w http.ResponseWriter, r *http.Request) {
	digest, err := payload.ParseDigest(strings.TrimPrefix(r.URL.Path, transactionPath))
	if nil != err {
		util.SendFault(w, err)
		return
	}

	switch r.Method {
	case http.MethodGet:
		var to keys.PublicKey
		if s := r.URL.Query().Get("to"); "" != s {
			to, err = keys.ParsePublicKey(s)
			if nil != err {
				util.SendFault(w, err)
				return
			}
		}
		h.receiveReply(w, digest, to)

	case http.MethodDelete:
		if err := h.manager.Delete(digest); nil != err {
			util.SendFault(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		util.SendMethodNotAllowed(w)
	}
}

func (h *clientHandler) receiveReply(w http.ResponseWriter, digest payload.Digest, to keys.PublicKey) {
	message, err := h.manager.Receive(digest, to)
	if nil != err {
		util.SendFault(w, err)
		return
	}
	util.SendReply(w, ReceiveReply{Payload: message})
}

// a publish failure still reports the key of the stored transaction
func (h *clientHandler) keyReply(w http.ResponseWriter, digest payload.Digest, err error) {
	if nil == err {
		util.SendReply(w, KeyReply{Key: digest})
		return
	}

	var pe *fault.PublishError
	if !errors.As(err, &pe) {
		util.SendFault(w, err)
		return
	}

	reply := PublishFailedReply{
		Key:      digest,
		Error:    err.Error(),
		Failures: make([]FailureReply, 0, len(pe.Failures)),
	}
	for _, f := range pe.Failures {
		reply.Failures = append(reply.Failures, FailureReply{Recipient: f.Recipient, Error: f.Err.Error()})
	}
	text, jsonErr := json.Marshal(reply)
	if nil != jsonErr {
		util.SendInternalServerError(w)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusBadGateway)
	w.Write(text)
}

// common wrapping of every endpoint
func wrap(op string, limiter *rate.Limiter, f http.HandlerFunc) http.Handler {
	return metrics.Instrument(op, ratelimit.Handler(limiter, f))
}

func root(w http.ResponseWriter, r *http.Request) {
	util.SendNotFound(w)
}

func upcheck(w http.ResponseWriter, r *http.Request) {
	if http.MethodGet != r.Method {
		util.SendMethodNotAllowed(w)
		return
	}
	util.SendText(w, transport.UpcheckReply)
}

// false if a reply has already been sent
func decodePost(log *logger.L, w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if http.MethodPost != r.Method {
		util.SendMethodNotAllowed(w)
		return false
	}
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maximumBodySize))
	if err := decoder.Decode(v); nil != err {
		log.Debugf("%s from: %s  decode error: %s", r.URL.Path, r.RemoteAddr, err)
		if fault.IsErrInvalid(err) {
			util.SendFault(w, err)
		} else {
			util.SendError(w, "invalid request body", http.StatusBadRequest)
		}
		return false
	}
	return true
}
