// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"io/ioutil"
	"net/http"

	"golang.org/x/time/rate"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/txrelay/fault"
	"github.com/bitmark-inc/txrelay/keys"
	"github.com/bitmark-inc/txrelay/metrics"
	"github.com/bitmark-inc/txrelay/partyinfo"
	"github.com/bitmark-inc/txrelay/resend"
	"github.com/bitmark-inc/txrelay/util"
)

// Admin - operator actions on a running node
type Admin interface {
	CurrentDirectory() *partyinfo.PartyInfo
	AddPeer(url string) (bool, error)
	RecoverKey(ctx context.Context, key keys.PublicKey) resend.Report
	RecoverAllKnownKeys(ctx context.Context) []resend.Report
}

// AddPeerRequest - body of /peers
type AddPeerRequest struct {
	URL string `json:"url"`
}

// AddPeerReply - whether the directory changed
type AddPeerReply struct {
	URL   string `json:"url"`
	Added bool   `json:"added"`
}

// RecoverRequest - body of /recover, an empty body recovers every managed key
type RecoverRequest struct {
	PublicKey *keys.PublicKey `json:"publicKey,omitempty"`
}

// PeerReportReply - outcome of recovery from one peer
type PeerReportReply struct {
	URL        string `json:"url"`
	Inserted   int    `json:"inserted"`
	Updated    int    `json:"updated"`
	Duplicates int    `json:"duplicates"`
	Ignored    int    `json:"ignored"`
	Conflicts  int    `json:"conflicts"`
	Error      string `json:"error,omitempty"`
}

// ReportReply - outcome of recovery of one key
type ReportReply struct {
	PublicKey keys.PublicKey    `json:"publicKey"`
	Stored    int               `json:"stored"`
	Failed    int               `json:"failed"`
	Peers     []PeerReportReply `json:"peers"`
}

type adminHandler struct {
	log   *logger.L
	admin Admin
}

// NewAdminHandler - HTTP binding of the operator actions
//
// limiter may be nil to disable rate limiting
func NewAdminHandler(admin Admin, limiter *rate.Limiter) http.Handler {
	h := &adminHandler{
		log:   logger.New("rpc-admin"),
		admin: admin,
	}

	mux := http.NewServeMux()
	mux.Handle("/partyinfo", wrap("admin-partyinfo", limiter, h.partyInfo))
	mux.Handle("/peers", wrap("peers", limiter, h.peers))
	mux.Handle("/recover", wrap("recover", limiter, h.recover))
	mux.Handle("/metrics", metrics.Handler())
	mux.HandleFunc("/", root)
	return mux
}

func (h *adminHandler) partyInfo(w http.ResponseWriter, r *http.Request) {
	if http.MethodGet != r.Method {
		util.SendMethodNotAllowed(w)
		return
	}
	util.SendReply(w, h.admin.CurrentDirectory())
}

func (h *adminHandler) peers(w http.ResponseWriter, r *http.Request) {
	var req AddPeerRequest
	if !decodePost(h.log, w, r, &req) {
		return
	}
	added, err := h.admin.AddPeer(req.URL)
	if nil != err {
		util.SendFault(w, err)
		return
	}
	h.log.Infof("add peer: %q  added: %t", req.URL, added)
	util.SendReply(w, AddPeerReply{URL: util.NormaliseURL(req.URL), Added: added})
}

func (h *adminHandler) recover(w http.ResponseWriter, r *http.Request) {
	if http.MethodPost != r.Method {
		util.SendMethodNotAllowed(w)
		return
	}

	// an empty body recovers every managed key
	var req RecoverRequest
	body, err := ioutil.ReadAll(http.MaxBytesReader(w, r.Body, maximumBodySize))
	if nil != err {
		util.SendError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if 0 != len(bytes.TrimSpace(body)) {
		if err := json.Unmarshal(body, &req); nil != err {
			h.log.Debugf("recover from: %s  decode error: %s", r.RemoteAddr, err)
			util.SendError(w, "invalid request body", http.StatusBadRequest)
			return
		}
	}

	if nil == req.PublicKey {
		reports := h.admin.RecoverAllKnownKeys(r.Context())
		replies := make([]ReportReply, 0, len(reports))
		for _, report := range reports {
			replies = append(replies, toReportReply(report))
		}
		util.SendReply(w, replies)
		return
	}

	if req.PublicKey.IsZero() {
		util.SendFault(w, fault.ErrInvalidPublicKey)
		return
	}
	util.SendReply(w, toReportReply(h.admin.RecoverKey(r.Context(), *req.PublicKey)))
}

func toReportReply(report resend.Report) ReportReply {
	reply := ReportReply{
		PublicKey: report.Key,
		Stored:    report.Stored(),
		Failed:    report.Failed(),
		Peers:     make([]PeerReportReply, 0, len(report.Peers)),
	}
	for _, p := range report.Peers {
		peer := PeerReportReply{
			URL:        p.URL,
			Inserted:   p.Inserted,
			Updated:    p.Updated,
			Duplicates: p.Duplicates,
			Ignored:    p.Ignored,
			Conflicts:  p.Conflicts,
		}
		if nil != p.Err {
			peer.Error = p.Err.Error()
		}
		reply.Peers = append(reply.Peers, peer)
	}
	return reply
}
