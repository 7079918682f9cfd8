// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "txrelay"

// outcome labels
const (
	Success = "success"
	Failure = "failure"
)

var (
	// Registry - every txrelay collector, served at /metrics
	Registry = prometheus.NewRegistry()

	// GossipRounds - directory sync contacts by result
	GossipRounds = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "gossip",
			Name:      "contacts_total",
			Help:      "Directory sync contacts with peers.",
		},
		[]string{"result"},
	)

	// DirectorySize - entries in the current directory snapshot
	DirectorySize = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "gossip",
			Name:      "directory_entries",
			Help:      "Entries in the current party directory.",
		},
		[]string{"kind"},
	)

	// Publishes - payload distributions by result
	Publishes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "publish",
			Name:      "payloads_total",
			Help:      "Payload distributions.",
		},
		[]string{"result"},
	)

	// Deliveries - individual pushes to recipients by result
	Deliveries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "publish",
			Name:      "deliveries_total",
			Help:      "Pushes of recipient scoped payloads.",
		},
		[]string{"result"},
	)

	// Recovered - payloads received through resend by storage outcome
	Recovered = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "resend",
			Name:      "payloads_total",
			Help:      "Payloads received from peers during recovery.",
		},
		[]string{"outcome"},
	)

	// RecoveryPeers - peers contacted during recovery by result
	RecoveryPeers = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "resend",
			Name:      "peers_total",
			Help:      "Peers contacted during recovery.",
		},
		[]string{"result"},
	)

	// RequestsTotal - served HTTP requests
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Total number of HTTP requests.",
		},
		[]string{"op", "status"},
	)

	// RequestDuration - latency of served HTTP requests
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "Latency of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 13),
		},
		[]string{"op"},
	)

	// InFlight - HTTP requests being served
	InFlight = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "in_flight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
		[]string{"op"},
	)

	buildInfo = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "build_info",
			Help:      "Build info (constant 1, labelled by version).",
		},
		[]string{"version"},
	)

	startTime = time.Now()
	uptime    = prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "uptime_seconds",
			Help:      "Process uptime in seconds.",
		},
		func() float64 { return time.Since(startTime).Seconds() },
	)
)

func init() {
	Registry.MustRegister(
		GossipRounds, DirectorySize,
		Publishes, Deliveries,
		Recovered, RecoveryPeers,
		RequestsTotal, RequestDuration, InFlight,
		buildInfo, uptime,
	)
}

// Result - label for an error value
func Result(err error) string {
	if nil == err {
		return Success
	}
	return Failure
}

// Handler - exposition of Registry
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// SetBuildInfo - call once at startup
func SetBuildInfo(version string) {
	buildInfo.WithLabelValues(version).Set(1)
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Flush - streamed responses pass through the wrapper
func (w *statusWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Instrument - record request count, latency and concurrency under op
func Instrument(op string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		InFlight.WithLabelValues(op).Inc()
		defer InFlight.WithLabelValues(op).Dec()

		next.ServeHTTP(sw, r)

		class := strconv.Itoa(sw.status/100) + "xx"
		RequestsTotal.WithLabelValues(op, class).Inc()
		RequestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	})
}
