// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package metrics collects Prometheus metrics for remote platform calls and
// auth events, and exposes them over HTTP.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector records remote call outcomes and auth transitions.
type Collector struct {
	remoteCalls   *prometheus.CounterVec
	remoteLatency *prometheus.HistogramVec
	authEvents    *prometheus.CounterVec
	droppedEvents prometheus.Counter
	gatherer      prometheus.Gatherer
}

// NewCollector creates a Collector and registers its metrics on reg.
func NewCollector(reg *prometheus.Registry) *Collector {
	c := &Collector{
		remoteCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "diary_remote_calls_total",
			Help: "Remote platform calls by resource, operation and outcome.",
		}, []string{"resource", "operation", "outcome"}),
		remoteLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "diary_remote_call_seconds",
			Help:    "Remote platform call latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"resource", "operation"}),
		authEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "diary_auth_events_total",
			Help: "Auth state transitions broadcast to subscribers.",
		}, []string{"kind"}),
		droppedEvents: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "diary_auth_events_dropped_total",
			Help: "Auth events dropped because a subscriber queue was full.",
		}),
		gatherer: reg,
	}

	reg.MustRegister(c.remoteCalls, c.remoteLatency, c.authEvents, c.droppedEvents)

	return c
}

// ObserveRemoteCall records one remote platform call.
func (c *Collector) ObserveRemoteCall(resource, operation, outcome string, elapsed time.Duration) {
	c.remoteCalls.WithLabelValues(resource, operation, outcome).Inc()
	c.remoteLatency.WithLabelValues(resource, operation).Observe(elapsed.Seconds())
}

// RecordAuthEvent counts an auth transition.
func (c *Collector) RecordAuthEvent(kind string) {
	c.authEvents.WithLabelValues(kind).Inc()
}

// RecordDroppedEvent counts an auth event a subscriber never received.
func (c *Collector) RecordDroppedEvent() {
	c.droppedEvents.Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})
}
