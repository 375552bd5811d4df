// Package metrics declares the Prometheus instruments exported at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Scheduler metrics

// TicksTotal counts simulation ticks across all sessions
var TicksTotal = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "clickonomy",
	Subsystem: "scheduler",
	Name:      "ticks_total",
	Help:      "Total simulation ticks executed.",
})

// MarketUpdatesTotal counts market repricing passes
var MarketUpdatesTotal = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "clickonomy",
	Subsystem: "scheduler",
	Name:      "market_updates_total",
	Help:      "Total market price update passes.",
})

// ActiveSessions tracks currently running tick loops
var ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "clickonomy",
	Subsystem: "scheduler",
	Name:      "active_sessions",
	Help:      "Number of player sessions with a running tick loop.",
})

// PersistFailures counts ticks whose state write failed
var PersistFailures = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "clickonomy",
	Subsystem: "scheduler",
	Name:      "persist_failures_total",
	Help:      "Total tick persists that failed.",
})

// BansObserved counts sessions frozen after a ban was seen mid-session
var BansObserved = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "clickonomy",
	Subsystem: "scheduler",
	Name:      "bans_observed_total",
	Help:      "Total bans observed by running sessions.",
})

// Audio metrics

// PlaybackRejections counts audio source applications the client refused
var PlaybackRejections = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "clickonomy",
	Subsystem: "audio",
	Name:      "playback_rejections_total",
	Help:      "Total playback rejections reported by clients.",
})

// Gate metrics

// LoginsTotal counts gate passes by outcome
var LoginsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "clickonomy",
	Subsystem: "gate",
	Name:      "logins_total",
	Help:      "Total login attempts by outcome.",
}, []string{"outcome"})

// HTTP metrics

// HTTPRequestsTotal counts API requests by route and status
var HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "clickonomy",
	Subsystem: "http",
	Name:      "requests_total",
	Help:      "Total HTTP requests served.",
}, []string{"method", "route", "status"})

// HTTPRequestDuration observes API latency by route
var HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "clickonomy",
	Subsystem: "http",
	Name:      "request_duration_seconds",
	Help:      "HTTP request latency.",
	Buckets:   prometheus.DefBuckets,
}, []string{"route"})

// SSE metrics

// SSEClients tracks currently connected event stream clients
var SSEClients = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "clickonomy",
	Subsystem: "sse",
	Name:      "clients",
	Help:      "Number of connected event stream clients.",
})
