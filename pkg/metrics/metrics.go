package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Sync run outcomes.
const (
	OutcomeSuccess  = "success"
	OutcomeWarning  = "warning"
	OutcomeFailure  = "failure"
	OutcomeSkipped  = "skipped"
	OutcomeConflict = "in_progress"
)

// Row results.
const (
	RowUpserted = "upserted"
	RowFailed   = "failed"
	RowSkipped  = "skipped"
)

// Sync holds the counters for the sheet import.
type Sync struct {
	Runs     *prometheus.CounterVec
	Rows     *prometheus.CounterVec
	Duration prometheus.Histogram
}

// NewSync creates the sync collectors and registers them on reg when reg is
// not nil.
func NewSync(reg prometheus.Registerer) *Sync {
	s := &Sync{
		Runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "boutique_sync_runs_total",
			Help: "Candidate sheet import runs by outcome.",
		}, []string{"outcome"}),
		Rows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "boutique_sync_rows_total",
			Help: "Candidate sheet rows processed by result.",
		}, []string{"result"}),
		Duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "boutique_sync_duration_seconds",
			Help:    "Duration of candidate sheet imports.",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 10),
		}),
	}
	if reg != nil {
		reg.MustRegister(s.Runs, s.Rows, s.Duration)
	}
	return s
}

// HTTP holds the request collectors.
type HTTP struct {
	Requests *prometheus.CounterVec
	Duration *prometheus.HistogramVec
}

func NewHTTP(reg prometheus.Registerer) *HTTP {
	h := &HTTP{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "boutique_http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "boutique_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	if reg != nil {
		reg.MustRegister(h.Requests, h.Duration)
	}
	return h
}
