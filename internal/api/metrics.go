package api

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "splitfair_store_requests_total",
		Help: "Store requests by operation and result (ok, error, or HTTP status).",
	}, []string{"operation", "result"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "splitfair_store_request_duration_seconds",
		Help:    "Store request latency by operation.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
)

func observeResult(op, result string) {
	requestsTotal.WithLabelValues(op, result).Inc()
}

func observeDuration(op string, d time.Duration) {
	requestDuration.WithLabelValues(op).Observe(d.Seconds())
}
