// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts requests by method, route template and status code.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "skillswap_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "route", "status"})

	// HTTPRequestDuration records request latency by method and route template.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "skillswap_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	// AuthAttemptsTotal counts register and login attempts by outcome.
	AuthAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "skillswap_auth_attempts_total",
		Help: "Total register and login attempts",
	}, []string{"action", "result"})

	// SwapEventsTotal counts swap lifecycle events: created, accepted, rejected, deleted.
	SwapEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "skillswap_swap_events_total",
		Help: "Total swap request lifecycle events",
	}, []string{"event"})

	// RatingsTotal counts stored ratings by score.
	RatingsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "skillswap_ratings_total",
		Help: "Total ratings stored",
	}, []string{"score"})

	// UploadsTotal counts profile photo uploads by result.
	UploadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "skillswap_uploads_total",
		Help: "Total profile photo uploads",
	}, []string{"result"})
)

// ObserveRequest records one finished HTTP request.
func ObserveRequest(method, route string, status int, start time.Time) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
}

func RecordAuth(action string, err error) {
	AuthAttemptsTotal.WithLabelValues(action, result(err)).Inc()
}

func RecordSwapEvent(event string) {
	SwapEventsTotal.WithLabelValues(event).Inc()
}

func RecordRating(score int) {
	RatingsTotal.WithLabelValues(strconv.Itoa(score)).Inc()
}

func RecordUpload(err error) {
	UploadsTotal.WithLabelValues(result(err)).Inc()
}

func result(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}
