package metrics_test

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/garnizeh/skillswap/internal/metrics"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("write metric: %v", err)
	}
	return m.GetCounter().GetValue()
}

func TestObserveRequest(t *testing.T) {
	c := metrics.HTTPRequestsTotal.WithLabelValues("GET", "/api/swaps", "200")
	before := counterValue(t, c)
	metrics.ObserveRequest("GET", "/api/swaps", 200, time.Now())
	if got := counterValue(t, c); got != before+1 {
		t.Fatalf("expected counter to increase by one, got %v -> %v", before, got)
	}
}

func TestRecordHelpers(t *testing.T) {
	login := metrics.AuthAttemptsTotal.WithLabelValues("login", "failure")
	before := counterValue(t, login)
	metrics.RecordAuth("login", errors.New("nope"))
	if counterValue(t, login) != before+1 {
		t.Fatalf("login failure not recorded")
	}

	created := metrics.SwapEventsTotal.WithLabelValues("created")
	before = counterValue(t, created)
	metrics.RecordSwapEvent("created")
	if counterValue(t, created) != before+1 {
		t.Fatalf("swap event not recorded")
	}

	five := metrics.RatingsTotal.WithLabelValues("5")
	before = counterValue(t, five)
	metrics.RecordRating(5)
	if counterValue(t, five) != before+1 {
		t.Fatalf("rating not recorded")
	}

	ok := metrics.UploadsTotal.WithLabelValues("success")
	before = counterValue(t, ok)
	metrics.RecordUpload(nil)
	if counterValue(t, ok) != before+1 {
		t.Fatalf("upload not recorded")
	}
}

func TestRegisteredWithDefaultGatherer(t *testing.T) {
	metrics.RecordSwapEvent("accepted")
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, f := range families {
		if f.GetName() == "skillswap_swap_events_total" {
			return
		}
	}
	t.Fatalf("skillswap_swap_events_total not registered")
}
