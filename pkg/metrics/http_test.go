package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestHTTPMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	m.Observe("POST", "/api/v1/checkout/line", "201", 40*time.Millisecond)
	m.Observe("POST", "/api/v1/checkout/line", "201", 10*time.Millisecond)
	m.Observe("GET", "", "404", time.Millisecond)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	count, err := fetchCounterValue(mfs, "http_requests_total", "route", "/api/v1/checkout/line")
	if err != nil {
		t.Fatalf("fetch counter: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 requests, got %v", count)
	}
	if _, err := fetchCounterValue(mfs, "http_requests_total", "route", "unknown"); err != nil {
		t.Fatalf("expected blank route to be labelled unknown: %v", err)
	}
}

func TestHTTPMetricsNilSafe(t *testing.T) {
	var m *HTTPMetrics
	m.Observe("GET", "/", "200", time.Millisecond)
	NewHTTPMetrics(nil).Observe("GET", "/", "200", time.Millisecond)
}
