package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/memoai-dev/memocoach/pkg/gateway"
	"github.com/memoai-dev/memocoach/pkg/middleware"
)

func TestMetrics(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/denied" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"data":null,"meta":{},"errors":[{"message":"no","code":"AUTH_INVALID_TOKEN"}]}`))
			return
		}
		w.Write([]byte(`{"data":{},"meta":{},"errors":[]}`))
	}))
	defer srv.Close()

	registry := prometheus.NewRegistry()
	client := gateway.New(srv.URL,
		gateway.WithMiddleware(middleware.Metrics(middleware.WithRegistry(registry))),
	)
	ctx := context.Background()

	if _, err := client.Get(ctx, "/ok"); err != nil {
		t.Fatal(err)
	}
	if _, err := client.Get(ctx, "/ok"); err != nil {
		t.Fatal(err)
	}
	if _, err := client.Get(ctx, "/denied"); err != nil {
		t.Fatal(err)
	}

	if got := counterValue(t, registry, "memocoach_gateway_requests_total",
		prometheus.Labels{"method": "GET", "status": "2xx"}); got != 2 {
		t.Errorf("2xx requests = %v, want 2", got)
	}
	if got := counterValue(t, registry, "memocoach_gateway_requests_total",
		prometheus.Labels{"method": "GET", "status": "4xx"}); got != 1 {
		t.Errorf("4xx requests = %v, want 1", got)
	}
	if got := counterValue(t, registry, "memocoach_gateway_unauthorized_total", nil); got != 1 {
		t.Errorf("unauthorized = %v, want 1", got)
	}
}

func TestMetricsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	registry := prometheus.NewRegistry()
	client := gateway.New(url,
		gateway.WithMiddleware(middleware.Metrics(middleware.WithRegistry(registry))),
	)

	if _, err := client.Get(context.Background(), "/x"); err != nil {
		t.Fatal(err)
	}

	if got := counterValue(t, registry, "memocoach_gateway_transport_errors_total", nil); got != 1 {
		t.Errorf("transport errors = %v, want 1", got)
	}
	if got := counterValue(t, registry, "memocoach_gateway_requests_total",
		prometheus.Labels{"method": "GET", "status": "error"}); got != 1 {
		t.Errorf("error-class requests = %v, want 1", got)
	}
}

func TestMetricsCustomNaming(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{},"meta":{},"errors":[]}`))
	}))
	defer srv.Close()

	registry := prometheus.NewRegistry()
	client := gateway.New(srv.URL,
		gateway.WithMiddleware(middleware.Metrics(
			middleware.WithRegistry(registry),
			middleware.WithNamespace("acme"),
			middleware.WithSubsystem("api"),
			middleware.WithConstLabels(prometheus.Labels{"env": "test"}),
		)),
	)

	if _, err := client.Get(context.Background(), "/x"); err != nil {
		t.Fatal(err)
	}

	if got := counterValue(t, registry, "acme_api_requests_total",
		prometheus.Labels{"method": "GET", "status": "2xx", "env": "test"}); got != 1 {
		t.Errorf("requests = %v, want 1", got)
	}
}

// counterValue gathers the registry and returns the value of the named
// counter series carrying at least the given labels.
func counterValue(t *testing.T, g prometheus.Gatherer, name string, labels prometheus.Labels) float64 {
	t.Helper()
	families, err := g.Gather()
	if err != nil {
		t.Fatal(err)
	}
	for _, fam := range families {
		if fam.GetName() != name {
			continue
		}
	series:
		for _, m := range fam.GetMetric() {
			got := make(map[string]string, len(m.GetLabel()))
			for _, l := range m.GetLabel() {
				got[l.GetName()] = l.GetValue()
			}
			for k, v := range labels {
				if got[k] != v {
					continue series
				}
			}
			return m.GetCounter().GetValue()
		}
	}
	t.Fatalf("series %s%v not found", name, labels)
	return 0
}
