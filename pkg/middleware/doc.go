// Package middleware provides production-grade middleware for the gateway
// transport chain.
//
// This package includes:
//   - Prometheus metrics middleware
//   - OpenTelemetry distributed tracing middleware
//
// # Prometheus Metrics
//
// The metrics middleware counts requests by method and status class,
// observes request duration, and counts 401 responses separately (they are
// the signal for forced session teardown):
//
//	client := gateway.New(baseURL,
//	    gateway.WithMiddleware(middleware.Metrics()),
//	)
//
// Configure with options:
//
//	middleware.Metrics(
//	    middleware.WithNamespace("memocoach"),
//	    middleware.WithRegistry(myRegistry),
//	    middleware.WithBuckets([]float64{.05, .1, .5, 1, 5, 30}),
//	)
//
// Create each metrics middleware once per registry; collectors are
// registered at construction.
//
// # OpenTelemetry
//
// The tracing middleware opens a client span per request with method, path
// and response status attributes:
//
//	client := gateway.New(baseURL,
//	    gateway.WithMiddleware(middleware.Tracing()),
//	)
package middleware
