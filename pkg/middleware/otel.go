package middleware

import (
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/memoai-dev/memocoach/pkg/gateway"
)

// Default tracer name for memocoach clients.
const defaultTracerName = "memocoach"

// TracingConfig configures the OpenTelemetry middleware.
type TracingConfig struct {
	// TracerName is the name of the tracer (default: "memocoach").
	TracerName string

	// Filter determines which requests to trace. Return true to trace.
	// If nil, all requests are traced.
	Filter func(req *http.Request) bool

	// AttributeExtractor extracts custom attributes from the request.
	AttributeExtractor func(req *http.Request) []attribute.KeyValue
}

// TracingOption configures the OpenTelemetry middleware.
type TracingOption func(*TracingConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) TracingOption {
	return func(c *TracingConfig) {
		c.TracerName = name
	}
}

// WithRequestFilter sets a filter function for requests.
func WithRequestFilter(filter func(req *http.Request) bool) TracingOption {
	return func(c *TracingConfig) {
		c.Filter = filter
	}
}

// WithAttributeExtractor sets a custom attribute extractor.
func WithAttributeExtractor(extractor func(req *http.Request) []attribute.KeyValue) TracingOption {
	return func(c *TracingConfig) {
		c.AttributeExtractor = extractor
	}
}

// Tracing returns gateway middleware that opens a client span per request.
func Tracing(opts ...TracingOption) gateway.Middleware {
	cfg := TracingConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&cfg)
	}
	tracer := otel.Tracer(cfg.TracerName)

	return func(next gateway.RoundTripFunc) gateway.RoundTripFunc {
		return func(req *http.Request) (*http.Response, error) {
			if cfg.Filter != nil && !cfg.Filter(req) {
				return next(req)
			}

			attrs := []attribute.KeyValue{
				attribute.String("http.request.method", req.Method),
				attribute.String("url.path", req.URL.Path),
				attribute.String("server.address", req.URL.Host),
			}
			if cfg.AttributeExtractor != nil {
				attrs = append(attrs, cfg.AttributeExtractor(req)...)
			}

			ctx, span := tracer.Start(req.Context(),
				req.Method+" "+req.URL.Path,
				trace.WithSpanKind(trace.SpanKindClient),
				trace.WithAttributes(attrs...),
			)
			defer span.End()

			resp, err := next(req.WithContext(ctx))
			switch {
			case err != nil:
				span.SetStatus(codes.Error, err.Error())
			case resp != nil:
				span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
				if resp.StatusCode >= 400 {
					span.SetStatus(codes.Error, http.StatusText(resp.StatusCode))
				}
			}
			return resp, err
		}
	}
}
