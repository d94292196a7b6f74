package transport

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/cchalm/study-buddy/internal/telemetry"
)

// TracingTransport wraps outbound requests to model providers and object stores in a span and logs their
// outcome. Each request is sent exactly once
type TracingTransport struct {
	base   http.RoundTripper
	tracer trace.Tracer
}

func WithTracing(base http.RoundTripper, tracer trace.Tracer) *TracingTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	if tracer == nil {
		tracer = telemetry.NoopTracer()
	}
	return &TracingTransport{base: base, tracer: tracer}
}

func (t *TracingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx, span := t.tracer.Start(req.Context(), fmt.Sprintf("HTTP %s", req.Method),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", req.Method),
			attribute.String("server.address", req.URL.Host),
			attribute.String("url.path", req.URL.Path),
		),
	)

	start := time.Now()
	resp, err := t.base.RoundTrip(req.WithContext(ctx))
	elapsed := time.Since(start)

	if err != nil {
		log.Printf("Outbound %s %s failed after %s: %v", req.Method, req.URL.Host, elapsed, err)
		telemetry.EndSpan(span, err)
		return resp, err
	}

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	if resp.StatusCode >= http.StatusBadRequest {
		log.Printf("Outbound %s %s%s returned %d after %s", req.Method, req.URL.Host, req.URL.Path, resp.StatusCode, elapsed)
		telemetry.EndSpan(span, fmt.Errorf("status %d", resp.StatusCode))
		return resp, nil
	}

	telemetry.EndSpan(span, nil)
	return resp, nil
}

// NewHTTPClient returns an HTTP client whose requests go through a TracingTransport
func NewHTTPClient(tracer trace.Tracer) *http.Client {
	return &http.Client{
		Transport: WithTracing(nil, tracer),
	}
}
