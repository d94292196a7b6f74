package provider

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/cchalm/study-buddy/internal/ai"
	"github.com/cchalm/study-buddy/internal/telemetry"
)

type tracedClient struct {
	next   Client
	tracer trace.Tracer
}

// WithTracing wraps a Client so each call runs inside a span
func WithTracing(next Client, tracer trace.Tracer) Client {
	return &tracedClient{next: next, tracer: tracer}
}

func (c *tracedClient) Generate(ctx context.Context, parts []ai.Part) (text string, err error) {
	blobs := 0
	for _, p := range parts {
		if p.IsBlob() {
			blobs++
		}
	}
	ctx, span := c.tracer.Start(ctx, "model.generate", trace.WithAttributes(
		attribute.Int("prompt.parts", len(parts)),
		attribute.Int("prompt.blobs", blobs),
	))
	defer func() {
		span.SetAttributes(attribute.Int("response.length", len(text)))
		telemetry.EndSpan(span, err)
	}()

	return c.next.Generate(ctx, parts)
}

func (c *tracedClient) ListModels(ctx context.Context) (names []string, err error) {
	ctx, span := c.tracer.Start(ctx, "model.list")
	defer func() {
		span.SetAttributes(attribute.Int("models.count", len(names)))
		telemetry.EndSpan(span, err)
	}()

	return c.next.ListModels(ctx)
}
