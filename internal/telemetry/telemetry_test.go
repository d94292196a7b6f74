package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvider_Disabled(t *testing.T) {
	ctx := context.Background()

	p, err := NewProvider(ctx, TelemetryConfig{Enabled: false})
	require.NoError(t, err)

	_, span := p.Tracer().Start(ctx, "test")
	assert.False(t, span.SpanContext().IsValid())
	EndSpan(span, errors.New("ignored"))

	assert.NoError(t, p.Shutdown(ctx))
}

func TestNewProvider_Enabled(t *testing.T) {
	ctx := context.Background()

	// The exporter connects lazily, so no collector is needed to build the pipeline
	p, err := NewProvider(ctx, TelemetryConfig{Enabled: true, OTLPEndpoint: "localhost:4318"})
	require.NoError(t, err)

	_, span := p.Tracer().Start(ctx, "test")
	assert.True(t, span.SpanContext().IsValid())
	EndSpan(span, nil)
}
