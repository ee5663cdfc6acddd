package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestNew_DefaultsServePrometheus(t *testing.T) {
	tel, err := New(context.Background(), NewDefaultConfig(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = tel.Shutdown(context.Background()) })

	assert.False(t, tel.IsEnabled())
	assert.False(t, tel.Health().Degraded)
	require.NotNil(t, tel.Gatherer())

	counter, err := tel.Meter("test").Int64Counter("trakt_mcp.test_total")
	require.NoError(t, err)
	counter.Add(context.Background(), 2)

	families, err := tel.Gatherer().Gather()
	require.NoError(t, err)
	var names []string
	for _, mf := range families {
		names = append(names, mf.GetName())
	}
	assert.Contains(t, names, "trakt_mcp_test_total")
}

func TestNew_PrometheusOff(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Metrics.Prometheus = false

	tel, err := New(context.Background(), cfg, nil)
	require.NoError(t, err)
	assert.Nil(t, tel.Gatherer())
	assert.NotNil(t, tel.Meter("test"))
	assert.NotNil(t, tel.Tracer("test"))
}

func TestNew_InvalidConfig(t *testing.T) {
	tel, err := New(context.Background(), &Config{Enabled: true}, nil)
	require.Error(t, err)
	assert.Nil(t, tel)
	assert.Contains(t, err.Error(), "invalid telemetry config")
}

func TestTelemetry_NilSafe(t *testing.T) {
	var tel *Telemetry

	assert.NotPanics(t, func() {
		_ = tel.Tracer("test")
		_ = tel.TracerProvider()
		_ = tel.Meter("test")
		_ = tel.Gatherer()
		_ = tel.IsEnabled()
		_ = tel.Shutdown(context.Background())
		_ = tel.ForceFlush(context.Background())
	})
	assert.Equal(t, HealthStatus{Healthy: false, Degraded: true}, tel.Health())
}

func TestTelemetry_ShutdownMarksUnhealthy(t *testing.T) {
	tt := NewTestTelemetry()
	require.NoError(t, tt.Shutdown(context.Background()))
	assert.False(t, tt.Health().Healthy)
}

func TestTestTelemetry_Spans(t *testing.T) {
	tt := NewTestTelemetry()

	_, span := tt.Tracer("test").Start(context.Background(), "fetch_trending_shows")
	span.SetAttributes(
		attribute.String("mcp.method", "TOOL"),
		attribute.Int("limit", 10),
	)
	span.End()

	require.NotNil(t, tt.SpanByName("fetch_trending_shows"))
	assert.Nil(t, tt.SpanByName("missing"))
	tt.AssertSpanAttribute(t, "fetch_trending_shows", "mcp.method", "TOOL")
	tt.AssertSpanAttribute(t, "fetch_trending_shows", "limit", int64(10))
}

func TestTestTelemetry_Metrics(t *testing.T) {
	tt := NewTestTelemetry()
	ctx := context.Background()

	hist, err := tt.Meter("test").Float64Histogram("trakt_mcp.duration_seconds")
	require.NoError(t, err)
	hist.Record(ctx, 0.25)

	require.NoError(t, tt.ForceFlush(ctx))
	rm, err := tt.Collect(ctx)
	require.NoError(t, err)
	require.Len(t, rm.ScopeMetrics, 1)
	require.Len(t, rm.ScopeMetrics[0].Metrics, 1)

	data, ok := rm.ScopeMetrics[0].Metrics[0].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	assert.Equal(t, uint64(1), data.DataPoints[0].Count)
}
