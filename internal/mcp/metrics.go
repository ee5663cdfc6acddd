package mcp

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/trakt-mcp/internal/errhandler"
	"github.com/fyrsmithlabs/trakt-mcp/internal/logging"
	"github.com/fyrsmithlabs/trakt-mcp/internal/mcperr"
)

const instrumentationName = "github.com/fyrsmithlabs/trakt-mcp/internal/mcp"

// Metrics holds the invocation instruments shared by tools and resources.
type Metrics struct {
	meter          metric.Meter
	logger         *logging.Logger
	invocations    metric.Int64Counter
	duration       metric.Float64Histogram
	errors         metric.Int64Counter
	activeRequests metric.Int64UpDownCounter
}

// NewMetrics creates instruments on the global meter provider.
func NewMetrics(logger *logging.Logger) *Metrics {
	return NewMetricsWithMeter(otel.Meter(instrumentationName), logger)
}

// NewMetricsWithMeter creates instruments on meter.
func NewMetricsWithMeter(meter metric.Meter, logger *logging.Logger) *Metrics {
	m := &Metrics{meter: meter, logger: logger}
	m.init()
	return m
}

func (m *Metrics) init() {
	ctx := context.Background()
	var err error

	m.invocations, err = m.meter.Int64Counter(
		"trakt_mcp.invocations_total",
		metric.WithDescription("Total number of MCP tool and resource invocations"),
		metric.WithUnit("{invocation}"),
	)
	if err != nil {
		m.logger.Warn(ctx, "failed to create invocations counter", zap.Error(err))
	}

	m.duration, err = m.meter.Float64Histogram(
		"trakt_mcp.duration_seconds",
		metric.WithDescription("Duration of MCP tool and resource invocations"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		m.logger.Warn(ctx, "failed to create duration histogram", zap.Error(err))
	}

	m.errors, err = m.meter.Int64Counter(
		"trakt_mcp.errors_total",
		metric.WithDescription("Total number of failed invocations by error kind"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		m.logger.Warn(ctx, "failed to create errors counter", zap.Error(err))
	}

	m.activeRequests, err = m.meter.Int64UpDownCounter(
		"trakt_mcp.active_requests",
		metric.WithDescription("Number of invocations in flight"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		m.logger.Warn(ctx, "failed to create active requests gauge", zap.Error(err))
	}
}

// RecordInvocation records one finished invocation of operation.
func (m *Metrics) RecordInvocation(ctx context.Context, operation string, duration time.Duration, err error) {
	attrs := []attribute.KeyValue{attribute.String("operation", operation)}

	if m.invocations != nil {
		m.invocations.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
	if m.duration != nil {
		m.duration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
	}
	if err != nil && m.errors != nil {
		errorAttrs := append(attrs, attribute.String("reason", categorizeError(err)))
		m.errors.Add(ctx, 1, metric.WithAttributes(errorAttrs...))
	}
}

// IncrementActive marks operation as in flight.
func (m *Metrics) IncrementActive(ctx context.Context, operation string) {
	if m.activeRequests != nil {
		m.activeRequests.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", operation)))
	}
}

// DecrementActive marks operation as finished.
func (m *Metrics) DecrementActive(ctx context.Context, operation string) {
	if m.activeRequests != nil {
		m.activeRequests.Add(ctx, -1, metric.WithAttributes(attribute.String("operation", operation)))
	}
}

// categorizeError maps err onto a bounded set of label values: the
// taxonomy kind for structured errors.
func categorizeError(err error) string {
	if err == nil {
		return ""
	}
	if kind, ok := mcperr.KindOf(err); ok {
		return kind.String()
	}
	if errhandler.IsLogic(err) {
		return "logic"
	}
	return "unexpected"
}
