// internal/logging/context.go
package logging

import (
	"context"

	"github.com/fyrsmithlabs/trakt-mcp/internal/reqctx"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// RequestKeys are added to every record by ContextFields, null when no
// request context is installed.
var RequestKeys = []string{
	"correlation_id",
	"endpoint",
	"method",
	"resource_type",
	"resource_id",
	"user_id",
	"elapsed_time",
}

// ContextFields extracts correlation data from ctx. The request keys are
// always present so code inspecting records can rely on them; the encoder
// drops the empty ones.
func ContextFields(ctx context.Context) []zap.Field {
	fields := make([]zap.Field, 0, len(RequestKeys)+3)

	if span := trace.SpanFromContext(ctx); span.SpanContext().IsValid() {
		sc := span.SpanContext()
		fields = append(fields,
			zap.String("trace_id", sc.TraceID().String()),
			zap.String("span_id", sc.SpanID().String()),
		)
	}

	rc, ok := reqctx.FromContext(ctx)
	if !ok {
		for _, k := range RequestKeys {
			fields = append(fields, zap.Reflect(k, nil))
		}
		return fields
	}

	return append(fields,
		nullable("correlation_id", rc.CorrelationID()),
		nullable("endpoint", rc.Endpoint()),
		nullable("method", rc.Method()),
		nullable("resource_type", rc.ResourceType()),
		nullable("resource_id", rc.ResourceID()),
		nullable("user_id", rc.UserID()),
		zap.Float64("elapsed_time", rc.Elapsed()),
	)
}

func nullable(key, val string) zap.Field {
	if val == "" {
		return zap.Reflect(key, nil)
	}
	return zap.String(key, val)
}
