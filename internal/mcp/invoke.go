package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/jsonrpc"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/trakt-mcp/internal/errhandler"
	"github.com/fyrsmithlabs/trakt-mcp/internal/logging"
	"github.com/fyrsmithlabs/trakt-mcp/internal/mcperr"
	"github.com/fyrsmithlabs/trakt-mcp/internal/reqctx"
	"github.com/fyrsmithlabs/trakt-mcp/internal/sanitize"
)

// Invocation methods recorded in the request context.
const (
	methodTool     = "TOOL"
	methodResource = "RESOURCE"
)

// invoke is the boundary every tool and resource handler runs behind. It
// installs a fresh request context holding the caller's arguments, wraps
// fn in a span, a timer and metrics, and converts any failure into the
// JSON-RPC error the client receives.
func invoke[In any](ctx context.Context, s *Server, name, method string, in In, fn func(context.Context, In) (string, error)) (string, error) {
	kwargs := argumentMap(in)
	rc := reqctx.New().WithEndpoint(name, method).WithParameters(kwargs)
	ctx = reqctx.NewContext(ctx, rc)

	ctx, span := s.tracer.Start(ctx, name, trace.WithAttributes(
		attribute.String("mcp.operation", name),
		attribute.String("mcp.method", method),
		attribute.String("correlation_id", rc.CorrelationID()),
	))
	defer span.End()

	start := time.Now()
	s.metrics.IncrementActive(ctx, name)
	done := s.logger.Timer(ctx, name)

	out, err := fn(ctx, in)
	s.metrics.DecrementActive(ctx, name)
	s.metrics.RecordInvocation(ctx, name, time.Since(start), err)
	if err == nil {
		done()
		return out, nil
	}

	e := s.boundaryError(ctx, name, kwargs, err)
	span.RecordError(e)
	span.SetStatus(codes.Error, e.Message())
	s.logger.Warn(ctx, "Failed "+name,
		zap.String("operation", name),
		zap.String("error_kind", e.Kind().String()),
		zap.Int("error_code", int(e.Code())),
		zap.String("error", e.Message()),
	)
	return "", toWire(e)
}

// boundaryError turns err into the structured error reported for name.
// Every result carries the invocation's correlation id; fields a structured
// error already holds are kept.
func (s *Server) boundaryError(ctx context.Context, name string, kwargs map[string]any, err error) *mcperr.Error {
	correlation := map[string]any{"correlation_id": reqctx.CorrelationID(ctx)}
	if e, ok := mcperr.As(err); ok {
		return e.Merge(correlation)
	}
	if errhandler.IsLogic(err) {
		return mcperr.InvalidParams(err.Error(),
			mcperr.WithData(map[string]any{"operation": name}),
			mcperr.WithCorrelationID(reqctx.CorrelationID(ctx)),
			mcperr.Caused(err),
		)
	}

	s.logger.Error(ctx, "Unexpected error in "+name, logging.Exception(err))
	return mcperr.Internal("An unexpected error occurred during "+name,
		mcperr.WithData(map[string]any{
			"error_type":          "unexpected_error",
			"operation":           name,
			"original_error":      err.Error(),
			"original_error_type": fmt.Sprintf("%T", err),
			"args":                sanitize.Args(nil),
			"kwargs":              sanitize.Kwargs(kwargs),
		}),
		mcperr.WithCorrelationID(reqctx.CorrelationID(ctx)),
		mcperr.Caused(err),
	)
}

// toWire converts e into the SDK's JSON-RPC error so the client sees the
// code, message and data unchanged.
func toWire(e *mcperr.Error) *jsonrpc.Error {
	wire := &jsonrpc.Error{
		Code:    int64(e.Code()),
		Message: e.Message(),
	}
	if data := e.Data(); len(data) > 0 {
		raw, err := json.Marshal(data)
		if err != nil {
			raw, _ = json.Marshal(map[string]any{"error_type": "unencodable_data"})
		}
		wire.Data = raw
	}
	return wire
}

// argumentMap returns the JSON object form of a handler's input.
func argumentMap(in any) map[string]any {
	raw, err := json.Marshal(in)
	if err != nil {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil
	}
	return m
}
