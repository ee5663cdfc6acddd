// Package logging provides structured JSON logging for the Trakt MCP server.
//
// # Overview
//
// The package wraps Zap with:
//   - A Trace level (-2, below Debug)
//   - Request context injection (correlation_id, endpoint, resource, elapsed_time)
//   - OpenTelemetry trace correlation and an optional OTEL log bridge
//   - A compacting encoder that drops empty fields and redacts secrets
//   - Level-aware sampling (errors never sampled)
//   - A scoped performance timer
//
// # Usage
//
//	logger, err := logging.NewLogger(logging.NewDefaultConfig(), nil)
//	if err != nil {
//	    return err
//	}
//	defer logger.Sync()
//
//	ctx = reqctx.NewContext(ctx, reqctx.New().WithResource("show", "1388"))
//	stop := logger.Timer(ctx, "fetch_show_ratings")
//	defer stop()
//	logger.Error(ctx, "request failed", logging.Exception(err))
//
// Output (one line per record, shown indented):
//
//	{
//	  "ts": "2026-03-02T10:15:30.120Z",
//	  "level": "error",
//	  "logger": "trakt_mcp.client",
//	  "msg": "request failed",
//	  "correlation_id": "4b7f0c1e-...",
//	  "resource_type": "show",
//	  "resource_id": "1388",
//	  "elapsed_time": 0.021,
//	  "exception": "..."
//	}
//
// Logs are written to stderr: stdout belongs to the stdio transport.
package logging
