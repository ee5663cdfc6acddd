// Package telemetry sets up OpenTelemetry for trakt-mcp.
//
// Traces and metrics are exported over OTLP (gRPC or HTTP) when enabled.
// Independently, a Prometheus reader feeds the registry served on
// /metrics by the HTTP transport.
//
//	telemetry:
//	  enabled: true
//	  endpoint: "localhost:4317"
//	  protocol: grpc
//	  sampling:
//	    rate: 1.0
//	  metrics:
//	    enabled: true
//	    export_interval: "15s"
//	    prometheus: true
//
// Exporter failures degrade the instance instead of failing startup.
package telemetry
