// Package mcp exposes the Trakt client as MCP tools and resources.
//
// Handlers are plain methods returning markdown or an error. They are
// registered through addTool and addResource, which run them behind
// invoke, the single boundary that installs the request context, records
// telemetry and converts failures into JSON-RPC errors. Structured errors
// keep their code, message and data on the wire; anything else is
// reported as an internal error carrying sanitized arguments.
package mcp
