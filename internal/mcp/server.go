package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/fyrsmithlabs/trakt-mcp/internal/auth"
	"github.com/fyrsmithlabs/trakt-mcp/internal/logging"
	"github.com/fyrsmithlabs/trakt-mcp/internal/trakt"
)

// Server is the Trakt MCP server.
type Server struct {
	mcp      *mcp.Server
	client   *trakt.Client
	flow     *auth.Flow
	registry *ToolRegistry
	metrics  *Metrics
	tracer   trace.Tracer
	logger   *logging.Logger
}

// Config configures the MCP server.
type Config struct {
	// Name is the implementation name reported to clients (default: "trakt-mcp").
	Name string

	// Version is the implementation version (default: "dev").
	Version string

	Logger *logging.Logger

	// Metrics defaults to instruments on the global meter provider.
	Metrics *Metrics
}

// DefaultConfig returns defaults.
func DefaultConfig() *Config {
	return &Config{
		Name:    "trakt-mcp",
		Version: "dev",
		Logger:  logging.NewNop(),
	}
}

// NewServer creates the server and registers all tools and resources.
func NewServer(cfg *Config, client *trakt.Client, flow *auth.Flow) (*Server, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if client == nil {
		return nil, fmt.Errorf("trakt client is required")
	}
	if flow == nil {
		return nil, fmt.Errorf("auth flow is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	metrics := cfg.Metrics
	if metrics == nil {
		metrics = NewMetrics(logger)
	}

	s := &Server{
		mcp: mcp.NewServer(&mcp.Implementation{
			Name:    cfg.Name,
			Version: cfg.Version,
		}, nil),
		client:   client,
		flow:     flow,
		registry: NewToolRegistry(),
		metrics:  metrics,
		tracer:   otel.Tracer(instrumentationName),
		logger:   logger.Named("mcp"),
	}

	s.registerAuthTools()
	s.registerShowTools()
	s.registerMovieTools()
	s.registerSearchTools()
	s.registerCommentTools()
	s.registerUserTools()
	s.registerSyncTools()
	s.registerResources()

	return s, nil
}

// MCP returns the underlying SDK server, used by the HTTP transport.
func (s *Server) MCP() *mcp.Server { return s.mcp }

// Registry returns the metadata of all registered tools.
func (s *Server) Registry() *ToolRegistry { return s.registry }

// Run serves MCP over stdio until ctx is done or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info(ctx, "starting MCP server on stdio transport")
	if err := s.mcp.Run(ctx, &mcp.StdioTransport{}); err != nil {
		return fmt.Errorf("server run failed: %w", err)
	}
	return nil
}

// addTool registers fn as tool name. Its markdown result becomes the text
// content of the tool result.
func addTool[In any](s *Server, meta *ToolMetadata, fn func(context.Context, In) (string, error)) {
	s.registry.Register(meta)
	name := meta.Name
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        name,
		Description: meta.Description,
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in In) (*mcp.CallToolResult, any, error) {
		text, err := invoke(ctx, s, name, methodTool, in, fn)
		if err != nil {
			return nil, nil, err
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: text}},
		}, nil, nil
	})
}

type resourceInput struct {
	URI string `json:"uri"`
}

// addResource registers fn as a markdown resource at uri.
func (s *Server) addResource(uri, name, description string, fn func(context.Context) (string, error)) {
	s.mcp.AddResource(&mcp.Resource{
		URI:         uri,
		Name:        name,
		Description: description,
		MIMEType:    "text/markdown",
	}, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		text, err := invoke(ctx, s, name, methodResource, resourceInput{URI: uri},
			func(ctx context.Context, _ resourceInput) (string, error) { return fn(ctx) })
		if err != nil {
			return nil, err
		}
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{{
				URI:      req.Params.URI,
				MIMEType: "text/markdown",
				Text:     text,
			}},
		}, nil
	})
}
