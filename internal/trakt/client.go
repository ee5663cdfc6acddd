// Package trakt is the HTTP client for the Trakt API.
//
// Every exported method performs exactly one upstream call. It records
// what it is about to do in the request context (endpoint, resource,
// parameters) and runs the call through errhandler.Call, so failures reach
// the caller as *mcperr.Error values.
package trakt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/fyrsmithlabs/trakt-mcp/internal/errhandler"
	"github.com/fyrsmithlabs/trakt-mcp/internal/logging"
	"github.com/fyrsmithlabs/trakt-mcp/internal/mcperr"
	"github.com/fyrsmithlabs/trakt-mcp/internal/reqctx"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// Defaults for Config.
const (
	DefaultBaseURL    = "https://api.trakt.tv"
	DefaultAPIVersion = "2"
	DefaultTimeout    = 30 * time.Second
)

// Config configures the client.
type Config struct {
	BaseURL      string
	APIVersion   string
	ClientID     string
	ClientSecret string
	Timeout      time.Duration

	// AuthURL is reported to callers that need to authenticate.
	AuthURL string
}

// Client calls the Trakt API.
type Client struct {
	cfg    Config
	http   *http.Client
	tokens *TokenStore
	errs   *errhandler.Handler
	logger *logging.Logger
	tracer trace.Tracer
	now    func() time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTracerProvider sets the provider used for client spans.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Client) { c.tracer = tp.Tracer("github.com/fyrsmithlabs/trakt-mcp/internal/trakt") }
}

// NewClient returns a client. Missing credentials are a configuration
// error.
func NewClient(cfg Config, tokens *TokenStore, errs *errhandler.Handler, logger *logging.Logger, opts ...Option) (*Client, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("trakt client id and client secret are required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.APIVersion == "" {
		cfg.APIVersion = DefaultAPIVersion
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	c := &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		tokens: tokens,
		errs:   errs,
		logger: logger.Named("client"),
		tracer: otel.Tracer("github.com/fyrsmithlabs/trakt-mcp/internal/trakt"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// request describes one upstream call.
type request struct {
	method string
	path   string
	query  url.Values
	body   any
	// auth names the action that needs a user token, empty for public
	// endpoints.
	auth string
}

// call records req in the request context and runs it through the error
// handler. enrich may add resource and parameter details.
func call[T any](ctx context.Context, c *Client, req request, enrich func(reqctx.RequestContext) reqctx.RequestContext) (T, error) {
	return errhandler.Call(withRequest(ctx, req, enrich), c.errs, func(ctx context.Context) (T, error) {
		var out T
		_, err := c.do(ctx, req, &out)
		return out, err
	})
}

// callPage is call for paginated listings. The result keeps the
// X-Pagination-* headers next to the decoded items.
func callPage[T any](ctx context.Context, c *Client, req request, enrich func(reqctx.RequestContext) reqctx.RequestContext) (Page[T], error) {
	return errhandler.Call(withRequest(ctx, req, enrich), c.errs, func(ctx context.Context) (Page[T], error) {
		var page Page[T]
		p, err := c.do(ctx, req, &page.Items)
		page.Pagination = p
		return page, err
	})
}

func withRequest(ctx context.Context, req request, enrich func(reqctx.RequestContext) reqctx.RequestContext) context.Context {
	return reqctx.Update(ctx, func(rc reqctx.RequestContext) reqctx.RequestContext {
		rc = rc.WithEndpoint(req.path, req.method)
		if enrich != nil {
			rc = enrich(rc)
		}
		return rc
	})
}

// do performs req and decodes a successful body into out.
func (c *Client) do(ctx context.Context, req request, out any) (Pagination, error) {
	ctx, span := c.tracer.Start(ctx, "trakt "+req.method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", req.method),
			attribute.String("url.path", req.path),
		))
	defer span.End()

	httpClient := c.http
	if req.auth != "" {
		tok, err := c.tokens.Load()
		if err != nil {
			return Pagination{}, err
		}
		if !tok.Valid(c.now()) {
			return Pagination{}, mcperr.AuthenticationRequired(req.auth, mcperr.WithAuthURL(c.cfg.AuthURL))
		}
		httpClient = &http.Client{
			Timeout: c.http.Timeout,
			Transport: &oauth2.Transport{
				Source: oauth2.StaticTokenSource(tok.OAuth2()),
				Base:   c.http.Transport,
			},
		}
	}

	var body io.Reader
	if req.body != nil {
		data, err := json.Marshal(req.body)
		if err != nil {
			return Pagination{}, fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	target := c.cfg.BaseURL + req.path
	if len(req.query) > 0 {
		target += "?" + req.query.Encode()
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.method, target, body)
	if err != nil {
		return Pagination{}, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("trakt-api-version", c.cfg.APIVersion)
	httpReq.Header.Set("trakt-api-key", c.cfg.ClientID)

	resp, err := httpClient.Do(httpReq)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		return Pagination{}, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Pagination{}, fmt.Errorf("reading response: %w", err)
	}
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	c.logger.Trace(ctx, "Trakt API response",
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(data)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		span.SetStatus(codes.Error, resp.Status)
		return Pagination{}, &StatusError{
			method: req.method,
			path:   req.path,
			status: resp.StatusCode,
			body:   string(data),
			header: resp.Header,
		}
	}

	if out != nil && len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return Pagination{}, fmt.Errorf("decoding %s: %w", req.path, err)
		}
	}
	return parsePagination(resp.Header), nil
}

func parsePagination(h http.Header) Pagination {
	atoi := func(key string) int {
		n, _ := strconv.Atoi(h.Get(key))
		return n
	}
	return Pagination{
		Page:      atoi("X-Pagination-Page"),
		Limit:     atoi("X-Pagination-Limit"),
		PageCount: atoi("X-Pagination-Page-Count"),
		ItemCount: atoi("X-Pagination-Item-Count"),
	}
}

// IsAuthenticated reports whether a valid user token is stored.
func (c *Client) IsAuthenticated() bool {
	tok, err := c.tokens.Load()
	return err == nil && tok.Valid(c.now())
}

// Token returns the stored token, or nil.
func (c *Client) Token() (*Token, error) {
	return c.tokens.Load()
}

func limitQuery(limit int) url.Values {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	return q
}

// pageQuery is limitQuery plus a 1-based page number.
func pageQuery(limit, page int) url.Values {
	q := limitQuery(limit)
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	return q
}
