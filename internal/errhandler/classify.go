// Package errhandler converts upstream failures into structured errors.
//
// A Classifier maps an HTTP status failure to one mcperr kind and logs a
// single diagnostic record. Call wraps one upstream operation: status
// failures go through the classifier, connection failures and malformed
// responses become internal errors, and errors that are already
// structured pass through untouched.
package errhandler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/fyrsmithlabs/trakt-mcp/internal/logging"
	"github.com/fyrsmithlabs/trakt-mcp/internal/mcperr"
	"github.com/fyrsmithlabs/trakt-mcp/internal/sanitize"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// previewLimit bounds the response text copied into log records.
const previewLimit = 200

// StatusFailure is an upstream response whose status signals failure.
type StatusFailure interface {
	error
	StatusCode() int
	ResponseBody() string
	ResponseHeader() http.Header
}

// Target describes what the failed call addressed. Empty fields are
// omitted from the resulting error.
type Target struct {
	Endpoint      string
	ResourceType  string
	ResourceID    string
	CorrelationID string
}

// Classifier maps status failures to structured errors.
type Classifier struct {
	logger   *logging.Logger
	scrubber *sanitize.Scrubber
	authURL  string
}

// ClassifierOption configures a Classifier.
type ClassifierOption func(*Classifier)

// WithScrubber sets the scrubber applied to response bodies before they
// are logged or attached to error data.
func WithScrubber(s *sanitize.Scrubber) ClassifierOption {
	return func(c *Classifier) { c.scrubber = s }
}

// WithAuthURL sets the URL offered to users on 401 responses.
func WithAuthURL(url string) ClassifierOption {
	return func(c *Classifier) { c.authURL = url }
}

// NewClassifier returns a classifier that logs to logger.
func NewClassifier(logger *logging.Logger, opts ...ClassifierOption) *Classifier {
	c := &Classifier{
		logger:   logger.Named("errors"),
		scrubber: sanitize.NewScrubber(),
		authURL:  mcperr.DefaultAuthURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify returns the structured error for failure. Every result carries
// http_status and a correlation id, generated when t has none.
func (c *Classifier) Classify(ctx context.Context, failure StatusFailure, t Target) *mcperr.Error {
	if t.CorrelationID == "" {
		t.CorrelationID = uuid.NewString()
	}
	status := failure.StatusCode()
	raw := failure.ResponseBody()
	body := c.scrubber.Scrub(raw)

	fields := []zap.Field{
		zap.Int("http_status", status),
		zap.String("correlation_id", t.CorrelationID),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", preview(body)),
	}
	if t.Endpoint != "" {
		fields = append(fields, zap.String("endpoint", t.Endpoint))
	}
	if t.ResourceType != "" {
		fields = append(fields, zap.String("resource_type", t.ResourceType))
	}
	if t.ResourceID != "" {
		fields = append(fields, zap.String("resource_id", t.ResourceID))
	}
	c.logger.Error(ctx, fmt.Sprintf("Trakt API returned HTTP %d", status), fields...)

	e := c.byStatus(status, body, failure.ResponseHeader(), t)
	return e.Merge(map[string]any{
		"http_status":    status,
		"correlation_id": t.CorrelationID,
	}).WithCause(failure)
}

func (c *Classifier) byStatus(status int, body string, header http.Header, t Target) *mcperr.Error {
	ctxOpts := []mcperr.Option{
		mcperr.WithEndpoint(t.Endpoint),
		mcperr.WithResource(t.ResourceType, t.ResourceID),
		mcperr.WithCorrelationID(t.CorrelationID),
		mcperr.WithHTTPStatus(status),
	}
	with := func(extra ...mcperr.Option) []mcperr.Option {
		return append(extra, ctxOpts...)
	}

	switch status {
	case http.StatusBadRequest:
		lower := strings.ToLower(body)
		if strings.Contains(lower, "authorization_pending") {
			return mcperr.AuthorizationPending(t.ResourceID, 0, ctxOpts...)
		}
		if strings.Contains(lower, "invalid") || strings.Contains(lower, "validation") {
			return mcperr.Validation("Bad request. Please check your request parameters.",
				mcperr.ValidationDetails{Details: map[string]any{"api_response": body}}, ctxOpts...)
		}
		return mcperr.InvalidParams("Bad request. Please check your request parameters.",
			with(mcperr.WithData(map[string]any{"details": body}))...)

	case http.StatusUnauthorized:
		resourceType := t.ResourceType
		if resourceType == "" {
			resourceType = "resource"
		}
		return mcperr.AuthenticationRequired("access "+resourceType, with(
			mcperr.WithAuthURL(c.authURL),
			mcperr.WithMessage("Authentication required. Please check your Trakt API credentials."),
		)...)

	case http.StatusForbidden:
		return mcperr.InvalidRequest("Forbidden. Invalid API key or unapproved application.",
			with(mcperr.WithData(map[string]any{"details": body}))...)

	case http.StatusNotFound:
		return mcperr.NotFound(t.ResourceType, t.ResourceID, ctxOpts...)

	case http.StatusConflict:
		return mcperr.InvalidRequest("Conflict. The resource already exists or cannot be modified.",
			with(mcperr.WithData(map[string]any{"details": body}))...)

	case http.StatusUnprocessableEntity:
		return mcperr.Validation("Validation error. Please check your input data.",
			mcperr.ValidationDetails{Details: map[string]any{
				"api_response":   body,
				"endpoint":       t.Endpoint,
				"correlation_id": t.CorrelationID,
			}}, ctxOpts...)

	case http.StatusTooManyRequests:
		return mcperr.RateLimit(retryAfter(header), ctxOpts...)

	case http.StatusInternalServerError:
		return mcperr.Server(status, with(mcperr.WithMessage("Trakt API server error. Please try again later."))...)

	case http.StatusBadGateway, http.StatusServiceUnavailable:
		return mcperr.Server(status, ctxOpts...)

	default:
		return mcperr.Internal(fmt.Sprintf("HTTP %d error occurred", status),
			with(mcperr.WithData(map[string]any{"response": body}))...)
	}
}

// retryAfter parses the Retry-After header as whole seconds. HTTP dates
// and garbage yield zero.
func retryAfter(header http.Header) int {
	v := strings.TrimSpace(header.Get("Retry-After"))
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// preview truncates body to previewLimit characters.
func preview(body string) string {
	if utf8.RuneCountInString(body) <= previewLimit {
		return body
	}
	return string([]rune(body)[:previewLimit]) + "..."
}
