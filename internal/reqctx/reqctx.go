// Package reqctx carries per-invocation diagnostic context.
//
// A RequestContext is created when a tool or resource invocation starts,
// enriched as the call descends into the Trakt client, and read when an
// error is classified or a log line is written. It is stored in a
// context.Context, so every goroutine handling an invocation sees only the
// context that was threaded to it.
package reqctx

import (
	"context"
	"maps"
	"time"

	"github.com/google/uuid"
)

// RequestContext is an immutable snapshot of what is known about the
// current invocation. Derivations return a new value and never touch the
// receiver.
type RequestContext struct {
	correlationID string
	endpoint      string
	method        string
	resourceType  string
	resourceID    string
	userID        string
	parameters    map[string]any
	startTime     time.Time
}

// New returns a context with a fresh correlation id and the clock started.
func New() RequestContext {
	return RequestContext{
		correlationID: uuid.NewString(),
		parameters:    map[string]any{},
		startTime:     time.Now(),
	}
}

// CorrelationID returns the id assigned at construction.
func (rc RequestContext) CorrelationID() string { return rc.correlationID }

// Endpoint returns the upstream endpoint path, if known.
func (rc RequestContext) Endpoint() string { return rc.endpoint }

// Method returns the HTTP verb of the upstream call, if known.
func (rc RequestContext) Method() string { return rc.method }

// ResourceType returns the kind of entity being addressed, e.g. "show".
func (rc RequestContext) ResourceType() string { return rc.resourceType }

// ResourceID returns the identifier of the entity being addressed.
func (rc RequestContext) ResourceID() string { return rc.resourceID }

// UserID returns the authenticated user, if known.
func (rc RequestContext) UserID() string { return rc.userID }

// StartTime returns the construction time.
func (rc RequestContext) StartTime() time.Time { return rc.startTime }

// Parameters returns a copy of the parameter mapping.
func (rc RequestContext) Parameters() map[string]any {
	return maps.Clone(rc.parameters)
}

// WithEndpoint overrides endpoint and method. An empty method means GET.
func (rc RequestContext) WithEndpoint(endpoint, method string) RequestContext {
	if method == "" {
		method = "GET"
	}
	rc.endpoint = endpoint
	rc.method = method
	return rc
}

// WithResource overrides the resource type and id.
func (rc RequestContext) WithResource(resourceType, resourceID string) RequestContext {
	rc.resourceType = resourceType
	rc.resourceID = resourceID
	return rc
}

// WithParameters returns a context whose parameters are the union of the
// existing ones and kv. Keys in kv win.
func (rc RequestContext) WithParameters(kv map[string]any) RequestContext {
	merged := make(map[string]any, len(rc.parameters)+len(kv))
	maps.Copy(merged, rc.parameters)
	maps.Copy(merged, kv)
	rc.parameters = merged
	return rc
}

// WithUser overrides the user id.
func (rc RequestContext) WithUser(userID string) RequestContext {
	rc.userID = userID
	return rc
}

// Elapsed returns the time since construction in seconds. time.Now carries
// a monotonic reading, so the result is clamped only for zero values.
func (rc RequestContext) Elapsed() float64 {
	if rc.startTime.IsZero() {
		return 0
	}
	d := time.Since(rc.startTime).Seconds()
	if d < 0 {
		return 0
	}
	return d
}

// ToMap returns every field, suitable for merging into error data or logs.
// Unset optional fields are nil.
func (rc RequestContext) ToMap() map[string]any {
	return map[string]any{
		"correlation_id": rc.correlationID,
		"endpoint":       orNil(rc.endpoint),
		"method":         orNil(rc.method),
		"resource_type":  orNil(rc.resourceType),
		"resource_id":    orNil(rc.resourceID),
		"user_id":        orNil(rc.userID),
		"parameters":     rc.Parameters(),
		"elapsed_time":   rc.Elapsed(),
	}
}

func orNil(s string) any {
	if s == "" {
		return nil
	}
	return s
}

type currentCtxKey struct{}

// slot wraps the stored value so Clear can shadow an inherited context.
type slot struct {
	rc  RequestContext
	set bool
}

// FromContext returns the current RequestContext, if one is installed.
func FromContext(ctx context.Context) (RequestContext, bool) {
	if ctx == nil {
		return RequestContext{}, false
	}
	s, ok := ctx.Value(currentCtxKey{}).(slot)
	if !ok || !s.set {
		return RequestContext{}, false
	}
	return s.rc, true
}

// NewContext installs rc as current for everything derived from the
// returned context. Other invocations are unaffected.
func NewContext(ctx context.Context, rc RequestContext) context.Context {
	return context.WithValue(ctx, currentCtxKey{}, slot{rc: rc, set: true})
}

// Clear returns a context in which no RequestContext is current.
func Clear(ctx context.Context) context.Context {
	return context.WithValue(ctx, currentCtxKey{}, slot{})
}

// CorrelationID returns the current correlation id, or "" if none.
func CorrelationID(ctx context.Context) string {
	rc, ok := FromContext(ctx)
	if !ok {
		return ""
	}
	return rc.correlationID
}

// Update installs fn applied to the current context. When none is installed
// a fresh one is created first.
func Update(ctx context.Context, fn func(RequestContext) RequestContext) context.Context {
	rc, ok := FromContext(ctx)
	if !ok {
		rc = New()
	}
	return NewContext(ctx, fn(rc))
}
