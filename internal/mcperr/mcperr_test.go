package mcperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodes(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want Code
	}{
		{"internal", Internal("boom"), -32603},
		{"invalid params", InvalidParams("bad"), -32602},
		{"invalid request", InvalidRequest("no"), -32600},
		{"auth required", AuthenticationRequired("access shows"), -32600},
		{"auth pending", AuthorizationPending("dev", 600), -32001},
		{"validation", Validation("bad", ValidationDetails{}), -32602},
		{"not found", NotFound("show", "1"), -32600},
		{"rate limit", RateLimit(0), -32600},
		{"server", Server(500), -32603},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Code())
			assert.Equal(t, int(tt.want), tt.err.ToMap()["code"])
		})
	}

	assert.Equal(t, Code(-32700), CodeParseError)
	assert.Equal(t, Code(-32601), CodeMethodNotFound)
}

func TestParentKinds(t *testing.T) {
	auth := AuthenticationRequired("access shows")
	assert.ErrorIs(t, auth, ErrAuthenticationRequired)
	assert.ErrorIs(t, auth, ErrInvalidRequest)
	assert.NotErrorIs(t, auth, ErrInvalidParams)

	val := Validation("bad limit", ValidationDetails{InvalidParams: []string{"limit"}})
	assert.ErrorIs(t, val, ErrValidation)
	assert.ErrorIs(t, val, ErrInvalidParams)
	assert.NotErrorIs(t, val, ErrInvalidRequest)

	// a parent does not match its children
	assert.NotErrorIs(t, InvalidRequest("x"), ErrAuthenticationRequired)
	assert.NotErrorIs(t, NotFound("show", "1"), ErrInvalidRequest)
}

func TestAsThroughWrapping(t *testing.T) {
	cause := errors.New("socket closed")
	wrapped := fmt.Errorf("fetching trending: %w", Internal("boom", Caused(cause)))

	e, ok := As(wrapped)
	require.True(t, ok)
	assert.Equal(t, KindInternal, e.Kind())
	assert.ErrorIs(t, wrapped, cause)

	kind, ok := KindOf(wrapped)
	assert.True(t, ok)
	assert.Equal(t, KindInternal, kind)

	_, ok = As(errors.New("plain"))
	assert.False(t, ok)
}

func TestToMapOmitsEmptyData(t *testing.T) {
	m := Internal("boom").ToMap()
	assert.Equal(t, map[string]any{"code": -32603, "message": "boom"}, m)

	m = Internal("boom", WithHTTPStatus(418)).ToMap()
	assert.Equal(t, map[string]any{"http_status": 418}, m["data"])
}

func TestOptionsDoNotOverwrite(t *testing.T) {
	e := NotFound("show", "breaking-bad",
		WithResource("movie", "other"),
		WithHTTPStatus(500),
		WithEndpoint("/shows/breaking-bad"),
		WithCorrelationID("abc"),
		WithData(map[string]any{"extra": 1, "endpoint": "/ignored"}),
	)

	data := e.Data()
	assert.Equal(t, "show", data["resource_type"])
	assert.Equal(t, "breaking-bad", data["resource_id"])
	assert.Equal(t, 404, data["http_status"])
	assert.Equal(t, "/shows/breaking-bad", data["endpoint"])
	assert.Equal(t, "abc", data["correlation_id"])
	assert.Equal(t, 1, data["extra"])
}

func TestMergeIsAppendOnly(t *testing.T) {
	e := Server(503)
	e.Merge(map[string]any{"is_temporary": false, "endpoint": "/shows/trending", "user_id": nil})

	v, _ := e.Get("is_temporary")
	assert.Equal(t, true, v)
	v, _ = e.Get("endpoint")
	assert.Equal(t, "/shows/trending", v)
	_, ok := e.Get("user_id")
	assert.False(t, ok)

	// Data returns a copy
	e.Data()["endpoint"] = "/mutated"
	v, _ = e.Get("endpoint")
	assert.Equal(t, "/shows/trending", v)
}

func TestAuthenticationRequired(t *testing.T) {
	e := AuthenticationRequired("access watched shows")
	assert.Equal(t, "Authentication required to access watched shows", e.Error())

	data := e.Data()
	assert.Equal(t, "auth_required", data["error_type"])
	assert.Equal(t, DefaultAuthURL, data["auth_url"])
	assert.Equal(t, "access watched shows", data["action"])
	assert.NotEmpty(t, data["instructions"])

	custom := AuthenticationRequired("check in", WithAuthURL("https://trakt.tv/pin/1"), WithMessage("Authentication required. Log in first."))
	assert.Equal(t, "https://trakt.tv/pin/1", custom.Data()["auth_url"])
	assert.Equal(t, "Authentication required. Log in first.", custom.Message())
}

func TestAuthorizationPending(t *testing.T) {
	e := AuthorizationPending("device123", 600)
	assert.Equal(t, "Authorization pending. User must approve device code.", e.Message())
	assert.Equal(t, map[string]any{
		"error_type":  "auth_pending",
		"device_code": "device123",
		"expires_in":  600,
	}, e.Data())

	bare := AuthorizationPending("", 0)
	assert.Equal(t, map[string]any{"error_type": "auth_pending"}, bare.Data())
}

func TestValidation(t *testing.T) {
	e := Validation("Invalid limit", ValidationDetails{
		InvalidParams: []string{"limit"},
		MissingParams: []string{"show_id"},
		Details:       map[string]any{"limit": "must be between 1 and 100"},
	})
	data := e.Data()
	assert.Equal(t, "validation_error", data["error_type"])
	assert.Equal(t, []string{"limit"}, data["invalid_params"])
	assert.Equal(t, []string{"show_id"}, data["missing_params"])
	assert.Contains(t, data, "validation_details")

	assert.NotContains(t, Validation("x", ValidationDetails{}).Data(), "invalid_params")
}

func TestNotFound(t *testing.T) {
	e := NotFound("show", "nonexistent")
	assert.Equal(t, "The requested show 'nonexistent' was not found", e.Message())

	e = NotFound("", "")
	assert.Equal(t, "The requested resource 'unknown' was not found", e.Message())
}

func TestRateLimit(t *testing.T) {
	e := RateLimit(60)
	assert.Equal(t, "Rate limit exceeded. Please retry in 60 seconds.", e.Message())
	v, _ := e.Get("retry_after")
	assert.Equal(t, 60, v)

	e = RateLimit(0)
	assert.Equal(t, "Rate limit exceeded. Please try again later.", e.Message())
	_, ok := e.Get("retry_after")
	assert.False(t, ok)
}

func TestServer(t *testing.T) {
	tests := []struct {
		status int
		want   string
	}{
		{500, "Trakt API server error (HTTP 500)"},
		{502, "Bad gateway. The Trakt API server is experiencing issues."},
		{503, "Service unavailable. Please try again in 30 seconds."},
	}
	for _, tt := range tests {
		e := Server(tt.status)
		assert.Equal(t, tt.want, e.Message())
		assert.Equal(t, tt.status, e.Data()["http_status"])
		assert.Equal(t, true, e.Data()["is_temporary"])
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "rate_limit", KindRateLimit.String())
	assert.Equal(t, "kind(200)", Kind(200).String())
}
