package sanitize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsSensitiveKey(t *testing.T) {
	tests := []struct {
		key      string
		expected bool
	}{
		{"access_token", true},
		{"refresh_token", true},
		{"client_secret", true},
		{"api_key", true},
		{"password", true},
		{"device_code", true},
		{"Authorization", true},
		{"user_credentials", true},
		{"ACCESS_TOKEN", true},
		{"client_id", false},
		{"username", false},
		{"email", false},
		{"user_id", false},
		{"show_id", false},
		{"limit", false},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsSensitiveKey(tt.key))
		})
	}
}

func TestValueSensitiveKeyAlwaysRedacts(t *testing.T) {
	values := []any{"my-secret-value", "12345", 42, true, nil, map[string]any{"nested": "data"}, []any{"a"}}
	for _, key := range sensitiveKeywords {
		for _, v := range values {
			assert.Equal(t, Redacted, Value(v, key), "key %q value %v", key, v)
		}
	}
}

func TestValueStringPatterns(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		key      string
		expected string
	}{
		{"bearer", "Bearer abc123", "", Redacted},
		{"bearer lowercase", "bearer xyz789", "", Redacted},
		{"token prefix", "token:abc123", "", Redacted},
		{"secret prefix", "secret:mysecret", "", Redacted},
		{"password prefix", "password:hunter2", "", Redacted},
		{"embedded sensitive word", "secret_token_123", "", Redacted},
		{"short value", "user456", "", "user456"},
		{"free text", "Hello world", "", "Hello world"},
		{"email", "user@example.com", "", "user@example.com"},
		{"long opaque with token key", "abcdef1234567890abcdef1234567890", "auth_token", Redacted},
		{"long opaque with code key", "abcdef1234567890abcdef1234567890", "device_code", Redacted},
		{"long opaque with neutral key", "abcdef1234567890abcdef1234567890", "description", "abcdef1234567890abcdef1234567890"},
		{"long opaque without key", "abcdef1234567890abcdef1234567890", "", "abcdef1234567890abcdef1234567890"},
		{"slug", "breaking-bad", "show_id", "breaking-bad"},
		{"ten multi-byte characters with sensitive word", "secretéééé", "", "secretéééé"},
		{"eleven multi-byte characters with sensitive word", "secretééééé", "", Redacted},
		{"twenty multi-byte characters under code key", strings.Repeat("日", 20), "zip_code", strings.Repeat("日", 20)},
		{"twenty-one multi-byte characters under code key", strings.Repeat("日", 21), "zip_code", Redacted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Value(tt.value, tt.key))
		})
	}
}

func TestValueNestedStructures(t *testing.T) {
	data := map[string]any{
		"username":     "john",
		"access_token": "secret123",
		"profile": map[string]any{
			"email":   "john@example.com",
			"api_key": "key456",
		},
		"items": []any{"normal", "Bearer xyz", map[string]any{"password": "pw"}},
	}

	got := Value(data, "").(map[string]any)
	assert.Equal(t, "john", got["username"])
	assert.Equal(t, Redacted, got["access_token"])

	profile := got["profile"].(map[string]any)
	assert.Equal(t, "john@example.com", profile["email"])
	assert.Equal(t, Redacted, profile["api_key"])

	items := got["items"].([]any)
	assert.Equal(t, "normal", items[0])
	assert.Equal(t, Redacted, items[1])
	assert.Equal(t, map[string]any{"password": Redacted}, items[2])

	// input is untouched
	assert.Equal(t, "secret123", data["access_token"])
}

func TestValueReflectedTypes(t *testing.T) {
	type token struct {
		AccessToken string `json:"access_token"`
		Scope       string `json:"scope"`
		hidden      string
	}

	got := Value(&token{AccessToken: "abc", Scope: "public", hidden: "x"}, "")
	assert.Equal(t, map[string]any{"access_token": Redacted, "scope": "public"}, got)

	got = Value(map[string]string{"refresh_token": "r", "season": "1"}, "")
	assert.Equal(t, map[string]any{"refresh_token": Redacted, "season": "1"}, got)

	got = Value([]string{"plain", "Bearer abc"}, "")
	assert.Equal(t, []any{"plain", Redacted}, got)

	assert.Equal(t, 3.5, Value(3.5, "rating"))
}

func TestArgs(t *testing.T) {
	assert.Equal(t, "", Args(nil))

	got := Args([]any{"user123", "show456", 42})
	assert.Equal(t, "('user123', 'show456', 42)", got)

	got = Args([]any{"Bearer token123", "normal_value", "secret:password"})
	assert.Contains(t, got, Redacted)
	assert.Contains(t, got, "normal_value")
	assert.NotContains(t, got, "secret:password")
	assert.NotContains(t, got, "token123")
}

func TestKwargs(t *testing.T) {
	assert.Equal(t, "", Kwargs(map[string]any{}))

	got := Kwargs(map[string]any{"user_id": "123", "show_id": "456", "limit": 10})
	assert.Equal(t, "{'limit': 10, 'show_id': '456', 'user_id': '123'}", got)

	got = Kwargs(map[string]any{
		"user_id":      "123",
		"access_token": "secret_token_value",
		"api_key":      "my_api_key",
		"password":     "pw",
	})
	assert.Contains(t, got, "'user_id': '123'")
	assert.Contains(t, got, "'access_token': '[REDACTED]'")
	assert.Contains(t, got, "'api_key': '[REDACTED]'")
	assert.Contains(t, got, "'password': '[REDACTED]'")
	assert.NotContains(t, got, "secret_token_value")
	assert.NotContains(t, got, "my_api_key")

	got = Kwargs(map[string]any{"access_token": "abc", "show_id": "1"})
	assert.Contains(t, got, "'access_token': '[REDACTED]'")
	assert.Contains(t, got, "'show_id': '1'")

	got = Kwargs(map[string]any{"include_metadata": true, "title": "It's", "extra": nil})
	assert.Equal(t, `{'extra': None, 'include_metadata': True, 'title': 'It\'s'}`, got)
}

func TestScrubber(t *testing.T) {
	s := NewScrubber()

	tests := []struct {
		name    string
		input   string
		leaked  string
		wantAny bool
	}{
		{"json access token", `{"access_token":"dbaf9757982a9e738f05d249b7b5b4a266b3a139049317c4909f2f263572c781","token_type":"bearer"}`, "dbaf9757982a9e738f05", true},
		{"device code", `{"device_code": "d9c126a7706328d808914cfd1e40274b6e009f684b1aca271b8b3a61d1b3ff23"}`, "d9c126a7706328d80891", true},
		{"bearer header", "Authorization: Bearer abcdef123456", "abcdef123456", true},
		{"query string", "POST /oauth/token?client_secret=s3cr3tvalue&grant=1", "s3cr3tvalue", true},
		{"clean text", `{"error":"not found"}`, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Scrub(tt.input)
			if !tt.wantAny {
				assert.Equal(t, tt.input, got)
				return
			}
			assert.Contains(t, got, Redacted)
			assert.False(t, strings.Contains(got, tt.leaked), "leaked %q in %q", tt.leaked, got)
		})
	}

	var nilScrubber *Scrubber
	assert.Equal(t, "x", nilScrubber.Scrub("x"))
}
