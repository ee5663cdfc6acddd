package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/trakt-mcp/internal/config"
	"github.com/fyrsmithlabs/trakt-mcp/internal/trakt"
)

// setupEnv points HOME at a temp dir and provides credentials. It returns
// the config directory.
func setupEnv(t *testing.T, baseURL string) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("TRAKT_CLIENT_ID", "test-id")
	t.Setenv("TRAKT_CLIENT_SECRET", "test-secret")
	t.Setenv("LOGGING_LEVEL", "error")
	if baseURL != "" {
		t.Setenv("TRAKT_BASE_URL", baseURL)
	}
	return filepath.Join(home, ".config", "trakt-mcp")
}

func execute(t *testing.T, ctx context.Context, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	return out.String(), err
}

func saveToken(t *testing.T, dir string) {
	t.Helper()
	store, err := trakt.NewTokenStore(filepath.Join(dir, "auth_token.json"))
	require.NoError(t, err)
	require.NoError(t, store.Save(&trakt.Token{
		AccessToken: "stored-access",
		ExpiresIn:   3600,
		CreatedAt:   time.Now().Unix(),
		TokenType:   "bearer",
	}))
}

func jsonHandler(status int, body any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, context.Background(), "version")
	require.NoError(t, err)
	assert.Contains(t, out, "trakt-mcp "+version)
	assert.Contains(t, out, "commit "+gitCommit)
}

func TestMissingCredentials(t *testing.T) {
	setupEnv(t, "")
	t.Setenv("TRAKT_CLIENT_ID", "")
	require.NoError(t, os.Unsetenv("TRAKT_CLIENT_ID"))

	_, err := execute(t, context.Background(), "auth", "status")
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrMissingCredentials)
}

func TestAuthStatus(t *testing.T) {
	t.Run("not authenticated", func(t *testing.T) {
		setupEnv(t, "")
		out, err := execute(t, context.Background(), "auth", "status")
		require.NoError(t, err)
		assert.Contains(t, out, "You are not authenticated with Trakt.")
	})

	t.Run("authenticated", func(t *testing.T) {
		dir := setupEnv(t, "")
		saveToken(t, dir)
		out, err := execute(t, context.Background(), "auth", "status")
		require.NoError(t, err)
		assert.Contains(t, out, "You are authenticated with Trakt.")
		assert.NotContains(t, out, "stored-access")
	})
}

func TestAuthLogout(t *testing.T) {
	t.Run("revokes and removes the token", func(t *testing.T) {
		var revoked atomic.Int32
		upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/oauth/revoke" {
				revoked.Add(1)
			}
			jsonHandler(http.StatusOK, map[string]any{})(w, r)
		}))
		defer upstream.Close()

		dir := setupEnv(t, upstream.URL)
		saveToken(t, dir)

		out, err := execute(t, context.Background(), "auth", "logout")
		require.NoError(t, err)
		assert.Contains(t, out, "Logged out of Trakt.")
		assert.Equal(t, int32(1), revoked.Load())
		_, statErr := os.Stat(filepath.Join(dir, "auth_token.json"))
		assert.True(t, os.IsNotExist(statErr))
	})

	t.Run("no token", func(t *testing.T) {
		setupEnv(t, "")
		out, err := execute(t, context.Background(), "auth", "logout")
		require.NoError(t, err)
		assert.Contains(t, out, "No stored token.")
	})
}

func TestAuthLogin(t *testing.T) {
	prev := loginPollInterval
	loginPollInterval = 10 * time.Millisecond
	t.Cleanup(func() { loginPollInterval = prev })

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/oauth/device/code":
			jsonHandler(http.StatusOK, map[string]any{
				"device_code": "dev", "user_code": "CODE1234",
				"verification_url": "https://trakt.tv/activate", "expires_in": 600, "interval": 5,
			})(w, r)
		case "/oauth/device/token":
			jsonHandler(http.StatusOK, map[string]any{
				"access_token": "new-access", "refresh_token": "new-refresh",
				"expires_in": 7200, "created_at": time.Now().Unix(), "token_type": "bearer",
			})(w, r)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer upstream.Close()

	dir := setupEnv(t, upstream.URL)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	out, err := execute(t, ctx, "auth", "login")
	require.NoError(t, err)
	assert.Contains(t, out, "Authenticated with Trakt.")

	data, err := os.ReadFile(filepath.Join(dir, "auth_token.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "new-access")
}

func TestToolsCommand(t *testing.T) {
	setupEnv(t, "")

	out, err := execute(t, context.Background(), "tools")
	require.NoError(t, err)
	for _, name := range []string{"start_device_auth", "fetch_trending_shows", "search_movies", "checkin_to_show"} {
		assert.Contains(t, out, name)
	}

	out, err = execute(t, context.Background(), "tools", "checkin_to_show")
	require.NoError(t, err)
	assert.Contains(t, out, "checkin_to_show")
	assert.NotContains(t, out, "fetch_trending_movies")

	out, err = execute(t, context.Background(), "tools", "zzz-nothing")
	require.NoError(t, err)
	assert.Contains(t, out, "No tools match")
}

func TestServeRejectsUnknownTransport(t *testing.T) {
	setupEnv(t, "")
	_, err := execute(t, context.Background(), "serve", "--transport", "grpc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid transport")
}

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())
	return port
}

func TestServeHTTP(t *testing.T) {
	setupEnv(t, "")
	port := freePort(t)
	t.Setenv("SERVER_HOST", "127.0.0.1")
	t.Setenv("SERVER_PORT", fmt.Sprint(port))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := execute(t, ctx, "serve", "--transport", "http")
		done <- err
	}()

	base := fmt.Sprintf("http://127.0.0.1:%d", port)
	require.Eventually(t, func() bool {
		resp, err := http.Get(base + "/health")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	resp, err := http.Get(base + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "go_goroutines")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(15 * time.Second):
		t.Fatal("server did not shut down")
	}
}
