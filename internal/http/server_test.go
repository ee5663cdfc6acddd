package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/zap/zapcore"

	"github.com/fyrsmithlabs/trakt-mcp/internal/logging"
)

func newMCPServer() *mcp.Server {
	return mcp.NewServer(&mcp.Implementation{Name: "trakt-mcp-test", Version: "test"}, nil)
}

func newTestServer(t *testing.T, cfg *Config) (*Server, *logging.TestLogger) {
	t.Helper()
	logs := logging.NewTestLogger()
	if cfg == nil {
		cfg = &Config{Host: "localhost", Port: 8080}
	}
	if cfg.Metrics == nil {
		mp := metric.NewMeterProvider(metric.WithReader(metric.NewManualReader()))
		cfg.Metrics = NewHTTPMetricsWithMeter(mp.Meter(httpInstrumentationName), logs.Logger)
	}
	s, err := NewServer(newMCPServer(), logs.Logger, cfg)
	require.NoError(t, err)
	return s, logs
}

func TestNewServer(t *testing.T) {
	t.Run("requires mcp server", func(t *testing.T) {
		_, err := NewServer(nil, logging.NewNop(), nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "mcp server cannot be nil")
	})

	t.Run("requires logger", func(t *testing.T) {
		_, err := NewServer(newMCPServer(), nil, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "logger is required")
	})

	t.Run("uses defaults when config is nil", func(t *testing.T) {
		s, err := NewServer(newMCPServer(), logging.NewNop(), nil)
		require.NoError(t, err)
		assert.Equal(t, "localhost:8080", s.Addr())
	})
}

func TestHandleHealth(t *testing.T) {
	s, logs := newTestServer(t, nil)

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var body HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)

	logs.AssertLogged(t, zapcore.InfoLevel, "http request")
	logs.AssertField(t, "http request", "uri", "/health")
}

func TestMetricsEndpoint(t *testing.T) {
	t.Run("served from the gatherer", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "trakt_mcp_test_total", Help: "test"})
		reg.MustRegister(counter)
		counter.Inc()

		s, _ := newTestServer(t, &Config{Host: "localhost", Port: 8080, Gatherer: reg})
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "trakt_mcp_test_total 1")
	})

	t.Run("absent without a gatherer", func(t *testing.T) {
		s, _ := newTestServer(t, nil)
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestMCPRouteMounted(t *testing.T) {
	s, _ := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader("not json"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	assert.NotEqual(t, http.StatusNotFound, rec.Code)
	assert.GreaterOrEqual(t, rec.Code, 400)
}

func TestMiddleware(t *testing.T) {
	t.Run("adds request ID to response", func(t *testing.T) {
		s, _ := newTestServer(t, nil)
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
	})

	t.Run("recovers from panic", func(t *testing.T) {
		s, _ := newTestServer(t, nil)
		s.echo.GET("/panic", func(echo.Context) error { panic("boom") })

		rec := httptest.NewRecorder()
		assert.NotPanics(t, func() {
			s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panic", nil))
		})
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("logs final status of failed requests", func(t *testing.T) {
		s, logs := newTestServer(t, nil)
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		logs.AssertField(t, "http request", "status", int64(http.StatusNotFound))
	})
}

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}

func TestServerLifecycle(t *testing.T) {
	port := freePort(t)
	s, _ := newTestServer(t, &Config{Host: "127.0.0.1", Port: port})

	errCh := make(chan error, 1)
	go func() { errCh <- s.Start() }()

	url := fmt.Sprintf("http://127.0.0.1:%d/health", port)
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, s.Shutdown(ctx))

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal(errors.New("server did not stop"))
	}
}
