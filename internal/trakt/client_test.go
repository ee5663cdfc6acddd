package trakt

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fyrsmithlabs/trakt-mcp/internal/errhandler"
	"github.com/fyrsmithlabs/trakt-mcp/internal/logging"
	"github.com/fyrsmithlabs/trakt-mcp/internal/mcperr"
	"github.com/fyrsmithlabs/trakt-mcp/internal/reqctx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *TokenStore, *logging.TestLogger) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	store, err := NewTokenStore(filepath.Join(t.TempDir(), "token.json"))
	require.NoError(t, err)

	logger := logging.NewTestLogger()
	h := errhandler.NewHandler(errhandler.NewClassifier(logger.Logger), logger.Logger)
	c, err := NewClient(Config{
		BaseURL:      srv.URL,
		ClientID:     "client-id",
		ClientSecret: "client-secret",
	}, store, h, logger.Logger)
	require.NoError(t, err)
	return c, store, logger
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func saveValidToken(t *testing.T, store *TokenStore) {
	t.Helper()
	require.NoError(t, store.Save(&Token{
		AccessToken: "access-abc",
		ExpiresIn:   7776000,
		CreatedAt:   time.Now().Unix(),
		TokenType:   "bearer",
	}))
}

func TestNewClientRequiresCredentials(t *testing.T) {
	_, err := NewClient(Config{ClientID: "id"}, nil, nil, logging.NewNop())
	require.Error(t, err)
	_, err = NewClient(Config{ClientSecret: "secret"}, nil, nil, logging.NewNop())
	require.Error(t, err)
}

func TestTrendingShowsSendsHeaders(t *testing.T) {
	c, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/shows/trending", r.URL.Path)
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "2", r.Header.Get("trakt-api-version"))
		assert.Equal(t, "client-id", r.Header.Get("trakt-api-key"))
		assert.Empty(t, r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, []map[string]any{
			{"watchers": 42, "show": map[string]any{"title": "Severance", "year": 2022, "ids": map[string]any{"trakt": 1}}},
		})
	})

	shows, err := c.TrendingShows(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, shows, 1)
	assert.Equal(t, 42, shows[0].Watchers)
	assert.Equal(t, "Severance", shows[0].Show.Title)
}

func TestListEndpointsUsePeriodPath(t *testing.T) {
	var paths []string
	c, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		writeJSON(w, http.StatusOK, []any{})
	})
	ctx := context.Background()

	_, err := c.FavoritedShows(ctx, 10, PeriodWeekly)
	require.NoError(t, err)
	_, err = c.PlayedShows(ctx, 10, PeriodMonthly)
	require.NoError(t, err)
	_, err = c.WatchedMovies(ctx, 10, PeriodAll)
	require.NoError(t, err)
	_, err = c.PopularMovies(ctx, 10)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"/shows/favorited/weekly",
		"/shows/played/monthly",
		"/movies/watched/all",
		"/movies/popular",
	}, paths)
}

func TestCommentPaths(t *testing.T) {
	var got string
	c, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Path
		writeJSON(w, http.StatusOK, []any{})
	})
	ctx := context.Background()
	opts := ListOptions{Limit: 10}

	_, err := c.EpisodeComments(ctx, "breaking-bad", 2, 3, SortLikes, opts)
	require.NoError(t, err)
	assert.Equal(t, "/shows/breaking-bad/seasons/2/episodes/3/comments/likes", got)

	_, err = c.SeasonComments(ctx, "1390", 1, SortNewest, opts)
	require.NoError(t, err)
	assert.Equal(t, "/shows/1390/seasons/1/comments/newest", got)

	_, err = c.MovieComments(ctx, "inception", SortReplies, opts)
	require.NoError(t, err)
	assert.Equal(t, "/movies/inception/comments/replies", got)

	_, err = c.CommentReplies(ctx, "417", SortOldest, opts)
	require.NoError(t, err)
	assert.Equal(t, "/comments/417/replies/oldest", got)
}

func TestCommentListingKeepsPagination(t *testing.T) {
	c, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "3", r.URL.Query().Get("page"))
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		w.Header().Set("X-Pagination-Page", "3")
		w.Header().Set("X-Pagination-Limit", "5")
		w.Header().Set("X-Pagination-Page-Count", "4")
		w.Header().Set("X-Pagination-Item-Count", "18")
		writeJSON(w, http.StatusOK, []map[string]any{{"id": 11, "comment": "hi"}})
	})

	page, err := c.ShowComments(context.Background(), "dark", SortNewest, ListOptions{Limit: 5, Page: 3})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, 11, page.Items[0].ID)
	assert.Equal(t, Pagination{Page: 3, Limit: 5, PageCount: 4, ItemCount: 18}, page.Pagination)
	assert.True(t, page.Pagination.HasNext())
	assert.True(t, page.Pagination.HasPrevious())
}

func TestCommentNotFound(t *testing.T) {
	c, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/comments/999", r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := c.Comment(context.Background(), "999")
	e, ok := mcperr.As(err)
	require.True(t, ok)
	assert.Equal(t, mcperr.KindNotFound, e.Kind())
	assert.Equal(t, "comment", e.Data()["resource_type"])
	assert.Equal(t, "999", e.Data()["resource_id"])
}

func TestSearchQuery(t *testing.T) {
	c, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/movie", r.URL.Path)
		assert.Equal(t, "the matrix", r.URL.Query().Get("query"))
		writeJSON(w, http.StatusOK, []map[string]any{
			{"type": "movie", "score": 12.5, "movie": map[string]any{"title": "The Matrix", "year": 1999}},
		})
	})

	results, err := c.SearchMovies(context.Background(), "the matrix", 3)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.NotNil(t, results[0].Movie)
	assert.Equal(t, 1999, results[0].Movie.Year)
}

func TestNotFoundCarriesResource(t *testing.T) {
	c, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	ctx := reqctx.NewContext(context.Background(), reqctx.New())
	_, err := c.ShowRatings(ctx, "missing-show")
	require.Error(t, err)

	e, ok := mcperr.As(err)
	require.True(t, ok)
	assert.Equal(t, mcperr.KindNotFound, e.Kind())
	assert.Equal(t, "The requested show 'missing-show' was not found", e.Message())

	endpoint, _ := e.Get("endpoint")
	assert.Equal(t, "/shows/missing-show/ratings", endpoint)
	status, _ := e.Get("http_status")
	assert.Equal(t, 404, status)
}

func TestRateLimitRetryAfter(t *testing.T) {
	c, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := c.TrendingMovies(context.Background(), 10)
	e, ok := mcperr.As(err)
	require.True(t, ok)
	assert.Equal(t, mcperr.KindRateLimit, e.Kind())
	retry, _ := e.Get("retry_after")
	assert.Equal(t, 30, retry)
}

func TestMalformedBodyIsDecodeError(t *testing.T) {
	c, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "{not json")
	})

	_, err := c.PopularShows(context.Background(), 10)
	e, ok := mcperr.As(err)
	require.True(t, ok)
	assert.Equal(t, mcperr.KindInternal, e.Kind())
	errType, _ := e.Get("error_type")
	assert.Equal(t, "json_decode_error", errType)
}

func TestConnectionFailure(t *testing.T) {
	c, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	c.cfg.BaseURL = "http://127.0.0.1:1"

	_, err := c.PopularShows(context.Background(), 10)
	e, ok := mcperr.As(err)
	require.True(t, ok)
	assert.Equal(t, "Unable to connect to Trakt API. Please check your internet connection.", e.Message())
}

func TestAuthRequiredBeforeNetwork(t *testing.T) {
	var hits atomic.Int32
	c, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	})

	_, err := c.UserWatchedShows(context.Background())
	e, ok := mcperr.As(err)
	require.True(t, ok)
	assert.Equal(t, mcperr.KindAuthenticationRequired, e.Kind())
	assert.Equal(t, "Authentication required to access watched shows", e.Message())
	assert.Zero(t, hits.Load())
}

func TestUserWatchedSendsBearer(t *testing.T) {
	c, store, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer access-abc", r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, []map[string]any{
			{"plays": 3, "movie": map[string]any{"title": "Heat"}},
		})
	})
	saveValidToken(t, store)

	movies, err := c.UserWatchedMovies(context.Background())
	require.NoError(t, err)
	require.Len(t, movies, 1)
	assert.Equal(t, 3, movies[0].Plays)
	assert.True(t, c.IsAuthenticated())
}

func TestCheckinBody(t *testing.T) {
	var body map[string]any
	c, store, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		writeJSON(w, http.StatusCreated, map[string]any{
			"id":      99,
			"episode": map[string]any{"season": 1, "number": 2},
			"show":    map[string]any{"title": "Dark"},
		})
	})
	saveValidToken(t, store)

	out, err := c.CheckinEpisode(context.Background(), CheckinRequest{ShowID: "1234", Season: 1, Episode: 2, Message: "hi"})
	require.NoError(t, err)
	assert.EqualValues(t, 99, out.ID)

	assert.Equal(t, map[string]any{"trakt": float64(1234)}, body["show"].(map[string]any)["ids"])
	assert.Equal(t, map[string]any{"season": float64(1), "number": float64(2)}, body["episode"])
	assert.Equal(t, "hi", body["message"])
}

func TestCheckinByTitle(t *testing.T) {
	b := newCheckinBody(CheckinRequest{ShowTitle: "Dark", ShowYear: 2017, Season: 3, Episode: 8})
	assert.Nil(t, b.Show.IDs)
	assert.Equal(t, "Dark", b.Show.Title)
	assert.Equal(t, 2017, b.Show.Year)

	b = newCheckinBody(CheckinRequest{ShowID: "dark", Season: 1, Episode: 1})
	require.NotNil(t, b.Show.IDs)
	assert.Equal(t, "dark", b.Show.IDs.Slug)
}

func TestCheckinConflict(t *testing.T) {
	c, store, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusConflict, map[string]any{"expires_at": "2026-01-01T00:00:00Z"})
	})
	saveValidToken(t, store)

	_, err := c.CheckinEpisode(context.Background(), CheckinRequest{ShowID: "1", Season: 1, Episode: 1})
	e, ok := mcperr.As(err)
	require.True(t, ok)
	assert.Equal(t, mcperr.KindInvalidRequest, e.Kind())
}

func TestDeviceTokenStatuses(t *testing.T) {
	tests := []struct {
		status  int
		kind    mcperr.Kind
		errType string
	}{
		{http.StatusBadRequest, mcperr.KindAuthorizationPending, "auth_pending"},
		{http.StatusTooManyRequests, mcperr.KindAuthorizationPending, "auth_pending"},
		{http.StatusNotFound, mcperr.KindInvalidParams, "invalid_device_code"},
		{http.StatusConflict, mcperr.KindInvalidRequest, "device_code_used"},
		{http.StatusGone, mcperr.KindInvalidRequest, "device_code_expired"},
		{http.StatusTeapot, mcperr.KindInvalidRequest, "access_denied"},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			c, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})
			_, err := c.DeviceToken(context.Background(), "dev-code")
			e, ok := mcperr.As(err)
			require.True(t, ok)
			assert.Equal(t, tt.kind, e.Kind())
			errType, _ := e.Get("error_type")
			assert.Equal(t, tt.errType, errType)
		})
	}
}

func TestDeviceTokenErrorCarriesRequestContext(t *testing.T) {
	c, _, logger := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusGone)
	})
	rc := reqctx.New()
	ctx := reqctx.NewContext(context.Background(), rc)

	_, err := c.DeviceToken(ctx, "dev-code")
	e, ok := mcperr.As(err)
	require.True(t, ok)
	data := e.Data()
	assert.Equal(t, rc.CorrelationID(), data["correlation_id"])
	assert.Equal(t, "/oauth/device/token", data["endpoint"])
	assert.Equal(t, http.MethodPost, data["method"])
	assert.Contains(t, data, "resource_type")
	assert.Equal(t, "device_code_expired", data["error_type"])
	logger.AssertLogged(t, zapcore.WarnLevel, "Device token poll failed")
	logger.AssertNoSecrets(t)

	t.Run("without a request context", func(t *testing.T) {
		c, _, logger := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
		})
		_, err := c.DeviceToken(context.Background(), "dev-code")
		e, ok := mcperr.As(err)
		require.True(t, ok)
		id, _ := e.Get("correlation_id")
		assert.NotEmpty(t, id)
		logger.AssertLogged(t, zapcore.DebugLevel, "Device token poll failed")
	})
}

func TestDeviceFlowRequests(t *testing.T) {
	c, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "client-id", body["client_id"])
		switch r.URL.Path {
		case "/oauth/device/code":
			writeJSON(w, http.StatusOK, map[string]any{
				"device_code": "dev", "user_code": "ABCD1234",
				"verification_url": "https://trakt.tv/activate", "expires_in": 600, "interval": 5,
			})
		case "/oauth/device/token":
			assert.Equal(t, "dev", body["code"])
			assert.Equal(t, "client-secret", body["client_secret"])
			writeJSON(w, http.StatusOK, map[string]any{
				"access_token": "tok", "expires_in": 100, "created_at": time.Now().Unix(), "token_type": "bearer",
			})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})
	ctx := context.Background()

	code, err := c.DeviceCode(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ABCD1234", code.UserCode)
	assert.Equal(t, 5, code.Interval)

	tok, err := c.DeviceToken(ctx, code.DeviceCode)
	require.NoError(t, err)
	assert.Equal(t, "tok", tok.AccessToken)
	assert.True(t, tok.Valid(time.Now()))
}

func TestParsePagination(t *testing.T) {
	h := http.Header{}
	h.Set("X-Pagination-Page", "2")
	h.Set("X-Pagination-Limit", "10")
	h.Set("X-Pagination-Page-Count", "7")
	h.Set("X-Pagination-Item-Count", "65")
	assert.Equal(t, Pagination{Page: 2, Limit: 10, PageCount: 7, ItemCount: 65}, parsePagination(h))
	assert.Equal(t, Pagination{}, parsePagination(http.Header{}))
}

func TestValidators(t *testing.T) {
	assert.True(t, PeriodWeekly.Valid())
	assert.False(t, Period("hourly").Valid())
	assert.True(t, SortReplies.Valid())
	assert.False(t, CommentSort("best").Valid())
}
