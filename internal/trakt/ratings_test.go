package trakt

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/trakt-mcp/internal/mcperr"
)

func TestUserRatingsPaths(t *testing.T) {
	var paths []string
	c, store, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer access-abc", r.Header.Get("Authorization"))
		paths = append(paths, r.URL.Path)
		writeJSON(w, http.StatusOK, []map[string]any{
			{"rated_at": "2024-05-01T10:00:00.000Z", "rating": 8, "type": "episode",
				"show": map[string]any{"title": "Dark"}, "episode": map[string]any{"season": 1, "number": 2}},
		})
	})
	saveValidToken(t, store)
	ctx := context.Background()

	got, err := c.UserRatings(ctx, RatingEpisodes, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 8, got[0].Rating)
	require.NotNil(t, got[0].Episode)
	assert.Equal(t, 2, got[0].Episode.Number)

	_, err = c.UserRatings(ctx, RatingShows, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"/sync/ratings/episodes", "/sync/ratings/shows/10"}, paths)
}

func TestUserRatingsRequireAuth(t *testing.T) {
	c, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request to %s", r.URL.Path)
	})

	_, err := c.AddRatings(context.Background(), RatingMovies, []RatingItem{{Rating: 7, IDs: IDs{Trakt: 1}}})
	e, ok := mcperr.As(err)
	require.True(t, ok)
	assert.Equal(t, mcperr.KindAuthenticationRequired, e.Kind())
}

func TestSyncRatingsBodies(t *testing.T) {
	var bodies []map[string]any
	c, store, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		bodies = append(bodies, body)
		switch r.URL.Path {
		case "/sync/ratings":
			writeJSON(w, http.StatusCreated, map[string]any{"added": map[string]any{"shows": 1}, "not_found": map[string]any{}})
		case "/sync/ratings/remove":
			writeJSON(w, http.StatusOK, map[string]any{"removed": map[string]any{"shows": 1}, "not_found": map[string]any{}})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})
	saveValidToken(t, store)
	ctx := context.Background()
	items := []RatingItem{{Rating: 9, Title: "Dark", Year: 2017}}

	added, err := c.AddRatings(ctx, RatingShows, items)
	require.NoError(t, err)
	require.NotNil(t, added.Added)
	assert.Equal(t, 1, added.Added.Of(RatingShows))

	removed, err := c.RemoveRatings(ctx, RatingShows, items)
	require.NoError(t, err)
	require.NotNil(t, removed.Removed)
	assert.Equal(t, 1, removed.Removed.Of(RatingShows))
	assert.Equal(t, 9, items[0].Rating, "caller's items are left alone")

	require.Len(t, bodies, 2)
	assert.Equal(t, map[string]any{"shows": []any{
		map[string]any{"rating": float64(9), "title": "Dark", "year": float64(2017), "ids": map[string]any{}},
	}}, bodies[0])
	assert.Equal(t, map[string]any{"shows": []any{
		map[string]any{"title": "Dark", "year": float64(2017), "ids": map[string]any{}},
	}}, bodies[1])
}

func TestSummaryRequests(t *testing.T) {
	c, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/shows/dark":
			assert.Equal(t, "full", r.URL.Query().Get("extended"))
			writeJSON(w, http.StatusOK, map[string]any{
				"title": "Dark", "year": 2017, "first_aired": "2017-12-01T08:00:00.000Z",
				"airs": map[string]any{"day": "Friday", "time": "09:00", "timezone": "Europe/Berlin"},
				"aired_episodes": 26,
			})
		case "/movies/heat":
			assert.Empty(t, r.URL.RawQuery)
			writeJSON(w, http.StatusOK, map[string]any{"title": "Heat", "year": 1995, "tagline": "A Los Angeles crime saga"})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	ctx := context.Background()

	show, err := c.ShowSummary(ctx, "dark", true)
	require.NoError(t, err)
	assert.Equal(t, "Dark", show.Title)
	require.NotNil(t, show.FirstAired)
	assert.Equal(t, 2017, show.FirstAired.Year())
	assert.Equal(t, "Friday", show.Airs.Day)
	assert.Equal(t, 26, show.AiredEpisodes)

	movie, err := c.MovieSummary(ctx, "heat", false)
	require.NoError(t, err)
	assert.Equal(t, "A Los Angeles crime saga", movie.Tagline)
}
