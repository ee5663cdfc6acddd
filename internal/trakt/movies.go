package trakt

import (
	"context"
	"net/http"

	"github.com/fyrsmithlabs/trakt-mcp/internal/reqctx"
)

// TrendingMovies returns the movies being watched right now.
func (c *Client) TrendingMovies(ctx context.Context, limit int) ([]TrendingMovie, error) {
	return call[[]TrendingMovie](ctx, c, request{
		method: http.MethodGet,
		path:   "/movies/trending",
		query:  limitQuery(limit),
	}, listParams(limit, ""))
}

// PopularMovies returns the most popular movies.
func (c *Client) PopularMovies(ctx context.Context, limit int) ([]Movie, error) {
	return call[[]Movie](ctx, c, request{
		method: http.MethodGet,
		path:   "/movies/popular",
		query:  limitQuery(limit),
	}, listParams(limit, ""))
}

// FavoritedMovies returns the movies favorited most often in period.
func (c *Client) FavoritedMovies(ctx context.Context, limit int, period Period) ([]FavoritedMovie, error) {
	return call[[]FavoritedMovie](ctx, c, request{
		method: http.MethodGet,
		path:   "/movies/favorited/" + string(period),
		query:  limitQuery(limit),
	}, listParams(limit, period))
}

// PlayedMovies returns the movies with the most plays in period.
func (c *Client) PlayedMovies(ctx context.Context, limit int, period Period) ([]MovieStats, error) {
	return call[[]MovieStats](ctx, c, request{
		method: http.MethodGet,
		path:   "/movies/played/" + string(period),
		query:  limitQuery(limit),
	}, listParams(limit, period))
}

// WatchedMovies returns the movies with the most watchers in period.
func (c *Client) WatchedMovies(ctx context.Context, limit int, period Period) ([]MovieStats, error) {
	return call[[]MovieStats](ctx, c, request{
		method: http.MethodGet,
		path:   "/movies/watched/" + string(period),
		query:  limitQuery(limit),
	}, listParams(limit, period))
}

// MovieRatings returns the rating summary of a movie.
func (c *Client) MovieRatings(ctx context.Context, movieID string) (Ratings, error) {
	return call[Ratings](ctx, c, request{
		method: http.MethodGet,
		path:   "/movies/" + movieID + "/ratings",
	}, func(rc reqctx.RequestContext) reqctx.RequestContext {
		return rc.WithResource("movie", movieID)
	})
}
