package trakt

import (
	"context"
	"net/http"

	"github.com/fyrsmithlabs/trakt-mcp/internal/reqctx"
)

// SearchShows runs a text search over shows.
func (c *Client) SearchShows(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	return c.search(ctx, "show", query, limit)
}

// SearchMovies runs a text search over movies.
func (c *Client) SearchMovies(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	return c.search(ctx, "movie", query, limit)
}

func (c *Client) search(ctx context.Context, kind, query string, limit int) ([]SearchResult, error) {
	q := limitQuery(limit)
	q.Set("query", query)
	return call[[]SearchResult](ctx, c, request{
		method: http.MethodGet,
		path:   "/search/" + kind,
		query:  q,
	}, func(rc reqctx.RequestContext) reqctx.RequestContext {
		return rc.WithResource(kind, "").WithParameters(map[string]any{
			"query": query,
			"limit": limit,
		})
	})
}
