package trakt

import (
	"context"
	"net/http"

	"github.com/fyrsmithlabs/trakt-mcp/internal/reqctx"
)

// Period is the window used by the favorited, played and watched lists.
type Period string

// Periods accepted by Trakt.
const (
	PeriodDaily   Period = "daily"
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
	PeriodYearly  Period = "yearly"
	PeriodAll     Period = "all"
)

// Valid reports whether p is a period Trakt accepts.
func (p Period) Valid() bool {
	switch p {
	case PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodYearly, PeriodAll:
		return true
	}
	return false
}

func listParams(limit int, period Period) func(reqctx.RequestContext) reqctx.RequestContext {
	return func(rc reqctx.RequestContext) reqctx.RequestContext {
		params := map[string]any{"limit": limit}
		if period != "" {
			params["period"] = string(period)
		}
		return rc.WithResource("list", "").WithParameters(params)
	}
}

// TrendingShows returns the shows being watched right now.
func (c *Client) TrendingShows(ctx context.Context, limit int) ([]TrendingShow, error) {
	return call[[]TrendingShow](ctx, c, request{
		method: http.MethodGet,
		path:   "/shows/trending",
		query:  limitQuery(limit),
	}, listParams(limit, ""))
}

// PopularShows returns the most popular shows.
func (c *Client) PopularShows(ctx context.Context, limit int) ([]Show, error) {
	return call[[]Show](ctx, c, request{
		method: http.MethodGet,
		path:   "/shows/popular",
		query:  limitQuery(limit),
	}, listParams(limit, ""))
}

// FavoritedShows returns the shows favorited most often in period.
func (c *Client) FavoritedShows(ctx context.Context, limit int, period Period) ([]FavoritedShow, error) {
	return call[[]FavoritedShow](ctx, c, request{
		method: http.MethodGet,
		path:   "/shows/favorited/" + string(period),
		query:  limitQuery(limit),
	}, listParams(limit, period))
}

// PlayedShows returns the shows with the most plays in period.
func (c *Client) PlayedShows(ctx context.Context, limit int, period Period) ([]ShowStats, error) {
	return call[[]ShowStats](ctx, c, request{
		method: http.MethodGet,
		path:   "/shows/played/" + string(period),
		query:  limitQuery(limit),
	}, listParams(limit, period))
}

// WatchedShows returns the shows with the most watchers in period.
func (c *Client) WatchedShows(ctx context.Context, limit int, period Period) ([]ShowStats, error) {
	return call[[]ShowStats](ctx, c, request{
		method: http.MethodGet,
		path:   "/shows/watched/" + string(period),
		query:  limitQuery(limit),
	}, listParams(limit, period))
}

// ShowRatings returns the rating summary of a show.
func (c *Client) ShowRatings(ctx context.Context, showID string) (Ratings, error) {
	return call[Ratings](ctx, c, request{
		method: http.MethodGet,
		path:   "/shows/" + showID + "/ratings",
	}, func(rc reqctx.RequestContext) reqctx.RequestContext {
		return rc.WithResource("show", showID)
	})
}
