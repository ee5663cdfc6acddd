package trakt

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/fyrsmithlabs/trakt-mcp/internal/reqctx"
)

// UserWatchedShows returns the authenticated user's watched shows.
func (c *Client) UserWatchedShows(ctx context.Context) ([]WatchedShow, error) {
	return call[[]WatchedShow](ctx, c, request{
		method: http.MethodGet,
		path:   "/sync/watched/shows",
		auth:   "access watched shows",
	}, func(rc reqctx.RequestContext) reqctx.RequestContext {
		return rc.WithResource("watched_shows", "")
	})
}

// UserWatchedMovies returns the authenticated user's watched movies.
func (c *Client) UserWatchedMovies(ctx context.Context) ([]WatchedMovie, error) {
	return call[[]WatchedMovie](ctx, c, request{
		method: http.MethodGet,
		path:   "/sync/watched/movies",
		auth:   "access watched movies",
	}, func(rc reqctx.RequestContext) reqctx.RequestContext {
		return rc.WithResource("watched_movies", "")
	})
}

type checkinShow struct {
	Title string `json:"title,omitempty"`
	Year  int    `json:"year,omitempty"`
	IDs   *IDs   `json:"ids,omitempty"`
}

type checkinEpisode struct {
	Season int `json:"season"`
	Number int `json:"number"`
}

type checkinBody struct {
	Show    checkinShow    `json:"show"`
	Episode checkinEpisode `json:"episode"`
	Message string         `json:"message,omitempty"`
}

func newCheckinBody(req CheckinRequest) checkinBody {
	body := checkinBody{
		Episode: checkinEpisode{Season: req.Season, Number: req.Episode},
		Message: req.Message,
	}
	switch id := strings.TrimSpace(req.ShowID); {
	case id == "":
		body.Show = checkinShow{Title: req.ShowTitle, Year: req.ShowYear}
	default:
		if n, err := strconv.Atoi(id); err == nil {
			body.Show.IDs = &IDs{Trakt: n}
		} else {
			body.Show.IDs = &IDs{Slug: id}
		}
	}
	return body
}

// CheckinEpisode checks the user in to an episode. Trakt answers 409 while
// another check-in is active.
func (c *Client) CheckinEpisode(ctx context.Context, req CheckinRequest) (Checkin, error) {
	resourceID := req.ShowID
	if resourceID == "" {
		resourceID = req.ShowTitle
	}
	return call[Checkin](ctx, c, request{
		method: http.MethodPost,
		path:   "/checkin",
		body:   newCheckinBody(req),
		auth:   "check in to a show",
	}, func(rc reqctx.RequestContext) reqctx.RequestContext {
		return rc.WithResource("show", resourceID).WithParameters(map[string]any{
			"season":  req.Season,
			"episode": req.Episode,
		})
	})
}
