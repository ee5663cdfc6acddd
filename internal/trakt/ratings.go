package trakt

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/fyrsmithlabs/trakt-mcp/internal/reqctx"
)

// RatingType selects the kind of item a personal rating applies to.
type RatingType string

// Rating types accepted by the sync endpoints.
const (
	RatingMovies   RatingType = "movies"
	RatingShows    RatingType = "shows"
	RatingSeasons  RatingType = "seasons"
	RatingEpisodes RatingType = "episodes"
)

// Valid reports whether t is accepted by Trakt.
func (t RatingType) Valid() bool {
	switch t {
	case RatingMovies, RatingShows, RatingSeasons, RatingEpisodes:
		return true
	}
	return false
}

// Season identifies a season of a show.
type Season struct {
	Number int `json:"number"`
	IDs    IDs `json:"ids"`
}

// UserRating is an entry of /sync/ratings. Show is set for seasons and
// episodes as well.
type UserRating struct {
	RatedAt time.Time `json:"rated_at"`
	Rating  int       `json:"rating"`
	Type    string    `json:"type"`
	Movie   *Movie    `json:"movie,omitempty"`
	Show    *Show     `json:"show,omitempty"`
	Season  *Season   `json:"season,omitempty"`
	Episode *Episode  `json:"episode,omitempty"`
}

// RatingItem identifies one item to rate or unrate. Rating is omitted on
// removal.
type RatingItem struct {
	Rating int    `json:"rating,omitempty"`
	Title  string `json:"title,omitempty"`
	Year   int    `json:"year,omitempty"`
	IDs    IDs    `json:"ids"`
}

// RatingCounts counts the items an add or remove touched, per type.
type RatingCounts struct {
	Movies   int `json:"movies"`
	Shows    int `json:"shows"`
	Seasons  int `json:"seasons"`
	Episodes int `json:"episodes"`
}

// Of returns the count for t.
func (c RatingCounts) Of(t RatingType) int {
	switch t {
	case RatingMovies:
		return c.Movies
	case RatingShows:
		return c.Shows
	case RatingSeasons:
		return c.Seasons
	case RatingEpisodes:
		return c.Episodes
	}
	return 0
}

// RatingItems groups rating items by type, as in request bodies and
// not_found lists.
type RatingItems struct {
	Movies   []RatingItem `json:"movies,omitempty"`
	Shows    []RatingItem `json:"shows,omitempty"`
	Seasons  []RatingItem `json:"seasons,omitempty"`
	Episodes []RatingItem `json:"episodes,omitempty"`
}

// Of returns the items for t.
func (r RatingItems) Of(t RatingType) []RatingItem {
	switch t {
	case RatingMovies:
		return r.Movies
	case RatingShows:
		return r.Shows
	case RatingSeasons:
		return r.Seasons
	case RatingEpisodes:
		return r.Episodes
	}
	return nil
}

func ratingItemsOf(t RatingType, items []RatingItem) RatingItems {
	var r RatingItems
	switch t {
	case RatingMovies:
		r.Movies = items
	case RatingShows:
		r.Shows = items
	case RatingSeasons:
		r.Seasons = items
	case RatingEpisodes:
		r.Episodes = items
	}
	return r
}

// RatingsSync is the response of an add or remove. Only the field matching
// the operation is set.
type RatingsSync struct {
	Added    *RatingCounts `json:"added,omitempty"`
	Removed  *RatingCounts `json:"removed,omitempty"`
	NotFound RatingItems   `json:"not_found"`
}

// UserRatings lists the authenticated user's ratings of type t. A rating
// between 1 and 10 filters to that score; 0 returns all.
func (c *Client) UserRatings(ctx context.Context, t RatingType, rating int) ([]UserRating, error) {
	path := "/sync/ratings/" + string(t)
	if rating > 0 {
		path = fmt.Sprintf("%s/%d", path, rating)
	}
	return call[[]UserRating](ctx, c, request{
		method: http.MethodGet,
		path:   path,
		auth:   "access your ratings",
	}, func(rc reqctx.RequestContext) reqctx.RequestContext {
		return rc.WithResource("user_ratings", string(t)).WithParameters(map[string]any{
			"rating_type": string(t),
			"rating":      rating,
		})
	})
}

// AddRatings rates items of type t for the authenticated user.
func (c *Client) AddRatings(ctx context.Context, t RatingType, items []RatingItem) (RatingsSync, error) {
	return c.syncRatings(ctx, "/sync/ratings", "add ratings", t, items)
}

// RemoveRatings removes the user's ratings of items of type t.
func (c *Client) RemoveRatings(ctx context.Context, t RatingType, items []RatingItem) (RatingsSync, error) {
	unrated := make([]RatingItem, len(items))
	for i, it := range items {
		it.Rating = 0
		unrated[i] = it
	}
	return c.syncRatings(ctx, "/sync/ratings/remove", "remove ratings", t, unrated)
}

func (c *Client) syncRatings(ctx context.Context, path, action string, t RatingType, items []RatingItem) (RatingsSync, error) {
	return call[RatingsSync](ctx, c, request{
		method: http.MethodPost,
		path:   path,
		body:   ratingItemsOf(t, items),
		auth:   action,
	}, func(rc reqctx.RequestContext) reqctx.RequestContext {
		return rc.WithResource("user_ratings", string(t)).WithParameters(map[string]any{
			"rating_type": string(t),
			"items":       len(items),
		})
	})
}
