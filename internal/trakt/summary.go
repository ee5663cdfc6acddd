package trakt

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/fyrsmithlabs/trakt-mcp/internal/reqctx"
)

// Airs is the weekly broadcast slot of a show.
type Airs struct {
	Day      string `json:"day,omitempty"`
	Time     string `json:"time,omitempty"`
	Timezone string `json:"timezone,omitempty"`
}

// ShowDetails is a show summary. Only Title, Year and IDs are present
// unless extended info was requested.
type ShowDetails struct {
	Show
	FirstAired    *time.Time `json:"first_aired,omitempty"`
	Airs          Airs       `json:"airs"`
	Runtime       int        `json:"runtime,omitempty"`
	Certification string     `json:"certification,omitempty"`
	Network       string     `json:"network,omitempty"`
	Country       string     `json:"country,omitempty"`
	Status        string     `json:"status,omitempty"`
	Rating        float64    `json:"rating,omitempty"`
	Votes         int        `json:"votes,omitempty"`
	Language      string     `json:"language,omitempty"`
	Genres        []string   `json:"genres,omitempty"`
	AiredEpisodes int        `json:"aired_episodes,omitempty"`
	Homepage      string     `json:"homepage,omitempty"`
	Trailer       string     `json:"trailer,omitempty"`
}

// MovieDetails is a movie summary. Only Title, Year and IDs are present
// unless extended info was requested.
type MovieDetails struct {
	Movie
	Tagline       string   `json:"tagline,omitempty"`
	Released      string   `json:"released,omitempty"`
	Runtime       int      `json:"runtime,omitempty"`
	Certification string   `json:"certification,omitempty"`
	Country       string   `json:"country,omitempty"`
	Status        string   `json:"status,omitempty"`
	Rating        float64  `json:"rating,omitempty"`
	Votes         int      `json:"votes,omitempty"`
	Language      string   `json:"language,omitempty"`
	Genres        []string `json:"genres,omitempty"`
	Homepage      string   `json:"homepage,omitempty"`
	Trailer       string   `json:"trailer,omitempty"`
}

func extendedQuery(extended bool) url.Values {
	if !extended {
		return nil
	}
	return url.Values{"extended": {"full"}}
}

// ShowSummary fetches a show. extended asks for the full record.
func (c *Client) ShowSummary(ctx context.Context, showID string, extended bool) (ShowDetails, error) {
	return call[ShowDetails](ctx, c, request{
		method: http.MethodGet,
		path:   "/shows/" + showID,
		query:  extendedQuery(extended),
	}, func(rc reqctx.RequestContext) reqctx.RequestContext {
		return rc.WithResource("show", showID).WithParameters(map[string]any{"extended": extended})
	})
}

// MovieSummary fetches a movie. extended asks for the full record.
func (c *Client) MovieSummary(ctx context.Context, movieID string, extended bool) (MovieDetails, error) {
	return call[MovieDetails](ctx, c, request{
		method: http.MethodGet,
		path:   "/movies/" + movieID,
		query:  extendedQuery(extended),
	}, func(rc reqctx.RequestContext) reqctx.RequestContext {
		return rc.WithResource("movie", movieID).WithParameters(map[string]any{"extended": extended})
	})
}
