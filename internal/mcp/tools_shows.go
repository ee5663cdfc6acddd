package mcp

import (
	"context"

	"github.com/fyrsmithlabs/trakt-mcp/internal/format"
)

type limitInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"Maximum number of results (1-100, default 10)"`
}

type periodInput struct {
	Limit  int    `json:"limit,omitempty" jsonschema:"Maximum number of results (1-100, default 10)"`
	Period string `json:"period,omitempty" jsonschema:"Time window: daily, weekly, monthly, yearly or all (default weekly)"`
}

type showIDInput struct {
	ShowID string `json:"show_id" jsonschema:"Trakt ID, slug or IMDb ID of the show"`
}

type showSummaryInput struct {
	ShowID   string `json:"show_id" jsonschema:"Trakt ID, slug or IMDb ID of the show"`
	Extended *bool  `json:"extended,omitempty" jsonschema:"Include air times, status, genres and other details (default true)"`
}

// extendedArg defaults an omitted extended flag to true.
func extendedArg(extended *bool) bool {
	return extended == nil || *extended
}

func (s *Server) registerShowTools() {
	addTool(s, &ToolMetadata{
		Name:        "fetch_trending_shows",
		Description: "Fetch trending shows from Trakt",
		Category:    CategoryShows,
		Keywords:    []string{"trending", "tv"},
	}, s.fetchTrendingShows)

	addTool(s, &ToolMetadata{
		Name:        "fetch_popular_shows",
		Description: "Fetch popular shows from Trakt",
		Category:    CategoryShows,
		Keywords:    []string{"popular", "tv"},
	}, s.fetchPopularShows)

	addTool(s, &ToolMetadata{
		Name:        "fetch_favorited_shows",
		Description: "Fetch the most favorited shows for a time period",
		Category:    CategoryShows,
		Keywords:    []string{"favorite", "tv"},
	}, s.fetchFavoritedShows)

	addTool(s, &ToolMetadata{
		Name:        "fetch_played_shows",
		Description: "Fetch the most played shows for a time period",
		Category:    CategoryShows,
		Keywords:    []string{"plays", "tv"},
	}, s.fetchPlayedShows)

	addTool(s, &ToolMetadata{
		Name:        "fetch_watched_shows",
		Description: "Fetch the most watched shows for a time period",
		Category:    CategoryShows,
		Keywords:    []string{"watchers", "tv"},
	}, s.fetchWatchedShows)

	addTool(s, &ToolMetadata{
		Name:        "fetch_show_ratings",
		Description: "Fetch the rating summary and distribution of a show",
		Category:    CategoryShows,
		Keywords:    []string{"rating", "votes"},
	}, s.fetchShowRatings)

	addTool(s, &ToolMetadata{
		Name:        "fetch_show_summary",
		Description: "Fetch the details of a show: status, air times, network, genres and overview",
		Category:    CategoryShows,
		Keywords:    []string{"details", "info", "tv"},
	}, s.fetchShowSummary)
}

func (s *Server) fetchTrendingShows(ctx context.Context, in limitInput) (string, error) {
	limit, err := limitArg(in.Limit)
	if err != nil {
		return "", err
	}
	shows, err := s.client.TrendingShows(ctx, limit)
	if err != nil {
		return "", err
	}
	return format.TrendingShows(shows), nil
}

func (s *Server) fetchPopularShows(ctx context.Context, in limitInput) (string, error) {
	limit, err := limitArg(in.Limit)
	if err != nil {
		return "", err
	}
	shows, err := s.client.PopularShows(ctx, limit)
	if err != nil {
		return "", err
	}
	return format.PopularShows(shows), nil
}

func (s *Server) fetchFavoritedShows(ctx context.Context, in periodInput) (string, error) {
	limit, period, err := periodArgs(in)
	if err != nil {
		return "", err
	}
	shows, err := s.client.FavoritedShows(ctx, limit, period)
	if err != nil {
		return "", err
	}
	return format.FavoritedShows(shows), nil
}

func (s *Server) fetchPlayedShows(ctx context.Context, in periodInput) (string, error) {
	limit, period, err := periodArgs(in)
	if err != nil {
		return "", err
	}
	shows, err := s.client.PlayedShows(ctx, limit, period)
	if err != nil {
		return "", err
	}
	return format.PlayedShows(shows), nil
}

func (s *Server) fetchWatchedShows(ctx context.Context, in periodInput) (string, error) {
	limit, period, err := periodArgs(in)
	if err != nil {
		return "", err
	}
	shows, err := s.client.WatchedShows(ctx, limit, period)
	if err != nil {
		return "", err
	}
	return format.WatchedShows(shows), nil
}

func (s *Server) fetchShowRatings(ctx context.Context, in showIDInput) (string, error) {
	id, err := idArg(in.ShowID, "show_id")
	if err != nil {
		return "", err
	}
	ratings, err := s.client.ShowRatings(ctx, id)
	if err != nil {
		return "", err
	}
	return format.Ratings("show "+id, ratings), nil
}

func (s *Server) fetchShowSummary(ctx context.Context, in showSummaryInput) (string, error) {
	id, err := idArg(in.ShowID, "show_id")
	if err != nil {
		return "", err
	}
	show, err := s.client.ShowSummary(ctx, id, extendedArg(in.Extended))
	if err != nil {
		return "", err
	}
	return format.ShowSummary(show), nil
}
