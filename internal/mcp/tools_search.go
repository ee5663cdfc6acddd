package mcp

import (
	"context"

	"github.com/fyrsmithlabs/trakt-mcp/internal/format"
)

type searchInput struct {
	Query string `json:"query" jsonschema:"Title to search for"`
	Limit int    `json:"limit,omitempty" jsonschema:"Maximum number of results (1-100, default 10)"`
}

func (s *Server) registerSearchTools() {
	addTool(s, &ToolMetadata{
		Name:        "search_shows",
		Description: "Search Trakt for shows by title and return their IDs",
		Category:    CategorySearch,
		Keywords:    []string{"find", "lookup", "tv"},
	}, s.searchShows)

	addTool(s, &ToolMetadata{
		Name:        "search_movies",
		Description: "Search Trakt for movies by title and return their IDs",
		Category:    CategorySearch,
		Keywords:    []string{"find", "lookup", "film"},
	}, s.searchMovies)
}

func (s *Server) searchShows(ctx context.Context, in searchInput) (string, error) {
	query, limit, err := searchArgs(in)
	if err != nil {
		return "", err
	}
	results, err := s.client.SearchShows(ctx, query, limit)
	if err != nil {
		return "", err
	}
	return format.SearchResults(query, format.Shows, results), nil
}

func (s *Server) searchMovies(ctx context.Context, in searchInput) (string, error) {
	query, limit, err := searchArgs(in)
	if err != nil {
		return "", err
	}
	results, err := s.client.SearchMovies(ctx, query, limit)
	if err != nil {
		return "", err
	}
	return format.SearchResults(query, format.Movies, results), nil
}

func searchArgs(in searchInput) (string, int, error) {
	query, err := queryArg(in.Query)
	if err != nil {
		return "", 0, err
	}
	limit, err := limitArg(in.Limit)
	if err != nil {
		return "", 0, err
	}
	return query, limit, nil
}
