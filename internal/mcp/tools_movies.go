package mcp

import (
	"context"

	"github.com/fyrsmithlabs/trakt-mcp/internal/format"
	"github.com/fyrsmithlabs/trakt-mcp/internal/trakt"
)

type movieIDInput struct {
	MovieID string `json:"movie_id" jsonschema:"Trakt ID, slug or IMDb ID of the movie"`
}

type movieSummaryInput struct {
	MovieID  string `json:"movie_id" jsonschema:"Trakt ID, slug or IMDb ID of the movie"`
	Extended *bool  `json:"extended,omitempty" jsonschema:"Include release date, status, genres and other details (default true)"`
}

func periodArgs(in periodInput) (int, trakt.Period, error) {
	limit, err := limitArg(in.Limit)
	if err != nil {
		return 0, "", err
	}
	period, err := periodArg(in.Period)
	if err != nil {
		return 0, "", err
	}
	return limit, period, nil
}

func (s *Server) registerMovieTools() {
	addTool(s, &ToolMetadata{
		Name:        "fetch_trending_movies",
		Description: "Fetch trending movies from Trakt",
		Category:    CategoryMovies,
		Keywords:    []string{"trending", "film"},
	}, s.fetchTrendingMovies)

	addTool(s, &ToolMetadata{
		Name:        "fetch_popular_movies",
		Description: "Fetch popular movies from Trakt",
		Category:    CategoryMovies,
		Keywords:    []string{"popular", "film"},
	}, s.fetchPopularMovies)

	addTool(s, &ToolMetadata{
		Name:        "fetch_favorited_movies",
		Description: "Fetch the most favorited movies for a time period",
		Category:    CategoryMovies,
		Keywords:    []string{"favorite", "film"},
	}, s.fetchFavoritedMovies)

	addTool(s, &ToolMetadata{
		Name:        "fetch_played_movies",
		Description: "Fetch the most played movies for a time period",
		Category:    CategoryMovies,
		Keywords:    []string{"plays", "film"},
	}, s.fetchPlayedMovies)

	addTool(s, &ToolMetadata{
		Name:        "fetch_watched_movies",
		Description: "Fetch the most watched movies for a time period",
		Category:    CategoryMovies,
		Keywords:    []string{"watchers", "film"},
	}, s.fetchWatchedMovies)

	addTool(s, &ToolMetadata{
		Name:        "fetch_movie_ratings",
		Description: "Fetch the rating summary and distribution of a movie",
		Category:    CategoryMovies,
		Keywords:    []string{"rating", "votes"},
	}, s.fetchMovieRatings)

	addTool(s, &ToolMetadata{
		Name:        "fetch_movie_summary",
		Description: "Fetch the details of a movie: tagline, release, runtime, genres and overview",
		Category:    CategoryMovies,
		Keywords:    []string{"details", "info", "film"},
	}, s.fetchMovieSummary)
}

func (s *Server) fetchTrendingMovies(ctx context.Context, in limitInput) (string, error) {
	limit, err := limitArg(in.Limit)
	if err != nil {
		return "", err
	}
	movies, err := s.client.TrendingMovies(ctx, limit)
	if err != nil {
		return "", err
	}
	return format.TrendingMovies(movies), nil
}

func (s *Server) fetchPopularMovies(ctx context.Context, in limitInput) (string, error) {
	limit, err := limitArg(in.Limit)
	if err != nil {
		return "", err
	}
	movies, err := s.client.PopularMovies(ctx, limit)
	if err != nil {
		return "", err
	}
	return format.PopularMovies(movies), nil
}

func (s *Server) fetchFavoritedMovies(ctx context.Context, in periodInput) (string, error) {
	limit, period, err := periodArgs(in)
	if err != nil {
		return "", err
	}
	movies, err := s.client.FavoritedMovies(ctx, limit, period)
	if err != nil {
		return "", err
	}
	return format.FavoritedMovies(movies), nil
}

func (s *Server) fetchPlayedMovies(ctx context.Context, in periodInput) (string, error) {
	limit, period, err := periodArgs(in)
	if err != nil {
		return "", err
	}
	movies, err := s.client.PlayedMovies(ctx, limit, period)
	if err != nil {
		return "", err
	}
	return format.PlayedMovies(movies), nil
}

func (s *Server) fetchWatchedMovies(ctx context.Context, in periodInput) (string, error) {
	limit, period, err := periodArgs(in)
	if err != nil {
		return "", err
	}
	movies, err := s.client.WatchedMovies(ctx, limit, period)
	if err != nil {
		return "", err
	}
	return format.WatchedMovies(movies), nil
}

func (s *Server) fetchMovieRatings(ctx context.Context, in movieIDInput) (string, error) {
	id, err := idArg(in.MovieID, "movie_id")
	if err != nil {
		return "", err
	}
	ratings, err := s.client.MovieRatings(ctx, id)
	if err != nil {
		return "", err
	}
	return format.Ratings("movie "+id, ratings), nil
}

func (s *Server) fetchMovieSummary(ctx context.Context, in movieSummaryInput) (string, error) {
	id, err := idArg(in.MovieID, "movie_id")
	if err != nil {
		return "", err
	}
	movie, err := s.client.MovieSummary(ctx, id, extendedArg(in.Extended))
	if err != nil {
		return "", err
	}
	return format.MovieSummary(movie), nil
}
