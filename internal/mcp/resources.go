package mcp

import (
	"context"
	"time"

	"github.com/fyrsmithlabs/trakt-mcp/internal/format"
)

const resourceLimit = 10

func (s *Server) registerResources() {
	s.addResource("trakt://shows/trending", "shows_trending",
		"Shows being watched on Trakt right now", s.readTrendingShows)
	s.addResource("trakt://shows/popular", "shows_popular",
		"Most popular shows on Trakt", s.readPopularShows)
	s.addResource("trakt://movies/trending", "movies_trending",
		"Movies being watched on Trakt right now", s.readTrendingMovies)
	s.addResource("trakt://movies/popular", "movies_popular",
		"Most popular movies on Trakt", s.readPopularMovies)
	s.addResource("trakt://user/auth/status", "auth_status",
		"Whether the server holds a valid Trakt token", s.readAuthStatus)
	s.addResource("trakt://user/watched/shows", "user_watched_shows",
		"Shows the authenticated user has watched", s.readUserWatchedShows)
	s.addResource("trakt://user/watched/movies", "user_watched_movies",
		"Movies the authenticated user has watched", s.readUserWatchedMovies)
}

func (s *Server) readTrendingShows(ctx context.Context) (string, error) {
	shows, err := s.client.TrendingShows(ctx, resourceLimit)
	if err != nil {
		return "", err
	}
	return format.TrendingShows(shows), nil
}

func (s *Server) readPopularShows(ctx context.Context) (string, error) {
	shows, err := s.client.PopularShows(ctx, resourceLimit)
	if err != nil {
		return "", err
	}
	return format.PopularShows(shows), nil
}

func (s *Server) readTrendingMovies(ctx context.Context) (string, error) {
	movies, err := s.client.TrendingMovies(ctx, resourceLimit)
	if err != nil {
		return "", err
	}
	return format.TrendingMovies(movies), nil
}

func (s *Server) readPopularMovies(ctx context.Context) (string, error) {
	movies, err := s.client.PopularMovies(ctx, resourceLimit)
	if err != nil {
		return "", err
	}
	return format.PopularMovies(movies), nil
}

func (s *Server) readAuthStatus(context.Context) (string, error) {
	tok, err := s.flow.Token()
	if err != nil {
		return "", err
	}
	if !tok.Valid(time.Now()) {
		return format.AuthStatus(false, time.Time{}), nil
	}
	return format.AuthStatus(true, tok.Expiry()), nil
}

func (s *Server) readUserWatchedShows(ctx context.Context) (string, error) {
	return s.fetchUserWatchedShows(ctx, noInput{})
}

func (s *Server) readUserWatchedMovies(ctx context.Context) (string, error) {
	return s.fetchUserWatchedMovies(ctx, noInput{})
}
