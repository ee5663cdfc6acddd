package mcp

import (
	"context"

	"github.com/fyrsmithlabs/trakt-mcp/internal/auth"
	"github.com/fyrsmithlabs/trakt-mcp/internal/format"
)

type noInput struct{}

type checkinInput struct {
	ShowID    string `json:"show_id,omitempty" jsonschema:"Trakt ID, slug or IMDb ID of the show"`
	ShowTitle string `json:"show_title,omitempty" jsonschema:"Show title, used when show_id is not given"`
	ShowYear  int    `json:"show_year,omitempty" jsonschema:"Release year to disambiguate show_title"`
	Season    int    `json:"season" jsonschema:"Season number"`
	Episode   int    `json:"episode" jsonschema:"Episode number"`
	Message   string `json:"message,omitempty" jsonschema:"Optional message to share with the check-in"`
}

func (s *Server) registerAuthTools() {
	addTool(s, &ToolMetadata{
		Name:        "start_device_auth",
		Description: "Start the device authentication flow with Trakt",
		Category:    CategoryAuth,
		Keywords:    []string{"login", "oauth"},
	}, s.startDeviceAuth)

	addTool(s, &ToolMetadata{
		Name:        "check_auth_status",
		Description: "Check the status of an ongoing device authentication flow",
		Category:    CategoryAuth,
		Keywords:    []string{"login", "oauth"},
	}, s.checkAuthStatus)

	addTool(s, &ToolMetadata{
		Name:        "clear_auth",
		Description: "Clear the authentication token and log out of Trakt",
		Category:    CategoryAuth,
		Keywords:    []string{"logout"},
	}, s.clearAuth)
}

func (s *Server) registerUserTools() {
	addTool(s, &ToolMetadata{
		Name:         "fetch_user_watched_shows",
		Description:  "Fetch the shows the authenticated user has watched",
		Category:     CategoryUser,
		RequiresAuth: true,
		Keywords:     []string{"history"},
	}, s.fetchUserWatchedShows)

	addTool(s, &ToolMetadata{
		Name:         "fetch_user_watched_movies",
		Description:  "Fetch the movies the authenticated user has watched",
		Category:     CategoryUser,
		RequiresAuth: true,
		Keywords:     []string{"history"},
	}, s.fetchUserWatchedMovies)

	addTool(s, &ToolMetadata{
		Name:         "checkin_to_show",
		Description:  "Check in to an episode you are watching now",
		Category:     CategoryUser,
		RequiresAuth: true,
		Keywords:     []string{"watching", "scrobble"},
	}, s.checkinToShow)
}

func (s *Server) startDeviceAuth(ctx context.Context, _ noInput) (string, error) {
	res, err := s.flow.Start(ctx)
	if err != nil {
		return "", err
	}
	if res.State == auth.StateAuthenticated {
		return "You are already authenticated with Trakt.", nil
	}
	return format.DeviceInstructions(res.UserCode, res.VerificationURL, res.ExpiresIn), nil
}

func (s *Server) checkAuthStatus(ctx context.Context, _ noInput) (string, error) {
	res, err := s.flow.Check(ctx)
	if err != nil {
		return "", err
	}
	switch res.State {
	case auth.StateAuthenticated:
		return format.AuthSuccess, nil
	case auth.StateNotStarted:
		return "No active authentication flow. Use the `start_device_auth` tool to begin authentication.", nil
	case auth.StateExpired:
		return "Authentication flow expired. Please start a new one with the `start_device_auth` tool.", nil
	case auth.StateSlowDown:
		return format.WaitBeforePolling(res.Wait), nil
	default:
		return format.AuthPending(res.ExpiresIn), nil
	}
}

func (s *Server) clearAuth(ctx context.Context, _ noInput) (string, error) {
	had, err := s.flow.Logout(ctx)
	if err != nil {
		return "", err
	}
	if !had {
		return "You were not authenticated with Trakt.", nil
	}
	return "You have been successfully logged out of Trakt. Your authentication token has been cleared.", nil
}

func (s *Server) fetchUserWatchedShows(ctx context.Context, _ noInput) (string, error) {
	shows, err := s.client.UserWatchedShows(ctx)
	if err != nil {
		return "", err
	}
	return format.UserWatchedShows(shows), nil
}

func (s *Server) fetchUserWatchedMovies(ctx context.Context, _ noInput) (string, error) {
	movies, err := s.client.UserWatchedMovies(ctx)
	if err != nil {
		return "", err
	}
	return format.UserWatchedMovies(movies), nil
}

func (s *Server) checkinToShow(ctx context.Context, in checkinInput) (string, error) {
	req, err := checkinArg(in)
	if err != nil {
		return "", err
	}
	checkin, err := s.client.CheckinEpisode(ctx, req)
	if err != nil {
		return "", err
	}
	return format.Checkin(checkin), nil
}
