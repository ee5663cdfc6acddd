package mcp

import (
	"context"

	"github.com/fyrsmithlabs/trakt-mcp/internal/format"
)

type userRatingsInput struct {
	RatingType string `json:"rating_type,omitempty" jsonschema:"Type of ratings: movies, shows, seasons or episodes (default movies)"`
	Rating     int    `json:"rating,omitempty" jsonschema:"Only return items with this rating (1-10)"`
}

type ratingItemInput struct {
	Rating  int    `json:"rating,omitempty" jsonschema:"Rating from 1 to 10, required when adding"`
	TraktID string `json:"trakt_id,omitempty" jsonschema:"Numeric Trakt ID"`
	IMDBID  string `json:"imdb_id,omitempty" jsonschema:"IMDb ID"`
	TMDBID  string `json:"tmdb_id,omitempty" jsonschema:"Numeric TMDB ID"`
	Title   string `json:"title,omitempty" jsonschema:"Title, used when no id is given"`
	Year    int    `json:"year,omitempty" jsonschema:"Release year to disambiguate title"`
}

type ratingItemsInput struct {
	RatingType string            `json:"rating_type" jsonschema:"Type of items: movies, shows, seasons or episodes"`
	Items      []ratingItemInput `json:"items" jsonschema:"Items to rate or unrate"`
}

func (s *Server) registerSyncTools() {
	addTool(s, &ToolMetadata{
		Name:         "fetch_user_ratings",
		Description:  "Fetch the authenticated user's personal ratings",
		Category:     CategorySync,
		RequiresAuth: true,
		Keywords:     []string{"rated", "scores"},
	}, s.fetchUserRatings)

	addTool(s, &ToolMetadata{
		Name:         "add_user_ratings",
		Description:  "Rate movies, shows, seasons or episodes for the authenticated user",
		Category:     CategorySync,
		RequiresAuth: true,
		Keywords:     []string{"rate", "scores"},
	}, s.addUserRatings)

	addTool(s, &ToolMetadata{
		Name:         "remove_user_ratings",
		Description:  "Remove the authenticated user's ratings of the given items",
		Category:     CategorySync,
		RequiresAuth: true,
		Keywords:     []string{"unrate", "scores"},
	}, s.removeUserRatings)
}

func (s *Server) fetchUserRatings(ctx context.Context, in userRatingsInput) (string, error) {
	t, err := ratingTypeArg(in.RatingType, false)
	if err != nil {
		return "", err
	}
	rating, err := ratingFilterArg(in.Rating)
	if err != nil {
		return "", err
	}
	ratings, err := s.client.UserRatings(ctx, t, rating)
	if err != nil {
		return "", err
	}
	return format.UserRatings(ratings, t, rating), nil
}

func (s *Server) addUserRatings(ctx context.Context, in ratingItemsInput) (string, error) {
	t, err := ratingTypeArg(in.RatingType, true)
	if err != nil {
		return "", err
	}
	items, err := ratingItemsArg(in.Items, true)
	if err != nil {
		return "", err
	}
	res, err := s.client.AddRatings(ctx, t, items)
	if err != nil {
		return "", err
	}
	return format.RatingsSync(res, "added", t), nil
}

func (s *Server) removeUserRatings(ctx context.Context, in ratingItemsInput) (string, error) {
	t, err := ratingTypeArg(in.RatingType, true)
	if err != nil {
		return "", err
	}
	items, err := ratingItemsArg(in.Items, false)
	if err != nil {
		return "", err
	}
	res, err := s.client.RemoveRatings(ctx, t, items)
	if err != nil {
		return "", err
	}
	return format.RatingsSync(res, "removed", t), nil
}
