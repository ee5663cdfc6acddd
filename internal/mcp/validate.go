package mcp

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fyrsmithlabs/trakt-mcp/internal/mcperr"
	"github.com/fyrsmithlabs/trakt-mcp/internal/sanitize"
	"github.com/fyrsmithlabs/trakt-mcp/internal/trakt"
)

const (
	defaultLimit  = 10
	maxLimit      = 100
	defaultPeriod = trakt.PeriodWeekly
	defaultSort   = trakt.SortNewest
)

func invalidParam(field string, value any, message string) *mcperr.Error {
	return mcperr.Validation(message, mcperr.ValidationDetails{
		InvalidParams: []string{field},
		Details:       map[string]any{field: value},
	})
}

func missingParam(field, message string) *mcperr.Error {
	return mcperr.Validation(message, mcperr.ValidationDetails{
		MissingParams: []string{field},
	})
}

// limitArg applies the default to an omitted limit and bounds it.
func limitArg(limit int) (int, error) {
	if limit == 0 {
		return defaultLimit, nil
	}
	if limit < 1 || limit > maxLimit {
		return 0, invalidParam("limit", limit, fmt.Sprintf("limit must be between 1 and %d", maxLimit))
	}
	return limit, nil
}

// pageArg applies the default to an omitted page number.
func pageArg(page int) (int, error) {
	if page == 0 {
		return 1, nil
	}
	if page < 1 {
		return 0, invalidParam("page", page, "page must be a positive number")
	}
	return page, nil
}

func periodArg(period string) (trakt.Period, error) {
	if period == "" {
		return defaultPeriod, nil
	}
	p := trakt.Period(strings.ToLower(period))
	if !p.Valid() {
		return "", invalidParam("period", period, "period must be one of daily, weekly, monthly, yearly, all")
	}
	return p, nil
}

func sortArg(sort string) (trakt.CommentSort, error) {
	if sort == "" {
		return defaultSort, nil
	}
	s := trakt.CommentSort(strings.ToLower(sort))
	if !s.Valid() {
		return "", invalidParam("sort", sort, "sort must be one of newest, oldest, likes, replies")
	}
	return s, nil
}

// idArg requires a Trakt id, slug or IMDb id.
func idArg(id, field string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", missingParam(field, field+" is required")
	}
	if err := sanitize.ValidateTraktID(id, field); err != nil {
		return "", invalidParam(field, id, err.Error())
	}
	return id, nil
}

func seasonArg(season int) (int, error) {
	if season < 0 {
		return 0, invalidParam("season", season, "season must not be negative")
	}
	return season, nil
}

func episodeArg(episode int) (int, error) {
	if episode < 1 {
		return 0, invalidParam("episode", episode, "episode must be a positive number")
	}
	return episode, nil
}

func queryArg(query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", missingParam("query", "query is required")
	}
	return query, nil
}

func ratingTypeArg(t string, required bool) (trakt.RatingType, error) {
	if strings.TrimSpace(t) == "" {
		if required {
			return "", missingParam("rating_type", "rating_type is required")
		}
		return trakt.RatingMovies, nil
	}
	rt := trakt.RatingType(strings.ToLower(strings.TrimSpace(t)))
	if !rt.Valid() {
		return "", invalidParam("rating_type", t, "rating_type must be one of movies, shows, seasons, episodes")
	}
	return rt, nil
}

func ratingFilterArg(rating int) (int, error) {
	if rating < 0 || rating > 10 {
		return 0, invalidParam("rating", rating, "rating must be between 1 and 10")
	}
	return rating, nil
}

// ratingItemsArg converts the items of an add or remove. Each item needs a
// Trakt, IMDb or TMDB id, or a title; withRating also requires a score.
func ratingItemsArg(in []ratingItemInput, withRating bool) ([]trakt.RatingItem, error) {
	if len(in) == 0 {
		return nil, missingParam("items", "items must contain at least one item")
	}
	out := make([]trakt.RatingItem, 0, len(in))
	for i, it := range in {
		field := fmt.Sprintf("items[%d]", i)
		item := trakt.RatingItem{
			Title: strings.TrimSpace(it.Title),
			Year:  it.Year,
			IDs:   trakt.IDs{IMDB: strings.TrimSpace(it.IMDBID)},
		}
		if withRating {
			if it.Rating < 1 || it.Rating > 10 {
				return nil, invalidParam(field+".rating", it.Rating, "rating must be between 1 and 10")
			}
			item.Rating = it.Rating
		}
		if id := strings.TrimSpace(it.TraktID); id != "" {
			n, err := strconv.Atoi(id)
			if err != nil || n < 1 {
				return nil, invalidParam(field+".trakt_id", it.TraktID, "trakt_id must be a numeric Trakt ID")
			}
			item.IDs.Trakt = n
		}
		if id := strings.TrimSpace(it.TMDBID); id != "" {
			n, err := strconv.Atoi(id)
			if err != nil || n < 1 {
				return nil, invalidParam(field+".tmdb_id", it.TMDBID, "tmdb_id must be a numeric TMDB ID")
			}
			item.IDs.TMDB = n
		}
		if it.Year != 0 && it.Year <= 1800 {
			return nil, invalidParam(field+".year", it.Year, "year must be after 1800")
		}
		if item.IDs == (trakt.IDs{}) && item.Title == "" {
			return nil, invalidParam(field, it, "each item needs trakt_id, imdb_id, tmdb_id or title")
		}
		out = append(out, item)
	}
	return out, nil
}

// checkinArg validates a check-in: a show id, or a title, plus a positive
// season and episode.
func checkinArg(in checkinInput) (trakt.CheckinRequest, error) {
	req := trakt.CheckinRequest{
		ShowTitle: strings.TrimSpace(in.ShowTitle),
		ShowYear:  in.ShowYear,
		Message:   in.Message,
	}
	if strings.TrimSpace(in.ShowID) == "" && req.ShowTitle == "" {
		return req, mcperr.Validation("Either show_id or show_title must be provided",
			mcperr.ValidationDetails{MissingParams: []string{"show_id", "show_title"}})
	}
	if strings.TrimSpace(in.ShowID) != "" {
		id, err := idArg(in.ShowID, "show_id")
		if err != nil {
			return req, err
		}
		req.ShowID = id
	}
	if in.Season < 1 {
		return req, invalidParam("season", in.Season, "season must be a positive number")
	}
	episode, err := episodeArg(in.Episode)
	if err != nil {
		return req, err
	}
	req.Season, req.Episode = in.Season, episode
	return req, nil
}
