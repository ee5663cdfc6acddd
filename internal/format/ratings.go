package format

import (
	"fmt"
	"slices"
	"strings"

	"github.com/fyrsmithlabs/trakt-mcp/internal/trakt"
)

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// UserRatings renders the user's ratings of type t, grouped by score with
// the highest first. filter is the score the listing was limited to, or 0.
func UserRatings(items []trakt.UserRating, t trakt.RatingType, filter int) string {
	var b strings.Builder
	kind := string(t)
	if len(items) == 0 {
		var suffix string
		if filter > 0 {
			suffix = fmt.Sprintf(" with rating %d", filter)
		}
		fmt.Fprintf(&b, "# Your %s Ratings%s\n\n", capitalize(kind), suffix)
		fmt.Fprintf(&b, "You haven't rated any %s yet%s. Use the `add_user_ratings` tool to add ratings for your %s.", kind, suffix, kind)
		return b.String()
	}

	fmt.Fprintf(&b, "# Your %s Ratings", capitalize(kind))
	if filter > 0 {
		fmt.Fprintf(&b, " (filtered to rating %d)", filter)
	}
	fmt.Fprintf(&b, "\n\nFound %d rated %s:\n\n", len(items), kind)

	byScore := map[int][]trakt.UserRating{}
	for _, it := range items {
		byScore[it.Rating] = append(byScore[it.Rating], it)
	}
	scores := make([]int, 0, len(byScore))
	for score := range byScore {
		scores = append(scores, score)
	}
	slices.Sort(scores)
	slices.Reverse(scores)

	for _, score := range scores {
		group := byScore[score]
		fmt.Fprintf(&b, "## Rating %d/10 (%d %s)\n\n", score, len(group), kind)
		for _, it := range group {
			date := "Unknown date"
			if !it.RatedAt.IsZero() {
				date = it.RatedAt.UTC().Format("2006-01-02")
			}
			fmt.Fprintf(&b, "- **%s** (rated %s)\n", ratedTitle(it), date)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func ratedTitle(r trakt.UserRating) string {
	switch {
	case r.Movie != nil:
		return titleYear(r.Movie.Title, r.Movie.Year)
	case r.Show != nil && r.Episode != nil:
		title := fmt.Sprintf("%s - S%02dE%02d", r.Show.Title, r.Episode.Season, r.Episode.Number)
		if r.Episode.Title != "" {
			title += ": " + r.Episode.Title
		}
		return yearSuffix(title, r.Show.Year)
	case r.Show != nil && r.Season != nil:
		return yearSuffix(fmt.Sprintf("%s - Season %d", r.Show.Title, r.Season.Number), r.Show.Year)
	case r.Show != nil:
		return titleYear(r.Show.Title, r.Show.Year)
	}
	return "Unknown"
}

func yearSuffix(title string, year int) string {
	if year > 0 {
		return fmt.Sprintf("%s (%d)", title, year)
	}
	return title
}

// RatingsSync renders the result of adding or removing ratings. op is
// "added" or "removed".
func RatingsSync(res trakt.RatingsSync, op string, t trakt.RatingType) string {
	var b strings.Builder
	kind := string(t)
	fmt.Fprintf(&b, "# Ratings %s - %s\n\n", capitalize(op), capitalize(kind))

	counts := res.Added
	if op == "removed" {
		counts = res.Removed
	}
	if counts != nil && counts.Of(t) > 0 {
		fmt.Fprintf(&b, "Successfully %s **%d** %s rating(s).\n\n", op, counts.Of(t), kind)
		var breakdown []string
		for _, other := range []trakt.RatingType{trakt.RatingMovies, trakt.RatingShows, trakt.RatingSeasons, trakt.RatingEpisodes} {
			if n := counts.Of(other); n > 0 {
				breakdown = append(breakdown, fmt.Sprintf("- %s: %d\n", capitalize(string(other)), n))
			}
		}
		if len(breakdown) > 1 {
			b.WriteString("### Breakdown by Type\n")
			b.WriteString(strings.Join(breakdown, ""))
			b.WriteString("\n")
		}
	} else {
		fmt.Fprintf(&b, "No %s ratings were %s.\n\n", kind, op)
	}

	missing := res.NotFound.Of(t)
	if len(missing) == 0 {
		return b.String()
	}
	fmt.Fprintf(&b, "## Items Not Found (%d)\n\n", len(missing))
	b.WriteString("The following items could not be found on Trakt:\n\n")
	for _, it := range missing {
		fmt.Fprintf(&b, "- %s\n", ratingItemName(it))
	}
	b.WriteString("\nPlease check the titles, years, and IDs for accuracy.\n")
	return b.String()
}

func ratingItemName(it trakt.RatingItem) string {
	if it.Title != "" {
		return yearSuffix(it.Title, it.Year)
	}
	var parts []string
	if it.IDs.Trakt != 0 {
		parts = append(parts, fmt.Sprintf("trakt: %d", it.IDs.Trakt))
	}
	if it.IDs.IMDB != "" {
		parts = append(parts, "imdb: "+it.IDs.IMDB)
	}
	if it.IDs.TMDB != 0 {
		parts = append(parts, fmt.Sprintf("tmdb: %d", it.IDs.TMDB))
	}
	if it.IDs.Slug != "" {
		parts = append(parts, "slug: "+it.IDs.Slug)
	}
	if len(parts) == 0 {
		return "Unknown item"
	}
	return strings.Join(parts, ", ")
}
