// Package format renders Trakt responses as markdown for tool and resource
// results.
package format

import (
	"fmt"
	"strings"

	"github.com/fyrsmithlabs/trakt-mcp/internal/trakt"
)

// Kind selects the noun used in headings.
type Kind string

const (
	Shows  Kind = "Shows"
	Movies Kind = "Movies"
)

type entry struct {
	title    string
	year     int
	overview string
	suffix   string
}

func titleYear(title string, year int) string {
	if title == "" {
		title = "Unknown"
	}
	if year > 0 {
		return fmt.Sprintf("%s (%d)", title, year)
	}
	return title
}

// PageInfo summarizes where n items sit in a paginated listing, with hints
// for the neighbouring pages. It is empty when no pagination was reported.
func PageInfo(p trakt.Pagination, n int) string {
	if !p.Known() {
		return ""
	}
	if p.PageCount <= 1 {
		return fmt.Sprintf("**%d total items**\n\n", p.ItemCount)
	}
	first := (p.Page-1)*p.Limit + 1
	last := min(first+n-1, p.ItemCount)

	var b strings.Builder
	fmt.Fprintf(&b, "**Page %d of %d (items %d-%d of %d)**\n\n", p.Page, p.PageCount, first, last, p.ItemCount)
	var nav []string
	if p.HasPrevious() {
		nav = append(nav, fmt.Sprintf("Previous: page %d", p.Page-1))
	}
	if p.HasNext() {
		nav = append(nav, fmt.Sprintf("Next: page %d", p.Page+1))
	}
	if len(nav) > 0 {
		fmt.Fprintf(&b, "**Navigation:** %s\n\n", strings.Join(nav, " | "))
	}
	return b.String()
}

func renderList(heading string, entries []entry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", heading)
	if len(entries) == 0 {
		b.WriteString("No results found.\n")
		return b.String()
	}
	for _, e := range entries {
		fmt.Fprintf(&b, "- **%s**", titleYear(e.title, e.year))
		if e.suffix != "" {
			fmt.Fprintf(&b, " - %s", e.suffix)
		}
		b.WriteString("\n")
		if e.overview != "" {
			fmt.Fprintf(&b, "  %s\n", e.overview)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// TrendingShows renders /shows/trending.
func TrendingShows(items []trakt.TrendingShow) string {
	entries := make([]entry, len(items))
	for i, it := range items {
		entries[i] = entry{it.Show.Title, it.Show.Year, it.Show.Overview, fmt.Sprintf("%d watchers", it.Watchers)}
	}
	return renderList("Trending Shows on Trakt", entries)
}

// TrendingMovies renders /movies/trending.
func TrendingMovies(items []trakt.TrendingMovie) string {
	entries := make([]entry, len(items))
	for i, it := range items {
		entries[i] = entry{it.Movie.Title, it.Movie.Year, it.Movie.Overview, fmt.Sprintf("%d watchers", it.Watchers)}
	}
	return renderList("Trending Movies on Trakt", entries)
}

// PopularShows renders /shows/popular.
func PopularShows(items []trakt.Show) string {
	entries := make([]entry, len(items))
	for i, s := range items {
		entries[i] = entry{title: s.Title, year: s.Year, overview: s.Overview}
	}
	return renderList("Popular Shows on Trakt", entries)
}

// PopularMovies renders /movies/popular.
func PopularMovies(items []trakt.Movie) string {
	entries := make([]entry, len(items))
	for i, m := range items {
		entries[i] = entry{title: m.Title, year: m.Year, overview: m.Overview}
	}
	return renderList("Popular Movies on Trakt", entries)
}

// FavoritedShows renders /shows/favorited.
func FavoritedShows(items []trakt.FavoritedShow) string {
	entries := make([]entry, len(items))
	for i, it := range items {
		entries[i] = entry{it.Show.Title, it.Show.Year, it.Show.Overview, fmt.Sprintf("Favorited by %d users", it.UserCount)}
	}
	return renderList("Most Favorited Shows on Trakt", entries)
}

// FavoritedMovies renders /movies/favorited.
func FavoritedMovies(items []trakt.FavoritedMovie) string {
	entries := make([]entry, len(items))
	for i, it := range items {
		entries[i] = entry{it.Movie.Title, it.Movie.Year, it.Movie.Overview, fmt.Sprintf("Favorited by %d users", it.UserCount)}
	}
	return renderList("Most Favorited Movies on Trakt", entries)
}

// PlayedShows renders /shows/played.
func PlayedShows(items []trakt.ShowStats) string {
	entries := make([]entry, len(items))
	for i, it := range items {
		entries[i] = entry{it.Show.Title, it.Show.Year, it.Show.Overview, playedSuffix(it.WatcherCount, it.PlayCount)}
	}
	return renderList("Most Played Shows on Trakt", entries)
}

// PlayedMovies renders /movies/played.
func PlayedMovies(items []trakt.MovieStats) string {
	entries := make([]entry, len(items))
	for i, it := range items {
		entries[i] = entry{it.Movie.Title, it.Movie.Year, it.Movie.Overview, playedSuffix(it.WatcherCount, it.PlayCount)}
	}
	return renderList("Most Played Movies on Trakt", entries)
}

// WatchedShows renders /shows/watched.
func WatchedShows(items []trakt.ShowStats) string {
	entries := make([]entry, len(items))
	for i, it := range items {
		entries[i] = entry{it.Show.Title, it.Show.Year, it.Show.Overview, fmt.Sprintf("Watched by %d users", it.WatcherCount)}
	}
	return renderList("Most Watched Shows on Trakt", entries)
}

// WatchedMovies renders /movies/watched.
func WatchedMovies(items []trakt.MovieStats) string {
	entries := make([]entry, len(items))
	for i, it := range items {
		entries[i] = entry{it.Movie.Title, it.Movie.Year, it.Movie.Overview, fmt.Sprintf("Watched by %d users", it.WatcherCount)}
	}
	return renderList("Most Watched Movies on Trakt", entries)
}

func playedSuffix(watchers, plays int) string {
	return fmt.Sprintf("%d watchers, %d plays", watchers, plays)
}

// Ratings renders a rating summary with its 10..1 distribution.
func Ratings(title string, r trakt.Ratings) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Ratings for %s\n\n", title)
	if r.Votes == 0 && len(r.Distribution) == 0 {
		b.WriteString("No ratings data available.")
		return b.String()
	}
	fmt.Fprintf(&b, "**Average Rating:** %.2f/10 from %d votes\n\n", r.Rating, r.Votes)
	if len(r.Distribution) == 0 {
		return b.String()
	}
	b.WriteString("## Rating Distribution\n\n")
	b.WriteString("| Rating | Votes | Percentage |\n")
	b.WriteString("|--------|-------|------------|\n")
	for score := 10; score >= 1; score-- {
		count := r.Distribution[fmt.Sprint(score)]
		pct := 0.0
		if r.Votes > 0 {
			pct = float64(count) / float64(r.Votes) * 100
		}
		fmt.Fprintf(&b, "| %d/10 | %d | %.1f%% |\n", score, count, pct)
	}
	return b.String()
}

// SearchResults renders search hits together with their Trakt ids, which
// the other tools accept.
func SearchResults(query string, kind Kind, results []trakt.SearchResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s matching %q\n\n", kind, query)
	if len(results) == 0 {
		b.WriteString("No results found.\n")
		return b.String()
	}
	for i, r := range results {
		var title string
		var year int
		var ids trakt.IDs
		switch {
		case r.Show != nil:
			title, year, ids = r.Show.Title, r.Show.Year, r.Show.IDs
		case r.Movie != nil:
			title, year, ids = r.Movie.Title, r.Movie.Year, r.Movie.IDs
		default:
			continue
		}
		fmt.Fprintf(&b, "%d. **%s** - ID: %d", i+1, titleYear(title, year), ids.Trakt)
		if ids.Slug != "" {
			fmt.Fprintf(&b, " (slug: %s)", ids.Slug)
		}
		b.WriteString("\n")
	}
	b.WriteString("\nUse the ID to request ratings or comments for a result.\n")
	return b.String()
}
