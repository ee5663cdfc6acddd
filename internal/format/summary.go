package format

import (
	"fmt"
	"strings"

	"github.com/fyrsmithlabs/trakt-mcp/internal/trakt"
)

// field writes "**label:** value" when value is set.
func field(b *strings.Builder, label, value string) {
	if value != "" {
		fmt.Fprintf(b, "**%s:** %s\n", label, value)
	}
}

func minutes(n int) string {
	if n <= 0 {
		return ""
	}
	return fmt.Sprintf("%d minutes", n)
}

func communityRating(rating float64, votes int) string {
	if votes == 0 {
		return ""
	}
	return fmt.Sprintf("%.1f/10 (%d votes)", rating, votes)
}

func idLine(ids trakt.IDs) string {
	var parts []string
	if ids.Trakt != 0 {
		parts = append(parts, fmt.Sprintf("Trakt %d", ids.Trakt))
	}
	if ids.Slug != "" {
		parts = append(parts, "slug "+ids.Slug)
	}
	if ids.IMDB != "" {
		parts = append(parts, "IMDb "+ids.IMDB)
	}
	return strings.Join(parts, ", ")
}

// ShowSummary renders /shows/{id}. Fields absent from a basic response are
// skipped.
func ShowSummary(s trakt.ShowDetails) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", titleYear(s.Title, s.Year))
	field(&b, "Status", s.Status)
	if s.FirstAired != nil {
		field(&b, "First Aired", formatTime(*s.FirstAired))
	}
	if s.Airs.Day != "" {
		field(&b, "Air Time", strings.TrimSpace(fmt.Sprintf("%s %s %s", s.Airs.Day, s.Airs.Time, s.Airs.Timezone)))
	}
	field(&b, "Network", s.Network)
	field(&b, "Country", strings.ToUpper(s.Country))
	field(&b, "Runtime", minutes(s.Runtime))
	field(&b, "Certification", s.Certification)
	if s.AiredEpisodes > 0 {
		field(&b, "Aired Episodes", fmt.Sprint(s.AiredEpisodes))
	}
	field(&b, "Rating", communityRating(s.Rating, s.Votes))
	field(&b, "Genres", strings.Join(s.Genres, ", "))
	field(&b, "Language", s.Language)
	field(&b, "Homepage", s.Homepage)
	field(&b, "Trailer", s.Trailer)
	field(&b, "IDs", idLine(s.IDs))
	if s.Overview != "" {
		fmt.Fprintf(&b, "\n## Overview\n\n%s\n", s.Overview)
	}
	return b.String()
}

// MovieSummary renders /movies/{id}. Fields absent from a basic response
// are skipped.
func MovieSummary(m trakt.MovieDetails) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", titleYear(m.Title, m.Year))
	if m.Tagline != "" {
		fmt.Fprintf(&b, "*%s*\n\n", m.Tagline)
	}
	field(&b, "Status", m.Status)
	field(&b, "Released", m.Released)
	field(&b, "Country", strings.ToUpper(m.Country))
	field(&b, "Runtime", minutes(m.Runtime))
	field(&b, "Certification", m.Certification)
	field(&b, "Rating", communityRating(m.Rating, m.Votes))
	field(&b, "Genres", strings.Join(m.Genres, ", "))
	field(&b, "Language", m.Language)
	field(&b, "Homepage", m.Homepage)
	field(&b, "Trailer", m.Trailer)
	field(&b, "IDs", idLine(m.IDs))
	if m.Overview != "" {
		fmt.Fprintf(&b, "\n## Overview\n\n%s\n", m.Overview)
	}
	return b.String()
}
