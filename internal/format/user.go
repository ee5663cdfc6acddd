package format

import (
	"fmt"
	"strings"
	"time"

	"github.com/fyrsmithlabs/trakt-mcp/internal/trakt"
)

const dateLayout = "2006-01-02 15:04:05"

// Comments renders one page of a comment listing. Spoilers are hidden
// unless showSpoilers is set.
func Comments(title string, page trakt.Page[trakt.Comment], showSpoilers bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Comments for %s\n\n", title)
	spoilerNote(&b, showSpoilers)
	if len(page.Items) == 0 {
		b.WriteString("No comments found.")
		return b.String()
	}
	b.WriteString(PageInfo(page.Pagination, len(page.Items)))

	for _, c := range page.Items {
		fmt.Fprintf(&b, "### %s%s - %s\n", username(c), commentTags(c), formatTime(c.CreatedAt))
		commentBody(&b, c.Comment, c.Spoiler, "comment", showSpoilers)
		fmt.Fprintf(&b, "*Likes: %d | Replies: %d | ID: %d*\n\n---\n\n", c.Likes, c.Replies, c.ID)
	}
	return b.String()
}

// Comment renders a single comment. replies, when non-nil, is rendered
// below it.
func Comment(c trakt.Comment, replies *trakt.Page[trakt.Comment], showSpoilers bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Comment by %s%s\n\n", username(c), commentTags(c))
	spoilerNote(&b, showSpoilers)
	fmt.Fprintf(&b, "**Posted:** %s\n\n", formatTime(c.CreatedAt))
	commentBody(&b, c.Comment, c.Spoiler, "comment", showSpoilers)
	fmt.Fprintf(&b, "*Likes: %d | Replies: %d | ID: %d*\n\n", c.Likes, c.Replies, c.ID)

	if replies == nil {
		return b.String()
	}
	b.WriteString("## Replies\n\n")
	if len(replies.Items) == 0 {
		b.WriteString("No replies yet.\n")
		return b.String()
	}
	b.WriteString(PageInfo(replies.Pagination, len(replies.Items)))
	for _, r := range replies.Items {
		fmt.Fprintf(&b, "### %s%s - %s\n", username(r), commentTags(r), formatTime(r.CreatedAt))
		commentBody(&b, r.Comment, r.Spoiler, "reply", showSpoilers)
		fmt.Fprintf(&b, "*ID: %d*\n\n---\n\n", r.ID)
	}
	return b.String()
}

func spoilerNote(b *strings.Builder, showSpoilers bool) {
	if showSpoilers {
		b.WriteString("**Note: Showing all spoilers**\n\n")
	} else {
		b.WriteString("**Note: Spoilers are hidden. Set `show_spoilers` to view them.**\n\n")
	}
}

func username(c trakt.Comment) string {
	if c.User.Username == "" {
		return "Anonymous"
	}
	return c.User.Username
}

func commentTags(c trakt.Comment) string {
	var tags string
	if c.Review {
		tags += " [REVIEW]"
	}
	if c.Spoiler {
		tags += " [SPOILER]"
	}
	return tags
}

// commentBody writes text, or a warning in its place when it is a hidden
// spoiler. noun names what is hidden.
func commentBody(b *strings.Builder, text string, spoiler bool, noun string, showSpoilers bool) {
	if (spoiler || strings.Contains(text, "[spoiler]")) && !showSpoilers {
		b.WriteString("**SPOILER WARNING**\n\n")
		fmt.Fprintf(b, "*This %s contains spoilers. Set `show_spoilers` to view it.*\n\n", noun)
		return
	}
	text = strings.NewReplacer("[spoiler]", "", "[/spoiler]", "").Replace(text)
	fmt.Fprintf(b, "%s\n\n", text)
}

// UserWatchedShows renders the user's watched-show history.
func UserWatchedShows(items []trakt.WatchedShow) string {
	var b strings.Builder
	b.WriteString("# Your Watched Shows on Trakt\n\n")
	if len(items) == 0 {
		b.WriteString("You haven't watched any shows yet, or you need to authenticate first.")
		return b.String()
	}
	for _, it := range items {
		fmt.Fprintf(&b, "- **%s** - Watched: %s - Plays: %d\n",
			titleYear(it.Show.Title, it.Show.Year), formatTime(it.LastWatchedAt), it.Plays)
		if n := episodeCount(it.Seasons); n > 0 {
			fmt.Fprintf(&b, "  %d episodes across %d seasons\n", n, len(it.Seasons))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// UserWatchedMovies renders the user's watched-movie history.
func UserWatchedMovies(items []trakt.WatchedMovie) string {
	var b strings.Builder
	b.WriteString("# Your Watched Movies on Trakt\n\n")
	if len(items) == 0 {
		b.WriteString("You haven't watched any movies yet, or you need to authenticate first.")
		return b.String()
	}
	for _, it := range items {
		fmt.Fprintf(&b, "- **%s** - Watched: %s - Plays: %d\n\n",
			titleYear(it.Movie.Title, it.Movie.Year), formatTime(it.LastWatchedAt), it.Plays)
	}
	return b.String()
}

func episodeCount(seasons []trakt.WatchedSeason) int {
	n := 0
	for _, s := range seasons {
		n += len(s.Episodes)
	}
	return n
}

// Checkin renders a successful check-in.
func Checkin(c trakt.Checkin) string {
	var b strings.Builder
	b.WriteString("# Successfully Checked In\n\n")
	fmt.Fprintf(&b, "**Show:** %s\n", titleYear(c.Show.Title, c.Show.Year))
	fmt.Fprintf(&b, "**Episode:** S%02dE%02d", c.Episode.Season, c.Episode.Number)
	if c.Episode.Title != "" {
		fmt.Fprintf(&b, " - %s", c.Episode.Title)
	}
	b.WriteString("\n")
	if !c.WatchedAt.IsZero() {
		fmt.Fprintf(&b, "**Watched at:** %s\n", formatTime(c.WatchedAt))
	}
	fmt.Fprintf(&b, "**Checkin ID:** %d\n", c.ID)
	return b.String()
}

// AuthStatus renders whether a user token is present.
func AuthStatus(authenticated bool, expiresAt time.Time) string {
	if !authenticated {
		return "# Authentication Status\n\nYou are not authenticated with Trakt.\nUse the `start_device_auth` tool to authenticate."
	}
	return fmt.Sprintf("# Authentication Status\n\nYou are authenticated with Trakt.\nToken expires at: %s", formatTime(expiresAt))
}

// DeviceInstructions renders the steps for approving a device code.
func DeviceInstructions(userCode, verificationURL string, expiresIn int) string {
	return fmt.Sprintf(`# Trakt Authentication Required

To access your personal Trakt data, you need to authenticate with Trakt.

1. Visit: **%s**
2. Enter code: **%s**
3. Complete the authorization process on the Trakt website
4. **Important**: After authorizing, tell me "I've completed the authorization" so I can check your authentication status.

This code will expire in %d minutes.
`, verificationURL, userCode, expiresIn/60)
}

// AuthSuccess is shown once a token is available.
const AuthSuccess = `# Authentication Successful!

You are authenticated with Trakt. You can access your personal data using tools like ` + "`fetch_user_watched_shows`" + ` and ` + "`fetch_user_watched_movies`" + `.

If you want to log out at any point, use the ` + "`clear_auth`" + ` tool.`

// AuthPending is shown while the device code awaits approval.
func AuthPending(remaining int) string {
	return fmt.Sprintf(`# Authorization Pending

I don't see that you've completed the authorization yet. Please make sure to:

1. Visit the Trakt activation page
2. Enter your code
3. Approve the authorization request

The code remains valid for %d more seconds.`, remaining)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "Unknown date"
	}
	return t.UTC().Format(dateLayout)
}

// WaitBeforePolling asks the caller to respect the poll interval.
func WaitBeforePolling(seconds int) string {
	return fmt.Sprintf("Please wait %d seconds before checking again.", seconds)
}
