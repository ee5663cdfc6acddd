package trakt

import "time"

// IDs identifies a show, movie or episode across catalogues.
type IDs struct {
	Trakt int    `json:"trakt,omitempty"`
	Slug  string `json:"slug,omitempty"`
	IMDB  string `json:"imdb,omitempty"`
	TMDB  int    `json:"tmdb,omitempty"`
	TVDB  int    `json:"tvdb,omitempty"`
}

// Show is the minimal show representation. Overview is only
// present when the request asked for extended info.
type Show struct {
	Title    string `json:"title"`
	Year     int    `json:"year,omitempty"`
	IDs      IDs    `json:"ids"`
	Overview string `json:"overview,omitempty"`
}

// Movie is the minimal movie representation. Overview is only
// present when the request asked for extended info.
type Movie struct {
	Title    string `json:"title"`
	Year     int    `json:"year,omitempty"`
	IDs      IDs    `json:"ids"`
	Overview string `json:"overview,omitempty"`
}

// Episode is the minimal episode representation.
type Episode struct {
	Season int    `json:"season"`
	Number int    `json:"number"`
	Title  string `json:"title,omitempty"`
	IDs    IDs    `json:"ids"`
}

// TrendingShow is an entry of /shows/trending.
type TrendingShow struct {
	Watchers int  `json:"watchers"`
	Show     Show `json:"show"`
}

// TrendingMovie is an entry of /movies/trending.
type TrendingMovie struct {
	Watchers int   `json:"watchers"`
	Movie    Movie `json:"movie"`
}

// FavoritedShow is an entry of /shows/favorited.
type FavoritedShow struct {
	UserCount int  `json:"user_count"`
	Show      Show `json:"show"`
}

// FavoritedMovie is an entry of /movies/favorited.
type FavoritedMovie struct {
	UserCount int   `json:"user_count"`
	Movie     Movie `json:"movie"`
}

// ShowStats is an entry of /shows/played and /shows/watched.
type ShowStats struct {
	WatcherCount   int  `json:"watcher_count"`
	PlayCount      int  `json:"play_count"`
	CollectedCount int  `json:"collected_count"`
	CollectorCount int  `json:"collector_count"`
	Show           Show `json:"show"`
}

// MovieStats is an entry of /movies/played and /movies/watched.
type MovieStats struct {
	WatcherCount   int   `json:"watcher_count"`
	PlayCount      int   `json:"play_count"`
	CollectedCount int   `json:"collected_count"`
	CollectorCount int   `json:"collector_count"`
	Movie          Movie `json:"movie"`
}

// Ratings is the rating summary of a show or movie. Distribution maps
// "1".."10" to vote counts.
type Ratings struct {
	Rating       float64        `json:"rating"`
	Votes        int            `json:"votes"`
	Distribution map[string]int `json:"distribution"`
}

// SearchResult is an entry of /search/{type}.
type SearchResult struct {
	Type  string  `json:"type"`
	Score float64 `json:"score"`
	Show  *Show   `json:"show,omitempty"`
	Movie *Movie  `json:"movie,omitempty"`
}

// User is the public part of a Trakt profile.
type User struct {
	Username string `json:"username"`
	Name     string `json:"name,omitempty"`
	Private  bool   `json:"private"`
	VIP      bool   `json:"vip"`
}

// Comment is a shout or review.
type Comment struct {
	ID        int       `json:"id"`
	ParentID  int       `json:"parent_id"`
	Comment   string    `json:"comment"`
	Spoiler   bool      `json:"spoiler"`
	Review    bool      `json:"review"`
	CreatedAt time.Time `json:"created_at"`
	Replies   int       `json:"replies"`
	Likes     int       `json:"likes"`
	UserStats struct {
		Rating int `json:"rating"`
	} `json:"user_stats"`
	User User `json:"user"`
}

// WatchedEpisode is one episode of a watched-show record.
type WatchedEpisode struct {
	Number        int       `json:"number"`
	Plays         int       `json:"plays"`
	LastWatchedAt time.Time `json:"last_watched_at"`
}

// WatchedSeason groups watched episodes.
type WatchedSeason struct {
	Number   int              `json:"number"`
	Episodes []WatchedEpisode `json:"episodes"`
}

// WatchedShow is an entry of /sync/watched/shows.
type WatchedShow struct {
	Plays         int             `json:"plays"`
	LastWatchedAt time.Time       `json:"last_watched_at"`
	Show          Show            `json:"show"`
	Seasons       []WatchedSeason `json:"seasons,omitempty"`
}

// WatchedMovie is an entry of /sync/watched/movies.
type WatchedMovie struct {
	Plays         int       `json:"plays"`
	LastWatchedAt time.Time `json:"last_watched_at"`
	Movie         Movie     `json:"movie"`
}

// CheckinRequest checks the user in to an episode. Show is addressed by
// Trakt id when set, otherwise by title and optional year.
type CheckinRequest struct {
	ShowID    string
	ShowTitle string
	ShowYear  int
	Season    int
	Episode   int
	Message   string
}

// Sharing selects where a check-in is posted.
type Sharing struct {
	Twitter  bool `json:"twitter,omitempty"`
	Mastodon bool `json:"mastodon,omitempty"`
	Tumblr   bool `json:"tumblr,omitempty"`
}

// Checkin is the response of POST /checkin.
type Checkin struct {
	ID        int64     `json:"id"`
	WatchedAt time.Time `json:"watched_at"`
	Sharing   Sharing   `json:"sharing"`
	Episode   Episode   `json:"episode"`
	Show      Show      `json:"show"`
}

// DeviceCode is the response of POST /oauth/device/code.
type DeviceCode struct {
	DeviceCode      string `json:"device_code"`
	UserCode        string `json:"user_code"`
	VerificationURL string `json:"verification_url"`
	ExpiresIn       int    `json:"expires_in"`
	Interval        int    `json:"interval"`
}

// Pagination is read from the X-Pagination-* response headers.
type Pagination struct {
	Page      int
	Limit     int
	PageCount int
	ItemCount int
}

// Known reports whether the response carried pagination headers.
func (p Pagination) Known() bool { return p.Page > 0 }

// HasNext reports whether a later page exists.
func (p Pagination) HasNext() bool { return p.Page > 0 && p.Page < p.PageCount }

// HasPrevious reports whether an earlier page exists.
func (p Pagination) HasPrevious() bool { return p.Page > 1 }

// Page is one page of a listing together with its pagination headers.
type Page[T any] struct {
	Items      []T
	Pagination Pagination
}

// ListOptions selects one page of a listing. Zero values leave the choice
// to Trakt.
type ListOptions struct {
	Limit int
	Page  int
}

func (o ListOptions) params() map[string]any {
	return map[string]any{"limit": o.Limit, "page": o.Page}
}
