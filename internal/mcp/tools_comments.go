package mcp

import (
	"context"
	"fmt"

	"github.com/fyrsmithlabs/trakt-mcp/internal/format"
	"github.com/fyrsmithlabs/trakt-mcp/internal/trakt"
)

func commentArgs(sort string, limit, page int) (trakt.CommentSort, trakt.ListOptions, error) {
	cs, err := sortArg(sort)
	if err != nil {
		return "", trakt.ListOptions{}, err
	}
	n, err := limitArg(limit)
	if err != nil {
		return "", trakt.ListOptions{}, err
	}
	p, err := pageArg(page)
	if err != nil {
		return "", trakt.ListOptions{}, err
	}
	return cs, trakt.ListOptions{Limit: n, Page: p}, nil
}

type showCommentsInput struct {
	ShowID       string `json:"show_id" jsonschema:"Trakt ID, slug or IMDb ID of the show"`
	Sort         string `json:"sort,omitempty" jsonschema:"Sort order: newest, oldest, likes or replies (default newest)"`
	Limit        int    `json:"limit,omitempty" jsonschema:"Maximum number of comments (1-100, default 10)"`
	Page         int    `json:"page,omitempty" jsonschema:"Page number, starting at 1 (default 1)"`
	ShowSpoilers bool   `json:"show_spoilers,omitempty" jsonschema:"Show spoiler comments in full"`
}

type seasonCommentsInput struct {
	ShowID       string `json:"show_id" jsonschema:"Trakt ID, slug or IMDb ID of the show"`
	Season       int    `json:"season" jsonschema:"Season number (0 for specials)"`
	Sort         string `json:"sort,omitempty" jsonschema:"Sort order: newest, oldest, likes or replies (default newest)"`
	Limit        int    `json:"limit,omitempty" jsonschema:"Maximum number of comments (1-100, default 10)"`
	Page         int    `json:"page,omitempty" jsonschema:"Page number, starting at 1 (default 1)"`
	ShowSpoilers bool   `json:"show_spoilers,omitempty" jsonschema:"Show spoiler comments in full"`
}

type episodeCommentsInput struct {
	ShowID       string `json:"show_id" jsonschema:"Trakt ID, slug or IMDb ID of the show"`
	Season       int    `json:"season" jsonschema:"Season number (0 for specials)"`
	Episode      int    `json:"episode" jsonschema:"Episode number"`
	Sort         string `json:"sort,omitempty" jsonschema:"Sort order: newest, oldest, likes or replies (default newest)"`
	Limit        int    `json:"limit,omitempty" jsonschema:"Maximum number of comments (1-100, default 10)"`
	Page         int    `json:"page,omitempty" jsonschema:"Page number, starting at 1 (default 1)"`
	ShowSpoilers bool   `json:"show_spoilers,omitempty" jsonschema:"Show spoiler comments in full"`
}

type commentInput struct {
	CommentID    string `json:"comment_id" jsonschema:"Trakt ID of the comment"`
	ShowSpoilers bool   `json:"show_spoilers,omitempty" jsonschema:"Show spoiler comments in full"`
}

type commentRepliesInput struct {
	CommentID    string `json:"comment_id" jsonschema:"Trakt ID of the comment"`
	Sort         string `json:"sort,omitempty" jsonschema:"Sort order: newest, oldest, likes or replies (default newest)"`
	Limit        int    `json:"limit,omitempty" jsonschema:"Maximum number of replies (1-100, default 10)"`
	Page         int    `json:"page,omitempty" jsonschema:"Page number, starting at 1 (default 1)"`
	ShowSpoilers bool   `json:"show_spoilers,omitempty" jsonschema:"Show spoiler replies in full"`
}

type movieCommentsInput struct {
	MovieID      string `json:"movie_id" jsonschema:"Trakt ID, slug or IMDb ID of the movie"`
	Sort         string `json:"sort,omitempty" jsonschema:"Sort order: newest, oldest, likes or replies (default newest)"`
	Limit        int    `json:"limit,omitempty" jsonschema:"Maximum number of comments (1-100, default 10)"`
	Page         int    `json:"page,omitempty" jsonschema:"Page number, starting at 1 (default 1)"`
	ShowSpoilers bool   `json:"show_spoilers,omitempty" jsonschema:"Show spoiler comments in full"`
}

func (s *Server) registerCommentTools() {
	addTool(s, &ToolMetadata{
		Name:        "fetch_show_comments",
		Description: "Fetch comments on a show",
		Category:    CategoryComments,
		Keywords:    []string{"reviews", "shouts"},
	}, s.fetchShowComments)

	addTool(s, &ToolMetadata{
		Name:        "fetch_season_comments",
		Description: "Fetch comments on a season of a show",
		Category:    CategoryComments,
		Keywords:    []string{"reviews", "shouts"},
	}, s.fetchSeasonComments)

	addTool(s, &ToolMetadata{
		Name:        "fetch_episode_comments",
		Description: "Fetch comments on an episode of a show",
		Category:    CategoryComments,
		Keywords:    []string{"reviews", "shouts"},
	}, s.fetchEpisodeComments)

	addTool(s, &ToolMetadata{
		Name:        "fetch_movie_comments",
		Description: "Fetch comments on a movie",
		Category:    CategoryComments,
		Keywords:    []string{"reviews", "shouts"},
	}, s.fetchMovieComments)

	addTool(s, &ToolMetadata{
		Name:        "fetch_comment",
		Description: "Fetch a single comment by its Trakt ID",
		Category:    CategoryComments,
		Keywords:    []string{"shout", "review"},
	}, s.fetchComment)

	addTool(s, &ToolMetadata{
		Name:        "fetch_comment_replies",
		Description: "Fetch a comment together with its replies",
		Category:    CategoryComments,
		Keywords:    []string{"thread", "responses"},
	}, s.fetchCommentReplies)
}

func (s *Server) fetchShowComments(ctx context.Context, in showCommentsInput) (string, error) {
	id, err := idArg(in.ShowID, "show_id")
	if err != nil {
		return "", err
	}
	sort, opts, err := commentArgs(in.Sort, in.Limit, in.Page)
	if err != nil {
		return "", err
	}
	comments, err := s.client.ShowComments(ctx, id, sort, opts)
	if err != nil {
		return "", err
	}
	return format.Comments("show "+id, comments, in.ShowSpoilers), nil
}

func (s *Server) fetchSeasonComments(ctx context.Context, in seasonCommentsInput) (string, error) {
	id, err := idArg(in.ShowID, "show_id")
	if err != nil {
		return "", err
	}
	season, err := seasonArg(in.Season)
	if err != nil {
		return "", err
	}
	sort, opts, err := commentArgs(in.Sort, in.Limit, in.Page)
	if err != nil {
		return "", err
	}
	comments, err := s.client.SeasonComments(ctx, id, season, sort, opts)
	if err != nil {
		return "", err
	}
	return format.Comments(fmt.Sprintf("show %s season %d", id, season), comments, in.ShowSpoilers), nil
}

func (s *Server) fetchEpisodeComments(ctx context.Context, in episodeCommentsInput) (string, error) {
	id, err := idArg(in.ShowID, "show_id")
	if err != nil {
		return "", err
	}
	season, err := seasonArg(in.Season)
	if err != nil {
		return "", err
	}
	episode, err := episodeArg(in.Episode)
	if err != nil {
		return "", err
	}
	sort, opts, err := commentArgs(in.Sort, in.Limit, in.Page)
	if err != nil {
		return "", err
	}
	comments, err := s.client.EpisodeComments(ctx, id, season, episode, sort, opts)
	if err != nil {
		return "", err
	}
	title := fmt.Sprintf("show %s S%02dE%02d", id, season, episode)
	return format.Comments(title, comments, in.ShowSpoilers), nil
}

func (s *Server) fetchMovieComments(ctx context.Context, in movieCommentsInput) (string, error) {
	id, err := idArg(in.MovieID, "movie_id")
	if err != nil {
		return "", err
	}
	sort, opts, err := commentArgs(in.Sort, in.Limit, in.Page)
	if err != nil {
		return "", err
	}
	comments, err := s.client.MovieComments(ctx, id, sort, opts)
	if err != nil {
		return "", err
	}
	return format.Comments("movie "+id, comments, in.ShowSpoilers), nil
}

func (s *Server) fetchComment(ctx context.Context, in commentInput) (string, error) {
	id, err := idArg(in.CommentID, "comment_id")
	if err != nil {
		return "", err
	}
	comment, err := s.client.Comment(ctx, id)
	if err != nil {
		return "", err
	}
	return format.Comment(comment, nil, in.ShowSpoilers), nil
}

func (s *Server) fetchCommentReplies(ctx context.Context, in commentRepliesInput) (string, error) {
	id, err := idArg(in.CommentID, "comment_id")
	if err != nil {
		return "", err
	}
	sort, opts, err := commentArgs(in.Sort, in.Limit, in.Page)
	if err != nil {
		return "", err
	}
	comment, err := s.client.Comment(ctx, id)
	if err != nil {
		return "", err
	}
	replies, err := s.client.CommentReplies(ctx, id, sort, opts)
	if err != nil {
		return "", err
	}
	return format.Comment(comment, &replies, in.ShowSpoilers), nil
}
