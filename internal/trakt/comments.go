package trakt

import (
	"context"
	"fmt"
	"net/http"

	"github.com/fyrsmithlabs/trakt-mcp/internal/reqctx"
)

// CommentSort orders comment listings.
type CommentSort string

// Sort orders accepted by the comment endpoints.
const (
	SortNewest  CommentSort = "newest"
	SortOldest  CommentSort = "oldest"
	SortLikes   CommentSort = "likes"
	SortReplies CommentSort = "replies"
)

// Valid reports whether s is accepted by Trakt.
func (s CommentSort) Valid() bool {
	switch s {
	case SortNewest, SortOldest, SortLikes, SortReplies:
		return true
	}
	return false
}

// ShowComments lists comments on a show.
func (c *Client) ShowComments(ctx context.Context, showID string, sort CommentSort, opts ListOptions) (Page[Comment], error) {
	return c.comments(ctx, fmt.Sprintf("/shows/%s/comments/%s", showID, sort), "show", showID, sort, opts)
}

// SeasonComments lists comments on one season of a show.
func (c *Client) SeasonComments(ctx context.Context, showID string, season int, sort CommentSort, opts ListOptions) (Page[Comment], error) {
	path := fmt.Sprintf("/shows/%s/seasons/%d/comments/%s", showID, season, sort)
	return c.comments(ctx, path, "season", fmt.Sprintf("%s/%d", showID, season), sort, opts)
}

// EpisodeComments lists comments on one episode of a show.
func (c *Client) EpisodeComments(ctx context.Context, showID string, season, episode int, sort CommentSort, opts ListOptions) (Page[Comment], error) {
	path := fmt.Sprintf("/shows/%s/seasons/%d/episodes/%d/comments/%s", showID, season, episode, sort)
	return c.comments(ctx, path, "episode", fmt.Sprintf("%s/%dx%d", showID, season, episode), sort, opts)
}

// MovieComments lists comments on a movie.
func (c *Client) MovieComments(ctx context.Context, movieID string, sort CommentSort, opts ListOptions) (Page[Comment], error) {
	return c.comments(ctx, fmt.Sprintf("/movies/%s/comments/%s", movieID, sort), "movie", movieID, sort, opts)
}

func (c *Client) comments(ctx context.Context, path, resourceType, resourceID string, sort CommentSort, opts ListOptions) (Page[Comment], error) {
	params := opts.params()
	params["sort"] = string(sort)
	return callPage[Comment](ctx, c, request{
		method: http.MethodGet,
		path:   path,
		query:  pageQuery(opts.Limit, opts.Page),
	}, func(rc reqctx.RequestContext) reqctx.RequestContext {
		return rc.WithResource(resourceType, resourceID).WithParameters(params)
	})
}

// Comment fetches a single comment.
func (c *Client) Comment(ctx context.Context, commentID string) (Comment, error) {
	return call[Comment](ctx, c, request{
		method: http.MethodGet,
		path:   "/comments/" + commentID,
	}, func(rc reqctx.RequestContext) reqctx.RequestContext {
		return rc.WithResource("comment", commentID)
	})
}

// CommentReplies lists the replies to a comment.
func (c *Client) CommentReplies(ctx context.Context, commentID string, sort CommentSort, opts ListOptions) (Page[Comment], error) {
	path := fmt.Sprintf("/comments/%s/replies/%s", commentID, sort)
	return c.comments(ctx, path, "comment_replies", commentID, sort, opts)
}
