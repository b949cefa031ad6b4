package rest

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/drobledo/pulso-cli/internal/domain"
	"github.com/drobledo/pulso-cli/internal/normalize"
	"github.com/drobledo/pulso-cli/internal/ports"
)

type commentsResponse struct {
	Comentarios []normalize.RawComment `json:"comentarios"`
	Comments    []normalize.RawComment `json:"comments"`
}

type commentResponse struct {
	Comentario *normalize.RawComment `json:"comentario"`
	Comment    *normalize.RawComment `json:"comment"`
	Message    string                `json:"message"`
}

type commentRequest struct {
	Contenido string `json:"contenido"`
	TweetID   string `json:"tweetId,omitempty"`
}

func commentsPath(tweetID string) string {
	return "/tweets/" + url.PathEscape(tweetID) + "/comentarios"
}

func (c *Client) Comments(ctx context.Context, tweetID string) ([]domain.Comment, error) {
	if tweetID == "" {
		return nil, errMissingID
	}

	var resp commentsResponse
	if err := c.call(ctx, http.MethodGet, commentsPath(tweetID), nil, false, &resp); err != nil {
		// A tweet with no comment thread yet answers 404; that is an
		// empty list, not a failure.
		if domain.ClassOf(err) == domain.ClassNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("fetch comments: %w", err)
	}

	raws := resp.Comentarios
	if len(raws) == 0 {
		raws = resp.Comments
	}

	return normalize.Comments(raws, tweetID, c.clock.Now()), nil
}

func (c *Client) CreateComment(ctx context.Context, tweetID, content string) (domain.Comment, error) {
	if tweetID == "" {
		return domain.Comment{}, errMissingID
	}

	var resp commentResponse
	err := c.call(ctx, http.MethodPost, commentsPath(tweetID), commentRequest{Contenido: content, TweetID: tweetID}, true, &resp)
	if err != nil {
		return domain.Comment{}, fmt.Errorf("create comment: %w", err)
	}

	return c.commentFromResponse(resp, tweetID, content), nil
}

func (c *Client) UpdateComment(ctx context.Context, tweetID, commentID, content string) (domain.Comment, error) {
	if tweetID == "" || commentID == "" {
		return domain.Comment{}, errMissingID
	}

	var resp commentResponse
	err := c.call(ctx, http.MethodPut, commentsPath(tweetID)+"/"+url.PathEscape(commentID), commentRequest{Contenido: content}, true, &resp)
	if err != nil {
		return domain.Comment{}, fmt.Errorf("update comment: %w", err)
	}

	comment := c.commentFromResponse(resp, tweetID, content)
	comment.Edited = true

	return comment, nil
}

func (c *Client) DeleteComment(ctx context.Context, tweetID, commentID string) error {
	if tweetID == "" || commentID == "" {
		return errMissingID
	}

	err := c.call(ctx, http.MethodDelete, commentsPath(tweetID)+"/"+url.PathEscape(commentID), nil, true, nil)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}

	return nil
}

func (c *Client) ToggleCommentLike(ctx context.Context, tweetID, commentID string) (ports.LikeResult, error) {
	if tweetID == "" || commentID == "" {
		return ports.LikeResult{}, errMissingID
	}

	var resp likeResponse
	err := c.call(ctx, http.MethodPost, commentsPath(tweetID)+"/"+url.PathEscape(commentID)+"/like", struct{}{}, true, &resp)
	if err != nil {
		return ports.LikeResult{}, fmt.Errorf("toggle comment like: %w", err)
	}

	return ports.LikeResult{Liked: resp.Liked, LikeCount: resp.Likes}, nil
}

func (c *Client) commentFromResponse(resp commentResponse, tweetID, sentContent string) domain.Comment {
	raw := resp.Comentario
	if raw == nil {
		raw = resp.Comment
	}
	if raw == nil {
		// Releases that answer with only a message: keep what we sent.
		return domain.Comment{TweetID: tweetID, Content: sentContent}
	}

	comment := normalize.Comment(*raw, tweetID, c.clock.Now(), 0)
	if comment.Content == "" {
		comment.Content = sentContent
	}

	return comment
}
