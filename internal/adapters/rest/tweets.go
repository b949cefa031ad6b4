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

type feedResponse struct {
	Tweets []normalize.RawTweet `json:"tweets"`
}

type createTweetResponse struct {
	Tweet *normalize.RawTweet `json:"tweet"`
	// Older releases answer with the bare tweet object.
	normalize.RawTweet
}

type likeResponse struct {
	Liked *bool `json:"liked"`
	Likes *int  `json:"likes"`
}

func (c *Client) Feed(ctx context.Context) ([]domain.Tweet, error) {
	var resp feedResponse
	if err := c.call(ctx, http.MethodGet, "/tweets", nil, true, &resp); err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}

	return normalize.Tweets(resp.Tweets, c.clock.Now()), nil
}

func (c *Client) CreateTweet(ctx context.Context, content string) (domain.Tweet, error) {
	if err := domain.ValidateTweetContent(content); err != nil {
		return domain.Tweet{}, err
	}

	var resp createTweetResponse
	err := c.call(ctx, http.MethodPost, "/tweets", map[string]string{"contenido": content}, true, &resp)
	if err != nil {
		return domain.Tweet{}, fmt.Errorf("create tweet: %w", err)
	}

	raw := resp.RawTweet
	if resp.Tweet != nil {
		raw = *resp.Tweet
	}

	tweet := normalize.Tweet(raw, c.clock.Now(), 0)
	tweet.Mine = true
	if tweet.Content == "" {
		tweet.Content = content
	}

	return tweet, nil
}

func (c *Client) ToggleTweetLike(ctx context.Context, tweetID string) (ports.LikeResult, error) {
	if tweetID == "" {
		return ports.LikeResult{}, errMissingID
	}

	var resp likeResponse
	err := c.call(ctx, http.MethodPost, "/tweets/"+url.PathEscape(tweetID)+"/like", struct{}{}, true, &resp)
	if err != nil {
		return ports.LikeResult{}, fmt.Errorf("toggle tweet like: %w", err)
	}

	return ports.LikeResult{Liked: resp.Liked, LikeCount: resp.Likes}, nil
}

func (c *Client) DeleteTweet(ctx context.Context, tweetID string) error {
	if tweetID == "" {
		return errMissingID
	}

	if err := c.call(ctx, http.MethodDelete, "/tweets/"+url.PathEscape(tweetID), nil, true, nil); err != nil {
		return fmt.Errorf("delete tweet: %w", err)
	}

	return nil
}
