package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/drobledo/pulso-cli/internal/domain"
	"github.com/drobledo/pulso-cli/internal/ports"
)

// FeedPage is what a feed load exposes to the presentation layer.
// Stale marks items served from the local snapshot after a failed
// fetch; FetchErr then carries the non-blocking fetch error.
type FeedPage struct {
	Tweets    []domain.Tweet
	FetchedAt time.Time
	Stale     bool
	FetchErr  error
}

// FeedService loads tweet and comment lists. Failed loads degrade to
// the last cached feed when one exists; an empty cache surfaces the
// failure itself so the caller can offer a retry.
type FeedService struct {
	api   ports.API
	cache ports.FeedCache
	clock ports.Clock
	diag  io.Writer
}

func NewFeedService(api ports.API, cache ports.FeedCache, clock ports.Clock, diag io.Writer) *FeedService {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if diag == nil {
		diag = io.Discard
	}

	return &FeedService{api: api, cache: cache, clock: clock, diag: diag}
}

// LoadFeed fetches the whole feed. Loads are deliberately not
// de-duplicated: a refresh while another load runs starts a second
// fetch.
func (s *FeedService) LoadFeed(ctx context.Context) (FeedPage, error) {
	tweets, err := s.api.Feed(ctx)
	if err == nil {
		now := s.clock.Now()
		if s.cache != nil {
			if cacheErr := s.cache.Save(ctx, tweets, now); cacheErr != nil {
				fmt.Fprintf(s.diag, "warning: save feed snapshot: %v\n", cacheErr)
			}
		}
		return FeedPage{Tweets: tweets, FetchedAt: now}, nil
	}

	if s.cache == nil {
		return FeedPage{}, err
	}

	cached, fetchedAt, cacheErr := s.cache.Load(ctx)
	if cacheErr != nil || len(cached) == 0 {
		if cacheErr != nil && !errors.Is(cacheErr, domain.ErrNoSnapshot) {
			fmt.Fprintf(s.diag, "warning: load feed snapshot: %v\n", cacheErr)
		}
		return FeedPage{}, err
	}

	return FeedPage{Tweets: cached, FetchedAt: fetchedAt, Stale: true, FetchErr: err}, nil
}

// Comments fetches a tweet's comments in server response order.
func (s *FeedService) Comments(ctx context.Context, tweetID string) ([]domain.Comment, error) {
	if tweetID == "" || domain.IsPlaceholderID(tweetID) {
		return nil, nil
	}

	return s.api.Comments(ctx, tweetID)
}

// Post publishes a new tweet after client-side validation.
func (s *FeedService) Post(ctx context.Context, content string) (domain.Tweet, error) {
	if err := domain.ValidateTweetContent(content); err != nil {
		return domain.Tweet{}, err
	}

	tweet, err := s.api.CreateTweet(ctx, content)
	if err != nil {
		return domain.Tweet{}, fmt.Errorf("create tweet: %w", err)
	}

	return tweet, nil
}
