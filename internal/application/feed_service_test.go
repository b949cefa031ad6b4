package application

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drobledo/pulso-cli/internal/domain"
)

func TestLoadFeedCachesSuccessfulFetch(t *testing.T) {
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	api := &fakeAPI{feedTweets: []domain.Tweet{{ID: "t1"}, {ID: "t2"}}}
	cache := &fakeFeedCache{}
	svc := NewFeedService(api, cache, fakeClock{now: now}, nil)

	page, err := svc.LoadFeed(context.Background())
	require.NoError(t, err)

	assert.Len(t, page.Tweets, 2)
	assert.Equal(t, now, page.FetchedAt)
	assert.False(t, page.Stale)
	assert.Equal(t, 1, cache.saveCalls)
	assert.Len(t, cache.tweets, 2)
}

func TestLoadFeedFallsBackToSnapshotOnFailure(t *testing.T) {
	fetchedAt := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	api := &fakeAPI{feedErr: networkError()}
	cache := &fakeFeedCache{tweets: []domain.Tweet{{ID: "t1"}}, fetchedAt: fetchedAt}
	svc := NewFeedService(api, cache, fakeClock{}, nil)

	page, err := svc.LoadFeed(context.Background())
	require.NoError(t, err)

	assert.True(t, page.Stale)
	assert.Equal(t, fetchedAt, page.FetchedAt)
	assert.Len(t, page.Tweets, 1)
	assert.Equal(t, domain.ClassNetwork, domain.ClassOf(page.FetchErr))
}

func TestLoadFeedSurfacesFetchErrorWhenCacheEmpty(t *testing.T) {
	api := &fakeAPI{feedErr: networkError()}
	svc := NewFeedService(api, &fakeFeedCache{}, fakeClock{}, nil)

	_, err := svc.LoadFeed(context.Background())
	assert.Equal(t, domain.ClassNetwork, domain.ClassOf(err))
}

func TestLoadFeedWorksWithoutCache(t *testing.T) {
	api := &fakeAPI{feedTweets: []domain.Tweet{{ID: "t1"}}}
	svc := NewFeedService(api, nil, fakeClock{}, nil)

	page, err := svc.LoadFeed(context.Background())
	require.NoError(t, err)
	assert.Len(t, page.Tweets, 1)
}

func TestCommentsSkipsPlaceholderTweets(t *testing.T) {
	api := &fakeAPI{comments: []domain.Comment{{ID: "c1"}}}
	svc := NewFeedService(api, nil, fakeClock{}, nil)

	comments, err := svc.Comments(context.Background(), "temp_1700000000000_0")
	require.NoError(t, err)
	assert.Nil(t, comments)
	assert.Zero(t, api.callCount("comments"))

	comments, err = svc.Comments(context.Background(), "t1")
	require.NoError(t, err)
	assert.Len(t, comments, 1)
}

func TestPostValidatesBeforeNetworkCall(t *testing.T) {
	api := &fakeAPI{}
	svc := NewFeedService(api, nil, fakeClock{}, nil)

	_, err := svc.Post(context.Background(), "  ")
	assert.Equal(t, domain.ClassValidation, domain.ClassOf(err))

	_, err = svc.Post(context.Background(), strings.Repeat("x", domain.MaxTweetRunes+1))
	assert.Equal(t, domain.ClassValidation, domain.ClassOf(err))

	assert.Zero(t, api.callCount("createTweet"))
}

func TestPostReturnsCreatedTweet(t *testing.T) {
	api := &fakeAPI{createdTweet: domain.Tweet{ID: "t9", Content: "hola", Mine: true}}
	svc := NewFeedService(api, nil, fakeClock{}, nil)

	tweet, err := svc.Post(context.Background(), "hola")
	require.NoError(t, err)
	assert.Equal(t, "t9", tweet.ID)
	assert.True(t, tweet.Mine)
}
