package application

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"

	"github.com/drobledo/pulso-cli/internal/domain"
	"github.com/drobledo/pulso-cli/internal/ports"
)

type fakeSessionStore struct {
	mu      sync.Mutex
	session domain.Session
	stored  bool

	saveErr   error
	clearErr  error
	updateErr error

	saveCalls   int
	clearCalls  int
	updateCalls int
}

var _ ports.SessionStore = (*fakeSessionStore)(nil)

func (f *fakeSessionStore) Load(_ context.Context) (domain.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.stored {
		return domain.Session{}, domain.ErrNoSession
	}
	return f.session, nil
}

func (f *fakeSessionStore) Save(_ context.Context, session domain.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.saveCalls++
	if f.saveErr != nil {
		return f.saveErr
	}
	f.session = session
	f.stored = true
	return nil
}

func (f *fakeSessionStore) UpdateToken(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.updateCalls++
	if f.updateErr != nil {
		return f.updateErr
	}
	if !f.stored {
		return domain.ErrNoSession
	}
	f.session.Token = token
	return nil
}

func (f *fakeSessionStore) Clear(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.clearCalls++
	if f.clearErr != nil {
		return f.clearErr
	}
	f.session = domain.Session{}
	f.stored = false
	return nil
}

type fakeFeedCache struct {
	tweets    []domain.Tweet
	fetchedAt time.Time
	saveErr   error
	loadErr   error
	saveCalls int
}

var _ ports.FeedCache = (*fakeFeedCache)(nil)

func (f *fakeFeedCache) Save(_ context.Context, tweets []domain.Tweet, fetchedAt time.Time) error {
	f.saveCalls++
	if f.saveErr != nil {
		return f.saveErr
	}
	f.tweets = tweets
	f.fetchedAt = fetchedAt
	return nil
}

func (f *fakeFeedCache) Load(_ context.Context) ([]domain.Tweet, time.Time, error) {
	if f.loadErr != nil {
		return nil, time.Time{}, f.loadErr
	}
	if len(f.tweets) == 0 {
		return nil, time.Time{}, domain.ErrNoSnapshot
	}
	return f.tweets, f.fetchedAt, nil
}

type fakeClock struct {
	now time.Time
}

func (f fakeClock) Now() time.Time {
	return f.now
}

// fakeAPI routes every port method through configurable stubs and
// counts calls per endpoint.
type fakeAPI struct {
	mu    sync.Mutex
	calls map[string]int

	loginRaw json.RawMessage
	loginErr error

	registerErr error

	feedTweets []domain.Tweet
	feedErr    error

	createdTweet   domain.Tweet
	createTweetErr error

	likeResult    ports.LikeResult
	likeErr       error
	commentLike   ports.LikeResult
	commentLikeEr error

	deleteTweetErr error

	comments    []domain.Comment
	commentsErr error

	createdComment   domain.Comment
	createCommentErr error
	updatedComment   domain.Comment
	updateCommentErr error
	deleteCommentErr error

	profileUser    domain.User
	profileErr     error
	profileTweets  []domain.Tweet
	profileTwErr   error
	updatedProfile domain.User
	updateProfErr  error
	avatarURL      string
	avatarErr      error
	searchUsers    []domain.User
	searchErr      error
	suggested      []domain.User
	suggestedErr   error
}

var _ ports.API = (*fakeAPI)(nil)

func (f *fakeAPI) record(endpoint string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[endpoint]++
}

func (f *fakeAPI) callCount(endpoint string) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.calls[endpoint]
}

func (f *fakeAPI) Login(_ context.Context, _, _ string) (json.RawMessage, error) {
	f.record("login")
	return f.loginRaw, f.loginErr
}

func (f *fakeAPI) Register(_ context.Context, _ ports.RegisterRequest) error {
	f.record("register")
	return f.registerErr
}

func (f *fakeAPI) Feed(_ context.Context) ([]domain.Tweet, error) {
	f.record("feed")
	return f.feedTweets, f.feedErr
}

func (f *fakeAPI) CreateTweet(_ context.Context, _ string) (domain.Tweet, error) {
	f.record("createTweet")
	return f.createdTweet, f.createTweetErr
}

func (f *fakeAPI) ToggleTweetLike(_ context.Context, _ string) (ports.LikeResult, error) {
	f.record("toggleTweetLike")
	return f.likeResult, f.likeErr
}

func (f *fakeAPI) DeleteTweet(_ context.Context, _ string) error {
	f.record("deleteTweet")
	return f.deleteTweetErr
}

func (f *fakeAPI) Comments(_ context.Context, _ string) ([]domain.Comment, error) {
	f.record("comments")
	return f.comments, f.commentsErr
}

func (f *fakeAPI) CreateComment(_ context.Context, _, _ string) (domain.Comment, error) {
	f.record("createComment")
	return f.createdComment, f.createCommentErr
}

func (f *fakeAPI) UpdateComment(_ context.Context, _, _, _ string) (domain.Comment, error) {
	f.record("updateComment")
	return f.updatedComment, f.updateCommentErr
}

func (f *fakeAPI) DeleteComment(_ context.Context, _, _ string) error {
	f.record("deleteComment")
	return f.deleteCommentErr
}

func (f *fakeAPI) ToggleCommentLike(_ context.Context, _, _ string) (ports.LikeResult, error) {
	f.record("toggleCommentLike")
	return f.commentLike, f.commentLikeEr
}

func (f *fakeAPI) UserProfile(_ context.Context, _ string) (domain.User, error) {
	f.record("userProfile")
	return f.profileUser, f.profileErr
}

func (f *fakeAPI) UserTweets(_ context.Context, _ string) ([]domain.Tweet, error) {
	f.record("userTweets")
	return f.profileTweets, f.profileTwErr
}

func (f *fakeAPI) UpdateProfile(_ context.Context, _ string, _ domain.ProfileUpdate) (domain.User, error) {
	f.record("updateProfile")
	return f.updatedProfile, f.updateProfErr
}

func (f *fakeAPI) UploadAvatar(_ context.Context, _, _ string, _ io.Reader) (string, error) {
	f.record("uploadAvatar")
	return f.avatarURL, f.avatarErr
}

func (f *fakeAPI) SearchUsers(_ context.Context, _ string) ([]domain.User, error) {
	f.record("searchUsers")
	return f.searchUsers, f.searchErr
}

func (f *fakeAPI) SuggestedUsers(_ context.Context) ([]domain.User, error) {
	f.record("suggestedUsers")
	return f.suggested, f.suggestedErr
}

func networkError() *domain.RequestError {
	return &domain.RequestError{Class: domain.ClassNetwork, Message: "connection refused"}
}

func authError() *domain.RequestError {
	return &domain.RequestError{Class: domain.ClassAuth, Status: 401, Message: "token expirado", RequiresReauth: true}
}
