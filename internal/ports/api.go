package ports

import (
	"context"
	"encoding/json"
	"io"

	"github.com/drobledo/pulso-cli/internal/domain"
)

// RegisterRequest carries the signup fields the backend expects.
type RegisterRequest struct {
	DisplayName string
	Username    string
	Email       string
	Password    string
	Phone       string
}

// LikeResult reports the server's authoritative like state after a
// toggle. Nil fields mean the server omitted the value and the
// caller's optimistic value stands.
type LikeResult struct {
	Liked     *bool
	LikeCount *int
}

// API is the remote feed backend. Implementations normalize every
// response into canonical domain records and every failure into a
// *domain.RequestError.
type API interface {
	// Login returns the raw response body; the session service owns
	// reconciling its shape variants.
	Login(ctx context.Context, username, password string) (json.RawMessage, error)
	Register(ctx context.Context, req RegisterRequest) error

	Feed(ctx context.Context) ([]domain.Tweet, error)
	CreateTweet(ctx context.Context, content string) (domain.Tweet, error)
	ToggleTweetLike(ctx context.Context, tweetID string) (LikeResult, error)
	DeleteTweet(ctx context.Context, tweetID string) error

	Comments(ctx context.Context, tweetID string) ([]domain.Comment, error)
	CreateComment(ctx context.Context, tweetID, content string) (domain.Comment, error)
	UpdateComment(ctx context.Context, tweetID, commentID, content string) (domain.Comment, error)
	DeleteComment(ctx context.Context, tweetID, commentID string) error
	ToggleCommentLike(ctx context.Context, tweetID, commentID string) (LikeResult, error)

	UserProfile(ctx context.Context, userID string) (domain.User, error)
	UserTweets(ctx context.Context, userID string) ([]domain.Tweet, error)
	UpdateProfile(ctx context.Context, userID string, update domain.ProfileUpdate) (domain.User, error)
	// UploadAvatar posts the image as multipart form data and returns
	// the stored avatar URL.
	UploadAvatar(ctx context.Context, userID, filename string, avatar io.Reader) (string, error)
	SearchUsers(ctx context.Context, query string) ([]domain.User, error)
	SuggestedUsers(ctx context.Context) ([]domain.User, error)
}
