package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/drobledo/pulso-cli/internal/domain"
	"github.com/drobledo/pulso-cli/internal/ports"
)

// InteractionService applies like and comment mutations optimistically:
// the local record changes immediately, the request is dispatched, and
// the change is either reconciled with the server's authoritative
// values or rolled back. A 401 additionally clears the session and
// reports domain.ErrAuthRequired so callers route back to login.
type InteractionService struct {
	api      ports.API
	sessions *SessionService
	guard    *targetGuard
}

func NewInteractionService(api ports.API, sessions *SessionService) *InteractionService {
	return &InteractionService{
		api:      api,
		sessions: sessions,
		guard:    newTargetGuard(),
	}
}

// ToggleTweetLike flips the viewer's like on the tweet in place.
func (s *InteractionService) ToggleTweetLike(ctx context.Context, tweet *domain.Tweet) (MutationState, error) {
	if tweet == nil || !tweet.Resolvable() {
		return MutationIdle, unresolvableErr("tweet")
	}

	prevLiked, prevCount := tweet.LikedByViewer, tweet.LikeCount

	return s.run(ctx, mutation{
		target: "tweet:" + tweet.ID,
		apply: func() {
			applyLikeFlip(&tweet.LikedByViewer, &tweet.LikeCount)
		},
		rollback: func() {
			tweet.LikedByViewer, tweet.LikeCount = prevLiked, prevCount
		},
		call: func(ctx context.Context) (func(), error) {
			result, err := s.api.ToggleTweetLike(ctx, tweet.ID)
			if err != nil {
				return nil, err
			}
			return func() {
				reconcileLike(&tweet.LikedByViewer, &tweet.LikeCount, result)
			}, nil
		},
	})
}

// ToggleCommentLike flips the viewer's like on the comment in place.
func (s *InteractionService) ToggleCommentLike(ctx context.Context, comment *domain.Comment) (MutationState, error) {
	if comment == nil || !comment.Resolvable() || comment.TweetID == "" {
		return MutationIdle, unresolvableErr("comment")
	}

	prevLiked, prevCount := comment.LikedByViewer, comment.LikeCount

	return s.run(ctx, mutation{
		target: "comment:" + comment.ID,
		apply: func() {
			applyLikeFlip(&comment.LikedByViewer, &comment.LikeCount)
		},
		rollback: func() {
			comment.LikedByViewer, comment.LikeCount = prevLiked, prevCount
		},
		call: func(ctx context.Context) (func(), error) {
			result, err := s.api.ToggleCommentLike(ctx, comment.TweetID, comment.ID)
			if err != nil {
				return nil, err
			}
			return func() {
				reconcileLike(&comment.LikedByViewer, &comment.LikeCount, result)
			}, nil
		},
	})
}

// RemoveTweet deletes a tweet, removing it from tweets immediately and
// restoring it on failure. A 404 counts as success: the entity is
// already gone and stays removed locally.
func (s *InteractionService) RemoveTweet(ctx context.Context, tweets *[]domain.Tweet, tweetID string) (MutationState, error) {
	if tweetID == "" || domain.IsPlaceholderID(tweetID) {
		return MutationIdle, unresolvableErr("tweet")
	}

	var snapshot []domain.Tweet

	return s.run(ctx, mutation{
		target: "tweet:" + tweetID,
		apply: func() {
			if tweets == nil {
				return
			}
			snapshot = *tweets
			*tweets = removeTweet(*tweets, tweetID)
		},
		rollback: func() {
			if tweets != nil {
				*tweets = snapshot
			}
		},
		call: func(ctx context.Context) (func(), error) {
			err := s.api.DeleteTweet(ctx, tweetID)
			if err != nil && domain.ClassOf(err) == domain.ClassNotFound {
				err = nil
			}
			return nil, err
		},
	})
}

// AddComment publishes a comment, inserting a provisional local record
// first and replacing it with the server's copy on success. The tweet's
// comment counter follows the same lifecycle.
func (s *InteractionService) AddComment(ctx context.Context, comments *[]domain.Comment, tweet *domain.Tweet, content string) (MutationState, error) {
	if tweet == nil || !tweet.Resolvable() {
		return MutationIdle, unresolvableErr("tweet")
	}
	if err := validateCommentContent(content); err != nil {
		return MutationIdle, err
	}

	var snapshot []domain.Comment
	prevCount := tweet.CommentCount
	session := s.sessions.Current()

	return s.run(ctx, mutation{
		target: "comment-create:" + tweet.ID,
		apply: func() {
			tweet.CommentCount++
			if comments == nil {
				return
			}
			snapshot = *comments
			*comments = append([]domain.Comment{provisionalComment(tweet.ID, content, session)}, *comments...)
		},
		rollback: func() {
			tweet.CommentCount = prevCount
			if comments != nil {
				*comments = snapshot
			}
		},
		call: func(ctx context.Context) (func(), error) {
			created, err := s.api.CreateComment(ctx, tweet.ID, content)
			if err != nil {
				return nil, err
			}
			return func() {
				if comments != nil && len(*comments) > 0 {
					(*comments)[0] = created
				}
			}, nil
		},
	})
}

// EditComment rewrites a comment's body in place, keeping the previous
// body for rollback.
func (s *InteractionService) EditComment(ctx context.Context, comment *domain.Comment, content string) (MutationState, error) {
	if comment == nil || !comment.Resolvable() || comment.TweetID == "" {
		return MutationIdle, unresolvableErr("comment")
	}
	if err := validateCommentContent(content); err != nil {
		return MutationIdle, err
	}

	snapshot := *comment

	return s.run(ctx, mutation{
		target: "comment:" + comment.ID,
		apply: func() {
			comment.Content = content
			comment.Edited = true
		},
		rollback: func() {
			*comment = snapshot
		},
		call: func(ctx context.Context) (func(), error) {
			updated, err := s.api.UpdateComment(ctx, comment.TweetID, comment.ID, content)
			if err != nil {
				return nil, err
			}
			return func() {
				if updated.ID != "" {
					*comment = updated
				}
			}, nil
		},
	})
}

// RemoveComment deletes a comment with the same gone-is-success rule
// as RemoveTweet.
func (s *InteractionService) RemoveComment(ctx context.Context, comments *[]domain.Comment, tweet *domain.Tweet, commentID string) (MutationState, error) {
	if commentID == "" || domain.IsPlaceholderID(commentID) {
		return MutationIdle, unresolvableErr("comment")
	}
	tweetID := commentTweetID(comments, tweet, commentID)
	if tweetID == "" {
		return MutationIdle, unresolvableErr("comment")
	}

	var snapshot []domain.Comment
	prevCount := 0

	return s.run(ctx, mutation{
		target: "comment:" + commentID,
		apply: func() {
			if tweet != nil {
				prevCount = tweet.CommentCount
				if tweet.CommentCount > 0 {
					tweet.CommentCount--
				}
			}
			if comments == nil {
				return
			}
			snapshot = *comments
			*comments = removeComment(*comments, commentID)
		},
		rollback: func() {
			if tweet != nil {
				tweet.CommentCount = prevCount
			}
			if comments != nil {
				*comments = snapshot
			}
		},
		call: func(ctx context.Context) (func(), error) {
			err := s.api.DeleteComment(ctx, tweetID, commentID)
			if err != nil && domain.ClassOf(err) == domain.ClassNotFound {
				err = nil
			}
			return nil, err
		},
	})
}

func applyLikeFlip(liked *bool, count *int) {
	if *liked {
		*liked = false
		if *count > 0 {
			*count--
		}
		return
	}
	*liked = true
	*count++
}

func reconcileLike(liked *bool, count *int, result ports.LikeResult) {
	if result.Liked != nil {
		*liked = *result.Liked
	}
	if result.LikeCount != nil && *result.LikeCount >= 0 {
		*count = *result.LikeCount
	}
}

func removeTweet(tweets []domain.Tweet, tweetID string) []domain.Tweet {
	kept := make([]domain.Tweet, 0, len(tweets))
	for _, tweet := range tweets {
		if tweet.ID != tweetID {
			kept = append(kept, tweet)
		}
	}
	return kept
}

func removeComment(comments []domain.Comment, commentID string) []domain.Comment {
	kept := make([]domain.Comment, 0, len(comments))
	for _, comment := range comments {
		if comment.ID != commentID {
			kept = append(kept, comment)
		}
	}
	return kept
}

func commentTweetID(comments *[]domain.Comment, tweet *domain.Tweet, commentID string) string {
	if comments != nil {
		for _, comment := range *comments {
			if comment.ID == commentID && comment.TweetID != "" {
				return comment.TweetID
			}
		}
	}
	if tweet != nil {
		return tweet.ID
	}
	return ""
}

func provisionalComment(tweetID, content string, session domain.Session) domain.Comment {
	comment := domain.Comment{
		ID:      fmt.Sprintf("%scomment", domain.FreshPrefix),
		TweetID: tweetID,
		Content: content,
	}
	if session.User != nil {
		comment.Author = domain.Author{
			ID:          session.User.ID,
			Username:    session.User.Username,
			DisplayName: session.User.DisplayName,
			AvatarURL:   session.User.AvatarURL,
		}
	}
	return comment
}

func validateCommentContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return &domain.RequestError{Class: domain.ClassValidation, Message: "comment content is required"}
	}
	return nil
}
