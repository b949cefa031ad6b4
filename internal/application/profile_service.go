package application

import (
	"context"
	"fmt"
	"io"

	"github.com/drobledo/pulso-cli/internal/domain"
	"github.com/drobledo/pulso-cli/internal/ports"
)

// ProfileService wraps the user-facing profile operations. Profile
// writes share the forced-logout rule with interactions: a 401 clears
// the session before the error reaches the caller.
type ProfileService struct {
	api      ports.API
	sessions *SessionService
}

func NewProfileService(api ports.API, sessions *SessionService) *ProfileService {
	return &ProfileService{api: api, sessions: sessions}
}

func (s *ProfileService) Profile(ctx context.Context, userID string) (domain.User, error) {
	if userID == "" {
		session := s.sessions.Current()
		if session.User == nil {
			return domain.User{}, domain.ErrNoSession
		}
		userID = session.User.ID
	}

	return s.api.UserProfile(ctx, userID)
}

func (s *ProfileService) ProfileTweets(ctx context.Context, userID string) ([]domain.Tweet, error) {
	return s.api.UserTweets(ctx, userID)
}

// Update edits the current user's profile and refreshes the persisted
// session user on success so whoami reflects the change immediately.
func (s *ProfileService) Update(ctx context.Context, update domain.ProfileUpdate) (domain.User, error) {
	if update.Empty() {
		return domain.User{}, &domain.RequestError{Class: domain.ClassValidation, Message: "nothing to update"}
	}

	session := s.sessions.Current()
	if !session.Authenticated() {
		return domain.User{}, domain.ErrNoSession
	}

	updated, err := s.api.UpdateProfile(ctx, session.User.ID, update)
	if err != nil {
		if domain.NeedsReauth(err) {
			s.sessions.Logout(context.WithoutCancel(ctx))
			return domain.User{}, fmt.Errorf("%w: %v", domain.ErrAuthRequired, err)
		}
		return domain.User{}, err
	}

	merged := mergeProfile(*session.User, updated)
	if replaceErr := s.sessions.ReplaceUser(ctx, merged); replaceErr != nil {
		return updated, fmt.Errorf("refresh stored profile: %w", replaceErr)
	}

	return updated, nil
}

// UploadAvatar pushes a new avatar image for the current user and
// refreshes the stored session user with the returned URL.
func (s *ProfileService) UploadAvatar(ctx context.Context, filename string, avatar io.Reader) (string, error) {
	session := s.sessions.Current()
	if !session.Authenticated() {
		return "", domain.ErrNoSession
	}

	avatarURL, err := s.api.UploadAvatar(ctx, session.User.ID, filename, avatar)
	if err != nil {
		if domain.NeedsReauth(err) {
			s.sessions.Logout(context.WithoutCancel(ctx))
			return "", fmt.Errorf("%w: %v", domain.ErrAuthRequired, err)
		}
		return "", err
	}

	updated := *session.User
	updated.AvatarURL = avatarURL
	if replaceErr := s.sessions.ReplaceUser(ctx, updated); replaceErr != nil {
		return avatarURL, fmt.Errorf("refresh stored profile: %w", replaceErr)
	}

	return avatarURL, nil
}

// Suggested lists users the backend recommends following. The
// endpoint is authenticated, so an anonymous caller gets the
// no-session error instead of a round trip.
func (s *ProfileService) Suggested(ctx context.Context) ([]domain.User, error) {
	if !s.sessions.Current().Authenticated() {
		return nil, domain.ErrNoSession
	}

	return s.api.SuggestedUsers(ctx)
}

func (s *ProfileService) Search(ctx context.Context, query string) ([]domain.User, error) {
	if query == "" {
		return nil, &domain.RequestError{Class: domain.ClassValidation, Message: "search query is required"}
	}

	return s.api.SearchUsers(ctx, query)
}

// mergeProfile keeps identity fields from the stored user when the
// update response omits them.
func mergeProfile(stored, updated domain.User) domain.User {
	if updated.ID == "" {
		updated.ID = stored.ID
	}
	if updated.Username == "" {
		updated.Username = stored.Username
	}
	if updated.Email == "" {
		updated.Email = stored.Email
	}
	if updated.CreatedAt.IsZero() {
		updated.CreatedAt = stored.CreatedAt
	}
	return updated
}
