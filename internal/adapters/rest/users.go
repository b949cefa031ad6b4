package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"

	"github.com/drobledo/pulso-cli/internal/domain"
	"github.com/drobledo/pulso-cli/internal/normalize"
)

type userTweetsResponse struct {
	Tweets []normalize.RawTweet `json:"tweets"`
}

type usersResponse struct {
	Users []normalize.RawUser `json:"users"`
}

type avatarResponse struct {
	AvatarURL string `json:"avatar_url"`
	URL       string `json:"url"`
}

func usersPath(userID string) string {
	return "/users/" + url.PathEscape(userID)
}

func (c *Client) UserProfile(ctx context.Context, userID string) (domain.User, error) {
	if userID == "" {
		return domain.User{}, errMissingID
	}

	var raw normalize.RawUser
	if err := c.call(ctx, http.MethodGet, usersPath(userID), nil, false, &raw); err != nil {
		return domain.User{}, fmt.Errorf("fetch user profile: %w", err)
	}

	return normalize.User(raw), nil
}

func (c *Client) UserTweets(ctx context.Context, userID string) ([]domain.Tweet, error) {
	if userID == "" {
		return nil, errMissingID
	}

	var resp userTweetsResponse
	if err := c.call(ctx, http.MethodGet, usersPath(userID)+"/tweets", nil, false, &resp); err != nil {
		return nil, fmt.Errorf("fetch user tweets: %w", err)
	}

	return normalize.Tweets(resp.Tweets, c.clock.Now()), nil
}

// UpdateProfile sends only the fields the caller set. The deployed
// backend accepts the English field names on writes even though reads
// still produce the Spanish aliases. The response is either a user
// object wrapped under "usuario"/"user" or the bare user itself;
// normalize.UserPayload reconciles the three.
func (c *Client) UpdateProfile(ctx context.Context, userID string, update domain.ProfileUpdate) (domain.User, error) {
	if userID == "" {
		return domain.User{}, errMissingID
	}

	body := map[string]string{}
	if update.DisplayName != nil {
		body["name"] = *update.DisplayName
	}
	if update.Bio != nil {
		body["bio"] = *update.Bio
	}
	if update.AvatarURL != nil {
		body["avatar"] = *update.AvatarURL
	}
	if update.Location != nil {
		body["location"] = *update.Location
	}
	if update.Website != nil {
		body["website"] = *update.Website
	}
	if len(body) == 0 {
		return domain.User{}, &domain.RequestError{Class: domain.ClassValidation, Message: "nothing to update"}
	}

	raw, err := c.callRaw(ctx, http.MethodPut, usersPath(userID), body, true)
	if err != nil {
		return domain.User{}, fmt.Errorf("update profile: %w", err)
	}

	rawUser, err := normalize.UserPayload(raw)
	if err != nil {
		return domain.User{}, fmt.Errorf("decode PUT %s response: %w", usersPath(userID), err)
	}

	return normalize.User(rawUser), nil
}

// UploadAvatar posts the image as multipart form data and returns the
// stored avatar URL from the "avatar_url" or "url" response field.
func (c *Client) UploadAvatar(ctx context.Context, userID, filename string, avatar io.Reader) (string, error) {
	if userID == "" {
		return "", errMissingID
	}

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	part, err := form.CreateFormFile("avatar", filepath.Base(filename))
	if err != nil {
		return "", fmt.Errorf("build avatar form: %w", err)
	}
	if _, err := io.Copy(part, avatar); err != nil {
		return "", fmt.Errorf("read avatar image: %w", err)
	}
	if err := form.Close(); err != nil {
		return "", fmt.Errorf("build avatar form: %w", err)
	}

	path := usersPath(userID) + "/upload-avatar"
	raw, err := c.callMultipart(ctx, path, &buf, form.FormDataContentType())
	if err != nil {
		return "", fmt.Errorf("upload avatar: %w", err)
	}

	var resp avatarResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", fmt.Errorf("decode POST %s response: %w", path, err)
	}

	avatarURL := resp.AvatarURL
	if avatarURL == "" {
		avatarURL = resp.URL
	}
	if avatarURL == "" {
		return "", &domain.RequestError{Class: domain.ClassUnknown, Message: "upload response carried no avatar url"}
	}

	return avatarURL, nil
}

func (c *Client) SearchUsers(ctx context.Context, query string) ([]domain.User, error) {
	var resp usersResponse
	path := "/users/search?q=" + url.QueryEscape(query)
	if err := c.call(ctx, http.MethodGet, path, nil, true, &resp); err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}

	return normalizeUsers(resp.Users), nil
}

// SuggestedUsers fetches follow recommendations. The backend has
// answered both {"users": [...]} and a bare array here.
func (c *Client) SuggestedUsers(ctx context.Context) ([]domain.User, error) {
	raw, err := c.callRaw(ctx, http.MethodGet, "/users/suggested", nil, true)
	if err != nil {
		return nil, fmt.Errorf("fetch suggested users: %w", err)
	}

	var raws []normalize.RawUser
	if bytes.HasPrefix(bytes.TrimSpace(raw), []byte("[")) {
		if err := json.Unmarshal(raw, &raws); err != nil {
			return nil, fmt.Errorf("decode GET /users/suggested response: %w", err)
		}
	} else {
		var resp usersResponse
		if err := json.Unmarshal(raw, &resp); err != nil {
			return nil, fmt.Errorf("decode GET /users/suggested response: %w", err)
		}
		raws = resp.Users
	}

	return normalizeUsers(raws), nil
}

func normalizeUsers(raws []normalize.RawUser) []domain.User {
	users := make([]domain.User, 0, len(raws))
	for _, raw := range raws {
		users = append(users, normalize.User(raw))
	}
	return users
}
