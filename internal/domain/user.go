package domain

import "time"

// User is the canonical client-side shape every backend variant is
// normalized into. The backend has shipped several field-naming
// conventions over time; only this shape crosses package boundaries.
type User struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"name"`
	Email       string    `json:"email"`
	Bio         string    `json:"bio"`
	AvatarURL   string    `json:"avatar_url"`
	Location    string    `json:"location"`
	Website     string    `json:"website"`
	Phone       string    `json:"telefono,omitempty"`
	Membership  string    `json:"membresia,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	Followers   int       `json:"followers_count"`
	Following   int       `json:"following_count"`
	TweetTotal  int       `json:"tweet_count"`
}

// Author is the summary of a user embedded in tweets and comments.
type Author struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"name"`
	AvatarURL   string `json:"avatar,omitempty"`
}

// ProfileUpdate carries the editable profile fields. Nil means
// "leave unchanged"; the REST adapter only sends set fields.
type ProfileUpdate struct {
	DisplayName *string
	Bio         *string
	AvatarURL   *string
	Location    *string
	Website     *string
}

func (u ProfileUpdate) Empty() bool {
	return u.DisplayName == nil && u.Bio == nil && u.AvatarURL == nil && u.Location == nil && u.Website == nil
}
