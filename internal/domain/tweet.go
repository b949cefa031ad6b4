package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Placeholder id prefixes assigned by the normalization layer when the
// backend omits a usable identifier. Records carrying one cannot be
// targeted by mutation calls because the id resolves to nothing
// server-side.
const (
	PlaceholderPrefix = "temp_"
	FreshPrefix       = "new_"
)

// MaxTweetRunes is the client-enforced tweet body limit.
const MaxTweetRunes = 280

type Tweet struct {
	ID            string    `json:"id"`
	Author        Author    `json:"user"`
	Content       string    `json:"content"`
	CreatedAt     time.Time `json:"created_at"`
	LikeCount     int       `json:"likesCount"`
	LikedByViewer bool      `json:"liked_by_me"`
	CommentCount  int       `json:"commentsCount"`
	Mine          bool      `json:"isOwnTweet,omitempty"`
}

// AuthorID reports the id of the tweet's author, empty when unknown.
func (t Tweet) AuthorID() string {
	return t.Author.ID
}

// Resolvable reports whether the tweet can be targeted by mutation
// operations (like, delete). Placeholder ids only exist locally.
func (t Tweet) Resolvable() bool {
	return t.ID != "" && !IsPlaceholderID(t.ID)
}

func IsPlaceholderID(id string) bool {
	return strings.HasPrefix(id, PlaceholderPrefix) || strings.HasPrefix(id, FreshPrefix)
}

// ValidateTweetContent enforces the client-side body rules before any
// network call is made.
func ValidateTweetContent(content string) error {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return &RequestError{Class: ClassValidation, Message: "tweet content is required"}
	}
	if utf8.RuneCountInString(trimmed) > MaxTweetRunes {
		return &RequestError{Class: ClassValidation, Message: "tweet content exceeds 280 characters"}
	}
	return nil
}
