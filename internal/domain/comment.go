package domain

import "time"

type Comment struct {
	ID            string    `json:"id"`
	TweetID       string    `json:"tweetId,omitempty"`
	Author        Author    `json:"user"`
	Content       string    `json:"content"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	Edited        bool      `json:"editado"`
	LikeCount     int       `json:"likesCount"`
	LikedByViewer bool      `json:"liked"`
}

// Resolvable reports whether the comment can be targeted by mutation
// operations, mirroring Tweet.Resolvable.
func (c Comment) Resolvable() bool {
	return c.ID != "" && !IsPlaceholderID(c.ID)
}
