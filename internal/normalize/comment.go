package normalize

import (
	"time"

	"github.com/drobledo/pulso-cli/internal/domain"
)

// RawComment follows the tweet alias table plus the comment-only
// edited/updated fields. Some releases flattened the author's
// username and avatar onto the comment itself.
type RawComment struct {
	ID      StringID `json:"id"`
	MongoID StringID `json:"_id"`
	TweetID StringID `json:"tweetId"`

	Contenido string `json:"contenido"`
	Content   string `json:"content"`
	Text      string `json:"text"`

	Usuario Actor `json:"usuario"`
	User    Actor `json:"user"`

	Username  string `json:"username"`
	Avatar    string `json:"avatar"`
	AvatarURL string `json:"avatar_url"`

	Fecha        string `json:"fecha"`
	CreatedSnake string `json:"created_at"`
	CreatedCamel string `json:"createdAt"`
	UpdatedCamel string `json:"updatedAt"`
	UpdatedSnake string `json:"updated_at"`

	Editado bool `json:"editado"`

	Likes       []StringID `json:"likes"`
	LikesCount  int        `json:"likesCount"`
	Liked       bool       `json:"liked"`
	LikedByMe   bool       `json:"liked_by_me"`
	LikedByMeCC bool       `json:"likedByMe"`
}

// Comment resolves one raw comment the way Tweet resolves tweets.
func Comment(raw RawComment, tweetID string, now time.Time, index int) domain.Comment {
	id := firstUsableID(raw.ID, raw.MongoID)
	if id == "" {
		id = placeholderID(now, index)
	}

	actor := raw.Usuario
	if !actor.present {
		actor = raw.User
	}
	summary := authorSummary(actor)
	if summary.Username == "" {
		summary.Username = raw.Username
	}
	if summary.AvatarURL == "" {
		summary.AvatarURL = firstString(raw.Avatar, raw.AvatarURL)
	}

	likeCount := raw.LikesCount
	if likeCount == 0 {
		likeCount = len(raw.Likes)
	}

	resolvedTweetID := tweetID
	if resolvedTweetID == "" {
		resolvedTweetID = firstUsableID(raw.TweetID)
	}

	return domain.Comment{
		ID:            id,
		TweetID:       resolvedTweetID,
		Author:        summary,
		Content:       firstString(raw.Contenido, raw.Content, raw.Text),
		CreatedAt:     parseTime(raw.Fecha, raw.CreatedSnake, raw.CreatedCamel),
		UpdatedAt:     parseTime(raw.UpdatedCamel, raw.UpdatedSnake),
		Edited:        raw.Editado,
		LikeCount:     likeCount,
		LikedByViewer: raw.Liked || raw.LikedByMe || raw.LikedByMeCC,
	}
}

// Comments resolves a comment list in server response order.
func Comments(raws []RawComment, tweetID string, now time.Time) []domain.Comment {
	comments := make([]domain.Comment, 0, len(raws))
	for i, raw := range raws {
		comments = append(comments, Comment(raw, tweetID, now, i))
	}
	return comments
}
