package normalize

import (
	"fmt"
	"time"

	"github.com/drobledo/pulso-cli/internal/domain"
)

// RawTweet lists every alias the backend has used for tweet fields,
// in fallback order per group.
type RawTweet struct {
	ID      StringID `json:"id"`
	MongoID StringID `json:"_id"`
	TweetID StringID `json:"tweetId"`

	Contenido string `json:"contenido"`
	Content   string `json:"content"`
	Text      string `json:"text"`

	Usuario Actor `json:"usuario"`
	User    Actor `json:"user"`
	Author  Actor `json:"author"`

	Fecha        string `json:"fecha"`
	CreatedCamel string `json:"createdAt"`
	CreatedSnake string `json:"created_at"`

	Likes       []StringID `json:"likes"`
	LikesCount  int        `json:"likesCount"`
	LikedByMe   bool       `json:"liked_by_me"`
	LikedByMeCC bool       `json:"likedByMe"`

	Comentarios   []RawComment `json:"comentarios"`
	Comments      []RawComment `json:"comments"`
	CommentsCount int          `json:"commentsCount"`
	CommentCount  int          `json:"comment_count"`

	IsOwnTweet bool `json:"isOwnTweet"`
}

// Tweet resolves one raw tweet. When no usable identifier exists a
// placeholder id derived from now and index is assigned; such records
// are excluded from mutations (domain.Tweet.Resolvable).
func Tweet(raw RawTweet, now time.Time, index int) domain.Tweet {
	id := firstUsableID(raw.ID, raw.MongoID, raw.TweetID)
	if id == "" {
		id = author(raw).id()
	}
	if id == "" {
		id = placeholderID(now, index)
	}

	likeCount := raw.LikesCount
	if likeCount == 0 {
		likeCount = len(raw.Likes)
	}

	commentCount := firstCount(raw.CommentsCount, raw.CommentCount)
	if commentCount == 0 {
		commentCount = len(raw.Comentarios) + len(raw.Comments)
	}

	return domain.Tweet{
		ID:            id,
		Author:        authorSummary(author(raw)),
		Content:       firstString(raw.Contenido, raw.Content, raw.Text),
		CreatedAt:     parseTime(raw.Fecha, raw.CreatedCamel, raw.CreatedSnake),
		LikeCount:     likeCount,
		LikedByViewer: raw.LikedByMe || raw.LikedByMeCC,
		CommentCount:  commentCount,
		Mine:          raw.IsOwnTweet,
	}
}

// Tweets resolves a whole feed page, assigning index-stable
// placeholder ids to records the backend shipped without one.
func Tweets(raws []RawTweet, now time.Time) []domain.Tweet {
	tweets := make([]domain.Tweet, 0, len(raws))
	for i, raw := range raws {
		tweets = append(tweets, Tweet(raw, now, i))
	}
	return tweets
}

func author(raw RawTweet) Actor {
	for _, candidate := range []Actor{raw.Usuario, raw.User, raw.Author} {
		if candidate.present {
			return candidate
		}
	}
	return Actor{}
}

func authorSummary(actor Actor) domain.Author {
	username := firstString(actor.Usuario, actor.Username)

	return domain.Author{
		ID:          actor.id(),
		Username:    username,
		DisplayName: firstString(actor.Nombre, actor.Name, username),
		AvatarURL:   firstString(actor.Avatar, actor.AvatarURL),
	}
}

func placeholderID(now time.Time, index int) string {
	return fmt.Sprintf("%s%d_%d", domain.PlaceholderPrefix, now.UnixMilli(), index)
}
