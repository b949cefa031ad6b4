package normalize

import (
	"encoding/json"
	"fmt"

	"github.com/drobledo/pulso-cli/internal/domain"
)

// RawUser lists every alias the backend has used for user fields.
// Keep the field groups in fallback order; the normalizer below picks
// the first non-empty candidate per group and changing that order
// silently reintroduces the inconsistencies this layer exists to fix.
type RawUser struct {
	ID       StringID `json:"id"`
	MongoID  StringID `json:"_id"`
	Usuario  string   `json:"usuario"`
	Username string   `json:"username"`
	UserName string   `json:"userName"`
	Nombre   string   `json:"nombre"`
	Name     string   `json:"name"`

	Email       string `json:"email"`
	Bio         string `json:"bio"`
	Descripcion string `json:"descripcion"`
	Telefono    string `json:"telefono"`
	Membresia   string `json:"membresia"`

	Avatar       string `json:"avatar"`
	AvatarURL    string `json:"avatar_url"`
	ProfileImage string `json:"profileImage"`
	Ubicacion    string `json:"ubicacion"`
	Location     string `json:"location"`
	SitioWeb     string `json:"sitio_web"`
	SitioWebAlt  string `json:"sitioWeb"`
	Website      string `json:"website"`

	CreadoEn      string `json:"creadoEn"`
	CreatedSnake  string `json:"created_at"`
	CreatedCamel  string `json:"createdAt"`
	FechaCreacion string `json:"fecha_creacion"`

	FollowersCount int `json:"followersCount"`
	Seguidores     int `json:"seguidores"`
	FollowersAlias int `json:"followers_count"`
	FollowingCount int `json:"followingCount"`
	Siguiendo      int `json:"siguiendo"`
	FollowingAlias int `json:"following_count"`
	TweetCount     int `json:"tweetCount"`
	TweetsCount    int `json:"tweets_count"`
	TweetAlias     int `json:"tweet_count"`

	// Legacy session blobs embedded the bearer token in the user
	// object itself.
	Token string `json:"token"`
}

// User resolves a raw user record into the canonical shape. Missing
// fields degrade to zero values; the function never fails.
func User(raw RawUser) domain.User {
	username := firstString(raw.Usuario, raw.Username, raw.UserName)

	return domain.User{
		ID:          firstUsableID(raw.ID, raw.MongoID),
		Username:    username,
		DisplayName: firstString(raw.Nombre, raw.Name, username),
		Email:       raw.Email,
		Bio:         firstString(raw.Bio, raw.Descripcion),
		AvatarURL:   firstString(raw.Avatar, raw.AvatarURL, raw.ProfileImage),
		Location:    firstString(raw.Ubicacion, raw.Location),
		Website:     firstString(raw.SitioWeb, raw.SitioWebAlt, raw.Website),
		Phone:       raw.Telefono,
		Membership:  firstString(raw.Membresia, "Usuario"),
		CreatedAt:   parseTime(raw.CreadoEn, raw.CreatedSnake, raw.CreatedCamel, raw.FechaCreacion),
		Followers:   firstCount(raw.FollowersCount, raw.Seguidores, raw.FollowersAlias),
		Following:   firstCount(raw.FollowingCount, raw.Siguiendo, raw.FollowingAlias),
		TweetTotal:  firstCount(raw.TweetCount, raw.TweetsCount, raw.TweetAlias),
	}
}

// UserPayload reconciles the profile response shapes: a user object
// wrapped under "usuario" or "user", or the bare user object itself.
// The wrapper keys only count when they hold an object; on a bare
// response "usuario" is the username string, not a user record.
func UserPayload(raw []byte) (RawUser, error) {
	var wrapper struct {
		Usuario json.RawMessage `json:"usuario"`
		User    json.RawMessage `json:"user"`
	}
	if err := json.Unmarshal(raw, &wrapper); err != nil {
		return RawUser{}, fmt.Errorf("decode user payload: %w", err)
	}

	var rawUser RawUser
	switch {
	case isJSONObject(wrapper.Usuario):
		if err := json.Unmarshal(wrapper.Usuario, &rawUser); err != nil {
			return RawUser{}, fmt.Errorf("decode user payload: %w", err)
		}
	case isJSONObject(wrapper.User):
		if err := json.Unmarshal(wrapper.User, &rawUser); err != nil {
			return RawUser{}, fmt.Errorf("decode user payload: %w", err)
		}
	default:
		if err := json.Unmarshal(raw, &rawUser); err != nil {
			return RawUser{}, fmt.Errorf("decode user payload: %w", err)
		}
	}

	return rawUser, nil
}

func firstCount(candidates ...int) int {
	for _, candidate := range candidates {
		if candidate > 0 {
			return candidate
		}
	}
	return 0
}
