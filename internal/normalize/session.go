package normalize

import (
	"encoding/json"
	"fmt"

	"github.com/drobledo/pulso-cli/internal/domain"
)

// SessionPayload reconciles the historical session/login payload
// shapes into a canonical user and bearer token:
//
//  1. {"user": {...}, "token": "..."} — current canonical blob
//  2. {"usuario": {...}, "token": "..."} — legacy backend response
//  3. flat user object with an embedded "token" field
//
// The error is non-nil only for undecodable JSON; missing fields
// degrade to zero values as everywhere else in this package.
func SessionPayload(raw []byte) (domain.User, string, error) {
	var wrapper struct {
		User    json.RawMessage `json:"user"`
		Usuario json.RawMessage `json:"usuario"`
		Token   string          `json:"token"`
	}
	if err := json.Unmarshal(raw, &wrapper); err != nil {
		return domain.User{}, "", fmt.Errorf("decode session payload: %w", err)
	}

	var rawUser RawUser
	switch {
	case isJSONObject(wrapper.User):
		if err := json.Unmarshal(wrapper.User, &rawUser); err != nil {
			return domain.User{}, "", fmt.Errorf("decode session user: %w", err)
		}
	case isJSONObject(wrapper.Usuario):
		if err := json.Unmarshal(wrapper.Usuario, &rawUser); err != nil {
			return domain.User{}, "", fmt.Errorf("decode session user: %w", err)
		}
	default:
		if err := json.Unmarshal(raw, &rawUser); err != nil {
			return domain.User{}, "", fmt.Errorf("decode session user: %w", err)
		}
	}

	token := firstString(wrapper.Token, rawUser.Token)

	return User(rawUser), token, nil
}
