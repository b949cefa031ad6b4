// Package normalize maps the backend's heterogeneous payload shapes
// into the canonical domain records. The backend has shipped several
// field-naming conventions release-to-release (usuario vs user,
// contenido vs content, _id vs id); every alias the API has ever
// produced is listed on the raw record types below, and one normalizer
// per entity resolves them in a fixed fallback order. The normalizers
// are pure, never fail, and are idempotent over already-canonical
// records.
package normalize

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// StringID decodes an identifier that the backend serializes either as
// a JSON string or as a number.
type StringID string

func (s *StringID) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*s = ""
		return nil
	}

	if trimmed[0] == '"' {
		var value string
		if err := json.Unmarshal(trimmed, &value); err != nil {
			return err
		}
		*s = StringID(value)
		return nil
	}

	var number json.Number
	if err := json.Unmarshal(trimmed, &number); err != nil {
		return err
	}
	*s = StringID(number.String())
	return nil
}

// usable reports whether the id carries a real value. Some backend
// releases serialized the literal string "undefined" for missing ids.
func (s StringID) usable() bool {
	return s != "" && s != "undefined"
}

// Actor decodes the author reference on tweets and comments, which the
// backend serializes either as an embedded user object or as a bare
// username string.
type Actor struct {
	ID        StringID `json:"id"`
	MongoID   StringID `json:"_id"`
	Usuario   string   `json:"usuario"`
	Username  string   `json:"username"`
	Nombre    string   `json:"nombre"`
	Name      string   `json:"name"`
	Avatar    string   `json:"avatar"`
	AvatarURL string   `json:"avatar_url"`

	present bool
}

func (a *Actor) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	if trimmed[0] == '"' {
		var username string
		if err := json.Unmarshal(trimmed, &username); err != nil {
			return err
		}
		a.Username = username
		a.present = username != ""
		return nil
	}

	type plain Actor
	var decoded plain
	if err := json.Unmarshal(trimmed, &decoded); err != nil {
		// Tolerate shapes we cannot decode rather than failing the
		// whole record.
		return nil
	}
	*a = Actor(decoded)
	a.present = true
	return nil
}

func (a Actor) id() string {
	return firstUsableID(a.MongoID, a.ID)
}

// firstString returns the first non-empty candidate.
func firstString(candidates ...string) string {
	for _, candidate := range candidates {
		if candidate != "" {
			return candidate
		}
	}
	return ""
}

func firstUsableID(candidates ...StringID) string {
	for _, candidate := range candidates {
		if candidate.usable() {
			return string(candidate)
		}
	}
	return ""
}

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseTime resolves the first parseable candidate; records with no
// usable timestamp degrade to the zero time.
func parseTime(candidates ...string) time.Time {
	for _, candidate := range candidates {
		candidate = strings.TrimSpace(candidate)
		if candidate == "" {
			continue
		}
		for _, layout := range timeLayouts {
			if parsed, err := time.Parse(layout, candidate); err == nil {
				return parsed
			}
		}
		if seconds, err := strconv.ParseInt(candidate, 10, 64); err == nil && seconds > 0 {
			return time.Unix(seconds, 0).UTC()
		}
	}
	return time.Time{}
}

func isJSONObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}
