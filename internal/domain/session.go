package domain

// Session pairs the authenticated user with the bearer token. The two
// are set and cleared together: a token without a user (or the
// reverse) is never exposed.
type Session struct {
	User  *User
	Token string
}

func (s Session) Authenticated() bool {
	return s.User != nil && s.Token != ""
}
