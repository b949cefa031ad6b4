package ports

import (
	"context"

	"github.com/drobledo/pulso-cli/internal/domain"
)

// SessionStore persists the authenticated session as a single blob.
// Load returns domain.ErrNoSession when no blob exists or the stored
// payload is unreadable; a corrupt blob is never an error the caller
// has to handle differently from "not logged in".
type SessionStore interface {
	Load(ctx context.Context) (domain.Session, error)
	Save(ctx context.Context, session domain.Session) error
	// UpdateToken rewrites only the token field of the persisted
	// blob, preserving every other persisted field.
	UpdateToken(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}
