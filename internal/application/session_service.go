package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/drobledo/pulso-cli/internal/domain"
	"github.com/drobledo/pulso-cli/internal/normalize"
	"github.com/drobledo/pulso-cli/internal/ports"
)

// SessionService is the single source of truth for "who is logged in".
// It owns the in-memory session and its disk-backed persistence; feed
// and interaction code only ever read from it.
type SessionService struct {
	store ports.SessionStore
	diag  io.Writer

	mu      sync.Mutex
	session domain.Session
}

// NewSessionService wires the store and a diagnostics writer for
// non-fatal storage failures. diag may be nil.
func NewSessionService(store ports.SessionStore, diag io.Writer) *SessionService {
	if diag == nil {
		diag = io.Discard
	}

	return &SessionService{store: store, diag: diag}
}

// Hydrate loads the persisted session into memory. An absent or
// corrupt blob leaves the session empty; hydration never fails the
// process.
func (s *SessionService) Hydrate(ctx context.Context) {
	session, err := s.store.Load(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrNoSession) {
			fmt.Fprintf(s.diag, "warning: load stored session: %v\n", err)
		}
		return
	}

	s.mu.Lock()
	s.session = session
	s.mu.Unlock()
}

// Login reconciles a raw login response (any of the tolerated payload
// shapes), updates the in-memory session synchronously, and persists
// the canonical {user, token} blob. The in-memory state is live even
// when persistence fails; the returned error then only reports the
// write failure.
func (s *SessionService) Login(ctx context.Context, raw []byte) (domain.Session, error) {
	user, token, err := normalize.SessionPayload(raw)
	if err != nil {
		return domain.Session{}, fmt.Errorf("reconcile login response: %w", err)
	}
	if token == "" {
		return domain.Session{}, &domain.RequestError{
			Class:   domain.ClassValidation,
			Message: "login response carries no token",
		}
	}

	session := domain.Session{User: &user, Token: token}

	s.mu.Lock()
	s.session = session
	s.mu.Unlock()

	if err := s.store.Save(ctx, session); err != nil {
		return s.Current(), fmt.Errorf("persist session: %w", err)
	}

	return s.Current(), nil
}

// Logout clears the in-memory session unconditionally. A storage
// deletion failure is reported to the diagnostics writer but never
// returned: logout must not leave the caller authenticated.
func (s *SessionService) Logout(ctx context.Context) {
	s.mu.Lock()
	s.session = domain.Session{}
	s.mu.Unlock()

	if err := s.store.Clear(ctx); err != nil {
		fmt.Fprintf(s.diag, "warning: clear stored session: %v\n", err)
	}
}

// UpdateToken swaps the bearer token after a refresh or forced
// re-auth. The persisted blob is rewritten read-modify-write under the
// service lock, so concurrent calls are sequenced rather than
// interleaved. A token for nobody is refused: without a current user
// the call returns domain.ErrNoSession.
func (s *SessionService) UpdateToken(ctx context.Context, token string) error {
	if token == "" {
		return &domain.RequestError{Class: domain.ClassValidation, Message: "token is empty"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session.User == nil {
		return domain.ErrNoSession
	}
	s.session.Token = token

	if err := s.store.UpdateToken(ctx, token); err != nil {
		return fmt.Errorf("persist token update: %w", err)
	}

	return nil
}

// ReplaceUser swaps the stored user record (after a profile edit)
// while keeping the current token. Requires an authenticated session.
func (s *SessionService) ReplaceUser(ctx context.Context, user domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session.User == nil || s.session.Token == "" {
		return domain.ErrNoSession
	}
	s.session.User = &user

	if err := s.store.Save(ctx, s.session); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}

	return nil
}

// Current returns a copy of the session; mutating the copy does not
// affect the service state.
func (s *SessionService) Current() domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	session := s.session
	if session.User != nil {
		user := *session.User
		session.User = &user
	}

	return session
}

// Token implements the REST adapter's token source.
func (s *SessionService) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.session.Token
}
