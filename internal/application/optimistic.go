package application

import (
	"context"
	"fmt"
	"sync"

	"github.com/drobledo/pulso-cli/internal/domain"
)

// MutationState is the lifecycle of one optimistic mutation: the local
// change is applied before the request is dispatched, then either
// reconciled against the server response or rolled back to the
// captured pre-action value.
type MutationState string

const (
	MutationIdle         MutationState = "idle"
	MutationPending      MutationState = "pending"
	MutationReconciled   MutationState = "reconciled"
	MutationRolledBack   MutationState = "rolled_back"
	MutationAuthRequired MutationState = "auth_required"
)

// targetGuard enforces at most one in-flight mutation per target
// entity. A second action against a busy target is a no-op, which
// prevents duplicate network calls and local state races.
type targetGuard struct {
	mu   sync.Mutex
	busy map[string]struct{}
}

func newTargetGuard() *targetGuard {
	return &targetGuard{busy: make(map[string]struct{})}
}

func (g *targetGuard) acquire(target string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, held := g.busy[target]; held {
		return false
	}
	g.busy[target] = struct{}{}
	return true
}

func (g *targetGuard) release(target string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	delete(g.busy, target)
}

// mutation is one optimistic run: apply flips the local state (after
// capturing its own snapshot), call performs the request and returns a
// commit that reconciles local state with server-authoritative values,
// and rollback restores the snapshot.
type mutation struct {
	target   string
	apply    func()
	rollback func()
	call     func(ctx context.Context) (commit func(), err error)
}

// run executes the capture -> apply -> request -> commit|rollback
// sequence. Completion-side state changes are skipped when ctx is
// already done, so a response landing after the caller has moved on is
// a safe no-op. Rollback always happens before the error is surfaced,
// never after.
func (s *InteractionService) run(ctx context.Context, m mutation) (MutationState, error) {
	if !s.guard.acquire(m.target) {
		return MutationPending, domain.ErrMutationInFlight
	}
	defer s.guard.release(m.target)

	m.apply()

	commit, err := m.call(ctx)
	if err != nil {
		if ctx.Err() == nil {
			m.rollback()
		}
		if domain.NeedsReauth(err) {
			// Forced logout must go through even when the caller's
			// context is already cancelled.
			s.sessions.Logout(context.WithoutCancel(ctx))
			return MutationAuthRequired, fmt.Errorf("%w: %v", domain.ErrAuthRequired, err)
		}
		return MutationRolledBack, err
	}

	if commit != nil && ctx.Err() == nil {
		commit()
	}

	return MutationReconciled, nil
}

// unresolvableErr is the rejection for records carrying a placeholder
// id: no network call is issued because the id resolves to nothing
// server-side.
func unresolvableErr(kind string) *domain.RequestError {
	return &domain.RequestError{
		Class:   domain.ClassValidation,
		Message: kind + " only exists locally and cannot be modified yet",
	}
}
