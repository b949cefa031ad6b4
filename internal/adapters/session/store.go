// Package session persists the authenticated session as a single JSON
// blob on disk. Reads tolerate every blob shape the app has ever
// written; writes always produce the canonical {user, token} layout.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/drobledo/pulso-cli/internal/domain"
	"github.com/drobledo/pulso-cli/internal/normalize"
	"github.com/drobledo/pulso-cli/internal/ports"
)

const (
	sessionFileMode = 0o600
	sessionDirMode  = 0o700
	tempFilePattern = ".session-*.json.tmp"
)

type Store struct {
	path string
	mu   *sync.RWMutex
}

var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.RWMutex{}
)

var _ ports.SessionStore = (*Store)(nil)

func NewStore(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("session path is empty")
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve session path: %w", err)
	}
	absPath = filepath.Clean(absPath)

	return &Store{path: absPath, mu: lockForPath(absPath)}, nil
}

// Load reads and reconciles the persisted blob. Absent, empty, or
// corrupt blobs all surface as domain.ErrNoSession: an unreadable
// session means "not logged in", never a crash.
func (s *Store) Load(ctx context.Context) (domain.Session, error) {
	if err := ctx.Err(); err != nil {
		return domain.Session{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.Session{}, domain.ErrNoSession
		}
		return domain.Session{}, fmt.Errorf("read session file: %w", err)
	}
	if len(raw) == 0 {
		return domain.Session{}, domain.ErrNoSession
	}

	user, token, err := normalize.SessionPayload(raw)
	if err != nil {
		return domain.Session{}, domain.ErrNoSession
	}
	if token == "" && user.ID == "" && user.Username == "" {
		return domain.Session{}, domain.ErrNoSession
	}

	return domain.Session{User: &user, Token: token}, nil
}

// Save writes the canonical blob shape.
func (s *Store) Save(ctx context.Context, session domain.Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	blob := struct {
		User  *domain.User `json:"user"`
		Token string       `json:"token"`
	}{User: session.User, Token: session.Token}

	data, err := json.Marshal(blob)
	if err != nil {
		return fmt.Errorf("encode session file: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.writeFile(data)
}

// UpdateToken rewrites only the token field of the persisted blob via
// read-modify-write, keeping every other persisted field — including
// ones this build does not know about — intact.
func (s *Store) UpdateToken(ctx context.Context, token string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.ErrNoSession
		}
		return fmt.Errorf("read session file: %w", err)
	}

	var blob map[string]any
	if err := json.Unmarshal(raw, &blob); err != nil {
		return fmt.Errorf("decode session file: %w", err)
	}

	blob["token"] = token
	// Legacy blobs duplicated the token inside the user object; keep
	// the duplicate consistent when present.
	if userObj, ok := blob["user"].(map[string]any); ok {
		if _, hasToken := userObj["token"]; hasToken {
			userObj["token"] = token
		}
	}

	data, err := json.Marshal(blob)
	if err != nil {
		return fmt.Errorf("encode session file: %w", err)
	}

	return s.writeFile(data)
}

func (s *Store) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete session file: %w", err)
	}

	return nil
}

// writeFile replaces the blob atomically so a crash mid-write never
// leaves a truncated session behind. Callers hold the write lock.
func (s *Store) writeFile(data []byte) error {
	if err := os.MkdirAll(filepath.Dir(s.path), sessionDirMode); err != nil {
		return fmt.Errorf("create session directory: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(s.path), tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp session file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp session file: %w", err)
	}

	if err := tempFile.Chmod(sessionFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp session file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp session file: %w", err)
	}

	if err := os.Rename(tempName, s.path); err != nil {
		return fmt.Errorf("replace session file: %w", err)
	}

	cleanup = false

	return nil
}

func lockForPath(path string) *sync.RWMutex {
	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if mu, ok := pathLockMap[path]; ok {
		return mu
	}

	mu := &sync.RWMutex{}
	pathLockMap[path] = mu
	return mu
}
