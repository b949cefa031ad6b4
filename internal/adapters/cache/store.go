// Package cache keeps the last successfully fetched feed in a local
// SQLite database so a failed refresh can still show stale items.
package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/drobledo/pulso-cli/internal/domain"
	"github.com/drobledo/pulso-cli/internal/ports"
)

const schema = `
CREATE TABLE IF NOT EXISTS feed_snapshot (
	position   INTEGER PRIMARY KEY,
	tweet_json TEXT    NOT NULL,
	fetched_at INTEGER NOT NULL
);`

type Store struct {
	db *sql.DB
}

var _ ports.FeedCache = (*Store)(nil)

func NewStore(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("cache path is empty")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cache database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create cache schema: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Save replaces the whole snapshot transactionally; readers never see
// a half-written feed.
func (s *Store) Save(ctx context.Context, tweets []domain.Tweet, fetchedAt time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin cache transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM feed_snapshot`); err != nil {
		return fmt.Errorf("clear feed snapshot: %w", err)
	}

	for i, tweet := range tweets {
		encoded, err := json.Marshal(tweet)
		if err != nil {
			return fmt.Errorf("encode cached tweet: %w", err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO feed_snapshot (position, tweet_json, fetched_at) VALUES (?, ?, ?)`,
			i, string(encoded), fetchedAt.Unix(),
		)
		if err != nil {
			return fmt.Errorf("insert cached tweet: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit feed snapshot: %w", err)
	}

	return nil
}

// Load returns the snapshot in feed order with its fetch time, or
// domain.ErrNoSnapshot when nothing has been cached yet.
func (s *Store) Load(ctx context.Context) ([]domain.Tweet, time.Time, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT tweet_json, fetched_at FROM feed_snapshot ORDER BY position`)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("query feed snapshot: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tweets []domain.Tweet
	var fetchedUnix int64
	for rows.Next() {
		var encoded string
		if err := rows.Scan(&encoded, &fetchedUnix); err != nil {
			return nil, time.Time{}, fmt.Errorf("scan cached tweet: %w", err)
		}

		var tweet domain.Tweet
		if err := json.Unmarshal([]byte(encoded), &tweet); err != nil {
			return nil, time.Time{}, fmt.Errorf("decode cached tweet: %w", err)
		}
		tweets = append(tweets, tweet)
	}
	if err := rows.Err(); err != nil {
		return nil, time.Time{}, fmt.Errorf("iterate feed snapshot: %w", err)
	}

	if len(tweets) == 0 {
		return nil, time.Time{}, domain.ErrNoSnapshot
	}

	return tweets, time.Unix(fetchedUnix, 0), nil
}
