package ports

import (
	"context"
	"time"

	"github.com/drobledo/pulso-cli/internal/domain"
)

// FeedCache keeps the last successfully fetched feed so a failed
// refresh can still show stale items instead of an empty screen.
// Load returns domain.ErrNoSnapshot when nothing has been cached.
type FeedCache interface {
	Save(ctx context.Context, tweets []domain.Tweet, fetchedAt time.Time) error
	Load(ctx context.Context) ([]domain.Tweet, time.Time, error)
}
