package cmd

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/drobledo/pulso-cli/internal/adapters/cache"
	feedrender "github.com/drobledo/pulso-cli/internal/adapters/render/feed"
	"github.com/drobledo/pulso-cli/internal/adapters/rest"
	sessionstore "github.com/drobledo/pulso-cli/internal/adapters/session"
	"github.com/drobledo/pulso-cli/internal/application"
	"github.com/drobledo/pulso-cli/internal/ports"
)

type app struct {
	config       config
	api          ports.API
	sessions     *application.SessionService
	feed         *application.FeedService
	interactions *application.InteractionService
	profiles     *application.ProfileService
	feedCache    *cache.Store
	feedRenderer func(application.FeedPage, feedrender.RenderOptions) (string, error)
	now          func() time.Time
}

func (a *app) Close() error {
	if a.feedCache == nil {
		return nil
	}
	return a.feedCache.Close()
}

func wireApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("wire configuration: %w", err)
	}

	store, err := sessionstore.NewStore(cfg.SessionPath)
	if err != nil {
		return nil, fmt.Errorf("wire session store: %w", err)
	}
	sessions := application.NewSessionService(store, os.Stderr)

	client, err := rest.NewClient(cfg.BaseURL, sessions,
		rest.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
	)
	if err != nil {
		return nil, fmt.Errorf("wire api client: %w", err)
	}

	// An unusable cache degrades to cacheless feed loads instead of
	// blocking every command.
	var feedCache ports.FeedCache
	cacheStore, err := cache.NewStore(cfg.CachePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: open feed cache: %v\n", err)
		cacheStore = nil
	} else {
		feedCache = cacheStore
	}

	return &app{
		config:       cfg,
		api:          client,
		sessions:     sessions,
		feed:         application.NewFeedService(client, feedCache, ports.SystemClock{}, os.Stderr),
		interactions: application.NewInteractionService(client, sessions),
		profiles:     application.NewProfileService(client, sessions),
		feedCache:    cacheStore,
		feedRenderer: feedrender.Render,
		now:          time.Now,
	}, nil
}
