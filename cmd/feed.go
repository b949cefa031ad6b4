package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	feedrender "github.com/drobledo/pulso-cli/internal/adapters/render/feed"
	"github.com/drobledo/pulso-cli/internal/application"
	"github.com/drobledo/pulso-cli/internal/domain"
)

func newFeedCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Fetch and display the tweet feed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var page application.FeedPage

			load := func(ctx context.Context) error {
				var err error
				page, err = app.feed.LoadFeed(ctx)
				return err
			}

			if asJSON {
				if err := load(cmd.Context()); err != nil {
					return err
				}
			} else {
				if err := runWithSpinner(cmd.Context(), cmd.ErrOrStderr(), "Fetching feed...", load); err != nil {
					return err
				}
			}

			return writeFeedOutput(cmd, app, page, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

func writeFeedOutput(cmd *cobra.Command, app *app, page application.FeedPage, asJSON bool) error {
	if asJSON {
		payload := struct {
			Tweets    []domain.Tweet `json:"tweets"`
			FetchedAt time.Time      `json:"fetched_at"`
			Stale     bool           `json:"stale"`
		}{Tweets: page.Tweets, FetchedAt: page.FetchedAt, Stale: page.Stale}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	}

	rendered, err := app.feedRenderer(page, feedrender.RenderOptions{Now: app.now()})
	if err != nil {
		return fmt.Errorf("render feed: %w", err)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
	return err
}

func newPostCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "post <content>",
		Short: "Publish a new tweet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tweet, err := app.feed.Post(cmd.Context(), args[0])
			if err != nil {
				return reloginHint(err)
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Posted tweet %s\n", tweet.ID)
			return err
		},
	}
}
