package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/drobledo/pulso-cli/internal/domain"
)

func newLikeCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "like <tweet-id>",
		Short: "Toggle your like on a tweet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tweet := domain.Tweet{ID: args[0]}

			if _, err := app.interactions.ToggleTweetLike(cmd.Context(), &tweet); err != nil {
				return reloginHint(err)
			}

			verdict := "Unliked"
			if tweet.LikedByViewer {
				verdict = "Liked"
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s tweet %s (%d likes)\n", verdict, tweet.ID, tweet.LikeCount)
			return err
		},
	}
}

func newRmCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <tweet-id>",
		Short: "Delete one of your tweets",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.interactions.RemoveTweet(cmd.Context(), nil, args[0]); err != nil {
				return reloginHint(err)
			}

			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Deleted tweet %s\n", args[0])
			return err
		},
	}
}
