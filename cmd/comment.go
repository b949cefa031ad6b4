package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	feedrender "github.com/drobledo/pulso-cli/internal/adapters/render/feed"
	"github.com/drobledo/pulso-cli/internal/domain"
)

func newCommentsCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "comments <tweet-id>",
		Short: "List a tweet's comments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			comments, err := app.feed.Comments(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("load comments: %w", err)
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(comments)
			}

			rendered, err := feedrender.RenderComments(nil, comments, feedrender.RenderOptions{Now: app.now()})
			if err != nil {
				return fmt.Errorf("render comments: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

func newCommentCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "comment",
		Short: "Add, edit, remove, or like comments",
	}

	cmd.AddCommand(
		newCommentAddCmd(app),
		newCommentEditCmd(app),
		newCommentRmCmd(app),
		newCommentLikeCmd(app),
	)

	return cmd
}

func newCommentAddCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add <tweet-id> <content>",
		Short: "Comment on a tweet",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tweet := domain.Tweet{ID: args[0]}
			comments := []domain.Comment{}

			if _, err := app.interactions.AddComment(cmd.Context(), &comments, &tweet, args[1]); err != nil {
				return reloginHint(err)
			}

			commentID := ""
			if len(comments) > 0 {
				commentID = comments[0].ID
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Added comment %s on tweet %s\n", commentID, tweet.ID)
			return err
		},
	}
}

func newCommentEditCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <tweet-id> <comment-id> <content>",
		Short: "Rewrite one of your comments",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			comment := domain.Comment{ID: args[1], TweetID: args[0]}

			if _, err := app.interactions.EditComment(cmd.Context(), &comment, args[2]); err != nil {
				return reloginHint(err)
			}

			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Updated comment %s\n", comment.ID)
			return err
		},
	}
}

func newCommentRmCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <tweet-id> <comment-id>",
		Short: "Delete one of your comments",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tweet := domain.Tweet{ID: args[0]}

			if _, err := app.interactions.RemoveComment(cmd.Context(), nil, &tweet, args[1]); err != nil {
				return reloginHint(err)
			}

			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Deleted comment %s\n", args[1])
			return err
		},
	}
}

func newCommentLikeCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "like <tweet-id> <comment-id>",
		Short: "Toggle your like on a comment",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			comment := domain.Comment{ID: args[1], TweetID: args[0]}

			if _, err := app.interactions.ToggleCommentLike(cmd.Context(), &comment); err != nil {
				return reloginHint(err)
			}

			verdict := "Unliked"
			if comment.LikedByViewer {
				verdict = "Liked"
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s comment %s (%d likes)\n", verdict, comment.ID, comment.LikeCount)
			return err
		},
	}
}
