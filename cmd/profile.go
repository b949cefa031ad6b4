package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	feedrender "github.com/drobledo/pulso-cli/internal/adapters/render/feed"
	"github.com/drobledo/pulso-cli/internal/domain"
)

func newProfileCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show, edit, or search user profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runProfileShow(cmd, app, "", false)
		},
	}

	cmd.AddCommand(
		newProfileShowCmd(app),
		newProfileEditCmd(app),
		newProfileAvatarCmd(app),
		newProfileSearchCmd(app),
		newProfileSuggestedCmd(app),
	)

	return cmd
}

func newProfileShowCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show [user-id]",
		Short: "Show a user's profile and recent tweets",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID := ""
			if len(args) == 1 {
				userID = args[0]
			}
			return runProfileShow(cmd, app, userID, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

func runProfileShow(cmd *cobra.Command, app *app, userID string, asJSON bool) error {
	var user domain.User
	var tweets []domain.Tweet

	load := func(ctx context.Context) error {
		var err error
		user, err = app.profiles.Profile(ctx, userID)
		if err != nil {
			return fmt.Errorf("load profile: %w", err)
		}

		tweets, err = app.profiles.ProfileTweets(ctx, user.ID)
		if err != nil {
			// The profile card still renders without the tweet list.
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: load profile tweets: %v\n", err)
			tweets = nil
		}
		return nil
	}

	if asJSON {
		if err := load(cmd.Context()); err != nil {
			return err
		}

		payload := struct {
			User   domain.User    `json:"user"`
			Tweets []domain.Tweet `json:"tweets"`
		}{User: user, Tweets: tweets}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	}

	if err := runWithSpinner(cmd.Context(), cmd.ErrOrStderr(), "Fetching profile...", load); err != nil {
		return err
	}

	rendered, err := feedrender.RenderProfile(user, tweets, feedrender.RenderOptions{Now: app.now()})
	if err != nil {
		return fmt.Errorf("render profile: %w", err)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
	return err
}

func newProfileEditCmd(app *app) *cobra.Command {
	var name, bio, avatar, location, website string

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit your profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var update domain.ProfileUpdate
			if cmd.Flags().Changed("name") {
				update.DisplayName = &name
			}
			if cmd.Flags().Changed("bio") {
				update.Bio = &bio
			}
			if cmd.Flags().Changed("avatar") {
				update.AvatarURL = &avatar
			}
			if cmd.Flags().Changed("location") {
				update.Location = &location
			}
			if cmd.Flags().Changed("website") {
				update.Website = &website
			}

			updated, err := app.profiles.Update(cmd.Context(), update)
			if err != nil {
				return reloginHint(err)
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Profile @%s updated\n", updated.Username)
			return err
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&bio, "bio", "", "Bio")
	cmd.Flags().StringVar(&avatar, "avatar", "", "Avatar URL")
	cmd.Flags().StringVar(&location, "location", "", "Location")
	cmd.Flags().StringVar(&website, "website", "", "Website URL")

	return cmd
}

func newProfileAvatarCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "avatar <image-file>",
		Short: "Upload a new avatar image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open avatar image: %w", err)
			}
			defer func() { _ = file.Close() }()

			avatarURL, err := app.profiles.UploadAvatar(cmd.Context(), file.Name(), file)
			if err != nil {
				return reloginHint(err)
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Avatar updated: %s\n", avatarURL)
			return err
		},
	}
}

func newProfileSearchCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search users by name or handle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			users, err := app.profiles.Search(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("search users: %w", err)
			}

			return writeUserList(cmd, users, asJSON, "No users found")
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

func newProfileSuggestedCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "suggested",
		Short: "List suggested users to follow",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			users, err := app.profiles.Suggested(cmd.Context())
			if err != nil {
				return reloginHint(err)
			}

			return writeUserList(cmd, users, asJSON, "No suggestions right now")
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

func writeUserList(cmd *cobra.Command, users []domain.User, asJSON bool, emptyMsg string) error {
	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(users)
	}

	if len(users) == 0 {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), emptyMsg)
		return err
	}

	for _, user := range users {
		line := "@" + user.Username
		if user.DisplayName != "" {
			line += "  " + user.DisplayName
		}
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), line); err != nil {
			return err
		}
	}
	return nil
}
