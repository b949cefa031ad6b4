package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "pulso",
		Short:         "Pulso: terminal client for the Pulso microblogging API",
		Long:          "pulso logs into the Pulso backend, shows the tweet feed, posts tweets and comments, toggles likes, and edits your profile from the terminal.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
		app.sessions.Hydrate(cmd.Context())
	}
	rootCmd.PersistentPostRun = func(_ *cobra.Command, _ []string) {
		_ = app.Close()
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newLoginCmd(app),
		newRegisterCmd(app),
		newLogoutCmd(app),
		newWhoamiCmd(app),
		newFeedCmd(app),
		newPostCmd(app),
		newLikeCmd(app),
		newRmCmd(app),
		newCommentsCmd(app),
		newCommentCmd(app),
		newProfileCmd(app),
		newConfigCmd(app),
	)

	return rootCmd
}
