package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/drobledo/pulso-cli/internal/domain"
	"github.com/drobledo/pulso-cli/internal/ports"
)

var errNotLoggedIn = errors.New("not logged in (run `pulso login`)")

func newLoginCmd(app *app) *cobra.Command {
	var username string
	var password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			raw, err := app.api.Login(cmd.Context(), username, password)
			if err != nil {
				return fmt.Errorf("login: %w", err)
			}

			session, err := app.sessions.Login(cmd.Context(), raw)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Logged in as @%s\n", session.User.Username)
			return err
		},
	}

	cmd.Flags().StringVar(&username, "user", "", "Username")
	cmd.Flags().StringVar(&password, "password", "", "Password")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newRegisterCmd(app *app) *cobra.Command {
	var req ports.RegisterRequest

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a new account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.api.Register(cmd.Context(), req); err != nil {
				return fmt.Errorf("register: %w", err)
			}

			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Account @%s created, run `pulso login` to sign in\n", req.Username)
			return err
		},
	}

	cmd.Flags().StringVar(&req.DisplayName, "name", "", "Display name")
	cmd.Flags().StringVar(&req.Username, "user", "", "Username")
	cmd.Flags().StringVar(&req.Email, "email", "", "Email address")
	cmd.Flags().StringVar(&req.Password, "password", "", "Password")
	cmd.Flags().StringVar(&req.Phone, "phone", "", "Phone number (optional)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newLogoutCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app.sessions.Logout(cmd.Context())
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return err
		},
	}
}

func newWhoamiCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			session := app.sessions.Current()
			if !session.Authenticated() {
				return errNotLoggedIn
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(session.User)
			}

			user := session.User
			line := "@" + user.Username
			if user.DisplayName != "" {
				line += " (" + user.DisplayName + ")"
			}
			if _, err := fmt.Fprintln(cmd.OutOrStdout(), line); err != nil {
				return err
			}
			if user.Email != "" {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), user.Email); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

// reloginHint decorates session-expiry errors with the recovery step;
// the session itself has already been cleared by the service layer.
func reloginHint(err error) error {
	if err != nil && errors.Is(err, domain.ErrAuthRequired) {
		return fmt.Errorf("%w (run `pulso login` to re-authenticate)", err)
	}
	return err
}
