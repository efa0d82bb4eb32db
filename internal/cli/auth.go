package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func newLoginCmd(app *App) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the portfolio API and store the token",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if password == "" {
				password = os.Getenv("FOLIO_PASSWORD")
			}
			if strings.TrimSpace(email) == "" || password == "" {
				return usageError{fmt.Errorf("--email and a password (--password or FOLIO_PASSWORD) are required")}
			}
			client, err := app.client(false)
			if err != nil {
				return err
			}
			sess, err := client.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			if err := app.credentials().Set(sess.Token, sess.User.Email, app.cfg.API.URL); err != nil {
				return err
			}
			name := sess.User.Name
			if name == "" {
				name = email
			}
			app.ok("Logged in as " + name)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password (default $FOLIO_PASSWORD)")
	return cmd
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored token",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			creds := app.credentials()
			ti, err := creds.Get()
			if err != nil {
				return err
			}
			if ti == nil {
				app.ok("Already logged out")
				return nil
			}
			client, err := app.client(false)
			if err != nil {
				return err
			}
			if err := client.Logout(cmd.Context()); err != nil {
				app.logger.Warn("server logout failed", "error", err)
			}
			if ti.Source == "env" {
				return fmt.Errorf("token comes from FOLIO_TOKEN; unset it to log out")
			}
			if err := creds.Delete(); err != nil {
				return err
			}
			app.ok("Logged out")
			return nil
		},
	}
}
