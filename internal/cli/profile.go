package cli

import (
	"fmt"
	"strings"

	"github.com/rpggio/folio/internal/apiclient"
	"github.com/rpggio/folio/internal/notify"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func newProfileCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or change the owner's public profile",
	}
	cmd.AddCommand(newProfileShowCmd(app))
	cmd.AddCommand(newProfileSetCmd(app))
	return cmd
}

func newProfileShowCmd(app *App) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the profile",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := app.client(true)
			if err != nil {
				return err
			}
			user, err := client.Profile(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				return app.writeJSON(user)
			}
			renderProfile(app, user)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the profile as JSON")
	return cmd
}

func renderProfile(app *App, u *apiclient.User) {
	app.println("%s", notify.TitleStyle.Render(u.Name))
	rows := [][2]string{
		{"email", u.Email},
		{"photo", u.Photo},
		{"github", u.Github},
		{"linkedin", u.Linkedin},
	}
	for _, r := range rows {
		if r[1] != "" {
			app.println("%s %s", notify.MutedStyle.Render(fmt.Sprintf("%-9s", r[0])), r[1])
		}
	}
	if len(u.About) > 0 {
		app.println("%s", renderMarkdown(app.io.Out, strings.Join(u.About, "\n\n")))
	}
}

var profileFields = []string{"name", "email", "photo", "github", "linkedin", "about"}

func newProfileSetCmd(app *App) *cobra.Command {
	var (
		name, email, photo, github, linkedin string
		about                                []string
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change profile fields",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fs := cmd.Flags()
			if !lo.SomeBy(profileFields, fs.Changed) {
				return usageError{fmt.Errorf("nothing to update: pass at least one field flag")}
			}
			client, err := app.client(true)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			user, err := client.Profile(ctx)
			if err != nil {
				return err
			}
			if fs.Changed("name") {
				user.Name = name
			}
			if fs.Changed("email") {
				user.Email = email
			}
			if fs.Changed("photo") {
				user.Photo = photo
			}
			if fs.Changed("github") {
				user.Github = github
			}
			if fs.Changed("linkedin") {
				user.Linkedin = linkedin
			}
			if fs.Changed("about") {
				user.About = about
			}
			if _, err := client.UpdateProfile(ctx, *user); err != nil {
				return err
			}
			app.ok("Profile updated")
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&email, "email", "", "Contact email")
	cmd.Flags().StringVar(&photo, "photo", "", "Photo URL")
	cmd.Flags().StringVar(&github, "github", "", "GitHub profile URL")
	cmd.Flags().StringVar(&linkedin, "linkedin", "", "LinkedIn profile URL")
	cmd.Flags().StringArrayVar(&about, "about", nil, "About paragraph (repeat for several)")
	return cmd
}
