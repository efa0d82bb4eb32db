package cli

import (
	"fmt"
	"strconv"

	"github.com/rpggio/folio/internal/domain/inbox"
	"github.com/rpggio/folio/internal/notify"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func newMessagesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "messages",
		Aliases: []string{"inbox"},
		Short:   "Read contact-form messages",
	}
	cmd.AddCommand(newMessagesListCmd(app))
	cmd.AddCommand(newMessagesShowCmd(app))
	return cmd
}

func (a *App) inbox() (*inbox.Service, error) {
	client, err := a.client(true)
	if err != nil {
		return nil, err
	}
	return inbox.NewService(client), nil
}

func newMessagesListCmd(app *App) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List messages, newest first",
		Args:    noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := app.inbox()
			if err != nil {
				return err
			}
			msgs, err := svc.List(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				return app.writeJSON(lo.Ternary(msgs == nil, []inbox.Message{}, msgs))
			}
			if len(msgs) == 0 {
				app.println("%s", notify.MutedStyle.Render("inbox is empty"))
				return nil
			}
			t := newTable("ID", "RECEIVED", "FROM", "MESSAGE")
			for _, m := range msgs {
				t.Row(strconv.Itoa(m.ID), formatTime(m.CreatedAt), fmt.Sprintf("%s <%s>", m.Name, m.Email), truncate(m.Message, 48))
			}
			fmt.Fprintln(app.io.Out, t.String())
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print messages as JSON")
	return cmd
}

func newMessagesShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print one message",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			svc, err := app.inbox()
			if err != nil {
				return err
			}
			m, err := svc.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			app.println("%s", notify.TitleStyle.Render(fmt.Sprintf("%s <%s>", m.Name, m.Email)))
			app.println("%s", notify.MutedStyle.Render(formatTime(m.CreatedAt)))
			app.println("")
			app.println("%s", m.Message)
			return nil
		},
	}
}
