package cli

import (
	"github.com/rpggio/folio/internal/notify"
	"github.com/rpggio/folio/internal/tui"
	"github.com/spf13/cobra"
)

func newTUICmd(app *App) *cobra.Command {
	var inline bool

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Reorder projects interactively",
		Long: `Opens a dashboard listing the projects in display order.

Grab a row with space, move it with the arrow keys and drop it with enter.
Every drop is saved right away; failed saves roll the list back.`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			notifier := tui.NewNotifier()
			sess, err := app.projects(sessionOptions{
				notifier: notify.Multi{notifier, notify.NewLog(app.logger)},
			})
			if err != nil {
				return err
			}
			defer sess.save(ctx)

			return tui.Run(ctx, tui.Options{
				Store:       sess.store,
				Coordinator: sess.coord,
				Notifier:    notifier,
				Input:       app.io.In,
				Output:      app.io.Out,
				AltScreen:   !inline,
			})
		},
	}

	cmd.Flags().BoolVar(&inline, "inline", false, "Draw below the prompt instead of taking over the screen")
	return cmd
}
