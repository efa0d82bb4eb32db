package cli

import (
	"fmt"

	"github.com/rpggio/folio/internal/domain/activity"
	"github.com/rpggio/folio/internal/notify"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

const defaultHistoryLimit = 20

func newHistoryCmd(app *App) *cobra.Command {
	var (
		limit     int
		typ       string
		projectID string
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent local changes and reorder outcomes",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := activity.ListActivityOptions{Limit: limit}
			if typ != "" {
				t, ok := activity.ParseType(typ)
				if !ok {
					return usageError{fmt.Errorf("unknown activity type %q", typ)}
				}
				opts.ActivityType = &t
			}
			if projectID != "" {
				opts.ProjectID = &projectID
			}

			svc, err := app.activityService()
			if err != nil {
				return err
			}
			entries, err := svc.GetRecentActivity(cmd.Context(), app.scope(), opts)
			if err != nil {
				return err
			}
			if asJSON {
				return app.writeJSON(lo.Ternary(entries == nil, []activity.ActivityEntry{}, entries))
			}
			if len(entries) == 0 {
				app.println("%s", notify.MutedStyle.Render("no activity recorded"))
				return nil
			}
			for _, e := range entries {
				style := notify.MutedStyle
				if e.ActivityType == activity.TypeReorderFailed {
					style = notify.ErrorStyle
				}
				app.println("%s  %s  %s", formatTime(e.CreatedAt), style.Render(fmt.Sprintf("%-19s", e.ActivityType)), e.Summary)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", defaultHistoryLimit, "Maximum number of entries")
	cmd.Flags().StringVar(&typ, "type", "", "Only entries of this type")
	cmd.Flags().StringVar(&projectID, "project", "", "Only entries about this project")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print entries as JSON")
	return cmd
}
