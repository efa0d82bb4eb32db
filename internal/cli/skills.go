package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rpggio/folio/internal/domain/skill"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func newSkillsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "skills",
		Aliases: []string{"skill"},
		Short:   "Manage skill groups",
	}
	cmd.AddCommand(newSkillsListCmd(app))
	cmd.AddCommand(newSkillsAddCmd(app))
	cmd.AddCommand(newSkillsEditCmd(app))
	cmd.AddCommand(newSkillsRmCmd(app))
	return cmd
}

func (a *App) skills() (*skill.Service, error) {
	client, err := a.client(true)
	if err != nil {
		return nil, err
	}
	return skill.NewService(client, a.logger), nil
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, usageError{fmt.Errorf("id %q must be a positive number", s)}
	}
	return id, nil
}

func newSkillsListCmd(app *App) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List skill groups",
		Args:    noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := app.skills()
			if err != nil {
				return err
			}
			skills, err := svc.List(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				return app.writeJSON(lo.Ternary(skills == nil, []skill.Skill{}, skills))
			}
			t := newTable("ID", "", "CATEGORY", "COLOR", "ITEMS")
			for _, s := range skills {
				t.Row(strconv.Itoa(s.ID), s.IconValue().Glyph(), s.Category, s.Color, strings.Join(s.Items, ", "))
			}
			fmt.Fprintln(app.io.Out, t.String())
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print skills as JSON")
	return cmd
}

func newSkillsAddCmd(app *App) *cobra.Command {
	var draft skill.Draft

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a skill group",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := app.skills()
			if err != nil {
				return err
			}
			created, err := svc.Create(cmd.Context(), draft)
			if err != nil {
				return err
			}
			app.ok(fmt.Sprintf("Created skill %d (%s)", created.ID, created.Category))
			return nil
		},
	}

	cmd.Flags().StringVar(&draft.Category, "category", "", "Group name")
	cmd.Flags().StringVar(&draft.Color, "color", "", "Hex card color (default "+skill.DefaultColor+")")
	cmd.Flags().StringVar(&draft.Icon, "icon", "", "Icon name, e.g. Code2 or Database")
	cmd.Flags().StringSliceVar(&draft.Items, "items", nil, "Technologies in the group")
	return cmd
}

func newSkillsEditCmd(app *App) *cobra.Command {
	var (
		category, color, iconName string
		items                     []string
	)

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a skill group",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			var patch skill.Patch
			fs := cmd.Flags()
			if fs.Changed("category") {
				patch.Category = &category
			}
			if fs.Changed("color") {
				patch.Color = &color
			}
			if fs.Changed("icon") {
				patch.Icon = &iconName
			}
			if fs.Changed("items") {
				patch.Items = lo.Ternary(items == nil, []string{}, items)
			}
			if patch.Category == nil && patch.Color == nil && patch.Icon == nil && patch.Items == nil {
				return usageError{fmt.Errorf("nothing to update: pass at least one field flag")}
			}

			svc, err := app.skills()
			if err != nil {
				return err
			}
			updated, err := svc.Update(cmd.Context(), id, patch)
			if err != nil {
				return err
			}
			app.ok(fmt.Sprintf("Updated skill %d", updated.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Group name")
	cmd.Flags().StringVar(&color, "color", "", "Hex card color")
	cmd.Flags().StringVar(&iconName, "icon", "", "Icon name")
	cmd.Flags().StringSliceVar(&items, "items", nil, "Technologies in the group")
	return cmd
}

func newSkillsRmCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a skill group",
		Args:    exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			svc, err := app.skills()
			if err != nil {
				return err
			}
			if err := svc.Delete(cmd.Context(), id); err != nil {
				return err
			}
			app.ok(fmt.Sprintf("Deleted skill %d", id))
			return nil
		},
	}
}
