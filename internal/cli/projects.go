package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rpggio/folio/internal/domain/project"
	"github.com/rpggio/folio/internal/notify"
	"github.com/rpggio/folio/internal/sqlite"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const defaultSearchLimit = 10

func newProjectsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "projects",
		Aliases: []string{"project", "p"},
		Short:   "List, edit and reorder portfolio projects",
	}
	cmd.AddCommand(newProjectsListCmd(app))
	cmd.AddCommand(newProjectsShowCmd(app))
	cmd.AddCommand(newProjectsAddCmd(app))
	cmd.AddCommand(newProjectsEditCmd(app))
	cmd.AddCommand(newProjectsRmCmd(app))
	cmd.AddCommand(newProjectsMoveCmd(app))
	cmd.AddCommand(newProjectsNormalizeCmd(app))
	cmd.AddCommand(newProjectsSearchCmd(app))
	return cmd
}

// load fetches the server collection and refreshes the cache.
func (s *projectSession) load(ctx context.Context) error {
	if err := s.store.FetchAll(ctx); err != nil {
		return err
	}
	s.save(ctx)
	return nil
}

func newProjectsListCmd(app *App) *cobra.Command {
	var asJSON, cached bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List projects in display order",
		Args:    noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			var items []project.Project
			if cached {
				db, err := app.cache()
				if err != nil {
					return err
				}
				snap, err := (&projectSession{app: app, cache: sqlite.NewProjectCache(db)}).cached(ctx)
				if err != nil {
					return err
				}
				if snap == nil {
					return fmt.Errorf("no cached projects for %s: run `folio projects list` first", app.scope())
				}
				items = snap.Items
				if !asJSON {
					fmt.Fprintln(app.io.Err, notify.MutedStyle.Render("cached "+formatTime(snap.SavedAt)))
				}
			} else {
				sess, err := app.projects(sessionOptions{})
				if err != nil {
					return err
				}
				if err := sess.load(ctx); err != nil {
					return err
				}
				items = sess.store.Items()
			}

			if asJSON {
				return app.writeJSON(lo.Ternary(items == nil, []project.Project{}, items))
			}
			renderProjects(app.io.Out, items)
			if !project.IsNormalized(items) {
				fmt.Fprintln(app.io.Err, notify.PendingStyle.Render("order values have gaps or duplicates: run `folio projects normalize`"))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print projects as JSON")
	cmd.Flags().BoolVar(&cached, "cached", false, "Read the last saved snapshot instead of the API")
	return cmd
}

func newProjectsShowCmd(app *App) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one project with its rendered description",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := app.projects(sessionOptions{})
			if err != nil {
				return err
			}
			if err := sess.load(cmd.Context()); err != nil {
				return err
			}
			items := sess.store.Items()
			i := project.IndexOf(items, args[0])
			if i < 0 {
				return fmt.Errorf("%w: %s", project.ErrProjectNotFound, args[0])
			}
			if asJSON {
				return app.writeJSON(items[i])
			}
			renderProject(app.io.Out, items[i], i)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the project as JSON")
	return cmd
}

// projectFlags binds the writable project fields to command flags.
type projectFlags struct {
	title, description, image, live, github string
	typ, category, status                    string
	tech                                     []string
	year, order                              int
}

func (f *projectFlags) bind(fs *pflag.FlagSet) {
	fs.StringVar(&f.title, "title", "", "Project title")
	fs.StringVar(&f.description, "description", "", "Markdown description")
	fs.StringVar(&f.image, "image", "", "Image URL")
	fs.StringVar(&f.live, "live", "", "Live site URL")
	fs.StringVar(&f.github, "github", "", "Repository URL")
	fs.StringSliceVar(&f.tech, "tech", nil, "Technologies (repeat or comma separate)")
	fs.StringVar(&f.typ, "type", "", "web or mobile")
	fs.StringVar(&f.category, "category", "", "frontend or fullstack")
	fs.StringVar(&f.status, "status", "", "completed, in-progress or featured")
	fs.IntVar(&f.year, "year", 0, "Year the project shipped")
	fs.IntVar(&f.order, "order", 0, "Order value (default: bottom of the list)")
}

func (f *projectFlags) draft() project.Draft {
	d := project.Draft{
		Title:        f.title,
		Description:  f.description,
		ImageURL:     f.image,
		LiveURL:      f.live,
		Technologies: lo.Ternary(f.tech == nil, []string{}, f.tech),
		Order:        f.order,
		Type:         project.Type(f.typ),
		Category:     project.Category(f.category),
		Status:       project.Status(f.status),
		Year:         f.year,
	}
	if f.github != "" {
		d.GithubURL = lo.ToPtr(f.github)
	}
	return d
}

// patch carries only the flags set on the command line.
func (f *projectFlags) patch(fs *pflag.FlagSet) project.Patch {
	var p project.Patch
	if fs.Changed("title") {
		p.Title = lo.ToPtr(f.title)
	}
	if fs.Changed("description") {
		p.Description = lo.ToPtr(f.description)
	}
	if fs.Changed("image") {
		p.ImageURL = lo.ToPtr(f.image)
	}
	if fs.Changed("live") {
		p.LiveURL = lo.ToPtr(f.live)
	}
	if fs.Changed("github") {
		p.GithubURL = lo.ToPtr(f.github)
	}
	if fs.Changed("tech") {
		p.Technologies = lo.ToPtr(lo.Ternary(f.tech == nil, []string{}, f.tech))
	}
	if fs.Changed("type") {
		p.Type = lo.ToPtr(project.Type(f.typ))
	}
	if fs.Changed("category") {
		p.Category = lo.ToPtr(project.Category(f.category))
	}
	if fs.Changed("status") {
		p.Status = lo.ToPtr(project.Status(f.status))
	}
	if fs.Changed("year") {
		p.Year = lo.ToPtr(f.year)
	}
	if fs.Changed("order") {
		p.Order = lo.ToPtr(f.order)
	}
	return p
}

func newProjectsAddCmd(app *App) *cobra.Command {
	var flags projectFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a project at the bottom of the list",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			sess, err := app.projects(sessionOptions{})
			if err != nil {
				return err
			}
			if err := sess.store.FetchAll(ctx); err != nil {
				return err
			}
			created, err := sess.store.Create(ctx, flags.draft())
			if err != nil {
				return err
			}
			sess.save(ctx)
			app.ok(fmt.Sprintf("Created project %s (order %d)", created.ID, created.Order))
			return nil
		},
	}

	flags.bind(cmd.Flags())
	return cmd
}

func newProjectsEditCmd(app *App) *cobra.Command {
	var flags projectFlags

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of a project",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			patch := flags.patch(cmd.Flags())
			if patch.IsEmpty() {
				return usageError{fmt.Errorf("nothing to update: pass at least one field flag")}
			}
			patch.UpdatedAt = lo.ToPtr(time.Now().UTC())

			ctx := cmd.Context()
			sess, err := app.projects(sessionOptions{})
			if err != nil {
				return err
			}
			if err := sess.store.FetchAll(ctx); err != nil {
				return err
			}
			updated, err := sess.store.UpdateOne(ctx, args[0], patch)
			if err != nil {
				return err
			}
			sess.save(ctx)
			app.ok("Updated project " + updated.ID)
			return nil
		},
	}

	flags.bind(cmd.Flags())
	return cmd
}

func newProjectsRmCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a project",
		Args:    exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sess, err := app.projects(sessionOptions{})
			if err != nil {
				return err
			}
			if err := sess.store.FetchAll(ctx); err != nil {
				return err
			}
			if err := sess.store.DeleteOne(ctx, args[0]); err != nil {
				return err
			}
			sess.save(ctx)
			app.ok("Deleted project " + args[0])
			return nil
		},
	}
}

func parsePosition(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, usageError{fmt.Errorf("position %q must be a number from 1", s)}
	}
	return n, nil
}

func newProjectsMoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "move <from> <to>",
		Short: "Move the project at one position to another (1-based)",
		Example: strings.TrimSpace(`
  # Put the third project on top
  folio projects move 3 1`),
		Args: exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := parsePosition(args[0])
			if err != nil {
				return err
			}
			to, err := parsePosition(args[1])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			sess, err := app.projects(sessionOptions{})
			if err != nil {
				return err
			}
			if err := sess.store.FetchAll(ctx); err != nil {
				return err
			}
			if n := len(sess.store.Items()); from > n || to > n {
				return usageError{fmt.Errorf("positions must be between 1 and %d", n)}
			}

			result, err := sess.coord.Reorder(ctx, from-1, to-1)
			sess.save(ctx)
			if err != nil {
				return err
			}
			if result.Noop {
				app.println("%s", notify.MutedStyle.Render("Nothing to move"))
				return nil
			}
			printChanges(app, result.Changes)
			return nil
		},
	}
}

func newProjectsNormalizeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "normalize",
		Short: "Renumber project orders 1..N without gaps or duplicates",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			sess, err := app.projects(sessionOptions{})
			if err != nil {
				return err
			}
			if err := sess.store.FetchAll(ctx); err != nil {
				return err
			}
			result, err := sess.coord.Normalize(ctx)
			sess.save(ctx)
			if err != nil {
				return err
			}
			if result.Noop {
				app.println("%s", notify.MutedStyle.Render("Project order is already contiguous"))
				return nil
			}
			printChanges(app, result.Changes)
			return nil
		},
	}
}

func printChanges(app *App, changes []project.OrderChange) {
	for _, c := range changes {
		app.println("  %s  %d → %d", c.ID, c.From, c.To)
	}
}

func newProjectsSearchCmd(app *App) *cobra.Command {
	var (
		limit   int
		refresh bool
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Full-text search over the cached projects",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			db, err := app.cache()
			if err != nil {
				return err
			}
			cache := &projectSession{app: app, cache: sqlite.NewProjectCache(db)}
			snap, err := cache.cached(ctx)
			if err != nil {
				return err
			}
			if refresh || snap == nil {
				sess, err := app.projects(sessionOptions{})
				if err != nil {
					return err
				}
				if err := sess.load(ctx); err != nil {
					return err
				}
			}

			results, err := sqlite.NewSearchRepository(db).Search(ctx, app.scope(), args[0], limit)
			if err != nil {
				return err
			}
			if asJSON {
				return app.writeJSON(lo.Ternary(results == nil, []project.SearchResult{}, results))
			}
			if len(results) == 0 {
				app.println("%s", notify.MutedStyle.Render("no matches"))
				return nil
			}
			for _, r := range results {
				app.println("%s  %s", notify.AccentStyle.Render(r.Project.ID), r.Project.Title)
				if r.Snippet != "" {
					app.println("    %s", notify.MutedStyle.Render(truncate(r.Snippet, 100)))
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", defaultSearchLimit, "Maximum number of results")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "Refresh the cache from the API first")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print results as JSON")
	return cmd
}
