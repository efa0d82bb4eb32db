package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/rpggio/folio/internal/domain/project"
	"github.com/rpggio/folio/internal/notify"
)

const markdownWidth = 80

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("8"))).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
}

func renderProjects(w io.Writer, items []project.Project) {
	if len(items) == 0 {
		fmt.Fprintln(w, notify.MutedStyle.Render("no projects"))
		return
	}
	t := newTable("#", "ORDER", "ID", "TITLE", "STATUS", "TECHNOLOGIES")
	for i, p := range items {
		t.Row(strconv.Itoa(i+1), strconv.Itoa(p.Order), p.ID, p.Title, string(p.Status), strings.Join(p.Technologies, ", "))
	}
	fmt.Fprintln(w, t.String())
}

func renderProject(w io.Writer, p project.Project, position int) {
	fmt.Fprintln(w, notify.TitleStyle.Render(p.Title))
	meta := []string{
		fmt.Sprintf("id        %s", p.ID),
		fmt.Sprintf("position  %d (order %d)", position+1, p.Order),
	}
	if p.Type != "" || p.Category != "" {
		meta = append(meta, fmt.Sprintf("kind      %s %s", p.Type, p.Category))
	}
	if p.Status != "" {
		meta = append(meta, fmt.Sprintf("status    %s", p.Status))
	}
	if p.Year != 0 {
		meta = append(meta, fmt.Sprintf("year      %d", p.Year))
	}
	meta = append(meta, fmt.Sprintf("live      %s", p.LiveURL))
	if p.GithubURL != nil && *p.GithubURL != "" {
		meta = append(meta, fmt.Sprintf("github    %s", *p.GithubURL))
	}
	if len(p.Technologies) > 0 {
		meta = append(meta, fmt.Sprintf("tech      %s", strings.Join(p.Technologies, ", ")))
	}
	if !p.UpdatedAt.IsZero() {
		meta = append(meta, fmt.Sprintf("updated   %s", p.UpdatedAt.Local().Format(time.DateTime)))
	}
	fmt.Fprintln(w, notify.MutedStyle.Render(strings.Join(meta, "\n")))
	fmt.Fprintln(w, renderMarkdown(w, p.Description))
}

// renderMarkdown renders md for w. Writers that are not terminals get the
// plain style; GLAMOUR_STYLE overrides both.
func renderMarkdown(w io.Writer, md string) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(markdownWidth)}
	switch {
	case os.Getenv("GLAMOUR_STYLE") != "":
		opts = append(opts, glamour.WithEnvironmentConfig())
	case isTerminal(w):
		opts = append(opts, glamour.WithStandardStyle(styles.DarkStyle))
	default:
		opts = append(opts, glamour.WithStandardStyle(styles.NoTTYStyle))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
