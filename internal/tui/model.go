package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rpggio/folio/internal/domain/project"
	"github.com/rpggio/folio/internal/notify"
)

// Store defines the collection operations the dashboard uses.
type Store interface {
	FetchAll(ctx context.Context) error
	Items() []project.Project
	DeleteOne(ctx context.Context, id string) error
}

// Reorderer defines the batch operations the dashboard uses.
type Reorderer interface {
	Reorder(ctx context.Context, sourceIndex, destinationIndex int) (project.ReorderResult, error)
	Normalize(ctx context.Context) (project.ReorderResult, error)
}

type stateMsg project.State

type loadedMsg struct {
	initial bool
	err     error
}

type batchDoneMsg struct {
	kind   string
	result project.ReorderResult
	err    error
}

type deletedMsg struct {
	id  string
	err error
}

var (
	selectedStyle = lipgloss.NewStyle().Bold(true).Reverse(true)
	grabbedStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	orderStyle    = lipgloss.NewStyle().Faint(true).Width(4).Align(lipgloss.Right)
	badgeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
)

type model struct {
	ctx   context.Context
	store Store
	coord Reorderer
	keys  keyMap
	help  help.Model
	spin  spinner.Model

	items   []project.Project
	loading bool
	errText string
	cursor  int

	grabbed   bool
	grabIndex int
	target    int

	confirmID string
	pending   map[string]string
	status    string
	busy      bool

	normalizedOnce bool
	width          int
}

func newModel(ctx context.Context, store Store, coord Reorderer) model {
	return model{
		ctx:     ctx,
		store:   store,
		coord:   coord,
		keys:    defaultKeyMap(),
		help:    help.New(),
		spin:    spinner.New(spinner.WithSpinner(spinner.Dot)),
		items:   store.Items(),
		pending: make(map[string]string),
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.fetch(true))
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case stateMsg:
		m.items = msg.Items
		m.loading = msg.IsLoading
		m.errText = msg.Error
		if m.grabbed && m.grabIndex >= len(m.items) {
			m.grabbed = false
		}
		m.target = clamp(m.target, len(m.items))
		m.cursor = clamp(m.cursor, len(m.items))
		return m, nil

	case noticeMsg:
		switch msg.level {
		case noticeLoading:
			m.pending[msg.id] = msg.text
		case noticeDismiss:
			delete(m.pending, msg.id)
		case noticeSuccess:
			m.status = notify.OK(msg.text)
		case noticeError:
			m.status = notify.Fail(msg.text)
		}
		return m, nil

	case loadedMsg:
		if msg.err != nil {
			m.status = notify.Fail(msg.err.Error())
			return m, nil
		}
		if msg.initial && !m.normalizedOnce {
			m.normalizedOnce = true
			return m, m.normalize()
		}
		return m, nil

	case batchDoneMsg:
		m.busy = false
		if msg.err == nil && msg.result.Noop && msg.kind == project.BatchReorder {
			m.status = notify.MutedStyle.Render("Nothing to move")
		}
		return m, nil

	case deletedMsg:
		m.busy = false
		if msg.err != nil {
			m.status = notify.Fail(msg.err.Error())
		} else {
			m.status = notify.OK("Project deleted")
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	if m.confirmID != "" {
		id := m.confirmID
		m.confirmID = ""
		if key.Matches(msg, m.keys.Confirm) {
			m.busy = true
			return m, m.delete(id)
		}
		m.status = notify.MutedStyle.Render("Delete cancelled")
		return m, nil
	}

	if m.grabbed {
		switch {
		case key.Matches(msg, m.keys.Up):
			m.target = clamp(m.target-1, len(m.items))
		case key.Matches(msg, m.keys.Down):
			m.target = clamp(m.target+1, len(m.items))
		case key.Matches(msg, m.keys.Drop):
			m.grabbed = false
			m.cursor = m.target
			m.busy = true
			return m, m.reorder(m.grabIndex, m.target)
		case key.Matches(msg, m.keys.Cancel):
			m.grabbed = false
			m.cursor = m.grabIndex
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.cursor = clamp(m.cursor-1, len(m.items))
	case key.Matches(msg, m.keys.Down):
		m.cursor = clamp(m.cursor+1, len(m.items))
	case key.Matches(msg, m.keys.Grab):
		if len(m.items) > 0 {
			m.grabbed = true
			m.grabIndex = m.cursor
			m.target = m.cursor
		}
	case key.Matches(msg, m.keys.Refresh):
		return m, m.fetch(false)
	case key.Matches(msg, m.keys.Normalize):
		m.busy = true
		return m, m.normalize()
	case key.Matches(msg, m.keys.Delete):
		if len(m.items) > 0 {
			m.confirmID = m.items[m.cursor].ID
		}
	}
	return m, nil
}

func (m model) fetch(initial bool) tea.Cmd {
	ctx, store := m.ctx, m.store
	return func() tea.Msg {
		return loadedMsg{initial: initial, err: store.FetchAll(ctx)}
	}
}

func (m model) reorder(src, dst int) tea.Cmd {
	ctx, coord := m.ctx, m.coord
	return func() tea.Msg {
		res, err := coord.Reorder(ctx, src, dst)
		return batchDoneMsg{kind: project.BatchReorder, result: res, err: err}
	}
}

func (m model) normalize() tea.Cmd {
	ctx, coord := m.ctx, m.coord
	return func() tea.Msg {
		res, err := coord.Normalize(ctx)
		return batchDoneMsg{kind: project.BatchNormalize, result: res, err: err}
	}
}

func (m model) delete(id string) tea.Cmd {
	ctx, store := m.ctx, m.store
	return func() tea.Msg {
		return deletedMsg{id: id, err: store.DeleteOne(ctx, id)}
	}
}

// rows is the list as drawn, with a grabbed row shown at its drop target.
func (m model) rows() ([]project.Project, int) {
	if !m.grabbed {
		return m.items, m.cursor
	}
	preview, ok := project.Move(m.items, m.grabIndex, m.target)
	if !ok {
		return m.items, m.grabIndex
	}
	return preview, m.target
}

func (m model) View() string {
	var b strings.Builder
	b.WriteString(notify.TitleStyle.Render("Projects"))
	b.WriteString("\n\n")

	rows, highlight := m.rows()
	if len(rows) == 0 && !m.loading {
		b.WriteString(notify.MutedStyle.Render("  no projects"))
		b.WriteString("\n")
	}
	for i, p := range rows {
		line := fmt.Sprintf("%s  %s", orderStyle.Render(fmt.Sprintf("%d", p.Order)), p.Title)
		if p.Status == project.StatusFeatured {
			line += " " + badgeStyle.Render("★")
		}
		switch {
		case i == highlight && m.grabbed:
			line = grabbedStyle.Render("≡ " + line)
		case i == highlight:
			line = selectedStyle.Render("> " + line)
		default:
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	if m.grabbed {
		b.WriteString(m.help.View(dragKeys(m.keys)))
	} else {
		b.WriteString(m.help.View(browseKeys(m.keys)))
	}
	return b.String()
}

func (m model) statusLine() string {
	if m.confirmID != "" {
		return notify.PendingStyle.Render(fmt.Sprintf("Delete %s? (y to confirm)", m.titleOf(m.confirmID)))
	}
	if msg := m.pendingMessage(); msg != "" {
		return m.spin.View() + " " + msg
	}
	if m.loading {
		return m.spin.View() + " Loading..."
	}
	if m.errText != "" && m.status == "" {
		return notify.Fail(m.errText)
	}
	return m.status
}

func (m model) pendingMessage() string {
	for _, msg := range m.pending {
		return msg
	}
	return ""
}

func (m model) titleOf(id string) string {
	if i := project.IndexOf(m.items, id); i >= 0 {
		return fmt.Sprintf("%q", m.items[i].Title)
	}
	return id
}

func clamp(i, n int) int {
	if n == 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
