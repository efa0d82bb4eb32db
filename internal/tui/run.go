// Package tui is the interactive dashboard for reordering projects.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rpggio/folio/internal/domain/project"
)

// Options configures Run.
type Options struct {
	Store       *project.Store
	Coordinator Reorderer
	// Notifier must be the one the Coordinator reports to.
	Notifier  *Notifier
	Input     io.Reader
	Output    io.Writer
	AltScreen bool
}

// Run shows the dashboard until the user quits or ctx is done.
func Run(ctx context.Context, opts Options) error {
	progOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if opts.Input != nil {
		progOpts = append(progOpts, tea.WithInput(opts.Input))
	}
	if opts.Output != nil {
		progOpts = append(progOpts, tea.WithOutput(opts.Output))
	}
	if opts.AltScreen {
		progOpts = append(progOpts, tea.WithAltScreen())
	}

	p := tea.NewProgram(newModel(ctx, opts.Store, opts.Coordinator), progOpts...)

	if opts.Notifier != nil {
		opts.Notifier.attach(p.Send)
		defer opts.Notifier.detach()
	}
	unsubscribe := opts.Store.Subscribe(func(st project.State) {
		p.Send(stateMsg(st))
	})
	defer unsubscribe()

	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("running dashboard: %w", err)
	}
	return nil
}
