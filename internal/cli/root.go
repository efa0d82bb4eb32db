// Package cli implements the folio command line.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/rpggio/folio/internal/config"
	"github.com/rpggio/folio/internal/notify"
	"github.com/spf13/cobra"
)

// Exit codes returned by Execute.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

// Version is reported by the MCP server and `folio --version`.
var Version = "dev"

type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

// IO holds the streams a command reads and writes.
type IO struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// App carries state shared by every command of one invocation.
type App struct {
	ConfigPath string
	Verbose    bool

	io     IO
	cfg    config.Config
	logger *slog.Logger

	closers []io.Closer
	deps    *deps
}

// Execute runs the command line and returns the process exit code.
func Execute(ctx context.Context, args []string, streams IO) int {
	app := &App{io: streams}
	defer app.close()

	cmd := newRootCmd(app)
	cmd.SetArgs(args)
	cmd.SetIn(streams.In)
	cmd.SetOut(streams.Out)
	cmd.SetErr(streams.Err)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return ExitOK
	}
	fmt.Fprintln(streams.Err, notify.Fail(err.Error()))
	var usage usageError
	if errors.As(err, &usage) || isCobraUsageError(err) {
		return ExitUsage
	}
	return ExitFailure
}

func newRootCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "folio",
		Short:         "Manage the projects, skills and inbox of a portfolio site",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Example: strings.TrimSpace(`
  # Sign in once; the token is kept in ~/.folio
  folio login --email me@example.com

  # Move the third project to the top
  folio projects move 3 1

  # Reorder interactively
  folio tui
`),
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		return app.init()
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err}
	})

	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", "", "Path to a YAML config file (overrides FOLIO_CONFIG_PATH)")
	cmd.PersistentFlags().BoolVarP(&app.Verbose, "verbose", "v", false, "Log at debug level")

	cmd.AddCommand(newLoginCmd(app))
	cmd.AddCommand(newLogoutCmd(app))
	cmd.AddCommand(newProjectsCmd(app))
	cmd.AddCommand(newSkillsCmd(app))
	cmd.AddCommand(newMessagesCmd(app))
	cmd.AddCommand(newProfileCmd(app))
	cmd.AddCommand(newCVCmd(app))
	cmd.AddCommand(newHistoryCmd(app))
	cmd.AddCommand(newTUICmd(app))
	cmd.AddCommand(newMCPCmd(app))

	return cmd
}

func (a *App) init() error {
	cfg, err := config.Load(config.Options{Path: a.ConfigPath})
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	a.cfg = cfg

	level := parseLogLevel(cfg.Log.Level)
	if a.Verbose {
		level = slog.LevelDebug
	}
	logWriter := a.io.Err
	if cfg.Log.Path != "" {
		fileWriter, err := newLogFileWriter(cfg.Log.Path)
		if err != nil {
			fmt.Fprintln(a.io.Err, notify.Fail(fmt.Sprintf("log file error: %v", err)))
		} else {
			a.closers = append(a.closers, fileWriter)
			logWriter = fileWriter
		}
	}
	a.logger = slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{Level: level}))
	return nil
}

func (a *App) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i].Close()
	}
	a.closers = nil
}

// exactArgs is cobra.ExactArgs reporting a usage error.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return usageError{err}
		}
		return nil
	}
}

func noArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.NoArgs(cmd, args); err != nil {
		return usageError{err}
	}
	return nil
}

func isCobraUsageError(err error) bool {
	msg := err.Error()
	return strings.HasPrefix(msg, "unknown command") ||
		strings.HasPrefix(msg, "unknown flag") ||
		strings.HasPrefix(msg, "unknown shorthand flag")
}

func (a *App) println(format string, args ...any) {
	fmt.Fprintf(a.io.Out, format+"\n", args...)
}

func (a *App) ok(msg string) {
	fmt.Fprintln(a.io.Out, notify.OK(msg))
}

func (a *App) writeJSON(v any) error {
	enc := json.NewEncoder(a.io.Out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
