package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/folio/internal/mcp"
	"github.com/rpggio/folio/internal/metrics"
	"github.com/rpggio/folio/internal/notify"
	"github.com/rpggio/folio/internal/sqlite"
	"github.com/rpggio/folio/internal/transport"
	"github.com/spf13/cobra"
)

const (
	mcpSessionTimeout = 30 * time.Minute
	shutdownTimeout   = 5 * time.Second
)

func newMCPCmd(app *App) *cobra.Command {
	var (
		useHTTP bool
		addr    string
	)

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve the project tools over the Model Context Protocol",
		Long: `Serves list, edit, reorder, search and history tools to MCP clients.

By default the server speaks JSON-RPC on stdin and stdout. With --http it
listens for streamable HTTP on the configured address; callers must send
the FOLIO_MCP_TOKEN as a bearer token. /metrics and /health are open.`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if useHTTP && app.cfg.MCP.Token == "" {
				return usageError{errors.New("--http needs a bearer token: set FOLIO_MCP_TOKEN or mcp.token")}
			}

			var recorder *metrics.Recorder
			opts := sessionOptions{notifier: notify.NewLog(app.logger)}
			if useHTTP {
				recorder = metrics.New()
				opts.observer = recorder
			}
			sess, err := app.projects(opts)
			if err != nil {
				return err
			}
			if recorder != nil {
				defer sess.store.Subscribe(recorder.ObserveStore)()
			}
			activities, err := app.activityService()
			if err != nil {
				return err
			}
			db, err := app.cache()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			defer sess.save(ctx)

			resolver := transport.StaticTokenResolver{Token: app.cfg.MCP.Token, Owner: app.owner()}
			server := mcp.NewServer(mcp.Config{
				Store:       sess.store,
				Coordinator: sess.coord,
				Search:      sqlite.NewSearchRepository(db),
				Cache:       sess.cache,
				Activity:    activities,
				Scope:       app.scope(),
				Resolver:    resolver,
				Version:     Version,
				Logger:      app.logger,
			})

			if !useHTTP {
				app.logger.Info("starting stdio transport")
				if err := server.Run(ctx, &sdkmcp.StdioTransport{}); err != nil && ctx.Err() == nil {
					return fmt.Errorf("stdio server: %w", err)
				}
				return nil
			}

			if addr == "" {
				addr = app.cfg.MCP.Addr()
			}
			handler := sdkmcp.NewStreamableHTTPHandler(
				func(*http.Request) *sdkmcp.Server { return server },
				&sdkmcp.StreamableHTTPOptions{SessionTimeout: mcpSessionTimeout},
			)
			router := transport.NewServer(handler, transport.AuthMiddleware(resolver), recorder.Handler())
			return serveHTTP(ctx, app, addr, router)
		},
	}

	cmd.Flags().BoolVar(&useHTTP, "http", false, "Serve streamable HTTP instead of stdio")
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address for --http (default from config)")
	return cmd
}

// serveHTTP runs handler on addr until ctx is done, then shuts down.
func serveHTTP(ctx context.Context, app *App, addr string, handler http.Handler) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	httpServer := &http.Server{Handler: handler, ReadHeaderTimeout: 10 * time.Second}

	errc := make(chan error, 1)
	go func() {
		app.logger.Info("server listening", "addr", ln.Addr().String())
		errc <- httpServer.Serve(ln)
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	app.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		app.logger.Error("shutdown error", "error", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// owner names the account MCP callers act as in traffic logs.
func (a *App) owner() string {
	ti, err := a.credentials().Get()
	if err != nil || ti == nil || ti.Email == "" {
		return "owner"
	}
	return ti.Email
}
