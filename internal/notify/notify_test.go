package notify_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/rpggio/folio/internal/domain/project"
	"github.com/rpggio/folio/internal/notify"
	"github.com/stretchr/testify/require"
)

var (
	_ project.Notifier = (*notify.Terminal)(nil)
	_ project.Notifier = (*notify.Log)(nil)
	_ project.Notifier = notify.Multi(nil)
)

func TestTerminal_LoadingPrintedOncePerID(t *testing.T) {
	var out bytes.Buffer
	term := notify.NewTerminal(&out, nil, false)

	term.Loading("reorder-1", "Updating project order...")
	term.Loading("reorder-1", "Updating project order...")
	require.Equal(t, 1, term.Active())
	require.Equal(t, 1, bytes.Count(out.Bytes(), []byte("Updating project order...")))

	term.Dismiss("reorder-1")
	term.Dismiss("unknown")
	require.Equal(t, 0, term.Active())
}

func TestTerminal_QuietSuppressesLoading(t *testing.T) {
	var out bytes.Buffer
	term := notify.NewTerminal(&out, nil, true)

	term.Loading("reorder-1", "Updating project order...")
	require.Empty(t, out.String())
	require.Equal(t, 1, term.Active())
}

func TestTerminal_SuccessAndErrorStreams(t *testing.T) {
	var out, errw bytes.Buffer
	term := notify.NewTerminal(&out, &errw, false)

	term.Success("Project order updated")
	term.Error("Failed to update project order")

	require.Contains(t, out.String(), "✔ Project order updated")
	require.NotContains(t, out.String(), "Failed")
	require.Contains(t, errw.String(), "✖ Failed to update project order")
}

func TestTerminal_NilErrorWriterDropsErrors(t *testing.T) {
	var out bytes.Buffer
	term := notify.NewTerminal(&out, nil, false)

	term.Error("Failed to update project order")
	require.Empty(t, out.String())
}

func TestLog_WritesStructuredEntries(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	n := notify.NewLog(logger)

	n.Loading("normalize-3", "Normalizing project order...")
	n.Dismiss("normalize-3")
	n.Success("Project order normalized")
	n.Error("Failed to normalize project order")

	logged := buf.String()
	require.Contains(t, logged, "notification loading")
	require.Contains(t, logged, "id=normalize-3")
	require.Contains(t, logged, "notification dismissed")
	require.Contains(t, logged, "kind=success")
	require.Contains(t, logged, `message="Failed to normalize project order"`)
}

func TestLog_NilLogger(t *testing.T) {
	n := notify.NewLog(nil)
	require.NotPanics(t, func() {
		n.Dismiss("never-loaded")
		n.Success("ok")
	})
}

func TestMulti_FansOut(t *testing.T) {
	var a, b bytes.Buffer
	first := notify.NewTerminal(&a, nil, false)
	second := notify.NewTerminal(&b, nil, false)
	m := notify.Multi{first, second}

	m.Loading("reorder-1", "Updating project order...")
	require.Equal(t, 1, first.Active())
	require.Equal(t, 1, second.Active())

	m.Dismiss("reorder-1")
	m.Success("Project order updated")
	require.Zero(t, first.Active())
	require.Contains(t, a.String(), "Project order updated")
	require.Contains(t, b.String(), "Project order updated")
}
