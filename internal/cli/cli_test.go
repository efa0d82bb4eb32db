package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rpggio/folio/internal/cli"
	"github.com/rpggio/folio/internal/domain/inbox"
	"github.com/rpggio/folio/internal/domain/project"
	"github.com/rpggio/folio/internal/testserver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const token = "cli-token"

type harness struct {
	t   *testing.T
	api *testserver.TestServer
	dir string
}

type result struct {
	out, err string
	code     int
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	api := testserver.New(t, token)
	dir := t.TempDir()
	t.Chdir(dir)

	t.Setenv("FOLIO_API_URL", api.URL())
	t.Setenv("FOLIO_CACHE_PATH", filepath.Join(dir, "cache.db"))
	t.Setenv("FOLIO_CREDENTIALS_DIR", filepath.Join(dir, "creds"))
	t.Setenv("FOLIO_LOG_LEVEL", "error")
	for _, key := range []string{"FOLIO_TOKEN", "FOLIO_CONFIG_PATH", "FOLIO_LOG_PATH", "FOLIO_PASSWORD", "FOLIO_MCP_TOKEN", "GLAMOUR_STYLE"} {
		t.Setenv(key, "")
	}
	return &harness{t: t, api: api, dir: dir}
}

func (h *harness) loggedIn() *harness {
	h.t.Setenv("FOLIO_TOKEN", token)
	return h
}

func (h *harness) run(args ...string) result {
	h.t.Helper()
	var out, errb bytes.Buffer
	code := cli.Execute(context.Background(), args, cli.IO{In: strings.NewReader(""), Out: &out, Err: &errb})
	return result{out: out.String(), err: errb.String(), code: code}
}

func seed(ids ...string) []project.Project {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]project.Project, len(ids))
	for i, id := range ids {
		out[i] = project.Project{
			ID:           id,
			Title:        "Project " + strings.ToUpper(id),
			Description:  "About **" + id + "**",
			ImageURL:     "https://img.example.com/" + id + ".png",
			LiveURL:      "https://" + id + ".example.com",
			Technologies: []string{"go"},
			Order:        i + 1,
			CreatedAt:    created,
			UpdatedAt:    created,
		}
	}
	return out
}

func serverIDs(api *testserver.TestServer) []string {
	var ids []string
	for _, p := range api.Projects() {
		ids = append(ids, p.ID)
	}
	return ids
}

func TestLoginStoresCredentials(t *testing.T) {
	h := newHarness(t)
	h.api.SeedProjects(seed("a")...)

	res := h.run("login", "--email", h.api.Email, "--password", h.api.Password)
	require.Equal(t, cli.ExitOK, res.code, res.err)
	assert.Contains(t, res.out, "Logged in as Portfolio Owner")

	_, err := os.Stat(filepath.Join(h.dir, "creds", "credentials.json"))
	require.NoError(t, err)

	res = h.run("projects", "list")
	require.Equal(t, cli.ExitOK, res.code, res.err)
	assert.Contains(t, res.out, "Project A")

	res = h.run("logout")
	require.Equal(t, cli.ExitOK, res.code, res.err)
	assert.Equal(t, 1, h.api.CountRequests(http.MethodPost, "/api/auth/logout"))

	res = h.run("projects", "list")
	assert.Equal(t, cli.ExitFailure, res.code)
	assert.Contains(t, res.err, "not logged in")
}

func TestLoginPasswordFromEnvironment(t *testing.T) {
	h := newHarness(t)
	t.Setenv("FOLIO_PASSWORD", h.api.Password)

	res := h.run("login", "--email", h.api.Email)
	require.Equal(t, cli.ExitOK, res.code, res.err)
}

func TestLoginRejected(t *testing.T) {
	h := newHarness(t)

	res := h.run("login", "--email", h.api.Email, "--password", "wrong")
	assert.Equal(t, cli.ExitFailure, res.code)
	assert.Contains(t, res.err, "Invalid credentials")
}

func TestUsageErrors(t *testing.T) {
	h := newHarness(t).loggedIn()
	h.api.SeedProjects(seed("a", "b")...)

	cases := map[string][]string{
		"unknown command":    {"frobnicate"},
		"unknown flag":       {"projects", "list", "--bogus"},
		"login without args": {"login"},
		"missing argument":   {"projects", "show"},
		"bad position":       {"projects", "move", "x", "1"},
		"position too large": {"projects", "move", "1", "5"},
		"bad skill id":       {"skills", "rm", "abc"},
		"empty edit":         {"projects", "edit", "a"},
		"unknown history":    {"history", "--type", "bogus"},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			res := h.run(args...)
			assert.Equal(t, cli.ExitUsage, res.code, res.err)
			assert.Contains(t, res.err, "✖")
		})
	}
}

func TestProjectsList(t *testing.T) {
	h := newHarness(t).loggedIn()
	h.api.SeedProjects(seed("a", "b", "c")...)

	res := h.run("projects", "list")
	require.Equal(t, cli.ExitOK, res.code, res.err)
	assert.Contains(t, res.out, "Project A")
	assert.Contains(t, res.out, "Project C")
	assert.Less(t, strings.Index(res.out, "Project A"), strings.Index(res.out, "Project C"))

	res = h.run("projects", "list", "--json")
	require.Equal(t, cli.ExitOK, res.code, res.err)
	var items []project.Project
	require.NoError(t, json.Unmarshal([]byte(res.out), &items))
	require.Len(t, items, 3)
	assert.Equal(t, "b", items[1].ID)
}

func TestProjectsListWarnsAboutGaps(t *testing.T) {
	h := newHarness(t).loggedIn()
	ps := seed("a", "b")
	ps[1].Order = 7
	h.api.SeedProjects(ps...)

	res := h.run("projects", "list")
	require.Equal(t, cli.ExitOK, res.code, res.err)
	assert.Contains(t, res.err, "projects normalize")
}

func TestProjectsListCached(t *testing.T) {
	h := newHarness(t).loggedIn()
	h.api.SeedProjects(seed("a", "b")...)

	res := h.run("projects", "list", "--cached")
	assert.Equal(t, cli.ExitFailure, res.code)
	assert.Contains(t, res.err, "no cached projects")

	require.Equal(t, cli.ExitOK, h.run("projects", "list").code)

	h.api.FailList(http.StatusInternalServerError)
	res = h.run("projects", "list", "--cached", "--json")
	require.Equal(t, cli.ExitOK, res.code, res.err)
	var items []project.Project
	require.NoError(t, json.Unmarshal([]byte(res.out), &items))
	assert.Len(t, items, 2)
}

func TestProjectsShow(t *testing.T) {
	h := newHarness(t).loggedIn()
	h.api.SeedProjects(seed("a", "b")...)

	res := h.run("projects", "show", "b")
	require.Equal(t, cli.ExitOK, res.code, res.err)
	assert.Contains(t, res.out, "Project B")
	assert.Contains(t, res.out, "position  2")
	assert.Contains(t, res.out, "About")

	res = h.run("projects", "show", "zzz")
	assert.Equal(t, cli.ExitFailure, res.code)
	assert.Contains(t, res.err, "project not found")
}

func TestProjectsMove(t *testing.T) {
	h := newHarness(t).loggedIn()
	h.api.SeedProjects(seed("a", "b", "c")...)

	res := h.run("projects", "move", "3", "1")
	require.Equal(t, cli.ExitOK, res.code, res.err)
	assert.Equal(t, []string{"c", "a", "b"}, serverIDs(h.api))
	assert.Contains(t, res.out, "c  3 → 1")
	assert.Contains(t, res.err, "Project order updated")
	assert.Equal(t, 3, h.api.CountRequests(http.MethodPut, "/api/projects/"))

	res = h.run("history", "--type", "projects_reordered")
	require.Equal(t, cli.ExitOK, res.code, res.err)
	assert.Contains(t, res.out, "moved project c from position 3 to 1")
}

func TestProjectsMoveSamePosition(t *testing.T) {
	h := newHarness(t).loggedIn()
	h.api.SeedProjects(seed("a", "b")...)

	res := h.run("projects", "move", "2", "2")
	require.Equal(t, cli.ExitOK, res.code, res.err)
	assert.Contains(t, res.out, "Nothing to move")
	assert.Zero(t, h.api.CountRequests(http.MethodPut, "/api/projects/"))
}

func TestProjectsMoveFailure(t *testing.T) {
	h := newHarness(t).loggedIn()
	h.api.SeedProjects(seed("a", "b", "c")...)
	h.api.FailUpdate("b", http.StatusInternalServerError)

	res := h.run("projects", "move", "2", "1")
	assert.Equal(t, cli.ExitFailure, res.code)
	assert.Contains(t, res.err, "order updates failed")
	assert.Equal(t, 1, strings.Count(res.err, "✖"))

	res = h.run("history", "--type", "reorder_failed", "--json")
	require.Equal(t, cli.ExitOK, res.code, res.err)
	assert.Contains(t, res.out, "reorder_failed")
}

func TestProjectsNormalize(t *testing.T) {
	h := newHarness(t).loggedIn()
	ps := seed("a", "b", "c")
	ps[0].Order, ps[1].Order, ps[2].Order = 4, 4, 9
	h.api.SeedProjects(ps...)

	res := h.run("projects", "normalize")
	require.Equal(t, cli.ExitOK, res.code, res.err)
	for i, p := range h.api.Projects() {
		assert.Equal(t, i+1, p.Order)
	}

	res = h.run("projects", "normalize")
	require.Equal(t, cli.ExitOK, res.code, res.err)
	assert.Contains(t, res.out, "already contiguous")
}

func TestProjectsAddEditRemove(t *testing.T) {
	h := newHarness(t).loggedIn()
	h.api.SeedProjects(seed("a", "b")...)

	res := h.run("projects", "add",
		"--title", "New thing",
		"--description", "Fresh",
		"--image", "https://img.example.com/n.png",
		"--live", "https://n.example.com",
		"--tech", "go,sqlite",
		"--status", "featured")
	require.Equal(t, cli.ExitOK, res.code, res.err)
	assert.Contains(t, res.out, "(order 3)")

	all := h.api.Projects()
	require.Len(t, all, 3)
	created := all[2]
	assert.Equal(t, "New thing", created.Title)
	assert.Equal(t, []string{"go", "sqlite"}, created.Technologies)

	res = h.run("projects", "edit", created.ID, "--title", "Renamed")
	require.Equal(t, cli.ExitOK, res.code, res.err)
	assert.Equal(t, "Renamed", h.api.Projects()[2].Title)
	assert.Equal(t, "Fresh", h.api.Projects()[2].Description)

	res = h.run("projects", "edit", created.ID, "--tech", "")
	require.Equal(t, cli.ExitOK, res.code, res.err)
	assert.Empty(t, h.api.Projects()[2].Technologies)
	assert.Equal(t, "Renamed", h.api.Projects()[2].Title)

	res = h.run("projects", "rm", created.ID)
	require.Equal(t, cli.ExitOK, res.code, res.err)
	assert.Equal(t, []string{"a", "b"}, serverIDs(h.api))

	res = h.run("history", "--project", created.ID)
	require.Equal(t, cli.ExitOK, res.code, res.err)
	assert.Contains(t, res.out, "project_created")
	assert.Contains(t, res.out, "project_deleted")
}

func TestProjectsAddInvalid(t *testing.T) {
	h := newHarness(t).loggedIn()

	res := h.run("projects", "add", "--title", "x")
	assert.Equal(t, cli.ExitFailure, res.code)
	assert.Contains(t, res.err, "description is required")
	assert.Zero(t, h.api.CountRequests(http.MethodPost, "/api/projects"))
}

func TestProjectsSearch(t *testing.T) {
	h := newHarness(t).loggedIn()
	ps := seed("a", "b")
	ps[1].Title = "Weather dashboard"
	h.api.SeedProjects(ps...)

	res := h.run("projects", "search", "weather")
	require.Equal(t, cli.ExitOK, res.code, res.err)
	assert.Contains(t, res.out, "Weather dashboard")
	assert.NotContains(t, res.out, "Project A")

	res = h.run("projects", "search", "nothingmatches")
	require.Equal(t, cli.ExitOK, res.code, res.err)
	assert.Contains(t, res.out, "no matches")
}

func TestSkills(t *testing.T) {
	h := newHarness(t).loggedIn()

	res := h.run("skills", "add", "--category", "Backend", "--icon", "Database", "--items", "Go,Postgres")
	require.Equal(t, cli.ExitOK, res.code, res.err)
	assert.Contains(t, res.out, "Created skill 1 (Backend)")

	res = h.run("skills", "edit", "1", "--color", "#ff0000")
	require.Equal(t, cli.ExitOK, res.code, res.err)

	res = h.run("skills", "list")
	require.Equal(t, cli.ExitOK, res.code, res.err)
	assert.Contains(t, res.out, "Backend")
	assert.Contains(t, res.out, "Go, Postgres")
	assert.Contains(t, res.out, "#ff0000")

	res = h.run("skills", "add", "--category", "Bad", "--color", "red")
	assert.Equal(t, cli.ExitFailure, res.code)
	assert.Contains(t, res.err, "hex color")

	res = h.run("skills", "rm", "1")
	require.Equal(t, cli.ExitOK, res.code, res.err)
	res = h.run("skills", "list", "--json")
	require.Equal(t, cli.ExitOK, res.code, res.err)
	assert.JSONEq(t, "[]", res.out)
}

func TestMessages(t *testing.T) {
	h := newHarness(t).loggedIn()
	h.api.SeedMessages(
		inbox.Message{ID: 1, Name: "Ann", Email: "ann@example.com", Message: "Older", CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		inbox.Message{ID: 2, Name: "Bob", Email: "bob@example.com", Message: "Newer hello", CreatedAt: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)},
	)

	res := h.run("messages", "list")
	require.Equal(t, cli.ExitOK, res.code, res.err)
	assert.Less(t, strings.Index(res.out, "Bob"), strings.Index(res.out, "Ann"))

	res = h.run("messages", "show", "2")
	require.Equal(t, cli.ExitOK, res.code, res.err)
	assert.Contains(t, res.out, "Newer hello")

	res = h.run("messages", "show", "9")
	assert.Equal(t, cli.ExitFailure, res.code)
	assert.Contains(t, res.err, "message not found")
}

func TestProfile(t *testing.T) {
	h := newHarness(t).loggedIn()

	res := h.run("profile", "set", "--github", "https://github.com/owner", "--about", "First.", "--about", "Second.")
	require.Equal(t, cli.ExitOK, res.code, res.err)

	res = h.run("profile", "show", "--json")
	require.Equal(t, cli.ExitOK, res.code, res.err)
	var user struct {
		Name   string   `json:"name"`
		Github string   `json:"github"`
		About  []string `json:"about"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.out), &user))
	assert.Equal(t, "Portfolio Owner", user.Name)
	assert.Equal(t, "https://github.com/owner", user.Github)
	assert.Equal(t, []string{"First.", "Second."}, user.About)

	res = h.run("profile", "set")
	assert.Equal(t, cli.ExitUsage, res.code)
}

func TestCV(t *testing.T) {
	h := newHarness(t).loggedIn()
	pdf := filepath.Join(h.dir, "resume.pdf")
	require.NoError(t, os.WriteFile(pdf, []byte("%PDF-1.4 resume"), 0o600))
	notPDF := filepath.Join(h.dir, "resume.txt")
	require.NoError(t, os.WriteFile(notPDF, []byte("plain"), 0o600))

	res := h.run("cv", "status")
	require.Equal(t, cli.ExitOK, res.code, res.err)
	assert.Contains(t, res.out, "No CV stored")

	res = h.run("cv", "upload", notPDF)
	assert.Equal(t, cli.ExitFailure, res.code)
	assert.Zero(t, h.api.CountRequests(http.MethodPost, "/api/cv/upload"))

	res = h.run("cv", "upload", pdf)
	require.Equal(t, cli.ExitOK, res.code, res.err)
	assert.Contains(t, res.out, "Uploaded resume.pdf")

	out := filepath.Join(h.dir, "copy.pdf")
	res = h.run("cv", "download", "--out", out)
	require.Equal(t, cli.ExitOK, res.code, res.err)
	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 resume", string(got))

	res = h.run("cv", "rm")
	require.Equal(t, cli.ExitOK, res.code, res.err)

	missing := filepath.Join(h.dir, "missing.pdf")
	res = h.run("cv", "download", "-o", missing)
	assert.Equal(t, cli.ExitFailure, res.code)
	_, err = os.Stat(missing)
	assert.True(t, os.IsNotExist(err))
}

func TestHistoryEmpty(t *testing.T) {
	h := newHarness(t)

	res := h.run("history")
	require.Equal(t, cli.ExitOK, res.code, res.err)
	assert.Contains(t, res.out, "no activity recorded")
}

func TestMCPHTTPNeedsToken(t *testing.T) {
	h := newHarness(t).loggedIn()

	res := h.run("mcp", "--http")
	assert.Equal(t, cli.ExitUsage, res.code)
	assert.Contains(t, res.err, "FOLIO_MCP_TOKEN")
}

func TestConfigFile(t *testing.T) {
	h := newHarness(t).loggedIn()
	h.api.SeedProjects(seed("a")...)
	t.Setenv("FOLIO_API_URL", "")
	cfg := filepath.Join(h.dir, "folio.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte(fmt.Sprintf("api:\n  url: %s\n", h.api.URL())), 0o600))

	res := h.run("--config", cfg, "projects", "list")
	require.Equal(t, cli.ExitOK, res.code, res.err)
	assert.Contains(t, res.out, "Project A")
}
