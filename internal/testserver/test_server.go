// Package testserver runs an in-process fake of the portfolio API.
package testserver

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rpggio/folio/internal/apiclient"
	"github.com/rpggio/folio/internal/domain/inbox"
	"github.com/rpggio/folio/internal/domain/project"
	"github.com/rpggio/folio/internal/domain/skill"
	"github.com/rpggio/folio/internal/transport"
)

// Envelope selects how single-entity and list responses are shaped.
type Envelope int

const (
	// EnvelopeNone sends bare JSON.
	EnvelopeNone Envelope = iota
	// EnvelopeData wraps every body in {"data": ...}.
	EnvelopeData
	// EnvelopeArray sends created and updated entities as one-element arrays.
	EnvelopeArray
	// EnvelopeNoContent answers project updates with 204 and no body.
	EnvelopeNoContent
)

// RecordedRequest is one request the server received.
type RecordedRequest struct {
	Method    string
	Path      string
	RequestID string
	Body      []byte
}

type TestServer struct {
	Server   *httptest.Server
	Token    string
	Email    string
	Password string

	mu          sync.Mutex
	projects    []project.Project
	skills      []skill.Skill
	messages    []inbox.Message
	user        apiclient.User
	cv          []byte
	nextSkillID int
	envelope    Envelope
	failUpdate  map[string]int
	failList    int
	updateGate  chan struct{}
	requests    []RecordedRequest
}

// New starts a fake API accepting token as its only bearer token.
func New(t *testing.T, token string) *TestServer {
	t.Helper()

	ts := &TestServer{
		Token:       token,
		Email:       "owner@example.com",
		Password:    "secret",
		nextSkillID: 1,
		failUpdate:  make(map[string]int),
		user: apiclient.User{
			ID:    "u1",
			Name:  "Portfolio Owner",
			Email: "owner@example.com",
			About: []string{"Builds things."},
		},
	}

	r := chi.NewRouter()
	r.Use(ts.record)
	r.Post("/api/auth/login", ts.handleLogin)
	r.Group(func(r chi.Router) {
		r.Use(transport.AuthMiddleware(transport.StaticTokenResolver{Token: token, Owner: "owner"}))

		r.Post("/api/auth/logout", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
		r.Get("/api/auth/profile", ts.handleGetProfile)
		r.Put("/api/auth/profile", ts.handlePutProfile)

		r.Get("/api/projects", ts.handleListProjects)
		r.Post("/api/projects", ts.handleCreateProject)
		r.Put("/api/projects/{id}", ts.handleUpdateProject)
		r.Delete("/api/projects/{id}", ts.handleDeleteProject)

		r.Get("/api/skills", ts.handleListSkills)
		r.Post("/api/skills", ts.handleCreateSkill)
		r.Put("/api/skills/{id}", ts.handleUpdateSkill)
		r.Delete("/api/skills/{id}", ts.handleDeleteSkill)

		r.Get("/api/messages", ts.handleListMessages)

		r.Get("/api/cv", ts.handleGetCV)
		r.Get("/api/cv/status", ts.handleCVStatus)
		r.Post("/api/cv/upload", ts.handleUploadCV)
		r.Delete("/api/cv", ts.handleDeleteCV)
	})

	ts.Server = httptest.NewServer(r)
	t.Cleanup(ts.Server.Close)
	return ts
}

// URL is the base URL of the fake API.
func (ts *TestServer) URL() string {
	return ts.Server.URL
}

// SeedProjects replaces the stored projects.
func (ts *TestServer) SeedProjects(ps ...project.Project) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.projects = slices.Clone(ps)
}

// Projects returns the stored projects sorted by order.
func (ts *TestServer) Projects() []project.Project {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return ts.sortedProjects()
}

// SeedMessages replaces the inbox.
func (ts *TestServer) SeedMessages(msgs ...inbox.Message) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.messages = slices.Clone(msgs)
}

// SetEnvelope changes the response shape.
func (ts *TestServer) SetEnvelope(e Envelope) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.envelope = e
}

// FailUpdate makes every update of project id answer status.
func (ts *TestServer) FailUpdate(id string, status int) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.failUpdate[id] = status
}

// FailList makes project listing answer status; zero clears it.
func (ts *TestServer) FailList(status int) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.failList = status
}

// HoldUpdates blocks project updates until the returned function is called.
func (ts *TestServer) HoldUpdates() (release func()) {
	gate := make(chan struct{})
	ts.mu.Lock()
	ts.updateGate = gate
	ts.mu.Unlock()
	var once sync.Once
	return func() {
		once.Do(func() {
			ts.mu.Lock()
			ts.updateGate = nil
			ts.mu.Unlock()
			close(gate)
		})
	}
}

// Requests returns every request received so far.
func (ts *TestServer) Requests() []RecordedRequest {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return slices.Clone(ts.requests)
}

// CountRequests counts requests matching method and path prefix.
func (ts *TestServer) CountRequests(method, pathPrefix string) int {
	n := 0
	for _, r := range ts.Requests() {
		if r.Method == method && strings.HasPrefix(r.Path, pathPrefix) {
			n++
		}
	}
	return n
}

func (ts *TestServer) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body []byte
		if r.Body != nil && !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
			body, _ = io.ReadAll(r.Body)
			r.Body = io.NopCloser(bytes.NewReader(body))
		}
		ts.mu.Lock()
		ts.requests = append(ts.requests, RecordedRequest{
			Method:    r.Method,
			Path:      r.URL.Path,
			RequestID: r.Header.Get("X-Request-ID"),
			Body:      body,
		})
		ts.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (ts *TestServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if creds.Email != ts.Email || creds.Password != ts.Password {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	ts.mu.Lock()
	user := ts.user
	ts.mu.Unlock()
	writeJSON(w, http.StatusOK, apiclient.Session{User: user, Token: ts.Token})
}

func (ts *TestServer) handleGetProfile(w http.ResponseWriter, _ *http.Request) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"user": ts.user})
}

func (ts *TestServer) handlePutProfile(w http.ResponseWriter, r *http.Request) {
	var user apiclient.User
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	ts.mu.Lock()
	defer ts.mu.Unlock()
	user.ID = ts.user.ID
	ts.user = user
	writeJSON(w, http.StatusOK, map[string]any{"user": ts.user})
}

func (ts *TestServer) handleListProjects(w http.ResponseWriter, _ *http.Request) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	if ts.failList != 0 {
		writeError(w, ts.failList, "list failed")
		return
	}
	ts.writeList(w, ts.sortedProjects())
}

func (ts *TestServer) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var draft project.Draft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	now := time.Now().UTC()
	p := project.Project{
		ID:           uuid.NewString(),
		Title:        draft.Title,
		Description:  draft.Description,
		ImageURL:     draft.ImageURL,
		LiveURL:      draft.LiveURL,
		GithubURL:    draft.GithubURL,
		Technologies: draft.Technologies,
		Order:        draft.Order,
		CreatedAt:    now,
		UpdatedAt:    now,
		UserID:       "u1",
		Type:         draft.Type,
		Category:     draft.Category,
		Status:       draft.Status,
		Year:         draft.Year,
	}

	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.projects = append(ts.projects, p)
	ts.writeEntity(w, http.StatusCreated, p)
}

func (ts *TestServer) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var patch project.Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}

	ts.mu.Lock()
	gate := ts.updateGate
	ts.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-r.Context().Done():
			return
		}
	}

	ts.mu.Lock()
	defer ts.mu.Unlock()
	if status, ok := ts.failUpdate[id]; ok {
		writeError(w, status, "update failed")
		return
	}
	i := slices.IndexFunc(ts.projects, func(p project.Project) bool { return p.ID == id })
	if i < 0 {
		writeError(w, http.StatusNotFound, "Project not found")
		return
	}
	ts.projects[i] = patch.Apply(ts.projects[i])
	if patch.UpdatedAt == nil {
		ts.projects[i].UpdatedAt = time.Now().UTC()
	}
	if ts.envelope == EnvelopeNoContent {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	ts.writeEntity(w, http.StatusOK, ts.projects[i])
}

func (ts *TestServer) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ts.mu.Lock()
	defer ts.mu.Unlock()
	i := slices.IndexFunc(ts.projects, func(p project.Project) bool { return p.ID == id })
	if i < 0 {
		writeError(w, http.StatusNotFound, "Project not found")
		return
	}
	ts.projects = slices.Delete(ts.projects, i, i+1)
	w.WriteHeader(http.StatusNoContent)
}

func (ts *TestServer) handleListSkills(w http.ResponseWriter, _ *http.Request) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.writeList(w, ts.skills)
}

func (ts *TestServer) handleCreateSkill(w http.ResponseWriter, r *http.Request) {
	var draft skill.Draft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	ts.mu.Lock()
	defer ts.mu.Unlock()
	s := skill.Skill{
		ID:        ts.nextSkillID,
		Category:  draft.Category,
		Color:     draft.Color,
		Icon:      draft.Icon,
		Items:     draft.Items,
		CreatedAt: time.Now().UTC(),
	}
	ts.nextSkillID++
	ts.skills = append(ts.skills, s)
	ts.writeEntity(w, http.StatusCreated, s)
}

func (ts *TestServer) handleUpdateSkill(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var patch skill.Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	ts.mu.Lock()
	defer ts.mu.Unlock()
	i := slices.IndexFunc(ts.skills, func(s skill.Skill) bool { return s.ID == id })
	if i < 0 {
		writeError(w, http.StatusNotFound, "Skill not found")
		return
	}
	s := &ts.skills[i]
	if patch.Category != nil {
		s.Category = *patch.Category
	}
	if patch.Color != nil {
		s.Color = *patch.Color
	}
	if patch.Icon != nil {
		s.Icon = *patch.Icon
	}
	if patch.Items != nil {
		s.Items = patch.Items
	}
	ts.writeEntity(w, http.StatusOK, *s)
}

func (ts *TestServer) handleDeleteSkill(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))
	ts.mu.Lock()
	defer ts.mu.Unlock()
	i := slices.IndexFunc(ts.skills, func(s skill.Skill) bool { return s.ID == id })
	if i < 0 {
		writeError(w, http.StatusNotFound, "Skill not found")
		return
	}
	ts.skills = slices.Delete(ts.skills, i, i+1)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Skill deleted"})
}

func (ts *TestServer) handleListMessages(w http.ResponseWriter, _ *http.Request) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"messages": ts.messages})
}

func (ts *TestServer) handleGetCV(w http.ResponseWriter, _ *http.Request) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	if ts.cv == nil {
		writeError(w, http.StatusNotFound, "CV not found")
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	_, _ = w.Write(ts.cv)
}

func (ts *TestServer) handleCVStatus(w http.ResponseWriter, _ *http.Request) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]bool{"exists": ts.cv != nil})
}

func (ts *TestServer) handleUploadCV(w http.ResponseWriter, r *http.Request) {
	file, _, err := r.FormFile("cv")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "missing cv field"})
		return
	}
	defer file.Close()
	content, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unreadable upload")
		return
	}
	ts.mu.Lock()
	ts.cv = content
	ts.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "CV uploaded"})
}

func (ts *TestServer) handleDeleteCV(w http.ResponseWriter, _ *http.Request) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.cv = nil
	writeJSON(w, http.StatusOK, map[string]string{"message": "CV deleted"})
}

// sortedProjects must be called with mu held.
func (ts *TestServer) sortedProjects() []project.Project {
	out := slices.Clone(ts.projects)
	slices.SortStableFunc(out, func(a, b project.Project) int { return a.Order - b.Order })
	return out
}

func (ts *TestServer) writeList(w http.ResponseWriter, v any) {
	if ts.envelope == EnvelopeData {
		writeJSON(w, http.StatusOK, map[string]any{"data": v})
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (ts *TestServer) writeEntity(w http.ResponseWriter, status int, v any) {
	switch ts.envelope {
	case EnvelopeData:
		writeJSON(w, status, map[string]any{"data": v})
	case EnvelopeArray:
		writeJSON(w, status, []any{v})
	default:
		writeJSON(w, status, v)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}
