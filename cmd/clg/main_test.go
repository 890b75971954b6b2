package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/fwojciec/coverletter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

const testToken = "access-1"

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func authorized(w http.ResponseWriter, r *http.Request) bool {
	if r.Header.Get("Authorization") != "Bearer "+testToken {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid token"})
		return false
	}
	return true
}

// fakeAPI serves the endpoints the CLI talks to.
func fakeAPI(t *testing.T) *httptest.Server {
	t.Helper()
	letter := map[string]any{
		"id":               "cl-9",
		"job_requirements": "Go developer",
		"content":          "Dear Hiring Manager,\n\nI am a **Go** developer.",
		"pdf_status":       "completed",
		"pdf_url":          "https://cdn.example.com/cl-9.pdf",
		"created_at":       "2026-01-02T03:04:05Z",
	}
	var statusCalls atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body struct{ Email, Password string }
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Password != "secret" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid credentials"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"user":   map[string]string{"id": "u1", "email": body.Email},
			"tokens": map[string]any{"access_token": testToken, "refresh_token": "refresh-1", "expires_in": 3600},
		})
	})
	mux.HandleFunc("POST /auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"tokens": map[string]any{"access_token": testToken, "expires_in": 3600},
		})
	})
	mux.HandleFunc("GET /cover-letters", func(w http.ResponseWriter, r *http.Request) {
		if !authorized(w, r) {
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"cover_letters": []any{letter}, "count": 3})
	})
	mux.HandleFunc("GET /cover-letters/{id}", func(w http.ResponseWriter, r *http.Request) {
		if !authorized(w, r) {
			return
		}
		if r.PathValue("id") != "cl-9" {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Cover letter not found"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"cover_letter": letter})
	})
	mux.HandleFunc("POST /cover-letters/generate", func(w http.ResponseWriter, r *http.Request) {
		if !authorized(w, r) {
			return
		}
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: \"Dear Hiring Manager,\\n\\n\"\n\n")
		fmt.Fprint(w, "data: \"I am a Go developer.\"\n\n")
		fmt.Fprint(w, "event: complete\ndata: {\"cover_letter_id\":\"cl-9\"}\n\n")
	})
	mux.HandleFunc("POST /cover-letters/{id}/pdf", func(w http.ResponseWriter, r *http.Request) {
		if !authorized(w, r) {
			return
		}
		writeJSON(w, http.StatusAccepted, map[string]string{"message": "queued", "cover_letter_id": r.PathValue("id")})
	})
	mux.HandleFunc("GET /cover-letters/{id}/pdf/status", func(w http.ResponseWriter, r *http.Request) {
		if !authorized(w, r) {
			return
		}
		status := "pending"
		if statusCalls.Add(1) > 1 {
			status = "completed"
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": status, "cover_letter_id": r.PathValue("id")})
	})
	mux.HandleFunc("GET /cover-letters/{id}/pdf/download", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/files/"+r.PathValue("id")+".pdf", http.StatusFound)
	})
	mux.HandleFunc("GET /files/{name}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		fmt.Fprint(w, "%PDF-1.4")
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

type harness struct {
	t      *testing.T
	dir    string
	config string
	srv    *httptest.Server
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{t: t, dir: t.TempDir(), srv: fakeAPI(t)}
	h.config = filepath.Join(h.dir, "config.yaml")
	cfg := fmt.Sprintf(`api:
  base_url: %s
auth:
  store: file
  path: %s
poll:
  max_attempts: 5
  interval: 0s
log:
  level: disabled
metrics:
  textfile: %s
export:
  width: 60
  margin: 0
`, h.srv.URL, filepath.Join(h.dir, "credentials.json"), filepath.Join(h.dir, "clg.prom"))
	require.NoError(t, os.WriteFile(h.config, []byte(cfg), 0o600))
	return h
}

func testApp(in io.Reader, out, errOut io.Writer) *cli.App {
	app := newApp()
	app.Reader = in
	app.Writer = out
	app.ErrWriter = errOut
	app.ExitErrHandler = func(*cli.Context, error) {}
	return app
}

func (h *harness) run(stdin string, args ...string) (string, string, error) {
	h.t.Helper()
	var out, errOut bytes.Buffer
	app := testApp(strings.NewReader(stdin), &out, &errOut)
	err := app.Run(append([]string{"clg", "--config", h.config}, args...))
	return out.String(), errOut.String(), err
}

func (h *harness) mustRun(args ...string) (string, string) {
	h.t.Helper()
	out, errOut, err := h.run("", args...)
	require.NoError(h.t, err, "stderr: %s", errOut)
	return out, errOut
}

func (h *harness) login() {
	h.t.Helper()
	h.mustRun("login", "--email", "a@example.com", "--password", "secret")
}

func TestApp_Auth(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	out, _, err := h.run("secret\n", "login", "--email", "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Logged in as a@example.com\n", out)

	out, _ = h.mustRun("whoami")
	assert.Contains(t, out, "a@example.com (u1)")
	assert.NotContains(t, out, "expired")

	out, _ = h.mustRun("refresh")
	assert.Contains(t, out, "Token refreshed")
	out, _ = h.mustRun("whoami")
	assert.Contains(t, out, "a@example.com (u1)", "refresh keeps the stored user")

	out, _ = h.mustRun("logout")
	assert.Equal(t, "Logged out\n", out)

	_, _, err = h.run("", "whoami")
	var exitErr cli.ExitCoder
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 3, exitErr.ExitCode())
}

func TestApp_LoginRejected(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	_, _, err := h.run("", "login", "--email", "a@example.com", "--password", "wrong")
	assert.ErrorIs(t, err, coverletter.ErrUnauthenticated)
	assert.ErrorContains(t, err, "Invalid credentials")

	_, _, err = h.run("", "login", "--email", "a@example.com")
	assert.ErrorIs(t, err, coverletter.ErrValidation, "empty stdin")
}

func TestApp_RequiresLogin(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	_, _, err := h.run("", "list")
	assert.ErrorIs(t, err, coverletter.ErrUnauthenticated)
	assert.Equal(t, 3, exitCode(err))
}

func TestApp_GenerateAndExport(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.login()

	saved := filepath.Join(h.dir, "letter.json")
	out, errOut := h.mustRun("generate", "--job", "Go developer", "--save", saved)
	assert.Equal(t, "Dear Hiring Manager,\n\nI am a Go developer.\n", out)
	assert.Contains(t, errOut, "Cover letter id: cl-9")
	assert.Contains(t, errOut, "Saved to "+saved)

	metrics, err := os.ReadFile(filepath.Join(h.dir, "clg.prom"))
	require.NoError(t, err)
	assert.Contains(t, string(metrics), `coverletter_generations_total{outcome="ok"} 1`)
	assert.Contains(t, string(metrics), "coverletter_chunks_total 2")

	out, _ = h.mustRun("export", "--from", saved, "--format", "html")
	assert.Contains(t, out, "<!DOCTYPE html>")
	assert.Contains(t, out, `<div class="greeting">`)
	assert.Contains(t, out, `<p class="signature">Sincerely,</p>`)

	txt := filepath.Join(h.dir, "letter.txt")
	_, errOut = h.mustRun("export", "--from", saved, "--out", txt)
	assert.Contains(t, errOut, "Wrote "+txt)
	data, err := os.ReadFile(txt)
	require.NoError(t, err)
	assert.Equal(t, "Dear Hiring Manager,\n\nI am a Go developer.\n\nSincerely,\n", string(data))

	_, _, err = h.run("", "export", "--from", saved, "--format", "docx")
	assert.ErrorIs(t, err, coverletter.ErrValidation)
}

func TestApp_GenerateValidation(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.login()

	_, _, err := h.run("", "generate")
	assert.ErrorIs(t, err, coverletter.ErrValidation)
	assert.Equal(t, 2, exitCode(err))
}

func TestApp_History(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.login()

	out, errOut := h.mustRun("list")
	assert.Contains(t, out, "cl-9")
	assert.Contains(t, out, "completed")
	assert.Contains(t, out, "Go developer")
	assert.Contains(t, errOut, "Showing 1 of 3")

	out, _ = h.mustRun("show", "cl-9")
	assert.Contains(t, out, "cl-9")
	assert.Contains(t, out, "Go")

	_, _, err := h.run("", "show", "nope")
	assert.ErrorContains(t, err, "Cover letter not found")

	_, _, err = h.run("", "show")
	assert.ErrorIs(t, err, coverletter.ErrValidation)

	out, _ = h.mustRun("export", "cl-9")
	assert.Contains(t, out, "I am a **Go** developer.")
}

func TestApp_PDF(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.login()

	out, errOut := h.mustRun("pdf", "--no-progress", "cl-9")
	assert.Equal(t, h.srv.URL+"/files/cl-9.pdf\n", out)
	assert.Contains(t, errOut, "cl-9: pending (attempt 1/5)")
	assert.Contains(t, errOut, "cl-9: completed (attempt 2/5)")
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	_, err := loadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("poll:\n  max_attempts: -1\n"), 0o600))
	_, err = loadConfig(path)
	assert.ErrorIs(t, err, coverletter.ErrValidation)
}

func TestOpenCommand(t *testing.T) {
	t.Parallel()

	name, args := openCommand("darwin", "https://x/y.pdf")
	assert.Equal(t, "open", name)
	assert.Equal(t, []string{"https://x/y.pdf"}, args)

	name, args = openCommand("windows", "https://x/y.pdf")
	assert.Equal(t, "rundll32", name)
	assert.Equal(t, []string{"url.dll,FileProtocolHandler", "https://x/y.pdf"}, args)

	name, _ = openCommand("linux", "https://x/y.pdf")
	assert.Equal(t, "xdg-open", name)
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1, exitCode(errors.New("boom")))
	assert.Equal(t, 2, exitCode(fmt.Errorf("x: %w", coverletter.ErrValidation)))
	assert.Equal(t, 3, exitCode(&coverletter.APIError{StatusCode: http.StatusUnauthorized}))
}
